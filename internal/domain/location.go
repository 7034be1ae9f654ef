package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/geocoder"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/numberutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LocationDomain interface {
	GetList(context.Context, *model.GetListLocationRequest) (*model.GetListLocationResponse, error)
	Get(context.Context, *model.GetLocationRequest) (*model.GetLocationResponse, error)
	GetNearby(context.Context, *model.GetNearbyLocationsRequest) (*model.GetNearbyLocationsResponse, error)
}

type locationDomain struct {
	locationRepo     repository.LocationRepository
	reviewRepo       repository.ReviewRepository
	geocoderEndpoint geocoder.IEndpoint
}

func NewLocationDomain(
	locationRepo repository.LocationRepository,
	reviewRepo repository.ReviewRepository,
	geocoderEndpoint geocoder.IEndpoint,
) *locationDomain {
	return &locationDomain{
		locationRepo:     locationRepo,
		reviewRepo:       reviewRepo,
		geocoderEndpoint: geocoderEndpoint,
	}
}

func (d *locationDomain) GetList(
	ctx context.Context, req *model.GetListLocationRequest,
) (*model.GetListLocationResponse, error) {
	if req.Category != "" {
		found := false
		for _, c := range entity.LocationCategories {
			if c == req.Category {
				found = true
				break
			}
		}

		if !found {
			return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
		}
	}

	cfg := xcontext.Configs(ctx).ApiServer
	limit := req.Limit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	if limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", cfg.MaxLimit)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}

	filter := repository.GetListLocationFilter{
		Q:        req.Q,
		Category: req.Category,
		Offset:   numberutil.Offset(limit, page),
		Limit:    limit,
	}

	locations, err := d.locationRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get locations: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.locationRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count locations: %v", err)
		return nil, errorx.Unknown
	}

	converted, err := d.convertLocations(ctx, locations)
	if err != nil {
		return nil, err
	}

	return &model.GetListLocationResponse{
		Locations:  converted,
		Pagination: numberutil.Paginate(total, limit, page),
	}, nil
}

func (d *locationDomain) Get(
	ctx context.Context, req *model.GetLocationRequest,
) (*model.GetLocationResponse, error) {
	location, err := d.locationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found location")
		}

		xcontext.Logger(ctx).Errorf("Cannot get location: %v", err)
		return nil, errorx.Unknown
	}

	converted, err := d.convertLocations(ctx, []entity.Location{*location})
	if err != nil {
		return nil, err
	}

	return &model.GetLocationResponse{Location: converted[0]}, nil
}

func (d *locationDomain) GetNearby(
	ctx context.Context, req *model.GetNearbyLocationsRequest,
) (*model.GetNearbyLocationsResponse, error) {
	if req.MinLatitude > req.MaxLatitude || req.MinLongitude > req.MaxLongitude {
		return nil, errorx.New(errorx.BadRequest, "Invalid bounding box")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	limit := req.Limit
	if limit <= 0 || limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	locations, err := d.locationRepo.GetNearby(ctx, repository.BoundingBox{
		MinLatitude:  req.MinLatitude,
		MaxLatitude:  req.MaxLatitude,
		MinLongitude: req.MinLongitude,
		MaxLongitude: req.MaxLongitude,
	}, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nearby locations: %v", err)
		return nil, errorx.Unknown
	}

	converted, err := d.convertLocations(ctx, locations)
	if err != nil {
		return nil, err
	}

	return &model.GetNearbyLocationsResponse{Locations: converted}, nil
}

// findOrCreateLocation resolves the location of a review submission. It is
// shared with the review domain and must run inside the caller's
// transaction.
func (d *locationDomain) findOrCreateLocation(
	ctx context.Context, req model.ReviewLocation,
) (*entity.Location, error) {
	if req.ID != "" {
		location, err := d.locationRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found location")
			}

			xcontext.Logger(ctx).Errorf("Cannot get location: %v", err)
			return nil, errorx.Unknown
		}

		return location, nil
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty location name")
	}

	// A submission may skip the address and carry coordinates only, the
	// address is then resolved by reverse geocoding.
	address := req.Address
	if address == "" {
		if (req.Latitude == 0 && req.Longitude == 0) || d.geocoderEndpoint == nil {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty location address")
		}

		place, err := d.geocoderEndpoint.Reverse(ctx, req.Latitude, req.Longitude)
		if err != nil {
			if errors.Is(err, geocoder.ErrNoResult) {
				return nil, errorx.New(errorx.BadRequest,
					"Cannot resolve an address for the given coordinates")
			}

			xcontext.Logger(ctx).Errorf("Cannot reverse geocode location: %v", err)
			return nil, errorx.Unknown
		}

		address = place.DisplayName
	}

	category := req.Category
	if category == "" {
		category = entity.CategoryOther
	}

	latitude, longitude := req.Latitude, req.Longitude
	if latitude == 0 && longitude == 0 && d.geocoderEndpoint != nil {
		place, err := d.geocoderEndpoint.Forward(ctx, req.Name+", "+address)
		if err != nil {
			if !errors.Is(err, geocoder.ErrNoResult) {
				xcontext.Logger(ctx).Warnf("Cannot forward geocode location: %v", err)
			}
		} else {
			latitude, longitude = place.Latitude, place.Longitude
		}
	}

	location, err := d.locationRepo.FindOrCreate(ctx, &entity.Location{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      req.Name,
		Address:   address,
		Category:  category,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedBy: xcontext.RequestUserID(ctx),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot find or create location: %v", err)
		return nil, errorx.Unknown
	}

	return location, nil
}

func (d *locationDomain) convertLocations(
	ctx context.Context, locations []entity.Location,
) ([]model.Location, error) {
	ids := make([]string, 0, len(locations))
	for _, l := range locations {
		ids = append(ids, l.ID)
	}

	aggregates, err := d.reviewRepo.AggregateByLocations(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate reviews by location: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Location, 0, len(locations))
	for i := range locations {
		agg := aggregates[locations[i].ID]
		result = append(result, model.ConvertLocation(&locations[i], agg.AverageRating, agg.TotalReviews))
	}

	return result, nil
}
