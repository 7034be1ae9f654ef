package domain

import (
	"context"
	"testing"

	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/geocoder"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_locationDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := NewLocationDomain(
		repository.NewLocationRepository(),
		repository.NewReviewRepository(),
		nil,
	)

	resp, err := domain.GetList(ctx, &model.GetListLocationRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Locations, 1)
	require.Equal(t, int64(2), resp.Pagination.Total)
	require.Equal(t, 2, resp.Pagination.TotalPages)

	resp, err = domain.GetList(ctx, &model.GetListLocationRequest{Q: "Central"})
	require.NoError(t, err)
	require.Len(t, resp.Locations, 1)
	require.Equal(t, testutil.Location1.Name, resp.Locations[0].Name)

	// Review aggregates come along with each location. Location1 carries
	// a verified 5-star review and a pending 3-star one.
	require.Equal(t, int64(2), resp.Locations[0].TotalReviews)
	require.Equal(t, 4.0, resp.Locations[0].AverageRating)

	_, err = domain.GetList(ctx, &model.GetListLocationRequest{Category: "spaceport"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_locationDomain_GetNearby(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := NewLocationDomain(
		repository.NewLocationRepository(),
		repository.NewReviewRepository(),
		nil,
	)

	// A box around Location1 that excludes Location2.
	resp, err := domain.GetNearby(ctx, &model.GetNearbyLocationsRequest{
		MinLatitude:  52.369,
		MaxLatitude:  52.371,
		MinLongitude: 4.894,
		MaxLongitude: 4.896,
	})
	require.NoError(t, err)
	require.Len(t, resp.Locations, 1)
	require.Equal(t, testutil.Location1.ID, resp.Locations[0].ID)

	_, err = domain.GetNearby(ctx, &model.GetNearbyLocationsRequest{
		MinLatitude: 10, MaxLatitude: 5,
	})
	require.Error(t, err)
}

func Test_locationDomain_findOrCreateLocation_geocodes(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	endpoint := &testutil.MockGeocoderEndpoint{
		ForwardFunc: func(_ context.Context, address string) (*geocoder.Place, error) {
			if address == "Riverside Gallery, 7 Embankment" {
				return &geocoder.Place{Latitude: 51.5, Longitude: -0.12}, nil
			}

			return nil, geocoder.ErrNoResult
		},
	}

	domain := NewLocationDomain(
		repository.NewLocationRepository(),
		repository.NewReviewRepository(),
		endpoint,
	)

	location, err := domain.findOrCreateLocation(ctx, model.ReviewLocation{
		Name:    "Riverside Gallery",
		Address: "7 Embankment",
	})
	require.NoError(t, err)
	require.Equal(t, 51.5, location.Latitude)
	require.Equal(t, -0.12, location.Longitude)

	// A geocoder miss is not an error, the location keeps zero
	// coordinates.
	location, err = domain.findOrCreateLocation(ctx, model.ReviewLocation{
		Name:    "Hidden Alley Bar",
		Address: "Nowhere 1",
	})
	require.NoError(t, err)
	require.Zero(t, location.Latitude)
	require.NotNil(t, location)

	_, err = domain.findOrCreateLocation(ctx, model.ReviewLocation{Name: "No Address"})
	require.Error(t, err)
}

func Test_locationDomain_findOrCreateLocation_reverseGeocodes(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	endpoint := &testutil.MockGeocoderEndpoint{
		ReverseFunc: func(_ context.Context, lat, lng float64) (*geocoder.Place, error) {
			if lat == 51.5 && lng == -0.12 {
				return &geocoder.Place{
					Latitude:    51.5,
					Longitude:   -0.12,
					DisplayName: "7 Embankment, London",
				}, nil
			}

			return nil, geocoder.ErrNoResult
		},
	}

	domain := NewLocationDomain(
		repository.NewLocationRepository(),
		repository.NewReviewRepository(),
		endpoint,
	)

	// Coordinates only, the address comes from the reverse geocoder.
	location, err := domain.findOrCreateLocation(ctx, model.ReviewLocation{
		Name:      "Riverside Gallery",
		Latitude:  51.5,
		Longitude: -0.12,
	})
	require.NoError(t, err)
	require.Equal(t, "7 Embankment, London", location.Address)
	require.Equal(t, 51.5, location.Latitude)

	// Unresolvable coordinates reject the submission.
	_, err = domain.findOrCreateLocation(ctx, model.ReviewLocation{
		Name:      "Middle of the Sea",
		Latitude:  0.1,
		Longitude: 0.1,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}
