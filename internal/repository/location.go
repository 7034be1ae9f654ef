package repository

import (
	"context"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GetListLocationFilter struct {
	Q        string
	Category string
	Offset   int
	Limit    int
}

type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

type LocationRepository interface {
	Create(ctx context.Context, data *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Location, error)
	GetList(ctx context.Context, filter GetListLocationFilter) ([]entity.Location, error)
	Count(ctx context.Context, filter GetListLocationFilter) (int64, error)
	GetNearby(ctx context.Context, box BoundingBox, limit int) ([]entity.Location, error)
	FindOrCreate(ctx context.Context, data *entity.Location) (*entity.Location, error)
}

type locationRepository struct{}

func NewLocationRepository() *locationRepository {
	return &locationRepository{}
}

func (r *locationRepository) Create(ctx context.Context, data *entity.Location) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var record entity.Location
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *locationRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []entity.Location
	if err := xcontext.DB(ctx).Find(&records, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *locationRepository) applyFilter(tx *gorm.DB, filter GetListLocationFilter) *gorm.DB {
	if filter.Q != "" {
		tx = tx.Where("name LIKE ?", filter.Q+"%")
	}

	if filter.Category != "" {
		tx = tx.Where("category=?", filter.Category)
	}

	return tx
}

func (r *locationRepository) GetList(ctx context.Context, filter GetListLocationFilter) ([]entity.Location, error) {
	tx := r.applyFilter(xcontext.DB(ctx), filter).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit)

	var records []entity.Location
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *locationRepository) Count(ctx context.Context, filter GetListLocationFilter) (int64, error) {
	var count int64
	tx := r.applyFilter(xcontext.DB(ctx).Model(&entity.Location{}), filter)
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *locationRepository) GetNearby(ctx context.Context, box BoundingBox, limit int) ([]entity.Location, error) {
	var records []entity.Location
	err := xcontext.DB(ctx).
		Where("latitude BETWEEN ? AND ?", box.MinLatitude, box.MaxLatitude).
		Where("longitude BETWEEN ? AND ?", box.MinLongitude, box.MaxLongitude).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// FindOrCreate inserts the location unless a row with the same (name,
// address) already exists, then returns the surviving row. The unique
// index makes this safe under concurrent review submissions.
func (r *locationRepository) FindOrCreate(ctx context.Context, data *entity.Location) (*entity.Location, error) {
	err := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "address"}},
			DoNothing: true,
		}).
		Create(data).Error
	if err != nil {
		return nil, err
	}

	var record entity.Location
	err = xcontext.DB(ctx).Take(&record, "name=? AND address=?", data.Name, data.Address).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}
