package repository

import (
	"context"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetListReviewFilter struct {
	LocationID string
	UserID     string
	Offset     int
	Limit      int
}

type UserReviewStats struct {
	TotalReviews    int64
	VerifiedReviews int64
	UniqueLocations int64
	AverageRating   float64
}

type LocationAggregate struct {
	LocationID    string
	AverageRating float64
	TotalReviews  int64
}

type ReviewRepository interface {
	Create(ctx context.Context, data *entity.Review) error
	UpdateByID(ctx context.Context, id string, data *entity.Review) error
	DeleteByID(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetList(ctx context.Context, filter GetListReviewFilter) ([]entity.Review, error)
	Count(ctx context.Context, filter GetListReviewFilter) (int64, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	CountVerifiedByUser(ctx context.Context, userID string) (int64, error)
	Statistics(ctx context.Context, userID string) (*UserReviewStats, error)
	AggregateByLocations(ctx context.Context, locationIDs []string) (map[string]LocationAggregate, error)
}

type reviewRepository struct{}

func NewReviewRepository() *reviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(ctx context.Context, data *entity.Review) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *reviewRepository) UpdateByID(ctx context.Context, id string, data *entity.Review) error {
	updateMap := map[string]any{}
	if data.Rating != 0 {
		updateMap["rating"] = data.Rating
	}

	if data.Tags != nil {
		updateMap["tags"] = data.Tags
	}

	if data.Photos != nil {
		updateMap["photos"] = data.Photos
	}

	if data.Comment != "" {
		updateMap["comment"] = data.Comment
	}

	// Edits invalidate any earlier admin verification.
	updateMap["verified"] = false

	return xcontext.DB(ctx).Model(&entity.Review{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *reviewRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Review{}, "id=?", id).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	var record entity.Review
	err := xcontext.DB(ctx).
		Preload("User").
		Preload("Location").
		Take(&record, "reviews.id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *reviewRepository) applyFilter(tx *gorm.DB, filter GetListReviewFilter) *gorm.DB {
	if filter.LocationID != "" {
		tx = tx.Where("location_id=?", filter.LocationID)
	}

	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	return tx
}

func (r *reviewRepository) GetList(ctx context.Context, filter GetListReviewFilter) ([]entity.Review, error) {
	tx := r.applyFilter(xcontext.DB(ctx), filter).
		Preload("User").
		Preload("Location").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit)

	var records []entity.Review
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *reviewRepository) Count(ctx context.Context, filter GetListReviewFilter) (int64, error) {
	var count int64
	tx := r.applyFilter(xcontext.DB(ctx).Model(&entity.Review{}), filter)
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *reviewRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	tx := xcontext.DB(ctx).Model(&entity.Review{}).
		Where("id=?", id).
		Update("verified", verified)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *reviewRepository) CountVerifiedByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Review{}).
		Where("user_id=? AND verified=?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *reviewRepository) Statistics(ctx context.Context, userID string) (*UserReviewStats, error) {
	type row struct {
		TotalReviews    int64
		VerifiedReviews int64
		UniqueLocations int64
		AverageRating   float64
	}

	var result row
	err := xcontext.DB(ctx).Model(&entity.Review{}).
		Select(`
			COUNT(*) AS total_reviews,
			COALESCE(SUM(CASE WHEN verified THEN 1 ELSE 0 END), 0) AS verified_reviews,
			COUNT(DISTINCT location_id) AS unique_locations,
			COALESCE(AVG(rating), 0) AS average_rating`).
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &UserReviewStats{
		TotalReviews:    result.TotalReviews,
		VerifiedReviews: result.VerifiedReviews,
		UniqueLocations: result.UniqueLocations,
		AverageRating:   result.AverageRating,
	}, nil
}

func (r *reviewRepository) AggregateByLocations(
	ctx context.Context, locationIDs []string,
) (map[string]LocationAggregate, error) {
	if len(locationIDs) == 0 {
		return map[string]LocationAggregate{}, nil
	}

	var rows []LocationAggregate
	err := xcontext.DB(ctx).Model(&entity.Review{}).
		Select("location_id, COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Where("location_id IN (?)", locationIDs).
		Group("location_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[string]LocationAggregate{}
	for _, row := range rows {
		result[row.LocationID] = row
	}

	return result, nil
}
