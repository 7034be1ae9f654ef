package domain

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/maccessmap/backend/internal/common"
	"github.com/maccessmap/backend/internal/domain/badge"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/classifier"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/numberutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/maccessmap/backend/pkg/xredis"
	"gorm.io/gorm"
)

const (
	maxReviewPhotos    = 6
	maxCommentLength   = 4000
	minSuggestionScore = 0.5
)

type ReviewDomain interface {
	Create(context.Context, *model.CreateReviewRequest) (*model.CreateReviewResponse, error)
	Update(context.Context, *model.UpdateReviewRequest) (*model.UpdateReviewResponse, error)
	Delete(context.Context, *model.DeleteReviewRequest) (*model.DeleteReviewResponse, error)
	GetList(context.Context, *model.GetListReviewRequest) (*model.GetListReviewResponse, error)
	Get(context.Context, *model.GetReviewRequest) (*model.GetReviewResponse, error)
	Verify(context.Context, *model.VerifyReviewRequest) (*model.VerifyReviewResponse, error)
	SuggestTags(context.Context, *model.SuggestTagsRequest) (*model.SuggestTagsResponse, error)
}

type reviewDomain struct {
	reviewRepo         repository.ReviewRepository
	userRepo           repository.UserRepository
	locationDomain     *locationDomain
	badgeRecorder      *badge.Recorder
	classifierEndpoint classifier.IEndpoint
	redisClient        xredis.Client
}

func NewReviewDomain(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	locationDomain *locationDomain,
	badgeRecorder *badge.Recorder,
	classifierEndpoint classifier.IEndpoint,
	redisClient xredis.Client,
) *reviewDomain {
	return &reviewDomain{
		reviewRepo:         reviewRepo,
		userRepo:           userRepo,
		locationDomain:     locationDomain,
		badgeRecorder:      badgeRecorder,
		classifierEndpoint: classifierEndpoint,
		redisClient:        redisClient,
	}
}

func (d *reviewDomain) Create(
	ctx context.Context, req *model.CreateReviewRequest,
) (*model.CreateReviewResponse, error) {
	if err := validateReviewContent(req.Rating, req.Tags, req.Photos, req.Comment); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	location, err := d.locationDomain.findOrCreateLocation(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		LocationID: location.ID,
		Rating:     req.Rating,
		Tags:       req.Tags,
		Photos:     req.Photos,
		Comment:    req.Comment,
	}

	if err := d.reviewRepo.Create(ctx, review); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create review: %v", err)
		return nil, errorx.Unknown
	}

	earned, err := d.badgeRecorder.ScanAndRecord(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot scan badges: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.invalidateStats(ctx, userID)

	created, err := d.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get created review: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateReviewResponse{
		Review:       model.ConvertReview(created),
		EarnedBadges: convertMints(earned),
	}, nil
}

func (d *reviewDomain) Update(
	ctx context.Context, req *model.UpdateReviewRequest,
) (*model.UpdateReviewResponse, error) {
	if err := validateReviewContent(req.Rating, req.Tags, req.Photos, req.Comment); err != nil {
		return nil, err
	}

	review, err := d.getReview(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if review.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can edit this review")
	}

	err = d.reviewRepo.UpdateByID(ctx, req.ID, &entity.Review{
		Rating:  req.Rating,
		Tags:    req.Tags,
		Photos:  req.Photos,
		Comment: req.Comment,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update review: %v", err)
		return nil, errorx.Unknown
	}

	// The edit cleared an earlier admin verification, take the credit back.
	if review.Verified {
		d.adjustLeaderboard(ctx, review.UserID, -1)
	}

	d.invalidateStats(ctx, review.UserID)

	updated, err := d.reviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get updated review: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateReviewResponse{Review: model.ConvertReview(updated)}, nil
}

func (d *reviewDomain) Delete(
	ctx context.Context, req *model.DeleteReviewRequest,
) (*model.DeleteReviewResponse, error) {
	review, err := d.getReview(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if review.UserID != userID {
		user, err := d.userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if user.Role != entity.AdminRole {
			return nil, errorx.New(errorx.PermissionDenied,
				"Only the author or an admin can delete this review")
		}
	}

	if err := d.reviewRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete review: %v", err)
		return nil, errorx.Unknown
	}

	if review.Verified {
		d.adjustLeaderboard(ctx, review.UserID, -1)
	}

	d.invalidateStats(ctx, review.UserID)
	return &model.DeleteReviewResponse{}, nil
}

func (d *reviewDomain) GetList(
	ctx context.Context, req *model.GetListReviewRequest,
) (*model.GetListReviewResponse, error) {
	if req.LocationID == "" && req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Please provide a location or user filter")
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

	filter := repository.GetListReviewFilter{
		LocationID: req.LocationID,
		UserID:     req.UserID,
		Offset:     numberutil.Offset(limit, page),
		Limit:      limit,
	}

	reviews, err := d.reviewRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reviews: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.reviewRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count reviews: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Review, 0, len(reviews))
	for i := range reviews {
		result = append(result, model.ConvertReview(&reviews[i]))
	}

	return &model.GetListReviewResponse{
		Reviews:    result,
		Pagination: numberutil.Paginate(total, limit, page),
	}, nil
}

func (d *reviewDomain) Get(
	ctx context.Context, req *model.GetReviewRequest,
) (*model.GetReviewResponse, error) {
	review, err := d.getReview(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetReviewResponse{Review: model.ConvertReview(review)}, nil
}

// Verify toggles the admin verification flag. Only verified reviews count
// toward badge thresholds, so turning the flag on triggers a badge scan
// for the author.
func (d *reviewDomain) Verify(
	ctx context.Context, req *model.VerifyReviewRequest,
) (*model.VerifyReviewResponse, error) {
	review, err := d.getReview(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Verifying a verified review (or un-verifying a pending one) is a
	// no-op. Short-circuiting keeps the leaderboard delta from being
	// applied twice.
	if review.Verified == req.Verified {
		return &model.VerifyReviewResponse{
			Review:       model.ConvertReview(review),
			EarnedBadges: convertMints(nil),
		}, nil
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.reviewRepo.SetVerified(ctx, req.ID, req.Verified); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set verified flag: %v", err)
		return nil, errorx.Unknown
	}

	var earned []entity.BadgeMint
	if req.Verified {
		earned, err = d.badgeRecorder.ScanAndRecord(ctx, review.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot scan badges: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.invalidateStats(ctx, review.UserID)

	delta := 1.0
	if !req.Verified {
		delta = -1.0
	}
	d.adjustLeaderboard(ctx, review.UserID, delta)

	verified, err := d.reviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get verified review: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VerifyReviewResponse{
		Review:       model.ConvertReview(verified),
		EarnedBadges: convertMints(earned),
	}, nil
}

func (d *reviewDomain) SuggestTags(
	ctx context.Context, req *model.SuggestTagsRequest,
) (*model.SuggestTagsResponse, error) {
	if req.Comment == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty comment")
	}

	if d.classifierEndpoint == nil {
		return nil, errorx.New(errorx.NotConfigured, "Tag suggestion is not available")
	}

	scores, err := d.classifierEndpoint.Classify(ctx, req.Comment, entity.AccessibilityTags)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot classify comment: %v", err)
		return nil, errorx.Unknown
	}

	suggestions := []model.TagScore{}
	for _, s := range scores {
		if s.Score >= minSuggestionScore {
			suggestions = append(suggestions, model.TagScore{Tag: s.Label, Score: s.Score})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	return &model.SuggestTagsResponse{Suggestions: suggestions}, nil
}

func (d *reviewDomain) getReview(ctx context.Context, id string) (*entity.Review, error) {
	review, err := d.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found review")
		}

		xcontext.Logger(ctx).Errorf("Cannot get review: %v", err)
		return nil, errorx.Unknown
	}

	return review, nil
}

func (d *reviewDomain) adjustLeaderboard(ctx context.Context, userID string, delta float64) {
	if d.redisClient == nil {
		return
	}

	if err := d.redisClient.ZIncrBy(ctx, common.RedisKeyLeaderboard(), delta, userID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
	}
}

func (d *reviewDomain) invalidateStats(ctx context.Context, userID string) {
	if d.redisClient == nil {
		return
	}

	if err := d.redisClient.Del(ctx, common.RedisKeyUserStats(userID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate user stats cache: %v", err)
	}
}

func validateReviewContent(rating int, tags, photos []string, comment string) error {
	if rating < 1 || rating > 5 {
		return errorx.New(errorx.BadRequest, "Rating must be between 1 and 5")
	}

	for _, tag := range tags {
		if !entity.IsAccessibilityTag(tag) {
			return errorx.New(errorx.BadRequest, "Unknown accessibility tag %s", tag)
		}
	}

	if len(photos) > maxReviewPhotos {
		return errorx.New(errorx.BadRequest, "Not allow more than %d photos", maxReviewPhotos)
	}

	if len(comment) > maxCommentLength {
		return errorx.New(errorx.BadRequest, "The comment is too long")
	}

	return nil
}

func convertMints(mints []entity.BadgeMint) []model.Badge {
	result := []model.Badge{}
	for i := range mints {
		result = append(result, model.ConvertBadgeMint(&mints[i]))
	}

	return result
}
