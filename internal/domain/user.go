package domain

import (
	"context"
	"errors"
	"time"

	"github.com/maccessmap/backend/internal/common"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/maccessmap/backend/pkg/xredis"
	"gorm.io/gorm"
)

const statsCacheTTL = time.Minute

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateUser(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type userDomain struct {
	userRepo      repository.UserRepository
	reviewRepo    repository.ReviewRepository
	badgeMintRepo repository.BadgeMintRepository
	redisClient   xredis.Client
}

func NewUserDomain(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	badgeMintRepo repository.BadgeMintRepository,
	redisClient xredis.Client,
) *userDomain {
	return &userDomain{
		userRepo:      userRepo,
		reviewRepo:    reviewRepo,
		badgeMintRepo: badgeMintRepo,
		redisClient:   redisClient,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, true), Stats: *stats}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.loadStats(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &model.GetUserResponse{User: model.ConvertUser(user, false), Stats: *stats}, nil
}

func (d *userDomain) UpdateUser(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	err := d.userRepo.UpdateByID(ctx, userID, &entity.User{
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.New(errorx.AlreadyExists, "This name was already taken")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if d.redisClient == nil {
		return &model.GetLeaderboardResponse{Entries: []model.LeaderboardEntry{}}, nil
	}

	zs, err := d.redisClient.ZRevRangeWithScores(ctx, common.RedisKeyLeaderboard(), 0, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard from redis: %v", err)
		return nil, errorx.Unknown
	}

	ids := make([]string, 0, len(zs))
	for _, z := range zs {
		if id, ok := z.Member.(string); ok {
			ids = append(ids, id)
		}
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]entity.User{}
	for _, u := range users {
		userMap[u.ID] = u
	}

	entries := make([]model.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}

		user, ok := userMap[id]
		if !ok {
			continue
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID:    user.ID,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
			Score:     z.Score,
			Rank:      i + 1,
		})
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}

func (d *userDomain) loadStats(ctx context.Context, userID string) (*model.UserStats, error) {
	if d.redisClient != nil {
		var cached model.UserStats
		err := d.redisClient.GetObj(ctx, common.RedisKeyUserStats(userID), &cached)
		if err == nil {
			return &cached, nil
		} else if err != xredis.ErrNotFound {
			xcontext.Logger(ctx).Warnf("Cannot get user stats from redis: %v", err)
		}
	}

	reviewStats, err := d.reviewRepo.Statistics(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get review statistics: %v", err)
		return nil, errorx.Unknown
	}

	mints, err := d.badgeMintRepo.GetByUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badge mints: %v", err)
		return nil, errorx.Unknown
	}

	minted := 0
	for _, m := range mints {
		if m.Minted() {
			minted++
		}
	}

	stats := &model.UserStats{
		TotalReviews:    reviewStats.TotalReviews,
		VerifiedReviews: reviewStats.VerifiedReviews,
		UniqueLocations: reviewStats.UniqueLocations,
		AverageRating:   reviewStats.AverageRating,
		Reputation:      common.ReputationScore(reviewStats.TotalReviews, reviewStats.VerifiedReviews),
		BadgesEarned:    len(mints),
		BadgesMinted:    minted,
	}

	if d.redisClient != nil {
		err := d.redisClient.SetObj(ctx, common.RedisKeyUserStats(userID), stats, statsCacheTTL)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache user stats: %v", err)
		}
	}

	return stats, nil
}
