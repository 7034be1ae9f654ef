package domain

import (
	"context"
	"testing"
	"time"

	"github.com/maccessmap/backend/internal/common"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestUserDomain(redisClient *testutil.MockRedisClient) *userDomain {
	if redisClient == nil {
		return NewUserDomain(
			repository.NewUserRepository(nil),
			repository.NewReviewRepository(),
			repository.NewBadgeMintRepository(),
			nil,
		)
	}

	return NewUserDomain(
		repository.NewUserRepository(nil),
		repository.NewReviewRepository(),
		repository.NewBadgeMintRepository(),
		redisClient,
	)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestUserDomain(nil)

	resp, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, resp.User.Name)
	require.Equal(t, int64(1), resp.Stats.TotalReviews)
	require.Equal(t, int64(1), resp.Stats.VerifiedReviews)
	require.Equal(t, int64(1), resp.Stats.UniqueLocations)
	require.Equal(t, 5.0, resp.Stats.AverageRating)
	require.Equal(t, int64(10), resp.Stats.Reputation)
	require.Zero(t, resp.Stats.BadgesEarned)
}

func Test_userDomain_GetUser_hidesSensitiveFields(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newTestUserDomain(nil)

	resp, err := domain.GetUser(ctx, &model.GetUserRequest{UserID: testutil.WalletUser.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.WalletUser.Name, resp.User.Name)
	require.Empty(t, resp.User.WalletAddress)
	require.Empty(t, resp.User.Email)

	_, err = domain.GetUser(ctx, &model.GetUserRequest{UserID: "unknown"})
	require.Error(t, err)
}

func Test_userDomain_UpdateUser(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestUserDomain(nil)

	resp, err := domain.UpdateUser(ctx, &model.UpdateUserRequest{
		Bio: "Mapping step-free routes since 2024.",
	})
	require.NoError(t, err)
	require.Equal(t, "Mapping step-free routes since 2024.", resp.User.Bio)
	require.Equal(t, testutil.User1.Name, resp.User.Name)

	// Renaming to a taken name is rejected.
	_, err = domain.UpdateUser(ctx, &model.UpdateUserRequest{Name: testutil.User2.Name})
	require.Error(t, err)
}

func Test_userDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	redisClient := &testutil.MockRedisClient{
		ZRevRangeWithScoresFunc: func(_ context.Context, key string, offset, limit int) ([]redis.Z, error) {
			require.Equal(t, common.RedisKeyLeaderboard(), key)
			return []redis.Z{
				{Member: testutil.User2.ID, Score: 12},
				{Member: testutil.User1.ID, Score: 7},
			}, nil
		},
	}

	domain := newTestUserDomain(redisClient)

	resp, err := domain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, testutil.User2.Name, resp.Entries[0].Name)
	require.Equal(t, 12.0, resp.Entries[0].Score)
	require.Equal(t, 1, resp.Entries[0].Rank)
	require.Equal(t, 2, resp.Entries[1].Rank)

	// Without redis the leaderboard is empty rather than an error.
	resp, err = newTestUserDomain(nil).GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Entries)
}

func Test_userDomain_loadStats_cachesInRedis(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	var cachedKey string
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(_ context.Context, key string, obj any, _ time.Duration) error {
			cachedKey = key
			return nil
		},
	}

	domain := newTestUserDomain(redisClient)

	_, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, common.RedisKeyUserStats(testutil.User1.ID), cachedKey)
}
