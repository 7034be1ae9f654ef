package domain

import (
	"context"
	"testing"

	"github.com/maccessmap/backend/internal/domain/badge"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/classifier"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/maccessmap/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func newTestReviewDomain(redisClient xredis.Client, classifierEndpoint classifier.IEndpoint) *reviewDomain {
	reviewRepo := repository.NewReviewRepository()
	userRepo := repository.NewUserRepository(nil)

	return NewReviewDomain(
		reviewRepo,
		userRepo,
		NewLocationDomain(repository.NewLocationRepository(), reviewRepo, nil),
		badge.NewRecorder(reviewRepo, repository.NewBadgeMintRepository()),
		classifierEndpoint,
		redisClient,
	)
}

func Test_reviewDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestReviewDomain(nil, nil)

	resp, err := domain.Create(ctx, &model.CreateReviewRequest{
		Location: model.ReviewLocation{
			Name:     "Station Bakery",
			Address:  "3 North Square",
			Category: entity.CategoryShop,
		},
		Rating:  4,
		Tags:    []string{"step-free-entrance"},
		Comment: "Flat entrance, narrow aisles.",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.Review.UserID)
	require.Equal(t, "Station Bakery", resp.Review.LocationName)
	require.False(t, resp.Review.Verified)
	require.Empty(t, resp.EarnedBadges)

	// A second submission for the same place reuses the location row.
	again, err := domain.Create(ctx, &model.CreateReviewRequest{
		Location: model.ReviewLocation{
			Name:    "Station Bakery",
			Address: "3 North Square",
		},
		Rating: 2,
	})
	require.NoError(t, err)
	require.Equal(t, resp.Review.LocationID, again.Review.LocationID)
}

func Test_reviewDomain_Create_invalidContent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestReviewDomain(nil, nil)

	var errx errorx.Error

	// Rating out of range.
	_, err := domain.Create(ctx, &model.CreateReviewRequest{
		Location: model.ReviewLocation{ID: testutil.Location1.ID},
		Rating:   6,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// Tag outside the vocabulary.
	_, err = domain.Create(ctx, &model.CreateReviewRequest{
		Location: model.ReviewLocation{ID: testutil.Location1.ID},
		Rating:   4,
		Tags:     []string{"free-coffee"},
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// An unknown location id.
	_, err = domain.Create(ctx, &model.CreateReviewRequest{
		Location: model.ReviewLocation{ID: "unknown"},
		Rating:   4,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_reviewDomain_Update_resetsVerification(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestReviewDomain(nil, nil)

	// Review1 is verified in the fixtures. The author's edit puts it back
	// in the moderation queue.
	resp, err := domain.Update(ctx, &model.UpdateReviewRequest{
		ID:      testutil.Review1.ID,
		Rating:  4,
		Comment: "The elevator is out of order these days.",
	})
	require.NoError(t, err)
	require.False(t, resp.Review.Verified)

	// Only the author can edit.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.Update(otherCtx, &model.UpdateReviewRequest{
		ID:     testutil.Review1.ID,
		Rating: 1,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_reviewDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestReviewDomain(nil, nil)

	// User2 is neither the author of Review1 nor an admin.
	_, err := domain.Delete(ctx, &model.DeleteReviewRequest{ID: testutil.Review1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	// An admin can delete any review.
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = domain.Delete(adminCtx, &model.DeleteReviewRequest{ID: testutil.Review1.ID})
	require.NoError(t, err)

	// The author can delete their own review.
	_, err = domain.Delete(ctx, &model.DeleteReviewRequest{ID: testutil.Review2.ID})
	require.NoError(t, err)

	_, err = domain.Get(ctx, &model.GetReviewRequest{ID: testutil.Review2.ID})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_reviewDomain_Verify(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)

	var incremented []string
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(_ context.Context, key string, incr float64, member string) error {
			require.Equal(t, 1.0, incr)
			incremented = append(incremented, member)
			return nil
		},
	}

	domain := newTestReviewDomain(redisClient, nil)

	// Verifying User2's first review earns the first badge tier.
	resp, err := domain.Verify(ctx, &model.VerifyReviewRequest{
		ID:       testutil.Review2.ID,
		Verified: true,
	})
	require.NoError(t, err)
	require.True(t, resp.Review.Verified)
	require.Len(t, resp.EarnedBadges, 1)
	require.Equal(t, "First Steps", resp.EarnedBadges[0].Name)
	require.Equal(t, model.BadgeStateEarnedNotMinted, resp.EarnedBadges[0].State)
	require.Equal(t, []string{testutil.User2.ID}, incremented)
}

func Test_reviewDomain_Verify_repeatedDoesNotRecount(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)

	var deltas []float64
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(_ context.Context, key string, incr float64, member string) error {
			require.Equal(t, testutil.User2.ID, member)
			deltas = append(deltas, incr)
			return nil
		},
	}

	domain := newTestReviewDomain(redisClient, nil)

	// Un-verifying a review that was never verified moves nothing.
	resp, err := domain.Verify(ctx, &model.VerifyReviewRequest{
		ID:       testutil.Review2.ID,
		Verified: false,
	})
	require.NoError(t, err)
	require.False(t, resp.Review.Verified)
	require.Empty(t, deltas)

	// Verifying twice credits the author once.
	_, err = domain.Verify(ctx, &model.VerifyReviewRequest{ID: testutil.Review2.ID, Verified: true})
	require.NoError(t, err)
	_, err = domain.Verify(ctx, &model.VerifyReviewRequest{ID: testutil.Review2.ID, Verified: true})
	require.NoError(t, err)
	require.Equal(t, []float64{1}, deltas)

	// Revoking afterwards takes the credit back exactly once.
	_, err = domain.Verify(ctx, &model.VerifyReviewRequest{ID: testutil.Review2.ID, Verified: false})
	require.NoError(t, err)
	_, err = domain.Verify(ctx, &model.VerifyReviewRequest{ID: testutil.Review2.ID, Verified: false})
	require.NoError(t, err)
	require.Equal(t, []float64{1, -1}, deltas)
}

func Test_reviewDomain_Update_takesBackLeaderboardCredit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	var deltas []float64
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(_ context.Context, key string, incr float64, member string) error {
			require.Equal(t, testutil.User1.ID, member)
			deltas = append(deltas, incr)
			return nil
		},
	}

	domain := newTestReviewDomain(redisClient, nil)

	// Review1 is verified, the edit clears the flag and the credit.
	_, err := domain.Update(ctx, &model.UpdateReviewRequest{
		ID:      testutil.Review1.ID,
		Rating:  4,
		Comment: "The ramp is gone.",
	})
	require.NoError(t, err)
	require.Equal(t, []float64{-1}, deltas)

	// A second edit of the now-pending review changes nothing.
	_, err = domain.Update(ctx, &model.UpdateReviewRequest{
		ID:     testutil.Review1.ID,
		Rating: 3,
	})
	require.NoError(t, err)
	require.Equal(t, []float64{-1}, deltas)
}

func Test_reviewDomain_Delete_takesBackLeaderboardCredit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	var deltas []float64
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(_ context.Context, key string, incr float64, member string) error {
			require.Equal(t, testutil.User1.ID, member)
			deltas = append(deltas, incr)
			return nil
		},
	}

	domain := newTestReviewDomain(redisClient, nil)

	_, err := domain.Delete(ctx, &model.DeleteReviewRequest{ID: testutil.Review1.ID})
	require.NoError(t, err)
	require.Equal(t, []float64{-1}, deltas)
}

func Test_reviewDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newTestReviewDomain(nil, nil)

	_, err := domain.GetList(ctx, &model.GetListReviewRequest{})
	require.Error(t, err)

	resp, err := domain.GetList(ctx, &model.GetListReviewRequest{
		LocationID: testutil.Location1.ID,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Reviews, 1)
	require.Equal(t, int64(2), resp.Pagination.Total)
	require.True(t, resp.Pagination.HasNextPage)
}

func Test_reviewDomain_SuggestTags(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newTestReviewDomain(nil, nil)
	_, err := domain.SuggestTags(ctx, &model.SuggestTagsRequest{Comment: "foo"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotConfigured, errx.Code)

	endpoint := &testutil.MockClassifierEndpoint{
		ClassifyFunc: func(_ context.Context, text string, labels []string) ([]classifier.LabelScore, error) {
			require.Equal(t, entity.AccessibilityTags, labels)
			return []classifier.LabelScore{
				{Label: "ramp", Score: 0.71},
				{Label: "elevator", Score: 0.12},
				{Label: "wheelchair-accessible", Score: 0.93},
			}, nil
		},
	}

	domain = newTestReviewDomain(nil, endpoint)
	resp, err := domain.SuggestTags(ctx, &model.SuggestTagsRequest{
		Comment: "There is a ramp at the side entrance.",
	})
	require.NoError(t, err)
	require.Equal(t, []model.TagScore{
		{Tag: "wheelchair-accessible", Score: 0.93},
		{Tag: "ramp", Score: 0.71},
	}, resp.Suggestions)
}
