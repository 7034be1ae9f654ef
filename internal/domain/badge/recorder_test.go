package badge

import (
	"testing"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_Recorder_ScanAndRecord(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	recorder := NewRecorder(
		repository.NewReviewRepository(),
		repository.NewBadgeMintRepository(),
	)

	// User1 has exactly one verified review in the fixtures.
	earned, err := recorder.ScanAndRecord(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	require.Equal(t, "First Steps", earned[0].BadgeName)

	// A second scan records nothing new.
	earned, err = recorder.ScanAndRecord(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Empty(t, earned)

	// User2's only review is still pending verification.
	earned, err = recorder.ScanAndRecord(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Empty(t, earned)
}

func Test_Recorder_ScanAndRecord_crossThreshold(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	recorder := NewRecorder(
		repository.NewReviewRepository(),
		repository.NewBadgeMintRepository(),
	)

	_, err := recorder.ScanAndRecord(ctx, testutil.User1.ID)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := testutil.SampleReview(ctx, &entity.Review{
			UserID:     testutil.User1.ID,
			LocationID: testutil.Location2.ID,
			Verified:   true,
		})
		require.NoError(t, err)
	}

	// Five verified reviews now, so only the second tier is new.
	earned, err := recorder.ScanAndRecord(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	require.Equal(t, "Community Builder", earned[0].BadgeName)
}
