package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/maccessmap/backend/internal/domain/badge"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/blockchain/eth"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestBadgeDomain(pinataEndpoint *testutil.MockPinataEndpoint, minter eth.Minter) *badgeDomain {
	reviewRepo := repository.NewReviewRepository()
	badgeMintRepo := repository.NewBadgeMintRepository()

	return NewBadgeDomain(
		repository.NewUserRepository(nil),
		reviewRepo,
		badgeMintRepo,
		badge.NewRecorder(reviewRepo, badgeMintRepo),
		pinataEndpoint,
		minter,
	)
}

func Test_badgeDomain_GetBadges(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestBadgeDomain(&testutil.MockPinataEndpoint{}, nil)

	resp, err := domain.GetBadges(ctx, &model.GetBadgesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Badges, 6)

	// User1 has one verified review, enough for the first tier only.
	require.Equal(t, "First Steps", resp.Badges[0].Name)
	require.Equal(t, model.BadgeStateEarnedNotMinted, resp.Badges[0].State)
	require.Equal(t, "https://gateway.example.com/ipfs/bafybeifirststeps", resp.Badges[0].ImageGatewayURL)
	for _, b := range resp.Badges[1:] {
		require.Equal(t, model.BadgeStateNotEligible, b.State)
	}

	_, err = domain.GetBadges(testutil.MockContext(), &model.GetBadgesRequest{})
	require.Error(t, err)
}

func Test_badgeDomain_GetNextBadge(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newTestBadgeDomain(&testutil.MockPinataEndpoint{}, nil)

	resp, err := domain.GetNextBadge(ctx, &model.GetNextBadgeRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Badge)
	require.Equal(t, "Community Builder", resp.Badge.Name)
	require.Equal(t, "https://gateway.example.com/ipfs/bafybeicommunitybuilder", resp.Badge.ImageGatewayURL)
	require.Equal(t, int64(1), resp.VerifiedReviews)
	require.Equal(t, int64(4), resp.RemainingReviews)
}

func Test_badgeDomain_Mint_requiresWallet(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	minterCalled := false
	minter := &testutil.MockMinter{
		MintBadgeFunc: func(_ context.Context, recipient, tokenURI string) (*eth.MintReceipt, error) {
			minterCalled = true
			return &eth.MintReceipt{TxHash: "0xabc", TokenID: 1}, nil
		},
	}

	domain := newTestBadgeDomain(&testutil.MockPinataEndpoint{}, minter)

	// User1 has no linked wallet.
	_, err := domain.Mint(ctx, &model.MintBadgesRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
	require.False(t, minterCalled)

	// The earned tier was still recorded before the wallet check.
	mints, err := repository.NewBadgeMintRepository().GetByUser(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, mints, 1)
	require.Equal(t, "First Steps", mints[0].BadgeName)
	require.False(t, mints[0].Minted())
}

func Test_badgeDomain_Mint_notConfigured(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.WalletUser.ID)
	testutil.CreateFixtureDb(ctx)

	// Missing pinning credentials fail the whole request.
	pinataEndpoint := &testutil.MockPinataEndpoint{
		ConfiguredFunc: func() bool { return false },
	}
	domain := newTestBadgeDomain(pinataEndpoint, &testutil.MockMinter{})

	_, err := domain.Mint(ctx, &model.MintBadgesRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotConfigured, errx.Code)

	// So does a missing minter.
	domain = newTestBadgeDomain(&testutil.MockPinataEndpoint{}, nil)
	_, err = domain.Mint(ctx, &model.MintBadgesRequest{})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotConfigured, errx.Code)
}

func Test_badgeDomain_Mint(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.WalletUser.ID)
	testutil.CreateFixtureDb(ctx)

	_, err := testutil.SampleReview(ctx, &entity.Review{
		UserID:     testutil.WalletUser.ID,
		LocationID: testutil.Location1.ID,
		Verified:   true,
	})
	require.NoError(t, err)

	minterCalls := 0
	minter := &testutil.MockMinter{
		MintBadgeFunc: func(_ context.Context, recipient, tokenURI string) (*eth.MintReceipt, error) {
			minterCalls++
			require.Equal(t, testutil.WalletUser.WalletAddress.String, recipient)
			require.Equal(t, "ipfs://bafymockcid", tokenURI)
			return &eth.MintReceipt{TxHash: "0xabc", TokenID: 7}, nil
		},
	}

	domain := newTestBadgeDomain(&testutil.MockPinataEndpoint{}, minter)

	resp, err := domain.Mint(ctx, &model.MintBadgesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Minted, 1)
	require.Equal(t, "First Steps", resp.Minted[0].Name)
	require.Equal(t, model.BadgeStateMinted, resp.Minted[0].State)
	require.NotNil(t, resp.Minted[0].TokenID)
	require.Equal(t, int64(7), *resp.Minted[0].TokenID)
	require.Equal(t, "0xabc", resp.Minted[0].TxHash)
	require.Equal(t, "ipfs://bafymockcid", resp.Minted[0].MetadataURI)
	require.Equal(t, 1, minterCalls)

	// Minting again does nothing, the badge already has a token.
	resp, err = domain.Mint(ctx, &model.MintBadgesRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Minted)
	require.Equal(t, 1, minterCalls)
}

func Test_badgeDomain_Mint_failure(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.WalletUser.ID)
	testutil.CreateFixtureDb(ctx)

	_, err := testutil.SampleReview(ctx, &entity.Review{
		UserID:     testutil.WalletUser.ID,
		LocationID: testutil.Location1.ID,
		Verified:   true,
	})
	require.NoError(t, err)

	minter := &testutil.MockMinter{
		MintBadgeFunc: func(_ context.Context, recipient, tokenURI string) (*eth.MintReceipt, error) {
			return nil, errors.New("rpc unavailable")
		},
	}

	domain := newTestBadgeDomain(&testutil.MockPinataEndpoint{}, minter)

	_, err = domain.Mint(ctx, &model.MintBadgesRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	// No token was persisted, the badge stays mintable.
	resp, err := domain.GetBadges(ctx, &model.GetBadgesRequest{})
	require.NoError(t, err)
	require.Equal(t, model.BadgeStateEarnedNotMinted, resp.Badges[0].State)
	require.Nil(t, resp.Badges[0].TokenID)
}
