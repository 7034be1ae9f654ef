package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/maccessmap/backend/internal/common"
	"github.com/maccessmap/backend/internal/domain/badge"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/api/pinata"
	"github.com/maccessmap/backend/pkg/blockchain/eth"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BadgeDomain interface {
	GetBadges(context.Context, *model.GetBadgesRequest) (*model.GetBadgesResponse, error)
	GetNextBadge(context.Context, *model.GetNextBadgeRequest) (*model.GetNextBadgeResponse, error)
	Mint(context.Context, *model.MintBadgesRequest) (*model.MintBadgesResponse, error)
}

type badgeDomain struct {
	userRepo       repository.UserRepository
	reviewRepo     repository.ReviewRepository
	badgeMintRepo  repository.BadgeMintRepository
	badgeRecorder  *badge.Recorder
	pinataEndpoint pinata.IEndpoint
	minter         eth.Minter
}

func NewBadgeDomain(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	badgeMintRepo repository.BadgeMintRepository,
	badgeRecorder *badge.Recorder,
	pinataEndpoint pinata.IEndpoint,
	minter eth.Minter,
) *badgeDomain {
	return &badgeDomain{
		userRepo:       userRepo,
		reviewRepo:     reviewRepo,
		badgeMintRepo:  badgeMintRepo,
		badgeRecorder:  badgeRecorder,
		pinataEndpoint: pinataEndpoint,
		minter:         minter,
	}
}

// GetBadges reports the full ladder for a user with the state of every
// tier.
func (d *badgeDomain) GetBadges(
	ctx context.Context, req *model.GetBadgesRequest,
) (*model.GetBadgesResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Please provide a user id")
	}

	count, err := d.reviewRepo.CountVerifiedByUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count verified reviews: %v", err)
		return nil, errorx.Unknown
	}

	mints, err := d.badgeMintRepo.GetByUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badge mints: %v", err)
		return nil, errorx.Unknown
	}

	mintByName := map[string]entity.BadgeMint{}
	for _, m := range mints {
		mintByName[m.BadgeName] = m
	}

	badges := make([]model.Badge, 0, len(badge.Tiers))
	for _, tier := range badge.Tiers {
		b := model.Badge{
			Name:        tier.Name,
			Description: tier.Description,
			Threshold:   tier.Threshold,
			ImageURL:    fmt.Sprintf("ipfs://%s", tier.ImageCID),
			State:       model.BadgeStateNotEligible,
		}

		if mint, ok := mintByName[tier.Name]; ok {
			converted := model.ConvertBadgeMint(&mint)
			converted.Description = tier.Description
			converted.ImageURL = b.ImageURL
			b = converted
		} else if count >= int64(tier.Threshold) {
			b.State = model.BadgeStateEarnedNotMinted
		}

		if d.pinataEndpoint != nil {
			b.ImageGatewayURL = d.pinataEndpoint.GatewayURL(tier.ImageCID)
		}

		badges = append(badges, b)
	}

	return &model.GetBadgesResponse{Badges: badges}, nil
}

func (d *badgeDomain) GetNextBadge(
	ctx context.Context, req *model.GetNextBadgeRequest,
) (*model.GetNextBadgeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	count, err := d.reviewRepo.CountVerifiedByUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count verified reviews: %v", err)
		return nil, errorx.Unknown
	}

	next := badge.NextTier(count)
	if next == nil {
		return &model.GetNextBadgeResponse{VerifiedReviews: count}, nil
	}

	nextBadge := &model.Badge{
		Name:        next.Name,
		Description: next.Description,
		Threshold:   next.Threshold,
		ImageURL:    fmt.Sprintf("ipfs://%s", next.ImageCID),
		State:       model.BadgeStateNotEligible,
	}
	if d.pinataEndpoint != nil {
		nextBadge.ImageGatewayURL = d.pinataEndpoint.GatewayURL(next.ImageCID)
	}

	return &model.GetNextBadgeResponse{
		Badge: nextBadge,
		VerifiedReviews:  count,
		RemainingReviews: int64(next.Threshold) - count,
	}, nil
}

// Mint mints every earned badge of the requesting user that has no token
// yet. Metadata pinning fails closed when pinning credentials are absent.
// Each mint is persisted independently so a failure in one tier does not
// roll back earlier tiers.
func (d *badgeDomain) Mint(
	ctx context.Context, req *model.MintBadgesRequest,
) (*model.MintBadgesResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	// Record any tier earned since the last scan first, so a request that
	// fails the checks below still leaves the earned state behind.
	if _, err := d.badgeRecorder.ScanAndRecord(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot scan badges: %v", err)
		return nil, errorx.Unknown
	}

	if !user.WalletAddress.Valid || user.WalletAddress.String == "" {
		return nil, errorx.New(errorx.Unavailable,
			"Please link a wallet address before minting badges")
	}

	if d.pinataEndpoint == nil || !d.pinataEndpoint.Configured() {
		return nil, errorx.New(errorx.NotConfigured, "Badge minting is not configured")
	}

	if d.minter == nil {
		return nil, errorx.New(errorx.NotConfigured, "Badge minting is not configured")
	}

	mints, err := d.badgeMintRepo.GetByUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badge mints: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.reviewRepo.Statistics(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get review statistics: %v", err)
		return nil, errorx.Unknown
	}

	minted := []model.Badge{}
	for _, mint := range mints {
		if mint.Minted() {
			continue
		}

		tier, ok := badge.ByName(mint.BadgeName)
		if !ok {
			xcontext.Logger(ctx).Errorf("Unknown badge tier %q", mint.BadgeName)
			continue
		}

		converted, err := d.mintOne(ctx, user, tier, stats)
		if err != nil {
			// Earlier tiers are already committed. Report what succeeded
			// together with the failure.
			if len(minted) > 0 {
				xcontext.Logger(ctx).Errorf("Cannot mint badge %q: %v", tier.Name, err)
				return &model.MintBadgesResponse{Minted: minted}, nil
			}

			return nil, err
		}

		minted = append(minted, *converted)
	}

	return &model.MintBadgesResponse{Minted: minted}, nil
}

func (d *badgeDomain) mintOne(
	ctx context.Context, user *entity.User, tier badge.Tier, stats *repository.UserReviewStats,
) (*model.Badge, error) {
	metadata := badge.BuildMetadata(tier, user.Name, badge.MetadataStats{
		VerifiedReviews: stats.VerifiedReviews,
		TotalReviews:    stats.TotalReviews,
		UniqueLocations: stats.UniqueLocations,
		AverageRating:   stats.AverageRating,
		Reputation:      common.ReputationScore(stats.TotalReviews, stats.VerifiedReviews),
		JoinedAt:        user.CreatedAt.Format(model.DefaultTimeLayout),
	})

	name := fmt.Sprintf("%s-%s", user.ID, tier.Name)
	cid, err := d.pinataEndpoint.PinJSON(ctx, name, metadata)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pin badge metadata: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot pin badge metadata")
	}

	tokenURI := fmt.Sprintf("ipfs://%s", cid)
	err = d.badgeMintRepo.SetMetadataURI(ctx, user.ID, tier.Name, tokenURI)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save metadata uri: %v", err)
		return nil, errorx.Unknown
	}

	mintCtx, cancel := context.WithTimeout(ctx, xcontext.Configs(ctx).Badge.MintTimeout)
	defer cancel()

	receipt, err := d.minter.MintBadge(mintCtx, user.WalletAddress.String, tokenURI)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint badge %q: %v", tier.Name, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot mint badge %s", tier.Name)
	}

	contract := xcontext.Configs(ctx).Eth.ContractAddress
	err = d.badgeMintRepo.SetMinted(ctx, user.ID, tier.Name, receipt.TokenID, receipt.TxHash, contract)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent request already persisted this mint.
			xcontext.Logger(ctx).Warnf("Badge %q of user %s was minted concurrently", tier.Name, user.ID)
		} else {
			xcontext.Logger(ctx).Errorf("Cannot persist mint result: %v", err)
			return nil, errorx.Unknown
		}
	}

	mint, err := d.badgeMintRepo.GetByUserAndName(ctx, user.ID, tier.Name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badge mint: %v", err)
		return nil, errorx.Unknown
	}

	converted := model.ConvertBadgeMint(mint)
	return &converted, nil
}
