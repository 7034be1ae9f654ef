package badge

import (
	"context"

	"github.com/google/uuid"
	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/xcontext"
)

// Recorder evaluates the badge ladder for a user and persists newly
// earned tiers. The unique (user, badge) index in the badge mint table
// makes concurrent scans record each tier at most once.
type Recorder struct {
	reviewRepo    repository.ReviewRepository
	badgeMintRepo repository.BadgeMintRepository
}

func NewRecorder(
	reviewRepo repository.ReviewRepository,
	badgeMintRepo repository.BadgeMintRepository,
) *Recorder {
	return &Recorder{reviewRepo: reviewRepo, badgeMintRepo: badgeMintRepo}
}

// ScanAndRecord returns the tiers newly earned by this scan, in ascending
// threshold order. Tiers recorded by an earlier scan are not returned
// again.
func (r *Recorder) ScanAndRecord(ctx context.Context, userID string) ([]entity.BadgeMint, error) {
	count, err := r.reviewRepo.CountVerifiedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var earned []entity.BadgeMint
	for _, tier := range Eligible(count) {
		mint := entity.BadgeMint{
			Base:      entity.Base{ID: uuid.NewString()},
			UserID:    userID,
			BadgeName: tier.Name,
			Threshold: tier.Threshold,
		}

		created, err := r.badgeMintRepo.Create(ctx, &mint)
		if err != nil {
			return nil, err
		}

		if created {
			xcontext.Logger(ctx).Infof("User %s earned badge %q", userID, tier.Name)
			earned = append(earned, mint)
		}
	}

	return earned, nil
}
