package repository

import (
	"context"
	"time"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeMintRepository interface {
	// Create inserts an earned record and reports whether a new row was
	// written. A duplicate (user, badge) insert is silently skipped.
	Create(ctx context.Context, data *entity.BadgeMint) (bool, error)
	GetByUser(ctx context.Context, userID string) ([]entity.BadgeMint, error)
	GetByUserAndName(ctx context.Context, userID, badgeName string) (*entity.BadgeMint, error)
	SetMetadataURI(ctx context.Context, userID, badgeName, uri string) error
	// SetMinted records the mint result exactly once: it only touches the
	// row while token_id is still null.
	SetMinted(ctx context.Context, userID, badgeName string, tokenID int64, txHash, contractAddress string) error
	CountMintedByUser(ctx context.Context, userID string) (int64, error)
}

type badgeMintRepository struct{}

func NewBadgeMintRepository() *badgeMintRepository {
	return &badgeMintRepository{}
}

func (r *badgeMintRepository) Create(ctx context.Context, data *entity.BadgeMint) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_name"}},
			DoNothing: true,
		}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *badgeMintRepository) GetByUser(ctx context.Context, userID string) ([]entity.BadgeMint, error) {
	var records []entity.BadgeMint
	err := xcontext.DB(ctx).
		Order("threshold ASC").
		Find(&records, "user_id=?", userID).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *badgeMintRepository) GetByUserAndName(
	ctx context.Context, userID, badgeName string,
) (*entity.BadgeMint, error) {
	var record entity.BadgeMint
	err := xcontext.DB(ctx).Take(&record, "user_id=? AND badge_name=?", userID, badgeName).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *badgeMintRepository) SetMetadataURI(ctx context.Context, userID, badgeName, uri string) error {
	return xcontext.DB(ctx).Model(&entity.BadgeMint{}).
		Where("user_id=? AND badge_name=?", userID, badgeName).
		Update("metadata_uri", uri).Error
}

func (r *badgeMintRepository) SetMinted(
	ctx context.Context, userID, badgeName string, tokenID int64, txHash, contractAddress string,
) error {
	tx := xcontext.DB(ctx).Model(&entity.BadgeMint{}).
		Where("user_id=? AND badge_name=? AND token_id IS NULL", userID, badgeName).
		Updates(map[string]any{
			"token_id":         tokenID,
			"tx_hash":          txHash,
			"contract_address": contractAddress,
			"minted_at":        time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *badgeMintRepository) CountMintedByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.BadgeMint{}).
		Where("user_id=? AND token_id IS NOT NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
