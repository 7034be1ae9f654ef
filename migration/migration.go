package migration

import (
	"context"
	"errors"
	"time"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var migrations = []func(context.Context) error{
	migrate0000,
	migrate0001,
	migrate0002,
}

// Migrate applies all pending migration steps in order. A fresh database
// gets the full schema from migrate0000; upgraded databases only run the
// steps beyond their recorded version.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	var last entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&last).Error
	if err == nil {
		current = last.Version
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	for version := current + 1; version < len(migrations); version++ {
		xcontext.Logger(ctx).Infof("Applying migration %04d", version)
		if err := migrations[version](ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: version, AppliedAt: time.Now()}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}
