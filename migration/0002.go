package migration

import (
	"context"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
)

func migrate0002(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if !migrator.HasIndex(&entity.BadgeMint{}, "idx_badge_mints_user_badge") {
		return xcontext.DB(ctx).AutoMigrate(&entity.BadgeMint{})
	}

	return nil
}
