package migration

import (
	"context"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
)

func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if !migrator.HasColumn(&entity.User{}, "bio") {
		return migrator.AddColumn(&entity.User{}, "bio")
	}

	return nil
}
