package middleware

import (
	"testing"

	"github.com/maccessmap/backend/internal/repository"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_OnlyAdmin_Middleware(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	middleware := NewOnlyAdmin(repository.NewUserRepository(nil)).Middleware()

	_, err := middleware(ctx)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	_, err = middleware(xcontext.WithRequestUserID(ctx, testutil.User1.ID))
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	_, err = middleware(xcontext.WithRequestUserID(ctx, testutil.Admin.ID))
	require.NoError(t, err)
}
