package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_AuthVerifier_Middleware(t *testing.T) {
	ctx := testutil.MockContext()

	token, err := xcontext.TokenEngine(ctx).Generate("user1", model.AccessToken{
		ID: "user1", Name: "alice",
	})
	require.NoError(t, err)

	middleware := NewAuthVerifier().WithAccessToken().Middleware()

	// Bearer header.
	req := httptest.NewRequest(http.MethodGet, "/getMe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newCtx, err := middleware(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, "user1", xcontext.RequestUserID(newCtx))

	// Cookie fallback.
	req = httptest.NewRequest(http.MethodGet, "/getMe", nil)
	req.AddCookie(&http.Cookie{
		Name:  xcontext.Configs(ctx).Auth.AccessToken.Name,
		Value: token,
	})
	newCtx, err = middleware(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, "user1", xcontext.RequestUserID(newCtx))

	// Missing token.
	req = httptest.NewRequest(http.MethodGet, "/getMe", nil)
	_, err = middleware(xcontext.WithHTTPRequest(ctx, req))
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/getMe", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	_, err = middleware(xcontext.WithHTTPRequest(ctx, req))
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)

	// Optional mode lets anonymous requests through.
	optional := NewAuthVerifier().WithAccessToken().WithOptional().Middleware()
	req = httptest.NewRequest(http.MethodGet, "/getListLocation", nil)
	newCtx, err = optional(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Nil(t, newCtx)
}
