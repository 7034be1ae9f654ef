package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maccessmap/backend/internal/model"
	"github.com/maccessmap/backend/pkg/testutil"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_HandleSaveSession(t *testing.T) {
	ctx := testutil.MockContext()

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithRequestState(ctx)

	xcontext.SetResponse(ctx, model.LoginResponse{User: model.User{ID: "user1"}})

	newCtx, err := HandleSaveSession()(ctx)
	require.NoError(t, err)
	require.Nil(t, newCtx)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, xcontext.Configs(ctx).Session.Name, cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
}

func Test_HandleSaveSession_skipsOtherResponses(t *testing.T) {
	ctx := testutil.MockContext()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithRequestState(ctx)

	xcontext.SetResponse(ctx, model.LogoutResponse{})

	_, err := HandleSaveSession()(ctx)
	require.NoError(t, err)
	require.Empty(t, w.Result().Cookies())
}
