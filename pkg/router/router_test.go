package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maccessmap/backend/config"
	"github.com/maccessmap/backend/pkg/logger"
	"github.com/maccessmap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type pingRequest struct{}

type pingResponse struct {
	RequestID string `json:"request_id"`
}

func Test_Router_assignsRequestID(t *testing.T) {
	r := New(nil, config.Configs{}, logger.NewLogger(logger.SILENCE))

	seen := map[string]bool{}
	GET(r, "/ping", func(ctx context.Context, req *pingRequest) (*pingResponse, error) {
		id := xcontext.RequestID(ctx)
		require.NotEmpty(t, id)
		seen[id] = true
		return &pingResponse{RequestID: id}, nil
	})

	// Every request gets its own id.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Len(t, seen, 3)
}
