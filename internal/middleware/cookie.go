package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/maccessmap/backend/pkg/router"
	"github.com/maccessmap/backend/pkg/xcontext"
)

type TokenResponse interface {
	TokenInfo() (accessToken, refreshToken string)
}

// HandleSetAccessToken writes token cookies after a response carrying
// them has been produced. Registered as an After middleware.
func HandleSetAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.GetResponse(ctx).(TokenResponse)
		if !ok {
			return nil, nil
		}

		accessToken, refreshToken := tokenResp.TokenInfo()
		cfg := xcontext.Configs(ctx).Auth
		cookies := []http.Cookie{
			{
				Name:     cfg.AccessToken.Name,
				Value:    accessToken,
				Path:     "/",
				Expires:  time.Now().Add(cfg.AccessToken.Expiration),
				Secure:   true,
				HttpOnly: false,
			},
			{
				Name:     cfg.RefreshToken.Name,
				Value:    refreshToken,
				Path:     "/",
				Expires:  time.Now().Add(cfg.RefreshToken.Expiration),
				Secure:   true,
				HttpOnly: true,
			},
		}

		for i := range cookies {
			http.SetCookie(xcontext.HTTPWriter(ctx), &cookies[i])
		}

		return nil, nil
	}
}
