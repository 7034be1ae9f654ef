package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/maccessmap/backend/pkg/authenticator"
	"github.com/maccessmap/backend/pkg/errorx"
	"github.com/maccessmap/backend/pkg/router"
	"github.com/maccessmap/backend/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
	optional       bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

// WithOptional lets unauthenticated requests through with an empty user
// id instead of rejecting them.
func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !a.useAccessToken {
			return nil, nil
		}

		token := getAccessToken(xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Auth.AccessToken.Name)
		if token == "" {
			if a.optional {
				return nil, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			if authenticator.IsExpired(err) {
				return nil, errorx.New(errorx.TokenExpired, "Your access token is expired")
			}

			xcontext.Logger(ctx).Debugf("Failed to verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func getAccessToken(req *http.Request, cookieName string) string {
	authorization := req.Header.Get("Authorization")
	if authorization != "" {
		token, found := strings.CutPrefix(authorization, "Bearer ")
		if found {
			return token
		}
	}

	cookie, err := req.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
