package authenticator

import (
	"context"
)

// TokenEngine generates and verifies signed tokens carrying an object of type
// T.
type TokenEngine[T any] interface {
	Generate(sub string, obj T) (string, error)
	Verify(token string) (T, error)
}

type OAuth2User struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

// IOAuth2Service verifies identity tokens issued by an external OpenID
// Connect provider.
type IOAuth2Service interface {
	Service() string
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
}
