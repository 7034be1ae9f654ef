package authenticator

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/maccessmap/backend/config"
)

type oauth2Service struct {
	provider *oidc.Provider

	name     string
	clientID string
	idField  string
}

func NewOAuth2Service(ctx context.Context, cfg config.OAuth2Config) (IOAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	return &oauth2Service{
		provider: provider,
		name:     cfg.Name,
		clientID: cfg.ClientID,
		idField:  cfg.IDField,
	}, nil
}

func (s *oauth2Service) Service() string {
	return s.name
}

// VerifyIDToken checks the signature and audience of a raw OIDC id token and
// extracts the provider-scoped user identity from its claims.
func (s *oauth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := s.provider.Verifier(&oidc.Config{ClientID: s.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := idToken.Claims(&profile); err != nil {
		return OAuth2User{}, fmt.Errorf("invalid id token: %w", err)
	}

	id, ok := profile[s.idField].(string)
	if !ok {
		return OAuth2User{}, fmt.Errorf("invalid id field %s", s.idField)
	}

	user := OAuth2User{ID: fmt.Sprintf("%s_%s", s.name, id)}
	if name, ok := profile["name"].(string); ok {
		user.Name = name
	}
	if email, ok := profile["email"].(string); ok {
		user.Email = email
	}
	if picture, ok := profile["picture"].(string); ok {
		user.Picture = picture
	}

	return user, nil
}
