package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/maccessmap/backend/pkg/api/classifier"
	"github.com/maccessmap/backend/pkg/api/geocoder"
	"github.com/maccessmap/backend/pkg/authenticator"
)

type MockPinataEndpoint struct {
	ConfiguredFunc func() bool
	PinFileFunc    func(ctx context.Context, name string, f io.Reader) (string, error)
	PinJSONFunc    func(ctx context.Context, name string, content any) (string, error)
}

func (e *MockPinataEndpoint) Configured() bool {
	if e.ConfiguredFunc != nil {
		return e.ConfiguredFunc()
	}

	return true
}

func (e *MockPinataEndpoint) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	if e.PinFileFunc != nil {
		return e.PinFileFunc(ctx, name, f)
	}

	return "", errors.New("not implemented")
}

func (e *MockPinataEndpoint) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if e.PinJSONFunc != nil {
		return e.PinJSONFunc(ctx, name, content)
	}

	return "bafymockcid", nil
}

func (e *MockPinataEndpoint) GatewayURL(cid string) string {
	return fmt.Sprintf("https://gateway.example.com/ipfs/%s", cid)
}

type MockClassifierEndpoint struct {
	ClassifyFunc func(ctx context.Context, text string, labels []string) ([]classifier.LabelScore, error)
}

func (e *MockClassifierEndpoint) Classify(
	ctx context.Context, text string, labels []string,
) ([]classifier.LabelScore, error) {
	if e.ClassifyFunc != nil {
		return e.ClassifyFunc(ctx, text, labels)
	}

	return nil, errors.New("not implemented")
}

type MockGeocoderEndpoint struct {
	ForwardFunc func(ctx context.Context, address string) (*geocoder.Place, error)
	ReverseFunc func(ctx context.Context, lat, lng float64) (*geocoder.Place, error)
}

func (e *MockGeocoderEndpoint) Forward(ctx context.Context, address string) (*geocoder.Place, error) {
	if e.ForwardFunc != nil {
		return e.ForwardFunc(ctx, address)
	}

	return nil, geocoder.ErrNoResult
}

func (e *MockGeocoderEndpoint) Reverse(ctx context.Context, lat, lng float64) (*geocoder.Place, error) {
	if e.ReverseFunc != nil {
		return e.ReverseFunc(ctx, lat, lng)
	}

	return nil, geocoder.ErrNoResult
}

type MockOAuth2Service struct {
	Name              string
	VerifyIDTokenFunc func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error)
}

func (m *MockOAuth2Service) Service() string {
	return m.Name
}

func (m *MockOAuth2Service) VerifyIDToken(
	ctx context.Context, rawIDToken string,
) (authenticator.OAuth2User, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}

	return authenticator.OAuth2User{}, errors.New("not implemented")
}
