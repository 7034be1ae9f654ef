package geocoder

import "context"

type Place struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// IEndpoint resolves between postal addresses and coordinates.
type IEndpoint interface {
	Forward(ctx context.Context, address string) (*Place, error)
	Reverse(ctx context.Context, lat, lng float64) (*Place, error)
}
