package geocoder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/maccessmap/backend/config"
	"github.com/maccessmap/backend/pkg/api"
)

var ErrNoResult = errors.New("no geocoding result")

type Endpoint struct {
	apiGenerator api.Generator
}

func New(cfg config.GeocoderConfigs) *Endpoint {
	url := cfg.URL
	if url == "" {
		url = "https://nominatim.openstreetmap.org"
	}

	return &Endpoint{apiGenerator: api.NewGenerator(strings.TrimRight(url, "/"))}
}

func (e *Endpoint) Forward(ctx context.Context, address string) (*Place, error) {
	resp, err := e.apiGenerator.New("/search").
		Query(api.Parameter{
			"q":      address,
			"format": "jsonv2",
			"limit":  "1",
		}).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	results, ok := resp.Body.(api.Array)
	if !ok {
		return nil, errors.New("unexpected geocoder response")
	}

	if len(results) == 0 {
		return nil, ErrNoResult
	}

	first, ok := results[0].(map[string]any)
	if !ok {
		return nil, errors.New("unexpected geocoder result type")
	}

	return placeFromJSON(api.JSON(first))
}

func (e *Endpoint) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	resp, err := e.apiGenerator.New("/reverse").
		Query(api.Parameter{
			"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":    strconv.FormatFloat(lng, 'f', -1, 64),
			"format": "jsonv2",
		}).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, errors.New("unexpected geocoder response")
	}

	if _, found := body["error"]; found {
		return nil, ErrNoResult
	}

	return placeFromJSON(body)
}

// placeFromJSON parses a nominatim result. Coordinates arrive as strings.
func placeFromJSON(body api.JSON) (*Place, error) {
	rawLat, err := body.GetString("lat")
	if err != nil {
		return nil, err
	}

	rawLng, err := body.GetString("lon")
	if err != nil {
		return nil, err
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}

	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}

	displayName, _ := body.GetString("display_name")

	return &Place{Latitude: lat, Longitude: lng, DisplayName: displayName}, nil
}
