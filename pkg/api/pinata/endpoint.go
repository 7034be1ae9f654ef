package pinata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/maccessmap/backend/config"
	"github.com/maccessmap/backend/pkg/api"
)

type Endpoint struct {
	token   string
	gateway string

	apiGenerator api.Generator
}

func New(cfg config.PinataConfigs) *Endpoint {
	gateway := cfg.Gateway
	if gateway == "" {
		gateway = "https://gateway.pinata.cloud"
	}

	return &Endpoint{
		token:        cfg.Token,
		gateway:      strings.TrimRight(gateway, "/"),
		apiGenerator: api.NewGenerator("https://api.pinata.cloud"),
	}
}

func (e *Endpoint) Configured() bool {
	return e.token != ""
}

func (e *Endpoint) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	if !e.Configured() {
		return "", errors.New("no pinning credentials configured")
	}

	resp, err := e.apiGenerator.New("/pinning/pinFileToIPFS").
		Body(api.FormData{
			Files: map[string]api.FormDataFile{
				"file": {
					Name:    name,
					Content: f,
				},
			},
		}).
		POST(ctx, api.OAuth2("Bearer", e.token))
	if err != nil {
		return "", err
	}

	return ipfsHash(resp)
}

func (e *Endpoint) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if !e.Configured() {
		return "", errors.New("no pinning credentials configured")
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return "", err
	}

	var pinContent map[string]any
	if err := json.Unmarshal(raw, &pinContent); err != nil {
		return "", err
	}

	resp, err := e.apiGenerator.New("/pinning/pinJSONToIPFS").
		Body(api.JSON{
			"pinataMetadata": map[string]any{"name": name},
			"pinataContent":  pinContent,
		}).
		POST(ctx, api.OAuth2("Bearer", e.token))
	if err != nil {
		return "", err
	}

	return ipfsHash(resp)
}

func (e *Endpoint) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", e.gateway, cid)
}

func ipfsHash(resp *api.Response) (string, error) {
	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("fail to push ipfs")
	}

	ipfs, err := body.GetString("IpfsHash")
	if err != nil {
		return "", err
	}

	return ipfs, nil
}
