package pinata

import (
	"context"
	"io"
)

type IEndpoint interface {
	// Configured reports whether pinning credentials are present. Callers
	// must not attempt to pin when it returns false.
	Configured() bool

	PinFile(ctx context.Context, name string, f io.Reader) (string, error)
	PinJSON(ctx context.Context, name string, content any) (string, error)

	// GatewayURL resolves a content identifier to a fetchable URL.
	GatewayURL(cid string) string
}
