package testutil

import (
	"context"
	"errors"

	"github.com/maccessmap/backend/pkg/blockchain/eth"
)

type MockMinter struct {
	MintBadgeFunc func(ctx context.Context, recipient, tokenURI string) (*eth.MintReceipt, error)
}

func (m *MockMinter) MintBadge(
	ctx context.Context, recipient, tokenURI string,
) (*eth.MintReceipt, error) {
	if m.MintBadgeFunc != nil {
		return m.MintBadgeFunc(ctx, recipient, tokenURI)
	}

	return nil, errors.New("not implemented")
}
