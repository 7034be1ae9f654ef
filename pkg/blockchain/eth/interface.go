package eth

import "context"

type MintReceipt struct {
	TxHash  string
	TokenID int64
}

// Minter submits a badge mint transaction for a recipient wallet and reports
// the confirmed result.
type Minter interface {
	MintBadge(ctx context.Context, recipient, tokenURI string) (*MintReceipt, error)
}
