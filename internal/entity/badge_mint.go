package entity

import "database/sql"

// BadgeMint records one earned badge tier per user. A row with a null
// token id means earned but not yet minted; minting fills token id,
// transaction hash and minted_at exactly once.
type BadgeMint struct {
	Base
	UserID string `gorm:"index:idx_badge_mints_user_badge,unique"`
	User   User   `gorm:"foreignKey:UserID"`

	BadgeName string `gorm:"index:idx_badge_mints_user_badge,unique"`
	Threshold int

	MetadataURI     string
	ContractAddress string
	TokenID         sql.NullInt64
	TxHash          string
	MintedAt        sql.NullTime
}

func (b BadgeMint) Minted() bool {
	return b.TokenID.Valid
}
