package model

import "github.com/maccessmap/backend/pkg/numberutil"

type AccessToken struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type RefreshToken struct {
	Family  string
	Counter uint64
}

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	AvatarURL     string `json:"avatar_url"`
	Bio           string `json:"bio"`
	Role          string `json:"role"`
	CreatedAt     string `json:"created_at"`
}

type UserStats struct {
	TotalReviews    int64   `json:"total_reviews"`
	VerifiedReviews int64   `json:"verified_reviews"`
	UniqueLocations int64   `json:"unique_locations"`
	AverageRating   float64 `json:"average_rating"`
	Reputation      int64   `json:"reputation"`
	BadgesEarned    int     `json:"badges_earned"`
	BadgesMinted    int     `json:"badges_minted"`
}

type Location struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Category      string  `json:"category"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
	CreatedAt     string  `json:"created_at"`
}

type Review struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	UserName     string   `json:"user_name"`
	UserAvatar   string   `json:"user_avatar"`
	LocationID   string   `json:"location_id"`
	LocationName string   `json:"location_name"`
	Rating       int      `json:"rating"`
	Tags         []string `json:"tags"`
	Photos       []string `json:"photos"`
	Comment      string   `json:"comment"`
	Verified     bool     `json:"verified"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

const (
	BadgeStateNotEligible     = "not_eligible"
	BadgeStateEarnedNotMinted = "earned_not_minted"
	BadgeStateMinted          = "minted"
)

type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
	ImageURL    string `json:"image_url"`
	// ImageGatewayURL is a plain https variant of ImageURL for clients
	// that cannot fetch ipfs uris.
	ImageGatewayURL string `json:"image_gateway_url,omitempty"`
	State       string `json:"state"`
	TokenID     *int64 `json:"token_id,omitempty"`
	TxHash      string `json:"tx_hash,omitempty"`
	MetadataURI string `json:"metadata_uri,omitempty"`
	MintedAt    string `json:"minted_at,omitempty"`
}

type TagScore struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

type LeaderboardEntry struct {
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
}

type Pagination = numberutil.Page
