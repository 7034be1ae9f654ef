package model

type GetBadgesRequest struct {
	UserID string `json:"user_id"`
}

type GetBadgesResponse struct {
	Badges []Badge `json:"badges"`
}

type GetNextBadgeRequest struct{}

type GetNextBadgeResponse struct {
	Badge            *Badge `json:"badge"`
	VerifiedReviews  int64  `json:"verified_reviews"`
	RemainingReviews int64  `json:"remaining_reviews"`
}

type MintBadgesRequest struct{}

type MintBadgesResponse struct {
	Minted []Badge `json:"minted"`
}
