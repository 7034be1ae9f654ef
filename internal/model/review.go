package model

// ReviewLocation identifies the reviewed place. Either an existing id or
// enough fields to find-or-create the location row.
type ReviewLocation struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreateReviewRequest struct {
	Location ReviewLocation `json:"location"`
	Rating   int            `json:"rating"`
	Tags     []string       `json:"tags"`
	Photos   []string       `json:"photos"`
	Comment  string         `json:"comment"`
}

type CreateReviewResponse struct {
	Review       Review  `json:"review"`
	EarnedBadges []Badge `json:"earned_badges"`
}

type UpdateReviewRequest struct {
	ID      string   `json:"id"`
	Rating  int      `json:"rating"`
	Tags    []string `json:"tags"`
	Photos  []string `json:"photos"`
	Comment string   `json:"comment"`
}

type UpdateReviewResponse struct {
	Review Review `json:"review"`
}

type DeleteReviewRequest struct {
	ID string `json:"id"`
}

type DeleteReviewResponse struct{}

type GetListReviewRequest struct {
	LocationID string `json:"location_id"`
	UserID     string `json:"user_id"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

type GetListReviewResponse struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}

type GetReviewRequest struct {
	ID string `json:"id"`
}

type GetReviewResponse struct {
	Review Review `json:"review"`
}

type VerifyReviewRequest struct {
	ID       string `json:"id"`
	Verified bool   `json:"verified"`
}

type VerifyReviewResponse struct {
	Review       Review  `json:"review"`
	EarnedBadges []Badge `json:"earned_badges"`
}

type SuggestTagsRequest struct {
	Comment string `json:"comment"`
}

type SuggestTagsResponse struct {
	Suggestions []TagScore `json:"suggestions"`
}
