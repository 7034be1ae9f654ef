package model

type GetMeRequest struct{}

type GetMeResponse struct {
	User  User      `json:"user"`
	Stats UserStats `json:"stats"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse struct {
	User  User      `json:"user"`
	Stats UserStats `json:"stats"`
}

type UpdateUserRequest struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type GetLeaderboardRequest struct {
	Limit int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
