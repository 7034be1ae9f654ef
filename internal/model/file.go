package model

type UploadImageRequest struct{}

type UploadImageResponse struct {
	Urls []string `json:"urls"`
	// CID is set when the original photo was also pinned to ipfs.
	CID string `json:"cid,omitempty"`
}

type UploadAvatarRequest struct{}

type UploadAvatarResponse struct {
	Url string `json:"url"`
}
