package model

type GetListLocationRequest struct {
	Q        string `json:"q"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

type GetListLocationResponse struct {
	Locations  []Location `json:"locations"`
	Pagination Pagination `json:"pagination"`
}

type GetLocationRequest struct {
	ID string `json:"id"`
}

type GetLocationResponse struct {
	Location Location `json:"location"`
}

type GetNearbyLocationsRequest struct {
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
	Limit        int     `json:"limit"`
}

type GetNearbyLocationsResponse struct {
	Locations []Location `json:"locations"`
}
