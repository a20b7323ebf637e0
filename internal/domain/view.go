package domain

// Marker is one map pin for a request with known coordinates.
type Marker struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	UserName string  `json:"userName"`
	Address  string  `json:"address"`
	Status   Status  `json:"status"`
}

// Card is the list representation of a request.
type Card struct {
	ID            string `json:"id"`
	UserName      string `json:"userName"`
	Address       string `json:"address"`
	Status        Status `json:"status"`
	Weight        string `json:"weight"`
	RecycleWeight string `json:"recycleWeight"`
	Refund        string `json:"refund"`
	CanComplete   bool   `json:"canComplete"`
	DetailPath    string `json:"detailPath"`
}
