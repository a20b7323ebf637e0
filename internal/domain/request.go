package domain

import "context"

//go:generate mockgen -destination=../app/mock_request_api_test.go -package=app . RequestAPI

// Status is the lifecycle state of a collection request as reported by the backend.
type Status string

const (
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
)

// RequestUser is the resident who filed the request.
type RequestUser struct {
	Name string `json:"name"`
}

// Measure is a display value for an optional numeric field. Empty means absent.
type Measure string

// CollectionRequest is owned by the backend; the collector only reads it and
// asks for it to be completed.
type CollectionRequest struct {
	ID            string      `json:"id"`
	User          RequestUser `json:"user"`
	Address       string      `json:"address"`
	AddressLat    *float64    `json:"addressLat,omitempty"`
	AddressLng    *float64    `json:"addressLng,omitempty"`
	Status        Status      `json:"status"`
	Weight        Measure     `json:"weight,omitempty"`
	RecycleWeight Measure     `json:"recycleWeight,omitempty"`
	Refund        Measure     `json:"refund,omitempty"`
}

// HasCoordinates reports whether both coordinates are present.
func (r CollectionRequest) HasCoordinates() bool {
	return r.AddressLat != nil && r.AddressLng != nil
}

// RequestAPI is the collector surface of the collection backend. The token is the
// collector's bearer credential; the backend derives the identity from it.
type RequestAPI interface {
	ListConfirmed(ctx context.Context, token string) ([]CollectionRequest, error)
	Complete(ctx context.Context, token, requestID string) (*CollectionRequest, error)
}
