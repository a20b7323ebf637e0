package collection

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

// wireRequest is a collection request as the backend serialises it. Every field
// is kept raw so one malformed item cannot fail the whole list.
type wireRequest struct {
	MongoID       json.RawMessage `json:"_id"`
	ID            json.RawMessage `json:"id"`
	User          json.RawMessage `json:"user"`
	Address       json.RawMessage `json:"address"`
	AddressLat    json.RawMessage `json:"addressLat"`
	AddressLng    json.RawMessage `json:"addressLng"`
	Status        json.RawMessage `json:"status"`
	Weight        json.RawMessage `json:"weight"`
	RecycleWeight json.RawMessage `json:"recycleWeight"`
	Refund        json.RawMessage `json:"refund"`
}

func (w wireRequest) toDomain() domain.CollectionRequest {
	r := domain.CollectionRequest{
		ID:            parseText(w.MongoID),
		User:          domain.RequestUser{Name: parseUserName(w.User)},
		Address:       parseText(w.Address),
		AddressLat:    parseCoordinate(w.AddressLat),
		AddressLng:    parseCoordinate(w.AddressLng),
		Status:        domain.Status(parseText(w.Status)),
		Weight:        parseMeasure(w.Weight),
		RecycleWeight: parseMeasure(w.RecycleWeight),
		Refund:        parseMeasure(w.Refund),
	}
	if r.ID == "" {
		r.ID = parseText(w.ID)
	}
	return r
}

// parseText renders a string or number as text. Null, booleans, arrays and
// objects are empty.
func parseText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// parseUserName reads the name of a populated user. An unpopulated reference
// (a bare id) or any other shape has no name.
func parseUserName(raw json.RawMessage) string {
	var user struct {
		Name json.RawMessage `json:"name"`
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &user) != nil {
		return ""
	}
	return parseText(user.Name)
}

// parseCoordinate accepts a JSON number or numeric string. Anything else is absent.
func parseCoordinate(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return finite(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return finite(n)
		}
	}
	return nil
}

func finite(n float64) *float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// parseMeasure renders an optional value for display. Null, false, zero and the
// empty string are absent.
func parseMeasure(raw json.RawMessage) domain.Measure {
	if len(raw) == 0 {
		return ""
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == 0 {
			return ""
		}
		return domain.Measure(strconv.FormatFloat(n, 'f', -1, 64))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.Measure(s)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil && b {
		return "true"
	}
	return ""
}
