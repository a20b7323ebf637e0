package app

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

// Placeholder is shown for optional fields the backend left empty.
const Placeholder = "N/A"

// Markers projects the requests that carry both coordinates onto map markers.
// Requests without them are skipped with a warning.
func Markers(ctx context.Context, requests []domain.CollectionRequest) []domain.Marker {
	markers := make([]domain.Marker, 0, len(requests))
	for _, r := range requests {
		if !r.HasCoordinates() {
			slog.WarnContext(ctx, "Invalid coordinates for request", "request_id", r.ID)
			continue
		}
		markers = append(markers, domain.Marker{
			ID:       r.ID,
			Lat:      *r.AddressLat,
			Lng:      *r.AddressLng,
			UserName: r.User.Name,
			Address:  r.Address,
			Status:   r.Status,
		})
	}
	return markers
}

// Cards projects every request onto a list card.
func Cards(requests []domain.CollectionRequest) []domain.Card {
	cards := make([]domain.Card, 0, len(requests))
	for _, r := range requests {
		cards = append(cards, domain.Card{
			ID:            r.ID,
			UserName:      r.User.Name,
			Address:       r.Address,
			Status:        r.Status,
			Weight:        orPlaceholder(r.Weight),
			RecycleWeight: orPlaceholder(r.RecycleWeight),
			Refund:        orPlaceholder(r.Refund),
			CanComplete:   r.Status != domain.StatusCompleted,
			DetailPath:    DetailPath(r.ID),
		})
	}
	return cards
}

// DetailPath is the map detail route of a single request.
func DetailPath(requestID string) string {
	return "/collector/request/" + url.PathEscape(requestID) + "/map"
}

func orPlaceholder(m domain.Measure) string {
	if m == "" {
		return Placeholder
	}
	return string(m)
}
