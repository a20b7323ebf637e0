package httpserver

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const defaultCollectorName = "Collector"

// collectorName reads the display name from the token's claims. The signature is
// not checked: the backend verifies the token on every call, and the name is
// only shown in the page header.
func collectorName(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return defaultCollectorName
	}
	for _, key := range []string{"name", "username", "email"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return defaultCollectorName
}
