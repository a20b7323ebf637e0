package httpserver

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return token
}

func TestCollectorName(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"name claim", signed(t, jwt.MapClaims{"name": "Nimal Silva"}), "Nimal Silva"},
		{"username fallback", signed(t, jwt.MapClaims{"username": "nimal"}), "nimal"},
		{"email fallback", signed(t, jwt.MapClaims{"email": "nimal@example.com"}), "nimal@example.com"},
		{"blank name", signed(t, jwt.MapClaims{"name": "  ", "username": "nimal"}), "nimal"},
		{"no display claim", signed(t, jwt.MapClaims{"sub": "42"}), "Collector"},
		{"opaque token", "not-a-jwt", "Collector"},
		{"empty", "", "Collector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectorName(tt.token))
		})
	}
}
