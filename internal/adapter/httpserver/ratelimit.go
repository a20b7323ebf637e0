package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	apperrors "github.com/DinuthRashmika/waste-collector/internal/platform/errors"
)

const rateLimiterExpiry = 5 * time.Minute

// newRateLimiter limits login attempts and completions per client as named by
// identify.
func newRateLimiter(ratePerSecond float64, burst int, identify func(echo.Context) string) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		},
	)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return identify(c), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Message: "rate limit exceeded",
				Type:    apperrors.TypeRateLimited,
			})
		},
	})
}

func clientIP(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// rateLimitKey budgets logged-in collectors by session and anyone else by address.
func (s *Server) rateLimitKey(c echo.Context) string {
	session, err := s.cookieStore.Get(c.Request(), sessionName)
	if err != nil {
		return clientIP(c)
	}
	if sessionID, ok := session.Values[sessionKeyID].(string); ok && sessionID != "" {
		return "session:" + sessionID
	}
	return clientIP(c)
}
