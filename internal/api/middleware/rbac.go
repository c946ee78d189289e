package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aitools/platform-api/internal/api/metrics"
	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// Authorize enforces the role policy for action. Anonymous requests get 401,
// authenticated principals without the action get 403.
func Authorize(gateway ports.AuthService, action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if !p.Authenticated() {
				return errUnauthenticated()
			}
			if !gateway.Authorize(p, action) {
				metrics.AuthorizationDeniedTotal.WithLabelValues(string(action)).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden").SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
