package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aitools/platform-api/internal/api/middleware"
	"github.com/aitools/platform-api/internal/core/domain"
)

// ctxPrincipal returns the authenticated principal injected by the
// Authenticate middleware. It fails fast with 401 when the route was not
// guarded or the principal carries no user.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.Principal(c)
	if !p.Authenticated() {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated").SetInternal(domain.ErrNotAuthenticated)
	}
	return p, nil
}

// validate runs the echo validator and reports failures as 422.
func validate(c echo.Context, req any) error {
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(domain.ErrInvalidInput)
	}
	return nil
}

func invalidPayload() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
}
