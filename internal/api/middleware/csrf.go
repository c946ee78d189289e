package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aitools/platform-api/internal/api/metrics"
	"github.com/aitools/platform-api/internal/core/domain"
)

const (
	// CSRFHeader carries the session CSRF token on unsafe requests.
	CSRFHeader = "X-CSRF-Token"
	// csrfFormField is the fallback for plain HTML form posts.
	csrfFormField = "_token"

	// StatusCSRFMismatch is the non-standard "page expired" status.
	StatusCSRFMismatch = 419
)

// CSRF checks unsafe requests that ride on a session cookie. The token must
// match the one stored with the session. Token-authenticated and cookieless
// requests are not checked.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isSafeMethod(c.Request().Method) {
				return next(c)
			}

			p := Principal(c)
			if p.Kind() != domain.CredentialSession {
				return next(c)
			}

			sent := c.Request().Header.Get(CSRFHeader)
			if sent == "" {
				sent = c.FormValue(csrfFormField)
			}
			if sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(p.Session.CSRFToken)) != 1 {
				metrics.CSRFRejectedTotal.Inc()
				return echo.NewHTTPError(StatusCSRFMismatch, "csrf token mismatch").SetInternal(domain.ErrCSRFMismatch)
			}
			return next(c)
		}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
