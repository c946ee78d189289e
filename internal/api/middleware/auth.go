package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

const principalKey = "principal"

// Principal returns the principal resolved by Authenticate, or nil.
func Principal(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

func setPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// errUnauthenticated builds the 401 returned for protected routes.
func errUnauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated").SetInternal(domain.ErrNotAuthenticated)
}

// Authenticate resolves the request credential and stores the principal in
// the context. A bearer token is evaluated alone and the session cookie is
// ignored when one is sent. Requests whose credential does not resolve
// continue anonymously, as do requests with a malformed Authorization header;
// RequireAuth decides whether that is acceptable.
func Authenticate(gateway ports.AuthService, cookie *SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var cred ports.Credential

			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				// Anything other than a well-formed bearer token carries no credential.
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
					return next(c)
				}
				cred.BearerToken = strings.TrimSpace(parts[1])
			} else {
				cred.SessionID = cookie.SessionID(c)
			}

			if cred.BearerToken == "" && cred.SessionID == "" {
				return next(c)
			}

			p, err := gateway.Authenticate(c.Request().Context(), cred)
			switch {
			case err == nil:
				setPrincipal(c, p)
			case errors.Is(err, domain.ErrNotAuthenticated):
				// Unknown or revoked token, or a stale session cookie.
				if cred.SessionID != "" {
					cookie.Clear(c)
				}
			default:
				return err
			}

			return next(c)
		}
	}
}

// RequireAuth rejects requests whose principal is not bound to a user.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Principal(c).Authenticated() {
				return errUnauthenticated()
			}
			return next(c)
		}
	}
}
