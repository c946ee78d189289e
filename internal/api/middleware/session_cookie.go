package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// sessionClaims is the signed payload of the session cookie.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionCookie reads and writes the browser session cookie. The cookie
// carries an HS256-signed JWT whose sid claim is the server-side session id;
// a cookie with a bad signature is treated as absent.
type SessionCookie struct {
	name   string
	secret []byte
	secure bool
}

func NewSessionCookie(name, secret string, secure bool) *SessionCookie {
	return &SessionCookie{name: name, secret: []byte(secret), secure: secure}
}

// Write sets the cookie for sessionID.
func (sc *SessionCookie) Write(c echo.Context, sessionID string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString(sc.secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sc.secure,
	})
	return nil
}

// Clear expires the cookie in the browser.
func (sc *SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   sc.secure,
		MaxAge:   -1,
	})
}

// SessionID returns the session id carried by the request cookie, or "" when
// the cookie is missing or its signature does not verify.
func (sc *SessionCookie) SessionID(c echo.Context) string {
	cookie, err := c.Cookie(sc.name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (interface{}, error) {
		return sc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return ""
	}
	return claims.SessionID
}
