package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aitools/platform-api/internal/api/metrics"
	"github.com/aitools/platform-api/internal/api/middleware"
	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// AuthHandler serves login, logout, the current user and account endpoints.
type AuthHandler struct {
	auth     ports.AuthService
	users    ports.UserService
	cookie   *middleware.SessionCookie
	homePath string
}

func NewAuthHandler(auth ports.AuthService, users ports.UserService, cookie *middleware.SessionCookie, homePath string) *AuthHandler {
	if homePath == "" {
		homePath = "/dashboard"
	}
	return &AuthHandler{auth: auth, users: users, cookie: cookie, homePath: homePath}
}

// clientKind picks the credential a login creates. Requests that speak JSON
// are API clients and get a token; everything else is a browser form post.
func clientKind(c echo.Context) domain.ClientKind {
	req := c.Request()
	if strings.Contains(req.Header.Get(echo.HeaderAccept), "json") ||
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return domain.ClientAPI
	}
	return domain.ClientBrowser
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// Login authenticates a user. API clients receive a bearer token, browser
// clients a fresh session cookie and a redirect.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Success      302   {string}  string  "redirect to the home path"
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	kind := clientKind(c)
	start := time.Now()

	in := ports.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		ClientKind: kind,
		TokenName:  req.TokenName,
	}
	if p := middleware.Principal(c); p.Kind() == domain.CredentialSession {
		in.PriorSessionID = p.Session.ID
	}

	res, err := h.auth.Login(c.Request().Context(), in)
	metrics.LoginDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.LoginAttemptsTotal.WithLabelValues(string(kind), loginOutcome(err)).Inc()
	if err != nil {
		return err
	}

	if res.Session != nil {
		if err := h.cookie.Write(c, res.Session.ID); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, h.homePath)
	}

	return c.JSON(http.StatusOK, loginResponse{
		User:    domain.NewUserView(res.User),
		Token:   res.Token,
		Message: "logged in",
	})
}

// Logout revokes the credential used for this request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  logoutResponse
// @Failure      401  {object}  errorResponse
// @Failure      419  {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	fresh, err := h.auth.Logout(c.Request().Context(), p)
	if err != nil {
		return err
	}
	metrics.LogoutsTotal.WithLabelValues(string(p.Kind())).Inc()

	resp := logoutResponse{Message: "logged out"}
	if fresh != nil {
		if err := h.cookie.Write(c, fresh.ID); err != nil {
			return err
		}
		resp.CSRFToken = fresh.CSRFToken
	}
	return c.JSON(http.StatusOK, resp)
}

// User returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserView
// @Failure      401  {object}  errorResponse
// @Router       /user [get]
func (h *AuthHandler) User(c echo.Context) error {
	p := middleware.Principal(c)
	view, err := h.auth.CurrentUser(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// CSRFCookie makes sure the browser holds a session and returns its CSRF token.
//
// @Summary      Issue a CSRF token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  csrfResponse
// @Router       /csrf-cookie [get]
func (h *AuthHandler) CSRFCookie(c echo.Context) error {
	if p := middleware.Principal(c); p.Kind() == domain.CredentialSession {
		return c.JSON(http.StatusOK, csrfResponse{CSRFToken: p.Session.CSRFToken})
	}

	session, err := h.auth.AnonymousSession(c.Request().Context())
	if err != nil {
		return err
	}
	if err := h.cookie.Write(c, session.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, csrfResponse{CSRFToken: session.CSRFToken})
}

// Register creates a new account with the default role. It does not log in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: domain.NewUserView(user)})
}

// UpdateProfile edits the caller's name and email.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), p.User.ID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: domain.NewUserView(user)})
}

// ChangeRole assigns a role to another user. Owner only.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User ID"
// @Param        body  body      roleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/{id}/role [put]
func (h *AuthHandler) ChangeRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	user, err := h.users.ChangeRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: domain.NewUserView(user)})
}

// Roles lists the role policy table.
//
// @Summary      List roles
// @Tags         users
// @Produce      json
// @Success      200  {array}  roleResponse
// @Router       /roles [get]
func (h *AuthHandler) Roles(c echo.Context) error {
	out := make([]roleResponse, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		out = append(out, roleResponse{
			Role:        r,
			DisplayName: r.DisplayName(),
			Color:       r.Color(),
			Actions:     r.PermittedActions(),
		})
	}
	return c.JSON(http.StatusOK, out)
}
