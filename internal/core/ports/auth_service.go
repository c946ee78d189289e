package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// LoginInput carries a login attempt from the transport layer.
type LoginInput struct {
	Email      string
	Password   string
	ClientKind domain.ClientKind
	// PriorSessionID is the browser's current session id, destroyed on success.
	PriorSessionID string
	// TokenName labels the issued token for API clients.
	TokenName string
}

// AuthResult is returned by a successful login. Token is set for API clients,
// Session for browser clients.
type AuthResult struct {
	User    *domain.User
	Token   string
	Session *domain.Session
}

// Credential is what the transport layer extracted from a request.
// BearerToken takes precedence; SessionID is ignored when it is set.
type Credential struct {
	BearerToken string
	SessionID   string
}

// AuthService is the auth gateway used by handlers and middleware.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// Logout revokes the principal's credential. For session principals it
	// returns the fresh anonymous session that replaces the old one.
	Logout(ctx context.Context, p *domain.Principal) (*domain.Session, error)
	CurrentUser(ctx context.Context, p *domain.Principal) (*domain.UserView, error)
	Authorize(p *domain.Principal, action domain.Action) bool
	Authenticate(ctx context.Context, cred Credential) (*domain.Principal, error)
	AnonymousSession(ctx context.Context) (*domain.Session, error)
}
