package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// dummyHash is compared against when the email is unknown so a miss costs the
// same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: generate dummy hash: %v", err))
	}
	return h
})

// AuthService is the auth gateway: login, logout, current user and
// authorization, dispatching to the token issuer or the session manager.
type AuthService struct {
	users    ports.UserRepository
	tokens   *TokenIssuer
	sessions *SessionManager
	events   ports.AuthEventRepository
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens *TokenIssuer,
	sessions *SessionManager,
	events ports.AuthEventRepository,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		events:   events,
		log:      log,
	}
}

// Login verifies the credentials and creates exactly one credential: a token
// for API clients or a regenerated session for browser clients.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", unavailable(err))
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		s.audit(ctx, domain.EventLoginFailed, "", email, in.ClientKind)
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.audit(ctx, domain.EventLoginFailed, user.ID, email, in.ClientKind)
		return nil, domain.ErrInvalidCredentials
	}

	result := &ports.AuthResult{User: user}
	switch in.ClientKind {
	case domain.ClientBrowser:
		sess, err := s.sessions.Start(ctx, in.PriorSessionID, user)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		result.Session = sess
	default:
		issued, err := s.tokens.Issue(ctx, user, in.TokenName)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		result.Token = issued.Plaintext
	}

	s.audit(ctx, domain.EventLoginSucceeded, user.ID, email, in.ClientKind)
	s.log.Info().
		Str("user_id", user.ID).
		Str("client_kind", string(in.ClientKind)).
		Msg("user logged in")

	return result, nil
}

// Logout revokes the credential behind p. Token principals lose exactly that
// token; session principals get a fresh anonymous session back.
func (s *AuthService) Logout(ctx context.Context, p *domain.Principal) (*domain.Session, error) {
	if !p.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	var fresh *domain.Session
	kind := domain.ClientAPI

	switch p.Kind() {
	case domain.CredentialToken:
		if err := s.tokens.Revoke(ctx, p.TokenValue); err != nil {
			if errors.Is(err, domain.ErrInvalidToken) {
				return nil, domain.ErrNotAuthenticated
			}
			return nil, fmt.Errorf("logout: %w", err)
		}
	case domain.CredentialSession:
		next, err := s.sessions.Invalidate(ctx, p.Session)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return nil, domain.ErrNotAuthenticated
			}
			return nil, fmt.Errorf("logout: %w", err)
		}
		fresh = next
		kind = domain.ClientBrowser
	default:
		return nil, domain.ErrNotAuthenticated
	}

	s.audit(ctx, domain.EventLogout, p.User.ID, p.User.Email, kind)
	s.log.Info().Str("user_id", p.User.ID).Str("client_kind", string(kind)).Msg("user logged out")

	return fresh, nil
}

// CurrentUser returns the public view of the authenticated user.
func (s *AuthService) CurrentUser(_ context.Context, p *domain.Principal) (*domain.UserView, error) {
	if !p.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	view := domain.NewUserView(p.User)
	return &view, nil
}

// Authorize consults the role policy. Anonymous principals and unknown roles
// are denied.
func (s *AuthService) Authorize(p *domain.Principal, action domain.Action) bool {
	if !p.Authenticated() {
		return false
	}
	return p.User.Role.Can(action)
}

// Authenticate resolves a request credential into a principal. A bearer
// token is evaluated alone; the session id is only consulted without one.
// An anonymous session yields a principal without a user.
func (s *AuthService) Authenticate(ctx context.Context, cred ports.Credential) (*domain.Principal, error) {
	if cred.BearerToken != "" {
		user, tok, err := s.tokens.Resolve(ctx, cred.BearerToken)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidToken) {
				return nil, domain.ErrNotAuthenticated
			}
			return nil, err
		}
		return &domain.Principal{User: user, Token: tok, TokenValue: cred.BearerToken}, nil
	}

	sess, err := s.sessions.Resolve(ctx, cred.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}

	p := &domain.Principal{Session: sess}
	if !sess.Authenticated() {
		return p, nil
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return p, nil
		}
		return nil, fmt.Errorf("authenticate session: %w", unavailable(err))
	}
	p.User = user
	return p, nil
}

// AnonymousSession hands out a session for browsers that need a CSRF token
// before logging in.
func (s *AuthService) AnonymousSession(ctx context.Context) (*domain.Session, error) {
	return s.sessions.Anonymous(ctx)
}

// audit records an auth event. Failures are logged, never returned.
func (s *AuthService) audit(ctx context.Context, typ domain.AuthEventType, userID, email string, kind domain.ClientKind) {
	if s.events == nil {
		return
	}
	event := &domain.AuthEvent{
		Type:       typ,
		UserID:     userID,
		Email:      email,
		ClientKind: kind,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(typ)).Msg("failed to insert auth event")
	}
}
