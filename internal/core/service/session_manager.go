package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// csrfTokenBytes is the entropy of a session CSRF token.
const csrfTokenBytes = 32

// SessionManager owns the browser session lifecycle:
// Anonymous -> Authenticated (Start) -> Anonymous (Invalidate).
type SessionManager struct {
	store ports.SessionStore
}

func NewSessionManager(store ports.SessionStore) *SessionManager {
	return &SessionManager{store: store}
}

// Start binds a brand new session id to user. The prior id, if any, is
// destroyed so a pre-login id can never carry the authenticated identity.
func (m *SessionManager) Start(ctx context.Context, priorID string, user *domain.User) (*domain.Session, error) {
	if priorID != "" {
		if err := m.store.Delete(ctx, priorID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("start session: drop prior: %w", unavailable(err))
		}
	}
	return m.create(ctx, user.ID)
}

// Invalidate destroys session and returns the anonymous session replacing it,
// carrying a fresh CSRF token.
func (m *SessionManager) Invalidate(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if err := m.store.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("invalidate session: %w", unavailable(err))
	}
	return m.create(ctx, "")
}

// Anonymous creates a session not bound to any user.
func (m *SessionManager) Anonymous(ctx context.Context) (*domain.Session, error) {
	return m.create(ctx, "")
}

// Resolve loads a session by id. Expired, rotated or unknown ids fail with
// domain.ErrSessionNotFound.
func (m *SessionManager) Resolve(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("resolve session: %w", unavailable(err))
	}
	return s, nil
}

func (m *SessionManager) create(ctx context.Context, userID string) (*domain.Session, error) {
	csrf, err := randomHex(csrfTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CSRFToken: csrf,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", unavailable(err))
	}
	return s, nil
}
