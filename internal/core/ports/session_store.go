package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// SessionStore holds browser sessions keyed by id.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound for missing or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
