package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// TokenRepository persists personal access tokens by hash.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) (*domain.Token, error)
	// FindActiveByHash returns the non-revoked token with the given hash or
	// domain.ErrInvalidToken.
	FindActiveByHash(ctx context.Context, hash string) (*domain.Token, error)
	// Revoke sets revoked_at on the non-revoked token with the given hash in a
	// single update. Returns domain.ErrInvalidToken when nothing matched.
	Revoke(ctx context.Context, hash string) error
	TouchLastUsed(ctx context.Context, id string) error
}
