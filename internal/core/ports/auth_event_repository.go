package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// AuthEventRepository appends to the authentication audit trail.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
