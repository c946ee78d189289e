package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserService covers account management outside of login/logout.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
}
