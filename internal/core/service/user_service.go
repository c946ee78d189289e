package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

type UserService struct {
	users          ports.UserRepository
	minPasswordLen int
	log            zerolog.Logger
}

func NewUserService(users ports.UserRepository, minPasswordLen int, log zerolog.Logger) *UserService {
	return &UserService{users: users, minPasswordLen: minPasswordLen, log: log}
}

// Register creates a user-role account. It does not log the account in.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	if len(in.Password) < s.minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, s.minPasswordLen)
	}

	user, err := s.create(ctx, name, email, in.Password, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// UpdateProfile edits the caller's own name and email.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	user, err := s.users.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", unavailable(err))
	}
	return user, nil
}

// ChangeRole assigns one of the known roles to a user.
func (s *UserService) ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("change role: %w", unavailable(err))
	}

	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("user role changed")
	return user, nil
}

// SeedOwner creates the owner account on first boot. It is a no-op when the
// email is already registered, whatever that account's role is. A new owner
// password must meet the same minimum length as registration.
func (s *UserService) SeedOwner(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("seed owner: %w", unavailable(err))
	}
	if len(password) < s.minPasswordLen {
		return fmt.Errorf("seed owner: %w: password must be at least %d characters", domain.ErrInvalidInput, s.minPasswordLen)
	}

	user, err := s.create(ctx, "Owner", email, password, domain.RoleOwner)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed owner: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("email", email).Msg("owner account seeded")
	return nil
}

func (s *UserService) create(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", unavailable(err))
	}
	return user, nil
}
