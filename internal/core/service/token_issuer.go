package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// tokenBytes is the entropy of a personal access token (256 bits).
const tokenBytes = 32

// IssuedToken pairs the stored record with the plaintext shown to the client once.
type IssuedToken struct {
	Token     *domain.Token
	Plaintext string
}

// TokenIssuer mints, resolves and revokes opaque bearer tokens.
type TokenIssuer struct {
	tokens ports.TokenRepository
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewTokenIssuer(tokens ports.TokenRepository, users ports.UserRepository, log zerolog.Logger) *TokenIssuer {
	return &TokenIssuer{tokens: tokens, users: users, log: log}
}

// HashToken returns the SHA-256 hex digest stored in place of the raw token.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// Issue creates a new token for user. The plaintext is not retrievable afterwards.
func (ti *TokenIssuer) Issue(ctx context.Context, user *domain.User, name string) (*IssuedToken, error) {
	plaintext, err := randomHex(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if name == "" {
		name = "api"
	}

	created, err := ti.tokens.Create(ctx, &domain.Token{
		UserID:    user.ID,
		Name:      name,
		Hash:      HashToken(plaintext),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", unavailable(err))
	}

	return &IssuedToken{Token: created, Plaintext: plaintext}, nil
}

// Resolve maps a plaintext token to its owner. Unknown or revoked tokens
// fail with domain.ErrInvalidToken.
func (ti *TokenIssuer) Resolve(ctx context.Context, plaintext string) (*domain.User, *domain.Token, error) {
	if plaintext == "" {
		return nil, nil, domain.ErrInvalidToken
	}

	tok, err := ti.tokens.FindActiveByHash(ctx, HashToken(plaintext))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, nil, domain.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("resolve token: %w", unavailable(err))
	}

	user, err := ti.users.FindByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("resolve token owner: %w", unavailable(err))
	}

	if err := ti.tokens.TouchLastUsed(ctx, tok.ID); err != nil {
		ti.log.Warn().Err(err).Str("token_id", tok.ID).Msg("failed to touch token last_used_at")
	}

	return user, tok, nil
}

// Revoke marks exactly this token unusable. Other tokens of the same user
// are untouched.
func (ti *TokenIssuer) Revoke(ctx context.Context, plaintext string) error {
	if plaintext == "" {
		return domain.ErrInvalidToken
	}
	if err := ti.tokens.Revoke(ctx, HashToken(plaintext)); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("revoke token: %w", unavailable(err))
	}
	return nil
}

// randomHex returns n bytes from crypto/rand, hex encoded.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// unavailable tags a storage failure so it is never confused with a
// credential failure.
func unavailable(err error) error {
	if errors.Is(err, domain.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}
