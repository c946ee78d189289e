package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aitools/platform-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	findErr error // if set, FindByEmail and FindByID return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// seed stores a user with a low-cost bcrypt hash of password.
func (r *stubUserRepo) seed(name, email, password string, role domain.Role) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, err := r.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        domain.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user_%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, other := range r.byID {
		if other.ID != id && other.Email == email {
			return nil, domain.ErrUserExists
		}
	}
	u.Name = name
	u.Email = email
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

// ---------------------------------------------------------------------------
// In-memory token repository
// ---------------------------------------------------------------------------

type stubTokenRepo struct {
	mu        sync.Mutex
	byHash    map[string]*domain.Token
	nextID    int
	createErr error
	touchErr  error
	touched   []string
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{byHash: make(map[string]*domain.Token)}
}

func (r *stubTokenRepo) Create(_ context.Context, t *domain.Token) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *t
	clone.ID = fmt.Sprintf("tok_%d", r.nextID)
	r.byHash[clone.Hash] = &clone
	out := clone
	return &out, nil
}

func (r *stubTokenRepo) FindActiveByHash(_ context.Context, hash string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[hash]
	if !ok || t.Revoked() {
		return nil, domain.ErrInvalidToken
	}
	clone := *t
	return &clone, nil
}

func (r *stubTokenRepo) Revoke(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[hash]
	if !ok || t.Revoked() {
		return domain.ErrInvalidToken
	}
	now := time.Now().UTC()
	t.RevokedAt = &now
	return nil
}

func (r *stubTokenRepo) TouchLastUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	r.touched = append(r.touched, id)
	return nil
}

func (r *stubTokenRepo) active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.byHash {
		if !t.Revoked() {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// In-memory session store
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	mu      sync.Mutex
	byID    map[string]*domain.Session
	saveErr error
	getErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{byID: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *session
	s.byID[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	session, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory auth event repository
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	mu        sync.Mutex
	events    []domain.AuthEvent
	insertErr error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *stubEventRepo) types() []domain.AuthEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
