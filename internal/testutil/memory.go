package testutil

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// MemoryUserStore is an in-memory model.UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

var _ model.UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return user, nil
}

// Delete removes a user; used to simulate accounts vanishing mid-session.
func (s *MemoryUserStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// MemoryRefreshTokenStore is an in-memory model.RefreshTokenStore keyed by token hash.
type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

var _ model.RefreshTokenStore = (*MemoryRefreshTokenStore)(nil)

func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{tokens: make(map[string]model.RefreshToken)}
}

func (s *MemoryRefreshTokenStore) Create(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := hex.EncodeToString(token.TokenHash)
	if _, ok := s.tokens[key]; ok {
		return model.ErrAlreadyExists
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	s.tokens[key] = token
	return nil
}

func (s *MemoryRefreshTokenStore) Find(_ context.Context, tokenHash []byte, userID uuid.UUID) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[hex.EncodeToString(tokenHash)]
	if !ok || t.UserID != userID {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return t, nil
}

func (s *MemoryRefreshTokenStore) DeleteByToken(_ context.Context, tokenHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, hex.EncodeToString(tokenHash))
	return nil
}

func (s *MemoryRefreshTokenStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.tokens {
		if t.ID == id {
			delete(s.tokens, k)
		}
	}
	return nil
}

func (s *MemoryRefreshTokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, t := range s.tokens {
		if t.Expired(now) {
			delete(s.tokens, k)
			n++
		}
	}
	return n, nil
}

// Len reports how many ledger entries exist.
func (s *MemoryRefreshTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// ExpireAll moves every entry's expiry to the given time.
func (s *MemoryRefreshTokenStore) ExpireAll(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.tokens {
		t.ExpiresAt = at
		s.tokens[k] = t
	}
}
