// Package token holds the persisted credential pair and its storage
// backends. The pair is owned by whoever constructed the store; the api
// client reads it to attach bearer tokens and rewrites it on refresh.
package token

import (
	"context"
	"sync"
)

// Pair is the access/refresh credential pair. The zero value means "not
// logged in". A pair is always stored and cleared wholesale: no store may
// ever expose an access token without its refresh token or vice versa.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (p Pair) Empty() bool { return p.AccessToken == "" && p.RefreshToken == "" }

// Store persists a single pair. Save and Clear are atomic with respect to
// Load: a concurrent Load observes either the previous pair or the new one,
// never a half-written mix.
type Store interface {
	Save(ctx context.Context, pair Pair) error
	Load(ctx context.Context) (Pair, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the pair in process memory. Suited to tests and to
// embedders that bring their own persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	pair Pair
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(_ context.Context, pair Pair) error {
	s.mu.Lock()
	s.pair = pair
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.pair = Pair{}
	s.mu.Unlock()
	return nil
}
