package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// MemoryStore is a process-local Store. The reverse index enforces token
// uniqueness the way the unique column does in Postgres.
type MemoryStore struct {
	mu        sync.Mutex
	byAccount map[string]Record
	byToken   map[string]string
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byAccount: make(map[string]Record),
		byToken:   make(map[string]string),
		now:       time.Now,
	}
}

// WithClock swaps the expiry clock; it returns the store for chaining.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Put(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byToken[token]; ok && owner != accountID {
		return common.ErrorAlreadyExists
	}
	if prev, ok := s.byAccount[accountID]; ok {
		delete(s.byToken, prev.Token)
	}

	s.byAccount[accountID] = Record{AccountID: accountID, Token: token, ExpiresAt: expiresAt}
	s.byToken[token] = accountID
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byToken[token]
	if !ok {
		return "", common.ErrorNotFound
	}
	if !s.byAccount[id].ExpiresAt.After(s.now()) {
		return "", common.ErrorNotFound
	}
	return id, nil
}

func (s *MemoryStore) Remove(ctx context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, nil
	}
	rec := s.byAccount[id]
	delete(s.byToken, token)
	delete(s.byAccount, id)
	return &rec, nil
}
