package accounts

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/google/uuid"
)

// errLinkCollision mirrors a violation of the activation link unique index.
// It is not an email duplicate, so it surfaces as an internal failure.
var errLinkCollision = errors.New("activation link already in use")

// MemoryRepository keeps accounts in process memory. Email uniqueness is
// checked under the same lock as the insert.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
	byLink  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
		byLink:  make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byLink[account.ActivationLink]; ok {
		return nil, errLinkCollision
	}

	stored := *account
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	r.byLink[stored.ActivationLink] = stored.ID

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail, email)
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (r *MemoryRepository) GetByActivationLink(ctx context.Context, link string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byLink, link)
}

func (r *MemoryRepository) Activate(ctx context.Context, link string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byLink[link]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := r.byID[id]
	a.IsActivated = true
	out := *a
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Account, 0, len(r.byID))
	for _, a := range r.byID {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) lookup(index map[string]string, key string) (*Account, error) {
	id, ok := index[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
