// Package repomanager wires the storage backends of the server: it vends
// the account and session repositories and runs schema migrations.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Accounts() accounts.Repository
	Sessions() sessions.Store
	Close() error
}

// InMemoryRepositoryManager keeps everything in process memory. Nothing
// survives a restart.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	sessions *sessions.MemoryStore
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		sessions: sessions.NewMemoryStore(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Accounts() accounts.Repository       { return m.accounts }
func (m *InMemoryRepositoryManager) Sessions() sessions.Store            { return m.sessions }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }
