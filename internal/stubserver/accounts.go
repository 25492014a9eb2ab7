package stubserver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/hiredesk-session/internal/domain"
)

// Registry errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("username or email already registered")
)

// Account models a registered stub account.
type Account struct {
	ID           string
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	CompanyName  string
	Role         domain.Role
	CreatedAt    time.Time
}

// AccountRegistry defines persistence access for stub accounts.
type AccountRegistry interface {
	Create(ctx context.Context, account *Account) error
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

type memoryRegistry struct {
	mu         sync.RWMutex
	byUsername map[string]*Account
	emails     map[string]struct{}
}

// NewMemoryRegistry returns an in-memory implementation; accounts vanish
// with the process.
func NewMemoryRegistry() AccountRegistry {
	return &memoryRegistry{
		byUsername: make(map[string]*Account),
		emails:     make(map[string]struct{}),
	}
}

func (r *memoryRegistry) Create(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[account.Username]; exists {
		return ErrAccountExists
	}
	if _, exists := r.emails[account.Email]; exists {
		return ErrAccountExists
	}

	account.ID = uuid.NewString()
	account.CreatedAt = time.Now()

	stored := *account
	r.byUsername[account.Username] = &stored
	r.emails[account.Email] = struct{}{}
	return nil
}

func (r *memoryRegistry) GetByUsername(_ context.Context, username string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.byUsername[username]
	if !exists {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}
