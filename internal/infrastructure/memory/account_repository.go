package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
)

// AccountRepository keeps accounts in process memory. It backs STORE_DRIVER=memory
// for local runs and the service tests.
type AccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]*entity.Account
	hashCost int
}

func NewAccountRepository(hashCost int) *AccountRepository {
	return &AccountRepository{byID: make(map[string]*entity.Account), hashCost: hashCost}
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return a.ID == id }, false)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.find(emailMatch(email), false)
}

func (r *AccountRepository) FindByIDWithPassword(ctx context.Context, id string) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool { return a.ID == id }, true)
}

func (r *AccountRepository) FindByEmailWithPassword(ctx context.Context, email string) (*entity.Account, error) {
	return r.find(emailMatch(email), true)
}

func (r *AccountRepository) FindByResetCode(ctx context.Context, code int, now time.Time) (*entity.Account, error) {
	return r.find(func(a *entity.Account) bool {
		ch, ok := a.ResetChallenge()
		return ok && ch.Code == code && now.Before(ch.ExpiresAt)
	}, false)
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, a.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	if err := a.HashPendingPassword(r.hashCost); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	r.byID[a.ID] = clone(a, true)
	return nil
}

func (r *AccountRepository) Save(ctx context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := a.HashPendingPassword(r.hashCost); err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	next := clone(a, true)
	if next.PasswordHash == "" {
		// loaded without the secret and not changed: keep what is stored
		next.PasswordHash = stored.PasswordHash
	}
	r.byID[a.ID] = next
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *AccountRepository) DeleteExpiredUnverified(ctx context.Context, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, a := range r.byID {
		if ch, ok := a.VerificationChallenge(); ok && !now.Before(ch.ExpiresAt) {
			ids = append(ids, id)
			delete(r.byID, id)
		}
	}
	return ids, nil
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *AccountRepository) find(match func(*entity.Account) bool, withPassword bool) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if match(a) {
			return clone(a, withPassword), nil
		}
	}
	return nil, repository.ErrNotFound
}

func emailMatch(email string) func(*entity.Account) bool {
	return func(a *entity.Account) bool { return strings.EqualFold(a.Email, email) }
}

func clone(a *entity.Account, withPassword bool) *entity.Account {
	out := &entity.Account{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		Verification: a.Verification,
		Reset:        a.Reset,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if withPassword {
		out.PasswordHash = a.PasswordHash
	}
	if a.Avatar != nil {
		av := *a.Avatar
		out.Avatar = &av
	}
	out.Tasks = append([]entity.Task(nil), a.Tasks...)
	return out
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
