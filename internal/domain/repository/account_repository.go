package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountRepository defines the persistence contract for accounts.
// Plain finders omit the password hash; the WithPassword variants load it.
// Create and Save hash a password staged with Account.SetPassword, and only then.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByIDWithPassword(ctx context.Context, id string) (*entity.Account, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*entity.Account, error)
	// FindByResetCode returns an account whose reset challenge matches code and
	// has not expired at now.
	FindByResetCode(ctx context.Context, code int, now time.Time) (*entity.Account, error)
	Create(ctx context.Context, a *entity.Account) error
	Save(ctx context.Context, a *entity.Account) error
	Delete(ctx context.Context, id string) error
	// DeleteExpiredUnverified removes unverified accounts whose verification
	// challenge expired at or before now and returns their ids.
	DeleteExpiredUnverified(ctx context.Context, now time.Time) ([]string, error)
}
