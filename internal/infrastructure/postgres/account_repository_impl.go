package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
)

const uniqueViolation = "23505"

const (
	publicColumns = `id, email, name, NULL::text, avatar_public_id, avatar_url, verified, verified_at,
		otp, otp_expires_at, reset_otp, reset_otp_expires_at, tasks, created_at, updated_at`
	secretColumns = `id, email, name, password_hash, avatar_public_id, avatar_url, verified, verified_at,
		otp, otp_expires_at, reset_otp, reset_otp_expires_at, tasks, created_at, updated_at`
)

type AccountRepository struct {
	pool     *pgxpool.Pool
	hashCost int
}

func NewAccountRepository(pool *pgxpool.Pool, hashCost int) *AccountRepository {
	return &AccountRepository{pool: pool, hashCost: hashCost}
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `SELECT `+publicColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.queryOne(ctx, `SELECT `+publicColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
}

func (r *AccountRepository) FindByIDWithPassword(ctx context.Context, id string) (*entity.Account, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}
	return r.queryOne(ctx, `SELECT `+secretColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) FindByEmailWithPassword(ctx context.Context, email string) (*entity.Account, error) {
	return r.queryOne(ctx, `SELECT `+secretColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
}

func (r *AccountRepository) FindByResetCode(ctx context.Context, code int, now time.Time) (*entity.Account, error) {
	return r.queryOne(ctx, `
		SELECT `+publicColumns+`
		FROM accounts
		WHERE reset_otp = $1 AND reset_otp_expires_at > $2
		ORDER BY reset_otp_expires_at DESC
		LIMIT 1
	`, code, now)
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if err := a.HashPendingPassword(r.hashCost); err != nil {
		return err
	}
	row, err := rowFromEntity(a)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO accounts (email, name, password_hash, avatar_public_id, avatar_url, verified, verified_at,
			otp, otp_expires_at, reset_otp, reset_otp_expires_at, tasks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb)
		RETURNING id, created_at, updated_at
	`, row.Email, row.Name, row.PasswordHash, row.AvatarPublicID, row.AvatarURL, row.Verified, row.VerifiedAt,
		row.OTP, row.OTPExpiresAt, row.ResetOTP, row.ResetOTPExpiresAt, string(row.Tasks),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Save writes the whole record. password_hash only changes when a new
// password was staged on the account.
func (r *AccountRepository) Save(ctx context.Context, a *entity.Account) error {
	changed := a.PasswordChanged()
	if err := a.HashPendingPassword(r.hashCost); err != nil {
		return err
	}
	row, err := rowFromEntity(a)
	if err != nil {
		return err
	}
	var newHash *string
	if changed {
		newHash = row.PasswordHash
	}
	a.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET email = $1, name = $2, password_hash = COALESCE($3, password_hash),
			avatar_public_id = $4, avatar_url = $5, verified = $6, verified_at = $7,
			otp = $8, otp_expires_at = $9, reset_otp = $10, reset_otp_expires_at = $11,
			tasks = $12::jsonb, updated_at = $13
		WHERE id = $14
	`, row.Email, row.Name, newHash, row.AvatarPublicID, row.AvatarURL, row.Verified, row.VerifiedAt,
		row.OTP, row.OTPExpiresAt, row.ResetOTP, row.ResetOTPExpiresAt, string(row.Tasks), a.UpdatedAt, a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("update account: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) DeleteExpiredUnverified(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		DELETE FROM accounts
		WHERE NOT verified AND (otp_expires_at IS NULL OR otp_expires_at <= $1)
		RETURNING id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("delete expired accounts: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect expired accounts: %w", err)
	}
	return ids, nil
}

func (r *AccountRepository) queryOne(ctx context.Context, sql string, args ...any) (*entity.Account, error) {
	var row accountRow
	err := r.pool.QueryRow(ctx, sql, args...).Scan(
		&row.ID, &row.Email, &row.Name, &row.PasswordHash, &row.AvatarPublicID, &row.AvatarURL,
		&row.Verified, &row.VerifiedAt, &row.OTP, &row.OTPExpiresAt, &row.ResetOTP, &row.ResetOTPExpiresAt,
		&row.Tasks, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return row.toEntity()
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

// ids are uuid columns; anything else cannot match and would fail the cast.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
