package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account together with its default profile.
func (r *AccountRepository) Create(
	ctx context.Context,
	username string,
	email string,
	passwordHash string,
) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin account transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username,
		email,
		passwordHash,
		now(),
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read account id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (account_id, goal, profile_color) VALUES (?, ?, ?)`,
		id, domain.GoalMaintain, domain.DefaultProfileColor,
	); err != nil {
		return 0, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit account: %w", err)
	}
	return id, nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getOne(ctx, `WHERE username = ?`, username)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *AccountRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM accounts `+where,
		arg,
	).Scan(&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.CreatedAt = account.CreatedAt.UTC()
	return &account, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// now is the storage timestamp: UTC at second precision, so stored values
// compare correctly as text on SQLite.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
