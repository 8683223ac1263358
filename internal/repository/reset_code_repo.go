package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

// MaxResetAttempts is how many wrong codes an account may submit before its
// outstanding codes stop working.
const MaxResetAttempts = 5

type ResetCodeRepository struct {
	db *sql.DB
}

func NewResetCodeRepository(db *sql.DB) *ResetCodeRepository {
	return &ResetCodeRepository{db: db}
}

func (r *ResetCodeRepository) Create(ctx context.Context, accountID int64, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (account_id, token, expires_at) VALUES (?, ?, ?)`,
		accountID, code, expiresAt.UTC().Truncate(time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

// GetValid returns the newest unused, unexpired code matching email and code,
// or nil. Codes that reached MaxResetAttempts failures never match.
func (r *ResetCodeRepository) GetValid(ctx context.Context, email, code string) (*domain.ResetCode, error) {
	var c domain.ResetCode
	var usedInt int
	err := r.db.QueryRowContext(ctx, `
		SELECT prt.id, prt.account_id, prt.token, prt.expires_at, prt.used
		FROM password_reset_tokens prt
		JOIN accounts a ON a.id = prt.account_id
		WHERE a.email = ? AND prt.token = ? AND prt.used = 0 AND prt.expires_at > ?
			AND prt.attempts < ?
		ORDER BY prt.id DESC
		LIMIT 1`,
		email, code, now(), MaxResetAttempts,
	).Scan(&c.ID, &c.AccountID, &c.Code, &c.ExpiresAt, &usedInt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}
	c.Used = usedInt != 0
	c.ExpiresAt = c.ExpiresAt.UTC()
	return &c, nil
}

func (r *ResetCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark reset code as used: %w", err)
	}
	return nil
}

// RecordFailedAttempt counts a wrong code against every unused code of the
// account owning email. Unknown emails are ignored.
func (r *ResetCodeRepository) RecordFailedAttempt(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE password_reset_tokens SET attempts = attempts + 1
		WHERE used = 0 AND account_id IN (SELECT id FROM accounts WHERE email = ?)`,
		email,
	)
	if err != nil {
		return fmt.Errorf("failed to record reset attempt: %w", err)
	}
	return nil
}

// DeleteByAccountID drops every earlier code so only the newest one works.
func (r *ResetCodeRepository) DeleteByAccountID(ctx context.Context, accountID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE account_id = ?`,
		accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete old reset codes: %w", err)
	}
	return nil
}
