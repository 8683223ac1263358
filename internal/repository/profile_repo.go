package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, accountID int64) (*domain.Profile, error) {
	var p domain.Profile
	var (
		age     sql.NullInt64
		weight  sql.NullFloat64
		height  sql.NullFloat64
		gender  sql.NullString
		picture sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT a.id, a.username, a.email, a.created_at,
		        p.age, p.weight, p.height, p.gender, p.goal, p.profile_color, p.profile_picture
		 FROM accounts a
		 JOIN profiles p ON p.account_id = a.id
		 WHERE a.id = ?`, accountID,
	).Scan(&p.AccountID, &p.Username, &p.Email, &p.CreatedAt,
		&age, &weight, &height, &gender, &p.Goal, &p.ProfileColor, &picture)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.CreatedAt = p.CreatedAt.UTC()
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if weight.Valid {
		p.Weight = &weight.Float64
	}
	if height.Valid {
		p.Height = &height.Float64
	}
	if gender.Valid {
		p.Gender = &gender.String
	}
	if picture.Valid {
		p.ProfilePicture = &picture.String
	}
	p.GoalLabel = domain.GoalLabel(p.Goal)
	return &p, nil
}

// Update sets the given columns. Unknown keys are ignored.
func (r *ProfileRepository) Update(ctx context.Context, accountID int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	allowed := map[string]bool{
		"age": true, "weight": true, "height": true, "gender": true,
		"goal": true, "profile_color": true, "profile_picture": true,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if allowed[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	setClauses := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	for _, k := range keys {
		setClauses = append(setClauses, k+" = ?")
		args = append(args, fields[k])
	}

	args = append(args, accountID)
	query := "UPDATE profiles SET " + strings.Join(setClauses, ", ") + " WHERE account_id = ?"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
