package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

type WorkoutRepository struct {
	db *sql.DB
}

func NewWorkoutRepository(db *sql.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// Create assigns IDs and the creation time, then stores the workout and its
// exercises in one transaction.
func (r *WorkoutRepository) Create(ctx context.Context, w *domain.Workout) error {
	id, err := newID()
	if err != nil {
		return err
	}
	w.ID = id
	w.CreatedAt = now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin workout transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO workouts (id, account_id, name, created_at) VALUES (?, ?, ?, ?)`,
		w.ID, w.AccountID, w.Name, w.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}

	for i := range w.Exercises {
		e := &w.Exercises[i]
		if e.ID, err = newID(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workout_exercises (id, workout_id, position, name, sets, reps, category)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, w.ID, i, e.Name, e.Sets, e.Reps, e.Category,
		); err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit workout: %w", err)
	}
	return nil
}

func (r *WorkoutRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Workout, error) {
	return r.query(ctx, `WHERE w.account_id = ?`, accountID)
}

func (r *WorkoutRepository) Get(ctx context.Context, accountID int64, id string) (*domain.Workout, error) {
	workouts, err := r.query(ctx, `WHERE w.account_id = ? AND w.id = ?`, accountID, id)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, nil
	}
	return &workouts[0], nil
}

func (r *WorkoutRepository) query(ctx context.Context, where string, args ...interface{}) ([]domain.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.account_id, w.name, w.created_at,
		        e.id, e.name, e.sets, e.reps, e.category
		 FROM workouts w
		 LEFT JOIN workout_exercises e ON e.workout_id = w.id
		 `+where+`
		 ORDER BY w.created_at ASC, w.id ASC, e.position ASC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []domain.Workout
	for rows.Next() {
		var (
			w      domain.Workout
			exID   sql.NullString
			exName sql.NullString
			exSets sql.NullInt64
			exReps sql.NullInt64
			exCat  sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.AccountID, &w.Name, &w.CreatedAt,
			&exID, &exName, &exSets, &exReps, &exCat); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		if n := len(workouts); n == 0 || workouts[n-1].ID != w.ID {
			w.CreatedAt = w.CreatedAt.UTC()
			w.Exercises = []domain.Exercise{}
			workouts = append(workouts, w)
		}
		if exID.Valid {
			cur := &workouts[len(workouts)-1]
			cur.Exercises = append(cur.Exercises, domain.Exercise{
				ID:       exID.String,
				Name:     exName.String,
				Sets:     int(exSets.Int64),
				Reps:     int(exReps.Int64),
				Category: exCat.String,
			})
		}
	}
	return workouts, rows.Err()
}

func (r *WorkoutRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workouts WHERE account_id = ?`, accountID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}
	return n, nil
}

// Delete reports whether a workout owned by accountID was removed.
func (r *WorkoutRepository) Delete(ctx context.Context, accountID int64, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM workouts WHERE id = ? AND account_id = ?`, id, accountID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete workout: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete workout: %w", err)
	}
	return n > 0, nil
}

// newID returns a time-ordered UUID so rows created within the same second
// still sort by creation.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
