package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

type MealRepository struct {
	db *sql.DB
}

func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create assigns IDs and stamps the meal with the current time unless
// EatenAt is already set.
func (r *MealRepository) Create(ctx context.Context, m *domain.Meal) error {
	id, err := newID()
	if err != nil {
		return err
	}
	m.ID = id
	if m.EatenAt.IsZero() {
		m.EatenAt = now()
	} else {
		m.EatenAt = m.EatenAt.UTC().Truncate(time.Second)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin meal transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meals (id, account_id, name, meal_type, total_calories, eaten_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.AccountID, m.Name, m.MealType, m.TotalCalories, m.EatenAt,
	); err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	for i := range m.Foods {
		f := &m.Foods[i]
		if f.ID, err = newID(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meal_foods (id, meal_id, position, name, quantity, unit, calories, protein, carbs, fats)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, m.ID, i, f.Name, f.Quantity, f.Unit, f.Calories, f.Protein, f.Carbs, f.Fats,
		); err != nil {
			return fmt.Errorf("failed to create meal food: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit meal: %w", err)
	}
	return nil
}

func (r *MealRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Meal, error) {
	return r.query(ctx, `WHERE m.account_id = ?`, accountID)
}

// ListBetween returns meals eaten in [from, to).
func (r *MealRepository) ListBetween(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Meal, error) {
	return r.query(ctx,
		`WHERE m.account_id = ? AND m.eaten_at >= ? AND m.eaten_at < ?`,
		accountID, from.UTC(), to.UTC(),
	)
}

func (r *MealRepository) query(ctx context.Context, where string, args ...interface{}) ([]domain.Meal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.account_id, m.name, m.meal_type, m.total_calories, m.eaten_at,
		        f.id, f.name, f.quantity, f.unit, f.calories, f.protein, f.carbs, f.fats
		 FROM meals m
		 LEFT JOIN meal_foods f ON f.meal_id = m.id
		 `+where+`
		 ORDER BY m.eaten_at ASC, m.id ASC, f.position ASC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var (
			m        domain.Meal
			fID      sql.NullString
			fName    sql.NullString
			fQty     sql.NullFloat64
			fUnit    sql.NullString
			fCal     sql.NullInt64
			fProtein sql.NullFloat64
			fCarbs   sql.NullFloat64
			fFats    sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Name, &m.MealType, &m.TotalCalories, &m.EatenAt,
			&fID, &fName, &fQty, &fUnit, &fCal, &fProtein, &fCarbs, &fFats); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		if n := len(meals); n == 0 || meals[n-1].ID != m.ID {
			m.EatenAt = m.EatenAt.UTC()
			m.Foods = []domain.MealFood{}
			meals = append(meals, m)
		}
		if fID.Valid {
			cur := &meals[len(meals)-1]
			cur.Foods = append(cur.Foods, domain.MealFood{
				ID:       fID.String,
				Name:     fName.String,
				Quantity: fQty.Float64,
				Unit:     fUnit.String,
				Calories: int(fCal.Int64),
				Protein:  fProtein.Float64,
				Carbs:    fCarbs.Float64,
				Fats:     fFats.Float64,
			})
		}
	}
	return meals, rows.Err()
}

func (r *MealRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meals WHERE account_id = ?`, accountID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return n, nil
}

// CaloriesBetween sums total_calories of meals eaten in [from, to).
func (r *MealRepository) CaloriesBetween(ctx context.Context, accountID int64, from, to time.Time) (int, error) {
	var total sql.NullInt64
	if err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total_calories) FROM meals WHERE account_id = ? AND eaten_at >= ? AND eaten_at < ?`,
		accountID, from.UTC(), to.UTC(),
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum calories: %w", err)
	}
	return int(total.Int64), nil
}

// Delete reports whether a meal owned by accountID was removed.
func (r *MealRepository) Delete(ctx context.Context, accountID int64, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM meals WHERE id = ? AND account_id = ?`, id, accountID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete meal: %w", err)
	}
	return n > 0, nil
}
