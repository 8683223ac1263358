package nutrition

import (
	"fmt"
	"math"
	"time"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

// Summarize totals the meals of one day. Macros are summed over every food
// entry and rounded to one decimal at the end.
func Summarize(date string, meals []domain.Meal) domain.DailySummary {
	s := domain.DailySummary{Date: date, Meals: len(meals)}
	var protein, carbs, fats float64
	for _, m := range meals {
		s.Calories += m.TotalCalories
		for _, f := range m.Foods {
			protein += f.Protein
			carbs += f.Carbs
			fats += f.Fats
		}
	}
	s.Protein = roundTenth(protein)
	s.Carbs = roundTenth(carbs)
	s.Fats = roundTenth(fats)
	return s
}

// TotalCalories sums entry calories for a new meal.
func TotalCalories(foods []domain.MealFood) int {
	total := 0
	for _, f := range foods {
		total += f.Calories
	}
	return total
}

// DayBounds returns the half-open UTC interval [start, end) covering the
// calendar day in loc.
func DayBounds(day string, loc *time.Location) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(domain.DateLayout, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return d.UTC(), d.AddDate(0, 0, 1).UTC(), nil
}

// DateOf formats the calendar day t falls on in loc.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(domain.DateLayout)
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
