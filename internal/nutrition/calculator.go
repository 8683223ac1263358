package nutrition

import (
	"errors"
	"fmt"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
)

var (
	ErrMissingFields   = errors.New("all fields are required")
	ErrUnknownGender   = errors.New("unknown gender")
	ErrUnknownActivity = errors.New("unknown activity level")
	ErrUnknownGoal     = errors.New("unknown goal")
	ErrOutOfRange      = errors.New("age, weight or height out of range")
)

const (
	DefaultActivity = "moderate"

	// Share of goal calories per macro.
	proteinShare = 0.30
	carbsShare   = 0.40
	fatsShare    = 0.30

	// kcal per gram.
	kcalProtein = 4
	kcalCarbs   = 4
	kcalFat     = 9
)

type ActivityLevel struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

type Goal struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Adjustment float64 `json:"adjustment"`
}

var ActivityLevels = []ActivityLevel{
	{Key: "sedentary", Label: "Sedentário (pouco ou nenhum exercício)", Multiplier: 1.2},
	{Key: "light", Label: "Levemente ativo (1-3 dias/semana)", Multiplier: 1.375},
	{Key: "moderate", Label: "Moderadamente ativo (3-5 dias/semana)", Multiplier: 1.55},
	{Key: "active", Label: "Muito ativo (6-7 dias/semana)", Multiplier: 1.725},
	{Key: "veryActive", Label: "Extremamente ativo (2x por dia)", Multiplier: 1.9},
}

var Goals = []Goal{
	{Key: domain.GoalLose, Label: "Perder peso (déficit de 500 kcal)", Adjustment: -500},
	{Key: domain.GoalMaintain, Label: "Manter peso", Adjustment: 0},
	{Key: domain.GoalGain, Label: "Ganhar peso (superávit de 500 kcal)", Adjustment: 500},
}

func activity(key string) (ActivityLevel, bool) {
	if key == "" {
		key = DefaultActivity
	}
	for _, a := range ActivityLevels {
		if a.Key == key {
			return a, true
		}
	}
	return ActivityLevel{}, false
}

func goal(key string) (Goal, bool) {
	if key == "" {
		key = domain.GoalMaintain
	}
	for _, g := range Goals {
		if g.Key == key {
			return g, true
		}
	}
	return Goal{}, false
}

// BMR is the Mifflin-St Jeor resting energy estimate in kcal/day.
func BMR(gender string, age int, weightKg, heightCm float64) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == domain.GenderFemale {
		return base - 161
	}
	return base + 5
}

// Calculate derives BMR, TDEE, goal calories and the macro split in grams.
// Empty gender, activity level and goal fall back to male, moderate and
// maintain.
func Calculate(req domain.CalorieRequest) (domain.CalorieResult, error) {
	if req.Age <= 0 || req.Weight <= 0 || req.Height <= 0 {
		return domain.CalorieResult{}, ErrMissingFields
	}
	if !domain.ValidAge(req.Age) || !domain.ValidWeight(req.Weight) || !domain.ValidHeight(req.Height) {
		return domain.CalorieResult{}, fmt.Errorf("%w: age up to %d, weight up to %g kg, height up to %g cm",
			ErrOutOfRange, domain.MaxAge, domain.MaxWeight, domain.MaxHeight)
	}
	gender := req.Gender
	if gender == "" {
		gender = domain.GenderMale
	}
	if !domain.ValidGender(gender) {
		return domain.CalorieResult{}, fmt.Errorf("%w: %q", ErrUnknownGender, req.Gender)
	}
	act, ok := activity(req.ActivityLevel)
	if !ok {
		return domain.CalorieResult{}, fmt.Errorf("%w: %q", ErrUnknownActivity, req.ActivityLevel)
	}
	g, ok := goal(req.Goal)
	if !ok {
		return domain.CalorieResult{}, fmt.Errorf("%w: %q", ErrUnknownGoal, req.Goal)
	}

	bmr := BMR(gender, req.Age, req.Weight, req.Height)
	tdee := bmr * act.Multiplier
	target := tdee + g.Adjustment

	return domain.CalorieResult{
		BMR:          int(roundHalfUp(bmr)),
		TDEE:         int(roundHalfUp(tdee)),
		GoalCalories: int(roundHalfUp(target)),
		Protein:      int(roundHalfUp(target * proteinShare / kcalProtein)),
		Carbs:        int(roundHalfUp(target * carbsShare / kcalCarbs)),
		Fats:         int(roundHalfUp(target * fatsShare / kcalFat)),
	}, nil
}
