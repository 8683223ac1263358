package domain

import "time"

// DateLayout is the calendar-day format accepted in ?date= and returned in
// summaries.
const DateLayout = "2006-01-02"

var MealTypes = []Option{
	{Key: "cafe", Label: "Café da Manhã"},
	{Key: "almoco", Label: "Almoço"},
	{Key: "lanche", Label: "Lanche"},
	{Key: "jantar", Label: "Jantar"},
	{Key: "ceia", Label: "Ceia"},
}

func MealTypeLabel(key string) string {
	if o, ok := Lookup(MealTypes, key); ok {
		return o.Label
	}
	return "Refeição"
}

// MealFood is one food entry of a meal with its values already scaled by
// quantity.
type MealFood struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type Meal struct {
	ID            string     `json:"id"`
	AccountID     int64      `json:"-"`
	Name          string     `json:"name"`
	MealType      string     `json:"meal_type"`
	Foods         []MealFood `json:"foods"`
	TotalCalories int        `json:"total_calories"`
	EatenAt       time.Time  `json:"eaten_at"`
	Date          string     `json:"date"`
}

type MealFoodInput struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type MealRequest struct {
	Name     string          `json:"name"`
	MealType string          `json:"meal_type"`
	Foods    []MealFoodInput `json:"foods"`
}

type DailySummary struct {
	Date     string  `json:"date"`
	Meals    int     `json:"meals"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

const MaxMealFoods = 50
