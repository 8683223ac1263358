package domain

type CalorieRequest struct {
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

type CalorieResult struct {
	BMR          int `json:"bmr"`
	TDEE         int `json:"tdee"`
	GoalCalories int `json:"goal_calories"`
	Protein      int `json:"protein"`
	Carbs        int `json:"carbs"`
	Fats         int `json:"fats"`
}
