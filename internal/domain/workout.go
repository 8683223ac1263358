package domain

import "time"

const DefaultCategory = "peito"

var WorkoutCategories = []Option{
	{Key: "peito", Label: "Peito"},
	{Key: "costas", Label: "Costas"},
	{Key: "pernas", Label: "Pernas"},
	{Key: "ombros", Label: "Ombros"},
	{Key: "bracos", Label: "Braços"},
	{Key: "abdomen", Label: "Abdômen"},
}

type Exercise struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sets          int    `json:"sets"`
	Reps          int    `json:"reps"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
}

type Workout struct {
	ID        string     `json:"id"`
	AccountID int64      `json:"-"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	CreatedAt time.Time  `json:"created_at"`
	Date      string     `json:"date"`
}

type ExerciseInput struct {
	Name     string `json:"name"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	Category string `json:"category"`
}

type WorkoutRequest struct {
	Name      string          `json:"name"`
	Exercises []ExerciseInput `json:"exercises"`
}

const MaxExercises = 50
