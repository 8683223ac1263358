package domain

import "time"

const (
	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"

	GenderMale   = "male"
	GenderFemale = "female"

	DefaultProfileColor = "purple"
)

type Profile struct {
	AccountID      int64     `json:"-"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Age            *int      `json:"age"`
	Weight         *float64  `json:"weight"`
	Height         *float64  `json:"height"`
	Gender         *string   `json:"gender"`
	Goal           string    `json:"goal"`
	GoalLabel      string    `json:"goal_label"`
	ProfilePicture *string   `json:"profile_picture"`
	ProfileColor   string    `json:"profile_color"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProfileUpdate is a partial update: nil fields are left unchanged.
type ProfileUpdate struct {
	Age          *int     `json:"age"`
	Weight       *float64 `json:"weight"`
	Height       *float64 `json:"height"`
	Gender       *string  `json:"gender"`
	Goal         *string  `json:"goal"`
	ProfileColor *string  `json:"profile_color"`
}

type PictureRequest struct {
	Picture string `json:"picture"`
}

type ColorRequest struct {
	Color string `json:"color"`
}

type Stats struct {
	TotalWorkouts int       `json:"total_workouts"`
	TotalMeals    int       `json:"total_meals"`
	TodayCalories int       `json:"today_calories"`
	MemberSince   time.Time `json:"member_since"`
}

var goalLabels = map[string]string{
	GoalLose:     "Perder Peso",
	GoalMaintain: "Manter Peso",
	GoalGain:     "Ganhar Peso",
}

func GoalLabel(goal string) string {
	if l, ok := goalLabels[goal]; ok {
		return l
	}
	return "Não definido"
}

func ValidGoal(goal string) bool {
	_, ok := goalLabels[goal]
	return ok
}

func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// ProfileColors lists the banner colors in display order.
var ProfileColors = []Option{
	{Key: "purple", Label: "Roxo"},
	{Key: "blue", Label: "Azul"},
	{Key: "green", Label: "Verde"},
	{Key: "red", Label: "Vermelho"},
	{Key: "orange", Label: "Laranja"},
	{Key: "pink", Label: "Rosa"},
	{Key: "black", Label: "Preto"},
	{Key: "white", Label: "Branco"},
}

func ValidProfileColor(c string) bool {
	_, ok := Lookup(ProfileColors, c)
	return ok
}

// Accepted ranges for body data. Zero is never valid.
const (
	MaxAge    = 150
	MaxWeight = 500.0
	MaxHeight = 300.0
)

func ValidAge(age int) bool {
	return age > 0 && age <= MaxAge
}

func ValidWeight(kg float64) bool {
	return kg > 0 && kg <= MaxWeight
}

func ValidHeight(cm float64) bool {
	return cm > 0 && cm <= MaxHeight
}
