package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"github.com/yusufkecer/fittracker-backend/internal/repository"
	"go.uber.org/zap"
)

func TestWorkouts(t *testing.T) {
	database := newTestDB(t)
	owner := seedAccount(t, database, "ana")
	other := seedAccount(t, database, "bia")
	h := NewWorkoutHandler(repository.NewWorkoutRepository(database), saoPaulo, zap.NewNop())

	rec := call(h.List, http.MethodGet, "/", nil, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = call(h.Create, http.MethodPost, "/", domain.WorkoutRequest{
		Name: "  Treino A ",
		Exercises: []domain.ExerciseInput{
			{Name: "Supino Reto", Sets: 4, Reps: 10},
			{Name: "Rosca Direta", Sets: 3, Reps: 12, Category: "bracos"},
		},
	}, owner, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.Workout
	decode(t, rec, &created)
	assert.Equal(t, "Treino A", created.Name)
	assert.NotEmpty(t, created.ID)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, created.Date)
	require.Len(t, created.Exercises, 2)
	assert.Equal(t, "peito", created.Exercises[0].Category)
	assert.Equal(t, "Peito", created.Exercises[0].CategoryLabel)
	assert.Equal(t, "Braços", created.Exercises[1].CategoryLabel)

	rec = call(h.Get, http.MethodGet, "/", nil, owner, map[string]string{"id": created.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Workout
	decode(t, rec, &got)
	assert.Equal(t, created.Exercises, got.Exercises)

	rec = call(h.Get, http.MethodGet, "/", nil, other, map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(h.Delete, http.MethodDelete, "/", nil, other, map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(h.Delete, http.MethodDelete, "/", nil, owner, map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(h.Get, http.MethodGet, "/", nil, owner, map[string]string{"id": created.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildWorkout_Validation(t *testing.T) {
	ok := []domain.ExerciseInput{{Name: "Agachamento", Sets: 5, Reps: 5, Category: "pernas"}}
	many := make([]domain.ExerciseInput, domain.MaxExercises+1)
	for i := range many {
		many[i] = ok[0]
	}

	tests := []struct {
		name string
		req  domain.WorkoutRequest
		want string
	}{
		{"blank name", domain.WorkoutRequest{Name: "  ", Exercises: ok}, "workout name is required"},
		{"no exercises", domain.WorkoutRequest{Name: "A"}, "add at least one exercise"},
		{"exercise name", domain.WorkoutRequest{Name: "A", Exercises: []domain.ExerciseInput{{Sets: 1, Reps: 1}}}, "exercise 1: name is required"},
		{"zero sets", domain.WorkoutRequest{Name: "A", Exercises: []domain.ExerciseInput{{Name: "x", Sets: 0, Reps: 1}}}, "exercise 1: sets and reps must be at least 1"},
		{"zero reps", domain.WorkoutRequest{Name: "A", Exercises: append(ok, domain.ExerciseInput{Name: "x", Sets: 1})}, "exercise 2: sets and reps must be at least 1"},
		{"category", domain.WorkoutRequest{Name: "A", Exercises: []domain.ExerciseInput{{Name: "x", Sets: 1, Reps: 1, Category: "cardio"}}}, `exercise 1: unknown category "cardio"`},
		{"long name", domain.WorkoutRequest{Name: strings.Repeat("a", domain.MaxNameLength+1), Exercises: ok}, "workout name must be at most 100 characters"},
		{"long exercise name", domain.WorkoutRequest{Name: "A", Exercises: []domain.ExerciseInput{{Name: strings.Repeat("é", domain.MaxNameLength+1), Sets: 1, Reps: 1}}}, "exercise 1: name must be at most 100 characters"},
		{"too many exercises", domain.WorkoutRequest{Name: "A", Exercises: many}, "a workout holds at most 50 exercises"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildWorkout(1, tt.req)
			assert.EqualError(t, err, tt.want)
		})
	}

	w, err := buildWorkout(1, domain.WorkoutRequest{Name: "A", Exercises: ok})
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.AccountID)

	// Multi-byte names are counted in characters.
	_, err = buildWorkout(1, domain.WorkoutRequest{Name: strings.Repeat("ç", domain.MaxNameLength), Exercises: many[:domain.MaxExercises]})
	assert.NoError(t, err)
}

func TestWorkoutCategories(t *testing.T) {
	h := NewWorkoutHandler(nil, saoPaulo, zap.NewNop())
	rec := call(h.Categories, http.MethodGet, "/", nil, 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []domain.Option
	decode(t, rec, &cats)
	require.Len(t, cats, 6)
	assert.Equal(t, domain.Option{Key: "peito", Label: "Peito"}, cats[0])
}
