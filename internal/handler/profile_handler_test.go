package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"github.com/yusufkecer/fittracker-backend/internal/repository"
	"go.uber.org/zap"
)

func newProfileHandler(t *testing.T) (*ProfileHandler, *repository.MealRepository, int64) {
	t.Helper()
	database := newTestDB(t)
	id := seedAccount(t, database, "ana")
	meals := repository.NewMealRepository(database)
	h := NewProfileHandler(
		repository.NewProfileRepository(database),
		repository.NewAccountRepository(database),
		repository.NewWorkoutRepository(database),
		meals, saoPaulo, zap.NewNop())
	return h, meals, id
}

func TestProfile_GetAndUpdate(t *testing.T) {
	h, _, id := newProfileHandler(t)

	rec := call(h.Get, http.MethodGet, "/", nil, id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p domain.Profile
	decode(t, rec, &p)
	assert.Equal(t, "ana", p.Username)
	assert.Equal(t, "Manter Peso", p.GoalLabel)
	assert.Equal(t, "purple", p.ProfileColor)
	assert.Nil(t, p.Age)

	rec = call(h.Update, http.MethodPatch, "/", `{"age":28,"weight":61.5,"goal":"gain"}`, id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = domain.Profile{}
	decode(t, rec, &p)
	require.NotNil(t, p.Age)
	assert.Equal(t, 28, *p.Age)
	assert.Equal(t, 61.5, *p.Weight)
	assert.Nil(t, p.Height, "absent fields are unchanged")
	assert.Equal(t, "Ganhar Peso", p.GoalLabel)

	for _, body := range []string{
		`{"age":0}`,
		`{"age":151}`,
		`{"weight":-1}`,
		`{"weight":1e308}`,
		`{"height":0}`,
		`{"height":301}`,
		`{"gender":"other"}`,
		`{"goal":"bulk"}`,
		`{"profile_color":"teal"}`,
	} {
		rec := call(h.Update, http.MethodPatch, "/", body, id, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestProfile_PictureAndColor(t *testing.T) {
	h, _, id := newProfileHandler(t)

	pic := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	rec := call(h.UpdatePicture, http.MethodPut, "/", domain.PictureRequest{Picture: pic}, id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p domain.Profile
	decode(t, rec, &p)
	require.NotNil(t, p.ProfilePicture)
	assert.Equal(t, pic, *p.ProfilePicture)

	rec = call(h.UpdateColor, http.MethodPut, "/", domain.ColorRequest{Color: "green"}, id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &p)
	assert.Equal(t, "green", p.ProfileColor)

	rec = call(h.UpdateColor, http.MethodPut, "/", domain.ColorRequest{Color: "teal"}, id, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePicture(t *testing.T) {
	small := base64.StdEncoding.EncodeToString([]byte("img"))
	tooBig := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", maxPictureBytes+1)))
	exact := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", maxPictureBytes)))

	assert.NoError(t, validatePicture("data:image/jpeg;base64,"+small))
	assert.NoError(t, validatePicture("data:image/png;base64,"+exact))
	assert.Error(t, validatePicture("data:image/png;base64,"+tooBig))
	assert.Error(t, validatePicture("data:text/plain;base64,"+small))
	assert.Error(t, validatePicture("data:image/png,"+small))
	assert.Error(t, validatePicture("data:image/;base64,"+small))
	assert.Error(t, validatePicture("data:image/png;base64,%%%"))
	assert.Error(t, validatePicture("https://example.com/me.png"))
}

func TestProfile_Stats(t *testing.T) {
	h, meals, id := newProfileHandler(t)
	h.now = func() time.Time { return time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	// 01:00 UTC on Mar 2 is still Mar 1 in São Paulo.
	require.NoError(t, meals.Create(ctx, &domain.Meal{AccountID: id, Name: "Jantar", MealType: "jantar",
		TotalCalories: 700, EatenAt: time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC)}))
	require.NoError(t, meals.Create(ctx, &domain.Meal{AccountID: id, Name: "Almoço", MealType: "almoco",
		TotalCalories: 500, EatenAt: time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)}))
	require.NoError(t, meals.Create(ctx, &domain.Meal{AccountID: id, Name: "Ceia", MealType: "ceia",
		TotalCalories: 90, EatenAt: time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)}))

	rec := call(h.Stats, http.MethodGet, "/", nil, id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var s domain.Stats
	decode(t, rec, &s)
	assert.Equal(t, 0, s.TotalWorkouts)
	assert.Equal(t, 3, s.TotalMeals)
	assert.Equal(t, 1200, s.TodayCalories)
	assert.WithinDuration(t, time.Now(), s.MemberSince, time.Minute)
}

func TestProfile_Targets(t *testing.T) {
	h, _, id := newProfileHandler(t)

	rec := call(h.Targets, http.MethodGet, "/", nil, id, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"profile is incomplete"}`, rec.Body.String())

	rec = call(h.Update, http.MethodPatch, "/", `{"age":30,"weight":80,"height":180,"gender":"male","goal":"lose"}`, id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(h.Targets, http.MethodGet, "/?activity_level=sedentary", nil, id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res domain.CalorieResult
	decode(t, rec, &res)
	assert.Equal(t, domain.CalorieResult{BMR: 1780, TDEE: 2136, GoalCalories: 1636, Protein: 123, Carbs: 164, Fats: 55}, res)

	rec = call(h.Targets, http.MethodGet, "/?activity_level=couch", nil, id, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
