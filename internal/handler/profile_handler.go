package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"github.com/yusufkecer/fittracker-backend/internal/nutrition"
	"github.com/yusufkecer/fittracker-backend/internal/repository"
	"go.uber.org/zap"
)

const maxPictureBytes = 2 << 20

type ProfileHandler struct {
	profiles *repository.ProfileRepository
	accounts *repository.AccountRepository
	workouts *repository.WorkoutRepository
	meals    *repository.MealRepository
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewProfileHandler(
	profiles *repository.ProfileRepository,
	accounts *repository.AccountRepository,
	workouts *repository.WorkoutRepository,
	meals *repository.MealRepository,
	loc *time.Location,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		accounts: accounts,
		workouts: workouts,
		meals:    meals,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, id)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, id int64) {
	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load profile", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update applies a partial update. Only fields present in the body change.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req domain.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := map[string]interface{}{}
	if req.Age != nil {
		if !domain.ValidAge(*req.Age) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("age must be between 1 and %d", domain.MaxAge))
			return
		}
		fields["age"] = *req.Age
	}
	if req.Weight != nil {
		if !domain.ValidWeight(*req.Weight) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("weight must be greater than zero and at most %g kg", domain.MaxWeight))
			return
		}
		fields["weight"] = *req.Weight
	}
	if req.Height != nil {
		if !domain.ValidHeight(*req.Height) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("height must be greater than zero and at most %g cm", domain.MaxHeight))
			return
		}
		fields["height"] = *req.Height
	}
	if req.Gender != nil {
		if !domain.ValidGender(*req.Gender) {
			writeError(w, http.StatusBadRequest, "gender must be male or female")
			return
		}
		fields["gender"] = *req.Gender
	}
	if req.Goal != nil {
		if !domain.ValidGoal(*req.Goal) {
			writeError(w, http.StatusBadRequest, "goal must be lose, maintain or gain")
			return
		}
		fields["goal"] = *req.Goal
	}
	if req.ProfileColor != nil {
		if !domain.ValidProfileColor(*req.ProfileColor) {
			writeError(w, http.StatusBadRequest, "unknown profile color")
			return
		}
		fields["profile_color"] = *req.ProfileColor
	}

	if err := h.profiles.Update(r.Context(), id, fields); err != nil {
		h.logger.Error("failed to update profile", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	h.writeProfile(w, r, id)
}

func (h *ProfileHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req domain.PictureRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validatePicture(req.Picture); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profiles.Update(r.Context(), id, map[string]interface{}{"profile_picture": req.Picture}); err != nil {
		h.logger.Error("failed to update picture", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update picture")
		return
	}
	h.writeProfile(w, r, id)
}

// validatePicture accepts a base64 image data URL of at most 2 MiB decoded.
func validatePicture(dataURL string) error {
	const prefix = "data:image/"
	if !strings.HasPrefix(dataURL, prefix) {
		return errors.New("picture must be an image data URL")
	}
	meta, payload, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasSuffix(meta, ";base64") || len(meta) == len(prefix)+len(";base64") {
		return errors.New("picture must be an image data URL")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxPictureBytes+2 {
		return errors.New("picture must be at most 2MB")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return errors.New("picture is not valid base64")
	}
	if len(raw) > maxPictureBytes {
		return errors.New("picture must be at most 2MB")
	}
	return nil
}

func (h *ProfileHandler) UpdateColor(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req domain.ColorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !domain.ValidProfileColor(req.Color) {
		writeError(w, http.StatusBadRequest, "unknown profile color")
		return
	}

	if err := h.profiles.Update(r.Context(), id, map[string]interface{}{"profile_color": req.Color}); err != nil {
		h.logger.Error("failed to update color", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update color")
		return
	}
	h.writeProfile(w, r, id)
}

func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	account, err := h.accounts.GetByID(ctx, id)
	if err != nil {
		h.logger.Error("failed to load account", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	workouts, err := h.workouts.CountByAccount(ctx, id)
	if err != nil {
		h.logger.Error("failed to count workouts", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	meals, err := h.meals.CountByAccount(ctx, id)
	if err != nil {
		h.logger.Error("failed to count meals", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	from, to, _ := nutrition.DayBounds(nutrition.DateOf(h.now(), h.loc), h.loc)
	calories, err := h.meals.CaloriesBetween(ctx, id, from, to)
	if err != nil {
		h.logger.Error("failed to sum calories", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, domain.Stats{
		TotalWorkouts: workouts,
		TotalMeals:    meals,
		TodayCalories: calories,
		MemberSince:   account.CreatedAt,
	})
}

// Targets runs the calorie calculator on the stored profile.
func (h *ProfileHandler) Targets(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load profile", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if p.Age == nil || p.Weight == nil || p.Height == nil || p.Gender == nil {
		writeError(w, http.StatusUnprocessableEntity, "profile is incomplete")
		return
	}

	result, err := nutrition.Calculate(domain.CalorieRequest{
		Gender:        *p.Gender,
		Age:           *p.Age,
		Weight:        *p.Weight,
		Height:        *p.Height,
		ActivityLevel: r.URL.Query().Get("activity_level"),
		Goal:          p.Goal,
	})
	if err != nil {
		writeCalculatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
