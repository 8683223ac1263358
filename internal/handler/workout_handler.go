package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"github.com/yusufkecer/fittracker-backend/internal/nutrition"
	"github.com/yusufkecer/fittracker-backend/internal/repository"
	"go.uber.org/zap"
)

type WorkoutHandler struct {
	repo   *repository.WorkoutRepository
	loc    *time.Location
	logger *zap.Logger
}

func NewWorkoutHandler(repo *repository.WorkoutRepository, loc *time.Location, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{repo: repo, loc: loc, logger: logger}
}

func (h *WorkoutHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.WorkoutCategories)
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req domain.WorkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	workout, err := buildWorkout(id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Create(r.Context(), workout); err != nil {
		h.logger.Error("failed to create workout", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create workout")
		return
	}

	h.decorate(workout)
	writeJSON(w, http.StatusCreated, workout)
}

func buildWorkout(accountID int64, req domain.WorkoutRequest) (*domain.Workout, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("workout name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("workout name must be at most %d characters", domain.MaxNameLength)
	}
	if len(req.Exercises) == 0 {
		return nil, errors.New("add at least one exercise")
	}
	if len(req.Exercises) > domain.MaxExercises {
		return nil, fmt.Errorf("a workout holds at most %d exercises", domain.MaxExercises)
	}

	exercises := make([]domain.Exercise, 0, len(req.Exercises))
	for i, in := range req.Exercises {
		exName := strings.TrimSpace(in.Name)
		if exName == "" {
			return nil, fmt.Errorf("exercise %d: name is required", i+1)
		}
		if utf8.RuneCountInString(exName) > domain.MaxNameLength {
			return nil, fmt.Errorf("exercise %d: name must be at most %d characters", i+1, domain.MaxNameLength)
		}
		if in.Sets < 1 || in.Reps < 1 {
			return nil, fmt.Errorf("exercise %d: sets and reps must be at least 1", i+1)
		}
		category := in.Category
		if category == "" {
			category = domain.DefaultCategory
		}
		if _, ok := domain.Lookup(domain.WorkoutCategories, category); !ok {
			return nil, fmt.Errorf("exercise %d: unknown category %q", i+1, in.Category)
		}
		exercises = append(exercises, domain.Exercise{
			Name:     exName,
			Sets:     in.Sets,
			Reps:     in.Reps,
			Category: category,
		})
	}

	return &domain.Workout{AccountID: accountID, Name: name, Exercises: exercises}, nil
}

// decorate fills the display-only fields.
func (h *WorkoutHandler) decorate(w *domain.Workout) {
	w.Date = nutrition.DateOf(w.CreatedAt, h.loc)
	for i := range w.Exercises {
		if c, ok := domain.Lookup(domain.WorkoutCategories, w.Exercises[i].Category); ok {
			w.Exercises[i].CategoryLabel = c.Label
		}
	}
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	workouts, err := h.repo.ListByAccount(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list workouts", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	for i := range workouts {
		h.decorate(&workouts[i])
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	workout, err := h.repo.Get(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		h.logger.Error("failed to get workout", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get workout")
		return
	}
	if workout == nil {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	h.decorate(workout)
	writeJSON(w, http.StatusOK, workout)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		h.logger.Error("failed to delete workout", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete workout")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
