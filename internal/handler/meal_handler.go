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

const defaultMealType = "cafe"

type MealHandler struct {
	repo    *repository.MealRepository
	catalog *nutrition.Catalog
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

func NewMealHandler(repo *repository.MealRepository, catalog *nutrition.Catalog, loc *time.Location, logger *zap.Logger) *MealHandler {
	return &MealHandler{repo: repo, catalog: catalog, loc: loc, now: time.Now, logger: logger}
}

func (h *MealHandler) Types(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.MealTypes)
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req domain.MealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Foods) == 0 {
		writeError(w, http.StatusBadRequest, "add at least one food")
		return
	}
	if len(req.Foods) > domain.MaxMealFoods {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("a meal holds at most %d foods", domain.MaxMealFoods))
		return
	}

	foods := make([]domain.MealFood, 0, len(req.Foods))
	for _, in := range req.Foods {
		f, err := h.catalog.Portion(in.Name, in.Quantity)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		foods = append(foods, f)
	}

	mealType := strings.TrimSpace(req.MealType)
	if mealType == "" {
		mealType = defaultMealType
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.MealTypeLabel(mealType)
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("meal name must be at most %d characters", domain.MaxNameLength))
		return
	}

	meal := &domain.Meal{
		AccountID:     id,
		Name:          name,
		MealType:      mealType,
		Foods:         foods,
		TotalCalories: nutrition.TotalCalories(foods),
		EatenAt:       h.now(),
	}
	if err := h.repo.Create(r.Context(), meal); err != nil {
		h.logger.Error("failed to create meal", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}

	meal.Date = nutrition.DateOf(meal.EatenAt, h.loc)
	writeJSON(w, http.StatusCreated, meal)
}

// dayParam parses ?date=, falling back to today in the configured zone.
func (h *MealHandler) dayParam(r *http.Request) (string, time.Time, time.Time, error) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = nutrition.DateOf(h.now(), h.loc)
	}
	from, to, err := nutrition.DayBounds(day, h.loc)
	if err != nil {
		return "", time.Time{}, time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return day, from, to, nil
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var (
		meals []domain.Meal
		err   error
	)
	if r.URL.Query().Get("date") != "" {
		_, from, to, perr := h.dayParam(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		meals, err = h.repo.ListBetween(r.Context(), id, from, to)
	} else {
		meals, err = h.repo.ListByAccount(r.Context(), id)
	}
	if err != nil {
		h.logger.Error("failed to list meals", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}

	if meals == nil {
		meals = []domain.Meal{}
	}
	for i := range meals {
		meals[i].Date = nutrition.DateOf(meals[i].EatenAt, h.loc)
	}
	writeJSON(w, http.StatusOK, meals)
}

func (h *MealHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	day, from, to, err := h.dayParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meals, err := h.repo.ListBetween(r.Context(), id, from, to)
	if err != nil {
		h.logger.Error("failed to summarize meals", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to summarize meals")
		return
	}
	writeJSON(w, http.StatusOK, nutrition.Summarize(day, meals))
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		h.logger.Error("failed to delete meal", zap.Int64("account_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
