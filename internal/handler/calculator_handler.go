package handler

import (
	"errors"
	"net/http"

	"github.com/yusufkecer/fittracker-backend/internal/domain"
	"github.com/yusufkecer/fittracker-backend/internal/nutrition"
)

type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.CalorieRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := nutrition.Calculate(req)
	if err != nil {
		writeCalculatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CalculatorHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activity_levels": nutrition.ActivityLevels,
		"goals":           nutrition.Goals,
	})
}

func writeCalculatorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nutrition.ErrMissingFields),
		errors.Is(err, nutrition.ErrUnknownGender),
		errors.Is(err, nutrition.ErrUnknownActivity),
		errors.Is(err, nutrition.ErrUnknownGoal),
		errors.Is(err, nutrition.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to calculate")
	}
}
