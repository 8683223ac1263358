package handler

import (
	"net/http"

	"github.com/yusufkecer/fittracker-backend/internal/nutrition"
)

type FoodHandler struct {
	catalog *nutrition.Catalog
}

func NewFoodHandler(catalog *nutrition.Catalog) *FoodHandler {
	return &FoodHandler{catalog: catalog}
}

// Search matches ?q= against food names. An empty query lists everything.
func (h *FoodHandler) Search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Search(r.URL.Query().Get("q")))
}
