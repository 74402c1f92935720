package handlers

import (
	"net/http"

	"github.com/eshop/backoffice/internal/services"
)

type OverviewHandler struct {
	service *services.OverviewService
}

func NewOverviewHandler(service *services.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

// Get returns the dashboard aggregates
// @Summary Dashboard overview
// @Tags overview
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Overview
// @Router /overview [get]
func (h *OverviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Get(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
