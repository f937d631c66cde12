package handlers

import (
	"net/http"

	"nexusinvest/internal/services"

	"github.com/rs/zerolog"
)

type PlanHandler struct {
	planService *services.PlanService
	logger      zerolog.Logger
}

func NewPlanHandler(logger zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		planService: services.NewPlanService(),
		logger:      logger,
	}
}

func (h *PlanHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.planService.GetPlans())
}
