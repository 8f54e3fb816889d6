package handlers

import (
	"net/http"

	"workshop-backend/internal/health"
	"workshop-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

// Health is the liveness probe: process up, database reachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// Ready is the readiness probe: same database check, separate endpoint so
// orchestrators can distinguish the two.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// HealthDetailed adds CPU and memory readings for operators.
func (h *HealthHandler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckDetailed()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
