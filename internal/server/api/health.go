package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

const readyTimeout = 2 * time.Second

// Health — liveness: процесс жив и отвечает.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} models.HealthResponse
// @Router   /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, shared.HealthResponse{Status: "ok"})
}

// Ready — readiness: доступна ли база.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} models.HealthResponse
// @Failure  503 {object} models.HealthResponse
// @Router   /health/ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.Svc.Health.Ready(ctx); err != nil {
		h.Log.Warn("readiness check failed", zap.Error(err))
		WriteJSON(w, http.StatusServiceUnavailable, shared.HealthResponse{Status: "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, shared.HealthResponse{Status: "ok"})
}
