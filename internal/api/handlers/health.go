package handlers

import (
	"net/http"

	"github.com/eshaffer321/room-allocation-backend/internal/api/dto"
)

// HealthHandler answers load balancer probes.
type HealthHandler struct {
	*Base
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{Base: NewBase()}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, dto.NewHealthResponse())
}
