package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eshaffer321/room-allocation-backend/internal/api/dto"
	"github.com/eshaffer321/room-allocation-backend/internal/application/service"
	"github.com/eshaffer321/room-allocation-backend/internal/domain/allocator"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/idempotency"
)

// Header names used by the occupancy endpoint.
const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotency-Replayed"
)

// ExplainLimits bounds the explainLimit query parameter.
type ExplainLimits struct {
	Default int
	Max     int
}

// OccupancyHandler handles room allocation requests.
type OccupancyHandler struct {
	*Base
	service  *service.AllocationService
	limits   ExplainLimits
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOccupancyHandler creates a new occupancy handler.
func NewOccupancyHandler(svc *service.AllocationService, limits ExplainLimits, logger *slog.Logger) *OccupancyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OccupancyHandler{
		Base:     NewBase(),
		service:  svc,
		limits:   limits,
		validate: dto.NewValidator(),
		logger:   logger,
	}
}

// Allocate handles POST /api/occupancy.
//
// Query parameters:
//   - explain: include allocation decisions (default: false)
//   - explainLimit: max entries per explanation list (default from config)
//
// Header Idempotency-Key makes retries return the first response.
func (h *OccupancyHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	explain, err := ParseBoolParam(r, "explain", false)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	explainLimit := 0
	if explain {
		explainLimit, err = h.resolveExplainLimit(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
			return
		}
	}

	var body dto.OccupancyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteError(w, http.StatusRequestEntityTooLarge, dto.PayloadTooLargeError(tooLarge.Limit, r.ContentLength))
			return
		}
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("malformed request body: "+err.Error()))
		return
	}

	if err := h.validate.Struct(body); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("request validation failed", dto.FieldErrors(err)))
		return
	}

	premiumRooms, economyRooms := body.Rooms()
	req := service.Request{
		PremiumRooms: premiumRooms,
		EconomyRooms: economyRooms,
		Guests:       body.Guests(),
		Explain:      explain,
		ExplainLimit: explainLimit,
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	res, replayed, err := h.service.ProcessIdempotent(r.Context(), key, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if key != "" {
		w.Header().Set(IdempotencyReplayedHeader, strconv.FormatBool(replayed))
	}

	if res.Explanation != nil {
		h.WriteJSON(w, http.StatusOK, dto.NewOccupancyExplainResponse(res.Summary, *res.Explanation))
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewOccupancyResponse(res.Summary))
}

func (h *OccupancyHandler) resolveExplainLimit(r *http.Request) (int, error) {
	limit, err := ParseIntParam(r, "explainLimit", h.limits.Default)
	if err != nil {
		return 0, err
	}
	if limit < 0 {
		return 0, errors.New("explainLimit must be non-negative")
	}
	if h.limits.Max > 0 && limit > h.limits.Max {
		return 0, fmt.Errorf("explainLimit exceeds maximum allowed of %d", h.limits.Max)
	}
	return limit, nil
}

func (h *OccupancyHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, allocator.ErrInvalidArgument):
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
	case errors.Is(err, idempotency.ErrConflict):
		h.WriteError(w, http.StatusConflict, dto.IdempotencyConflictError(
			"Idempotency-Key was already used with a different request"))
	default:
		h.logger.ErrorContext(r.Context(), "allocation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}
