package actionstep

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/resource-assistant/internal/api/middleware"
	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/logger"
	"github.com/futig/resource-assistant/internal/pkg/response"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ActionStepUsecase
	validator *validator.Validator
}

func NewHandler(usecase ActionStepUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// ListActionSteps handles GET /api/action-steps[?simplified=true]
func (h *Handler) ListActionSteps(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListActionSteps")
	userID := middleware.UserIDFromContext(ctx)

	steps, err := h.usecase.List(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	simplified, _ := strconv.ParseBool(r.URL.Query().Get("simplified"))
	if simplified {
		response.JSON(w, http.StatusOK, toSummaries(steps))
		return
	}

	response.JSON(w, http.StatusOK, orEmpty(steps))
}

// CreateActionStep handles POST /api/action-steps
func (h *Handler) CreateActionStep(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateActionStep")
	userID := middleware.UserIDFromContext(ctx)

	var req entity.CreateActionStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateCreateActionStep(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	step, err := h.usecase.Create(ctx, userID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusCreated, step)
}

// UpdateActionStep handles PUT /api/action-steps/{id}
func (h *Handler) UpdateActionStep(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UpdateActionStep")
	userID := middleware.UserIDFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(ctx, w, http.StatusBadRequest, "invalid action step id", err)
		return
	}
	ctx = logger.AddFields(ctx, zap.Int64("step_id", id))

	var req entity.UpdateActionStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateUpdateActionStep(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	step, err := h.usecase.Update(ctx, userID, id, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, step)
}

// ReorderActionSteps handles POST /api/action-steps/reorder
func (h *Handler) ReorderActionSteps(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ReorderActionSteps")
	userID := middleware.UserIDFromContext(ctx)

	var req entity.ReorderActionStepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateReorder(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	updated, err := h.usecase.Reorder(ctx, userID, req.Steps)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, entity.ReorderActionStepsResponse{Updated: updated})
}

// GenerateActionSteps handles POST /api/action-steps/generate
func (h *Handler) GenerateActionSteps(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateActionSteps")
	userID := middleware.UserIDFromContext(ctx)

	var req entity.GenerateActionStepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateGenerate(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	steps, err := h.usecase.Generate(ctx, userID, req.FocusArea)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "action plan generated",
		zap.String("focus_area", req.FocusArea),
		zap.Int("steps", len(steps)),
	)

	response.JSON(w, http.StatusOK, entity.ActionStepsResponse{Steps: orEmpty(steps)})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrActionStepNotFound):
		response.Error(ctx, w, http.StatusNotFound, "action step not found", err)
	case errors.Is(err, entity.ErrUnknownFocusArea):
		response.Error(ctx, w, http.StatusBadRequest, "focus_area must be schools, community or resources", err)
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter):
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
	default:
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
