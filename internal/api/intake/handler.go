package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/formatter"
	"github.com/futig/resource-assistant/internal/pkg/logger"
	"github.com/futig/resource-assistant/internal/pkg/response"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    IntakeUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func NewHandler(
	usecase IntakeUsecase,
	validator *validator.Validator,
	formatters *formatter.Factory,
) *Handler {
	return &Handler{
		usecase:    usecase,
		validator:  validator,
		formatters: formatters,
	}
}

// Start handles POST /chat/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartIntake")

	resp, err := h.usecase.Start(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Respond handles POST /chat/respond
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RespondIntake")

	var req entity.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateRespond(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("session_id", req.SessionID),
		zap.String("question_type", req.QuestionType),
	)

	resp, err := h.usecase.Respond(ctx, req.SessionID, req.QuestionType, req.Answer)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// ExportResources handles GET /chat/{sessionId}/resources?format=
func (h *Handler) ExportResources(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportResources")

	sessionID := chi.URLParam(r, "sessionId")
	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatJSON
	}
	if !format.IsValid() {
		response.Error(ctx, w, http.StatusBadRequest, "format must be json, markdown, pdf or docx", nil)
		return
	}

	report, err := h.usecase.GetResources(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if format == entity.FormatJSON {
		response.JSON(w, http.StatusOK, report)
		return
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := f.Format(report)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to render report", err)
		return
	}

	ctxzap.Info(ctx, "resources exported",
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)

	response.File(w, f.ContentType(), "resources"+f.FileExtension(), data)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidSession):
		response.Error(ctx, w, http.StatusBadRequest, "invalid or expired session", err)
	case errors.Is(err, entity.ErrSessionCompleted):
		response.Error(ctx, w, http.StatusConflict, "session is already completed", err)
	case errors.Is(err, entity.ErrUnexpectedQuestion):
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrInvalidAnswer):
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidFormat):
		response.Error(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
