package recommend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/logger"
	"github.com/futig/resource-assistant/internal/pkg/response"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	decodeFailedMessage   = "Failed to decode JSON from API response."
	upstreamFailedMessage = "Failed to get recommendations from the completion service."
)

type Handler struct {
	recommender Recommender
	validator   *validator.Validator
}

func NewHandler(recommender Recommender, validator *validator.Validator) *Handler {
	return &Handler{
		recommender: recommender,
		validator:   validator,
	}
}

// Recommend handles POST /recommend
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Recommend")

	var req entity.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "invalid recommend request body", zap.Error(err))
		response.JSON(w, http.StatusBadRequest, entity.RecommendErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.validator.ValidateRecommend(&req); err != nil {
		ctxzap.Warn(ctx, "recommend request failed validation", zap.Error(err))
		response.JSON(w, http.StatusBadRequest, entity.RecommendErrorResponse{Error: err.Error()})
		return
	}

	resources, err := h.recommender.Recommend(ctx, &req)
	switch {
	case errors.Is(err, entity.ErrMalformedResponse):
		ctxzap.Error(ctx, "recommendation output could not be decoded", zap.Error(err))
		response.JSON(w, http.StatusInternalServerError, entity.RecommendErrorResponse{Error: decodeFailedMessage})
		return
	case errors.Is(err, entity.ErrUpstreamFailure):
		ctxzap.Error(ctx, "completion service failed", zap.Error(err))
		response.JSON(w, http.StatusBadGateway, entity.RecommendErrorResponse{Error: upstreamFailedMessage})
		return
	case err != nil:
		ctxzap.Error(ctx, "recommendation failed", zap.Error(err))
		response.JSON(w, http.StatusInternalServerError, entity.RecommendErrorResponse{Error: "internal server error"})
		return
	}

	if resources == nil {
		resources = []entity.Resource{}
	}

	ctxzap.Info(ctx, "recommendations returned", zap.Int("count", len(resources)))

	response.JSON(w, http.StatusOK, entity.RecommendResponse{Resources: resources})
}
