package progress

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/api"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/auth"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

type ProgressHandler struct {
	ProgressService ProgressService
	logger          *slog.Logger
}

func NewProgressHandler(service ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		ProgressService: service,
		logger:          logger,
	}
}

type progressResponse struct {
	types.ProgressRecord
	ProgressoBiblico int `json:"progresso_biblico"`
}

func callerID(r *http.Request) (uuid.UUID, bool) {
	idStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || idStr == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Track godoc
// @Summary      Track Progress Action
// @Description  Records an engagement action and returns the updated counters and score.
// @Tags         Progress
// @Accept       json
// @Produce      json
// @Param        body body api.TrackProgressRequest true "Action"
// @Success      200 {object} progressResponse "Updated progress"
// @Failure      400 {object} api.Response "Invalid action"
// @Security     BearerAuth
// @Router       /progress/track [post]
func (h *ProgressHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProgressHandler").Start(r.Context(), "Track")
	defer span.End()

	l := h.logger.With(slog.String("handler", "Track"))

	userID, ok := callerID(r)
	if !ok {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api.TrackProgressRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.ProgressService.Track(ctx, userID, types.ProgressAction(req.Acao))
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			span.SetStatus(codes.Error, "Invalid action")
			api.ErrorResponse(w, r, http.StatusBadRequest,
				strings.TrimSuffix(err.Error(), ": "+types.ErrValidation.Error()))
			return
		}
		l.ErrorContext(ctx, "Failed to track progress", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Tracking failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao registrar progresso")
		return
	}

	span.SetStatus(codes.Ok, "Action tracked")
	api.WriteJSONResponse(w, r, http.StatusOK, progressResponse{
		ProgressRecord:   *record,
		ProgressoBiblico: record.Score(),
	})
}

// Get godoc
// @Summary      Current Progress
// @Tags         Progress
// @Produce      json
// @Success      200 {object} progressResponse "Progress counters and score"
// @Failure      404 {object} api.Response "No progress yet"
// @Security     BearerAuth
// @Router       /progress [get]
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProgressHandler").Start(r.Context(), "Get")
	defer span.End()

	userID, ok := callerID(r)
	if !ok {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	record, err := h.ProgressService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "No progress yet")
			api.ErrorResponse(w, r, http.StatusNotFound, "Nenhum progresso registrado ainda")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load progress", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao buscar progresso")
		return
	}

	span.SetStatus(codes.Ok, "Progress returned")
	api.WriteJSONResponse(w, r, http.StatusOK, progressResponse{
		ProgressRecord:   *record,
		ProgressoBiblico: record.Score(),
	})
}
