package dailycontent

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/api"
)

type DailyContentHandler struct {
	DailyContentService DailyContentService
	logger              *slog.Logger
}

func NewDailyContentHandler(service DailyContentService, logger *slog.Logger) *DailyContentHandler {
	return &DailyContentHandler{
		DailyContentService: service,
		logger:              logger,
	}
}

// Today godoc
// @Summary      Daily Content
// @Description  Returns the verse, biblical figure and reflection for today.
// @Tags         Content
// @Produce      json
// @Success      200 {object} types.DailyContent "Today's content"
// @Security     BearerAuth
// @Router       /content/today [get]
func (h *DailyContentHandler) Today(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DailyContentHandler").Start(r.Context(), "Today")
	defer span.End()

	content, err := h.DailyContentService.Today(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to assemble daily content", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Content assembly failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao buscar conteúdo do dia")
		return
	}

	span.SetStatus(codes.Ok, "Content served")
	api.WriteJSONResponse(w, r, http.StatusOK, content)
}
