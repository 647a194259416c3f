package admin

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/api"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// AdminHandler serves the staff panel queries. Subscription toggles live
// on the subscription handler; this one only reads.
type AdminHandler struct {
	AdminRepo AdminRepo
	logger    *slog.Logger
}

func NewAdminHandler(repo AdminRepo, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		AdminRepo: repo,
		logger:    logger,
	}
}

// ListUsers godoc
// @Summary      List Users
// @Description  Lists all users newest first, optionally filtered by a substring of nome or email.
// @Tags         Admin
// @Produce      json
// @Param        search query string false "Substring filter on nome or email"
// @Success      200 {array} types.UserProfile "Users"
// @Failure      403 {object} api.Response "Not an admin"
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AdminHandler").Start(r.Context(), "ListUsers")
	defer span.End()

	search := r.URL.Query().Get("search")

	users, err := h.AdminRepo.ListUsers(ctx, search)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Listing failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao listar usuários")
		return
	}
	if users == nil {
		users = []types.UserProfile{}
	}

	span.SetStatus(codes.Ok, "Users listed")
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}
