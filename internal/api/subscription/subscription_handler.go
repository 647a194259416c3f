package subscription

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/api"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api/auth"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

type SubscriptionHandler struct {
	SubscriptionService SubscriptionService
	logger              *slog.Logger
}

func NewSubscriptionHandler(service SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		SubscriptionService: service,
		logger:              logger,
	}
}

// requestUserID resolves the authenticated caller from the request context.
func requestUserID(r *http.Request) (uuid.UUID, bool) {
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

// GetStatus godoc
// @Summary      Subscription Status
// @Description  Evaluates the caller's subscription state and access flags.
// @Tags         Subscription
// @Produce      json
// @Success      200 {object} types.SubscriptionStatus "Status"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /subscription/status [get]
func (h *SubscriptionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SubscriptionHandler").Start(r.Context(), "GetStatus")
	defer span.End()

	userID, ok := requestUserID(r)
	if !ok {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	status, err := h.SubscriptionService.Evaluate(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to evaluate subscription", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Evaluation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao verificar assinatura")
		return
	}

	span.SetStatus(codes.Ok, "Status evaluated")
	api.WriteJSONResponse(w, r, http.StatusOK, status)
}

// Checkout godoc
// @Summary      Start Checkout
// @Description  Registers a pending payment and returns the external checkout URL.
// @Tags         Subscription
// @Produce      json
// @Success      200 {object} api.CheckoutResponse "Checkout redirect"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /subscription/checkout [post]
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SubscriptionHandler").Start(r.Context(), "Checkout")
	defer span.End()

	l := h.logger.With(slog.String("handler", "Checkout"))

	userID, ok := requestUserID(r)
	if !ok {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	// The pending row is an audit record; losing it does not block the
	// redirect since activation is manual anyway.
	if _, err := h.SubscriptionService.CreatePendingSubscription(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to record pending subscription", slog.Any("error", err))
		span.RecordError(err)
	}

	url, valor := h.SubscriptionService.CheckoutURL()
	span.SetStatus(codes.Ok, "Checkout prepared")
	api.WriteJSONResponse(w, r, http.StatusOK, api.CheckoutResponse{
		CheckoutURL: url,
		Valor:       valor,
	})
}

// PaymentHistory godoc
// @Summary      Payment History
// @Tags         Subscription
// @Produce      json
// @Success      200 {array} types.Payment "Payments, newest first"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /subscription/payments [get]
func (h *SubscriptionHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SubscriptionHandler").Start(r.Context(), "PaymentHistory")
	defer span.End()

	userID, ok := requestUserID(r)
	if !ok {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	payments, err := h.SubscriptionService.PaymentHistory(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list payments", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Listing failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao buscar histórico de pagamentos")
		return
	}
	if payments == nil {
		payments = []types.Payment{}
	}

	span.SetStatus(codes.Ok, "Payments listed")
	api.WriteJSONResponse(w, r, http.StatusOK, payments)
}

// Activate godoc
// @Summary      Activate Subscription
// @Description  Admin action: sets status ativo with a 30-day window.
// @Tags         Admin
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {object} api.Response "Activated"
// @Failure      404 {object} api.Response "User not found"
// @Security     BearerAuth
// @Router       /admin/users/{userID}/activate [post]
func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SubscriptionHandler").Start(r.Context(), "Activate")
	defer span.End()

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid user ID format")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.SubscriptionService.Activate(ctx, userID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "User not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		h.logger.ErrorContext(ctx, "Activation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Activation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao ativar assinatura")
		return
	}

	span.SetStatus(codes.Ok, "Subscription activated")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Assinatura ativada com sucesso!",
	})
}

// Deactivate godoc
// @Summary      Deactivate Subscription
// @Description  Admin action: sets status inativo.
// @Tags         Admin
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {object} api.Response "Deactivated"
// @Failure      404 {object} api.Response "User not found"
// @Security     BearerAuth
// @Router       /admin/users/{userID}/deactivate [post]
func (h *SubscriptionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SubscriptionHandler").Start(r.Context(), "Deactivate")
	defer span.End()

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid user ID format")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.SubscriptionService.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "User not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		h.logger.ErrorContext(ctx, "Deactivation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Deactivation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao desativar assinatura")
		return
	}

	span.SetStatus(codes.Ok, "Subscription deactivated")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Assinatura desativada com sucesso!",
	})
}
