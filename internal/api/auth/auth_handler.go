package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/luisbelezaPF-sys/encontroDeus/app/observability/metrics"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

type AuthHandler struct {
	AuthService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		AuthService: authService,
		logger:      logger,
	}
}

// userMessage strips the sentinel suffix so only the fixed user-readable
// message reaches the client.
func userMessage(err error, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

// Register godoc
// @Summary      Register User
// @Description  Creates an account with a 7-day premium trial.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.RegisterRequest true "Registration"
// @Success      201 {object} api.Response "Account created"
// @Failure      400 {object} api.Response "Validation error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/register"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Register"))

	var req api.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if m := metrics.Get(); m != nil {
		m.RegisterRequestsTotal.Add(ctx, 1)
	}

	_, err := h.AuthService.Register(ctx, req.Nome, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			span.SetStatus(codes.Error, "Validation failed")
			api.ErrorResponse(w, r, http.StatusBadRequest, userMessage(err, types.ErrValidation))
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Registration failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro inesperado ao criar conta")
		return
	}

	span.SetStatus(codes.Ok, "User registered")
	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: MsgRegisterSucceeded,
	})
}

// Login godoc
// @Summary      Login
// @Description  Validates credentials and returns an access/refresh pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.LoginRequest true "Credentials"
// @Success      200 {object} api.LoginResponse "Tokens"
// @Failure      401 {object} api.Response "Bad credentials"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/login"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	var req api.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	access, refresh, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Bad credentials")
			api.ErrorResponse(w, r, http.StatusUnauthorized, userMessage(err, types.ErrUnauthenticated))
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro inesperado ao fazer login")
		return
	}

	span.SetStatus(codes.Ok, "Login successful")
	api.WriteJSONResponse(w, r, http.StatusOK, api.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Message:      "Login realizado com sucesso!",
	})
}

// RefreshSession godoc
// @Summary      Refresh Tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} api.TokenResponse "New tokens"
// @Failure      401 {object} api.Response "Invalid refresh token"
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "RefreshSession")
	defer span.End()

	var req api.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	access, refresh, err := h.AuthService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Invalid refresh token")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Sessão expirada. Faça login novamente.")
			return
		}
		h.logger.ErrorContext(ctx, "Refresh failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refresh failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro inesperado")
		return
	}

	span.SetStatus(codes.Ok, "Session refreshed")
	api.WriteJSONResponse(w, r, http.StatusOK, api.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Logout godoc
// @Summary      Logout
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.RefreshTokenRequest true "Refresh token to revoke"
// @Success      200 {object} api.Response "Logged out"
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Logout")
	defer span.End()

	var req api.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.AuthService.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Logout failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao fazer logout")
		return
	}

	span.SetStatus(codes.Ok, "Logged out")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Logout realizado com sucesso!",
	})
}

// LogoutAll godoc
// @Summary      Logout Everywhere
// @Description  Revokes all refresh tokens of the authenticated user.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} api.Response "All sessions ended"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /auth/invalidate-tokens [post]
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "LogoutAll")
	defer span.End()

	l := h.logger.With(slog.String("handler", "LogoutAll"))

	userIDStr, ok := GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid user ID format")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.AuthService.LogoutAll(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to revoke user sessions", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke user sessions")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro ao encerrar sessões")
		return
	}

	span.SetStatus(codes.Ok, "All sessions revoked")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Todas as sessões foram encerradas.",
	})
}

// GetSession godoc
// @Summary      Current Session
// @Description  Returns the authenticated user's profile.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.UserProfile "Profile"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /auth/session [get]
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "GetSession")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetSession"))

	userIDStr, ok := GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		span.SetStatus(codes.Error, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid user ID format")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	profile, err := h.AuthService.GetSession(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Profile not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		l.ErrorContext(ctx, "Failed to load session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load session")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Erro inesperado")
		return
	}

	span.SetStatus(codes.Ok, "Session returned")
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}
