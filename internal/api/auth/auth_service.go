package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/luisbelezaPF-sys/encontroDeus/config"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// Fixed user-readable validation messages, surfaced in-form by the client.
const (
	MsgEmailTaken        = "Este email já está cadastrado. Tente fazer login."
	MsgPasswordTooShort  = "A senha deve ter pelo menos 6 caracteres."
	MsgInvalidEmail      = "Email inválido. Verifique o formato."
	MsgBadCredentials    = "Email ou senha incorretos. Verifique suas credenciais e tente novamente."
	MsgRegisterSucceeded = "Conta criada com sucesso! Você tem 7 dias de acesso gratuito ao conteúdo premium."
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the identity gateway: sign-up, sign-in, sign-out and
// session retrieval over JWT access tokens plus rotated refresh tokens.
type AuthService interface {
	Register(ctx context.Context, nome, email, password string) (*types.UserProfile, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	GetSession(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
}

type AuthServiceImpl struct {
	logger    *slog.Logger
	repo      AuthRepo
	jwtCfg    config.JWTConfig
	trialDays int
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, trialDays int, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:    logger,
		repo:      repo,
		jwtCfg:    jwtCfg,
		trialDays: trialDays,
	}
}

// Register creates the credential record and the trial profile.
func (s *AuthServiceImpl) Register(ctx context.Context, nome, email, password string) (*types.UserProfile, error) {
	l := s.logger.With(slog.String("method", "Register"))

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%s: %w", MsgInvalidEmail, types.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%s: %w", MsgPasswordTooShort, types.ErrValidation)
	}
	if nome == "" {
		nome = strings.SplitN(email, "@", 2)[0]
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile, err := s.repo.CreateUser(ctx, email, string(hashed), nome, s.trialDays)
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", MsgEmailTaken, types.ErrValidation)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	l.InfoContext(ctx, "User registered with trial", slog.String("userID", profile.ID.String()))
	return profile, nil
}

// Login validates credentials and returns an access/refresh token pair.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserAuthByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", "", fmt.Errorf("%s: %w", MsgBadCredentials, types.ErrUnauthenticated)
		}
		return "", "", fmt.Errorf("login failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%s: %w", MsgBadCredentials, types.ErrUnauthenticated)
	}

	return s.issueTokens(ctx, user.ID)
}

// RefreshSession rotates a valid refresh token into a new pair.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	userID, expiresAt, revokedAt, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", types.ErrUnauthenticated)
	}
	if time.Now().After(expiresAt) || revokedAt != nil {
		return "", "", fmt.Errorf("refresh token expired or revoked: %w", types.ErrUnauthenticated)
	}

	access, refresh, err := s.issueTokens(ctx, userID)
	if err != nil {
		return "", "", err
	}

	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate rotated refresh token", slog.Any("error", err))
	}
	return access, refresh, nil
}

// Logout revokes the presented refresh token.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.InvalidateRefreshToken(ctx, refreshToken)
}

// LogoutAll revokes every active refresh token of the user, ending all
// sessions on all devices at once.
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.InvalidateAllUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate user sessions: %w", err)
	}
	s.logger.InfoContext(ctx, "All user sessions revoked", slog.String("userID", userID.String()))
	return nil
}

// GetSession returns the profile behind an authenticated user id.
func (s *AuthServiceImpl) GetSession(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return "", "", fmt.Errorf("failed to load profile for token: %w", err)
	}

	nome, role := "", types.RoleUser
	email := ""
	if profile != nil {
		nome, role, email = profile.Nome, profile.Role, profile.Email
	}

	now := time.Now()
	claims := &types.Claims{
		UserID: userID.String(),
		Email:  email,
		Nome:   nome,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, userID, refresh, now.Add(s.jwtCfg.RefreshTTL)); err != nil {
		return "", "", err
	}

	return access, refresh, nil
}
