package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/luisbelezaPF-sys/encontroDeus/config"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, email, passwordHash, nome string, trialDays int) (*types.UserProfile, error) {
	args := m.Called(ctx, email, passwordHash, nome, trialDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockAuthRepo) GetUserAuthByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, time.Time, *time.Time, error) {
	args := m.Called(ctx, token)
	var revokedAt *time.Time
	if args.Get(2) != nil {
		revokedAt = args.Get(2).(*time.Time)
	}
	return args.Get(0).(uuid.UUID), args.Get(1).(time.Time), revokedAt, args.Error(3)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:  "test-access-secret",
		Issuer:     "test-issuer",
		Audience:   "test-audience",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func testProfile(id uuid.UUID, email string) *types.UserProfile {
	now := time.Now()
	return &types.UserProfile{
		ID:               id,
		Email:            email,
		Nome:             "Teste",
		Role:             types.RoleUser,
		StatusAssinatura: types.SubscriptionTrial,
		DataInicio:       now,
		DataExpiracao:    now.AddDate(0, 0, 7),
	}
}

func TestRegister(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	logger := slog.Default()
	service := NewAuthService(mockRepo, testJWTConfig(), 7, logger)

	t.Run("Success", func(t *testing.T) {
		ctx := context.Background()
		userID := uuid.New()

		mockRepo.On("CreateUser", ctx, "novo@example.com", mock.AnythingOfType("string"), "Novo", 7).
			Return(testProfile(userID, "novo@example.com"), nil).Once()

		profile, err := service.Register(ctx, "Novo", "Novo@Example.com", "senha123")

		assert.NoError(t, err)
		assert.Equal(t, userID, profile.ID)
		assert.Equal(t, types.SubscriptionTrial, profile.StatusAssinatura)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		ctx := context.Background()

		_, err := service.Register(ctx, "Novo", "novo@example.com", "123")

		assert.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), MsgPasswordTooShort)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		ctx := context.Background()

		_, err := service.Register(ctx, "Novo", "not-an-email", "senha123")

		assert.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), MsgInvalidEmail)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		ctx := context.Background()

		mockRepo.On("CreateUser", ctx, "dup@example.com", mock.AnythingOfType("string"), "Dup", 7).
			Return(nil, types.ErrConflict).Once()

		_, err := service.Register(ctx, "Dup", "dup@example.com", "senha123")

		assert.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), MsgEmailTaken)
		mockRepo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	logger := slog.Default()
	service := NewAuthService(mockRepo, testJWTConfig(), 7, logger)

	t.Run("Success", func(t *testing.T) {
		ctx := context.Background()
		userID := uuid.New()
		email := "test@example.com"
		password := "senha123"
		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		user := &types.UserAuth{
			ID:           userID,
			Email:        email,
			PasswordHash: string(hashed),
		}

		mockRepo.On("GetUserAuthByEmail", ctx, email).Return(user, nil).Once()
		mockRepo.On("GetProfile", ctx, userID).Return(testProfile(userID, email), nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

		accessToken, refreshToken, err := service.Login(ctx, email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		ctx := context.Background()

		mockRepo.On("GetUserAuthByEmail", ctx, "nao-existe@example.com").Return(nil, types.ErrNotFound).Once()

		accessToken, refreshToken, err := service.Login(ctx, "nao-existe@example.com", "senha123")

		assert.Error(t, err)
		assert.Empty(t, accessToken)
		assert.Empty(t, refreshToken)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidPassword", func(t *testing.T) {
		ctx := context.Background()
		userID := uuid.New()
		email := "test@example.com"
		hashed, _ := bcrypt.GenerateFromPassword([]byte("senha-correta"), bcrypt.DefaultCost)

		user := &types.UserAuth{
			ID:           userID,
			Email:        email,
			PasswordHash: string(hashed),
		}

		mockRepo.On("GetUserAuthByEmail", ctx, email).Return(user, nil).Once()

		accessToken, refreshToken, err := service.Login(ctx, email, "senha-errada")

		assert.Error(t, err)
		assert.Empty(t, accessToken)
		assert.Empty(t, refreshToken)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestRefreshSession(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	logger := slog.Default()
	service := NewAuthService(mockRepo, testJWTConfig(), 7, logger)

	t.Run("RotatesToken", func(t *testing.T) {
		ctx := context.Background()
		userID := uuid.New()
		oldToken := uuid.NewString()

		mockRepo.On("GetRefreshToken", ctx, oldToken).
			Return(userID, time.Now().Add(time.Hour), nil, nil).Once()
		mockRepo.On("GetProfile", ctx, userID).Return(testProfile(userID, "t@example.com"), nil).Once()
		mockRepo.On("StoreRefreshToken", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
		mockRepo.On("InvalidateRefreshToken", ctx, oldToken).Return(nil).Once()

		access, refresh, err := service.RefreshSession(ctx, oldToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, oldToken, refresh)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		ctx := context.Background()
		oldToken := uuid.NewString()

		mockRepo.On("GetRefreshToken", ctx, oldToken).
			Return(uuid.New(), time.Now().Add(-time.Hour), nil, nil).Once()

		_, _, err := service.RefreshSession(ctx, oldToken)

		assert.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		ctx := context.Background()
		oldToken := uuid.NewString()
		revokedAt := time.Now().Add(-time.Minute)

		mockRepo.On("GetRefreshToken", ctx, oldToken).
			Return(uuid.New(), time.Now().Add(time.Hour), &revokedAt, nil).Once()

		_, _, err := service.RefreshSession(ctx, oldToken)

		assert.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		ctx := context.Background()
		oldToken := uuid.NewString()

		mockRepo.On("GetRefreshToken", ctx, oldToken).
			Return(uuid.Nil, time.Time{}, nil, errors.New("no rows")).Once()

		_, _, err := service.RefreshSession(ctx, oldToken)

		assert.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestLogout(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	logger := slog.Default()
	service := NewAuthService(mockRepo, testJWTConfig(), 7, logger)

	ctx := context.Background()
	token := uuid.NewString()

	mockRepo.On("InvalidateRefreshToken", ctx, token).Return(nil).Once()

	err := service.Logout(ctx, token)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestLogoutAll(t *testing.T) {
	logger := slog.Default()
	userID := uuid.New()

	t.Run("RevokesAllSessions", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), 7, logger)
		ctx := context.Background()

		mockRepo.On("InvalidateAllUserRefreshTokens", ctx, userID).Return(nil).Once()

		err := service.LogoutAll(ctx, userID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StoreErrorIsSurfaced", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testJWTConfig(), 7, logger)
		ctx := context.Background()

		mockRepo.On("InvalidateAllUserRefreshTokens", ctx, userID).Return(errors.New("db down")).Once()

		err := service.LogoutAll(ctx, userID)

		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}
