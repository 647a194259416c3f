package subscription

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresSubscriptionRepo, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresSubscriptionRepo(mockPool, slog.Default()), mockPool
}

func TestPostgresSubscriptionRepo_GetProfile(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "email", "nome", "role", "status_assinatura", "data_inicio",
		"data_expiracao", "progresso_biblico", "created_at", "updated_at",
	}).AddRow(userID, "a@b.com", "Ana", types.RoleUser, types.SubscriptionTrial,
		now, now.AddDate(0, 0, 7), 0, now, now)

	mockPool.ExpectQuery("SELECT id, email, nome, role, status_assinatura").
		WithArgs(userID).
		WillReturnRows(rows)

	profile, err := repo.GetProfile(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, types.SubscriptionTrial, profile.StatusAssinatura)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepo_GetProfileNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT id, email, nome, role, status_assinatura").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "nome", "role", "status_assinatura", "data_inicio",
			"data_expiracao", "progresso_biblico", "created_at", "updated_at",
		}))

	_, err := repo.GetProfile(ctx, userID)

	assert.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepo_UpdateSubscription(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	expiresAt := time.Now().AddDate(0, 0, 30)

	mockPool.ExpectExec("UPDATE users_meta SET status_assinatura").
		WithArgs(types.SubscriptionActive, expiresAt, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateSubscription(ctx, userID, types.SubscriptionActive, &expiresAt)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepo_UpdateSubscriptionUnknownUser(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	mockPool.ExpectExec("UPDATE users_meta SET status_assinatura").
		WithArgs(types.SubscriptionInactive, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateSubscription(ctx, userID, types.SubscriptionInactive, nil)

	assert.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresSubscriptionRepo_ListPayments(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()
	paidAt := now.Add(-time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "status", "valor", "metodo_pagamento", "data_pagamento", "created_at",
	}).
		AddRow(uuid.New(), userID, types.PaymentActive, 9.90, "pagbank", &paidAt, now).
		AddRow(uuid.New(), userID, types.PaymentPending, 9.90, "pagbank", (*time.Time)(nil), now.Add(-24*time.Hour))

	mockPool.ExpectQuery("SELECT id, user_id, status, valor, metodo_pagamento").
		WithArgs(userID).
		WillReturnRows(rows)

	payments, err := repo.ListPayments(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, types.PaymentActive, payments[0].Status)
	assert.NotNil(t, payments[0].DataPagamento)
	assert.Nil(t, payments[1].DataPagamento)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
