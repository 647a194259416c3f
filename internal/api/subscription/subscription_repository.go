package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/luisbelezaPF-sys/encontroDeus/app/observability/metrics"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/api"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// Ensure implementation satisfies the interface
var _ SubscriptionRepo = (*PostgresSubscriptionRepo)(nil)

type SubscriptionRepo interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	// ProvisionTrialProfile inserts a default trial profile for an
	// authenticated user that has no users_meta row yet. The insert is
	// idempotent; an existing row wins.
	ProvisionTrialProfile(ctx context.Context, userID uuid.UUID, trialDays int) (*types.UserProfile, error)
	// UpdateSubscription sets the stored status and, when expiresAt is
	// non-nil, moves the expiration date.
	UpdateSubscription(ctx context.Context, userID uuid.UUID, status types.SubscriptionState, expiresAt *time.Time) error

	CreatePendingPayment(ctx context.Context, userID uuid.UUID, valor float64, metodo string) (*types.Payment, error)
	// SettlePendingPayments marks every pendente assinatura of the user as
	// paid. Zero affected rows is not an error.
	SettlePendingPayments(ctx context.Context, userID uuid.UUID) error
	ListPayments(ctx context.Context, userID uuid.UUID) ([]types.Payment, error)
}

type PostgresSubscriptionRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresSubscriptionRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresSubscriptionRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("SubscriptionRepo").Start(ctx, "GetProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users_meta"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "users_meta.select", time.Now())

	var p types.UserProfile
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, email, nome, role, status_assinatura, data_inicio, data_expiracao,
                progresso_biblico, created_at, updated_at
         FROM users_meta WHERE id = $1`, userID).Scan(
		&p.ID,
		&p.Email,
		&p.Nome,
		&p.Role,
		&p.StatusAssinatura,
		&p.DataInicio,
		&p.DataExpiracao,
		&p.ProgressoBiblico,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Profile not found")
			return nil, fmt.Errorf("profile not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &p, nil
}

func (r *PostgresSubscriptionRepo) ProvisionTrialProfile(ctx context.Context, userID uuid.UUID, trialDays int) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("SubscriptionRepo").Start(ctx, "ProvisionTrialProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users_meta"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "users_meta.insert", time.Now())

	l := r.logger.With(slog.String("method", "ProvisionTrialProfile"), slog.String("userID", userID.String()))

	now := time.Now()
	profile := &types.UserProfile{
		ID:               userID,
		Nome:             "Usuário",
		Role:             types.RoleUser,
		StatusAssinatura: types.SubscriptionTrial,
		DataInicio:       now,
		DataExpiracao:    now.AddDate(0, 0, trialDays),
	}

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO users_meta (id, email, nome, role, status_assinatura, data_inicio, data_expiracao, progresso_biblico)
         VALUES ($1, '', $2, $3, $4, $5, $6, 0)
         ON CONFLICT (id) DO NOTHING`,
		userID, profile.Nome, profile.Role, profile.StatusAssinatura, profile.DataInicio, profile.DataExpiracao)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return nil, fmt.Errorf("failed to provision trial profile: %w", err)
	}

	l.InfoContext(ctx, "Provisioned default trial profile")
	span.SetStatus(codes.Ok, "Profile provisioned")
	return profile, nil
}

func (r *PostgresSubscriptionRepo) UpdateSubscription(ctx context.Context, userID uuid.UUID, status types.SubscriptionState, expiresAt *time.Time) error {
	ctx, span := otel.Tracer("SubscriptionRepo").Start(ctx, "UpdateSubscription", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users_meta"),
		attribute.String("db.user.id", userID.String()),
		attribute.String("subscription.status", string(status)),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "users_meta.update", time.Now())

	var tag pgconn.CommandTag
	var err error
	if expiresAt != nil {
		tag, err = r.pgpool.Exec(ctx,
			`UPDATE users_meta SET status_assinatura = $1, data_expiracao = $2, updated_at = now() WHERE id = $3`,
			status, *expiresAt, userID)
	} else {
		tag, err = r.pgpool.Exec(ctx,
			`UPDATE users_meta SET status_assinatura = $1, updated_at = now() WHERE id = $2`,
			status, userID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Profile not found")
		return fmt.Errorf("profile not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Subscription updated")
	return nil
}

func (r *PostgresSubscriptionRepo) CreatePendingPayment(ctx context.Context, userID uuid.UUID, valor float64, metodo string) (*types.Payment, error) {
	ctx, span := otel.Tracer("SubscriptionRepo").Start(ctx, "CreatePendingPayment", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "assinaturas"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "assinaturas.insert", time.Now())

	p := types.Payment{
		UserID:          userID,
		Status:          types.PaymentPending,
		Valor:           valor,
		MetodoPagamento: metodo,
	}
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO assinaturas (user_id, status, valor, metodo_pagamento)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at`,
		userID, p.Status, valor, metodo).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return nil, fmt.Errorf("failed to create pending payment: %w", err)
	}

	span.SetStatus(codes.Ok, "Pending payment created")
	return &p, nil
}

func (r *PostgresSubscriptionRepo) SettlePendingPayments(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("SubscriptionRepo").Start(ctx, "SettlePendingPayments", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "assinaturas"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "assinaturas.update", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`UPDATE assinaturas SET status = $1, data_pagamento = now()
         WHERE user_id = $2 AND status = $3`,
		types.PaymentActive, userID, types.PaymentPending)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return fmt.Errorf("failed to settle pending payments: %w", err)
	}

	span.SetStatus(codes.Ok, "Pending payments settled")
	return nil
}

func (r *PostgresSubscriptionRepo) ListPayments(ctx context.Context, userID uuid.UUID) ([]types.Payment, error) {
	ctx, span := otel.Tracer("SubscriptionRepo").Start(ctx, "ListPayments", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "assinaturas"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "assinaturas.select", time.Now())

	rows, err := r.pgpool.Query(ctx,
		`SELECT id, user_id, status, valor, metodo_pagamento, data_pagamento, created_at
         FROM assinaturas WHERE user_id = $1
         ORDER BY created_at DESC`, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []types.Payment
	for rows.Next() {
		var p types.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Status, &p.Valor, &p.MetodoPagamento, &p.DataPagamento, &p.CreatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("payment rows error: %w", err)
	}

	span.SetStatus(codes.Ok, "Payments listed")
	return payments, nil
}
