package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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
var _ ProgressRepo = (*PostgresProgressRepo)(nil)

type ProgressRepo interface {
	GetProgress(ctx context.Context, userID uuid.UUID) (*types.ProgressRecord, error)
	UpsertProgress(ctx context.Context, record types.ProgressRecord) error
	// SetBiblicalProgress writes the derived score to users_meta. It is a
	// separate statement from the progresso upsert; no transaction.
	SetBiblicalProgress(ctx context.Context, userID uuid.UUID, score int) error
}

type PostgresProgressRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresProgressRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresProgressRepo {
	return &PostgresProgressRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresProgressRepo) GetProgress(ctx context.Context, userID uuid.UUID) (*types.ProgressRecord, error) {
	ctx, span := otel.Tracer("ProgressRepo").Start(ctx, "GetProgress", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "progresso"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "progresso.select", time.Now())

	var p types.ProgressRecord
	err := r.pgpool.QueryRow(ctx,
		`SELECT user_id, versiculos_lidos, oracoes_feitas, reflexoes_lidas, dias_consecutivos, ultima_atividade
         FROM progresso WHERE user_id = $1`, userID).Scan(
		&p.UserID,
		&p.VersiculosLidos,
		&p.OracoesFeitas,
		&p.ReflexoesLidas,
		&p.DiasConsecutivos,
		&p.UltimaAtividade,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("progress not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}

	span.SetStatus(codes.Ok, "Progress fetched")
	return &p, nil
}

func (r *PostgresProgressRepo) UpsertProgress(ctx context.Context, record types.ProgressRecord) error {
	ctx, span := otel.Tracer("ProgressRepo").Start(ctx, "UpsertProgress", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "progresso"),
		attribute.String("db.user.id", record.UserID.String()),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "progresso.upsert", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO progresso (user_id, versiculos_lidos, oracoes_feitas, reflexoes_lidas, dias_consecutivos, ultima_atividade)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (user_id) DO UPDATE SET
             versiculos_lidos = EXCLUDED.versiculos_lidos,
             oracoes_feitas = EXCLUDED.oracoes_feitas,
             reflexoes_lidas = EXCLUDED.reflexoes_lidas,
             dias_consecutivos = EXCLUDED.dias_consecutivos,
             ultima_atividade = EXCLUDED.ultima_atividade`,
		record.UserID, record.VersiculosLidos, record.OracoesFeitas, record.ReflexoesLidas,
		record.DiasConsecutivos, record.UltimaAtividade)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	span.SetStatus(codes.Ok, "Progress upserted")
	return nil
}

func (r *PostgresProgressRepo) SetBiblicalProgress(ctx context.Context, userID uuid.UUID, score int) error {
	ctx, span := otel.Tracer("ProgressRepo").Start(ctx, "SetBiblicalProgress", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users_meta"),
		attribute.String("db.user.id", userID.String()),
		attribute.Int("progress.score", score),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "users_meta.update", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`UPDATE users_meta SET progresso_biblico = $1, updated_at = now() WHERE id = $2`,
		score, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return fmt.Errorf("failed to write biblical progress: %w", err)
	}

	span.SetStatus(codes.Ok, "Biblical progress written")
	return nil
}
