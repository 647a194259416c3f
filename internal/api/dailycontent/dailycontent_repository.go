package dailycontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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
var _ DailyContentRepo = (*PostgresDailyContentRepo)(nil)

type DailyContentRepo interface {
	GetVerseByDate(ctx context.Context, date time.Time) (*types.Verse, error)
	GetFigureByDate(ctx context.Context, date time.Time) (*types.Figure, error)
	GetReflectionByDate(ctx context.Context, date time.Time) (*types.Reflection, error)

	// Upserts are keyed by date (verse, reflection) or nome+date (figure),
	// so concurrent first-of-day writers converge on the same row.
	UpsertVerse(ctx context.Context, verse types.Verse) error
	UpsertFigure(ctx context.Context, figure types.Figure) error
	UpsertReflection(ctx context.Context, reflection types.Reflection) error
}

type PostgresDailyContentRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresDailyContentRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresDailyContentRepo {
	return &PostgresDailyContentRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresDailyContentRepo) GetVerseByDate(ctx context.Context, date time.Time) (*types.Verse, error) {
	ctx, span := otel.Tracer("DailyContentRepo").Start(ctx, "GetVerseByDate", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "versiculos"),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "versiculos.select", time.Now())

	var v types.Verse
	err := r.pgpool.QueryRow(ctx,
		`SELECT referencia, texto, data FROM versiculos WHERE data = $1`, date).
		Scan(&v.Referencia, &v.Texto, &v.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("verse not found for date: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to fetch verse: %w", err)
	}
	return &v, nil
}

func (r *PostgresDailyContentRepo) GetFigureByDate(ctx context.Context, date time.Time) (*types.Figure, error) {
	ctx, span := otel.Tracer("DailyContentRepo").Start(ctx, "GetFigureByDate", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "personagens_biblicos"),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "personagens_biblicos.select", time.Now())

	var f types.Figure
	err := r.pgpool.QueryRow(ctx,
		`SELECT nome, descricao, historia, versiculo_relacionado, data
         FROM personagens_biblicos WHERE data = $1`, date).
		Scan(&f.Nome, &f.Descricao, &f.Historia, &f.VersiculoRelacionado, &f.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("figure not found for date: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to fetch figure: %w", err)
	}
	return &f, nil
}

func (r *PostgresDailyContentRepo) GetReflectionByDate(ctx context.Context, date time.Time) (*types.Reflection, error) {
	ctx, span := otel.Tracer("DailyContentRepo").Start(ctx, "GetReflectionByDate", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "reflexoes"),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "reflexoes.select", time.Now())

	var ref types.Reflection
	err := r.pgpool.QueryRow(ctx,
		`SELECT texto, data FROM reflexoes WHERE data = $1`, date).
		Scan(&ref.Texto, &ref.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reflection not found for date: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to fetch reflection: %w", err)
	}
	return &ref, nil
}

func (r *PostgresDailyContentRepo) UpsertVerse(ctx context.Context, verse types.Verse) error {
	ctx, span := otel.Tracer("DailyContentRepo").Start(ctx, "UpsertVerse", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "versiculos"),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "versiculos.upsert", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO versiculos (referencia, texto, data)
         VALUES ($1, $2, $3)
         ON CONFLICT (data) DO UPDATE SET referencia = EXCLUDED.referencia, texto = EXCLUDED.texto`,
		verse.Referencia, verse.Texto, verse.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return fmt.Errorf("failed to upsert verse: %w", err)
	}
	return nil
}

func (r *PostgresDailyContentRepo) UpsertFigure(ctx context.Context, figure types.Figure) error {
	ctx, span := otel.Tracer("DailyContentRepo").Start(ctx, "UpsertFigure", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "personagens_biblicos"),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "personagens_biblicos.upsert", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO personagens_biblicos (nome, descricao, historia, versiculo_relacionado, data)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (nome, data) DO UPDATE SET
             descricao = EXCLUDED.descricao,
             historia = EXCLUDED.historia,
             versiculo_relacionado = EXCLUDED.versiculo_relacionado`,
		figure.Nome, figure.Descricao, figure.Historia, figure.VersiculoRelacionado, figure.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return fmt.Errorf("failed to upsert figure: %w", err)
	}
	return nil
}

func (r *PostgresDailyContentRepo) UpsertReflection(ctx context.Context, reflection types.Reflection) error {
	ctx, span := otel.Tracer("DailyContentRepo").Start(ctx, "UpsertReflection", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "reflexoes"),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "reflexoes.upsert", time.Now())

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO reflexoes (texto, data)
         VALUES ($1, $2)
         ON CONFLICT (data) DO UPDATE SET texto = EXCLUDED.texto`,
		reflection.Texto, reflection.Data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upsert failed")
		return fmt.Errorf("failed to upsert reflection: %w", err)
	}
	return nil
}
