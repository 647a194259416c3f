package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

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
var _ AdminRepo = (*PostgresAdminRepo)(nil)

type AdminRepo interface {
	// ListUsers returns every profile, newest first. A non-empty search
	// narrows by case-insensitive substring on nome or email.
	ListUsers(ctx context.Context, search string) ([]types.UserProfile, error)
}

type PostgresAdminRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresAdminRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresAdminRepo {
	return &PostgresAdminRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAdminRepo) ListUsers(ctx context.Context, search string) ([]types.UserProfile, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "ListUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users_meta"),
		attribute.Bool("admin.filtered", search != ""),
	))
	defer span.End()
	defer metrics.RecordDBQuery(ctx, "users_meta.select", time.Now())

	query := `SELECT id, email, nome, role, status_assinatura, data_inicio, data_expiracao,
                     progresso_biblico, created_at, updated_at
              FROM users_meta`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE nome ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+escapeLikePattern(search)+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []types.UserProfile
	for rows.Next() {
		var p types.UserProfile
		if err := rows.Scan(
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
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("user rows error: %w", err)
	}

	span.SetAttributes(attribute.Int("admin.users.count", len(users)))
	span.SetStatus(codes.Ok, "Users listed")
	return users, nil
}

// escapeLikePattern neutralizes LIKE metacharacters so the caller's input
// only ever matches as a literal substring.
func escapeLikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
