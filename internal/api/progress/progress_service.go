package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/luisbelezaPF-sys/encontroDeus/app/observability/metrics"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

const MsgInvalidAction = "Ação inválida. Use versiculo_lido, oracao_feita ou reflexao_lida."

// Ensure implementation satisfies the interface
var _ ProgressService = (*ProgressServiceImpl)(nil)

type ProgressService interface {
	// Track applies one engagement action: counters, streak and the
	// derived score written back to the profile.
	Track(ctx context.Context, userID uuid.UUID, action types.ProgressAction) (*types.ProgressRecord, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.ProgressRecord, error)
}

type ProgressServiceImpl struct {
	logger *slog.Logger
	repo   ProgressRepo
}

func NewProgressService(repo ProgressRepo, logger *slog.Logger) *ProgressServiceImpl {
	return &ProgressServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ProgressServiceImpl) Track(ctx context.Context, userID uuid.UUID, action types.ProgressAction) (*types.ProgressRecord, error) {
	ctx, span := otel.Tracer("ProgressService").Start(ctx, "Track", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("progress.action", string(action)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Track"), slog.String("userID", userID.String()))

	if !types.ValidProgressAction(action) {
		span.SetStatus(codes.Error, "Invalid action")
		return nil, fmt.Errorf("%s: %w", MsgInvalidAction, types.ErrValidation)
	}

	today := dateOnly(time.Now())

	record, err := s.repo.GetProgress(ctx, userID)
	switch {
	case err == nil:
		record.DiasConsecutivos = nextStreak(record.DiasConsecutivos, record.UltimaAtividade, today)
		record.UltimaAtividade = today
	case errors.Is(err, types.ErrNotFound):
		record = &types.ProgressRecord{
			UserID:           userID,
			DiasConsecutivos: 1,
			UltimaAtividade:  today,
		}
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "Progress lookup failed")
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	switch action {
	case types.ActionVerseRead:
		record.VersiculosLidos++
	case types.ActionPrayerDone:
		record.OracoesFeitas++
	case types.ActionReflectionRead:
		record.ReflexoesLidas++
	}

	if err := s.repo.UpsertProgress(ctx, *record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Progress upsert failed")
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	// The score writeback is a second statement; a failure leaves the
	// profile score stale until the next action.
	if err := s.repo.SetBiblicalProgress(ctx, userID, record.Score()); err != nil {
		l.WarnContext(ctx, "Failed to write biblical progress score", slog.Any("error", err))
	}

	if m := metrics.Get(); m != nil {
		m.ProgressActionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(action))))
	}

	span.SetAttributes(attribute.Int("progress.score", record.Score()))
	span.SetStatus(codes.Ok, "Action tracked")
	return record, nil
}

func (s *ProgressServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*types.ProgressRecord, error) {
	return s.repo.GetProgress(ctx, userID)
}

// nextStreak applies the consecutive-day rule: next day extends the
// streak, a gap resets it, the same day leaves it unchanged.
func nextStreak(current int, lastActivity, today time.Time) int {
	diffDays := int(today.Sub(dateOnly(lastActivity)).Hours() / 24)
	switch {
	case diffDays == 1:
		return current + 1
	case diffDays > 1:
		return 1
	}
	return current
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
