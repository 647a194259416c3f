package dailycontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/luisbelezaPF-sys/encontroDeus/app/observability/metrics"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// ReflectionGenerator produces the short devotional paragraph over the
// day's verse. Nil generators are allowed; the local fallback is used.
type ReflectionGenerator interface {
	GenerateReflection(ctx context.Context, referencia, texto string) (string, error)
}

// Ensure implementation satisfies the interface
var _ DailyContentService = (*DailyContentServiceImpl)(nil)

type DailyContentService interface {
	// Today returns the verse + figure + reflection for the current
	// calendar date, computing and persisting it on first request.
	Today(ctx context.Context) (*types.DailyContent, error)
}

type DailyContentServiceImpl struct {
	logger            *slog.Logger
	repo              DailyContentRepo
	verses            VerseFetcher
	reflections       ReflectionGenerator
	cache             *cache.Cache
	verseTimeout      time.Duration
	reflectionTimeout time.Duration
}

func NewDailyContentService(repo DailyContentRepo, verses VerseFetcher, reflections ReflectionGenerator,
	verseTimeout, reflectionTimeout time.Duration, logger *slog.Logger) *DailyContentServiceImpl {
	return &DailyContentServiceImpl{
		logger:            logger,
		repo:              repo,
		verses:            verses,
		reflections:       reflections,
		cache:             cache.New(24*time.Hour, time.Hour),
		verseTimeout:      verseTimeout,
		reflectionTimeout: reflectionTimeout,
	}
}

func (s *DailyContentServiceImpl) Today(ctx context.Context) (*types.DailyContent, error) {
	ctx, span := otel.Tracer("DailyContentService").Start(ctx, "Today")
	defer span.End()

	now := time.Now()
	dateKey := now.Format("2006-01-02")
	span.SetAttributes(attribute.String("content.date", dateKey))

	if cached, found := s.cache.Get(dateKey); found {
		span.SetStatus(codes.Ok, "Served from cache")
		s.countFetch(ctx, "cache")
		return cached.(*types.DailyContent), nil
	}

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Read path first: stored rows win, with no second external fetch.
	if content, err := s.loadStored(ctx, date); err == nil {
		s.cache.Set(dateKey, content, cache.DefaultExpiration)
		span.SetStatus(codes.Ok, "Served from store")
		s.countFetch(ctx, "store")
		return content, nil
	} else if !errors.Is(err, types.ErrNotFound) {
		s.logger.WarnContext(ctx, "Stored content lookup failed, recomputing", slog.Any("error", err))
	}

	content := s.compute(ctx, now, date)
	s.persist(ctx, content)
	s.cache.Set(dateKey, content, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "Content computed")
	s.countFetch(ctx, "computed")
	return content, nil
}

func (s *DailyContentServiceImpl) loadStored(ctx context.Context, date time.Time) (*types.DailyContent, error) {
	verse, err := s.repo.GetVerseByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	figure, err := s.repo.GetFigureByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	content := &types.DailyContent{Verse: *verse, Figure: *figure}

	// The reflection is enrichment; a missing row falls back locally
	// rather than failing the read path.
	if reflection, err := s.repo.GetReflectionByDate(ctx, date); err == nil {
		content.Reflection = *reflection
	} else {
		content.Reflection = types.Reflection{
			Texto: fallbackReflection(*verse, *figure),
			Data:  date,
		}
	}
	return content, nil
}

// compute assembles the day's content from the local rotation lists plus
// the two best-effort enrichments, run concurrently.
func (s *DailyContentServiceImpl) compute(ctx context.Context, now, date time.Time) *types.DailyContent {
	day := now.Day()
	verse := verseOfDay(day)
	figure := figureOfDay(day)
	verse.Data = date
	figure.Data = date

	var reflectionText string
	// The reflection prompt uses the local verse so the two enrichments
	// can run concurrently without sharing the verse struct.
	localRef, localText := verse.Referencia, verse.Texto

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(gctx, s.verseTimeout)
		defer cancel()
		fetched, err := s.verses.FetchVerse(fetchCtx, verse.Referencia)
		if err != nil {
			s.logger.WarnContext(gctx, "External verse lookup failed, using local verse", slog.Any("error", err))
			if m := metrics.Get(); m != nil {
				m.ExternalVerseFailuresTotal.Add(gctx, 1)
			}
			return nil
		}
		verse.Referencia = fetched.Referencia
		verse.Texto = fetched.Texto
		return nil
	})
	g.Go(func() error {
		if s.reflections == nil {
			return nil
		}
		genCtx, cancel := context.WithTimeout(gctx, s.reflectionTimeout)
		defer cancel()
		text, err := s.reflections.GenerateReflection(genCtx, localRef, localText)
		if err != nil || text == "" {
			s.logger.WarnContext(gctx, "Reflection generation failed, using local text", slog.Any("error", err))
			return nil
		}
		reflectionText = text
		return nil
	})
	// Enrichment goroutines swallow their own errors.
	_ = g.Wait()

	if reflectionText == "" {
		reflectionText = fallbackReflection(verse, figure)
	}

	return &types.DailyContent{
		Verse:      verse,
		Figure:     figure,
		Reflection: types.Reflection{Texto: reflectionText, Data: date},
	}
}

// persist writes the computed content back. Failures are logged only;
// today's content is still served and recomputation is deterministic.
func (s *DailyContentServiceImpl) persist(ctx context.Context, content *types.DailyContent) {
	if err := s.repo.UpsertVerse(ctx, content.Verse); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist verse", slog.Any("error", err))
	}
	if err := s.repo.UpsertFigure(ctx, content.Figure); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist figure", slog.Any("error", err))
	}
	if err := s.repo.UpsertReflection(ctx, content.Reflection); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist reflection", slog.Any("error", err))
	}
}

func (s *DailyContentServiceImpl) countFetch(ctx context.Context, source string) {
	if m := metrics.Get(); m != nil {
		m.DailyContentFetchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	}
}

func fallbackReflection(verse types.Verse, figure types.Figure) string {
	return fmt.Sprintf(
		"Medite hoje em %s: %q. A história de %s nos lembra que %s Reserve um momento de oração e deixe essa palavra guiar o seu dia.",
		verse.Referencia, verse.Texto, figure.Nome, lowerFirst(figure.Descricao))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] + ('a' - 'A')
	}
	return string(r)
}
