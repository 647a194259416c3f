package dailycontent

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// MockDailyContentRepo is a mock implementation of the DailyContentRepo interface
type MockDailyContentRepo struct {
	mock.Mock
}

func (m *MockDailyContentRepo) GetVerseByDate(ctx context.Context, date time.Time) (*types.Verse, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Verse), args.Error(1)
}

func (m *MockDailyContentRepo) GetFigureByDate(ctx context.Context, date time.Time) (*types.Figure, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Figure), args.Error(1)
}

func (m *MockDailyContentRepo) GetReflectionByDate(ctx context.Context, date time.Time) (*types.Reflection, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Reflection), args.Error(1)
}

func (m *MockDailyContentRepo) UpsertVerse(ctx context.Context, verse types.Verse) error {
	args := m.Called(ctx, verse)
	return args.Error(0)
}

func (m *MockDailyContentRepo) UpsertFigure(ctx context.Context, figure types.Figure) error {
	args := m.Called(ctx, figure)
	return args.Error(0)
}

func (m *MockDailyContentRepo) UpsertReflection(ctx context.Context, reflection types.Reflection) error {
	args := m.Called(ctx, reflection)
	return args.Error(0)
}

// MockVerseFetcher is a mock implementation of the VerseFetcher interface
type MockVerseFetcher struct {
	mock.Mock
}

func (m *MockVerseFetcher) FetchVerse(ctx context.Context, referencia string) (*types.Verse, error) {
	args := m.Called(ctx, referencia)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Verse), args.Error(1)
}

// MockReflectionGenerator is a mock implementation of the ReflectionGenerator interface
type MockReflectionGenerator struct {
	mock.Mock
}

func (m *MockReflectionGenerator) GenerateReflection(ctx context.Context, referencia, texto string) (string, error) {
	args := m.Called(ctx, referencia, texto)
	return args.String(0), args.Error(1)
}

func newTestService(repo DailyContentRepo, verses VerseFetcher, reflections ReflectionGenerator) *DailyContentServiceImpl {
	return NewDailyContentService(repo, verses, reflections, 5*time.Second, 5*time.Second, slog.Default())
}

func todayUTC() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func TestToday_StoredContentShortCircuits(t *testing.T) {
	mockRepo := new(MockDailyContentRepo)
	mockVerses := new(MockVerseFetcher)
	service := newTestService(mockRepo, mockVerses, nil)
	ctx := context.Background()
	date := todayUTC()

	storedVerse := &types.Verse{Referencia: "Salmos 23:1", Texto: "O SENHOR é o meu pastor; nada me faltará.", Data: date}
	storedFigure := &types.Figure{Nome: "Davi", Descricao: "Rei segundo o coração de Deus, salmista e guerreiro.", Data: date}
	storedReflection := &types.Reflection{Texto: "Reflexão do dia.", Data: date}

	mockRepo.On("GetVerseByDate", mock.Anything, date).Return(storedVerse, nil).Once()
	mockRepo.On("GetFigureByDate", mock.Anything, date).Return(storedFigure, nil).Once()
	mockRepo.On("GetReflectionByDate", mock.Anything, date).Return(storedReflection, nil).Once()

	content, err := service.Today(ctx)

	assert.NoError(t, err)
	assert.Equal(t, *storedVerse, content.Verse)
	assert.Equal(t, *storedFigure, content.Figure)
	assert.Equal(t, *storedReflection, content.Reflection)
	// The external verse source is never consulted when rows exist.
	mockVerses.AssertNotCalled(t, "FetchVerse", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestToday_SecondCallServedFromCache(t *testing.T) {
	mockRepo := new(MockDailyContentRepo)
	mockVerses := new(MockVerseFetcher)
	service := newTestService(mockRepo, mockVerses, nil)
	ctx := context.Background()
	date := todayUTC()

	storedVerse := &types.Verse{Referencia: "Salmos 23:1", Texto: "O SENHOR é o meu pastor; nada me faltará.", Data: date}
	storedFigure := &types.Figure{Nome: "Davi", Data: date}

	mockRepo.On("GetVerseByDate", mock.Anything, date).Return(storedVerse, nil).Once()
	mockRepo.On("GetFigureByDate", mock.Anything, date).Return(storedFigure, nil).Once()
	mockRepo.On("GetReflectionByDate", mock.Anything, date).Return(nil, types.ErrNotFound).Once()

	first, err := service.Today(ctx)
	assert.NoError(t, err)

	second, err := service.Today(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	// Store was hit exactly once.
	mockRepo.AssertExpectations(t)
}

func TestToday_ComputesAndPersistsWhenMissing(t *testing.T) {
	mockRepo := new(MockDailyContentRepo)
	mockVerses := new(MockVerseFetcher)
	mockReflections := new(MockReflectionGenerator)
	service := newTestService(mockRepo, mockVerses, mockReflections)
	ctx := context.Background()
	date := todayUTC()
	day := time.Now().Day()
	localVerse := verseOfDay(day)

	fetched := &types.Verse{Referencia: localVerse.Referencia, Texto: "Texto enriquecido da API."}

	mockRepo.On("GetVerseByDate", mock.Anything, date).Return(nil, types.ErrNotFound).Once()
	mockVerses.On("FetchVerse", mock.Anything, localVerse.Referencia).Return(fetched, nil).Once()
	mockReflections.On("GenerateReflection", mock.Anything, localVerse.Referencia, localVerse.Texto).
		Return("Uma reflexão gerada.", nil).Once()
	mockRepo.On("UpsertVerse", mock.Anything, mock.AnythingOfType("types.Verse")).Return(nil).Once()
	mockRepo.On("UpsertFigure", mock.Anything, mock.AnythingOfType("types.Figure")).Return(nil).Once()
	mockRepo.On("UpsertReflection", mock.Anything, mock.AnythingOfType("types.Reflection")).Return(nil).Once()

	content, err := service.Today(ctx)

	assert.NoError(t, err)
	assert.Equal(t, localVerse.Referencia, content.Verse.Referencia)
	assert.Equal(t, "Texto enriquecido da API.", content.Verse.Texto)
	assert.Equal(t, figureOfDay(day).Nome, content.Figure.Nome)
	assert.Equal(t, "Uma reflexão gerada.", content.Reflection.Texto)
	assert.Equal(t, date, content.Verse.Data)
	mockRepo.AssertExpectations(t)
	mockVerses.AssertExpectations(t)
	mockReflections.AssertExpectations(t)
}

func TestToday_ExternalFailuresFallBackLocal(t *testing.T) {
	mockRepo := new(MockDailyContentRepo)
	mockVerses := new(MockVerseFetcher)
	mockReflections := new(MockReflectionGenerator)
	service := newTestService(mockRepo, mockVerses, mockReflections)
	ctx := context.Background()
	date := todayUTC()
	day := time.Now().Day()
	localVerse := verseOfDay(day)

	mockRepo.On("GetVerseByDate", mock.Anything, date).Return(nil, types.ErrNotFound).Once()
	mockVerses.On("FetchVerse", mock.Anything, localVerse.Referencia).Return(nil, errors.New("timeout")).Once()
	mockReflections.On("GenerateReflection", mock.Anything, localVerse.Referencia, localVerse.Texto).
		Return("", errors.New("quota exceeded")).Once()
	mockRepo.On("UpsertVerse", mock.Anything, mock.AnythingOfType("types.Verse")).Return(nil).Once()
	mockRepo.On("UpsertFigure", mock.Anything, mock.AnythingOfType("types.Figure")).Return(nil).Once()
	mockRepo.On("UpsertReflection", mock.Anything, mock.AnythingOfType("types.Reflection")).Return(nil).Once()

	content, err := service.Today(ctx)

	assert.NoError(t, err)
	assert.Equal(t, localVerse.Texto, content.Verse.Texto)
	assert.NotEmpty(t, content.Reflection.Texto)
	mockRepo.AssertExpectations(t)
}

func TestToday_PersistFailureStillServes(t *testing.T) {
	mockRepo := new(MockDailyContentRepo)
	mockVerses := new(MockVerseFetcher)
	service := newTestService(mockRepo, mockVerses, nil)
	ctx := context.Background()
	date := todayUTC()
	day := time.Now().Day()
	localVerse := verseOfDay(day)

	mockRepo.On("GetVerseByDate", mock.Anything, date).Return(nil, types.ErrNotFound).Once()
	mockVerses.On("FetchVerse", mock.Anything, localVerse.Referencia).Return(nil, errors.New("down")).Once()
	mockRepo.On("UpsertVerse", mock.Anything, mock.AnythingOfType("types.Verse")).Return(errors.New("db down")).Once()
	mockRepo.On("UpsertFigure", mock.Anything, mock.AnythingOfType("types.Figure")).Return(errors.New("db down")).Once()
	mockRepo.On("UpsertReflection", mock.Anything, mock.AnythingOfType("types.Reflection")).Return(errors.New("db down")).Once()

	content, err := service.Today(ctx)

	assert.NoError(t, err)
	assert.Equal(t, localVerse.Texto, content.Verse.Texto)
	mockRepo.AssertExpectations(t)
}

func TestRotationRepeatsMonthly(t *testing.T) {
	// Day 5 and day 33 land on different indexes only when the list
	// length says so; the documented behavior is plain modular repeat.
	assert.Equal(t, verseOfDay(5), verseOfDay(5+len(localVerses)))
	assert.Equal(t, figureOfDay(2), figureOfDay(2+len(biblicalFigures)))
	assert.NotEqual(t, verseOfDay(5), verseOfDay(6))

	for day := 1; day <= 31; day++ {
		assert.Equal(t, verseOfDay(day%len(localVerses)), verseOfDay(day))
	}
}
