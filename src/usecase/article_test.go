package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insights-api/src/domain"
	"insights-api/src/usecase"
)

// MockArticleRepository is a mock implementation of domain.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	args := m.Called(ctx, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Article), args.Get(1).(int), args.Error(2)
}

func (m *MockArticleRepository) Update(ctx context.Context, id uuid.UUID, article *domain.Article) (*domain.Article, error) {
	args := m.Called(ctx, id, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) Archive(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestArticleUsecase_CreateArticle(t *testing.T) {
	t.Run("draft keeps a nil publication time", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Article")).
			Return(&domain.Article{ID: uuid.New(), Status: domain.StatusDraft}, nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.CreateArticle(context.Background(), usecase.CreateArticleInput{
			Title:    "Draft piece",
			Content:  "...",
			Category: "politics",
		})

		require.NoError(t, err)
		created := mockRepo.Calls[0].Arguments.Get(1).(*domain.Article)
		assert.Equal(t, domain.StatusDraft, created.Status)
		assert.Nil(t, created.PublishedAt)
		assert.NotEqual(t, uuid.Nil, created.ID)
	})

	t.Run("publishing without a timestamp stamps now", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Article")).
			Return(&domain.Article{ID: uuid.New()}, nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		before := time.Now()
		_, err := uc.CreateArticle(context.Background(), usecase.CreateArticleInput{
			Title:    "Breaking",
			Content:  "...",
			Category: "politics",
			Status:   domain.StatusPublished,
		})

		require.NoError(t, err)
		created := mockRepo.Calls[0].Arguments.Get(1).(*domain.Article)
		require.NotNil(t, created.PublishedAt)
		assert.False(t, created.PublishedAt.Before(before))
	})

	t.Run("duplicate tags are collapsed", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Article")).
			Return(&domain.Article{ID: uuid.New()}, nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.CreateArticle(context.Background(), usecase.CreateArticleInput{
			Title:    "Tagged",
			Content:  "...",
			Category: "sports",
			Tags:     []string{"football", " football ", "", "lonestar"},
		})

		require.NoError(t, err)
		created := mockRepo.Calls[0].Arguments.Get(1).(*domain.Article)
		assert.Equal(t, []string{"football", "lonestar"}, created.Tags)
	})

	t.Run("invalid status", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		uc := usecase.NewArticleUsecase(mockRepo)

		_, err := uc.CreateArticle(context.Background(), usecase.CreateArticleInput{
			Title:    "x",
			Content:  "x",
			Category: "news",
			Status:   domain.ArticleStatus("live"),
		})

		assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestArticleUsecase_GetArticle(t *testing.T) {
	articleID := uuid.New()

	t.Run("bumps the view counter", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).
			Return(&domain.Article{ID: articleID, Views: 7}, nil)
		mockRepo.On("IncrementViews", mock.Anything, articleID).Return(nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		article, err := uc.GetArticle(context.Background(), articleID)

		require.NoError(t, err)
		assert.Equal(t, 8, article.Views)
	})

	t.Run("view counter failure does not fail the read", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).
			Return(&domain.Article{ID: articleID, Views: 7}, nil)
		mockRepo.On("IncrementViews", mock.Anything, articleID).
			Return(errors.New("deadlock"))

		uc := usecase.NewArticleUsecase(mockRepo)
		article, err := uc.GetArticle(context.Background(), articleID)

		require.NoError(t, err)
		assert.Equal(t, 7, article.Views)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).
			Return(nil, usecase.ErrArticleNotFound)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.GetArticle(context.Background(), articleID)

		assert.ErrorIs(t, err, usecase.ErrArticleNotFound)
	})
}

func TestArticleUsecase_ListArticles(t *testing.T) {
	t.Run("normalizes an empty filter", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("List", mock.Anything, mock.AnythingOfType("domain.ArticleFilter")).
			Return([]domain.Article{}, 0, nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, _, err := uc.ListArticles(context.Background(), domain.ArticleFilter{})

		require.NoError(t, err)
		filter := mockRepo.Calls[0].Arguments.Get(1).(domain.ArticleFilter)
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 10, filter.Limit)
		assert.Equal(t, domain.SortCreatedAt, filter.Sort)
		assert.Equal(t, domain.OrderDesc, filter.Order)
	})

	t.Run("caps the limit", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("List", mock.Anything, mock.AnythingOfType("domain.ArticleFilter")).
			Return([]domain.Article{}, 0, nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, _, err := uc.ListArticles(context.Background(), domain.ArticleFilter{Limit: 5000})

		require.NoError(t, err)
		filter := mockRepo.Calls[0].Arguments.Get(1).(domain.ArticleFilter)
		assert.Equal(t, 100, filter.Limit)
	})

	t.Run("rejects an unknown sort column", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		uc := usecase.NewArticleUsecase(mockRepo)

		_, _, err := uc.ListArticles(context.Background(),
			domain.ArticleFilter{Sort: domain.SortField("rating")})

		assert.ErrorIs(t, err, usecase.ErrInvalidSort)
		mockRepo.AssertNotCalled(t, "List")
	})
}

func TestArticleUsecase_UpdateArticle(t *testing.T) {
	articleID := uuid.New()
	existing := func() *domain.Article {
		return &domain.Article{
			ID:       articleID,
			Title:    "Original title",
			Content:  "Original content",
			Category: "economy",
			Status:   domain.StatusPublished,
			PublishedAt: func() *time.Time {
				ts := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
				return &ts
			}(),
		}
	}

	t.Run("empty patch changes nothing but the timestamp", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, articleID, mock.AnythingOfType("*domain.Article")).
			Return(existing(), nil)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.UpdateArticle(context.Background(), articleID, usecase.UpdateArticleInput{})

		require.NoError(t, err)
		updated := mockRepo.Calls[1].Arguments.Get(2).(*domain.Article)
		assert.Equal(t, "Original title", updated.Title)
		assert.Equal(t, domain.StatusPublished, updated.Status, "omitted status must not revert")
	})

	t.Run("patched fields are applied", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, articleID, mock.AnythingOfType("*domain.Article")).
			Return(existing(), nil)

		newTitle := "Revised title"
		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.UpdateArticle(context.Background(), articleID,
			usecase.UpdateArticleInput{Title: &newTitle})

		require.NoError(t, err)
		updated := mockRepo.Calls[1].Arguments.Get(2).(*domain.Article)
		assert.Equal(t, "Revised title", updated.Title)
		assert.Equal(t, "Original content", updated.Content)
	})

	t.Run("transition to published stamps a publication time", func(t *testing.T) {
		draft := existing()
		draft.Status = domain.StatusDraft
		draft.PublishedAt = nil

		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).Return(draft, nil)
		mockRepo.On("Update", mock.Anything, articleID, mock.AnythingOfType("*domain.Article")).
			Return(draft, nil)

		status := domain.StatusPublished
		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.UpdateArticle(context.Background(), articleID,
			usecase.UpdateArticleInput{Status: &status})

		require.NoError(t, err)
		updated := mockRepo.Calls[1].Arguments.Get(2).(*domain.Article)
		assert.NotNil(t, updated.PublishedAt)
	})

	t.Run("missing article", func(t *testing.T) {
		mockRepo := new(MockArticleRepository)
		mockRepo.On("GetByID", mock.Anything, articleID).
			Return(nil, usecase.ErrArticleNotFound)

		uc := usecase.NewArticleUsecase(mockRepo)
		_, err := uc.UpdateArticle(context.Background(), articleID, usecase.UpdateArticleInput{})

		assert.ErrorIs(t, err, usecase.ErrArticleNotFound)
		mockRepo.AssertNotCalled(t, "Update")
	})
}
