package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"insights-api/src/domain"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrInvalidStatus   = errors.New("status must be draft, published, or archived")
	ErrInvalidSort     = errors.New("sort must be a sortable column")
)

// CreateArticleInput represents input for creating an article
type CreateArticleInput struct {
	Title         string
	Content       string
	Excerpt       string
	Category      string
	Tags          []string
	FeaturedImage string
	AuthorID      *uuid.UUID
	Status        domain.ArticleStatus
	PublishedAt   *time.Time
}

// UpdateArticleInput represents a partial article patch; nil fields are
// left untouched.
type UpdateArticleInput struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Category      *string
	Tags          []string
	FeaturedImage *string
	AuthorID      *uuid.UUID
	Status        *domain.ArticleStatus
	PublishedAt   *time.Time
}

// ArticleUsecase defines the interface for article business logic
type ArticleUsecase interface {
	CreateArticle(ctx context.Context, input CreateArticleInput) (*domain.Article, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	UpdateArticle(ctx context.Context, id uuid.UUID, input UpdateArticleInput) (*domain.Article, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	ArchiveArticle(ctx context.Context, id uuid.UUID) error
}

type articleUsecase struct {
	articleRepo domain.ArticleRepository
}

// NewArticleUsecase creates a new article usecase
func NewArticleUsecase(articleRepo domain.ArticleRepository) ArticleUsecase {
	return &articleUsecase{
		articleRepo: articleRepo,
	}
}

// CreateArticle creates a new article. An article created as published
// without an explicit publication time is stamped now.
func (u *articleUsecase) CreateArticle(ctx context.Context, input CreateArticleInput) (*domain.Article, error) {
	status := input.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	publishedAt := input.PublishedAt
	if status == domain.StatusPublished && publishedAt == nil {
		publishedAt = &now
	}

	article := &domain.Article{
		ID:            uuid.New(),
		Title:         input.Title,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		Category:      input.Category,
		Tags:          normalizeTags(input.Tags),
		FeaturedImage: input.FeaturedImage,
		AuthorID:      input.AuthorID,
		Status:        status,
		PublishedAt:   publishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return u.articleRepo.Create(ctx, article)
}

// GetArticle retrieves an article by ID and bumps its view counter
func (u *articleUsecase) GetArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := u.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// view counting is best effort; a miss never fails the read
	if err := u.articleRepo.IncrementViews(ctx, id); err == nil {
		article.Views++
	}

	return article, nil
}

// ListArticles retrieves articles with filtering
func (u *articleUsecase) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	if err := u.validateAndNormalizeFilter(&filter); err != nil {
		return nil, 0, err
	}

	return u.articleRepo.List(ctx, filter)
}

// UpdateArticle applies a partial patch to an existing article. An omitted
// status stays as it is; it never silently reverts to draft.
func (u *articleUsecase) UpdateArticle(ctx context.Context, id uuid.UUID, input UpdateArticleInput) (*domain.Article, error) {
	existing, err := u.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing

	if input.Title != nil {
		updated.Title = *input.Title
	}
	if input.Content != nil {
		updated.Content = *input.Content
	}
	if input.Excerpt != nil {
		updated.Excerpt = *input.Excerpt
	}
	if input.Category != nil {
		updated.Category = *input.Category
	}
	if input.Tags != nil {
		updated.Tags = normalizeTags(input.Tags)
	}
	if input.FeaturedImage != nil {
		updated.FeaturedImage = *input.FeaturedImage
	}
	if input.AuthorID != nil {
		updated.AuthorID = input.AuthorID
	}
	if input.PublishedAt != nil {
		updated.PublishedAt = input.PublishedAt
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		updated.Status = *input.Status
		if updated.Status == domain.StatusPublished && updated.PublishedAt == nil {
			now := time.Now()
			updated.PublishedAt = &now
		}
	}

	updated.UpdatedAt = time.Now()

	return u.articleRepo.Update(ctx, id, &updated)
}

// DeleteArticle deletes an article
func (u *articleUsecase) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	return u.articleRepo.Delete(ctx, id)
}

// ArchiveArticle moves an article to archived status
func (u *articleUsecase) ArchiveArticle(ctx context.Context, id uuid.UUID) error {
	return u.articleRepo.Archive(ctx, id)
}

// validateAndNormalizeFilter validates and normalizes filter
func (u *articleUsecase) validateAndNormalizeFilter(filter *domain.ArticleFilter) error {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Sort == "" {
		filter.Sort = domain.SortCreatedAt
	}
	if filter.Order == "" {
		filter.Order = domain.OrderDesc
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !filter.Sort.IsValid() || !filter.Order.IsValid() {
		return ErrInvalidSort
	}

	return nil
}

// normalizeTags removes empty and duplicate tags
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" && !seen[trimmed] {
			seen[trimmed] = true
			result = append(result, trimmed)
		}
	}

	return result
}
