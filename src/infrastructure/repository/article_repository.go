package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insights-api/src/database"
	"insights-api/src/domain"
	"insights-api/src/security"
	"insights-api/src/usecase"
)

// ArticleRepository implements domain.ArticleRepository on Postgres
type ArticleRepository struct {
	db           *database.DB
	logger       *logrus.Logger
	sqlSanitizer *security.SQLSanitizer
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *database.DB, logger *logrus.Logger) domain.ArticleRepository {
	return &ArticleRepository{
		db:           db,
		logger:       logger,
		sqlSanitizer: security.NewSQLSanitizer(),
	}
}

const articleColumns = `id, title, content, excerpt, category, tags, featured_image, author_id, status, views, published_at, created_at, updated_at`

// Create inserts a new article
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	tagsJSON, err := json.Marshal(article.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO articles (id, title, content, excerpt, category, tags, featured_image, author_id, status, views, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Content, article.Excerpt, article.Category,
		string(tagsJSON), nullString(article.FeaturedImage), nullUUID(article.AuthorID),
		article.Status.String(), article.Views, article.PublishedAt,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to create article")
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	r.logger.WithField("article_id", article.ID).Info("article created")
	return article, nil
}

// GetByID retrieves an article by ID
func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE id = $1`, articleColumns)

	article, err := r.scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, usecase.ErrArticleNotFound
		}
		r.logger.WithError(err).Error("failed to get article by id")
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

// List retrieves articles matching the filter plus the unpaged total
func (r *ArticleRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	where, args := r.buildWhere(filter)

	query := fmt.Sprintf(`SELECT %s FROM articles %s %s LIMIT $%d OFFSET $%d`,
		articleColumns, where,
		r.sqlSanitizer.OrderByClause(filter.Sort.String(), filter.Order.String()),
		len(args)+1, len(args)+2,
	)
	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, offset)...)
	if err != nil {
		r.logger.WithError(err).Error("failed to list articles")
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := r.scanArticle(rows)
		if err != nil {
			r.logger.WithError(err).Error("failed to scan article")
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM articles %s`, where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.WithError(err).Error("failed to count articles")
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return articles, total, nil
}

// Update replaces the mutable columns of an article
func (r *ArticleRepository) Update(ctx context.Context, id uuid.UUID, article *domain.Article) (*domain.Article, error) {
	tagsJSON, err := json.Marshal(article.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		UPDATE articles
		SET title = $1, content = $2, excerpt = $3, category = $4, tags = $5,
		    featured_image = $6, author_id = $7, status = $8, published_at = $9, updated_at = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		article.Title, article.Content, article.Excerpt, article.Category, string(tagsJSON),
		nullString(article.FeaturedImage), nullUUID(article.AuthorID),
		article.Status.String(), article.PublishedAt, article.UpdatedAt, id,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to update article")
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return nil, usecase.ErrArticleNotFound
	}

	return article, nil
}

// Delete permanently removes an article
func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		r.logger.WithError(err).Error("failed to delete article")
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return usecase.ErrArticleNotFound
	}
	return nil
}

// Archive moves an article to archived status
func (r *ArticleRepository) Archive(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE articles SET status = 'archived', updated_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		r.logger.WithError(err).Error("failed to archive article")
		return fmt.Errorf("failed to archive article: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return usecase.ErrArticleNotFound
	}
	return nil
}

// IncrementViews bumps the view counter
func (r *ArticleRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// buildWhere assembles the filter conditions with positional args
func (r *ArticleRepository) buildWhere(filter domain.ArticleFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		where += fmt.Sprintf(" AND "+condition, len(args))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status.String())
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.AuthorID != nil {
		add("author_id = $%d", *filter.AuthorID)
	}
	if filter.Tag != "" {
		// tags are stored as a JSON array string
		add("tags ILIKE $%d", fmt.Sprintf(`%%"%s"%%`, filter.Tag))
	}
	if filter.Search != "" && r.sqlSanitizer.ValidateSearchQuery(filter.Search) == nil {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", len(args), len(args))
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ArticleRepository) scanArticle(row rowScanner) (*domain.Article, error) {
	var article domain.Article
	var tagsStr sql.NullString
	var featuredImage sql.NullString
	var authorID sql.NullString
	var status string
	var publishedAt sql.NullTime

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &article.Excerpt, &article.Category,
		&tagsStr, &featuredImage, &authorID, &status, &article.Views,
		&publishedAt, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.Status = domain.ArticleStatus(status)
	if tagsStr.Valid && tagsStr.String != "" {
		if err := json.Unmarshal([]byte(tagsStr.String), &article.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	if featuredImage.Valid {
		article.FeaturedImage = featuredImage.String
	}
	if authorID.Valid {
		if id, err := uuid.Parse(authorID.String); err == nil {
			article.AuthorID = &id
		}
	}
	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}

	return &article, nil
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
