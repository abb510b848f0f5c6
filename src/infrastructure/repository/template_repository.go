package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insights-api/src/database"
	"insights-api/src/domain"
	"insights-api/src/usecase"
)

// TemplateRepository implements domain.TemplateRepository on Postgres
type TemplateRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB, logger *logrus.Logger) domain.TemplateRepository {
	return &TemplateRepository{db: db, logger: logger}
}

const templateColumns = `id, name, subject, preview, content, category, created_at, updated_at`

// Create inserts a new template
func (r *TemplateRepository) Create(ctx context.Context, tpl *domain.NewsletterTemplate) (*domain.NewsletterTemplate, error) {
	query := `
		INSERT INTO newsletter_templates (id, name, subject, preview, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		tpl.ID, tpl.Name, tpl.Subject, tpl.Preview, tpl.Content,
		tpl.Category.String(), tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to create template")
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	r.logger.WithField("template_id", tpl.ID).Info("template created")
	return tpl, nil
}

// GetByID retrieves a template by ID
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NewsletterTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM newsletter_templates WHERE id = $1`, templateColumns)

	tpl, err := r.scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, usecase.ErrTemplateNotFound
		}
		r.logger.WithError(err).Error("failed to get template")
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tpl, nil
}

// List retrieves all templates, newest first
func (r *TemplateRepository) List(ctx context.Context) ([]domain.NewsletterTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM newsletter_templates ORDER BY created_at DESC`, templateColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithError(err).Error("failed to list templates")
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.NewsletterTemplate
	for rows.Next() {
		tpl, err := r.scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *tpl)
	}

	return templates, nil
}

// Update replaces the mutable columns of a template
func (r *TemplateRepository) Update(ctx context.Context, id uuid.UUID, tpl *domain.NewsletterTemplate) (*domain.NewsletterTemplate, error) {
	query := `
		UPDATE newsletter_templates
		SET name = $1, subject = $2, preview = $3, content = $4, category = $5, updated_at = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		tpl.Name, tpl.Subject, tpl.Preview, tpl.Content, tpl.Category.String(),
		tpl.UpdatedAt, id,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to update template")
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return nil, usecase.ErrTemplateNotFound
	}
	return tpl, nil
}

// Delete permanently removes a template
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM newsletter_templates WHERE id = $1`, id)
	if err != nil {
		r.logger.WithError(err).Error("failed to delete template")
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return usecase.ErrTemplateNotFound
	}
	return nil
}

// RecordSend stores one dispatched newsletter
func (r *TemplateRepository) RecordSend(ctx context.Context, send *domain.NewsletterSend) (*domain.NewsletterSend, error) {
	query := `
		INSERT INTO newsletter_sends (id, template_id, subject, segment, recipient_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		send.ID, send.TemplateID, send.Subject, send.Segment.String(),
		send.RecipientCount, send.CreatedAt,
	)
	if err != nil {
		r.logger.WithError(err).Error("failed to record newsletter send")
		return nil, fmt.Errorf("failed to record newsletter send: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"template_id": send.TemplateID,
		"segment":     send.Segment,
		"recipients":  send.RecipientCount,
	}).Info("newsletter send recorded")
	return send, nil
}

func (r *TemplateRepository) scanTemplate(row rowScanner) (*domain.NewsletterTemplate, error) {
	var tpl domain.NewsletterTemplate
	var category string

	err := row.Scan(
		&tpl.ID, &tpl.Name, &tpl.Subject, &tpl.Preview, &tpl.Content,
		&category, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tpl.Category = domain.TemplateCategory(category)
	return &tpl, nil
}
