package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"insights-api/src/database"
	"insights-api/src/domain"
	"insights-api/src/usecase"
)

// SubscriberRepository implements domain.SubscriberRepository on Postgres
type SubscriberRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *database.DB, logger *logrus.Logger) domain.SubscriberRepository {
	return &SubscriberRepository{db: db, logger: logger}
}

// Upsert creates a subscription or re-activates and refreshes an existing
// one for the same email.
func (r *SubscriberRepository) Upsert(ctx context.Context, sub *domain.Subscriber) (*domain.Subscriber, error) {
	categoriesJSON, err := json.Marshal(sub.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categories: %w", err)
	}

	query := `
		INSERT INTO subscribers (id, email, first_name, last_name, frequency, categories, is_subscribed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
		ON CONFLICT (email) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    frequency = EXCLUDED.frequency,
		    categories = EXCLUDED.categories,
		    is_subscribed = TRUE,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		sub.ID, sub.Email, sub.FirstName, sub.LastName, sub.Frequency.String(),
		string(categoriesJSON), sub.CreatedAt, sub.UpdatedAt,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		r.logger.WithError(err).Error("failed to upsert subscriber")
		return nil, fmt.Errorf("failed to upsert subscriber: %w", err)
	}

	r.logger.WithField("email", sub.Email).Info("subscriber saved")
	return sub, nil
}

// GetByEmail retrieves a subscriber by normalized email
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `
		SELECT id, email, first_name, last_name, frequency, categories, is_subscribed, created_at, updated_at
		FROM subscribers WHERE email = $1`

	var sub domain.Subscriber
	var frequency string
	var categoriesStr sql.NullString

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&sub.ID, &sub.Email, &sub.FirstName, &sub.LastName, &frequency,
		&categoriesStr, &sub.IsSubscribed, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, usecase.ErrSubscriberNotFound
		}
		r.logger.WithError(err).Error("failed to get subscriber")
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	sub.Frequency = domain.Frequency(frequency)
	if categoriesStr.Valid && categoriesStr.String != "" {
		if err := json.Unmarshal([]byte(categoriesStr.String), &sub.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
	}

	return &sub, nil
}

// Unsubscribe deactivates the subscription for the email
func (r *SubscriberRepository) Unsubscribe(ctx context.Context, email string) error {
	query := `UPDATE subscribers SET is_subscribed = FALSE, updated_at = $1 WHERE email = $2`

	result, err := r.db.ExecContext(ctx, query, time.Now(), email)
	if err != nil {
		r.logger.WithError(err).Error("failed to unsubscribe")
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	if err := requireRowsAffected(result); err != nil {
		return usecase.ErrSubscriberNotFound
	}
	return nil
}

// CountBySegment counts the recipients of a send segment
func (r *SubscriberRepository) CountBySegment(ctx context.Context, segment domain.Segment) (int, error) {
	query := `SELECT COUNT(*) FROM subscribers`
	switch segment {
	case domain.SegmentInactive:
		query += ` WHERE is_subscribed = FALSE`
	default:
		// "all" still excludes unsubscribed addresses; only the
		// explicit inactive segment may target them
		query += ` WHERE is_subscribed = TRUE`
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}
