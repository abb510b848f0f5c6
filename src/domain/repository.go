package domain

import (
	"context"

	"github.com/google/uuid"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) (*Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]Article, int, error)
	Update(ctx context.Context, id uuid.UUID, article *Article) (*Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Archive(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByResetToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	IsEmailExists(ctx context.Context, email string) (bool, error)
}

// SubscriberRepository defines the interface for newsletter subscriber data operations
type SubscriberRepository interface {
	Upsert(ctx context.Context, sub *Subscriber) (*Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	CountBySegment(ctx context.Context, segment Segment) (int, error)
}

// TemplateRepository defines the interface for newsletter template data operations
type TemplateRepository interface {
	Create(ctx context.Context, tpl *NewsletterTemplate) (*NewsletterTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*NewsletterTemplate, error)
	List(ctx context.Context) ([]NewsletterTemplate, error)
	Update(ctx context.Context, id uuid.UUID, tpl *NewsletterTemplate) (*NewsletterTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordSend(ctx context.Context, send *NewsletterSend) (*NewsletterSend, error)
}
