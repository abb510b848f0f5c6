package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"insights-api/src/domain"
)

var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrEmptySend          = errors.New("custom segment requires at least one email")
)

// SubscribeInput represents input for a newsletter subscription
type SubscribeInput struct {
	Email      string
	FirstName  string
	LastName   string
	Frequency  domain.Frequency
	Categories []string
}

// TemplateInput represents input for creating a newsletter template
type TemplateInput struct {
	Name     string
	Subject  string
	Preview  string
	Content  string
	Category domain.TemplateCategory
}

// TemplatePatch represents a partial template update
type TemplatePatch struct {
	Name     *string
	Subject  *string
	Preview  *string
	Content  *string
	Category *domain.TemplateCategory
}

// SendInput represents input for dispatching a newsletter
type SendInput struct {
	TemplateID   uuid.UUID
	Subject      string
	Segment      domain.Segment
	CustomEmails []string
}

// NewsletterUsecase defines the interface for newsletter business logic
type NewsletterUsecase interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	CreateTemplate(ctx context.Context, input TemplateInput) (*domain.NewsletterTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*domain.NewsletterTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.NewsletterTemplate, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, patch TemplatePatch) (*domain.NewsletterTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	Send(ctx context.Context, input SendInput) (*domain.NewsletterSend, error)
}

type newsletterUsecase struct {
	subscriberRepo domain.SubscriberRepository
	templateRepo   domain.TemplateRepository
}

// NewNewsletterUsecase creates a new newsletter usecase
func NewNewsletterUsecase(subscriberRepo domain.SubscriberRepository, templateRepo domain.TemplateRepository) NewsletterUsecase {
	return &newsletterUsecase{
		subscriberRepo: subscriberRepo,
		templateRepo:   templateRepo,
	}
}

// Subscribe creates or re-activates a subscription for the email
func (u *newsletterUsecase) Subscribe(ctx context.Context, input SubscribeInput) (*domain.Subscriber, error) {
	frequency := input.Frequency
	if frequency == "" {
		frequency = domain.FrequencyWeekly
	}

	now := time.Now()
	sub := &domain.Subscriber{
		ID:           uuid.New(),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Frequency:    frequency,
		Categories:   input.Categories,
		IsSubscribed: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return u.subscriberRepo.Upsert(ctx, sub)
}

// Unsubscribe deactivates a subscription
func (u *newsletterUsecase) Unsubscribe(ctx context.Context, email string) error {
	return u.subscriberRepo.Unsubscribe(ctx, email)
}

// CreateTemplate creates a newsletter template
func (u *newsletterUsecase) CreateTemplate(ctx context.Context, input TemplateInput) (*domain.NewsletterTemplate, error) {
	category := input.Category
	if category == "" {
		category = domain.TemplateCustom
	}

	now := time.Now()
	tpl := &domain.NewsletterTemplate{
		ID:        uuid.New(),
		Name:      input.Name,
		Subject:   input.Subject,
		Preview:   input.Preview,
		Content:   input.Content,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return u.templateRepo.Create(ctx, tpl)
}

// GetTemplate retrieves a template by ID
func (u *newsletterUsecase) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.NewsletterTemplate, error) {
	return u.templateRepo.GetByID(ctx, id)
}

// ListTemplates retrieves all templates
func (u *newsletterUsecase) ListTemplates(ctx context.Context) ([]domain.NewsletterTemplate, error) {
	return u.templateRepo.List(ctx)
}

// UpdateTemplate applies a partial patch to a template. Category is never
// defaulted on update.
func (u *newsletterUsecase) UpdateTemplate(ctx context.Context, id uuid.UUID, patch TemplatePatch) (*domain.NewsletterTemplate, error) {
	existing, err := u.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing

	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Subject != nil {
		updated.Subject = *patch.Subject
	}
	if patch.Preview != nil {
		updated.Preview = *patch.Preview
	}
	if patch.Content != nil {
		updated.Content = *patch.Content
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}

	updated.UpdatedAt = time.Now()

	return u.templateRepo.Update(ctx, id, &updated)
}

// DeleteTemplate deletes a template
func (u *newsletterUsecase) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return u.templateRepo.Delete(ctx, id)
}

// Send resolves the template, sizes the target segment, and records the
// dispatch. Delivery itself is handled downstream off this record.
func (u *newsletterUsecase) Send(ctx context.Context, input SendInput) (*domain.NewsletterSend, error) {
	tpl, err := u.templateRepo.GetByID(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}

	segment := input.Segment
	if segment == "" {
		segment = domain.SegmentAll
	}

	subject := input.Subject
	if subject == "" {
		subject = tpl.Subject
	}

	var recipients int
	if segment == domain.SegmentCustom {
		if len(input.CustomEmails) == 0 {
			return nil, ErrEmptySend
		}
		recipients = len(input.CustomEmails)
	} else {
		recipients, err = u.subscriberRepo.CountBySegment(ctx, segment)
		if err != nil {
			return nil, err
		}
	}

	send := &domain.NewsletterSend{
		ID:             uuid.New(),
		TemplateID:     tpl.ID,
		Subject:        subject,
		Segment:        segment,
		RecipientCount: recipients,
		CreatedAt:      time.Now(),
	}

	return u.templateRepo.RecordSend(ctx, send)
}
