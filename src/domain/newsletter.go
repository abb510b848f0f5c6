package domain

import (
	"time"

	"github.com/google/uuid"
)

// Frequency represents how often a subscriber wants the newsletter
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// IsValid validates if the frequency is valid
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// String returns string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// TemplateCategory represents the kind of a newsletter template
type TemplateCategory string

const (
	TemplateCustom  TemplateCategory = "custom"
	TemplateWeekly  TemplateCategory = "weekly"
	TemplateMonthly TemplateCategory = "monthly"
	TemplateSpecial TemplateCategory = "special"
)

// IsValid validates if the template category is valid
func (c TemplateCategory) IsValid() bool {
	switch c {
	case TemplateCustom, TemplateWeekly, TemplateMonthly, TemplateSpecial:
		return true
	default:
		return false
	}
}

// String returns string representation of TemplateCategory
func (c TemplateCategory) String() string {
	return string(c)
}

// Segment represents the audience of a newsletter send
type Segment string

const (
	SegmentAll      Segment = "all"
	SegmentActive   Segment = "active"
	SegmentInactive Segment = "inactive"
	SegmentCustom   Segment = "custom"
)

// IsValid validates if the segment is valid
func (s Segment) IsValid() bool {
	switch s {
	case SegmentAll, SegmentActive, SegmentInactive, SegmentCustom:
		return true
	default:
		return false
	}
}

// String returns string representation of Segment
func (s Segment) String() string {
	return string(s)
}

// Subscriber represents a newsletter subscriber
type Subscriber struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Frequency    Frequency `json:"frequency"`
	Categories   []string  `json:"categories"`
	IsSubscribed bool      `json:"is_subscribed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewsletterTemplate represents a reusable newsletter layout
type NewsletterTemplate struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Subject   string           `json:"subject"`
	Preview   string           `json:"preview"`
	Content   string           `json:"content"`
	Category  TemplateCategory `json:"category"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewsletterSend records one dispatched newsletter
type NewsletterSend struct {
	ID             uuid.UUID `json:"id"`
	TemplateID     uuid.UUID `json:"template_id"`
	Subject        string    `json:"subject"`
	Segment        Segment   `json:"segment"`
	RecipientCount int       `json:"recipient_count"`
	CreatedAt      time.Time `json:"created_at"`
}
