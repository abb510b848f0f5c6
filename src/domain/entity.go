package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article represents an editorial article entity
type Article struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	Category      string        `json:"category"`
	Tags          []string      `json:"tags"`
	FeaturedImage string        `json:"featured_image"`
	AuthorID      *uuid.UUID    `json:"author_id"`
	Status        ArticleStatus `json:"status"`
	Views         int           `json:"views"`
	PublishedAt   *time.Time    `json:"published_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ArticleStatus represents the publication state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// SortField represents a sortable article column
type SortField string

const (
	SortCreatedAt   SortField = "created_at"
	SortPublishedAt SortField = "published_at"
	SortTitle       SortField = "title"
	SortViews       SortField = "views"
)

// SortOrder represents sort direction
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ArticleFilter represents filter criteria for article queries
type ArticleFilter struct {
	Category string
	Tag      string
	Search   string
	Status   ArticleStatus
	AuthorID *uuid.UUID
	Sort     SortField
	Order    SortOrder
	Page     int
	Limit    int
}

// IsValid validates if the status is valid
func (s ArticleStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// IsValid validates if the sort field is valid
func (f SortField) IsValid() bool {
	switch f {
	case SortCreatedAt, SortPublishedAt, SortTitle, SortViews:
		return true
	default:
		return false
	}
}

// IsValid validates if the sort order is valid
func (o SortOrder) IsValid() bool {
	return o == OrderAsc || o == OrderDesc
}

// String returns string representation of ArticleStatus
func (s ArticleStatus) String() string {
	return string(s)
}

// String returns string representation of SortField
func (f SortField) String() string {
	return string(f)
}

// String returns string representation of SortOrder
func (o SortOrder) String() string {
	return string(o)
}
