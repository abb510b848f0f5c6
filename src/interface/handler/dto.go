package handler

import (
	"time"

	"insights-api/src/domain"
	"insights-api/src/schemas"
)

// ArticleResponseDTO represents HTTP response for an article
type ArticleResponseDTO struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	AuthorID      *string    `json:"author_id,omitempty"`
	Status        string     `json:"status"`
	Views         int        `json:"views"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ArticleListResponseDTO represents HTTP response for an article page
type ArticleListResponseDTO struct {
	Articles   []ArticleResponseDTO `json:"articles"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// SubscriberResponseDTO represents HTTP response for a subscriber
type SubscriberResponseDTO struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	FirstName  string   `json:"first_name,omitempty"`
	LastName   string   `json:"last_name,omitempty"`
	Frequency  string   `json:"frequency"`
	Categories []string `json:"categories"`
	Subscribed bool     `json:"subscribed"`
}

// UploadResponseDTO represents HTTP response for a media upload
type UploadResponseDTO struct {
	URL string `json:"url"`
}

// ErrorResponseDTO represents HTTP error response. Details is populated
// only for validation failures and lists every failed field.
type ErrorResponseDTO struct {
	Error   string               `json:"error"`
	Message string               `json:"message,omitempty"`
	Details []schemas.FieldError `json:"details,omitempty"`
}

func toArticleResponseDTO(article *domain.Article) ArticleResponseDTO {
	dto := ArticleResponseDTO{
		ID:            article.ID.String(),
		Title:         article.Title,
		Content:       article.Content,
		Excerpt:       article.Excerpt,
		Category:      article.Category,
		Tags:          article.Tags,
		FeaturedImage: article.FeaturedImage,
		Status:        string(article.Status),
		Views:         article.Views,
		PublishedAt:   article.PublishedAt,
		CreatedAt:     article.CreatedAt,
		UpdatedAt:     article.UpdatedAt,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if article.AuthorID != nil {
		id := article.AuthorID.String()
		dto.AuthorID = &id
	}
	return dto
}

func toSubscriberResponseDTO(sub *domain.Subscriber) SubscriberResponseDTO {
	dto := SubscriberResponseDTO{
		ID:         sub.ID.String(),
		Email:      sub.Email,
		FirstName:  sub.FirstName,
		LastName:   sub.LastName,
		Frequency:  string(sub.Frequency),
		Categories: sub.Categories,
		Subscribed: sub.IsSubscribed,
	}
	if dto.Categories == nil {
		dto.Categories = []string{}
	}
	return dto
}

// validationErrorResponse turns accumulated field errors into a 400 body.
// ok is false when err is not a validation failure.
func validationErrorResponse(err error) (ErrorResponseDTO, bool) {
	verr, ok := schemas.AsValidationErrors(err)
	if !ok {
		return ErrorResponseDTO{}, false
	}
	return ErrorResponseDTO{
		Error:   "Validation Error",
		Details: verr.Errors,
	}, true
}
