package schemas

import (
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"insights-api/src/domain"
)

// CreateArticleRequest is the accepted body for POST /api/articles
type CreateArticleRequest struct {
	Title         string   `json:"title" validate:"required,max=300"`
	Content       string   `json:"content" validate:"required"`
	Excerpt       string   `json:"excerpt" validate:"omitempty,max=500"`
	Category      string   `json:"category" validate:"required,min=2,max=50"`
	Tags          []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	FeaturedImage string   `json:"featured_image" validate:"omitempty,url,max=2048"`
	AuthorID      string   `json:"author_id" validate:"omitempty,uuid"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	PublishedAt   string   `json:"published_at" validate:"omitempty,iso8601"`
}

// UpdateArticleRequest is the accepted body for PUT /api/articles/:id.
// Every field is optional; an omitted field leaves the stored value
// untouched and no default is injected.
type UpdateArticleRequest struct {
	Title         *string  `json:"title" validate:"omitnil,min=1,max=300"`
	Content       *string  `json:"content" validate:"omitnil,min=1"`
	Excerpt       *string  `json:"excerpt" validate:"omitnil,max=500"`
	Category      *string  `json:"category" validate:"omitnil,min=2,max=50"`
	Tags          []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	FeaturedImage *string  `json:"featured_image" validate:"omitnil,url,max=2048"`
	AuthorID      *string  `json:"author_id" validate:"omitnil,uuid"`
	Status        *string  `json:"status" validate:"omitnil,oneof=draft published archived"`
	PublishedAt   *string  `json:"published_at" validate:"omitnil,iso8601"`
}

// QueryArticlesRequest is the accepted query string for GET /api/articles
type QueryArticlesRequest struct {
	Pagination
	Category string `json:"category" validate:"omitempty,min=2,max=50"`
	Tag      string `json:"tag" validate:"omitempty,min=1,max=50"`
	Search   string `json:"search" validate:"omitempty,max=200"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published archived"`
	AuthorID string `json:"author_id" validate:"omitempty,uuid"`
	Sort     string `json:"sort" validate:"omitempty,oneof=created_at published_at title views"`
	Order    string `json:"order" validate:"omitempty,oneof=asc desc"`
}

// ParseCreateArticle validates a create-article body. Status defaults to
// draft when omitted.
func ParseCreateArticle(r io.Reader) (*CreateArticleRequest, error) {
	var req CreateArticleRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Excerpt = strings.TrimSpace(req.Excerpt)
	req.Category = strings.TrimSpace(req.Category)
	req.Tags = trimAll(req.Tags)
	if req.Status == "" {
		req.Status = domain.StatusDraft.String()
	}

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseUpdateArticle validates a partial article patch
func ParseUpdateArticle(r io.Reader) (*UpdateArticleRequest, error) {
	var req UpdateArticleRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	trimPtr(req.Title)
	trimPtr(req.Excerpt)
	trimPtr(req.Category)
	req.Tags = trimAll(req.Tags)

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseQueryArticles validates list/search query parameters and applies
// the pagination and sort defaults.
func ParseQueryArticles(values url.Values) (*QueryArticlesRequest, error) {
	page, pageErr := ParsePagination(values)

	req := QueryArticlesRequest{
		Pagination: page,
		Category:   strings.TrimSpace(values.Get("category")),
		Tag:        strings.TrimSpace(values.Get("tag")),
		Search:     strings.TrimSpace(values.Get("search")),
		Status:     values.Get("status"),
		AuthorID:   values.Get("author_id"),
		Sort:       values.Get("sort"),
		Order:      values.Get("order"),
	}
	if req.Sort == "" {
		req.Sort = domain.SortCreatedAt.String()
	}
	if req.Order == "" {
		req.Order = domain.OrderDesc.String()
	}

	var fieldErrors []FieldError
	if pageErr != nil {
		if verr, ok := AsValidationErrors(pageErr); ok {
			fieldErrors = append(fieldErrors, verr.Errors...)
		}
	}
	if verr := checkStruct(&req); verr != nil {
		fieldErrors = append(fieldErrors, verr.Errors...)
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationErrors{Errors: fieldErrors}
	}
	return &req, nil
}

// ParseArticleID validates the :id path parameter. Any UUID version is
// accepted; only the shape is checked.
func ParseArticleID(param string) (uuid.UUID, error) {
	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, &ValidationErrors{Errors: []FieldError{{
			Field:   "id",
			Code:    CodeInvalidFormat,
			Message: "id must be a valid UUID",
		}}}
	}
	return id, nil
}

// Filter converts the validated query into a domain filter
func (q *QueryArticlesRequest) Filter() domain.ArticleFilter {
	filter := domain.ArticleFilter{
		Category: q.Category,
		Tag:      q.Tag,
		Search:   q.Search,
		Status:   domain.ArticleStatus(q.Status),
		Sort:     domain.SortField(q.Sort),
		Order:    domain.SortOrder(q.Order),
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.AuthorID != "" {
		if id, err := uuid.Parse(q.AuthorID); err == nil {
			filter.AuthorID = &id
		}
	}
	return filter
}

// PublishedTime returns the parsed published_at value, if any
func (r *CreateArticleRequest) PublishedTime() *time.Time {
	return parseTimePtr(r.PublishedAt)
}

// PublishedTime returns the parsed published_at value, if any
func (r *UpdateArticleRequest) PublishedTime() *time.Time {
	if r.PublishedAt == nil {
		return nil
	}
	return parseTimePtr(*r.PublishedAt)
}

func parseTimePtr(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func trimAll(items []string) []string {
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
