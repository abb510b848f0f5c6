package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insights-api/src/domain"
	"insights-api/src/schemas"
	"insights-api/src/usecase"
)

// ArticleHandler handles HTTP requests for article operations
type ArticleHandler struct {
	articleUsecase usecase.ArticleUsecase
	logger         *logrus.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleUsecase usecase.ArticleUsecase, logger *logrus.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleUsecase: articleUsecase,
		logger:         logger,
	}
}

// CreateArticle creates a new article
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	req, err := schemas.ParseCreateArticle(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	input := usecase.CreateArticleInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Status:        domain.ArticleStatus(req.Status),
		PublishedAt:   req.PublishedTime(),
	}
	if req.AuthorID != "" {
		if id, parseErr := uuid.Parse(req.AuthorID); parseErr == nil {
			input.AuthorID = &id
		}
	} else if user, exists := c.Get("user"); exists {
		// default to the authenticated author
		if u, ok := user.(*domain.User); ok {
			id := u.ID
			input.AuthorID = &id
		}
	}

	article, err := h.articleUsecase.CreateArticle(c.Request.Context(), input)
	if err != nil {
		h.logger.WithError(err).Error("failed to create article")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to create article"})
		return
	}

	h.logger.WithField("article_id", article.ID).Info("article created")
	c.JSON(http.StatusCreated, toArticleResponseDTO(article))
}

// GetArticle retrieves a single article by ID
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := schemas.ParseArticleID(c.Param("id"))
	if err != nil {
		body, _ := validationErrorResponse(err)
		c.JSON(http.StatusBadRequest, body)
		return
	}

	article, err := h.articleUsecase.GetArticle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Article not found"})
			return
		}
		h.logger.WithError(err).WithField("article_id", id).Error("failed to get article")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to get article"})
		return
	}

	c.JSON(http.StatusOK, toArticleResponseDTO(article))
}

// ListArticles retrieves articles with filtering and pagination
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	query, err := schemas.ParseQueryArticles(c.Request.URL.Query())
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid query parameters"})
		return
	}

	articles, total, err := h.articleUsecase.ListArticles(c.Request.Context(), query.Filter())
	if err != nil {
		h.logger.WithError(err).Error("failed to list articles")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to list articles"})
		return
	}

	items := make([]ArticleResponseDTO, len(articles))
	for i := range articles {
		items[i] = toArticleResponseDTO(&articles[i])
	}

	totalPages := (total + query.Limit - 1) / query.Limit

	c.JSON(http.StatusOK, ArticleListResponseDTO{
		Articles:   items,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	})
}

// UpdateArticle applies a partial update to an article
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, err := schemas.ParseArticleID(c.Param("id"))
	if err != nil {
		body, _ := validationErrorResponse(err)
		c.JSON(http.StatusBadRequest, body)
		return
	}

	req, err := schemas.ParseUpdateArticle(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	input := usecase.UpdateArticleInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		PublishedAt:   req.PublishedTime(),
	}
	if req.Status != nil {
		status := domain.ArticleStatus(*req.Status)
		input.Status = &status
	}
	if req.AuthorID != nil {
		if authorID, parseErr := uuid.Parse(*req.AuthorID); parseErr == nil {
			input.AuthorID = &authorID
		}
	}

	article, err := h.articleUsecase.UpdateArticle(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, usecase.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Article not found"})
			return
		}
		h.logger.WithError(err).WithField("article_id", id).Error("failed to update article")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to update article"})
		return
	}

	h.logger.WithField("article_id", article.ID).Info("article updated")
	c.JSON(http.StatusOK, toArticleResponseDTO(article))
}

// DeleteArticle removes an article
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, err := schemas.ParseArticleID(c.Param("id"))
	if err != nil {
		body, _ := validationErrorResponse(err)
		c.JSON(http.StatusBadRequest, body)
		return
	}

	if err := h.articleUsecase.DeleteArticle(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Article not found"})
			return
		}
		h.logger.WithError(err).WithField("article_id", id).Error("failed to delete article")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to delete article"})
		return
	}

	h.logger.WithField("article_id", id).Info("article deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

// ArchiveArticle marks an article as archived
func (h *ArticleHandler) ArchiveArticle(c *gin.Context) {
	id, err := schemas.ParseArticleID(c.Param("id"))
	if err != nil {
		body, _ := validationErrorResponse(err)
		c.JSON(http.StatusBadRequest, body)
		return
	}

	if err := h.articleUsecase.ArchiveArticle(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Article not found"})
			return
		}
		h.logger.WithError(err).WithField("article_id", id).Error("failed to archive article")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to archive article"})
		return
	}

	h.logger.WithField("article_id", id).Info("article archived")
	c.JSON(http.StatusOK, gin.H{"message": "Article archived successfully"})
}
