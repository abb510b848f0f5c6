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

// NewsletterHandler handles HTTP requests for subscriptions, templates
// and newsletter dispatch
type NewsletterHandler struct {
	newsletterUsecase usecase.NewsletterUsecase
	logger            *logrus.Logger
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterUsecase usecase.NewsletterUsecase, logger *logrus.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterUsecase: newsletterUsecase,
		logger:            logger,
	}
}

// Subscribe adds or reactivates a newsletter subscriber
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	req, err := schemas.ParseSubscribe(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	input := usecase.SubscribeInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Preferences != nil {
		input.Frequency = domain.Frequency(req.Preferences.Frequency)
		input.Categories = req.Preferences.Categories
	}

	sub, err := h.newsletterUsecase.Subscribe(c.Request.Context(), input)
	if err != nil {
		h.logger.WithError(err).Error("failed to subscribe")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to subscribe"})
		return
	}

	h.logger.WithField("subscriber_id", sub.ID).Info("newsletter subscription")
	c.JSON(http.StatusCreated, toSubscriberResponseDTO(sub))
}

// Unsubscribe deactivates a subscription
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	req, err := schemas.ParseUnsubscribe(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	if err := h.newsletterUsecase.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrSubscriberNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Subscriber not found"})
			return
		}
		h.logger.WithError(err).Error("failed to unsubscribe")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
}

// CreateTemplate creates a newsletter template
func (h *NewsletterHandler) CreateTemplate(c *gin.Context) {
	req, err := schemas.ParseCreateTemplate(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	template, err := h.newsletterUsecase.CreateTemplate(c.Request.Context(), usecase.TemplateInput{
		Name:     req.Name,
		Subject:  req.Subject,
		Preview:  req.Preview,
		Content:  req.Content,
		Category: domain.TemplateCategory(req.Category),
	})
	if err != nil {
		h.logger.WithError(err).Error("failed to create template")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to create template"})
		return
	}

	h.logger.WithField("template_id", template.ID).Info("template created")
	c.JSON(http.StatusCreated, template)
}

// GetTemplate retrieves a template by ID
func (h *NewsletterHandler) GetTemplate(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	template, err := h.newsletterUsecase.GetTemplate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Template not found"})
			return
		}
		h.logger.WithError(err).WithField("template_id", id).Error("failed to get template")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to get template"})
		return
	}

	c.JSON(http.StatusOK, template)
}

// ListTemplates retrieves all templates
func (h *NewsletterHandler) ListTemplates(c *gin.Context) {
	templates, err := h.newsletterUsecase.ListTemplates(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list templates")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates, "total": len(templates)})
}

// UpdateTemplate applies a partial update to a template
func (h *NewsletterHandler) UpdateTemplate(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	req, err := schemas.ParseUpdateTemplate(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	patch := usecase.TemplatePatch{
		Name:    req.Name,
		Subject: req.Subject,
		Preview: req.Preview,
		Content: req.Content,
	}
	if req.Category != nil {
		category := domain.TemplateCategory(*req.Category)
		patch.Category = &category
	}

	template, err := h.newsletterUsecase.UpdateTemplate(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, usecase.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Template not found"})
			return
		}
		h.logger.WithError(err).WithField("template_id", id).Error("failed to update template")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to update template"})
		return
	}

	h.logger.WithField("template_id", id).Info("template updated")
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template
func (h *NewsletterHandler) DeleteTemplate(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	if err := h.newsletterUsecase.DeleteTemplate(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Template not found"})
			return
		}
		h.logger.WithError(err).WithField("template_id", id).Error("failed to delete template")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to delete template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// SendNewsletter dispatches a newsletter to a subscriber segment
func (h *NewsletterHandler) SendNewsletter(c *gin.Context) {
	req, err := schemas.ParseSendNewsletter(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	templateID, _ := uuid.Parse(req.TemplateID)

	send, err := h.newsletterUsecase.Send(c.Request.Context(), usecase.SendInput{
		TemplateID:   templateID,
		Subject:      req.Subject,
		Segment:      domain.Segment(req.Segment),
		CustomEmails: req.CustomEmails,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTemplateNotFound):
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "Template not found"})
		case errors.Is(err, usecase.ErrEmptySend):
			c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "No recipients for this send"})
		default:
			h.logger.WithError(err).Error("failed to send newsletter")
			c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to send newsletter"})
		}
		return
	}

	h.logger.WithFields(logrus.Fields{
		"send_id":    send.ID,
		"recipients": send.RecipientCount,
	}).Info("newsletter sent")
	c.JSON(http.StatusOK, send)
}

func (h *NewsletterHandler) templateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error: "Validation Error",
			Details: []schemas.FieldError{{
				Field:   "id",
				Code:    schemas.CodeInvalidFormat,
				Message: "id must be a valid UUID",
			}},
		})
		return uuid.Nil, false
	}
	return id, true
}
