package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insights-api/src/domain"
	"insights-api/src/schemas"
	"insights-api/src/service"
)

// AuthHandler handles HTTP requests for authentication and profiles
type AuthHandler struct {
	authService service.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new account. Any role supplied by the client is
// ignored; accounts always start as user.
func (h *AuthHandler) Register(c *gin.Context) {
	req, err := schemas.ParseRegister(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			c.JSON(http.StatusConflict, ErrorResponseDTO{Error: "Email already registered"})
			return
		}
		h.logger.WithError(err).Error("failed to register user")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to register"})
		return
	}

	h.logger.WithField("user_id", resp.User.ID).Info("user registered")
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	req, err := schemas.ParseLogin(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponseDTO{Error: "Invalid email or password"})
		case errors.Is(err, service.ErrAccountDeactivated):
			c.JSON(http.StatusForbidden, ErrorResponseDTO{Error: "Account is deactivated"})
		default:
			h.logger.WithError(err).Error("failed to login")
			c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to login"})
		}
		return
	}

	h.logger.WithField("user_id", resp.User.ID).Info("user logged in")
	c.JSON(http.StatusOK, resp)
}

// RefreshToken exchanges a refresh token for a new token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "refresh_token is required"})
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponseDTO{Error: "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestPasswordReset issues a reset token for an account.
// The response is identical whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	req, err := schemas.ParsePasswordResetRequest(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	if _, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.logger.WithError(err).Error("failed to create password reset token")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
}

// ResetPassword applies a new password using a reset token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	req, err := schemas.ParsePasswordReset(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			c.JSON(http.StatusUnauthorized, ErrorResponseDTO{Error: "Invalid or expired reset token"})
			return
		}
		h.logger.WithError(err).Error("failed to reset password")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponseDTO{Error: "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, user.ToPublic())
}

// UpdateProfile applies a partial update to the authenticated user's profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponseDTO{Error: "Authentication required"})
		return
	}

	req, err := schemas.ParseUpdateProfile(c.Request.Body)
	if err != nil {
		if body, ok := validationErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{Error: "Invalid request format"})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, service.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponseDTO{Error: "User not found"})
			return
		}
		h.logger.WithError(err).WithField("user_id", userID).Error("failed to update profile")
		c.JSON(http.StatusInternalServerError, ErrorResponseDTO{Error: "Failed to update profile"})
		return
	}

	h.logger.WithField("user_id", userID).Info("profile updated")
	c.JSON(http.StatusOK, user.ToPublic())
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
