package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insights-api/src/domain"
	"insights-api/src/interface/handler"
	"insights-api/src/service"
)

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch service.ProfilePatch) (*domain.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResponse), args.Error(1)
}

func authRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewAuthHandler(svc, logrus.New())

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func registerResponse() *service.AuthResponse {
	return &service.AuthResponse{
		User:        &domain.PublicUser{ID: uuid.New(), Email: "new@example.com", Role: domain.RoleUser},
		AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("valid registration returns 201", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
			Return(registerResponse(), nil)

		body := `{"email": "new@example.com", "password": "Str0ngPass",
			"first_name": "A", "last_name": "B"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		authRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("client-supplied role never reaches the service", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
			Return(registerResponse(), nil)

		body := `{"email": "new@example.com", "password": "Str0ngPass",
			"first_name": "A", "last_name": "B", "role": "admin"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		authRouter(mockSvc).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		// RegisterInput carries no role field at all; the account is
		// created as a regular user regardless of the request body
		input := mockSvc.Calls[0].Arguments.Get(1).(service.RegisterInput)
		assert.Equal(t, "new@example.com", input.Email)
	})

	t.Run("unknown body keys are rejected", func(t *testing.T) {
		mockSvc := new(MockAuthService)

		body := `{"email": "new@example.com", "password": "Str0ngPass",
			"first_name": "A", "last_name": "B", "is_admin": true}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		authRouter(mockSvc).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp errorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "is_admin", resp.Details[0].Field)
		assert.Equal(t, "unknown_field", resp.Details[0].Code)

		mockSvc.AssertNotCalled(t, "Register")
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
			Return(nil, service.ErrEmailExists)

		body := `{"email": "taken@example.com", "password": "Str0ngPass",
			"first_name": "A", "last_name": "B"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		authRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("email is normalized before the service sees it", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "reader@example.com", "legacy").
			Return(registerResponse(), nil)

		body := `{"email": " Reader@Example.COM ", "password": "legacy"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		authRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "reader@example.com", "wrong").
			Return(nil, service.ErrInvalidCredentials)

		body := `{"email": "reader@example.com", "password": "wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		authRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
