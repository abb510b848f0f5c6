package schemas

import (
	"io"
	"strings"

	"insights-api/src/domain"
)

// RegisterRequest is the accepted body for POST /api/auth/register.
// Unknown keys are rejected on this schema.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,min=5,max=255,email"`
	Password  string `json:"password" validate:"required,min=8,max=128,password_strength"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin editor"`
}

// LoginRequest is the accepted body for POST /api/auth/login.
// The password is only checked for presence: accounts created under older
// complexity rules must still be able to log in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest asks for a reset email
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,min=5,max=255,email"`
}

// PasswordResetConfirm performs a reset; the new password carries the full
// complexity rules.
type PasswordResetConfirm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
}

// UpdateProfileRequest is the accepted body for PUT /api/auth/profile
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitnil,min=1,max=100"`
	Bio       *string `json:"bio" validate:"omitnil,max=500"`
}

// ParseRegister validates a registration body. The role defaults to user
// when omitted.
func ParseRegister(r io.Reader) (*RegisterRequest, error) {
	var req RegisterRequest
	if verr := decodeJSON(r, &req, true); verr != nil {
		return nil, verr
	}

	req.Email = NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Role == "" {
		req.Role = domain.RoleUser.String()
	}

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseLogin validates a login body
func ParseLogin(r io.Reader) (*LoginRequest, error) {
	var req LoginRequest
	if verr := decodeJSON(r, &req, true); verr != nil {
		return nil, verr
	}

	req.Email = NormalizeEmail(req.Email)

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParsePasswordResetRequest validates a reset-request body
func ParsePasswordResetRequest(r io.Reader) (*PasswordResetRequest, error) {
	var req PasswordResetRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	req.Email = NormalizeEmail(req.Email)

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParsePasswordReset validates a reset-confirmation body
func ParsePasswordReset(r io.Reader) (*PasswordResetConfirm, error) {
	var req PasswordResetConfirm
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseUpdateProfile validates a profile patch
func ParseUpdateProfile(r io.Reader) (*UpdateProfileRequest, error) {
	var req UpdateProfileRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	trimPtr(req.FirstName)
	trimPtr(req.LastName)

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}
