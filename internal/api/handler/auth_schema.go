package handler

import "github.com/aitools/platform-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Email     string `json:"email"      form:"email"      validate:"required,email"`
	Password  string `json:"password"   form:"password"   validate:"required"`
	TokenName string `json:"token_name" form:"token_name" validate:"omitempty,max=64"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner pm frontend backend designer qa user"`
}

// --- Response types ---

type loginResponse struct {
	User      domain.UserView `json:"user"`
	Token     string          `json:"token,omitempty"`
	CSRFToken string          `json:"csrf_token,omitempty"`
	Message   string          `json:"message"`
}

type userResponse struct {
	User domain.UserView `json:"user"`
}

type logoutResponse struct {
	Message   string `json:"message"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type roleResponse struct {
	Role        domain.Role     `json:"role"`
	DisplayName string          `json:"display_name"`
	Color       string          `json:"color"`
	Actions     []domain.Action `json:"actions"`
}
