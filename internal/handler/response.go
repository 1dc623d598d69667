package handler

import (
	"globetrotter/internal/model"
)

// MessageResponse acknowledges an operation without returning data.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	User    model.UserSummary `json:"user"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	User         model.LoginProfile `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token,omitempty"`
}

// UserResponse wraps a user profile.
type UserResponse struct {
	Success bool          `json:"success"`
	User    model.Profile `json:"user"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
}
