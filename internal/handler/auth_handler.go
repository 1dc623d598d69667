package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "globetrotter/internal/errors"
	"globetrotter/internal/service"
)

// AuthHandler handles registration and authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request. Username may also be the email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh or logout request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param phone formData string false "Phone"
// @Param city formData string false "City"
// @Param country formData string false "Country"
// @Param additionalInfo formData string false "Additional info"
// @Param photo formData file false "Profile photo (png, jpg, jpeg, gif)"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	in := service.RegisterInput{
		FirstName:      c.FormValue("firstName"),
		LastName:       c.FormValue("lastName"),
		Email:          c.FormValue("email"),
		Phone:          c.FormValue("phone"),
		City:           c.FormValue("city"),
		Country:        c.FormValue("country"),
		AdditionalInfo: c.FormValue("additionalInfo"),
	}

	// a missing or unreadable attachment registers the user without a photo
	if fh, err := c.FormFile("photo"); err == nil && fh.Filename != "" {
		src, err := fh.Open()
		if err != nil {
			return apperrors.Internal("Registration failed", err)
		}
		defer src.Close()
		in.Photo = &service.Photo{Filename: fh.Filename, Content: src}
	}

	user, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Success: true,
		Message: "Registration successful! Please login with your email and the default password",
		User:    user.Summary(),
	})
}

// Login godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("Username and password are required")
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Message:      "Login successful",
		User:         session.User.LoginProfile(),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	req, err := bindRefresh(c)
	if err != nil {
		return err
	}

	accessToken, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TokenResponse{Success: true, AccessToken: accessToken})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	req, err := bindRefresh(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Logged out successfully"})
}

func bindRefresh(c echo.Context) (*RefreshRequest, error) {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return nil, apperrors.Validation("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, apperrors.Validation("refresh_token is required")
	}
	return &req, nil
}
