package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"globetrotter/internal/auth"
	apperrors "globetrotter/internal/errors"
	"globetrotter/internal/model"
	"globetrotter/internal/repository"
	"globetrotter/internal/upload"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when the login or password is incorrect.
	ErrInvalidCredentials = apperrors.Auth("Invalid username or password")
	// ErrMissingRegistrationFields is returned when a required field is empty.
	ErrMissingRegistrationFields = apperrors.Validation("First name, last name, and email are required")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = apperrors.Conflict("Email already registered")
	// ErrUsernameTaken is returned when the derived username already exists.
	ErrUsernameTaken = apperrors.Conflict("Username already taken")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = apperrors.Auth("Invalid or expired refresh token")
)

// Photo is an uploaded profile picture.
type Photo struct {
	Filename string
	Content  io.Reader
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	City           string
	Country        string
	AdditionalInfo string
	Photo          *Photo
}

// Session is the result of a successful login.
type Session struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, login, password string) (*Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo        repository.UserRepository
	photos          upload.PhotoStore
	jwtService      *auth.JWTService
	tokenStore      auth.TokenStoreInterface
	defaultPassword string
	now             func() time.Time
}

// NewAuthService creates a new authentication service. New accounts get
// defaultPassword until the user changes it.
func NewAuthService(
	userRepo repository.UserRepository,
	photos upload.PhotoStore,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	defaultPassword string,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		photos:          photos,
		jwtService:      jwtService,
		tokenStore:      tokenStore,
		defaultPassword: defaultPassword,
		now:             time.Now,
	}
}

// UsernameFromEmail returns the part of email before the first "@".
func UsernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// Register creates a new user with the default password. An accepted photo
// is stored first and removed again if the insert fails.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return nil, ErrMissingRegistrationFields
	}
	username := UsernameFromEmail(in.Email)

	if err := s.ensureAvailable(ctx, in.Email, username); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Registration failed", fmt.Errorf("hash password: %w", err))
	}

	now := s.now()
	user := &model.User{
		Username:       username,
		Email:          in.Email,
		PasswordHash:   string(hashedPassword),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          &in.Phone,
		City:           &in.City,
		Country:        &in.Country,
		AdditionalInfo: &in.AdditionalInfo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if in.Photo != nil {
		if ext, ok := upload.Extension(in.Photo.Filename); ok {
			photoPath, err := s.photos.Save(ctx, upload.PhotoName(username, now, ext), in.Photo.Content)
			if err != nil {
				return nil, apperrors.Internal("Registration failed", err)
			}
			user.PhotoPath = &photoPath
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if user.PhotoPath != nil {
			_ = s.photos.Remove(ctx, *user.PhotoPath)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicateError(ctx, in.Email)
		}
		return nil, apperrors.Internal("Registration failed", fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// duplicateError resolves which unique column a concurrent insert lost on.
func (s *authService) duplicateError(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

func (s *authService) ensureAvailable(ctx context.Context, email, username string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal("Registration failed", fmt.Errorf("check email: %w", err))
	}

	existing, err = s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal("Registration failed", fmt.Errorf("check username: %w", err))
	}
	return nil
}

// Login authenticates by username or email and issues access and refresh tokens.
func (s *authService) Login(ctx context.Context, login, password string) (*Session, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Internal("Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.Internal("Login failed", fmt.Errorf("generate access token: %w", err))
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.Internal("Login failed", fmt.Errorf("generate refresh token: %w", err))
	}

	// A refresh token that cannot be stored could never be redeemed.
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Username, auth.RefreshTokenExpiry); err != nil {
		refreshToken = ""
	}

	return &Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedUsername, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedUsername != claims.Username {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return "", apperrors.Internal("Refresh failed", fmt.Errorf("generate access token: %w", err))
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, tokenID); err != nil {
		return apperrors.Internal("Logout failed", err)
	}
	return nil
}
