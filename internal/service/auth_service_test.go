package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"globetrotter/internal/auth"
	apperrors "globetrotter/internal/errors"
	"globetrotter/internal/model"
	"globetrotter/internal/repository"
)

const testDefaultPassword = "password123"

func newTestAuthService(repo *MockUserRepository, photos *MockPhotoStore, tokens *MockTokenStore) *authService {
	svc := NewAuthService(repo, photos, auth.NewJWTService("test-secret"), tokens, testDefaultPassword).(*authService)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return svc
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "alice", UsernameFromEmail("alice@example.com"))
	assert.Equal(t, "bob.s", UsernameFromEmail("bob.s@x.co"))
	assert.Equal(t, "a", UsernameFromEmail("a@b@c"))
	assert.Equal(t, "no-at-sign", UsernameFromEmail("no-at-sign"))
}

func TestAuthService_Register(t *testing.T) {
	validInput := RegisterInput{FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com", City: "Oxford"}

	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository, *MockPhotoStore)
		expectedError error
		expectedPhoto string
	}{
		{
			name:  "successful registration",
			input: validInput,
			setupMock: func(r *MockUserRepository, p *MockPhotoStore) {
				r.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrNotFound)
				r.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:          "missing last name",
			input:         RegisterInput{FirstName: "Alice", Email: "alice@example.com"},
			setupMock:     func(*MockUserRepository, *MockPhotoStore) {},
			expectedError: ErrMissingRegistrationFields,
		},
		{
			name:  "email already registered",
			input: validInput,
			setupMock: func(r *MockUserRepository, p *MockPhotoStore) {
				r.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 3}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:  "username already taken",
			input: validInput,
			setupMock: func(r *MockUserRepository, p *MockPhotoStore) {
				r.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrNotFound)
				r.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 4}, nil)
			},
			expectedError: ErrUsernameTaken,
		},
		{
			name: "accepted photo is stored",
			input: RegisterInput{FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com",
				Photo: &Photo{Filename: "Me.PNG", Content: strings.NewReader("img")}},
			setupMock: func(r *MockUserRepository, p *MockPhotoStore) {
				r.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrNotFound)
				r.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
				p.On("Save", mock.Anything, "alice_20240309140507.png", mock.Anything).
					Return("uploads/profile_photos/alice_20240309140507.png", nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedPhoto: "uploads/profile_photos/alice_20240309140507.png",
		},
		{
			name: "disallowed photo is skipped",
			input: RegisterInput{FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com",
				Photo: &Photo{Filename: "photo.exe", Content: strings.NewReader("MZ")}},
			setupMock: func(r *MockUserRepository, p *MockPhotoStore) {
				r.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrNotFound)
				r.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			photos := new(MockPhotoStore)
			tt.setupMock(repo, photos)

			user, err := newTestAuthService(repo, photos, new(MockTokenStore)).Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, UsernameFromEmail(tt.input.Email), user.Username)
				assert.NotEqual(t, testDefaultPassword, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testDefaultPassword)))
				if tt.expectedPhoto != "" {
					require.NotNil(t, user.PhotoPath)
					assert.Equal(t, tt.expectedPhoto, *user.PhotoPath)
				} else {
					assert.Nil(t, user.PhotoPath)
				}
			}

			repo.AssertExpectations(t)
			photos.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterRemovesPhotoWhenInsertFails(t *testing.T) {
	repo := new(MockUserRepository)
	photos := new(MockPhotoStore)
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrNotFound)
	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
	photos.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("uploads/alice.gif", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	photos.On("Remove", mock.Anything, "uploads/alice.gif").Return(nil)

	_, err := newTestAuthService(repo, photos, new(MockTokenStore)).Register(context.Background(), RegisterInput{
		FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com",
		Photo: &Photo{Filename: "a.gif", Content: strings.NewReader("gif")},
	})

	httpErr := apperrors.MapErrorToHTTP(err)
	assert.Equal(t, 500, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "Registration failed")
	assert.Contains(t, httpErr.Message, "disk full")
	photos.AssertExpectations(t)
}

func TestAuthService_RegisterLosingConcurrentInsertIsConflict(t *testing.T) {
	tests := []struct {
		name          string
		emailOwner    *model.User
		emailErr      error
		expectedError error
	}{
		{name: "email inserted first", emailOwner: &model.User{ID: 1, Email: "alice@example.com"}, expectedError: ErrEmailTaken},
		{name: "username inserted first", emailErr: repository.ErrNotFound, expectedError: ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			photos := new(MockPhotoStore)
			repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrNotFound).Once()
			repo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
			photos.On("Save", mock.Anything, mock.Anything, mock.Anything).Return("uploads/alice.png", nil)
			repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
			photos.On("Remove", mock.Anything, "uploads/alice.png").Return(nil)
			repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(tt.emailOwner, tt.emailErr).Once()

			user, err := newTestAuthService(repo, photos, new(MockTokenStore)).Register(context.Background(), RegisterInput{
				FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com",
				Photo: &Photo{Filename: "a.png", Content: strings.NewReader("png")},
			})

			assert.Nil(t, user)
			assert.Equal(t, tt.expectedError, err)
			assert.Equal(t, 400, apperrors.MapErrorToHTTP(err).StatusCode)
			repo.AssertExpectations(t)
			photos.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testDefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 9, Username: "alice", Email: "alice@example.com", PasswordHash: string(hash)}

	tests := []struct {
		name          string
		login         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "login by username",
			login:    "alice",
			password: testDefaultPassword,
			setupMock: func(r *MockUserRepository, tk *MockTokenStore) {
				r.On("FindByLogin", mock.Anything, "alice").Return(stored, nil)
				tk.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(9), "alice", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "login by email",
			login:    "alice@example.com",
			password: testDefaultPassword,
			setupMock: func(r *MockUserRepository, tk *MockTokenStore) {
				r.On("FindByLogin", mock.Anything, "alice@example.com").Return(stored, nil)
				tk.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(9), "alice", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "wrong password",
			login:    "alice",
			password: "nope",
			setupMock: func(r *MockUserRepository, tk *MockTokenStore) {
				r.On("FindByLogin", mock.Anything, "alice").Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			login:    "ghost",
			password: testDefaultPassword,
			setupMock: func(r *MockUserRepository, tk *MockTokenStore) {
				r.On("FindByLogin", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tokens := new(MockTokenStore)
			tt.setupMock(repo, tokens)

			session, err := newTestAuthService(repo, new(MockPhotoStore), tokens).Login(context.Background(), tt.login, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(9), session.User.ID)
				assert.NotEmpty(t, session.AccessToken)
				assert.NotEmpty(t, session.RefreshToken)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginWithoutTokenStoreOmitsRefreshToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testDefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)
	repo := new(MockUserRepository)
	repo.On("FindByLogin", mock.Anything, "alice").Return(&model.User{ID: 9, Username: "alice", PasswordHash: string(hash)}, nil)
	tokens := new(MockTokenStore)
	tokens.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(9), "alice", auth.RefreshTokenExpiry).Return(auth.ErrTokenStoreUnavailable)

	session, err := newTestAuthService(repo, new(MockPhotoStore), tokens).Login(context.Background(), "alice", testDefaultPassword)

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Empty(t, session.RefreshToken)
	tokens.AssertExpectations(t)
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(9, "alice")
	require.NoError(t, err)

	t.Run("stored token yields new access token", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(9), "alice", nil)

		svc := newTestAuthService(new(MockUserRepository), new(MockPhotoStore), tokens)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(9), claims.UserID)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", auth.ErrTokenNotFound)

		svc := newTestAuthService(new(MockUserRepository), new(MockPhotoStore), tokens)
		_, err := svc.RefreshToken(context.Background(), refreshToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(9, "alice")
		require.NoError(t, err)

		svc := newTestAuthService(new(MockUserRepository), new(MockPhotoStore), new(MockTokenStore))
		_, err = svc.RefreshToken(context.Background(), accessToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	tokenID, refreshToken, err := auth.NewJWTService("test-secret").GenerateRefreshToken(9, "alice")
	require.NoError(t, err)

	tokens := new(MockTokenStore)
	tokens.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := newTestAuthService(new(MockUserRepository), new(MockPhotoStore), tokens)
	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	assert.Equal(t, ErrInvalidRefreshToken, svc.Logout(context.Background(), "garbage"))

	accessToken, err := auth.NewJWTService("test-secret").GenerateAccessToken(9, "alice")
	require.NoError(t, err)
	assert.Equal(t, ErrInvalidRefreshToken, svc.Logout(context.Background(), accessToken))
	tokens.AssertExpectations(t)
}
