package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"globetrotter/internal/cache"
	apperrors "globetrotter/internal/errors"
	"globetrotter/internal/model"
	"globetrotter/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// MutableUserFields is the allow-list of columns a partial update may touch.
var MutableUserFields = []string{"first_name", "last_name", "phone", "city", "country", "additional_info"}

var (
	// ErrUserNotFound is returned when no user has the requested id.
	ErrUserNotFound = apperrors.NotFound("User not found")
	// ErrNoFieldsToUpdate is returned when an update names no allow-listed field.
	ErrNoFieldsToUpdate = apperrors.Validation("No fields to update")
)

// UserService exposes profile operations.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*model.Profile, error)
	UpdateUser(ctx context.Context, id uint, fields map[string]interface{}) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetProfile(ctx context.Context, id uint) (*model.Profile, error) {
	var cached model.Profile
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	profile := user.Profile()
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), profile, userCacheTTL)
	return &profile, nil
}

// UpdateUser applies the allow-listed subset of fields. Updating an id that
// does not exist succeeds without changing anything.
func (s *userService) UpdateUser(ctx context.Context, id uint, fields map[string]interface{}) error {
	columns, err := BuildUserUpdate(fields)
	if err != nil {
		return err
	}

	if _, err := s.repo.UpdateColumns(ctx, id, columns); err != nil {
		return apperrors.Internal("Update failed", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// BuildUserUpdate walks the allow-list in order and collects the columns
// present in fields. Unknown keys are ignored. Numbers and booleans are stored
// in their text form; objects and arrays are rejected.
func BuildUserUpdate(fields map[string]interface{}) ([]repository.Column, error) {
	var columns []repository.Column
	for _, name := range MutableUserFields {
		value, ok := fields[name]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string, nil:
		case float64:
			value = strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			value = v.String()
		case bool:
			value = strconv.FormatBool(v)
		default:
			return nil, apperrors.Validation(fmt.Sprintf("Field %s must be a scalar value", name))
		}
		columns = append(columns, repository.Column{Name: name, Value: value})
	}
	if len(columns) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	return columns, nil
}
