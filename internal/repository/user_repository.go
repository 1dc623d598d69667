package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"globetrotter/internal/model"
)

var (
	// ErrNotFound is returned when no user row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// Column is a single (column, value) pair of a partial update.
type Column struct {
	Name  string
	Value interface{}
}

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	UpdateColumns(ctx context.Context, id uint, columns []Column) (int64, error)
}

// Session hands out a context-bound database session per call.
type Session interface {
	Acquire(ctx context.Context) *gorm.DB
}

type userRepository struct {
	store Session
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(store Session) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.store.Acquire(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByLogin matches either the username or the email.
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.first(ctx, "username = ? OR email = ?", login, login)
}

// UpdateColumns applies a parameterized update of the given columns and
// refreshes updated_at. Column names must come from a fixed allow-list.
// A missing id is not an error; the affected row count is returned.
func (r *userRepository) UpdateColumns(ctx context.Context, id uint, columns []Column) (int64, error) {
	updates := make(map[string]interface{}, len(columns))
	for _, c := range columns {
		updates[c.Name] = c.Value
	}
	updates["updated_at"] = time.Now()
	res := r.store.Acquire(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	err := r.store.Acquire(ctx).Where(query, args...).Order("id").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
