package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globetrotter/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_InitializeSchemaIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InitializeSchema(ctx))
	require.NoError(t, store.InitializeSchema(ctx))

	migrator := store.Acquire(ctx).Migrator()
	for _, table := range []string{"users", "trips", "activities"} {
		assert.True(t, migrator.HasTable(table), table)
	}
}

func TestStore_UsersColumnOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InitializeSchema(ctx))

	columns, err := store.Acquire(ctx).Migrator().ColumnTypes(&model.User{})
	require.NoError(t, err)

	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		"id", "username", "email", "password", "first_name", "last_name",
		"phone", "city", "country", "additional_info", "photo_path",
		"created_at", "updated_at",
	}, names)
}

func TestStore_ResetSchemaDropsData(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InitializeSchema(ctx))

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", FirstName: "A", LastName: "L"}
	require.NoError(t, store.Acquire(ctx).Create(user).Error)

	require.NoError(t, store.ResetSchema(ctx))

	_, err := os.Stat(path)
	assert.NoError(t, err)

	var count int64
	require.NoError(t, store.Acquire(ctx).Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}
