package repository

import (
	"context"
	"testing"

	"restaurant/models"
	"restaurant/testutil"

	"github.com/stretchr/testify/require"
)

// newTestStore returns a store over a fresh database holding the default
// menu (ids 1..5: steak 1890, carbonara 790, caesar 590, tiramisu 490,
// mojito 390).
func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	store := NewStore(testutil.NewDB(t), opts...)
	require.NoError(t, store.Seed(context.Background(), SeedAdmin{}))
	return store
}

func createTestUser(t *testing.T, store *Store, email string) models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), NewUser{
		Name:         "Guest",
		Email:        email,
		Phone:        "+7 900 000-00-00",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, store *Store, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.DB().Model(model).Count(&n).Error)
	return n
}
