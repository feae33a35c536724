package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/onboard/internal/db"
	"github.com/alexanderramin/onboard/internal/testutil"
)

func TestLocalStore_SetGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := NewSQLiteLocalStore(database, nil)
	ctx := context.Background()

	_, err := store.Get(ctx, "userId")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "userId", "u1"))
	require.NoError(t, store.Set(ctx, "userId", "u2"))

	got, err := store.Get(ctx, "userId")
	require.NoError(t, err)
	assert.Equal(t, "u2", got)
}

func TestLocalStore_SetManyAndAll(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := NewSQLiteLocalStore(database, db.NewSQLiteUnitOfWork(database))
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]string{
		"userType": "teacher",
		"userId":   "t1",
	}))

	entries, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "userId", entries[0].Key)
	assert.Equal(t, "t1", entries[0].Value)
	assert.True(t, fixed.Equal(entries[0].UpdatedAt))
	assert.Equal(t, "userType", entries[1].Key)
}

func TestLocalStore_SetManyRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: errors.New("disk full")}
	store := NewSQLiteLocalStore(database, uow)
	ctx := context.Background()

	err := store.SetMany(ctx, map[string]string{"userId": "u1", "userType": "student"})
	require.Error(t, err)

	entries, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := NewSQLiteLocalStore(database, nil)
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]string{"userId": "u1", "userName": "Asha", "keep": "x"}))
	require.NoError(t, store.Delete(ctx, "userId", "userName", "missing"))

	entries, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep", entries[0].Key)
}
