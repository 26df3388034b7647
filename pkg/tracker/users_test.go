package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"both names", User{Username: "tom", FirstName: "Tom", LastName: "Dickson"}, "Tom Dickson"},
		{"first name only", User{Username: "tom", FirstName: "Tom"}, "Tom"},
		{"last name only", User{Username: "tom", LastName: "Dickson"}, "Dickson"},
		{"no names", User{Username: "tom"}, "tom"},
		{"blank names", User{Username: "tom", FirstName: " ", LastName: " "}, "tom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.FullName())
		})
	}

	user := User{ID: 3, Username: "tom", FirstName: "Tom", LastName: "Dickson"}
	assert.Equal(t, "user 3 - tom, full name Tom Dickson", user.String())
}

func TestUserPassword(t *testing.T) {
	var user User
	require.NoError(t, user.SetPassword("pass123"))

	assert.NotEqual(t, "pass123", user.PasswordHash)
	assert.True(t, user.CheckPassword("pass123"))
	assert.False(t, user.CheckPassword("pass124"))
}

func TestCreateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := buildUser(t, store, "tom")
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("duplicate username", func(t *testing.T) {
		dup := &User{Username: "tom", PasswordHash: "x"}
		assert.ErrorIs(t, store.CreateUser(ctx, dup), ErrDuplicate)
	})

	t.Run("missing password", func(t *testing.T) {
		assert.Error(t, store.CreateUser(ctx, &User{Username: "jerry"}))
	})

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpdateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tom := buildUser(t, store, "tom")
	buildUser(t, store, "jerry")

	t.Run("rename keeps own username free", func(t *testing.T) {
		tom.FirstName = "Thomas"
		require.NoError(t, store.UpdateUser(ctx, tom))

		got, err := store.GetUser(ctx, tom.ID)
		require.NoError(t, err)
		assert.Equal(t, "Thomas", got.FirstName)
		assert.Equal(t, "tom", got.Username)
	})

	t.Run("username of another user", func(t *testing.T) {
		clash := *tom
		clash.Username = "jerry"
		assert.ErrorIs(t, store.UpdateUser(ctx, &clash), ErrDuplicate)
	})

	t.Run("missing user", func(t *testing.T) {
		assert.ErrorIs(t, store.UpdateUser(ctx, &User{ID: 999, Username: "ghost"}), ErrNotFound)
	})
}

func TestAuthenticate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	buildUser(t, store, "testuser")

	user, err := store.Authenticate(ctx, "testuser", "pass123")
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)

	_, err = store.Authenticate(ctx, "testuser", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Authenticate(ctx, "wrong", "pass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	status := buildStatus(t, store, "new")
	author := buildUser(t, store, "author_user")
	executor := buildUser(t, store, "executor_user")
	idle := buildUser(t, store, "idle")
	buildTask(t, store, "Some Task", status, author, executor)

	t.Run("author is protected", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteUser(ctx, author.ID), ErrInUse)
	})

	t.Run("executor is protected", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteUser(ctx, executor.ID), ErrInUse)
	})

	t.Run("unreferenced user", func(t *testing.T) {
		require.NoError(t, store.DeleteUser(ctx, idle.ID))

		_, err := store.GetUser(ctx, idle.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteUser(ctx, idle.ID), ErrNotFound)
	})
}
