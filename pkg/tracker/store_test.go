package tracker

import (
	"context"
	"os"
	"testing"

	"github.com/ethanbaker/taskmanager/internal/stores/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// newTestStore opens a migrated in-memory store
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open("sqlite://:memory:", database.Options{Debug: true})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	store := NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func buildUser(t *testing.T, store *Store, username string) *User {
	t.Helper()

	user := &User{Username: username, FirstName: "Tom", LastName: "Dickson"}
	require.NoError(t, user.SetPassword("pass123"))
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func buildStatus(t *testing.T, store *Store, name string) *Status {
	t.Helper()

	status := &Status{Name: name}
	require.NoError(t, store.CreateStatus(context.Background(), status))
	return status
}

func buildLabel(t *testing.T, store *Store, name string) *Label {
	t.Helper()

	label := &Label{Name: name}
	require.NoError(t, store.CreateLabel(context.Background(), label))
	return label
}

func buildTask(t *testing.T, store *Store, name string, status *Status, author, executor *User, labels ...*Label) *Task {
	t.Helper()

	task := &Task{
		Name:        name,
		Description: "Some description...",
		StatusID:    status.ID,
		AuthorID:    author.ID,
		ExecutorID:  executor.ID,
	}

	var ids []uint
	for _, label := range labels {
		ids = append(ids, label.ID)
	}

	require.NoError(t, store.CreateTask(context.Background(), task, ids))
	return task
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Ping(context.Background()))
}
