package tracker

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	status := buildStatus(t, store, "some status")
	author := buildUser(t, store, "author_user")
	executor := buildUser(t, store, "executor_user")

	t.Run("without labels", func(t *testing.T) {
		task := buildTask(t, store, "Some Task", status, author, executor)

		got, err := store.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Some Task", got.String())
		assert.Equal(t, "Some description...", got.Description)
		assert.Equal(t, "some status", got.Status.Name)
		assert.Equal(t, "author_user", got.Author.Username)
		assert.Equal(t, "executor_user", got.Executor.Username)
		assert.Empty(t, got.Labels)
	})

	t.Run("with labels", func(t *testing.T) {
		label1 := buildLabel(t, store, "label1")
		label2 := buildLabel(t, store, "label2")
		task := buildTask(t, store, "Labelled", status, author, executor, label2, label1, label2)

		got, err := store.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{label1.ID, label2.ID}, got.LabelIDs())
		assert.True(t, got.HasLabel(label1.ID))
	})

	t.Run("unique name", func(t *testing.T) {
		task := &Task{Name: "Some Task", StatusID: status.ID, AuthorID: author.ID, ExecutorID: executor.ID}
		assert.ErrorIs(t, store.CreateTask(ctx, task, nil), ErrDuplicate)
	})

	references := []struct {
		name string
		task Task
		ids  []uint
	}{
		{"missing status", Task{Name: "a", StatusID: 999, AuthorID: author.ID, ExecutorID: executor.ID}, nil},
		{"missing author", Task{Name: "b", StatusID: status.ID, AuthorID: 999, ExecutorID: executor.ID}, nil},
		{"missing executor", Task{Name: "c", StatusID: status.ID, AuthorID: author.ID, ExecutorID: 999}, nil},
		{"missing label", Task{Name: "d", StatusID: status.ID, AuthorID: author.ID, ExecutorID: executor.ID}, []uint{999}},
	}
	for _, tt := range references {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			assert.ErrorIs(t, store.CreateTask(ctx, &task, tt.ids), ErrInvalidReference)
		})
	}

	tasks, err := store.ListTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestUpdateTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	todo := buildStatus(t, store, "todo")
	done := buildStatus(t, store, "done")
	author := buildUser(t, store, "author_user")
	executor := buildUser(t, store, "executor_user")
	bug := buildLabel(t, store, "bug")
	urgent := buildLabel(t, store, "urgent")

	task := buildTask(t, store, "Fix login", todo, author, executor, bug)
	buildTask(t, store, "Other", todo, author, executor)

	update := &Task{
		ID:          task.ID,
		Name:        "Fix login form",
		Description: "",
		StatusID:    done.ID,
		AuthorID:    executor.ID, // ignored
		ExecutorID:  author.ID,
	}
	require.NoError(t, store.UpdateTask(ctx, update, []uint{urgent.ID}))
	assert.Equal(t, author.ID, update.AuthorID)

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix login form", got.Name)
	assert.Empty(t, got.Description)
	assert.Equal(t, "done", got.Status.Name)
	assert.Equal(t, author.ID, got.AuthorID)
	assert.Equal(t, author.ID, got.ExecutorID)
	assert.Equal(t, []uint{urgent.ID}, got.LabelIDs())

	t.Run("duplicate name", func(t *testing.T) {
		clash := *update
		clash.Name = "Other"
		assert.ErrorIs(t, store.UpdateTask(ctx, &clash, nil), ErrDuplicate)
	})

	t.Run("missing task", func(t *testing.T) {
		missing := *update
		missing.ID = 999
		assert.ErrorIs(t, store.UpdateTask(ctx, &missing, nil), ErrNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	status := buildStatus(t, store, "new")
	user := buildUser(t, store, "tom")
	label := buildLabel(t, store, "bug")
	task := buildTask(t, store, "Some Task", status, user, user, label)

	require.NoError(t, store.DeleteTask(ctx, task.ID))

	_, err := store.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteTask(ctx, task.ID), ErrNotFound)

	// Nothing references the rows any more
	require.NoError(t, store.DeleteLabel(ctx, label.ID))
	require.NoError(t, store.DeleteStatus(ctx, status.ID))
	require.NoError(t, store.DeleteUser(ctx, user.ID))
}

func TestListTasksFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	todo := buildStatus(t, store, "todo")
	done := buildStatus(t, store, "done")
	alice := buildUser(t, store, "alice")
	bob := buildUser(t, store, "bob")
	bug := buildLabel(t, store, "bug")
	docs := buildLabel(t, store, "docs")

	t1 := buildTask(t, store, "t1", todo, alice, bob, bug)
	t2 := buildTask(t, store, "t2", done, alice, alice, bug, docs)
	t3 := buildTask(t, store, "t3", todo, bob, alice)
	t4 := buildTask(t, store, "t4", done, bob, bob, docs)

	tests := []struct {
		name     string
		filter   TaskFilter
		expected []uint
	}{
		{"no filter", TaskFilter{}, []uint{t1.ID, t2.ID, t3.ID, t4.ID}},
		{"by status", TaskFilter{StatusID: todo.ID}, []uint{t1.ID, t3.ID}},
		{"by executor", TaskFilter{ExecutorID: alice.ID}, []uint{t2.ID, t3.ID}},
		{"by label", TaskFilter{LabelID: docs.ID}, []uint{t2.ID, t4.ID}},
		{"by author", TaskFilter{AuthorID: bob.ID}, []uint{t3.ID, t4.ID}},
		{"status and label", TaskFilter{StatusID: done.ID, LabelID: bug.ID}, []uint{t2.ID}},
		{"everything", TaskFilter{StatusID: todo.ID, ExecutorID: bob.ID, LabelID: bug.ID, AuthorID: alice.ID}, []uint{t1.ID}},
		{"nothing matches", TaskFilter{StatusID: done.ID, ExecutorID: alice.ID, AuthorID: bob.ID}, []uint{}},
		{"unknown label", TaskFilter{LabelID: 999}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := store.ListTasks(ctx, tt.filter)
			require.NoError(t, err)

			ids := []uint{}
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			if diff := cmp.Diff(tt.expected, ids); diff != "" {
				t.Errorf("ListTasks(%+v) mismatch (-want +got):\n%s", tt.filter, diff)
			}
		})
	}

	t.Run("relations are loaded", func(t *testing.T) {
		tasks, err := store.ListTasks(ctx, TaskFilter{LabelID: docs.ID})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "done", tasks[0].Status.Name)
		assert.Equal(t, "alice", tasks[0].Author.Username)
		assert.Equal(t, []uint{bug.ID, docs.ID}, tasks[0].LabelIDs())
	})
}

func TestParseTaskFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected TaskFilter
	}{
		{"empty", "", TaskFilter{}},
		{"all fields", "status=1&executor=2&label=3&author=4", TaskFilter{StatusID: 1, ExecutorID: 2, LabelID: 3, AuthorID: 4}},
		{"blank values", "status=&executor=&label=", TaskFilter{}},
		{"garbage is ignored", "status=abc&executor=-1&label=2", TaskFilter{LabelID: 2}},
		{"unrelated params", "self_tasks=on&page=2", TaskFilter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got := ParseTaskFilter(values)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ParseTaskFilter(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestParseTaskFilterStrict(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected TaskFilter
		wantErr  bool
	}{
		{"empty", "", TaskFilter{}, false},
		{"valid ids", "status=1&author=4", TaskFilter{StatusID: 1, AuthorID: 4}, false},
		{"blank values", "status=&label=", TaskFilter{}, false},
		{"letters", "status=abc", TaskFilter{}, true},
		{"negative", "executor=-1", TaskFilter{}, true},
		{"zero", "label=0", TaskFilter{}, true},
		{"unrelated params", "self_tasks=on", TaskFilter{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseTaskFilterStrict(values)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestListTasksUsesRequestContext(t *testing.T) {
	store := newTestStore(t)

	status := buildStatus(t, store, "todo")
	user := buildUser(t, store, "alice")
	label := buildLabel(t, store, "bug")
	buildTask(t, store, "t1", status, user, user, label)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ListTasks(ctx, TaskFilter{LabelID: label.ID})
	assert.ErrorIs(t, err, context.Canceled)
}
