package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "secret").WithHTTPClient(server.Client())
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListTasks(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "3", r.URL.Query().Get("status"))
		assert.Equal(t, "1", r.URL.Query().Get("author"))
		assert.False(t, r.URL.Query().Has("label"))

		writeJSON(w, http.StatusOK, NewSuccessResponse("Tasks retrieved successfully", []Task{
			{ID: 1, Name: "Deploy", Status: Status{ID: 3, Name: "open"}, Labels: []Label{{ID: 2, Name: "ops"}}},
		}))
	})

	tasks, err := client.ListTasks(context.Background(), TaskQuery{Status: 3, Author: 1})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Deploy", tasks[0].Name)
	assert.Equal(t, "open", tasks[0].Status.Name)
	assert.Equal(t, "ops", tasks[0].Labels[0].Name)
}

func TestEnvelopeErrors(t *testing.T) {
	t.Run("fail status", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			resp := NewFailResponse(http.StatusOK, "nothing to see")
			writeJSON(w, http.StatusOK, resp)
		})

		_, err := client.ListLabels(context.Background())
		assert.ErrorContains(t, err, "nothing to see")
	})

	t.Run("http error", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, NewErrorResponse(http.StatusServiceUnavailable, "database unavailable", "ping failed"))
		})

		err := client.Health(context.Background())
		assert.ErrorContains(t, err, "503")
	})
}

func TestTaskQueryValues(t *testing.T) {
	assert.Empty(t, TaskQuery{}.Values().Encode())
	assert.Equal(t, "executor=2&label=5", TaskQuery{Executor: 2, Label: 5}.Values().Encode())
}
