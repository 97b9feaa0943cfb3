package web

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRouter_CreateToggleExport(t *testing.T) {
	h, service := setupTaskRouter(t)

	rec := postForm(h, "/", url.Values{"task": {"Write report"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Write report")

	tasks, err := service.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	rec = do(h, http.MethodPost, fmt.Sprintf("/toggle/%d", tasks[0].ID), nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(h, http.MethodGet, "/download_csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=list_of_tasks.csv", rec.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "Task", "Completed", "Created At", "Updated At"}, records[0])
	assert.Equal(t, "Write report", records[1][1])
	assert.Equal(t, "True", records[1][2])
	assert.True(t, strings.HasSuffix(records[1][3], "+08:00"))
}

func TestTaskRouter_BlankCreateIsNoOp(t *testing.T) {
	h, service := setupTaskRouter(t)

	rec := postForm(h, "/", url.Values{"task": {"   "}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	tasks, err := service.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRouter_Edit(t *testing.T) {
	h, service := setupTaskRouter(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, "draft")
	require.NoError(t, err)

	rec := postForm(h, fmt.Sprintf("/edit/%d", created.ID), url.Values{"new_task": {" final "}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))

	// blank text never looks the task up, so even a missing id redirects
	rec = postForm(h, "/edit/999", url.Values{"new_task": {""}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(h, "/edit/999", url.Values{"new_task": {"x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskRouter_NotFound(t *testing.T) {
	h, service := setupTaskRouter(t)
	ctx := context.Background()

	seeded, err := service.CreateTask(ctx, "keep me")
	require.NoError(t, err)
	require.Equal(t, int64(1), seeded.ID)
	before, err := service.GetTask(ctx, seeded.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
	}{
		{"toggle missing", "/toggle/42"},
		{"delete missing", "/delete/42"},
		{"edit missing", "/edit/42"},
		{"toggle non-integer id", "/toggle/abc"},
		{"delete non-integer id", "/delete/1.5"},
		{"edit non-integer id", "/edit/abc"},
		{"delete signed id", "/delete/+1"},
		{"toggle signed id", "/toggle/+1"},
		{"edit negative id", "/edit/-1"},
		{"delete padded id", "/delete/%201"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(h, tt.target, url.Values{"new_task": {"x"}})
			assert.Equal(t, http.StatusNotFound, rec.Code)

			tasks, err := service.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, seeded.ID, tasks[0].ID)
			assert.Equal(t, "keep me", tasks[0].Text)
			assert.False(t, tasks[0].Done)
			assert.True(t, before.UpdatedAt.Equal(tasks[0].UpdatedAt))
		})
	}
}

func TestTaskRouter_Delete(t *testing.T) {
	h, service := setupTaskRouter(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, "short lived")
	require.NoError(t, err)

	rec := do(h, http.MethodPost, fmt.Sprintf("/delete/%d", created.ID), nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	tasks, err := service.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRouter_MethodNotAllowed(t *testing.T) {
	h, _ := setupTaskRouter(t)

	rec := do(h, http.MethodGet, "/toggle/1", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTaskRouter_UploadCSV(t *testing.T) {
	h, service := setupTaskRouter(t)

	body, contentType := multipartUpload(t, "csv_file", "tasks.csv", []byte("\xEF\xBB\xBFTask\nalpha\n\nbeta\n"))
	rec := do(h, http.MethodPost, "/upload_csv", body, contentType)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	tasks, err := service.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].CreatedAt.Equal(tasks[1].CreatedAt))
	assert.False(t, tasks[0].Done)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, []string{tasks[0].Text, tasks[1].Text})
}

func TestTaskRouter_UploadCSV_RoundTrip(t *testing.T) {
	h, service := setupTaskRouter(t)
	ctx := context.Background()

	_, err := service.CreateTask(ctx, "one, with comma")
	require.NoError(t, err)

	exported := do(h, http.MethodGet, "/download_csv", nil, "")
	require.Equal(t, http.StatusOK, exported.Code)

	body, contentType := multipartUpload(t, "csv_file", "list_of_tasks.csv", exported.Body.Bytes())
	rec := do(h, http.MethodPost, "/upload_csv", body, contentType)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	tasks, err := service.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, tasks[0].Text, tasks[1].Text)
}

func TestTaskRouter_UploadCSV_NoFile(t *testing.T) {
	h, service := setupTaskRouter(t)

	body, contentType := multipartUpload(t, "", "", nil)
	rec := do(h, http.MethodPost, "/upload_csv", body, contentType)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	body, contentType = multipartUpload(t, "csv_file", "", []byte("ignored\n"))
	rec = do(h, http.MethodPost, "/upload_csv", body, contentType)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	tasks, err := service.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRouter_UploadCSV_TooLarge(t *testing.T) {
	h := NewTaskRouter(nil, Options{Logger: quietLogger(t), MaxUploadBytes: 64})

	body, contentType := multipartUpload(t, "csv_file", "big.csv", []byte(strings.Repeat("task\n", 200)))
	rec := do(h, http.MethodPost, "/upload_csv", body, contentType)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTaskRouter_AboutAndHealth(t *testing.T) {
	h, _ := setupTaskRouter(t)

	rec := do(h, http.MethodGet, "/about", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "About")

	rec = do(h, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["ok"])
	assert.Equal(t, "sqlite", payload["variant"])
}
