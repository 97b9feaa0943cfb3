package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"todo-list/internal/logging"
	"todo-list/internal/repository/sqlite"
	"todo-list/internal/repository/textfile"
	"todo-list/internal/services"
)

func quietLogger(t *testing.T) *log.Logger {
	t.Helper()
	logger, err := logging.New(io.Discard, "error", logging.FormatText)
	require.NoError(t, err)
	return logger
}

func setupTaskRouter(t *testing.T) (http.Handler, services.TaskService) {
	t.Helper()

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "task.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	loc, err := time.LoadLocation("Asia/Hong_Kong")
	require.NoError(t, err)

	service := services.NewTaskService(repo, nil, loc)
	return NewTaskRouter(service, Options{Logger: quietLogger(t), SerializeRequests: true}), service
}

func setupTextRouter(t *testing.T) (http.Handler, *textfile.FileStore) {
	t.Helper()

	store, err := textfile.New(filepath.Join(t.TempDir(), "tasks.txt"))
	require.NoError(t, err)

	service := services.NewTextListService(store)
	return NewTextListRouter(service, Options{Logger: quietLogger(t), SerializeRequests: true}), store
}

func do(h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	return do(h, http.MethodPost, target, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}
