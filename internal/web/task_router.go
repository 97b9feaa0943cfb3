package web

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/charmbracelet/log"

	"todo-list/internal/domain"
	apperrors "todo-list/internal/errors"
	"todo-list/internal/services"
	"todo-list/internal/transfer"
	"todo-list/internal/validation"
)

// TaskHandler serves the database-backed task list.
type TaskHandler struct {
	service   services.TaskService
	validator *validation.TaskValidator
	logger    *log.Logger
	maxUpload int64
}

// NewTaskRouter returns the complete handler for the database-backed list,
// middleware included.
func NewTaskRouter(service services.TaskService, opts Options) http.Handler {
	opts = opts.withDefaults()
	h := &TaskHandler{
		service:   service,
		validator: validation.NewTaskValidator(),
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.Create)
	mux.HandleFunc("POST /edit/{id}", h.Edit)
	mux.HandleFunc("POST /toggle/{id}", h.Toggle)
	mux.HandleFunc("POST /delete/{id}", h.Delete)
	mux.HandleFunc("GET /download_csv", h.DownloadCSV)
	mux.HandleFunc("POST /upload_csv", h.UploadCSV)
	mux.HandleFunc("GET /about", aboutHandler(opts.Logger))
	mux.HandleFunc("GET /healthz", healthHandler("sqlite"))

	return wrap(mux, opts)
}

type indexPage struct {
	Tasks []domain.Task
}

// Index lists every task, newest first.
func (h *TaskHandler) Index(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := render(w, "index.html", indexPage{Tasks: tasks}); err != nil {
		writeError(w, r, h.logger, err)
	}
}

// Create adds a task from the "task" form field. Blank input is ignored.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.CreateTask(r.Context(), r.FormValue("task"))
	if err != nil && !validation.IsValidationError(err) {
		writeError(w, r, h.logger, err)
		return
	}
	redirectHome(w, r)
}

// Edit replaces a task's text with the "new_task" form field. Blank input is
// ignored without looking the task up.
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := h.validator.ParseTaskID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	_, err = h.service.EditTask(r.Context(), id, r.FormValue("new_task"))
	if err != nil && !validation.IsValidationError(err) {
		writeError(w, r, h.logger, err)
		return
	}
	redirectHome(w, r)
}

// Toggle flips a task's completion flag and answers 204.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := h.validator.ParseTaskID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if _, err := h.service.ToggleTask(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.validator.ParseTaskID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	redirectHome(w, r)
}

// DownloadCSV sends every task as a CSV attachment.
func (h *TaskHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := transfer.WriteCSV(&buf, tasks, h.service.Location()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", transfer.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": transfer.ExportFilename}))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// UploadCSV imports tasks from the "csv_file" multipart field. A request
// without a file is a no-op.
func (h *TaskHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			redirectHome(w, r)
		case errors.As(err, &tooLarge):
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		default:
			writeError(w, r, h.logger, apperrors.NewDecodeError("multipart form", err))
		}
		return
	}
	defer file.Close()

	if header.Filename == "" {
		redirectHome(w, r)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewDecodeError("csv upload", err))
		return
	}

	texts, err := transfer.ParseUpload(raw)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	imported, err := h.service.ImportTasks(r.Context(), texts)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("csv imported",
		"request_id", RequestIDFromContext(r.Context()),
		"filename", header.Filename,
		"tasks", len(imported),
	)
	redirectHome(w, r)
}
