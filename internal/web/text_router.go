package web

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"

	"todo-list/internal/services"
	"todo-list/internal/validation"
)

// TextListHandler serves the flat-file task list, where a task is named by
// its line index.
type TextListHandler struct {
	service   services.TextListService
	validator *validation.TaskValidator
	logger    *log.Logger
}

// NewTextListRouter returns the complete handler for the flat-file list,
// middleware included.
func NewTextListRouter(service services.TextListService, opts Options) http.Handler {
	opts = opts.withDefaults()
	h := &TextListHandler{
		service:   service,
		validator: validation.NewTaskValidator(),
		logger:    opts.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.Add)
	mux.HandleFunc("GET /edit/{task_id}", h.EditForm)
	mux.HandleFunc("POST /update", h.Update)
	mux.HandleFunc("POST /delete", h.Delete)
	mux.HandleFunc("GET /about", aboutHandler(opts.Logger))
	mux.HandleFunc("GET /healthz", healthHandler("textfile"))

	return wrap(mux, opts)
}

type lineView struct {
	Index int
	Text  string
}

type textIndexPage struct {
	Lines     []lineView
	EditIndex int
}

// Index lists the lines in file order. ?edit=<index> opens the inline
// editor for that line.
func (h *TextListHandler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListLines(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page := textIndexPage{Lines: make([]lineView, len(list)), EditIndex: -1}
	for i, text := range list {
		page.Lines[i] = lineView{Index: i, Text: text}
	}
	if raw := r.URL.Query().Get("edit"); raw != "" {
		if index, err := h.validator.ParseLineIndex("edit", raw); err == nil && list.InBounds(index) {
			page.EditIndex = index
		}
	}

	if err := render(w, "text_index.html", page); err != nil {
		writeError(w, r, h.logger, err)
	}
}

// Add appends the "task" form field. Blank input is ignored.
func (h *TextListHandler) Add(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.AddLine(r.Context(), r.FormValue("task"))
	if err != nil && !validation.IsValidationError(err) {
		writeError(w, r, h.logger, err)
		return
	}
	redirectHome(w, r)
}

// EditForm sends the browser back to the list with the editor open.
func (h *TextListHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/?edit="+url.QueryEscape(r.PathValue("task_id")), http.StatusSeeOther)
}

// Update replaces the line at "task_id" with "updated_task". A bad index or
// blank text leaves the file untouched.
func (h *TextListHandler) Update(w http.ResponseWriter, r *http.Request) {
	index, err := h.validator.ParseLineIndex("task_id", r.FormValue("task_id"))
	if err != nil {
		redirectHome(w, r)
		return
	}

	_, err = h.service.UpdateLine(r.Context(), index, r.FormValue("updated_task"))
	if err != nil && !validation.IsValidationError(err) {
		writeError(w, r, h.logger, err)
		return
	}
	redirectHome(w, r)
}

// Delete removes the first line equal to "task_to_delete".
func (h *TextListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.DeleteLine(r.Context(), r.FormValue("task_to_delete")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	redirectHome(w, r)
}
