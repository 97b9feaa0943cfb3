package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	apperrors "todo-list/internal/errors"
	"todo-list/internal/logging"
)

// DefaultMaxUploadBytes caps a CSV upload request body.
const DefaultMaxUploadBytes int64 = 10 << 20

// Options configures the middleware stack shared by both routers.
type Options struct {
	Logger            *log.Logger
	SerializeRequests bool
	RateRPS           float64
	RateBurst         int
	MaxUploadBytes    int64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return o
}

// wrap applies the middleware stack: request id outermost so every log line
// carries it, rate limiting before the serialization slot is taken.
func wrap(mux http.Handler, opts Options) http.Handler {
	return Chain(
		mux,
		WithRequestID,
		WithAccessLog(opts.Logger),
		WithRecover(opts.Logger),
		RateLimit(RateLimitOptions{RPS: opts.RateRPS, Burst: opts.RateBurst}),
		Serialize(opts.SerializeRequests),
	)
}

// writeError answers with the status and user message mapped from err.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if apperrors.ShouldLogError(err) {
		logger.Error("request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"code", apperrors.GetErrorCode(err),
			"err", err,
		)
	}
	http.Error(w, apperrors.GetUserMessage(err), status)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func healthHandler(variant string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "todo",
			"variant": variant,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func aboutHandler(logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := render(w, "about.html", nil); err != nil {
			writeError(w, r, logger, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
