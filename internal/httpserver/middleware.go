package httpserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/averycrespi/tabserver/pkg/types"
)

// statusRecorder remembers the status code and body size written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

type requestLogger struct {
	inner http.Handler
}

func (h *requestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w}
	h.inner.ServeHTTP(rec, r)

	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	id, _ := RequestIDFromContext(r.Context())
	slog.Info("Handled request",
		"request_id", id,
		"remote", r.RemoteAddr,
		"method", r.Method,
		"url", r.URL.String(),
		"status", rec.status,
		"bytes", rec.bytes,
		"duration", time.Since(start),
	)
}

type corsHandler struct {
	inner   http.Handler
	origins map[string]bool
	any     bool
	methods string
	headers string
}

// newCORSHandler answers preflight requests and adds CORS headers for
// allowed origins. Requests from other origins pass through without them.
func newCORSHandler(inner http.Handler, cfg types.CORSConfig) *corsHandler {
	h := &corsHandler{
		inner:   inner,
		origins: make(map[string]bool),
		methods: strings.Join(cfg.AllowedMethods, ", "),
		headers: strings.Join(cfg.AllowedHeaders, ", "),
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			h.any = true
		}
		h.origins[origin] = true
	}
	return h
}

func (h *corsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	allowed := origin != "" && (h.any || h.origins[origin])

	if allowed {
		if h.any {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
	}

	if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
		if allowed {
			if h.methods != "" {
				w.Header().Set("Access-Control-Allow-Methods", h.methods)
			}
			if h.headers != "" {
				w.Header().Set("Access-Control-Allow-Headers", h.headers)
			}
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.inner.ServeHTTP(w, r)
}
