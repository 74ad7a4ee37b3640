package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id on requests and responses
const RequestIDHeader = "X-Request-Id"

type key int

const reqIDKey key = 0

// RequestID identifies one HTTP request in logs
type RequestID string

// NewRequestID returns a random request id
func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

// WithRequestID returns a copy of ctx carrying id
func WithRequestID(ctx context.Context, id RequestID) context.Context {
	return context.WithValue(ctx, reqIDKey, id)
}

// RequestIDFromContext returns the request id stored in ctx
func RequestIDFromContext(ctx context.Context) (RequestID, bool) {
	id, ok := ctx.Value(reqIDKey).(RequestID)
	return id, ok
}

type requestIDHandler struct {
	inner http.Handler
}

// ServeHTTP reuses a well-formed incoming id and generates one otherwise
func (h *requestIDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Header.Get(RequestIDHeader))
	if _, err := uuid.Parse(string(id)); err != nil {
		id = NewRequestID()
	}
	w.Header().Set(RequestIDHeader, string(id))
	h.inner.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
}
