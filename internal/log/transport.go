package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for a caller-chosen request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader carries the request ID to the service.
	RequestIDHeader = "X-Request-ID"
)

// WithRequestID stores id in ctx so outbound requests reuse it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFrom returns the request ID stored in ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Transport is an http.RoundTripper that tags every outbound request with
// an X-Request-ID and logs the exchange.
type Transport struct {
	Base   http.RoundTripper
	Logger *Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = Discard()
	}
	return &Transport{Base: base, Logger: logger.WithComponent(ComponentAPI)}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = RequestIDFrom(req.Context())
	}
	if id == "" {
		id = uuid.NewString()
	}
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	fields := NewFields().WithHTTPExchange(req.Method, req.URL.Path, status, elapsed)
	fields[FieldRequestID] = id

	level := slog.LevelDebug
	switch {
	case err != nil:
		fields.WithError(err).WithErrorType(ErrorTypeNetwork)
		level = slog.LevelWarn
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	t.Logger.Logger.Log(req.Context(), level, "Service request completed", t.Logger.tag(fields.ToSlice())...)
	return resp, err
}
