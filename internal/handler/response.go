package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// ResponseHelper provides common response utilities and context management
type ResponseHelper struct{}

// NewResponseHelper creates a new ResponseHelper instance
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// ContextKey type for context keys to avoid collisions
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

// CreateRequestContext creates a context with timeout and optional request ID
func (rh *ResponseHelper) CreateRequestContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)

	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
	}

	return ctx, cancel
}

// GetRequestIDFromContext extracts request ID from context
func (rh *ResponseHelper) GetRequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// PathID extracts the numeric {id} path variable.
func (rh *ResponseHelper) PathID(r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Actor returns the acting user for audit attribution. The admin frontend
// sets X-Actor from its session; anything without it is recorded as the
// system account.
func (rh *ResponseHelper) Actor(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return ""
}

// SetCommonHeaders sets common HTTP headers for all responses
func (rh *ResponseHelper) SetCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-API-Version", "v1")
}

// CreateHealthCheckData creates health check response data
func (rh *ResponseHelper) CreateHealthCheckData() map[string]interface{} {
	return map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"service":   "asset-inventory-api",
		"status":    "healthy",
	}
}
