package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "asset-inventory-api/pkg/errors"
)

// Error response structure for consistent JSON error responses
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Success response structure for consistent JSON success responses
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorHandler provides centralized error handling functionality for handlers
type ErrorHandler struct {
	Logger *log.Logger
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorHandler{
		Logger: logger,
	}
}

// SendErrorResponse sends a structured error response
func (e *ErrorHandler) SendErrorResponse(w http.ResponseWriter, statusCode int, message, code string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Printf("Failed to encode error response: %v", err)
	}
}

// SendSuccessResponse sends a structured success response
func (e *ErrorHandler) SendSuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := SuccessResponse{
		Message: message,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Printf("Failed to encode success response: %v", err)
	}
}

// SendJSONResponse sends a generic JSON response
func (e *ErrorHandler) SendJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		e.Logger.Printf("Failed to encode JSON response: %v", err)
		e.SendErrorResponse(w, http.StatusInternalServerError, "Failed to encode response", "ENCODING_ERROR", nil)
	}
}

// HandleServiceError maps service-layer errors to HTTP responses.
func (e *ErrorHandler) HandleServiceError(w http.ResponseWriter, err error, operation string) {
	e.Logger.Printf("Service error during %s: %v", operation, err)

	if errors.Is(err, context.DeadlineExceeded) {
		e.SendErrorResponse(w, http.StatusRequestTimeout, "Operation timed out", "TIMEOUT", nil)
		return
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		e.SendErrorResponse(w, appErr.GetHTTPStatus(), appErr.Message, string(appErr.Code), nil)
		return
	}

	e.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", nil)
}

// HandleJSONDecodeError handles JSON decoding errors
func (e *ErrorHandler) HandleJSONDecodeError(w http.ResponseWriter, err error) {
	e.Logger.Printf("JSON decode error: %v", err)
	e.SendErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_JSON", nil)
}

// HandleIDParseError handles invalid numeric id path parameters
func (e *ErrorHandler) HandleIDParseError(w http.ResponseWriter) {
	e.SendErrorResponse(w, http.StatusBadRequest, "Invalid id: must be a positive integer", "INVALID_ID", nil)
}
