package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/brandcatalog/pkg/errors"
	"github.com/utafrali/brandcatalog/pkg/logger"
	"github.com/utafrali/brandcatalog/pkg/pagination"
	"github.com/utafrali/brandcatalog/pkg/validator"
)

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Data       any            `json:"data,omitempty"`
	Pagination *Pagination    `json:"pagination,omitempty"`
	Error      *ErrorResponse `json:"error,omitempty"`
}

// Pagination is the page metadata attached to list responses.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a success envelope carrying data.
func WriteData(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{StatusCode: status, Message: message, Data: data})
}

// WritePage writes a success envelope carrying one page of results.
func WritePage[T any](w http.ResponseWriter, message string, page pagination.Result[T]) {
	WriteJSON(w, http.StatusOK, Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       page.Data,
		Pagination: &Pagination{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// WriteNoContent writes a 204 with no body.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes a standardized error response based on the error type.
// It prefers the request-scoped logger from context (set by the RequestLogger
// middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	appErr := apperrors.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("code", appErr.Code),
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeError(w, appErr.Status, &ErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	})
}

// WriteValidationError writes a standardized validation error response.
// It handles ValidationError from the validator package and returns field-level errors.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeError(w, http.StatusBadRequest, &ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	writeError(w, http.StatusBadRequest, &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
}

func writeError(w http.ResponseWriter, status int, body *ErrorResponse) {
	WriteJSON(w, status, Response{StatusCode: status, Message: body.Message, Error: body})
}
