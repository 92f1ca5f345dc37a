package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorCode is the machine-readable half of an error; clients branch on it.
type ErrorCode string

const (
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrConflict     ErrorCode = "CONFLICT" // duplicate save, concurrent idempotent request
	ErrInternal     ErrorCode = "INTERNAL"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
)

// AppError separates what the user may see (Message) from what operators need
// (Internal + Stack). Internal must never reach a response body.
type AppError struct {
	Code     ErrorCode
	Message  string
	Internal error
	Stack    string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// New captures the stack at the call site so 500s are traceable in logs.
func New(code ErrorCode, msg string, internal error) *AppError {
	return &AppError{
		Code:     code,
		Message:  msg,
		Internal: internal,
		Stack:    string(debug.Stack()),
	}
}

// RespondError maps an error onto an HTTP status and a JSON body of the shape
// {error_code, message, request_id}. Non-AppError values are treated as internal.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetReqID(r.Context())

	appErr, ok := err.(*AppError)
	if !ok {
		appErr = New(ErrInternal, "Unexpected system error", err)
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case ErrInvalidInput:
		status = http.StatusBadRequest
	case ErrConflict:
		status = http.StatusConflict
	case ErrUnauthorized:
		status = http.StatusUnauthorized
	case ErrNotFound:
		status = http.StatusNotFound
	}

	logFields := []any{
		"req_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"code", appErr.Code,
		"user_msg", appErr.Message,
	}

	if status == http.StatusInternalServerError {
		logFields = append(logFields, "internal_err", appErr.Internal, "stack", appErr.Stack)
		slog.ErrorContext(r.Context(), "Internal Server Error", logFields...)
	} else {
		if appErr.Internal != nil {
			logFields = append(logFields, "internal_details", appErr.Internal)
		}
		slog.WarnContext(r.Context(), "Request Failed", logFields...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error_code": string(appErr.Code),
		"message":    appErr.Message,
		"request_id": reqID,
	})
}
