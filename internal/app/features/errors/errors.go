// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/devconnect/internal/app/system/inputval"
	"go.uber.org/zap"
)

// serverErrorMessage is all a client ever learns about a 500.
const serverErrorMessage = "server error"

// messageBody is the shape of every non-validation error response.
type messageBody struct {
	Message string `json:"message"`
}

// validationBody is the shape of a 400 validation response.
type validationBody struct {
	Errors []inputval.FieldError `json:"errors"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, messageBody{Message: msg})
}

// Validation writes 400 {"errors":[{field,message}...]}.
func Validation(w http.ResponseWriter, errs []inputval.FieldError) {
	WriteJSON(w, http.StatusBadRequest, validationBody{Errors: errs})
}

// BadRequest writes a single-message 400 (e.g. malformed JSON).
func BadRequest(w http.ResponseWriter, msg string) {
	Message(w, http.StatusBadRequest, msg)
}

// NotFound writes 404 {"message": msg}.
func NotFound(w http.ResponseWriter, msg string) {
	Message(w, http.StatusNotFound, msg)
}

// Unauthorized writes 401 {"message": msg}.
func Unauthorized(w http.ResponseWriter, msg string) {
	Message(w, http.StatusUnauthorized, msg)
}

// Conflict writes 409 {"message": msg}.
func Conflict(w http.ResponseWriter, msg string) {
	Message(w, http.StatusConflict, msg)
}

// ErrorLogger logs persistence and upstream failures and answers them with a
// generic 500 that does not leak the cause.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs msg with err and the request, then writes the 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	e.log.Error(msg, fields...)
	Message(w, http.StatusInternalServerError, serverErrorMessage)
}
