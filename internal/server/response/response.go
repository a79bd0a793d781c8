// Package response writes the JSON envelope shared by every dashboard API
// endpoint: a data field on success and an error field on failure.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
)

// Response is the API envelope.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
	Meta  *Meta  `json:"meta,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta carries pagination for list endpoints.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success wraps data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail builds an error envelope.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data with 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Page writes one page of a list with its pagination meta.
func Page(w http.ResponseWriter, data any, meta Meta) {
	JSON(w, http.StatusOK, Response{Data: data, Meta: &meta})
}

// BadRequest writes a 400.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// UnsupportedMediaType writes a 415.
func UnsupportedMediaType(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnsupportedMediaType, Fail("UNSUPPORTED_FORMAT", message, ""))
}

// Unprocessable writes a 422.
func Unprocessable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnprocessableEntity, Fail("MISSING_COLUMN", message, ""))
}

// InternalError writes a 500 without exposing err to the client.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ServiceUnavailable writes a 503.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail("SERVICE_UNAVAILABLE", "Service unavailable", message))
}

// ErrorFromType maps the roster error taxonomy to a status code. Server
// side failures are logged through the request logger.
func ErrorFromType(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *errors.NotFoundError
		validation *errors.ValidationError
		column     *errors.ColumnError
		parse      *errors.ParseError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(w, validation.Error(), "")
	case errors.As(err, &parse):
		BadRequest(w, "Could not parse dataset", parse.Error())
	case errors.IsUnsupportedFormat(err):
		UnsupportedMediaType(w, err.Error())
	case errors.As(err, &column):
		Unprocessable(w, column.Error())
	case errors.As(err, &notFound):
		NotFound(w, notFound.Error(), "")
	default:
		logging.FromContext(r.Context()).Error().Err(err).Msg("Request failed")
		InternalError(w, err)
	}
}
