package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

type successBody struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SuccessResponse writes data wrapped in a success envelope.
func SuccessResponse(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, successBody{Status: "success", Data: data})
}

// ErrorResponse writes message wrapped in an error envelope.
func ErrorResponse(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorBody{Status: "error", Message: message})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// StatusFor maps a service error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errcodes.ErrNoRecordFound), errors.Is(err, errcodes.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errcodes.ErrAlreadyExists),
		errors.Is(err, errcodes.ErrDuplicateAccount),
		errors.Is(err, errcodes.ErrRepositoryLocked):
		return http.StatusConflict
	case errors.Is(err, errcodes.ErrInvalidUsername),
		errors.Is(err, errcodes.ErrInvalidEntityType),
		errors.Is(err, errcodes.ErrInvalidEntityClass),
		errors.Is(err, errcodes.ErrInvalidEntityData),
		errors.Is(err, errcodes.ErrInvalidCondition),
		errors.Is(err, errcodes.ErrUnknownBackend),
		errors.Is(err, errcodes.ErrUnknownPlugin),
		errors.Is(err, errcodes.ErrRepositoryUnresolved):
		return http.StatusBadRequest
	case errors.Is(err, errcodes.ErrContextCancelled), errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// StatusClientClosedRequest is the non-standard status nginx uses when the
// client goes away before the response is written.
const StatusClientClosedRequest = 499

// Error writes err with the status StatusFor picks for it. Internal errors
// are not echoed back to the client.
func Error(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		ErrorResponse(w, code, http.StatusText(code))
		return
	}
	ErrorResponse(w, code, err.Error())
}
