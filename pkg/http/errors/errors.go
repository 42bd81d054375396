package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// RespondError writes the envelope for status. The message is always the canonical status text.
func RespondError(w http.ResponseWriter, status int, reason string) {
	RespondErrorWithDetail(w, status, reason, "")
}

// RespondErrorWithDetail writes an error envelope with a human-readable detail line.
func RespondErrorWithDetail(w http.ResponseWriter, status int, reason, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: http.StatusText(status),
		Reason:  reason,
		Detail:  detail,
	})
}

// RespondUnprocessable writes a 422 for client data the service cannot act on.
func RespondUnprocessable(w http.ResponseWriter, reason, detail string) {
	RespondErrorWithDetail(w, http.StatusUnprocessableEntity, reason, detail)
}

// RespondInternalError writes a 500. Internal details are never echoed to the client.
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, ReasonInternalError)
}

// RespondNotFound writes a 404 for unknown routes.
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound, ReasonNotFound)
}

// RespondMethodNotAllowed writes a 405 for a known route hit with the wrong verb.
func RespondMethodNotAllowed(w http.ResponseWriter) {
	RespondError(w, http.StatusMethodNotAllowed, ReasonMethodNotAllowed)
}

// RespondUnauthorized writes a 401.
func RespondUnauthorized(w http.ResponseWriter, reason string) {
	RespondError(w, http.StatusUnauthorized, reason)
}

// RespondForbidden writes a 403.
func RespondForbidden(w http.ResponseWriter, reason string) {
	RespondError(w, http.StatusForbidden, reason)
}
