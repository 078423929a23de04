package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/campdir/backend/internal/domain"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong. Details carries one entry per
// offending field for validation failures.
type ErrorDetail struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []domain.FieldViolation `json:"details,omitempty"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "camp not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure,
// listing every violated field when the error carries them.
func validationBody(err error) ErrorResponse {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: strings.Join(verr.Messages(), ", "),
			Details: verr.Violations,
		}}
	}
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: err.Error()}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// writeJSON encodes v with the given status. Encoding errors are ignored:
// the header is already sent and there is nothing useful left to do.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP responses. resource names what
// was being looked up, for the 404 message. Unknown errors are logged and
// reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var (
		conflict   *domain.ConflictError
		referenced *domain.ReferencedError
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.As(err, &referenced):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:    "conflict",
			Message: resource + " is still referenced",
			Details: []domain.FieldViolation{{Field: referenced.Field, Message: referenced.Error()}},
		}})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code:    "conflict",
			Message: "Duplicate field value entered",
			Details: []domain.FieldViolation{{Field: conflict.Field, Message: conflict.Error()}},
		}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(resource+" not found"))
	case errors.Is(err, domain.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{
			Code:    "upstream_error",
			Message: "address could not be geocoded",
		}})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}

// decodeBody reads a JSON request body into dst. A body over the size limit
// gets a 413; anything else unreadable gets a 422. It reports whether the
// caller should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body is required"))
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
				Code:    "payload_too_large",
				Message: "request body too large",
			}})
			return false
		}
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body must be valid JSON"))
		return false
	}
	return true
}
