package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
)

// errorDetail is the wire shape of one API error.
type errorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Fields  []fieldError   `json:"fields,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// fieldError is the wire shape of one violated validation rule.
type fieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// errorResponse is the envelope every non-2xx response carries.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON serializes v as the response body with the given status.
// Encoding failures after the header is written can only be logged by the
// server's error handler, so they are ignored here.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its HTTP status and serializes the
// structured body: validation failures are 422, missing entities 404,
// uniqueness and business-rule conflicts 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fields := make([]fieldError, len(ve.Fields))
		for i, f := range ve.Fields {
			fields[i] = fieldError{Field: f.Field, Rule: f.Rule, Message: f.Message}
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{
			Code:    ve.Code,
			Message: ve.Message,
			Fields:  fields,
		}})
		return
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorDetail{
			Code:    nf.Code,
			Message: nf.Message,
		}})
		return
	}

	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{
			Code:    dup.Code,
			Message: dup.Message,
			Details: dup.Details,
		}})
		return
	}

	var br *domain.BusinessRuleError
	if errors.As(err, &br) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{
			Code:    br.Code,
			Message: br.Message,
			Details: br.Details,
		}})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorDetail{
		Code:    "internal_error",
		Message: "internal server error",
	}})
}

// decodeJSON parses the request body into dst. Oversized bodies (cut off by
// http.MaxBytesReader) map to 413; anything else unparseable maps to a 422
// validation failure, matching how field-level rule violations surface.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: errorDetail{
				Code:    "body_too_large",
				Message: "request body exceeds the size limit",
			}})
			return false
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{
			Code:    "validation_error",
			Message: "request body is not valid JSON: " + err.Error(),
		}})
		return false
	}
	return true
}

// parseUUID parses a path or query parameter as a UUID, writing a 422 on
// failure.
func parseUUID(w http.ResponseWriter, name, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{
			Code:    "validation_error",
			Message: name + " must be a valid UUID",
		}})
		return uuid.Nil, false
	}
	return id, true
}

// parseDay parses a "2006-01-02" date parameter, writing a 422 on failure.
// An empty raw value returns the zero time without error so callers can treat
// the parameter as optional.
func parseDay(w http.ResponseWriter, name, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	d, err := time.Parse(domain.DayLayout, raw)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{
			Code:    "validation_error",
			Message: name + " must be a date in the form 2006-01-02",
		}})
		return time.Time{}, false
	}
	return d, true
}
