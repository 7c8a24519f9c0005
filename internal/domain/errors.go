package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel error kinds. Structured error types below implement Is() against
// these, so callers can classify failures with errors.Is without losing the
// structured payload carried by the concrete type:
//
//	if errors.Is(err, domain.ErrValidation) { ... }
//	var dup *domain.DuplicateError
//	if errors.As(err, &dup) { ... dup.Key ... }
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate")
	ErrBusinessRule = errors.New("business rule violation")
)

// Rule names a violated validation rule inside a FieldError.
const (
	RuleRequired   = "required"
	RuleLength     = "length"
	RuleFormat     = "format"
	RuleRange      = "range"
	RuleEnum       = "enum"
	RuleCrossField = "cross_field"
)

// baseError is the failure shape shared by every structured domain error.
// Code is a stable machine-readable tag, Details carries whatever structured
// context the specialization wants to expose, and Time records when the
// failure was raised. The type stays unexported so an embedded field never
// collides with the Error method the specializations promote; Code, Message,
// Details and Time still promote as exported fields.
type baseError struct {
	Code    string
	Message string
	Details map[string]any
	Time    time.Time
}

func newError(code, message string, details map[string]any) *baseError {
	return &baseError{Code: code, Message: message, Details: details, Time: time.Now().UTC()}
}

func (e *baseError) Error() string { return e.Message }

// FieldError describes one violated rule on one field.
type FieldError struct {
	Field   string
	Rule    string
	Message string
	Value   any
}

func (f FieldError) Error() string { return f.Message }

// ValidationError reports one or more field-level rule violations. It is
// raised at entity construction/update time and by the mapping layer when a
// stored record carries a value that no longer parses.
type ValidationError struct {
	*baseError
	Fields []FieldError
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, rule, message string, value any) *ValidationError {
	return NewValidationErrors(FieldError{Field: field, Rule: rule, Message: message, Value: value})
}

// NewValidationErrors builds a batch validation failure. The aggregate
// message joins the individual messages; Details maps each field to the
// rules it violated (a field can fail more than one), and the itemized
// list stays available on Fields.
func NewValidationErrors(fields ...FieldError) *ValidationError {
	msgs := make([]string, len(fields))
	details := make(map[string]any, len(fields))
	for i, f := range fields {
		msgs[i] = f.Message
		rules, _ := details[f.Field].([]string)
		details[f.Field] = append(rules, f.Rule)
	}
	return &ValidationError{
		baseError: newError("validation_error", strings.Join(msgs, "; "), details),
		Fields:    fields,
	}
}

// Is reports whether target is the ErrValidation sentinel.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a failed lookup, either by id or by a structured
// criteria map — the message differs depending on which was supplied.
type NotFoundError struct {
	*baseError
	Entity   string
	ID       string
	Criteria map[string]any
}

// NewNotFoundError reports that no entity of the given kind has the given id.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		baseError: newError("not_found", fmt.Sprintf("%s with id %q not found", entity, id), map[string]any{"id": id}),
		Entity:    entity,
		ID:        id,
	}
}

// NewNotFoundByCriteria reports that no entity matched a search-criteria map.
func NewNotFoundByCriteria(entity string, criteria map[string]any) *NotFoundError {
	return &NotFoundError{
		baseError: newError("not_found", fmt.Sprintf("%s matching %v not found", entity, criteria), criteria),
		Entity:    entity,
		Criteria:  criteria,
	}
}

// Is reports whether target is the ErrNotFound sentinel.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError reports a uniqueness violation, either on a single field or
// on a composite key (e.g. {participantId, tripId, date} for an availability).
type DuplicateError struct {
	*baseError
	Entity string
	Field  string
	Value  any
	Key    map[string]any
}

// NewDuplicateError reports a single-field uniqueness violation.
func NewDuplicateError(entity, field string, value any) *DuplicateError {
	return &DuplicateError{
		baseError: newError("duplicate",
			fmt.Sprintf("%s with %s %v already exists", entity, field, value),
			map[string]any{field: value}),
		Entity: entity,
		Field:  field,
		Value:  value,
	}
}

// NewDuplicateKeyError reports a composite-key uniqueness violation.
func NewDuplicateKeyError(entity string, key map[string]any) *DuplicateError {
	return &DuplicateError{
		baseError: newError("duplicate", fmt.Sprintf("%s with key %v already exists", entity, key), key),
		Entity:    entity,
		Key:       key,
	}
}

// Is reports whether target is the ErrDuplicate sentinel.
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// BusinessRuleError reports a violated cross-entity business rule, e.g. an
// attempt to delete a participant that still has consumption records. Details
// carries enough structure (dependent counts, offending id) for the caller to
// decide whether to retry with force.
type BusinessRuleError struct {
	*baseError
	Entity string
	ID     string
}

// NewBusinessRuleError builds a business-rule failure for the given entity/id.
func NewBusinessRuleError(entity, id, message string, details map[string]any) *BusinessRuleError {
	return &BusinessRuleError{
		baseError: newError("business_rule", message, details),
		Entity:    entity,
		ID:        id,
	}
}

// Is reports whether target is the ErrBusinessRule sentinel.
func (e *BusinessRuleError) Is(target error) bool { return target == ErrBusinessRule }

// DeserializationError reports stored records that no longer decode into the
// current record shape. It is raised by the persistence layer when reading a
// collection, so callers can tell data corruption apart from the request-level
// error kinds above.
type DeserializationError struct {
	*baseError
	Entity string
	IDs    []string
}

// NewDeserializationError builds a decode failure covering the given record ids.
func NewDeserializationError(entity string, ids []string, details map[string]any) *DeserializationError {
	return &DeserializationError{
		baseError: newError("deserialization_failed",
			fmt.Sprintf("%d %s record(s) failed to deserialize: %v", len(ids), entity, ids),
			details),
		Entity: entity,
		IDs:    ids,
	}
}
