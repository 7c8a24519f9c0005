// Package domain contains the immutable entity types for Trip Pantry,
// their construction and validation rules, the closed enumerations they use,
// and the structured error taxonomy the rest of the application consumes.
//
// Every entity has exactly two construction paths: a validated factory
// (NewTrip, NewParticipant, ...) used for fresh user input, and a trusted
// reconstruction function (TripFromProps, ...) used when rehydrating from
// storage. Updates never mutate: they validate only the supplied fields and
// return a new value. Equality is id-based; structural equality is not
// entity equality.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip name length bounds.
const (
	MinTripNameLength = 3
	MaxTripNameLength = 100

	MaxTripDescriptionLength = 500
)

// Trip is the top-level aggregate: participants, consumptions, and
// availabilities all reference a trip by id.
type Trip struct {
	id          uuid.UUID
	name        string
	description string
	startDate   time.Time
	endDate     time.Time
	createdAt   time.Time
	updatedAt   *time.Time
}

// TripInput carries the caller-supplied fields for a new trip.
type TripInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// TripUpdate carries a sparse change-set. Nil pointers mean "leave unchanged";
// only supplied fields are re-validated.
type TripUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// TripProps is the full trusted field set used to reconstruct a Trip from
// storage without re-validating.
type TripProps struct {
	ID          uuid.UUID
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// NewTrip validates the input and returns a new Trip with a fresh id and
// createdAt stamp. Dates are normalized to day granularity.
func NewTrip(in TripInput) (Trip, error) {
	var fields []FieldError

	name, errs := validateName("name", in.Name, MinTripNameLength, MaxTripNameLength)
	fields = append(fields, errs...)

	description, errs := validateOptionalText("description", in.Description, MaxTripDescriptionLength)
	fields = append(fields, errs...)

	start, end := Day(in.StartDate), Day(in.EndDate)
	fields = append(fields, validateTripDates(start, end)...)

	if err := errorOrNil(fields); err != nil {
		return Trip{}, err
	}

	return Trip{
		id:          uuid.New(),
		name:        name,
		description: description,
		startDate:   start,
		endDate:     end,
		createdAt:   time.Now().UTC(),
	}, nil
}

// TripFromProps reconstructs a Trip from trusted, already-persisted props.
// No validation runs on this path.
func TripFromProps(p TripProps) Trip {
	return Trip{
		id:          p.ID,
		name:        p.Name,
		description: p.Description,
		startDate:   p.StartDate,
		endDate:     p.EndDate,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}
}

// Update returns a copy of the trip with the supplied fields replaced and
// updatedAt refreshed. Only supplied fields are validated; the date-range
// rule is checked whenever either date changes, against the effective pair.
func (t Trip) Update(ch TripUpdate) (Trip, error) {
	next := t
	var fields []FieldError

	if ch.Name != nil {
		name, errs := validateName("name", *ch.Name, MinTripNameLength, MaxTripNameLength)
		fields = append(fields, errs...)
		next.name = name
	}
	if ch.Description != nil {
		description, errs := validateOptionalText("description", *ch.Description, MaxTripDescriptionLength)
		fields = append(fields, errs...)
		next.description = description
	}
	if ch.StartDate != nil {
		next.startDate = Day(*ch.StartDate)
	}
	if ch.EndDate != nil {
		next.endDate = Day(*ch.EndDate)
	}
	if ch.StartDate != nil || ch.EndDate != nil {
		fields = append(fields, validateTripDates(next.startDate, next.endDate)...)
	}

	if err := errorOrNil(fields); err != nil {
		return Trip{}, err
	}

	now := time.Now().UTC()
	next.updatedAt = &now
	return next, nil
}

// ValidateTripDates checks an effective startDate/endDate pair. The
// persistence layer calls it after merging a sparse date change onto the
// stored values, so a one-sided change is still judged against its
// counterpart.
func ValidateTripDates(start, end time.Time) error {
	return errorOrNil(validateTripDates(Day(start), Day(end)))
}

func validateTripDates(start, end time.Time) []FieldError {
	var fields []FieldError
	if start.IsZero() {
		fields = append(fields, FieldError{Field: "startDate", Rule: RuleRequired, Message: "startDate is required", Value: start})
	}
	if end.IsZero() {
		fields = append(fields, FieldError{Field: "endDate", Rule: RuleRequired, Message: "endDate is required", Value: end})
	}
	if len(fields) == 0 && start.After(end) {
		fields = append(fields, FieldError{
			Field:   "endDate",
			Rule:    RuleCrossField,
			Message: "endDate must not be before startDate",
			Value:   end,
		})
	}
	return fields
}

func (t Trip) ID() uuid.UUID         { return t.id }
func (t Trip) Name() string          { return t.name }
func (t Trip) Description() string   { return t.description }
func (t Trip) StartDate() time.Time  { return t.startDate }
func (t Trip) EndDate() time.Time    { return t.endDate }
func (t Trip) CreatedAt() time.Time  { return t.createdAt }
func (t Trip) UpdatedAt() *time.Time { return t.updatedAt }

// Props exports the full field set, e.g. for the mapping layer.
func (t Trip) Props() TripProps {
	return TripProps{
		ID:          t.id,
		Name:        t.name,
		Description: t.description,
		StartDate:   t.startDate,
		EndDate:     t.endDate,
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
}

// Equal reports id equality. Two trips with identical fields but different
// ids are not equal.
func (t Trip) Equal(o Trip) bool { return t.id == o.id }

// ContainsDate reports whether d (at day granularity) falls inside the trip's
// inclusive date range.
func (t Trip) ContainsDate(d time.Time) bool {
	day := Day(d)
	return !day.Before(t.startDate) && !day.After(t.endDate)
}

// DurationDays returns the inclusive number of days the trip spans.
// A trip starting and ending on the same day lasts one day.
func (t Trip) DurationDays() int {
	return int(t.endDate.Sub(t.startDate).Hours()/24) + 1
}
