package domain

import (
	"time"

	"github.com/google/uuid"
)

// Availability records which meals a participant is present for on one day
// of a trip. At most one record exists per (participantId, tripId, date);
// the repository enforces that via the composite key.
//
// The meal set is always deduplicated and kept in canonical meal order.
type Availability struct {
	id            uuid.UUID
	participantID uuid.UUID
	tripID        uuid.UUID
	date          time.Time
	meals         []Meal
}

// AvailabilityInput carries the caller-supplied fields for a new availability.
type AvailabilityInput struct {
	ParticipantID uuid.UUID
	TripID        uuid.UUID
	Date          time.Time
	Meals         []Meal
}

// AvailabilityUpdate carries a sparse change-set. A nil Meals slice means
// "leave unchanged"; an empty non-nil slice means "present for no meals".
type AvailabilityUpdate struct {
	Date  *time.Time
	Meals []Meal
}

// AvailabilityProps is the trusted field set for reconstruction from storage.
type AvailabilityProps struct {
	ID            uuid.UUID
	ParticipantID uuid.UUID
	TripID        uuid.UUID
	Date          time.Time
	Meals         []Meal
}

// NewAvailability validates the input and returns a new Availability. Meals
// are deduplicated and canonically ordered; the date is normalized to day
// granularity.
func NewAvailability(in AvailabilityInput) (Availability, error) {
	var fields []FieldError

	fields = append(fields, validateRequiredID("participantId", in.ParticipantID.String())...)
	fields = append(fields, validateRequiredID("tripId", in.TripID.String())...)

	if in.Date.IsZero() {
		fields = append(fields, FieldError{Field: "date", Rule: RuleRequired, Message: "date is required", Value: in.Date})
	}
	for _, m := range in.Meals {
		if _, err := ParseMeal(string(m)); err != nil {
			fields = append(fields, FieldError{Field: "meals", Rule: RuleEnum, Message: "invalid meal", Value: m})
		}
	}

	if err := errorOrNil(fields); err != nil {
		return Availability{}, err
	}

	return Availability{
		id:            uuid.New(),
		participantID: in.ParticipantID,
		tripID:        in.TripID,
		date:          Day(in.Date),
		meals:         NormalizeMeals(in.Meals),
	}, nil
}

// AvailabilityFromProps reconstructs an Availability from trusted props.
// Meals are still canonicalized — ordering is a representation invariant,
// not a validation rule.
func AvailabilityFromProps(p AvailabilityProps) Availability {
	return Availability{
		id:            p.ID,
		participantID: p.ParticipantID,
		tripID:        p.TripID,
		date:          p.Date,
		meals:         NormalizeMeals(p.Meals),
	}
}

// Update returns a copy with the supplied fields replaced.
func (a Availability) Update(ch AvailabilityUpdate) (Availability, error) {
	next := a
	var fields []FieldError

	if ch.Date != nil {
		if ch.Date.IsZero() {
			fields = append(fields, FieldError{Field: "date", Rule: RuleRequired, Message: "date is required", Value: *ch.Date})
		}
		next.date = Day(*ch.Date)
	}
	if ch.Meals != nil {
		for _, m := range ch.Meals {
			if _, err := ParseMeal(string(m)); err != nil {
				fields = append(fields, FieldError{Field: "meals", Rule: RuleEnum, Message: "invalid meal", Value: m})
			}
		}
		next.meals = NormalizeMeals(ch.Meals)
	}

	if err := errorOrNil(fields); err != nil {
		return Availability{}, err
	}
	return next, nil
}

func (a Availability) ID() uuid.UUID            { return a.id }
func (a Availability) ParticipantID() uuid.UUID { return a.participantID }
func (a Availability) TripID() uuid.UUID        { return a.tripID }
func (a Availability) Date() time.Time          { return a.date }

// Meals returns a copy of the canonical meal set.
func (a Availability) Meals() []Meal {
	out := make([]Meal, len(a.meals))
	copy(out, a.meals)
	return out
}

// HasMeal reports whether the participant is present for the given meal.
func (a Availability) HasMeal(m Meal) bool {
	for _, have := range a.meals {
		if have == m {
			return true
		}
	}
	return false
}

// Props exports the full field set, e.g. for the mapping layer.
func (a Availability) Props() AvailabilityProps {
	return AvailabilityProps{
		ID:            a.id,
		ParticipantID: a.participantID,
		TripID:        a.tripID,
		Date:          a.date,
		Meals:         a.Meals(),
	}
}

// Equal reports id equality.
func (a Availability) Equal(o Availability) bool { return a.id == o.id }
