package domain

import (
	"time"

	"github.com/google/uuid"
)

// Consumption records that a participant consumed a quantity of a product
// for one meal on one day of a trip. The date carries day granularity only;
// any time of day supplied by the caller is discarded.
type Consumption struct {
	id            uuid.UUID
	tripID        uuid.UUID
	participantID uuid.UUID
	productID     uuid.UUID
	date          time.Time
	meal          Meal
	quantity      float64
	createdAt     time.Time
}

// ConsumptionInput carries the caller-supplied fields for a new consumption.
type ConsumptionInput struct {
	TripID        uuid.UUID
	ParticipantID uuid.UUID
	ProductID     uuid.UUID
	Date          time.Time
	Meal          Meal
	Quantity      float64
}

// ConsumptionUpdate carries a sparse change-set. Updating quantity alone
// must not re-validate meal — legacy records with a stale meal tag can still
// migrate through quantity corrections.
type ConsumptionUpdate struct {
	Date     *time.Time
	Meal     *Meal
	Quantity *float64
}

// ConsumptionProps is the trusted field set for reconstruction from storage.
type ConsumptionProps struct {
	ID            uuid.UUID
	TripID        uuid.UUID
	ParticipantID uuid.UUID
	ProductID     uuid.UUID
	Date          time.Time
	Meal          Meal
	Quantity      float64
	CreatedAt     time.Time
}

// NewConsumption validates the input and returns a new Consumption with a
// fresh id and createdAt stamp.
func NewConsumption(in ConsumptionInput) (Consumption, error) {
	var fields []FieldError

	fields = append(fields, validateRequiredID("tripId", in.TripID.String())...)
	fields = append(fields, validateRequiredID("participantId", in.ParticipantID.String())...)
	fields = append(fields, validateRequiredID("productId", in.ProductID.String())...)

	if in.Date.IsZero() {
		fields = append(fields, FieldError{Field: "date", Rule: RuleRequired, Message: "date is required", Value: in.Date})
	}
	if _, err := ParseMeal(string(in.Meal)); err != nil {
		fields = append(fields, FieldError{Field: "meal", Rule: RuleEnum, Message: "invalid meal", Value: in.Meal})
	}
	fields = append(fields, validateQuantity("quantity", in.Quantity, MinQuantity, MaxQuantity)...)

	if err := errorOrNil(fields); err != nil {
		return Consumption{}, err
	}

	return Consumption{
		id:            uuid.New(),
		tripID:        in.TripID,
		participantID: in.ParticipantID,
		productID:     in.ProductID,
		date:          Day(in.Date),
		meal:          in.Meal,
		quantity:      in.Quantity,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ConsumptionFromProps reconstructs a Consumption from trusted props without
// re-validating.
func ConsumptionFromProps(p ConsumptionProps) Consumption {
	return Consumption{
		id:            p.ID,
		tripID:        p.TripID,
		participantID: p.ParticipantID,
		productID:     p.ProductID,
		date:          p.Date,
		meal:          p.Meal,
		quantity:      p.Quantity,
		createdAt:     p.CreatedAt,
	}
}

// Update returns a copy with the supplied fields replaced. Only supplied
// fields are re-validated.
func (c Consumption) Update(ch ConsumptionUpdate) (Consumption, error) {
	next := c
	var fields []FieldError

	if ch.Date != nil {
		if ch.Date.IsZero() {
			fields = append(fields, FieldError{Field: "date", Rule: RuleRequired, Message: "date is required", Value: *ch.Date})
		}
		next.date = Day(*ch.Date)
	}
	if ch.Meal != nil {
		if _, err := ParseMeal(string(*ch.Meal)); err != nil {
			fields = append(fields, FieldError{Field: "meal", Rule: RuleEnum, Message: "invalid meal", Value: *ch.Meal})
		}
		next.meal = *ch.Meal
	}
	if ch.Quantity != nil {
		fields = append(fields, validateQuantity("quantity", *ch.Quantity, MinQuantity, MaxQuantity)...)
		next.quantity = *ch.Quantity
	}

	if err := errorOrNil(fields); err != nil {
		return Consumption{}, err
	}
	return next, nil
}

func (c Consumption) ID() uuid.UUID            { return c.id }
func (c Consumption) TripID() uuid.UUID        { return c.tripID }
func (c Consumption) ParticipantID() uuid.UUID { return c.participantID }
func (c Consumption) ProductID() uuid.UUID     { return c.productID }
func (c Consumption) Date() time.Time          { return c.date }
func (c Consumption) Meal() Meal               { return c.meal }
func (c Consumption) Quantity() float64        { return c.quantity }
func (c Consumption) CreatedAt() time.Time     { return c.createdAt }

// Props exports the full field set, e.g. for the mapping layer.
func (c Consumption) Props() ConsumptionProps {
	return ConsumptionProps{
		ID:            c.id,
		TripID:        c.tripID,
		ParticipantID: c.participantID,
		ProductID:     c.productID,
		Date:          c.date,
		Meal:          c.meal,
		Quantity:      c.quantity,
		CreatedAt:     c.createdAt,
	}
}

// Equal reports id equality.
func (c Consumption) Equal(o Consumption) bool { return c.id == o.id }

// IsOn reports whether the consumption happened on the given UTC day.
func (c Consumption) IsOn(d time.Time) bool { return SameDay(c.date, d) }
