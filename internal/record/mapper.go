package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
)

// timestampLayout is used for createdAt/updatedAt; it keeps sub-second
// precision so entity timestamps round-trip losslessly. Day-granular dates
// use domain.DayLayout, which is lossless by construction because the domain
// layer already discarded the time of day.
const timestampLayout = time.RFC3339Nano

// Failure identifies one record that could not be converted in a bulk
// operation. Bulk conversion never aborts a batch; it returns the successes
// alongside the itemized failures.
type Failure struct {
	ID  string
	Err error
}

func (f Failure) Error() string { return fmt.Sprintf("record %q: %v", f.ID, f.Err) }

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, domain.RuleFormat,
			fmt.Sprintf("%s %q is not a valid uuid", field, s), s)
	}
	return id, nil
}

func parseDay(field, s string) (time.Time, error) {
	d, err := time.Parse(domain.DayLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, domain.RuleFormat,
			fmt.Sprintf("%s %q is not a valid ISO date", field, s), s)
	}
	return d, nil
}

func parseTimestamp(field, s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, domain.RuleFormat,
			fmt.Sprintf("%s %q is not a valid ISO timestamp", field, s), s)
	}
	return t, nil
}

// --- Trip --------------------------------------------------------------------

// NewTripRecord serializes a trip to its flat record shape.
func NewTripRecord(t domain.Trip) TripRecord {
	p := t.Props()
	r := TripRecord{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate.Format(domain.DayLayout),
		EndDate:     p.EndDate.Format(domain.DayLayout),
		CreatedAt:   p.CreatedAt.Format(timestampLayout),
	}
	if p.UpdatedAt != nil {
		r.UpdatedAt = p.UpdatedAt.Format(timestampLayout)
	}
	return r
}

// ToProps deserializes the record into trusted domain props, failing loudly
// on malformed ids, dates, or timestamps.
func (r TripRecord) ToProps() (domain.TripProps, error) {
	id, err := parseID("id", r.ID)
	if err != nil {
		return domain.TripProps{}, err
	}
	start, err := parseDay("startDate", r.StartDate)
	if err != nil {
		return domain.TripProps{}, err
	}
	end, err := parseDay("endDate", r.EndDate)
	if err != nil {
		return domain.TripProps{}, err
	}
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return domain.TripProps{}, err
	}
	p := domain.TripProps{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   createdAt,
	}
	if r.UpdatedAt != "" {
		updatedAt, err := parseTimestamp("updatedAt", r.UpdatedAt)
		if err != nil {
			return domain.TripProps{}, err
		}
		p.UpdatedAt = &updatedAt
	}
	return p, nil
}

// TripChanges builds a partial-update record from a sparse change-set. Only
// the supplied keys are emitted — plus a refreshed updatedAt, which a trip
// partial update always carries.
func TripChanges(ch domain.TripUpdate, now time.Time) map[string]any {
	out := map[string]any{"updatedAt": now.UTC().Format(timestampLayout)}
	if ch.Name != nil {
		out["name"] = *ch.Name
	}
	if ch.Description != nil {
		out["description"] = *ch.Description
	}
	if ch.StartDate != nil {
		out["startDate"] = domain.Day(*ch.StartDate).Format(domain.DayLayout)
	}
	if ch.EndDate != nil {
		out["endDate"] = domain.Day(*ch.EndDate).Format(domain.DayLayout)
	}
	return out
}

// TripRecords serializes a slice of trips elementwise.
func TripRecords(trips []domain.Trip) []TripRecord {
	out := make([]TripRecord, len(trips))
	for i, t := range trips {
		out[i] = NewTripRecord(t)
	}
	return out
}

// TripPropsList deserializes a batch of records. Invalid records are reported
// in the failure list, identified by record id; valid ones are still returned.
func TripPropsList(recs []TripRecord) ([]domain.TripProps, []Failure) {
	props := make([]domain.TripProps, 0, len(recs))
	var failures []Failure
	for _, r := range recs {
		p, err := r.ToProps()
		if err != nil {
			failures = append(failures, Failure{ID: r.ID, Err: err})
			continue
		}
		props = append(props, p)
	}
	return props, failures
}

// --- Participant ---------------------------------------------------------------

// NewParticipantRecord serializes a participant to its flat record shape.
func NewParticipantRecord(p domain.Participant) ParticipantRecord {
	props := p.Props()
	return ParticipantRecord{
		ID:        props.ID.String(),
		TripID:    props.TripID.String(),
		Name:      props.Name,
		Email:     props.Email,
		Notes:     props.Notes,
		CreatedAt: props.CreatedAt.Format(timestampLayout),
	}
}

// ToProps deserializes the record into trusted domain props.
func (r ParticipantRecord) ToProps() (domain.ParticipantProps, error) {
	id, err := parseID("id", r.ID)
	if err != nil {
		return domain.ParticipantProps{}, err
	}
	tripID, err := parseID("tripId", r.TripID)
	if err != nil {
		return domain.ParticipantProps{}, err
	}
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return domain.ParticipantProps{}, err
	}
	return domain.ParticipantProps{
		ID:        id,
		TripID:    tripID,
		Name:      r.Name,
		Email:     r.Email,
		Notes:     r.Notes,
		CreatedAt: createdAt,
	}, nil
}

// ParticipantChanges builds a partial-update record from a sparse change-set.
func ParticipantChanges(ch domain.ParticipantUpdate) map[string]any {
	out := map[string]any{}
	if ch.Name != nil {
		out["name"] = *ch.Name
	}
	if ch.Email != nil {
		out["email"] = *ch.Email
	}
	if ch.Notes != nil {
		out["notes"] = *ch.Notes
	}
	return out
}

// ParticipantRecords serializes a slice of participants elementwise.
func ParticipantRecords(ps []domain.Participant) []ParticipantRecord {
	out := make([]ParticipantRecord, len(ps))
	for i, p := range ps {
		out[i] = NewParticipantRecord(p)
	}
	return out
}

// ParticipantPropsList deserializes a batch of records; see TripPropsList.
func ParticipantPropsList(recs []ParticipantRecord) ([]domain.ParticipantProps, []Failure) {
	props := make([]domain.ParticipantProps, 0, len(recs))
	var failures []Failure
	for _, r := range recs {
		p, err := r.ToProps()
		if err != nil {
			failures = append(failures, Failure{ID: r.ID, Err: err})
			continue
		}
		props = append(props, p)
	}
	return props, failures
}

// --- Product -------------------------------------------------------------------

// NewProductRecord serializes a product to its flat record shape.
func NewProductRecord(p domain.Product) ProductRecord {
	props := p.Props()
	return ProductRecord{
		ID:                       props.ID.String(),
		Name:                     props.Name,
		Category:                 string(props.Category),
		Type:                     string(props.Type),
		Unit:                     string(props.Unit),
		DefaultQuantityPerPerson: props.DefaultQuantityPerPerson,
		Notes:                    props.Notes,
		CreatedAt:                props.CreatedAt.Format(timestampLayout),
	}
}

// ToProps deserializes the record into trusted domain props. Stored enum tags
// are validated against the current closed sets — a tag that is no longer
// valid fails the record instead of being coerced or defaulted.
func (r ProductRecord) ToProps() (domain.ProductProps, error) {
	id, err := parseID("id", r.ID)
	if err != nil {
		return domain.ProductProps{}, err
	}
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.ProductProps{}, err
	}
	productType, err := domain.ParseProductType(r.Type)
	if err != nil {
		return domain.ProductProps{}, err
	}
	unit, err := domain.ParseUnit(r.Unit)
	if err != nil {
		return domain.ProductProps{}, err
	}
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return domain.ProductProps{}, err
	}
	return domain.ProductProps{
		ID:                       id,
		Name:                     r.Name,
		Category:                 category,
		Type:                     productType,
		Unit:                     unit,
		DefaultQuantityPerPerson: r.DefaultQuantityPerPerson,
		Notes:                    r.Notes,
		CreatedAt:                createdAt,
	}, nil
}

// ProductChanges builds a partial-update record from a sparse change-set.
func ProductChanges(ch domain.ProductUpdate) map[string]any {
	out := map[string]any{}
	if ch.Name != nil {
		out["name"] = *ch.Name
	}
	if ch.Category != nil {
		out["category"] = string(*ch.Category)
	}
	if ch.Type != nil {
		out["type"] = string(*ch.Type)
	}
	if ch.Unit != nil {
		out["unit"] = string(*ch.Unit)
	}
	if ch.ClearDefaultQuantity {
		out["defaultQuantityPerPerson"] = nil
	} else if ch.DefaultQuantityPerPerson != nil {
		out["defaultQuantityPerPerson"] = *ch.DefaultQuantityPerPerson
	}
	if ch.Notes != nil {
		out["notes"] = *ch.Notes
	}
	return out
}

// ProductRecords serializes a slice of products elementwise.
func ProductRecords(ps []domain.Product) []ProductRecord {
	out := make([]ProductRecord, len(ps))
	for i, p := range ps {
		out[i] = NewProductRecord(p)
	}
	return out
}

// ProductPropsList deserializes a batch of records; see TripPropsList.
func ProductPropsList(recs []ProductRecord) ([]domain.ProductProps, []Failure) {
	props := make([]domain.ProductProps, 0, len(recs))
	var failures []Failure
	for _, r := range recs {
		p, err := r.ToProps()
		if err != nil {
			failures = append(failures, Failure{ID: r.ID, Err: err})
			continue
		}
		props = append(props, p)
	}
	return props, failures
}

// --- Consumption -----------------------------------------------------------------

// NewConsumptionRecord serializes a consumption to its flat record shape.
func NewConsumptionRecord(c domain.Consumption) ConsumptionRecord {
	props := c.Props()
	return ConsumptionRecord{
		ID:            props.ID.String(),
		TripID:        props.TripID.String(),
		ParticipantID: props.ParticipantID.String(),
		ProductID:     props.ProductID.String(),
		Date:          props.Date.Format(domain.DayLayout),
		Meal:          string(props.Meal),
		Quantity:      props.Quantity,
		CreatedAt:     props.CreatedAt.Format(timestampLayout),
	}
}

// ToProps deserializes the record into trusted domain props, validating the
// stored meal tag against the current closed set.
func (r ConsumptionRecord) ToProps() (domain.ConsumptionProps, error) {
	id, err := parseID("id", r.ID)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	tripID, err := parseID("tripId", r.TripID)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	participantID, err := parseID("participantId", r.ParticipantID)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	productID, err := parseID("productId", r.ProductID)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	date, err := parseDay("date", r.Date)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	meal, err := domain.ParseMeal(r.Meal)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return domain.ConsumptionProps{}, err
	}
	return domain.ConsumptionProps{
		ID:            id,
		TripID:        tripID,
		ParticipantID: participantID,
		ProductID:     productID,
		Date:          date,
		Meal:          meal,
		Quantity:      r.Quantity,
		CreatedAt:     createdAt,
	}, nil
}

// ConsumptionChanges builds a partial-update record from a sparse change-set.
func ConsumptionChanges(ch domain.ConsumptionUpdate) map[string]any {
	out := map[string]any{}
	if ch.Date != nil {
		out["date"] = domain.Day(*ch.Date).Format(domain.DayLayout)
	}
	if ch.Meal != nil {
		out["meal"] = string(*ch.Meal)
	}
	if ch.Quantity != nil {
		out["quantity"] = *ch.Quantity
	}
	return out
}

// ConsumptionRecords serializes a slice of consumptions elementwise.
func ConsumptionRecords(cs []domain.Consumption) []ConsumptionRecord {
	out := make([]ConsumptionRecord, len(cs))
	for i, c := range cs {
		out[i] = NewConsumptionRecord(c)
	}
	return out
}

// ConsumptionPropsList deserializes a batch of records; see TripPropsList.
func ConsumptionPropsList(recs []ConsumptionRecord) ([]domain.ConsumptionProps, []Failure) {
	props := make([]domain.ConsumptionProps, 0, len(recs))
	var failures []Failure
	for _, r := range recs {
		p, err := r.ToProps()
		if err != nil {
			failures = append(failures, Failure{ID: r.ID, Err: err})
			continue
		}
		props = append(props, p)
	}
	return props, failures
}

// --- Availability ------------------------------------------------------------------

// NewAvailabilityRecord serializes an availability to its flat record shape.
// Meals are already canonical on the entity; the record preserves that order.
func NewAvailabilityRecord(a domain.Availability) AvailabilityRecord {
	props := a.Props()
	meals := make([]string, len(props.Meals))
	for i, m := range props.Meals {
		meals[i] = string(m)
	}
	return AvailabilityRecord{
		ID:            props.ID.String(),
		ParticipantID: props.ParticipantID.String(),
		TripID:        props.TripID.String(),
		Date:          props.Date.Format(domain.DayLayout),
		Meals:         meals,
	}
}

// ToProps deserializes the record into trusted domain props, validating every
// stored meal tag.
func (r AvailabilityRecord) ToProps() (domain.AvailabilityProps, error) {
	id, err := parseID("id", r.ID)
	if err != nil {
		return domain.AvailabilityProps{}, err
	}
	participantID, err := parseID("participantId", r.ParticipantID)
	if err != nil {
		return domain.AvailabilityProps{}, err
	}
	tripID, err := parseID("tripId", r.TripID)
	if err != nil {
		return domain.AvailabilityProps{}, err
	}
	date, err := parseDay("date", r.Date)
	if err != nil {
		return domain.AvailabilityProps{}, err
	}
	meals := make([]domain.Meal, len(r.Meals))
	for i, s := range r.Meals {
		m, err := domain.ParseMeal(s)
		if err != nil {
			return domain.AvailabilityProps{}, err
		}
		meals[i] = m
	}
	return domain.AvailabilityProps{
		ID:            id,
		ParticipantID: participantID,
		TripID:        tripID,
		Date:          date,
		Meals:         meals,
	}, nil
}

// AvailabilityChanges builds a partial-update record from a sparse change-set.
func AvailabilityChanges(ch domain.AvailabilityUpdate) map[string]any {
	out := map[string]any{}
	if ch.Date != nil {
		out["date"] = domain.Day(*ch.Date).Format(domain.DayLayout)
	}
	if ch.Meals != nil {
		meals := domain.NormalizeMeals(ch.Meals)
		tags := make([]string, len(meals))
		for i, m := range meals {
			tags[i] = string(m)
		}
		out["meals"] = tags
	}
	return out
}

// AvailabilityRecords serializes a slice of availabilities elementwise.
func AvailabilityRecords(as []domain.Availability) []AvailabilityRecord {
	out := make([]AvailabilityRecord, len(as))
	for i, a := range as {
		out[i] = NewAvailabilityRecord(a)
	}
	return out
}

// AvailabilityPropsList deserializes a batch of records; see TripPropsList.
func AvailabilityPropsList(recs []AvailabilityRecord) ([]domain.AvailabilityProps, []Failure) {
	props := make([]domain.AvailabilityProps, 0, len(recs))
	var failures []Failure
	for _, r := range recs {
		p, err := r.ToProps()
		if err != nil {
			failures = append(failures, Failure{ID: r.ID, Err: err})
			continue
		}
		props = append(props, p)
	}
	return props, failures
}
