package record_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

func newTrip(t *testing.T) domain.Trip {
	t.Helper()
	trip, err := domain.NewTrip(domain.TripInput{
		Name:      "Beach Week",
		StartDate: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 17, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return trip
}

// ---- Trip --------------------------------------------------------------------

func TestTripRecord_RoundTrip(t *testing.T) {
	trip := newTrip(t)

	props, err := record.NewTripRecord(trip).ToProps()

	require.NoError(t, err)
	restored := domain.TripFromProps(props)
	assert.True(t, trip.Equal(restored))
	assert.Equal(t, trip.Name(), restored.Name())
	assert.Equal(t, trip.StartDate(), restored.StartDate())
	assert.Equal(t, trip.EndDate(), restored.EndDate())
	assert.True(t, trip.CreatedAt().Equal(restored.CreatedAt()), "createdAt keeps sub-second precision")
}

func TestTripRecord_DatesAreDayGranular(t *testing.T) {
	rec := record.NewTripRecord(newTrip(t))

	assert.Equal(t, "2026-07-10", rec.StartDate)
	assert.Equal(t, "2026-07-17", rec.EndDate)
}

func TestTripRecord_MalformedDateFailsLoudly(t *testing.T) {
	rec := record.NewTripRecord(newTrip(t))
	rec.StartDate = "July 10th"

	_, err := rec.ToProps()

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripChanges_AlwaysCarriesUpdatedAt(t *testing.T) {
	now := time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC)

	changes := record.TripChanges(domain.TripUpdate{Name: strPtr("New Name")}, now)

	assert.Equal(t, "New Name", changes["name"])
	assert.Contains(t, changes, "updatedAt")
	assert.NotContains(t, changes, "startDate", "unsupplied fields stay out of the change-set")
}

func TestTripPropsList_PartialFailure(t *testing.T) {
	good := record.NewTripRecord(newTrip(t))
	bad := record.NewTripRecord(newTrip(t))
	bad.ID = "not-a-uuid"

	props, failures := record.TripPropsList([]record.TripRecord{good, bad})

	assert.Len(t, props, 1)
	require.Len(t, failures, 1)
	assert.Equal(t, "not-a-uuid", failures[0].ID)
}

// ---- Product ------------------------------------------------------------------

func TestProductRecord_StaleEnumTagFailsLoudly(t *testing.T) {
	qty := 0.5
	p, err := domain.NewProduct(domain.ProductInput{
		Name: "Penne", Category: domain.CategoryFood, Type: domain.TypePasta,
		Unit: domain.UnitKg, DefaultQuantityPerPerson: &qty,
	})
	require.NoError(t, err)

	rec := record.NewProductRecord(p)
	rec.Type = "noodles" // tag removed from the closed set

	_, err = rec.ToProps()

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductRecord_RoundTripKeepsOptionalQuantity(t *testing.T) {
	p, err := domain.NewProduct(domain.ProductInput{
		Name: "Penne", Category: domain.CategoryFood, Type: domain.TypePasta, Unit: domain.UnitKg,
	})
	require.NoError(t, err)

	props, err := record.NewProductRecord(p).ToProps()

	require.NoError(t, err)
	assert.Nil(t, props.DefaultQuantityPerPerson)
}

func TestProductChanges_ClearEmitsNil(t *testing.T) {
	changes := record.ProductChanges(domain.ProductUpdate{ClearDefaultQuantity: true})

	require.Contains(t, changes, "defaultQuantityPerPerson")
	assert.Nil(t, changes["defaultQuantityPerPerson"], "nil value deletes the key from the stored doc")
}

// ---- Consumption ----------------------------------------------------------------

func TestConsumptionRecord_RoundTrip(t *testing.T) {
	c, err := domain.NewConsumption(domain.ConsumptionInput{
		TripID:        uuid.New(),
		ParticipantID: uuid.New(),
		ProductID:     uuid.New(),
		Date:          time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Meal:          domain.MealSnack,
		Quantity:      0.25,
	})
	require.NoError(t, err)

	props, err := record.NewConsumptionRecord(c).ToProps()

	require.NoError(t, err)
	restored := domain.ConsumptionFromProps(props)
	assert.True(t, c.Equal(restored))
	assert.Equal(t, c.Date(), restored.Date())
	assert.Equal(t, c.Meal(), restored.Meal())
	assert.Equal(t, c.Quantity(), restored.Quantity())
}

func TestConsumptionRecord_Keys(t *testing.T) {
	tripID, participantID := uuid.New(), uuid.New()
	c, err := domain.NewConsumption(domain.ConsumptionInput{
		TripID:        tripID,
		ParticipantID: participantID,
		ProductID:     uuid.New(),
		Date:          time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Meal:          domain.MealDinner,
		Quantity:      1,
	})
	require.NoError(t, err)

	keys := record.NewConsumptionRecord(c).Keys()

	assert.Equal(t, tripID.String(), keys["tripId"])
	assert.Equal(t, participantID.String(), keys["participantId"])
	assert.Equal(t, "2026-07-12", keys["date"])
	assert.Equal(t, "dinner", keys["meal"])
}

// ---- Availability ----------------------------------------------------------------

func TestAvailabilityRecord_RoundTripAndCompositeKey(t *testing.T) {
	participantID, tripID := uuid.New(), uuid.New()
	a, err := domain.NewAvailability(domain.AvailabilityInput{
		ParticipantID: participantID,
		TripID:        tripID,
		Date:          time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Meals:         []domain.Meal{domain.MealDinner, domain.MealBreakfast},
	})
	require.NoError(t, err)

	rec := record.NewAvailabilityRecord(a)

	assert.Equal(t, []string{"breakfast", "dinner"}, rec.Meals, "stored meals are canonical")
	assert.Equal(t,
		participantID.String()+"_"+tripID.String()+"_2026-07-12",
		rec.Keys()["key"])

	props, err := rec.ToProps()
	require.NoError(t, err)
	restored := domain.AvailabilityFromProps(props)
	assert.True(t, a.Equal(restored))
	assert.Equal(t, a.Meals(), restored.Meals())
}

func TestAvailabilityKey(t *testing.T) {
	assert.Equal(t, "p1_t1_2026-07-12", record.AvailabilityKey("p1", "t1", "2026-07-12"))
}

func TestAvailabilityChanges_NormalizesMeals(t *testing.T) {
	changes := record.AvailabilityChanges(domain.AvailabilityUpdate{
		Meals: []domain.Meal{domain.MealDinner, domain.MealBreakfast, domain.MealDinner},
	})

	assert.Equal(t, []string{"breakfast", "dinner"}, changes["meals"])
}

// ---- Participant -----------------------------------------------------------------

func TestParticipantChanges_OnlySuppliedKeys(t *testing.T) {
	changes := record.ParticipantChanges(domain.ParticipantUpdate{Email: strPtr("a@b.co")})

	assert.Equal(t, map[string]any{"email": "a@b.co"}, changes)
}

func strPtr(s string) *string { return &s }
