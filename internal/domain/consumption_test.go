package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
)

func validConsumptionInput() domain.ConsumptionInput {
	return domain.ConsumptionInput{
		TripID:        uuid.New(),
		ParticipantID: uuid.New(),
		ProductID:     uuid.New(),
		Date:          time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Meal:          domain.MealDinner,
		Quantity:      2,
	}
}

func TestNewConsumption_Valid(t *testing.T) {
	c, err := domain.NewConsumption(validConsumptionInput())

	require.NoError(t, err)
	assert.Equal(t, domain.MealDinner, c.Meal())
	assert.Equal(t, 2.0, c.Quantity())
}

func TestNewConsumption_QuantityBounds(t *testing.T) {
	for _, q := range []float64{0, 0.009, -1, 10001} {
		in := validConsumptionInput()
		in.Quantity = q

		_, err := domain.NewConsumption(in)

		assert.ErrorIsf(t, err, domain.ErrValidation, "quantity %g must be rejected", q)
	}
}

func TestNewConsumption_QuantityAtBounds(t *testing.T) {
	for _, q := range []float64{0.01, 10000} {
		in := validConsumptionInput()
		in.Quantity = q

		_, err := domain.NewConsumption(in)

		assert.NoErrorf(t, err, "quantity %g is within bounds", q)
	}
}

func TestNewConsumption_MissingReferences(t *testing.T) {
	in := validConsumptionInput()
	in.ParticipantID = uuid.Nil
	in.ProductID = uuid.Nil

	_, err := domain.NewConsumption(in)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
}

func TestNewConsumption_DateNormalizedToDay(t *testing.T) {
	in := validConsumptionInput()
	in.Date = time.Date(2026, 7, 12, 19, 45, 0, 0, time.UTC)

	c, err := domain.NewConsumption(in)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC), c.Date())
}

func TestNewConsumption_InvalidMeal(t *testing.T) {
	in := validConsumptionInput()
	in.Meal = domain.Meal("supper")

	_, err := domain.NewConsumption(in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConsumptionUpdate_QuantityOnly(t *testing.T) {
	c, err := domain.NewConsumption(validConsumptionInput())
	require.NoError(t, err)

	q := 3.5
	updated, err := c.Update(domain.ConsumptionUpdate{Quantity: &q})

	require.NoError(t, err)
	assert.Equal(t, 3.5, updated.Quantity())
	assert.Equal(t, c.Meal(), updated.Meal())
	assert.Equal(t, c.Date(), updated.Date())
}

func TestConsumptionUpdate_InvalidQuantityRejected(t *testing.T) {
	c, err := domain.NewConsumption(validConsumptionInput())
	require.NoError(t, err)

	q := 0.0
	_, err = c.Update(domain.ConsumptionUpdate{Quantity: &q})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConsumption_IsOn(t *testing.T) {
	c, err := domain.NewConsumption(validConsumptionInput())
	require.NoError(t, err)

	assert.True(t, c.IsOn(time.Date(2026, 7, 12, 8, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsOn(time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC)))
}
