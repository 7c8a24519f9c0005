package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
)

func TestParticipantService_CreateRequiresTrip(t *testing.T) {
	e := newEnv()

	_, err := e.participantSvc.Create(context.Background(), domain.ParticipantInput{
		TripID: uuid.New(),
		Name:   "Alice",
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "trip", nf.Entity)
}

func TestParticipantService_CreateRejectsDuplicateName(t *testing.T) {
	e := newEnv()
	trip := seedTrip(t, e)
	seedParticipant(t, e, trip.ID(), "Alice")

	_, err := e.participantSvc.Create(context.Background(), domain.ParticipantInput{
		TripID: trip.ID(),
		Name:   "alice",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicate, "names are unique per trip, case-insensitively")
}

func TestParticipantService_ListByTripEmpty(t *testing.T) {
	e := newEnv()
	trip := seedTrip(t, e)

	ps, err := e.participantSvc.ListByTrip(context.Background(), trip.ID())

	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}

func TestParticipantService_DeleteGuardedByConsumptions(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	trip := seedTrip(t, e)
	alice := seedParticipant(t, e, trip.ID(), "Alice")
	pasta := seedProduct(t, e, "Penne")
	seedConsumption(t, e, trip.ID(), alice.ID(), pasta.ID(), day(2026, time.July, 11), domain.MealLunch, 0.2)
	seedConsumption(t, e, trip.ID(), alice.ID(), pasta.ID(), day(2026, time.July, 12), domain.MealDinner, 0.3)

	err := e.participantSvc.Delete(ctx, alice.ID(), false)

	require.ErrorIs(t, err, domain.ErrBusinessRule)
	var bre *domain.BusinessRuleError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, int64(2), bre.Details["dependentConsumptions"])

	_, err = e.participantSvc.GetByID(ctx, alice.ID())
	assert.NoError(t, err, "a refused delete leaves the participant in place")
}

func TestParticipantService_ForceDeleteRemovesDependents(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	trip := seedTrip(t, e)
	alice := seedParticipant(t, e, trip.ID(), "Alice")
	bob := seedParticipant(t, e, trip.ID(), "Bob")
	pasta := seedProduct(t, e, "Penne")
	seedConsumption(t, e, trip.ID(), alice.ID(), pasta.ID(), day(2026, time.July, 11), domain.MealLunch, 0.2)
	kept := seedConsumption(t, e, trip.ID(), bob.ID(), pasta.ID(), day(2026, time.July, 11), domain.MealLunch, 0.2)
	_, err := e.availabilitySvc.Create(ctx, domain.AvailabilityInput{
		ParticipantID: alice.ID(),
		TripID:        trip.ID(),
		Date:          day(2026, time.July, 11),
	})
	require.NoError(t, err)

	require.NoError(t, e.participantSvc.Delete(ctx, alice.ID(), true))

	_, err = e.participantSvc.GetByID(ctx, alice.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, err := e.consumptions.CountByParticipantID(ctx, alice.ID())
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = e.availabilities.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = e.consumptionSvc.GetByID(ctx, kept.ID())
	assert.NoError(t, err, "other participants' records are untouched")
}

func TestParticipantService_DeleteCleansAvailabilitiesWithoutForce(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	trip := seedTrip(t, e)
	alice := seedParticipant(t, e, trip.ID(), "Alice")
	_, err := e.availabilitySvc.Create(ctx, domain.AvailabilityInput{
		ParticipantID: alice.ID(),
		TripID:        trip.ID(),
		Date:          day(2026, time.July, 11),
		Meals:         []domain.Meal{domain.MealBreakfast},
	})
	require.NoError(t, err)

	// No consumptions reference Alice, so force is not needed; availabilities
	// never block a delete.
	require.NoError(t, e.participantSvc.Delete(ctx, alice.ID(), false))

	n, err := e.availabilities.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestParticipantService_UpdateEmail(t *testing.T) {
	e := newEnv()
	trip := seedTrip(t, e)
	alice := seedParticipant(t, e, trip.ID(), "Alice")

	email := "Alice@Example.com"
	updated, err := e.participantSvc.Update(context.Background(), alice.ID(), domain.ParticipantUpdate{Email: &email})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", updated.Email())
	assert.Equal(t, "Alice", updated.Name())
}
