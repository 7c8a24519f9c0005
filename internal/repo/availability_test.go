package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
	"github.com/avoss/trip-pantry/internal/store/memory"
)

func newAvailability(t *testing.T, participantID, tripID uuid.UUID, date time.Time, meals ...domain.Meal) domain.Availability {
	t.Helper()
	a, err := domain.NewAvailability(domain.AvailabilityInput{
		ParticipantID: participantID,
		TripID:        tripID,
		Date:          date,
		Meals:         meals,
	})
	require.NoError(t, err)
	return a
}

func TestAvailabilityRepo_SaveRejectsDuplicateDay(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	alice := uuid.New()
	tripID := uuid.New()
	sat := day(2026, time.July, 11)
	require.NoError(t, availabilities.Save(ctx, newAvailability(t, alice, tripID, sat, domain.MealDinner)))

	err := availabilities.Save(ctx, newAvailability(t, alice, tripID, sat, domain.MealBreakfast))

	require.ErrorIs(t, err, domain.ErrDuplicate)
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "2026-07-11", dup.Key["date"])
}

func TestAvailabilityRepo_SaveAllowsOtherDayAndOtherParticipant(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	alice := uuid.New()
	tripID := uuid.New()
	require.NoError(t, availabilities.Save(ctx, newAvailability(t, alice, tripID, day(2026, time.July, 11))))

	assert.NoError(t, availabilities.Save(ctx, newAvailability(t, alice, tripID, day(2026, time.July, 12))))
	assert.NoError(t, availabilities.Save(ctx, newAvailability(t, uuid.New(), tripID, day(2026, time.July, 11))))
}

func TestAvailabilityRepo_SaveIsIdempotentPerRecord(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	a := newAvailability(t, uuid.New(), uuid.New(), day(2026, time.July, 11), domain.MealLunch)
	require.NoError(t, availabilities.Save(ctx, a))

	// Re-saving the same record must not collide with itself.
	require.NoError(t, availabilities.Save(ctx, a))
	n, err := availabilities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAvailabilityRepo_FindForDay(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	alice := uuid.New()
	tripID := uuid.New()
	a := newAvailability(t, alice, tripID, day(2026, time.July, 11), domain.MealBreakfast, domain.MealDinner)
	require.NoError(t, availabilities.Save(ctx, a))

	got, err := availabilities.FindForDay(ctx, alice, tripID, time.Date(2026, time.July, 11, 9, 0, 0, 0, time.UTC))

	require.NoError(t, err, "lookups match at day granularity")
	assert.Equal(t, a.ID(), got.ID())
	assert.Equal(t, []domain.Meal{domain.MealBreakfast, domain.MealDinner}, got.Meals())
}

func TestAvailabilityRepo_FindForDayNotFound(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	alice := uuid.New()
	tripID := uuid.New()

	_, err := availabilities.FindForDay(context.Background(), alice, tripID, day(2026, time.July, 11))

	require.ErrorIs(t, err, domain.ErrNotFound)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "2026-07-11", nf.Criteria["date"])
}

func TestAvailabilityRepo_FindByTripIDOrderedByDate(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	sun := newAvailability(t, uuid.New(), tripID, day(2026, time.July, 12))
	sat := newAvailability(t, uuid.New(), tripID, day(2026, time.July, 11))
	require.NoError(t, availabilities.SaveMany(ctx, []domain.Availability{sun, sat}))
	require.NoError(t, availabilities.Save(ctx, newAvailability(t, uuid.New(), uuid.New(), day(2026, time.July, 11))))

	got, err := availabilities.FindByTripID(ctx, tripID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sat.ID(), got[0].ID())
	assert.Equal(t, sun.ID(), got[1].ID())
}

func TestAvailabilityRepo_PartialUpdateDateOntoOccupiedDay(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	alice := uuid.New()
	tripID := uuid.New()
	require.NoError(t, availabilities.Save(ctx, newAvailability(t, alice, tripID, day(2026, time.July, 11))))
	moved := newAvailability(t, alice, tripID, day(2026, time.July, 12))
	require.NoError(t, availabilities.Save(ctx, moved))

	occupied := day(2026, time.July, 11)
	err := availabilities.PartialUpdate(ctx, moved.ID(), domain.AvailabilityUpdate{Date: &occupied})

	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAvailabilityRepo_PartialUpdateMeals(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	a := newAvailability(t, uuid.New(), uuid.New(), day(2026, time.July, 11), domain.MealBreakfast)
	require.NoError(t, availabilities.Save(ctx, a))

	err := availabilities.PartialUpdate(ctx, a.ID(), domain.AvailabilityUpdate{
		Meals: []domain.Meal{domain.MealDinner, domain.MealLunch, domain.MealDinner},
	})

	require.NoError(t, err)
	got, err := availabilities.FindByID(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, []domain.Meal{domain.MealLunch, domain.MealDinner}, got.Meals(), "stored meals are deduplicated and canonical")
}

func TestAvailabilityRepo_DeleteByTripID(t *testing.T) {
	availabilities := repo.NewAvailabilityRepo(memory.New())
	ctx := context.Background()
	tripID := uuid.New()
	require.NoError(t, availabilities.SaveMany(ctx, []domain.Availability{
		newAvailability(t, uuid.New(), tripID, day(2026, time.July, 11)),
		newAvailability(t, uuid.New(), tripID, day(2026, time.July, 12)),
		newAvailability(t, uuid.New(), uuid.New(), day(2026, time.July, 11)),
	}))

	n, err := availabilities.DeleteByTripID(ctx, tripID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	total, err := availabilities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
