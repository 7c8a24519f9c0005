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

func TestProductService_CreateRejectsDuplicateName(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "Penne")

	_, err := e.productSvc.Create(context.Background(), domain.ProductInput{
		Name:     "penne",
		Category: domain.CategoryFood,
		Type:     domain.TypePasta,
		Unit:     domain.UnitKg,
	})

	require.ErrorIs(t, err, domain.ErrDuplicate)
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "name", dup.Field)
}

func TestProductService_UpdateRenameCollision(t *testing.T) {
	e := newEnv()
	seedProduct(t, e, "Penne")
	fusilli := seedProduct(t, e, "Fusilli")

	name := "Penne"
	_, err := e.productSvc.Update(context.Background(), fusilli.ID(), domain.ProductUpdate{Name: &name})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductService_UpdateOwnNameIsNotACollision(t *testing.T) {
	e := newEnv()
	pasta := seedProduct(t, e, "Penne")

	name := "Penne"
	updated, err := e.productSvc.Update(context.Background(), pasta.ID(), domain.ProductUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Penne", updated.Name())
}

func TestProductService_ListByCategoryValidatesInput(t *testing.T) {
	e := newEnv()

	_, err := e.productSvc.ListByCategory(context.Background(), domain.Category("snack"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductService_DeleteGuardedByConsumptions(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	trip := seedTrip(t, e)
	alice := seedParticipant(t, e, trip.ID(), "Alice")
	pasta := seedProduct(t, e, "Penne")
	seedConsumption(t, e, trip.ID(), alice.ID(), pasta.ID(), day(2026, time.July, 11), domain.MealDinner, 0.5)

	err := e.productSvc.Delete(ctx, pasta.ID(), false)

	require.ErrorIs(t, err, domain.ErrBusinessRule)
	var bre *domain.BusinessRuleError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, int64(1), bre.Details["dependentConsumptions"])
}

func TestProductService_ForceDeleteRemovesConsumptions(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	trip := seedTrip(t, e)
	alice := seedParticipant(t, e, trip.ID(), "Alice")
	pasta := seedProduct(t, e, "Penne")
	water := seedProduct(t, e, "Still Water")
	seedConsumption(t, e, trip.ID(), alice.ID(), pasta.ID(), day(2026, time.July, 11), domain.MealDinner, 0.5)
	kept := seedConsumption(t, e, trip.ID(), alice.ID(), water.ID(), day(2026, time.July, 11), domain.MealDinner, 1.5)

	require.NoError(t, e.productSvc.Delete(ctx, pasta.ID(), true))

	_, err := e.productSvc.GetByID(ctx, pasta.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, err := e.consumptions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = e.consumptionSvc.GetByID(ctx, kept.ID())
	assert.NoError(t, err)
}

func TestProductService_DeleteMissing(t *testing.T) {
	e := newEnv()

	err := e.productSvc.Delete(context.Background(), uuid.New(), true)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
