package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
)

func TestParseMeal(t *testing.T) {
	m, err := domain.ParseMeal("snack")
	require.NoError(t, err)
	assert.Equal(t, domain.MealSnack, m)

	_, err = domain.ParseMeal("brunch")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalizeMeals_DedupesAndSorts(t *testing.T) {
	got := domain.NormalizeMeals([]domain.Meal{
		domain.MealDinner, domain.MealBreakfast, domain.MealDinner,
	})

	assert.Equal(t, []domain.Meal{domain.MealBreakfast, domain.MealDinner}, got)
}

func TestNormalizeMeals_SnackSortsBeforeDinner(t *testing.T) {
	got := domain.NormalizeMeals([]domain.Meal{
		domain.MealDinner, domain.MealSnack, domain.MealLunch, domain.MealBreakfast,
	})

	assert.Equal(t, []domain.Meal{
		domain.MealBreakfast, domain.MealLunch, domain.MealSnack, domain.MealDinner,
	}, got)
}

func TestNormalizeMeals_DoesNotMutateInput(t *testing.T) {
	in := []domain.Meal{domain.MealDinner, domain.MealBreakfast}

	_ = domain.NormalizeMeals(in)

	assert.Equal(t, []domain.Meal{domain.MealDinner, domain.MealBreakfast}, in)
}

func TestProductType_Category(t *testing.T) {
	assert.Equal(t, domain.CategoryFood, domain.TypeBread.Category())
	assert.Equal(t, domain.CategoryBeverage, domain.TypeCoffee.Category())
	assert.Equal(t, domain.CategoryOther, domain.TypeHygiene.Category())
}

func TestTypesFor_CoversEveryCategory(t *testing.T) {
	food := domain.TypesFor(domain.CategoryFood)
	beverage := domain.TypesFor(domain.CategoryBeverage)
	other := domain.TypesFor(domain.CategoryOther)

	assert.Len(t, food, 10)
	assert.Len(t, beverage, 7)
	assert.Len(t, other, 3)
	assert.Contains(t, beverage, domain.TypeWater)
	assert.NotContains(t, food, domain.TypeWater)
}

func TestParseCategory_RejectsUnknown(t *testing.T) {
	_, err := domain.ParseCategory("electronics")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseUnit_RejectsUnknown(t *testing.T) {
	_, err := domain.ParseUnit("gallon")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMeals_CanonicalOrder(t *testing.T) {
	assert.Equal(t, []domain.Meal{
		domain.MealBreakfast, domain.MealLunch, domain.MealSnack, domain.MealDinner,
	}, domain.Meals())
}
