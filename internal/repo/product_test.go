package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
	"github.com/avoss/trip-pantry/internal/store/memory"
)

func newProduct(t *testing.T, name string, c domain.Category, pt domain.ProductType, u domain.Unit) domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.ProductInput{Name: name, Category: c, Type: pt, Unit: u})
	require.NoError(t, err)
	return p
}

func seedProducts(t *testing.T, products repo.ProductRepo) (pasta, water domain.Product) {
	t.Helper()
	pasta = newProduct(t, "Penne", domain.CategoryFood, domain.TypePasta, domain.UnitKg)
	water = newProduct(t, "Still Water", domain.CategoryBeverage, domain.TypeWater, domain.UnitL)
	require.NoError(t, products.SaveMany(context.Background(), []domain.Product{pasta, water}))
	return pasta, water
}

func TestProductRepo_FindByCategory(t *testing.T) {
	products := repo.NewProductRepo(memory.New())
	_, water := seedProducts(t, products)

	got, err := products.FindByCategory(context.Background(), domain.CategoryBeverage)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, water.Equal(got[0]))
}

func TestProductRepo_FindByType(t *testing.T) {
	products := repo.NewProductRepo(memory.New())
	pasta, _ := seedProducts(t, products)

	got, err := products.FindByType(context.Background(), domain.TypePasta)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, pasta.Equal(got[0]))
}

func TestProductRepo_SearchByName(t *testing.T) {
	products := repo.NewProductRepo(memory.New())
	seedProducts(t, products)

	got, err := products.SearchByName(context.Background(), "WATER")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Still Water", got[0].Name())
}

func TestProductRepo_ExistsByName(t *testing.T) {
	products := repo.NewProductRepo(memory.New())
	pasta, _ := seedProducts(t, products)
	ctx := context.Background()

	taken, err := products.ExistsByName(ctx, "penne", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken, "comparison is case-insensitive")

	taken, err = products.ExistsByName(ctx, "Penne", pasta.ID())
	require.NoError(t, err)
	assert.False(t, taken, "a product never collides with itself")

	taken, err = products.ExistsByName(ctx, "Fusilli", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestProductRepo_PartialUpdateClearsDefaultQuantity(t *testing.T) {
	products := repo.NewProductRepo(memory.New())
	ctx := context.Background()
	qty := 0.125
	p, err := domain.NewProduct(domain.ProductInput{
		Name: "Penne", Category: domain.CategoryFood, Type: domain.TypePasta,
		Unit: domain.UnitKg, DefaultQuantityPerPerson: &qty,
	})
	require.NoError(t, err)
	require.NoError(t, products.Save(ctx, p))

	err = products.PartialUpdate(ctx, p.ID(), domain.ProductUpdate{ClearDefaultQuantity: true})

	require.NoError(t, err)
	got, err := products.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Nil(t, got.DefaultQuantityPerPerson())
}

func TestProductRepo_PartialUpdateKeepsIndexCurrent(t *testing.T) {
	products := repo.NewProductRepo(memory.New())
	ctx := context.Background()
	p := newProduct(t, "Apple Juice", domain.CategoryBeverage, domain.TypeJuice, domain.UnitL)
	require.NoError(t, products.Save(ctx, p))

	category := domain.CategoryBeverage
	productType := domain.TypeSoda
	err := products.PartialUpdate(ctx, p.ID(), domain.ProductUpdate{Category: &category, Type: &productType})
	require.NoError(t, err)

	got, err := products.FindByType(ctx, domain.TypeSoda)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = products.FindByType(ctx, domain.TypeJuice)
	require.NoError(t, err)
	assert.Empty(t, got, "old index value stops matching after the patch")
}
