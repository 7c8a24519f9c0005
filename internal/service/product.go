package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
)

// ProductService implements business operations on the product catalog.
type ProductService struct {
	products     repo.ProductRepo
	consumptions repo.ConsumptionRepo
}

// NewProductService constructs a ProductService over the given repositories.
func NewProductService(products repo.ProductRepo, consumptions repo.ConsumptionRepo) *ProductService {
	return &ProductService{products: products, consumptions: consumptions}
}

// Create validates and persists a new catalog product. Product names are
// unique across the catalog.
func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	p, err := domain.NewProduct(in)
	if err != nil {
		return domain.Product{}, err
	}

	taken, err := s.products.ExistsByName(ctx, p.Name(), p.ID())
	if err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Create: %w", err)
	}
	if taken {
		return domain.Product{}, domain.NewDuplicateError("product", "name", p.Name())
	}

	if err := s.products.Save(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Create: %w", err)
	}
	return p, nil
}

// GetByID returns a single product by id.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// List returns the whole catalog, ordered by name.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	return ps, nil
}

// ListByCategory returns the products of one category.
func (s *ProductService) ListByCategory(ctx context.Context, c domain.Category) ([]domain.Product, error) {
	if _, err := domain.ParseCategory(string(c)); err != nil {
		return nil, err
	}
	return s.products.FindByCategory(ctx, c)
}

// Search returns products whose name contains q.
func (s *ProductService) Search(ctx context.Context, q string) ([]domain.Product, error) {
	return s.products.SearchByName(ctx, q)
}

// Update applies a sparse change-set to an existing product and returns the
// new version. A renamed product must not collide with another product's name.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, ch domain.ProductUpdate) (domain.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	updated, err := current.Update(ch)
	if err != nil {
		return domain.Product{}, err
	}

	if ch.Name != nil {
		taken, err := s.products.ExistsByName(ctx, updated.Name(), id)
		if err != nil {
			return domain.Product{}, fmt.Errorf("service.ProductService.Update: %w", err)
		}
		if taken {
			return domain.Product{}, domain.NewDuplicateError("product", "name", updated.Name())
		}
	}

	if err := s.products.Update(ctx, updated); err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a product. When consumptions still reference it and force
// is false, it fails with a business-rule error carrying the dependent
// count; with force, the referencing consumptions are deleted first.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	ok, err := s.products.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ProductService.Delete: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("product", id.String())
	}

	dependents, err := s.consumptions.CountByProductID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ProductService.Delete: %w", err)
	}
	if dependents > 0 && !force {
		return domain.NewBusinessRuleError("product", id.String(),
			fmt.Sprintf("product is referenced by %d consumption record(s); pass force to delete them as well", dependents),
			map[string]any{
				"productId":             id.String(),
				"dependentConsumptions": dependents,
			})
	}

	if dependents > 0 {
		cs, err := s.consumptions.FindByProductID(ctx, id)
		if err != nil {
			return fmt.Errorf("service.ProductService.Delete: %w", err)
		}
		ids := make([]uuid.UUID, len(cs))
		for i, c := range cs {
			ids[i] = c.ID()
		}
		if err := s.consumptions.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("service.ProductService.Delete: consumptions: %w", err)
		}
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ProductService.Delete: %w", err)
	}
	return nil
}
