package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
	"github.com/avoss/trip-pantry/internal/store"
)

// ProductRepo defines the persistence operations for catalog products.
type ProductRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)

	// FindByCategory returns the products of one category, ordered by name.
	FindByCategory(ctx context.Context, c domain.Category) ([]domain.Product, error)

	// FindByType returns the products of one type, ordered by name.
	FindByType(ctx context.Context, t domain.ProductType) ([]domain.Product, error)

	// SearchByName returns products whose name contains q, case-insensitively.
	SearchByName(ctx context.Context, q string) ([]domain.Product, error)

	// ExistsByName reports whether a product named name exists, ignoring the
	// product with excludeID so an update does not collide with itself.
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	Save(ctx context.Context, p domain.Product) error
	SaveMany(ctx context.Context, ps []domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.ProductUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type storeProductRepo struct {
	st store.Store
}

// NewProductRepo constructs a ProductRepo over the given record store.
func NewProductRepo(st store.Store) ProductRepo {
	return &storeProductRepo{st: st}
}

func (r *storeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	doc, err := r.st.Get(ctx, record.ProductCollection, id.String())
	if err == store.ErrNotFound {
		return domain.Product{}, domain.NewNotFoundError("product", id.String())
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.ProductRepo.FindByID: %w", err)
	}

	rec, err := decodeDoc[record.ProductRecord](doc, "repo.ProductRepo.FindByID")
	if err != nil {
		return domain.Product{}, err
	}
	props, err := rec.ToProps()
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.ProductRepo.FindByID: %w", err)
	}
	return domain.ProductFromProps(props), nil
}

func (r *storeProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.st.List(ctx, record.ProductCollection)
	if err != nil {
		return nil, fmt.Errorf("repo.ProductRepo.FindAll: %w", err)
	}
	return r.toProducts(docs, "repo.ProductRepo.FindAll")
}

func (r *storeProductRepo) FindByCategory(ctx context.Context, c domain.Category) ([]domain.Product, error) {
	docs, err := r.st.FindByKey(ctx, record.ProductCollection, "category", string(c))
	if err != nil {
		return nil, fmt.Errorf("repo.ProductRepo.FindByCategory: %w", err)
	}
	return r.toProducts(docs, "repo.ProductRepo.FindByCategory")
}

func (r *storeProductRepo) FindByType(ctx context.Context, t domain.ProductType) ([]domain.Product, error) {
	docs, err := r.st.FindByKey(ctx, record.ProductCollection, "type", string(t))
	if err != nil {
		return nil, fmt.Errorf("repo.ProductRepo.FindByType: %w", err)
	}
	return r.toProducts(docs, "repo.ProductRepo.FindByType")
}

func (r *storeProductRepo) SearchByName(ctx context.Context, q string) ([]domain.Product, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return all, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *storeProductRepo) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(name)
	for _, p := range all {
		if p.ID() != excludeID && strings.EqualFold(p.Name(), trimmed) {
			return true, nil
		}
	}
	return false, nil
}

func (r *storeProductRepo) Save(ctx context.Context, p domain.Product) error {
	rec := record.NewProductRecord(p)
	doc, err := marshalRecord(rec, "repo.ProductRepo.Save")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.ProductCollection, rec.ID, doc, rec.Keys()); err != nil {
		return fmt.Errorf("repo.ProductRepo.Save: %w", err)
	}
	return nil
}

func (r *storeProductRepo) SaveMany(ctx context.Context, ps []domain.Product) error {
	for _, p := range ps {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeProductRepo) Update(ctx context.Context, p domain.Product) error {
	ok, err := r.Exists(ctx, p.ID())
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("product", p.ID().String())
	}
	return r.Save(ctx, p)
}

func (r *storeProductRepo) PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.ProductUpdate) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	doc, err := r.st.Get(ctx, record.ProductCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("product", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.ProductRepo.PartialUpdate: %w", err)
	}

	merged, err := mergeChanges(doc, record.ProductChanges(ch), "repo.ProductRepo.PartialUpdate")
	if err != nil {
		return err
	}
	rec, err := decodeDoc[record.ProductRecord](merged, "repo.ProductRepo.PartialUpdate")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.ProductCollection, id.String(), merged, rec.Keys()); err != nil {
		return fmt.Errorf("repo.ProductRepo.PartialUpdate: %w", err)
	}
	return nil
}

func (r *storeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.st.Delete(ctx, record.ProductCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("product", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.ProductRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeProductRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeProductRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.st.Get(ctx, record.ProductCollection, id.String())
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repo.ProductRepo.Exists: %w", err)
	}
	return true, nil
}

func (r *storeProductRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.st.Count(ctx, record.ProductCollection)
	if err != nil {
		return 0, fmt.Errorf("repo.ProductRepo.Count: %w", err)
	}
	return n, nil
}

func (r *storeProductRepo) toProducts(docs [][]byte, op string) ([]domain.Product, error) {
	recs, err := decodeDocs[record.ProductRecord](docs, op)
	if err != nil {
		return nil, err
	}
	props, failures := record.ProductPropsList(recs)
	ps := make([]domain.Product, len(props))
	for i, p := range props {
		ps[i] = domain.ProductFromProps(p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name() < ps[j].Name() })

	if len(failures) > 0 {
		return ps, deserializationError("product", failures)
	}
	return ps, nil
}
