package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
	"github.com/avoss/trip-pantry/internal/store"
)

// ConsumptionRepo defines the persistence operations for consumptions.
type ConsumptionRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Consumption, error)
	FindAll(ctx context.Context) ([]domain.Consumption, error)

	// FindByTripID returns the consumptions of one trip, ordered by date.
	FindByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Consumption, error)

	FindByParticipantID(ctx context.Context, participantID uuid.UUID) ([]domain.Consumption, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]domain.Consumption, error)

	// FindByDate returns the consumptions recorded on one UTC day.
	FindByDate(ctx context.Context, day time.Time) ([]domain.Consumption, error)

	// FindByDateRange returns the consumptions of one trip whose date falls
	// within [from, to], inclusive, at day granularity.
	FindByDateRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Consumption, error)

	// FindByMeal returns the consumptions recorded for one meal.
	FindByMeal(ctx context.Context, meal domain.Meal) ([]domain.Consumption, error)

	// CountByParticipantID returns how many consumptions reference the
	// participant — the dependent count for the guarded-delete rule.
	CountByParticipantID(ctx context.Context, participantID uuid.UUID) (int64, error)

	// CountByProductID returns how many consumptions reference the product.
	CountByProductID(ctx context.Context, productID uuid.UUID) (int64, error)

	Save(ctx context.Context, c domain.Consumption) error
	SaveMany(ctx context.Context, cs []domain.Consumption) error
	Update(ctx context.Context, c domain.Consumption) error
	PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.ConsumptionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error

	// DeleteByTripID removes every consumption of the trip and returns how
	// many were removed.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error)

	// DeleteByParticipantID removes every consumption of the participant and
	// returns how many were removed.
	DeleteByParticipantID(ctx context.Context, participantID uuid.UUID) (int64, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type storeConsumptionRepo struct {
	st store.Store
}

// NewConsumptionRepo constructs a ConsumptionRepo over the given record store.
func NewConsumptionRepo(st store.Store) ConsumptionRepo {
	return &storeConsumptionRepo{st: st}
}

func (r *storeConsumptionRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Consumption, error) {
	doc, err := r.st.Get(ctx, record.ConsumptionCollection, id.String())
	if err == store.ErrNotFound {
		return domain.Consumption{}, domain.NewNotFoundError("consumption", id.String())
	}
	if err != nil {
		return domain.Consumption{}, fmt.Errorf("repo.ConsumptionRepo.FindByID: %w", err)
	}

	rec, err := decodeDoc[record.ConsumptionRecord](doc, "repo.ConsumptionRepo.FindByID")
	if err != nil {
		return domain.Consumption{}, err
	}
	props, err := rec.ToProps()
	if err != nil {
		return domain.Consumption{}, fmt.Errorf("repo.ConsumptionRepo.FindByID: %w", err)
	}
	return domain.ConsumptionFromProps(props), nil
}

func (r *storeConsumptionRepo) FindAll(ctx context.Context) ([]domain.Consumption, error) {
	docs, err := r.st.List(ctx, record.ConsumptionCollection)
	if err != nil {
		return nil, fmt.Errorf("repo.ConsumptionRepo.FindAll: %w", err)
	}
	return r.toConsumptions(docs, "repo.ConsumptionRepo.FindAll")
}

func (r *storeConsumptionRepo) FindByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Consumption, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "tripId", tripID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.ConsumptionRepo.FindByTripID: %w", err)
	}
	return r.toConsumptions(docs, "repo.ConsumptionRepo.FindByTripID")
}

func (r *storeConsumptionRepo) FindByParticipantID(ctx context.Context, participantID uuid.UUID) ([]domain.Consumption, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "participantId", participantID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.ConsumptionRepo.FindByParticipantID: %w", err)
	}
	return r.toConsumptions(docs, "repo.ConsumptionRepo.FindByParticipantID")
}

func (r *storeConsumptionRepo) FindByProductID(ctx context.Context, productID uuid.UUID) ([]domain.Consumption, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "productId", productID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.ConsumptionRepo.FindByProductID: %w", err)
	}
	return r.toConsumptions(docs, "repo.ConsumptionRepo.FindByProductID")
}

func (r *storeConsumptionRepo) FindByDate(ctx context.Context, day time.Time) ([]domain.Consumption, error) {
	value := domain.Day(day).Format(domain.DayLayout)
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "date", value)
	if err != nil {
		return nil, fmt.Errorf("repo.ConsumptionRepo.FindByDate: %w", err)
	}
	return r.toConsumptions(docs, "repo.ConsumptionRepo.FindByDate")
}

func (r *storeConsumptionRepo) FindByDateRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Consumption, error) {
	cs, err := r.FindByTripID(ctx, tripID)
	if err != nil {
		return cs, err
	}
	lo, hi := domain.Day(from), domain.Day(to)
	out := make([]domain.Consumption, 0, len(cs))
	for _, c := range cs {
		if !c.Date().Before(lo) && !c.Date().After(hi) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *storeConsumptionRepo) FindByMeal(ctx context.Context, meal domain.Meal) ([]domain.Consumption, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "meal", string(meal))
	if err != nil {
		return nil, fmt.Errorf("repo.ConsumptionRepo.FindByMeal: %w", err)
	}
	return r.toConsumptions(docs, "repo.ConsumptionRepo.FindByMeal")
}

func (r *storeConsumptionRepo) CountByParticipantID(ctx context.Context, participantID uuid.UUID) (int64, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "participantId", participantID.String())
	if err != nil {
		return 0, fmt.Errorf("repo.ConsumptionRepo.CountByParticipantID: %w", err)
	}
	return int64(len(docs)), nil
}

func (r *storeConsumptionRepo) CountByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, "productId", productID.String())
	if err != nil {
		return 0, fmt.Errorf("repo.ConsumptionRepo.CountByProductID: %w", err)
	}
	return int64(len(docs)), nil
}

func (r *storeConsumptionRepo) Save(ctx context.Context, c domain.Consumption) error {
	rec := record.NewConsumptionRecord(c)
	doc, err := marshalRecord(rec, "repo.ConsumptionRepo.Save")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.ConsumptionCollection, rec.ID, doc, rec.Keys()); err != nil {
		return fmt.Errorf("repo.ConsumptionRepo.Save: %w", err)
	}
	return nil
}

func (r *storeConsumptionRepo) SaveMany(ctx context.Context, cs []domain.Consumption) error {
	for _, c := range cs {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeConsumptionRepo) Update(ctx context.Context, c domain.Consumption) error {
	ok, err := r.Exists(ctx, c.ID())
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("consumption", c.ID().String())
	}
	return r.Save(ctx, c)
}

func (r *storeConsumptionRepo) PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.ConsumptionUpdate) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	doc, err := r.st.Get(ctx, record.ConsumptionCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("consumption", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.ConsumptionRepo.PartialUpdate: %w", err)
	}

	merged, err := mergeChanges(doc, record.ConsumptionChanges(ch), "repo.ConsumptionRepo.PartialUpdate")
	if err != nil {
		return err
	}
	rec, err := decodeDoc[record.ConsumptionRecord](merged, "repo.ConsumptionRepo.PartialUpdate")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.ConsumptionCollection, id.String(), merged, rec.Keys()); err != nil {
		return fmt.Errorf("repo.ConsumptionRepo.PartialUpdate: %w", err)
	}
	return nil
}

func (r *storeConsumptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.st.Delete(ctx, record.ConsumptionCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("consumption", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.ConsumptionRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeConsumptionRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeConsumptionRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return r.deleteByKey(ctx, "tripId", tripID.String())
}

func (r *storeConsumptionRepo) DeleteByParticipantID(ctx context.Context, participantID uuid.UUID) (int64, error) {
	return r.deleteByKey(ctx, "participantId", participantID.String())
}

func (r *storeConsumptionRepo) deleteByKey(ctx context.Context, key, value string) (int64, error) {
	docs, err := r.st.FindByKey(ctx, record.ConsumptionCollection, key, value)
	if err != nil {
		return 0, fmt.Errorf("repo.ConsumptionRepo.deleteByKey: %w", err)
	}
	recs, err := decodeDocs[record.ConsumptionRecord](docs, "repo.ConsumptionRepo.deleteByKey")
	if err != nil {
		return 0, err
	}
	var n int64
	for _, rec := range recs {
		if err := r.st.Delete(ctx, record.ConsumptionCollection, rec.ID); err != nil && err != store.ErrNotFound {
			return n, fmt.Errorf("repo.ConsumptionRepo.deleteByKey: %w", err)
		}
		n++
	}
	return n, nil
}

func (r *storeConsumptionRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.st.Get(ctx, record.ConsumptionCollection, id.String())
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repo.ConsumptionRepo.Exists: %w", err)
	}
	return true, nil
}

func (r *storeConsumptionRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.st.Count(ctx, record.ConsumptionCollection)
	if err != nil {
		return 0, fmt.Errorf("repo.ConsumptionRepo.Count: %w", err)
	}
	return n, nil
}

func (r *storeConsumptionRepo) toConsumptions(docs [][]byte, op string) ([]domain.Consumption, error) {
	recs, err := decodeDocs[record.ConsumptionRecord](docs, op)
	if err != nil {
		return nil, err
	}
	props, failures := record.ConsumptionPropsList(recs)
	cs := make([]domain.Consumption, len(props))
	for i, p := range props {
		cs[i] = domain.ConsumptionFromProps(p)
	}
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].Date().Equal(cs[j].Date()) {
			return cs[i].Date().Before(cs[j].Date())
		}
		return cs[i].CreatedAt().Before(cs[j].CreatedAt())
	})

	if len(failures) > 0 {
		return cs, deserializationError("consumption", failures)
	}
	return cs, nil
}
