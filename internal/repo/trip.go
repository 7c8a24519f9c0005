package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
	"github.com/avoss/trip-pantry/internal/store"
)

// TripRepo defines the persistence operations for trips. The service layer
// depends on this interface, never on the store-backed implementation, so it
// can be unit-tested with a hand-written mock.
type TripRepo interface {
	// FindByID returns the trip with the given id, or a not-found error.
	FindByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// FindAll returns all trips ordered by start date descending. When some
	// stored records fail to deserialize, the valid trips are returned
	// together with an error identifying the failing records.
	FindAll(ctx context.Context) ([]domain.Trip, error)

	// SearchByName returns trips whose name contains q, case-insensitively.
	SearchByName(ctx context.Context, q string) ([]domain.Trip, error)

	// Save upserts the trip by id. Saving the same trip twice is idempotent.
	Save(ctx context.Context, t domain.Trip) error

	// SaveMany upserts each trip in order.
	SaveMany(ctx context.Context, ts []domain.Trip) error

	// Update overwrites an existing trip, failing with not-found when the id
	// is absent.
	Update(ctx context.Context, t domain.Trip) error

	// PartialUpdate patches only the supplied fields of the stored record,
	// plus a refreshed updatedAt. Unchanged fields are passed through
	// untouched and are not re-validated.
	PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.TripUpdate) error

	// Delete removes the trip, failing with not-found when the id is absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany removes each trip in order.
	DeleteMany(ctx context.Context, ids []uuid.UUID) error

	// Exists reports whether a trip with the given id is stored.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Count returns the number of stored trips.
	Count(ctx context.Context) (int64, error)
}

type storeTripRepo struct {
	st store.Store
}

// NewTripRepo constructs a TripRepo over the given record store.
func NewTripRepo(st store.Store) TripRepo {
	return &storeTripRepo{st: st}
}

func (r *storeTripRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	doc, err := r.st.Get(ctx, record.TripCollection, id.String())
	if err == store.ErrNotFound {
		return domain.Trip{}, domain.NewNotFoundError("trip", id.String())
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.FindByID: %w", err)
	}

	rec, err := decodeDoc[record.TripRecord](doc, "repo.TripRepo.FindByID")
	if err != nil {
		return domain.Trip{}, err
	}
	props, err := rec.ToProps()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.FindByID: %w", err)
	}
	return domain.TripFromProps(props), nil
}

func (r *storeTripRepo) FindAll(ctx context.Context) ([]domain.Trip, error) {
	docs, err := r.st.List(ctx, record.TripCollection)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.FindAll: %w", err)
	}
	recs, err := decodeDocs[record.TripRecord](docs, "repo.TripRepo.FindAll")
	if err != nil {
		return nil, err
	}

	props, failures := record.TripPropsList(recs)
	trips := make([]domain.Trip, len(props))
	for i, p := range props {
		trips[i] = domain.TripFromProps(p)
	}
	sortTrips(trips)

	if len(failures) > 0 {
		return trips, deserializationError("trip", failures)
	}
	return trips, nil
}

func (r *storeTripRepo) SearchByName(ctx context.Context, q string) ([]domain.Trip, error) {
	trips, err := r.FindAll(ctx)
	if err != nil {
		return trips, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if strings.Contains(strings.ToLower(t.Name()), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *storeTripRepo) Save(ctx context.Context, t domain.Trip) error {
	rec := record.NewTripRecord(t)
	doc, err := marshalRecord(rec, "repo.TripRepo.Save")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.TripCollection, rec.ID, doc, rec.Keys()); err != nil {
		return fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return nil
}

func (r *storeTripRepo) SaveMany(ctx context.Context, ts []domain.Trip) error {
	for _, t := range ts {
		if err := r.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeTripRepo) Update(ctx context.Context, t domain.Trip) error {
	ok, err := r.Exists(ctx, t.ID())
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("trip", t.ID().String())
	}
	return r.Save(ctx, t)
}

func (r *storeTripRepo) PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.TripUpdate) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	doc, err := r.st.Get(ctx, record.TripCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("trip", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.TripRepo.PartialUpdate: %w", err)
	}

	merged, err := mergeChanges(doc, record.TripChanges(ch, time.Now()), "repo.TripRepo.PartialUpdate")
	if err != nil {
		return err
	}
	rec, err := decodeDoc[record.TripRecord](merged, "repo.TripRepo.PartialUpdate")
	if err != nil {
		return err
	}
	// A one-sided date change must still hold against the stored counterpart,
	// so the pair is re-checked on the merged record.
	if ch.StartDate != nil || ch.EndDate != nil {
		props, err := rec.ToProps()
		if err != nil {
			return err
		}
		if err := domain.ValidateTripDates(props.StartDate, props.EndDate); err != nil {
			return err
		}
	}
	if err := r.st.Put(ctx, record.TripCollection, id.String(), merged, rec.Keys()); err != nil {
		return fmt.Errorf("repo.TripRepo.PartialUpdate: %w", err)
	}
	return nil
}

func (r *storeTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.st.Delete(ctx, record.TripCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("trip", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeTripRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeTripRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.st.Get(ctx, record.TripCollection, id.String())
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repo.TripRepo.Exists: %w", err)
	}
	return true, nil
}

func (r *storeTripRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.st.Count(ctx, record.TripCollection)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Count: %w", err)
	}
	return n, nil
}

// sortTrips orders trips by start date descending (most recent first), then
// by name for a stable order between trips starting the same day.
func sortTrips(trips []domain.Trip) {
	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].StartDate().Equal(trips[j].StartDate()) {
			return trips[i].StartDate().After(trips[j].StartDate())
		}
		return trips[i].Name() < trips[j].Name()
	})
}
