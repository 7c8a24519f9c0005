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

// AvailabilityRepo defines the persistence operations for availabilities.
// At most one record may exist per (participantId, tripId, date); Save and
// Update enforce that through the derived composite key, so the invariant
// holds without a full index scan.
type AvailabilityRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Availability, error)
	FindAll(ctx context.Context) ([]domain.Availability, error)

	// FindByTripID returns the availabilities of one trip, ordered by date.
	FindByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Availability, error)

	FindByParticipantID(ctx context.Context, participantID uuid.UUID) ([]domain.Availability, error)

	// FindByDate returns the availabilities recorded on one UTC day.
	FindByDate(ctx context.Context, day time.Time) ([]domain.Availability, error)

	// FindForDay returns the single availability of a participant on a trip
	// day, or a not-found error carrying the search criteria.
	FindForDay(ctx context.Context, participantID, tripID uuid.UUID, day time.Time) (domain.Availability, error)

	Save(ctx context.Context, a domain.Availability) error
	SaveMany(ctx context.Context, as []domain.Availability) error
	Update(ctx context.Context, a domain.Availability) error
	PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.AvailabilityUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error

	// DeleteByTripID removes every availability of the trip and returns how
	// many were removed.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error)

	// DeleteByParticipantID removes every availability of the participant and
	// returns how many were removed.
	DeleteByParticipantID(ctx context.Context, participantID uuid.UUID) (int64, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type storeAvailabilityRepo struct {
	st store.Store
}

// NewAvailabilityRepo constructs an AvailabilityRepo over the given record store.
func NewAvailabilityRepo(st store.Store) AvailabilityRepo {
	return &storeAvailabilityRepo{st: st}
}

func (r *storeAvailabilityRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Availability, error) {
	doc, err := r.st.Get(ctx, record.AvailabilityCollection, id.String())
	if err == store.ErrNotFound {
		return domain.Availability{}, domain.NewNotFoundError("availability", id.String())
	}
	if err != nil {
		return domain.Availability{}, fmt.Errorf("repo.AvailabilityRepo.FindByID: %w", err)
	}

	rec, err := decodeDoc[record.AvailabilityRecord](doc, "repo.AvailabilityRepo.FindByID")
	if err != nil {
		return domain.Availability{}, err
	}
	props, err := rec.ToProps()
	if err != nil {
		return domain.Availability{}, fmt.Errorf("repo.AvailabilityRepo.FindByID: %w", err)
	}
	return domain.AvailabilityFromProps(props), nil
}

func (r *storeAvailabilityRepo) FindAll(ctx context.Context) ([]domain.Availability, error) {
	docs, err := r.st.List(ctx, record.AvailabilityCollection)
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.FindAll: %w", err)
	}
	return r.toAvailabilities(docs, "repo.AvailabilityRepo.FindAll")
}

func (r *storeAvailabilityRepo) FindByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Availability, error) {
	docs, err := r.st.FindByKey(ctx, record.AvailabilityCollection, "tripId", tripID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.FindByTripID: %w", err)
	}
	return r.toAvailabilities(docs, "repo.AvailabilityRepo.FindByTripID")
}

func (r *storeAvailabilityRepo) FindByParticipantID(ctx context.Context, participantID uuid.UUID) ([]domain.Availability, error) {
	docs, err := r.st.FindByKey(ctx, record.AvailabilityCollection, "participantId", participantID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.FindByParticipantID: %w", err)
	}
	return r.toAvailabilities(docs, "repo.AvailabilityRepo.FindByParticipantID")
}

func (r *storeAvailabilityRepo) FindByDate(ctx context.Context, day time.Time) ([]domain.Availability, error) {
	value := domain.Day(day).Format(domain.DayLayout)
	docs, err := r.st.FindByKey(ctx, record.AvailabilityCollection, "date", value)
	if err != nil {
		return nil, fmt.Errorf("repo.AvailabilityRepo.FindByDate: %w", err)
	}
	return r.toAvailabilities(docs, "repo.AvailabilityRepo.FindByDate")
}

func (r *storeAvailabilityRepo) FindForDay(ctx context.Context, participantID, tripID uuid.UUID, day time.Time) (domain.Availability, error) {
	dayStr := domain.Day(day).Format(domain.DayLayout)
	key := record.AvailabilityKey(participantID.String(), tripID.String(), dayStr)

	docs, err := r.st.FindByKey(ctx, record.AvailabilityCollection, "key", key)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("repo.AvailabilityRepo.FindForDay: %w", err)
	}
	if len(docs) == 0 {
		return domain.Availability{}, domain.NewNotFoundByCriteria("availability", map[string]any{
			"participantId": participantID.String(),
			"tripId":        tripID.String(),
			"date":          dayStr,
		})
	}

	rec, err := decodeDoc[record.AvailabilityRecord](docs[0], "repo.AvailabilityRepo.FindForDay")
	if err != nil {
		return domain.Availability{}, err
	}
	props, err := rec.ToProps()
	if err != nil {
		return domain.Availability{}, fmt.Errorf("repo.AvailabilityRepo.FindForDay: %w", err)
	}
	return domain.AvailabilityFromProps(props), nil
}

func (r *storeAvailabilityRepo) Save(ctx context.Context, a domain.Availability) error {
	rec := record.NewAvailabilityRecord(a)
	if err := r.checkUnique(ctx, rec); err != nil {
		return err
	}

	doc, err := marshalRecord(rec, "repo.AvailabilityRepo.Save")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.AvailabilityCollection, rec.ID, doc, rec.Keys()); err != nil {
		return fmt.Errorf("repo.AvailabilityRepo.Save: %w", err)
	}
	return nil
}

func (r *storeAvailabilityRepo) SaveMany(ctx context.Context, as []domain.Availability) error {
	for _, a := range as {
		if err := r.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeAvailabilityRepo) Update(ctx context.Context, a domain.Availability) error {
	ok, err := r.Exists(ctx, a.ID())
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("availability", a.ID().String())
	}
	return r.Save(ctx, a)
}

func (r *storeAvailabilityRepo) PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.AvailabilityUpdate) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	doc, err := r.st.Get(ctx, record.AvailabilityCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("availability", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.AvailabilityRepo.PartialUpdate: %w", err)
	}

	merged, err := mergeChanges(doc, record.AvailabilityChanges(ch), "repo.AvailabilityRepo.PartialUpdate")
	if err != nil {
		return err
	}
	rec, err := decodeDoc[record.AvailabilityRecord](merged, "repo.AvailabilityRepo.PartialUpdate")
	if err != nil {
		return err
	}
	// A date change moves the record to a different composite key; make sure
	// the slot is free before writing.
	if ch.Date != nil {
		if err := r.checkUnique(ctx, rec); err != nil {
			return err
		}
	}
	if err := r.st.Put(ctx, record.AvailabilityCollection, id.String(), merged, rec.Keys()); err != nil {
		return fmt.Errorf("repo.AvailabilityRepo.PartialUpdate: %w", err)
	}
	return nil
}

// checkUnique fails with a duplicate error when a different record already
// occupies rec's (participantId, tripId, date) composite key.
func (r *storeAvailabilityRepo) checkUnique(ctx context.Context, rec record.AvailabilityRecord) error {
	key := record.AvailabilityKey(rec.ParticipantID, rec.TripID, rec.Date)
	docs, err := r.st.FindByKey(ctx, record.AvailabilityCollection, "key", key)
	if err != nil {
		return fmt.Errorf("repo.AvailabilityRepo.checkUnique: %w", err)
	}
	for _, doc := range docs {
		existing, err := decodeDoc[record.AvailabilityRecord](doc, "repo.AvailabilityRepo.checkUnique")
		if err != nil {
			return err
		}
		if existing.ID != rec.ID {
			return domain.NewDuplicateKeyError("availability", map[string]any{
				"participantId": rec.ParticipantID,
				"tripId":        rec.TripID,
				"date":          rec.Date,
			})
		}
	}
	return nil
}

func (r *storeAvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.st.Delete(ctx, record.AvailabilityCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("availability", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.AvailabilityRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeAvailabilityRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeAvailabilityRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return r.deleteByKey(ctx, "tripId", tripID.String())
}

func (r *storeAvailabilityRepo) DeleteByParticipantID(ctx context.Context, participantID uuid.UUID) (int64, error) {
	return r.deleteByKey(ctx, "participantId", participantID.String())
}

func (r *storeAvailabilityRepo) deleteByKey(ctx context.Context, key, value string) (int64, error) {
	docs, err := r.st.FindByKey(ctx, record.AvailabilityCollection, key, value)
	if err != nil {
		return 0, fmt.Errorf("repo.AvailabilityRepo.deleteByKey: %w", err)
	}
	recs, err := decodeDocs[record.AvailabilityRecord](docs, "repo.AvailabilityRepo.deleteByKey")
	if err != nil {
		return 0, err
	}
	var n int64
	for _, rec := range recs {
		if err := r.st.Delete(ctx, record.AvailabilityCollection, rec.ID); err != nil && err != store.ErrNotFound {
			return n, fmt.Errorf("repo.AvailabilityRepo.deleteByKey: %w", err)
		}
		n++
	}
	return n, nil
}

func (r *storeAvailabilityRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.st.Get(ctx, record.AvailabilityCollection, id.String())
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repo.AvailabilityRepo.Exists: %w", err)
	}
	return true, nil
}

func (r *storeAvailabilityRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.st.Count(ctx, record.AvailabilityCollection)
	if err != nil {
		return 0, fmt.Errorf("repo.AvailabilityRepo.Count: %w", err)
	}
	return n, nil
}

func (r *storeAvailabilityRepo) toAvailabilities(docs [][]byte, op string) ([]domain.Availability, error) {
	recs, err := decodeDocs[record.AvailabilityRecord](docs, op)
	if err != nil {
		return nil, err
	}
	props, failures := record.AvailabilityPropsList(recs)
	as := make([]domain.Availability, len(props))
	for i, p := range props {
		as[i] = domain.AvailabilityFromProps(p)
	}
	sort.Slice(as, func(i, j int) bool {
		if !as[i].Date().Equal(as[j].Date()) {
			return as[i].Date().Before(as[j].Date())
		}
		return as[i].ID().String() < as[j].ID().String()
	})

	if len(failures) > 0 {
		return as, deserializationError("availability", failures)
	}
	return as, nil
}
