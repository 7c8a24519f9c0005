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

// ParticipantRepo defines the persistence operations for participants.
// Uniqueness of (tripId, name) is enforced here: Save and Update fail with a
// duplicate error when another participant of the same trip already carries
// the name (compared case-insensitively).
type ParticipantRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	FindAll(ctx context.Context) ([]domain.Participant, error)

	// FindByTripID returns the participants of one trip, ordered by name.
	FindByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)

	// SearchByName returns participants whose name contains q, case-insensitively.
	SearchByName(ctx context.Context, q string) ([]domain.Participant, error)

	// FindByEmail returns participants whose email contains q, case-insensitively.
	FindByEmail(ctx context.Context, q string) ([]domain.Participant, error)

	// ExistsInTrip reports whether a participant named name already exists in
	// the trip. Pass the participant's own id as excludeID during an update
	// so an unchanged name does not collide with itself.
	ExistsInTrip(ctx context.Context, tripID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)

	Save(ctx context.Context, p domain.Participant) error
	SaveMany(ctx context.Context, ps []domain.Participant) error
	Update(ctx context.Context, p domain.Participant) error
	PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.ParticipantUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error

	// DeleteByTripID removes every participant of the trip and returns how
	// many were removed.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type storeParticipantRepo struct {
	st store.Store
}

// NewParticipantRepo constructs a ParticipantRepo over the given record store.
func NewParticipantRepo(st store.Store) ParticipantRepo {
	return &storeParticipantRepo{st: st}
}

func (r *storeParticipantRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	doc, err := r.st.Get(ctx, record.ParticipantCollection, id.String())
	if err == store.ErrNotFound {
		return domain.Participant{}, domain.NewNotFoundError("participant", id.String())
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.FindByID: %w", err)
	}

	rec, err := decodeDoc[record.ParticipantRecord](doc, "repo.ParticipantRepo.FindByID")
	if err != nil {
		return domain.Participant{}, err
	}
	props, err := rec.ToProps()
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.FindByID: %w", err)
	}
	return domain.ParticipantFromProps(props), nil
}

func (r *storeParticipantRepo) FindAll(ctx context.Context) ([]domain.Participant, error) {
	docs, err := r.st.List(ctx, record.ParticipantCollection)
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.FindAll: %w", err)
	}
	return r.toParticipants(docs, "repo.ParticipantRepo.FindAll")
}

func (r *storeParticipantRepo) FindByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	docs, err := r.st.FindByKey(ctx, record.ParticipantCollection, "tripId", tripID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.FindByTripID: %w", err)
	}
	return r.toParticipants(docs, "repo.ParticipantRepo.FindByTripID")
}

func (r *storeParticipantRepo) SearchByName(ctx context.Context, q string) ([]domain.Participant, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return all, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Participant, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *storeParticipantRepo) FindByEmail(ctx context.Context, q string) ([]domain.Participant, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return all, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Participant, 0, len(all))
	for _, p := range all {
		if p.Email() != "" && strings.Contains(p.Email(), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *storeParticipantRepo) ExistsInTrip(ctx context.Context, tripID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	siblings, err := r.FindByTripID(ctx, tripID)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(name)
	for _, p := range siblings {
		if p.ID() != excludeID && strings.EqualFold(p.Name(), trimmed) {
			return true, nil
		}
	}
	return false, nil
}

func (r *storeParticipantRepo) Save(ctx context.Context, p domain.Participant) error {
	taken, err := r.ExistsInTrip(ctx, p.TripID(), p.Name(), p.ID())
	if err != nil {
		return err
	}
	if taken {
		return domain.NewDuplicateKeyError("participant", map[string]any{
			"tripId": p.TripID().String(),
			"name":   p.Name(),
		})
	}
	return r.put(ctx, p)
}

func (r *storeParticipantRepo) SaveMany(ctx context.Context, ps []domain.Participant) error {
	for _, p := range ps {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeParticipantRepo) Update(ctx context.Context, p domain.Participant) error {
	ok, err := r.Exists(ctx, p.ID())
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("participant", p.ID().String())
	}
	return r.Save(ctx, p)
}

func (r *storeParticipantRepo) PartialUpdate(ctx context.Context, id uuid.UUID, ch domain.ParticipantUpdate) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	doc, err := r.st.Get(ctx, record.ParticipantCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("participant", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.ParticipantRepo.PartialUpdate: %w", err)
	}

	merged, err := mergeChanges(doc, record.ParticipantChanges(ch), "repo.ParticipantRepo.PartialUpdate")
	if err != nil {
		return err
	}
	rec, err := decodeDoc[record.ParticipantRecord](merged, "repo.ParticipantRepo.PartialUpdate")
	if err != nil {
		return err
	}

	if ch.Name != nil {
		tripID, err := uuid.Parse(rec.TripID)
		if err != nil {
			return fmt.Errorf("repo.ParticipantRepo.PartialUpdate: stored tripId: %w", err)
		}
		taken, err := r.ExistsInTrip(ctx, tripID, rec.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewDuplicateKeyError("participant", map[string]any{
				"tripId": rec.TripID,
				"name":   rec.Name,
			})
		}
	}

	if err := r.st.Put(ctx, record.ParticipantCollection, id.String(), merged, rec.Keys()); err != nil {
		return fmt.Errorf("repo.ParticipantRepo.PartialUpdate: %w", err)
	}
	return nil
}

func (r *storeParticipantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.st.Delete(ctx, record.ParticipantCollection, id.String())
	if err == store.ErrNotFound {
		return domain.NewNotFoundError("participant", id.String())
	}
	if err != nil {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeParticipantRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeParticipantRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	ps, err := r.FindByTripID(ctx, tripID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, p := range ps {
		if err := r.Delete(ctx, p.ID()); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *storeParticipantRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.st.Get(ctx, record.ParticipantCollection, id.String())
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repo.ParticipantRepo.Exists: %w", err)
	}
	return true, nil
}

func (r *storeParticipantRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.st.Count(ctx, record.ParticipantCollection)
	if err != nil {
		return 0, fmt.Errorf("repo.ParticipantRepo.Count: %w", err)
	}
	return n, nil
}

// put writes the participant without uniqueness checks.
func (r *storeParticipantRepo) put(ctx context.Context, p domain.Participant) error {
	rec := record.NewParticipantRecord(p)
	doc, err := marshalRecord(rec, "repo.ParticipantRepo.Save")
	if err != nil {
		return err
	}
	if err := r.st.Put(ctx, record.ParticipantCollection, rec.ID, doc, rec.Keys()); err != nil {
		return fmt.Errorf("repo.ParticipantRepo.Save: %w", err)
	}
	return nil
}

func (r *storeParticipantRepo) toParticipants(docs [][]byte, op string) ([]domain.Participant, error) {
	recs, err := decodeDocs[record.ParticipantRecord](docs, op)
	if err != nil {
		return nil, err
	}
	props, failures := record.ParticipantPropsList(recs)
	ps := make([]domain.Participant, len(props))
	for i, p := range props {
		ps[i] = domain.ParticipantFromProps(p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name() < ps[j].Name() })

	if len(failures) > 0 {
		return ps, deserializationError("participant", failures)
	}
	return ps, nil
}
