package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
)

// AvailabilityService implements business operations on availability
// records, which mark the meals a participant is present for on a day.
type AvailabilityService struct {
	trips          repo.TripRepo
	participants   repo.ParticipantRepo
	availabilities repo.AvailabilityRepo
}

// NewAvailabilityService constructs an AvailabilityService over the given
// repositories.
func NewAvailabilityService(
	trips repo.TripRepo,
	participants repo.ParticipantRepo,
	availabilities repo.AvailabilityRepo,
) *AvailabilityService {
	return &AvailabilityService{
		trips:          trips,
		participants:   participants,
		availabilities: availabilities,
	}
}

// Create validates and persists a new availability. The referenced trip and
// participant must exist, the participant must belong to the trip, and at
// most one availability may exist per (participant, trip, day).
func (s *AvailabilityService) Create(ctx context.Context, in domain.AvailabilityInput) (domain.Availability, error) {
	ok, err := s.trips.Exists(ctx, in.TripID)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("service.AvailabilityService.Create: %w", err)
	}
	if !ok {
		return domain.Availability{}, domain.NewNotFoundError("trip", in.TripID.String())
	}

	participant, err := s.participants.FindByID(ctx, in.ParticipantID)
	if err != nil {
		return domain.Availability{}, err
	}
	if participant.TripID() != in.TripID {
		return domain.Availability{}, domain.NewBusinessRuleError("participant", in.ParticipantID.String(),
			"participant does not belong to the trip",
			map[string]any{
				"participantId": in.ParticipantID.String(),
				"tripId":        in.TripID.String(),
			})
	}

	a, err := domain.NewAvailability(in)
	if err != nil {
		return domain.Availability{}, err
	}
	if err := s.availabilities.Save(ctx, a); err != nil {
		return domain.Availability{}, err
	}
	return a, nil
}

// GetByID returns a single availability by id.
func (s *AvailabilityService) GetByID(ctx context.Context, id uuid.UUID) (domain.Availability, error) {
	return s.availabilities.FindByID(ctx, id)
}

// GetForDay returns the availability of one participant on one day of a
// trip, or a not-found error when none was recorded.
func (s *AvailabilityService) GetForDay(ctx context.Context, participantID, tripID uuid.UUID, day time.Time) (domain.Availability, error) {
	return s.availabilities.FindForDay(ctx, participantID, tripID, day)
}

// ListByTrip returns the availabilities of one trip, ordered by date.
func (s *AvailabilityService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Availability, error) {
	as, err := s.availabilities.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if as == nil {
		as = []domain.Availability{}
	}
	return as, nil
}

// ListByParticipant returns the availabilities of one participant.
func (s *AvailabilityService) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.Availability, error) {
	return s.availabilities.FindByParticipantID(ctx, participantID)
}

// Update applies a sparse change-set to an existing availability and returns
// the new version. Moving an availability to a day that already has one for
// the same participant and trip fails with a duplicate error.
func (s *AvailabilityService) Update(ctx context.Context, id uuid.UUID, ch domain.AvailabilityUpdate) (domain.Availability, error) {
	if err := s.availabilities.PartialUpdate(ctx, id, ch); err != nil {
		return domain.Availability{}, err
	}
	return s.availabilities.FindByID(ctx, id)
}

// Delete removes an availability by id.
func (s *AvailabilityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.availabilities.Delete(ctx, id)
}
