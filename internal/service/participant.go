package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
)

// ParticipantService implements business operations on participants,
// including the guarded delete: a participant with consumption records can
// only be removed with force, which deletes the dependents first.
type ParticipantService struct {
	trips          repo.TripRepo
	participants   repo.ParticipantRepo
	consumptions   repo.ConsumptionRepo
	availabilities repo.AvailabilityRepo
}

// NewParticipantService constructs a ParticipantService over the given
// repositories.
func NewParticipantService(
	trips repo.TripRepo,
	participants repo.ParticipantRepo,
	consumptions repo.ConsumptionRepo,
	availabilities repo.AvailabilityRepo,
) *ParticipantService {
	return &ParticipantService{
		trips:          trips,
		participants:   participants,
		consumptions:   consumptions,
		availabilities: availabilities,
	}
}

// Create validates and persists a new participant. The owning trip must
// exist; the repository rejects duplicate names within the trip.
func (s *ParticipantService) Create(ctx context.Context, in domain.ParticipantInput) (domain.Participant, error) {
	ok, err := s.trips.Exists(ctx, in.TripID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Create: %w", err)
	}
	if !ok {
		return domain.Participant{}, domain.NewNotFoundError("trip", in.TripID.String())
	}

	p, err := domain.NewParticipant(in)
	if err != nil {
		return domain.Participant{}, err
	}
	if err := s.participants.Save(ctx, p); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Create: %w", err)
	}
	return p, nil
}

// GetByID returns a single participant by id.
func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return s.participants.FindByID(ctx, id)
}

// ListByTrip returns the participants of one trip, ordered by name.
func (s *ParticipantService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	ps, err := s.participants.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.Participant{}
	}
	return ps, nil
}

// Update applies a sparse change-set to an existing participant and returns
// the new version.
func (s *ParticipantService) Update(ctx context.Context, id uuid.UUID, ch domain.ParticipantUpdate) (domain.Participant, error) {
	current, err := s.participants.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}
	updated, err := current.Update(ch)
	if err != nil {
		return domain.Participant{}, err
	}
	if err := s.participants.Update(ctx, updated); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a participant. When the participant still has consumption
// records and force is false, it fails with a business-rule error carrying
// the exact dependent count so the caller can decide whether to retry with
// force. With force, dependent consumptions and availabilities are deleted
// first, leaving no orphans for this participant.
func (s *ParticipantService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	ok, err := s.participants.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ParticipantService.Delete: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("participant", id.String())
	}

	dependents, err := s.consumptions.CountByParticipantID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ParticipantService.Delete: %w", err)
	}
	if dependents > 0 && !force {
		return domain.NewBusinessRuleError("participant", id.String(),
			fmt.Sprintf("participant has %d consumption record(s); pass force to delete them as well", dependents),
			map[string]any{
				"participantId":         id.String(),
				"dependentConsumptions": dependents,
			})
	}

	if dependents > 0 {
		if _, err := s.consumptions.DeleteByParticipantID(ctx, id); err != nil {
			return fmt.Errorf("service.ParticipantService.Delete: consumptions: %w", err)
		}
	}
	// Availabilities never block a delete; they are cleaned up either way.
	if _, err := s.availabilities.DeleteByParticipantID(ctx, id); err != nil {
		return fmt.Errorf("service.ParticipantService.Delete: availabilities: %w", err)
	}
	if err := s.participants.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ParticipantService.Delete: %w", err)
	}
	return nil
}
