package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
)

// ConsumptionService implements business operations on consumption records.
type ConsumptionService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	products     repo.ProductRepo
	consumptions repo.ConsumptionRepo
}

// NewConsumptionService constructs a ConsumptionService over the given
// repositories.
func NewConsumptionService(
	trips repo.TripRepo,
	participants repo.ParticipantRepo,
	products repo.ProductRepo,
	consumptions repo.ConsumptionRepo,
) *ConsumptionService {
	return &ConsumptionService{
		trips:        trips,
		participants: participants,
		products:     products,
		consumptions: consumptions,
	}
}

// Create validates and persists a new consumption. The referenced trip,
// participant, and product must exist, and the participant must belong to
// the trip.
func (s *ConsumptionService) Create(ctx context.Context, in domain.ConsumptionInput) (domain.Consumption, error) {
	ok, err := s.trips.Exists(ctx, in.TripID)
	if err != nil {
		return domain.Consumption{}, fmt.Errorf("service.ConsumptionService.Create: %w", err)
	}
	if !ok {
		return domain.Consumption{}, domain.NewNotFoundError("trip", in.TripID.String())
	}

	participant, err := s.participants.FindByID(ctx, in.ParticipantID)
	if err != nil {
		return domain.Consumption{}, err
	}
	if participant.TripID() != in.TripID {
		return domain.Consumption{}, domain.NewBusinessRuleError("participant", in.ParticipantID.String(),
			"participant does not belong to the trip",
			map[string]any{
				"participantId": in.ParticipantID.String(),
				"tripId":        in.TripID.String(),
			})
	}

	ok, err = s.products.Exists(ctx, in.ProductID)
	if err != nil {
		return domain.Consumption{}, fmt.Errorf("service.ConsumptionService.Create: %w", err)
	}
	if !ok {
		return domain.Consumption{}, domain.NewNotFoundError("product", in.ProductID.String())
	}

	c, err := domain.NewConsumption(in)
	if err != nil {
		return domain.Consumption{}, err
	}
	if err := s.consumptions.Save(ctx, c); err != nil {
		return domain.Consumption{}, fmt.Errorf("service.ConsumptionService.Create: %w", err)
	}
	return c, nil
}

// GetByID returns a single consumption by id.
func (s *ConsumptionService) GetByID(ctx context.Context, id uuid.UUID) (domain.Consumption, error) {
	return s.consumptions.FindByID(ctx, id)
}

// ListByTrip returns the consumptions of one trip, ordered by date.
func (s *ConsumptionService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Consumption, error) {
	cs, err := s.consumptions.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		cs = []domain.Consumption{}
	}
	return cs, nil
}

// ListByParticipant returns the consumptions of one participant.
func (s *ConsumptionService) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.Consumption, error) {
	return s.consumptions.FindByParticipantID(ctx, participantID)
}

// ListByDateRange returns the consumptions of one trip within [from, to].
func (s *ConsumptionService) ListByDateRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Consumption, error) {
	return s.consumptions.FindByDateRange(ctx, tripID, from, to)
}

// Update applies a sparse change-set to an existing consumption and returns
// the new version. Only the supplied fields are re-validated.
func (s *ConsumptionService) Update(ctx context.Context, id uuid.UUID, ch domain.ConsumptionUpdate) (domain.Consumption, error) {
	if err := s.consumptions.PartialUpdate(ctx, id, ch); err != nil {
		return domain.Consumption{}, err
	}
	return s.consumptions.FindByID(ctx, id)
}

// Delete removes a consumption by id.
func (s *ConsumptionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.consumptions.Delete(ctx, id)
}
