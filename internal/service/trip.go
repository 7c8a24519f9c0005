// Package service contains the business logic for Trip Pantry. Services
// construct and update entities (which validate themselves), enforce the
// cross-entity rules — cascade deletes, guarded deletes — and orchestrate
// repository calls. No storage details live here: services depend on the
// repo interfaces, not on implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
)

// TripService implements business operations on trips, including the
// cascade delete that removes all dependent records before the trip itself.
type TripService struct {
	trips          repo.TripRepo
	participants   repo.ParticipantRepo
	consumptions   repo.ConsumptionRepo
	availabilities repo.AvailabilityRepo
}

// NewTripService constructs a TripService over the given repositories.
func NewTripService(
	trips repo.TripRepo,
	participants repo.ParticipantRepo,
	consumptions repo.ConsumptionRepo,
	availabilities repo.AvailabilityRepo,
) *TripService {
	return &TripService{
		trips:          trips,
		participants:   participants,
		consumptions:   consumptions,
		availabilities: availabilities,
	}
}

// Create validates and persists a new trip.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	trip, err := domain.NewTrip(in)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.trips.Save(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

// GetByID returns a single trip by id.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return s.trips.FindByID(ctx, id)
}

// List returns all trips, most recent first.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Search returns trips whose name contains q.
func (s *TripService) Search(ctx context.Context, q string) ([]domain.Trip, error) {
	return s.trips.SearchByName(ctx, q)
}

// Update applies a sparse change-set to an existing trip and returns the new
// version.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, ch domain.TripUpdate) (domain.Trip, error) {
	current, err := s.trips.FindByID(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	updated, err := current.Update(ch)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.trips.Update(ctx, updated); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip and everything that references it. Dependent records
// go first — consumptions, then availabilities, then participants — so an
// interruption mid-cascade never leaves dependents pointing at a deleted
// trip. The cascade is not atomic: a failure partway through leaves already-
// deleted dependents gone, which is an accepted limitation of the store.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.trips.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("trip", id.String())
	}

	if _, err := s.consumptions.DeleteByTripID(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: consumptions: %w", err)
	}
	if _, err := s.availabilities.DeleteByTripID(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: availabilities: %w", err)
	}
	if _, err := s.participants.DeleteByTripID(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: participants: %w", err)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
