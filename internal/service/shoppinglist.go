package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/repo"
)

// ShoppingListService derives aggregated shopping lists from the
// consumptions planned for a trip.
type ShoppingListService struct {
	trips          repo.TripRepo
	products       repo.ProductRepo
	consumptions   repo.ConsumptionRepo
	availabilities repo.AvailabilityRepo
}

// NewShoppingListService constructs a ShoppingListService over the given
// repositories.
func NewShoppingListService(
	trips repo.TripRepo,
	products repo.ProductRepo,
	consumptions repo.ConsumptionRepo,
	availabilities repo.AvailabilityRepo,
) *ShoppingListService {
	return &ShoppingListService{
		trips:          trips,
		products:       products,
		consumptions:   consumptions,
		availabilities: availabilities,
	}
}

// ForTrip builds the shopping list of a trip over the inclusive [from, to]
// day range. Zero-valued from/to fall back to the trip's start and end
// dates. Consumptions for meals a participant has marked themselves absent
// for are excluded from the totals.
func (s *ShoppingListService) ForTrip(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.ShoppingListItem, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = trip.StartDate()
	}
	if to.IsZero() {
		to = trip.EndDate()
	}
	if domain.Day(to).Before(domain.Day(from)) {
		return nil, domain.NewValidationError("to", domain.RuleCrossField, "to must not be before from", to)
	}

	consumptions, err := s.consumptions.FindByDateRange(ctx, tripID, from, to)
	if err != nil {
		return nil, fmt.Errorf("service.ShoppingListService.ForTrip: %w", err)
	}
	availabilities, err := s.availabilities.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ShoppingListService.ForTrip: %w", err)
	}
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ShoppingListService.ForTrip: %w", err)
	}

	items := domain.BuildShoppingList(consumptions, availabilities, products, from, to)
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}
