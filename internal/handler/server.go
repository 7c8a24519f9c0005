// Package handler implements the HTTP handlers for the Trip Pantry API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avoss/trip-pantry/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store or service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Search(ctx context.Context, q string) ([]domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, ch domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ParticipantServicer defines the business operations the participant
// handlers depend on.
type ParticipantServicer interface {
	Create(ctx context.Context, in domain.ParticipantInput) (domain.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	Update(ctx context.Context, id uuid.UUID, ch domain.ParticipantUpdate) (domain.Participant, error)
	Delete(ctx context.Context, id uuid.UUID, force bool) error
}

// ProductServicer defines the business operations the product handlers
// depend on.
type ProductServicer interface {
	Create(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, c domain.Category) ([]domain.Product, error)
	Search(ctx context.Context, q string) ([]domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, ch domain.ProductUpdate) (domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID, force bool) error
}

// ConsumptionServicer defines the business operations the consumption
// handlers depend on.
type ConsumptionServicer interface {
	Create(ctx context.Context, in domain.ConsumptionInput) (domain.Consumption, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Consumption, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Consumption, error)
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.Consumption, error)
	ListByDateRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Consumption, error)
	Update(ctx context.Context, id uuid.UUID, ch domain.ConsumptionUpdate) (domain.Consumption, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AvailabilityServicer defines the business operations the availability
// handlers depend on.
type AvailabilityServicer interface {
	Create(ctx context.Context, in domain.AvailabilityInput) (domain.Availability, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Availability, error)
	GetForDay(ctx context.Context, participantID, tripID uuid.UUID, day time.Time) (domain.Availability, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Availability, error)
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.Availability, error)
	Update(ctx context.Context, id uuid.UUID, ch domain.AvailabilityUpdate) (domain.Availability, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShoppingListServicer defines the shopping-list derivation the handler
// depends on.
type ShoppingListServicer interface {
	ForTrip(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.ShoppingListItem, error)
}

// Server holds the service dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips          TripServicer
	participants   ParticipantServicer
	products       ProductServicer
	consumptions   ConsumptionServicer
	availabilities AvailabilityServicer
	shoppingLists  ShoppingListServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	participants ParticipantServicer,
	products ProductServicer,
	consumptions ConsumptionServicer,
	availabilities AvailabilityServicer,
	shoppingLists ShoppingListServicer,
) *Server {
	return &Server{
		trips:          trips,
		participants:   participants,
		products:       products,
		consumptions:   consumptions,
		availabilities: availabilities,
		shoppingLists:  shoppingLists,
	}
}

// Routes mounts all API endpoints on a fresh chi router. Cross-cutting
// middleware (logging, CORS, body limits) is wired by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.handleListTrips)
		r.Post("/", s.handleCreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.handleGetTrip)
			r.Patch("/", s.handleUpdateTrip)
			r.Delete("/", s.handleDeleteTrip)
			r.Get("/participants", s.handleListTripParticipants)
			r.Post("/participants", s.handleCreateParticipant)
			r.Get("/consumptions", s.handleListTripConsumptions)
			r.Get("/availabilities", s.handleListTripAvailabilities)
			r.Get("/shopping-list", s.handleShoppingList)
		})
	})

	r.Route("/participants/{participantID}", func(r chi.Router) {
		r.Get("/", s.handleGetParticipant)
		r.Patch("/", s.handleUpdateParticipant)
		r.Delete("/", s.handleDeleteParticipant)
		r.Get("/consumptions", s.handleListParticipantConsumptions)
		r.Get("/availabilities", s.handleListParticipantAvailabilities)
		r.Get("/availability", s.handleGetAvailabilityForDay)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleListProducts)
		r.Post("/", s.handleCreateProduct)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", s.handleGetProduct)
			r.Patch("/", s.handleUpdateProduct)
			r.Delete("/", s.handleDeleteProduct)
		})
	})

	r.Route("/consumptions", func(r chi.Router) {
		r.Post("/", s.handleCreateConsumption)
		r.Route("/{consumptionID}", func(r chi.Router) {
			r.Get("/", s.handleGetConsumption)
			r.Patch("/", s.handleUpdateConsumption)
			r.Delete("/", s.handleDeleteConsumption)
		})
	})

	r.Route("/availabilities", func(r chi.Router) {
		r.Post("/", s.handleCreateAvailability)
		r.Route("/{availabilityID}", func(r chi.Router) {
			r.Get("/", s.handleGetAvailability)
			r.Patch("/", s.handleUpdateAvailability)
			r.Delete("/", s.handleDeleteAvailability)
		})
	})

	return r
}
