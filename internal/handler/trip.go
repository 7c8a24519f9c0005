package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

// tripCreateRequest is the JSON body for POST /trips. Dates are day-granular
// "2006-01-02" strings.
type tripCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// tripUpdateRequest is the JSON body for PATCH /trips/{tripID}. Absent fields
// are left unchanged.
type tripUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// handleCreateTrip handles POST /trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start, ok := parseDay(w, "startDate", req.StartDate)
	if !ok {
		return
	}
	end, ok := parseDay(w, "endDate", req.EndDate)
	if !ok {
		return
	}

	trip, err := s.trips.Create(r.Context(), domain.TripInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record.NewTripRecord(trip))
}

// handleListTrips handles GET /trips. With ?q= it returns a case-insensitive
// name search instead of the full listing.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	var (
		trips []domain.Trip
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		trips, err = s.trips.Search(r.Context(), q)
	} else {
		trips, err = s.trips.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]record.TripRecord, len(trips))
	for i, t := range trips {
		out[i] = record.NewTripRecord(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetTrip handles GET /trips/{tripID}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewTripRecord(trip))
}

// handleUpdateTrip handles PATCH /trips/{tripID}.
func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	var req tripUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ch := domain.TripUpdate{Name: req.Name, Description: req.Description}
	var err error
	if ch.StartDate, err = parseOptionalDay(req.StartDate); err != nil {
		writeError(w, domain.NewValidationError("startDate", domain.RuleFormat, "startDate must be a date in the form 2006-01-02", *req.StartDate))
		return
	}
	if ch.EndDate, err = parseOptionalDay(req.EndDate); err != nil {
		writeError(w, domain.NewValidationError("endDate", domain.RuleFormat, "endDate must be a date in the form 2006-01-02", *req.EndDate))
		return
	}

	trip, err := s.trips.Update(r.Context(), id, ch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewTripRecord(trip))
}

// handleDeleteTrip handles DELETE /trips/{tripID}. Deleting a trip cascades
// to its participants, consumptions, and availabilities.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseOptionalDay parses a nullable "2006-01-02" string into the pointer
// shape sparse updates use.
func parseOptionalDay(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := time.Parse(domain.DayLayout, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
