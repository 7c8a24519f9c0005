package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

// availabilityCreateRequest is the JSON body for POST /availabilities.
type availabilityCreateRequest struct {
	TripID        string   `json:"tripId"`
	ParticipantID string   `json:"participantId"`
	Date          string   `json:"date"`
	Meals         []string `json:"meals"`
}

// availabilityUpdateRequest is the JSON body for PATCH /availabilities/{availabilityID}.
// A nil meals field leaves the meal set unchanged; an empty array means
// "present for no meals".
type availabilityUpdateRequest struct {
	Date  *string  `json:"date"`
	Meals []string `json:"meals"`
}

// handleCreateAvailability handles POST /availabilities.
func (s *Server) handleCreateAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tripID, ok := parseUUID(w, "tripId", req.TripID)
	if !ok {
		return
	}
	participantID, ok := parseUUID(w, "participantId", req.ParticipantID)
	if !ok {
		return
	}
	date, ok := parseDay(w, "date", req.Date)
	if !ok {
		return
	}
	meals, err := parseMeals(req.Meals)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := s.availabilities.Create(r.Context(), domain.AvailabilityInput{
		TripID:        tripID,
		ParticipantID: participantID,
		Date:          date,
		Meals:         meals,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record.NewAvailabilityRecord(a))
}

// handleListTripAvailabilities handles GET /trips/{tripID}/availabilities.
func (s *Server) handleListTripAvailabilities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	as, err := s.availabilities.ListByTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAvailabilities(w, as)
}

// handleListParticipantAvailabilities handles GET /participants/{participantID}/availabilities.
func (s *Server) handleListParticipantAvailabilities(w http.ResponseWriter, r *http.Request) {
	participantID, ok := parseUUID(w, "participantID", chi.URLParam(r, "participantID"))
	if !ok {
		return
	}
	as, err := s.availabilities.ListByParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAvailabilities(w, as)
}

// handleGetAvailabilityForDay handles GET /participants/{participantID}/availability.
// Both ?tripId= and ?date= are required; a 404 means no availability was
// recorded for that day, i.e. the participant counts as present for all meals.
func (s *Server) handleGetAvailabilityForDay(w http.ResponseWriter, r *http.Request) {
	participantID, ok := parseUUID(w, "participantID", chi.URLParam(r, "participantID"))
	if !ok {
		return
	}
	tripID, ok := parseUUID(w, "tripId", r.URL.Query().Get("tripId"))
	if !ok {
		return
	}
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, domain.NewValidationError("date", domain.RuleRequired, "date is required", nil))
		return
	}
	day, ok := parseDay(w, "date", raw)
	if !ok {
		return
	}

	a, err := s.availabilities.GetForDay(r.Context(), participantID, tripID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewAvailabilityRecord(a))
}

// handleGetAvailability handles GET /availabilities/{availabilityID}.
func (s *Server) handleGetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "availabilityID", chi.URLParam(r, "availabilityID"))
	if !ok {
		return
	}
	a, err := s.availabilities.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewAvailabilityRecord(a))
}

// handleUpdateAvailability handles PATCH /availabilities/{availabilityID}.
func (s *Server) handleUpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "availabilityID", chi.URLParam(r, "availabilityID"))
	if !ok {
		return
	}
	var req availabilityUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var ch domain.AvailabilityUpdate
	var err error
	if ch.Date, err = parseOptionalDay(req.Date); err != nil {
		writeError(w, domain.NewValidationError("date", domain.RuleFormat, "date must be a date in the form 2006-01-02", *req.Date))
		return
	}
	if req.Meals != nil {
		if ch.Meals, err = parseMeals(req.Meals); err != nil {
			writeError(w, err)
			return
		}
	}

	a, err := s.availabilities.Update(r.Context(), id, ch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewAvailabilityRecord(a))
}

// handleDeleteAvailability handles DELETE /availabilities/{availabilityID}.
func (s *Server) handleDeleteAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "availabilityID", chi.URLParam(r, "availabilityID"))
	if !ok {
		return
	}
	if err := s.availabilities.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseMeals parses meal tags, failing on the first unknown tag.
func parseMeals(raw []string) ([]domain.Meal, error) {
	if raw == nil {
		return nil, nil
	}
	meals := make([]domain.Meal, len(raw))
	for i, tag := range raw {
		m, err := domain.ParseMeal(tag)
		if err != nil {
			return nil, err
		}
		meals[i] = m
	}
	return meals, nil
}

func writeAvailabilities(w http.ResponseWriter, as []domain.Availability) {
	out := make([]record.AvailabilityRecord, len(as))
	for i, a := range as {
		out[i] = record.NewAvailabilityRecord(a)
	}
	writeJSON(w, http.StatusOK, out)
}
