package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

// participantCreateRequest is the JSON body for POST /trips/{tripID}/participants.
type participantCreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// participantUpdateRequest is the JSON body for PATCH /participants/{participantID}.
// The owning trip is immutable and deliberately absent.
type participantUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

// handleCreateParticipant handles POST /trips/{tripID}/participants.
func (s *Server) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	var req participantCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.participants.Create(r.Context(), domain.ParticipantInput{
		TripID: tripID,
		Name:   req.Name,
		Email:  req.Email,
		Notes:  req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record.NewParticipantRecord(p))
}

// handleListTripParticipants handles GET /trips/{tripID}/participants.
func (s *Server) handleListTripParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	ps, err := s.participants.ListByTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]record.ParticipantRecord, len(ps))
	for i, p := range ps {
		out[i] = record.NewParticipantRecord(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetParticipant handles GET /participants/{participantID}.
func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "participantID", chi.URLParam(r, "participantID"))
	if !ok {
		return
	}
	p, err := s.participants.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewParticipantRecord(p))
}

// handleUpdateParticipant handles PATCH /participants/{participantID}.
func (s *Server) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "participantID", chi.URLParam(r, "participantID"))
	if !ok {
		return
	}
	var req participantUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.participants.Update(r.Context(), id, domain.ParticipantUpdate{
		Name:  req.Name,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewParticipantRecord(p))
}

// handleDeleteParticipant handles DELETE /participants/{participantID}.
// A participant with consumption records is only deleted with ?force=true,
// which removes the dependent consumptions as well; otherwise the request
// fails with 409 and the dependent count.
func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "participantID", chi.URLParam(r, "participantID"))
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"
	if err := s.participants.Delete(r.Context(), id, force); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
