package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

// consumptionCreateRequest is the JSON body for POST /consumptions.
type consumptionCreateRequest struct {
	TripID        string  `json:"tripId"`
	ParticipantID string  `json:"participantId"`
	ProductID     string  `json:"productId"`
	Date          string  `json:"date"`
	Meal          string  `json:"meal"`
	Quantity      float64 `json:"quantity"`
}

// consumptionUpdateRequest is the JSON body for PATCH /consumptions/{consumptionID}.
// The trip, participant, and product references are immutable.
type consumptionUpdateRequest struct {
	Date     *string  `json:"date"`
	Meal     *string  `json:"meal"`
	Quantity *float64 `json:"quantity"`
}

// handleCreateConsumption handles POST /consumptions.
func (s *Server) handleCreateConsumption(w http.ResponseWriter, r *http.Request) {
	var req consumptionCreateRequest
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
	productID, ok := parseUUID(w, "productId", req.ProductID)
	if !ok {
		return
	}
	date, ok := parseDay(w, "date", req.Date)
	if !ok {
		return
	}
	meal, err := domain.ParseMeal(req.Meal)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := s.consumptions.Create(r.Context(), domain.ConsumptionInput{
		TripID:        tripID,
		ParticipantID: participantID,
		ProductID:     productID,
		Date:          date,
		Meal:          meal,
		Quantity:      req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record.NewConsumptionRecord(c))
}

// handleListTripConsumptions handles GET /trips/{tripID}/consumptions.
// Optional ?from= and ?to= day bounds narrow the listing to a date range.
func (s *Server) handleListTripConsumptions(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseUUID(w, "tripID", chi.URLParam(r, "tripID"))
	if !ok {
		return
	}
	from, ok := parseDay(w, "from", r.URL.Query().Get("from"))
	if !ok {
		return
	}
	to, ok := parseDay(w, "to", r.URL.Query().Get("to"))
	if !ok {
		return
	}

	if from.IsZero() != to.IsZero() {
		writeError(w, domain.NewValidationError("from", domain.RuleCrossField, "from and to must be supplied together", nil))
		return
	}

	var (
		cs  []domain.Consumption
		err error
	)
	if !from.IsZero() {
		cs, err = s.consumptions.ListByDateRange(r.Context(), tripID, from, to)
	} else {
		cs, err = s.consumptions.ListByTrip(r.Context(), tripID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeConsumptions(w, cs)
}

// handleListParticipantConsumptions handles GET /participants/{participantID}/consumptions.
func (s *Server) handleListParticipantConsumptions(w http.ResponseWriter, r *http.Request) {
	participantID, ok := parseUUID(w, "participantID", chi.URLParam(r, "participantID"))
	if !ok {
		return
	}
	cs, err := s.consumptions.ListByParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeConsumptions(w, cs)
}

// handleGetConsumption handles GET /consumptions/{consumptionID}.
func (s *Server) handleGetConsumption(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "consumptionID", chi.URLParam(r, "consumptionID"))
	if !ok {
		return
	}
	c, err := s.consumptions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewConsumptionRecord(c))
}

// handleUpdateConsumption handles PATCH /consumptions/{consumptionID}.
func (s *Server) handleUpdateConsumption(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "consumptionID", chi.URLParam(r, "consumptionID"))
	if !ok {
		return
	}
	var req consumptionUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ch := domain.ConsumptionUpdate{Quantity: req.Quantity}
	var err error
	if ch.Date, err = parseOptionalDay(req.Date); err != nil {
		writeError(w, domain.NewValidationError("date", domain.RuleFormat, "date must be a date in the form 2006-01-02", *req.Date))
		return
	}
	if req.Meal != nil {
		meal, err := domain.ParseMeal(*req.Meal)
		if err != nil {
			writeError(w, err)
			return
		}
		ch.Meal = &meal
	}

	c, err := s.consumptions.Update(r.Context(), id, ch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewConsumptionRecord(c))
}

// handleDeleteConsumption handles DELETE /consumptions/{consumptionID}.
func (s *Server) handleDeleteConsumption(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "consumptionID", chi.URLParam(r, "consumptionID"))
	if !ok {
		return
	}
	if err := s.consumptions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeConsumptions(w http.ResponseWriter, cs []domain.Consumption) {
	out := make([]record.ConsumptionRecord, len(cs))
	for i, c := range cs {
		out[i] = record.NewConsumptionRecord(c)
	}
	writeJSON(w, http.StatusOK, out)
}
