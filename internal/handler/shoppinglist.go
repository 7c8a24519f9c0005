package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// shoppingListItemResponse is the wire shape of one aggregated shopping-list
// line.
type shoppingListItemResponse struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Unit        string   `json:"unit"`
	Quantity    float64  `json:"quantity"`
	Meals       []string `json:"meals"`
}

// handleShoppingList handles GET /trips/{tripID}/shopping-list. Optional
// ?from= and ?to= day bounds narrow the aggregation; they default to the
// trip's start and end dates.
func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
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

	items, err := s.shoppingLists.ForTrip(r.Context(), tripID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]shoppingListItemResponse, len(items))
	for i, item := range items {
		meals := make([]string, len(item.Meals))
		for j, m := range item.Meals {
			meals[j] = string(m)
		}
		out[i] = shoppingListItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Category:    string(item.Category),
			Type:        string(item.Type),
			Unit:        string(item.Unit),
			Quantity:    item.Quantity,
			Meals:       meals,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
