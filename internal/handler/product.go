package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avoss/trip-pantry/internal/domain"
	"github.com/avoss/trip-pantry/internal/record"
)

// productCreateRequest is the JSON body for POST /products.
type productCreateRequest struct {
	Name                     string   `json:"name"`
	Category                 string   `json:"category"`
	Type                     string   `json:"type"`
	Unit                     string   `json:"unit"`
	DefaultQuantityPerPerson *float64 `json:"defaultQuantityPerPerson"`
	Notes                    string   `json:"notes"`
}

// productUpdateRequest is the JSON body for PATCH /products/{productID}.
// Setting clearDefaultQuantity removes the default quantity; supplying
// defaultQuantityPerPerson replaces it.
type productUpdateRequest struct {
	Name                     *string  `json:"name"`
	Category                 *string  `json:"category"`
	Type                     *string  `json:"type"`
	Unit                     *string  `json:"unit"`
	DefaultQuantityPerPerson *float64 `json:"defaultQuantityPerPerson"`
	ClearDefaultQuantity     bool     `json:"clearDefaultQuantity"`
	Notes                    *string  `json:"notes"`
}

// handleCreateProduct handles POST /products.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	productType, err := domain.ParseProductType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	unit, err := domain.ParseUnit(req.Unit)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.products.Create(r.Context(), domain.ProductInput{
		Name:                     req.Name,
		Category:                 category,
		Type:                     productType,
		Unit:                     unit,
		DefaultQuantityPerPerson: req.DefaultQuantityPerPerson,
		Notes:                    req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record.NewProductRecord(p))
}

// handleListProducts handles GET /products. ?category= filters by category,
// ?q= runs a case-insensitive name search; the filters are exclusive, with
// category taking precedence.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		ps  []domain.Product
		err error
	)
	switch {
	case r.URL.Query().Get("category") != "":
		var category domain.Category
		category, err = domain.ParseCategory(r.URL.Query().Get("category"))
		if err == nil {
			ps, err = s.products.ListByCategory(r.Context(), category)
		}
	case r.URL.Query().Get("q") != "":
		ps, err = s.products.Search(r.Context(), r.URL.Query().Get("q"))
	default:
		ps, err = s.products.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]record.ProductRecord, len(ps))
	for i, p := range ps {
		out[i] = record.NewProductRecord(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetProduct handles GET /products/{productID}.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "productID", chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	p, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewProductRecord(p))
}

// handleUpdateProduct handles PATCH /products/{productID}.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "productID", chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	var req productUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ch := domain.ProductUpdate{
		Name:                     req.Name,
		DefaultQuantityPerPerson: req.DefaultQuantityPerPerson,
		ClearDefaultQuantity:     req.ClearDefaultQuantity,
		Notes:                    req.Notes,
	}
	if req.Category != nil {
		category, err := domain.ParseCategory(*req.Category)
		if err != nil {
			writeError(w, err)
			return
		}
		ch.Category = &category
	}
	if req.Type != nil {
		productType, err := domain.ParseProductType(*req.Type)
		if err != nil {
			writeError(w, err)
			return
		}
		ch.Type = &productType
	}
	if req.Unit != nil {
		unit, err := domain.ParseUnit(*req.Unit)
		if err != nil {
			writeError(w, err)
			return
		}
		ch.Unit = &unit
	}

	p, err := s.products.Update(r.Context(), id, ch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.NewProductRecord(p))
}

// handleDeleteProduct handles DELETE /products/{productID}. A product with
// consumption records is only deleted with ?force=true, which removes the
// dependent consumptions as well.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, "productID", chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"
	if err := s.products.Delete(r.Context(), id, force); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
