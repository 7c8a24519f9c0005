// Package record defines the flat, storage-facing record shapes for each entity
// and the bidirectional mapping between those records and domain entities.
//
// Records are restricted to strings, numbers, booleans, and arrays thereof.
// Dates serialize to ISO-8601 strings; enum-like fields serialize to their
// canonical tags and are re-validated on the way back in, so a stored tag
// that no longer belongs to the closed set fails loudly instead of being
// silently coerced.
package record

import "strings"

// Collection names used as store keyspaces.
const (
	TripCollection         = "trips"
	ParticipantCollection  = "participants"
	ProductCollection      = "products"
	ConsumptionCollection  = "consumptions"
	AvailabilityCollection = "availabilities"
)

// TripRecord is the persisted shape of a domain.Trip.
type TripRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Keys returns the secondary-index values for a trip. Trips are only ever
// looked up by id or scanned, so there are none.
func (r TripRecord) Keys() map[string]string { return nil }

// ParticipantRecord is the persisted shape of a domain.Participant.
type ParticipantRecord struct {
	ID        string `json:"id"`
	TripID    string `json:"tripId"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Keys returns the secondary-index values for a participant.
func (r ParticipantRecord) Keys() map[string]string {
	return map[string]string{"tripId": r.TripID}
}

// ProductRecord is the persisted shape of a domain.Product.
type ProductRecord struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Category                 string   `json:"category"`
	Type                     string   `json:"type"`
	Unit                     string   `json:"unit"`
	DefaultQuantityPerPerson *float64 `json:"defaultQuantityPerPerson,omitempty"`
	Notes                    string   `json:"notes,omitempty"`
	CreatedAt                string   `json:"createdAt"`
}

// Keys returns the secondary-index values for a product.
func (r ProductRecord) Keys() map[string]string {
	return map[string]string{"category": r.Category, "type": r.Type}
}

// ConsumptionRecord is the persisted shape of a domain.Consumption.
type ConsumptionRecord struct {
	ID            string  `json:"id"`
	TripID        string  `json:"tripId"`
	ParticipantID string  `json:"participantId"`
	ProductID     string  `json:"productId"`
	Date          string  `json:"date"`
	Meal          string  `json:"meal"`
	Quantity      float64 `json:"quantity"`
	CreatedAt     string  `json:"createdAt"`
}

// Keys returns the secondary-index values for a consumption.
func (r ConsumptionRecord) Keys() map[string]string {
	return map[string]string{
		"tripId":        r.TripID,
		"participantId": r.ParticipantID,
		"productId":     r.ProductID,
		"date":          r.Date,
		"meal":          r.Meal,
	}
}

// AvailabilityRecord is the persisted shape of a domain.Availability.
type AvailabilityRecord struct {
	ID            string   `json:"id"`
	ParticipantID string   `json:"participantId"`
	TripID        string   `json:"tripId"`
	Date          string   `json:"date"`
	Meals         []string `json:"meals"`
}

// Keys returns the secondary-index values for an availability, including the
// composite key enforcing one record per participant per trip per day.
func (r AvailabilityRecord) Keys() map[string]string {
	return map[string]string{
		"tripId":        r.TripID,
		"participantId": r.ParticipantID,
		"date":          r.Date,
		"key":           AvailabilityKey(r.ParticipantID, r.TripID, r.Date),
	}
}

// AvailabilityKey derives the composite uniqueness key for an availability
// from its participant id, trip id, and day string ("2006-01-02"). It lets
// the repository detect a second record for the same participant/trip/day
// without a full index scan.
func AvailabilityKey(participantID, tripID, day string) string {
	return strings.Join([]string{participantID, tripID, day}, "_")
}
