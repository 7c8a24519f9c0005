package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ShoppingListItem is one line of the derived shopping list: the total
// quantity of one product consumed across all participants and days in range.
type ShoppingListItem struct {
	ProductID   uuid.UUID
	ProductName string
	Category    Category
	Type        ProductType
	Unit        Unit
	Quantity    float64
	// Meals lists the meals the product is consumed at, in canonical order.
	Meals []Meal
}

// BuildShoppingList aggregates consumptions into per-product totals for the
// inclusive [from, to] day range. When an availability record exists for a
// consumption's participant and day, consumptions for meals the participant
// is not present for are excluded. Days without an availability record count
// fully — absence of a record means "assume present".
//
// The function is pure: inputs are not mutated and the result is ordered by
// product name.
func BuildShoppingList(
	consumptions []Consumption,
	availabilities []Availability,
	products []Product,
	from, to time.Time,
) []ShoppingListItem {
	lo, hi := Day(from), Day(to)

	productsByID := make(map[uuid.UUID]Product, len(products))
	for _, p := range products {
		productsByID[p.ID()] = p
	}

	type availKey struct {
		participantID uuid.UUID
		day           time.Time
	}
	availByKey := make(map[availKey]Availability, len(availabilities))
	for _, a := range availabilities {
		availByKey[availKey{a.ParticipantID(), a.Date()}] = a
	}

	totals := make(map[uuid.UUID]*ShoppingListItem)
	mealsSeen := make(map[uuid.UUID][]Meal)

	for _, c := range consumptions {
		if c.Date().Before(lo) || c.Date().After(hi) {
			continue
		}
		if a, ok := availByKey[availKey{c.ParticipantID(), c.Date()}]; ok && !a.HasMeal(c.Meal()) {
			continue
		}
		p, ok := productsByID[c.ProductID()]
		if !ok {
			// Consumption referencing a product missing from the input set;
			// nothing to total it against.
			continue
		}

		item := totals[p.ID()]
		if item == nil {
			item = &ShoppingListItem{
				ProductID:   p.ID(),
				ProductName: p.Name(),
				Category:    p.Category(),
				Type:        p.Type(),
				Unit:        p.Unit(),
			}
			totals[p.ID()] = item
		}
		item.Quantity += c.Quantity()
		mealsSeen[p.ID()] = append(mealsSeen[p.ID()], c.Meal())
	}

	out := make([]ShoppingListItem, 0, len(totals))
	for id, item := range totals {
		item.Meals = NormalizeMeals(mealsSeen[id])
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}
