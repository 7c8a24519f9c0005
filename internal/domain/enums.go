package domain

import (
	"fmt"
	"sort"
)

// Meal is one of the four fixed meals of a day.
type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealSnack     Meal = "snack"
	MealDinner    Meal = "dinner"
)

// mealOrder is the canonical sort position of each meal. Snack sorts before
// dinner; this ordering is observable in every sorted meal list we persist,
// so it must not change.
var mealOrder = map[Meal]int{
	MealBreakfast: 0,
	MealLunch:     1,
	MealSnack:     2,
	MealDinner:    3,
}

// Meals returns all meals in canonical order.
func Meals() []Meal {
	return []Meal{MealBreakfast, MealLunch, MealSnack, MealDinner}
}

// ParseMeal validates a meal tag read from external or stored input.
func ParseMeal(s string) (Meal, error) {
	m := Meal(s)
	if _, ok := mealOrder[m]; !ok {
		return "", NewValidationError("meal", RuleEnum, fmt.Sprintf("invalid meal %q", s), s)
	}
	return m, nil
}

// NormalizeMeals deduplicates meals and returns them in canonical order.
// The input slice is not modified.
func NormalizeMeals(meals []Meal) []Meal {
	seen := make(map[Meal]bool, len(meals))
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return mealOrder[out[i]] < mealOrder[out[j]] })
	return out
}

// Category is the coarse product grouping.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryBeverage Category = "beverage"
	CategoryOther    Category = "other"
)

// ParseCategory validates a category tag read from external or stored input.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryFood, CategoryBeverage, CategoryOther:
		return c, nil
	}
	return "", NewValidationError("category", RuleEnum, fmt.Sprintf("invalid category %q", s), s)
}

// ProductType is the finer-grained product tag. Every type belongs to exactly
// one category.
type ProductType string

const (
	TypeFruit     ProductType = "fruit"
	TypeVegetable ProductType = "vegetable"
	TypeMeat      ProductType = "meat"
	TypeFish      ProductType = "fish"
	TypeDairy     ProductType = "dairy"
	TypeBread     ProductType = "bread"
	TypePasta     ProductType = "pasta"
	TypeRice      ProductType = "rice"
	TypeCondiment ProductType = "condiment"
	TypeSweet     ProductType = "sweet"

	TypeWater  ProductType = "water"
	TypeJuice  ProductType = "juice"
	TypeSoda   ProductType = "soda"
	TypeBeer   ProductType = "beer"
	TypeWine   ProductType = "wine"
	TypeCoffee ProductType = "coffee"
	TypeTea    ProductType = "tea"

	TypeHygiene   ProductType = "hygiene"
	TypeHousehold ProductType = "household"
	TypeMisc      ProductType = "misc"
)

// typeCategory is the closed many-to-one mapping from type to category.
var typeCategory = map[ProductType]Category{
	TypeFruit:     CategoryFood,
	TypeVegetable: CategoryFood,
	TypeMeat:      CategoryFood,
	TypeFish:      CategoryFood,
	TypeDairy:     CategoryFood,
	TypeBread:     CategoryFood,
	TypePasta:     CategoryFood,
	TypeRice:      CategoryFood,
	TypeCondiment: CategoryFood,
	TypeSweet:     CategoryFood,
	TypeWater:     CategoryBeverage,
	TypeJuice:     CategoryBeverage,
	TypeSoda:      CategoryBeverage,
	TypeBeer:      CategoryBeverage,
	TypeWine:      CategoryBeverage,
	TypeCoffee:    CategoryBeverage,
	TypeTea:       CategoryBeverage,
	TypeHygiene:   CategoryOther,
	TypeHousehold: CategoryOther,
	TypeMisc:      CategoryOther,
}

// ParseProductType validates a type tag read from external or stored input.
func ParseProductType(s string) (ProductType, error) {
	t := ProductType(s)
	if _, ok := typeCategory[t]; !ok {
		return "", NewValidationError("type", RuleEnum, fmt.Sprintf("invalid product type %q", s), s)
	}
	return t, nil
}

// Category returns the category the type belongs to. Zero value for unknown
// types; use ParseProductType first on untrusted input.
func (t ProductType) Category() Category {
	return typeCategory[t]
}

// TypesFor returns all types belonging to the given category, sorted by tag.
func TypesFor(c Category) []ProductType {
	var out []ProductType
	for t, tc := range typeCategory {
		if tc == c {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Unit is the unit of measure for a product quantity.
type Unit string

const (
	UnitPiece Unit = "piece"
	UnitKg    Unit = "kg"
	UnitG     Unit = "g"
	UnitL     Unit = "l"
	UnitMl    Unit = "ml"
	UnitPack  Unit = "pack"
)

// ParseUnit validates a unit tag read from external or stored input.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitPiece, UnitKg, UnitG, UnitL, UnitMl, UnitPack:
		return u, nil
	}
	return "", NewValidationError("unit", RuleEnum, fmt.Sprintf("invalid unit %q", s), s)
}
