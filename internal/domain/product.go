package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product name length bounds.
const (
	MinProductNameLength = 2
	MaxProductNameLength = 100
)

// Product is a catalog entry. Products are not owned by a trip; they are
// associated with trips indirectly through consumptions.
type Product struct {
	id                uuid.UUID
	name              string
	category          Category
	productType       ProductType
	unit              Unit
	defaultQtyPerHead *float64
	notes             string
	createdAt         time.Time
}

// ProductInput carries the caller-supplied fields for a new product.
type ProductInput struct {
	Name                     string
	Category                 Category
	Type                     ProductType
	Unit                     Unit
	DefaultQuantityPerPerson *float64
	Notes                    string
}

// ProductUpdate carries a sparse change-set. Setting DefaultQuantityPerPerson
// to a pointer-to-nil is not expressible; use ClearDefaultQuantity to remove it.
type ProductUpdate struct {
	Name                     *string
	Category                 *Category
	Type                     *ProductType
	Unit                     *Unit
	DefaultQuantityPerPerson *float64
	ClearDefaultQuantity     bool
	Notes                    *string
}

// ProductProps is the trusted field set for reconstruction from storage.
type ProductProps struct {
	ID                       uuid.UUID
	Name                     string
	Category                 Category
	Type                     ProductType
	Unit                     Unit
	DefaultQuantityPerPerson *float64
	Notes                    string
	CreatedAt                time.Time
}

// NewProduct validates the input and returns a new Product. The type must
// belong to the declared category; a mismatch is a validation failure, never
// a silent coercion.
func NewProduct(in ProductInput) (Product, error) {
	var fields []FieldError

	name, errs := validateName("name", in.Name, MinProductNameLength, MaxProductNameLength)
	fields = append(fields, errs...)

	if _, err := ParseCategory(string(in.Category)); err != nil {
		fields = append(fields, FieldError{Field: "category", Rule: RuleEnum, Message: "invalid category", Value: in.Category})
	}
	if _, err := ParseProductType(string(in.Type)); err != nil {
		fields = append(fields, FieldError{Field: "type", Rule: RuleEnum, Message: "invalid product type", Value: in.Type})
	} else {
		fields = append(fields, validateCategoryType(in.Category, in.Type)...)
	}
	if _, err := ParseUnit(string(in.Unit)); err != nil {
		fields = append(fields, FieldError{Field: "unit", Rule: RuleEnum, Message: "invalid unit", Value: in.Unit})
	}

	if in.DefaultQuantityPerPerson != nil {
		fields = append(fields, validateQuantity("defaultQuantityPerPerson",
			*in.DefaultQuantityPerPerson, MinDefaultQuantity, MaxDefaultQuantity)...)
	}

	notes, errs := validateOptionalText("notes", in.Notes, MaxNotesLength)
	fields = append(fields, errs...)

	if err := errorOrNil(fields); err != nil {
		return Product{}, err
	}

	return Product{
		id:                uuid.New(),
		name:              name,
		category:          in.Category,
		productType:       in.Type,
		unit:              in.Unit,
		defaultQtyPerHead: copyFloat(in.DefaultQuantityPerPerson),
		notes:             notes,
		createdAt:         time.Now().UTC(),
	}, nil
}

// ProductFromProps reconstructs a Product from trusted props without
// re-validating.
func ProductFromProps(p ProductProps) Product {
	return Product{
		id:                p.ID,
		name:              p.Name,
		category:          p.Category,
		productType:       p.Type,
		unit:              p.Unit,
		defaultQtyPerHead: copyFloat(p.DefaultQuantityPerPerson),
		notes:             p.Notes,
		createdAt:         p.CreatedAt,
	}
}

// Update returns a copy with the supplied fields replaced. The category/type
// consistency rule is checked whenever either side changes, against the
// effective pair.
func (p Product) Update(ch ProductUpdate) (Product, error) {
	next := p
	var fields []FieldError

	if ch.Name != nil {
		name, errs := validateName("name", *ch.Name, MinProductNameLength, MaxProductNameLength)
		fields = append(fields, errs...)
		next.name = name
	}
	if ch.Category != nil {
		if _, err := ParseCategory(string(*ch.Category)); err != nil {
			fields = append(fields, FieldError{Field: "category", Rule: RuleEnum, Message: "invalid category", Value: *ch.Category})
		}
		next.category = *ch.Category
	}
	if ch.Type != nil {
		if _, err := ParseProductType(string(*ch.Type)); err != nil {
			fields = append(fields, FieldError{Field: "type", Rule: RuleEnum, Message: "invalid product type", Value: *ch.Type})
		}
		next.productType = *ch.Type
	}
	if ch.Category != nil || ch.Type != nil {
		fields = append(fields, validateCategoryType(next.category, next.productType)...)
	}
	if ch.Unit != nil {
		if _, err := ParseUnit(string(*ch.Unit)); err != nil {
			fields = append(fields, FieldError{Field: "unit", Rule: RuleEnum, Message: "invalid unit", Value: *ch.Unit})
		}
		next.unit = *ch.Unit
	}
	if ch.ClearDefaultQuantity {
		next.defaultQtyPerHead = nil
	} else if ch.DefaultQuantityPerPerson != nil {
		fields = append(fields, validateQuantity("defaultQuantityPerPerson",
			*ch.DefaultQuantityPerPerson, MinDefaultQuantity, MaxDefaultQuantity)...)
		next.defaultQtyPerHead = copyFloat(ch.DefaultQuantityPerPerson)
	}
	if ch.Notes != nil {
		notes, errs := validateOptionalText("notes", *ch.Notes, MaxNotesLength)
		fields = append(fields, errs...)
		next.notes = notes
	}

	if err := errorOrNil(fields); err != nil {
		return Product{}, err
	}
	return next, nil
}

func validateCategoryType(c Category, t ProductType) []FieldError {
	if tc, ok := typeCategory[t]; ok && tc != c {
		return []FieldError{{
			Field:   "type",
			Rule:    RuleCrossField,
			Message: string(t) + " does not belong to category " + string(c),
			Value:   t,
		}}
	}
	return nil
}

func (p Product) ID() uuid.UUID        { return p.id }
func (p Product) Name() string         { return p.name }
func (p Product) Category() Category   { return p.category }
func (p Product) Type() ProductType    { return p.productType }
func (p Product) Unit() Unit           { return p.unit }
func (p Product) Notes() string        { return p.notes }
func (p Product) CreatedAt() time.Time { return p.createdAt }

// DefaultQuantityPerPerson returns a copy of the optional per-person default.
func (p Product) DefaultQuantityPerPerson() *float64 {
	return copyFloat(p.defaultQtyPerHead)
}

// QuantityFor returns the suggested total quantity for n people, or 0 when
// no per-person default is set.
func (p Product) QuantityFor(people int) float64 {
	if p.defaultQtyPerHead == nil || people <= 0 {
		return 0
	}
	return *p.defaultQtyPerHead * float64(people)
}

// Props exports the full field set, e.g. for the mapping layer.
func (p Product) Props() ProductProps {
	return ProductProps{
		ID:                       p.id,
		Name:                     p.name,
		Category:                 p.category,
		Type:                     p.productType,
		Unit:                     p.unit,
		DefaultQuantityPerPerson: copyFloat(p.defaultQtyPerHead),
		Notes:                    p.notes,
		CreatedAt:                p.createdAt,
	}
}

// Equal reports id equality.
func (p Product) Equal(o Product) bool { return p.id == o.id }

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
