package domain

// Validate methods for the sparse change-sets. They check only the supplied
// fields, so a partial update can flow through without touching — or
// re-judging — anything the caller did not change. Cross-field rules run
// here when both sides of the pair are supplied; when one side comes from
// storage, the persistence layer re-checks the effective pair after the
// merge (see ValidateTripDates).

// Validate checks the supplied fields of a trip change-set.
func (ch TripUpdate) Validate() error {
	var fields []FieldError
	if ch.Name != nil {
		_, errs := validateName("name", *ch.Name, MinTripNameLength, MaxTripNameLength)
		fields = append(fields, errs...)
	}
	if ch.Description != nil {
		_, errs := validateOptionalText("description", *ch.Description, MaxTripDescriptionLength)
		fields = append(fields, errs...)
	}
	if ch.StartDate != nil && ch.EndDate != nil {
		fields = append(fields, validateTripDates(Day(*ch.StartDate), Day(*ch.EndDate))...)
	}
	return errorOrNil(fields)
}

// Validate checks the supplied fields of a participant change-set.
func (ch ParticipantUpdate) Validate() error {
	var fields []FieldError
	if ch.Name != nil {
		_, errs := validateName("name", *ch.Name, MinParticipantNameLength, MaxParticipantNameLength)
		fields = append(fields, errs...)
	}
	if ch.Email != nil {
		_, errs := validateEmail(*ch.Email)
		fields = append(fields, errs...)
	}
	if ch.Notes != nil {
		_, errs := validateOptionalText("notes", *ch.Notes, MaxNotesLength)
		fields = append(fields, errs...)
	}
	return errorOrNil(fields)
}

// Validate checks the supplied fields of a product change-set.
func (ch ProductUpdate) Validate() error {
	var fields []FieldError
	if ch.Name != nil {
		_, errs := validateName("name", *ch.Name, MinProductNameLength, MaxProductNameLength)
		fields = append(fields, errs...)
	}
	if ch.Category != nil {
		if _, err := ParseCategory(string(*ch.Category)); err != nil {
			fields = append(fields, FieldError{Field: "category", Rule: RuleEnum, Message: "invalid category", Value: *ch.Category})
		}
	}
	if ch.Type != nil {
		if _, err := ParseProductType(string(*ch.Type)); err != nil {
			fields = append(fields, FieldError{Field: "type", Rule: RuleEnum, Message: "invalid product type", Value: *ch.Type})
		}
	}
	if ch.Category != nil && ch.Type != nil {
		fields = append(fields, validateCategoryType(*ch.Category, *ch.Type)...)
	}
	if ch.Unit != nil {
		if _, err := ParseUnit(string(*ch.Unit)); err != nil {
			fields = append(fields, FieldError{Field: "unit", Rule: RuleEnum, Message: "invalid unit", Value: *ch.Unit})
		}
	}
	if !ch.ClearDefaultQuantity && ch.DefaultQuantityPerPerson != nil {
		fields = append(fields, validateQuantity("defaultQuantityPerPerson",
			*ch.DefaultQuantityPerPerson, MinDefaultQuantity, MaxDefaultQuantity)...)
	}
	if ch.Notes != nil {
		_, errs := validateOptionalText("notes", *ch.Notes, MaxNotesLength)
		fields = append(fields, errs...)
	}
	return errorOrNil(fields)
}

// Validate checks the supplied fields of a consumption change-set. Updating
// quantity alone never re-judges the stored meal tag.
func (ch ConsumptionUpdate) Validate() error {
	var fields []FieldError
	if ch.Date != nil && ch.Date.IsZero() {
		fields = append(fields, FieldError{Field: "date", Rule: RuleRequired, Message: "date is required", Value: *ch.Date})
	}
	if ch.Meal != nil {
		if _, err := ParseMeal(string(*ch.Meal)); err != nil {
			fields = append(fields, FieldError{Field: "meal", Rule: RuleEnum, Message: "invalid meal", Value: *ch.Meal})
		}
	}
	if ch.Quantity != nil {
		fields = append(fields, validateQuantity("quantity", *ch.Quantity, MinQuantity, MaxQuantity)...)
	}
	return errorOrNil(fields)
}

// Validate checks the supplied fields of an availability change-set.
func (ch AvailabilityUpdate) Validate() error {
	var fields []FieldError
	if ch.Date != nil && ch.Date.IsZero() {
		fields = append(fields, FieldError{Field: "date", Rule: RuleRequired, Message: "date is required", Value: *ch.Date})
	}
	for _, m := range ch.Meals {
		if _, err := ParseMeal(string(m)); err != nil {
			fields = append(fields, FieldError{Field: "meals", Rule: RuleEnum, Message: "invalid meal", Value: m})
		}
	}
	return errorOrNil(fields)
}
