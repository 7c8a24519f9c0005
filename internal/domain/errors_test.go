package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoss/trip-pantry/internal/domain"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := domain.NewValidationError("name", domain.RuleRequired, "name is required", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestValidationErrors_JoinsMessages(t *testing.T) {
	err := domain.NewValidationErrors(
		domain.FieldError{Field: "name", Rule: domain.RuleRequired, Message: "name is required"},
		domain.FieldError{Field: "email", Rule: domain.RuleFormat, Message: "email is not a valid address"},
	)

	assert.Equal(t, "name is required; email is not a valid address", err.Error())
	assert.Len(t, err.Fields, 2)
}

func TestStructuredErrors_ExposeMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.NewValidationError("name", domain.RuleRequired, "name is required", ""), "name is required"},
		{domain.NewNotFoundError("trip", "t1"), `trip with id "t1" not found`},
		{domain.NewDuplicateError("product", "name", "Cola"), "product with name Cola already exists"},
		{domain.NewBusinessRuleError("participant", "p1", "participant has consumption records", nil), "participant has consumption records"},
		{domain.NewDeserializationError("trip", []string{"t9"}, nil), "1 trip record(s) failed to deserialize: [t9]"},
	}
	for _, tc := range cases {
		assert.EqualError(t, tc.err, tc.want)
	}
}

func TestValidationErrors_DetailsKeepAllRulesPerField(t *testing.T) {
	err := domain.NewValidationErrors(
		domain.FieldError{Field: "type", Rule: domain.RuleEnum, Message: "type is not a known product type"},
		domain.FieldError{Field: "type", Rule: domain.RuleCrossField, Message: "type does not belong to category beverage"},
		domain.FieldError{Field: "name", Rule: domain.RuleRequired, Message: "name is required"},
	)

	assert.Equal(t, []string{domain.RuleEnum, domain.RuleCrossField}, err.Details["type"])
	assert.Equal(t, []string{domain.RuleRequired}, err.Details["name"])
}

func TestNotFoundError_MatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("service.TripService.GetByID: %w", domain.NewNotFoundError("trip", "abc"))

	assert.ErrorIs(t, err, domain.ErrNotFound)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "trip", nf.Entity)
}

func TestDuplicateError_CarriesCompositeKey(t *testing.T) {
	err := domain.NewDuplicateKeyError("availability", map[string]any{
		"participantId": "p1", "tripId": "t1", "date": "2026-07-11",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "p1", err.Key["participantId"])
}

func TestBusinessRuleError_CarriesDetails(t *testing.T) {
	err := domain.NewBusinessRuleError("participant", "p1",
		"participant has consumption records",
		map[string]any{"dependentConsumptions": int64(3)})

	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, int64(3), err.Details["dependentConsumptions"])
}

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		domain.ErrValidation, domain.ErrNotFound, domain.ErrDuplicate, domain.ErrBusinessRule,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}
