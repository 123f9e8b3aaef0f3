package controllers

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/manilotw/Recipes/services"
)

func strPtr(s string) *string { return &s }

func TestApplyCeilingInputSetsNumericPrice(t *testing.T) {
	var update services.ProfileUpdate

	applyCeilingInput(&update, strPtr("150.50"))
	if update.MaxDishPrice == nil || !update.MaxDishPrice.Equal(decimal.RequireFromString("150.50")) {
		t.Fatalf("ceiling not set from numeric input: %+v", update)
	}
	if update.ClearCeiling {
		t.Fatalf("numeric input must not clear the ceiling")
	}
}

func TestApplyCeilingInputEmptyStringClears(t *testing.T) {
	var update services.ProfileUpdate

	applyCeilingInput(&update, strPtr(""))
	if !update.ClearCeiling {
		t.Fatalf("empty string is the clear sentinel")
	}
	if update.MaxDishPrice != nil {
		t.Fatalf("clearing must not also set a price")
	}
}

func TestApplyCeilingInputMalformedLeavesCeilingAlone(t *testing.T) {
	var update services.ProfileUpdate

	applyCeilingInput(&update, strPtr("cheap"))
	if update.ClearCeiling {
		t.Fatalf("malformed input cleared the ceiling")
	}
	if update.MaxDishPrice != nil {
		t.Fatalf("malformed input set a price")
	}
}

func TestApplyCeilingInputAbsentFieldIsUntouched(t *testing.T) {
	var update services.ProfileUpdate

	applyCeilingInput(&update, nil)
	if update.ClearCeiling || update.MaxDishPrice != nil {
		t.Fatalf("absent field must leave the update unchanged: %+v", update)
	}
}
