package services

import (
	"github.com/shopspring/decimal"

	"github.com/manilotw/Recipes/models"
)

// FilterOptions narrows the candidate set produced by EligibleDishes on top
// of the tariff's diet type.
type FilterOptions struct {
	MealType        string           // empty = any slot
	PriceCeiling    *decimal.Decimal // nil = no ceiling
	IgnoreAllergies bool             // last-resort relaxation only
	ExcludeDishID   uint             // 0 = exclude nothing; swaps pass the current dish
}

// EligibleDishes applies the tariff's constraints to an already-loaded dish
// slice: active, matching diet type, matching meal slot, within the price
// ceiling, and free of the tariff's excluded allergens. It touches no
// storage and draws no randomness, and an empty result is a normal outcome
// the caller must handle, never an error.
func EligibleDishes(dishes []models.Dish, tariff *models.MealTariff, opts FilterOptions) []models.Dish {
	excluded := tariff.ExcludedAllergens()

	var out []models.Dish
	for _, d := range dishes {
		if !d.IsActive || d.DietType != tariff.DietType {
			continue
		}
		if opts.MealType != "" && d.MealType != opts.MealType {
			continue
		}
		if opts.ExcludeDishID != 0 && d.ID == opts.ExcludeDishID {
			continue
		}
		if opts.PriceCeiling != nil && d.TotalPrice.GreaterThan(*opts.PriceCeiling) {
			continue
		}
		if !opts.IgnoreAllergies && d.HasAnyAllergen(excluded) {
			continue
		}
		out = append(out, d)
	}
	return out
}
