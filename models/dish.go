package models

import (
    "github.com/shopspring/decimal"
    "gorm.io/gorm"
)

const (
    DietClassic    = "CLASSIC"
    DietLowCarb    = "LOW_CARB"
    DietVegetarian = "VEGETARIAN"
    DietKeto       = "KETO"
)

const (
    MealBreakfast = "BREAKFAST"
    MealLunch     = "LUNCH"
    MealDinner    = "DINNER"
    MealSnack     = "SNACK"
)

// Dish is a shared, admin-owned catalog entry. TotalPrice and TotalCalories
// are derived from the ingredient associations and only change through the
// catalog service's recomputation.
type Dish struct {
    gorm.Model
    Name        string `gorm:"not null"`
    Description string
    ImageURL    string
    DietType    string `gorm:"type:varchar(20);not null;default:'CLASSIC';index"`
    MealType    string `gorm:"type:varchar(20);not null;index"`
    IsActive    bool   `gorm:"default:true"`

    TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
    TotalCalories int             `gorm:"default:0"`

    Ingredients []DishIngredient
    Allergens   []Allergen `gorm:"many2many:dish_allergens;"`
}

// DishIngredient is one ingredient line of a dish, unique per
// (dish, ingredient) pair. Quantity is in the ingredient's units.
type DishIngredient struct {
    gorm.Model
    DishID       uint `gorm:"not null;uniqueIndex:idx_dish_ingredient"`
    IngredientID uint `gorm:"not null;uniqueIndex:idx_dish_ingredient"`
    Ingredient   Ingredient
    Quantity     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// HasAnyAllergen reports whether the dish carries at least one of the given
// allergen slugs.
func (d *Dish) HasAnyAllergen(slugs []string) bool {
    for _, a := range d.Allergens {
        for _, slug := range slugs {
            if a.Slug == slug {
                return true
            }
        }
    }
    return false
}
