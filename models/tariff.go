package models

import "gorm.io/gorm"

// MealTariff is a user's subscription configuration: which diet, which meal
// slots, which allergens to keep out. One per user — the unique index backs
// that up at the storage level, the tariff service enforces it as a domain
// rule first.
type MealTariff struct {
    gorm.Model
    UserID uint `gorm:"uniqueIndex;not null"`

    Name     string `gorm:"default:'Standard Plan'"`
    Period   string `gorm:"type:varchar(2);default:'1m'"` // 1m | 3m | 6m
    Persons  int    `gorm:"default:1"`
    DietType string `gorm:"type:varchar(20);not null;default:'CLASSIC'"`

    // Enabled meal slots. Desserts fills the SNACK slot.
    Breakfast bool
    Lunch     bool
    Dinner    bool
    Desserts  bool

    // Allergy exclusions, mapped 1:1 to allergen slugs below.
    AllergyFish   bool
    AllergyMeat   bool
    AllergyGrains bool
    AllergyHoney  bool
    AllergyNuts   bool
    AllergyDairy  bool
}

// AllergySlugs lists every allergen slug an allergy flag can point at.
// services.ValidateAllergenCatalog checks this table against the allergens
// table at startup so the flags and the catalog cannot drift apart.
var AllergySlugs = []string{"fish", "meat", "grains", "honey", "nuts", "dairy"}

// EnabledSlots returns the meal slots this tariff includes.
func (t *MealTariff) EnabledSlots() []string {
    var slots []string
    if t.Breakfast {
        slots = append(slots, MealBreakfast)
    }
    if t.Lunch {
        slots = append(slots, MealLunch)
    }
    if t.Dinner {
        slots = append(slots, MealDinner)
    }
    if t.Desserts {
        slots = append(slots, MealSnack)
    }
    return slots
}

// ExcludedAllergens returns the allergen slugs this tariff filters out.
func (t *MealTariff) ExcludedAllergens() []string {
    var slugs []string
    if t.AllergyFish {
        slugs = append(slugs, "fish")
    }
    if t.AllergyMeat {
        slugs = append(slugs, "meat")
    }
    if t.AllergyGrains {
        slugs = append(slugs, "grains")
    }
    if t.AllergyHoney {
        slugs = append(slugs, "honey")
    }
    if t.AllergyNuts {
        slugs = append(slugs, "nuts")
    }
    if t.AllergyDairy {
        slugs = append(slugs, "dairy")
    }
    return slugs
}
