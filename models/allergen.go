package models

import "gorm.io/gorm"

// Allergen is a catalog tag dishes carry. Slug is the stable machine key
// the tariff allergy flags map onto.
type Allergen struct {
    gorm.Model
    Name string `gorm:"not null"`
    Slug string `gorm:"type:varchar(32);uniqueIndex;not null"`
}
