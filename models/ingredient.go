package models

import (
    "github.com/shopspring/decimal"
    "gorm.io/gorm"
)

const (
    UnitGram       = "GRAM"
    UnitKilogram   = "KILOGRAM"
    UnitPiece      = "PIECE"
    UnitTablespoon = "TABLESPOON"
)

type Ingredient struct {
    gorm.Model
    Name string `gorm:"not null"`
    Unit string `gorm:"type:varchar(15);not null;default:'GRAM'"`

    // Per-unit values. Either may be unset; an unset value contributes zero
    // to the dish totals instead of failing the recomputation.
    UnitPrice    *decimal.Decimal `gorm:"type:decimal(10,2)"`
    UnitCalories *int
}
