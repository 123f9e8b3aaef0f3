package models

import (
    "time"

    "github.com/shopspring/decimal"
    "gorm.io/gorm"
)

// UserProfile holds the subscription-side settings of a user. One row per
// user, created together with the account.
type UserProfile struct {
    gorm.Model
    UserID uint `gorm:"uniqueIndex;not null"`

    WeeklyBudget decimal.Decimal  `gorm:"type:decimal(10,2);default:2000"`
    MaxDishPrice *decimal.Decimal `gorm:"type:decimal(10,2)"` // nil = no price ceiling

    // Swap allowance: decremented by successful swaps, refilled to 3 once
    // 24h have passed since LastSwapReset.
    MealSwapsRemaining int       `gorm:"not null;default:3"`
    LastSwapReset      time.Time `gorm:"not null"`
}
