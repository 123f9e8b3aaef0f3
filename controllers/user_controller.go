package controllers

import (
	"net/http"

	"github.com/manilotw/Recipes/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	user, err := services.FindUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())
	profile, err := services.NewProfileService(menuSvc).GetOrCreateProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":                user.Email,
		"first_name":           user.FirstName,
		"weekly_budget":        profile.WeeklyBudget,
		"max_dish_price":       profile.MaxDishPrice,
		"meal_swaps_remaining": profile.MealSwapsRemaining,
		"last_swap_reset":      profile.LastSwapReset,
	})
}

type ProfileInput struct {
	FirstName    string           `json:"first_name"`
	WeeklyBudget *decimal.Decimal `json:"weekly_budget"`
	MaxDishPrice *string          `json:"max_dish_price"` // "" clears the ceiling
}

// applyCeilingInput maps the raw max_dish_price field onto the update: a
// number sets the ceiling, the empty string clears it, and anything else
// counts as "no ceiling supplied" — the stored ceiling stays as it is,
// never an error.
func applyCeilingInput(update *services.ProfileUpdate, raw *string) {
	if raw == nil {
		return
	}
	if *raw == "" {
		update.ClearCeiling = true
		return
	}
	if price, err := decimal.NewFromString(*raw); err == nil {
		update.MaxDishPrice = &price
	}
}

func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.ProfileUpdate{
		FirstName:    input.FirstName,
		WeeklyBudget: input.WeeklyBudget,
	}
	applyCeilingInput(&update, input.MaxDishPrice)

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())
	profile, err := services.NewProfileService(menuSvc).UpdateProfile(userID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "profile updated successfully",
		"weekly_budget":  profile.WeeklyBudget,
		"max_dish_price": profile.MaxDishPrice,
	})
}
