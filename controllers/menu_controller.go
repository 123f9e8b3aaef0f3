package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/manilotw/Recipes/models"
	"github.com/manilotw/Recipes/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetMenu returns today's menu, building it on first view of the day. The
// optional max_price query narrows the displayed slots only and never
// touches the cached assignment; unparseable input means no filter.
func GetMenu(c *gin.Context) {
	userID := c.GetUint("userID")

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())

	tariff, err := services.NewTariffService(menuSvc, services.NewGormTariffStore()).GetTariff(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "create a tariff first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := services.NewProfileService(menuSvc).GetOrCreateProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	menu, err := menuSvc.GetOrBuild(userID, tariff, profile.MaxDishPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slots := menu.Slots
	if raw := c.Query("max_price"); raw != "" {
		if maxPrice, err := decimal.NewFromString(raw); err == nil {
			filtered := map[string]services.MenuEntry{}
			for slot, entry := range slots {
				if entry.TotalPrice.LessThanOrEqual(maxPrice) {
					filtered[slot] = entry
				}
			}
			slots = filtered
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            time.Now().Format("2006-01-02"),
		"menu":            slots,
		"swaps_remaining": profile.MealSwapsRemaining,
	})
}

// SwapMeal re-rolls one slot of today's menu, spending one swap from the
// daily allowance.
func SwapMeal(c *gin.Context) {
	userID := c.GetUint("userID")

	mealType := strings.ToUpper(c.Param("meal_type"))
	switch mealType {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown meal type"})
		return
	}

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())

	tariff, err := services.NewTariffService(menuSvc, services.NewGormTariffStore()).GetTariff(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "create a tariff first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := services.NewProfileService(menuSvc).GetOrCreateProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	swapSvc := services.NewSwapService(menuSvc, services.NewGormProfileStore())
	entry, err := swapSvc.Swap(userID, tariff, profile, mealType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoSwapsRemaining):
			c.JSON(http.StatusConflict, gin.H{"error": "no meal swaps remaining today"})
		case errors.Is(err, services.ErrNoEligibleDish):
			c.JSON(http.StatusNotFound, gin.H{"error": "no suitable dish to swap to"})
		case errors.Is(err, services.ErrSlotNotInMenu):
			c.JSON(http.StatusNotFound, gin.H{"error": "this meal is not part of today's menu"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meal_type":       mealType,
		"dish":            entry,
		"swaps_remaining": profile.MealSwapsRemaining,
	})
}
