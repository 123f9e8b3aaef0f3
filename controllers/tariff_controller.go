package controllers

import (
	"errors"
	"net/http"

	"github.com/manilotw/Recipes/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreateTariff(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.TariffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())
	tariff, err := services.NewTariffService(menuSvc, services.NewGormTariffStore()).CreateTariff(userID, input)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateTariff) {
			c.JSON(http.StatusConflict, gin.H{"error": "you already have a tariff"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tariff)
}

func GetTariff(c *gin.Context) {
	userID := c.GetUint("userID")

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())
	tariff, err := services.NewTariffService(menuSvc, services.NewGormTariffStore()).GetTariff(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no tariff yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tariff)
}

func UpdateTariff(c *gin.Context) {
	userID := c.GetUint("userID")

	var input services.TariffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menuSvc := services.NewMenuService(services.NewRedisMenuCache(), services.NewGormDishSource())
	tariff, err := services.NewTariffService(menuSvc, services.NewGormTariffStore()).UpdateTariff(userID, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no tariff yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tariff)
}
