package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/manilotw/Recipes/config"
	"github.com/manilotw/Recipes/models"
	"github.com/manilotw/Recipes/utils"
)

// RegisterUser creates the account together with its UserProfile, so every
// user has a budget and a full swap allowance from the first request.
func RegisterUser(email, password, firstName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.UserProfile{
			UserID:             user.ID,
			WeeklyBudget:       decimal.NewFromInt(2000),
			MealSwapsRemaining: 3,
			LastSwapReset:      time.Now(),
		}
		return tx.Create(&profile).Error
	})
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := config.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	return token, nil
}
