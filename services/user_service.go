package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manilotw/Recipes/config"
	"github.com/manilotw/Recipes/models"
)

type ProfileService struct {
	menu *MenuService
}

func NewProfileService(menu *MenuService) *ProfileService {
	return &ProfileService{menu: menu}
}

// GetOrCreateProfile returns the user's profile, creating one with defaults
// if registration predates the profile table.
func (s *ProfileService) GetOrCreateProfile(userID uint) (*models.UserProfile, error) {
	profile := models.UserProfile{
		UserID:             userID,
		WeeklyBudget:       decimal.NewFromInt(2000),
		MealSwapsRemaining: 3,
		LastSwapReset:      time.Now(),
	}
	err := config.DB.Where(models.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type ProfileUpdate struct {
	FirstName    string
	WeeklyBudget *decimal.Decimal
	MaxDishPrice *decimal.Decimal // nil with ClearCeiling unset = leave as is
	ClearCeiling bool
}

// UpdateProfile applies account and budget edits. Changing the price
// ceiling (setting or clearing it) invalidates the cached menu so the next
// view rebuilds under the new constraint.
func (s *ProfileService) UpdateProfile(userID uint, update ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			return nil, errors.New("user not found")
		}
		user.FirstName = update.FirstName
		if err := config.DB.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	if update.WeeklyBudget != nil {
		profile.WeeklyBudget = *update.WeeklyBudget
	}

	ceilingChanged := false
	if update.ClearCeiling {
		if profile.MaxDishPrice != nil {
			profile.MaxDishPrice = nil
			ceilingChanged = true
		}
	} else if update.MaxDishPrice != nil {
		if profile.MaxDishPrice == nil || !profile.MaxDishPrice.Equal(*update.MaxDishPrice) {
			profile.MaxDishPrice = update.MaxDishPrice
			ceilingChanged = true
		}
	}

	if err := config.DB.Save(profile).Error; err != nil {
		return nil, err
	}

	if ceilingChanged {
		if err := s.menu.Invalidate(userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func FindUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}
