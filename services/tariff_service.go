package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/manilotw/Recipes/config"
	"github.com/manilotw/Recipes/models"
)

// TariffStore persists tariffs. Tests use an in-memory implementation.
type TariffStore interface {
	CountForUser(userID uint) (int64, error)
	Create(tariff *models.MealTariff) error
	FindByUser(userID uint) (*models.MealTariff, error)
	Save(tariff *models.MealTariff) error
}

type TariffService struct {
	menu  *MenuService
	store TariffStore
}

func NewTariffService(menu *MenuService, store TariffStore) *TariffService {
	return &TariffService{menu: menu, store: store}
}

type TariffInput struct {
	Name     string `json:"name"`
	Period   string `json:"period"`
	Persons  int    `json:"persons"`
	DietType string `json:"diet_type" binding:"required,oneof=CLASSIC LOW_CARB VEGETARIAN KETO"`

	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
	Desserts  bool `json:"desserts"`

	AllergyFish   bool `json:"allergy_fish"`
	AllergyMeat   bool `json:"allergy_meat"`
	AllergyGrains bool `json:"allergy_grains"`
	AllergyHoney  bool `json:"allergy_honey"`
	AllergyNuts   bool `json:"allergy_nuts"`
	AllergyDairy  bool `json:"allergy_dairy"`
}

// CreateTariff makes the user's tariff. A user that already has one gets
// ErrDuplicateTariff — never a silent overwrite. A duplicate that slips
// through the pre-check (two racing creates) hits the unique index and is
// mapped to the same domain error.
func (s *TariffService) CreateTariff(userID uint, input TariffInput) (*models.MealTariff, error) {
	count, err := s.store.CountForUser(userID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateTariff
	}

	tariff := models.MealTariff{
		UserID:   userID,
		Name:     input.Name,
		Period:   input.Period,
		Persons:  input.Persons,
		DietType: input.DietType,

		Breakfast: input.Breakfast,
		Lunch:     input.Lunch,
		Dinner:    input.Dinner,
		Desserts:  input.Desserts,

		AllergyFish:   input.AllergyFish,
		AllergyMeat:   input.AllergyMeat,
		AllergyGrains: input.AllergyGrains,
		AllergyHoney:  input.AllergyHoney,
		AllergyNuts:   input.AllergyNuts,
		AllergyDairy:  input.AllergyDairy,
	}
	if tariff.Name == "" {
		tariff.Name = "Standard Plan"
	}
	if tariff.Period == "" {
		tariff.Period = "1m"
	}
	if tariff.Persons == 0 {
		tariff.Persons = 1
	}

	if err := s.store.Create(&tariff); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTariff
		}
		return nil, err
	}
	return &tariff, nil
}

func (s *TariffService) GetTariff(userID uint) (*models.MealTariff, error) {
	return s.store.FindByUser(userID)
}

// UpdateTariff edits the user's tariff. A change to the diet type or any
// allergy flag makes the cached menu stale, so it is invalidated here and
// rebuilt on the next view.
func (s *TariffService) UpdateTariff(userID uint, input TariffInput) (*models.MealTariff, error) {
	tariff, err := s.store.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	staleMenu := tariff.DietType != input.DietType ||
		tariff.AllergyFish != input.AllergyFish ||
		tariff.AllergyMeat != input.AllergyMeat ||
		tariff.AllergyGrains != input.AllergyGrains ||
		tariff.AllergyHoney != input.AllergyHoney ||
		tariff.AllergyNuts != input.AllergyNuts ||
		tariff.AllergyDairy != input.AllergyDairy

	if input.Name != "" {
		tariff.Name = input.Name
	}
	if input.Period != "" {
		tariff.Period = input.Period
	}
	if input.Persons > 0 {
		tariff.Persons = input.Persons
	}
	tariff.DietType = input.DietType

	tariff.Breakfast = input.Breakfast
	tariff.Lunch = input.Lunch
	tariff.Dinner = input.Dinner
	tariff.Desserts = input.Desserts

	tariff.AllergyFish = input.AllergyFish
	tariff.AllergyMeat = input.AllergyMeat
	tariff.AllergyGrains = input.AllergyGrains
	tariff.AllergyHoney = input.AllergyHoney
	tariff.AllergyNuts = input.AllergyNuts
	tariff.AllergyDairy = input.AllergyDairy

	if err := s.store.Save(tariff); err != nil {
		return nil, err
	}

	if staleMenu {
		if err := s.menu.Invalidate(userID); err != nil {
			return nil, err
		}
	}
	return tariff, nil
}

type gormTariffStore struct{}

func NewGormTariffStore() TariffStore { return gormTariffStore{} }

func (gormTariffStore) CountForUser(userID uint) (int64, error) {
	var count int64
	err := config.DB.Model(&models.MealTariff{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (gormTariffStore) Create(tariff *models.MealTariff) error {
	return config.DB.Create(tariff).Error
}

func (gormTariffStore) FindByUser(userID uint) (*models.MealTariff, error) {
	var tariff models.MealTariff
	if err := config.DB.Where("user_id = ?", userID).First(&tariff).Error; err != nil {
		return nil, err
	}
	return &tariff, nil
}

func (gormTariffStore) Save(tariff *models.MealTariff) error {
	return config.DB.Save(tariff).Error
}
