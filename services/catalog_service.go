package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/manilotw/Recipes/config"
	"github.com/manilotw/Recipes/models"
)

// RecomputeTotals sums price and calories over a dish's ingredient lines.
// A line whose ingredient has no price (or no calories) contributes zero to
// that total; a dish with no lines has both totals at zero.
func RecomputeTotals(dish *models.Dish) (decimal.Decimal, int) {
	price := decimal.Zero
	calories := decimal.Zero
	for _, di := range dish.Ingredients {
		if di.Ingredient.UnitPrice != nil {
			price = price.Add(di.Ingredient.UnitPrice.Mul(di.Quantity))
		}
		if di.Ingredient.UnitCalories != nil {
			calories = calories.Add(di.Quantity.Mul(decimal.NewFromInt(int64(*di.Ingredient.UnitCalories))))
		}
	}
	return price, int(calories.IntPart())
}

// CatalogStore persists ingredient lines and dish totals. Transact runs the
// callback against a store bound to one transaction, so a line change and
// the totals it implies commit together.
type CatalogStore interface {
	Transact(fn func(store CatalogStore) error) error
	CreateLine(di *models.DishIngredient) error
	FindLine(dishID, lineID uint) (*models.DishIngredient, error)
	SaveLine(di *models.DishIngredient) error
	DeleteLine(dishID, lineID uint) error
	LoadDishWithLines(dishID uint) (*models.Dish, error)
	SaveDishTotals(dishID uint, price decimal.Decimal, calories int) error
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// refreshDishTotals recomputes and persists one dish's derived totals. The
// two columns are written directly so the update cannot re-trigger another
// recomputation.
func refreshDishTotals(store CatalogStore, dishID uint) error {
	dish, err := store.LoadDishWithLines(dishID)
	if err != nil {
		return err
	}
	price, calories := RecomputeTotals(dish)
	return store.SaveDishTotals(dishID, price, calories)
}

// AddDishIngredient attaches an ingredient line to a dish and recomputes
// the dish totals in the same transaction, so the stored totals can never
// be observed out of step with the associations.
func (s *CatalogService) AddDishIngredient(dishID, ingredientID uint, quantity decimal.Decimal) (*models.DishIngredient, error) {
	if !quantity.IsPositive() {
		return nil, errors.New("quantity must be positive")
	}

	di := models.DishIngredient{
		DishID:       dishID,
		IngredientID: ingredientID,
		Quantity:     quantity,
	}
	err := s.store.Transact(func(store CatalogStore) error {
		if err := store.CreateLine(&di); err != nil {
			return err
		}
		return refreshDishTotals(store, dishID)
	})
	if err != nil {
		return nil, err
	}
	return &di, nil
}

func (s *CatalogService) UpdateDishIngredient(dishID, lineID uint, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	return s.store.Transact(func(store CatalogStore) error {
		di, err := store.FindLine(dishID, lineID)
		if err != nil {
			return err
		}
		di.Quantity = quantity
		if err := store.SaveLine(di); err != nil {
			return err
		}
		return refreshDishTotals(store, dishID)
	})
}

func (s *CatalogService) RemoveDishIngredient(dishID, lineID uint) error {
	return s.store.Transact(func(store CatalogStore) error {
		if err := store.DeleteLine(dishID, lineID); err != nil {
			return err
		}
		return refreshDishTotals(store, dishID)
	})
}

type gormCatalogStore struct {
	db *gorm.DB
}

func NewGormCatalogStore() CatalogStore { return gormCatalogStore{db: config.DB} }

func (s gormCatalogStore) Transact(fn func(store CatalogStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(gormCatalogStore{db: tx})
	})
}

func (s gormCatalogStore) CreateLine(di *models.DishIngredient) error {
	return s.db.Create(di).Error
}

func (s gormCatalogStore) FindLine(dishID, lineID uint) (*models.DishIngredient, error) {
	var di models.DishIngredient
	if err := s.db.Where("id = ? AND dish_id = ?", lineID, dishID).First(&di).Error; err != nil {
		return nil, err
	}
	return &di, nil
}

func (s gormCatalogStore) SaveLine(di *models.DishIngredient) error {
	return s.db.Save(di).Error
}

func (s gormCatalogStore) DeleteLine(dishID, lineID uint) error {
	res := s.db.Where("id = ? AND dish_id = ?", lineID, dishID).Delete(&models.DishIngredient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s gormCatalogStore) LoadDishWithLines(dishID uint) (*models.Dish, error) {
	var dish models.Dish
	if err := s.db.Preload("Ingredients.Ingredient").First(&dish, dishID).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (s gormCatalogStore) SaveDishTotals(dishID uint, price decimal.Decimal, calories int) error {
	return s.db.Model(&models.Dish{}).Where("id = ?", dishID).
		Updates(map[string]interface{}{
			"total_price":    price,
			"total_calories": calories,
		}).Error
}

type DishInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	DietType      string   `json:"diet_type"`
	MealType      string   `json:"meal_type"`
	IsActive      *bool    `json:"is_active"`
	AllergenSlugs []string `json:"allergens"`
}

func CreateDish(input DishInput) (*models.Dish, error) {
	dish := models.Dish{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		DietType:    input.DietType,
		MealType:    input.MealType,
		IsActive:    true,
	}
	if input.IsActive != nil {
		dish.IsActive = *input.IsActive
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dish).Error; err != nil {
			return err
		}
		return replaceDishAllergens(tx, &dish, input.AllergenSlugs)
	})
	if err != nil {
		return nil, err
	}
	return GetDish(dish.ID)
}

func UpdateDish(dishID uint, input DishInput) (*models.Dish, error) {
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var dish models.Dish
		if err := tx.First(&dish, dishID).Error; err != nil {
			return err
		}

		if input.Name != "" {
			dish.Name = input.Name
		}
		if input.Description != "" {
			dish.Description = input.Description
		}
		if input.ImageURL != "" {
			dish.ImageURL = input.ImageURL
		}
		if input.DietType != "" {
			dish.DietType = input.DietType
		}
		if input.MealType != "" {
			dish.MealType = input.MealType
		}
		if input.IsActive != nil {
			dish.IsActive = *input.IsActive
		}
		if err := tx.Save(&dish).Error; err != nil {
			return err
		}

		if input.AllergenSlugs != nil {
			if err := replaceDishAllergens(tx, &dish, input.AllergenSlugs); err != nil {
				return err
			}
		}

		// a direct save recomputes too, same as an association change
		return refreshDishTotals(gormCatalogStore{db: tx}, dish.ID)
	})
	if err != nil {
		return nil, err
	}
	return GetDish(dishID)
}

// uniqueSlugs drops repeated slugs, keeping first-seen order. A request
// naming the same allergen twice means the allergen once, not an unknown
// slug.
func uniqueSlugs(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := slugs[:0:0]
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			out = append(out, slug)
		}
	}
	return out
}

func replaceDishAllergens(tx *gorm.DB, dish *models.Dish, slugs []string) error {
	slugs = uniqueSlugs(slugs)
	if len(slugs) == 0 {
		return tx.Model(dish).Association("Allergens").Clear()
	}

	var allergens []models.Allergen
	if err := tx.Where("slug IN ?", slugs).Find(&allergens).Error; err != nil {
		return err
	}
	if len(allergens) != len(slugs) {
		return fmt.Errorf("unknown allergen slug in %v", slugs)
	}
	return tx.Model(dish).Association("Allergens").Replace(allergens)
}

func ListDishes() ([]models.Dish, error) {
	var dishes []models.Dish
	err := config.DB.Preload("Allergens").Order("name").Find(&dishes).Error
	return dishes, err
}

func GetDish(dishID uint) (*models.Dish, error) {
	var dish models.Dish
	err := config.DB.
		Preload("Allergens").
		Preload("Ingredients.Ingredient").
		First(&dish, dishID).Error
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

type IngredientInput struct {
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	UnitCalories *int             `json:"unit_calories"`
}

func CreateIngredient(input IngredientInput) (*models.Ingredient, error) {
	ing := models.Ingredient{
		Name:         input.Name,
		Unit:         input.Unit,
		UnitPrice:    input.UnitPrice,
		UnitCalories: input.UnitCalories,
	}
	if ing.Unit == "" {
		ing.Unit = models.UnitGram
	}
	if err := config.DB.Create(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func ListIngredients() ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := config.DB.Order("name").Find(&ingredients).Error
	return ingredients, err
}

// UpdateIngredient edits an ingredient and recomputes every dish that uses
// it, all in one transaction.
func UpdateIngredient(ingredientID uint, input IngredientInput) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var ing models.Ingredient
		if err := tx.First(&ing, ingredientID).Error; err != nil {
			return err
		}

		if input.Name != "" {
			ing.Name = input.Name
		}
		if input.Unit != "" {
			ing.Unit = input.Unit
		}
		if input.UnitPrice != nil {
			ing.UnitPrice = input.UnitPrice
		}
		if input.UnitCalories != nil {
			ing.UnitCalories = input.UnitCalories
		}
		if err := tx.Save(&ing).Error; err != nil {
			return err
		}

		var dishIDs []uint
		if err := tx.Model(&models.DishIngredient{}).
			Where("ingredient_id = ?", ingredientID).
			Distinct().
			Pluck("dish_id", &dishIDs).Error; err != nil {
			return err
		}
		store := gormCatalogStore{db: tx}
		for _, dishID := range dishIDs {
			if err := refreshDishTotals(store, dishID); err != nil {
				return err
			}
		}
		return nil
	})
}

var defaultAllergens = []models.Allergen{
	{Name: "Fish and seafood", Slug: "fish"},
	{Name: "Meat", Slug: "meat"},
	{Name: "Grains", Slug: "grains"},
	{Name: "Honey and bee products", Slug: "honey"},
	{Name: "Nuts and legumes", Slug: "nuts"},
	{Name: "Dairy", Slug: "dairy"},
}

// SeedAllergens makes sure every allergen the tariff flags point at exists.
// Idempotent; existing rows are left alone.
func SeedAllergens() error {
	for i := range defaultAllergens {
		a := defaultAllergens[i]
		err := config.DB.Where(models.Allergen{Slug: a.Slug}).FirstOrCreate(&a).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateAllergenCatalog checks the fixed allergy-flag→slug table against
// the allergens table. Run at startup so drift between code and catalog
// fails the boot instead of silently skipping an exclusion.
func ValidateAllergenCatalog() error {
	for _, slug := range models.AllergySlugs {
		var count int64
		err := config.DB.Model(&models.Allergen{}).Where("slug = ?", slug).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("allergen catalog is missing slug %q", slug)
		}
	}
	return nil
}
