package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/manilotw/Recipes/models"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func line(price *decimal.Decimal, calories *int, quantity string) models.DishIngredient {
	return models.DishIngredient{
		Quantity: decimal.RequireFromString(quantity),
		Ingredient: models.Ingredient{
			UnitPrice:    price,
			UnitCalories: calories,
		},
	}
}

func TestRecomputeTotalsSumsOverAssociations(t *testing.T) {
	dish := models.Dish{
		Ingredients: []models.DishIngredient{
			line(decPtr("12.50"), intPtr(90), "2"),    // 25.00, 180 kcal
			line(decPtr("3.30"), intPtr(250), "0.5"),  // 1.65, 125 kcal
		},
	}

	price, calories := RecomputeTotals(&dish)
	if !price.Equal(decimal.RequireFromString("26.65")) {
		t.Fatalf("price = %s, want 26.65", price)
	}
	if calories != 305 {
		t.Fatalf("calories = %d, want 305", calories)
	}
}

func TestRecomputeTotalsTreatsMissingValuesAsZero(t *testing.T) {
	dish := models.Dish{
		Ingredients: []models.DishIngredient{
			line(nil, intPtr(100), "2"),        // no price, 200 kcal
			line(decPtr("10"), nil, "3"),       // 30.00, no calories
		},
	}

	price, calories := RecomputeTotals(&dish)
	if !price.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("price = %s, want 30", price)
	}
	if calories != 200 {
		t.Fatalf("calories = %d, want 200", calories)
	}
}

func TestRecomputeTotalsEmptyDishIsZero(t *testing.T) {
	var dish models.Dish

	price, calories := RecomputeTotals(&dish)
	if !price.IsZero() {
		t.Fatalf("price = %s, want 0", price)
	}
	if calories != 0 {
		t.Fatalf("calories = %d, want 0", calories)
	}
}

// memoryCatalogStore holds one dish and its ingredient lines. Transact just
// runs the callback; there is nothing to roll back in memory.
type memoryCatalogStore struct {
	dish        models.Dish
	ingredients map[uint]models.Ingredient
	lines       map[uint]*models.DishIngredient
	nextLineID  uint
}

func newMemoryCatalogStore(ingredients ...models.Ingredient) *memoryCatalogStore {
	s := &memoryCatalogStore{
		dish:        models.Dish{Model: gorm.Model{ID: 1}, Name: "Shakshuka"},
		ingredients: map[uint]models.Ingredient{},
		lines:       map[uint]*models.DishIngredient{},
	}
	for _, ing := range ingredients {
		s.ingredients[ing.ID] = ing
	}
	return s
}

func (s *memoryCatalogStore) Transact(fn func(store CatalogStore) error) error {
	return fn(s)
}

func (s *memoryCatalogStore) CreateLine(di *models.DishIngredient) error {
	s.nextLineID++
	di.ID = s.nextLineID
	cp := *di
	s.lines[di.ID] = &cp
	return nil
}

func (s *memoryCatalogStore) FindLine(dishID, lineID uint) (*models.DishIngredient, error) {
	line, ok := s.lines[lineID]
	if !ok || line.DishID != dishID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *line
	return &cp, nil
}

func (s *memoryCatalogStore) SaveLine(di *models.DishIngredient) error {
	cp := *di
	s.lines[di.ID] = &cp
	return nil
}

func (s *memoryCatalogStore) DeleteLine(dishID, lineID uint) error {
	line, ok := s.lines[lineID]
	if !ok || line.DishID != dishID {
		return gorm.ErrRecordNotFound
	}
	delete(s.lines, lineID)
	return nil
}

func (s *memoryCatalogStore) LoadDishWithLines(dishID uint) (*models.Dish, error) {
	if dishID != s.dish.ID {
		return nil, gorm.ErrRecordNotFound
	}
	dish := s.dish
	dish.Ingredients = nil
	for _, line := range s.lines {
		if line.DishID != dishID {
			continue
		}
		cp := *line
		cp.Ingredient = s.ingredients[line.IngredientID]
		dish.Ingredients = append(dish.Ingredients, cp)
	}
	return &dish, nil
}

func (s *memoryCatalogStore) SaveDishTotals(dishID uint, price decimal.Decimal, calories int) error {
	s.dish.TotalPrice = price
	s.dish.TotalCalories = calories
	return nil
}

func testIngredient(id uint, price string, calories int) models.Ingredient {
	return models.Ingredient{
		Model:        gorm.Model{ID: id},
		Unit:         models.UnitGram,
		UnitPrice:    decPtr(price),
		UnitCalories: intPtr(calories),
	}
}

func assertTotals(t *testing.T, store *memoryCatalogStore, price string, calories int) {
	t.Helper()
	if !store.dish.TotalPrice.Equal(decimal.RequireFromString(price)) {
		t.Fatalf("total price = %s, want %s", store.dish.TotalPrice, price)
	}
	if store.dish.TotalCalories != calories {
		t.Fatalf("total calories = %d, want %d", store.dish.TotalCalories, calories)
	}
}

func TestDishTotalsFollowTheIngredientLineLifecycle(t *testing.T) {
	store := newMemoryCatalogStore(
		testIngredient(1, "5.00", 70),
		testIngredient(2, "2.50", 360),
	)
	svc := NewCatalogService(store)

	if _, err := svc.AddDishIngredient(1, 1, decimal.NewFromInt(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTotals(t, store, "10.00", 140)

	line, err := svc.AddDishIngredient(1, 2, decimal.RequireFromString("0.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTotals(t, store, "11.25", 320)

	if err := svc.UpdateDishIngredient(1, line.ID, decimal.NewFromInt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTotals(t, store, "12.50", 430)

	if err := svc.RemoveDishIngredient(1, line.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTotals(t, store, "10.00", 140)
}

func TestAddDishIngredientRejectsNonPositiveQuantity(t *testing.T) {
	store := newMemoryCatalogStore(testIngredient(1, "5.00", 70))
	svc := NewCatalogService(store)

	if _, err := svc.AddDishIngredient(1, 1, decimal.Zero); err == nil {
		t.Fatalf("zero quantity accepted")
	}
	if len(store.lines) != 0 {
		t.Fatalf("rejected line was persisted")
	}
}

func TestRemoveDishIngredientMissingLine(t *testing.T) {
	store := newMemoryCatalogStore()
	svc := NewCatalogService(store)

	if err := svc.RemoveDishIngredient(1, 99); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestUniqueSlugsDropsRepeats(t *testing.T) {
	got := uniqueSlugs([]string{"nuts", "dairy", "nuts", "dairy"})
	if !reflect.DeepEqual(got, []string{"nuts", "dairy"}) {
		t.Fatalf("uniqueSlugs = %v, want [nuts dairy]", got)
	}
	if out := uniqueSlugs(nil); len(out) != 0 {
		t.Fatalf("uniqueSlugs(nil) = %v, want empty", out)
	}
}
