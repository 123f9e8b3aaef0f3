package services

import (
	"errors"
	"testing"
	"time"

	"github.com/manilotw/Recipes/models"
)

type memoryProfileStore struct {
	saves int
}

func (s *memoryProfileStore) Save(profile *models.UserProfile) error {
	s.saves++
	return nil
}

func testProfile(remaining int, lastReset time.Time) *models.UserProfile {
	return &models.UserProfile{
		UserID:             7,
		MealSwapsRemaining: remaining,
		LastSwapReset:      lastReset,
	}
}

func newTestSwapService(menu *MenuService) (*SwapService, *memoryProfileStore) {
	store := &memoryProfileStore{}
	return &SwapService{menu: menu, profiles: store, now: func() time.Time { return testNow }}, store
}

func TestResetIfDueRefillsAfterWindow(t *testing.T) {
	svc, store := newTestSwapService(nil)
	profile := testProfile(0, testNow.Add(-25*time.Hour))

	did, err := svc.ResetIfDue(profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !did {
		t.Fatalf("expected a reset 25h after the last one")
	}
	if profile.MealSwapsRemaining != 3 {
		t.Fatalf("remaining = %d, want 3", profile.MealSwapsRemaining)
	}
	if !profile.LastSwapReset.Equal(testNow) {
		t.Fatalf("reset timestamp not advanced")
	}
	if store.saves != 1 {
		t.Fatalf("profile not persisted on reset")
	}
}

func TestResetIfDueIsANoOpInsideWindow(t *testing.T) {
	svc, store := newTestSwapService(nil)
	profile := testProfile(1, testNow.Add(-23*time.Hour))

	did, err := svc.ResetIfDue(profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if did {
		t.Fatalf("reset fired inside the 24h window")
	}
	if profile.MealSwapsRemaining != 1 {
		t.Fatalf("remaining changed on a no-op reset")
	}
	if store.saves != 0 {
		t.Fatalf("profile saved on a no-op reset")
	}
}

func TestSwapReplacesExactlyOneSlot(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
		testDish(2, "Pancakes", models.DietClassic, models.MealBreakfast, 90),
		testDish(3, "Borscht", models.DietClassic, models.MealLunch, 120),
	}
	menuSvc, _, _ := newTestMenuService(1, dishes)
	tariff := classicTariff()
	profile := testProfile(3, testNow)

	before, err := menuSvc.GetOrBuild(7, tariff, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oldBreakfast := before.Slots[models.MealBreakfast].DishID
	oldLunch := before.Slots[models.MealLunch].DishID

	svc, store := newTestSwapService(menuSvc)
	entry, err := svc.Swap(7, tariff, profile, models.MealBreakfast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.DishID == oldBreakfast {
		t.Fatalf("swap re-selected the current dish although an alternative exists")
	}

	after, _ := menuSvc.GetOrBuild(7, tariff, nil)
	if after.Slots[models.MealBreakfast].DishID != entry.DishID {
		t.Fatalf("cached menu does not carry the swapped dish")
	}
	if after.Slots[models.MealLunch].DishID != oldLunch {
		t.Fatalf("lunch slot changed by a breakfast swap")
	}
	if profile.MealSwapsRemaining != 2 {
		t.Fatalf("remaining = %d, want 2", profile.MealSwapsRemaining)
	}
	if store.saves != 1 {
		t.Fatalf("profile not persisted after a successful swap")
	}
}

func TestSwapFailsWhenAllowanceIsSpent(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
		testDish(2, "Pancakes", models.DietClassic, models.MealBreakfast, 90),
	}
	menuSvc, _, _ := newTestMenuService(1, dishes)
	tariff := &models.MealTariff{DietType: models.DietClassic, Breakfast: true}
	profile := testProfile(0, testNow)

	before, _ := menuSvc.GetOrBuild(7, tariff, nil)
	oldBreakfast := before.Slots[models.MealBreakfast].DishID

	svc, store := newTestSwapService(menuSvc)
	_, err := svc.Swap(7, tariff, profile, models.MealBreakfast)
	if !errors.Is(err, ErrNoSwapsRemaining) {
		t.Fatalf("expected ErrNoSwapsRemaining, got %v", err)
	}
	if profile.MealSwapsRemaining != 0 {
		t.Fatalf("remaining changed on a denied swap")
	}
	if store.saves != 0 {
		t.Fatalf("profile saved on a denied swap")
	}

	after, _ := menuSvc.GetOrBuild(7, tariff, nil)
	if after.Slots[models.MealBreakfast].DishID != oldBreakfast {
		t.Fatalf("menu changed on a denied swap")
	}
}

func TestSwapAfterResetWindowSucceedsAtZero(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
		testDish(2, "Pancakes", models.DietClassic, models.MealBreakfast, 90),
	}
	menuSvc, _, _ := newTestMenuService(1, dishes)
	tariff := &models.MealTariff{DietType: models.DietClassic, Breakfast: true}
	profile := testProfile(0, testNow.Add(-25*time.Hour))

	if _, err := menuSvc.GetOrBuild(7, tariff, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, _ := newTestSwapService(menuSvc)
	if _, err := svc.Swap(7, tariff, profile, models.MealBreakfast); err != nil {
		t.Fatalf("swap should succeed after the allowance reset: %v", err)
	}
	if profile.MealSwapsRemaining != 2 {
		t.Fatalf("remaining = %d, want 2 (reset to 3, then one spent)", profile.MealSwapsRemaining)
	}
}

func TestSwapReselectsCurrentDishWhenItIsTheOnlyCandidate(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
	}
	menuSvc, _, _ := newTestMenuService(1, dishes)
	tariff := &models.MealTariff{DietType: models.DietClassic, Breakfast: true}
	profile := testProfile(3, testNow)

	if _, err := menuSvc.GetOrBuild(7, tariff, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, _ := newTestSwapService(menuSvc)
	entry, err := svc.Swap(7, tariff, profile, models.MealBreakfast)
	if err != nil {
		t.Fatalf("expected the current dish back, got error: %v", err)
	}
	if entry.DishID != 1 {
		t.Fatalf("unexpected dish %d", entry.DishID)
	}
	if profile.MealSwapsRemaining != 2 {
		t.Fatalf("a re-selection still costs a swap; remaining = %d", profile.MealSwapsRemaining)
	}
}

func TestSwapFailsWithNoEligibleDishAndKeepsAllowance(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
	}
	menuSvc, _, source := newTestMenuService(1, dishes)
	tariff := &models.MealTariff{DietType: models.DietClassic, Breakfast: true}
	profile := testProfile(3, testNow)

	if _, err := menuSvc.GetOrBuild(7, tariff, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the only breakfast dish disappears from the catalog after the build
	source.dishes = nil

	svc, store := newTestSwapService(menuSvc)
	_, err := svc.Swap(7, tariff, profile, models.MealBreakfast)
	if !errors.Is(err, ErrNoEligibleDish) {
		t.Fatalf("expected ErrNoEligibleDish, got %v", err)
	}
	if profile.MealSwapsRemaining != 3 {
		t.Fatalf("allowance consumed on a failed swap")
	}
	if store.saves != 0 {
		t.Fatalf("profile saved on a failed swap")
	}
}

func TestSwapFailsForSlotOutsideTodaysMenu(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
	}
	menuSvc, _, _ := newTestMenuService(1, dishes)
	tariff := &models.MealTariff{DietType: models.DietClassic, Breakfast: true}
	profile := testProfile(3, testNow)

	svc, _ := newTestSwapService(menuSvc)
	_, err := svc.Swap(7, tariff, profile, models.MealDinner)
	if !errors.Is(err, ErrSlotNotInMenu) {
		t.Fatalf("expected ErrSlotNotInMenu, got %v", err)
	}
}

func TestLastSwapOfTheDayThenDenied(t *testing.T) {
	dishes := []models.Dish{
		testDish(1, "Omelette", models.DietClassic, models.MealBreakfast, 80),
		testDish(2, "Pancakes", models.DietClassic, models.MealBreakfast, 90),
	}
	menuSvc, _, _ := newTestMenuService(1, dishes)
	tariff := &models.MealTariff{DietType: models.DietClassic, Breakfast: true}
	profile := testProfile(1, testNow)

	if _, err := menuSvc.GetOrBuild(7, tariff, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, _ := newTestSwapService(menuSvc)
	entry, err := svc.Swap(7, tariff, profile, models.MealBreakfast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.MealSwapsRemaining != 0 {
		t.Fatalf("remaining = %d, want 0", profile.MealSwapsRemaining)
	}

	_, err = svc.Swap(7, tariff, profile, models.MealBreakfast)
	if !errors.Is(err, ErrNoSwapsRemaining) {
		t.Fatalf("expected ErrNoSwapsRemaining, got %v", err)
	}

	menu, _ := menuSvc.GetOrBuild(7, tariff, nil)
	if menu.Slots[models.MealBreakfast].DishID != entry.DishID {
		t.Fatalf("denied swap disturbed the dish from the successful one")
	}
}
