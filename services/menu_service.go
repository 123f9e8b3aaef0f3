package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manilotw/Recipes/config"
	"github.com/manilotw/Recipes/models"
)

const menuTTL = 24 * time.Hour

// MenuEntry is the per-slot snapshot stored in the cache. DishID is what
// the swap logic keys on; the rest lets a menu render without another
// catalog round-trip.
type MenuEntry struct {
	DishID        uint            `json:"dish_id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	TotalCalories int             `json:"total_calories"`
}

// DailyMenu is one user's menu for one day: meal slot → assigned dish.
type DailyMenu struct {
	BuiltAt time.Time            `json:"built_at"`
	Slots   map[string]MenuEntry `json:"slots"`
}

// MenuCache is the cache-store boundary. The redis implementation treats an
// unavailable store as a miss; tests plug in an in-memory map.
type MenuCache interface {
	Get(key string) (DailyMenu, bool, error)
	Set(key string, menu DailyMenu, ttl time.Duration) error
	Delete(key string) error
}

// DishSource supplies the active dishes for a diet type with their
// allergens loaded.
type DishSource interface {
	ActiveDishes(dietType string) ([]models.Dish, error)
}

type MenuService struct {
	cache  MenuCache
	dishes DishSource
	rng    *rand.Rand
	now    func() time.Time
}

func NewMenuService(cache MenuCache, dishes DishSource) *MenuService {
	return &MenuService{
		cache:  cache,
		dishes: dishes,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

func menuKey(userID uint, day time.Time) string {
	return fmt.Sprintf("daily_menu_%d_%s", userID, day.Format("2006-01-02"))
}

// GetOrBuild returns today's menu for the user, assembling and caching it
// on first sight. Repeated calls within the day return the same mapping
// until the entry is invalidated or its TTL runs out.
func (s *MenuService) GetOrBuild(userID uint, tariff *models.MealTariff, priceCeiling *decimal.Decimal) (DailyMenu, error) {
	key := menuKey(userID, s.now())
	if menu, ok, err := s.cache.Get(key); err == nil && ok {
		return menu, nil
	}
	// a cache read error counts as a miss: rebuilding is always safe

	dishes, err := s.dishes.ActiveDishes(tariff.DietType)
	if err != nil {
		return DailyMenu{}, err
	}

	menu := DailyMenu{BuiltAt: s.now(), Slots: map[string]MenuEntry{}}
	for _, slot := range tariff.EnabledSlots() {
		candidates := s.slotCandidates(dishes, tariff, slot, priceCeiling, 0)
		if len(candidates) == 0 {
			// nothing fits even after relaxing; leave the slot out
			continue
		}
		menu.Slots[slot] = newMenuEntry(candidates[s.rng.Intn(len(candidates))])
	}

	// best effort: with the cache down the menu is rebuilt next request
	_ = s.cache.Set(key, menu, menuTTL)
	return menu, nil
}

// slotCandidates runs the relaxation chain for one slot: the full filter
// first, then without the price ceiling, then without the allergy
// exclusions. Price goes first: a dish over budget is disappointing, an
// allergen is a safety concern, so allergies are only ignored when the
// alternative is an empty slot.
func (s *MenuService) slotCandidates(dishes []models.Dish, tariff *models.MealTariff, slot string, ceiling *decimal.Decimal, excludeDishID uint) []models.Dish {
	opts := FilterOptions{MealType: slot, PriceCeiling: ceiling, ExcludeDishID: excludeDishID}
	if c := EligibleDishes(dishes, tariff, opts); len(c) > 0 {
		return c
	}
	opts.PriceCeiling = nil
	if c := EligibleDishes(dishes, tariff, opts); len(c) > 0 {
		return c
	}
	opts.IgnoreAllergies = true
	return EligibleDishes(dishes, tariff, opts)
}

// ReplaceSlot overwrites a single slot of today's cached menu, leaving the
// other slots and the entry's original expiry alone.
func (s *MenuService) ReplaceSlot(userID uint, menu DailyMenu, slot string, entry MenuEntry) error {
	menu.Slots[slot] = entry

	ttl := menuTTL - s.now().Sub(menu.BuiltAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.cache.Set(menuKey(userID, s.now()), menu, ttl)
}

// Invalidate drops the user's cached menu for today so the next view
// rebuilds it under the current constraints. Called whenever diet type,
// allergy flags, or the price ceiling change.
func (s *MenuService) Invalidate(userID uint) error {
	return s.cache.Delete(menuKey(userID, s.now()))
}

func newMenuEntry(d models.Dish) MenuEntry {
	return MenuEntry{
		DishID:        d.ID,
		Name:          d.Name,
		ImageURL:      d.ImageURL,
		TotalPrice:    d.TotalPrice,
		TotalCalories: d.TotalCalories,
	}
}

// redisMenuCache stores menus through the shared redis helpers; with redis
// down every lookup is a miss and every write a no-op.
type redisMenuCache struct{}

func NewRedisMenuCache() MenuCache { return redisMenuCache{} }

func (redisMenuCache) Get(key string) (DailyMenu, bool, error) {
	var menu DailyMenu
	ok, err := config.GetRedisObject(key, &menu)
	if err != nil || !ok {
		return DailyMenu{}, false, err
	}
	return menu, true, nil
}

func (redisMenuCache) Set(key string, menu DailyMenu, ttl time.Duration) error {
	return config.SetRedisObject(key, menu, ttl)
}

func (redisMenuCache) Delete(key string) error {
	return config.RemoveRedisKey(key)
}

// gormDishSource reads the active catalog with allergens preloaded.
type gormDishSource struct{}

func NewGormDishSource() DishSource { return gormDishSource{} }

func (gormDishSource) ActiveDishes(dietType string) ([]models.Dish, error) {
	var dishes []models.Dish
	err := config.DB.
		Preload("Allergens").
		Where("is_active = ? AND diet_type = ?", true, dietType).
		Find(&dishes).Error
	return dishes, err
}
