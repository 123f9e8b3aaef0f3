package services

import (
	"time"

	"github.com/manilotw/Recipes/config"
	"github.com/manilotw/Recipes/models"
)

const (
	swapAllowance   = 3
	swapResetWindow = 24 * time.Hour
)

// ProfileStore persists swap-allowance changes. Tests use an in-memory
// implementation.
type ProfileStore interface {
	Save(profile *models.UserProfile) error
}

type SwapService struct {
	menu     *MenuService
	profiles ProfileStore
	now      func() time.Time
}

func NewSwapService(menu *MenuService, profiles ProfileStore) *SwapService {
	return &SwapService{menu: menu, profiles: profiles, now: time.Now}
}

// ResetIfDue refills the allowance once the rolling 24h window has elapsed
// and reports whether it did. Called lazily before every allowance check;
// there is no background job.
func (s *SwapService) ResetIfDue(profile *models.UserProfile) (bool, error) {
	if s.now().Sub(profile.LastSwapReset) < swapResetWindow {
		return false, nil
	}
	profile.MealSwapsRemaining = swapAllowance
	profile.LastSwapReset = s.now()
	return true, s.profiles.Save(profile)
}

// Swap re-rolls one slot of today's menu, leaving the other slots as they
// are. Candidates come from the same relaxation chain the menu build uses,
// minus the currently assigned dish; if excluding it empties the set, the
// current dish may be re-selected rather than failing the swap.
//
// The read-decrement-write on the allowance is not locked: two concurrent
// requests from the same user can both observe remaining=1 and leave it at
// 0 after two successful swaps. Known race, accepted.
func (s *SwapService) Swap(userID uint, tariff *models.MealTariff, profile *models.UserProfile, mealType string) (*MenuEntry, error) {
	if _, err := s.ResetIfDue(profile); err != nil {
		return nil, err
	}
	if profile.MealSwapsRemaining <= 0 {
		return nil, ErrNoSwapsRemaining
	}

	menu, err := s.menu.GetOrBuild(userID, tariff, profile.MaxDishPrice)
	if err != nil {
		return nil, err
	}
	current, ok := menu.Slots[mealType]
	if !ok {
		return nil, ErrSlotNotInMenu
	}

	dishes, err := s.menu.dishes.ActiveDishes(tariff.DietType)
	if err != nil {
		return nil, err
	}
	candidates := s.menu.slotCandidates(dishes, tariff, mealType, profile.MaxDishPrice, current.DishID)
	if len(candidates) == 0 {
		candidates = s.menu.slotCandidates(dishes, tariff, mealType, profile.MaxDishPrice, 0)
	}
	if len(candidates) == 0 {
		return nil, ErrNoEligibleDish
	}

	entry := newMenuEntry(candidates[s.menu.rng.Intn(len(candidates))])
	if err := s.menu.ReplaceSlot(userID, menu, mealType, entry); err != nil {
		return nil, err
	}

	profile.MealSwapsRemaining--
	if err := s.profiles.Save(profile); err != nil {
		return nil, err
	}
	return &entry, nil
}

type gormProfileStore struct{}

func NewGormProfileStore() ProfileStore { return gormProfileStore{} }

func (gormProfileStore) Save(profile *models.UserProfile) error {
	return config.DB.Save(profile).Error
}
