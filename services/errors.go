package services

import "errors"

// Domain errors the controllers branch on with errors.Is. Anything else
// escaping a service is a storage failure and surfaces as a 500.
var (
	// ErrDuplicateTariff rejects a second tariff for a user that already
	// owns one. A business rule, not a storage constraint violation.
	ErrDuplicateTariff = errors.New("user already has a tariff")

	// ErrNoSwapsRemaining means the swap allowance is spent; it refills on
	// the next 24h reset window, nothing else clears it.
	ErrNoSwapsRemaining = errors.New("no meal swaps remaining")

	// ErrNoEligibleDish means the filter chain produced no candidate even
	// after relaxation. No allowance is consumed on this path.
	ErrNoEligibleDish = errors.New("no eligible dish found")

	// ErrSlotNotInMenu means the requested meal slot is not part of today's
	// menu (not enabled on the tariff, or omitted because nothing matched).
	ErrSlotNotInMenu = errors.New("meal slot is not part of today's menu")
)
