package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgUserNotFound     = "user not found"
	ErrMsgGardenNotFound   = "garden not found"
	ErrMsgPlotNotFound     = "plot not found"
	ErrMsgTreeNotFound     = "tree not found"
	ErrMsgAnimalNotFound   = "animal not found"
	ErrMsgBuildingNotFound = "building not found"
	ErrMsgTypeNotFound     = "catalog type not found"
	ErrMsgRecipeNotFound   = "recipe not found"

	// Permission errors
	ErrMsgNotPermitted = "not permitted"
	ErrMsgNotMember    = "not a garden member"
	ErrMsgNotOwner     = "not the garden owner"

	// State errors
	ErrMsgInvalidState     = "action not valid for current state"
	ErrMsgPlotNotEmpty     = "plot is not empty"
	ErrMsgPlotEmpty        = "plot is empty"
	ErrMsgNotHarvestReady  = "not ready to harvest"
	ErrMsgAlreadyProducing = "production already in progress"
	ErrMsgNotProducing     = "no production to collect"
	ErrMsgNotAFactory      = "building cannot produce items"
	ErrMsgNoPest           = "nothing to remove"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Grid errors
	ErrMsgOccupied = "position is already occupied"

	// Cooldown errors
	ErrMsgOnCooldown = "action on cooldown"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Lookup errors
	ErrUserNotFound     = errors.New(ErrMsgUserNotFound)
	ErrGardenNotFound   = errors.New(ErrMsgGardenNotFound)
	ErrPlotNotFound     = errors.New(ErrMsgPlotNotFound)
	ErrTreeNotFound     = errors.New(ErrMsgTreeNotFound)
	ErrAnimalNotFound   = errors.New(ErrMsgAnimalNotFound)
	ErrBuildingNotFound = errors.New(ErrMsgBuildingNotFound)
	ErrTypeNotFound     = errors.New(ErrMsgTypeNotFound)
	ErrRecipeNotFound   = errors.New(ErrMsgRecipeNotFound)

	// Permission errors
	ErrNotPermitted = errors.New(ErrMsgNotPermitted)
	ErrNotMember    = errors.New(ErrMsgNotMember)
	ErrNotOwner     = errors.New(ErrMsgNotOwner)

	// State errors
	ErrInvalidState = errors.New(ErrMsgInvalidState)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Grid errors
	ErrOccupied = errors.New(ErrMsgOccupied)

	// Cooldown errors
	ErrOnCooldown = errors.New(ErrMsgOnCooldown)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// IsNotFound reports whether err is any of the entity lookup errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGardenNotFound) ||
		errors.Is(err, ErrPlotNotFound) ||
		errors.Is(err, ErrTreeNotFound) ||
		errors.Is(err, ErrAnimalNotFound) ||
		errors.Is(err, ErrBuildingNotFound) ||
		errors.Is(err, ErrTypeNotFound) ||
		errors.Is(err, ErrRecipeNotFound)
}
