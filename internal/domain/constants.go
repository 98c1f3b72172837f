package domain

// Grid constants
const (
	InitialGardenWidth  = 6
	InitialGardenHeight = 15
	MaxGardenWidth      = 10
	MaxGardenHeight     = 15
)

// Growth constants
const (
	WateringBoostPercent = 10
	NeedsWaterAfterHours = 8
)

// Theft constants
const (
	MaxTheftPercent     = 35
	MinTheftPercent     = 10
	TheftCooldownHours  = 3
	DogProtectionHours  = 24
	DogDamageAmount     = 50
	DogProtectionFactor = 0.5
	DogAnimalTypeID     = "dog"
)

// XP rewards per action
const (
	XPBuyAnimal     = 10
	XPPlantTree     = 15
	XPBuildBuilding = 20
	XPFeedAnimal    = 3
	XPRemoveWeed    = 3
	XPTheftSuccess  = 5
	XPCollect       = 10
	XPHarvestTree   = 5
	XPTreeOwnerCut  = 2
	XPWaterHelper   = 5
	XPWaterOwner    = 2
)

// Salvage fractions of original cost
const (
	SalvageFractionAnimal   = 0.5
	SalvageFractionBuilding = 0.5
	SalvageFractionTree     = 0.25
)

// Neighbor tree harvest shares of the base reward
const (
	NeighborHarvestShare = 0.5
	OwnerHarvestShare    = 0.25
)
