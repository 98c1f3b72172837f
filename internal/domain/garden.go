package domain

import "time"

// PlotStage represents the derived growth phase of a plot
type PlotStage string

const (
	StageEmpty   PlotStage = "empty"
	StageSeed    PlotStage = "seed"
	StageSprout  PlotStage = "sprout"
	StageMature  PlotStage = "mature"
	StageHarvest PlotStage = "harvest"
)

// ProductionStatus represents a building's stored production state.
// "ready" is derived from producing + elapsed time and is never persisted.
type ProductionStatus string

const (
	ProductionIdle      ProductionStatus = "idle"
	ProductionProducing ProductionStatus = "producing"
	ProductionReady     ProductionStatus = "ready"
)

// MemberRole represents a user's role in a garden
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)

// Garden is a bounded grid owned by one user, joinable by others as members
type Garden struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Name            string     `json:"name"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	HasDog          bool       `json:"has_dog"`
	DogFedAt        *time.Time `json:"dog_fed_at,omitempty"`
	StorageCapacity int        `json:"storage_capacity"`
	CreatedAt       time.Time  `json:"created_at"`
}

// GardenMember links a user to a garden
type GardenMember struct {
	UserID   string     `json:"user_id"`
	GardenID string     `json:"garden_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// Plot is one cell of a garden's fixed planting grid.
// Only timestamps and counters are stored; stage and progress are derived.
type Plot struct {
	ID            string     `json:"id"`
	GardenID      string     `json:"garden_id"`
	X             int        `json:"x"`
	Y             int        `json:"y"`
	Stage         PlotStage  `json:"stage"`
	PlantID       string     `json:"plant_id,omitempty"`
	PlantedAt     *time.Time `json:"planted_at,omitempty"`
	LastWateredAt *time.Time `json:"last_watered_at,omitempty"`
	StolePercent  int        `json:"stole_percent"`
	Pest          bool       `json:"pest"`
}

// Tree occupies a grid cell and cycles ready/waiting on a harvest interval
type Tree struct {
	ID              string    `json:"id"`
	GardenID        string    `json:"garden_id"`
	TreeTypeID      string    `json:"tree_type_id"`
	X               int       `json:"x"`
	Y               int       `json:"y"`
	PlantedAt       time.Time `json:"planted_at"`
	LastHarvestedAt time.Time `json:"last_harvested_at"`
}

// Animal occupies a grid cell and cycles ready/waiting on a feed interval
type Animal struct {
	ID           string    `json:"id"`
	GardenID     string    `json:"garden_id"`
	AnimalTypeID string    `json:"animal_type_id"`
	X            int       `json:"x"`
	Y            int       `json:"y"`
	PurchasedAt  time.Time `json:"purchased_at"`
	LastFedAt    time.Time `json:"last_fed_at"`
}

// Building occupies a grid cell; factories run timed production recipes
type Building struct {
	ID                  string           `json:"id"`
	GardenID            string           `json:"garden_id"`
	BuildingTypeID      string           `json:"building_type_id"`
	X                   int              `json:"x"`
	Y                   int              `json:"y"`
	BuiltAt             time.Time        `json:"built_at"`
	ProductionStatus    ProductionStatus `json:"production_status"`
	CurrentRecipeID     string           `json:"current_recipe_id,omitempty"`
	ProductionStartedAt *time.Time       `json:"production_started_at,omitempty"`
	ProductionEndsAt    *time.Time       `json:"production_ends_at,omitempty"`
	LastCollectedAt     time.Time        `json:"last_collected_at"`
}
