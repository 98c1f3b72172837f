package catalog

// Crop defines a plantable crop type
type Crop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SeedCost int    `json:"seed_cost"`
	GrowTime int    `json:"grow_time"` // base growth time in seconds
	Yield    int    `json:"yield"`     // coins at harvest
	XP       int    `json:"xp"`        // xp at harvest
}

// Production defines what an animal produces when fed
type Production struct {
	Item     string `json:"item"` // "coin" or "star"
	Quantity int    `json:"quantity"`
}

// AnimalType defines a purchasable animal type
type AnimalType struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Cost       int         `json:"cost"`
	FeedHours  float64     `json:"feed_hours"`
	Production *Production `json:"production,omitempty"`
}

// TreeHarvest defines a tree's per-cycle reward
type TreeHarvest struct {
	Coins int `json:"coins"`
}

// TreeType defines a plantable tree type
type TreeType struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Cost         int         `json:"cost"`
	HarvestHours float64     `json:"harvest_hours"`
	Harvest      TreeHarvest `json:"harvest"`
}

// Recipe defines a factory production recipe
type Recipe struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IngredientCost int    `json:"ingredient_cost"` // coins debited at start
	ProductionTime int    `json:"production_time"` // seconds
	Product        string `json:"product"`         // "coin" or "star"
	ProductAmount  int    `json:"product_amount"`
}

// Building special types
const (
	SpecialTypeFactory = "factory"
	SpecialTypeStorage = "storage"
)

// BuildingType defines a constructible building type
type BuildingType struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Cost         int      `json:"cost"`
	SpecialType  string   `json:"special_type,omitempty"`
	FactoryType  string   `json:"factory_type,omitempty"`
	StorageBonus int      `json:"storage_bonus,omitempty"`
	Recipes      []Recipe `json:"recipes,omitempty"`
}

// IsFactory reports whether the building type runs production recipes.
func (b BuildingType) IsFactory() bool {
	return b.SpecialType == SpecialTypeFactory
}

// FindRecipe returns the recipe with the given id, if the type defines it.
func (b BuildingType) FindRecipe(recipeID string) (Recipe, bool) {
	for _, r := range b.Recipes {
		if r.ID == recipeID {
			return r, true
		}
	}
	return Recipe{}, false
}

// ProtectionItem reduces theft effectiveness and damages the thief
type ProtectionItem struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ProtectionPercent int    `json:"protection_percent"` // 0-100
	DamageToThief     int    `json:"damage_to_thief"`    // coins
}
