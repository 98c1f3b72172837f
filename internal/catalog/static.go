package catalog

// New builds a Catalog directly from type definitions, bypassing file
// loading. Used for fixtures and embedded defaults; entries are not
// re-validated.
func New(crops []Crop, animals []AnimalType, trees []TreeType, buildings []BuildingType, protection []ProtectionItem) *Catalog {
	c := &Catalog{
		crops:      make(map[string]Crop, len(crops)),
		animals:    make(map[string]AnimalType, len(animals)),
		trees:      make(map[string]TreeType, len(trees)),
		buildings:  make(map[string]BuildingType, len(buildings)),
		protection: make(map[string]ProtectionItem, len(protection)),
	}
	for _, v := range crops {
		c.crops[v.ID] = v
	}
	for _, v := range animals {
		c.animals[v.ID] = v
	}
	for _, v := range trees {
		c.trees[v.ID] = v
	}
	for _, v := range buildings {
		c.buildings[v.ID] = v
	}
	for _, v := range protection {
		c.protection[v.ID] = v
	}
	return c
}
