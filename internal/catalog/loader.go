package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/happyharvest/garden/internal/domain"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateID   = errors.New("duplicate catalog id")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config file names under the catalog directory
const (
	FileCrops     = "crops.json"
	FileAnimals   = "animals.json"
	FileTrees     = "trees.json"
	FileBuildings = "buildings.json"
)

type cropsFile struct {
	Crops []Crop `json:"crops"`
}

type animalsFile struct {
	Animals []AnimalType `json:"animals"`
}

type treesFile struct {
	Trees []TreeType `json:"trees"`
}

type buildingsFile struct {
	Buildings  []BuildingType   `json:"buildings"`
	Protection []ProtectionItem `json:"protection_items"`
}

// Catalog holds the static type definitions for every entity class.
// Loaded once at process start, read-only thereafter.
type Catalog struct {
	crops      map[string]Crop
	animals    map[string]AnimalType
	trees      map[string]TreeType
	buildings  map[string]BuildingType
	protection map[string]ProtectionItem
}

// Load reads all catalog files from dir and validates them.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{
		crops:      make(map[string]Crop),
		animals:    make(map[string]AnimalType),
		trees:      make(map[string]TreeType),
		buildings:  make(map[string]BuildingType),
		protection: make(map[string]ProtectionItem),
	}

	var crops cropsFile
	if err := readJSON(filepath.Join(dir, FileCrops), &crops); err != nil {
		return nil, err
	}
	for _, crop := range crops.Crops {
		if err := validateCrop(crop); err != nil {
			return nil, err
		}
		if _, ok := c.crops[crop.ID]; ok {
			return nil, fmt.Errorf("%w: crop %q", ErrDuplicateID, crop.ID)
		}
		c.crops[crop.ID] = crop
	}

	var animals animalsFile
	if err := readJSON(filepath.Join(dir, FileAnimals), &animals); err != nil {
		return nil, err
	}
	for _, a := range animals.Animals {
		if err := validateAnimal(a); err != nil {
			return nil, err
		}
		if _, ok := c.animals[a.ID]; ok {
			return nil, fmt.Errorf("%w: animal %q", ErrDuplicateID, a.ID)
		}
		c.animals[a.ID] = a
	}

	var trees treesFile
	if err := readJSON(filepath.Join(dir, FileTrees), &trees); err != nil {
		return nil, err
	}
	for _, t := range trees.Trees {
		if err := validateTree(t); err != nil {
			return nil, err
		}
		if _, ok := c.trees[t.ID]; ok {
			return nil, fmt.Errorf("%w: tree %q", ErrDuplicateID, t.ID)
		}
		c.trees[t.ID] = t
	}

	var buildings buildingsFile
	if err := readJSON(filepath.Join(dir, FileBuildings), &buildings); err != nil {
		return nil, err
	}
	for _, b := range buildings.Buildings {
		if err := validateBuilding(b); err != nil {
			return nil, err
		}
		if _, ok := c.buildings[b.ID]; ok {
			return nil, fmt.Errorf("%w: building %q", ErrDuplicateID, b.ID)
		}
		c.buildings[b.ID] = b
	}
	for _, p := range buildings.Protection {
		if p.ID == "" || p.ProtectionPercent < 0 || p.ProtectionPercent > 100 {
			return nil, fmt.Errorf("%w: protection item %q", ErrInvalidConfig, p.ID)
		}
		c.protection[p.ID] = p
	}

	return c, nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return nil
}

func validateCrop(c Crop) error {
	if c.ID == "" || c.GrowTime <= 0 || c.SeedCost < 0 || c.Yield < 0 {
		return fmt.Errorf("%w: crop %q", ErrInvalidConfig, c.ID)
	}
	return nil
}

func validateAnimal(a AnimalType) error {
	if a.ID == "" || a.Cost < 0 || a.FeedHours < 0 {
		return fmt.Errorf("%w: animal %q", ErrInvalidConfig, a.ID)
	}
	if a.Production != nil && a.Production.Quantity < 0 {
		return fmt.Errorf("%w: animal %q production", ErrInvalidConfig, a.ID)
	}
	return nil
}

func validateTree(t TreeType) error {
	if t.ID == "" || t.Cost < 0 || t.HarvestHours <= 0 {
		return fmt.Errorf("%w: tree %q", ErrInvalidConfig, t.ID)
	}
	return nil
}

func validateBuilding(b BuildingType) error {
	if b.ID == "" || b.Cost < 0 {
		return fmt.Errorf("%w: building %q", ErrInvalidConfig, b.ID)
	}
	if b.SpecialType == SpecialTypeFactory && len(b.Recipes) == 0 {
		return fmt.Errorf("%w: factory %q has no recipes", ErrInvalidConfig, b.ID)
	}
	for _, r := range b.Recipes {
		if r.ID == "" || r.ProductionTime <= 0 || r.IngredientCost < 0 || r.ProductAmount < 0 {
			return fmt.Errorf("%w: recipe %q in building %q", ErrInvalidConfig, r.ID, b.ID)
		}
	}
	return nil
}

// Crop looks up a crop type by id.
func (c *Catalog) Crop(id string) (Crop, error) {
	crop, ok := c.crops[id]
	if !ok {
		return Crop{}, fmt.Errorf("%w: crop %q", domain.ErrTypeNotFound, id)
	}
	return crop, nil
}

// Animal looks up an animal type by id.
func (c *Catalog) Animal(id string) (AnimalType, error) {
	a, ok := c.animals[id]
	if !ok {
		return AnimalType{}, fmt.Errorf("%w: animal %q", domain.ErrTypeNotFound, id)
	}
	return a, nil
}

// Tree looks up a tree type by id.
func (c *Catalog) Tree(id string) (TreeType, error) {
	t, ok := c.trees[id]
	if !ok {
		return TreeType{}, fmt.Errorf("%w: tree %q", domain.ErrTypeNotFound, id)
	}
	return t, nil
}

// Building looks up a building type by id.
func (c *Catalog) Building(id string) (BuildingType, error) {
	b, ok := c.buildings[id]
	if !ok {
		return BuildingType{}, fmt.Errorf("%w: building %q", domain.ErrTypeNotFound, id)
	}
	return b, nil
}

// Protection looks up a theft protection item by id.
func (c *Catalog) Protection(id string) (ProtectionItem, error) {
	p, ok := c.protection[id]
	if !ok {
		return ProtectionItem{}, fmt.Errorf("%w: protection item %q", domain.ErrTypeNotFound, id)
	}
	return p, nil
}

// ProtectionItems resolves a list of protection item ids, skipping unknowns.
func (c *Catalog) ProtectionItems(ids []string) []ProtectionItem {
	items := make([]ProtectionItem, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.protection[id]; ok {
			items = append(items, p)
		}
	}
	return items
}
