package concurrency

import (
	"strconv"
	"sync"
)

// LockManager handles named locks. Entity mutations are serialized by
// locking a stable key for the entity instance (e.g. "plot:<id>") so two
// concurrent actions on the same row cannot interleave.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Key builders for the entity classes that require per-instance
// serialization. Cell keys guard placement races on an (x, y) position.

func PlotKey(plotID string) string { return "plot:" + plotID }

func TreeKey(treeID string) string { return "tree:" + treeID }

func AnimalKey(animalID string) string { return "animal:" + animalID }

func BuildingKey(buildingID string) string { return "building:" + buildingID }

func UserKey(userID string) string { return "user:" + userID }

func CellKey(gardenID string, x, y int) string {
	return "cell:" + gardenID + ":" + strconv.Itoa(x) + ":" + strconv.Itoa(y)
}
