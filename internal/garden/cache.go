package garden

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// membershipCacheSize bounds the cache; entries are (garden, user) pairs
	membershipCacheSize = 4096

	// membershipCacheTTL keeps membership answers fresh enough for the
	// realtime access checks that hit this on every subscribe
	membershipCacheTTL = time.Minute
)

// membershipCache caches IsMember answers. Joins invalidate their own
// entry; everything else ages out via TTL.
type membershipCache struct {
	lru *expirable.LRU[string, bool]
}

func newMembershipCache() *membershipCache {
	return &membershipCache{
		lru: expirable.NewLRU[string, bool](membershipCacheSize, nil, membershipCacheTTL),
	}
}

func membershipKey(gardenID, userID string) string {
	return gardenID + ":" + userID
}

func (c *membershipCache) Get(gardenID, userID string) (bool, bool) {
	return c.lru.Get(membershipKey(gardenID, userID))
}

func (c *membershipCache) Set(gardenID, userID string, isMember bool) {
	c.lru.Add(membershipKey(gardenID, userID), isMember)
}

func (c *membershipCache) Invalidate(gardenID, userID string) {
	c.lru.Remove(membershipKey(gardenID, userID))
}
