package paces

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	// cacheSizeBytes is plenty for a few thousand athletes worth of
	// serialized selections.
	cacheSizeBytes  = 10 * 1024 * 1024
	defaultCacheTTL = 15 * time.Minute
)

// Cache keeps recent pace projections in memory. Projections are derived
// state, so eviction or restart just means a recompute, never data loss.
type Cache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func NewCache() *Cache {
	return &Cache{
		cache: freecache.NewCache(cacheSizeBytes),
		ttl:   defaultCacheTTL,
	}
}

func cacheKey(athleteID string, source SourceKind) []byte {
	return []byte("paces::" + athleteID + "::" + string(source))
}

func (c *Cache) Get(athleteID string, source SourceKind) (*Selection, bool) {
	raw, err := c.cache.Get(cacheKey(athleteID, source))
	if err != nil {
		return nil, false
	}
	var selection Selection
	if err := json.Unmarshal(raw, &selection); err != nil {
		log.Warnf("corrupt cached pace selection for %s: %s", athleteID, err)
		return nil, false
	}
	return &selection, true
}

func (c *Cache) Set(athleteID string, source SourceKind, selection Selection) {
	raw, err := json.Marshal(selection)
	if err != nil {
		log.Errorf("failed to marshal pace selection for cache: %s", err)
		return
	}
	if err := c.cache.Set(cacheKey(athleteID, source), raw, int(c.ttl.Seconds())); err != nil {
		log.Warnf("failed to cache pace selection for %s: %s", athleteID, err)
	}
}

// Invalidate drops every cached projection for the athlete. Called when a
// new test, race or field test lands.
func (c *Cache) Invalidate(athleteID string) {
	for _, source := range []SourceKind{
		SourceNone, SourceRace, SourceLactate, SourceFieldTest, SourceProfile,
	} {
		c.cache.Del(cacheKey(athleteID, source))
	}
}
