package config

import (
	"fmt"

	"github.com/patrickmn/go-cache"
)

// NewGeoCache builds the coordinate cache. Entries never expire and are never
// evicted; the catalog of distinct place names is small enough that monotonic
// growth is acceptable.
func NewGeoCache() *cache.Cache {
	return cache.New(cache.NoExpiration, 0)
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
