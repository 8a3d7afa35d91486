// Package cache keeps short-lived in-process copies of read-heavy queries.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/haulwise/backoffice/internal/core/ports"
)

const defaultSearchTTL = time.Minute

// SearchCache stores company search pages for a fixed TTL.
type SearchCache struct {
	c *gocache.Cache
}

func NewSearchCache(ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = defaultSearchTTL
	}
	return &SearchCache{c: gocache.New(ttl, 2*ttl)}
}

func (s *SearchCache) Get(key string) (*ports.SearchCompaniesResult, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	r, ok := v.(*ports.SearchCompaniesResult)
	return r, ok
}

func (s *SearchCache) Set(key string, result *ports.SearchCompaniesResult) {
	s.c.SetDefault(key, result)
}

func (s *SearchCache) Flush() {
	s.c.Flush()
}
