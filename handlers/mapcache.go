// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/danielhkuo/ballotmap/cliparse"
	"github.com/danielhkuo/ballotmap/election"
)

// MapCache memoizes election maps by definition fingerprint. Maps are
// immutable once built, so one instance is shared by every request.
type MapCache struct {
	mapper *election.Mapper
	cache  *lru.Cache
}

func NewMapCache(cfg cliparse.Config) (*MapCache, error) {
	size := cfg.MapCacheSize
	if size < 1 {
		size = 1
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create map cache: %w", err)
	}

	return &MapCache{
		mapper: election.NewMapper(cfg.MaxSelections),
		cache:  cache,
	}, nil
}

// Mapper returns the mapper used to build cached maps.
func (c *MapCache) Mapper() *election.Mapper {
	return c.mapper
}

// Get returns the map for e, building and caching it on first use.
func (c *MapCache) Get(e *election.Election) (*election.ElectionMap, error) {
	fingerprint, err := election.Fingerprint(e)
	if err != nil {
		return nil, err
	}
	return c.GetByFingerprint(fingerprint, e)
}

// GetByFingerprint is Get for callers that already hold the fingerprint,
// such as a stored election row.
func (c *MapCache) GetByFingerprint(fingerprint string, e *election.Election) (*election.ElectionMap, error) {
	if cached, ok := c.cache.Get(fingerprint); ok {
		return cached.(*election.ElectionMap), nil
	}

	em, err := c.mapper.BuildElectionMap(e)
	if err != nil {
		return nil, err
	}
	c.cache.Add(fingerprint, em)
	return em, nil
}

// Len reports how many maps are cached.
func (c *MapCache) Len() int {
	return c.cache.Len()
}
