// Copyright 2025 The PATENTWORLD Authors
//   This file is part of PATENTWORLD.
//
//  PATENTWORLD is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  PATENTWORLD is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with PATENTWORLD.  If not, see <https://www.gnu.org/licenses/>.

package dataset

import (
	"context"
	"encoding/json"
	"patentworld/merror"
	"sync"

	"github.com/rs/zerolog/log"
)

// FetchFunc obtains a payload for a path on a cache miss
type FetchFunc func(ctx context.Context, path DataPath) (json.RawMessage, error)

// call is an in-flight fetch shared by all requesters
// of the same path
type call struct {
	done    chan struct{}
	val     json.RawMessage
	err     error
	waiters int
	cancel  context.CancelFunc

	// abandoned is set once all requesters left before the fetch ended
	abandoned bool
}

type CacheStats struct {
	Entries     int   `json:"entries"`
	InFlight    int   `json:"inFlight"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Joined      int64 `json:"joined"`
	FetchErrors int64 `json:"fetchErrors"`
}

// Cache is a read-through, never evicting payload cache keyed
// by DataPath. Concurrent requests for an uncached path share
// a single fetch. Failed fetches are not stored.
type Cache struct {
	mu       sync.Mutex
	entries  map[DataPath]json.RawMessage
	inflight map[DataPath]*call
	stats    CacheStats
}

// Peek returns a cached payload without triggering any fetch
func (c *Cache) Peek(path DataPath) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[path]
	return v, ok
}

// Get returns the payload for path, calling fetch if necessary.
// When a fetch for the path is already running, the caller joins it
// and its own fetch is not used. If ctx ends before the payload
// is available, Get returns ctx.Err(). The underlying fetch is
// cancelled only once all its requesters are gone and a new fetch
// of the path does not start before the cancelled one returns.
func (c *Cache) Get(ctx context.Context, path DataPath, fetch FetchFunc) (json.RawMessage, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	for {
		c.mu.Lock()
		if v, ok := c.entries[path]; ok {
			c.stats.Hits++
			c.mu.Unlock()
			return v, nil
		}
		cl, ok := c.inflight[path]
		if ok && cl.abandoned {
			c.mu.Unlock()
			select {
			case <-cl.done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		c.stats.Misses++
		if ok {
			c.stats.Joined++

		} else {
			fetchCtx, cancel := context.WithCancel(context.Background())
			cl = &call{done: make(chan struct{}), cancel: cancel}
			c.inflight[path] = cl
			go c.run(fetchCtx, path, cl, fetch)
		}
		cl.waiters++
		c.mu.Unlock()
		return c.wait(ctx, path, cl)
	}
}

func (c *Cache) wait(ctx context.Context, path DataPath, cl *call) (json.RawMessage, error) {
	select {
	case <-cl.done:
		c.leave(path, cl)
		return cl.val, cl.err
	case <-ctx.Done():
		c.leave(path, cl)
		return nil, ctx.Err()
	}
}

func (c *Cache) run(ctx context.Context, path DataPath, cl *call, fetch FetchFunc) {
	var val json.RawMessage
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = merror.RecoveredError{Msg: merror.PanicValueToErr(r).Error()}
				log.Error().Err(err).Str("path", path.String()).Msg("dataset fetch panicked")
			}
		}()
		val, err = fetch(ctx, path)
	}()

	c.mu.Lock()
	cl.val, cl.err = val, err
	if err == nil {
		c.entries[path] = val

	} else {
		c.stats.FetchErrors++
		log.Debug().Err(err).Str("path", path.String()).Msg("dataset fetch failed")
	}
	if c.inflight[path] == cl {
		delete(c.inflight, path)
	}
	c.mu.Unlock()
	cl.cancel()
	close(cl.done)
}

func (c *Cache) leave(path DataPath, cl *call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cl.waiters--
	if cl.waiters > 0 {
		return
	}
	select {
	case <-cl.done:
	default:
		// the call stays in flight until run returns
		cl.abandoned = true
		cl.cancel()
		log.Debug().Str("path", path.String()).Msg("all requesters gone, fetch cancelled")
	}
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	ans := c.stats
	ans.Entries = len(c.entries)
	ans.InFlight = len(c.inflight)
	return ans
}

func NewCache() *Cache {
	return &Cache{
		entries:  make(map[DataPath]json.RawMessage),
		inflight: make(map[DataPath]*call),
	}
}
