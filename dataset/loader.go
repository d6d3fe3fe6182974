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
	"fmt"
	"patentworld/merror"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store is a second-level payload cache shared between processes.
// Its failures are logged and otherwise ignored.
type Store interface {
	GetPayload(ctx context.Context, path DataPath) (json.RawMessage, bool, error)
	SetPayload(ctx context.Context, path DataPath, payload json.RawMessage) error
}

// Validator checks a freshly unwrapped payload before it enters the cache
type Validator interface {
	Validate(path DataPath, payload json.RawMessage) error
}

// FetchRecord describes one finished attempt to obtain a data file
type FetchRecord struct {
	Path      DataPath
	FromStore bool
	Begin     time.Time
	End       time.Time
	Err       error
}

type fetchRecorder interface {
	Record(rec FetchRecord)
}

type LoaderOption func(*Loader)

func WithStore(store Store) LoaderOption {
	return func(l *Loader) {
		l.store = store
	}
}

func WithValidator(v Validator) LoaderOption {
	return func(l *Loader) {
		l.validator = v
	}
}

func WithFetchRecorder(r fetchRecorder) LoaderOption {
	return func(l *Loader) {
		l.recorder = r
	}
}

// Loader provides at-most-one fetch per data path for the lifetime
// of its cache.
type Loader struct {
	cache     *Cache
	fetcher   Fetcher
	store     Store
	validator Validator
	recorder  fetchRecorder
}

func (l *Loader) Cache() *Cache {
	return l.cache
}

func (l *Loader) fetch(ctx context.Context, path DataPath) (json.RawMessage, error) {
	rec := FetchRecord{Path: path, Begin: time.Now()}
	defer func() {
		rec.End = time.Now()
		if l.recorder != nil {
			l.recorder.Record(rec)
		}
	}()
	if l.store != nil {
		payload, ok, err := l.store.GetPayload(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path.String()).Msg("failed to read payload from store")

		} else if ok {
			rec.FromStore = true
			return payload, nil
		}
	}
	body, err := l.fetcher.Fetch(ctx, path)
	if err != nil {
		rec.Err = err
		return nil, err
	}
	payload, err := Unwrap(path, body)
	if err != nil {
		rec.Err = err
		return nil, err
	}
	if l.validator != nil {
		if err := l.validator.Validate(path, payload); err != nil {
			rec.Err = err
			return nil, err
		}
	}
	if l.store != nil {
		if err := l.store.SetPayload(ctx, path, payload); err != nil {
			log.Warn().Err(err).Str("path", path.String()).Msg("failed to write payload to store")
		}
	}
	return payload, nil
}

// Load returns the payload for path, waiting for a fetch if needed
func (l *Loader) Load(ctx context.Context, path DataPath) (json.RawMessage, error) {
	return l.cache.Get(ctx, path, l.fetch)
}

// Watch starts loading path and returns a handle reporting
// the load state. A cached path yields a settled handle
// without any fetch.
func (l *Loader) Watch(ctx context.Context, path DataPath) *Handle {
	h := &Handle{
		path: path,
		done: make(chan struct{}),
	}
	if payload, ok := l.cache.Peek(path); ok {
		h.state = LoadState{Data: payload}
		h.cancel = func() {}
		close(h.done)
		return h
	}
	if err := path.Validate(); err != nil {
		h.state = LoadState{Error: err.Error()}
		h.cancel = func() {}
		close(h.done)
		return h
	}
	h.state = LoadState{Loading: true}
	hctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	go func() {
		payload, err := l.Load(hctx, path)
		h.settle(payload, err)
	}()
	return h
}

// Preload warms the cache with paths concurrently. It returns
// the number of paths which failed to load.
func (l *Loader) Preload(ctx context.Context, paths []DataPath) int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var numFailed int
	for _, p := range paths {
		wg.Add(1)
		go func(p DataPath) {
			defer wg.Done()
			if _, err := l.Load(ctx, p); err != nil {
				log.Error().Err(err).Str("path", p.String()).Msg("failed to preload dataset")
				mu.Lock()
				numFailed++
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()
	return numFailed
}

func NewLoader(cache *Cache, fetcher Fetcher, opts ...LoaderOption) *Loader {
	ans := &Loader{
		cache:   cache,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(ans)
	}
	return ans
}

// ------------------------

// LoadState is a per-consumer view of one load. After the load settles
// exactly one of Data and Error is set.
type LoadState struct {
	Data    json.RawMessage `json:"data"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
}

func (s LoadState) Ready() bool {
	return !s.Loading && s.Error == ""
}

// Handle tracks a single consumer's load of a data path
type Handle struct {
	path   DataPath
	mu     sync.Mutex
	state  LoadState
	closed bool
	done   chan struct{}
	cancel context.CancelFunc
}

func (h *Handle) Path() DataPath {
	return h.path
}

func (h *Handle) State() LoadState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Done is closed once the state settled or the handle was closed
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Close detaches the consumer. No state update happens afterwards.
// The fetch keeps running if other consumers wait for it.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.cancel()
	if h.state.Loading {
		close(h.done)
	}
}

func (h *Handle) settle(payload json.RawMessage, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if err != nil {
		h.state = LoadState{Error: err.Error()}

	} else {
		h.state = LoadState{Data: payload}
	}
	h.closed = true
	h.cancel()
	close(h.done)
}

// ------------------------

// Decode unmarshals a payload into a fresh value owned by the caller
func Decode[T any](payload json.RawMessage) (T, error) {
	var ans T
	if err := json.Unmarshal(payload, &ans); err != nil {
		return ans, merror.ParseError{Path: "payload", Err: err}
	}
	return ans, nil
}

// LoadAs loads path and decodes it into T
func LoadAs[T any](ctx context.Context, loader *Loader, path DataPath) (T, error) {
	payload, err := loader.Load(ctx, path)
	if err != nil {
		var ans T
		return ans, err
	}
	ans, err := Decode[T](payload)
	if err != nil {
		return ans, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return ans, nil
}
