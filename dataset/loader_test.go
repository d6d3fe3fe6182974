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
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"patentworld/merror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOrigin struct {
	server   *httptest.Server
	files    map[string]string
	requests atomic.Int32
	// gate, when set, blocks responses until closed
	gate chan struct{}
}

func (o *testOrigin) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	o.requests.Add(1)
	if o.gate != nil {
		select {
		case <-o.gate:
		case <-req.Context().Done():
			return
		}
	}
	p := strings.TrimPrefix(req.URL.Path, DefaultRoutePrefix+"/")
	body, ok := o.files[p]
	if !ok {
		http.NotFound(w, req)
		return
	}
	if body == "" {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func newTestOrigin(t *testing.T, files map[string]string, gated bool) *testOrigin {
	ans := &testOrigin{files: files}
	if gated {
		ans.gate = make(chan struct{})
	}
	ans.server = httptest.NewServer(ans)
	t.Cleanup(ans.server.Close)
	return ans
}

func (o *testOrigin) loader(opts ...LoaderOption) *Loader {
	return NewLoader(
		NewCache(),
		NewHTTPFetcher(o.server.URL, "", 5*time.Second, 0),
		opts...,
	)
}

// ------

type mapStore struct {
	mu   sync.Mutex
	data map[DataPath]json.RawMessage
}

func (s *mapStore) GetPayload(ctx context.Context, path DataPath) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[path]
	return v, ok, nil
}

func (s *mapStore) SetPayload(ctx context.Context, path DataPath, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[path] = payload
	return nil
}

type recordList struct {
	mu      sync.Mutex
	records []FetchRecord
}

func (r *recordList) Record(rec FetchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

type rejectAll struct{}

func (rejectAll) Validate(path DataPath, payload json.RawMessage) error {
	return merror.SchemaError{Path: path.String(), Row: -1, Msg: "rejected"}
}

// ------

func TestLoaderUnwrapsEnvelope(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{
		"chapter1/counts.json": `{"data": [{"year": 1976, "count": 70000}]}`,
	}, false)
	payload, err := origin.loader().Load(context.Background(), "chapter1/counts.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"year": 1976, "count": 70000}]`, string(payload))
}

func TestLoaderFetchesOncePerPath(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{
		"chapter1/a.json": `[1]`,
		"chapter1/b.json": `[2]`,
	}, false)
	loader := origin.loader()
	for i := 0; i < 3; i++ {
		_, err := loader.Load(context.Background(), "chapter1/a.json")
		require.NoError(t, err)
		_, err = loader.Load(context.Background(), "chapter1/b.json")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), origin.requests.Load())
}

func TestLoaderNon2xxIsFetchError(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/broken.json": ""}, false)
	loader := origin.loader()

	_, err := loader.Load(context.Background(), "chapter1/broken.json")
	var fetchErr merror.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.Status)

	_, err = loader.Load(context.Background(), "chapter1/missing.json")
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.IsNotFound())

	// failures are not cached
	_, err = loader.Load(context.Background(), "chapter1/broken.json")
	assert.Error(t, err)
	assert.Equal(t, int32(3), origin.requests.Load())
}

func TestLoaderParseErrorIsNotCached(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/bad.json": `[{"year": `}, false)
	loader := origin.loader()
	_, err := loader.Load(context.Background(), "chapter1/bad.json")
	assert.ErrorAs(t, err, &merror.ParseError{})
	_, ok := loader.Cache().Peek("chapter1/bad.json")
	assert.False(t, ok)
}

func TestLoaderValidatorRejectionIsNotCached(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/a.json": `[{"x": 1}]`}, false)
	loader := origin.loader(WithValidator(rejectAll{}))
	for i := 0; i < 2; i++ {
		_, err := loader.Load(context.Background(), "chapter1/a.json")
		assert.ErrorAs(t, err, &merror.SchemaError{})
	}
	assert.Equal(t, int32(2), origin.requests.Load())
}

func TestLoaderUsesStore(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter2/a.json": `{"data": [1, 2]}`}, false)
	store := &mapStore{data: make(map[DataPath]json.RawMessage)}
	_, err := origin.loader(WithStore(store)).Load(context.Background(), "chapter2/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2]`, string(store.data["chapter2/a.json"]))

	records := &recordList{}
	second := origin.loader(WithStore(store), WithFetchRecorder(records))
	payload, err := second.Load(context.Background(), "chapter2/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2]`, string(payload))
	assert.Equal(t, int32(1), origin.requests.Load())
	require.Len(t, records.records, 1)
	assert.True(t, records.records[0].FromStore)
	assert.NoError(t, records.records[0].Err)
}

func TestLoaderRecordsFailures(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{}, false)
	records := &recordList{}
	_, err := origin.loader(WithFetchRecorder(records)).Load(context.Background(), "chapter3/none.json")
	assert.Error(t, err)
	require.Len(t, records.records, 1)
	assert.Error(t, records.records[0].Err)
	assert.False(t, records.records[0].End.Before(records.records[0].Begin))
}

func TestWatchUncachedPath(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/a.json": `[{"v": 1}]`}, true)
	h := origin.loader().Watch(context.Background(), "chapter1/a.json")
	defer h.Close()

	st := h.State()
	assert.True(t, st.Loading)
	assert.Nil(t, st.Data)
	assert.Empty(t, st.Error)

	close(origin.gate)
	<-h.Done()
	st = h.State()
	assert.True(t, st.Ready())
	assert.JSONEq(t, `[{"v": 1}]`, string(st.Data))
}

func TestWatchCachedPathIsSynchronous(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/a.json": `[1]`}, false)
	loader := origin.loader()
	_, err := loader.Load(context.Background(), "chapter1/a.json")
	require.NoError(t, err)

	h := loader.Watch(context.Background(), "chapter1/a.json")
	st := h.State()
	assert.False(t, st.Loading)
	assert.Equal(t, `[1]`, string(st.Data))
	select {
	case <-h.Done():
	default:
		t.Fatal("handle of a cached path must be settled")
	}
	assert.Equal(t, int32(1), origin.requests.Load())
}

func TestWatchInvalidPath(t *testing.T) {
	h := NewLoader(NewCache(), NewDirFetcher(t.TempDir())).Watch(context.Background(), "../x.json")
	<-h.Done()
	st := h.State()
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.Error)
}

func TestWatchErrorIsolation(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{
		"chapter1/a.json": "",
		"chapter1/b.json": `[{"v": 2}]`,
	}, false)
	loader := origin.loader()
	ha := loader.Watch(context.Background(), "chapter1/a.json")
	hb := loader.Watch(context.Background(), "chapter1/b.json")
	<-ha.Done()
	<-hb.Done()

	sa := ha.State()
	assert.False(t, sa.Loading)
	assert.Nil(t, sa.Data)
	assert.Contains(t, sa.Error, "500")

	sb := hb.State()
	assert.False(t, sb.Loading)
	assert.Empty(t, sb.Error)
	assert.JSONEq(t, `[{"v": 2}]`, string(sb.Data))
}

func TestLoaderNetworkFailure(t *testing.T) {
	origin := httptest.NewServer(http.NotFoundHandler())
	originURL := origin.URL
	origin.Close()

	loader := NewLoader(NewCache(), NewHTTPFetcher(originURL, "", 5*time.Second, 0))
	_, err := loader.Load(context.Background(), "chapter1/a.json")
	var fetchErr merror.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, fetchErr.Status)
	assert.Equal(t, http.StatusBadGateway, merror.HTTPStatus(err))

	h := loader.Watch(context.Background(), "chapter1/a.json")
	<-h.Done()
	st := h.State()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Data)
	assert.Contains(t, st.Error, "failed to fetch chapter1/a.json")
	assert.Equal(t, 0, loader.Cache().Stats().Entries)
}

func TestWatchCloseStopsUpdates(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/a.json": `[1]`}, true)
	loader := origin.loader()
	h := loader.Watch(context.Background(), "chapter1/a.json")
	assert.Eventually(t, func() bool {
		return origin.requests.Load() == 1
	}, time.Second, time.Millisecond)
	h.Close()
	<-h.Done()
	assert.True(t, h.State().Loading)

	// the only consumer left, so the fetch is abandoned
	assert.Eventually(t, func() bool {
		return loader.Cache().Stats().InFlight == 0
	}, time.Second, time.Millisecond)
	assert.True(t, h.State().Loading)
	close(origin.gate)
}

func TestWatchCloseKeepsSharedFetch(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{"chapter1/a.json": `[1]`}, true)
	loader := origin.loader()
	h1 := loader.Watch(context.Background(), "chapter1/a.json")
	h2 := loader.Watch(context.Background(), "chapter1/a.json")
	defer h2.Close()
	assert.Eventually(t, func() bool {
		return loader.Cache().Stats().Joined == 1
	}, time.Second, time.Millisecond)

	h1.Close()
	close(origin.gate)
	<-h2.Done()
	assert.Equal(t, `[1]`, string(h2.State().Data))
	assert.True(t, h1.State().Loading)
	assert.Equal(t, int32(1), origin.requests.Load())
}

func TestPreloadCountsFailures(t *testing.T) {
	origin := newTestOrigin(t, map[string]string{
		"chapter1/a.json": `[1]`,
		"chapter1/b.json": `[2]`,
	}, false)
	loader := origin.loader()
	numFailed := loader.Preload(
		context.Background(),
		[]DataPath{"chapter1/a.json", "chapter1/b.json", "chapter1/c.json"},
	)
	assert.Equal(t, 1, numFailed)
	assert.Equal(t, 2, loader.Cache().Stats().Entries)
}

func TestLoadAs(t *testing.T) {
	type yearCount struct {
		Year  int `json:"year"`
		Count int `json:"count"`
	}
	origin := newTestOrigin(t, map[string]string{
		"chapter1/a.json": `{"data": [{"year": 2001, "count": 5}]}`,
		"chapter1/b.json": `{"data": "text"}`,
	}, false)
	loader := origin.loader()
	v, err := LoadAs[[]yearCount](context.Background(), loader, "chapter1/a.json")
	require.NoError(t, err)
	assert.Equal(t, []yearCount{{Year: 2001, Count: 5}}, v)

	_, err = LoadAs[[]yearCount](context.Background(), loader, "chapter1/b.json")
	assert.ErrorAs(t, err, &merror.ParseError{})
}

func TestDecodeReturnsIndependentValues(t *testing.T) {
	payload := json.RawMessage(`[{"year": 1}]`)
	a, err := Decode[[]map[string]int](payload)
	require.NoError(t, err)
	a[0]["year"] = 100
	b, err := Decode[[]map[string]int](payload)
	require.NoError(t, err)
	assert.Equal(t, 1, b[0]["year"])
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	fetcher := NewDirFetcher(dir)
	_, err := fetcher.Fetch(context.Background(), "chapter1/a.json")
	var fetchErr merror.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.True(t, fetchErr.IsNotFound())
}
