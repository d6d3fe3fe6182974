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

package monitoring

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"patentworld/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingWriter struct {
	items []FetchLog
}

func (cw *collectingWriter) Write(item FetchLog) {
	cw.items = append(cw.items, item)
}

func mkRecord(path string, begin time.Time, secs int, err error) dataset.FetchRecord {
	return dataset.FetchRecord{
		Path:  dataset.DataPath(path),
		Begin: begin,
		End:   begin.Add(time.Duration(secs) * time.Second),
		Err:   err,
	}
}

func TestFetchLoggerRecord(t *testing.T) {
	writer := &collectingWriter{}
	logger := NewFetchLogger(writer)
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	logger.Record(mkRecord("chapter1/a.json", t0, 2, nil))
	logger.Record(mkRecord("chapter1/b.json", t0.Add(time.Minute), 1, errors.New("HTTP 500")))
	rec := mkRecord("chapter2/a.json", t0.Add(2*time.Minute), 0, nil)
	rec.FromStore = true
	logger.Record(rec)

	total := logger.TotalLoad()
	assert.Equal(t, 3, total.NumFetches)
	assert.Equal(t, 1, total.NumErrors)
	assert.Equal(t, 1, total.NumFromStore)
	assert.Equal(t, 2, total.NumChapters)
	assert.InDelta(t, 3.0, total.TotalTimeSecs, 1e-9)
	assert.InDelta(t, 1.0, total.AvgFetchSecs(), 1e-9)
	assert.Equal(t, t0, total.FirstUpdate)

	ch1, err := logger.TotalChapterLoad("chapter1")
	require.NoError(t, err)
	assert.Equal(t, 2, ch1.NumFetches)

	_, err = logger.TotalChapterLoad("chapter9")
	assert.ErrorIs(t, err, ErrChapterNotFound)
	_, err = logger.RecentChapterLoad("chapter9")
	assert.ErrorIs(t, err, ErrChapterNotFound)

	recent := logger.RecentLoad()
	assert.Equal(t, 3, recent.NumFetches)
	assert.Equal(t, 2, recent.NumChapters)

	records := logger.RecentRecords()
	require.Len(t, records, 3)
	assert.Equal(t, "chapter1/a.json", records[0].Path)
	assert.Equal(t, "HTTP 500", records[1].Error)

	assert.Len(t, writer.items, 3)
}

func TestFetchLoggerWithoutWriter(t *testing.T) {
	logger := NewFetchLogger(nil)
	logger.Record(mkRecord("a.json", time.Now(), 1, nil))
	assert.Equal(t, 1, logger.TotalLoad().NumFetches)
	ch, err := logger.RecentChapterLoad("")
	assert.NoError(t, err)
	assert.Equal(t, 1, ch.NumFetches)
}

func TestChaptersLoadCleanOldRecords(t *testing.T) {
	now := time.Now()
	cl := ChaptersLoad{
		"chapter1": {NumFetches: 1, LastUpdate: now.Add(-2 * StaleChapterLoadTTL)},
		"chapter2": {NumFetches: 1, LastUpdate: now.Add(-time.Minute)},
	}
	cl.cleanOldRecords(now)
	assert.Len(t, cl, 1)
	_, ok := cl["chapter2"]
	assert.True(t, ok)
}

func TestFetchLoadMarshalJSON(t *testing.T) {
	data, err := json.Marshal(FetchLoad{NumFetches: 2, TotalTimeSecs: 3})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1.5, decoded["avgFetchSecs"])
	assert.NotContains(t, decoded, "firstUpdate")
}
