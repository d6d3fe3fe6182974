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
	"patentworld/dataset"
	"time"

	"github.com/bytedance/sonic"
)

// FetchLog is a serializable form of dataset.FetchRecord
type FetchLog struct {
	Path      string    `json:"path"`
	Chapter   string    `json:"chapter"`
	FromStore bool      `json:"fromStore"`
	Begin     time.Time `json:"begin"`
	End       time.Time `json:"end"`
	Error     string    `json:"error,omitempty"`
}

func (fl FetchLog) TimeSpent() time.Duration {
	return fl.End.Sub(fl.Begin)
}

func (fl FetchLog) HasError() bool {
	return fl.Error != ""
}

func NewFetchLog(rec dataset.FetchRecord) FetchLog {
	ans := FetchLog{
		Path:      rec.Path.String(),
		Chapter:   rec.Path.Chapter(),
		FromStore: rec.FromStore,
		Begin:     rec.Begin,
		End:       rec.End,
	}
	if rec.Err != nil {
		ans.Error = rec.Err.Error()
	}
	return ans
}

// ---

type FetchLoad struct {
	NumFetches    int
	NumFromStore  int
	NumErrors     int
	TotalTimeSecs float64
	FirstUpdate   time.Time
	LastUpdate    time.Time
	NumChapters   int
}

func (fl *FetchLoad) add(item FetchLog) {
	if fl.FirstUpdate.IsZero() {
		fl.FirstUpdate = item.Begin
	}
	fl.LastUpdate = item.End
	fl.NumFetches++
	if item.FromStore {
		fl.NumFromStore++
	}
	if item.HasError() {
		fl.NumErrors++
	}
	fl.TotalTimeSecs += item.TimeSpent().Seconds()
}

// TotalSpan returns time span covered by the load info
func (fl FetchLoad) TotalSpan() time.Duration {
	return fl.LastUpdate.Sub(fl.FirstUpdate)
}

func (fl FetchLoad) AvgFetchSecs() float64 {
	if fl.NumFetches == 0 {
		return 0
	}
	return fl.TotalTimeSecs / float64(fl.NumFetches)
}

func (fl FetchLoad) MarshalJSON() ([]byte, error) {
	var t0, t1 *time.Time
	if !fl.FirstUpdate.IsZero() {
		t0 = &fl.FirstUpdate
	}
	if !fl.LastUpdate.IsZero() {
		t1 = &fl.LastUpdate
	}
	return sonic.Marshal(
		struct {
			NumFetches    int        `json:"numFetches"`
			NumFromStore  int        `json:"numFromStore"`
			NumErrors     int        `json:"numErrors"`
			TotalTimeSecs float64    `json:"totalTimeSecs"`
			FirstUpdate   *time.Time `json:"firstUpdate,omitempty"`
			LastUpdate    *time.Time `json:"lastUpdate,omitempty"`
			AvgFetchSecs  float64    `json:"avgFetchSecs"`
			NumChapters   int        `json:"numChapters,omitempty"`
		}{
			NumFetches:    fl.NumFetches,
			NumFromStore:  fl.NumFromStore,
			NumErrors:     fl.NumErrors,
			TotalTimeSecs: fl.TotalTimeSecs,
			FirstUpdate:   t0,
			LastUpdate:    t1,
			AvgFetchSecs:  fl.AvgFetchSecs(),
			NumChapters:   fl.NumChapters,
		},
	)
}

// ChaptersLoad holds load per chapter folder
type ChaptersLoad map[string]FetchLoad

func (cl ChaptersLoad) SumLoad() FetchLoad {
	var ans FetchLoad
	for _, v := range cl {
		ans.NumFetches += v.NumFetches
		ans.NumFromStore += v.NumFromStore
		ans.NumErrors += v.NumErrors
		ans.TotalTimeSecs += v.TotalTimeSecs
		if ans.FirstUpdate.IsZero() || v.FirstUpdate.Before(ans.FirstUpdate) {
			ans.FirstUpdate = v.FirstUpdate
		}
		if v.LastUpdate.After(ans.LastUpdate) {
			ans.LastUpdate = v.LastUpdate
		}
	}
	ans.NumChapters = len(cl)
	return ans
}

func (cl ChaptersLoad) cleanOldRecords(now time.Time) {
	for k, v := range cl {
		if now.Sub(v.LastUpdate) > StaleChapterLoadTTL {
			delete(cl, k)
		}
	}
}
