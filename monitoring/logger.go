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
	"context"
	"errors"
	"patentworld/dataset"
	"sync"
	"time"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
)

const (
	StaleChapterLoadTTL = time.Hour * 24
	cleanupInterval     = 10 * time.Minute
	recentLogSize       = 100
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
)

type StatusWriter interface {
	Write(item FetchLog)
}

// FetchLogger collects statistics of dataset fetches
// (i.e. cache misses which reached the store or the data origin)
type FetchLogger struct {
	loadData     ChaptersLoad
	dataLock     sync.RWMutex
	recentLog    *collections.CircularList[FetchLog]
	statusWriter StatusWriter
}

// Record implements the loader's fetch recorder
func (w *FetchLogger) Record(rec dataset.FetchRecord) {
	item := NewFetchLog(rec)
	w.dataLock.Lock()
	defer w.dataLock.Unlock()
	entry := w.loadData[item.Chapter]
	entry.add(item)
	w.loadData[item.Chapter] = entry
	w.recentLog.Append(item)
	if w.statusWriter != nil {
		w.statusWriter.Write(item)
	}
}

func (w *FetchLogger) TotalLoad() FetchLoad {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	return w.loadData.SumLoad()
}

func (w *FetchLogger) RecentLoad() FetchLoad {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	var ans FetchLoad
	chapters := collections.NewSet[string]()
	w.recentLog.ForEach(func(i int, item FetchLog) bool {
		chapters.Add(item.Chapter)
		ans.add(item)
		return true
	})
	ans.NumChapters = chapters.Size()
	return ans
}

func (w *FetchLogger) RecentRecords() []FetchLog {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	ans := make([]FetchLog, 0, recentLogSize)
	w.recentLog.ForEach(func(i int, item FetchLog) bool {
		ans = append(ans, item)
		return true
	})
	return ans
}

func (w *FetchLogger) TotalChapterLoad(chapter string) (FetchLoad, error) {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	ans, ok := w.loadData[chapter]
	if !ok {
		return ans, ErrChapterNotFound
	}
	ans.NumChapters = 1
	return ans, nil
}

func (w *FetchLogger) RecentChapterLoad(chapter string) (FetchLoad, error) {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	var ans FetchLoad
	w.recentLog.ForEach(func(i int, item FetchLog) bool {
		if item.Chapter == chapter {
			ans.add(item)
		}
		return true
	})
	if ans.NumFetches > 0 {
		ans.NumChapters = 1
		return ans, nil
	}
	return ans, ErrChapterNotFound
}

func (w *FetchLogger) Start(ctx context.Context) {
	log.Info().Msg("starting dataset fetch logger")
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("requesting dataset fetch logger stop")
				return
			case now := <-ticker.C:
				w.dataLock.Lock()
				w.loadData.cleanOldRecords(now)
				w.dataLock.Unlock()
			}
		}
	}()
}

func (w *FetchLogger) Stop(ctx context.Context) error {
	log.Info().Msg("shutting down dataset fetch logger")
	return nil
}

func NewFetchLogger(statusWriter StatusWriter) *FetchLogger {
	return &FetchLogger{
		loadData:     make(ChaptersLoad),
		recentLog:    collections.NewCircularList[FetchLog](recentLogSize),
		statusWriter: statusWriter,
	}
}
