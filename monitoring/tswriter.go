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
	"time"

	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

/*
Expected tables:

create table patentworld_fetch_stats (
  "time" timestamp with time zone NOT NULL,
  num_fetches int,
  num_errors int,
  num_from_store int,
  duration_secs float
);
select create_hypertable('patentworld_fetch_stats', 'time');

create table patentworld_fetched_paths (
	"time" timestamp with time zone NOT NULL,
	chapter text,
	path text
);
select create_hypertable('patentworld_fetched_paths', 'time');

*/

type Conf struct {
	DB *hltscl.PgConf `json:"db"`
}

func (conf *Conf) IsConfigured() bool {
	return conf != nil && conf.DB != nil
}

type TimescaleDBWriter struct {
	tableWriter     *hltscl.TableWriter
	opsDataCh       chan<- hltscl.Entry
	errCh           <-chan hltscl.WriteError
	pathTableWriter *hltscl.TableWriter
	pathDataCh      chan<- hltscl.Entry
	pathErrCh       <-chan hltscl.WriteError
	location        *time.Location
}

func (sw *TimescaleDBWriter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("about to close StatusWriter")
				return
			case err := <-sw.errCh:
				log.Error().
					Err(err.Err).
					Str("entry", err.Entry.String()).
					Str("table", "patentworld_fetch_stats").
					Msg("error writing data to TimescaleDB")
			case err := <-sw.pathErrCh:
				log.Error().
					Err(err.Err).
					Str("entry", err.Entry.String()).
					Str("table", "patentworld_fetched_paths").
					Msg("error writing data to TimescaleDB")
			}
		}
	}()
}

func (sw *TimescaleDBWriter) Stop(ctx context.Context) error {
	log.Warn().Msg("stopping StatusWriter")
	return nil
}

func (sw *TimescaleDBWriter) Write(item FetchLog) {
	var numErr, numFromStore int
	if item.HasError() {
		numErr++
	}
	if item.FromStore {
		numFromStore++
	}
	sw.opsDataCh <- *sw.tableWriter.NewEntry(item.End.In(sw.location)).
		Int("num_fetches", 1).
		Int("num_errors", numErr).
		Int("num_from_store", numFromStore).
		Float("duration_secs", item.TimeSpent().Seconds())

	sw.pathDataCh <- *sw.pathTableWriter.NewEntry(item.End.In(sw.location)).
		Str("chapter", item.Chapter).
		Str("path", item.Path)
}

func NewTimescaleDBWriter(
	ctx context.Context,
	conf hltscl.PgConf,
	tz *time.Location,
) (*TimescaleDBWriter, error) {

	conn, err := hltscl.CreatePool(conf)
	if err != nil {
		return nil, err
	}
	twriter := hltscl.NewTableWriter(conn, "patentworld_fetch_stats", "time", tz)
	opsDataCh, errCh := twriter.Activate(
		ctx,
		hltscl.WithTimeout(20*time.Second),
	)

	pwriter := hltscl.NewTableWriter(conn, "patentworld_fetched_paths", "time", tz)
	pathDataCh, pathErrCh := pwriter.Activate(
		ctx,
		hltscl.WithTimeout(20*time.Second),
	)

	return &TimescaleDBWriter{
		tableWriter:     twriter,
		opsDataCh:       opsDataCh,
		errCh:           errCh,
		pathTableWriter: pwriter,
		pathDataCh:      pathDataCh,
		pathErrCh:       pathErrCh,
		location:        tz,
	}, nil
}
