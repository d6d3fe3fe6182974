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

package cnf

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"patentworld/dataset"
	"patentworld/monitoring"
	"patentworld/rdb"
	"patentworld/table"
	"patentworld/transform"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerReadTimeoutSecs  = 10
	dfltServerWriteTimeoutSecs = 30
	dfltRequestTimeoutSecs     = 20
	dfltIdleConnTimeoutSecs    = 60
	dfltTimeZone               = "Europe/Prague"
	dfltListenPort             = 8080
)

// DataConf configures where datasets come from and how they are checked
type DataConf struct {
	// Dir is a local directory with data files. If set, files are
	// read directly and also served via the data route.
	Dir string `json:"dir"`

	// UpstreamURL is an origin serving `<routePrefix>/<path>` files.
	// It is used only if Dir is empty.
	UpstreamURL         string         `json:"upstreamUrl"`
	RoutePrefix         string         `json:"routePrefix"`
	RequestTimeoutSecs  int            `json:"requestTimeoutSecs"`
	IdleConnTimeoutSecs int            `json:"idleConnTimeoutSecs"`
	ReferenceYear       int            `json:"referenceYear"`
	Preload             []string       `json:"preload"`
	Schemas             []table.Schema `json:"schemas"`
}

func (dc *DataConf) PreloadPaths() []dataset.DataPath {
	ans := make([]dataset.DataPath, len(dc.Preload))
	for i, v := range dc.Preload {
		ans[i] = dataset.DataPath(v)
	}
	return ans
}

func (dc *DataConf) ValidateAndDefaults(confContext string) error {
	if dc.Dir == "" && dc.UpstreamURL == "" {
		return fmt.Errorf("%s: one of `dir`, `upstreamUrl` must be set", confContext)
	}
	if dc.Dir != "" {
		isDir, err := fs.IsDir(dc.Dir)
		if err != nil {
			return fmt.Errorf("%s: failed to check data dir: %w", confContext, err)
		}
		if !isDir {
			return fmt.Errorf("%s: data dir %s not found", confContext, dc.Dir)
		}
		if dc.UpstreamURL != "" {
			log.Warn().Str("dir", dc.Dir).Msg("both data dir and upstream URL set, upstream will be ignored")
		}

	} else if _, err := url.Parse(dc.UpstreamURL); err != nil {
		return fmt.Errorf("%s: invalid upstreamUrl: %w", confContext, err)
	}
	if dc.RoutePrefix == "" {
		dc.RoutePrefix = dataset.DefaultRoutePrefix
	}
	if dc.RequestTimeoutSecs == 0 {
		dc.RequestTimeoutSecs = dfltRequestTimeoutSecs
		log.Warn().Msgf(
			"%s.requestTimeoutSecs not specified, using default: %d",
			confContext, dfltRequestTimeoutSecs,
		)
	}
	if dc.IdleConnTimeoutSecs == 0 {
		dc.IdleConnTimeoutSecs = dfltIdleConnTimeoutSecs
	}
	if dc.ReferenceYear == 0 {
		dc.ReferenceYear = transform.DefaultReferenceYear
		log.Warn().
			Int("referenceYear", dc.ReferenceYear).
			Msgf("%s.referenceYear not specified, using default", confContext)
	}
	for _, p := range dc.PreloadPaths() {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s.preload: %w", confContext, err)
		}
	}
	for i := range dc.Schemas {
		if err := dc.Schemas[i].ValidateConf(); err != nil {
			return fmt.Errorf("%s.schemas[%d]: %w", confContext, i, err)
		}
	}
	return nil
}

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string           `json:"listenAddress"`
	PublicURL              string           `json:"publicUrl"`
	ListenPort             int              `json:"listenPort"`
	ServerReadTimeoutSecs  int              `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int              `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string         `json:"corsAllowedOrigins"`
	Data                   *DataConf        `json:"data"`
	Redis                  *rdb.Conf        `json:"redis"`
	Monitoring             *monitoring.Conf `json:"monitoring"`
	LogFile                string           `json:"logFile"`
	LogLevel               logging.LogLevel `json:"logLevel"`
	TimeZone               string           `json:"timeZone"`

	srcPath string
}

func (conf *Conf) IsDebugMode() bool {
	return conf.LogLevel == "debug"
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call ValidateAndDefaults
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

func ParseConfig(path string, rawData []byte) (*Conf, error) {
	var conf Conf
	conf.srcPath = path
	if err := json.Unmarshal(rawData, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &conf, nil
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	conf, err := ParseConfig(path, rawData)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return conf
}

func validateAndDefaults(conf *Conf) error {
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Msgf("listenPort not specified, using default: %d", dfltListenPort)
	}
	if conf.ServerReadTimeoutSecs == 0 {
		conf.ServerReadTimeoutSecs = dfltServerReadTimeoutSecs
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default: %d",
			dfltServerReadTimeoutSecs,
		)
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s:%d", conf.ListenAddress, conf.ListenPort)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}
	if conf.Data == nil {
		return fmt.Errorf("missing `data` section")
	}
	if err := conf.Data.ValidateAndDefaults("data"); err != nil {
		return err
	}
	if conf.Redis.IsConfigured() {
		if err := conf.Redis.ValidateAndDefaults(); err != nil {
			return err
		}

	} else {
		log.Info().Msg("redis not configured, datasets will be cached only in memory")
	}
	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	return nil
}

func ValidateAndDefaults(conf *Conf) {
	if err := validateAndDefaults(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
}
