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
	"testing"

	"patentworld/dataset"
	"patentworld/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndValidateConfig(t *testing.T) {
	dir := t.TempDir()
	conf, err := ParseConfig("test.json", []byte(`{
		"listenAddress": "127.0.0.1",
		"data": {
			"dir": "`+dir+`",
			"preload": ["chapter1/a.json"],
			"schemas": [{"pattern": "chapter1/*.json", "fields": {"year": "number"}}]
		},
		"logLevel": "debug"
	}`))
	require.NoError(t, err)
	require.NoError(t, validateAndDefaults(conf))

	assert.Equal(t, dfltListenPort, conf.ListenPort)
	assert.Equal(t, "http://127.0.0.1:8080", conf.PublicURL)
	assert.Equal(t, dataset.DefaultRoutePrefix, conf.Data.RoutePrefix)
	assert.Equal(t, transform.DefaultReferenceYear, conf.Data.ReferenceYear)
	assert.Equal(t, dfltRequestTimeoutSecs, conf.Data.RequestTimeoutSecs)
	assert.Equal(t, []dataset.DataPath{"chapter1/a.json"}, conf.Data.PreloadPaths())
	assert.Equal(t, dfltTimeZone, conf.TimeZone)
	assert.NotNil(t, conf.TimezoneLocation())
	assert.True(t, conf.IsDebugMode())
}

func TestValidateRequiresDataSource(t *testing.T) {
	conf := &Conf{Data: &DataConf{}}
	assert.Error(t, validateAndDefaults(conf))

	conf = &Conf{}
	assert.Error(t, validateAndDefaults(conf))
}

func TestValidateUpstream(t *testing.T) {
	conf := &Conf{Data: &DataConf{UpstreamURL: "http://origin.example", ReferenceYear: 2024}}
	require.NoError(t, validateAndDefaults(conf))
	assert.Equal(t, 2024, conf.Data.ReferenceYear)
	assert.False(t, conf.Redis.IsConfigured())
}

func TestValidateRejectsBadValues(t *testing.T) {
	conf := &Conf{Data: &DataConf{Dir: t.TempDir(), Preload: []string{"../a.json"}}}
	assert.Error(t, validateAndDefaults(conf))

	conf = &Conf{Data: &DataConf{Dir: t.TempDir()}, TimeZone: "Mars/Olympus"}
	assert.Error(t, validateAndDefaults(conf))

	conf = &Conf{Data: &DataConf{Dir: "/nonexistent/patentworld/data"}}
	assert.Error(t, validateAndDefaults(conf))
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := ParseConfig("test.json", []byte(`{"data": `))
	assert.Error(t, err)
}
