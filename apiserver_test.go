// Copyright 2025 The PATENTWORLD Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"net/http"
	"testing"

	"patentworld/cnf"
	"patentworld/rdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiServerStopClosesStore(t *testing.T) {
	store := rdb.NewAdapter(&rdb.Conf{Host: "localhost", Port: 6379, KeyPrefix: "test"})
	server := &apiServer{
		server: &http.Server{},
		conf:   &cnf.Conf{},
		store:  store,
	}
	require.NoError(t, server.Stop(context.Background()))
	// closing an already closed client fails
	assert.Error(t, store.Close())
}

func TestApiServerStopWithoutStore(t *testing.T) {
	server := &apiServer{server: &http.Server{}, conf: &cnf.Conf{}}
	assert.NoError(t, server.Stop(context.Background()))
}

func TestNewLoaderFromDir(t *testing.T) {
	conf := &cnf.Conf{Data: &cnf.DataConf{Dir: t.TempDir()}}
	loader, dirFetcher, store, err := newLoader(context.Background(), conf, nil)
	require.NoError(t, err)
	assert.NotNil(t, loader)
	assert.NotNil(t, dirFetcher)
	assert.Nil(t, store)
}
