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
	"fmt"
	"net/http"
	"os/signal"
	"patentworld/cnf"
	"patentworld/dataset"
	"patentworld/docs"
	"patentworld/monitoring"
	monitoringActions "patentworld/monitoring/handlers"
	"patentworld/openapi"
	"patentworld/rdb"
	"patentworld/table"
	"patentworld/views"
	"sync"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type apiServer struct {
	server      *http.Server
	conf        *cnf.Conf
	version     versionInfo
	loader      *dataset.Loader
	dirFetcher  *dataset.DirFetcher
	fetchLogger *monitoring.FetchLogger

	// store is nil if Redis is not configured
	store *rdb.Adapter
}

func mkServerInfo(conf *cnf.Conf, ver versionInfo) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uniresp.WriteJSONResponse(
			ctx.Writer,
			map[string]any{
				"name":      "PATENTWORLD",
				"version":   ver,
				"publicUrl": conf.PublicURL,
			},
		)
	}
}

func (api *apiServer) Start(ctx context.Context) {
	if !api.conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(additionalLogEvents())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	viewActions := views.NewActions(api.loader, api.dirFetcher, api.conf.Data.ReferenceYear)
	monActions := monitoringActions.NewActions(api.fetchLogger)

	engine.GET("/", mkServerInfo(api.conf, api.version))

	docs.SwaggerInfo.Version = api.version.Version
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET("/openapi", openapi.MkHandleRequest(api.conf, api.version.Version))

	if api.dirFetcher != nil {
		engine.GET(api.conf.Data.RoutePrefix+"/*path", viewActions.DataFile)
		log.Info().
			Str("dir", api.conf.Data.Dir).
			Str("route", api.conf.Data.RoutePrefix).
			Msg("serving data files")

	} else {
		log.Info().Msg("data dir not configured - data files will not be served")
	}

	engine.GET(
		"/dataset/*path", viewActions.Dataset)

	engine.GET(
		"/views/pivot/*path", viewActions.Pivot)

	engine.GET(
		"/views/exposure/*path", viewActions.Exposure)

	engine.GET(
		"/views/threshold/*path", viewActions.Threshold)

	engine.GET(
		"/views/stacked/*path", viewActions.Stacked)

	engine.GET(
		"/views/cohort", viewActions.Cohort)

	engine.GET(
		"/cache", viewActions.CacheStats)

	engine.GET(
		"/monitoring/fetches", monActions.FetchLoad)

	engine.GET(
		"/monitoring/fetches/recent-records", monActions.RecentRecords)

	engine.GET(
		"/monitoring/chapters/:chapter", monActions.ChapterFetchLoad)

	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	if preload := api.conf.Data.PreloadPaths(); len(preload) > 0 {
		go func() {
			t0 := time.Now()
			numFailed := api.loader.Preload(ctx, preload)
			log.Info().
				Int("numPaths", len(preload)).
				Int("numFailed", numFailed).
				Dur("took", time.Since(t0)).
				Msg("dataset preload finished")
		}()
	}
}

func (s *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down PATENTWORLD HTTP API server")
	err := s.server.Shutdown(ctx)
	if s.store != nil {
		if cErr := s.store.Close(); cErr != nil {
			log.Error().Err(cErr).Msg("failed to close Redis connection")
		}
	}
	return err
}

// newLoader creates a dataset loader based on the `data` and `redis`
// configuration. The returned DirFetcher is nil for upstream data origins,
// the returned Redis adapter is nil if Redis is not configured. The caller
// is responsible for closing the adapter.
func newLoader(
	ctx context.Context,
	conf *cnf.Conf,
	fetchLogger *monitoring.FetchLogger,
) (*dataset.Loader, *dataset.DirFetcher, *rdb.Adapter, error) {
	var fetcher dataset.Fetcher
	var dirFetcher *dataset.DirFetcher
	if conf.Data.Dir != "" {
		dirFetcher = dataset.NewDirFetcher(conf.Data.Dir)
		fetcher = dirFetcher

	} else {
		fetcher = dataset.NewHTTPFetcher(
			conf.Data.UpstreamURL,
			conf.Data.RoutePrefix,
			time.Duration(conf.Data.RequestTimeoutSecs)*time.Second,
			time.Duration(conf.Data.IdleConnTimeoutSecs)*time.Second,
		)
	}
	schemas, err := table.NewRegistry(conf.Data.Schemas)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create data loader: %w", err)
	}
	opts := []dataset.LoaderOption{dataset.WithValidator(schemas)}
	var radapter *rdb.Adapter
	if conf.Redis.IsConfigured() {
		radapter = rdb.NewAdapter(conf.Redis)
		if err := radapter.TestConnection(ctx, redisConnectionTestTimeout); err != nil {
			radapter.Close()
			return nil, nil, nil, fmt.Errorf("failed to create data loader: %w", err)
		}
		opts = append(opts, dataset.WithStore(radapter))
	}
	if fetchLogger != nil {
		opts = append(opts, dataset.WithFetchRecorder(fetchLogger))
	}
	return dataset.NewLoader(dataset.NewCache(), fetcher, opts...), dirFetcher, radapter, nil
}

func runApiServer(
	conf *cnf.Conf,
	ver versionInfo,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var statusWriter monitoring.StatusWriter
	services := make([]service, 0, 3)
	if conf.Monitoring.IsConfigured() {
		tsWriter, err := monitoring.NewTimescaleDBWriter(ctx, *conf.Monitoring.DB, conf.TimezoneLocation())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize TimescaleDB writer")
			return
		}
		statusWriter = tsWriter
		services = append(services, tsWriter)
	}
	fetchLogger := monitoring.NewFetchLogger(statusWriter)
	services = append(services, fetchLogger)

	loader, dirFetcher, store, err := newLoader(ctx, conf, fetchLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
		return
	}
	server := &apiServer{
		conf:        conf,
		version:     ver,
		loader:      loader,
		dirFetcher:  dirFetcher,
		fetchLogger: fetchLogger,
		store:       store,
	}
	services = append(services, server)

	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}
