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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"patentworld/merror"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/httpclient"
)

const (
	DefaultRoutePrefix = "/data"
	maxBodyBytes       = 64 * 1024 * 1024
)

// Fetcher obtains a raw (possibly enveloped) data file body
type Fetcher interface {
	Fetch(ctx context.Context, path DataPath) ([]byte, error)
}

// ------------------------

// HTTPFetcher loads data files via `GET <baseURL><routePrefix>/<path>`
type HTTPFetcher struct {
	baseURL     string
	routePrefix string
	client      *http.Client
}

func (f *HTTPFetcher) URL(path DataPath) (string, error) {
	return url.JoinPath(f.baseURL, f.routePrefix, path.String())
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path DataPath) ([]byte, error) {
	u, err := f.URL(path)
	if err != nil {
		return nil, merror.InputError{Msg: fmt.Sprintf("invalid data URL for %s: %s", path, err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, merror.FetchError{Path: path.String(), Msg: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, merror.FetchError{
			Path:   path.String(),
			Status: resp.StatusCode,
			Msg:    http.StatusText(resp.StatusCode),
		}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, merror.FetchError{Path: path.String(), Msg: fmt.Sprintf("failed to read body: %s", err)}
	}
	return body, nil
}

// NewHTTPFetcher creates a fetcher for a remote data origin.
// Zero timeouts mean no request timeout and a 60s idle connection timeout.
func NewHTTPFetcher(
	baseURL string,
	routePrefix string,
	requestTimeout time.Duration,
	idleConnTimeout time.Duration,
) *HTTPFetcher {
	if routePrefix == "" {
		routePrefix = DefaultRoutePrefix
	}
	if idleConnTimeout == 0 {
		idleConnTimeout = 60 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = idleConnTimeout
	return &HTTPFetcher{
		baseURL:     strings.TrimRight(baseURL, "/"),
		routePrefix: routePrefix,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Timeout:   requestTimeout,
			Transport: transport,
		},
	}
}

// ------------------------

// DirFetcher reads data files from a local directory which is
// laid out the same way as the data route.
type DirFetcher struct {
	rootDir string
}

func (f *DirFetcher) FilePath(path DataPath) string {
	return filepath.Join(f.rootDir, filepath.FromSlash(path.String()))
}

func (f *DirFetcher) Fetch(ctx context.Context, path DataPath) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath := f.FilePath(path)
	isFile, err := fs.IsFile(fullPath)
	if err != nil || !isFile {
		return nil, merror.FetchError{
			Path:   path.String(),
			Status: http.StatusNotFound,
			Msg:    "file not found",
		}
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, merror.FetchError{Path: path.String(), Msg: err.Error()}
	}
	return data, nil
}

func NewDirFetcher(rootDir string) *DirFetcher {
	return &DirFetcher{rootDir: rootDir}
}
