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

package openapi

import (
	"fmt"
	"net/http"
	"net/url"
	"patentworld/cnf"
	"strings"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

func findHTTPProtocol(req *http.Request) string {
	if prot := req.Header.Get("x-forwarded-proto"); prot != "" {
		return prot
	}
	if req.TLS != nil {
		return "https"
	}
	return "http"
}

func findHTTPServer(req *http.Request) string {
	if serv := req.Header.Get("x-forwarded-host"); serv != "" {
		return serv
	}
	return req.Host
}

// findPublicURL prefers the configured public URL if the request
// came through it, otherwise the URL is derived from the request
func findPublicURL(conf *cnf.Conf, req *http.Request) string {
	proto := findHTTPProtocol(req)
	host := findHTTPServer(req)
	curr, err := url.JoinPath(fmt.Sprintf("%s://%s", proto, host), "/")
	if err != nil {
		return conf.PublicURL
	}
	if strings.HasPrefix(conf.PublicURL, strings.TrimSuffix(curr, "/")) {
		return conf.PublicURL
	}
	return strings.TrimSuffix(curr, "/")
}

func MkHandleRequest(conf *cnf.Conf, ver string) func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		publicURL := findPublicURL(conf, ctx.Request)
		ans := NewResponse(ver, publicURL)
		uniresp.WriteJSONResponse(ctx.Writer, ans)
	}
}
