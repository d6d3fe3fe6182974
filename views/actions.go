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

package views

import (
	"context"
	"encoding/json"
	"fmt"
	"patentworld/dataset"
	"patentworld/merror"
	"patentworld/table"
	"patentworld/transform"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

const categoriesHeader = "X-Categories"

// Actions exposes datasets and their derived views to chart clients
type Actions struct {
	loader        *dataset.Loader
	dirFetcher    *dataset.DirFetcher
	referenceYear int
	computed      singleflight.Group
}

func respondWithError(ctx *gin.Context, err error) {
	uniresp.RespondWithErrorJSON(ctx, err, merror.HTTPStatus(err))
}

// dataPathOrFail reads the `*path` URL parameter
func dataPathOrFail(ctx *gin.Context) (dataset.DataPath, bool) {
	p, err := dataset.ParseDataPath(ctx.Param("path"))
	if err != nil {
		respondWithError(ctx, err)
		return "", false
	}
	logging.AddLogEvent(ctx, "dataPath", p.String())
	return p, true
}

// queryDataPathOrFail reads a data path from a required query argument
func queryDataPathOrFail(ctx *gin.Context, name string) (dataset.DataPath, bool) {
	v, ok := requiredArgOrFail(ctx, name)
	if !ok {
		return "", false
	}
	p, err := dataset.ParseDataPath(v)
	if err != nil {
		respondWithError(ctx, err)
		return "", false
	}
	return p, true
}

func requiredArgOrFail(ctx *gin.Context, name string) (string, bool) {
	v := ctx.Query(name)
	if v == "" {
		respondWithError(ctx, merror.InputError{Msg: fmt.Sprintf("missing `%s` argument", name)})
		return "", false
	}
	return v, true
}

func listArgOrFail(ctx *gin.Context, name string) ([]string, bool) {
	v, ok := requiredArgOrFail(ctx, name)
	if !ok {
		return nil, false
	}
	ans := make([]string, 0, 4)
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			ans = append(ans, item)
		}
	}
	if len(ans) == 0 {
		respondWithError(ctx, merror.InputError{Msg: fmt.Sprintf("empty `%s` argument", name)})
		return nil, false
	}
	return ans, true
}

func boolArgOrFail(ctx *gin.Context, name string) (bool, bool) {
	v := ctx.Query(name)
	if v == "" {
		return false, true
	}
	ans, err := strconv.ParseBool(v)
	if err != nil {
		respondWithError(ctx, merror.InputError{Msg: fmt.Sprintf("invalid `%s` argument: %s", name, err)})
		return false, false
	}
	return ans, true
}

// modeArgOrFail reads `mode`. Without it, the legacy `normalized`
// flag selects between the raw and the cohort mode.
func modeArgOrFail(ctx *gin.Context) (transform.Mode, bool) {
	if v := ctx.Query("mode"); v != "" {
		mode, err := transform.ParseMode(v)
		if err != nil {
			respondWithError(ctx, err)
			return "", false
		}
		return mode, true
	}
	normalized, ok := boolArgOrFail(ctx, "normalized")
	if !ok {
		return "", false
	}
	if normalized {
		return transform.ModeCohort, true
	}
	return transform.ModeRaw, true
}

func (a *Actions) loadRows(ctx context.Context, path dataset.DataPath, member string) ([]table.Row, error) {
	payload, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	rows, err := table.FromPayload(payload, member)
	if err != nil {
		return nil, merror.SchemaError{Path: path.String(), Row: -1, Msg: err.Error()}
	}
	return rows, nil
}

type computedView struct {
	body       []byte
	categories []string
}

// writeComputedView loads rows of path, applies fn and writes the encoded
// result. The payload is loaded per request so each client's cancellation
// applies only to itself, identical concurrent transformations share
// one computation. With a non-empty categoryField, distinct values
// of the field in the source rows are listed in the X-Categories header.
func (a *Actions) writeComputedView(
	ctx *gin.Context,
	path dataset.DataPath,
	categoryField string,
	fn func(rows []table.Row) ([]table.Row, error),
) {
	member := ctx.Query("member")
	if _, err := a.loader.Load(ctx.Request.Context(), path); err != nil {
		respondWithError(ctx, err)
		return
	}
	key := ctx.Request.URL.Path + "?" + ctx.Request.URL.Query().Encode()
	ans, err, _ := a.computed.Do(key, func() (any, error) {
		rows, err := a.loadRows(context.Background(), path, member)
		if err != nil {
			return nil, err
		}
		view, err := fn(rows)
		if err != nil {
			return nil, err
		}
		body, err := sonic.Marshal(view)
		if err != nil {
			return nil, err
		}
		cv := computedView{body: body}
		if categoryField != "" {
			cv.categories = transform.Categories(rows, categoryField)
		}
		return cv, nil
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	cv := ans.(computedView)
	if len(cv.categories) > 0 {
		ctx.Header(categoriesHeader, strings.Join(cv.categories, ","))
	}
	uniresp.WriteRawJSONResponse(ctx.Writer, cv.body)
}

type cohortResponse struct {
	Mode string          `json:"mode"`
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

func NewActions(
	loader *dataset.Loader,
	dirFetcher *dataset.DirFetcher,
	referenceYear int,
) *Actions {
	return &Actions{
		loader:        loader,
		dirFetcher:    dirFetcher,
		referenceYear: referenceYear,
	}
}
