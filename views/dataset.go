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
	"patentworld/dataset"
	"patentworld/transform"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

// DataFile godoc
// @Summary      DataFile
// @Description  Serves a raw data file (either a bare JSON value or a `{"data": ...}` envelope).
// @Produce      json
// @Param        path path string true "data path relative to the data root"
// @Success      200 {object} any
// @Router       /data/{path} [get]
func (a *Actions) DataFile(ctx *gin.Context) {
	path, ok := dataPathOrFail(ctx)
	if !ok {
		return
	}
	body, err := a.dirFetcher.Fetch(ctx.Request.Context(), path)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	uniresp.WriteRawJSONResponse(ctx.Writer, body)
}

// Dataset godoc
// @Summary      Dataset
// @Description  Returns an unwrapped dataset payload. Each data path is fetched at most once per service lifetime.
// @Produce      json
// @Param        path path string true "data path relative to the data root"
// @Success      200 {object} any
// @Router       /dataset/{path} [get]
func (a *Actions) Dataset(ctx *gin.Context) {
	path, ok := dataPathOrFail(ctx)
	if !ok {
		return
	}
	payload, err := a.loader.Load(ctx.Request.Context(), path)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	uniresp.WriteRawJSONResponse(ctx.Writer, payload)
}

// Cohort godoc
// @Summary      Cohort
// @Description  Returns raw counts, their precomputed cohort-normalized variant or raw counts normalized by exposure years.
// @Produce      json
// @Param        raw query string true "data path of the raw counts"
// @Param        cohort query string false "data path of the cohort-normalized counts (required unless mode is exposure)"
// @Param        mode query string false "normalization mode" enums(raw, cohort, exposure)
// @Param        normalized query bool false "select the cohort-normalized variant (used if mode is not set)"
// @Param        fields query string false "comma separated list of fields to normalize (exposure mode)"
// @Param        yearField query string false "year field (exposure mode, default `year`)"
// @Param        referenceYear query int false "reference year (exposure mode)"
// @Param        member query string false "object member holding rows (exposure mode)"
// @Success      200 {object} cohortResponse
// @Router       /views/cohort [get]
func (a *Actions) Cohort(ctx *gin.Context) {
	mode, ok := modeArgOrFail(ctx)
	if !ok {
		return
	}
	rawPath, ok := queryDataPathOrFail(ctx, "raw")
	if !ok {
		return
	}
	if mode == transform.ModeExposure {
		a.exposureCohort(ctx, rawPath)
		return
	}
	cohortPath, ok := queryDataPathOrFail(ctx, "cohort")
	if !ok {
		return
	}
	toggle := transform.CohortToggle{Raw: rawPath, Cohort: cohortPath}
	if mode == transform.ModeCohort {
		toggle.Toggle()
	}
	payload, err := a.loader.Load(ctx.Request.Context(), toggle.ActivePath())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		cohortResponse{
			Mode: string(toggle.Mode()),
			Path: toggle.ActivePath().String(),
			Data: payload,
		},
	)
}

func (a *Actions) exposureCohort(ctx *gin.Context, rawPath dataset.DataPath) {
	fields, ok := listArgOrFail(ctx, "fields")
	if !ok {
		return
	}
	refYear, ok := unireq.GetURLIntArgOrFail(ctx, "referenceYear", a.referenceYear)
	if !ok {
		return
	}
	rows, err := a.loadRows(ctx.Request.Context(), rawPath, ctx.Query("member"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	view := transform.NormalizeByExposure(rows, ctx.DefaultQuery("yearField", "year"), fields, refYear)
	data, err := sonic.Marshal(view)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		cohortResponse{
			Mode: string(transform.ModeExposure),
			Path: rawPath.String(),
			Data: data,
		},
	)
}

// CacheStats godoc
// @Summary      CacheStats
// @Description  Shows statistics of the in-memory dataset cache.
// @Produce      json
// @Success      200 {object} dataset.CacheStats
// @Router       /cache [get]
func (a *Actions) CacheStats(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, a.loader.Cache().Stats())
}
