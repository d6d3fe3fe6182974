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
	"patentworld/table"
	"patentworld/transform"

	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/gin-gonic/gin"
)

// Pivot godoc
// @Summary      Pivot
// @Description  Turns rows of (key, category, value) into one row per key with a column per category. Categories missing for a key are omitted.
// @Produce      json
// @Param        path path string true "data path"
// @Param        key query string false "key field (default `year`)"
// @Param        category query string true "category field"
// @Param        value query string true "value field"
// @Param        member query string false "object member holding rows"
// @Success      200 {array} object
// @Header       200 {string} X-Categories "comma separated categories in order of appearance"
// @Router       /views/pivot/{path} [get]
func (a *Actions) Pivot(ctx *gin.Context) {
	path, ok := dataPathOrFail(ctx)
	if !ok {
		return
	}
	keyField := ctx.DefaultQuery("key", "year")
	categoryField, ok := requiredArgOrFail(ctx, "category")
	if !ok {
		return
	}
	valueField, ok := requiredArgOrFail(ctx, "value")
	if !ok {
		return
	}
	a.writeComputedView(ctx, path, categoryField, func(rows []table.Row) ([]table.Row, error) {
		return transform.Pivot(rows, keyField, categoryField, valueField), nil
	})
}

// Exposure godoc
// @Summary      Exposure
// @Description  Divides the listed fields by the number of years between the row year and the reference year (at least 1).
// @Produce      json
// @Param        path path string true "data path"
// @Param        fields query string true "comma separated list of fields to normalize"
// @Param        yearField query string false "year field (default `year`)"
// @Param        referenceYear query int false "reference year (default from configuration)"
// @Param        member query string false "object member holding rows"
// @Success      200 {array} object
// @Router       /views/exposure/{path} [get]
func (a *Actions) Exposure(ctx *gin.Context) {
	path, ok := dataPathOrFail(ctx)
	if !ok {
		return
	}
	fields, ok := listArgOrFail(ctx, "fields")
	if !ok {
		return
	}
	refYear, ok := unireq.GetURLIntArgOrFail(ctx, "referenceYear", a.referenceYear)
	if !ok {
		return
	}
	yearField := ctx.DefaultQuery("yearField", "year")
	a.writeComputedView(ctx, path, "", func(rows []table.Row) ([]table.Row, error) {
		return transform.NormalizeByExposure(rows, yearField, fields, refYear), nil
	})
}

// Threshold godoc
// @Summary      Threshold
// @Description  Keeps rows whose threshold field equals the selected level.
// @Produce      json
// @Param        path path string true "data path"
// @Param        field query string false "threshold field (default `threshold`)"
// @Param        level query string false "threshold level" enums(all, gte5, gte10)
// @Param        member query string false "object member holding rows"
// @Success      200 {array} object
// @Router       /views/threshold/{path} [get]
func (a *Actions) Threshold(ctx *gin.Context) {
	path, ok := dataPathOrFail(ctx)
	if !ok {
		return
	}
	filter := transform.NewThresholdFilter(ctx.Query("field"))
	level, err := filter.Resolve(ctx.Query("level"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	a.writeComputedView(ctx, path, "", func(rows []table.Row) ([]table.Row, error) {
		return filter.Apply(rows, level)
	})
}

// Stacked godoc
// @Summary      Stacked
// @Description  Replaces the listed series values with their percentage share of the row total.
// @Produce      json
// @Param        path path string true "data path"
// @Param        keys query string true "comma separated list of series fields"
// @Param        member query string false "object member holding rows"
// @Success      200 {array} object
// @Router       /views/stacked/{path} [get]
func (a *Actions) Stacked(ctx *gin.Context) {
	path, ok := dataPathOrFail(ctx)
	if !ok {
		return
	}
	keys, ok := listArgOrFail(ctx, "keys")
	if !ok {
		return
	}
	a.writeComputedView(ctx, path, "", func(rows []table.Row) ([]table.Row, error) {
		return transform.StackedPercent(rows, keys), nil
	})
}
