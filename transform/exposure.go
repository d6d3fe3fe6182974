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

package transform

import (
	"math"
	"patentworld/table"
)

// DefaultReferenceYear is the last year covered by the published
// datasets. Exposure is counted up to this year.
const DefaultReferenceYear = 2025

// ExposureYears returns the number of years a row from year has been
// exposed to citations, clamped to at least 1.
func ExposureYears(referenceYear int, year float64) float64 {
	return math.Max(1, float64(referenceYear)-year)
}

// NormalizeByExposure divides each of fields by the number of years
// between the row year and referenceYear (at least 1). Fields missing
// in a row stay missing, non-numeric values are treated as zero.
func NormalizeByExposure(rows []table.Row, yearField string, fields []string, referenceYear int) []table.Row {
	if rows == nil {
		return nil
	}
	ans := make([]table.Row, len(rows))
	for i, row := range rows {
		nrow := row.Clone()
		denom := ExposureYears(referenceYear, row.Num(yearField))
		for _, f := range fields {
			if !row.Has(f) {
				continue
			}
			nrow[f] = row.Num(f) / denom
		}
		ans[i] = nrow
	}
	return ans
}
