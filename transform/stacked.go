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
	"patentworld/table"
)

// StackedPercent replaces values of keys in each row with their
// percentage of the row total. Keys missing in a row stay missing.
// Rows with zero total are returned unmodified.
func StackedPercent(rows []table.Row, keys []string) []table.Row {
	if rows == nil {
		return nil
	}
	ans := make([]table.Row, len(rows))
	for i, row := range rows {
		var total float64
		for _, k := range keys {
			total += row.Num(k)
		}
		nrow := row.Clone()
		if total != 0 {
			for _, k := range keys {
				if row.Has(k) {
					nrow[k] = row.Num(k) / total * 100
				}
			}
		}
		ans[i] = nrow
	}
	return ans
}
