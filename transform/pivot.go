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
	"sort"
)

// Pivot turns long rows (key, category, value) into wide rows with
// one column per category. A category missing for some key is left
// out of that key's row, it is not filled with zero.
// Rows are ordered by the numeric key value if all keys are numeric,
// otherwise by the first appearance of each key.
func Pivot(rows []table.Row, keyField, categoryField, valueField string) []table.Row {
	if rows == nil {
		return nil
	}
	ans := make([]table.Row, 0, len(rows))
	index := make(map[string]int)
	allNumeric := true
	for _, row := range rows {
		key := row.Str(keyField)
		i, ok := index[key]
		if !ok {
			pivoted := table.Row{keyField: row[keyField]}
			if _, isNum := table.AsNumber(row[keyField]); !isNum {
				allNumeric = false
			}
			ans = append(ans, pivoted)
			i = len(ans) - 1
			index[key] = i
		}
		category := row.Str(categoryField)
		if category == "" || category == keyField {
			continue
		}
		ans[i][category] = row[valueField]
	}
	if allNumeric {
		sort.SliceStable(ans, func(i, j int) bool {
			return ans[i].Num(keyField) < ans[j].Num(keyField)
		})
	}
	return ans
}

// Categories returns distinct values of field in order of appearance
func Categories(rows []table.Row, field string) []string {
	ans := make([]string, 0, 8)
	seen := make(map[string]bool)
	for _, row := range rows {
		v := row.Str(field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		ans = append(ans, v)
	}
	return ans
}
