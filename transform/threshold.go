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
	"fmt"
	"patentworld/merror"
	"patentworld/table"
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
)

const (
	ThresholdAll   = "all"
	ThresholdGte5  = "gte5"
	ThresholdGte10 = "gte10"

	DefaultThresholdField = "threshold"
)

var DefaultThresholdLevels = []string{ThresholdAll, ThresholdGte5, ThresholdGte10}

// ThresholdFilter selects rows by an enumerated threshold field.
// The first of Levels is the default selection.
type ThresholdFilter struct {
	Field  string
	Levels []string
}

func (tf ThresholdFilter) Default() string {
	if len(tf.Levels) == 0 {
		return ""
	}
	return tf.Levels[0]
}

// Resolve maps an empty selection to the default level and
// rejects levels outside of the enumeration.
func (tf ThresholdFilter) Resolve(selected string) (string, error) {
	if selected == "" {
		return tf.Default(), nil
	}
	if !collections.SliceContains(tf.Levels, selected) {
		return "", merror.InputError{
			Msg: fmt.Sprintf(
				"unknown threshold level `%s` (expected one of: %s)",
				selected, strings.Join(tf.Levels, ", "),
			),
		}
	}
	return selected, nil
}

// Apply returns rows whose Field equals the selected level, keeping
// their order. A level without matching rows yields an empty slice.
func (tf ThresholdFilter) Apply(rows []table.Row, selected string) ([]table.Row, error) {
	if rows == nil {
		return nil, nil
	}
	level, err := tf.Resolve(selected)
	if err != nil {
		return nil, err
	}
	ans := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		if row.Str(tf.Field) == level {
			ans = append(ans, row.Clone())
		}
	}
	return ans, nil
}

func NewThresholdFilter(field string) ThresholdFilter {
	if field == "" {
		field = DefaultThresholdField
	}
	return ThresholdFilter{
		Field:  field,
		Levels: DefaultThresholdLevels,
	}
}
