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

package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Row is a single record of a tabular dataset. Values keep
// the types produced by the JSON decoder, numbers are
// stored as json.Number.
type Row map[string]any

// Num returns a numeric value of field. Missing and non-numeric
// values count as zero.
func (r Row) Num(field string) float64 {
	v, ok := AsNumber(r[field])
	if !ok {
		return 0
	}
	return v
}

// Has tells whether the field is present (even with a null value)
func (r Row) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Str returns a textual form of field. Missing and null values
// produce an empty string.
func (r Row) Str(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch tv := v.(type) {
	case string:
		return tv
	case json.Number:
		return tv.String()
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	default:
		return fmt.Sprint(tv)
	}
}

// Clone returns a shallow copy of the row. Rows contain
// only scalar values in practice so it is enough to keep
// the source intact.
func (r Row) Clone() Row {
	ans := make(Row, len(r))
	for k, v := range r {
		ans[k] = v
	}
	return ans
}

// AsNumber converts JSON-decoded numeric values to float64
func AsNumber(v any) (float64, bool) {
	var ans float64
	switch tv := v.(type) {
	case json.Number:
		f, err := tv.Float64()
		if err != nil {
			return 0, false
		}
		ans = f
	case float64:
		ans = tv
	case float32:
		ans = float64(tv)
	case int:
		ans = float64(tv)
	case int64:
		ans = float64(tv)
	default:
		return 0, false
	}
	if math.IsNaN(ans) || math.IsInf(ans, 0) {
		return 0, false
	}
	return ans, true
}

// -------------------------

// FromPayload decodes a payload holding an array of objects.
// With a non-empty member, an object payload is accepted too
// and the rows are taken from its member of the same name.
func FromPayload(payload json.RawMessage, member string) ([]Row, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' && member != "" {
		var obj map[string]json.RawMessage
		if err := decodeNumbers(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode table: %w", err)
		}
		inner, ok := obj[member]
		if !ok {
			return nil, fmt.Errorf("failed to decode table: missing member `%s`", member)
		}
		trimmed = bytes.TrimSpace(inner)
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("failed to decode table: payload is not an array")
	}
	var ans []Row
	if err := decodeNumbers(trimmed, &ans); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	for i, row := range ans {
		if row == nil {
			return nil, fmt.Errorf("failed to decode table: row %d is not an object", i)
		}
	}
	return ans, nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
