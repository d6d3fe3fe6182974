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
	"encoding/json"
	"fmt"
	"path"
	"patentworld/dataset"
	"patentworld/merror"
	"sort"
)

type FieldKind string

const (
	KindNumber FieldKind = "number"
	KindString FieldKind = "string"
	KindAny    FieldKind = "any"
)

func (k FieldKind) Validate() error {
	if k != KindNumber && k != KindString && k != KindAny {
		return fmt.Errorf("unknown field kind `%s`", k)
	}
	return nil
}

func (k FieldKind) matches(v any) bool {
	switch k {
	case KindNumber:
		_, ok := AsNumber(v)
		return ok
	case KindString:
		_, ok := v.(string)
		return ok
	}
	return true
}

// Schema declares the fields every row of a dataset must contain.
// Extra fields are allowed.
type Schema struct {
	// Pattern is a path.Match pattern of data paths the schema applies to
	Pattern string               `json:"pattern"`
	Member  string               `json:"member"`
	Fields  map[string]FieldKind `json:"fields"`
	// Nullable lists fields which may hold null instead of their kind
	Nullable []string `json:"nullable"`
}

func (s *Schema) ValidateConf() error {
	if s.Pattern == "" {
		return fmt.Errorf("missing schema pattern")
	}
	if _, err := path.Match(s.Pattern, ""); err != nil {
		return fmt.Errorf("invalid schema pattern `%s`: %w", s.Pattern, err)
	}
	for name, kind := range s.Fields {
		if err := kind.Validate(); err != nil {
			return fmt.Errorf("invalid schema field `%s`: %w", name, err)
		}
	}
	return nil
}

func (s *Schema) isNullable(field string) bool {
	for _, v := range s.Nullable {
		if v == field {
			return true
		}
	}
	return false
}

func (s *Schema) sortedFields() []string {
	ans := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		ans = append(ans, k)
	}
	sort.Strings(ans)
	return ans
}

// Check decodes the payload as a table and verifies all rows
func (s *Schema) Check(p dataset.DataPath, payload json.RawMessage) error {
	rows, err := FromPayload(payload, s.Member)
	if err != nil {
		return merror.SchemaError{Path: p.String(), Row: -1, Msg: err.Error()}
	}
	fields := s.sortedFields()
	for i, row := range rows {
		for _, field := range fields {
			v, ok := row[field]
			if !ok {
				return merror.SchemaError{Path: p.String(), Row: i, Field: field, Msg: "missing field"}
			}
			if v == nil && s.isNullable(field) {
				continue
			}
			if !s.Fields[field].matches(v) {
				return merror.SchemaError{
					Path:  p.String(),
					Row:   i,
					Field: field,
					Msg:   fmt.Sprintf("expected %s, got %T", s.Fields[field], v),
				}
			}
		}
	}
	return nil
}

// -------------------------

// Registry assigns schemas to data paths. The first matching
// schema wins, paths without a schema are accepted as they are.
type Registry struct {
	schemas []Schema
}

func (r *Registry) Find(p dataset.DataPath) *Schema {
	for i := range r.schemas {
		if ok, _ := path.Match(r.schemas[i].Pattern, p.String()); ok {
			return &r.schemas[i]
		}
	}
	return nil
}

func (r *Registry) Validate(p dataset.DataPath, payload json.RawMessage) error {
	s := r.Find(p)
	if s == nil {
		return nil
	}
	return s.Check(p, payload)
}

func (r *Registry) Size() int {
	return len(r.schemas)
}

func NewRegistry(schemas []Schema) (*Registry, error) {
	for i := range schemas {
		if err := schemas[i].ValidateConf(); err != nil {
			return nil, fmt.Errorf("schema %d: %w", i, err)
		}
	}
	return &Registry{schemas: schemas}, nil
}
