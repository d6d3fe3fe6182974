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
	"testing"

	"patentworld/merror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearCountSchema() Schema {
	return Schema{
		Pattern:  "chapter1/*.json",
		Fields:   map[string]FieldKind{"year": KindNumber, "count": KindNumber, "type": KindString},
		Nullable: []string{"count"},
	}
}

func TestSchemaCheck(t *testing.T) {
	s := yearCountSchema()
	assert.NoError(t, s.Check("chapter1/a.json", json.RawMessage(
		`[{"year": 1976, "count": 10, "type": "utility", "extra": true}, {"year": 1977, "count": null, "type": "design"}]`,
	)))
}

func TestSchemaCheckReportsRowAndField(t *testing.T) {
	s := yearCountSchema()
	err := s.Check("chapter1/a.json", json.RawMessage(
		`[{"year": 1976, "count": 10, "type": "utility"}, {"year": "1977", "count": 1, "type": "design"}]`,
	))
	var schemaErr merror.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 1, schemaErr.Row)
	assert.Equal(t, "year", schemaErr.Field)

	err = s.Check("chapter1/a.json", json.RawMessage(`[{"year": 1976, "count": 10}]`))
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "type", schemaErr.Field)
	assert.Equal(t, "missing field", schemaErr.Msg)
}

func TestSchemaCheckNonTable(t *testing.T) {
	s := yearCountSchema()
	err := s.Check("chapter1/a.json", json.RawMessage(`{"year": 1976}`))
	var schemaErr merror.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, -1, schemaErr.Row)
}

func TestSchemaValidateConf(t *testing.T) {
	s := Schema{Pattern: "[", Fields: map[string]FieldKind{}}
	assert.Error(t, s.ValidateConf())
	s = Schema{Pattern: "a/*.json", Fields: map[string]FieldKind{"x": "date"}}
	assert.Error(t, s.ValidateConf())
	s = Schema{}
	assert.Error(t, s.ValidateConf())
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry([]Schema{
		yearCountSchema(),
		{Pattern: "chapter1/special.json", Fields: map[string]FieldKind{"x": KindAny}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Size())
	assert.Equal(t, "chapter1/*.json", reg.Find("chapter1/special.json").Pattern)
	assert.Nil(t, reg.Find("chapter2/a.json"))
	assert.NoError(t, reg.Validate("chapter2/a.json", json.RawMessage(`"anything"`)))
	assert.Error(t, reg.Validate("chapter1/a.json", json.RawMessage(`[{"x": 1}]`)))

	_, err = NewRegistry([]Schema{{Pattern: ""}})
	assert.Error(t, err)
}
