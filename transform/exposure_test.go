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
	"testing"

	"patentworld/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExposureYears(t *testing.T) {
	assert.Equal(t, 25.0, ExposureYears(2025, 2000))
	assert.Equal(t, 1.0, ExposureYears(2025, 2024))
	assert.Equal(t, 1.0, ExposureYears(2025, 2025))
	assert.Equal(t, 1.0, ExposureYears(2025, 2030))
	assert.Equal(t, 1.5, ExposureYears(2025, 2023.5))
}

func TestNormalizeByExposureFractionalYear(t *testing.T) {
	rows := mustRows(t, `[{"year": 2020.5, "citations": 9}, {"year": 1e300, "citations": 4}]`)
	got := NormalizeByExposure(rows, "year", []string{"citations"}, 2025)
	assert.InDelta(t, 2.0, got[0].Num("citations"), 1e-9)
	assert.InDelta(t, 4.0, got[1].Num("citations"), 1e-9)
}

func TestNormalizeByExposure(t *testing.T) {
	rows := mustRows(t, `[
		{"year": 2000, "citations": 50, "cited": 25, "label": "x"},
		{"year": 2025, "citations": 7},
		{"year": 2030, "citations": 3, "cited": "n/a"}
	]`)
	got := NormalizeByExposure(rows, "year", []string{"citations", "cited"}, DefaultReferenceYear)
	require.Len(t, got, 3)
	assert.InDelta(t, 2.0, got[0].Num("citations"), 1e-9)
	assert.InDelta(t, 1.0, got[0].Num("cited"), 1e-9)
	assert.Equal(t, "x", got[0].Str("label"))
	assert.InDelta(t, 7.0, got[1].Num("citations"), 1e-9)
	assert.False(t, got[1].Has("cited"))
	assert.InDelta(t, 3.0, got[2].Num("citations"), 1e-9)
	assert.Equal(t, 0.0, got[2]["cited"])

	// source rows stay intact
	assert.Equal(t, 50.0, rows[0].Num("citations"))
}

func TestNormalizeByExposureNil(t *testing.T) {
	assert.Nil(t, NormalizeByExposure(nil, "year", []string{"a"}, 2025))
	assert.Empty(t, NormalizeByExposure([]table.Row{}, "year", []string{"a"}, 2025))
}
