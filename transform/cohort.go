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
	"patentworld/dataset"
	"patentworld/merror"
)

// Mode selects how a chart presents outcome counts
type Mode string

const (
	ModeRaw      Mode = "raw"
	ModeCohort   Mode = "cohort"
	ModeExposure Mode = "exposure"
)

func (m Mode) Validate() error {
	if m != ModeRaw && m != ModeCohort && m != ModeExposure {
		return merror.InputError{Msg: fmt.Sprintf("unknown normalization mode `%s`", m)}
	}
	return nil
}

// ParseMode maps an empty string to ModeRaw
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeRaw, nil
	}
	ans := Mode(s)
	return ans, ans.Validate()
}

// CohortToggle switches between a raw dataset and a separately
// precomputed cohort-normalized one. Nothing is calculated, the
// toggle only picks the data path to load.
type CohortToggle struct {
	Raw        dataset.DataPath
	Cohort     dataset.DataPath
	Normalized bool
}

func (ct *CohortToggle) Toggle() {
	ct.Normalized = !ct.Normalized
}

func (ct CohortToggle) Mode() Mode {
	if ct.Normalized {
		return ModeCohort
	}
	return ModeRaw
}

func (ct CohortToggle) ActivePath() dataset.DataPath {
	if ct.Normalized {
		return ct.Cohort
	}
	return ct.Raw
}
