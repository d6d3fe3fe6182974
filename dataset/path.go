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

package dataset

import (
	"fmt"
	"patentworld/merror"
	"strings"
)

// DataPath identifies one static JSON dataset relative to the data
// route, e.g. `chapter7/gov_funded_per_year.json`.
type DataPath string

func (p DataPath) String() string {
	return string(p)
}

// Chapter returns the leading folder of the path (empty for top-level files)
func (p DataPath) Chapter() string {
	if i := strings.IndexByte(string(p), '/'); i > 0 {
		return string(p)[:i]
	}
	return ""
}

// Validate checks the path is a non-empty relative path
// which cannot escape the data root.
func (p DataPath) Validate() error {
	if p == "" {
		return merror.InputError{Msg: "empty data path"}
	}
	if strings.HasPrefix(string(p), "/") {
		return merror.InputError{Msg: fmt.Sprintf("data path %s must be relative", p)}
	}
	for _, seg := range strings.Split(string(p), "/") {
		if seg == "" || seg == "." || seg == ".." {
			return merror.InputError{Msg: fmt.Sprintf("invalid data path %s", p)}
		}
	}
	return nil
}

// ParseDataPath normalizes a path obtained from a URL (a leading
// slash is allowed there) and validates it.
func ParseDataPath(s string) (DataPath, error) {
	ans := DataPath(strings.TrimPrefix(s, "/"))
	if err := ans.Validate(); err != nil {
		return "", err
	}
	return ans, nil
}
