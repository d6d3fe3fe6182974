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
	"bytes"
	"encoding/json"
	"patentworld/merror"
)

var jsonNull = []byte("null")

// Unwrap parses a data file body and strips the optional
// `{"data": ...}` envelope. A `data` member holding null
// counts as missing and the whole document is returned.
func Unwrap(path DataPath, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		var v any
		err := json.Unmarshal(trimmed, &v)
		return nil, merror.ParseError{Path: path.String(), Err: err}
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return json.RawMessage(trimmed), nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, merror.ParseError{Path: path.String(), Err: err}
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), jsonNull) {
		return json.RawMessage(trimmed), nil
	}
	return env.Data, nil
}
