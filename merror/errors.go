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

package merror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// InputError signals an invalid client-provided value
// (data path, transform argument, ...)
type InputError struct {
	Msg string
}

func (err InputError) Error() string {
	return err.Msg
}

func (err InputError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

// FetchError is produced when a data file cannot be obtained
// from its origin. Status holds the HTTP status of the origin
// response or zero if no response was received at all.
type FetchError struct {
	Path   string
	Status int
	Msg    string
}

func (err FetchError) Error() string {
	if err.Status > 0 {
		return fmt.Sprintf("failed to fetch %s: HTTP %d %s", err.Path, err.Status, err.Msg)
	}
	return fmt.Sprintf("failed to fetch %s: %s", err.Path, err.Msg)
}

func (err FetchError) MarshalJSON() ([]byte, error) {
	return json.Marshal(err.Error())
}

// IsNotFound tells whether the origin reported a missing file
func (err FetchError) IsNotFound() bool {
	return err.Status == http.StatusNotFound
}

// ---------------------------

type ParseError struct {
	Path string
	Err  error
}

func (err ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", err.Path, err.Err)
}

func (err ParseError) Unwrap() error {
	return err.Err
}

func (err ParseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(err.Error())
}

// ---------------------------

// SchemaError reports a dataset which does not match
// the shape declared for its path.
type SchemaError struct {
	Path  string
	Row   int
	Field string
	Msg   string
}

func (err SchemaError) Error() string {
	if err.Row >= 0 && err.Field != "" {
		return fmt.Sprintf("dataset %s, row %d, field `%s`: %s", err.Path, err.Row, err.Field, err.Msg)
	}
	return fmt.Sprintf("dataset %s: %s", err.Path, err.Msg)
}

func (err SchemaError) MarshalJSON() ([]byte, error) {
	return json.Marshal(err.Error())
}

// ---------------------------

type RecoveredError struct {
	Msg string
}

func (err RecoveredError) Error() string {
	return err.Msg
}

func (err RecoveredError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// -----------------

func PanicValueToErr(v any) (err error) {
	switch tr := v.(type) {
	case error:
		err = fmt.Errorf("recovered panic: %w", tr)
	case string:
		err = fmt.Errorf("recovered panic: %s", tr)
	default:
		err = fmt.Errorf("recovered panic from an error of type %T", v)
	}
	return
}

// HTTPStatus maps an error produced by the data layer
// to a status code suitable for API responses.
func HTTPStatus(err error) int {
	var inputErr InputError
	var fetchErr FetchError
	var parseErr ParseError
	var schemaErr SchemaError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		if fetchErr.IsNotFound() {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &parseErr), errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
