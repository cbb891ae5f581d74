/*
SPDX-License-Identifier: Apache-2.0

Copyright 2025 The Gridbridge Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package columns

import (
	"fmt"
)

// Kind is the coarse type tag of a column. The grid only distinguishes
// these five, and the response decoder uses it to pick a conversion.
type Kind int

const (
	KindUnknown Kind = iota
	KindNumeric
	KindText
	KindDatetime
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindDatetime:
		return "datetime"
	case KindDuration:
		return "duration"
	default:
		return "unknown"
	}
}

type ColumnDef struct {
	name        string
	displayName string
}

// NewColumnDef creates a new ColumnDef with the given name and display name
func NewColumnDef(name, displayName string) *ColumnDef {
	if displayName == "" {
		displayName = name
	}
	return &ColumnDef{
		name:        name,
		displayName: displayName,
	}
}

func (cd *ColumnDef) Name() string {
	return cd.name
}

func (cd *ColumnDef) DisplayName() string {
	return cd.displayName
}

// IDataColumn is implemented by every typed column.
type IDataColumn interface {
	ColumnDef() *ColumnDef
	Kind() Kind
	Length() int
	GetString(i uint32) (string, error)
	// JSONValue returns the value at i in a form encoding/json can emit:
	// nil for nulls, datetimes and durations as canonical strings.
	JSONValue(i uint32) (any, error)
	IsNull(i uint32) bool
	AppendNull()
	// AppendAny converts a decoded JSON value into the column type.
	// Nothing is appended when an error is returned.
	AppendAny(v any) error
	// Clone returns a deep copy sharing only the column definition.
	Clone() IDataColumn
	// NewEmpty returns a column of the same type and definition with no rows.
	NewEmpty() IDataColumn
}

// nullMask tracks which rows of a column are null. It is embedded in every
// column type so that the data slice can keep a plain zero value in null slots.
type nullMask struct {
	nulls []bool
	count int
}

func (m *nullMask) markValid() {
	m.nulls = append(m.nulls, false)
}

func (m *nullMask) markNull() {
	m.nulls = append(m.nulls, true)
	m.count++
}

// IsNull reports whether row i is null. Out of range rows are reported as null.
func (m *nullMask) IsNull(i uint32) bool {
	if int(i) >= len(m.nulls) {
		return true
	}
	return m.nulls[i]
}

// NullCount returns the number of null rows.
func (m *nullMask) NullCount() int {
	return m.count
}

func (m *nullMask) clone() nullMask {
	nulls := make([]bool, len(m.nulls))
	copy(nulls, m.nulls)
	return nullMask{nulls: nulls, count: m.count}
}

func outOfBounds(i uint32, length int) error {
	return fmt.Errorf("index %d out of bounds (length: %d)", i, length)
}

// conversionError describes a value that cannot be stored in a column.
func conversionError(v any, target string) error {
	return fmt.Errorf("cannot convert %v (%T) to %s", v, v, target)
}
