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

// Package data turns the supported tabular inputs into row records and a
// per-column kind schema, the form in which rows are handed to the grid.
package data

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/tables"
)

// Input is one of RowTable, ColumnarTable, Array, Mapping or RawRecords.
type Input interface {
	isInput()
}

// RowTable is a table of typed columns.
type RowTable struct {
	Table *tables.DataTable
}

// ColumnarTable is an Arrow table.
type ColumnarTable struct {
	Table arrow.Table
}

// Array is a dense float64 vector (Cols == 0) or a row-major matrix.
type Array struct {
	Data []float64
	Rows int
	Cols int
}

// Mapping holds columns of loosely typed values keyed by name. Order fixes
// the column order.
type Mapping struct {
	Order  []string
	Values map[string][]any
}

// RawRecords is JSON text holding an array of row objects.
type RawRecords string

func (RowTable) isInput()      {}
func (ColumnarTable) isInput() {}
func (Array) isInput()         {}
func (Mapping) isInput()       {}
func (RawRecords) isInput()    {}

// NewVector returns a one dimensional array.
func NewVector(values []float64) Array {
	data := make([]float64, len(values))
	copy(data, values)
	return Array{Data: data, Rows: len(values)}
}

// NewMatrix returns a two dimensional array. All rows must have the same length.
func NewMatrix(rows [][]float64) (Array, error) {
	a := Array{Rows: len(rows)}
	for i, row := range rows {
		if i == 0 {
			a.Cols = len(row)
		} else if len(row) != a.Cols {
			return Array{}, fmt.Errorf("row %d has %d values, expected %d", i, len(row), a.Cols)
		}
		a.Data = append(a.Data, row...)
	}
	if a.Rows > 0 && a.Cols == 0 {
		return Array{}, fmt.Errorf("matrix rows are empty")
	}
	return a, nil
}

// Is2D reports whether a is a matrix.
func (a Array) Is2D() bool {
	return a.Cols > 0
}

// At returns the value at row r, column c. c is ignored for vectors.
func (a Array) At(r, c int) float64 {
	if !a.Is2D() {
		return a.Data[r]
	}
	return a.Data[r*a.Cols+c]
}

// NewMapping checks that order names every column exactly once and that all
// columns have the same length. A nil order sorts the column names.
func NewMapping(order []string, values map[string][]any) (Mapping, error) {
	if order == nil {
		order = Mapping{Values: values}.Columns()
	}
	if len(order) != len(values) {
		return Mapping{}, fmt.Errorf("column order names %d columns, mapping has %d", len(order), len(values))
	}
	n := -1
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			return Mapping{}, fmt.Errorf("column %q appears twice in the column order", name)
		}
		seen[name] = true
		vals, ok := values[name]
		if !ok {
			return Mapping{}, fmt.Errorf("column %q is not in the mapping", name)
		}
		if n >= 0 && len(vals) != n {
			return Mapping{}, fmt.Errorf("column %q has %d values, expected %d", name, len(vals), n)
		}
		n = len(vals)
	}
	return Mapping{Order: append([]string(nil), order...), Values: values}, nil
}

// Columns returns Order, or the sorted column names when Order is nil.
func (m Mapping) Columns() []string {
	if m.Order != nil {
		return m.Order
	}
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rows.
func (m Mapping) Len() int {
	if len(m.Order) == 0 {
		return 0
	}
	return len(m.Values[m.Order[0]])
}

// Field is a column name and the kind recorded for it.
type Field struct {
	Name string
	Kind columns.Kind
}

// Schema lists the input's columns in order.
type Schema []Field

// Names returns the column names.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Kind returns the kind recorded for the named column.
func (s Schema) Kind(name string) (columns.Kind, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Kind, true
		}
	}
	return columns.KindUnknown, false
}

// Record is one row keyed by column name.
type Record map[string]any

// Records are the rows of an input. Every row has exactly the keys in Columns.
type Records struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (r Records) Len() int {
	return len(r.Rows)
}

// SerializationError reports an input that cannot be turned into records.
type SerializationError struct {
	Type string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot serialize data of type '%s'", e.Type)
	}
	return fmt.Sprintf("cannot serialize data of type '%s': %v", e.Type, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// TypeName names the variant of in, as used in error messages.
func TypeName(in Input) string {
	switch in.(type) {
	case RowTable, *RowTable:
		return "RowTable"
	case ColumnarTable, *ColumnarTable:
		return "ColumnarTable"
	case Array, *Array:
		return "Array"
	case Mapping, *Mapping:
		return "Mapping"
	case RawRecords, *RawRecords:
		return "RawRecords"
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%T", in)
}
