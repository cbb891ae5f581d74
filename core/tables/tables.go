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

package tables

import (
	"fmt"

	"github.com/google/gridbridge/core/columns"
)

// DataTable is an ordered set of equally long named columns. The order in
// which columns are added is the order rows are emitted in.
type DataTable struct {
	columns map[string]columns.IDataColumn
	order   []string
}

func NewDataTable() *DataTable {
	return &DataTable{
		columns: make(map[string]columns.IDataColumn),
	}
}

// AddColumn appends col to the table. Adding a column whose name is already
// present replaces it in place.
func (dt *DataTable) AddColumn(col columns.IDataColumn) {
	name := col.ColumnDef().Name()
	if _, exists := dt.columns[name]; !exists {
		dt.order = append(dt.order, name)
	}
	dt.columns[name] = col
}

func (dt *DataTable) GetColumn(name string) columns.IDataColumn {
	return dt.columns[name]
}

// GetColumnNames returns the column names in insertion order.
func (dt *DataTable) GetColumnNames() []string {
	names := make([]string, len(dt.order))
	copy(names, dt.order)
	return names
}

// Length returns the number of rows, taken from the first column.
func (dt *DataTable) Length() int {
	if len(dt.order) == 0 {
		return 0
	}
	return dt.columns[dt.order[0]].Length()
}

// Validate checks that every column has the same number of rows.
func (dt *DataTable) Validate() error {
	n := dt.Length()
	for _, name := range dt.order {
		if l := dt.columns[name].Length(); l != n {
			return fmt.Errorf("column %q has %d rows, expected %d", name, l, n)
		}
	}
	return nil
}

// Clone returns a deep copy of the table; the columns are cloned too.
func (dt *DataTable) Clone() *DataTable {
	clone := NewDataTable()
	for _, name := range dt.order {
		clone.AddColumn(dt.columns[name].Clone())
	}
	return clone
}

// Row returns row i as a column name to JSON value mapping.
func (dt *DataTable) Row(i uint32) (map[string]any, error) {
	row := make(map[string]any, len(dt.order))
	for _, name := range dt.order {
		v, err := dt.columns[name].JSONValue(i)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		row[name] = v
	}
	return row, nil
}
