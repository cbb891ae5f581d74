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

package models

import (
	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/tables"
)

// System table name constants
const (
	ColumnsTableName = "_columns"
)

// BuildColumnsTable creates a system table describing every column of the
// user tables in dm. Each row represents one column.
//
// Schema:
//   - table_name: string - The table this column belongs to
//   - column_name: string - The column's internal name
//   - display_name: string - The column's display name
//   - kind: string - The grid column kind (numeric, text, datetime, duration, unknown)
//   - data_type: string - The storage type ("int64", "string", ...)
//   - null_count: int64 - Number of null rows
//   - row_count: int64 - Number of rows in the column
//   - position: int64 - Column index within the table
func BuildColumnsTable(dm *DataModel) *tables.DataTable {
	tableNameCol := columns.NewStringColumn(columns.NewColumnDef("table_name", "Table"))
	columnNameCol := columns.NewStringColumn(columns.NewColumnDef("column_name", "Column"))
	displayNameCol := columns.NewStringColumn(columns.NewColumnDef("display_name", "Display Name"))
	kindCol := columns.NewStringColumn(columns.NewColumnDef("kind", "Kind"))
	dataTypeCol := columns.NewStringColumn(columns.NewColumnDef("data_type", "Data Type"))
	nullCountCol := columns.NewInt64Column(columns.NewColumnDef("null_count", "Nulls"))
	rowCountCol := columns.NewInt64Column(columns.NewColumnDef("row_count", "Row Count"))
	positionCol := columns.NewInt64Column(columns.NewColumnDef("position", "Position"))

	for _, tableName := range dm.GetTableNames() {
		if isSystemTable(tableName) {
			continue
		}
		table := dm.GetTable(tableName)
		for position, colName := range table.GetColumnNames() {
			col := table.GetColumn(colName)
			if col == nil {
				continue
			}
			tableNameCol.Append(tableName)
			columnNameCol.Append(colName)
			displayNameCol.Append(col.ColumnDef().DisplayName())
			kindCol.Append(col.Kind().String())
			dataTypeCol.Append(getColumnType(col))
			nullCountCol.Append(int64(nullCount(col)))
			rowCountCol.Append(int64(col.Length()))
			positionCol.Append(int64(position))
		}
	}

	columnsTable := tables.NewDataTable()
	columnsTable.AddColumn(tableNameCol)
	columnsTable.AddColumn(columnNameCol)
	columnsTable.AddColumn(displayNameCol)
	columnsTable.AddColumn(kindCol)
	columnsTable.AddColumn(dataTypeCol)
	columnsTable.AddColumn(nullCountCol)
	columnsTable.AddColumn(rowCountCol)
	columnsTable.AddColumn(positionCol)
	return columnsTable
}

// getColumnType returns the storage type name for a column
func getColumnType(col columns.IDataColumn) string {
	switch col.(type) {
	case *columns.StringColumn:
		return "string"
	case *columns.Int64Column:
		return "int64"
	case *columns.Float64Column:
		return "float64"
	case *columns.BoolColumn:
		return "bool"
	case *columns.DatetimeColumn:
		return "datetime"
	case *columns.DurationColumn:
		return "duration"
	default:
		return "unknown"
	}
}

func nullCount(col columns.IDataColumn) int {
	n := 0
	for i := 0; i < col.Length(); i++ {
		if col.IsNull(uint32(i)) {
			n++
		}
	}
	return n
}

// isSystemTable returns true if the table name is a system table
func isSystemTable(name string) bool {
	return name == ColumnsTableName
}

// AddSystemTables builds the system tables and adds them to dm.
// Call it after all user tables have been added.
func AddSystemTables(dm *DataModel) error {
	return dm.AddTable(ColumnsTableName, BuildColumnsTable(dm))
}
