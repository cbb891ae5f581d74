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
	"testing"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/tables"
)

func newModel(t *testing.T) *DataModel {
	t.Helper()
	dm := NewDataModel()

	users := tables.NewDataTable()
	name := columns.NewStringColumn(columns.NewColumnDef("name", "Name"))
	name.Append("Alice")
	name.Append("Bob")
	age := columns.NewInt64Column(columns.NewColumnDef("age", "Age"))
	age.Append(30)
	age.AppendNull()
	users.AddColumn(name)
	users.AddColumn(age)
	if err := dm.AddTable("users", users); err != nil {
		t.Fatalf("AddTable(users) = %v", err)
	}

	orders := tables.NewDataTable()
	id := columns.NewStringColumn(columns.NewColumnDef("order_id", "Order ID"))
	amount := columns.NewFloat64Column(columns.NewColumnDef("amount", ""))
	for i, v := range []float64{100, 200, 150} {
		id.Append(string(rune('A' + i)))
		amount.Append(v)
	}
	orders.AddColumn(id)
	orders.AddColumn(amount)
	if err := dm.AddTable("orders", orders); err != nil {
		t.Fatalf("AddTable(orders) = %v", err)
	}
	return dm
}

func TestDataModel(t *testing.T) {
	dm := newModel(t)

	names := dm.GetTableNames()
	if len(names) != 2 || names[0] != "orders" || names[1] != "users" {
		t.Errorf("GetTableNames() = %v, want [orders users]", names)
	}
	if dm.GetTable("users") == nil {
		t.Error("GetTable(users) = nil")
	}
	if dm.GetTable("missing") != nil {
		t.Error("GetTable(missing) != nil")
	}

	if err := dm.AddTable("", tables.NewDataTable()); err == nil {
		t.Error("AddTable with empty name succeeded")
	}
	if err := dm.AddTable("nil", nil); err == nil {
		t.Error("AddTable with nil table succeeded")
	}

	ragged := tables.NewDataTable()
	a := columns.NewInt64Column(columns.NewColumnDef("a", ""))
	a.Append(1)
	ragged.AddColumn(a)
	ragged.AddColumn(columns.NewInt64Column(columns.NewColumnDef("b", "")))
	if err := dm.AddTable("ragged", ragged); err == nil {
		t.Error("AddTable with ragged columns succeeded")
	}
}

func TestBuildColumnsTable(t *testing.T) {
	dm := newModel(t)
	columnsTable := BuildColumnsTable(dm)

	if columnsTable.Length() != 4 {
		t.Fatalf("Length() = %d, want 4", columnsTable.Length())
	}

	testCases := []struct {
		row                   uint32
		table, column, kind   string
		dataType, displayName string
		nulls, position       string
	}{
		{0, "orders", "order_id", "text", "string", "Order ID", "0", "0"},
		{1, "orders", "amount", "numeric", "float64", "amount", "0", "1"},
		{2, "users", "name", "text", "string", "Name", "0", "0"},
		{3, "users", "age", "numeric", "int64", "Age", "1", "1"},
	}
	for _, tc := range testCases {
		got := map[string]string{}
		for _, name := range columnsTable.GetColumnNames() {
			v, err := columnsTable.GetColumn(name).GetString(tc.row)
			if err != nil {
				t.Fatalf("GetString(%d) = %v", tc.row, err)
			}
			got[name] = v
		}
		want := map[string]string{
			"table_name":   tc.table,
			"column_name":  tc.column,
			"display_name": tc.displayName,
			"kind":         tc.kind,
			"data_type":    tc.dataType,
			"null_count":   tc.nulls,
			"position":     tc.position,
		}
		for k, w := range want {
			if got[k] != w {
				t.Errorf("row %d %s = %q, want %q", tc.row, k, got[k], w)
			}
		}
	}
}

func TestAddSystemTables(t *testing.T) {
	dm := newModel(t)
	if err := AddSystemTables(dm); err != nil {
		t.Fatalf("AddSystemTables() = %v", err)
	}
	columnsTable := dm.GetTable(ColumnsTableName)
	if columnsTable == nil {
		t.Fatal("_columns table was not added")
	}
	if columnsTable.GetColumn("table_name") == nil {
		t.Error("_columns table missing 'table_name' column")
	}
}

func TestColumnsTableExcludesItself(t *testing.T) {
	dm := newModel(t)
	if err := AddSystemTables(dm); err != nil {
		t.Fatalf("AddSystemTables() = %v", err)
	}

	columnsTable := BuildColumnsTable(dm)
	tableNameCol := columnsTable.GetColumn("table_name")
	for i := 0; i < columnsTable.Length(); i++ {
		tableName, _ := tableNameCol.GetString(uint32(i))
		if tableName == ColumnsTableName {
			t.Error("_columns table should not include itself in the metadata")
		}
	}
}
