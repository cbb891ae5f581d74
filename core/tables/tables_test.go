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
	"strings"
	"testing"

	"github.com/google/gridbridge/core/columns"
)

func newTestTable() *DataTable {
	table := NewDataTable()
	ids := columns.NewInt64Column(columns.NewColumnDef("id", "ID"))
	names := columns.NewStringColumn(columns.NewColumnDef("name", "Name"))
	for i, n := range []string{"Alice", "Bob"} {
		ids.Append(int64(i + 1))
		names.Append(n)
	}
	table.AddColumn(ids)
	table.AddColumn(names)
	return table
}

func TestDataTableColumnOrder(t *testing.T) {
	table := newTestTable()
	table.AddColumn(columns.NewStringColumn(columns.NewColumnDef("id", "Replaced")))

	names := table.GetColumnNames()
	if len(names) != 2 || names[0] != "id" || names[1] != "name" {
		t.Errorf("GetColumnNames() = %v, want [id name]", names)
	}
	if table.GetColumn("id").ColumnDef().DisplayName() != "Replaced" {
		t.Errorf("AddColumn did not replace the existing column")
	}
}

func TestDataTableClone(t *testing.T) {
	table := newTestTable()
	clone := table.Clone()
	clone.GetColumn("name").(*columns.StringColumn).Append("Carol")

	if table.GetColumn("name").Length() != 2 {
		t.Errorf("original column grew after appending to the clone")
	}
	if err := clone.Validate(); err == nil {
		t.Errorf("Validate() on ragged clone expected error")
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Validate() on original: %v", err)
	}
}

func TestDataTableRow(t *testing.T) {
	row, err := newTestTable().Row(1)
	if err != nil {
		t.Fatalf("Row(1) error: %v", err)
	}
	if row["id"] != int64(2) || row["name"] != "Bob" {
		t.Errorf("Row(1) = %v", row)
	}
	if _, err := newTestTable().Row(7); err == nil {
		t.Errorf("Row(7) expected error")
	}
}

func TestToAscii(t *testing.T) {
	out := newTestTable().ToAscii(1)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if lines[0] != "+----+-------+" {
		t.Errorf("border = %q", lines[0])
	}
	if lines[1] != "| ID | Name  |" {
		t.Errorf("header = %q", lines[1])
	}
	if lines[3] != "| 1  | Alice |" {
		t.Errorf("row = %q", lines[3])
	}
	if lines[len(lines)-1] != "(1 more rows)" {
		t.Errorf("footer = %q", lines[len(lines)-1])
	}
}
