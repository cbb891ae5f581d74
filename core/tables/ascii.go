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
	"strings"
)

// ToAscii returns the table with ASCII borders, one line per row, headed by
// the display names. At most maxRows rows are drawn; maxRows <= 0 draws all.
func (dt *DataTable) ToAscii(maxRows int) string {
	var sb strings.Builder

	rows := dt.Length()
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}

	colWidths := dt.calculateColumnWidths(rows)

	writeBorder := func() {
		for _, w := range colWidths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", w+2))
		}
		sb.WriteString("+\n")
	}

	writeBorder()
	for i, name := range dt.order {
		sb.WriteString(fmt.Sprintf("| %-*s ", colWidths[i], dt.columns[name].ColumnDef().DisplayName()))
	}
	sb.WriteString("|\n")
	writeBorder()

	for r := 0; r < rows; r++ {
		for i, name := range dt.order {
			val, _ := dt.columns[name].GetString(uint32(r))
			sb.WriteString(fmt.Sprintf("| %-*s ", colWidths[i], val))
		}
		sb.WriteString("|\n")
	}
	writeBorder()

	if rows < dt.Length() {
		sb.WriteString(fmt.Sprintf("(%d more rows)\n", dt.Length()-rows))
	}
	return sb.String()
}

// calculateColumnWidths calculates the width needed for each column
func (dt *DataTable) calculateColumnWidths(rows int) []int {
	widths := make([]int, len(dt.order))

	for i, name := range dt.order {
		col := dt.columns[name]
		widths[i] = len(col.ColumnDef().DisplayName())
		if widths[i] < 1 {
			widths[i] = 1
		}
		for r := 0; r < rows; r++ {
			val, err := col.GetString(uint32(r))
			if err == nil && len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}
	return widths
}
