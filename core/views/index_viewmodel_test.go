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

package views

import (
	"testing"
	"time"
)

func TestBuildIndexViewModel(t *testing.T) {
	at := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	vm := BuildIndexViewModel("Grids", "sub", []GridEntry{
		{Key: "b", Title: "Orders", Columns: []string{"id", "amount"}, RowCount: 3},
		{Key: "a key", Columns: []string{"x"}, RowCount: 1, LastEventAt: at},
		{Key: "a", Title: "Members", Columns: []string{"id", "name", "joined"}, Theme: "alpine"},
	})

	if vm.Title != "Grids" || vm.Subtitle != "sub" {
		t.Errorf("Title, Subtitle = %q, %q", vm.Title, vm.Subtitle)
	}
	if len(vm.Grids) != 3 {
		t.Fatalf("len(Grids) = %d, want 3", len(vm.Grids))
	}

	testCases := []struct {
		title, url, columns, lastEvent string
		columnCount                    int
	}{
		{"a key", "/grid/a%20key", "x", "2024-06-01T12:00:00Z", 1},
		{"Members", "/grid/a", "id, name, joined", "", 3},
		{"Orders", "/grid/b", "id, amount", "", 2},
	}
	// Untitled entries sort first because their title is empty.
	for i, tc := range testCases {
		g := vm.Grids[i]
		if g.Title != tc.title {
			t.Errorf("Grids[%d].Title = %q, want %q", i, g.Title, tc.title)
		}
		if g.URL.String() != tc.url {
			t.Errorf("Grids[%d].URL = %q, want %q", i, g.URL.String(), tc.url)
		}
		if g.Columns != tc.columns || g.ColumnCount != tc.columnCount {
			t.Errorf("Grids[%d] columns = %q (%d), want %q (%d)", i, g.Columns, g.ColumnCount, tc.columns, tc.columnCount)
		}
		if g.LastEvent != tc.lastEvent {
			t.Errorf("Grids[%d].LastEvent = %q, want %q", i, g.LastEvent, tc.lastEvent)
		}
	}
}
