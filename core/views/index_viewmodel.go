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
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/safehtml"
)

// GridEntry describes one registered grid.
type GridEntry struct {
	Key         string
	Title       string
	Columns     []string
	RowCount    int
	Theme       string
	LastEventAt time.Time
}

// IndexViewModel contains the registered grids formatted for template consumption
type IndexViewModel struct {
	Title    string
	Subtitle string
	Grids    []GridInfo
}

// GridInfo is a link to one grid page.
type GridInfo struct {
	Title       string
	URL         safehtml.URL
	RowCount    int
	ColumnCount int
	Columns     string // Column names, comma separated
	Theme       string
	LastEvent   string // Empty until the widget reported back
}

// BuildIndexViewModel lists entries sorted by title, then key.
func BuildIndexViewModel(title, subtitle string, entries []GridEntry) IndexViewModel {
	sorted := make([]GridEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Title != sorted[j].Title {
			return sorted[i].Title < sorted[j].Title
		}
		return sorted[i].Key < sorted[j].Key
	})

	vm := IndexViewModel{Title: title, Subtitle: subtitle, Grids: make([]GridInfo, 0, len(sorted))}
	for _, e := range sorted {
		info := GridInfo{
			Title:       e.Title,
			URL:         GridURL(e.Key),
			RowCount:    e.RowCount,
			ColumnCount: len(e.Columns),
			Columns:     strings.Join(e.Columns, ", "),
			Theme:       e.Theme,
		}
		if info.Title == "" {
			info.Title = e.Key
		}
		if !e.LastEventAt.IsZero() {
			info.LastEvent = e.LastEventAt.UTC().Format(time.RFC3339)
		}
		vm.Grids = append(vm.Grids, info)
	}
	return vm
}

// GridURL returns the path of the page showing the grid with the given key.
func GridURL(key string) safehtml.URL {
	return safehtml.URLSanitized("/grid/" + url.PathEscape(key))
}
