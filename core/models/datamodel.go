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

// Package models keeps the named tables a server shows as grids.
package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/gridbridge/core/tables"
)

// DataModel is a catalog of tables keyed by name. It is safe for
// concurrent use.
type DataModel struct {
	mu     sync.RWMutex
	tables map[string]*tables.DataTable
}

// NewDataModel creates an empty catalog.
func NewDataModel() *DataModel {
	return &DataModel{
		tables: make(map[string]*tables.DataTable),
	}
}

// AddTable registers table under name, replacing any table of that name.
// Tables whose columns differ in length are rejected.
func (dm *DataModel) AddTable(name string, table *tables.DataTable) error {
	if name == "" {
		return fmt.Errorf("table name is empty")
	}
	if table == nil {
		return fmt.Errorf("table %q is nil", name)
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("table %q: %w", name, err)
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.tables[name] = table
	return nil
}

// GetTable returns a table by name, or nil.
func (dm *DataModel) GetTable(name string) *tables.DataTable {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.tables[name]
}

// GetTableNames returns the table names in sorted order.
func (dm *DataModel) GetTableNames() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.tables))
	for name := range dm.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
