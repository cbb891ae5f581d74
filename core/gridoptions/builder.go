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

// Package gridoptions assembles widget grid options column by column and
// writes them out as the JSON text the widget bootstrap consumes.
package gridoptions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/options"
)

// Options is a finished grid configuration. ColumnDefs is always a list.
type Options map[string]any

// ColumnDefs returns the column definitions of a built configuration.
func (o Options) ColumnDefs() []map[string]any {
	var defs []map[string]any
	switch cd := o["columnDefs"].(type) {
	case []map[string]any:
		defs = cd
	case []any:
		for _, v := range cd {
			if m, ok := v.(map[string]any); ok {
				defs = append(defs, m)
			}
		}
	}
	return defs
}

// DuplicateFieldError is returned by AddColumn for a field that exists, and
// by NewBuilder when two base column definitions share a field.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("field '%s' exists in options; use UpdateColumn instead", e.Field)
}

// MissingFieldError is returned by UpdateColumn for an unknown field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field '%s' does not exist in options; use AddColumn instead", e.Field)
}

// Builder collects grid options. Columns are kept by field until Build
// lists them in insertion order.
//
// A Builder is owned by a single caller. It is not safe for concurrent use,
// and every method changes the receiver and returns it for chaining.
type Builder struct {
	options map[string]any
	columns []map[string]any
	index   map[string]int
}

// NewBuilder starts from a deep copy of base. Its columnDefs may be a list of
// column definitions or a map of them keyed by field.
func NewBuilder(base map[string]any) (*Builder, error) {
	opts, err := deepCopy(base)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = map[string]any{}
	}
	b := &Builder{options: opts, index: map[string]int{}}

	defs := opts["columnDefs"]
	delete(opts, "columnDefs")
	switch cd := defs.(type) {
	case nil:
	case []any:
		for i, v := range cd {
			def, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("columnDefs[%d] is a %T, not a column definition", i, v)
			}
			if err := b.appendColumn(def); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		for _, field := range sortedKeys(cd) {
			def, ok := cd[field].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("columnDefs[%q] is a %T, not a column definition", field, cd[field])
			}
			if _, has := def["field"]; !has {
				def["field"] = field
			}
			if err := b.appendColumn(def); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("columnDefs is a %T, not a list", defs)
	}
	return b, nil
}

func (b *Builder) appendColumn(def map[string]any) error {
	if field, ok := def["field"].(string); ok && field != "" {
		if _, dup := b.index[field]; dup {
			return &DuplicateFieldError{Field: field}
		}
		b.index[field] = len(b.columns)
	}
	b.columns = append(b.columns, def)
	return nil
}

// DefaultColumnDef holds the settings applied to every column of a grid
// built from data.
func DefaultColumnDef() map[string]any {
	return map[string]any{
		"minWidth":  100,
		"editable":  false,
		"sortable":  true,
		"resizable": true,
	}
}

// ColumnDefaults returns the type and filter of a column of the given kind.
func ColumnDefaults(kind columns.Kind) map[string]any {
	switch kind {
	case columns.KindNumeric:
		return map[string]any{"type": "numericColumn", "filter": "agNumberColumnFilter"}
	case columns.KindDatetime:
		return map[string]any{"type": "dateColumn", "filter": "agDateColumnFilter"}
	case columns.KindDuration:
		return map[string]any{"type": "timedeltaFormat"}
	default:
		return map[string]any{"filter": "agTextColumnFilter"}
	}
}

// FromData returns a builder with one column per input column.
func FromData(in data.Input) (*Builder, error) {
	_, schema, err := data.Serialize(in)
	if err != nil {
		return nil, err
	}
	return FromSchema(schema)
}

// FromSchema returns a builder with one column per schema field, typed by
// its kind.
func FromSchema(schema data.Schema) (*Builder, error) {
	b, _ := NewBuilder(nil)
	b.options["defaultColDef"] = DefaultColumnDef()
	for _, f := range schema {
		if strings.Contains(f.Name, ".") {
			b.options["suppressFieldDotNotation"] = true
		}
		if _, err := b.AddColumn(f.Name, f.Name, ColumnDefaults(f.Kind)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddColumn adds a column definition. An empty header shows the field name.
// A "field" key in opts is ignored; the column is always keyed by field.
func (b *Builder) AddColumn(field, header string, opts map[string]any) (*Builder, error) {
	if _, ok := b.index[field]; ok {
		return b, &DuplicateFieldError{Field: field}
	}
	if header == "" {
		header = field
	}
	def := map[string]any{"headerName": header}
	mergeColumn(def, opts)
	def["field"] = field
	b.index[field] = len(b.columns)
	b.columns = append(b.columns, def)
	return b, nil
}

// UpdateColumn merges opts into an existing column and sets its header.
func (b *Builder) UpdateColumn(field, header string, opts map[string]any) (*Builder, error) {
	i, ok := b.index[field]
	if !ok {
		return b, &MissingFieldError{Field: field}
	}
	if header == "" {
		header = field
	}
	def := b.columns[i]
	def["headerName"] = header
	mergeColumn(def, opts)
	return b, nil
}

// mergeColumn copies opts into def, leaving the field alone so the index
// stays in step with the definitions.
func mergeColumn(def, opts map[string]any) {
	for k, v := range opts {
		if k != "field" {
			def[k] = v
		}
	}
}

// Fields lists the column fields in order.
func (b *Builder) Fields() []string {
	fields := make([]string, 0, len(b.columns))
	for _, def := range b.columns {
		if f, ok := def["field"].(string); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Set stores a top level option. Setting columnDefs is not allowed; use
// AddColumn.
func (b *Builder) Set(key string, value any) *Builder {
	if key != "columnDefs" {
		b.options[key] = value
	}
	return b
}

// AddSidebar adds the filters and/or columns tool panels to the side bar.
func (b *Builder) AddSidebar(filters, columns bool) *Builder {
	sideBar, _ := b.options["sideBar"].(map[string]any)
	if sideBar == nil {
		sideBar = map[string]any{"toolPanels": []any{}, "defaultToolPanel": ""}
	}
	panels, _ := sideBar["toolPanels"].([]any)
	if filters {
		panels = append(panels, map[string]any{
			"id":           "filters",
			"labelDefault": "Filters",
			"labelKey":     "filters",
			"iconKey":      "filter",
			"toolPanel":    "agFiltersToolPanel",
		})
	}
	if columns {
		panels = append(panels, map[string]any{
			"id":           "columns",
			"labelDefault": "Columns",
			"labelKey":     "columns",
			"iconKey":      "columns",
			"toolPanel":    "agColumnsToolPanel",
		})
	}
	if panels == nil {
		panels = []any{}
	}
	sideBar["toolPanels"] = panels
	b.options["sideBar"] = sideBar
	return b
}

// Selection describes how rows are selected.
type Selection struct {
	Mode                       options.SelectionMode
	UseCheckbox                bool
	HeaderCheckbox             bool
	HeaderCheckboxFilteredOnly bool
	ClearCheckboxOnReload      bool
	PreSelectedRows            []int
	MultiSelectWithClick       bool
	SuppressDeselection        bool
	SuppressClickSelection     bool
	GroupSelectsChildren       bool
	GroupSelectsFiltered       bool
}

// DefaultSelection selects single rows by click.
func DefaultSelection() Selection {
	return Selection{
		Mode:                 options.SelectionSingle,
		GroupSelectsChildren: true,
		GroupSelectsFiltered: true,
	}
}

var (
	selectionKeys = []string{
		"rowSelection", "rowMultiSelectWithClick", "suppressRowDeselection",
		"suppressRowClickSelection", "groupSelectsChildren", "groupSelectsFiltered",
		"preSelectedRows", "preSelectAllRows",
	}
	checkboxKeys = []string{
		"checkboxSelection", "headerCheckboxSelection",
		"headerCheckboxSelectionFilteredOnly", "clearCheckboxOnReload",
	}
)

// AddSelection replaces the selection settings with those described by s.
// Checkboxes are drawn in the first column.
func (b *Builder) AddSelection(s Selection) (*Builder, error) {
	mode := s.Mode
	if mode == "" {
		mode = options.SelectionSingle
	}
	mode, err := options.ParseSelectionMode(string(mode))
	if err != nil {
		return b, err
	}

	for _, k := range selectionKeys {
		delete(b.options, k)
	}
	for _, def := range b.columns {
		for _, k := range checkboxKeys {
			delete(def, k)
		}
	}
	if mode == options.SelectionDisabled {
		return b, nil
	}

	suppressClick := s.SuppressClickSelection
	if s.UseCheckbox {
		if len(b.columns) == 0 {
			return b, errors.New("checkbox selection needs at least one column")
		}
		suppressClick = true
		first := b.columns[0]
		first["checkboxSelection"] = true
		first["headerCheckboxSelection"] = s.HeaderCheckbox
		first["headerCheckboxSelectionFilteredOnly"] = s.HeaderCheckboxFilteredOnly
		first["clearCheckboxOnReload"] = s.ClearCheckboxOnReload
	}
	if len(s.PreSelectedRows) > 0 {
		rows := make([]any, len(s.PreSelectedRows))
		for i, r := range s.PreSelectedRows {
			rows[i] = r
		}
		b.options["preSelectedRows"] = rows
	}
	b.options["rowSelection"] = string(mode)
	b.options["rowMultiSelectWithClick"] = s.MultiSelectWithClick
	b.options["suppressRowDeselection"] = s.SuppressDeselection
	b.options["suppressRowClickSelection"] = suppressClick
	b.options["groupSelectsChildren"] = s.GroupSelectsChildren
	b.options["groupSelectsFiltered"] = s.GroupSelectsFiltered
	b.options["preSelectAllRows"] = false
	return b, nil
}

// AddPagination turns pagination on. With auto the widget picks the page
// size and pageSize is ignored.
func (b *Builder) AddPagination(auto bool, pageSize int) *Builder {
	b.RemovePagination()
	b.options["pagination"] = true
	if auto {
		b.options["paginationAutoPageSize"] = true
	} else {
		b.options["paginationPageSize"] = pageSize
	}
	return b
}

// RemovePagination deletes every pagination key.
func (b *Builder) RemovePagination() *Builder {
	delete(b.options, "pagination")
	delete(b.options, "paginationAutoPageSize")
	delete(b.options, "paginationPageSize")
	return b
}

// Build returns a copy of the options with columnDefs as an ordered list.
// Later changes to the builder do not affect the result.
func (b *Builder) Build() (Options, error) {
	opts := make(map[string]any, len(b.options)+1)
	for k, v := range b.options {
		opts[k] = v
	}
	defs := make([]any, len(b.columns))
	for i, def := range b.columns {
		defs[i] = def
	}
	opts["columnDefs"] = defs
	copied, err := deepCopy(opts)
	if err != nil {
		return nil, err
	}
	return Options(copied), nil
}

// String returns the built options as indented JSON.
func (b *Builder) String() string {
	opts, err := b.Build()
	if err != nil {
		return fmt.Sprintf("<invalid grid options: %v>", err)
	}
	out, err := json.MarshalIndent(opts, "", "    ")
	if err != nil {
		return fmt.Sprintf("<invalid grid options: %v>", err)
	}
	return string(out)
}
