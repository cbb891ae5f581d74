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

// Package grid validates caller options, serializes the data and resolves
// the grid options into a Grid ready to hand to a renderer.
package grid

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/gridoptions"
	"github.com/google/gridbridge/core/options"
)

// Params are the loosely typed display options of a grid. Empty strings
// take the defaults listed on each field.
type Params struct {
	// GridOptions may be nil, gridoptions.Options, map[string]any,
	// *gridoptions.Builder or a JSON object string. Nil builds default
	// columns from the data.
	GridOptions any
	// Height in pixels. Zero lets the grid grow with its rows.
	Height int
	// ColumnsAutoSizeMode: "none" (default), "fit" or "fit all".
	ColumnsAutoSizeMode string
	// ReturnMode: "input" (default), "filter" or "filter sort".
	ReturnMode string
	// Theme is one of options.Themes; default "streamlit".
	Theme string
	// ExcelExportMode: "none" (default), "manual" or "automatic".
	ExcelExportMode           string
	ExcelExportMultipleSheets map[string]any

	AllowUnsafeJS           bool
	EnableEnterpriseModules bool
	LicenseKey              string

	ConvertToOriginalTypes bool
	// Errors: "raise", "ignore" or "coerce" (default).
	Errors string

	ReloadData        bool
	ColumnsState      []map[string]any
	CustomCSS         any
	UpdateOn          []string
	EnableQuickSearch bool

	// Key identifies the grid across renders. Empty means a fresh grid.
	Key string
	// ExtraOptions are merged into the top level of the grid options.
	ExtraOptions map[string]any
}

// DefaultParams returns the options a grid gets when nothing is set.
func DefaultParams() Params {
	return Params{
		ColumnsAutoSizeMode:     "none",
		ReturnMode:              "input",
		Theme:                   "streamlit",
		ExcelExportMode:         "none",
		EnableEnterpriseModules: true,
		ConvertToOriginalTypes:  true,
		Errors:                  string(options.ErrorsCoerce),
	}
}

// Grid is a validated grid: its rows, schema and final options.
type Grid struct {
	Key     string
	Records data.Records
	Schema  data.Schema
	// Options hold script snippets as token strings.
	Options gridoptions.Options

	Height                    int
	AutoSizeMode              options.AutoSizeMode
	ReturnMode                options.ReturnMode
	Theme                     string
	ExcelExportMode           options.ExcelExportMode
	ExcelExportMultipleSheets map[string]any
	ErrorPolicy               options.ErrorPolicy
	Convert                   bool
	CustomCSS                 map[string]any
	UpdateOn                  []options.UpdateTrigger
	AllowUnsafeJS             bool
	EnableEnterpriseModules   bool
	LicenseKey                string
	ReloadData                bool
	EnableQuickSearch         bool
	ColumnsState              []map[string]any
}

const selectionChanged = "selectionChanged"

// New builds a Grid. Validation and serialization fail fast with the
// typed errors of the options, data and gridoptions packages.
func New(in data.Input, p Params) (*Grid, error) {
	g := &Grid{
		Key:                       p.Key,
		Height:                    p.Height,
		Convert:                   p.ConvertToOriginalTypes,
		AllowUnsafeJS:             p.AllowUnsafeJS,
		EnableEnterpriseModules:   p.EnableEnterpriseModules,
		LicenseKey:                p.LicenseKey,
		ReloadData:                p.ReloadData,
		EnableQuickSearch:         p.EnableQuickSearch,
		ColumnsState:              p.ColumnsState,
		ExcelExportMultipleSheets: p.ExcelExportMultipleSheets,
	}

	var err error
	if g.AutoSizeMode, err = options.ParseAutoSizeMode(orDefault(p.ColumnsAutoSizeMode, "none")); err != nil {
		return nil, err
	}
	if g.ReturnMode, err = options.ParseReturnMode(orDefault(p.ReturnMode, "input")); err != nil {
		return nil, err
	}
	if g.ErrorPolicy, err = options.ParseErrorPolicy(p.ConvertToOriginalTypes, p.Errors); err != nil {
		return nil, err
	}
	if g.Theme, err = options.ParseTheme(orDefault(p.Theme, "streamlit")); err != nil {
		return nil, err
	}
	if g.ExcelExportMode, err = options.ParseExcelExportMode(orDefault(p.ExcelExportMode, "none")); err != nil {
		return nil, err
	}
	if g.CustomCSS, err = options.ParseCustomCSS(p.CustomCSS); err != nil {
		return nil, err
	}
	if g.UpdateOn, err = options.ParseUpdateTriggers(p.UpdateOn); err != nil {
		return nil, err
	}

	if g.Records, g.Schema, err = data.Serialize(in); err != nil {
		return nil, err
	}

	opts, err := resolveOptions(p.GridOptions, g.Schema)
	if err != nil {
		return nil, err
	}
	for k, v := range p.ExtraOptions {
		if k == "columnDefs" {
			return nil, fmt.Errorf("columnDefs cannot be passed as an extra option")
		}
		opts[k] = v
	}
	if g.Height == 0 {
		opts["domLayout"] = "autoHeight"
	}

	replaced, err := gridoptions.ReplaceCode(opts)
	if err != nil {
		return nil, err
	}
	g.Options = gridoptions.Options(replaced.(map[string]any))

	if usesCheckboxes(g.Options) && !options.HasEvent(g.UpdateOn, selectionChanged) {
		g.UpdateOn = append(g.UpdateOn, options.UpdateTrigger{Event: selectionChanged})
	}
	return g, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func resolveOptions(v any, schema data.Schema) (gridoptions.Options, error) {
	var (
		b   *gridoptions.Builder
		err error
	)
	switch opts := v.(type) {
	case nil:
		b, err = gridoptions.FromSchema(schema)
	case *gridoptions.Builder:
		if opts == nil {
			b, err = gridoptions.FromSchema(schema)
		} else {
			b = opts
		}
	case gridoptions.Options:
		b, err = gridoptions.NewBuilder(opts)
	case map[string]any:
		b, err = gridoptions.NewBuilder(opts)
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(opts), &m); err != nil {
			return nil, fmt.Errorf("grid options are not a JSON object: %w", err)
		}
		b, err = gridoptions.NewBuilder(m)
	default:
		return nil, fmt.Errorf("unknown type for grid options: '%T'", v)
	}
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func usesCheckboxes(opts gridoptions.Options) bool {
	for _, def := range opts.ColumnDefs() {
		if on, _ := def["checkboxSelection"].(bool); on {
			return true
		}
	}
	return false
}

// HasScript reports whether the options carry script snippets.
func (g *Grid) HasScript() bool {
	return gridoptions.ContainsScript(g.Options)
}

// OptionsJSON returns the options as JavaScript object text with script
// snippets spliced in as code.
func (g *Grid) OptionsJSON() ([]byte, error) {
	return gridoptions.Marshal(g.Options)
}

// FunctionsJSON returns the script snippets of the options as a JavaScript
// object keyed by option path.
func (g *Grid) FunctionsJSON() ([]byte, error) {
	fns, err := gridoptions.Functions(g.Options)
	if err != nil {
		return nil, err
	}
	return gridoptions.Marshal(fns)
}

// RowDataJSON returns the rows as a JSON array of objects whose keys follow
// the column order of the input.
func (g *Grid) RowDataJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for r, row := range g.Records.Rows {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c, name := range g.Records.Columns {
			if c > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(row[name])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Settings are the values the page script needs besides the grid options.
func (g *Grid) Settings() map[string]any {
	updateOn := g.UpdateOn
	if updateOn == nil {
		updateOn = []options.UpdateTrigger{}
	}
	return map[string]any{
		"autoSizeMode":              int(g.AutoSizeMode),
		"returnMode":                int(g.ReturnMode),
		"excelExportMode":           string(g.ExcelExportMode),
		"excelExportMultipleSheets": g.ExcelExportMultipleSheets,
		"updateOn":                  updateOn,
		"reloadData":                g.ReloadData,
		"enableQuickSearch":         g.EnableQuickSearch,
		"enableEnterpriseModules":   g.EnableEnterpriseModules,
		"columnsState":              g.ColumnsState,
		"customCSS":                 g.CustomCSS,
	}
}
