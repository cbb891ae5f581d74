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

// Package rendering produces the HTML pages of the grid component: the
// index of registered grids and the bootstrap page hosting one widget.
package rendering

import (
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/google/safehtml/uncheckedconversions"

	"github.com/google/gridbridge/core/grid"
	"github.com/google/gridbridge/core/views"
)

//go:embed templates/*
var templateFS embed.FS

// Assets are the URLs a grid page loads the widget from and reports to.
type Assets struct {
	ScriptURL string
	StyleURL  string
	EventsURL string
	SocketURL string
}

// PageRenderer renders the index and grid pages.
type PageRenderer struct {
	indexTemplate *template.Template
	gridPage      string
}

// NewPageRenderer parses the embedded templates.
func NewPageRenderer() (*PageRenderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	indexTemplate, err := template.New("index.html").ParseFS(trustedFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	gridPage, err := templateFS.ReadFile("templates/grid.html")
	if err != nil {
		return nil, err
	}

	return &PageRenderer{
		indexTemplate: indexTemplate,
		gridPage:      string(gridPage),
	}, nil
}

// RenderIndex renders an IndexViewModel to the provided writer
func (r *PageRenderer) RenderIndex(w io.Writer, vm views.IndexViewModel) error {
	return r.indexTemplate.Execute(w, vm)
}

// RenderGrid fills the grid page placeholders with g and a.
//
// Values placed in script context are JSON, whose encoder escapes '<', '>'
// and '&'. Script snippets in the options are written verbatim.
func (r *PageRenderer) RenderGrid(g *grid.Grid, a Assets) (safehtml.HTML, error) {
	opts, err := g.OptionsJSON()
	if err != nil {
		return safehtml.HTML{}, fmt.Errorf("grid options: %w", err)
	}
	fns, err := g.FunctionsJSON()
	if err != nil {
		return safehtml.HTML{}, fmt.Errorf("grid functions: %w", err)
	}
	rows, err := g.RowDataJSON()
	if err != nil {
		return safehtml.HTML{}, fmt.Errorf("row data: %w", err)
	}
	settings, err := json.Marshal(g.Settings())
	if err != nil {
		return safehtml.HTML{}, fmt.Errorf("grid settings: %w", err)
	}

	height := "auto"
	if g.Height > 0 {
		height = strconv.Itoa(g.Height) + "px"
	}

	replacer := strings.NewReplacer(
		"[[GRID_ID]]", jsString(g.Key),
		"[[HEIGHT]]", height,
		"[[GRID_THEME]]", "ag-theme-"+g.Theme,
		"[[GRID_THEME_OVERRIDES]]", ThemeOverrides(g.CustomCSS),
		"[[GRID_ROW_DATA]]", string(rows),
		"[[GRID_OPTIONS]]", string(opts),
		"[[GRID_SETTINGS]]", string(settings),
		"[[GRID_FUNCTIONS]]", string(fns),
		"[[GRID_LICENSE_KEY]]", jsString(g.LicenseKey),
		"[[SCRIPT_URL]]", attrURL(a.ScriptURL),
		"[[STYLE_URL]]", attrURL(a.StyleURL),
		"[[EVENTS_URL]]", jsString(a.EventsURL),
		"[[SOCKET_URL]]", jsString(a.SocketURL),
	)
	return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(replacer.Replace(r.gridPage)), nil
}

// ThemeOverrides writes custom CSS rules, selectors in sorted order. A rule
// is a map of properties to values; other values are skipped.
func ThemeOverrides(css map[string]any) string {
	selectors := make([]string, 0, len(css))
	for sel := range css {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	var b strings.Builder
	for _, sel := range selectors {
		props, ok := css[sel].(map[string]any)
		if !ok {
			continue
		}
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString(cssText(sel))
		b.WriteString(" {")
		for _, name := range names {
			fmt.Fprintf(&b, " %s: %s;", cssText(name), cssText(fmt.Sprint(props[name])))
		}
		b.WriteString(" }\n")
	}
	return b.String()
}

// cssText keeps a value from closing its rule or the style element.
var cssText = strings.NewReplacer("<", `\3c `, "{", "", "}", "", ";", "").Replace

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func attrURL(u string) string {
	return html.EscapeString(safehtml.URLSanitized(u).String())
}
