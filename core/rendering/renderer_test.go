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

package rendering

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/grid"
	"github.com/google/gridbridge/core/jscode"
	"github.com/google/gridbridge/core/views"
)

func newGrid(t *testing.T, p grid.Params) *grid.Grid {
	t.Helper()
	g, err := grid.New(data.RawRecords(`[{"name": "</script><b>", "n": 1}]`), p)
	if err != nil {
		t.Fatalf("grid.New() = %v", err)
	}
	g.Key = "k1"
	return g
}

func TestRenderGridFillsPlaceholders(t *testing.T) {
	r, err := NewPageRenderer()
	if err != nil {
		t.Fatalf("NewPageRenderer() = %v", err)
	}
	p := grid.DefaultParams()
	p.Height = 300
	p.Theme = "alpine-dark"
	p.LicenseKey = "LIC"
	p.CustomCSS = map[string]any{".ag-header": map[string]any{"color": "red</style>"}}

	page, err := r.RenderGrid(newGrid(t, p), Assets{
		ScriptURL: "/assets/grid.js",
		StyleURL:  "/assets/grid.css",
		EventsURL: "/grid/k1/events",
		SocketURL: "ws://host/grid/k1/ws",
	})
	if err != nil {
		t.Fatalf("RenderGrid() = %v", err)
	}
	out := page.String()

	for _, want := range []string{
		`const gridId = "k1";`,
		`height: 300px;`,
		`class="ag-theme-alpine-dark"`,
		`const licenseKey = "LIC";`,
		`src="/assets/grid.js"`,
		`href="/assets/grid.css"`,
		`const eventsURL = "/grid/k1/events";`,
		`.ag-header { color: red\3c /style>; }`,
		`"returnMode":0`,
		`const gridFunctions = {};`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page does not contain %q", want)
		}
	}
	if strings.Contains(out, "[[") {
		t.Error("page has unfilled placeholders")
	}
	if strings.Contains(out, "</script><b>") {
		t.Error("row data was not escaped")
	}
}

func TestRenderGridAutoHeightAndScript(t *testing.T) {
	r, err := NewPageRenderer()
	if err != nil {
		t.Fatalf("NewPageRenderer() = %v", err)
	}
	p := grid.DefaultParams()
	p.AllowUnsafeJS = true
	p.ExtraOptions = map[string]any{"getRowId": jscode.New("params => params.data.n")}
	page, err := r.RenderGrid(newGrid(t, p), Assets{})
	if err != nil {
		t.Fatalf("RenderGrid() = %v", err)
	}
	out := page.String()
	if !strings.Contains(out, "height: auto;") {
		t.Error("page without height is not auto sized")
	}
	if !strings.Contains(out, `"getRowId":function(params) { return params.data.n; }`) {
		t.Error("script snippet was not spliced into the options")
	}
	if !strings.Contains(out, `const gridFunctions = {"getRowId":function(params) { return params.data.n; }};`) {
		t.Error("script snippet is missing from the functions object")
	}
	if strings.Contains(out, jscode.Sentinel) {
		t.Error("page contains script sentinels")
	}
}

func TestThemeOverrides(t *testing.T) {
	got := ThemeOverrides(map[string]any{
		".b":   map[string]any{"width": 10, "color": "blue"},
		".a{}": map[string]any{"margin": "0;x"},
		".c":   "ignored",
	})
	want := ".a { margin: 0x; }\n.b { color: blue; width: 10; }\n"
	if got != want {
		t.Errorf("ThemeOverrides() = %q, want %q", got, want)
	}
}

func TestRenderIndex(t *testing.T) {
	r, err := NewPageRenderer()
	if err != nil {
		t.Fatalf("NewPageRenderer() = %v", err)
	}
	vm := views.BuildIndexViewModel("Grids <1>", "", []views.GridEntry{
		{Key: "m", Title: "Members", Columns: []string{"id"}, RowCount: 2},
	})
	var buf bytes.Buffer
	if err := r.RenderIndex(&buf, vm); err != nil {
		t.Fatalf("RenderIndex() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`<title>Grids &lt;1&gt;</title>`, `<a href="/grid/m">Members</a>`} {
		if !strings.Contains(out, want) {
			t.Errorf("index does not contain %q", want)
		}
	}

	buf.Reset()
	if err := r.RenderIndex(&buf, views.BuildIndexViewModel("Empty", "", nil)); err != nil {
		t.Fatalf("RenderIndex() = %v", err)
	}
	if !strings.Contains(buf.String(), "No grids registered.") {
		t.Error("empty index has no placeholder text")
	}
}

