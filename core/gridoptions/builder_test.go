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

package gridoptions

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/options"
	"github.com/google/gridbridge/core/tables"
)

func newBuilder(t *testing.T, fields ...string) *Builder {
	t.Helper()
	b, err := NewBuilder(nil)
	require.NoError(t, err)
	for _, f := range fields {
		_, err := b.AddColumn(f, "", nil)
		require.NoError(t, err)
	}
	return b
}

func build(t *testing.T, b *Builder) Options {
	t.Helper()
	opts, err := b.Build()
	require.NoError(t, err)
	return opts
}

func TestFromDataMembers(t *testing.T) {
	ids := columns.NewInt64Column(columns.NewColumnDef("id", ""))
	names := columns.NewStringColumn(columns.NewColumnDef("name", ""))
	joined := columns.NewDatetimeColumn(columns.NewColumnDef("joined", ""))
	for i, n := range []string{"Ada", "Grace", "Linus"} {
		ids.Append(int64(i))
		names.Append(n)
		joined.Append(time.Date(2020, time.January, i+1, 0, 0, 0, 0, time.UTC))
	}
	table := tables.NewDataTable()
	table.AddColumn(ids)
	table.AddColumn(names)
	table.AddColumn(joined)

	b, err := FromData(data.RowTable{Table: table})
	require.NoError(t, err)
	opts := build(t, b)

	want := []any{
		map[string]any{"field": "id", "headerName": "id", "type": "numericColumn", "filter": "agNumberColumnFilter"},
		map[string]any{"field": "name", "headerName": "name", "filter": "agTextColumnFilter"},
		map[string]any{"field": "joined", "headerName": "joined", "type": "dateColumn", "filter": "agDateColumnFilter"},
	}
	if diff := cmp.Diff(want, opts["columnDefs"]); diff != "" {
		t.Errorf("columnDefs mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, DefaultColumnDef(), opts["defaultColDef"])
	assert.NotContains(t, opts, "suppressFieldDotNotation")
}

func TestFromSchemaDottedField(t *testing.T) {
	b, err := FromSchema(data.Schema{
		{Name: "a.b", Kind: columns.KindDuration},
		{Name: "c", Kind: columns.KindUnknown},
	})
	require.NoError(t, err)
	opts := build(t, b)
	assert.Equal(t, true, opts["suppressFieldDotNotation"])
	defs := opts.ColumnDefs()
	require.Len(t, defs, 2)
	assert.Equal(t, "timedeltaFormat", defs[0]["type"])
	assert.Equal(t, "agTextColumnFilter", defs[1]["filter"])
}

func TestAddColumnDuplicate(t *testing.T) {
	b := newBuilder(t, "x")
	_, err := b.AddColumn("x", "X", nil)
	var dup *DuplicateFieldError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "x", dup.Field)
}

func TestUpdateColumn(t *testing.T) {
	b := newBuilder(t, "x")
	_, err := b.UpdateColumn("y", "", nil)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "y", missing.Field)

	got, err := b.UpdateColumn("x", "Ex", map[string]any{"width": 80})
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, []map[string]any{{"field": "x", "headerName": "Ex", "width": 80}}, build(t, b).ColumnDefs())
}

func TestNewBuilderColumnDefs(t *testing.T) {
	base := map[string]any{
		"columnDefs": map[string]any{
			"b": map[string]any{"headerName": "B"},
			"a": map[string]any{"headerName": "A"},
		},
		"rowHeight": 30,
	}
	b, err := NewBuilder(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, b.Fields())

	_, err = b.AddColumn("a", "", nil)
	assert.Error(t, err)
	_, err = b.UpdateColumn("b", "Bee", nil)
	require.NoError(t, err)
	assert.Equal(t, "B", base["columnDefs"].(map[string]any)["b"].(map[string]any)["headerName"], "base must not change")

	b, err = NewBuilder(map[string]any{"columnDefs": []any{map[string]any{"field": "z"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, b.Fields())

	_, err = NewBuilder(map[string]any{"columnDefs": "z"})
	assert.Error(t, err)
	_, err = NewBuilder(map[string]any{"columnDefs": []any{"z"}})
	assert.Error(t, err)
}

func TestNewBuilderRejectsRepeatedFields(t *testing.T) {
	_, err := NewBuilder(map[string]any{"columnDefs": []any{
		map[string]any{"field": "a"},
		map[string]any{"field": "a", "headerName": "again"},
	}})
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Field)

	// The map key only fills in a missing field, so two keys can name one.
	_, err = NewBuilder(map[string]any{"columnDefs": map[string]any{
		"a": map[string]any{},
		"b": map[string]any{"field": "a"},
	}})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Field)

	// Definitions without a field are group or action columns and may repeat.
	b, err := NewBuilder(map[string]any{"columnDefs": []any{
		map[string]any{"headerName": "Actions"},
		map[string]any{"headerName": "Actions"},
	}})
	require.NoError(t, err)
	assert.Empty(t, b.Fields())
}

func TestColumnOptionsCannotRenameField(t *testing.T) {
	b := newBuilder(t, "a")
	_, err := b.AddColumn("b", "", map[string]any{"field": "a", "width": 50})
	require.NoError(t, err)
	_, err = b.UpdateColumn("a", "", map[string]any{"field": "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, b.Fields())

	_, err = b.AddColumn("a", "", nil)
	assert.ErrorAs(t, err, new(*DuplicateFieldError))
	_, err = b.UpdateColumn("b", "Bee", nil)
	require.NoError(t, err)
	defs := build(t, b).ColumnDefs()
	require.Len(t, defs, 2)
	assert.Equal(t, map[string]any{"field": "b", "headerName": "Bee", "width": 50}, defs[1])
}

func TestAddSidebar(t *testing.T) {
	opts := build(t, newBuilder(t, "x").AddSidebar(true, false).AddSidebar(false, true))
	sideBar := opts["sideBar"].(map[string]any)
	panels := sideBar["toolPanels"].([]any)
	require.Len(t, panels, 2)
	assert.Equal(t, "agFiltersToolPanel", panels[0].(map[string]any)["toolPanel"])
	assert.Equal(t, "agColumnsToolPanel", panels[1].(map[string]any)["toolPanel"])

	opts = build(t, newBuilder(t).AddSidebar(false, false))
	assert.Equal(t, map[string]any{"toolPanels": []any{}, "defaultToolPanel": ""}, opts["sideBar"])
}

func TestAddSelectionCheckbox(t *testing.T) {
	sel := DefaultSelection()
	sel.Mode = options.SelectionMultiple
	sel.UseCheckbox = true
	sel.HeaderCheckbox = true
	sel.PreSelectedRows = []int{0, 2}

	b, err := newBuilder(t, "x", "y").AddSelection(sel)
	require.NoError(t, err)
	opts := build(t, b)

	assert.Equal(t, "multiple", opts["rowSelection"])
	assert.Equal(t, true, opts["suppressRowClickSelection"])
	assert.Equal(t, []any{0, 2}, opts["preSelectedRows"])

	defs := opts.ColumnDefs()
	assert.Equal(t, true, defs[0]["checkboxSelection"])
	assert.Equal(t, true, defs[0]["headerCheckboxSelection"])
	assert.NotContains(t, defs[1], "checkboxSelection")
}

func TestAddSelectionWithoutPreselection(t *testing.T) {
	b, err := newBuilder(t, "x").AddSelection(DefaultSelection())
	require.NoError(t, err)
	opts := build(t, b)
	assert.Equal(t, "single", opts["rowSelection"])
	assert.Equal(t, false, opts["suppressRowClickSelection"])
	assert.NotContains(t, opts, "preSelectedRows")
	assert.NotContains(t, opts.ColumnDefs()[0], "checkboxSelection")
}

func TestAddSelectionDisabled(t *testing.T) {
	sel := DefaultSelection()
	sel.UseCheckbox = true
	sel.PreSelectedRows = []int{1}
	b, err := newBuilder(t, "x").AddSelection(sel)
	require.NoError(t, err)

	_, err = b.AddSelection(Selection{Mode: options.SelectionDisabled})
	require.NoError(t, err)
	opts := build(t, b)
	for _, k := range selectionKeys {
		assert.NotContains(t, opts, k)
	}
	assert.Equal(t, map[string]any{"field": "x", "headerName": "x"}, opts.ColumnDefs()[0])
}

func TestAddSelectionErrors(t *testing.T) {
	_, err := newBuilder(t, "x").AddSelection(Selection{Mode: "some"})
	var verr *options.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = newBuilder(t).AddSelection(Selection{UseCheckbox: true})
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	paginationKeys := []string{"pagination", "paginationAutoPageSize", "paginationPageSize"}
	for _, auto := range []bool{true, false} {
		b := newBuilder(t, "x").AddPagination(auto, 25)
		opts := build(t, b)
		assert.Equal(t, true, opts["pagination"])
		if auto {
			assert.Equal(t, true, opts["paginationAutoPageSize"])
			assert.NotContains(t, opts, "paginationPageSize")
		} else {
			assert.Equal(t, 25, opts["paginationPageSize"])
			assert.NotContains(t, opts, "paginationAutoPageSize")
		}

		opts = build(t, b.RemovePagination())
		for _, k := range paginationKeys {
			assert.NotContains(t, opts, k)
		}
	}

	opts := build(t, newBuilder(t).AddPagination(true, 0).AddPagination(false, 5))
	assert.NotContains(t, opts, "paginationAutoPageSize")
	opts = build(t, newBuilder(t).RemovePagination())
	assert.NotContains(t, opts, "pagination")
}

func TestBuildIsACopy(t *testing.T) {
	b := newBuilder(t, "x")
	first := build(t, b)
	first.ColumnDefs()[0]["headerName"] = "changed"
	_, err := b.UpdateColumn("x", "", map[string]any{"width": 10})
	require.NoError(t, err)

	assert.Equal(t, "x", build(t, b).ColumnDefs()[0]["headerName"])
	assert.NotContains(t, first.ColumnDefs()[0], "width")
}

func TestBuilderString(t *testing.T) {
	b := newBuilder(t, "x").Set("rowHeight", 30).Set("columnDefs", "ignored")
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(b.String()), &decoded))
	assert.Equal(t, 30.0, decoded["rowHeight"])
	assert.Len(t, decoded["columnDefs"], 1)

	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	assert.Contains(t, newBuilder(t).Set("bad", cyclic).String(), "invalid grid options")
}
