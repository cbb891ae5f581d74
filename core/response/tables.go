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

package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/options"
	"github.com/google/gridbridge/core/tables"
)

// errIgnored makes a column fall back to its inferred type.
var errIgnored = errors.New("conversion ignored")

// toRowTable keeps the input's column order; columns the widget added are
// appended after it.
func (f *frame) toRowTable(in data.RowTable, opts Options) (data.RowTable, error) {
	out := tables.NewDataTable()
	known := map[string]bool{}
	if in.Table != nil {
		for _, name := range in.Table.GetColumnNames() {
			known[name] = true
			vals, ok := f.values[name]
			if !ok {
				continue
			}
			orig := in.Table.GetColumn(name)
			if !opts.Convert {
				out.AddColumn(inferColumn(orig.ColumnDef(), vals))
				continue
			}
			col, err := convertColumn(orig.NewEmpty(), vals, opts.Errors)
			if errors.Is(err, errIgnored) {
				col = inferColumn(orig.ColumnDef(), vals)
			} else if err != nil {
				return data.RowTable{}, err
			}
			out.AddColumn(col)
		}
	}
	for _, name := range f.columns {
		if !known[name] {
			out.AddColumn(inferColumn(columns.NewColumnDef(name, ""), f.values[name]))
		}
	}
	return data.RowTable{Table: out}, nil
}

// convertColumn appends vals to dst, applying policy to values dst rejects.
func convertColumn(dst columns.IDataColumn, vals []any, policy options.ErrorPolicy) (columns.IDataColumn, error) {
	for i, v := range vals {
		err := dst.AppendAny(v)
		if err == nil {
			continue
		}
		switch policy {
		case options.ErrorsRaise:
			return nil, &CoercionError{Column: dst.ColumnDef().Name(), Row: i, Value: v, Kind: dst.Kind(), Err: err}
		case options.ErrorsIgnore:
			return nil, errIgnored
		default:
			dst.AppendNull()
		}
	}
	return dst, nil
}

// inferColumn picks a column type that holds every value: integers, floats,
// booleans, and strings for anything else.
func inferColumn(def *columns.ColumnDef, vals []any) columns.IDataColumn {
	var col columns.IDataColumn
	switch {
	case data.InferKind(vals) == columns.KindNumeric && allIntegral(vals):
		col = columns.NewInt64Column(def)
	case data.InferKind(vals) == columns.KindNumeric:
		col = columns.NewFloat64Column(def)
	case allBool(vals):
		col = columns.NewBoolColumn(def)
	default:
		col = columns.NewStringColumn(def)
	}
	for _, v := range vals {
		if err := col.AppendAny(v); err != nil {
			col.AppendNull()
		}
	}
	return col
}

func allIntegral(vals []any) bool {
	for _, v := range vals {
		if f, ok := v.(float64); ok && (f != math.Trunc(f) || math.Abs(f) > 1<<53) {
			return false
		}
	}
	return true
}

func allBool(vals []any) bool {
	found := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		if _, ok := v.(bool); !ok {
			return false
		}
		found = true
	}
	return found
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
