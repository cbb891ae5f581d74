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

// Package response decodes the payload the grid widget sends back and
// reshapes its rows into the container type the caller passed in.
//
// The payload is a JSON object with these keys:
//
//	rowData       rows currently shown, required
//	selectedRows  rows the user selected
//	columnState   column layout as reported by the widget
//	excelBlob     base64 spreadsheet export
package response

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/options"
)

// Payload keys.
const (
	KeyRowData      = "rowData"
	KeySelectedRows = "selectedRows"
	KeyColumnState  = "columnState"
	KeyExcelBlob    = "excelBlob"
)

// Options control the conversion back to the original column types.
type Options struct {
	Convert bool
	Errors  options.ErrorPolicy
}

// Result is the decoded payload. Data has the same variant as the input.
type Result struct {
	Data         data.Input
	SelectedRows []map[string]any
	ColumnState  []map[string]any
	ExcelBlob    string
}

// CoercionError reports a value that could not be converted back to its
// column's original type under the "raise" policy.
type CoercionError struct {
	Column string
	Row    int
	Value  any
	Kind   columns.Kind
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert column '%s' row %d value %v to %s: %v", e.Column, e.Row, e.Value, e.Kind, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Decode reshapes payload into the container type of in. A nil or empty
// payload, or one without rows, yields in unchanged.
func Decode(in data.Input, payload []byte, opts Options) (Result, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || string(payload) == "null" {
		return Result{Data: in}, nil
	}
	if !gjson.ValidBytes(payload) {
		return Result{}, fmt.Errorf("widget payload is not valid JSON")
	}
	doc := gjson.ParseBytes(payload)
	if doc.Type == gjson.String {
		// The payload was sent as a JSON encoded string.
		if !gjson.Valid(doc.String()) {
			return Result{}, fmt.Errorf("widget payload is not valid JSON")
		}
		doc = gjson.Parse(doc.String())
	}
	if !doc.IsObject() {
		return Result{}, fmt.Errorf("widget payload is not a JSON object")
	}

	rows := doc.Get(KeyRowData)
	if !rows.IsArray() || len(rows.Array()) == 0 {
		return Result{Data: in}, nil
	}
	f, err := newFrame(rows)
	if err != nil {
		return Result{}, err
	}
	if opts.Errors == "" {
		opts.Errors = options.ErrorsCoerce
	}

	var out data.Input
	switch v := deref(in).(type) {
	case data.RowTable:
		out, err = f.toRowTable(v, opts)
	case data.ColumnarTable:
		if v.Table != nil {
			names := make([]string, 0, v.Table.NumCols())
			for _, field := range v.Table.Schema().Fields() {
				names = append(names, field.Name)
			}
			f.reorder(names)
		}
		out, err = f.toColumnar(v, opts)
	case data.Array:
		out, err = f.toArray(v, opts)
	case data.Mapping:
		f.reorder(v.Columns())
		out = f.toMapping()
	case data.RawRecords:
		if _, schema, serr := data.Serialize(v); serr == nil {
			f.reorder(schema.Names())
		}
		out, err = f.toRawRecords()
	default:
		return Result{}, &data.SerializationError{Type: data.TypeName(in)}
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Data:         out,
		SelectedRows: objects(doc.Get(KeySelectedRows)),
		ColumnState:  objects(doc.Get(KeyColumnState)),
		ExcelBlob:    doc.Get(KeyExcelBlob).String(),
	}, nil
}

func deref(in data.Input) data.Input {
	switch v := in.(type) {
	case *data.RowTable:
		if v != nil {
			return *v
		}
		return nil
	case *data.ColumnarTable:
		if v != nil {
			return *v
		}
		return nil
	case *data.Array:
		if v != nil {
			return *v
		}
		return nil
	case *data.Mapping:
		if v != nil {
			return *v
		}
		return nil
	case *data.RawRecords:
		if v != nil {
			return *v
		}
		return nil
	}
	return in
}

func objects(r gjson.Result) []map[string]any {
	if !r.IsArray() {
		return nil
	}
	var out []map[string]any
	for _, item := range r.Array() {
		if m, ok := item.Value().(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// frame is the payload's rows held column-wise. raw keeps each value's JSON
// text.
type frame struct {
	columns []string
	values  map[string][]any
	raw     map[string][]string
	rows    int
}

func newFrame(rows gjson.Result) (*frame, error) {
	items := rows.Array()
	f := &frame{values: map[string][]any{}, raw: map[string][]string{}, rows: len(items)}
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%s[%d] is not an object", KeyRowData, i)
		}
		item.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			col, ok := f.values[name]
			if !ok {
				f.columns = append(f.columns, name)
				col = make([]any, len(items))
				f.raw[name] = make([]string, len(items))
			}
			col[i] = value.Value()
			f.values[name] = col
			f.raw[name][i] = value.Raw
			return true
		})
	}
	return f, nil
}

// reorder puts the columns named in names first, in that order. Columns the
// widget added keep their payload order after them.
func (f *frame) reorder(names []string) {
	ordered := make([]string, 0, len(f.columns))
	placed := map[string]bool{}
	for _, name := range names {
		if _, ok := f.values[name]; ok && !placed[name] {
			ordered = append(ordered, name)
			placed[name] = true
		}
	}
	for _, name := range f.columns {
		if !placed[name] {
			ordered = append(ordered, name)
		}
	}
	f.columns = ordered
}

func (f *frame) toMapping() data.Mapping {
	return data.Mapping{Order: f.columns, Values: f.values}
}

func (f *frame) toRawRecords() (data.RawRecords, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for r := 0; r < f.rows; r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c, name := range f.columns {
			if c > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(&buf, name); err != nil {
				return "", err
			}
			buf.WriteByte(':')
			if raw := f.raw[name][r]; raw != "" {
				buf.WriteString(raw)
			} else {
				buf.WriteString("null")
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return data.RawRecords(buf.String()), nil
}
