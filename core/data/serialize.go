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

package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/tidwall/gjson"

	"github.com/google/gridbridge/core/columns"
)

// Serialize converts in into row records and its column schema. The input
// is never modified. Datetimes become RFC 3339 strings and durations Go
// duration strings, so every value in the result can be written as JSON.
func Serialize(in Input) (Records, Schema, error) {
	var (
		recs   Records
		schema Schema
		err    error
	)
	switch v := deref(in).(type) {
	case RowTable:
		recs, schema, err = serializeRowTable(v)
	case ColumnarTable:
		recs, schema, err = serializeColumnar(v)
	case Array:
		recs, schema, err = serializeArray(v)
	case Mapping:
		recs, schema, err = serializeMapping(v)
	case RawRecords:
		recs, schema, err = serializeRaw(v)
	default:
		return Records{}, nil, &SerializationError{Type: TypeName(in)}
	}
	if err != nil {
		return Records{}, nil, &SerializationError{Type: TypeName(in), Err: err}
	}
	return recs, schema, nil
}

func deref(in Input) Input {
	switch v := in.(type) {
	case *RowTable:
		if v != nil {
			return *v
		}
	case *ColumnarTable:
		if v != nil {
			return *v
		}
	case *Array:
		if v != nil {
			return *v
		}
	case *Mapping:
		if v != nil {
			return *v
		}
	case *RawRecords:
		if v != nil {
			return *v
		}
	default:
		return in
	}
	return nil
}

func serializeRowTable(in RowTable) (Records, Schema, error) {
	if in.Table == nil {
		return Records{}, nil, errors.New("table is nil")
	}
	table := in.Table.Clone()
	if err := table.Validate(); err != nil {
		return Records{}, nil, err
	}

	names := table.GetColumnNames()
	schema := make(Schema, len(names))
	for i, name := range names {
		schema[i] = Field{Name: name, Kind: table.GetColumn(name).Kind()}
	}

	recs := Records{Columns: names, Rows: make([]Record, table.Length())}
	for i := range recs.Rows {
		row, err := table.Row(uint32(i))
		if err != nil {
			return Records{}, nil, err
		}
		recs.Rows[i] = row
	}
	return recs, schema, nil
}

func serializeColumnar(in ColumnarTable) (Records, Schema, error) {
	if in.Table == nil {
		return Records{}, nil, errors.New("table is nil")
	}
	fields := in.Table.Schema().Fields()
	schema := make(Schema, len(fields))
	names := make([]string, len(fields))
	for i, f := range fields {
		schema[i] = Field{Name: f.Name, Kind: ArrowKind(f.Type)}
		names[i] = f.Name
	}

	recs := Records{Columns: names, Rows: make([]Record, 0, in.Table.NumRows())}
	tr := array.NewTableReader(in.Table, 1024)
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for r := 0; r < int(rec.NumRows()); r++ {
			row := make(Record, len(names))
			for c, name := range names {
				v, err := arrowValue(rec.Column(c), r)
				if err != nil {
					return Records{}, nil, fmt.Errorf("column %q: %w", name, err)
				}
				row[name] = v
			}
			recs.Rows = append(recs.Rows, row)
		}
	}
	if err := tr.Err(); err != nil {
		return Records{}, nil, err
	}
	return recs, schema, nil
}

// ArrowKind maps an Arrow type to the column kind the grid uses for it.
func ArrowKind(dt arrow.DataType) columns.Kind {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return columns.KindNumeric
	case arrow.STRING, arrow.LARGE_STRING:
		return columns.KindText
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return columns.KindDatetime
	case arrow.DURATION:
		return columns.KindDuration
	}
	return columns.KindUnknown
}

func arrowValue(col arrow.Array, i int) (any, error) {
	if col.IsNull(i) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.Int8:
		return int64(a.Value(i)), nil
	case *array.Int16:
		return int64(a.Value(i)), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Uint8:
		return int64(a.Value(i)), nil
	case *array.Uint16:
		return int64(a.Value(i)), nil
	case *array.Uint32:
		return int64(a.Value(i)), nil
	case *array.Uint64:
		return a.Value(i), nil
	case *array.Float16:
		return finite(float64(a.Value(i).Float32())), nil
	case *array.Float32:
		return finite(float64(a.Value(i))), nil
	case *array.Float64:
		return finite(a.Value(i)), nil
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return columns.FormatDatetime(a.Value(i).ToTime(unit)), nil
	case *array.Date32:
		return columns.FormatDatetime(a.Value(i).ToTime()), nil
	case *array.Date64:
		return columns.FormatDatetime(a.Value(i).ToTime()), nil
	case *array.Duration:
		unit := a.DataType().(*arrow.DurationType).Unit
		return (time.Duration(a.Value(i)) * unit.Multiplier()).String(), nil
	}
	return col.ValueStr(i), nil
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func serializeArray(in Array) (Records, Schema, error) {
	cols := 1
	if in.Is2D() {
		cols = in.Cols
	}
	if len(in.Data) != in.Rows*cols {
		return Records{}, nil, fmt.Errorf("array holds %d values, shape needs %d", len(in.Data), in.Rows*cols)
	}

	names := make([]string, cols)
	schema := make(Schema, cols)
	for c := range names {
		names[c] = strconv.Itoa(c)
		schema[c] = Field{Name: names[c], Kind: columns.KindNumeric}
	}

	recs := Records{Columns: names, Rows: make([]Record, in.Rows)}
	for r := range recs.Rows {
		row := make(Record, cols)
		for c, name := range names {
			row[name] = finite(in.At(r, c))
		}
		recs.Rows[r] = row
	}
	return recs, schema, nil
}

func serializeMapping(in Mapping) (Records, Schema, error) {
	m, err := NewMapping(in.Order, in.Values)
	if err != nil {
		return Records{}, nil, err
	}

	schema := make(Schema, len(m.Order))
	for i, name := range m.Order {
		schema[i] = Field{Name: name, Kind: InferKind(m.Values[name])}
	}

	recs := Records{Columns: m.Order, Rows: make([]Record, m.Len())}
	for r := range recs.Rows {
		row := make(Record, len(m.Order))
		for _, name := range m.Order {
			row[name] = jsonScalar(m.Values[name][r])
		}
		recs.Rows[r] = row
	}
	return recs, schema, nil
}

// jsonScalar converts values encoding/json cannot write faithfully.
func jsonScalar(v any) any {
	switch val := v.(type) {
	case time.Time:
		return columns.FormatDatetime(val)
	case time.Duration:
		return val.String()
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	}
	return v
}

func serializeRaw(in RawRecords) (Records, Schema, error) {
	text := string(in)
	if !gjson.Valid(text) {
		return Records{}, nil, errors.New("records are not valid JSON")
	}
	doc := gjson.Parse(text)
	if !doc.IsArray() {
		return Records{}, nil, errors.New("records must be a JSON array of objects")
	}

	var (
		names  []string
		seen   = map[string]bool{}
		values = map[string][]any{}
		rows   []gjson.Result
	)
	for i, obj := range doc.Array() {
		if !obj.IsObject() {
			return Records{}, nil, fmt.Errorf("record %d is not a JSON object", i)
		}
		obj.ForEach(func(key, _ gjson.Result) bool {
			if !seen[key.String()] {
				seen[key.String()] = true
				names = append(names, key.String())
			}
			return true
		})
		rows = append(rows, obj)
	}

	recs := Records{Columns: names, Rows: make([]Record, len(rows))}
	for r, obj := range rows {
		row := make(Record, len(names))
		for _, name := range names {
			row[name] = nil
		}
		obj.ForEach(func(key, value gjson.Result) bool {
			v := JSONValue(value)
			row[key.String()] = v
			values[key.String()] = append(values[key.String()], v)
			return true
		})
		recs.Rows[r] = row
	}

	schema := make(Schema, len(names))
	for i, name := range names {
		schema[i] = Field{Name: name, Kind: InferKind(values[name])}
	}
	return recs, schema, nil
}

// JSONValue is value.Value() except that integers which fit in an int64 are
// returned as int64, so they keep every digit.
func JSONValue(value gjson.Result) any {
	if value.Type == gjson.Number && !strings.ContainsAny(value.Raw, ".eE") {
		if n, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
			return n
		}
	}
	return value.Value()
}

// InferKind returns the kind shared by every non-nil value, or KindUnknown
// when the values disagree or are all nil.
func InferKind(values []any) columns.Kind {
	kind := columns.KindUnknown
	found := false
	for _, v := range values {
		if v == nil {
			continue
		}
		k := valueKind(v)
		if !found {
			kind, found = k, true
			continue
		}
		if k != kind {
			return columns.KindUnknown
		}
	}
	return kind
}

func valueKind(v any) columns.Kind {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return columns.KindNumeric
	case string:
		return columns.KindText
	case time.Time:
		return columns.KindDatetime
	case time.Duration:
		return columns.KindDuration
	}
	return columns.KindUnknown
}
