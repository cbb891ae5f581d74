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
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/options"
)

// toColumnar rebuilds an Arrow table. When converting, the result has the
// input's schema and columns missing from the payload are all null;
// otherwise the schema is inferred from the rows.
func (f *frame) toColumnar(in data.ColumnarTable, opts Options) (data.ColumnarTable, error) {
	pool := memory.NewGoAllocator()

	var (
		fields []arrow.Field
		cols   []arrow.Column
	)
	if opts.Convert && in.Table != nil {
		for _, field := range in.Table.Schema().Fields() {
			vals, ok := f.values[field.Name]
			if !ok {
				vals = make([]any, f.rows)
			}
			arr, err := buildArrow(pool, field, vals, opts.Errors)
			if errors.Is(err, errIgnored) {
				field, arr = inferArrow(pool, field.Name, vals)
			} else if err != nil {
				return data.ColumnarTable{}, err
			}
			fields = append(fields, field)
			cols = append(cols, newColumn(field, arr))
		}
	} else {
		for _, name := range f.columns {
			field, arr := inferArrow(pool, name, f.values[name])
			fields = append(fields, field)
			cols = append(cols, newColumn(field, arr))
		}
	}

	schema := arrow.NewSchema(fields, nil)
	return data.ColumnarTable{Table: array.NewTable(schema, cols, int64(f.rows))}, nil
}

func newColumn(field arrow.Field, arr arrow.Array) arrow.Column {
	chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
	defer chunked.Release()
	arr.Release()
	return *arrow.NewColumn(field, chunked)
}

func buildArrow(pool memory.Allocator, field arrow.Field, vals []any, policy options.ErrorPolicy) (arrow.Array, error) {
	b := array.NewBuilder(pool, field.Type)
	defer b.Release()
	for i, v := range vals {
		err := appendArrow(b, v)
		if err == nil {
			continue
		}
		switch policy {
		case options.ErrorsRaise:
			return nil, &CoercionError{Column: field.Name, Row: i, Value: v, Kind: data.ArrowKind(field.Type), Err: err}
		case options.ErrorsIgnore:
			return nil, errIgnored
		default:
			b.AppendNull()
		}
	}
	return b.NewArray(), nil
}

var scratchDef = columns.NewColumnDef("value", "")

// The scratch columns reuse the column conversions for single values.
func asInt64(v any) (int64, error) {
	c := columns.NewInt64Column(scratchDef)
	if err := c.AppendAny(v); err != nil {
		return 0, err
	}
	return c.GetValue(0)
}

func asIntIn(v any, lo, hi int64) (int64, error) {
	n, err := asInt64(v)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d is out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func asFloat64(v any) (float64, error) {
	c := columns.NewFloat64Column(scratchDef)
	if err := c.AppendAny(v); err != nil {
		return 0, err
	}
	return c.GetValue(0)
}

func asBool(v any) (bool, error) {
	c := columns.NewBoolColumn(scratchDef)
	if err := c.AppendAny(v); err != nil {
		return false, err
	}
	return c.GetValue(0)
}

// asTime reports ok == false for empty datetime strings.
func asTime(v any) (t time.Time, ok bool, err error) {
	c := columns.NewDatetimeColumn(scratchDef)
	if err := c.AppendAny(v); err != nil {
		return time.Time{}, false, err
	}
	if c.IsNull(0) {
		return time.Time{}, false, nil
	}
	t, err = c.GetValue(0)
	return t, err == nil, err
}

func asDuration(v any) (d time.Duration, ok bool, err error) {
	c := columns.NewDurationColumn(scratchDef)
	if err := c.AppendAny(v); err != nil {
		return 0, false, err
	}
	if c.IsNull(0) {
		return 0, false, nil
	}
	d, err = c.GetValue(0)
	return d, err == nil, err
}

func asText(v any) string {
	c := columns.NewStringColumn(scratchDef)
	_ = c.AppendAny(v)
	s, _ := c.GetValue(0)
	return s
}

// appendArrow converts v to the builder's type. Nothing is appended on error.
func appendArrow(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch bb := b.(type) {
	case *array.Int8Builder:
		n, err := asIntIn(v, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		bb.Append(int8(n))
	case *array.Int16Builder:
		n, err := asIntIn(v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		bb.Append(int16(n))
	case *array.Int32Builder:
		n, err := asIntIn(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		bb.Append(int32(n))
	case *array.Int64Builder:
		n, err := asInt64(v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Uint8Builder:
		n, err := asIntIn(v, 0, math.MaxUint8)
		if err != nil {
			return err
		}
		bb.Append(uint8(n))
	case *array.Uint16Builder:
		n, err := asIntIn(v, 0, math.MaxUint16)
		if err != nil {
			return err
		}
		bb.Append(uint16(n))
	case *array.Uint32Builder:
		n, err := asIntIn(v, 0, math.MaxUint32)
		if err != nil {
			return err
		}
		bb.Append(uint32(n))
	case *array.Uint64Builder:
		n, err := asIntIn(v, 0, math.MaxInt64)
		if err != nil {
			return err
		}
		bb.Append(uint64(n))
	case *array.Float32Builder:
		x, err := asFloat64(v)
		if err != nil {
			return err
		}
		bb.Append(float32(x))
	case *array.Float64Builder:
		x, err := asFloat64(v)
		if err != nil {
			return err
		}
		bb.Append(x)
	case *array.StringBuilder:
		bb.Append(asText(v))
	case *array.LargeStringBuilder:
		bb.Append(asText(v))
	case *array.BooleanBuilder:
		x, err := asBool(v)
		if err != nil {
			return err
		}
		bb.Append(x)
	case *array.TimestampBuilder:
		t, ok, err := asTime(v)
		if err != nil {
			return err
		}
		if !ok {
			bb.AppendNull()
			return nil
		}
		ts, err := arrow.TimestampFromTime(t, bb.Type().(*arrow.TimestampType).Unit)
		if err != nil {
			return err
		}
		bb.Append(ts)
	case *array.Date32Builder:
		t, ok, err := asTime(v)
		if err != nil {
			return err
		}
		if !ok {
			bb.AppendNull()
			return nil
		}
		bb.Append(arrow.Date32FromTime(t))
	case *array.Date64Builder:
		t, ok, err := asTime(v)
		if err != nil {
			return err
		}
		if !ok {
			bb.AppendNull()
			return nil
		}
		bb.Append(arrow.Date64FromTime(t))
	case *array.DurationBuilder:
		d, ok, err := asDuration(v)
		if err != nil {
			return err
		}
		if !ok {
			bb.AppendNull()
			return nil
		}
		unit := bb.Type().(*arrow.DurationType).Unit
		bb.Append(arrow.Duration(d / unit.Multiplier()))
	default:
		return fmt.Errorf("unsupported arrow type %s", b.Type())
	}
	return nil
}

// inferArrow builds an int64, float64, boolean or string array from vals.
func inferArrow(pool memory.Allocator, name string, vals []any) (arrow.Field, arrow.Array) {
	var dt arrow.DataType
	switch {
	case data.InferKind(vals) == columns.KindNumeric && allIntegral(vals):
		dt = arrow.PrimitiveTypes.Int64
	case data.InferKind(vals) == columns.KindNumeric:
		dt = arrow.PrimitiveTypes.Float64
	case allBool(vals):
		dt = arrow.FixedWidthTypes.Boolean
	default:
		dt = arrow.BinaryTypes.String
	}
	b := array.NewBuilder(pool, dt)
	defer b.Release()
	for _, v := range vals {
		if err := appendArrow(b, v); err != nil {
			b.AppendNull()
		}
	}
	return arrow.Field{Name: name, Type: dt, Nullable: true}, b.NewArray()
}
