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

package columns

import (
	"math"
	"strconv"
	"strings"
)

// Float64Column stores float64 (double) values.
type Float64Column struct {
	nullMask
	columnDef *ColumnDef
	data      []float64
}

// NewFloat64Column creates a new float64 column.
func NewFloat64Column(columnDef *ColumnDef) *Float64Column {
	return &Float64Column{
		columnDef: columnDef,
		data:      make([]float64, 0),
	}
}

// ColumnDef returns the column definition.
func (c *Float64Column) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Kind returns KindNumeric.
func (c *Float64Column) Kind() Kind {
	return KindNumeric
}

// Length returns the number of rows in the column.
func (c *Float64Column) Length() int {
	return len(c.data)
}

// GetString returns the string representation of the value at the given index.
// Returns "NaN" for NaN values, "+Inf"/"-Inf" for infinities.
func (c *Float64Column) GetString(i uint32) (string, error) {
	if int(i) >= len(c.data) {
		return "", outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return "", nil
	}
	return FormatFloat64(c.data[i]), nil
}

// FormatFloat64 formats a float64 value for display.
// Returns "NaN" for NaN, "+Inf"/"-Inf" for infinities.
func FormatFloat64(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	// Use 'g' format for compact representation without trailing zeros
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// GetValue returns the float64 value at the given index.
func (c *Float64Column) GetValue(i uint32) (float64, error) {
	if int(i) >= len(c.data) {
		return 0, outOfBounds(i, len(c.data))
	}
	return c.data[i], nil
}

// JSONValue returns nil for nulls and for NaN or infinite values, which JSON
// cannot represent.
func (c *Float64Column) JSONValue(i uint32) (any, error) {
	if int(i) >= len(c.data) {
		return nil, outOfBounds(i, len(c.data))
	}
	v := c.data[i]
	if c.IsNull(i) || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return v, nil
}

// Append adds a float64 value to the column.
func (c *Float64Column) Append(value float64) {
	c.data = append(c.data, value)
	c.markValid()
}

// AppendNull adds a null row.
func (c *Float64Column) AppendNull() {
	c.data = append(c.data, math.NaN())
	c.markNull()
}

// AppendString parses and adds a float64 from a string.
// Recognizes "NaN", "Inf", "+Inf", "-Inf" as special values.
func (c *Float64Column) AppendString(s string) error {
	v, err := ParseFloat64(s)
	if err != nil {
		return err
	}
	c.Append(v)
	return nil
}

// AppendAny accepts numbers, numeric strings and booleans.
func (c *Float64Column) AppendAny(v any) error {
	switch val := v.(type) {
	case nil:
		c.AppendNull()
	case float64:
		c.Append(val)
	case int64:
		c.Append(float64(val))
	case int:
		c.Append(float64(val))
	case bool:
		if val {
			c.Append(1)
		} else {
			c.Append(0)
		}
	case string:
		f, err := ParseFloat64(strings.TrimSpace(val))
		if err != nil {
			return conversionError(v, "float64")
		}
		c.Append(f)
	default:
		return conversionError(v, "float64")
	}
	return nil
}

// ParseFloat64 parses a string to float64.
// Recognizes "NaN", "Inf", "+Inf", "-Inf" as special values.
func ParseFloat64(s string) (float64, error) {
	// Handle special values explicitly
	switch s {
	case "NaN", "nan", "NAN":
		return math.NaN(), nil
	case "Inf", "+Inf", "inf", "+inf":
		return math.Inf(1), nil
	case "-Inf", "-inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Clone returns a deep copy of the column.
func (c *Float64Column) Clone() IDataColumn {
	data := make([]float64, len(c.data))
	copy(data, c.data)
	return &Float64Column{nullMask: c.nullMask.clone(), columnDef: c.columnDef, data: data}
}

// NewEmpty returns an empty float64 column with the same definition.
func (c *Float64Column) NewEmpty() IDataColumn {
	return NewFloat64Column(c.columnDef)
}
