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

// Int64Column is optimized for int64 numeric data.
type Int64Column struct {
	nullMask
	columnDef *ColumnDef
	data      []int64
}

// NewInt64Column creates a new int64 column
func NewInt64Column(columnDef *ColumnDef) *Int64Column {
	return &Int64Column{
		columnDef: columnDef,
		data:      make([]int64, 0),
	}
}

func (c *Int64Column) Append(value int64) {
	c.data = append(c.data, value)
	c.markValid()
}

func (c *Int64Column) AppendNull() {
	c.data = append(c.data, 0)
	c.markNull()
}

// AppendAny accepts integral numbers, numeric strings and booleans.
func (c *Int64Column) AppendAny(v any) error {
	switch val := v.(type) {
	case nil:
		c.AppendNull()
	case int64:
		c.Append(val)
	case int:
		c.Append(int64(val))
	case float64:
		if math.IsNaN(val) || val != math.Trunc(val) {
			return conversionError(v, "int64")
		}
		c.Append(int64(val))
	case bool:
		if val {
			c.Append(1)
		} else {
			c.Append(0)
		}
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.Append(n)
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return conversionError(v, "int64")
		}
		c.Append(int64(f))
	default:
		return conversionError(v, "int64")
	}
	return nil
}

func (c *Int64Column) Length() int {
	return len(c.data)
}

func (c *Int64Column) ColumnDef() *ColumnDef {
	return c.columnDef
}

func (c *Int64Column) Kind() Kind {
	return KindNumeric
}

// GetString returns the string representation of the value at index i
func (c *Int64Column) GetString(i uint32) (string, error) {
	if i >= uint32(len(c.data)) {
		return "", outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return "", nil
	}
	return strconv.FormatInt(c.data[i], 10), nil
}

func (c *Int64Column) GetValue(i uint32) (int64, error) {
	if i >= uint32(len(c.data)) {
		return 0, outOfBounds(i, len(c.data))
	}
	return c.data[i], nil
}

func (c *Int64Column) JSONValue(i uint32) (any, error) {
	if i >= uint32(len(c.data)) {
		return nil, outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return nil, nil
	}
	return c.data[i], nil
}

func (c *Int64Column) Clone() IDataColumn {
	data := make([]int64, len(c.data))
	copy(data, c.data)
	return &Int64Column{nullMask: c.nullMask.clone(), columnDef: c.columnDef, data: data}
}

func (c *Int64Column) NewEmpty() IDataColumn {
	return NewInt64Column(c.columnDef)
}
