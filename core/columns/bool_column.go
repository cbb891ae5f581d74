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
	"fmt"
	"strconv"
	"strings"
)

// BoolColumn stores boolean values. The grid has no boolean filter, so its
// kind is reported as unknown and it is shown with a text filter.
type BoolColumn struct {
	nullMask
	columnDef *ColumnDef
	data      []bool
}

// NewBoolColumn creates a new boolean column.
func NewBoolColumn(columnDef *ColumnDef) *BoolColumn {
	return &BoolColumn{
		columnDef: columnDef,
		data:      make([]bool, 0),
	}
}

// ColumnDef returns the column definition.
func (c *BoolColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

func (c *BoolColumn) Kind() Kind {
	return KindUnknown
}

// Length returns the number of rows in the column.
func (c *BoolColumn) Length() int {
	return len(c.data)
}

// Append adds a boolean value to the column.
func (c *BoolColumn) Append(value bool) {
	c.data = append(c.data, value)
	c.markValid()
}

func (c *BoolColumn) AppendNull() {
	c.data = append(c.data, false)
	c.markNull()
}

// AppendString parses and adds a boolean from a string.
// Accepts: "true", "false", "1", "0", "yes", "no", "t", "f", "y", "n" (case-insensitive).
func (c *BoolColumn) AppendString(s string) error {
	b, err := ParseBool(s)
	if err != nil {
		return err
	}
	c.Append(b)
	return nil
}

// AppendAny accepts booleans, 0/1 numbers and the strings ParseBool knows.
func (c *BoolColumn) AppendAny(v any) error {
	switch val := v.(type) {
	case nil:
		c.AppendNull()
	case bool:
		c.Append(val)
	case float64:
		if val != 0 && val != 1 {
			return conversionError(v, "bool")
		}
		c.Append(val == 1)
	case string:
		b, err := ParseBool(val)
		if err != nil {
			return conversionError(v, "bool")
		}
		c.Append(b)
	default:
		return conversionError(v, "bool")
	}
	return nil
}

// ParseBool parses a string to a boolean value.
// Accepts: "true", "false", "1", "0", "yes", "no", "t", "f", "y", "n" (case-insensitive).
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "t", "y":
		return true, nil
	case "false", "0", "no", "f", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("cannot parse %q as boolean", s)
	}
}

// GetValue returns the boolean value at the given index.
func (c *BoolColumn) GetValue(i uint32) (bool, error) {
	if int(i) >= len(c.data) {
		return false, outOfBounds(i, len(c.data))
	}
	return c.data[i], nil
}

// GetString returns "true" or "false" for the value at the given index.
func (c *BoolColumn) GetString(i uint32) (string, error) {
	if int(i) >= len(c.data) {
		return "", outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return "", nil
	}
	return strconv.FormatBool(c.data[i]), nil
}

func (c *BoolColumn) JSONValue(i uint32) (any, error) {
	if int(i) >= len(c.data) {
		return nil, outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return nil, nil
	}
	return c.data[i], nil
}

func (c *BoolColumn) Clone() IDataColumn {
	data := make([]bool, len(c.data))
	copy(data, c.data)
	return &BoolColumn{nullMask: c.nullMask.clone(), columnDef: c.columnDef, data: data}
}

func (c *BoolColumn) NewEmpty() IDataColumn {
	return NewBoolColumn(c.columnDef)
}
