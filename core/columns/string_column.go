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
	"encoding/json"
	"fmt"
	"strconv"
)

// StringColumn stores strings directly.
type StringColumn struct {
	nullMask
	columnDef *ColumnDef
	data      []string
}

// NewStringColumn creates a new string column
func NewStringColumn(columnDef *ColumnDef) *StringColumn {
	return &StringColumn{
		columnDef: columnDef,
		data:      make([]string, 0),
	}
}

func (c *StringColumn) Append(value string) {
	c.data = append(c.data, value)
	c.markValid()
}

func (c *StringColumn) AppendNull() {
	c.data = append(c.data, "")
	c.markNull()
}

// AppendAny never fails: scalars are formatted, nested values are stored as JSON text.
func (c *StringColumn) AppendAny(v any) error {
	switch val := v.(type) {
	case nil:
		c.AppendNull()
	case string:
		c.Append(val)
	case float64:
		c.Append(FormatFloat64(val))
	case int64:
		c.Append(strconv.FormatInt(val, 10))
	case bool:
		c.Append(strconv.FormatBool(val))
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			c.Append(fmt.Sprint(val))
			return nil
		}
		c.Append(string(b))
	default:
		c.Append(fmt.Sprint(val))
	}
	return nil
}

func (c *StringColumn) Length() int {
	return len(c.data)
}

func (c *StringColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

func (c *StringColumn) Kind() Kind {
	return KindText
}

func (c *StringColumn) GetValue(i uint32) (string, error) {
	if i >= uint32(len(c.data)) {
		return "", outOfBounds(i, len(c.data))
	}
	return c.data[i], nil
}

// GetString returns the string value at index i
func (c *StringColumn) GetString(i uint32) (string, error) {
	return c.GetValue(i)
}

func (c *StringColumn) JSONValue(i uint32) (any, error) {
	if i >= uint32(len(c.data)) {
		return nil, outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return nil, nil
	}
	return c.data[i], nil
}

func (c *StringColumn) Clone() IDataColumn {
	data := make([]string, len(c.data))
	copy(data, c.data)
	return &StringColumn{nullMask: c.nullMask.clone(), columnDef: c.columnDef, data: data}
}

func (c *StringColumn) NewEmpty() IDataColumn {
	return NewStringColumn(c.columnDef)
}
