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
	"math"
	"strconv"
	"strings"
	"time"
)

// DurationColumn stores duration values using Go's time.Duration type.
type DurationColumn struct {
	nullMask
	columnDef *ColumnDef
	data      []time.Duration
}

// NewDurationColumn creates a new duration column. GetString shows values in
// a compact form such as "3d4h0m0s".
func NewDurationColumn(columnDef *ColumnDef) *DurationColumn {
	return &DurationColumn{
		columnDef: columnDef,
		data:      make([]time.Duration, 0),
	}
}

// ColumnDef returns the column definition.
func (c *DurationColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Kind returns KindDuration.
func (c *DurationColumn) Kind() Kind {
	return KindDuration
}

// Length returns the number of rows in the column.
func (c *DurationColumn) Length() int {
	return len(c.data)
}

// GetString returns the string representation of the duration at the given index.
func (c *DurationColumn) GetString(i uint32) (string, error) {
	if int(i) >= len(c.data) {
		return "", outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return "", nil
	}
	return formatDurationCompact(c.data[i]), nil
}

// JSONValue returns the duration in Go's time.Duration.String form,
// which ParseDuration reads back.
func (c *DurationColumn) JSONValue(i uint32) (any, error) {
	if int(i) >= len(c.data) {
		return nil, outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return nil, nil
	}
	return c.data[i].String(), nil
}

// formatDurationCompact returns a compact representation like "2h30m" or "3d4h".
func formatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	negative := d < 0
	if negative {
		d = -d
	}

	var result strings.Builder
	if negative {
		result.WriteString("-")
	}

	// Handle days specially (not in standard Go duration)
	days := d / (24 * time.Hour)
	d = d % (24 * time.Hour)

	if days > 0 {
		result.WriteString(strconv.FormatInt(int64(days), 10))
		result.WriteString("d")
	}

	if d > 0 || days == 0 {
		remaining := d.String()
		if days > 0 && remaining == "0s" {
			return result.String()
		}
		result.WriteString(remaining)
	}

	return result.String()
}

// GetValue returns the duration value at the given index.
func (c *DurationColumn) GetValue(i uint32) (time.Duration, error) {
	if int(i) >= len(c.data) {
		return 0, outOfBounds(i, len(c.data))
	}
	return c.data[i], nil
}

// Append adds a duration value to the column.
func (c *DurationColumn) Append(d time.Duration) {
	c.data = append(c.data, d)
	c.markValid()
}

// AppendNull adds a null row.
func (c *DurationColumn) AppendNull() {
	c.data = append(c.data, 0)
	c.markNull()
}

// AppendNanoseconds adds a duration from nanoseconds.
func (c *DurationColumn) AppendNanoseconds(nanos int64) {
	c.Append(time.Duration(nanos))
}

// AppendSeconds adds a duration from seconds (can be fractional).
func (c *DurationColumn) AppendSeconds(seconds float64) {
	c.Append(time.Duration(seconds * float64(time.Second)))
}

// AppendString parses and adds a duration from a string.
// Supports Go duration format (e.g., "2h30m") and extended format with days (e.g., "3d2h").
func (c *DurationColumn) AppendString(s string) error {
	d, err := ParseDuration(s)
	if err != nil {
		return err
	}
	c.Append(d)
	return nil
}

// AppendAny accepts duration strings and integral nanosecond counts.
func (c *DurationColumn) AppendAny(v any) error {
	switch val := v.(type) {
	case nil:
		c.AppendNull()
	case time.Duration:
		c.Append(val)
	case string:
		if strings.TrimSpace(val) == "" {
			c.AppendNull()
			return nil
		}
		if err := c.AppendString(val); err != nil {
			return conversionError(v, "duration")
		}
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			return conversionError(v, "duration")
		}
		c.AppendNanoseconds(int64(val))
	default:
		return conversionError(v, "duration")
	}
	return nil
}

// ParseDuration parses a duration string, supporting Go format plus days.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var total time.Duration

	// Look for 'd' for days
	if idx := strings.Index(s, "d"); idx != -1 {
		daysStr := s[:idx]
		days, err := strconv.ParseInt(daysStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid days in duration: %s", daysStr)
		}
		total = time.Duration(days) * 24 * time.Hour
		s = s[idx+1:]
	}

	// Parse remaining with Go's time.ParseDuration
	if s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %w", err)
		}
		total += d
	}

	if negative {
		total = -total
	}

	return total, nil
}

// Clone returns a deep copy of the column.
func (c *DurationColumn) Clone() IDataColumn {
	data := make([]time.Duration, len(c.data))
	copy(data, c.data)
	return &DurationColumn{
		nullMask:  c.nullMask.clone(),
		columnDef: c.columnDef,
		data:      data,
	}
}

// NewEmpty returns an empty column with the same definition.
func (c *DurationColumn) NewEmpty() IDataColumn {
	return NewDurationColumn(c.columnDef)
}
