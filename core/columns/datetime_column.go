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

// DatetimeFormatDateTime is the display format GetString uses, in UTC.
const DatetimeFormatDateTime = "2006-01-02 15:04:05"

// DatetimeFormatCanonical is the textual form datetimes take in row data sent
// to the grid. ParseDatetime reads it back without loss.
const DatetimeFormatCanonical = time.RFC3339Nano

// dateParseFormats lists formats to try when parsing datetime strings, in order of preference.
var dateParseFormats = []string{
	time.RFC3339Nano,          // 2006-01-02T15:04:05.999999999Z07:00
	time.RFC3339,              // 2006-01-02T15:04:05Z07:00
	"2006-01-02T15:04:05",     // ISO without timezone
	"2006-01-02 15:04:05",     // Space separator
	"2006-01-02",              // Date only (midnight)
	"2006/01/02",              // YYYY/MM/DD
	"2006/01/02 15:04:05",     // YYYY/MM/DD with time
	"02-Jan-2006",             // DD-Mon-YYYY
	"Jan 2, 2006",             // Natural format
	"January 2, 2006",         // Full month name
	"2006-01-02T15:04:05.000", // ISO with milliseconds no TZ
	"2006-01-02 15:04:05.000", // Space with milliseconds
}

// DatetimeColumn stores datetime values using Go's time.Time type.
type DatetimeColumn struct {
	nullMask
	columnDef     *ColumnDef
	data          []time.Time
	displayFormat string // Format string for GetString()
	location      *time.Location
}

// NewDatetimeColumn creates a new datetime column with the default display format.
func NewDatetimeColumn(columnDef *ColumnDef) *DatetimeColumn {
	return &DatetimeColumn{
		columnDef:     columnDef,
		data:          make([]time.Time, 0),
		displayFormat: DatetimeFormatDateTime,
		location:      time.UTC,
	}
}

// Append adds a time.Time value to the column.
func (c *DatetimeColumn) Append(value time.Time) {
	c.data = append(c.data, value.UTC())
	c.markValid()
}

// AppendNull adds a null row.
func (c *DatetimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.markNull()
}

// AppendString parses a string and appends the datetime value.
// Empty and null-like strings append a null. Returns an error if parsing fails.
func (c *DatetimeColumn) AppendString(s string) error {
	t, err := ParseDatetime(s, c.location)
	if err != nil {
		return err
	}
	if t.IsZero() {
		c.AppendNull()
		return nil
	}
	c.Append(t)
	return nil
}

// AppendAny accepts datetime strings and integral Unix timestamps.
func (c *DatetimeColumn) AppendAny(v any) error {
	switch val := v.(type) {
	case nil:
		c.AppendNull()
	case time.Time:
		c.Append(val)
	case string:
		if err := c.AppendString(val); err != nil {
			return conversionError(v, "datetime")
		}
	case float64:
		if math.IsNaN(val) || val != math.Trunc(val) {
			return conversionError(v, "datetime")
		}
		t, err := parseUnixTimestamp(strconv.FormatInt(int64(val), 10))
		if err != nil {
			return conversionError(v, "datetime")
		}
		c.Append(t)
	default:
		return conversionError(v, "datetime")
	}
	return nil
}

// Length returns the number of values in the column.
func (c *DatetimeColumn) Length() int {
	return len(c.data)
}

// ColumnDef returns the column definition.
func (c *DatetimeColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Kind returns KindDatetime.
func (c *DatetimeColumn) Kind() Kind {
	return KindDatetime
}

// GetValue returns the time.Time value at index i.
func (c *DatetimeColumn) GetValue(i uint32) (time.Time, error) {
	if i >= uint32(len(c.data)) {
		return time.Time{}, outOfBounds(i, len(c.data))
	}
	return c.data[i], nil
}

// GetString returns the formatted datetime string at index i.
func (c *DatetimeColumn) GetString(i uint32) (string, error) {
	if i >= uint32(len(c.data)) {
		return "", outOfBounds(i, len(c.data))
	}
	t := c.data[i]
	if c.IsNull(i) || t.IsZero() {
		return "", nil
	}
	return t.In(c.location).Format(c.displayFormat), nil
}

// JSONValue returns the value in DatetimeFormatCanonical.
func (c *DatetimeColumn) JSONValue(i uint32) (any, error) {
	if i >= uint32(len(c.data)) {
		return nil, outOfBounds(i, len(c.data))
	}
	if c.IsNull(i) {
		return nil, nil
	}
	return FormatDatetime(c.data[i]), nil
}

// FormatDatetime formats t in DatetimeFormatCanonical (UTC).
func FormatDatetime(t time.Time) string {
	return t.UTC().Format(DatetimeFormatCanonical)
}

// Clone returns a deep copy of the column.
func (c *DatetimeColumn) Clone() IDataColumn {
	data := make([]time.Time, len(c.data))
	copy(data, c.data)
	return &DatetimeColumn{
		nullMask:      c.nullMask.clone(),
		columnDef:     c.columnDef,
		data:          data,
		displayFormat: c.displayFormat,
		location:      c.location,
	}
}

// NewEmpty returns an empty column with the same definition.
func (c *DatetimeColumn) NewEmpty() IDataColumn {
	return NewDatetimeColumn(c.columnDef)
}

// --- Parsing utilities ---

// ParseDatetime attempts to parse a string as a datetime value.
// Tries multiple formats and returns the first successful parse.
// Empty and null-like strings yield the zero time.
func ParseDatetime(s string, defaultLoc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	// Handle empty/null values
	if s == "" || s == "null" || s == "nil" || s == "NULL" {
		return time.Time{}, nil
	}

	if defaultLoc == nil {
		defaultLoc = time.UTC
	}

	// Handle Unix timestamp (numeric)
	if isNumericString(s) {
		return parseUnixTimestamp(s)
	}

	// Try each format
	for _, format := range dateParseFormats {
		if t, err := time.ParseInLocation(format, s, defaultLoc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime: %q", s)
}

// isNumericString checks if a string contains only digits and optional leading minus.
func isNumericString(s string) bool {
	if len(s) == 0 {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return start < len(s)
}

// parseUnixTimestamp parses a numeric string as Unix timestamp.
// Handles seconds, milliseconds, and nanoseconds based on magnitude.
// Thresholds:
//   - Seconds: timestamps up to ~3e11 (year ~11000)
//   - Milliseconds: timestamps from ~1e11 to ~1e16
//   - Nanoseconds: timestamps > 1e16
func parseUnixTimestamp(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	absN := n
	if absN < 0 {
		absN = -absN
	}

	switch {
	case absN > 1e16:
		return time.Unix(0, n), nil
	case absN > 1e11:
		return time.Unix(n/1000, (n%1000)*1e6), nil
	default:
		return time.Unix(n, 0), nil
	}
}
