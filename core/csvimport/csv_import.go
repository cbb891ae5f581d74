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

// Package csvimport reads CSV data into typed tables.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/tables"
)

// CsvColumnType specifies the data type for a column
type CsvColumnType int

const (
	// CsvColumnTypeAuto auto-detects type from data (default)
	CsvColumnTypeAuto CsvColumnType = iota
	// CsvColumnTypeString forces string type
	CsvColumnTypeString
	// CsvColumnTypeInt64 forces int64 type
	CsvColumnTypeInt64
	// CsvColumnTypeFloat64 forces float64 type
	CsvColumnTypeFloat64
	// CsvColumnTypeBool forces bool type
	CsvColumnTypeBool
	// CsvColumnTypeDatetime forces datetime type
	CsvColumnTypeDatetime
	// CsvColumnTypeDuration forces duration type
	CsvColumnTypeDuration
)

func (t CsvColumnType) String() string {
	switch t {
	case CsvColumnTypeString:
		return "string"
	case CsvColumnTypeInt64:
		return "int64"
	case CsvColumnTypeFloat64:
		return "float64"
	case CsvColumnTypeBool:
		return "bool"
	case CsvColumnTypeDatetime:
		return "datetime"
	case CsvColumnTypeDuration:
		return "duration"
	default:
		return "auto"
	}
}

// CsvColumnSource defines source metadata for how a column is imported
type CsvColumnSource struct {
	// Name is the column name (defaults to header name if not specified)
	Name string
	// DisplayName is the display name for the column
	DisplayName string
	// Type specifies the data type for this column (default: auto-detect)
	Type CsvColumnType
}

// ImportOptions configures CSV import behavior
type ImportOptions struct {
	// HasHeader indicates whether the first row contains column headers
	HasHeader bool
	// Delimiter is the field delimiter (defaults to comma)
	Delimiter rune
	// ColumnSources provides configuration for specific columns by header name
	ColumnSources map[string]CsvColumnSource
	// SampleSize is the number of rows to sample for type detection (default: 100)
	SampleSize int
}

// DefaultOptions returns default import options
func DefaultOptions() ImportOptions {
	return ImportOptions{
		HasHeader:     true,
		Delimiter:     ',',
		ColumnSources: make(map[string]CsvColumnSource),
		SampleSize:    100,
	}
}

// ImportFromFile imports a CSV file and returns a DataTable
func ImportFromFile(filepath string, options ImportOptions) (*tables.DataTable, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ImportFromReader(file, options)
}

// ImportFromReader imports CSV data from an io.Reader and returns a DataTable.
//
// Empty cells of typed columns are nulls, and so are cells past the sample
// that do not parse as the detected type. String columns keep empty cells
// as empty strings.
func ImportFromReader(reader io.Reader, options ImportOptions) (*tables.DataTable, error) {
	csvReader := csv.NewReader(reader)
	if options.Delimiter != 0 {
		csvReader.Comma = options.Delimiter
	}
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	var headers []string
	var dataRows [][]string

	if options.HasHeader {
		headers = records[0]
		dataRows = records[1:]
	} else {
		// Generate column names if no header
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := 0; i < numCols; i++ {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
		dataRows = records
	}

	if len(dataRows) == 0 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}

	sampleSize := options.SampleSize
	if sampleSize <= 0 {
		sampleSize = 100
	}
	columnTypes := detectColumnTypes(headers, dataRows, sampleSize, options.ColumnSources)

	table := tables.NewDataTable()
	cols := make([]columns.IDataColumn, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		config := getColumnSource(header, options.ColumnSources)
		name := header
		if config.Name != "" {
			name = config.Name
		}
		if table.GetColumn(name) != nil {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		cols[i] = newColumn(columnTypes[i], columns.NewColumnDef(name, config.DisplayName))
		table.AddColumn(cols[i])
	}

	for _, row := range dataRows {
		for i, col := range cols {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			appendValue(col, value)
		}
	}

	return table, nil
}

func newColumn(t CsvColumnType, def *columns.ColumnDef) columns.IDataColumn {
	switch t {
	case CsvColumnTypeInt64:
		return columns.NewInt64Column(def)
	case CsvColumnTypeFloat64:
		return columns.NewFloat64Column(def)
	case CsvColumnTypeBool:
		return columns.NewBoolColumn(def)
	case CsvColumnTypeDatetime:
		return columns.NewDatetimeColumn(def)
	case CsvColumnTypeDuration:
		return columns.NewDurationColumn(def)
	default:
		return columns.NewStringColumn(def)
	}
}

func appendValue(col columns.IDataColumn, value string) {
	if s, ok := col.(*columns.StringColumn); ok {
		s.Append(value)
		return
	}
	if value == "" {
		col.AppendNull()
		return
	}
	if err := col.AppendAny(value); err != nil {
		col.AppendNull()
	}
}

// detectColumnTypes samples data to pick the narrowest type every
// non-empty value parses as. Columns with no values are strings.
func detectColumnTypes(headers []string, dataRows [][]string, sampleSize int, configs map[string]CsvColumnSource) []CsvColumnType {
	types := make([]CsvColumnType, len(headers))

	rowsToSample := sampleSize
	if rowsToSample > len(dataRows) {
		rowsToSample = len(dataRows)
	}

	candidates := []CsvColumnType{
		CsvColumnTypeInt64,
		CsvColumnTypeFloat64,
		CsvColumnTypeBool,
		CsvColumnTypeDatetime,
		CsvColumnTypeDuration,
	}

	for i, header := range headers {
		if config, ok := configs[strings.TrimSpace(header)]; ok && config.Type != CsvColumnTypeAuto {
			types[i] = config.Type
			continue
		}

		var values []string
		for j := 0; j < rowsToSample; j++ {
			if i >= len(dataRows[j]) {
				continue
			}
			if value := strings.TrimSpace(dataRows[j][i]); value != "" {
				values = append(values, value)
			}
		}

		types[i] = CsvColumnTypeString
		if len(values) == 0 {
			continue
		}
		for _, t := range candidates {
			if allParse(t, values) {
				types[i] = t
				break
			}
		}
	}

	return types
}

func allParse(t CsvColumnType, values []string) bool {
	trial := newColumn(t, columns.NewColumnDef("trial", ""))
	for _, v := range values {
		if err := trial.AppendAny(v); err != nil {
			return false
		}
		if t == CsvColumnTypeDatetime && trial.IsNull(uint32(trial.Length()-1)) {
			return false
		}
	}
	return true
}

// getColumnSource returns the config for a column, or an empty config if not specified
func getColumnSource(header string, configs map[string]CsvColumnSource) CsvColumnSource {
	if configs == nil {
		return CsvColumnSource{}
	}
	if config, ok := configs[header]; ok {
		return config
	}
	return CsvColumnSource{}
}
