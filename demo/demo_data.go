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

// Package demo provides sample tables served when no CSV sources are configured.
package demo

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/gridbridge/core/csvimport"
	"github.com/google/gridbridge/core/tables"
)

//go:embed data/members.csv
var membersCSV string

//go:embed data/orders.csv
var ordersCSV string

// Tables lists the demo tables by name, in display order.
var Tables = []string{"members", "orders"}

var tableOptions = map[string]csvimport.ImportOptions{
	"members": withSources(map[string]csvimport.CsvColumnSource{
		"id":     {DisplayName: "ID"},
		"name":   {DisplayName: "Name"},
		"joined": {DisplayName: "Joined"},
		"tenure": {DisplayName: "Tenure"},
	}),
	"orders": withSources(map[string]csvimport.CsvColumnSource{
		"order_id":   {DisplayName: "Order"},
		"member_id":  {DisplayName: "Member"},
		"unit_price": {DisplayName: "Unit price", Type: csvimport.CsvColumnTypeFloat64},
		"placed_at":  {DisplayName: "Placed at"},
	}),
}

func withSources(sources map[string]csvimport.CsvColumnSource) csvimport.ImportOptions {
	options := csvimport.DefaultOptions()
	options.ColumnSources = sources
	return options
}

// importTable imports an embedded CSV using the options registered for name.
func importTable(name, csv string) (*tables.DataTable, error) {
	options, ok := tableOptions[name]
	if !ok {
		return nil, fmt.Errorf("no import options for demo table %s", name)
	}
	table, err := csvimport.ImportFromReader(strings.NewReader(csv), options)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s CSV: %w", name, err)
	}
	return table, nil
}

// CreateMembersTable returns the team members sample table.
func CreateMembersTable() (*tables.DataTable, error) {
	return importTable("members", membersCSV)
}

// CreateOrdersTable returns the orders sample table.
func CreateOrdersTable() (*tables.DataTable, error) {
	return importTable("orders", ordersCSV)
}

// CreateTable returns the demo table called name.
func CreateTable(name string) (*tables.DataTable, error) {
	switch name {
	case "members":
		return CreateMembersTable()
	case "orders":
		return CreateOrdersTable()
	}
	return nil, fmt.Errorf("unknown demo table %q", name)
}
