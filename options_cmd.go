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

package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/google/gridbridge/core/csvimport"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/gridoptions"
	"github.com/google/gridbridge/core/options"
)

var (
	optionsDelimiter string
	optionsSelection bool
	optionsRowHeight int
	optionsPreview   int
	optionsFields    bool
)

var optionsCmd = &cobra.Command{
	Use:   "options <file.csv>",
	Short: "Print the grid options built for a CSV file",
	Long: `options imports a CSV file, detects its column types and prints the
grid options a grid of that table starts from. With --preview the first
rows of the imported table are drawn on stderr so the detected types can be
checked against the data.`,
	Args: cobra.ExactArgs(1),
	RunE: runOptions,
}

func runOptions(cmd *cobra.Command, args []string) error {
	opts := csvimport.DefaultOptions()
	if r, _ := utf8.DecodeRuneInString(optionsDelimiter); r != utf8.RuneError {
		opts.Delimiter = r
	}
	table, err := csvimport.ImportFromFile(args[0], opts)
	if err != nil {
		return err
	}
	logger.Debug("table imported", zap.String("path", args[0]), zap.Int("rows", table.Length()), zap.Strings("columns", table.GetColumnNames()))
	if optionsPreview > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), table.ToAscii(optionsPreview))
	}

	b, err := gridoptions.FromData(data.RowTable{Table: table})
	if err != nil {
		return err
	}
	if optionsSelection {
		sel := gridoptions.DefaultSelection()
		sel.Mode = options.SelectionMultiple
		sel.UseCheckbox = true
		sel.HeaderCheckbox = true
		if _, err := b.AddSelection(sel); err != nil {
			return err
		}
	}
	if optionsRowHeight > 0 {
		b.Set("rowHeight", optionsRowHeight)
	}
	if optionsFields {
		for _, f := range b.Fields() {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), b.String())
	return nil
}
