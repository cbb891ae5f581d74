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
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at link time.
var version = "dev"

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gridbridge",
	Short: "Serve tables as interactive data grids",
	Long: `gridbridge shows tables in an AG Grid widget and reads back what the
user did with them: edited rows, selections, column state and Excel exports.

Tables come from the CSV files listed in the config, or from the built-in
demo tables when none are listed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional, GRIDBRIDGE_* env vars override it)")

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (overrides the config)")
	serveCmd.Flags().BoolVar(&serveRelease, "release", false, "Serve the built widget bundle instead of loading it from the dev server")

	optionsCmd.Flags().StringVar(&optionsDelimiter, "delimiter", ",", "CSV field delimiter")
	optionsCmd.Flags().BoolVar(&optionsSelection, "selection", false, "Add multiple row selection with checkboxes")
	optionsCmd.Flags().IntVar(&optionsRowHeight, "row-height", 0, "Row height in pixels (0 keeps the widget default)")
	optionsCmd.Flags().IntVar(&optionsPreview, "preview", 0, "Draw the first N imported rows on stderr")
	optionsCmd.Flags().BoolVar(&optionsFields, "fields", false, "Print only the column fields, one per line")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
