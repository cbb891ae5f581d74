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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/google/gridbridge/core/component"
	"github.com/google/gridbridge/core/config"
	"github.com/google/gridbridge/core/csvimport"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/grid"
	"github.com/google/gridbridge/core/gridoptions"
	"github.com/google/gridbridge/core/models"
	"github.com/google/gridbridge/core/options"
	"github.com/google/gridbridge/core/response"
	"github.com/google/gridbridge/demo"
)

var (
	serveAddress string
	serveRelease bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve every configured table as a grid",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.Address = serveAddress
	}
	if serveRelease {
		cfg.Release = true
	}

	dm, err := loadTables(cfg)
	if err != nil {
		return err
	}

	comp, err := component.Declare(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, name := range dm.GetTableNames() {
		in := data.RowTable{Table: dm.GetTable(name)}
		p, err := gridParams(name, in, cfg)
		if err != nil {
			return fmt.Errorf("grid %s: %w", name, err)
		}
		if _, err := grid.Show(ctx, comp, in, p); err != nil {
			return fmt.Errorf("grid %s: %w", name, err)
		}
		go watch(ctx, comp, name, in, p)
	}

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           comp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving grids", zap.String("address", "http://"+cfg.Address), zap.Strings("grids", comp.Keys()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}
	return comp.Close()
}

// loadTables imports the configured CSV files, or the demo tables when the
// config lists none, and adds the system tables.
func loadTables(cfg config.Config) (*models.DataModel, error) {
	dm := models.NewDataModel()
	if len(cfg.Tables) == 0 {
		for _, name := range demo.Tables {
			table, err := demo.CreateTable(name)
			if err != nil {
				return nil, err
			}
			if err := dm.AddTable(name, table); err != nil {
				return nil, err
			}
		}
	}
	for _, src := range cfg.Tables {
		opts := csvimport.DefaultOptions()
		if src.Delimiter != "" {
			opts.Delimiter, _ = utf8.DecodeRuneInString(src.Delimiter)
		}
		table, err := csvimport.ImportFromFile(src.Path, opts)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", src.Name, err)
		}
		if err := dm.AddTable(src.Name, table); err != nil {
			return nil, err
		}
		logger.Debug("table imported", zap.String("name", src.Name), zap.String("path", src.Path), zap.Int("rows", table.Length()))
	}
	if err := models.AddSystemTables(dm); err != nil {
		return nil, err
	}
	return dm, nil
}

// gridParams shows user tables with checkbox selection, a side bar and
// pagination. The columns table is read only.
func gridParams(name string, in data.Input, cfg config.Config) (grid.Params, error) {
	p := grid.DefaultParams()
	p.Key = name
	p.Height = 520
	p.ColumnsAutoSizeMode = "fit"
	p.LicenseKey = cfg.LicenseKey
	p.EnableQuickSearch = true

	b, err := gridoptions.FromData(in)
	if err != nil {
		return p, err
	}
	b.AddSidebar(true, true).AddPagination(true, 0)
	if cfg.RowHeight > 0 {
		b.Set("rowHeight", cfg.RowHeight)
	}
	if name != models.ColumnsTableName {
		sel := gridoptions.DefaultSelection()
		sel.Mode = options.SelectionMultiple
		sel.UseCheckbox = true
		sel.HeaderCheckbox = true
		if _, err := b.AddSelection(sel); err != nil {
			return p, err
		}
		p.ReturnMode = "filter sort"
		p.ExcelExportMode = "manual"
		p.UpdateOn = []string{"cellValueChanged", "filterChanged:300", "sortChanged"}
	}
	p.GridOptions = b
	return p, nil
}

// previewRows is how many returned rows watch draws at debug level.
const previewRows = 10

// watch logs every payload the widget sends for the grid under key until
// ctx is done.
func watch(ctx context.Context, comp *component.Component, key string, in data.Input, p grid.Params) {
	log := logger.With(zap.String("grid", key))
	for {
		payload, err := comp.Wait(ctx, key)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("wait failed", zap.Error(err))
			}
			return
		}
		res, err := response.Decode(in, payload, response.Options{
			Convert: p.ConvertToOriginalTypes,
			Errors:  options.ErrorPolicy(p.Errors),
		})
		if err != nil {
			log.Warn("payload rejected", zap.Error(err))
			continue
		}
		rows := 0
		if rt, ok := res.Data.(data.RowTable); ok && rt.Table != nil {
			rows = rt.Table.Length()
			if ce := log.Check(zap.DebugLevel, "returned rows"); ce != nil {
				ce.Write(zap.String("preview", rt.Table.ToAscii(previewRows)))
			}
		}
		log.Info("grid updated",
			zap.Int("rows", rows),
			zap.Int("selected", len(res.SelectedRows)),
			zap.Int("column_state", len(res.ColumnState)),
			zap.Bool("excel_export", res.ExcelBlob != ""))
	}
}
