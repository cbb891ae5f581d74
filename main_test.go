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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/google/gridbridge/core/config"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/grid"
	"github.com/google/gridbridge/core/models"
)

func TestLoadTablesDemo(t *testing.T) {
	logger = zaptest.NewLogger(t)

	dm, err := loadTables(config.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"_columns", "members", "orders"}, dm.GetTableNames())
}

func TestLoadTablesFromConfig(t *testing.T) {
	logger = zaptest.NewLogger(t)
	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("who;points\nann;3\nbo;5\n"), 0o644))

	dm, err := loadTables(config.Config{Tables: []config.TableSource{{Name: "scores", Path: path, Delimiter: ";"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"_columns", "scores"}, dm.GetTableNames())
	assert.Equal(t, 2, dm.GetTable("scores").Length())

	_, err = loadTables(config.Config{Tables: []config.TableSource{{Name: "missing", Path: path + ".nope"}}})
	assert.Error(t, err)
}

func TestGridParamsBuildValidGrids(t *testing.T) {
	logger = zaptest.NewLogger(t)
	dm, err := loadTables(config.Config{})
	require.NoError(t, err)

	for _, name := range dm.GetTableNames() {
		in := data.RowTable{Table: dm.GetTable(name)}
		p, err := gridParams(name, in, config.Config{LicenseKey: "key"})
		require.NoError(t, err, name)

		g, err := grid.New(in, p)
		require.NoError(t, err, name)
		assert.Equal(t, name, g.Key)
		assert.Equal(t, "key", g.LicenseKey)
		assert.False(t, g.HasScript())

		_, selectable := g.Options["rowSelection"]
		assert.Equal(t, name != models.ColumnsTableName, selectable, name)
		assert.NotContains(t, g.Options, "rowHeight", name)
	}
}

func TestGridParamsRowHeight(t *testing.T) {
	logger = zaptest.NewLogger(t)
	dm, err := loadTables(config.Config{})
	require.NoError(t, err)

	in := data.RowTable{Table: dm.GetTable("members")}
	p, err := gridParams("members", in, config.Config{RowHeight: 28})
	require.NoError(t, err)
	g, err := grid.New(in, p)
	require.NoError(t, err)
	assert.Equal(t, 28, g.Options["rowHeight"])
}

func TestOptionsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,Ada\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"options", "--selection", path})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		optionsSelection = false
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"field": "id"`)
	assert.Contains(t, out.String(), `"rowSelection": "multiple"`)
}

func TestOptionsCommandPreviewAndFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,Ada\n2,Grace\n3,Linus\n"), 0o644))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		optionsPreview = 0
		optionsFields = false
		optionsRowHeight = 0
	})

	rootCmd.SetArgs([]string{"options", "--preview", "2", "--fields", path})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "id\nname\n", out.String())
	assert.Contains(t, errOut.String(), "| Ada ")
	assert.NotContains(t, errOut.String(), "Linus")
	assert.Contains(t, errOut.String(), "(1 more rows)")

	out.Reset()
	errOut.Reset()
	optionsPreview = 0
	optionsFields = false
	rootCmd.SetArgs([]string{"options", "--row-height", "28", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), `"rowHeight": 28`)
	assert.Empty(t, errOut.String())
}
