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

// Package config loads the settings of the grid component server.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with GRIDBRIDGE_ (GRIDBRIDGE_RELEASE=true,
// GRIDBRIDGE_DEV_SERVER_URL=...). Without any of them pages load the widget
// from the dev server, so a checkout without a built bundle still starts.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "GRIDBRIDGE_"

// Config selects how grid pages reach the widget bundle and where the
// server listens.
type Config struct {
	// Release serves the bundle from BuildDir; otherwise pages load it from
	// DevServerURL.
	Release      bool   `koanf:"release"`
	DevServerURL string `koanf:"dev_server_url"`
	BuildDir     string `koanf:"build_dir"`
	Address      string `koanf:"address"`
	LicenseKey   string `koanf:"license_key"`
	// RowHeight is the row height in pixels of served grids; 0 keeps the
	// widget default.
	RowHeight int `koanf:"row_height"`
	// Tables are CSV files the serve command shows as grids.
	Tables []TableSource `koanf:"tables"`
}

// TableSource is a CSV file shown under Name.
type TableSource struct {
	Name      string `koanf:"name"`
	Path      string `koanf:"path"`
	Delimiter string `koanf:"delimiter"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() map[string]any {
	return map[string]any{
		"release":        false,
		"dev_server_url": "http://localhost:3001",
		"build_dir":      "frontend/build",
		"address":        "127.0.0.1:8097",
	}
}

// Load reads the defaults, the YAML file at path when path is not empty,
// and the environment.
func Load(path string) (Config, error) {
	k, err := base()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return unmarshal(k)
}

// LoadFromBytes reads the defaults and YAML data. The environment is not
// consulted.
func LoadFromBytes(data []byte) (Config, error) {
	k, err := base()
	if err != nil {
		return Config{}, err
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("failed to load config data: %w", err)
	}
	return unmarshal(k)
}

func base() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return k, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func unmarshal(k *koanf.Koanf) (Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the settings at once.
func (c Config) Validate() error {
	var err *multierror.Error
	if c.Address == "" {
		err = multierror.Append(err, fmt.Errorf("address is empty"))
	}
	if c.Release {
		if c.BuildDir == "" {
			err = multierror.Append(err, fmt.Errorf("release mode needs build_dir"))
		} else if st, statErr := os.Stat(c.BuildDir); statErr != nil {
			err = multierror.Append(err, fmt.Errorf("build_dir: %w", statErr))
		} else if !st.IsDir() {
			err = multierror.Append(err, fmt.Errorf("build_dir %s is not a directory", c.BuildDir))
		}
	} else {
		u, parseErr := url.Parse(c.DevServerURL)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			err = multierror.Append(err, fmt.Errorf("dev_server_url %q is not an absolute URL", c.DevServerURL))
		}
	}
	if c.RowHeight < 0 {
		err = multierror.Append(err, fmt.Errorf("row_height %d is negative", c.RowHeight))
	}
	seen := map[string]bool{}
	for i, t := range c.Tables {
		if t.Name == "" {
			err = multierror.Append(err, fmt.Errorf("tables[%d] has no name", i))
		} else if seen[t.Name] {
			err = multierror.Append(err, fmt.Errorf("table %q is listed twice", t.Name))
		}
		seen[t.Name] = true
		if t.Path == "" {
			err = multierror.Append(err, fmt.Errorf("tables[%d] has no path", i))
		}
		if len([]rune(t.Delimiter)) > 1 {
			err = multierror.Append(err, fmt.Errorf("tables[%d] delimiter %q is longer than one character", i, t.Delimiter))
		}
	}
	return err.ErrorOrNil()
}
