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

// Package component serves grids to a browser and collects the payloads
// the widget sends back. It is the Renderer behind grid.Show.
package component

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/google/gridbridge/core/config"
	"github.com/google/gridbridge/core/grid"
	"github.com/google/gridbridge/core/rendering"
	"github.com/google/gridbridge/core/views"
)

// Bundle file names, relative to the build directory or the dev server.
const (
	BundleScript = "gridbridge.js"
	BundleStyle  = "gridbridge.css"
)

// ErrUnknownGrid is returned for keys that were never rendered.
var ErrUnknownGrid = errors.New("unknown grid")

// MarshalError reports grid options that cannot be handed to the widget.
type MarshalError struct {
	Key string
	Err error
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("cannot marshal options of grid '%s': %v", e.Key, e.Err)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

var errScriptNotAllowed = errors.New("options contain JavaScript code but AllowUnsafeJS is false")

// Component keeps the rendered grids and their latest widget payloads.
type Component struct {
	cfg    config.Config
	logger *zap.Logger
	pages  *rendering.PageRenderer

	upgrader websocket.Upgrader

	mu        sync.Mutex
	instances map[string]*instance
}

type instance struct {
	grid      *grid.Grid
	payload   []byte
	updatedAt time.Time
	// changed is closed and replaced on every payload.
	changed chan struct{}
	sockets map[*socket]struct{}
}

// socket serializes writes; a websocket connection allows one writer.
type socket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *socket) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return s.conn.WriteJSON(v)
}

func (s *socket) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

// Declare creates a component for cfg. A nil logger discards logs.
func Declare(cfg config.Config, logger *zap.Logger) (*Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid component config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pages, err := rendering.NewPageRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	mode := "development"
	if cfg.Release {
		mode = "release"
	}
	logger.Info("component declared", zap.String("mode", mode), zap.String("address", cfg.Address))
	return &Component{
		cfg:       cfg,
		logger:    logger,
		pages:     pages,
		instances: make(map[string]*instance),
	}, nil
}

// Render registers g, or replaces the grid under the same key, and returns
// the latest payload the widget sent for it. The payload is nil until the
// user interacts with the grid. An empty key is replaced by a new id.
func (c *Component) Render(ctx context.Context, g *grid.Grid) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.Key == "" {
		g.Key = uuid.NewString()
	}
	if g.HasScript() && !g.AllowUnsafeJS {
		return nil, &MarshalError{Key: g.Key, Err: errScriptNotAllowed}
	}
	if _, err := g.OptionsJSON(); err != nil {
		return nil, &MarshalError{Key: g.Key, Err: err}
	}

	c.mu.Lock()
	inst, ok := c.instances[g.Key]
	if !ok {
		inst = &instance{changed: make(chan struct{}), sockets: map[*socket]struct{}{}}
		c.instances[g.Key] = inst
	}
	inst.grid = g
	if g.ReloadData {
		inst.payload = nil
	}
	payload := inst.payload
	sockets := inst.socketList()
	c.mu.Unlock()

	if ok {
		c.logger.Debug("grid updated", zap.String("key", g.Key), zap.Int("rows", g.Records.Len()))
		c.broadcast(g.Key, sockets, map[string]any{"type": "reload", "key": g.Key})
	} else {
		c.logger.Info("grid registered", zap.String("key", g.Key), zap.Int("rows", g.Records.Len()))
	}
	return payload, nil
}

// Payload returns the latest payload of the grid under key.
func (c *Component) Payload(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[key]
	if !ok {
		return nil, ErrUnknownGrid
	}
	return inst.payload, nil
}

// Wait blocks until the widget of the grid under key sends a payload and
// returns it.
func (c *Component) Wait(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	inst, ok := c.instances[key]
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownGrid
	}
	changed := inst.changed
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-changed:
	}
	return c.Payload(key)
}

// Keys lists the registered grids in sorted order.
func (c *Component) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.instances))
	for k := range c.instances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close disconnects every websocket client.
func (c *Component) Close() error {
	c.mu.Lock()
	var sockets []*socket
	for _, inst := range c.instances {
		sockets = append(sockets, inst.socketList()...)
		inst.sockets = map[*socket]struct{}{}
	}
	c.mu.Unlock()

	var result *multierror.Error
	for _, s := range sockets {
		if err := s.conn.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (c *Component) storePayload(key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[key]
	if !ok {
		return ErrUnknownGrid
	}
	inst.payload = payload
	inst.updatedAt = time.Now()
	close(inst.changed)
	inst.changed = make(chan struct{})
	return nil
}

func (c *Component) lookup(key string) (*grid.Grid, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[key]
	if !ok {
		return nil, false
	}
	return inst.grid, true
}

func (c *Component) entries() []views.GridEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]views.GridEntry, 0, len(c.instances))
	for key, inst := range c.instances {
		entries = append(entries, views.GridEntry{
			Key:         key,
			Title:       key,
			Columns:     inst.grid.Records.Columns,
			RowCount:    inst.grid.Records.Len(),
			Theme:       inst.grid.Theme,
			LastEventAt: inst.updatedAt,
		})
	}
	return entries
}

func (inst *instance) socketList() []*socket {
	list := make([]*socket, 0, len(inst.sockets))
	for s := range inst.sockets {
		list = append(list, s)
	}
	return list
}

func (c *Component) broadcast(key string, sockets []*socket, msg any) {
	for _, s := range sockets {
		if err := s.writeJSON(msg); err != nil {
			c.logger.Warn("websocket write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

var _ grid.Renderer = (*Component)(nil)
