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

package component

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/google/gridbridge/core/rendering"
	"github.com/google/gridbridge/core/views"
)

// maxPayload bounds an uploaded widget payload.
const maxPayload = 32 << 20

// Idle sockets are kept open by pings; a client silent for pongWait is dropped.
const (
	pongWait   = time.Minute
	pingPeriod = pongWait * 9 / 10
)

// Handler returns the routes serving the index, the grid pages, event
// uploads, the event websocket and, in release mode, the bundle.
func (c *Component) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", c.handleIndex).Methods("GET")
	router.HandleFunc("/grid/{id}", c.handleGrid).Methods("GET")
	router.HandleFunc("/grid/{id}/events", c.handleEvents).Methods("POST")
	router.HandleFunc("/grid/{id}/ws", c.handleSocket)
	if c.cfg.Release {
		router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(c.cfg.BuildDir))))
	}
	return router
}

func (c *Component) handleIndex(w http.ResponseWriter, r *http.Request) {
	vm := views.BuildIndexViewModel("Grids", "Grids registered with this server", c.entries())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.pages.RenderIndex(w, vm); err != nil {
		c.logger.Error("index rendering failed", zap.Error(err))
	}
}

func (c *Component) handleGrid(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]
	g, ok := c.lookup(key)
	if !ok {
		http.Error(w, "grid not found", http.StatusNotFound)
		return
	}
	page, err := c.pages.RenderGrid(g, c.assets(r, key))
	if err != nil {
		c.logger.Error("grid rendering failed", zap.String("key", key), zap.Error(err))
		http.Error(w, "grid rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page.String())
}

func (c *Component) assets(r *http.Request, key string) rendering.Assets {
	base := "/assets/"
	if !c.cfg.Release {
		base = strings.TrimSuffix(c.cfg.DevServerURL, "/") + "/"
	}
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	prefix := views.GridURL(key).String()
	return rendering.Assets{
		ScriptURL: base + BundleScript,
		StyleURL:  base + BundleStyle,
		EventsURL: prefix + "/events",
		SocketURL: scheme + "://" + r.Host + prefix + "/ws",
	}
}

func (c *Component) handleEvents(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		http.Error(w, "cannot read payload", http.StatusRequestEntityTooLarge)
		return
	}
	switch err := c.receive(key, body); {
	case errors.Is(err, ErrUnknownGrid):
		http.Error(w, "grid not found", http.StatusNotFound)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

var errBadPayload = errors.New("payload is not a JSON object")

// receive stores a payload sent over HTTP or the websocket.
func (c *Component) receive(key string, body []byte) error {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return errBadPayload
	}
	if err := c.storePayload(key, body); err != nil {
		return err
	}
	c.logger.Info("widget event",
		zap.String("key", key),
		zap.String("event", gjson.GetBytes(body, "event").String()),
		zap.Int64("rows", gjson.GetBytes(body, "rowData.#").Int()),
		zap.Int64("selected", gjson.GetBytes(body, "selectedRows.#").Int()),
	)
	return nil
}

func (c *Component) handleSocket(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]
	if _, ok := c.lookup(key); !ok {
		http.Error(w, "grid not found", http.StatusNotFound)
		return
	}
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", zap.String("key", key), zap.Error(err))
		return
	}
	s := &socket{conn: conn}
	if !c.subscribe(key, s) {
		_ = conn.Close()
		return
	}
	defer func() {
		c.unsubscribe(key, s)
		_ = conn.Close()
	}()

	c.logger.Debug("websocket connected", zap.String("key", key), zap.String("remote", conn.RemoteAddr().String()))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := s.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("websocket read failed", zap.String("key", key), zap.Error(err))
			}
			return
		}
		if err := c.receive(key, message); err != nil {
			c.logger.Warn("websocket payload rejected", zap.String("key", key), zap.Error(err))
			if werr := s.writeJSON(map[string]any{"type": "error", "error": err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := s.writeJSON(map[string]any{"type": "ack", "key": key}); err != nil {
			return
		}
	}
}

func (c *Component) subscribe(key string, s *socket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[key]
	if !ok {
		return false
	}
	inst.sockets[s] = struct{}{}
	return true
}

func (c *Component) unsubscribe(key string, s *socket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inst, ok := c.instances[key]; ok {
		delete(inst.sockets, s)
	}
}
