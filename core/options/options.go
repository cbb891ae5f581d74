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

// Package options validates the free-text display options a caller passes
// to a grid and maps them to the values the widget understands.
package options

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports an option value outside its allowed set.
type ValidationError struct {
	Field   string
	Input   string
	Options []string
}

func (e *ValidationError) Error() string {
	quoted := make([]string, len(e.Options))
	for i, o := range e.Options {
		quoted[i] = "'" + o + "'"
	}
	return fmt.Sprintf("Input %s '%s' is invalid. Options are %s.", e.Field, e.Input, strings.Join(quoted, ", "))
}

// AutoSizeMode controls how the widget sizes its columns.
type AutoSizeMode int

const (
	AutoSizeNone AutoSizeMode = iota
	AutoSizeFitContents
	AutoSizeFitAllColumnsToView
)

// ParseAutoSizeMode accepts "none", anything containing "fit" and anything
// containing both "fit" and "all".
func ParseAutoSizeMode(s string) (AutoSizeMode, error) {
	mode := strings.ToLower(s)
	switch {
	case mode == "none":
		return AutoSizeNone, nil
	case strings.Contains(mode, "fit") && strings.Contains(mode, "all"):
		return AutoSizeFitAllColumnsToView, nil
	case strings.Contains(mode, "fit"):
		return AutoSizeFitContents, nil
	}
	return 0, &ValidationError{Field: "Column Auto Size Mode", Input: s, Options: []string{"none", "fit", "fit all"}}
}

// ReturnMode selects which rows the widget reports back.
type ReturnMode int

const (
	ReturnAsInput ReturnMode = iota
	ReturnFiltered
	ReturnFilteredAndSorted
)

func ParseReturnMode(s string) (ReturnMode, error) {
	mode := strings.ToLower(s)
	switch {
	case mode == "input":
		return ReturnAsInput, nil
	case strings.Contains(mode, "filter") && strings.Contains(mode, "sort"):
		return ReturnFilteredAndSorted, nil
	case strings.Contains(mode, "filter"):
		return ReturnFiltered, nil
	}
	return 0, &ValidationError{Field: "Return mode", Input: s, Options: []string{"input", "filter", "filter sort"}}
}

// Themes lists the widget themes a grid may use.
var Themes = []string{
	"alpine", "balham", "material", "streamlit", "excel", "astro",
	"alpine-dark", "balham-dark", "streamlit-dark", "astro-dark",
}

// ParseTheme returns the lower-cased theme when it names one of Themes.
func ParseTheme(s string) (string, error) {
	theme := strings.ToLower(s)
	for _, t := range Themes {
		if t == theme {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "Theme", Input: s, Options: Themes}
}

// ExcelExportMode is the widget's name for when spreadsheets are exported.
type ExcelExportMode string

const (
	ExcelExportNone    ExcelExportMode = "NONE"
	ExcelExportManual  ExcelExportMode = "MANUAL"
	ExcelExportTrigger ExcelExportMode = "TRIGGER"
)

func ParseExcelExportMode(s string) (ExcelExportMode, error) {
	switch strings.ToLower(s) {
	case "none":
		return ExcelExportNone, nil
	case "manual":
		return ExcelExportManual, nil
	case "automatic":
		return ExcelExportTrigger, nil
	}
	return "", &ValidationError{Field: "Excel export mode", Input: s, Options: []string{"none", "manual", "automatic"}}
}

// ErrorPolicy decides what happens to values that cannot be converted back
// to their original column type.
type ErrorPolicy string

const (
	ErrorsRaise  ErrorPolicy = "raise"
	ErrorsIgnore ErrorPolicy = "ignore"
	ErrorsCoerce ErrorPolicy = "coerce"
)

// ParseErrorPolicy validates s only when convert is set; otherwise the
// lower-cased input is returned as is. An empty input means ErrorsCoerce.
func ParseErrorPolicy(convert bool, s string) (ErrorPolicy, error) {
	policy := ErrorPolicy(strings.ToLower(s))
	if policy == "" {
		policy = ErrorsCoerce
	}
	if !convert {
		return policy, nil
	}
	switch policy {
	case ErrorsRaise, ErrorsIgnore, ErrorsCoerce:
		return policy, nil
	}
	return "", &ValidationError{Field: "Errors", Input: s, Options: []string{"raise", "ignore", "coerce"}}
}

// SelectionMode is the row selection behaviour of a grid.
type SelectionMode string

const (
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
	SelectionDisabled SelectionMode = "disabled"
)

func ParseSelectionMode(s string) (SelectionMode, error) {
	switch mode := SelectionMode(strings.ToLower(s)); mode {
	case SelectionSingle, SelectionMultiple, SelectionDisabled:
		return mode, nil
	}
	return "", &ValidationError{Field: "Selection mode", Input: s, Options: []string{"single", "multiple", "disabled"}}
}

// ParseCustomCSS accepts nil, a map of selectors to style maps, or the same
// map encoded as JSON text. The result is always a fresh map.
func ParseCustomCSS(v any) (map[string]any, error) {
	switch css := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		out := make(map[string]any, len(css))
		for k, v := range css {
			out[k] = v
		}
		return out, nil
	case string:
		if strings.TrimSpace(css) == "" {
			return map[string]any{}, nil
		}
		out := map[string]any{}
		if err := json.Unmarshal([]byte(css), &out); err != nil {
			return nil, fmt.Errorf("custom CSS is not a JSON object: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("custom CSS is neither a map nor a string but %T", v)
}

// UpdateTrigger names a widget event that makes the grid report back,
// optionally debounced.
type UpdateTrigger struct {
	Event      string
	DebounceMs int
}

// String returns the event name, followed by ":<ms>" when debounced.
func (t UpdateTrigger) String() string {
	if t.DebounceMs > 0 {
		return t.Event + ":" + strconv.Itoa(t.DebounceMs)
	}
	return t.Event
}

// MarshalJSON emits a plain event name, or an [event, ms] pair when debounced.
func (t UpdateTrigger) MarshalJSON() ([]byte, error) {
	if t.DebounceMs > 0 {
		return json.Marshal([]any{t.Event, t.DebounceMs})
	}
	return json.Marshal(t.Event)
}

// ParseUpdateTriggers reads entries of the form "event" or "event:ms".
func ParseUpdateTriggers(in []string) ([]UpdateTrigger, error) {
	out := make([]UpdateTrigger, 0, len(in))
	for _, s := range in {
		event, debounce, found := strings.Cut(strings.TrimSpace(s), ":")
		if event == "" {
			return nil, fmt.Errorf("update trigger %q has no event name", s)
		}
		t := UpdateTrigger{Event: event}
		if found {
			ms, err := strconv.Atoi(debounce)
			if err != nil || ms < 0 {
				return nil, fmt.Errorf("update trigger %q has an invalid debounce %q", s, debounce)
			}
			t.DebounceMs = ms
		}
		out = append(out, t)
	}
	return out, nil
}

// HasEvent reports whether triggers already contains event.
func HasEvent(triggers []UpdateTrigger, event string) bool {
	for _, t := range triggers {
		if t.Event == event {
			return true
		}
	}
	return false
}
