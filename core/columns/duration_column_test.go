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

package columns

import (
	"testing"
	"time"
)

func TestDurationColumnBasicOperations(t *testing.T) {
	col := NewDurationColumn(NewColumnDef("elapsed", "Elapsed"))
	col.Append(90 * time.Minute)
	col.AppendNull()
	col.AppendSeconds(1.5)

	if col.Length() != 3 {
		t.Fatalf("expected length 3, got %d", col.Length())
	}
	if col.Kind() != KindDuration {
		t.Errorf("Kind() = %v, want %v", col.Kind(), KindDuration)
	}

	str, _ := col.GetString(0)
	if str != "1h30m0s" {
		t.Errorf("GetString(0) = %q, want %q", str, "1h30m0s")
	}
	v, _ := col.JSONValue(2)
	if v != "1.5s" {
		t.Errorf("JSONValue(2) = %v, want %q", v, "1.5s")
	}
	if v, _ := col.JSONValue(1); v != nil {
		t.Errorf("JSONValue(1) = %v, want nil", v)
	}
}

func TestDurationColumnAppendAny(t *testing.T) {
	tests := []struct {
		input    any
		expected time.Duration
		hasError bool
	}{
		{"1h30m0s", 90 * time.Minute, false},
		{"2d", 48 * time.Hour, false},
		{float64(1500), 1500 * time.Nanosecond, false},
		{"soon", 0, true},
		{2.5, 0, true},
		{false, 0, true},
	}

	for _, tc := range tests {
		col := NewDurationColumn(NewColumnDef("d", ""))
		err := col.AppendAny(tc.input)
		if tc.hasError {
			if err == nil {
				t.Errorf("AppendAny(%v) expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("AppendAny(%v) unexpected error: %v", tc.input, err)
			continue
		}
		got, _ := col.GetValue(0)
		if got != tc.expected {
			t.Errorf("AppendAny(%v) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		hasError bool
	}{
		// Standard Go format
		{"1h", time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"45s", 45 * time.Second, false},
		{"1h30m", 90 * time.Minute, false},
		{"2h30m45s", 2*time.Hour + 30*time.Minute + 45*time.Second, false},

		// Extended format with days
		{"1d", 24 * time.Hour, false},
		{"1d12h", 36 * time.Hour, false},
		{"2d3h30m", 2*24*time.Hour + 3*time.Hour + 30*time.Minute, false},

		// Negative durations
		{"-1h", -time.Hour, false},
		{"-1d12h", -36 * time.Hour, false},

		// Edge cases
		{"0s", 0, false},
		{"", 0, false},
		{"  1h  ", time.Hour, false},

		// Invalid input
		{"invalid", 0, true},
		{"1x", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			result, err := ParseDuration(tc.input)
			if tc.hasError {
				if err == nil {
					t.Errorf("Expected error for input '%s', got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for input '%s': %v", tc.input, err)
			}
			if result != tc.expected {
				t.Errorf("For input '%s': expected %v, got %v", tc.input, tc.expected, result)
			}
		})
	}
}

func TestFormatDurationCompact(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0s"},
		{time.Second, "1s"},
		{time.Hour, "1h0m0s"},
		{24 * time.Hour, "1d"},
		{25 * time.Hour, "1d1h0m0s"},
		{-24 * time.Hour, "-1d"},
		{500 * time.Millisecond, "500ms"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			result := formatDurationCompact(tc.input)
			if result != tc.expected {
				t.Errorf("For duration %v: expected '%s', got '%s'", tc.input, tc.expected, result)
			}
		})
	}
}
