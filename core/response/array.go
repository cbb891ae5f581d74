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

package response

import (
	"math"
	"sort"
	"strconv"

	"github.com/google/gridbridge/core/columns"
	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/options"
)

// toArray densifies the rows into float64 values. Values that are not
// numbers become NaN unless the policy is "raise" and conversion was asked
// for. A vector input with a single returned column stays a vector.
func (f *frame) toArray(in data.Array, opts Options) (data.Array, error) {
	names := arrayColumns(f.columns)

	out := data.Array{Rows: f.rows}
	if in.Is2D() || len(names) != 1 {
		out.Cols = len(names)
	}
	out.Data = make([]float64, 0, f.rows*len(names))
	for r := 0; r < f.rows; r++ {
		for _, name := range names {
			v := f.values[name][r]
			x, err := asFloat64(v)
			switch {
			case v == nil:
				x = math.NaN()
			case err != nil && opts.Convert && opts.Errors == options.ErrorsRaise:
				return data.Array{}, &CoercionError{Column: name, Row: r, Value: v, Kind: columns.KindNumeric, Err: err}
			case err != nil:
				x = math.NaN()
			}
			out.Data = append(out.Data, x)
		}
	}
	return out, nil
}

// arrayColumns orders positional column names numerically; any other names
// follow in the order the widget sent them.
func arrayColumns(names []string) []string {
	var positional, other []string
	for _, n := range names {
		if _, err := strconv.Atoi(n); err == nil {
			positional = append(positional, n)
		} else {
			other = append(other, n)
		}
	}
	sort.SliceStable(positional, func(i, j int) bool {
		a, _ := strconv.Atoi(positional[i])
		b, _ := strconv.Atoi(positional[j])
		return a < b
	})
	return append(positional, other...)
}
