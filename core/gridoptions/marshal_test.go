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

package gridoptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/gridbridge/core/jscode"
)

func TestWalkVisitsEveryLeafOnce(t *testing.T) {
	shared := map[string]any{"v": 1}
	tree := map[string]any{
		"a": []any{1, 2, map[string]any{"b": []any{3}}},
		"c": []map[string]any{{"d": 4}},
		"e": shared,
		"f": []any{shared},
		"g": "s",
	}

	count := 0
	out, err := Walk(tree, func(leaf any) (any, error) {
		count++
		if n, ok := leaf.(int); ok {
			return n * 10, nil
		}
		return leaf, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	m := out.(map[string]any)
	assert.Equal(t, []any{10, 20, map[string]any{"b": []any{30}}}, m["a"])
	assert.Equal(t, []any{map[string]any{"d": 40}}, m["c"])
	assert.Equal(t, 1, shared["v"], "input must not change")
}

func TestWalkDeepNesting(t *testing.T) {
	var node any = "leaf"
	for i := 0; i < 10000; i++ {
		node = []any{node}
	}
	_, err := Walk(node, identity)
	assert.NoError(t, err)
}

func TestWalkRejectsCycles(t *testing.T) {
	m := map[string]any{}
	m["inner"] = map[string]any{"back": m}
	_, err := Walk(m, identity)
	assert.ErrorIs(t, err, ErrCycle)

	l := make([]any, 1)
	l[0] = l
	_, err = Walk(l, identity)
	assert.ErrorIs(t, err, ErrCycle)

	_, err = Marshal(Options{"columnDefs": []any{m}})
	assert.ErrorIs(t, err, ErrCycle)
}

func TestMarshal(t *testing.T) {
	opts := Options{
		"rowHeight": 30,
		"columnDefs": []any{
			map[string]any{"field": "x", "valueFormatter": jscode.New("p => p.value + '%'")},
			map[string]any{"field": "y", "cellRenderer": jscode.New("function(p) { return p.value; }").Token()},
		},
		"title": "a <b>",
		"empty": jscode.Code{},
	}
	out, err := Marshal(opts)
	require.NoError(t, err)
	assert.Equal(t,
		`{"columnDefs":[{"field":"x","valueFormatter":function(p) { return p.value + '%'; }},`+
			`{"cellRenderer":function(p) { return p.value; },"field":"y"}],`+
			`"empty":null,"rowHeight":30,"title":"a \u003cb\u003e"}`,
		string(out))

	again, err := Marshal(opts)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestMarshalCodePointers(t *testing.T) {
	code := jscode.New("p => p.value")
	var none *jscode.Code
	out, err := Marshal(map[string]any{"getter": &code, "unset": none})
	require.NoError(t, err)
	assert.Equal(t, `{"getter":function(p) { return p.value; },"unset":null}`, string(out))

	assert.True(t, ContainsScript(map[string]any{"getter": &code}))
	assert.False(t, ContainsScript(map[string]any{"unset": none}))
}

func TestReplaceCodeAndContainsScript(t *testing.T) {
	code := jscode.New("p => p")
	opts := map[string]any{"columnDefs": []any{map[string]any{"valueGetter": code}}}
	assert.True(t, ContainsScript(opts))
	assert.False(t, ContainsScript(map[string]any{"a": []any{"plain"}}))

	replaced, err := ReplaceCode(opts)
	require.NoError(t, err)
	getter := replaced.(map[string]any)["columnDefs"].([]any)[0].(map[string]any)["valueGetter"]
	assert.Equal(t, code.Token(), getter)
	assert.True(t, ContainsScript(replaced))
}

func TestFunctions(t *testing.T) {
	format := jscode.New("function(p) { return p.value; }")
	opts := Options{
		"getRowId": jscode.New("params => params.data.id"),
		"columnDefs": []any{
			map[string]any{"field": "a"},
			map[string]any{"field": "b", "valueFormatter": format.Token()},
		},
		"pagination": true,
	}

	fns, err := Functions(opts)
	require.NoError(t, err)
	assert.Len(t, fns, 2)
	assert.Equal(t, format.Token(), fns["columnDefs.1.valueFormatter"])
	assert.Contains(t, fns, "getRowId")

	out, err := Marshal(fns)
	require.NoError(t, err)
	assert.Equal(t, `{"columnDefs.1.valueFormatter":function(p) { return p.value; },"getRowId":function(params) { return params.data.id; }}`, string(out))

	none, err := Functions(Options{"pagination": true})
	require.NoError(t, err)
	assert.Empty(t, none)
}
