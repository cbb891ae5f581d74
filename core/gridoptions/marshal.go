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
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/google/gridbridge/core/jscode"
)

// Marshal writes v as JSON with map keys sorted. Script tokens, whether
// stored as jscode.Code or as their token string, are written unquoted so
// the widget receives them as code.
func Marshal(v any) ([]byte, error) {
	tree, err := Walk(v, identity)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, node any) error {
	switch n := node.(type) {
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range sortedKeys(n) {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := encode(buf, n[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, v := range n {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case jscode.Code:
		writeCode(buf, n.OneLiner())
		return nil
	case *jscode.Code:
		if n == nil {
			buf.WriteString("null")
		} else {
			writeCode(buf, n.OneLiner())
		}
		return nil
	case string:
		if code, ok := jscode.Unwrap(n); ok {
			writeCode(buf, code)
			return nil
		}
	}
	out, err := json.Marshal(node)
	if err != nil {
		return err
	}
	buf.Write(out)
	return nil
}

func writeCode(buf *bytes.Buffer, code string) {
	if code == "" {
		buf.WriteString("null")
		return
	}
	buf.WriteString(code)
}

// ContainsScript reports whether any leaf of v is a script token.
func ContainsScript(v any) bool {
	found := false
	_, err := Walk(v, func(leaf any) (any, error) {
		switch l := leaf.(type) {
		case jscode.Code:
			found = true
		case *jscode.Code:
			if l != nil {
				found = true
			}
		case string:
			if jscode.IsToken(l) {
				found = true
			}
		}
		return leaf, nil
	})
	return found && err == nil
}

// Functions returns the script leaves of v keyed by their path, with map
// keys and list indices joined by dots. Values are token strings, so
// Marshal writes the result as an object of functions.
func Functions(v any) (map[string]any, error) {
	tree, err := Walk(v, identity)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	collectFunctions(tree, "", out)
	return out, nil
}

func collectFunctions(node any, path string, out map[string]any) {
	child := func(key string) string {
		if path == "" {
			return key
		}
		return path + "." + key
	}
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			collectFunctions(v, child(k), out)
		}
	case []any:
		for i, v := range n {
			collectFunctions(v, child(strconv.Itoa(i)), out)
		}
	case jscode.Code:
		out[path] = n.Token()
	case *jscode.Code:
		if n != nil {
			out[path] = n.Token()
		}
	case string:
		if jscode.IsToken(n) {
			out[path] = n
		}
	}
}

// ReplaceCode swaps every jscode.Code leaf of v for its token string.
func ReplaceCode(v any) (any, error) {
	return Walk(v, func(leaf any) (any, error) {
		switch c := leaf.(type) {
		case jscode.Code:
			return c.Token(), nil
		case *jscode.Code:
			if c != nil {
				return c.Token(), nil
			}
		}
		return leaf, nil
	})
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
