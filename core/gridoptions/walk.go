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
	"errors"
	"reflect"
)

// ErrCycle is returned when a map or list contains itself.
var ErrCycle = errors.New("grid options contain a cycle")

// Walk rebuilds node bottom-up. Maps (map[string]any and Options) and lists
// ([]any and []map[string]any) are copied; every other value is passed to
// leaf and replaced by its result. There is no depth limit. A container
// that is its own ancestor makes Walk fail with ErrCycle.
func Walk(node any, leaf func(any) (any, error)) (any, error) {
	w := walker{leaf: leaf, active: map[uintptr]bool{}}
	return w.walk(node)
}

type walker struct {
	leaf   func(any) (any, error)
	active map[uintptr]bool
}

func (w *walker) enter(v any) (uintptr, error) {
	p := reflect.ValueOf(v).Pointer()
	if p == 0 {
		return 0, nil
	}
	if w.active[p] {
		return 0, ErrCycle
	}
	w.active[p] = true
	return p, nil
}

func (w *walker) leave(p uintptr) {
	if p != 0 {
		delete(w.active, p)
	}
}

func (w *walker) walk(node any) (any, error) {
	switch n := node.(type) {
	case Options:
		return w.walkMap(n)
	case map[string]any:
		return w.walkMap(n)
	case []map[string]any:
		list := make([]any, len(n))
		for i, m := range n {
			list[i] = m
		}
		p, err := w.enter(n)
		if err != nil {
			return nil, err
		}
		defer w.leave(p)
		return w.walkList(list)
	case []any:
		p, err := w.enter(n)
		if err != nil {
			return nil, err
		}
		defer w.leave(p)
		return w.walkList(n)
	}
	return w.leaf(node)
}

func (w *walker) walkMap(m map[string]any) (any, error) {
	if m == nil {
		return map[string]any(nil), nil
	}
	p, err := w.enter(m)
	if err != nil {
		return nil, err
	}
	defer w.leave(p)

	out := make(map[string]any, len(m))
	for k, v := range m {
		nv, err := w.walk(v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

func (w *walker) walkList(list []any) (any, error) {
	out := make([]any, len(list))
	for i, v := range list {
		nv, err := w.walk(v)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}

func identity(v any) (any, error) {
	return v, nil
}

// deepCopy copies every map and list in m.
func deepCopy(m map[string]any) (map[string]any, error) {
	out, err := Walk(m, identity)
	if err != nil {
		return nil, err
	}
	copied, _ := out.(map[string]any)
	return copied, nil
}
