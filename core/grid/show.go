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

package grid

import (
	"context"

	"github.com/google/gridbridge/core/data"
	"github.com/google/gridbridge/core/response"
)

// Renderer shows a grid to the user and returns the widget's latest payload,
// or nil when the user has not interacted with it yet.
type Renderer interface {
	Render(ctx context.Context, g *Grid) ([]byte, error)
}

const unsafeJSHint = ". If using custom JS code, set AllowUnsafeJS to true."

// RenderError wraps a failure of the renderer. When unsafe JavaScript was not
// allowed the message carries a hint on how to allow it.
type RenderError struct {
	Err  error
	Hint string
}

func (e *RenderError) Error() string {
	return e.Err.Error() + e.Hint
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Show builds the grid, renders it and decodes the widget payload back into
// the shape of in.
func Show(ctx context.Context, r Renderer, in data.Input, p Params) (response.Result, error) {
	g, err := New(in, p)
	if err != nil {
		return response.Result{}, err
	}

	payload, err := r.Render(ctx, g)
	if err != nil {
		rerr := &RenderError{Err: err}
		if !g.AllowUnsafeJS {
			rerr.Hint = unsafeJSHint
		}
		return response.Result{}, rerr
	}

	return response.Decode(in, payload, response.Options{
		Convert: g.Convert,
		Errors:  g.ErrorPolicy,
	})
}
