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

// Package jscode wraps user supplied JavaScript so that it can travel inside
// grid options as an ordinary string and be spliced back unquoted when the
// options are written out for the widget.
package jscode

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Sentinel marks both ends of an encoded snippet.
const Sentinel = "--x_x--0_0--"

var (
	blockArrow = regexp.MustCompile(`\(([^()]*)\)\s*=>\s*\{`)
	identArrow = regexp.MustCompile(`(^|[^\w$.])([A-Za-z_$][\w$]*)\s*=>\s*\{`)
	// exprArrow only matches when the whole snippet is one arrow function
	// with an expression body.
	exprArrow = regexp.MustCompile(`(?s)^\s*(?:\(([^()]*)\)|([A-Za-z_$][\w$]*))\s*=>\s*([^{\s].*?)\s*;?\s*$`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Code is an encoded snippet. The zero value is an empty snippet.
type Code struct {
	original string
	token    string
}

// New normalizes code into a single line and wraps it in sentinels. Arrow
// functions are rewritten as function expressions, comments are dropped and
// whitespace runs become single spaces. Any text is accepted.
func New(code string) Code {
	js := rewriteArrows(stripComments(code))
	js = collapseOutsideStrings(js)
	js = strings.TrimSpace(whitespace.ReplaceAllString(js, " "))
	return Code{original: code, token: Sentinel + js + Sentinel}
}

// String returns the code as it was given to New.
func (c Code) String() string {
	return c.original
}

// Token returns the sentinel wrapped one-liner.
func (c Code) Token() string {
	if c.token == "" {
		return Sentinel + Sentinel
	}
	return c.token
}

// OneLiner returns the normalized code without sentinels.
func (c Code) OneLiner() string {
	s, _ := Unwrap(c.Token())
	return s
}

// MarshalJSON encodes the token as a JSON string.
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Token())
}

// IsToken reports whether s is a sentinel wrapped snippet.
func IsToken(s string) bool {
	_, ok := Unwrap(s)
	return ok
}

// Unwrap strips the sentinels from a token.
func Unwrap(s string) (string, bool) {
	if len(s) < 2*len(Sentinel) || !strings.HasPrefix(s, Sentinel) || !strings.HasSuffix(s, Sentinel) {
		return "", false
	}
	return s[len(Sentinel) : len(s)-len(Sentinel)], true
}

func rewriteArrows(code string) string {
	if m := exprArrow.FindStringSubmatch(code); m != nil {
		params := m[1]
		if m[2] != "" {
			params = m[2]
		}
		body := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[3]), ";"))
		code = "function(" + strings.TrimSpace(params) + ") { return " + body + "; }"
	}
	code = blockArrow.ReplaceAllString(code, "function($1) {")
	return identArrow.ReplaceAllString(code, "${1}function($2) {")
}

// stripComments replaces every JavaScript comment in code with a space.
// Snippets are usually bare function expressions, which only parse cleanly
// inside parentheses, so that form is tried first.
func stripComments(code string) string {
	if !strings.Contains(code, "/") {
		return code
	}
	spans, ok := commentSpans("("+code+"\n)", 1, len(code))
	if !ok {
		spans, _ = commentSpans(code, 0, len(code))
	}
	if len(spans) == 0 {
		return code
	}

	var sb strings.Builder
	sb.Grow(len(code))
	last := 0
	for _, sp := range spans {
		sb.WriteString(code[last:sp[0]])
		sb.WriteByte(' ')
		last = sp[1]
	}
	sb.WriteString(code[last:])
	return sb.String()
}

// commentSpans parses src and returns the byte ranges of its comment nodes,
// shifted left by offset and dropped when they fall outside [0, limit). ok is
// false when the parse recovered from a syntax error.
func commentSpans(src string, offset, limit int) (spans [][2]int, ok bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return nil, false
	}
	defer tree.Close()

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			start, end := int(n.StartByte())-offset, int(n.EndByte())-offset
			if start >= 0 && end <= limit {
				spans = append(spans, [2]int{start, end})
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	root := tree.RootNode()
	walk(root)
	return spans, !root.HasError()
}

// collapseOutsideStrings replaces whitespace runs that are not inside a
// quoted literal with a single space. Literals keep their contents.
func collapseOutsideStrings(code string) string {
	var sb strings.Builder
	sb.Grow(len(code))

	var quote rune
	escaped := false
	inSpace := false
	for _, r := range code {
		if quote != 0 {
			sb.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}
		if isSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		if r == '\'' || r == '"' || r == '`' {
			quote = r
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
