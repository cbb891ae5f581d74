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

package jscode

import "encoding/json"

// DateFormatter returns a value formatter that renders a cell as a local
// date string. locale is passed to toLocaleDateString; empty means the
// browser default.
func DateFormatter(locale string) Code {
	loc := "undefined"
	if locale != "" {
		b, _ := json.Marshal(locale)
		loc = string(b)
	}
	return New(`(params) => {
    if (!params.value) { return params.value; }
    const d = new Date(params.value);
    if (isNaN(d.getTime())) { return params.value; }
    return d.toLocaleDateString(` + loc + `);
}`)
}

// NumberFormatter returns a value formatter for numeric cells. With
// commaSep the integer part is grouped by thousands.
func NumberFormatter(commaSep bool) Code {
	if commaSep {
		return New(`(params) => {
    if (params.value == null) { return params.value; }
    return Math.floor(params.value).toString().replace(/(\d)(?=(\d{3})+(?!\d))/g, '$1,');
}`)
	}
	return New(`(params) => {
    if (params.value == null) { return params.value; }
    return Number(params.value);
}`)
}
