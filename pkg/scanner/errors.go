// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lily-lang/lily/pkg/token"
)

// Error is a single lexical error: an unterminated literal, an invalid
// escape sequence, or an unrecognized character.
type Error struct {
	Loc token.Location
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

// ErrorList accumulates scanner errors without aborting the scan; a
// non-zero count at EOF suppresses downstream stages for that file.
type ErrorList []*Error

// Add appends a new error at loc.
func (l *ErrorList) Add(loc token.Location, msg string) {
	*l = append(*l, &Error{Loc: loc, Msg: msg})
}

// Err returns l as an error (nil if empty), sorted by position.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	sorted := make(ErrorList, len(l))
	copy(sorted, l)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Loc.StartOffset < sorted[j].Loc.StartOffset
	})
	return sorted
}

func (l ErrorList) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
