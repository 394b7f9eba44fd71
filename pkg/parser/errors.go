// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lily-lang/lily/pkg/token"
)

// Error is a single recoverable parse error: an unexpected token, a
// missing closing delimiter, or a malformed construct.
type Error struct {
	Loc token.Location
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Loc, e.Msg) }

// ErrorList accumulates parse errors without aborting the parse; after
// each one the parser continues from the token where it failed, without
// skipping to a statement or declaration boundary.
type ErrorList []*Error

func (l *ErrorList) Add(loc token.Location, msg string) {
	*l = append(*l, &Error{Loc: loc, Msg: msg})
}

func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	sorted := make(ErrorList, len(l))
	copy(sorted, l)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Loc.StartOffset < sorted[j].Loc.StartOffset })
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
