// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lily-lang/lily/pkg/token"
)

// Error is a single recoverable analysis error: an unknown name, a
// type mismatch, an ambiguous overload, a duplicate operator
// signature, a duplicate match case, an exhaustiveness hole, or a
// raise outside a can_raise function (§7). An unreachable match case,
// by contrast, is a Warning: it never blocks compilation.
type Error struct {
	Loc token.Location
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Loc, e.Msg) }

// ErrorList accumulates analysis errors without aborting the pass;
// each pass keeps going where locally possible, the same recovery
// discipline the scanner and parser use.
type ErrorList []*Error

func (l *ErrorList) Add(loc token.Location, format string, args ...any) {
	*l = append(*l, &Error{Loc: loc, Msg: fmt.Sprintf(format, args...)})
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
