// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package precompiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lily-lang/lily/pkg/token"
)

// Error is a single precompiler error: an unresolved import, an import
// cycle, or a package that could not be loaded from disk.
type Error struct {
	Loc token.Location
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Loc, e.Msg) }

// ErrorList accumulates precompiler errors without aborting the walk.
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
