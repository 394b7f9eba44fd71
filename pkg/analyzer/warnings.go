// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"fmt"
	"sort"

	"github.com/lily-lang/lily/pkg/token"
)

// Warning is a non-blocking analysis diagnostic: an unreachable match
// case, an unused local variable, or a declaration that shadows an
// outer binding (§7: "Warnings (unused case, unused variable, shadowed
// binding) never block compilation"). Unlike Error, a Warning never
// prevents a package from reaching MIR lowering.
type Warning struct {
	Loc token.Location
	Msg string
}

func (w *Warning) String() string { return fmt.Sprintf("%s: %s", w.Loc, w.Msg) }

// WarningList accumulates non-blocking diagnostics in the same
// append-and-sort shape ErrorList uses for blocking ones.
type WarningList []*Warning

func (l *WarningList) Add(loc token.Location, format string, args ...any) {
	*l = append(*l, &Warning{Loc: loc, Msg: fmt.Sprintf(format, args...)})
}

// Sorted returns the warnings ordered by source position, the same
// presentation order ErrorList.Err applies to errors.
func (l WarningList) Sorted() WarningList {
	sorted := make(WarningList, len(l))
	copy(sorted, l)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Loc.StartOffset < sorted[j].Loc.StartOffset })
	return sorted
}
