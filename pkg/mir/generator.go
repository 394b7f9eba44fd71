// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

import (
	"sort"
	"time"

	"github.com/lily-lang/lily/internal/pipemetrics"
	"github.com/lily-lang/lily/pkg/analyzer"
	"github.com/lily-lang/lily/pkg/ast"
)

// Generate lowers every function one package's analysis produced into
// mod, in a deterministic order (sorted by global name, not map
// iteration order — the same determinism rationale as Module's own
// insertion order) so two runs over unchanged input produce an
// identical instruction stream (§4.6's "walks the checked tree").
func Generate(mod *Module, res *analyzer.Result) error {
	start := time.Now()
	defer func() { pipemetrics.ObserveLower(time.Since(start)) }()

	g := NewGenerator(mod, res)

	names := make([]string, 0, len(res.Functions))
	for name := range res.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		fn := res.Functions[name]
		if fn.Decl != nil && len(fn.Decl.Generics) > 0 {
			// A generic declaration has no single MIR shape of its own:
			// each concrete argument-type combination is lowered lazily
			// from its call site instead (resolveCallee/instantiateGeneric
			// in lower_expr.go), one fun per distinct instantiation per
			// §8 scenario 6. A generic never called from this package
			// simply produces no MIR.
			continue
		}
		n, err := g.generateFunction(fn, fn.GlobalName)
		if err != nil {
			return err
		}
		total += n
	}
	pipemetrics.AddMIRInstructions(total + g.lazyInstructions)
	return nil
}

// generateFunction lowers one checked function's body into a Function
// top-level entry under key, registering it on the module before
// returning the number of instructions it emitted. key is usually
// fn.GlobalName; a generic instantiation passes its serialized,
// argument-type-specific key instead so the same declaration can be
// lowered more than once under distinct module entries.
func (g *Generator) generateFunction(fn *analyzer.CheckedFun, key string) (int, error) {
	if fn.Decl == nil {
		return 0, newUnreachable(fn.GlobalName, "checked function has no declaration")
	}
	params := make([]DataType, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = g.LowerType(p)
	}
	ret := g.LowerType(fn.Return)

	mfn := &Function{
		GlobalName: key,
		Linkage:    linkageOf(fn.Decl),
		Params:     params,
		Return:     ret,
		Generics:   copyGenerics(g.Generics),
		Locals:     map[string]int{},
	}

	g.Module.PushCurrent(key)
	defer g.Module.PopCurrent()

	builder := NewBuilder(mfn)
	fc := &FunContext{Builder: builder, Params: paramIndex(fn.Decl), Locals: map[string]int{}}
	builder.NewBlock()

	lookup := newCheckedExprLookup(g.Analysis)
	if fn.Decl != nil && fn.Decl.Body != nil {
		for _, stmt := range fn.Decl.Body.Stmts {
			g.LowerStmt(stmt, fc, lookup)
		}
	}
	ensureTerminated(builder, fc, ret)

	for name, id := range fc.Locals {
		mfn.Locals[name] = id
	}

	g.Module.Insert(key, mfn)

	count := 0
	for _, blk := range mfn.Blocks {
		count += len(blk.Instructions)
		if blk.Terminator != nil {
			count++
		}
	}
	return count, nil
}

// copyGenerics snapshots the generator's currently-active
// generic-parameter bindings onto the Function being built, so a
// monomorphized instance records the bindings it was lowered with
// independently of whatever instantiation runs next.
func copyGenerics(m map[string]DataType) map[string]DataType {
	out := make(map[string]DataType, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ensureTerminated closes out a function whose last lowered block
// fell through without a terminator: a unit-returning function gets
// the implicit `ret val::unit` §4.6 calls for; anything else is an
// analyzer-contract violation (every path through a non-unit function
// must return), closed with a `ret` of an undef value rather than
// left without a terminator.
func ensureTerminated(b *Builder, fc *FunContext, ret DataType) {
	cur := b.Current()
	if cur == nil || cur.Terminator != nil {
		return
	}
	id := fc.Builder.nextID()
	if isUnit(ret) {
		b.Emit(&Ret{base: base{ID: id}, Value: UnitVal{}})
		return
	}
	b.Emit(&Ret{base: base{ID: id}, Value: UndefVal{}})
}

func isUnit(t DataType) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == Unit
}

func linkageOf(decl *ast.FunDecl) Linkage {
	if decl != nil && decl.Pub {
		return LinkageExternal
	}
	return LinkageInternal
}

func paramIndex(decl *ast.FunDecl) map[string]int {
	m := make(map[string]int)
	if decl == nil {
		return m
	}
	for i, p := range decl.Params {
		m[p.Name] = i
	}
	return m
}
