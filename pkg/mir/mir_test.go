// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/analyzer"
	"github.com/lily-lang/lily/pkg/checked"
	"github.com/lily-lang/lily/pkg/parser"
	"github.com/lily-lang/lily/pkg/preparser"
	"github.com/lily-lang/lily/pkg/scanner"
	"github.com/lily-lang/lily/pkg/token"
)

func lower(t *testing.T, src string) (*Module, *analyzer.Result) {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile(token.NewSourceFile("t.lily", "t.lily", []byte(src)))
	toks, err := scanner.Run(fs, f)
	require.NoError(t, err)

	info := preparser.Run(toks)
	decls, parseErrs := parser.Run(info)
	require.Empty(t, parseErrs)

	ops := checked.NewOperatorRegister()
	ops.CopyDefaults(analyzer.DefaultOperators())
	res, errs := analyzer.Run(decls, ops, "main")
	require.Empty(t, errs)

	mod := NewModule()
	require.NoError(t, Generate(mod, res))
	return mod, res
}

// everyBlockTerminated walks every function on mod and asserts the
// generator upheld Block's own stated invariant: every block has
// exactly one terminator by the time lowering finishes.
func everyBlockTerminated(t *testing.T, mod *Module) {
	t.Helper()
	for _, top := range mod.Ordered() {
		fn, ok := top.(*Function)
		if !ok {
			continue
		}
		for _, blk := range fn.Blocks {
			require.NotNilf(t, blk.Terminator, "function %s block %d has no terminator", fn.GlobalName, blk.ID)
		}
	}
}

// everyJumpResolves asserts that every jmp/jmpcond/switch target names
// a block that actually exists within the same function.
func everyJumpResolves(t *testing.T, mod *Module) {
	t.Helper()
	for _, top := range mod.Ordered() {
		fn, ok := top.(*Function)
		if !ok {
			continue
		}
		ids := make(map[int]bool, len(fn.Blocks))
		for _, blk := range fn.Blocks {
			ids[blk.ID] = true
		}
		for _, blk := range fn.Blocks {
			switch term := blk.Terminator.(type) {
			case *Jmp:
				require.Truef(t, ids[term.Target], "function %s: jmp targets unknown block %d", fn.GlobalName, term.Target)
			case *JmpCond:
				require.Truef(t, ids[term.Then], "function %s: jmpcond then targets unknown block %d", fn.GlobalName, term.Then)
				require.Truef(t, ids[term.Else], "function %s: jmpcond else targets unknown block %d", fn.GlobalName, term.Else)
			case *Switch:
				require.Truef(t, ids[term.Default], "function %s: switch default targets unknown block %d", fn.GlobalName, term.Default)
				for _, c := range term.Cases {
					require.Truef(t, ids[c.Target], "function %s: switch case targets unknown block %d", fn.GlobalName, c.Target)
				}
			}
		}
	}
}

func TestLowerIfProducesConvergingDiamond(t *testing.T) {
	mod, _ := lower(t, "fun f(x: I64) -> I64 = if x > 0i64 do return 1i64 else return 0i64 end end")
	everyBlockTerminated(t, mod)
	everyJumpResolves(t, mod)

	top, ok := mod.Get("main.f")
	require.True(t, ok)
	fn := top.(*Function)
	require.GreaterOrEqual(t, len(fn.Blocks), 3)

	entry := fn.Blocks[0]
	jc, ok := entry.Terminator.(*JmpCond)
	require.True(t, ok, "entry block must end in a two-way branch")
	require.NotEqual(t, jc.Then, jc.Else)
}

func TestLowerCallMonomorphizesDistinctArgTypes(t *testing.T) {
	mod, _ := lower(t, `
fun identity[T](x: T) -> T = return x end

fun f() -> I64 =
  val a = identity(1i64)
  val b = identity(1.0f64)
  return a
end
`)
	everyBlockTerminated(t, mod)
	everyJumpResolves(t, mod)

	top, ok := mod.Get("main.f")
	require.True(t, ok)
	fn := top.(*Function)

	var callees []string
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			if call, ok := inst.(*Call); ok {
				callees = append(callees, call.Callee)
			}
		}
	}
	require.Len(t, callees, 2)
	require.NotEqual(t, callees[0], callees[1])

	for _, callee := range callees {
		top, ok := mod.Get(callee)
		require.Truef(t, ok, "callee %q must resolve to a module entry", callee)
		_, isFun := top.(*Function)
		require.Truef(t, isFun, "callee %q must resolve to a defined function, not a bare prototype", callee)
	}

	_, bareStillPresent := mod.Get("main.identity")
	require.False(t, bareStillPresent, "a generic declaration must not itself occupy the module under its bare name")
}

// TestLowerCallResolvesOrdinaryParameterizedFunction guards against a
// call to an ordinary (non-generic) parameterized function producing
// a dangling Callee: the module must define the call's target under
// exactly the key the call site references.
func TestLowerCallResolvesOrdinaryParameterizedFunction(t *testing.T) {
	mod, _ := lower(t, `
fun add(x: I64, y: I64) -> I64 = return x + y end

fun f() -> I64 = return add(1i64, 2i64) end
`)
	everyBlockTerminated(t, mod)
	everyJumpResolves(t, mod)

	top, ok := mod.Get("main.f")
	require.True(t, ok)
	fn := top.(*Function)

	var callee string
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			if call, ok := inst.(*Call); ok {
				callee = call.Callee
			}
		}
	}
	require.Equal(t, "main.add", callee)

	target, ok := mod.Get(callee)
	require.True(t, ok, "add's call site must resolve to a module entry")
	_, isFun := target.(*Function)
	require.True(t, isFun, "add's call site must resolve to its defined function, not a prototype")
}

func TestLowerWhileLoopBackEdge(t *testing.T) {
	mod, _ := lower(t, `
fun f() -> I64 =
  mut i = 0i64
  while i < 10i64 do
    i = i + 1i64
  end
  return i
end
`)
	everyBlockTerminated(t, mod)
	everyJumpResolves(t, mod)

	top, ok := mod.Get("main.f")
	require.True(t, ok)
	fn := top.(*Function)

	foundBackEdge := false
	for i, blk := range fn.Blocks {
		if jmp, ok := blk.Terminator.(*Jmp); ok && jmp.Target <= i {
			foundBackEdge = true
		}
	}
	require.True(t, foundBackEdge, "while loop must lower to a block whose back-edge targets an earlier block")
}

func TestDebugInfoManagerInternsStructuralDuplicates(t *testing.T) {
	mgr := NewDebugInfoManager()
	a := mgr.Add(&DebugNode{Kind: DebugFile, Name: "t.lily", File: "t.lily"})
	b := mgr.Add(&DebugNode{Kind: DebugFile, Name: "t.lily", File: "t.lily"})
	require.Equal(t, a.ID, b.ID, "two structurally equal nodes must intern to the same ID")

	c := mgr.Add(&DebugNode{Kind: DebugFile, Name: "other.lily", File: "other.lily"})
	require.NotEqual(t, a.ID, c.ID)
}

func TestLowerRecordConstruction(t *testing.T) {
	mod, _ := lower(t, `
record Point = { x: I64, y: I64 }

fun f() -> I64 =
  val p = Point{x = 1i64, y = 2i64}
  return p.x
end
`)
	everyBlockTerminated(t, mod)
	everyJumpResolves(t, mod)

	_, ok := mod.Get("main.Point")
	require.True(t, ok, "record declaration must lower to a top-level struct definition")
}
