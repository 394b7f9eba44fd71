// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

import (
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/token"
)

// LowerStmt lowers one checked statement into the current block,
// possibly opening and closing further blocks along the way (§4.6
// "Statement lowering").
func (g *Generator) LowerStmt(s ast.Stmt, fc *FunContext, res *checkedExprLookup) {
	switch v := s.(type) {
	case *ast.ExprStmt:
		g.LowerExpr(v.X, fc, res)

	case *ast.BlockStmt:
		g.lowerBlockBody(v, fc, res)

	case *ast.VarDeclStmt:
		g.lowerVarDecl(v, fc, res)

	case *ast.IfStmt:
		g.lowerIf(v, fc, res)

	case *ast.WhileStmt:
		g.lowerWhile(v, fc, res)

	case *ast.ForStmt:
		g.lowerFor(v, fc, res)

	case *ast.MatchStmt:
		if sw, ok := res.res.Switches[v]; ok && sw != nil {
			g.lowerSwitch(sw, fc, res)
			return
		}
		g.lowerMatchFallback(v, fc, res)

	case *ast.SwitchStmt:
		g.lowerSwitch(v, fc, res)

	case *ast.ReturnStmt:
		g.lowerReturn(v, fc, res)

	case *ast.RaiseStmt:
		g.lowerRaise(v, fc, res)

	case *ast.TryCatchStmt:
		g.lowerTryCatch(v, fc, res)

	case *ast.BreakStmt:
		g.lowerBreak(v, fc)

	case *ast.NextStmt:
		g.lowerNext(v, fc)

	case *ast.UnsafeStmt:
		g.lowerBlockBody(v.Body, fc, res)

	case *ast.AwaitStmt:
		g.LowerExpr(v.Value, fc, res)

	case *ast.DropStmt:
		// No MIR-level effect: a drop only affects the analyzer's
		// lifetime bookkeeping, which has already run by this point.

	case *ast.DeferStmt:
		// Deferred statements are out of scope for this generator; the
		// teacher pipeline this is modeled on schedules them at scope
		// exit in a later lowering pass this compiler doesn't yet have.

	case *ast.AsmStmt:
		// Raw assembly passes through opaque; nothing to lower.

	default:
	}
}

// lowerBlockBody lowers every statement of blk in order into the
// current block, without opening a new block of its own — the caller
// decides whether a fresh block is needed (e.g. a loop body always
// gets one; a bare `do...end` doesn't).
func (g *Generator) lowerBlockBody(blk *ast.BlockStmt, fc *FunContext, res *checkedExprLookup) {
	for _, stmt := range blk.Stmts {
		g.LowerStmt(stmt, fc, res)
	}
}

func (g *Generator) lowerVarDecl(v *ast.VarDeclStmt, fc *FunContext, res *checkedExprLookup) {
	value := g.LowerExpr(v.Value, fc, res)
	ty := res.typeOf(v.Value)
	id := g.nextID(fc)
	fc.Builder.Emit(&VarDef{base: base2(id, v.Location), Name: v.Name, Type: g.LowerType(ty)})
	storeID := g.nextID(fc)
	fc.Builder.Emit(&Store{base: base2(storeID, v.Location), Ptr: VarVal{Name: v.Name}, Value: value})
	if fc.Locals == nil {
		fc.Locals = make(map[string]int)
	}
	fc.Locals[v.Name] = id
}

// lowerIf lowers every branch of an if/elif/else chain into a diamond
// of blocks converging on a single after-block (§4.6: "if lowers to
// jmpcond + then/else/after blocks").
func (g *Generator) lowerIf(v *ast.IfStmt, fc *FunContext, res *checkedExprLookup) {
	after := fc.Builder.NewBlock()
	entry := fc.Builder.Current()

	// parent has no terminator yet and is made current when chain(i,
	// parent) runs: it is the entry block on the first call, and after
	// that the previous branch's jmpcond targets it directly as its
	// else-block, so the body below can be emitted straight into it.
	var chain func(i int, parent *Block)
	chain = func(i int, parent *Block) {
		fc.Builder.SetCurrent(parent)
		if i >= len(v.Branches) {
			if v.Else != nil {
				g.lowerBlockBody(v.Else, fc, res)
			}
			jmpID := g.nextID(fc)
			fc.Builder.Emit(&Jmp{base: base2(jmpID, v.Location), Target: after.ID})
			return
		}

		branch := v.Branches[i]
		cond := g.LowerExpr(branch.Cond, fc, res)
		thenBlk := fc.Builder.NewBlock()
		nextBlk := fc.Builder.NewBlock()

		fc.Builder.SetCurrent(parent)
		jcID := g.nextID(fc)
		fc.Builder.Emit(&JmpCond{base: base2(jcID, branch.Cond.Loc()), Cond: cond, Then: thenBlk.ID, Else: nextBlk.ID})

		fc.Builder.SetCurrent(thenBlk)
		g.lowerBlockBody(branch.Body, fc, res)
		jmpID := g.nextID(fc)
		fc.Builder.Emit(&Jmp{base: base2(jmpID, v.Location), Target: after.ID})

		chain(i+1, nextBlk)
	}
	chain(0, entry)

	fc.Builder.SetCurrent(after)
}

// lowerWhile lowers `while cond do body end` into a header block that
// re-evaluates cond on every iteration, the body block, and an exit
// block the header's jmpcond falls through to (§4.6: "while/for lower
// to a header block plus a back-edge jmpcond").
func (g *Generator) lowerWhile(v *ast.WhileStmt, fc *FunContext, res *checkedExprLookup) {
	header := fc.Builder.NewBlock()
	jmpID := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(jmpID, v.Location), Target: header.ID})

	fc.Builder.SetCurrent(header)
	cond := g.LowerExpr(v.Cond, fc, res)
	body := fc.Builder.NewBlock()
	exit := fc.Builder.NewBlock()
	fc.Builder.SetCurrent(header)
	jcID := g.nextID(fc)
	fc.Builder.Emit(&JmpCond{base: base2(jcID, v.Location), Cond: cond, Then: body.ID, Else: exit.ID})

	fc.breakTargets = append(fc.breakTargets, exit.ID)
	fc.nextTargets = append(fc.nextTargets, header.ID)

	fc.Builder.SetCurrent(body)
	g.lowerBlockBody(v.Body, fc, res)
	backID := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(backID, v.Location), Target: header.ID})

	fc.breakTargets = fc.breakTargets[:len(fc.breakTargets)-1]
	fc.nextTargets = fc.nextTargets[:len(fc.nextTargets)-1]

	fc.Builder.SetCurrent(exit)
}

// lowerFor lowers `for name in iterable do body end` as an index-
// counted while loop over iterable's length: a hidden counter local
// drives a header comparing against `len(iterable)`, the body loads
// the current element into the loop binding before running.
func (g *Generator) lowerFor(v *ast.ForStmt, fc *FunContext, res *checkedExprLookup) {
	iterTy := res.typeOf(v.Iterable)
	elemTy := g.LowerType(elemTypeOf(iterTy))
	iterable := g.LowerExpr(v.Iterable, fc, res)

	counterName := "$for_" + v.Binding
	allocID := g.nextID(fc)
	fc.Builder.Emit(&VarDef{base: base2(allocID, v.Location), Name: counterName, Type: &Primitive{Kind: Usize}})
	initID := g.nextID(fc)
	fc.Builder.Emit(&Store{base: base2(initID, v.Location), Ptr: VarVal{Name: counterName}, Value: UintVal{Value: 0}})

	header := fc.Builder.NewBlock()
	jmpID := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(jmpID, v.Location), Target: header.ID})

	fc.Builder.SetCurrent(header)
	lenID := g.nextID(fc)
	length := g.emit(fc, &Len{base: base2(lenID, v.Location), Base: iterable})
	cmpID := g.nextID(fc)
	cond := g.emit(fc, &Cmp{base: base2(cmpID, v.Location), Op: InstCmpLt, Mode: ModeUnsigned, Left: VarVal{Name: counterName}, Right: length})

	body := fc.Builder.NewBlock()
	exit := fc.Builder.NewBlock()
	fc.Builder.SetCurrent(header)
	jcID := g.nextID(fc)
	fc.Builder.Emit(&JmpCond{base: base2(jcID, v.Location), Cond: cond, Then: body.ID, Else: exit.ID})

	fc.breakTargets = append(fc.breakTargets, exit.ID)
	fc.nextTargets = append(fc.nextTargets, header.ID)

	fc.Builder.SetCurrent(body)
	elemID := g.nextID(fc)
	fc.Builder.Emit(&VarDef{base: base2(elemID, v.Location), Name: v.Binding, Type: elemTy})
	getID := g.nextID(fc)
	elem := g.emit(fc, &GetArray{base: base2(getID, v.Location), Base: iterable, Index: VarVal{Name: counterName}, Type: elemTy})
	bindID := g.nextID(fc)
	fc.Builder.Emit(&Store{base: base2(bindID, v.Location), Ptr: VarVal{Name: v.Binding}, Value: elem})

	g.lowerBlockBody(v.Body, fc, res)

	incID := g.nextID(fc)
	one := g.emit(fc, &BinOp{base: base2(incID, v.Location), Op: InstAdd, Mode: ModeUnsigned, Left: VarVal{Name: counterName}, Right: UintVal{Value: 1}, Type: &Primitive{Kind: Usize}})
	storeIncID := g.nextID(fc)
	fc.Builder.Emit(&Store{base: base2(storeIncID, v.Location), Ptr: VarVal{Name: counterName}, Value: one})
	backID := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(backID, v.Location), Target: header.ID})

	fc.breakTargets = fc.breakTargets[:len(fc.breakTargets)-1]
	fc.nextTargets = fc.nextTargets[:len(fc.nextTargets)-1]

	fc.Builder.SetCurrent(exit)
}

func (g *Generator) lowerBreak(v *ast.BreakStmt, fc *FunContext) {
	if len(fc.breakTargets) == 0 {
		return
	}
	target := fc.breakTargets[len(fc.breakTargets)-1]
	id := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(id, v.Location), Target: target})
}

func (g *Generator) lowerNext(v *ast.NextStmt, fc *FunContext) {
	if len(fc.nextTargets) == 0 {
		return
	}
	target := fc.nextTargets[len(fc.nextTargets)-1]
	id := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(id, v.Location), Target: target})
}

func (g *Generator) lowerReturn(v *ast.ReturnStmt, fc *FunContext, res *checkedExprLookup) {
	if v.Value == nil {
		id := g.nextID(fc)
		fc.Builder.Emit(&Ret{base: base2(id, v.Location), Value: UnitVal{}})
		return
	}
	value := g.LowerExpr(v.Value, fc, res)
	id := g.nextID(fc)
	fc.Builder.Emit(&Ret{base: base2(id, v.Location), Value: value})
}

// lowerRaise lowers `raise expr` to a return of the wrapped error
// value. A can_raise function's checked return type is a result whose
// error side the analyzer already verified expr matches (§4.5.7), so
// at the MIR level raising is just returning that value through the
// function's existing single exit convention.
func (g *Generator) lowerRaise(v *ast.RaiseStmt, fc *FunContext, res *checkedExprLookup) {
	value := g.LowerExpr(v.Value, fc, res)
	id := g.nextID(fc)
	fc.Builder.Emit(&Ret{base: base2(id, v.Location), Value: value})
}

// lowerTryCatch lowers `try body catch name do catchBody end`. The body
// runs inline; catchBody is emitted into its own block bound to
// CatchName so it type-checks and its instructions exist in the
// function, ready for a later pass to wire the actual raised-value
// dispatch edge from each raising call site inside body into this
// block (§4.6: "try/catch lowers to a result-type match feeding the
// catch binding") — that edge isn't produced yet, so the block is
// reachable only once that wiring lands.
func (g *Generator) lowerTryCatch(v *ast.TryCatchStmt, fc *FunContext, res *checkedExprLookup) {
	g.lowerBlockBody(v.Body, fc, res)

	after := fc.Builder.NewBlock()
	catchBlk := fc.Builder.NewBlock()

	fc.Builder.SetCurrent(catchBlk)
	id := g.nextID(fc)
	fc.Builder.Emit(&VarDef{base: base2(id, v.Location), Name: v.CatchName, Type: &Primitive{Kind: Any}})
	g.lowerBlockBody(v.CatchBody, fc, res)
	jmpID := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(jmpID, v.Location), Target: after.ID})

	fc.Builder.SetCurrent(after)
}

// lowerSwitch lowers the analyzer's match -> switch rewrite (§4.5.6)
// into a Switch instruction: each compiler-level case becomes one
// SwitchCase, guarded sub-cases becoming an inner JmpCond chain inside
// the case's own block before falling into its body.
func (g *Generator) lowerSwitch(v *ast.SwitchStmt, fc *FunContext, res *checkedExprLookup) {
	subject := g.LowerExpr(v.Subject, fc, res)
	subjectTy := res.typeOf(v.Subject)
	entry := fc.Builder.Current()
	after := fc.Builder.NewBlock()

	cases := make([]SwitchCase, 0, len(v.Cases))
	var defaultBlk int = -1

	for _, c := range v.Cases {
		if c.Value.Kind == ast.SwitchCaseElse {
			blk := fc.Builder.NewBlock()
			g.lowerSwitchSubCases(c.SubCases, blk, after, fc, res)
			defaultBlk = blk.ID
			continue
		}
		blk := fc.Builder.NewBlock()
		g.lowerSwitchSubCases(c.SubCases, blk, after, fc, res)
		cases = append(cases, SwitchCase{Value: g.lowerLiteral(c.Value.Literal, subjectTy), Target: blk.ID})
	}

	if defaultBlk == -1 {
		defaultBlk = after.ID
	}

	fc.Builder.SetCurrent(entry)
	id := g.nextID(fc)
	fc.Builder.Emit(&Switch{base: base2(id, v.Location), Subject: subject, Cases: cases, Default: defaultBlk})

	fc.Builder.SetCurrent(after)
}

// lowerSwitchSubCases lowers one case's guarded sub-arms: each guard
// becomes an inner JmpCond to its own body block, falling through to
// the next sub-case on a failed guard, with the final unguarded
// sub-case (or guard failure) jumping to after.
func (g *Generator) lowerSwitchSubCases(subs []ast.SwitchSubCase, entry, after *Block, fc *FunContext, res *checkedExprLookup) {
	for _, sub := range subs {
		fc.Builder.SetCurrent(entry)
		if sub.Guard == nil {
			g.LowerStmt(sub.Body, fc, res)
			jmpID := g.nextID(fc)
			fc.Builder.Emit(&Jmp{base: base2(jmpID, sub.Body.Loc()), Target: after.ID})
			return
		}
		cond := g.LowerExpr(sub.Guard, fc, res)
		bodyBlk := fc.Builder.NewBlock()
		nextBlk := fc.Builder.NewBlock()
		fc.Builder.SetCurrent(entry)
		jcID := g.nextID(fc)
		fc.Builder.Emit(&JmpCond{base: base2(jcID, sub.Guard.Loc()), Cond: cond, Then: bodyBlk.ID, Else: nextBlk.ID})

		fc.Builder.SetCurrent(bodyBlk)
		g.LowerStmt(sub.Body, fc, res)
		jmpID := g.nextID(fc)
		fc.Builder.Emit(&Jmp{base: base2(jmpID, sub.Body.Loc()), Target: after.ID})

		entry = nextBlk
	}
	fc.Builder.SetCurrent(entry)
	jmpID := g.nextID(fc)
	fc.Builder.Emit(&Jmp{base: base2(jmpID, token.Location{}), Target: after.ID})
}

// lowerMatchFallback handles the rare case where the analyzer left a
// MatchStmt un-rewritten (res.Switches holds no entry): the subject is
// still evaluated for its side effects and control falls through to an
// else arm if present, since full pattern-to-switch compilation only
// happens in the analyzer.
func (g *Generator) lowerMatchFallback(v *ast.MatchStmt, fc *FunContext, res *checkedExprLookup) {
	g.LowerExpr(v.Subject, fc, res)
	for _, c := range v.Cases {
		if _, ok := c.Pattern.(*ast.WildcardPattern); ok && c.Guard == nil {
			g.LowerStmt(c.Body, fc, res)
			return
		}
	}
}
