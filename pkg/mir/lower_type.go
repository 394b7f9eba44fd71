// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

import (
	"sort"

	"github.com/lily-lang/lily/pkg/analyzer"
	"github.com/lily-lang/lily/pkg/ast"
	"github.com/lily-lang/lily/pkg/checked"
)

// primMap is the straightforward primitive-to-primitive part of
// §4.6's data-type lowering table; the entries with a dedicated rule
// (bool, char, cstr, str, cvoid, bytes) are handled separately in
// LowerType since they don't map scalar-to-scalar.
var primMap = map[ast.Primitive]PrimKind{
	ast.PrimInt8: I8, ast.PrimInt16: I16, ast.PrimInt32: I32, ast.PrimInt64: I64, ast.PrimIsize: Isize,
	ast.PrimUint8: U8, ast.PrimUint16: U16, ast.PrimUint32: U32, ast.PrimUint64: U64, ast.PrimUsize: Usize,
	ast.PrimFloat32: F32, ast.PrimFloat64: F64,
	ast.PrimUnit: Unit, ast.PrimAny: Any,
}

// Generator carries the state type lowering needs beyond a single
// DataType: the struct definitions already emitted for custom types
// (so a second reference reuses the same struct_name instead of
// re-lowering fields), and the enclosing function's generic-parameter
// bindings (§4.6: "generic parameter -> look up binding from the
// current function's generic-parameter map").
type Generator struct {
	Module   *Module
	Analysis *analyzer.Result
	Records  map[string]*RecordLayout
	Generics map[string]DataType

	// lazyInstructions counts instructions emitted by generic
	// instantiations lowered on demand from a call site, outside
	// Generate's eager per-declaration loop.
	lazyInstructions int
}

// NewGenerator wires a fresh Generator over one package's analysis
// result, ready to lower its declarations into mod.
func NewGenerator(mod *Module, res *analyzer.Result) *Generator {
	return &Generator{Module: mod, Analysis: res, Records: make(map[string]*RecordLayout)}
}

// RecordLayout is the lowered field-type list behind one checked
// record/record-object's struct_name.
type RecordLayout struct {
	GlobalName string
	Fields     []DataType
}

// LowerType applies §4.6's structural mapping to one resolved checked
// data type.
func (g *Generator) LowerType(t checked.DataType) DataType {
	switch v := t.(type) {
	case *checked.Primitive:
		return g.lowerPrimitive(v.Kind)

	case *checked.Array:
		elem := g.LowerType(v.Elem)
		switch v.Shape {
		case ast.ArraySized:
			n := v.Size
			return &Array{Len: &n, Elem: elem}
		default:
			return &Array{Elem: elem}
		}

	case *checked.Lambda:
		// Lowered as an opaque function pointer at this level; callers
		// that need the signature read it back off checked.Lambda
		// directly rather than through the MIR type.
		return &Ptr{Elem: &Primitive{Kind: Unit}}

	case *checked.List:
		return &List{Elem: g.LowerType(v.Elem)}

	case *checked.Qualifier:
		inner := g.LowerType(v.Inner)
		switch v.Qualifier {
		case ast.QualPtr:
			return &Ptr{Elem: inner}
		case ast.QualRef:
			return &Ref{Elem: inner}
		case ast.QualTrace:
			return &Trace{Elem: inner}
		default: // QualMut carries no MIR-level distinction
			return inner
		}

	case *checked.Optional:
		// §9 Open Question decision: pass-through, same MIR type as the
		// inner type; None lowers to NilVal at the expression level.
		return g.LowerType(v.Inner)

	case *checked.Result:
		errTy := g.lowerErrors(v.Errors)
		return &Result{Ok: g.LowerType(v.Ok), Err: errTy}

	case *checked.Tuple:
		elems := make([]DataType, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = g.LowerType(e)
		}
		return &Struct{Elems: elems}

	case *checked.Custom:
		g.ensureRecordLayout(v)
		return &StructName{ID: v.GlobalName}

	case *checked.CompilerGeneric:
		if ty, ok := g.Generics[v.Name]; ok {
			return ty
		}
		return &Primitive{Kind: Any}

	default:
		// compiler-choice / conditional-compiler-choice / unknown: the
		// analyzer's contract (§4.5's "After run(analysis) completes
		// without errors, every AST node ... has a concrete ... type")
		// means this is only reached on an analyzer bug. The generator
		// surfaces it as the bottom `any` type rather than panicking, so
		// one bad node doesn't abort lowering the rest of the module;
		// no diagnostic is recorded for it.
		return &Primitive{Kind: Any}
	}
}

// lowerPrimitive applies the primitives with a dedicated rule before
// falling back to primMap's direct kind-to-kind mapping.
func (g *Generator) lowerPrimitive(p ast.Primitive) DataType {
	switch p {
	case ast.PrimBool:
		return &Primitive{Kind: I1}
	case ast.PrimChar:
		return &Primitive{Kind: U32}
	case ast.PrimCStr:
		return &Ptr{Elem: &Primitive{Kind: U8}}
	case ast.PrimStr:
		return &Struct{Elems: []DataType{&Ptr{Elem: &Primitive{Kind: U8}}, &Primitive{Kind: Isize}}}
	case ast.PrimCVoid:
		return &Primitive{Kind: Unit}
	case ast.PrimBytes:
		return &Ptr{Elem: &Primitive{Kind: U8}}
	}
	if kind, ok := primMap[p]; ok {
		return &Primitive{Kind: kind}
	}
	return &Primitive{Kind: Any}
}

// lowerErrors collapses a result type's error-variant list per §4.6:
// a single error lowers straight through; zero or multiple variants
// collapse into a tagged struct `{u8 tag, {err_variants...}}`.
func (g *Generator) lowerErrors(errs []checked.DataType) DataType {
	if len(errs) == 1 {
		return g.LowerType(errs[0])
	}
	variants := make([]DataType, len(errs))
	for i, e := range errs {
		variants[i] = g.LowerType(e)
	}
	return &Struct{Elems: []DataType{&Primitive{Kind: U8}, &Struct{Elems: variants}}}
}

// ensureRecordLayout lowers and registers c's field list as a
// top-level struct definition the first time this global name is
// seen, so repeated references reuse the same StructName without
// re-walking the checked record. Enum customs collapse to the same
// tagged-struct shape a multi-variant result error uses.
func (g *Generator) ensureRecordLayout(c *checked.Custom) {
	if _, ok := g.Records[c.GlobalName]; ok {
		return
	}
	// A placeholder is inserted before recursing so a self-referential
	// record (a field whose type is the record itself, behind a
	// pointer/ref qualifier) doesn't recurse infinitely.
	layout := &RecordLayout{GlobalName: c.GlobalName}
	g.Records[c.GlobalName] = layout

	switch c.EntryKind {
	case checked.CustomEnum, checked.CustomEnumObject:
		if enum, ok := g.Analysis.Enums[c.GlobalName]; ok {
			layout.Fields = g.lowerEnumLayout(enum)
		}
	default:
		if rec, ok := g.Analysis.Records[c.GlobalName]; ok {
			layout.Fields = g.lowerFieldOrder(rec)
		}
	}
	g.Module.Insert(c.GlobalName, &StructDef{GlobalName: c.GlobalName, Fields: layout.Fields})
}

// lowerFieldOrder lowers a record's field list in declaration order.
// CheckedRecord.Fields is keyed by name with no ordering of its own,
// so the positional order comes from the declaration's own field
// list; a class-derived CheckedRecord carries no Decl (seeding.go
// builds it straight from ast.ClassDecl.Fields without keeping the
// declaration pointer), so it falls back to a sorted-name order —
// deterministic, even though nothing in this compiler currently
// addresses a class's fields positionally by index.
func (g *Generator) lowerFieldOrder(rec *analyzer.CheckedRecord) []DataType {
	if rec.Decl != nil {
		out := make([]DataType, len(rec.Decl.Fields))
		for i, f := range rec.Decl.Fields {
			out[i] = g.LowerType(rec.Fields[f.Name])
		}
		return out
	}
	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]DataType, len(names))
	for i, name := range names {
		out[i] = g.LowerType(rec.Fields[name])
	}
	return out
}

// lowerEnumLayout collapses an enum's variant set into `{u8 tag,
// {variant payload structs...}}`, the same shape §4.6 uses for a
// multi-error result. Variant order follows the declaration's own
// list (CheckedEnum.Variants is keyed by name, with no ordering of
// its own) so the tag value assigned elsewhere stays stable.
func (g *Generator) lowerEnumLayout(enum *analyzer.CheckedEnum) []DataType {
	var order []string
	if enum.Decl != nil {
		for _, ev := range enum.Decl.Variants {
			order = append(order, ev.Name)
		}
	} else {
		for name := range enum.Variants {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	variants := make([]DataType, 0, len(order))
	for _, name := range order {
		payload := enum.Variants[name]
		elems := make([]DataType, len(payload))
		for i, p := range payload {
			elems[i] = g.LowerType(p)
		}
		variants = append(variants, &Struct{Elems: elems})
	}
	return []DataType{&Primitive{Kind: U8}, &Struct{Elems: variants}}
}
