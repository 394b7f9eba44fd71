// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package checked holds the resolved (post-analysis) data-type,
// scope-graph, and signature model: the parallel variant set §3
// describes alongside the parser's AstDataType, plus the
// analysis-only variants (custom, compiler-choice, compiler-generic,
// conditional-compiler-choice, unknown) that only exist once name
// resolution and overload resolution have run.
package checked

import "github.com/lily-lang/lily/pkg/ast"

// DataType is the sum type over every resolved data-type variant.
// Unlike ast.DataType, a DataType here is always fully resolved or
// explicitly marked unknown/in-flight (compiler-choice, -generic) —
// there is no "still just a name" variant.
type DataType interface {
	CheckedKind() Kind
	Locked() bool
	Lock()
}

// Kind tags which concrete DataType variant a value holds.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindLambda
	KindList
	KindQualifier
	KindOptional
	KindResult
	KindTuple
	KindCustom
	KindCompilerChoice
	KindCompilerGeneric
	KindConditionalCompilerChoice
	KindUnknown
)

// base embeds the is_lock flag every variant carries (§3: "Each
// carries a is_lock flag used by the analyzer to freeze inference
// after a decision").
type base struct {
	locked bool
}

func (b *base) Locked() bool { return b.locked }
func (b *base) Lock()        { b.locked = true }

// Primitive is a resolved scalar type; the kind enumeration is shared
// with ast.Primitive since scalar resolution never changes the kind,
// only freezes it.
type Primitive struct {
	base
	Kind ast.Primitive
}

func (*Primitive) CheckedKind() Kind { return KindPrimitive }

// Array mirrors ast.ArrayType once Elem is resolved.
type Array struct {
	base
	Shape ast.ArrayShape
	Elem  DataType
	Size  int
}

func (*Array) CheckedKind() Kind { return KindArray }

// Lambda mirrors ast.LambdaType once its parameters and return are
// resolved.
type Lambda struct {
	base
	Params []DataType
	Return DataType
}

func (*Lambda) CheckedKind() Kind { return KindLambda }

// List mirrors ast.ListType once Elem is resolved.
type List struct {
	base
	Elem DataType
}

func (*List) CheckedKind() Kind { return KindList }

// Qualifier mirrors ast.QualifierType once Inner is resolved.
type Qualifier struct {
	base
	Qualifier ast.Qualifier
	Inner     DataType
}

func (*Qualifier) CheckedKind() Kind { return KindQualifier }

// Optional mirrors ast.OptionalType once Inner is resolved.
type Optional struct {
	base
	Inner DataType
}

func (*Optional) CheckedKind() Kind { return KindOptional }

// Result mirrors ast.ResultType once Ok/Errors are resolved.
type Result struct {
	base
	Ok     DataType
	Errors []DataType
}

func (*Result) CheckedKind() Kind { return KindResult }

// Tuple mirrors ast.TupleType once Elems are resolved. A zero-length
// tuple never occurs here — §8's boundary rule ("zero-length tuple is
// unit, not a tuple of one") is enforced by the analyzer constructing
// a Primitive{Kind: ast.PrimUnit} instead of an empty Tuple.
type Tuple struct {
	base
	Elems []DataType
}

func (*Tuple) CheckedKind() Kind { return KindTuple }

// CustomEntryKind distinguishes the declaration kinds a Custom type
// may resolve to (§3: "kind (record / enum / record-object /
// enum-object / class / trait / generic-parameter)").
type CustomEntryKind int

const (
	CustomRecord CustomEntryKind = iota
	CustomEnum
	CustomRecordObject
	CustomEnumObject
	CustomClass
	CustomTrait
	CustomGenericParam
)

// Custom is a resolved reference to a user declaration: the scope it
// was found in, how it was reached (direct vs. through an access
// chain), its canonical names, and any generic arguments applied at
// the use site.
type Custom struct {
	base
	ScopeID    ScopeID
	ScopeAccess string // e.g. qualifying module path used to reach it, "" if direct
	Name       string
	GlobalName string
	Generics   []DataType
	EntryKind  CustomEntryKind
}

func (*Custom) CheckedKind() Kind { return KindCustom }

// CompilerChoice holds the candidate set of concrete types an
// unconstrained operand may still resolve to during overload
// resolution (§4.5.4). It is never itself a final type: the analyzer
// must narrow it to one concrete DataType before MIR lowering.
type CompilerChoice struct {
	base
	Candidates []DataType
}

func (*CompilerChoice) CheckedKind() Kind { return KindCompilerChoice }

// CompilerGeneric is a fresh unification variable produced during
// generic-call monomorphization, keyed by a compiler-generated name.
// Per design note §9, the binding lives in a side table
// (TypeVarTable), not inside the variant itself — unification mutates
// the table, never the DataType's fields.
type CompilerGeneric struct {
	base
	Name string
}

func (*CompilerGeneric) CheckedKind() Kind { return KindCompilerGeneric }

// ConditionalCase is one (operand-types -> return-type) condition of a
// ConditionalCompilerChoice.
type ConditionalCase struct {
	Params []DataType
	Return DataType
}

// ConditionalCompilerChoice is the return type of an overloaded
// operator/function whose return depends on which candidate signature
// wins (§4.5.4's typecheck_binary / §3).
type ConditionalCompilerChoice struct {
	base
	Cases      []ConditionalCase
	Candidates []DataType
}

func (*ConditionalCompilerChoice) CheckedKind() Kind { return KindConditionalCompilerChoice }

// Unknown is the error sentinel produced when resolution fails; it
// lets downstream passes continue without a nil DataType.
type Unknown struct {
	base
}

func (*Unknown) CheckedKind() Kind { return KindUnknown }

// TypeVarTable maps a CompilerGeneric's name to its current binding,
// or no entry at all if still unbound (design note §9).
type TypeVarTable struct {
	bindings map[string]DataType
}

// NewTypeVarTable returns an empty binding table.
func NewTypeVarTable() *TypeVarTable {
	return &TypeVarTable{bindings: make(map[string]DataType)}
}

// Bind records ty as the current binding for name, overwriting any
// prior binding (unification may tighten a binding as more operand
// types become known).
func (t *TypeVarTable) Bind(name string, ty DataType) {
	t.bindings[name] = ty
}

// Lookup returns the current binding for name, or (nil, false) if
// still unbound.
func (t *TypeVarTable) Lookup(name string) (DataType, bool) {
	ty, ok := t.bindings[name]
	return ty, ok
}

// IsSigned reports whether p is one of the signed integer primitives,
// mirroring the MIR-level is_signed(T) predicate (§3) one layer up so
// the analyzer can pick signed/unsigned operator candidates before
// lowering.
func IsSigned(p ast.Primitive) bool {
	switch p {
	case ast.PrimInt8, ast.PrimInt16, ast.PrimInt32, ast.PrimInt64, ast.PrimIsize:
		return true
	default:
		return false
	}
}

// IsInteger reports whether p is any integer primitive, signed or
// unsigned.
func IsInteger(p ast.Primitive) bool {
	switch p {
	case ast.PrimInt8, ast.PrimInt16, ast.PrimInt32, ast.PrimInt64, ast.PrimIsize,
		ast.PrimUint8, ast.PrimUint16, ast.PrimUint32, ast.PrimUint64, ast.PrimUsize:
		return true
	default:
		return false
	}
}

// IsFloat reports whether p is a floating-point primitive.
func IsFloat(p ast.Primitive) bool {
	return p == ast.PrimFloat32 || p == ast.PrimFloat64
}
