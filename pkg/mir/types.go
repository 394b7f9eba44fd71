// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package mir holds the typed, SSA-like intermediate representation
// the analyzer's checked tree lowers into (§3's MirDataType /
// MirInstruction* family, §4.6's lowering rules): one MIR top-level
// instruction (fun, struct, const, fun_prototype) per declaration,
// organized into an insertion-ordered module alongside a de-duplicating
// debug-info interner.
package mir

// PrimKind enumerates the MIR-level scalar kinds (§3): every integer
// width, both floats, the scanner-visible `unit`/`any`, and the
// varargs marker `c_va_arg` a syscall/builtin-call's trailing
// parameter may carry.
type PrimKind int

const (
	I1 PrimKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Isize
	Usize
	F32
	F64
	Unit
	Any
	CVaArg
)

// IsSigned mirrors §3's `is_signed(T)` predicate, used to pick the
// signed/unsigned/float instruction variant during lowering.
func IsSigned(p PrimKind) bool {
	switch p {
	case I8, I16, I32, I64, Isize:
		return true
	default:
		return false
	}
}

// IsFloat reports whether p is one of the two MIR float kinds.
func IsFloat(p PrimKind) bool {
	return p == F32 || p == F64
}

// Kind tags which concrete DataType variant a value holds.
type Kind int

const (
	KindPrimitive Kind = iota
	KindPtr
	KindRef
	KindTrace
	KindList
	KindArray
	KindStr
	KindTuple
	KindStruct
	KindStructName
	KindResult
)

// DataType is the sum type over every MIR-level data-type variant
// (§3's MirDataType).
type DataType interface {
	MirKind() Kind
}

// Primitive is a bare scalar MIR type.
type Primitive struct{ Kind PrimKind }

func (*Primitive) MirKind() Kind { return KindPrimitive }

// Ptr is a raw untraced pointer (mutability is not tracked in MIR —
// §4.6: "ptr_mut/ref_mut map to the same MIR kinds as ptr/ref").
type Ptr struct{ Elem DataType }

func (*Ptr) MirKind() Kind { return KindPtr }

// Ref is a reference; distinguished from Ptr only for readability at
// this level, since both lower identically from ast.Qualifier.
type Ref struct{ Elem DataType }

func (*Ref) MirKind() Kind { return KindRef }

// Trace is a GC-traced pointer.
type Trace struct{ Elem DataType }

func (*Trace) MirKind() Kind { return KindTrace }

// List is a growable sequence type.
type List struct{ Elem DataType }

func (*List) MirKind() Kind { return KindList }

// Array is `array(len, T)`; Len is nil for the `undef` (unsized)
// length per §3.
type Array struct {
	Len  *int
	Elem DataType
}

func (*Array) MirKind() Kind { return KindArray }

// Str is `str(len)`; Len is nil for a dynamically-sized string.
type Str struct{ Len *int }

func (*Str) MirKind() Kind { return KindStr }

// Tuple is a positional aggregate. LowerType does not produce it:
// checked.Tuple lowers to Struct.
type Tuple struct{ Elems []DataType }

func (*Tuple) MirKind() Kind { return KindTuple }

// Struct is a named-or-anonymous positional aggregate; record, tuple,
// str and result-error lowering produce this shape.
type Struct struct{ Elems []DataType }

func (*Struct) MirKind() Kind { return KindStruct }

// StructName is a reference to a previously emitted top-level struct
// definition, keyed by its global name (§4.6: "custom(name) ->
// struct_name name").
type StructName struct{ ID string }

func (*StructName) MirKind() Kind { return KindStructName }

// Result is `result(ok, err)`. Err has already been collapsed by the
// caller: a single checked error type lowers straight through, while
// multiple error variants collapse into a `{u8 tag, {variants...}}`
// Struct before reaching here (§4.6).
type Result struct{ Ok, Err DataType }

func (*Result) MirKind() Kind { return KindResult }
