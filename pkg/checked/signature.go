// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package checked

import (
	"strings"

	"github.com/lily-lang/lily/pkg/ast"
)

// SignatureFun is a monomorphized function signature: a global name,
// its ordered parameter-plus-return type list, an optional generic
// binding map (nil for a non-generic declaration), and the derived
// serialized global name the MIR generator uses as its callee key.
type SignatureFun struct {
	GlobalName     string
	Types          []DataType // params..., then return, in declaration order
	GenericBinding map[string]DataType
	Serialized     string
}

// sameTypeList reports whether a and b name the same concrete types
// pointwise. Two DataTypes are considered equal for this purpose when
// they resolve to the same CheckedKind and, for the variants that
// carry an identifying name, the same name — matching §3's "Two
// signatures are equal iff their type lists and global-names are
// equal pointwise" without requiring full structural type equality
// (which would need an arena-wide interner out of scope here).
func sameType(a, b DataType) bool {
	if a.CheckedKind() != b.CheckedKind() {
		return false
	}
	switch av := a.(type) {
	case *Primitive:
		return av.Kind == b.(*Primitive).Kind
	case *Custom:
		return av.GlobalName == b.(*Custom).GlobalName && sameTypeList(av.Generics, b.(*Custom).Generics)
	case *List:
		return sameType(av.Elem, b.(*List).Elem)
	case *Optional:
		return sameType(av.Inner, b.(*Optional).Inner)
	case *Qualifier:
		bv := b.(*Qualifier)
		return av.Qualifier == bv.Qualifier && sameType(av.Inner, bv.Inner)
	case *Array:
		bv := b.(*Array)
		return av.Shape == bv.Shape && av.Size == bv.Size && sameType(av.Elem, bv.Elem)
	case *Tuple:
		return sameTypeList(av.Elems, b.(*Tuple).Elems)
	case *Lambda:
		bv := b.(*Lambda)
		return sameTypeList(av.Params, bv.Params) && sameType(av.Return, bv.Return)
	case *Result:
		bv := b.(*Result)
		return sameType(av.Ok, bv.Ok) && sameTypeList(av.Errors, bv.Errors)
	case *Unknown:
		return true
	default:
		return a == b
	}
}

func sameTypeList(a, b []DataType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Equal implements the §3 equality rule for SignatureFun.
func (s *SignatureFun) Equal(o *SignatureFun) bool {
	return s.GlobalName == o.GlobalName && sameTypeList(s.Types, o.Types)
}

// SignatureList is an ordered, append-only collection of function
// signatures for one declaration (its "original" signature plus one
// per monomorphized call site).
type SignatureList struct {
	sigs []*SignatureFun
}

// AddResult is the two-state result a SignatureList/OperatorRegister add
// returns, mirroring original_source's operator_register.c
// add_signature Ok/AlreadyExists contract.
type AddResult int

const (
	AddOk AddResult = iota
	AddAlreadyExists
)

// Add inserts sig unless an equal signature is already present, in
// which case it is a no-op returning AddAlreadyExists (§3, §8:
// "add_signature(sig, signatures) is idempotent").
func (l *SignatureList) Add(sig *SignatureFun) AddResult {
	for _, existing := range l.sigs {
		if existing.Equal(sig) {
			return AddAlreadyExists
		}
	}
	l.sigs = append(l.sigs, sig)
	return AddOk
}

// All returns the signatures in insertion order.
func (l *SignatureList) All() []*SignatureFun { return l.sigs }

// SignatureType is a generic type declaration's signature: a global
// name, its ordered generic-parameter binding map, and the derived
// serialized global name.
type SignatureType struct {
	GlobalName     string
	GenericBinding map[string]DataType
	Serialized     string
}

// SerializeGlobalName derives the MIR/object-cache key for a
// monomorphized instance by concatenating the base global name with a
// canonical encoding of the argument-type list (§4.5.4: "the
// serialized global name ... is derived by concatenating the base
// global-name with a canonical encoding of the argument-type list").
func SerializeGlobalName(baseGlobalName string, args []DataType) string {
	var b strings.Builder
	b.WriteString(baseGlobalName)
	for _, arg := range args {
		b.WriteByte('$')
		b.WriteString(canonicalTypeName(arg))
	}
	return b.String()
}

// canonicalTypeName renders a DataType into the stable textual form
// SerializeGlobalName concatenates. It must never depend on pointer
// identity or map iteration order so that repeated compilations of
// unchanged input reproduce byte-identical global names (feeding
// pkg/cache's incremental reuse).
func canonicalTypeName(t DataType) string {
	switch v := t.(type) {
	case *Primitive:
		return primitiveName(v.Kind)
	case *Custom:
		name := v.GlobalName
		if len(v.Generics) == 0 {
			return name
		}
		var b strings.Builder
		b.WriteString(name)
		b.WriteByte('[')
		for i, g := range v.Generics {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(canonicalTypeName(g))
		}
		b.WriteByte(']')
		return b.String()
	case *List:
		return "List[" + canonicalTypeName(v.Elem) + "]"
	case *Optional:
		return "?" + canonicalTypeName(v.Inner)
	case *Qualifier:
		return qualifierPrefix(v.Qualifier) + canonicalTypeName(v.Inner)
	case *Array:
		return "[" + canonicalTypeName(v.Elem) + "]"
	case *Tuple:
		var b strings.Builder
		b.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(canonicalTypeName(e))
		}
		b.WriteByte(')')
		return b.String()
	case *Result:
		var b strings.Builder
		b.WriteString(canonicalTypeName(v.Ok))
		for _, e := range v.Errors {
			b.WriteByte('!')
			b.WriteString(canonicalTypeName(e))
		}
		return b.String()
	case *Lambda:
		var b strings.Builder
		b.WriteByte('(')
		for i, p := range v.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(canonicalTypeName(p))
		}
		b.WriteString(")->")
		b.WriteString(canonicalTypeName(v.Return))
		return b.String()
	case *CompilerGeneric:
		return "?" + v.Name
	case *Unknown:
		return "<unknown>"
	default:
		return "<?>"
	}
}

func qualifierPrefix(q ast.Qualifier) string {
	switch q {
	case ast.QualMut:
		return "mut "
	case ast.QualRef:
		return "ref "
	case ast.QualPtr:
		return "*"
	case ast.QualTrace:
		return "trace "
	default:
		return ""
	}
}

func primitiveName(p ast.Primitive) string {
	switch p {
	case ast.PrimBool:
		return "Bool"
	case ast.PrimChar:
		return "Char"
	case ast.PrimCStr:
		return "CStr"
	case ast.PrimStr:
		return "Str"
	case ast.PrimCVoid:
		return "CVoid"
	case ast.PrimBytes:
		return "Bytes"
	case ast.PrimUnit:
		return "Unit"
	case ast.PrimInt8:
		return "I8"
	case ast.PrimInt16:
		return "I16"
	case ast.PrimInt32:
		return "I32"
	case ast.PrimInt64:
		return "I64"
	case ast.PrimIsize:
		return "Isize"
	case ast.PrimUint8:
		return "U8"
	case ast.PrimUint16:
		return "U16"
	case ast.PrimUint32:
		return "U32"
	case ast.PrimUint64:
		return "U64"
	case ast.PrimUsize:
		return "Usize"
	case ast.PrimFloat32:
		return "F32"
	case ast.PrimFloat64:
		return "F64"
	case ast.PrimAny:
		return "Any"
	default:
		return "?"
	}
}
