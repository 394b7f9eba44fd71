// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import "github.com/lily-lang/lily/pkg/token"

// Primitive names the scalar data-type spellings the parser recognizes
// directly (everything else is a CustomType reference).
type Primitive int

const (
	PrimBool Primitive = iota
	PrimChar
	PrimCStr
	PrimStr
	PrimCVoid
	PrimBytes
	PrimUnit
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimIsize
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimUsize
	PrimFloat32
	PrimFloat64
	PrimAny
)

// PrimitiveType is a bare scalar type name.
type PrimitiveType struct {
	Kind Primitive
	Location token.Location
}

func (t *PrimitiveType) TypeKind() NodeKind    { return TypePrimitive }
func (t *PrimitiveType) Loc() token.Location   { return t.Location }

// ArrayShape distinguishes the four array spellings from §4.4.
type ArrayShape int

const (
	ArrayDynamic     ArrayShape = iota // [T]
	ArraySized                         // [T]N
	ArrayMultiPointer                  // [*]T
	ArrayUndetermined                  // [_]T
)

// ArrayType is `[T]`, `[T]N`, `[*]T` or `[_]T`.
type ArrayType struct {
	Shape    ArrayShape
	Elem     DataType
	Size     int // meaningful only when Shape == ArraySized
	Location token.Location
}

func (t *ArrayType) TypeKind() NodeKind  { return TypeArray }
func (t *ArrayType) Loc() token.Location { return t.Location }

// LambdaType is a function-value type: `(P1, P2, ...) -> R`.
type LambdaType struct {
	Params   []DataType
	Return   DataType
	Location token.Location
}

func (t *LambdaType) TypeKind() NodeKind  { return TypeLambda }
func (t *LambdaType) Loc() token.Location { return t.Location }

// ListType is `List[T]`.
type ListType struct {
	Elem     DataType
	Location token.Location
}

func (t *ListType) TypeKind() NodeKind  { return TypeList }
func (t *ListType) Loc() token.Location { return t.Location }

// Qualifier distinguishes the ownership-qualifier wrappers.
type Qualifier int

const (
	QualMut Qualifier = iota
	QualRef
	QualPtr
	QualTrace
)

// QualifierType wraps an inner type with a mut/ref/ptr/trace qualifier.
type QualifierType struct {
	Qualifier Qualifier
	Inner     DataType
	Location  token.Location
}

func (t *QualifierType) TypeKind() NodeKind  { return TypeQualifier }
func (t *QualifierType) Loc() token.Location { return t.Location }

// OptionalType is `?T`.
type OptionalType struct {
	Inner    DataType
	Location token.Location
}

func (t *OptionalType) TypeKind() NodeKind  { return TypeOptional }
func (t *OptionalType) Loc() token.Location { return t.Location }

// CustomType is a named reference, possibly generic-applied: `Name[T1, T2]`.
type CustomType struct {
	Name     string
	Generics []DataType
	Location token.Location
}

func (t *CustomType) TypeKind() NodeKind  { return TypeCustom }
func (t *CustomType) Loc() token.Location { return t.Location }

// ResultType is `T ! E1 | E2 | ...`.
type ResultType struct {
	Ok       DataType
	Errors   []DataType
	Location token.Location
}

func (t *ResultType) TypeKind() NodeKind  { return TypeResult }
func (t *ResultType) Loc() token.Location { return t.Location }

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Elems    []DataType
	Location token.Location
}

func (t *TupleType) TypeKind() NodeKind  { return TypeTuple }
func (t *TupleType) Loc() token.Location { return t.Location }
