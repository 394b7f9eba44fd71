// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package checked

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lily-lang/lily/pkg/ast"
)

func TestScopeDeclareConflict(t *testing.T) {
	arena := NewScopeArena()
	root := arena.Root()

	require.True(t, root.Declare(EntryRecord, "Point", "decl-1"))
	require.False(t, root.Declare(EntryRecord, "Point", "decl-2"))
	// a different kind with the same name never conflicts
	require.True(t, root.Declare(EntryEnum, "Point", "decl-3"))
}

func TestScopeSearchWalksToParent(t *testing.T) {
	arena := NewScopeArena()
	root := arena.Root()
	root.Declare(EntryConstant, "MAX", 42)

	child := arena.New(root.ID)
	res := arena.Search(child.ID, EntryConstant, "MAX")
	require.True(t, res.Found)
	require.Equal(t, root.ID, res.ScopeID)

	miss := arena.Search(child.ID, EntryConstant, "MISSING")
	require.False(t, miss.Found)
}

func TestDeclareTopLevelReportsConflicts(t *testing.T) {
	arena := NewScopeArena()
	root := arena.Root()
	decls := []ast.Decl{
		&ast.RecordDecl{Name: "Point"},
		&ast.RecordDecl{Name: "Point"},
		&ast.EnumDecl{Name: "Shape"},
	}
	conflicts := DeclareTopLevel(root, decls)
	require.Len(t, conflicts, 1)
	require.Equal(t, "Point", conflicts[0].DeclName())
}

func TestSignatureListIdempotentAdd(t *testing.T) {
	list := &SignatureList{}
	sig := &SignatureFun{GlobalName: "add", Types: []DataType{&Primitive{Kind: ast.PrimInt32}}}

	require.Equal(t, AddOk, list.Add(sig))
	require.Equal(t, AddAlreadyExists, list.Add(sig))
	require.Len(t, list.All(), 1)
}

func TestOperatorRegisterDuplicateRejected(t *testing.T) {
	reg := NewOperatorRegister()
	i32 := &Primitive{Kind: ast.PrimInt32}
	sig := &OperatorSignature{Name: "+", Params: []DataType{i32, i32}, Return: i32}

	require.Equal(t, AddOk, reg.Add(sig))
	require.Equal(t, AddAlreadyExists, reg.Add(&OperatorSignature{Name: "+", Params: []DataType{i32, i32}, Return: i32}))
	require.Len(t, reg.Candidates("+"), 1)
}

// TestOperatorOverloadResolution covers spec.md's canonical overload
// scenario: `+` with candidates (i32,i32)->i32 and (f32,f32)->f32;
// `1_i32 + 2` resolves to the i32 candidate once the left operand is
// known.
func TestOperatorOverloadResolution(t *testing.T) {
	reg := NewOperatorRegister()
	i32 := &Primitive{Kind: ast.PrimInt32}
	f32 := &Primitive{Kind: ast.PrimFloat32}
	reg.Add(&OperatorSignature{Name: "+", Params: []DataType{i32, i32}, Return: i32})
	reg.Add(&OperatorSignature{Name: "+", Params: []DataType{f32, f32}, Return: f32})

	surviving := reg.TypecheckBinary("+", i32, nil)
	require.Len(t, surviving, 1)
	require.Same(t, i32, surviving[0].Return)

	sig, ok := reg.Lookup("+", []DataType{i32, i32})
	require.True(t, ok)
	require.Same(t, i32, sig.Return)
}

func TestSerializeGlobalNameDiffersByArgType(t *testing.T) {
	i32 := &Primitive{Kind: ast.PrimInt32}
	f64 := &Primitive{Kind: ast.PrimFloat64}

	nameI32 := SerializeGlobalName("id", []DataType{i32})
	nameF64 := SerializeGlobalName("id", []DataType{f64})
	require.NotEqual(t, nameI32, nameF64)
	require.Equal(t, nameI32, SerializeGlobalName("id", []DataType{i32}))
}

func TestDataTypeLockFreezesInference(t *testing.T) {
	ty := &Primitive{Kind: ast.PrimInt64}
	require.False(t, ty.Locked())
	ty.Lock()
	require.True(t, ty.Locked())
}

func TestPackageIDStable(t *testing.T) {
	require.Equal(t, PackageID("main"), PackageID("main"))
	require.NotEqual(t, PackageID("main"), PackageID("other"))
}
