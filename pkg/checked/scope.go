// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package checked

import "github.com/lily-lang/lily/pkg/ast"

// EntryKind tags which per-kind map a scope entry was registered
// into, mirroring the parallel name tables in original_source's
// checked/scope.h.
type EntryKind int

const (
	EntryModule EntryKind = iota
	EntryConstant
	EntryEnum
	EntryRecord
	EntryAlias
	EntryError
	EntryEnumObject
	EntryRecordObject
	EntryClass
	EntryTrait
	EntryLabel
	EntryVariable
	EntryParam
	EntryGeneric
	EntryCaptured
	EntryFun
	EntryMethod
)

// ScopeID indexes into a ScopeArena. ScopeID(0) is the root scope;
// NoScope is used for "no parent" (the root scope's parent).
type ScopeID int

const NoScope ScopeID = -1

// SearchResult is the structured response of a scope walk (§3
// "search_* ... returns a structured response carrying the found
// declaration or NotFound"), grounded on original_source's
// checked/scope_response.h.
type SearchResult struct {
	Found bool
	Decl  any
	Kind  EntryKind
	// ScopeID is the scope the entry was actually found in, which may
	// be an ancestor of the scope the search started from.
	ScopeID ScopeID
}

// notFound is the canonical miss response.
var notFound = SearchResult{Found: false}

// Scope is one node of the scope graph: per-entry-kind name tables,
// an ordered fun/method list (order matters for overload search), a
// parent link, the raised-error set, and per-function bookkeeping
// (pending catch binding, has-return flag).
type Scope struct {
	ID     ScopeID
	Parent ScopeID // NoScope at the root
	Owner  any     // the declaration this scope belongs to, if any

	modules       map[string]any
	constants     map[string]any
	enums         map[string]any
	records       map[string]any
	aliases       map[string]any
	errors        map[string]any
	enumObjects   map[string]any
	recordObjects map[string]any
	classes       map[string]any
	traits        map[string]any
	labels        map[string]any
	variables     map[string]any
	params        map[string]any
	generics      map[string]any
	captured      map[string]any

	Funs    []any // ordered: overload search walks this in insertion order
	Methods []any

	RaisedErrors   map[string]bool
	PendingCatch   string
	HasReturn      bool
}

func newMap() map[string]any { return make(map[string]any) }

// newScope allocates an empty Scope for the given parent; callers
// only reach this through ScopeArena.New so IDs stay monotonic and
// arena-owned.
func newScope(id, parent ScopeID) *Scope {
	return &Scope{
		ID: id, Parent: parent,
		modules: newMap(), constants: newMap(), enums: newMap(), records: newMap(),
		aliases: newMap(), errors: newMap(), enumObjects: newMap(), recordObjects: newMap(),
		classes: newMap(), traits: newMap(), labels: newMap(), variables: newMap(),
		params: newMap(), generics: newMap(), captured: newMap(),
		RaisedErrors: make(map[string]bool),
	}
}

func (s *Scope) tableFor(kind EntryKind) map[string]any {
	switch kind {
	case EntryModule:
		return s.modules
	case EntryConstant:
		return s.constants
	case EntryEnum:
		return s.enums
	case EntryRecord:
		return s.records
	case EntryAlias:
		return s.aliases
	case EntryError:
		return s.errors
	case EntryEnumObject:
		return s.enumObjects
	case EntryRecordObject:
		return s.recordObjects
	case EntryClass:
		return s.classes
	case EntryTrait:
		return s.traits
	case EntryLabel:
		return s.labels
	case EntryVariable:
		return s.variables
	case EntryParam:
		return s.params
	case EntryGeneric:
		return s.generics
	case EntryCaptured:
		return s.captured
	default:
		return nil
	}
}

// Declare registers decl under name in the given per-kind table.
// Returns false if an entry of the SAME kind already uses that name
// in THIS scope (§3: "no two entries of the same kind share a name
// within one scope") — entries of a different kind, or in a
// different (e.g. parent) scope, do not conflict.
func (s *Scope) Declare(kind EntryKind, name string, decl any) bool {
	if kind == EntryFun {
		s.Funs = append(s.Funs, decl)
		return true
	}
	if kind == EntryMethod {
		s.Methods = append(s.Methods, decl)
		return true
	}
	table := s.tableFor(kind)
	if table == nil {
		return false
	}
	if _, exists := table[name]; exists {
		return false
	}
	table[name] = decl
	return true
}

// lookupLocal searches only this scope's table for kind/name.
func (s *Scope) lookupLocal(kind EntryKind, name string) (any, bool) {
	table := s.tableFor(kind)
	if table == nil {
		return nil, false
	}
	decl, ok := table[name]
	return decl, ok
}

// ScopeArena owns every Scope created during analysis of one package,
// replacing the source's weak-parent-pointer self-referential graph
// with index-based links (design note §9).
type ScopeArena struct {
	scopes []*Scope
}

// NewScopeArena returns an arena with its root scope already
// allocated at ScopeID(0).
func NewScopeArena() *ScopeArena {
	a := &ScopeArena{}
	a.New(NoScope)
	return a
}

// New allocates a fresh scope as a child of parent (NoScope for the
// root) and returns it.
func (a *ScopeArena) New(parent ScopeID) *Scope {
	id := ScopeID(len(a.scopes))
	s := newScope(id, parent)
	a.scopes = append(a.scopes, s)
	return s
}

// Root returns the package's top-level scope.
func (a *ScopeArena) Root() *Scope { return a.scopes[0] }

// Get dereferences a ScopeID.
func (a *ScopeArena) Get(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(a.scopes) {
		return nil
	}
	return a.scopes[id]
}

// Search walks from start upward through parent links looking for
// name registered under kind, stopping at the root. It returns a
// SearchResult identifying both the declaration and the scope it was
// actually found in.
func (a *ScopeArena) Search(start ScopeID, kind EntryKind, name string) SearchResult {
	for id := start; id != NoScope; {
		scope := a.Get(id)
		if scope == nil {
			break
		}
		if decl, ok := scope.lookupLocal(kind, name); ok {
			return SearchResult{Found: true, Decl: decl, Kind: kind, ScopeID: scope.ID}
		}
		id = scope.Parent
	}
	return notFound
}

// SearchFuns walks from start upward, returning the first Funs entry
// (in insertion order, nearest scope first) that matches accepts; name
// itself is not consulted, so matches carries the name check.
func (a *ScopeArena) SearchFuns(start ScopeID, name string, matches func(any) bool) SearchResult {
	for id := start; id != NoScope; {
		scope := a.Get(id)
		if scope == nil {
			break
		}
		for _, fn := range scope.Funs {
			if matches(fn) {
				return SearchResult{Found: true, Decl: fn, Kind: EntryFun, ScopeID: scope.ID}
			}
		}
		id = scope.Parent
	}
	return notFound
}

// entryKindFor maps an ast.Decl to the EntryKind its checked shell
// should be registered under (§4.5.1 declaration registration).
func entryKindFor(d ast.Decl) (EntryKind, bool) {
	switch decl := d.(type) {
	case *ast.ModuleDecl:
		return EntryModule, true
	case *ast.ConstantDecl:
		return EntryConstant, true
	case *ast.EnumDecl:
		if decl.IsObject {
			return EntryEnumObject, true
		}
		return EntryEnum, true
	case *ast.RecordDecl:
		if decl.IsObject {
			return EntryRecordObject, true
		}
		return EntryRecord, true
	case *ast.AliasDecl:
		return EntryAlias, true
	case *ast.ErrorDecl:
		return EntryError, true
	case *ast.ClassDecl:
		return EntryClass, true
	case *ast.TraitDecl:
		return EntryTrait, true
	case *ast.FunDecl:
		return EntryFun, true
	default:
		return 0, false
	}
}

// DeclareTopLevel registers every top-level declaration from decls
// into scope, reporting a name already used by an existing entry of
// the same kind via the returned conflicts slice (§4.5.1: "Conflicts
// (same name, same kind) are reported").
func DeclareTopLevel(scope *Scope, decls []ast.Decl) (conflicts []ast.Decl) {
	for _, d := range decls {
		kind, ok := entryKindFor(d)
		if !ok {
			continue
		}
		if !scope.Declare(kind, d.DeclName(), d) {
			conflicts = append(conflicts, d)
		}
	}
	return conflicts
}
