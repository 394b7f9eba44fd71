// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package checked

import "sync"

// OperatorSignature is one (name, positional-parameter-types,
// return-type) triple registered against an operator or user-defined
// operator function (§4.5.5).
type OperatorSignature struct {
	Name    string
	Params  []DataType
	Return  DataType
}

// OperatorRegister is a free-standing global collection of operator
// signatures, not tied to any scope because operators are
// module-global (design note §9). Core operators come pre-populated
// by copying the program-wide defaults by reference; user-defined
// operator functions add to the same register.
type OperatorRegister struct {
	mu   sync.RWMutex
	sigs map[string][]*OperatorSignature
}

// NewOperatorRegister returns an empty register.
func NewOperatorRegister() *OperatorRegister {
	return &OperatorRegister{sigs: make(map[string][]*OperatorSignature)}
}

// CopyDefaults seeds this register with the program-wide default
// operator signatures (the root package's program resources, shared
// read-only across every worker per §5). The defaults slice itself is
// not retained past this call, matching "copied by reference into the
// package's register" for the resulting *entries*, without sharing
// the backing slice across packages.
func (r *OperatorRegister) CopyDefaults(defaults []*OperatorSignature) {
	for _, d := range defaults {
		r.Add(d)
	}
}

// Add registers sig, rejecting a duplicate by (name + full positional
// signature) (§4.5.5, design note §9). Returns AddAlreadyExists
// without modifying the register when one already matches.
func (r *OperatorRegister) Add(sig *OperatorSignature) AddResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sigs[sig.Name] {
		if sameTypeList(existing.Params, sig.Params) {
			return AddAlreadyExists
		}
	}
	r.sigs[sig.Name] = append(r.sigs[sig.Name], sig)
	return AddOk
}

// Candidates returns every signature registered under name, in
// insertion order (the order overload resolution considers them).
func (r *OperatorRegister) Candidates(name string) []*OperatorSignature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*OperatorSignature(nil), r.sigs[name]...)
}

// Lookup finds the single registered signature matching name with
// exactly these positional parameter types, used by the round-trip
// property in §8: "typecheck_binary with fully-known operand types is
// equivalent to a direct lookup in the operator register".
func (r *OperatorRegister) Lookup(name string, params []DataType) (*OperatorSignature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sig := range r.sigs[name] {
		if sameTypeList(sig.Params, params) {
			return sig, true
		}
	}
	return nil, false
}

// TypecheckBinary filters the candidates for name against whichever of
// left/right is already concrete (nil means "still unconstrained"),
// returning the surviving candidate set (§4.5.4: "typecheck_binary ...
// filters this set against any known left/right operand types").
func (r *OperatorRegister) TypecheckBinary(name string, left, right DataType) []*OperatorSignature {
	candidates := r.Candidates(name)
	var surviving []*OperatorSignature
	for _, c := range candidates {
		if len(c.Params) != 2 {
			continue
		}
		if left != nil && !sameType(c.Params[0], left) {
			continue
		}
		if right != nil && !sameType(c.Params[1], right) {
			continue
		}
		surviving = append(surviving, c)
	}
	return surviving
}

// ConditionalReturn builds the ConditionalCompilerChoice return type
// for an overloaded binary operator whose surviving candidates each
// contribute one (params -> return) condition, per §4.5.4's
// conditional-compiler-choice construction.
func ConditionalReturn(candidates []*OperatorSignature) *ConditionalCompilerChoice {
	choice := &ConditionalCompilerChoice{}
	for _, c := range candidates {
		choice.Cases = append(choice.Cases, ConditionalCase{Params: c.Params, Return: c.Return})
		choice.Candidates = append(choice.Candidates, c.Return)
	}
	return choice
}
