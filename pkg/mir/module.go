// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

// TopLevel is anything a Module maps a global name to: a function, a
// struct definition, a constant, or an external prototype (§3's
// MirModule: "fun, struct, const, fun_prototype").
type TopLevel interface {
	InstKind() InstKind
}

// Module is an insertion-ordered global-name -> TopLevel map, plus the
// debug-info manager and the "current function" stack the generator
// pushes/pops while walking nested declarations (§3's MirModule).
//
// Insertion order is preserved (not map iteration order) because
// emission order is itself meaningful: §5 requires "if A imports B,
// B's MIR emission is visible before A's parser starts", and a
// deterministic object-file layout depends on a stable insertion
// order for otherwise-unordered map keys.
type Module struct {
	order []string
	insts map[string]TopLevel
	Debug *DebugInfoManager

	stack []string
}

// NewModule returns an empty module with a fresh debug-info interner.
func NewModule() *Module {
	return &Module{insts: make(map[string]TopLevel), Debug: NewDebugInfoManager()}
}

// Insert adds or replaces the top-level entry for globalName,
// appending to the insertion order only on first insert.
func (m *Module) Insert(globalName string, top TopLevel) {
	if _, exists := m.insts[globalName]; !exists {
		m.order = append(m.order, globalName)
	}
	m.insts[globalName] = top
}

// Get looks up the top-level entry for globalName.
func (m *Module) Get(globalName string) (TopLevel, bool) {
	top, ok := m.insts[globalName]
	return top, ok
}

// KeyIsUnique reports whether globalName has not yet been inserted
// (§4.6: "checks key_is_unique before inserting a new fun_prototype").
func (m *Module) KeyIsUnique(globalName string) bool {
	_, exists := m.insts[globalName]
	return !exists
}

// Ordered returns every top-level entry in the order it was first
// inserted.
func (m *Module) Ordered() []TopLevel {
	out := make([]TopLevel, len(m.order))
	for i, name := range m.order {
		out[i] = m.insts[name]
	}
	return out
}

// Names returns every global name in insertion order.
func (m *Module) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// PushCurrent records globalName as the innermost declaration being
// emitted, used by nested lowering helpers that need to know which
// function they are appending blocks to.
func (m *Module) PushCurrent(globalName string) { m.stack = append(m.stack, globalName) }

// PopCurrent removes the innermost declaration from the current
// stack.
func (m *Module) PopCurrent() {
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// Current returns the innermost declaration currently being emitted,
// or "" if the stack is empty.
func (m *Module) Current() string {
	if len(m.stack) == 0 {
		return ""
	}
	return m.stack[len(m.stack)-1]
}
