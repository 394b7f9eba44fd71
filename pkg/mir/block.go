// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package mir

// Block is one basic block within a function: a numeric ID, the
// ordered list of instructions it contains, and its terminator (§3's
// MirInstructionBlock). The invariant the generator must uphold is
// that Terminator is always set before the block is considered
// complete and that every instruction ID it lists was emitted in this
// same function.
type Block struct {
	ID           int
	Instructions []Instruction
	Terminator   Instruction
}

// Builder assembles one function's blocks, handing out monotonic
// instruction and block IDs and resolving forward block references
// through a pending-block table (design note §9: "forward-declared
// MIR blocks").
type Builder struct {
	fn       *Function
	nextInst int
	nextBlk  int
	current  *Block
	pending  map[int]*Block
}

// NewBuilder starts a fresh instruction/block ID sequence for fn.
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn, pending: make(map[int]*Block)}
}

// NewBlock allocates a block with the next monotonic ID, registers it
// on the function, and makes it current.
func (b *Builder) NewBlock() *Block {
	blk := &Block{ID: b.nextBlk}
	b.nextBlk++
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.pending[blk.ID] = blk
	b.current = blk
	return blk
}

// Current returns the block instructions are currently being appended
// to.
func (b *Builder) Current() *Block { return b.current }

// SetCurrent switches the append target to blk without allocating a
// new one, used when lowering resumes a previously created block
// (e.g. a loop header revisited by its back-edge).
func (b *Builder) SetCurrent(blk *Block) { b.current = blk }

// nextID hands out the next monotonic instruction ID for this
// function.
func (b *Builder) nextID() int {
	id := b.nextInst
	b.nextInst++
	return id
}

// Emit appends inst to the current block's instruction list, unless
// inst is itself a terminator, in which case it closes the block.
func (b *Builder) Emit(inst Instruction) {
	switch inst.InstKind() {
	case InstJmp, InstJmpCond, InstSwitch, InstRet:
		b.current.Terminator = inst
	default:
		b.current.Instructions = append(b.current.Instructions, inst)
	}
}

// Resolve looks up a block by its ID in the pending table, used when
// an earlier-emitted jmp/jmpcond/switch target was created before the
// block it names (a forward reference).
func (b *Builder) Resolve(id int) (*Block, bool) {
	blk, ok := b.pending[id]
	return blk, ok
}
