// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package token defines the positional token, source-file and location
// model shared by every later stage of the Lily compiler pipeline:
// scanner, preparser, parser, analyzer and MIR generator all exchange
// values addressed through this package.
package token

import (
	"fmt"
	"sync"
)

// SourceFile is a single compilation input, identified by its path. The
// name is what diagnostics print; it may differ from path (e.g. a
// relative display name for a file loaded from an absolute path).
type SourceFile struct {
	Path    string
	Name    string
	Content []byte

	base int // offset of this file's first byte within the owning FileSet
	lines []int // byte offsets of line starts, lazily computed
	once  sync.Once
}

// NewSourceFile creates a SourceFile that has not yet been registered with
// a FileSet (its base will be zero until AddFile is called).
func NewSourceFile(path, name string, content []byte) *SourceFile {
	return &SourceFile{Path: path, Name: name, Content: content}
}

func (f *SourceFile) computeLines() {
	f.once.Do(func() {
		f.lines = []int{0}
		for i, b := range f.Content {
			if b == '\n' && i+1 < len(f.Content) {
				f.lines = append(f.lines, i+1)
			}
		}
	})
}

// LineCol converts a zero-based byte offset into this file into a
// one-based (line, column) pair.
func (f *SourceFile) LineCol(offset int) (line, col int) {
	f.computeLines()
	// binary search would be overkill for typical file sizes; linear scan
	// keeps this simple and is only used for diagnostic rendering.
	line = 1
	for i := 1; i < len(f.lines); i++ {
		if f.lines[i] > offset {
			break
		}
		line = i + 1
	}
	col = offset - f.lines[line-1] + 1
	return line, col
}

// FileSet assigns each registered SourceFile a disjoint range of Pos
// values, so a bare integer can later be resolved back to (file, line,
// column) without every token carrying a file pointer. Mirrors the role
// go/token.FileSet plays for the standard library's own compiler tools.
type FileSet struct {
	mu    sync.Mutex
	files []*SourceFile
	next  int
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{next: 1}
}

// AddFile registers f with the set and returns f for chaining. Safe to
// call from multiple goroutines (the set's mutex guards registration).
func (s *FileSet) AddFile(f *SourceFile) *SourceFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.base = s.next
	s.next += len(f.Content) + 1
	s.files = append(s.files, f)
	return f
}

// Pos is an absolute, file-set-wide source position. Zero is the
// no-position sentinel (NoPos).
type Pos int

// NoPos is the zero value of Pos, meaning "no known position".
const NoPos Pos = 0

// File returns the SourceFile owning p, or nil if p does not fall within
// any registered file.
func (s *FileSet) File(p Pos) *SourceFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if int(p) >= f.base && int(p) < f.base+len(f.Content)+1 {
			return f
		}
	}
	return nil
}

// Position resolves p to a human-readable Location with no end offset.
func (s *FileSet) Position(p Pos) Location {
	f := s.File(p)
	if f == nil {
		return Location{}
	}
	off := int(p) - f.base
	line, col := f.LineCol(off)
	return Location{
		File:      f,
		StartLine: line, StartCol: col,
		EndLine: line, EndCol: col,
		StartOffset: off, EndOffset: off,
	}
}

// Location is an immutable source span: (file, start offset, end offset,
// start line, start column, end line, end column). Every AST, checked and
// MIR-debug node in the pipeline carries one.
type Location struct {
	File        *SourceFile
	StartOffset int
	EndOffset   int
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
}

// String renders the location the way diagnostics print it:
// "path:line:col".
func (l Location) String() string {
	if l.File == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File.Name, l.StartLine, l.StartCol)
}

// Join returns the smallest Location spanning both a and b. Used by the
// parser to compute a parent node's span from its children's.
func Join(a, b Location) Location {
	if a.File == nil {
		return b
	}
	if b.File == nil {
		return a
	}
	out := a
	if b.EndOffset > a.EndOffset {
		out.EndOffset = b.EndOffset
		out.EndLine = b.EndLine
		out.EndCol = b.EndCol
	}
	if b.StartOffset < a.StartOffset {
		out.StartOffset = b.StartOffset
		out.StartLine = b.StartLine
		out.StartCol = b.StartCol
	}
	return out
}
