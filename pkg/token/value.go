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

package token

// Token is a single lexed unit: a Kind, its Location, and (for variant
// kinds) a payload. Payload fields are populated selectively by the
// scanner depending on Kind; zero values elsewhere are not meaningful.
type Token struct {
	Kind Kind
	Loc  Location

	// Text is the raw spelling for identifiers, keywords, doc comments,
	// and unsuffixed literals (digit string, string/char contents after
	// escape resolution).
	Text string

	// Base is the declared base (2, 8, 10 or 16) for LiteralInt* kinds.
	Base int

	// Suffixed numeric value, populated only for the LiteralSuffix* kinds.
	// Exactly one of these is meaningful, selected by Kind.
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Isize   int64
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Usize   uint64
	Float32 float32
	Float64 float64

	// SourceSlice is the exact source bytes this token was lexed from:
	// concatenating every token's SourceSlice in order reconstructs the
	// file, modulo discarded comments and whitespace.
	SourceSlice string
}

// New builds a token with no payload.
func New(k Kind, loc Location, raw string) Token {
	return Token{Kind: k, Loc: loc, SourceSlice: raw}
}
