// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// heap provides a simulated word-addressed memory for runtime values, bump-allocated
// arenas, and the address-range filter which decides whether a body must be relocated.
package heap

import (
	"math"
	"strconv"
)

// WordSize is the size of a heap word in bytes. Addresses are byte addresses and heap
// bodies are always word-aligned.
const WordSize = 8

// TagBits is the number of low pointer bits available for primary tags.
const (
	TagBits = 3
	NumTags = 1 << TagBits
)

// Addr is a byte address within a Memory. The zero address is never mapped.
type Addr uint64

// Tag is a primary tag distinguishing representation alternatives of a value.
type Tag uint8

// Word returns the address of the i-th word following a.
func (a Addr) Word(i int) Addr { return a + Addr(i*WordSize) }

// Aligned reports whether a is word-aligned.
func (a Addr) Aligned() bool { return a%WordSize == 0 }

func (a Addr) String() string { return "0x" + strconv.FormatUint(uint64(a), 16) }

// Value is a single heap word: either an immediate or a tagged reference to a heap body.
//
// The primary tag is carried explicitly rather than packed into the low bits of the
// body pointer. Immediates leave Ptr as zero; references leave Bits as zero.
type Value struct {
	Tag  Tag
	Ptr  Addr
	Bits uint64
}

// Nil is the zero value: an immediate with no bits set.
var Nil = Value{}

// Immediate value with the given raw bits.
func Imm(bits uint64) Value { return Value{Bits: bits} }

// Immediate integer value.
func Int(i int64) Value { return Value{Bits: uint64(i)} }

// Immediate character value.
func Char(r rune) Value { return Value{Bits: uint64(r)} }

// Unboxed floating-point value.
func Float(f float64) Value { return Value{Bits: math.Float64bits(f)} }

// Local returns an immediate carrying a primary tag and a secondary tag, as used for
// constants of a tagged union which share a primary tag.
func Local(tag Tag, sectag uint64) Value { return Value{Tag: tag, Bits: sectag} }

// Ref returns a reference to the body at addr, tagged with tag.
func Ref(tag Tag, addr Addr) Value { return Value{Tag: tag, Ptr: addr} }

// IsRef reports whether v refers to a heap body.
func (v Value) IsRef() bool { return v.Ptr != 0 }

// Body returns the body address of a reference, or zero for an immediate.
func (v Value) Body() Addr { return v.Ptr }

// Retag returns a reference to body carrying the same primary tag as v.
func (v Value) Retag(body Addr) Value { return Value{Tag: v.Tag, Ptr: body} }

func (v Value) Int() int64         { return int64(v.Bits) }
func (v Value) Char() rune         { return rune(v.Bits) }
func (v Value) Float() float64     { return math.Float64frombits(v.Bits) }
func (v Value) Sectag() uint64     { return v.Bits }
func (v Value) Equal(w Value) bool { return v == w }

func (v Value) String() string {
	if v.IsRef() {
		return "ref(" + strconv.Itoa(int(v.Tag)) + ", " + v.Ptr.String() + ")"
	}
	if v.Tag != 0 {
		return "local(" + strconv.Itoa(int(v.Tag)) + ", " + strconv.FormatUint(v.Bits, 10) + ")"
	}
	return "imm(" + strconv.FormatUint(v.Bits, 10) + ")"
}

// WordsForBytes returns the number of words needed to hold n bytes followed by a NUL
// terminator.
func WordsForBytes(n int) int { return (n + WordSize) / WordSize }
