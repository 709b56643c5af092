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

package heap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnmapped   = errors.New("address is not mapped")
	ErrOverlap    = errors.New("segment overlaps an existing segment")
	ErrMisaligned = errors.New("address is not word-aligned")
	ErrDropped    = errors.New("segment has already been dropped")
)

type SegmentFlags uint32

const (
	// Static segments hold descriptors which live for the lifetime of the process.
	FlagStaticSegment SegmentFlags = 1 << iota
	// Scratch segments hold short-lived data which is released in stack order.
	FlagScratchSegment
	FlagDroppedSegment
)

func (f SegmentFlags) Static() bool  { return f&FlagStaticSegment != 0 }
func (f SegmentFlags) Scratch() bool { return f&FlagScratchSegment != 0 }
func (f SegmentFlags) Dropped() bool { return f&FlagDroppedSegment != 0 }

// Segment is a contiguous, word-aligned range of mapped memory.
type Segment struct {
	Name  string
	Base  Addr
	Flags SegmentFlags
	cells []Value
}

// Words returns the capacity of the segment in words.
func (s *Segment) Words() int { return len(s.cells) }

// Limit returns the first address past the end of the segment.
func (s *Segment) Limit() Addr { return s.Base.Word(len(s.cells)) }

// Contains reports whether a falls within the segment.
func (s *Segment) Contains(a Addr) bool { return s.Base <= a && a < s.Limit() }

// Range returns the address range covered by the segment.
func (s *Segment) Range() Region { return Region{Lower: s.Base, Upper: s.Limit()} }

func (s *Segment) index(a Addr) (int, error) {
	if !a.Aligned() {
		return 0, fmt.Errorf("%w: %s", ErrMisaligned, a)
	}
	if s.Flags.Dropped() {
		return 0, fmt.Errorf("%w: %s", ErrDropped, s.Name)
	}
	return int((a - s.Base) / WordSize), nil
}

// Memory is a set of non-overlapping mapped segments.
//
// Memory cannot be used concurrently while it is being mutated.
type Memory struct {
	segs []*Segment // sorted by base address
}

func NewMemory() *Memory { return &Memory{} }

// Map a new segment of the given size at base.
func (m *Memory) Map(name string, base Addr, words int, flags SegmentFlags) (*Segment, error) {
	if base == 0 {
		return nil, fmt.Errorf("%w: cannot map the zero address", ErrUnmapped)
	}
	if !base.Aligned() {
		return nil, fmt.Errorf("%w: %s", ErrMisaligned, base)
	}
	if words <= 0 {
		return nil, fmt.Errorf("segment %q must contain at least one word", name)
	}
	seg := &Segment{Name: name, Base: base, Flags: flags, cells: make([]Value, words)}
	i := sort.Search(len(m.segs), func(i int) bool { return m.segs[i].Base >= base })
	if i > 0 && m.segs[i-1].Limit() > base {
		return nil, fmt.Errorf("%w: %q and %q", ErrOverlap, name, m.segs[i-1].Name)
	}
	if i < len(m.segs) && seg.Limit() > m.segs[i].Base {
		return nil, fmt.Errorf("%w: %q and %q", ErrOverlap, name, m.segs[i].Name)
	}
	m.segs = append(m.segs, nil)
	copy(m.segs[i+1:], m.segs[i:])
	m.segs[i] = seg
	return seg, nil
}

// Drop unmaps a segment. Addresses within the segment become invalid.
func (m *Memory) Drop(seg *Segment) error {
	if seg.Flags.Dropped() {
		return fmt.Errorf("%w: %s", ErrDropped, seg.Name)
	}
	for i, s := range m.segs {
		if s == seg {
			m.segs = append(m.segs[:i], m.segs[i+1:]...)
			seg.Flags |= FlagDroppedSegment
			seg.cells = nil
			return nil
		}
	}
	return fmt.Errorf("%w: segment %q", ErrUnmapped, seg.Name)
}

// Segment returns the segment containing a, or nil.
func (m *Memory) Segment(a Addr) *Segment {
	i := sort.Search(len(m.segs), func(i int) bool { return m.segs[i].Limit() > a })
	if i < len(m.segs) && m.segs[i].Contains(a) {
		return m.segs[i]
	}
	return nil
}

// Segments returns the mapped segments in address order.
func (m *Memory) Segments() []*Segment { return m.segs }

func (m *Memory) cell(a Addr) (*Value, error) {
	seg := m.Segment(a)
	if seg == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnmapped, a)
	}
	i, err := seg.index(a)
	if err != nil {
		return nil, err
	}
	return &seg.cells[i], nil
}

// Load the word at a.
func (m *Memory) Load(a Addr) (Value, error) {
	c, err := m.cell(a)
	if err != nil {
		return Nil, err
	}
	return *c, nil
}

// Store v into the word at a.
func (m *Memory) Store(a Addr, v Value) error {
	c, err := m.cell(a)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// LoadField loads the i-th word of the body at a.
func (m *Memory) LoadField(a Addr, i int) (Value, error) { return m.Load(a.Word(i)) }

// StoreField stores v into the i-th word of the body at a.
func (m *Memory) StoreField(a Addr, i int, v Value) error { return m.Store(a.Word(i), v) }

// LoadBytes reads a NUL-terminated byte string from the atomic block at a. Bytes are
// packed eight per word, little-endian.
func (m *Memory) LoadBytes(a Addr) ([]byte, error) {
	var out []byte
	var buf [WordSize]byte
	for {
		w, err := m.Load(a)
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(buf[:], w.Bits)
		for _, b := range buf {
			if b == 0 {
				return out, nil
			}
			out = append(out, b)
		}
		a = a.Word(1)
	}
}

// StoreBytes writes b followed by a NUL terminator into the atomic block at a, which
// must hold at least WordsForBytes(len(b)) words.
func (m *Memory) StoreBytes(a Addr, b []byte) error {
	var buf [WordSize]byte
	n := WordsForBytes(len(b))
	for i := 0; i < n; i++ {
		buf = [WordSize]byte{}
		if i*WordSize < len(b) {
			copy(buf[:], b[i*WordSize:])
		}
		if err := m.Store(a.Word(i), Imm(binary.LittleEndian.Uint64(buf[:]))); err != nil {
			return err
		}
	}
	return nil
}
