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
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("heap: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// Snapshot is the serialized form of the allocated part of an arena. Restoring a
// snapshot at the same base reproduces every address, so references between words
// of the snapshot (and to static descriptors) remain valid.
type Snapshot struct {
	ID    string         `cbor:"1,keyasint"`
	Name  string         `cbor:"2,keyasint"`
	Base  uint64         `cbor:"3,keyasint"`
	Words uint64         `cbor:"4,keyasint"`
	Cells []SnapshotCell `cbor:"5,keyasint"`
}

type SnapshotCell struct {
	Tag  uint8  `cbor:"1,keyasint,omitempty"`
	Ptr  uint64 `cbor:"2,keyasint,omitempty"`
	Bits uint64 `cbor:"3,keyasint,omitempty"`
}

// Snapshot encodes the allocated words of the arena as canonical CBOR.
func (a *Arena) Snapshot() ([]byte, error) {
	n := int((a.top - a.seg.Base) / WordSize)
	s := &Snapshot{
		ID:    uuid.New().String(),
		Name:  a.seg.Name,
		Base:  uint64(a.seg.Base),
		Words: uint64(a.seg.Words()),
		Cells: make([]SnapshotCell, n),
	}
	for i, v := range a.seg.cells[:n] {
		s.Cells[i] = SnapshotCell{Tag: uint8(v.Tag), Ptr: uint64(v.Ptr), Bits: v.Bits}
	}
	return snapshotEncMode.Marshal(s)
}

// DecodeSnapshot decodes a snapshot without mapping it.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("heap: unmarshal snapshot: %w", err)
	}
	if uint64(len(s.Cells)) > s.Words {
		return nil, fmt.Errorf("heap: snapshot %s holds %d cells in a %d word segment", s.ID, len(s.Cells), s.Words)
	}
	return &s, nil
}

// Restore maps a new arena at the snapshot's base and loads its words. The restored
// arena's top follows the last restored word.
func Restore(mem *Memory, data []byte) (*Arena, error) {
	s, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	a, err := NewArena(mem, s.Name, Addr(s.Base), int(s.Words), 0)
	if err != nil {
		return nil, fmt.Errorf("heap: restore snapshot %s: %w", s.ID, err)
	}
	for i, c := range s.Cells {
		a.seg.cells[i] = Value{Tag: Tag(c.Tag), Ptr: Addr(c.Ptr), Bits: c.Bits}
	}
	a.top = a.seg.Base.Word(len(s.Cells))
	a.high = a.top
	return a, nil
}
