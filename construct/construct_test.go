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

package construct_test

import (
	"errors"
	"testing"

	. "github.com/wdamron/deepcopy/construct"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

func TestBuilder(t *testing.T) {
	mem := heap.NewMemory()
	reg, err := types.NewRegistry(mem, 0x10000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	arena, err := heap.NewArena(mem, "data", 0x20000, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(reg, arena)

	s := b.String("hello, world")
	if words := arena.Stats().AtomicWords; words != 2 {
		t.Fatalf("expected 2 atomic words, found %d", words)
	}
	layout := Closure("m.p", types.Int)
	c := b.Closure(layout, 0x400, heap.Int(1))
	if layoutAddr, _ := reg.RegisterClosure(layout); c.IsRef() {
		w, _ := mem.Load(c.Body())
		if w.Body() != layoutAddr {
			t.Fatalf("closure layout not registered")
		}
	}
	cell := b.Remote(2, 1, s, c)
	if w, _ := mem.LoadField(cell.Body(), 0); w.Sectag() != 1 || cell.Tag != 2 {
		t.Fatalf("unexpected cell %s", cell)
	}
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	// the arena is full: the first error is kept
	if v := b.Array(heap.Int(1), heap.Int(2), heap.Int(3), heap.Int(4), heap.Int(5), heap.Int(6), heap.Int(7), heap.Int(8)); v != heap.Nil {
		t.Fatalf("expected a zero result, found %s", v)
	}
	if v := b.String(""); v != heap.Nil {
		t.Fatalf("expected a zero result, found %s", v)
	}
	if err := b.Err(); !errors.Is(err, heap.ErrOutOfMemory) {
		t.Fatalf("expected out of memory, found %v", err)
	}

	b = NewBuilder(reg, arena)
	if b.Type(TApp(types.Array, TVar(0))); !errors.Is(b.Err(), types.ErrBadParam) {
		t.Fatalf("expected a generic descriptor to be rejected, found %v", b.Err())
	}
}
