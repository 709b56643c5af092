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

package construct

import (
	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

// Terms

// Builder allocates terms and type descriptors. The first error encountered is kept, and
// every later call returns a zero result; check Err once building is done.
type Builder struct {
	reg   *types.Registry
	in    *types.Interp
	mem   *heap.Memory
	alloc heap.Allocator
	err   error
}

// Create a builder which allocates from alloc, in the memory of reg.
func NewBuilder(reg *types.Registry, alloc heap.Allocator) *Builder {
	return &Builder{reg: reg, in: types.NewInterp(reg), mem: reg.Memory(), alloc: alloc}
}

// Err returns the first error encountered while building.
func (b *Builder) Err() error { return b.err }

func (b *Builder) words(n int) heap.Addr {
	if b.err != nil {
		return 0
	}
	addr, err := b.alloc.AllocWords(n)
	b.err = err
	return addr
}

func (b *Builder) atomicWords(n int) heap.Addr {
	if b.err != nil {
		return 0
	}
	addr, err := b.alloc.AllocAtomicWords(n)
	b.err = err
	return addr
}

func (b *Builder) store(addr heap.Addr, i int, v heap.Value) {
	if b.err == nil {
		b.err = b.mem.StoreField(addr, i, v)
	}
}

// String: `"abc"`
func (b *Builder) String(s string) heap.Value {
	addr := b.atomicWords(heap.WordsForBytes(len(s)))
	if b.err == nil {
		b.err = b.mem.StoreBytes(addr, []byte(s))
	}
	return b.ref(0, addr)
}

// Boxed floating-point number.
func (b *Builder) BoxedFloat(f float64) heap.Value {
	addr := b.atomicWords(1)
	b.store(addr, 0, heap.Float(f))
	return b.ref(0, addr)
}

// Cell of a functor sharing primary tag with others: [sectag, fields...]
func (b *Builder) Remote(tag heap.Tag, sectag uint64, fields ...heap.Value) heap.Value {
	addr := b.words(len(fields) + 1)
	b.store(addr, 0, heap.Imm(sectag))
	for i, f := range fields {
		b.store(addr, i+1, f)
	}
	return b.ref(tag, addr)
}

// Cell of a functor owning its primary tag: [fields...]
func (b *Builder) Unshared(tag heap.Tag, fields ...heap.Value) heap.Value {
	addr := b.words(len(fields))
	for i, f := range fields {
		b.store(addr, i, f)
	}
	return b.ref(tag, addr)
}

// Array: [size, elems...]
func (b *Builder) Array(elems ...heap.Value) heap.Value {
	addr := b.words(len(elems) + 1)
	b.store(addr, 0, heap.Imm(uint64(len(elems))))
	for i, e := range elems {
		b.store(addr, i+1, e)
	}
	return b.ref(0, addr)
}

// Closure of a procedure with the given code address, holding the first len(hidden)
// arguments of layout: [layout, code, len(hidden), hidden...]
func (b *Builder) Closure(layout *types.ClosureLayout, code uint64, hidden ...heap.Value) heap.Value {
	if b.err != nil {
		return heap.Nil
	}
	layoutAddr, err := b.reg.RegisterClosure(layout)
	if err != nil {
		b.err = err
		return heap.Nil
	}
	addr := b.words(len(hidden) + 3)
	b.store(addr, 0, heap.Ref(0, layoutAddr))
	b.store(addr, 1, heap.Imm(code))
	b.store(addr, 2, heap.Imm(uint64(len(hidden))))
	for i, h := range hidden {
		b.store(addr, i+3, h)
	}
	return b.ref(0, addr)
}

// Existential value of the type described at ti: [ti, v]
func (b *Builder) Univ(ti heap.Addr, v heap.Value) heap.Value {
	addr := b.words(2)
	b.store(addr, 0, heap.Ref(0, ti))
	b.store(addr, 1, v)
	return b.ref(0, addr)
}

// Type descriptor for ctor applied to args. A first-order constructor applied to no
// arguments is its own static descriptor.
func (b *Builder) TypeInfo(ctor *types.TypeCtor, args ...heap.Addr) heap.Addr {
	if b.err != nil {
		return 0
	}
	addr, err := b.in.Build(b.alloc, ctor, args...)
	b.err = err
	return addr
}

// Type descriptor for a ground pseudo type descriptor, built in the builder's memory
// rather than interned.
func (b *Builder) Type(p types.Pseudo) heap.Addr {
	switch p := p.(type) {
	case *types.TypeCtor:
		return b.TypeInfo(p)
	case *types.App:
		args := make([]heap.Addr, p.Args.Len())
		p.Args.Range(func(i int, arg types.Pseudo) bool {
			args[i] = b.Type(arg)
			return b.err == nil
		})
		return b.TypeInfo(p.Ctor, args...)
	}
	if b.err == nil {
		b.err = types.ErrBadParam
	}
	return 0
}

// Reference to a type descriptor, for use as ordinary data or as an existential's type.
func (b *Builder) TypeValue(ti heap.Addr) heap.Value { return heap.Ref(0, ti) }

// Slot holding v.
func (b *Builder) Slot(v heap.Value) heap.Addr {
	addr := b.words(1)
	b.store(addr, 0, v)
	return addr
}

// SetField stores f into field i of the body of cell, counting words from the start of
// the body. Used to tie cycles after both ends have been built.
func (b *Builder) SetField(cell heap.Value, i int, f heap.Value) {
	b.store(cell.Body(), i, f)
}

func (b *Builder) ref(tag heap.Tag, addr heap.Addr) heap.Value {
	if b.err != nil {
		return heap.Nil
	}
	return heap.Ref(tag, addr)
}
