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

package types

import (
	"fmt"

	"github.com/wdamron/deepcopy/heap"
)

// Descriptor is a decoded, concrete type descriptor.
type Descriptor interface {
	// Addr returns the address of the descriptor. For a constructor applied to no
	// arguments this is the constructor's static address.
	Addr() heap.Addr
	Ctor() *TypeCtor
	Rep() Rep
	LayoutFor(tag heap.Tag) (*LayoutEntry, error)
	// Args returns the addresses of the concrete argument descriptors.
	Args() []heap.Addr
}

var _ Descriptor = (*TypeInfo)(nil)

// TypeInfo is a decoded type descriptor.
//
// On the heap, a descriptor is the static address of its constructor when it has no
// arguments; otherwise it is a block holding a reference to the constructor followed
// by references to the argument descriptors. Blocks for higher-order constructors
// store their arity inline, after the constructor reference.
type TypeInfo struct {
	addr heap.Addr
	ctor *TypeCtor
	args []heap.Addr
}

func (ti *TypeInfo) Addr() heap.Addr                              { return ti.addr }
func (ti *TypeInfo) Ctor() *TypeCtor                              { return ti.ctor }
func (ti *TypeInfo) Rep() Rep                                     { return ti.ctor.Rep }
func (ti *TypeInfo) LayoutFor(tag heap.Tag) (*LayoutEntry, error) { return ti.ctor.LayoutFor(tag) }
func (ti *TypeInfo) Args() []heap.Addr                            { return ti.args }

// IsCtor reports whether the descriptor is the static address of its constructor.
func (ti *TypeInfo) IsCtor() bool { return len(ti.args) == 0 && !ti.ctor.HigherOrder }

// Words returns the size of the descriptor's heap block, or 0 for a bare constructor.
func (ti *TypeInfo) Words() int { return BlockWords(ti.ctor, len(ti.args)) }

// BlockWords returns the size of a descriptor block for ctor applied to n arguments,
// or 0 when the descriptor is the constructor itself.
func BlockWords(ctor *TypeCtor, n int) int {
	switch {
	case ctor.HigherOrder:
		return n + 2
	case n == 0:
		return 0
	}
	return n + 1
}

// Interp reads type descriptors from memory and resolves pseudo type descriptors
// against enclosing descriptors.
type Interp struct {
	reg *Registry
	mem *heap.Memory
}

func NewInterp(reg *Registry) *Interp { return &Interp{reg: reg, mem: reg.Memory()} }

func (in *Interp) Registry() *Registry  { return in.reg }
func (in *Interp) Memory() *heap.Memory { return in.mem }

// Decode the descriptor at addr.
func (in *Interp) Decode(addr heap.Addr) (*TypeInfo, error) {
	if tc, ok := in.reg.CtorAt(addr); ok {
		return &TypeInfo{addr: addr, ctor: tc}, nil
	}
	head, err := in.mem.Load(addr)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrUnknownDescriptor, addr, err)
	}
	tc, ok := in.reg.CtorAt(head.Ptr)
	if !ok {
		return nil, fmt.Errorf("%w at %s: %s is not a type constructor", ErrUnknownDescriptor, addr, head)
	}
	n, offset := tc.Arity, 1
	if tc.HigherOrder {
		w, err := in.mem.LoadField(addr, 1)
		if err != nil {
			return nil, fmt.Errorf("%w at %s: %v", ErrUnknownDescriptor, addr, err)
		}
		n, offset = int(w.Bits), 2
	}
	args := make([]heap.Addr, n)
	for i := range args {
		w, err := in.mem.LoadField(addr, i+offset)
		if err != nil {
			return nil, fmt.Errorf("%w at %s: %v", ErrUnknownDescriptor, addr, err)
		}
		if !w.IsRef() {
			return nil, fmt.Errorf("%w at %s: argument %d is %s", ErrUnknownDescriptor, addr, i, w)
		}
		args[i] = w.Ptr
	}
	return &TypeInfo{addr: addr, ctor: tc, args: args}, nil
}

// Build writes a descriptor for ctor applied to args using alloc. A first-order
// constructor applied to no arguments is returned as its own static address.
func (in *Interp) Build(alloc heap.Allocator, ctor *TypeCtor, args ...heap.Addr) (heap.Addr, error) {
	ctorAddr, err := in.reg.AddrOf(ctor)
	if err != nil {
		return 0, err
	}
	if !ctor.HigherOrder && len(args) != ctor.Arity {
		return 0, fmt.Errorf("%w: %s applied to %d arguments", ErrBadParam, ctor.QualifiedName(), len(args))
	}
	words := BlockWords(ctor, len(args))
	if words == 0 {
		return ctorAddr, nil
	}
	addr, err := alloc.AllocWords(words)
	if err != nil {
		return 0, err
	}
	if err := in.mem.StoreField(addr, 0, heap.Ref(0, ctorAddr)); err != nil {
		return 0, err
	}
	offset := 1
	if ctor.HigherOrder {
		if err := in.mem.StoreField(addr, 1, heap.Imm(uint64(len(args)))); err != nil {
			return 0, err
		}
		offset = 2
	}
	for i, arg := range args {
		if err := in.mem.StoreField(addr, i+offset, heap.Ref(0, arg)); err != nil {
			return 0, err
		}
	}
	return addr, nil
}

// Resolve a pseudo type descriptor against the argument vector of an enclosing
// concrete descriptor.
//
// A type parameter resolves to the corresponding argument; a ground descriptor resolves
// to its interned static descriptor. A generic application is built with scratch, and
// is only valid until scratch is released.
func (in *Interp) Resolve(p Pseudo, enclosing []heap.Addr, scratch heap.Allocator) (heap.Addr, error) {
	switch p := p.(type) {
	case *Var:
		if p.Index < 0 || p.Index >= len(enclosing) {
			return 0, fmt.Errorf("%w: T%d of %d", ErrBadParam, p.Index+1, len(enclosing))
		}
		return enclosing[p.Index], nil

	case *TypeCtor:
		return in.reg.AddrOf(p)

	case *App:
		if !p.HasGenericVars {
			return in.reg.Intern(p)
		}
		args := make([]heap.Addr, p.Args.Len())
		var err error
		p.Args.Range(func(i int, arg Pseudo) bool {
			args[i], err = in.Resolve(arg, enclosing, scratch)
			return err == nil
		})
		if err != nil {
			return 0, err
		}
		return in.Build(scratch, p.Ctor, args...)
	}
	return 0, fmt.Errorf("%w: nil descriptor", ErrBadParam)
}
