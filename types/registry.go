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
	"errors"
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/wdamron/deepcopy/heap"
)

var ErrDuplicate = errors.New("type constructor is already registered")

type addrComparer struct{}

func (addrComparer) Compare(a, b interface{}) int {
	x, y := a.(heap.Addr), b.(heap.Addr)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

var (
	emptyNameMap = immutable.NewSortedMap(nil)
	emptyAddrMap = immutable.NewSortedMap(addrComparer{})
)

// Registry assigns static addresses to type constructors and closure layouts, and
// interns ground type descriptors found in layout data.
//
// Static descriptors live in a dedicated segment of the registry's memory for the
// lifetime of the registry; they must never fall inside a movable region. A registry
// cannot be mutated concurrently.
type Registry struct {
	mem    *heap.Memory
	static *heap.Arena

	names   *immutable.SortedMap // qualified name -> *TypeCtor
	ctors   *immutable.SortedMap // heap.Addr -> *TypeCtor
	layouts *immutable.SortedMap // heap.Addr -> *ClosureLayout

	ctorAddrs   map[*TypeCtor]heap.Addr
	layoutAddrs map[*ClosureLayout]heap.Addr
	interned    map[*App]heap.Addr
}

// NewRegistry maps a static segment of the given size at base, and registers the
// builtin type constructors.
func NewRegistry(mem *heap.Memory, base heap.Addr, words int) (*Registry, error) {
	static, err := heap.NewArena(mem, "static", base, words, heap.FlagStaticSegment)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		mem:         mem,
		static:      static,
		names:       emptyNameMap,
		ctors:       emptyAddrMap,
		layouts:     emptyAddrMap,
		ctorAddrs:   make(map[*TypeCtor]heap.Addr, len(Builtins)),
		layoutAddrs: make(map[*ClosureLayout]heap.Addr),
		interned:    make(map[*App]heap.Addr),
	}
	for _, tc := range Builtins {
		if err := r.Register(tc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Memory returns the memory holding the static segment.
func (r *Registry) Memory() *heap.Memory { return r.mem }

// Static returns the address range of the static segment.
func (r *Registry) Static() heap.Region { return r.static.Segment().Range() }

// Len returns the number of registered type constructors.
func (r *Registry) Len() int { return r.names.Len() }

// Register assigns a static address to a type constructor.
func (r *Registry) Register(tc *TypeCtor) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	name := tc.QualifiedName()
	if _, ok := r.names.Get(name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	addr, err := r.static.AllocAtomicWords(1)
	if err != nil {
		return fmt.Errorf("registering %s: %w", name, err)
	}
	if err := r.mem.Store(addr, heap.Imm(uint64(r.names.Len()))); err != nil {
		return err
	}
	r.names = r.names.Set(name, tc)
	r.ctors = r.ctors.Set(addr, tc)
	r.ctorAddrs[tc] = addr
	return nil
}

// RegisterClosure assigns a static address to a closure layout.
func (r *Registry) RegisterClosure(l *ClosureLayout) (heap.Addr, error) {
	if addr, ok := r.layoutAddrs[l]; ok {
		return addr, nil
	}
	addr, err := r.static.AllocAtomicWords(1)
	if err != nil {
		return 0, fmt.Errorf("registering closure layout %s: %w", l.Name, err)
	}
	r.layouts = r.layouts.Set(addr, l)
	r.layoutAddrs[l] = addr
	return addr, nil
}

// Lookup a type constructor by module, name and arity.
func (r *Registry) Lookup(module, name string, arity int) (*TypeCtor, bool) {
	v, ok := r.names.Get((&TypeCtor{Module: module, Name: name, Arity: arity}).QualifiedName())
	if !ok {
		return nil, false
	}
	return v.(*TypeCtor), true
}

// AddrOf returns the static address of a registered type constructor.
func (r *Registry) AddrOf(tc *TypeCtor) (heap.Addr, error) {
	addr, ok := r.ctorAddrs[tc]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnregistered, tc.QualifiedName())
	}
	return addr, nil
}

// CtorAt returns the type constructor registered at a static address.
func (r *Registry) CtorAt(addr heap.Addr) (*TypeCtor, bool) {
	v, ok := r.ctors.Get(addr)
	if !ok {
		return nil, false
	}
	return v.(*TypeCtor), true
}

// ClosureAt returns the closure layout registered at a static address.
func (r *Registry) ClosureAt(addr heap.Addr) (*ClosureLayout, bool) {
	v, ok := r.layouts.Get(addr)
	if !ok {
		return nil, false
	}
	return v.(*ClosureLayout), true
}

// Range iterates over registered type constructors in name order.
// If f returns false, iteration will be stopped.
func (r *Registry) Range(f func(*TypeCtor) bool) {
	iter := r.names.Iterator()
	for !iter.Done() {
		_, v := iter.Next()
		if !f(v.(*TypeCtor)) {
			return
		}
	}
}

// Intern returns the static descriptor for a ground pseudo type descriptor. Interned
// descriptors are built once and shared by every later use.
func (r *Registry) Intern(p Pseudo) (heap.Addr, error) {
	switch p := p.(type) {
	case *TypeCtor:
		return r.AddrOf(p)
	case *App:
		if p.HasGenericVars {
			return 0, fmt.Errorf("%w: cannot intern generic descriptor %s", ErrBadParam, PseudoString(p))
		}
		if addr, ok := r.interned[p]; ok {
			return addr, nil
		}
		args := make([]heap.Addr, p.Args.Len())
		var err error
		p.Args.Range(func(i int, arg Pseudo) bool {
			args[i], err = r.Intern(arg)
			return err == nil
		})
		if err != nil {
			return 0, err
		}
		addr, err := NewInterp(r).Build(r.static, p.Ctor, args...)
		if err != nil {
			return 0, err
		}
		r.interned[p] = addr
		return addr, nil
	case *Var:
		return 0, fmt.Errorf("%w: cannot intern type parameter T%d", ErrBadParam, p.Index+1)
	}
	return 0, fmt.Errorf("%w: nil descriptor", ErrBadParam)
}
