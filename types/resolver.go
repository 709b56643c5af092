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
	"encoding/binary"

	"github.com/wdamron/deepcopy/heap"
)

type buildKey struct {
	ctor *TypeCtor
	args string
}

// Resolver resolves pseudo descriptors like Interp.Resolve, but builds each distinct
// generic descriptor only once. Resolving the field type list(T1) of list(int) yields
// the same block for every cell of a list, so scratch use is bounded by the number of
// distinct types rather than by the depth of the terms being traversed.
//
// Resolved addresses are valid until Reset. The scratch allocator must not be released
// while the resolver holds descriptors built with it.
type Resolver struct {
	in      *Interp
	scratch heap.Allocator
	built   map[buildKey]heap.Addr
	key     []byte
	args    []heap.Addr
}

func NewResolver(in *Interp, scratch heap.Allocator) *Resolver {
	return &Resolver{in: in, scratch: scratch, built: make(map[buildKey]heap.Addr, 16)}
}

// Len returns the number of descriptors built with scratch since the last Reset.
func (r *Resolver) Len() int { return len(r.built) }

// Reset forgets every descriptor built with scratch. The caller releases scratch.
func (r *Resolver) Reset() {
	for k := range r.built {
		delete(r.built, k)
	}
}

// Resolve p against the argument vector of an enclosing concrete descriptor.
func (r *Resolver) Resolve(p Pseudo, enclosing []heap.Addr) (heap.Addr, error) {
	app, ok := p.(*App)
	if !ok || !app.HasGenericVars {
		return r.in.Resolve(p, enclosing, r.scratch)
	}

	base := len(r.args)
	defer func() { r.args = r.args[:base] }()
	var err error
	app.Args.Range(func(_ int, arg Pseudo) bool {
		var addr heap.Addr
		addr, err = r.Resolve(arg, enclosing)
		r.args = append(r.args, addr)
		return err == nil
	})
	if err != nil {
		return 0, err
	}
	args := r.args[base:]

	r.key = r.key[:0]
	for _, a := range args {
		r.key = binary.LittleEndian.AppendUint64(r.key, uint64(a))
	}
	if addr, ok := r.built[buildKey{app.Ctor, string(r.key)}]; ok {
		return addr, nil
	}
	addr, err := r.in.Build(r.scratch, app.Ctor, args...)
	if err != nil {
		return 0, err
	}
	r.built[buildKey{app.Ctor, string(r.key)}] = addr
	return addr, nil
}
