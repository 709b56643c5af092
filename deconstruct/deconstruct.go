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

// deconstruct inspects terms on the heap through their type descriptors: the functor and
// arguments of a term, structural equality of two terms, and printing.
package deconstruct

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

var (
	ErrNoArg        = errors.New("term has no such argument")
	ErrUncomparable = errors.New("terms cannot be compared")
)

type releaser interface {
	Mark() heap.Addr
	Release(heap.Addr) error
}

// Deconstructor inspects terms. It cannot be used concurrently.
type Deconstructor struct {
	in      *types.Interp
	mem     *heap.Memory
	scratch heap.Allocator
	res     *types.Resolver
	base    heap.Addr
}

// Create a deconstructor which resolves generic argument types into scratch. Each
// distinct descriptor is built once. Descriptors returned by Arg and NamedArg stay valid
// until Reset.
//
// When scratch also implements Mark and Release (as *heap.Arena does), Equal and Sprint
// release the descriptors they resolve before returning, and Reset releases scratch back
// to where it stood when the deconstructor was created.
func New(in *types.Interp, scratch heap.Allocator) *Deconstructor {
	d := &Deconstructor{in: in, mem: in.Memory(), scratch: scratch, res: types.NewResolver(in, scratch)}
	d.base = d.mark()
	return d
}

// Reset forgets every descriptor resolved so far.
func (d *Deconstructor) Reset() {
	d.res.Reset()
	d.release(d.base)
}

func (d *Deconstructor) mark() heap.Addr {
	if r, ok := d.scratch.(releaser); ok {
		return r.Mark()
	}
	return 0
}

func (d *Deconstructor) release(mark heap.Addr) {
	if r, ok := d.scratch.(releaser); ok {
		r.Release(mark)
	}
}

// scoped resolves descriptors for the length of one traversal. The returned function
// forgets them and releases their scratch.
func (d *Deconstructor) scoped() func() {
	if _, ok := d.scratch.(releaser); !ok {
		return func() {}
	}
	mark, saved := d.mark(), d.res
	d.res = types.NewResolver(d.in, d.scratch)
	return func() {
		d.res = saved
		d.release(mark)
	}
}

// expand follows type synonyms to the descriptor which determines the representation.
func (d *Deconstructor) expand(tiAddr heap.Addr) (*types.TypeInfo, error) {
	for {
		ti, err := d.in.Decode(tiAddr)
		if err != nil {
			return nil, err
		}
		switch ti.Rep() {
		case types.RepEquiv:
			if tiAddr, err = d.res.Resolve(ti.Ctor().Equiv, ti.Args()); err != nil {
				return nil, err
			}
		case types.RepEquivVar:
			args := ti.Args()
			if ti.Ctor().Param >= len(args) {
				return nil, fmt.Errorf("%w: %s", types.ErrBadParam, types.CtorName(ti.Ctor(), false))
			}
			tiAddr = args[ti.Ctor().Param]
		default:
			return ti, nil
		}
	}
}

// functor returns the functor of a tagged-union term, and the word offset of its fields.
func (d *Deconstructor) functor(v heap.Value, ti *types.TypeInfo) (*types.Functor, int, error) {
	entry, err := ti.LayoutFor(v.Tag)
	if err != nil {
		return nil, 0, err
	}
	switch entry.TagRep {
	case types.SharedLocal:
		f, err := entry.Functor(v.Sectag())
		return f, 0, err
	case types.SharedRemote:
		sectag, err := d.mem.Load(v.Body())
		if err != nil {
			return nil, 0, err
		}
		f, err := entry.Functor(sectag.Sectag())
		return f, 1, err
	}
	return entry.Functors[0], 0, nil
}

func (d *Deconstructor) floatValue(v heap.Value) (float64, error) {
	if !v.IsRef() {
		return v.Float(), nil
	}
	w, err := d.mem.Load(v.Body())
	return w.Float(), err
}

// Functor returns the name and arity of the top-level functor of v, of the type described
// at ti. Primitive values are named by their printed form; values with no printable form
// are named by their type constructor.
func (d *Deconstructor) Functor(v heap.Value, ti heap.Addr) (string, int, error) {
	desc, err := d.expand(ti)
	if err != nil {
		return "", 0, err
	}
	switch desc.Rep() {
	case types.RepDU:
		f, _, err := d.functor(v, desc)
		if err != nil {
			return "", 0, err
		}
		return f.Name, f.Arity(), nil
	case types.RepEnum:
		alts := desc.Ctor().Enum
		if v.Bits >= uint64(len(alts)) {
			return "", 0, fmt.Errorf("%w: enum value %d", types.ErrNoLayout, v.Bits)
		}
		return alts[v.Bits], 0, nil
	case types.RepNoTag:
		return desc.Ctor().Functor.Name, 1, nil
	case types.RepInt:
		return strconv.FormatInt(v.Int(), 10), 0, nil
	case types.RepChar:
		return strconv.QuoteRune(v.Char()), 0, nil
	case types.RepFloat:
		f, err := d.floatValue(v)
		return strconv.FormatFloat(f, 'g', -1, 64), 0, err
	case types.RepString:
		b, err := d.mem.LoadBytes(v.Body())
		return strconv.Quote(string(b)), 0, err
	case types.RepArray:
		size, err := d.mem.Load(v.Body())
		return "<<array>>", int(size.Bits), err
	case types.RepUniv:
		return "univ_cons", 1, nil
	case types.RepPred:
		n, err := d.mem.LoadField(v.Body(), 2)
		return "<<predicate>>", int(n.Bits), err
	case types.RepTypeInfo:
		return "<<" + types.TypeString(d.in, v.Body()) + ">>", 0, nil
	}
	return types.CtorName(desc.Ctor(), true), 0, nil
}

// Arg returns argument i of v, of the type described at ti, and the descriptor of the
// argument. A descriptor resolved for a generic argument is allocated in scratch.
func (d *Deconstructor) Arg(v heap.Value, ti heap.Addr, i int) (heap.Value, heap.Addr, error) {
	desc, err := d.expand(ti)
	if err != nil {
		return heap.Nil, 0, err
	}
	noArg := func() (heap.Value, heap.Addr, error) {
		return heap.Nil, 0, fmt.Errorf("%w: %d of %s", ErrNoArg, i, types.TypeString(d.in, desc.Addr()))
	}
	if i < 0 {
		return noArg()
	}
	switch desc.Rep() {
	case types.RepDU:
		f, offset, err := d.functor(v, desc)
		if err != nil {
			return heap.Nil, 0, err
		}
		if i >= f.Arity() {
			return noArg()
		}
		return d.field(v.Body(), offset+i, f.Args.Get(i), desc)

	case types.RepNoTag:
		if i != 0 {
			return noArg()
		}
		argTi, err := d.res.Resolve(desc.Ctor().Functor.Args.Get(0), desc.Args())
		return v, argTi, err

	case types.RepArray:
		size, err := d.mem.Load(v.Body())
		if err != nil {
			return heap.Nil, 0, err
		}
		if uint64(i) >= size.Bits || len(desc.Args()) != 1 {
			return noArg()
		}
		elem, err := d.mem.LoadField(v.Body(), i+1)
		return elem, desc.Args()[0], err

	case types.RepUniv:
		if i != 0 {
			return noArg()
		}
		tiWord, err := d.mem.LoadField(v.Body(), 0)
		if err != nil {
			return heap.Nil, 0, err
		}
		val, err := d.mem.LoadField(v.Body(), 1)
		return val, tiWord.Body(), err

	case types.RepPred:
		header, err := d.mem.Load(v.Body())
		if err != nil {
			return heap.Nil, 0, err
		}
		layout, ok := d.in.Registry().ClosureAt(header.Body())
		if !ok {
			return heap.Nil, 0, fmt.Errorf("%w: %s is not a closure layout", types.ErrUnknownDescriptor, header)
		}
		n, err := d.mem.LoadField(v.Body(), 2)
		if err != nil {
			return heap.Nil, 0, err
		}
		if uint64(i) >= n.Bits || i >= layout.Args.Len() {
			return noArg()
		}
		return d.field(v.Body(), 3+i, layout.Args.Get(i), desc)
	}
	return noArg()
}

func (d *Deconstructor) field(body heap.Addr, word int, p types.Pseudo, enclosing *types.TypeInfo) (heap.Value, heap.Addr, error) {
	fv, err := d.mem.LoadField(body, word)
	if err != nil {
		return heap.Nil, 0, err
	}
	argTi, err := d.res.Resolve(p, enclosing.Args())
	return fv, argTi, err
}

// NamedArgNum returns the index of the field of v named name.
func (d *Deconstructor) NamedArgNum(v heap.Value, ti heap.Addr, name string) (int, error) {
	desc, err := d.expand(ti)
	if err != nil {
		return 0, err
	}
	var f *types.Functor
	switch desc.Rep() {
	case types.RepDU:
		if f, _, err = d.functor(v, desc); err != nil {
			return 0, err
		}
	case types.RepNoTag:
		f = desc.Ctor().Functor
	default:
		return 0, fmt.Errorf("%w: %s", ErrNoArg, name)
	}
	for i := 0; i < f.Arity(); i++ {
		if f.ArgName(i) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s has no field %s", ErrNoArg, f.Name, name)
}

// NamedArg returns the field of v named name, and the descriptor of the field.
func (d *Deconstructor) NamedArg(v heap.Value, ti heap.Addr, name string) (heap.Value, heap.Addr, error) {
	i, err := d.NamedArgNum(v, ti, name)
	if err != nil {
		return heap.Nil, 0, err
	}
	return d.Arg(v, ti, i)
}
