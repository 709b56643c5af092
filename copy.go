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

package deepcopy

import (
	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

func (c *Copier) enter() error {
	c.depth++
	if c.cfg.MaxDepth > 0 && c.depth > c.cfg.MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (c *Copier) leave() { c.depth-- }

func (c *Copier) copyValue(v heap.Value, tiAddr heap.Addr) (heap.Value, error) {
	if err := c.enter(); err != nil {
		c.leave()
		ti, derr := c.in.Decode(tiAddr)
		if derr != nil {
			return heap.Nil, c.fail(nil, types.RepUnknown, v.Body(), err)
		}
		return heap.Nil, c.fail(ti, ti.Rep(), v.Body(), err)
	}
	out, err := c.dispatch(v, tiAddr)
	c.leave()
	return out, err
}

func (c *Copier) dispatch(v heap.Value, tiAddr heap.Addr) (heap.Value, error) {
	ti, err := c.in.Decode(tiAddr)
	if err != nil {
		return heap.Nil, c.fail(nil, types.RepUnknown, tiAddr, err)
	}

	switch rep := ti.Rep(); rep {
	case types.RepEnum, types.RepInt, types.RepChar:
		return v, nil

	case types.RepDU:
		entry, err := ti.LayoutFor(v.Tag)
		if err != nil {
			return heap.Nil, c.malformed(ti, v, "%v", err)
		}
		switch entry.TagRep {
		case types.SharedLocal:
			if v.IsRef() {
				return heap.Nil, c.malformed(ti, v, "constant with tag %d is a reference", v.Tag)
			}
			return v, nil
		case types.SharedRemote:
			return c.copyCell(v, ti, entry, true)
		case types.Unshared:
			return c.copyCell(v, ti, entry, false)
		}
		return heap.Nil, c.malformed(ti, v, "tag %d has representation %s", v.Tag, entry.TagRep)

	case types.RepNoTag:
		return c.copyArg(v, ti.Ctor().Functor.Args.Get(0), ti)

	case types.RepEquiv:
		return c.copyArg(v, ti.Ctor().Equiv, ti)

	case types.RepEquivVar:
		args := ti.Args()
		if i := ti.Ctor().Param; i < len(args) {
			return c.copyValue(v, args[i])
		}
		return heap.Nil, c.malformed(ti, v, "descriptor has %d arguments", len(args))

	case types.RepFloat:
		if !v.IsRef() {
			return v, nil
		}
		return c.copyBoxed(v, ti)

	case types.RepString:
		return c.copyString(v, ti)

	case types.RepPred:
		return c.copyClosure(v, ti)

	case types.RepUniv:
		return c.copyUniv(v, ti)

	case types.RepArray:
		return c.copyArray(v, ti)

	case types.RepTypeInfo:
		return c.copyTypeInfo(v)

	case types.RepCPointer:
		if v.IsRef() && c.region.Contains(v.Body()) {
			return heap.Nil, c.fail(ti, rep, v.Body(), ErrForeignPointer)
		}
		return v, nil

	case types.RepSuccIP, types.RepRedoIP, types.RepCurFr, types.RepMaxFr:
		return v, nil

	// trail entries and tickets are never compacted
	case types.RepTrailPtr, types.RepTicket:
		return v, nil

	case types.RepHP:
		return heap.Nil, c.fail(ti, rep, v.Body(), ErrSavedHeapPointer)

	case types.RepVoid:
		return heap.Nil, c.fail(ti, rep, v.Body(), ErrVoid)

	default:
		return heap.Nil, c.fail(ti, rep, v.Body(), ErrUnknownRep)
	}
}

// copyArg copies v with the type p, resolved against the arguments of the enclosing
// descriptor ti.
func (c *Copier) copyArg(v heap.Value, p types.Pseudo, ti *types.TypeInfo) (heap.Value, error) {
	argTi, err := c.res.Resolve(p, ti.Args())
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), v.Body(), err)
	}
	return c.copyValue(v, argTi)
}

// copyFields copies n fields of src into dst, beginning at word offset. Field i has the
// type fields[i], resolved against ti.
func (c *Copier) copyFields(src, dst heap.Addr, offset, n int, fields types.PseudoList, ti *types.TypeInfo) error {
	c.fwd.Enter(dst)
	defer c.fwd.Leave()
	for i := 0; i < n; i++ {
		fv, err := c.mem.LoadField(src, offset+i)
		if err != nil {
			return c.fail(ti, ti.Rep(), src, err)
		}
		out, err := c.copyArg(fv, fields.Get(i), ti)
		if err != nil {
			return err
		}
		if err := c.mem.StoreField(dst, offset+i, out); err != nil {
			return c.fail(ti, ti.Rep(), dst, err)
		}
	}
	return nil
}

// copyCell copies a tagged-union cell. A remote cell begins with its secondary tag.
func (c *Copier) copyCell(v heap.Value, ti *types.TypeInfo, entry *types.LayoutEntry, remote bool) (heap.Value, error) {
	if !v.IsRef() {
		return heap.Nil, c.malformed(ti, v, "expected a cell with tag %d", v.Tag)
	}
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	body := v.Body()
	f, offset := entry.Functors[0], 0
	var sectag heap.Value
	if remote {
		var err error
		if sectag, err = c.mem.Load(body); err != nil {
			return heap.Nil, c.fail(ti, ti.Rep(), body, err)
		}
		if f, err = entry.Functor(sectag.Sectag()); err != nil {
			return heap.Nil, c.malformed(ti, v, "%v", err)
		}
		offset = 1
	}
	arity := f.Arity()
	dst, err := c.alloc(arity + offset)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	c.fwd.Record(body, dst)
	if remote {
		if err := c.mem.Store(dst, sectag); err != nil {
			return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
		}
	}
	if err := c.copyFields(body, dst, offset, arity, f.Args, ti); err != nil {
		return heap.Nil, err
	}
	return v.Retag(dst), nil
}

func (c *Copier) copyBoxed(v heap.Value, ti *types.TypeInfo) (heap.Value, error) {
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	body := v.Body()
	w, err := c.mem.Load(body)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	dst, err := c.allocAtomic(1)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	c.fwd.Record(body, dst)
	if err := c.mem.Store(dst, w); err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
	}
	return v.Retag(dst), nil
}

func (c *Copier) copyString(v heap.Value, ti *types.TypeInfo) (heap.Value, error) {
	if !v.IsRef() {
		return heap.Nil, c.malformed(ti, v, "expected a string")
	}
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	body := v.Body()
	b, err := c.mem.LoadBytes(body)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	dst, err := c.allocAtomic(heap.WordsForBytes(len(b)))
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	c.fwd.Record(body, dst)
	if err := c.mem.StoreBytes(dst, b); err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
	}
	return v.Retag(dst), nil
}

// Closure layout: [layout, code, hidden, args...]. The layout and code address are
// static; the hidden arguments are typed by the layout.
func (c *Copier) copyClosure(v heap.Value, ti *types.TypeInfo) (heap.Value, error) {
	if !v.IsRef() {
		return heap.Nil, c.malformed(ti, v, "expected a closure")
	}
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	body := v.Body()
	var header [3]heap.Value
	for i := range header {
		w, err := c.mem.LoadField(body, i)
		if err != nil {
			return heap.Nil, c.fail(ti, ti.Rep(), body, err)
		}
		header[i] = w
	}
	layout, ok := c.reg.ClosureAt(header[0].Body())
	if !ok {
		return heap.Nil, c.malformed(ti, v, "%s is not a closure layout", header[0])
	}
	n := int(header[2].Bits)
	if header[2].IsRef() || n < 0 || n > layout.Args.Len() {
		return heap.Nil, c.malformed(ti, v, "closure %s has %s hidden arguments", layout.Name, header[2])
	}
	dst, err := c.alloc(n + 3)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	c.fwd.Record(body, dst)
	for i, w := range header {
		if err := c.mem.StoreField(dst, i, w); err != nil {
			return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
		}
	}
	if err := c.copyFields(body, dst, 3, n, layout.Args, ti); err != nil {
		return heap.Nil, err
	}
	return v.Retag(dst), nil
}

// Existential layout: [typeinfo, value]. The value is copied before its descriptor,
// since copying the value reads the descriptor at its original address.
func (c *Copier) copyUniv(v heap.Value, ti *types.TypeInfo) (heap.Value, error) {
	if !v.IsRef() {
		return heap.Nil, c.malformed(ti, v, "expected an existential value")
	}
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	body := v.Body()
	tiWord, err := c.mem.LoadField(body, 0)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	val, err := c.mem.LoadField(body, 1)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	if !tiWord.IsRef() {
		return heap.Nil, c.malformed(ti, v, "existential descriptor is %s", tiWord)
	}
	dst, err := c.alloc(2)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	c.fwd.Record(body, dst)
	c.fwd.Enter(dst)
	defer c.fwd.Leave()

	newVal, err := c.copyValue(val, tiWord.Body())
	if err != nil {
		return heap.Nil, err
	}
	newTi, err := c.copyTypeInfo(tiWord)
	if err != nil {
		return heap.Nil, err
	}
	if err := c.mem.StoreField(dst, 0, newTi); err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
	}
	if err := c.mem.StoreField(dst, 1, newVal); err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
	}
	return v.Retag(dst), nil
}

// Array layout: [size, elems...]. Every element has the array's element type.
func (c *Copier) copyArray(v heap.Value, ti *types.TypeInfo) (heap.Value, error) {
	args := ti.Args()
	if len(args) != 1 {
		return heap.Nil, c.malformed(ti, v, "array descriptor has %d arguments", len(args))
	}
	if !v.IsRef() {
		return heap.Nil, c.malformed(ti, v, "expected an array")
	}
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	body := v.Body()
	size, err := c.mem.Load(body)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	n := int(size.Bits)
	if size.IsRef() || n < 0 {
		return heap.Nil, c.malformed(ti, v, "array size is %s", size)
	}
	dst, err := c.alloc(n + 1)
	if err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), body, err)
	}
	c.fwd.Record(body, dst)
	if err := c.mem.Store(dst, size); err != nil {
		return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
	}
	c.fwd.Enter(dst)
	defer c.fwd.Leave()
	for i := 1; i <= n; i++ {
		elem, err := c.mem.LoadField(body, i)
		if err != nil {
			return heap.Nil, c.fail(ti, ti.Rep(), body, err)
		}
		out, err := c.copyValue(elem, args[0])
		if err != nil {
			return heap.Nil, err
		}
		if err := c.mem.StoreField(dst, i, out); err != nil {
			return heap.Nil, c.fail(ti, ti.Rep(), dst, err)
		}
	}
	return v.Retag(dst), nil
}

// copyTypeInfo copies the descriptor referenced by v. Type constructors are static and
// never copied, so a descriptor with no arguments resolves to its constructor.
func (c *Copier) copyTypeInfo(v heap.Value) (heap.Value, error) {
	if err := c.enter(); err != nil {
		c.leave()
		e := &CopyError{Rep: types.RepTypeInfo, Addr: v.Body(), Err: err}
		if v.IsRef() {
			e.Type = types.TypeString(c.in, v.Body())
		}
		return heap.Nil, e
	}
	defer c.leave()

	if !v.IsRef() {
		return heap.Nil, c.fail(nil, types.RepTypeInfo, 0, ErrMalformed)
	}
	if out, ok := c.forwarded(v); ok {
		return out, nil
	}
	addr := v.Body()
	ti, err := c.in.Decode(addr)
	if err != nil {
		return heap.Nil, c.fail(nil, types.RepTypeInfo, addr, err)
	}
	if ti.IsCtor() {
		ctorAddr, err := c.reg.AddrOf(ti.Ctor())
		if err != nil {
			return heap.Nil, c.fail(ti, types.RepTypeInfo, addr, err)
		}
		return v.Retag(ctorAddr), nil
	}
	words := ti.Words()
	head, err := c.mem.Load(addr)
	if err != nil {
		return heap.Nil, c.fail(ti, types.RepTypeInfo, addr, err)
	}
	dst, err := c.alloc(words)
	if err != nil {
		return heap.Nil, c.fail(ti, types.RepTypeInfo, addr, err)
	}
	c.fwd.Record(addr, dst)
	if err := c.mem.Store(dst, head); err != nil {
		return heap.Nil, c.fail(ti, types.RepTypeInfo, dst, err)
	}
	args := ti.Args()
	offset := words - len(args)
	if offset == 2 {
		if err := c.mem.StoreField(dst, 1, heap.Imm(uint64(len(args)))); err != nil {
			return heap.Nil, c.fail(ti, types.RepTypeInfo, dst, err)
		}
	}
	c.fwd.Enter(dst)
	defer c.fwd.Leave()
	for i, arg := range args {
		out, err := c.copyTypeInfo(heap.Ref(0, arg))
		if err != nil {
			return heap.Nil, err
		}
		if err := c.mem.StoreField(dst, offset+i, out); err != nil {
			return heap.Nil, c.fail(ti, types.RepTypeInfo, dst, err)
		}
	}
	return v.Retag(dst), nil
}
