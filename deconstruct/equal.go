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

package deconstruct

import (
	"bytes"
	"fmt"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

type bodyPair struct{ a, b heap.Addr }

// Equal reports whether a and b, both of the type described at ti, are structurally
// equal. Cyclic terms are equal when they cannot be told apart by unfolding them.
// Closures are compared by procedure and hidden arguments.
func (d *Deconstructor) Equal(a, b heap.Value, ti heap.Addr) (bool, error) {
	defer d.scoped()()
	return d.equal(make(map[bodyPair]bool), a, b, ti)
}

func (d *Deconstructor) equal(seen map[bodyPair]bool, a, b heap.Value, tiAddr heap.Addr) (bool, error) {
	ti, err := d.expand(tiAddr)
	if err != nil {
		return false, err
	}

	switch ti.Rep() {
	case types.RepFloat:
		fa, err := d.floatValue(a)
		if err != nil {
			return false, err
		}
		fb, err := d.floatValue(b)
		return fa == fb, err

	case types.RepString:
		if a.Body() == b.Body() {
			return true, nil
		}
		sa, err := d.mem.LoadBytes(a.Body())
		if err != nil {
			return false, err
		}
		sb, err := d.mem.LoadBytes(b.Body())
		return bytes.Equal(sa, sb), err

	case types.RepTypeInfo:
		return types.TypeString(d.in, a.Body()) == types.TypeString(d.in, b.Body()), nil

	case types.RepDU, types.RepNoTag, types.RepArray, types.RepUniv, types.RepPred:
		if a.Tag != b.Tag {
			return false, nil
		}
		// a no-tag term shares its body with its field
		if a.IsRef() && b.IsRef() && ti.Rep() != types.RepNoTag {
			if a.Body() == b.Body() {
				return true, nil
			}
			pair := bodyPair{a.Body(), b.Body()}
			if seen[pair] {
				return true, nil
			}
			seen[pair] = true
		}
		if ti.Rep() == types.RepPred {
			for i := 0; i < 2; i++ {
				wa, err := d.mem.LoadField(a.Body(), i)
				if err != nil {
					return false, err
				}
				wb, err := d.mem.LoadField(b.Body(), i)
				if err != nil {
					return false, err
				}
				if wa != wb {
					return false, nil
				}
			}
		}
		return d.equalArgs(seen, a, b, tiAddr)

	case types.RepEnum, types.RepInt, types.RepChar, types.RepCPointer,
		types.RepSuccIP, types.RepRedoIP, types.RepCurFr, types.RepMaxFr,
		types.RepTrailPtr, types.RepTicket, types.RepHP:
		return a == b, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUncomparable, types.TypeString(d.in, ti.Addr()))
}

func (d *Deconstructor) equalArgs(seen map[bodyPair]bool, a, b heap.Value, ti heap.Addr) (bool, error) {
	fa, na, err := d.Functor(a, ti)
	if err != nil {
		return false, err
	}
	fb, nb, err := d.Functor(b, ti)
	if err != nil {
		return false, err
	}
	if fa != fb || na != nb {
		return false, nil
	}
	for i := 0; i < na; i++ {
		ok, err := d.equalArg(seen, a, b, ti, i)
		if !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *Deconstructor) equalArg(seen map[bodyPair]bool, a, b heap.Value, ti heap.Addr, i int) (bool, error) {
	va, tiA, err := d.Arg(a, ti, i)
	if err != nil {
		return false, err
	}
	vb, tiB, err := d.Arg(b, ti, i)
	if err != nil {
		return false, err
	}
	// existential arguments carry their own descriptors
	if tiA != tiB && types.TypeString(d.in, tiA) != types.TypeString(d.in, tiB) {
		return false, nil
	}
	return d.equal(seen, va, vb, tiA)
}
