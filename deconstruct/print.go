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
	"strings"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

// Terms nested deeper than this are elided when printing.
const maxPrintDepth = 256

// Sprint returns a string representation of v, of the type described at ti:
// `node(leaf, 1, "a")`. A reference back to a term being printed is elided as `...`.
func (d *Deconstructor) Sprint(v heap.Value, ti heap.Addr) string {
	defer d.scoped()()
	p := &termPrinter{d: d, path: make(map[heap.Addr]bool)}
	p.print(v, ti, 0)
	return p.sb.String()
}

type termPrinter struct {
	d    *Deconstructor
	path map[heap.Addr]bool
	sb   strings.Builder
}

func (p *termPrinter) print(v heap.Value, ti heap.Addr, depth int) {
	if depth > maxPrintDepth || (v.IsRef() && p.path[v.Body()]) {
		p.sb.WriteString("...")
		return
	}
	name, arity, err := p.d.Functor(v, ti)
	if err != nil {
		p.sb.WriteString("<INVALID-TERM>")
		return
	}
	p.sb.WriteString(name)
	if arity == 0 {
		return
	}
	if v.IsRef() && !p.d.isNoTag(ti) {
		p.path[v.Body()] = true
		defer delete(p.path, v.Body())
	}
	p.sb.WriteByte('(')
	for i := 0; i < arity; i++ {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.printArg(v, ti, i, depth)
	}
	p.sb.WriteByte(')')
}

func (p *termPrinter) printArg(v heap.Value, ti heap.Addr, i, depth int) {
	arg, argTi, err := p.d.Arg(v, ti, i)
	if err != nil {
		p.sb.WriteString("<INVALID-TERM>")
		return
	}
	p.print(arg, argTi, depth+1)
}

// isNoTag reports whether ti describes a no-tag type, whose terms share their body with
// their only field.
func (d *Deconstructor) isNoTag(ti heap.Addr) bool {
	desc, err := d.expand(ti)
	return err == nil && desc.Rep() == types.RepNoTag
}
