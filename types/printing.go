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
	"strconv"
	"strings"
	"sync"

	"github.com/wdamron/deepcopy/heap"
)

// Nested descriptors deeper than this are elided when printing.
const maxPrintDepth = 64

var printerPool = sync.Pool{
	New: func() interface{} { return &typePrinter{} },
}

func newTypePrinter(in *Interp) *typePrinter {
	p := printerPool.Get().(*typePrinter)
	p.in = in
	return p
}

func (p *typePrinter) Release() {
	p.in = nil
	p.sb.Reset()
	printerPool.Put(p)
}

type typePrinter struct {
	in *Interp
	sb strings.Builder
}

var _varNames [16]string

func init() {
	for i := range _varNames {
		_varNames[i] = "T" + strconv.Itoa(i+1)
	}
}

func getVarName(i int) string {
	if i >= 0 && i < len(_varNames) {
		return _varNames[i]
	}
	return "T" + strconv.Itoa(i+1)
}

// CtorName returns `module:name/arity`, or `<<module:name/arity>>` if wrap is set.
func CtorName(tc *TypeCtor, wrap bool) string {
	var sb strings.Builder
	if wrap {
		sb.WriteString("<<")
	}
	sb.WriteString(tc.Module)
	sb.WriteByte(':')
	sb.WriteString(tc.Name)
	sb.WriteByte('/')
	sb.WriteString(strconv.Itoa(tc.Arity))
	if wrap {
		sb.WriteString(">>")
	}
	return sb.String()
}

// PseudoString returns a string representation of a pseudo type descriptor. Type
// parameters are printed as T1, T2, ...
func PseudoString(t Pseudo) string {
	p := newTypePrinter(nil)
	pseudoString(p, t)
	s := p.sb.String()
	p.Release()
	return s
}

// TypeString returns a string representation of the concrete descriptor at addr.
func TypeString(in *Interp, addr heap.Addr) string {
	p := newTypePrinter(in)
	p.typeString(addr, 0)
	s := p.sb.String()
	p.Release()
	return s
}

func (p *typePrinter) ctorName(tc *TypeCtor) {
	if tc.Module != "builtin" {
		p.sb.WriteString(tc.Module)
		p.sb.WriteByte('.')
	}
	p.sb.WriteString(tc.Name)
}

func pseudoString(p *typePrinter, t Pseudo) {
	switch t := t.(type) {
	case *Var:
		p.sb.WriteString(getVarName(t.Index))

	case *TypeCtor:
		p.ctorName(t)

	case *App:
		p.ctorName(t.Ctor)
		if t.Args.Len() == 0 {
			return
		}
		p.sb.WriteByte('(')
		t.Args.Range(func(i int, arg Pseudo) bool {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			pseudoString(p, arg)
			return true
		})
		p.sb.WriteByte(')')

	default:
		p.sb.WriteString("<nil>")
	}
}

func (p *typePrinter) typeString(addr heap.Addr, depth int) {
	if depth > maxPrintDepth {
		p.sb.WriteString("...")
		return
	}
	ti, err := p.in.Decode(addr)
	if err != nil {
		p.sb.WriteString("<INVALID-TYPE ")
		p.sb.WriteString(addr.String())
		p.sb.WriteByte('>')
		return
	}
	p.ctorName(ti.ctor)
	if len(ti.args) == 0 {
		return
	}
	p.sb.WriteByte('(')
	for i, arg := range ti.args {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.typeString(arg, depth+1)
	}
	p.sb.WriteByte(')')
}
