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
	"github.com/benbjohnson/immutable"
)

var emptyList = immutable.NewList()

// EmptyPseudoList contains no descriptors.
var EmptyPseudoList = PseudoList{emptyList}

// PseudoList is an immutable list of pseudo type descriptors. Lists are shared freely
// between layouts, since static layout data is never mutated.
type PseudoList struct {
	l *immutable.List
}

// Create a list containing the given descriptors.
func NewPseudoList(ps ...Pseudo) PseudoList {
	if len(ps) == 0 {
		return EmptyPseudoList
	}
	b := NewPseudoListBuilder()
	for _, p := range ps {
		b.Append(p)
	}
	return b.Build()
}

func (l PseudoList) Len() int {
	if l.l == nil {
		return 0
	}
	return l.l.Len()
}

func (l PseudoList) Get(i int) Pseudo { return l.l.Get(i).(Pseudo) }

func (l PseudoList) Slice(start, end int) PseudoList { return PseudoList{l.l.Slice(start, end)} }

// If f returns false, iteration will be stopped.
func (l PseudoList) Range(f func(int, Pseudo) bool) {
	if l.l == nil {
		return
	}
	iter := l.l.Iterator()
	for !iter.Done() {
		i, v := iter.Next()
		if !f(i, v.(Pseudo)) {
			return
		}
	}
}

// Slice of the descriptors in the list.
func (l PseudoList) Pseudos() []Pseudo {
	ps := make([]Pseudo, 0, l.Len())
	l.Range(func(_ int, p Pseudo) bool {
		ps = append(ps, p)
		return true
	})
	return ps
}

// IsGeneric reports whether any descriptor in the list refers to a type parameter.
func (l PseudoList) IsGeneric() bool {
	generic := false
	l.Range(func(_ int, p Pseudo) bool {
		generic = p.IsGeneric()
		return !generic
	})
	return generic
}

func (l PseudoList) Builder() PseudoListBuilder {
	imm := l.l
	if imm == nil {
		imm = emptyList
	}
	return PseudoListBuilder{immutable.NewListBuilder(imm)}
}

type PseudoListBuilder struct {
	b *immutable.ListBuilder
}

func NewPseudoListBuilder() PseudoListBuilder {
	return PseudoListBuilder{immutable.NewListBuilder(emptyList)}
}

func (b PseudoListBuilder) Len() int            { return b.b.Len() }
func (b PseudoListBuilder) Append(p Pseudo)     { b.b.Append(p) }
func (b PseudoListBuilder) Set(i int, p Pseudo) { b.b.Set(i, p) }
func (b PseudoListBuilder) Build() PseudoList   { return PseudoList{b.b.List()} }
