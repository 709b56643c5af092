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
	"strconv"

	"github.com/wdamron/deepcopy/heap"
)

var (
	ErrNoLayout          = errors.New("type constructor has no layout for tag")
	ErrBadParam          = errors.New("type parameter is out of range")
	ErrInvalidCtor       = errors.New("invalid type constructor")
	ErrUnregistered      = errors.New("type constructor is not registered")
	ErrUnknownDescriptor = errors.New("address does not hold a type descriptor")
)

// Pseudo is the base interface for pseudo type descriptors: descriptors found in static
// layout data, which may refer to type parameters of an enclosing descriptor.
//
// A pseudo descriptor is either a type parameter (*Var), a type constructor applied to
// no arguments (*TypeCtor), or a type constructor applied to pseudo descriptors (*App).
type Pseudo interface {
	TypeName() string
	IsGeneric() bool
}

func (t *Var) TypeName() string      { return "Var" }
func (t *TypeCtor) TypeName() string { return "TypeCtor" }
func (t *App) TypeName() string      { return "App" }

func (t *Var) IsGeneric() bool      { return true }
func (t *TypeCtor) IsGeneric() bool { return false }
func (t *App) IsGeneric() bool      { return t.HasGenericVars }

// Type parameter: refers to the argument at Index of the enclosing descriptor.
type Var struct {
	Index int
}

// Create a reference to the type parameter at index.
func NewVar(index int) *Var { return &Var{Index: index} }

// Type application: `list(T1)` or `pred(int, string)`
type App struct {
	Ctor           *TypeCtor
	Args           PseudoList
	HasGenericVars bool
}

// Create a type application. NewApp panics if the number of arguments does not match
// the arity of a first-order constructor.
func NewApp(ctor *TypeCtor, args ...Pseudo) *App {
	if !ctor.HigherOrder && len(args) != ctor.Arity {
		panic("wrong number of arguments for " + ctor.QualifiedName())
	}
	list := NewPseudoList(args...)
	return &App{Ctor: ctor, Args: list, HasGenericVars: list.IsGeneric()}
}

// Functor is one alternative of a tagged union, or the single functor of a no-tag type.
type Functor struct {
	Name string
	// Pseudo type descriptors of the fields, resolved against the enclosing descriptor.
	Args PseudoList
	// Field names; empty or shorter than Args when fields are unnamed.
	ArgNames []string
}

func (f *Functor) Arity() int { return f.Args.Len() }

// ArgName returns the name of field i, or the empty string.
func (f *Functor) ArgName(i int) string {
	if i < len(f.ArgNames) {
		return f.ArgNames[i]
	}
	return ""
}

// LayoutEntry describes the alternatives of a tagged union which share one primary tag.
type LayoutEntry struct {
	TagRep TagRep
	// Functors indexed by secondary tag. An Unshared entry holds exactly one functor.
	Functors []*Functor
}

// Functor returns the functor selected by a secondary tag.
func (e *LayoutEntry) Functor(sectag uint64) (*Functor, error) {
	if sectag >= uint64(len(e.Functors)) {
		return nil, fmt.Errorf("%w: secondary tag %d", ErrNoLayout, sectag)
	}
	return e.Functors[sectag], nil
}

// TypeCtor is the static descriptor of a type constructor. Type constructors are
// registered once and never copied; a descriptor with no arguments is identical to the
// address of its constructor.
type TypeCtor struct {
	Module string
	Name   string
	Arity  int
	Rep    Rep
	// Higher-order constructors (pred, func) have a variable arity stored in each descriptor.
	HigherOrder bool

	// RepDU: layout entries indexed by primary tag.
	Layout []LayoutEntry
	// RepNoTag: the single functor, with exactly one field.
	Functor *Functor
	// RepEquiv: the equivalent type, possibly referring to parameters of this type.
	Equiv Pseudo
	// RepEquivVar: index of the parameter this type is equivalent to.
	Param int
	// RepEnum: alternative names indexed by value.
	Enum []string
}

// QualifiedName returns `module.name/arity`.
func (t *TypeCtor) QualifiedName() string {
	return t.Module + "." + t.Name + "/" + strconv.Itoa(t.Arity)
}

// LayoutFor returns the layout entry for a primary tag of a tagged union.
func (t *TypeCtor) LayoutFor(tag heap.Tag) (*LayoutEntry, error) {
	if t.Rep != RepDU || int(tag) >= len(t.Layout) {
		return nil, fmt.Errorf("%w %d in %s", ErrNoLayout, tag, t.QualifiedName())
	}
	return &t.Layout[tag], nil
}

// Validate checks that the layout data of t is consistent with its representation.
// Unknown representations are accepted; they are rejected when values are copied.
func (t *TypeCtor) Validate() error {
	fail := func(msg string) error {
		return fmt.Errorf("%w %s: %s", ErrInvalidCtor, t.QualifiedName(), msg)
	}
	if t.Name == "" {
		return fail("missing name")
	}
	if t.Arity < 0 || (t.HigherOrder && t.Arity != 0) {
		return fail("bad arity")
	}
	checkParams := func(ps PseudoList) error {
		var err error
		ps.Range(func(i int, p Pseudo) bool {
			err = t.checkPseudo(p)
			return err == nil
		})
		return err
	}
	switch t.Rep {
	case RepDU:
		if len(t.Layout) == 0 || len(t.Layout) > heap.NumTags {
			return fail("tagged union must have between 1 and " + strconv.Itoa(heap.NumTags) + " layout entries")
		}
		for tag, e := range t.Layout {
			switch e.TagRep {
			case SharedLocal:
			case SharedRemote:
				if len(e.Functors) == 0 {
					return fail("shared remote tag " + strconv.Itoa(tag) + " has no functors")
				}
			case Unshared:
				if len(e.Functors) != 1 || e.Functors[0].Arity() == 0 {
					return fail("unshared tag " + strconv.Itoa(tag) + " must hold one functor with fields")
				}
			default:
				return fail("bad tag representation for tag " + strconv.Itoa(tag))
			}
			for _, f := range e.Functors {
				if err := checkParams(f.Args); err != nil {
					return err
				}
			}
		}
	case RepNoTag:
		if t.Functor == nil || t.Functor.Arity() != 1 {
			return fail("no-tag type must have one functor with one field")
		}
		return checkParams(t.Functor.Args)
	case RepEquiv:
		if t.Equiv == nil {
			return fail("missing equivalent type")
		}
		return t.checkPseudo(t.Equiv)
	case RepEquivVar:
		if t.Param < 0 || t.Param >= t.Arity {
			return fail("parameter " + strconv.Itoa(t.Param) + " out of range")
		}
	}
	return nil
}

func (t *TypeCtor) checkPseudo(p Pseudo) error {
	switch p := p.(type) {
	case *Var:
		if p.Index < 0 || p.Index >= t.Arity {
			return fmt.Errorf("%w: T%d in %s", ErrBadParam, p.Index+1, t.QualifiedName())
		}
	case *App:
		var err error
		p.Args.Range(func(_ int, arg Pseudo) bool {
			err = t.checkPseudo(arg)
			return err == nil
		})
		return err
	case nil:
		return fmt.Errorf("%w %s: nil field type", ErrInvalidCtor, t.QualifiedName())
	}
	return nil
}

// ClosureLayout identifies a procedure and the pseudo type descriptors of all its
// arguments. A closure with n hidden arguments holds the first n arguments.
type ClosureLayout struct {
	Name string
	Args PseudoList
}
