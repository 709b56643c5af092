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

import "strconv"

// Rep is the representation kind of a type constructor. It determines how values of
// the type are laid out on the heap, and therefore how they are copied.
type Rep int

const (
	RepUnknown Rep = iota
	// Enumeration: every value is an immediate alternative index.
	RepEnum
	// Tagged union: layout is selected by primary tag.
	RepDU
	// Single-functor, single-field type which shares the representation of its field.
	RepNoTag
	// Synonym for a fixed (possibly generic) type.
	RepEquiv
	// Synonym for one of the type's own parameters.
	RepEquivVar
	RepInt
	RepChar
	RepFloat
	RepString
	// Closure or partial application.
	RepPred
	// Existential value: a value paired with its own type descriptor.
	RepUniv
	// Uninhabited type.
	RepVoid
	RepArray
	// Type descriptor used as ordinary data.
	RepTypeInfo
	// Pointer to externally owned (foreign) memory.
	RepCPointer
	// Code addresses.
	RepSuccIP
	RepRedoIP
	// Saved heap pointer.
	RepHP
	// Stack frame and choice-point markers.
	RepCurFr
	RepMaxFr
	// Backtracking-trail entries and transaction tickets.
	RepTrailPtr
	RepTicket

	numReps
)

var repNames = [numReps]string{
	RepUnknown:  "unknown",
	RepEnum:     "enum",
	RepDU:       "du",
	RepNoTag:    "notag",
	RepEquiv:    "equiv",
	RepEquivVar: "equiv_var",
	RepInt:      "int",
	RepChar:     "char",
	RepFloat:    "float",
	RepString:   "string",
	RepPred:     "pred",
	RepUniv:     "univ",
	RepVoid:     "void",
	RepArray:    "array",
	RepTypeInfo: "type_info",
	RepCPointer: "c_pointer",
	RepSuccIP:   "succip",
	RepRedoIP:   "redoip",
	RepHP:       "hp",
	RepCurFr:    "curfr",
	RepMaxFr:    "maxfr",
	RepTrailPtr: "trail_ptr",
	RepTicket:   "ticket",
}

func (r Rep) String() string {
	if r < 0 || r >= numReps {
		return "rep(" + strconv.Itoa(int(r)) + ")"
	}
	return repNames[r]
}

// Valid reports whether r is a known representation kind other than RepUnknown.
func (r Rep) Valid() bool { return r > RepUnknown && r < numReps }

// TagRep describes where a tagged-union alternative keeps its discriminant.
type TagRep int

const (
	// Constants sharing a primary tag; the secondary tag is in the immediate itself.
	SharedLocal TagRep = iota
	// Functors sharing a primary tag; the secondary tag is the first word of the body.
	SharedRemote
	// A single functor owns the primary tag; the body is the plain field vector.
	Unshared
)

func (r TagRep) String() string {
	switch r {
	case SharedLocal:
		return "shared_local"
	case SharedRemote:
		return "shared_remote"
	case Unshared:
		return "unshared"
	}
	return "tag_rep(" + strconv.Itoa(int(r)) + ")"
}
