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
	"errors"
	"strings"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

var (
	// The value has an uninhabited type.
	ErrVoid = errors.New("cannot copy a value of an uninhabited type")
	// A foreign pointer refers to memory inside the movable region.
	ErrForeignPointer = errors.New("foreign pointer inside the movable region")
	// Saved heap pointers cannot be relocated.
	ErrSavedHeapPointer = errors.New("cannot copy a saved heap pointer")
	ErrUnknownRep       = errors.New("unknown representation")
	// The value is inconsistent with its type descriptor.
	ErrMalformed = errors.New("malformed value")
	// Nesting exceeded the configured maximum depth.
	ErrTooDeep = errors.New("value is nested too deeply")
	// The movable region overlaps memory owned by the copier or the registry.
	ErrBadRegion = errors.New("invalid movable region")
)

// CopyError describes the object which caused a copy to fail.
type CopyError struct {
	Rep  types.Rep
	Type string
	Addr heap.Addr
	Err  error
}

func (e *CopyError) Error() string {
	var sb strings.Builder
	sb.WriteString("deepcopy: ")
	if e.Type != "" {
		sb.WriteString(e.Type)
		sb.WriteString(" (")
		sb.WriteString(e.Rep.String())
		sb.WriteString(")")
	} else {
		sb.WriteString(e.Rep.String())
	}
	if e.Addr != 0 {
		sb.WriteString(" at ")
		sb.WriteString(e.Addr.String())
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *CopyError) Unwrap() error { return e.Err }
