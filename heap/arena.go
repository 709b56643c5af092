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

package heap

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfMemory = errors.New("arena is out of memory")
	ErrBadSize     = errors.New("allocation size must be positive")
	ErrBadMark     = errors.New("mark does not belong to the arena's allocated range")
)

// Allocator bump-allocates heap bodies. Allocations are never freed individually.
type Allocator interface {
	// Allocate n words which may hold references.
	AllocWords(n int) (Addr, error)
	// Allocate n words of opaque data (e.g. string bytes) which never hold references.
	AllocAtomicWords(n int) (Addr, error)
}

var _ Allocator = (*Arena)(nil)

// Stats counts allocations made by an arena since it was created or reset.
type Stats struct {
	Allocs       int
	Words        int
	AtomicAllocs int
	AtomicWords  int
}

// TotalWords returns the number of scanned and atomic words allocated.
func (s Stats) TotalWords() int { return s.Words + s.AtomicWords }

// Sub returns the allocations made between an earlier snapshot o and s.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Allocs:       s.Allocs - o.Allocs,
		Words:        s.Words - o.Words,
		AtomicAllocs: s.AtomicAllocs - o.AtomicAllocs,
		AtomicWords:  s.AtomicWords - o.AtomicWords,
	}
}

// Arena is a bump allocator over a single mapped segment. Arenas are reclaimed
// wholesale with Reset or by dropping the segment.
//
// An arena cannot be used concurrently.
type Arena struct {
	mem   *Memory
	seg   *Segment
	top   Addr
	high  Addr
	stats Stats
}

// NewArena maps a segment of the given size at base and returns an arena allocating
// from it.
func NewArena(mem *Memory, name string, base Addr, words int, flags SegmentFlags) (*Arena, error) {
	seg, err := mem.Map(name, base, words, flags)
	if err != nil {
		return nil, err
	}
	return &Arena{mem: mem, seg: seg, top: seg.Base, high: seg.Base}, nil
}

// Memory returns the memory the arena allocates from.
func (a *Arena) Memory() *Memory { return a.mem }

// Segment returns the segment the arena allocates from.
func (a *Arena) Segment() *Segment { return a.seg }

// Top returns the address of the next allocation (the heap pointer).
func (a *Arena) Top() Addr { return a.top }

// HighWater returns the highest top the arena has reached.
func (a *Arena) HighWater() Addr { return a.high }

// Used returns the region of the segment which has been allocated.
func (a *Arena) Used() Region { return Region{Lower: a.seg.Base, Upper: a.top} }

// Stats returns allocation counters.
func (a *Arena) Stats() Stats { return a.stats }

func (a *Arena) alloc(n int) (Addr, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if a.seg.Flags.Dropped() {
		return 0, fmt.Errorf("%w: %s", ErrDropped, a.seg.Name)
	}
	next := a.top.Word(n)
	if next > a.seg.Limit() || next < a.top {
		return 0, fmt.Errorf("%w: %s cannot fit %d words", ErrOutOfMemory, a.seg.Name, n)
	}
	p := a.top
	a.top = next
	if next > a.high {
		a.high = next
	}
	// fresh bodies never expose stale words from released allocations
	for i := 0; i < n; i++ {
		a.seg.cells[int((p-a.seg.Base)/WordSize)+i] = Nil
	}
	return p, nil
}

func (a *Arena) AllocWords(n int) (Addr, error) {
	p, err := a.alloc(n)
	if err == nil {
		a.stats.Allocs++
		a.stats.Words += n
	}
	return p, err
}

func (a *Arena) AllocAtomicWords(n int) (Addr, error) {
	p, err := a.alloc(n)
	if err == nil {
		a.stats.AtomicAllocs++
		a.stats.AtomicWords += n
	}
	return p, err
}

// Mark returns the current top, for a later Release.
func (a *Arena) Mark() Addr { return a.top }

// Release discards every allocation made after mark. Releases must happen in stack order.
func (a *Arena) Release(mark Addr) error {
	if mark < a.seg.Base || mark > a.top || !mark.Aligned() {
		return fmt.Errorf("%w: %s", ErrBadMark, mark)
	}
	a.top = mark
	return nil
}

// Reset discards every allocation and clears the counters.
func (a *Arena) Reset() {
	a.top, a.high, a.stats = a.seg.Base, a.seg.Base, Stats{}
}
