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
	"github.com/wdamron/deepcopy/internal/util"
)

// forwardTable maps the body of each copied source object to the body of its copy.
// Entries are recorded as soon as the destination is allocated, before its fields are
// filled, so a cyclic reference back to an object under construction finds the copy.
//
// When graph tracking is enabled, each copied object is also a vertex of graph, with an
// edge from each copied object to every copied object it references.
type forwardTable struct {
	dst map[heap.Addr]heap.Addr

	track    bool
	graph    util.Graph
	vertices map[heap.Addr]int // destination body -> vertex
	parents  []int             // vertex of each object whose fields are being copied

	// initial space:
	_parents [32]int
}

func (t *forwardTable) Init(track bool) {
	t.dst, t.track = make(map[heap.Addr]heap.Addr, 64), track
	if track {
		t.vertices = make(map[heap.Addr]int, 64)
		t.parents = t._parents[:0]
	}
}

func (t *forwardTable) Reset() {
	for k := range t.dst {
		delete(t.dst, k)
	}
	if t.track {
		for k := range t.vertices {
			delete(t.vertices, k)
		}
		t.graph = t.graph[:0]
		t.parents = t._parents[:0]
	}
}

func (t *forwardTable) Len() int { return len(t.dst) }

// Lookup returns the copy of the source body at src.
func (t *forwardTable) Lookup(src heap.Addr) (heap.Addr, bool) {
	dst, ok := t.dst[src]
	if ok && t.track {
		t.link(dst)
	}
	return dst, ok
}

// Record that src has been copied to dst.
func (t *forwardTable) Record(src, dst heap.Addr) {
	t.dst[src] = dst
	if t.track {
		t.vertices[dst] = t.graph.AddVertex()
		t.link(dst)
	}
}

func (t *forwardTable) link(dst heap.Addr) {
	if len(t.parents) == 0 {
		return
	}
	t.graph.AddEdge(t.parents[len(t.parents)-1], t.vertices[dst])
}

// Enter marks the start of copying the fields of dst.
func (t *forwardTable) Enter(dst heap.Addr) {
	if t.track {
		t.parents = append(t.parents, t.vertices[dst])
	}
}

// Leave marks the end of copying the fields of the most recently entered object.
func (t *forwardTable) Leave() {
	if t.track {
		t.parents = t.parents[:len(t.parents)-1]
	}
}

// Cycles returns the number of cyclic components among copied objects, or 0 if graph
// tracking is disabled.
func (t *forwardTable) Cycles() int {
	if !t.track {
		return 0
	}
	return len(t.graph.Cycles())
}
