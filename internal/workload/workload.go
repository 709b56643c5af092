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

// workload builds synthetic source graphs for benchmarks and the command line tools.
package workload

import (
	"fmt"
	"sort"
	"strconv"

	. "github.com/wdamron/deepcopy/construct"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

// Type constructors used by workloads.
var (
	List = DU("workload", "list", 1)
	// :- type workload.tree(T) ---> leaf ; node(left :: tree(T), value :: T, right :: tree(T)).
	Tree = DU("workload", "tree", 1)
)

func init() {
	List.Layout = Layout(Local("[]"), Unshared(Fn("[|]", TVar(0), TApp(List, TVar(0)))))
	Tree.Layout = Layout(Local("leaf"),
		Unshared(NamedFn("node", []string{"left", "value", "right"}, TApp(Tree, TVar(0)), TVar(0), TApp(Tree, TVar(0)))))
}

// Register the workload type constructors, unless already registered.
func Register(reg *types.Registry) error {
	for _, tc := range []*types.TypeCtor{List, Tree} {
		if found, ok := reg.Lookup(tc.Module, tc.Name, tc.Arity); ok && found == tc {
			continue
		}
		if err := reg.Register(tc); err != nil {
			return err
		}
	}
	return nil
}

type builder func(b *Builder, size int) (heap.Value, heap.Addr)

var builders = map[string]builder{
	"list":  buildList,
	"tree":  buildTree,
	"ring":  buildRing,
	"mixed": buildMixed,
}

// Kinds returns the names of the available workloads.
func Kinds() []string {
	kinds := make([]string, 0, len(builders))
	for k := range builders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build allocates a workload of roughly size objects with alloc, and returns the root
// value and its type descriptor.
func Build(reg *types.Registry, alloc heap.Allocator, kind string, size int) (heap.Value, heap.Addr, error) {
	build, ok := builders[kind]
	if !ok {
		return heap.Nil, 0, fmt.Errorf("unknown workload %q", kind)
	}
	if size < 1 {
		return heap.Nil, 0, fmt.Errorf("invalid workload size: %d", size)
	}
	if err := Register(reg); err != nil {
		return heap.Nil, 0, err
	}
	b := NewBuilder(reg, alloc)
	v, ti := build(b, size)
	if err := b.Err(); err != nil {
		return heap.Nil, 0, fmt.Errorf("building %s workload: %w", kind, err)
	}
	return v, ti, nil
}

// A list of strings in which every fourth element shares one string.
func buildList(b *Builder, size int) (heap.Value, heap.Addr) {
	shared := b.String("shared")
	tail := heap.Local(0, 0)
	for i := size - 1; i >= 0; i-- {
		s := shared
		if i%4 != 0 {
			s = b.String("item-" + strconv.Itoa(i))
		}
		tail = b.Unshared(1, s, tail)
	}
	return tail, b.Type(TApp(List, types.String))
}

// A balanced binary tree of integers.
func buildTree(b *Builder, size int) (heap.Value, heap.Addr) {
	var build func(lo, hi int) heap.Value
	build = func(lo, hi int) heap.Value {
		if lo >= hi {
			return heap.Local(0, 0)
		}
		mid := lo + (hi-lo)/2
		return b.Unshared(1, build(lo, mid), heap.Int(int64(mid)), build(mid+1, hi))
	}
	return build(0, size), b.Type(TApp(Tree, types.Int))
}

// A cyclic list of integers.
func buildRing(b *Builder, size int) (heap.Value, heap.Addr) {
	last := b.Unshared(1, heap.Int(int64(size-1)), heap.Local(0, 0))
	head := last
	for i := size - 2; i >= 0; i-- {
		head = b.Unshared(1, heap.Int(int64(i)), head)
	}
	b.SetField(last, 1, head)
	return head, b.Type(TApp(List, types.Int))
}

// A list of existential values of varying representations.
func buildMixed(b *Builder, size int) (heap.Value, heap.Addr) {
	intTi := b.TypeInfo(types.Int)
	stringTi := b.TypeInfo(types.String)
	floatTi := b.TypeInfo(types.Float)
	arrayTi := b.Type(TArray(types.Int))
	descTi := b.TypeInfo(types.TypeDesc)
	treeTi := b.Type(TApp(Tree, types.String))

	tail := heap.Local(0, 0)
	for i := size - 1; i >= 0; i-- {
		var u heap.Value
		switch i % 5 {
		case 0:
			u = b.Univ(intTi, heap.Int(int64(i)))
		case 1:
			u = b.Univ(stringTi, b.String("mixed-"+strconv.Itoa(i)))
		case 2:
			u = b.Univ(floatTi, b.BoxedFloat(float64(i)/2))
		case 3:
			u = b.Univ(arrayTi, b.Array(heap.Int(int64(i)), heap.Int(int64(i+1)), heap.Int(int64(i+2))))
		case 4:
			leaf := heap.Local(0, 0)
			node := b.Unshared(1, leaf, b.String(strconv.Itoa(i)), leaf)
			if i%2 == 0 {
				u = b.Univ(treeTi, node)
			} else {
				u = b.Univ(descTi, b.TypeValue(treeTi))
			}
		}
		tail = b.Unshared(1, u, tail)
	}
	return tail, b.Type(TApp(List, types.Univ))
}
