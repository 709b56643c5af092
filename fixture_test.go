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

package deepcopy_test

import (
	"testing"

	. "github.com/wdamron/deepcopy"
	. "github.com/wdamron/deepcopy/construct"

	"github.com/wdamron/deepcopy/deconstruct"
	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

const (
	srcBase     heap.Addr = 0x1000
	oldBase     heap.Addr = 0x400000
	staticBase  heap.Addr = 0x100000
	dstBase     heap.Addr = 0x200000
	inspectBase heap.Addr = 0x300000
)

// Type constructors shared by the tests.
var (
	tList  = DU("list", "list", 1)
	tMaybe = DU("maybe", "maybe", 1,
		Local("no"),
		Unshared(Fn("yes", TVar(0))))
	tShape = DU("shape", "shape", 0,
		Local("point"),
		Remote(Fn("circle", types.Float), Fn("square", types.Float), Fn("rect", types.Float, types.Float)))
	tPair = DU("pair", "pair", 2,
		Unshared(NamedFn("pair", []string{"fst", "snd"}, TVar(0), TVar(1))))
	tBox     = NoTag("box", "box", 1, NamedFn("box", []string{"contents"}, TVar(0)))
	tStrings = Equiv("strings", "strings", 0, TArray(types.String))
	tID      = EquivVar("id", "id", 1, 0)
	tColor   = Enum("color", "color", "red", "green", "blue")
	tNode    = DU("node", "node", 0, Unshared(Fn("node", types.String, types.Int)))
	tTagged  = DU("tagged", "tagged", 1,
		Local("none"),
		Remote(Fn("one", TVar(0)), Fn("many", TApp(tList, TVar(0)), types.Int)))
	tMystery = &types.TypeCtor{Module: "mystery", Name: "mystery", Rep: types.RepUnknown}
	// wrapper(T) == pair(T, list(T))
	tWrapper = Equiv("wrapper", "wrapper", 1, TApp(tPair, TVar(0), TApp(tList, TVar(0))))

	greet = Closure("greet.greet", types.Int, TApp(tList, TVar(1)), types.String)
)

func init() {
	tList.Layout = Layout(Local("[]"), Unshared(Fn("[|]", TVar(0), TApp(tList, TVar(0)))))
}

type fixture struct {
	mem       *heap.Memory
	reg       *types.Registry
	src       *heap.Arena // movable region
	old       *heap.Arena // stable data
	dst       *heap.Arena
	b         *Builder
	ob        *Builder
	c         *Copier
	d         *deconstruct.Deconstructor
	allocHook func(n int)
}

// hookAllocator reports each scanned allocation before it is made.
type hookAllocator struct {
	*heap.Arena
	f *fixture
}

func (h hookAllocator) AllocWords(n int) (heap.Addr, error) {
	if h.f.allocHook != nil {
		h.f.allocHook(n)
	}
	return h.Arena.AllocWords(n)
}

func newFixture(t testing.TB, cfg CopierConfig, srcWords int) *fixture {
	f := &fixture{mem: heap.NewMemory()}
	var err error
	if f.reg, err = types.NewRegistry(f.mem, staticBase, 4096); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []*types.TypeCtor{tList, tMaybe, tShape, tPair, tBox, tStrings, tID, tColor, tNode, tTagged, tMystery, tWrapper} {
		if err := f.reg.Register(tc); err != nil {
			t.Fatal(err)
		}
	}
	if f.src, err = heap.NewArena(f.mem, "src", srcBase, srcWords, 0); err != nil {
		t.Fatal(err)
	}
	if f.old, err = heap.NewArena(f.mem, "old", oldBase, 4096, 0); err != nil {
		t.Fatal(err)
	}
	if f.dst, err = heap.NewArena(f.mem, "dst", dstBase, 1<<16, 0); err != nil {
		t.Fatal(err)
	}
	inspect, err := heap.NewArena(f.mem, "inspect", inspectBase, 4096, heap.FlagScratchSegment)
	if err != nil {
		t.Fatal(err)
	}
	if f.c, err = NewCopier(f.reg, hookAllocator{f.dst, f}, cfg); err != nil {
		t.Fatal(err)
	}
	f.b, f.ob = NewBuilder(f.reg, f.src), NewBuilder(f.reg, f.old)
	f.d = deconstruct.New(f.c.Interp(), inspect)
	return f
}

func defaultFixture(t testing.TB) *fixture {
	return newFixture(t, DefaultConfig().Copier, 512)
}

func (f *fixture) region() heap.Region { return f.src.Segment().Range() }

func (f *fixture) built(t testing.TB) {
	t.Helper()
	if err := f.b.Err(); err != nil {
		t.Fatal(err)
	}
	if err := f.ob.Err(); err != nil {
		t.Fatal(err)
	}
}

// list builds a list from elems with b, sharing tail.
func list(b *Builder, tail heap.Value, elems ...heap.Value) heap.Value {
	for i := len(elems) - 1; i >= 0; i-- {
		tail = b.Unshared(1, elems[i], tail)
	}
	return tail
}

func emptyList() heap.Value { return heap.Local(0, 0) }

func (f *fixture) load(t testing.TB, v heap.Value, i int) heap.Value {
	t.Helper()
	w, err := f.mem.LoadField(v.Body(), i)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func (f *fixture) copy(t testing.TB, v heap.Value, ti heap.Addr) heap.Value {
	t.Helper()
	out, err := f.c.CopyValue(v, ti, f.region())
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func (f *fixture) checkEqual(t testing.TB, a, b heap.Value, ti heap.Addr) {
	t.Helper()
	eq, err := f.d.Equal(a, b, ti)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatalf("copy differs from source:\n  src: %s\n  dst: %s", f.d.Sprint(a, ti), f.d.Sprint(b, ti))
	}
}

// checkDetached fails if any destination word refers into the movable region.
func (f *fixture) checkDetached(t testing.TB) {
	t.Helper()
	region := f.region()
	for a := f.dst.Segment().Base; a < f.dst.Top(); a = a.Word(1) {
		w, err := f.mem.Load(a)
		if err != nil {
			t.Fatal(err)
		}
		if w.IsRef() && region.Contains(w.Body()) {
			t.Fatalf("destination word at %s refers into %s: %s", a, region, w)
		}
	}
}
