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

package deconstruct_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/wdamron/deepcopy/construct"

	"github.com/wdamron/deepcopy/deconstruct"
	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

var (
	tList = DU("list", "list", 1)
	tTree = DU("tree", "tree", 1)
	tBox  = NoTag("box", "box", 1, NamedFn("box", []string{"contents"}, TVar(0)))
	tSyn  = Equiv("syn", "syn", 1, TApp(tList, TVar(0)))
)

func init() {
	tList.Layout = Layout(Local("[]"), Unshared(Fn("[|]", TVar(0), TApp(tList, TVar(0)))))
	tTree.Layout = Layout(Local("leaf"),
		Remote(NamedFn("node", []string{"left", "value", "right"}, TApp(tTree, TVar(0)), TVar(0), TApp(tTree, TVar(0)))))
}

type env struct {
	reg     *types.Registry
	b       *Builder
	scratch *heap.Arena
	d       *deconstruct.Deconstructor
}

func newEnv(t *testing.T) *env {
	mem := heap.NewMemory()
	reg, err := types.NewRegistry(mem, 0x10000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []*types.TypeCtor{tList, tTree, tBox, tSyn} {
		if err := reg.Register(tc); err != nil {
			t.Fatal(err)
		}
	}
	data, err := heap.NewArena(mem, "data", 0x100000, 4096, 0)
	if err != nil {
		t.Fatal(err)
	}
	scratch, err := heap.NewArena(mem, "scratch", 0x200000, 1024, heap.FlagScratchSegment)
	if err != nil {
		t.Fatal(err)
	}
	return &env{reg: reg, b: NewBuilder(reg, data), scratch: scratch, d: deconstruct.New(types.NewInterp(reg), scratch)}
}

func (e *env) tree(l, r heap.Value, v heap.Value) heap.Value { return e.b.Remote(1, 0, l, v, r) }

func TestFunctorArgs(t *testing.T) {
	e := newEnv(t)
	leaf := heap.Local(0, 0)
	tree := e.tree(e.tree(leaf, leaf, e.b.String("a")), leaf, e.b.String("b"))
	ti := e.b.Type(TApp(tTree, types.String))
	if err := e.b.Err(); err != nil {
		t.Fatal(err)
	}

	name, arity, err := e.d.Functor(tree, ti)
	if err != nil || name != "node" || arity != 3 {
		t.Fatalf("unexpected functor %s/%d, %v", name, arity, err)
	}
	if name, arity, _ := e.d.Functor(leaf, ti); name != "leaf" || arity != 0 {
		t.Fatalf("unexpected functor %s/%d", name, arity)
	}

	v, argTi, err := e.d.NamedArg(tree, ti, "value")
	if err != nil {
		t.Fatal(err)
	}
	if s := e.d.Sprint(v, argTi); s != `"b"` {
		t.Fatalf("unexpected value: %s", s)
	}
	left, leftTi, err := e.d.Arg(tree, ti, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s := types.TypeString(types.NewInterp(e.reg), leftTi); s != "tree.tree(string)" {
		t.Fatalf("unexpected argument type: %s", s)
	}
	if s := e.d.Sprint(left, leftTi); s != `node(leaf, "a", leaf)` {
		t.Fatalf("unexpected argument: %s", s)
	}
	if _, leftTi2, _ := e.d.Arg(tree, ti, 0); leftTi2 != leftTi {
		t.Fatalf("expected one descriptor for tree(string), found %s and %s", leftTi, leftTi2)
	}
	e.d.Reset()
	if e.scratch.Top() != e.scratch.Segment().Base {
		t.Fatalf("reset left scratch descriptors")
	}

	if i, err := e.d.NamedArgNum(tree, ti, "right"); err != nil || i != 2 {
		t.Fatalf("expected field 2, found %d, %v", i, err)
	}
	if _, err := e.d.NamedArgNum(tree, ti, "middle"); !errors.Is(err, deconstruct.ErrNoArg) {
		t.Fatalf("expected no such field, found %v", err)
	}
	if _, _, err := e.d.Arg(tree, ti, 3); !errors.Is(err, deconstruct.ErrNoArg) {
		t.Fatalf("expected no such argument, found %v", err)
	}
	if _, _, err := e.d.Arg(leaf, ti, 0); !errors.Is(err, deconstruct.ErrNoArg) {
		t.Fatalf("expected no such argument, found %v", err)
	}
}

func TestSynonymsAndWrappers(t *testing.T) {
	e := newEnv(t)
	l := e.b.Unshared(1, heap.Int(1), e.b.Unshared(1, heap.Int(2), heap.Local(0, 0)))
	syn := e.b.Type(TApp(tSyn, types.Int))
	box := e.b.Type(TApp(tBox, TApp(tSyn, types.Int)))
	if err := e.b.Err(); err != nil {
		t.Fatal(err)
	}
	if s := e.d.Sprint(l, syn); s != "[|](1, [|](2, []))" {
		t.Fatalf("unexpected term: %s", s)
	}
	if s := e.d.Sprint(l, box); s != "box([|](1, [|](2, [])))" {
		t.Fatalf("unexpected term: %s", s)
	}
	v, _, err := e.d.NamedArg(l, box, "contents")
	if err != nil || v != l {
		t.Fatalf("a wrapper's field is the wrapper itself: %s, %v", v, err)
	}
	if e.scratch.Top() != e.scratch.Segment().Base {
		t.Fatalf("printing leaked scratch descriptors")
	}
}

func TestEqual(t *testing.T) {
	e := newEnv(t)
	b := e.b
	ti := b.Type(TApp(tList, types.String))
	a1 := b.Unshared(1, b.String("x"), b.Unshared(1, b.String("y"), heap.Local(0, 0)))
	a2 := b.Unshared(1, b.String("x"), b.Unshared(1, b.String("y"), heap.Local(0, 0)))
	a3 := b.Unshared(1, b.String("x"), b.Unshared(1, b.String("z"), heap.Local(0, 0)))
	a4 := b.Unshared(1, b.String("x"), heap.Local(0, 0))

	// two rings of the same elements, of different lengths
	r1 := b.Unshared(1, b.String("r"), heap.Local(0, 0))
	b.SetField(r1, 1, r1)
	r2 := b.Unshared(1, b.String("r"), heap.Local(0, 0))
	r3 := b.Unshared(1, b.String("r"), r2)
	b.SetField(r2, 1, r3)
	if err := b.Err(); err != nil {
		t.Fatal(err)
	}

	for _, c := range []struct {
		a, b  heap.Value
		equal bool
	}{
		{a1, a1, true},
		{a1, a2, true},
		{a1, a3, false},
		{a1, a4, false},
		{r1, r2, true},
		{r1, a4, false},
	} {
		eq, err := e.d.Equal(c.a, c.b, ti)
		if err != nil {
			t.Fatal(err)
		}
		if eq != c.equal {
			t.Fatalf("%s == %s: expected %v", e.d.Sprint(c.a, ti), e.d.Sprint(c.b, ti), c.equal)
		}
	}
	if s := e.d.Sprint(r3, ti); s != `[|]("r", [|]("r", ...))` {
		t.Fatalf("unexpected term: %s", s)
	}

	voidTi := b.TypeInfo(types.Void)
	if _, err := e.d.Equal(heap.Int(0), heap.Int(0), voidTi); !errors.Is(err, deconstruct.ErrUncomparable) {
		t.Fatalf("expected uncomparable, found %v", err)
	}
}

func TestLongList(t *testing.T) {
	e := newEnv(t)
	ti := e.b.Type(TApp(tList, types.Int))
	build := func(n int) heap.Value {
		l := heap.Local(0, 0)
		for i := n; i > 0; i-- {
			l = e.b.Unshared(1, heap.Int(int64(i)), l)
		}
		return l
	}
	// each list outgrows scratch if a descriptor is resolved per cell
	a, b := build(900), build(900)
	if err := e.b.Err(); err != nil {
		t.Fatal(err)
	}
	eq, err := e.d.Equal(a, b, ti)
	if err != nil || !eq {
		t.Fatalf("expected equal lists: %v, %v", eq, err)
	}
	if s := e.d.Sprint(a, ti); !strings.HasPrefix(s, "[|](1, [|](2, ") || !strings.HasSuffix(s, "...)))") {
		t.Fatalf("unexpected term: %.40s...", s)
	}
	if e.scratch.Top() != e.scratch.Segment().Base {
		t.Fatalf("traversal leaked scratch descriptors")
	}
}
