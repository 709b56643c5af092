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

package types_test

import (
	"errors"
	"testing"

	. "github.com/wdamron/deepcopy/construct"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

func newRegistry(t *testing.T) (*types.Registry, *heap.Arena) {
	mem := heap.NewMemory()
	reg, err := types.NewRegistry(mem, 0x10000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	arena, err := heap.NewArena(mem, "data", 0x20000, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	return reg, arena
}

func listType() *types.TypeCtor {
	list := DU("list", "list", 1)
	list.Layout = Layout(Local("[]"), Unshared(Fn("[|]", TVar(0), TApp(list, TVar(0)))))
	return list
}

func TestRegistry(t *testing.T) {
	reg, _ := newRegistry(t)
	if reg.Len() != len(types.Builtins) {
		t.Fatalf("expected %d builtins, found %d", len(types.Builtins), reg.Len())
	}
	list := listType()
	if err := reg.Register(list); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(listType()); !errors.Is(err, types.ErrDuplicate) {
		t.Fatalf("expected duplicate registration to fail, found %v", err)
	}
	found, ok := reg.Lookup("list", "list", 1)
	if !ok || found != list {
		t.Fatalf("lookup failed")
	}
	addr, err := reg.AddrOf(list)
	if err != nil {
		t.Fatal(err)
	}
	if !reg.Static().Contains(addr) {
		t.Fatalf("constructor address %s outside static segment %s", addr, reg.Static())
	}
	if tc, ok := reg.CtorAt(addr); !ok || tc != list {
		t.Fatalf("address lookup failed")
	}
	if _, err := reg.AddrOf(listType()); !errors.Is(err, types.ErrUnregistered) {
		t.Fatalf("expected unregistered constructor, found %v", err)
	}

	var names []string
	reg.Range(func(tc *types.TypeCtor) bool {
		names = append(names, tc.QualifiedName())
		return true
	})
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("constructors out of order: %v", names)
		}
	}
}

func TestValidate(t *testing.T) {
	bad := []*types.TypeCtor{
		DU("m", "empty", 0),
		DU("m", "unshared", 0, Unshared(Fn("f"))),
		DU("m", "param", 1, Unshared(Fn("f", TVar(1)))),
		NoTag("m", "wrap", 0, Fn("w", types.Int, types.Int)),
		Equiv("m", "equiv", 0, nil),
		EquivVar("m", "var", 1, 1),
		{Module: "m", Name: "pred", Arity: 1, Rep: types.RepPred, HigherOrder: true},
	}
	reg, _ := newRegistry(t)
	for _, tc := range bad {
		if err := reg.Register(tc); err == nil {
			t.Fatalf("expected %s to be rejected", tc.QualifiedName())
		}
	}
	ok := []*types.TypeCtor{
		Enum("m", "color", "red", "green", "blue"),
		NoTag("m", "wrap", 1, Fn("w", TVar(0))),
		Equiv("m", "strings", 0, TApp(types.Array, types.String)),
		EquivVar("m", "id", 1, 0),
	}
	for _, tc := range ok {
		if err := reg.Register(tc); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecodeBuild(t *testing.T) {
	reg, arena := newRegistry(t)
	list := listType()
	if err := reg.Register(list); err != nil {
		t.Fatal(err)
	}
	in := types.NewInterp(reg)

	intAddr, _ := reg.AddrOf(types.Int)
	built, err := in.Build(arena, types.Int)
	if err != nil || built != intAddr {
		t.Fatalf("zero-argument descriptor must be its constructor: %s, %v", built, err)
	}

	listInt, err := in.Build(arena, list, intAddr)
	if err != nil {
		t.Fatal(err)
	}
	ti, err := in.Decode(listInt)
	if err != nil {
		t.Fatal(err)
	}
	if ti.Ctor() != list || ti.Rep() != types.RepDU || len(ti.Args()) != 1 || ti.Args()[0] != intAddr {
		t.Fatalf("unexpected descriptor: %#+v", ti)
	}
	if ti.Words() != 2 || ti.IsCtor() {
		t.Fatalf("expected a 2-word block, found %d words", ti.Words())
	}

	pred, err := in.Build(arena, types.Pred, intAddr, listInt)
	if err != nil {
		t.Fatal(err)
	}
	ti, err = in.Decode(pred)
	if err != nil {
		t.Fatal(err)
	}
	if ti.Words() != 4 || len(ti.Args()) != 2 || ti.Args()[1] != listInt {
		t.Fatalf("unexpected higher-order descriptor: %#+v", ti)
	}
	if s := types.TypeString(in, pred); s != "pred(int, list.list(int))" {
		t.Fatalf("type string: %s", s)
	}

	if _, err := in.Build(arena, list); !errors.Is(err, types.ErrBadParam) {
		t.Fatalf("expected arity mismatch, found %v", err)
	}
	if _, err := in.Decode(arena.Top()); !errors.Is(err, types.ErrUnknownDescriptor) {
		t.Fatalf("expected unknown descriptor, found %v", err)
	}
}

func TestResolve(t *testing.T) {
	reg, arena := newRegistry(t)
	list := listType()
	if err := reg.Register(list); err != nil {
		t.Fatal(err)
	}
	in := types.NewInterp(reg)
	intAddr, _ := reg.AddrOf(types.Int)
	strAddr, _ := reg.AddrOf(types.String)
	env := []heap.Addr{intAddr, strAddr}

	if addr, err := in.Resolve(TVar(1), env, arena); err != nil || addr != strAddr {
		t.Fatalf("expected T2 to resolve to string: %s, %v", addr, err)
	}
	if _, err := in.Resolve(TVar(2), env, arena); !errors.Is(err, types.ErrBadParam) {
		t.Fatalf("expected bad parameter, found %v", err)
	}

	// ground applications are interned once, outside the arena
	ground := TApp(list, types.Char)
	a, err := in.Resolve(ground, env, arena)
	if err != nil {
		t.Fatal(err)
	}
	b, err := in.Resolve(ground, nil, arena)
	if err != nil || a != b || !reg.Static().Contains(a) {
		t.Fatalf("expected an interned static descriptor: %s, %s, %v", a, b, err)
	}
	if s := types.TypeString(in, a); s != "list.list(character)" {
		t.Fatalf("type string: %s", s)
	}

	// generic applications are built in the arena
	mark := arena.Mark()
	generic := TApp(list, TApp(list, TVar(0)))
	addr, err := in.Resolve(generic, env, arena)
	if err != nil {
		t.Fatal(err)
	}
	if addr < mark || addr >= arena.Top() {
		t.Fatalf("expected %s to be allocated in the arena", addr)
	}
	if s := types.TypeString(in, addr); s != "list.list(list.list(int))" {
		t.Fatalf("type string: %s", s)
	}
	if err := arena.Release(mark); err != nil {
		t.Fatal(err)
	}
}

func TestResolver(t *testing.T) {
	reg, arena := newRegistry(t)
	list := listType()
	if err := reg.Register(list); err != nil {
		t.Fatal(err)
	}
	in := types.NewInterp(reg)
	r := types.NewResolver(in, arena)
	intAddr, _ := reg.AddrOf(types.Int)

	// the tail type of every cell of list(int) resolves to one block
	tail := list.Layout[1].Functors[0].Args.Get(1)
	enclosing := []heap.Addr{intAddr}
	first, err := r.Resolve(tail, enclosing)
	if err != nil {
		t.Fatal(err)
	}
	top := arena.Top()
	for i := 0; i < 1000; i++ {
		addr, err := r.Resolve(tail, enclosing)
		if err != nil || addr != first {
			t.Fatalf("expected %s, found %s, %v", first, addr, err)
		}
		ti, err := in.Decode(addr)
		if err != nil {
			t.Fatal(err)
		}
		enclosing = ti.Args()
	}
	if arena.Top() != top || r.Len() != 1 {
		t.Fatalf("expected a single descriptor, found %d using %d words", r.Len(), int(arena.Top()-top)/heap.WordSize)
	}

	nested, err := r.Resolve(TApp(list, TApp(list, TVar(0))), []heap.Addr{intAddr})
	if err != nil {
		t.Fatal(err)
	}
	if s := types.TypeString(in, nested); s != "list.list(list.list(int))" {
		t.Fatalf("type string: %s", s)
	}
	if again, _ := r.Resolve(TApp(list, TApp(list, TVar(0))), []heap.Addr{intAddr}); again != nested {
		t.Fatalf("expected %s, found %s", nested, again)
	}
	if _, err := r.Resolve(TApp(list, TVar(3)), []heap.Addr{intAddr}); !errors.Is(err, types.ErrBadParam) {
		t.Fatalf("expected bad parameter, found %v", err)
	}

	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("expected no descriptors after reset, found %d", r.Len())
	}
}

func TestPrinting(t *testing.T) {
	list := listType()
	if s := types.PseudoString(TApp(list, TVar(0))); s != "list.list(T1)" {
		t.Fatalf("pseudo string: %s", s)
	}
	if s := types.PseudoString(TPred(types.Int, TVar(1))); s != "pred(int, T2)" {
		t.Fatalf("pseudo string: %s", s)
	}
	if s := types.CtorName(list, false); s != "list:list/1" {
		t.Fatalf("ctor name: %s", s)
	}
	if s := types.CtorName(types.CPointer, true); s != "<<builtin:c_pointer/0>>" {
		t.Fatalf("ctor name: %s", s)
	}
}
