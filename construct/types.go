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

package construct

import "github.com/wdamron/deepcopy/types"

// Types

// Reference to the type parameter at index (0 for T1): `T1`
func TVar(index int) *types.Var {
	return types.NewVar(index)
}

// Type application: `list(T1)`
func TApp(ctor *types.TypeCtor, args ...types.Pseudo) *types.App {
	return types.NewApp(ctor, args...)
}

// Predicate type: `pred(int, string)`
func TPred(args ...types.Pseudo) *types.App {
	return types.NewApp(types.Pred, args...)
}

// Array type: `array(T1)`
func TArray(elem types.Pseudo) *types.App {
	return types.NewApp(types.Array, elem)
}

// Functor with unnamed fields: `cons(T1, list(T1))`
func Fn(name string, args ...types.Pseudo) *types.Functor {
	return &types.Functor{Name: name, Args: types.NewPseudoList(args...)}
}

// Functor with named fields: `node(left :: tree(T1), right :: tree(T1))`
func NamedFn(name string, argNames []string, args ...types.Pseudo) *types.Functor {
	return &types.Functor{Name: name, Args: types.NewPseudoList(args...), ArgNames: argNames}
}

// Constants sharing a primary tag, indexed by secondary tag: `[] ; nil`
func Local(names ...string) types.LayoutEntry {
	fs := make([]*types.Functor, len(names))
	for i, name := range names {
		fs[i] = Fn(name)
	}
	return types.LayoutEntry{TagRep: types.SharedLocal, Functors: fs}
}

// Functors sharing a primary tag, indexed by secondary tag.
func Remote(fs ...*types.Functor) types.LayoutEntry {
	return types.LayoutEntry{TagRep: types.SharedRemote, Functors: fs}
}

// A functor owning its primary tag.
func Unshared(f *types.Functor) types.LayoutEntry {
	return types.LayoutEntry{TagRep: types.Unshared, Functors: []*types.Functor{f}}
}

// Tagged union, with layout entries indexed by primary tag. Recursive types assign their
// layout after the constructor is created:
//
//	// :- type list(T) ---> [] ; [T | list(T)].
//	list := DU("list", "list", 1)
//	list.Layout = Layout(Local("[]"), Unshared(Fn("[|]", TVar(0), TApp(list, TVar(0)))))
func DU(module, name string, arity int, entries ...types.LayoutEntry) *types.TypeCtor {
	return &types.TypeCtor{Module: module, Name: name, Arity: arity, Rep: types.RepDU, Layout: entries}
}

// Layout entries indexed by primary tag.
func Layout(entries ...types.LayoutEntry) []types.LayoutEntry {
	return entries
}

// Single-functor, single-field type which shares the representation of its field.
func NoTag(module, name string, arity int, f *types.Functor) *types.TypeCtor {
	return &types.TypeCtor{Module: module, Name: name, Arity: arity, Rep: types.RepNoTag, Functor: f}
}

// Type synonym: `:- type name(T1, ...) == equiv`
func Equiv(module, name string, arity int, equiv types.Pseudo) *types.TypeCtor {
	return &types.TypeCtor{Module: module, Name: name, Arity: arity, Rep: types.RepEquiv, Equiv: equiv}
}

// Type synonym for one of the type's own parameters: `:- type name(T1, ...) == T<index+1>`
func EquivVar(module, name string, arity, index int) *types.TypeCtor {
	return &types.TypeCtor{Module: module, Name: name, Arity: arity, Rep: types.RepEquivVar, Param: index}
}

// Enumeration: `:- type color ---> red ; green ; blue.`
func Enum(module, name string, alternatives ...string) *types.TypeCtor {
	return &types.TypeCtor{Module: module, Name: name, Rep: types.RepEnum, Enum: alternatives}
}

// Closure layout for a procedure whose arguments have the given types.
func Closure(name string, args ...types.Pseudo) *types.ClosureLayout {
	return &types.ClosureLayout{Name: name, Args: types.NewPseudoList(args...)}
}
