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

// Builtin type constructors. Every registry registers these before any other
// constructor.
var (
	Int      = &TypeCtor{Module: "builtin", Name: "int", Rep: RepInt}
	Char     = &TypeCtor{Module: "builtin", Name: "character", Rep: RepChar}
	Float    = &TypeCtor{Module: "builtin", Name: "float", Rep: RepFloat}
	String   = &TypeCtor{Module: "builtin", Name: "string", Rep: RepString}
	Void     = &TypeCtor{Module: "builtin", Name: "void", Rep: RepVoid}
	Univ     = &TypeCtor{Module: "univ", Name: "univ", Rep: RepUniv}
	TypeDesc = &TypeCtor{Module: "private_builtin", Name: "type_info", Rep: RepTypeInfo}
	CPointer = &TypeCtor{Module: "builtin", Name: "c_pointer", Rep: RepCPointer}
	SuccIP   = &TypeCtor{Module: "builtin", Name: "succip", Rep: RepSuccIP}
	RedoIP   = &TypeCtor{Module: "builtin", Name: "redoip", Rep: RepRedoIP}
	HP       = &TypeCtor{Module: "builtin", Name: "hp", Rep: RepHP}
	CurFr    = &TypeCtor{Module: "builtin", Name: "curfr", Rep: RepCurFr}
	MaxFr    = &TypeCtor{Module: "builtin", Name: "maxfr", Rep: RepMaxFr}
	TrailPtr = &TypeCtor{Module: "builtin", Name: "trail_ptr", Rep: RepTrailPtr}
	Ticket   = &TypeCtor{Module: "builtin", Name: "ticket", Rep: RepTicket}
	Pred     = &TypeCtor{Module: "builtin", Name: "pred", Rep: RepPred, HigherOrder: true}
	Func     = &TypeCtor{Module: "builtin", Name: "func", Rep: RepPred, HigherOrder: true}
	Array    = &TypeCtor{Module: "array", Name: "array", Arity: 1, Rep: RepArray}
)

// Builtins lists the builtin type constructors in registration order.
var Builtins = []*TypeCtor{
	Int, Char, Float, String, Void, Univ, TypeDesc, CPointer,
	SuccIP, RedoIP, HP, CurFr, MaxFr, TrailPtr, Ticket,
	Pred, Func, Array,
}
