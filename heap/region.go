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

// Region is the movable address range [Lower, Upper). Bodies inside the region must
// be relocated by a copy; bodies outside are stable and may be shared by reference.
type Region struct {
	Lower, Upper Addr
}

// Contains reports whether a body at addr must be relocated.
func (r Region) Contains(addr Addr) bool { return r.Lower <= addr && addr < r.Upper }

// Empty reports whether the region contains no addresses.
func (r Region) Empty() bool { return r.Upper <= r.Lower }

// Overlaps reports whether r and o share any address.
func (r Region) Overlaps(o Region) bool {
	return !r.Empty() && !o.Empty() && r.Lower < o.Upper && o.Lower < r.Upper
}

func (r Region) String() string { return "[" + r.Lower.String() + ", " + r.Upper.String() + ")" }
