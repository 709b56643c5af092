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

// deepcopy provides a type-directed deep copy of values on a word-addressed heap.
//
// A value is copied together with its reified type descriptor. Every sub-object whose
// body lies inside a movable region is relocated into a destination arena, and every
// sub-object outside the region is shared by reference. Sharing and cycles within the
// region are preserved: each source object is copied at most once per call.
//
// Supported Representations:
//
//   - Enumerations and tagged unions with local, remote and unshared alternatives
//   - No-tag wrappers and type synonyms, including synonyms for type parameters
//   - Integers, characters, boxed and unboxed floats, and strings
//   - Closures, with hidden arguments typed by their closure layout
//   - Existential values, which carry their own type descriptor
//   - Arrays, and type descriptors used as ordinary data
//   - Foreign pointers, code addresses, frame markers and trail entries (never relocated)
//
// Type descriptors are decoded by package types; heap memory, regions and arenas are
// provided by package heap.
package deepcopy
