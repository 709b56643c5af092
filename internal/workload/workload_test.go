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

package workload_test

import (
	"testing"

	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/internal/workload"
	"github.com/wdamron/deepcopy/types"
)

func TestBuild(t *testing.T) {
	mem := heap.NewMemory()
	reg, err := types.NewRegistry(mem, 0x10000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	arena, err := heap.NewArena(mem, "src", 0x100000, 1<<16, 0)
	if err != nil {
		t.Fatal(err)
	}
	in := types.NewInterp(reg)
	expect := map[string]string{
		"list":  "workload.list(string)",
		"tree":  "workload.tree(int)",
		"ring":  "workload.list(int)",
		"mixed": "workload.list(univ.univ)",
	}
	for _, kind := range workload.Kinds() {
		v, ti, err := workload.Build(reg, arena, kind, 50)
		if err != nil {
			t.Fatal(err)
		}
		if !v.IsRef() {
			t.Fatalf("%s: expected a reference, found %s", kind, v)
		}
		if s := types.TypeString(in, ti); s != expect[kind] {
			t.Fatalf("%s: unexpected type %s", kind, s)
		}
	}
	if _, _, err := workload.Build(reg, arena, "nope", 1); err == nil {
		t.Fatalf("expected unknown workload to fail")
	}
}
