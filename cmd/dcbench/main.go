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

// dcbench builds a synthetic source graph, deep copies it, and reports statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/wdamron/deepcopy"
	"github.com/wdamron/deepcopy/deconstruct"
	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/internal/workload"
	"github.com/wdamron/deepcopy/types"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	kind := flag.String("workload", "list", "Workload: "+strings.Join(workload.Kinds(), ", "))
	size := flag.Int("size", 1000, "Approximate number of objects in the workload")
	repeat := flag.Int("repeat", 1, "Number of copies to make")
	track := flag.Bool("track", false, "Count cycles in the copied graph")
	snapshot := flag.String("snapshot", "", "Write a CBOR snapshot of the destination arena to this file")
	printTerm := flag.Bool("print", false, "Print the copied term")
	verbosity := flag.Int("v", 0, "Log verbosity")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dcbench [options]\n\n")
		fmt.Fprintf(os.Stderr, "Builds a workload in a source arena and deep copies it into a destination arena.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dcbench -workload ring -size 10000 -track\n")
		fmt.Fprintf(os.Stderr, "  dcbench -config dcbench.toml -workload mixed -snapshot dst.cbor\n")
	}
	flag.Parse()
	commonlog.Configure(*verbosity, nil)

	if err := run(*configPath, *kind, *size, *repeat, *track, *snapshot, *printTerm); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, kind string, size, repeat int, track bool, snapshot string, printTerm bool) error {
	if repeat < 1 {
		return fmt.Errorf("invalid repeat count: %d", repeat)
	}
	cfg := deepcopy.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = deepcopy.LoadConfig(configPath); err != nil {
			return err
		}
	} else if err := cfg.Validate(); err != nil {
		return err
	}
	if track {
		cfg.Copier.TrackGraph = true
	}

	mem := heap.NewMemory()
	reg, err := types.NewRegistry(mem, heap.Addr(cfg.Heap.StaticBase), cfg.Heap.StaticWords)
	if err != nil {
		return err
	}
	src, err := heap.NewArena(mem, "source", heap.Addr(cfg.Heap.SourceBase), cfg.Heap.SourceWords, 0)
	if err != nil {
		return err
	}
	dst, err := heap.NewArena(mem, "dest", heap.Addr(cfg.Heap.DestBase), cfg.Heap.DestWords, 0)
	if err != nil {
		return err
	}
	c, err := deepcopy.NewCopier(reg, dst, cfg.Copier)
	if err != nil {
		return err
	}

	v, ti, err := workload.Build(reg, src, kind, size)
	if err != nil {
		return err
	}
	fmt.Printf("workload: %s, %d source words, type %s\n",
		kind, src.Stats().TotalWords(), types.TypeString(c.Interp(), ti))

	var out heap.Value
	start := time.Now()
	for i := 0; i < repeat; i++ {
		dst.Reset()
		if out, err = c.CopyValue(v, ti, src.Used()); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	stats := c.Stats()
	fmt.Printf("copied: %d objects, %d words (%d atomic)\n", stats.Objects, stats.Words, stats.AtomicWords)
	fmt.Printf("forwarded: %d, shared: %d, scratch words: %d\n", stats.Hits, stats.Shared, stats.ScratchWords)
	if track {
		fmt.Printf("cycles: %d\n", stats.Cycles)
	}
	fmt.Printf("time: %s per copy\n", elapsed/time.Duration(repeat))

	if printTerm {
		inspectBase := heap.Addr(cfg.Copier.ScratchBase).Word(cfg.Copier.ScratchWords)
		inspect, err := heap.NewArena(mem, "inspect", inspectBase, cfg.Copier.ScratchWords, heap.FlagScratchSegment)
		if err != nil {
			return err
		}
		fmt.Println(deconstruct.New(c.Interp(), inspect).Sprint(out, ti))
	}

	if snapshot != "" {
		data, err := dst.Snapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(snapshot, data, 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", snapshot, err)
		}
		snap, err := heap.DecodeSnapshot(data)
		if err != nil {
			return err
		}
		fmt.Printf("snapshot %s: %d cells, %d bytes\n", snap.ID, len(snap.Cells), len(data))
	}
	return nil
}
