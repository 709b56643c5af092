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

package deepcopy

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/wdamron/deepcopy/heap"
)

// Config is loaded from a TOML file:
//
//	[copier]
//	scratch_base = 0x7000000
//	scratch_words = 4096
//	max_depth = 0
//	track_graph = false
//
//	[heap]
//	static_base = 0x100000
//	static_words = 4096
//	source_base = 0x1000000
//	source_words = 1048576
//	dest_base = 0x3000000
//	dest_words = 1048576
type Config struct {
	Copier CopierConfig `toml:"copier"`
	Heap   HeapConfig   `toml:"heap"`
}

// CopierConfig configures a Copier.
type CopierConfig struct {
	// Scratch segment for descriptors resolved while copying. Scratch descriptors never
	// outlive the recursive step which needs them.
	ScratchBase  uint64 `toml:"scratch_base"`
	ScratchWords int    `toml:"scratch_words"`
	// Maximum nesting depth of a copied value; 0 means unbounded.
	MaxDepth int `toml:"max_depth"`
	// Record the shape of the copied graph and count its cycles.
	TrackGraph bool `toml:"track_graph"`
}

// HeapConfig lays out the segments used by the command line tools.
type HeapConfig struct {
	StaticBase  uint64 `toml:"static_base"`
	StaticWords int    `toml:"static_words"`
	SourceBase  uint64 `toml:"source_base"`
	SourceWords int    `toml:"source_words"`
	DestBase    uint64 `toml:"dest_base"`
	DestWords   int    `toml:"dest_words"`
}

func DefaultConfig() Config {
	return Config{
		Copier: CopierConfig{
			ScratchBase:  0x7000000,
			ScratchWords: 4096,
			MaxDepth:     0,
		},
		Heap: HeapConfig{
			StaticBase:  0x100000,
			StaticWords: 4096,
			SourceBase:  0x1000000,
			SourceWords: 1 << 20,
			DestBase:    0x3000000,
			DestWords:   1 << 20,
		},
	}
}

// LoadConfig reads a TOML file. Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every segment is word aligned, non-empty and disjoint.
func (cfg Config) Validate() error {
	segs := []struct {
		name  string
		base  uint64
		words int
	}{
		{"scratch", cfg.Copier.ScratchBase, cfg.Copier.ScratchWords},
		{"static", cfg.Heap.StaticBase, cfg.Heap.StaticWords},
		{"source", cfg.Heap.SourceBase, cfg.Heap.SourceWords},
		{"dest", cfg.Heap.DestBase, cfg.Heap.DestWords},
	}
	ranges := make([]heap.Region, len(segs))
	for i, s := range segs {
		base := heap.Addr(s.base)
		if base == 0 || !base.Aligned() || s.words <= 0 {
			return fmt.Errorf("invalid %s segment: base %s, %d words", s.name, base, s.words)
		}
		ranges[i] = heap.Region{Lower: base, Upper: base.Word(s.words)}
		for j := 0; j < i; j++ {
			if ranges[i].Overlaps(ranges[j]) {
				return fmt.Errorf("%s segment %s overlaps %s segment %s", s.name, ranges[i], segs[j].name, ranges[j])
			}
		}
	}
	if cfg.Copier.MaxDepth < 0 {
		return fmt.Errorf("invalid max_depth: %d", cfg.Copier.MaxDepth)
	}
	return nil
}
