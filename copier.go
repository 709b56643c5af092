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

	"github.com/tliron/commonlog"
	"github.com/wdamron/deepcopy/heap"
	"github.com/wdamron/deepcopy/types"
)

var log = commonlog.GetLogger("deepcopy")

// Stats describes the most recent copy.
type Stats struct {
	// Destination objects and words allocated, including atomic words.
	Objects     int
	Words       int
	AtomicWords int
	// References resolved to an earlier copy of the same source object.
	Hits int
	// References outside the movable region, returned unchanged.
	Shared int
	// High-water mark of scratch descriptors, in words.
	ScratchWords int
	// Cyclic components among copied objects; only counted when graph tracking is enabled.
	Cycles int
}

// Copier is a reusable context for deep copies.
//
// Destination objects are allocated from dst, which must allocate from the memory of the
// registry. A copier cannot be used concurrently, and the source graph must not be
// mutated during a copy.
type Copier struct {
	reg     *types.Registry
	in      *types.Interp
	res     *types.Resolver
	mem     *heap.Memory
	dst     heap.Allocator
	scratch *heap.Arena
	cfg     CopierConfig

	region heap.Region
	depth  int
	fwd    forwardTable
	stats  Stats
}

// Create a new copier. A scratch segment for resolved descriptors is mapped into the
// memory of reg at cfg.ScratchBase.
func NewCopier(reg *types.Registry, dst heap.Allocator, cfg CopierConfig) (*Copier, error) {
	scratch, err := heap.NewArena(reg.Memory(), "scratch", heap.Addr(cfg.ScratchBase), cfg.ScratchWords, heap.FlagScratchSegment)
	if err != nil {
		return nil, fmt.Errorf("cannot map scratch segment: %w", err)
	}
	c := &Copier{
		reg:     reg,
		in:      types.NewInterp(reg),
		mem:     reg.Memory(),
		dst:     dst,
		scratch: scratch,
		cfg:     cfg,
	}
	c.res = types.NewResolver(c.in, scratch)
	c.fwd.Init(cfg.TrackGraph)
	return c, nil
}

func (c *Copier) Registry() *types.Registry { return c.reg }
func (c *Copier) Interp() *types.Interp     { return c.in }

// Stats returns statistics for the most recent copy.
func (c *Copier) Stats() Stats { return c.stats }

// Lookup returns the copy of the source body at src made by the most recent copy. The
// result is valid until the next copy begins. Nothing is found after a failed copy.
func (c *Copier) Lookup(src heap.Addr) (heap.Addr, bool) {
	dst, ok := c.fwd.dst[src]
	return dst, ok
}

// Copy the value stored at slot, of the type described at ti. Objects with bodies inside
// region are copied; all other objects are shared.
func (c *Copier) Copy(slot, ti heap.Addr, region heap.Region) (heap.Value, error) {
	v, err := c.mem.Load(slot)
	if err != nil {
		return heap.Nil, err
	}
	return c.CopyValue(v, ti, region)
}

// CopyValue copies v, of the type described at ti. Objects with bodies inside region are
// copied; all other objects are shared.
func (c *Copier) CopyValue(v heap.Value, ti heap.Addr, region heap.Region) (heap.Value, error) {
	if err := c.begin(region); err != nil {
		return heap.Nil, err
	}
	out, err := c.copyValue(v, ti)
	c.end(err)
	return out, err
}

// CopyTypeInfo copies the type descriptor referenced by v.
func (c *Copier) CopyTypeInfo(v heap.Value, region heap.Region) (heap.Value, error) {
	if err := c.begin(region); err != nil {
		return heap.Nil, err
	}
	out, err := c.copyTypeInfo(v)
	c.end(err)
	return out, err
}

// MakeLongLived copies every object of v allocated in src at or above lower, so the copy
// survives when src is released back to lower.
func (c *Copier) MakeLongLived(src *heap.Arena, v heap.Value, ti, lower heap.Addr) (heap.Value, error) {
	return c.CopyValue(v, ti, heap.Region{Lower: lower, Upper: src.Top()})
}

func (c *Copier) begin(region heap.Region) error {
	if !region.Empty() {
		if scratch := c.scratch.Segment().Range(); region.Overlaps(scratch) {
			return fmt.Errorf("%w: %s overlaps scratch segment %s", ErrBadRegion, region, scratch)
		}
		if static := c.reg.Static(); region.Overlaps(static) {
			return fmt.Errorf("%w: %s overlaps static segment %s", ErrBadRegion, region, static)
		}
	}
	c.fwd.Reset()
	c.res.Reset()
	c.scratch.Reset()
	c.region, c.depth, c.stats = region, 0, Stats{}
	return nil
}

func (c *Copier) end(err error) {
	c.stats.ScratchWords = int(c.scratch.HighWater()-c.scratch.Segment().Base) / heap.WordSize
	c.stats.Cycles = c.fwd.Cycles()
	if err != nil {
		// partially filled copies must not be found
		c.fwd.Reset()
		log.Errorf("copy in %s failed: %s", c.region, err)
		return
	}
	log.Debugf("copied %d objects (%d words) in %s: %d forwarded, %d shared",
		c.stats.Objects, c.stats.Words, c.region, c.stats.Hits, c.stats.Shared)
}

func (c *Copier) alloc(n int) (heap.Addr, error) {
	dst, err := c.dst.AllocWords(n)
	if err != nil {
		return 0, err
	}
	c.stats.Objects++
	c.stats.Words += n
	return dst, nil
}

func (c *Copier) allocAtomic(n int) (heap.Addr, error) {
	dst, err := c.dst.AllocAtomicWords(n)
	if err != nil {
		return 0, err
	}
	c.stats.Objects++
	c.stats.Words += n
	c.stats.AtomicWords += n
	return dst, nil
}

// fail wraps err with the object being copied. Errors from nested objects are returned
// unchanged.
func (c *Copier) fail(ti *types.TypeInfo, rep types.Rep, addr heap.Addr, err error) error {
	if _, ok := err.(*CopyError); ok {
		return err
	}
	e := &CopyError{Rep: rep, Addr: addr, Err: err}
	if ti != nil {
		e.Type = types.TypeString(c.in, ti.Addr())
	}
	return e
}

func (c *Copier) malformed(ti *types.TypeInfo, v heap.Value, format string, args ...interface{}) error {
	return c.fail(ti, ti.Rep(), v.Body(), fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformed}, args...)...))
}

// forwarded resolves a reference without copying its body: a body outside the region is
// shared, and a body copied earlier resolves to its copy.
func (c *Copier) forwarded(v heap.Value) (heap.Value, bool) {
	body := v.Body()
	if !c.region.Contains(body) {
		c.stats.Shared++
		return v, true
	}
	if dst, ok := c.fwd.Lookup(body); ok {
		c.stats.Hits++
		return v.Retag(dst), true
	}
	return heap.Nil, false
}
