// This file is part of rv64emu.
//
// rv64emu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// rv64emu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with rv64emu.  If not, see <https://www.gnu.org/licenses/>.

// Package icache is a small cache of instruction words indexed by physical
// fetch address. Only addresses in the main memory window are cached.
//
// The cache is not kept coherent with memory automatically. The hart calls
// Invalidate() for its own stores and Clear() for FENCE.I.
package icache

import (
	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/memory/bus"
	"github.com/jetsetilly/rv64emu/logger"
)

// the cacheable window
const (
	windowStart = uint64(0x8000_0000)
	windowEnd   = windowStart + 0x0800_0000
)

// Bus is the part of the memory bus used by the instruction cache.
type Bus interface {
	Read(addr uint64, size int) (uint64, error)
}

type entry struct {
	inst uint32
	size int
}

// ICache is the instruction cache for a single hart.
type ICache struct {
	bus   Bus
	size  int
	words map[uint64]entry

	hits   uint64
	misses uint64
}

// NewICache is the preferred method of initialisation for the ICache type. A
// size of zero disables the cache and every read goes straight to the bus.
func NewICache(b Bus, size int) *ICache {
	return &ICache{
		bus:   b,
		size:  size,
		words: make(map[uint64]entry, size),
	}
}

func (ic *ICache) cacheable(addr uint64) bool {
	if ic.size == 0 {
		return false
	}
	return addr >= windowStart && addr < windowEnd
}

// Read size bytes of instruction from the physical address.
func (ic *ICache) Read(pc uint64, size int) (uint64, error) {
	if !ic.cacheable(pc) {
		return ic.bus.Read(pc, size)
	}

	if e, ok := ic.words[pc]; ok && e.size == size {
		ic.hits++
		return uint64(e.inst), nil
	}

	data, err := ic.bus.Read(pc, size)
	if err != nil {
		return 0, err
	}
	ic.misses++

	if len(ic.words) >= ic.size {
		ic.evict()
	}
	ic.words[pc] = entry{inst: uint32(data), size: size}

	return data, nil
}

// Write is not supported by the instruction cache.
func (ic *ICache) Write(addr uint64, data uint32) error {
	return curated.Errorf(bus.NoDevice, addr)
}

// evict a single entry. no replacement policy is implied by which entry is
// chosen
func (ic *ICache) evict() {
	for k := range ic.words {
		delete(ic.words, k)
		return
	}
}

// Invalidate removes any entry that overlaps the written range.
func (ic *ICache) Invalidate(addr uint64, size int) {
	if !ic.cacheable(addr) || len(ic.words) == 0 {
		return
	}
	for a := addr - 3; a < addr+uint64(size); a++ {
		if e, ok := ic.words[a]; ok && a+uint64(e.size) > addr {
			delete(ic.words, a)
		}
	}
}

// Clear removes every entry. The hit and miss counters are not reset.
func (ic *ICache) Clear() {
	clear(ic.words)
}

// Len returns the number of cached entries.
func (ic *ICache) Len() int {
	return len(ic.words)
}

// Hits returns the number of reads that were satisfied by the cache.
func (ic *ICache) Hits() uint64 {
	return ic.hits
}

// Misses returns the number of cacheable reads that went to the bus.
func (ic *ICache) Misses() uint64 {
	return ic.misses
}

// HitRate returns the percentage of cacheable reads that were hits.
func (ic *ICache) HitRate() float64 {
	if ic.hits+ic.misses == 0 {
		return 0
	}
	return float64(ic.hits) / float64(ic.hits+ic.misses) * 100
}

// ShowPerf writes the cache statistics to the log.
func (ic *ICache) ShowPerf() {
	logger.Logf(logger.Allow, "icache", "hit: %d, miss: %d", ic.hits, ic.misses)
	logger.Logf(logger.Allow, "icache", "hit rate: %.2f%%", ic.HitRate())
}
