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

package icache_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/memory/bus"
	"github.com/jetsetilly/rv64emu/hardware/memory/ram"
	"github.com/jetsetilly/rv64emu/hardware/riscv/icache"
	"github.com/jetsetilly/rv64emu/test"
)

func newBus(t *testing.T) (*bus.Bus, *ram.RAM) {
	t.Helper()
	b := bus.NewBus()
	mem := ram.NewRAM(0x1000)
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x8000_0000, Len: mem.Len(), Device: mem}))
	low := ram.NewRAM(0x100)
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x1000, Len: low.Len(), Device: low}))
	return b, mem
}

func TestCapacity(t *testing.T) {
	b, _ := newBus(t)
	ic := icache.NewICache(b, 2)

	for _, pc := range []uint64{0x8000_0000, 0x8000_0004, 0x8000_0008} {
		_, err := ic.Read(pc, 4)
		test.DemandSuccess(t, err)
	}

	test.ExpectEquality(t, ic.Len(), 2)
	test.ExpectEquality(t, ic.Misses(), 3)
	test.ExpectEquality(t, ic.Hits(), 0)

	// the most recently inserted entry always survives eviction
	_, err := ic.Read(0x8000_0008, 4)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ic.Hits(), 1)
	test.ExpectEquality(t, ic.Misses(), 3)
}

func TestUncacheable(t *testing.T) {
	b, _ := newBus(t)
	ic := icache.NewICache(b, 16)

	_, err := ic.Read(0x1000, 4)
	test.DemandSuccess(t, err)
	_, err = ic.Read(0x1000, 4)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ic.Len(), 0)
	test.ExpectEquality(t, ic.Hits()+ic.Misses(), 0)

	// a zero sized cache is disabled
	ic = icache.NewICache(b, 0)
	_, err = ic.Read(0x8000_0000, 4)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ic.Len(), 0)
}

func TestStaleAndInvalidate(t *testing.T) {
	b, mem := newBus(t)
	ic := icache.NewICache(b, 16)

	mem.Write(0, 0x00000013, 4)
	v, _ := ic.Read(0x8000_0000, 4)
	test.ExpectEquality(t, v, 0x13)

	// the cache is not coherent with memory
	mem.Write(0, 0x00100093, 4)
	v, _ = ic.Read(0x8000_0000, 4)
	test.ExpectEquality(t, v, 0x13)

	ic.Invalidate(0x8000_0002, 1)
	v, _ = ic.Read(0x8000_0000, 4)
	test.ExpectEquality(t, v, 0x00100093)

	ic.Clear()
	test.ExpectEquality(t, ic.Len(), 0)
}

func TestErrors(t *testing.T) {
	b, _ := newBus(t)
	ic := icache.NewICache(b, 16)
	test.ExpectSuccess(t, curated.Is(ic.Write(0x8000_0000, 0), bus.NoDevice))

	_, err := ic.Read(0x8100_0000, 4)
	test.ExpectSuccess(t, curated.Is(err, bus.NoDevice))
	test.ExpectEquality(t, ic.Len(), 0)
}
