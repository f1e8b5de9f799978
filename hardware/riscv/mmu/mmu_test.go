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

package mmu_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/rv64emu/hardware/memory/bus"
	"github.com/jetsetilly/rv64emu/hardware/memory/ram"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
	"github.com/jetsetilly/rv64emu/test"
)

const (
	memBase = 0x8000_0000
	root    = memBase + 0x1000
	level1  = memBase + 0x2000
	level0  = memBase + 0x3000
	dataPg  = memBase + 0x4000
	bigPg   = memBase + 0x20_0000
)

// pages builds an Sv39 page table with these mappings:
//
//	0x0000_1000 -> dataPg    (4KiB, RW, not accessed)
//	0x0000_2000 -> dataPg    (4KiB, user, RWX, accessed)
//	0x0020_0000 -> bigPg     (2MiB superpage, RX, accessed)
//	0x0040_0000 -> memBase+0x1000 (misaligned 2MiB superpage)
func pages(t *testing.T) (*bus.Bus, *ram.RAM) {
	t.Helper()
	b := bus.NewBus()
	mem := ram.NewRAM(0x40_0000)
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: memBase, Len: mem.Len(), Device: mem}))

	put := func(addr uint64, pte mmu.PTE) {
		test.DemandSuccess(t, b.Write(addr, uint64(pte), 8))
	}

	put(root+0*8, mmu.NewPTE(level1, mmu.PteV))
	put(level1+0*8, mmu.NewPTE(level0, mmu.PteV))
	put(level1+1*8, mmu.NewPTE(bigPg, mmu.PteV|mmu.PteR|mmu.PteX|mmu.PteA))
	put(level1+2*8, mmu.NewPTE(memBase+0x1000, mmu.PteV|mmu.PteR|mmu.PteA))
	put(level0+1*8, mmu.NewPTE(dataPg, mmu.PteV|mmu.PteR|mmu.PteW))
	put(level0+2*8, mmu.NewPTE(dataPg, mmu.PteV|mmu.PteR|mmu.PteW|mmu.PteX|mmu.PteU|mmu.PteA|mmu.PteD))

	return b, mem
}

func ctx() mmu.Context {
	return mmu.Context{Satp: mmu.MakeSatp(mmu.Sv39, root)}
}

func cause(err error) trap.Cause {
	var tr trap.Trap
	if errors.As(err, &tr) {
		return tr.Cause
	}
	return ^trap.Cause(0)
}

func TestBare(t *testing.T) {
	b, _ := pages(t)
	m := mmu.NewMMU(b, 8)

	pa, err := m.Translate(0x1234, trap.Load, mmu.Context{})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pa, 0x1234)

	// machine mode is never translated
	c := ctx()
	c.Machine = true
	pa, err = m.Translate(0x1234, trap.Load, c)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pa, 0x1234)
}

func TestTranslate(t *testing.T) {
	b, mem := pages(t)
	m := mmu.NewMMU(b, 8)

	pa, err := m.Translate(0x1abc, trap.Load, ctx())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pa, dataPg+0xabc)

	// the accessed bit has been set in memory but not the dirty bit
	pte := mmu.PTE(mem.Read(level0-memBase+1*8, 8))
	test.ExpectEquality(t, uint64(pte)&mmu.PteA, mmu.PteA)
	test.ExpectEquality(t, uint64(pte)&mmu.PteD, 0)

	pa, err = m.Translate(0x1008, trap.Store, ctx())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pa, dataPg+0x8)
	pte = mmu.PTE(mem.Read(level0-memBase+1*8, 8))
	test.ExpectEquality(t, uint64(pte)&mmu.PteD, mmu.PteD)

	// superpage offset includes the lower vpn field
	pa, err = m.Translate(0x0023_4567, trap.Fetch, ctx())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pa, bigPg+0x3_4567)
}

func TestPageFaults(t *testing.T) {
	b, _ := pages(t)
	m := mmu.NewMMU(b, 8)

	// unmapped page. trap value is the virtual address
	_, err := m.Translate(0x5000, trap.Load, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)
	var tr trap.Trap
	test.DemandSuccess(t, errors.As(err, &tr))
	test.ExpectEquality(t, tr.TVal(), 0x5000)

	// write to read-execute superpage
	_, err = m.Translate(0x0020_0000, trap.Store, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseStorePageFault)

	// fetch from a page without execute permission
	_, err = m.Translate(0x1000, trap.Fetch, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseInstructionPageFault)

	// misaligned superpage
	_, err = m.Translate(0x0040_0000, trap.Load, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)

	// non-canonical address
	_, err = m.Translate(0x0000_8000_0000_1000, trap.Load, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)

	// amo faults as a store
	_, err = m.Translate(0x0020_0000, trap.Amo, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseStorePageFault)
}

func TestMXR(t *testing.T) {
	b, _ := pages(t)
	m := mmu.NewMMU(b, 8)

	// an execute-only mapping is created on the fly
	test.DemandSuccess(t, b.Write(level0+3*8, uint64(mmu.NewPTE(dataPg, mmu.PteV|mmu.PteX|mmu.PteA)), 8))
	_, err := m.Translate(0x3000, trap.Load, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)

	c := ctx()
	c.MXR = true
	_, err = m.Translate(0x3000, trap.Load, c)
	test.ExpectSuccess(t, err)
}

func TestUserPages(t *testing.T) {
	b, _ := pages(t)
	m := mmu.NewMMU(b, 8)

	// user can access user page but not supervisor page
	c := ctx()
	c.User = true
	_, err := m.Translate(0x2000, trap.Load, c)
	test.ExpectSuccess(t, err)
	_, err = m.Translate(0x1000, trap.Load, c)
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)

	// supervisor needs SUM to access a user page and can never execute
	// from one
	_, err = m.Translate(0x2000, trap.Load, ctx())
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)
	c = ctx()
	c.SUM = true
	_, err = m.Translate(0x2000, trap.Load, c)
	test.ExpectSuccess(t, err)
	_, err = m.Translate(0x2000, trap.Fetch, c)
	test.ExpectEquality(t, cause(err), trap.CauseInstructionPageFault)
}

func TestTLB(t *testing.T) {
	b, _ := pages(t)
	m := mmu.NewMMU(b, 8)

	_, err := m.Translate(0x2000, trap.Store, mmu.Context{Satp: ctx().Satp, SUM: true})
	test.DemandSuccess(t, err)
	_, err = m.Translate(0x2010, trap.Store, mmu.Context{Satp: ctx().Satp, SUM: true})
	test.DemandSuccess(t, err)
	hits, misses := m.TLBStats()
	test.ExpectEquality(t, hits, 1)
	test.ExpectEquality(t, misses, 1)

	// the page table changes but the TLB still holds the old mapping
	test.DemandSuccess(t, b.Write(level0+2*8, 0, 8))
	_, err = m.Translate(0x2000, trap.Load, mmu.Context{Satp: ctx().Satp, SUM: true})
	test.ExpectSuccess(t, err)

	m.Flush()
	_, err = m.Translate(0x2000, trap.Load, mmu.Context{Satp: ctx().Satp, SUM: true})
	test.ExpectEquality(t, cause(err), trap.CauseLoadPageFault)
}

func TestAccessFault(t *testing.T) {
	b, _ := pages(t)
	m := mmu.NewMMU(b, 0)

	// root page table outside of any device
	c := mmu.Context{Satp: mmu.MakeSatp(mmu.Sv48, 0x1000)}
	_, err := m.Translate(0x1000, trap.Load, c)
	test.ExpectEquality(t, cause(err), trap.CauseLoadAccessFault)
}

func TestModes(t *testing.T) {
	test.ExpectEquality(t, mmu.Sv39.Levels(), 3)
	test.ExpectEquality(t, mmu.Sv57.Levels(), 5)
	test.ExpectSuccess(t, mmu.Sv48.Supports(mmu.Sv39))
	test.ExpectFailure(t, mmu.Sv39.Supports(mmu.Sv48))
	test.ExpectSuccess(t, mmu.Bare.Supports(mmu.Bare))
	test.ExpectFailure(t, mmu.Bare.Supports(mmu.Sv39))

	m, err := mmu.ParseMode("Sv57")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, mmu.Sv57)
	_, err = mmu.ParseMode("sv32")
	test.ExpectFailure(t, err)
}
