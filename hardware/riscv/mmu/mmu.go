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

package mmu

import (
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
)

// Bus is the part of the memory bus used by the page table walker.
type Bus interface {
	Read(addr uint64, size int) (uint64, error)
	Write(addr uint64, data uint64, size int) error
}

// Context is the state of the hart that affects translation.
type Context struct {
	Satp uint64

	// the effective privilege mode of the access. when Machine is true no
	// translation takes place
	Machine bool
	User    bool

	// the SUM and MXR bits of mstatus
	SUM bool
	MXR bool
}

// the leaf entry found by a walk. level zero is a 4KiB page
type tlbEntry struct {
	pte     PTE
	pteAddr uint64
	level   int
}

// MMU is the address translation unit of a single hart.
type MMU struct {
	bus Bus

	tlb     map[uint64]tlbEntry
	tlbSize int

	hits   uint64
	misses uint64
}

// NewMMU is the preferred method of initialisation for the MMU type. A
// tlbSize of zero disables the TLB.
func NewMMU(b Bus, tlbSize int) *MMU {
	return &MMU{
		bus:     b,
		tlb:     make(map[uint64]tlbEntry, tlbSize),
		tlbSize: tlbSize,
	}
}

// Flush the TLB.
func (m *MMU) Flush() {
	clear(m.tlb)
}

// TLBStats returns the hit and miss counts of the TLB.
func (m *MMU) TLBStats() (hits uint64, misses uint64) {
	return m.hits, m.misses
}

// Translate the virtual address for the access type.
func (m *MMU) Translate(vaddr uint64, access trap.AccessType, ctx Context) (uint64, error) {
	mode := Mode(ctx.Satp >> 60)
	if ctx.Machine || mode == Bare {
		return vaddr, nil
	}

	levels := mode.Levels()
	vaBits := pageShift + vpnBits*levels

	// the unused upper bits must be a copy of the top bit of the address
	top := int64(vaddr) >> (vaBits - 1)
	if top != 0 && top != -1 {
		return 0, access.PageFault(vaddr)
	}

	key := vaddr >> pageShift
	if e, ok := m.tlb[key]; ok {
		if err := check(e.pte, access, ctx); err == nil && !needsUpdate(e.pte, access) {
			m.hits++
			return physical(vaddr, e), nil
		}
	}
	m.misses++

	e, err := m.walk(vaddr, access, ctx.Satp, levels)
	if err != nil {
		return 0, err
	}

	if err := check(e.pte, access, ctx); err != nil {
		return 0, access.PageFault(vaddr)
	}

	if needsUpdate(e.pte, access) {
		e.pte |= PteA
		if access == trap.Store || access == trap.Amo {
			e.pte |= PteD
		}
		if err := m.bus.Write(e.pteAddr, uint64(e.pte), pteSize); err != nil {
			return 0, access.AccessFault(vaddr)
		}
	}

	if m.tlbSize > 0 {
		if len(m.tlb) >= m.tlbSize {
			for k := range m.tlb {
				delete(m.tlb, k)
				break
			}
		}
		m.tlb[key] = e
	}

	return physical(vaddr, e), nil
}

// walk the page table and return the leaf entry. superpage alignment is
// checked here but the permission bits are not
func (m *MMU) walk(vaddr uint64, access trap.AccessType, satp uint64, levels int) (tlbEntry, error) {
	base := (satp & ppnMask) << pageShift

	for level := levels - 1; level >= 0; level-- {
		vpn := (vaddr >> (pageShift + vpnBits*level)) & (1<<vpnBits - 1)
		addr := base + vpn*pteSize

		v, err := m.bus.Read(addr, pteSize)
		if err != nil {
			return tlbEntry{}, access.AccessFault(vaddr)
		}
		pte := PTE(v)

		if !pte.has(PteV) || uint64(pte)&pteReserved != 0 {
			return tlbEntry{}, access.PageFault(vaddr)
		}

		// write permission without read permission is reserved
		if uint64(pte)&(PteR|PteW) == PteW {
			return tlbEntry{}, access.PageFault(vaddr)
		}

		if pte.IsLeaf() {
			// a superpage must be aligned to its size
			if level > 0 && pte.PPN()&(1<<(vpnBits*level)-1) != 0 {
				return tlbEntry{}, access.PageFault(vaddr)
			}
			return tlbEntry{pte: pte, pteAddr: addr, level: level}, nil
		}

		// the A, D and U bits are reserved in non-leaf entries
		if uint64(pte)&(PteA|PteD|PteU) != 0 {
			return tlbEntry{}, access.PageFault(vaddr)
		}

		base = pte.PPN() << pageShift
	}

	// ran out of levels without finding a leaf
	return tlbEntry{}, access.PageFault(vaddr)
}

// check the permission bits of a leaf entry for the access
func check(pte PTE, access trap.AccessType, ctx Context) error {
	if ctx.User {
		if !pte.has(PteU) {
			return errPermission
		}
	} else if pte.has(PteU) {
		// supervisor mode can never execute from a user page and can only
		// read and write user pages when SUM is set
		if access == trap.Fetch || !ctx.SUM {
			return errPermission
		}
	}

	switch access {
	case trap.Fetch:
		if !pte.has(PteX) {
			return errPermission
		}
	case trap.Load:
		if !pte.has(PteR) && !(ctx.MXR && pte.has(PteX)) {
			return errPermission
		}
	case trap.Store, trap.Amo:
		if !pte.has(PteW) {
			return errPermission
		}
	}

	return nil
}

// needsUpdate returns true if the access requires the A or D bit to be set
func needsUpdate(pte PTE, access trap.AccessType) bool {
	if !pte.has(PteA) {
		return true
	}
	return (access == trap.Store || access == trap.Amo) && !pte.has(PteD)
}

// physical combines the physical page of the leaf entry with the offset
// from the virtual address. for a superpage the offset includes the unused
// virtual page number fields
func physical(vaddr uint64, e tlbEntry) uint64 {
	offsetBits := pageShift + vpnBits*e.level
	offsetMask := uint64(1)<<offsetBits - 1
	return (e.pte.PPN()<<pageShift)&^offsetMask | vaddr&offsetMask
}

// errPermission is never returned to the caller of Translate(). it is
// converted to a page fault for the access type
var errPermission = trap.Trap{Cause: trap.CauseLoadPageFault}
