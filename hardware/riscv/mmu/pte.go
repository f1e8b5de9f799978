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

// Bits in a page table entry.
const (
	PteV = 1 << 0
	PteR = 1 << 1
	PteW = 1 << 2
	PteX = 1 << 3
	PteU = 1 << 4
	PteG = 1 << 5
	PteA = 1 << 6
	PteD = 1 << 7
)

const (
	pageShift = 12
	pageSize  = 1 << pageShift
	vpnBits   = 9
	pteSize   = 8

	// physical page numbers are 44 bits wide in satp and in PTEs
	ppnMask = (1 << 44) - 1

	// bits 63:54 are reserved for extensions that are not implemented
	pteReserved = uint64(0x3ff) << 54
)

// PTE is a single page table entry.
type PTE uint64

// PPN returns the physical page number.
func (p PTE) PPN() uint64 {
	return (uint64(p) >> 10) & ppnMask
}

func (p PTE) has(bits uint64) bool {
	return uint64(p)&bits == bits
}

// IsLeaf returns true if the entry maps a page rather than pointing to the
// next level of the table.
func (p PTE) IsLeaf() bool {
	return uint64(p)&(PteR|PteX) != 0
}

// NewPTE creates a page table entry for the physical address with the flags.
// The V bit is not set automatically.
func NewPTE(pa uint64, flags uint64) PTE {
	return PTE((((pa >> pageShift) & ppnMask) << 10) | flags)
}

// MakeSatp creates a satp value for the mode and the physical address of the
// root page table.
func MakeSatp(mode Mode, root uint64) uint64 {
	return uint64(mode)<<60 | (root>>pageShift)&ppnMask
}
