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

// Package mmu translates virtual addresses to physical addresses with the
// Sv39, Sv48 and Sv57 page table formats. Page table entries are read and
// written through the memory bus so that the page tables can live in any
// device that supports eight byte accesses.
//
// A failed translation returns a trap.Trap. Faults found while interpreting a
// page table entry are page faults for the access type. Failure to read or
// write the entry itself is an access fault. In both cases the trap value is
// the virtual address being translated.
//
// Successful translations are remembered in a small TLB. The TLB must be
// flushed with Flush() whenever the page tables or satp change, which the
// hart does for SFENCE.VMA and for writes to satp.
package mmu
