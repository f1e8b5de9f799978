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

package core

import (
	"github.com/jetsetilly/rv64emu/hardware/riscv/csr"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
)

// translate the virtual address for the access. loads and stores use the
// data privilege mode, which differs from the current mode when MPRV is set
func (h *Hart) translate(vaddr uint64, access trap.AccessType) (uint64, error) {
	mode := h.mode
	if access != trap.Fetch {
		mode = h.csr.DataMode(mode)
	}

	status := h.csr.Status()
	return h.mmu.Translate(vaddr, access, mmu.Context{
		Satp:    h.csr.Satp(),
		Machine: mode == csr.Machine,
		User:    mode == csr.User,
		SUM:     status&csr.MstatusSUM != 0,
		MXR:     status&csr.MstatusMXR != 0,
	})
}

// fetchHalf reads sixteen bits of instruction from the virtual address
func (h *Hart) fetchHalf(vaddr uint64) (uint32, error) {
	pa, err := h.translate(vaddr, trap.Fetch)
	if err != nil {
		return 0, err
	}
	v, err := h.icache.Read(pa, 2)
	if err != nil {
		return 0, trap.InstructionAccessFault(vaddr)
	}
	return uint32(v), nil
}

// fetch the instruction at the program counter. the length of the
// instruction in bytes is also returned
func (h *Hart) fetch() (uint32, int, error) {
	if h.dec.compressed == nil {
		if h.pc&3 != 0 {
			return 0, 0, trap.InstructionAddressMisaligned(h.pc)
		}
		pa, err := h.translate(h.pc, trap.Fetch)
		if err != nil {
			return 0, 0, err
		}
		v, err := h.icache.Read(pa, 4)
		if err != nil {
			return 0, 0, trap.InstructionAccessFault(h.pc)
		}
		return uint32(v), 4, nil
	}

	if h.pc&1 != 0 {
		return 0, 0, trap.InstructionAddressMisaligned(h.pc)
	}

	lo, err := h.fetchHalf(h.pc)
	if err != nil {
		return 0, 0, err
	}
	if lo&3 != 3 {
		return lo, 2, nil
	}

	// the upper half may be on a different page
	hi, err := h.fetchHalf(h.pc + 2)
	if err != nil {
		return 0, 0, err
	}

	return hi<<16 | lo, 4, nil
}

// checkAlignment returns a misaligned trap if the address is not naturally
// aligned for the size of the access
func checkAlignment(vaddr uint64, size int, access trap.AccessType) error {
	if vaddr&uint64(size-1) != 0 {
		return access.Misaligned(vaddr)
	}
	return nil
}

// load size bytes from the virtual address. the value is zero extended
func (h *Hart) load(vaddr uint64, size int) (uint64, error) {
	if err := checkAlignment(vaddr, size, trap.Load); err != nil {
		return 0, err
	}
	pa, err := h.translate(vaddr, trap.Load)
	if err != nil {
		return 0, err
	}
	v, err := h.bus.Read(pa, size)
	if err != nil {
		return 0, trap.LoadAccessFault(vaddr)
	}
	return v, nil
}

// store size bytes to the virtual address
func (h *Hart) store(vaddr uint64, data uint64, size int) error {
	if err := checkAlignment(vaddr, size, trap.Store); err != nil {
		return err
	}
	pa, err := h.translate(vaddr, trap.Store)
	if err != nil {
		return err
	}
	return h.storePhysical(vaddr, pa, data, size)
}

// storePhysical completes a store for which translation has already been
// done
func (h *Hart) storePhysical(vaddr uint64, pa uint64, data uint64, size int) error {
	if err := h.bus.Write(pa, data, size); err != nil {
		return trap.StoreAccessFault(vaddr)
	}
	h.icache.Invalidate(pa, size)
	if h.monitor != nil {
		h.monitor.written(h, pa, size)
	}
	return nil
}
