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
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
)

func ecall(h *Hart, _ uint32) error {
	switch h.mode {
	case csr.User:
		return trap.UserEnvCall()
	case csr.Supervisor:
		return trap.SupervisorEnvCall()
	}
	return trap.MachineEnvCall()
}

func ebreak(h *Hart, _ uint32) error {
	return trap.Breakpoint(h.pc)
}

func mret(h *Hart, _ uint32) error {
	pc, mode, err := h.csr.Mret(h.mode)
	if err != nil {
		return err
	}
	h.setMode(mode)
	h.nextPC = pc
	return nil
}

func sret(h *Hart, _ uint32) error {
	pc, mode, err := h.csr.Sret(h.mode)
	if err != nil {
		return err
	}
	h.setMode(mode)
	h.nextPC = pc
	return nil
}

// wfi stalls the hart until an interrupt is pending and enabled in mie. the
// instruction retires first so that the interrupt returns to the following
// instruction
func wfi(h *Hart, _ uint32) error {
	if h.csr.TrapWFI(h.mode) {
		return trap.IllegalInstruction(0)
	}
	if !h.csr.WaitForInterrupt() {
		h.waiting = true
	}
	return nil
}

// sfenceVMA flushes the entire TLB regardless of the address and ASID
// operands
func sfenceVMA(h *Hart, _ uint32) error {
	if h.csr.TrapSfence(h.mode) {
		return trap.IllegalInstruction(0)
	}
	h.mmu.Flush()
	return nil
}

func fence(_ *Hart, _ uint32) error {
	return nil
}

func fenceI(h *Hart, _ uint32) error {
	h.icache.Clear()
	return nil
}

// InstructionsPriv contains the fence and system instructions that are not
// part of Zicsr.
var InstructionsPriv = []Instruction{
	{Mask: 0x707f, Match: 0x000f, Name: "fence", Operation: fence},
	{Mask: 0x707f, Match: 0x100f, Name: "fence.i", Operation: fenceI},
	{Mask: 0xffffffff, Match: 0x00000073, Name: "ecall", Operation: ecall},
	{Mask: 0xffffffff, Match: 0x00100073, Name: "ebreak", Operation: ebreak},
	{Mask: 0xffffffff, Match: 0x30200073, Name: "mret", Operation: mret},
	{Mask: 0xffffffff, Match: 0x10200073, Name: "sret", Operation: sret},
	{Mask: 0xffffffff, Match: 0x10500073, Name: "wfi", Operation: wfi},
	{Mask: 0xfe007fff, Match: 0x12000073, Name: "sfence.vma", Operation: sfenceVMA},
}
