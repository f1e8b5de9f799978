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
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
)

// the aq and rl bits are ignored. every access is performed in program order
// and harts are stepped one instruction at a time

func lr(size int) Operation {
	return func(h *Hart, inst uint32) error {
		vaddr := h.regs[rs1(inst)]
		if err := checkAlignment(vaddr, size, trap.Load); err != nil {
			return err
		}
		pa, err := h.translate(vaddr, trap.Load)
		if err != nil {
			return err
		}
		v, err := h.bus.Read(pa, size)
		if err != nil {
			return trap.LoadAccessFault(vaddr)
		}
		if size == 4 {
			v = sext32(v)
		}
		h.reservation.Set(pa)
		h.SetReg(rd(inst), v)
		return nil
	}
}

func sc(size int) Operation {
	return func(h *Hart, inst uint32) error {
		vaddr := h.regs[rs1(inst)]

		// the reservation is cleared by every attempt, including attempts
		// that trap
		if err := checkAlignment(vaddr, size, trap.Store); err != nil {
			h.reservation.Clear()
			return err
		}
		pa, err := h.translate(vaddr, trap.Store)
		if err != nil {
			h.reservation.Clear()
			return err
		}

		if !h.reservation.CheckAndClear(pa) {
			h.SetReg(rd(inst), 1)
			return nil
		}

		if err := h.storePhysical(vaddr, pa, h.regs[rs2(inst)], size); err != nil {
			return err
		}
		h.SetReg(rd(inst), 0)
		return nil
	}
}

// amo performs the read-modify-write. the value written to rd is the
// original value in memory, sign extended for the word sized forms
func amo(size int, f func(mem, reg uint64) uint64) Operation {
	return func(h *Hart, inst uint32) error {
		vaddr := h.regs[rs1(inst)]
		if err := checkAlignment(vaddr, size, trap.Amo); err != nil {
			return err
		}
		pa, err := h.translate(vaddr, trap.Amo)
		if err != nil {
			return err
		}
		v, err := h.bus.Read(pa, size)
		if err != nil {
			return trap.StoreAccessFault(vaddr)
		}

		src := h.regs[rs2(inst)]
		if size == 4 {
			v = sext32(v)
			src = sext32(src)
		}

		if err := h.storePhysical(vaddr, pa, f(v, src), size); err != nil {
			return err
		}
		h.SetReg(rd(inst), v)
		return nil
	}
}

func amoSwap(_, reg uint64) uint64 { return reg }
func amoAdd(mem, reg uint64) uint64 { return mem + reg }
func amoXor(mem, reg uint64) uint64 { return mem ^ reg }
func amoAnd(mem, reg uint64) uint64 { return mem & reg }
func amoOr(mem, reg uint64) uint64  { return mem | reg }

// the word sized operands have already been sign extended so the signed
// comparisons are correct for both widths. the unsigned comparisons of two
// sign extended words order the same way as the words themselves

func amoMin(mem, reg uint64) uint64 {
	if int64(mem) < int64(reg) {
		return mem
	}
	return reg
}

func amoMax(mem, reg uint64) uint64 {
	if int64(mem) > int64(reg) {
		return mem
	}
	return reg
}

func amoMinu(mem, reg uint64) uint64 {
	if mem < reg {
		return mem
	}
	return reg
}

func amoMaxu(mem, reg uint64) uint64 {
	if mem > reg {
		return mem
	}
	return reg
}

// InstructionsA is the RV64A atomic extension.
var InstructionsA = []Instruction{
	{Mask: 0xf9f0707f, Match: 0x1000202f, Name: "lr.w", Operation: lr(4)},
	{Mask: 0xf800707f, Match: 0x1800202f, Name: "sc.w", Operation: sc(4)},
	{Mask: 0xf800707f, Match: 0x0800202f, Name: "amoswap.w", Operation: amo(4, amoSwap)},
	{Mask: 0xf800707f, Match: 0x0000202f, Name: "amoadd.w", Operation: amo(4, amoAdd)},
	{Mask: 0xf800707f, Match: 0x2000202f, Name: "amoxor.w", Operation: amo(4, amoXor)},
	{Mask: 0xf800707f, Match: 0x6000202f, Name: "amoand.w", Operation: amo(4, amoAnd)},
	{Mask: 0xf800707f, Match: 0x4000202f, Name: "amoor.w", Operation: amo(4, amoOr)},
	{Mask: 0xf800707f, Match: 0x8000202f, Name: "amomin.w", Operation: amo(4, amoMin)},
	{Mask: 0xf800707f, Match: 0xa000202f, Name: "amomax.w", Operation: amo(4, amoMax)},
	{Mask: 0xf800707f, Match: 0xc000202f, Name: "amominu.w", Operation: amo(4, amoMinu)},
	{Mask: 0xf800707f, Match: 0xe000202f, Name: "amomaxu.w", Operation: amo(4, amoMaxu)},

	{Mask: 0xf9f0707f, Match: 0x1000302f, Name: "lr.d", Operation: lr(8)},
	{Mask: 0xf800707f, Match: 0x1800302f, Name: "sc.d", Operation: sc(8)},
	{Mask: 0xf800707f, Match: 0x0800302f, Name: "amoswap.d", Operation: amo(8, amoSwap)},
	{Mask: 0xf800707f, Match: 0x0000302f, Name: "amoadd.d", Operation: amo(8, amoAdd)},
	{Mask: 0xf800707f, Match: 0x2000302f, Name: "amoxor.d", Operation: amo(8, amoXor)},
	{Mask: 0xf800707f, Match: 0x6000302f, Name: "amoand.d", Operation: amo(8, amoAnd)},
	{Mask: 0xf800707f, Match: 0x4000302f, Name: "amoor.d", Operation: amo(8, amoOr)},
	{Mask: 0xf800707f, Match: 0x8000302f, Name: "amomin.d", Operation: amo(8, amoMin)},
	{Mask: 0xf800707f, Match: 0xa000302f, Name: "amomax.d", Operation: amo(8, amoMax)},
	{Mask: 0xf800707f, Match: 0xc000302f, Name: "amominu.d", Operation: amo(8, amoMinu)},
	{Mask: 0xf800707f, Match: 0xe000302f, Name: "amomaxu.d", Operation: amo(8, amoMaxu)},
}
