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

// jump sets the address of the next instruction. The target must be aligned
// to two bytes when compressed instructions are enabled and to four bytes
// otherwise.
func (h *Hart) jump(target uint64) error {
	align := uint64(3)
	if h.dec.compressed != nil {
		align = 1
	}
	if target&align != 0 {
		return trap.InstructionAddressMisaligned(target)
	}
	h.nextPC = target
	return nil
}

func branch(cond func(a, b uint64) bool) Operation {
	return func(h *Hart, inst uint32) error {
		if cond(h.regs[rs1(inst)], h.regs[rs2(inst)]) {
			return h.jump(h.pc + immB(inst))
		}
		return nil
	}
}

func loadOp(size int, signed bool) Operation {
	return func(h *Hart, inst uint32) error {
		v, err := h.load(h.regs[rs1(inst)]+immI(inst), size)
		if err != nil {
			return err
		}
		if signed {
			shift := 64 - size*8
			v = uint64(int64(v<<shift) >> shift)
		}
		h.SetReg(rd(inst), v)
		return nil
	}
}

func storeOp(size int) Operation {
	return func(h *Hart, inst uint32) error {
		return h.store(h.regs[rs1(inst)]+immS(inst), h.regs[rs2(inst)], size)
	}
}

func immOp(f func(a, imm uint64) uint64) Operation {
	return func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), f(h.regs[rs1(inst)], immI(inst)))
		return nil
	}
}

func regOp(f func(a, b uint64) uint64) Operation {
	return func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), f(h.regs[rs1(inst)], h.regs[rs2(inst)]))
		return nil
	}
}

// the W forms operate on the low 32 bits and sign extend the result
func immOpW(f func(a, imm uint64) uint64) Operation {
	return immOp(func(a, imm uint64) uint64 { return sext32(f(a, imm)) })
}

func regOpW(f func(a, b uint64) uint64) Operation {
	return regOp(func(a, b uint64) uint64 { return sext32(f(a, b)) })
}

func shamt6(inst uint32) uint64 {
	return uint64(inst>>20) & 0x3f
}

func shamt5(inst uint32) uint64 {
	return uint64(inst>>20) & 0x1f
}

func boolean(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// InstructionsI is the RV64I base integer instruction set. FENCE and ECALL
// etc. are in InstructionsPriv.
var InstructionsI = []Instruction{
	{Mask: 0x7f, Match: 0x37, Name: "lui", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), immU(inst))
		return nil
	}},
	{Mask: 0x7f, Match: 0x17, Name: "auipc", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), h.pc+immU(inst))
		return nil
	}},
	{Mask: 0x7f, Match: 0x6f, Name: "jal", Operation: func(h *Hart, inst uint32) error {
		link := h.nextPC
		if err := h.jump(h.pc + immJ(inst)); err != nil {
			return err
		}
		h.SetReg(rd(inst), link)
		return nil
	}},
	{Mask: 0x707f, Match: 0x67, Name: "jalr", Operation: func(h *Hart, inst uint32) error {
		link := h.nextPC
		if err := h.jump((h.regs[rs1(inst)] + immI(inst)) &^ 1); err != nil {
			return err
		}
		h.SetReg(rd(inst), link)
		return nil
	}},

	{Mask: 0x707f, Match: 0x0063, Name: "beq", Operation: branch(func(a, b uint64) bool { return a == b })},
	{Mask: 0x707f, Match: 0x1063, Name: "bne", Operation: branch(func(a, b uint64) bool { return a != b })},
	{Mask: 0x707f, Match: 0x4063, Name: "blt", Operation: branch(func(a, b uint64) bool { return int64(a) < int64(b) })},
	{Mask: 0x707f, Match: 0x5063, Name: "bge", Operation: branch(func(a, b uint64) bool { return int64(a) >= int64(b) })},
	{Mask: 0x707f, Match: 0x6063, Name: "bltu", Operation: branch(func(a, b uint64) bool { return a < b })},
	{Mask: 0x707f, Match: 0x7063, Name: "bgeu", Operation: branch(func(a, b uint64) bool { return a >= b })},

	{Mask: 0x707f, Match: 0x0003, Name: "lb", Operation: loadOp(1, true)},
	{Mask: 0x707f, Match: 0x1003, Name: "lh", Operation: loadOp(2, true)},
	{Mask: 0x707f, Match: 0x2003, Name: "lw", Operation: loadOp(4, true)},
	{Mask: 0x707f, Match: 0x3003, Name: "ld", Operation: loadOp(8, false)},
	{Mask: 0x707f, Match: 0x4003, Name: "lbu", Operation: loadOp(1, false)},
	{Mask: 0x707f, Match: 0x5003, Name: "lhu", Operation: loadOp(2, false)},
	{Mask: 0x707f, Match: 0x6003, Name: "lwu", Operation: loadOp(4, false)},

	{Mask: 0x707f, Match: 0x0023, Name: "sb", Operation: storeOp(1)},
	{Mask: 0x707f, Match: 0x1023, Name: "sh", Operation: storeOp(2)},
	{Mask: 0x707f, Match: 0x2023, Name: "sw", Operation: storeOp(4)},
	{Mask: 0x707f, Match: 0x3023, Name: "sd", Operation: storeOp(8)},

	{Mask: 0x707f, Match: 0x0013, Name: "addi", Operation: immOp(func(a, imm uint64) uint64 { return a + imm })},
	{Mask: 0x707f, Match: 0x2013, Name: "slti", Operation: immOp(func(a, imm uint64) uint64 { return boolean(int64(a) < int64(imm)) })},
	{Mask: 0x707f, Match: 0x3013, Name: "sltiu", Operation: immOp(func(a, imm uint64) uint64 { return boolean(a < imm) })},
	{Mask: 0x707f, Match: 0x4013, Name: "xori", Operation: immOp(func(a, imm uint64) uint64 { return a ^ imm })},
	{Mask: 0x707f, Match: 0x6013, Name: "ori", Operation: immOp(func(a, imm uint64) uint64 { return a | imm })},
	{Mask: 0x707f, Match: 0x7013, Name: "andi", Operation: immOp(func(a, imm uint64) uint64 { return a & imm })},

	{Mask: 0xfc00707f, Match: 0x00001013, Name: "slli", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), h.regs[rs1(inst)]<<shamt6(inst))
		return nil
	}},
	{Mask: 0xfc00707f, Match: 0x00005013, Name: "srli", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), h.regs[rs1(inst)]>>shamt6(inst))
		return nil
	}},
	{Mask: 0xfc00707f, Match: 0x40005013, Name: "srai", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), uint64(int64(h.regs[rs1(inst)])>>shamt6(inst)))
		return nil
	}},

	{Mask: 0xfe00707f, Match: 0x00000033, Name: "add", Operation: regOp(func(a, b uint64) uint64 { return a + b })},
	{Mask: 0xfe00707f, Match: 0x40000033, Name: "sub", Operation: regOp(func(a, b uint64) uint64 { return a - b })},
	{Mask: 0xfe00707f, Match: 0x00001033, Name: "sll", Operation: regOp(func(a, b uint64) uint64 { return a << (b & 0x3f) })},
	{Mask: 0xfe00707f, Match: 0x00002033, Name: "slt", Operation: regOp(func(a, b uint64) uint64 { return boolean(int64(a) < int64(b)) })},
	{Mask: 0xfe00707f, Match: 0x00003033, Name: "sltu", Operation: regOp(func(a, b uint64) uint64 { return boolean(a < b) })},
	{Mask: 0xfe00707f, Match: 0x00004033, Name: "xor", Operation: regOp(func(a, b uint64) uint64 { return a ^ b })},
	{Mask: 0xfe00707f, Match: 0x00005033, Name: "srl", Operation: regOp(func(a, b uint64) uint64 { return a >> (b & 0x3f) })},
	{Mask: 0xfe00707f, Match: 0x40005033, Name: "sra", Operation: regOp(func(a, b uint64) uint64 { return uint64(int64(a) >> (b & 0x3f)) })},
	{Mask: 0xfe00707f, Match: 0x00006033, Name: "or", Operation: regOp(func(a, b uint64) uint64 { return a | b })},
	{Mask: 0xfe00707f, Match: 0x00007033, Name: "and", Operation: regOp(func(a, b uint64) uint64 { return a & b })},

	{Mask: 0x707f, Match: 0x001b, Name: "addiw", Operation: immOpW(func(a, imm uint64) uint64 { return a + imm })},
	{Mask: 0xfe00707f, Match: 0x0000101b, Name: "slliw", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), sext32(h.regs[rs1(inst)]<<shamt5(inst)))
		return nil
	}},
	{Mask: 0xfe00707f, Match: 0x0000501b, Name: "srliw", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), sext32(uint64(uint32(h.regs[rs1(inst)])>>shamt5(inst))))
		return nil
	}},
	{Mask: 0xfe00707f, Match: 0x4000501b, Name: "sraiw", Operation: func(h *Hart, inst uint32) error {
		h.SetReg(rd(inst), uint64(int64(int32(h.regs[rs1(inst)])>>shamt5(inst))))
		return nil
	}},

	{Mask: 0xfe00707f, Match: 0x0000003b, Name: "addw", Operation: regOpW(func(a, b uint64) uint64 { return a + b })},
	{Mask: 0xfe00707f, Match: 0x4000003b, Name: "subw", Operation: regOpW(func(a, b uint64) uint64 { return a - b })},
	{Mask: 0xfe00707f, Match: 0x0000103b, Name: "sllw", Operation: regOpW(func(a, b uint64) uint64 { return a << (b & 0x1f) })},
	{Mask: 0xfe00707f, Match: 0x0000503b, Name: "srlw", Operation: regOpW(func(a, b uint64) uint64 { return uint64(uint32(a) >> (b & 0x1f)) })},
	{Mask: 0xfe00707f, Match: 0x4000503b, Name: "sraw", Operation: regOpW(func(a, b uint64) uint64 { return uint64(int32(a) >> (b & 0x1f)) })},
}
