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

// Package asm encodes RISC-V instructions. It is used to expand compressed
// instructions into their 32-bit equivalents and by tests to build small
// programs without an external assembler.
//
// The format functions (R, I, S, B, U and J) take the fields of the
// instruction in the order they appear in the ISA manual. Immediate values
// are truncated to the width of the field.
package asm

// Major opcodes.
const (
	OpLoad    = 0x03
	OpMiscMem = 0x0f
	OpImm     = 0x13
	OpAuipc   = 0x17
	OpImm32   = 0x1b
	OpStore   = 0x23
	OpAmo     = 0x2f
	OpReg     = 0x33
	OpLui     = 0x37
	OpReg32   = 0x3b
	OpBranch  = 0x63
	OpJalr    = 0x67
	OpJal     = 0x6f
	OpSystem  = 0x73
)

// R encodes a register-register instruction.
func R(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&7)<<12 | (rd&0x1f)<<7 | opcode&0x7f
}

// I encodes an instruction with a 12-bit immediate.
func I(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | (rs1&0x1f)<<15 | (funct3&7)<<12 | (rd&0x1f)<<7 | opcode&0x7f
}

// S encodes a store.
func S(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>5)&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&7)<<12 | (u&0x1f)<<7 | opcode&0x7f
}

// B encodes a conditional branch. The offset is in bytes and must be even.
func B(opcode, funct3, rs1, rs2 uint32, offset int32) uint32 {
	u := uint32(offset)
	return ((u>>12)&1)<<31 | ((u>>5)&0x3f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 |
		(funct3&7)<<12 | ((u>>1)&0xf)<<8 | ((u>>11)&1)<<7 | opcode&0x7f
}

// U encodes an instruction with a 20-bit upper immediate. The immediate is
// the value of the upper bits, not the shifted value.
func U(opcode, rd uint32, imm int32) uint32 {
	return (uint32(imm)&0xfffff)<<12 | (rd&0x1f)<<7 | opcode&0x7f
}

// J encodes a jump. The offset is in bytes and must be even.
func J(opcode, rd uint32, offset int32) uint32 {
	u := uint32(offset)
	return ((u>>20)&1)<<31 | ((u>>1)&0x3ff)<<21 | ((u>>11)&1)<<20 | ((u>>12)&0xff)<<12 | (rd&0x1f)<<7 | opcode&0x7f
}

// Frequently used instructions.

func Addi(rd, rs1 uint32, imm int32) uint32 { return I(OpImm, rd, 0, rs1, imm) }
func Add(rd, rs1, rs2 uint32) uint32 { return R(OpReg, rd, 0, rs1, rs2, 0) }
func Lui(rd uint32, imm int32) uint32 { return U(OpLui, rd, imm) }
func Auipc(rd uint32, imm int32) uint32 { return U(OpAuipc, rd, imm) }
func Jal(rd uint32, offset int32) uint32 { return J(OpJal, rd, offset) }
func Jalr(rd, rs1 uint32, imm int32) uint32 {
	return I(OpJalr, rd, 0, rs1, imm)
}
func Beq(rs1, rs2 uint32, offset int32) uint32 { return B(OpBranch, 0, rs1, rs2, offset) }
func Bne(rs1, rs2 uint32, offset int32) uint32 { return B(OpBranch, 1, rs1, rs2, offset) }
func Lb(rd, rs1 uint32, imm int32) uint32 { return I(OpLoad, rd, 0, rs1, imm) }
func Lw(rd, rs1 uint32, imm int32) uint32 { return I(OpLoad, rd, 2, rs1, imm) }
func Ld(rd, rs1 uint32, imm int32) uint32 { return I(OpLoad, rd, 3, rs1, imm) }
func Sb(rs2, rs1 uint32, imm int32) uint32 { return S(OpStore, 0, rs1, rs2, imm) }
func Sw(rs2, rs1 uint32, imm int32) uint32 { return S(OpStore, 2, rs1, rs2, imm) }
func Sd(rs2, rs1 uint32, imm int32) uint32 { return S(OpStore, 3, rs1, rs2, imm) }

// Csrrw encodes a CSR read and write.
func Csrrw(rd, csr, rs1 uint32) uint32 { return I(OpSystem, rd, 1, rs1, int32(csr)) }

// Csrrs encodes a CSR read and set bits.
func Csrrs(rd, csr, rs1 uint32) uint32 { return I(OpSystem, rd, 2, rs1, int32(csr)) }

// Amo encodes an atomic memory operation. The funct5 field selects the
// operation and width is 2 for a word or 3 for a doubleword.
func Amo(funct5, width, rd, rs1, rs2 uint32) uint32 {
	return R(OpAmo, rd, width, rs1, rs2, funct5<<2)
}

// Funct5 values for Amo().
const (
	AmoAdd  = 0x00
	AmoSwap = 0x01
	AmoLR   = 0x02
	AmoSC   = 0x03
	AmoXor  = 0x04
	AmoOr   = 0x08
	AmoAnd  = 0x0c
	AmoMin  = 0x10
	AmoMax  = 0x14
	AmoMinU = 0x18
	AmoMaxU = 0x1c
)

// System instructions with no operands.
const (
	Ecall  = 0x00000073
	Ebreak = 0x00100073
	Mret   = 0x30200073
	Sret   = 0x10200073
	Wfi    = 0x10500073
	Nop    = 0x00000013
)
