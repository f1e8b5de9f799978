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
	"github.com/jetsetilly/rv64emu/hardware/riscv/asm"
)

// Compressed describes a 16-bit instruction from the C extension. The
// Expand function returns the equivalent 32-bit instruction, which is then
// decoded and executed in the normal way. Encodings that are reserved cause
// Expand to return false.
type Compressed struct {
	Mask   uint16
	Match  uint16
	Name   string
	Expand func(c uint16) (uint32, bool)
}

// expand the 16-bit instruction with the first matching entry in the table
func expand(table []Compressed, c uint16) (Compressed, uint32, bool) {
	for _, e := range table {
		if c&e.Mask == e.Match {
			inst, ok := e.Expand(c)
			if !ok {
				return Compressed{}, 0, false
			}
			return e, inst, true
		}
	}
	return Compressed{}, 0, false
}

// register fields. the primed forms address x8 to x15
func cRd(c uint16) uint32   { return uint32(c>>7) & 0x1f }
func cRs2(c uint16) uint32  { return uint32(c>>2) & 0x1f }
func cRdP(c uint16) uint32  { return 8 + uint32(c>>2)&7 }
func cRs1P(c uint16) uint32 { return 8 + uint32(c>>7)&7 }

func sext(v uint32, bits int) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// the six bit immediate of the CI format
func cImm6(c uint16) int32 {
	return sext(uint32(c>>7)&0x20|uint32(c>>2)&0x1f, 6)
}

func cShamt(c uint16) uint32 {
	return uint32(c>>7)&0x20 | uint32(c>>2)&0x1f
}

func cOffJ(c uint16) int32 {
	i := uint32(c)
	v := (i>>1)&0x800 | (i>>7)&0x10 | (i>>1)&0x300 | (i<<2)&0x400 |
		(i>>1)&0x40 | (i<<1)&0x80 | (i>>2)&0xe | (i<<3)&0x20
	return sext(v, 12)
}

func cOffB(c uint16) int32 {
	i := uint32(c)
	v := (i>>4)&0x100 | (i>>7)&0x18 | (i<<1)&0xc0 | (i>>2)&0x6 | (i<<3)&0x20
	return sext(v, 9)
}

func cUimmW(c uint16) int32 {
	i := uint32(c)
	return int32((i>>7)&0x38 | (i<<1)&0x40 | (i>>4)&0x4)
}

func cUimmD(c uint16) int32 {
	i := uint32(c)
	return int32((i>>7)&0x38 | (i<<1)&0xc0)
}

const (
	x0 = 0
	ra = 1
	sp = 2
)

// InstructionsC is the compressed instruction extension for RV64. The
// floating point loads and stores are not included and so are illegal.
var InstructionsC = []Compressed{
	// quadrant 0
	{Mask: 0xe003, Match: 0x0000, Name: "c.addi4spn", Expand: func(c uint16) (uint32, bool) {
		i := uint32(c)
		imm := (i>>7)&0x30 | (i>>1)&0x3c0 | (i>>4)&0x4 | (i>>2)&0x8
		if imm == 0 {
			return 0, false
		}
		return asm.Addi(cRdP(c), sp, int32(imm)), true
	}},
	{Mask: 0xe003, Match: 0x4000, Name: "c.lw", Expand: func(c uint16) (uint32, bool) {
		return asm.Lw(cRdP(c), cRs1P(c), cUimmW(c)), true
	}},
	{Mask: 0xe003, Match: 0x6000, Name: "c.ld", Expand: func(c uint16) (uint32, bool) {
		return asm.Ld(cRdP(c), cRs1P(c), cUimmD(c)), true
	}},
	{Mask: 0xe003, Match: 0xc000, Name: "c.sw", Expand: func(c uint16) (uint32, bool) {
		return asm.Sw(cRdP(c), cRs1P(c), cUimmW(c)), true
	}},
	{Mask: 0xe003, Match: 0xe000, Name: "c.sd", Expand: func(c uint16) (uint32, bool) {
		return asm.Sd(cRdP(c), cRs1P(c), cUimmD(c)), true
	}},

	// quadrant 1
	{Mask: 0xe003, Match: 0x0001, Name: "c.addi", Expand: func(c uint16) (uint32, bool) {
		return asm.Addi(cRd(c), cRd(c), cImm6(c)), true
	}},
	{Mask: 0xe003, Match: 0x2001, Name: "c.addiw", Expand: func(c uint16) (uint32, bool) {
		if cRd(c) == x0 {
			return 0, false
		}
		return asm.I(asm.OpImm32, cRd(c), 0, cRd(c), cImm6(c)), true
	}},
	{Mask: 0xe003, Match: 0x4001, Name: "c.li", Expand: func(c uint16) (uint32, bool) {
		return asm.Addi(cRd(c), x0, cImm6(c)), true
	}},
	{Mask: 0xe003, Match: 0x6001, Name: "c.lui", Expand: func(c uint16) (uint32, bool) {
		if cRd(c) == sp {
			i := uint32(c)
			v := (i>>3)&0x200 | (i>>2)&0x10 | (i<<1)&0x40 | (i<<4)&0x180 | (i<<3)&0x20
			if v == 0 {
				return 0, false
			}
			return asm.Addi(sp, sp, sext(v, 10)), true
		}
		imm := cImm6(c)
		if imm == 0 {
			return 0, false
		}
		return asm.Lui(cRd(c), imm), true
	}},
	{Mask: 0xec03, Match: 0x8001, Name: "c.srli", Expand: func(c uint16) (uint32, bool) {
		return asm.I(asm.OpImm, cRs1P(c), 5, cRs1P(c), int32(cShamt(c))), true
	}},
	{Mask: 0xec03, Match: 0x8401, Name: "c.srai", Expand: func(c uint16) (uint32, bool) {
		return asm.I(asm.OpImm, cRs1P(c), 5, cRs1P(c), int32(cShamt(c)|0x400)), true
	}},
	{Mask: 0xec03, Match: 0x8801, Name: "c.andi", Expand: func(c uint16) (uint32, bool) {
		return asm.I(asm.OpImm, cRs1P(c), 7, cRs1P(c), cImm6(c)), true
	}},
	{Mask: 0xfc63, Match: 0x8c01, Name: "c.sub", Expand: func(c uint16) (uint32, bool) {
		return asm.R(asm.OpReg, cRs1P(c), 0, cRs1P(c), cRdP(c), 0x20), true
	}},
	{Mask: 0xfc63, Match: 0x8c21, Name: "c.xor", Expand: func(c uint16) (uint32, bool) {
		return asm.R(asm.OpReg, cRs1P(c), 4, cRs1P(c), cRdP(c), 0), true
	}},
	{Mask: 0xfc63, Match: 0x8c41, Name: "c.or", Expand: func(c uint16) (uint32, bool) {
		return asm.R(asm.OpReg, cRs1P(c), 6, cRs1P(c), cRdP(c), 0), true
	}},
	{Mask: 0xfc63, Match: 0x8c61, Name: "c.and", Expand: func(c uint16) (uint32, bool) {
		return asm.R(asm.OpReg, cRs1P(c), 7, cRs1P(c), cRdP(c), 0), true
	}},
	{Mask: 0xfc63, Match: 0x9c01, Name: "c.subw", Expand: func(c uint16) (uint32, bool) {
		return asm.R(asm.OpReg32, cRs1P(c), 0, cRs1P(c), cRdP(c), 0x20), true
	}},
	{Mask: 0xfc63, Match: 0x9c21, Name: "c.addw", Expand: func(c uint16) (uint32, bool) {
		return asm.R(asm.OpReg32, cRs1P(c), 0, cRs1P(c), cRdP(c), 0), true
	}},
	{Mask: 0xe003, Match: 0xa001, Name: "c.j", Expand: func(c uint16) (uint32, bool) {
		return asm.Jal(x0, cOffJ(c)), true
	}},
	{Mask: 0xe003, Match: 0xc001, Name: "c.beqz", Expand: func(c uint16) (uint32, bool) {
		return asm.Beq(cRs1P(c), x0, cOffB(c)), true
	}},
	{Mask: 0xe003, Match: 0xe001, Name: "c.bnez", Expand: func(c uint16) (uint32, bool) {
		return asm.Bne(cRs1P(c), x0, cOffB(c)), true
	}},

	// quadrant 2
	{Mask: 0xe003, Match: 0x0002, Name: "c.slli", Expand: func(c uint16) (uint32, bool) {
		return asm.I(asm.OpImm, cRd(c), 1, cRd(c), int32(cShamt(c))), true
	}},
	{Mask: 0xe003, Match: 0x4002, Name: "c.lwsp", Expand: func(c uint16) (uint32, bool) {
		if cRd(c) == x0 {
			return 0, false
		}
		i := uint32(c)
		imm := (i>>7)&0x20 | (i>>2)&0x1c | (i<<4)&0xc0
		return asm.Lw(cRd(c), sp, int32(imm)), true
	}},
	{Mask: 0xe003, Match: 0x6002, Name: "c.ldsp", Expand: func(c uint16) (uint32, bool) {
		if cRd(c) == x0 {
			return 0, false
		}
		i := uint32(c)
		imm := (i>>7)&0x20 | (i>>2)&0x18 | (i<<4)&0x1c0
		return asm.Ld(cRd(c), sp, int32(imm)), true
	}},
	{Mask: 0xf003, Match: 0x8002, Name: "c.mv", Expand: func(c uint16) (uint32, bool) {
		if cRs2(c) == x0 {
			// c.jr
			if cRd(c) == x0 {
				return 0, false
			}
			return asm.Jalr(x0, cRd(c), 0), true
		}
		return asm.Add(cRd(c), x0, cRs2(c)), true
	}},
	{Mask: 0xf003, Match: 0x9002, Name: "c.add", Expand: func(c uint16) (uint32, bool) {
		if cRs2(c) == x0 {
			if cRd(c) == x0 {
				return asm.Ebreak, true
			}
			// c.jalr
			return asm.Jalr(ra, cRd(c), 0), true
		}
		return asm.Add(cRd(c), cRd(c), cRs2(c)), true
	}},
	{Mask: 0xe003, Match: 0xc002, Name: "c.swsp", Expand: func(c uint16) (uint32, bool) {
		i := uint32(c)
		imm := (i>>7)&0x3c | (i>>1)&0xc0
		return asm.Sw(cRs2(c), sp, int32(imm)), true
	}},
	{Mask: 0xe003, Match: 0xe002, Name: "c.sdsp", Expand: func(c uint16) (uint32, bool) {
		i := uint32(c)
		imm := (i>>7)&0x38 | (i>>1)&0x1c0
		return asm.Sd(cRs2(c), sp, int32(imm)), true
	}},
}
