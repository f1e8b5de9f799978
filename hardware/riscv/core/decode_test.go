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
	"testing"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/riscv/asm"
	"github.com/jetsetilly/rv64emu/test"
)

func TestDecodeCache(t *testing.T) {
	table := append([]Instruction{}, InstructionsI...)
	d := newDecoder(table, InstructionsC, 2)

	dec, err := d.decode(asm.Addi(1, 2, 3))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, dec.name, "addi")
	test.ExpectEquality(t, len(d.cache), 1)

	// compressed words are expanded before lookup
	dec, err = d.decode(0x4515)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, dec.name, "c.li")
	test.ExpectEquality(t, dec.ins.Name, "addi")
	test.ExpectEquality(t, dec.inst, asm.Addi(10, 0, 5))

	// the cache never grows beyond its size
	_, err = d.decode(asm.Add(1, 2, 3))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(d.cache), 2)

	_, err = d.decode(0xffffffff)
	test.ExpectEquality(t, curated.Is(err, UnimplementedEncoding), true)
	test.ExpectEquality(t, len(d.cache), 2)
}

func TestExpand(t *testing.T) {
	for _, tc := range []struct {
		c    uint16
		name string
		inst uint32
	}{
		{0x4515, "c.li", asm.Addi(10, 0, 5)},
		{0x1141, "c.addi", asm.Addi(2, 2, -16)},
		{0x6141, "c.lui", asm.Addi(2, 2, 16)},
		{0x65c1, "c.lui", asm.Lui(11, 16)},
		{0x8082, "c.mv", asm.Jalr(0, 1, 0)},
		{0x9082, "c.add", asm.Jalr(1, 1, 0)},
		{0x9002, "c.add", asm.Ebreak},
		{0x8d89, "c.sub", asm.R(asm.OpReg, 11, 0, 11, 10, 0x20)},
		{0xa001, "c.j", asm.Jal(0, 0)},
		{0xbffd, "c.j", asm.Jal(0, -2)},
		{0xc119, "c.beqz", asm.Beq(10, 0, 6)},
	} {
		c, inst, ok := expand(InstructionsC, tc.c)
		test.ExpectEquality(t, ok, true, tc.c)
		test.ExpectEquality(t, c.Name, tc.name, tc.c)
		test.ExpectEquality(t, inst, tc.inst, tc.c)
	}

	// reserved encodings
	for _, c := range []uint16{
		0x0000, // c.addi4spn with zero immediate
		0x2001, // c.addiw with rd x0
		0x6101, // c.addi16sp with zero immediate
		0x6501, // c.lui with zero immediate
		0x4002, // c.lwsp with rd x0
		0x8002, // c.jr with rs1 x0
		0x2000, // c.fld
	} {
		_, _, ok := expand(InstructionsC, c)
		test.ExpectEquality(t, ok, false, c)
	}
}

func TestMulDiv(t *testing.T) {
	const minInt64 = 1 << 63
	const allOnes = ^uint64(0)

	test.ExpectEquality(t, div(7, 0), allOnes)
	test.ExpectEquality(t, divu(7, 0), allOnes)
	test.ExpectEquality(t, rem(7, 0), uint64(7))
	test.ExpectEquality(t, remu(7, 0), uint64(7))
	test.ExpectEquality(t, div(minInt64, allOnes), uint64(minInt64))
	test.ExpectEquality(t, rem(minInt64, allOnes), uint64(0))
	test.ExpectEquality(t, div(uint64(0xfffffffffffffff9), 2), uint64(0xfffffffffffffffd))
	test.ExpectEquality(t, rem(uint64(0xfffffffffffffff9), 2), allOnes)

	test.ExpectEquality(t, divw(0x80000000, 0xffffffff), uint64(0xffffffff80000000))
	test.ExpectEquality(t, remw(0x80000000, 0xffffffff), uint64(0))
	test.ExpectEquality(t, divw(5, 0), allOnes)
	test.ExpectEquality(t, divuw(5, 0), allOnes)
	test.ExpectEquality(t, remuw(0x80000000, 0), uint64(0xffffffff80000000))
	test.ExpectEquality(t, divuw(0xffffffff, 1), allOnes)

	test.ExpectEquality(t, mulh(allOnes, allOnes), uint64(0))
	test.ExpectEquality(t, mulhsu(allOnes, allOnes), allOnes)
	test.ExpectEquality(t, mulh(minInt64, 2), allOnes)
}
