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
	"math"
	"math/bits"
)

// mulhsu returns the upper 64 bits of the product of a signed and an
// unsigned operand
func mulhsu(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	if int64(a) < 0 {
		hi -= b
	}
	return hi
}

func mulh(a, b uint64) uint64 {
	hi := mulhsu(a, b)
	if int64(b) < 0 {
		hi -= a
	}
	return hi
}

// division by zero and signed overflow do not trap. the results are those
// required by the M extension

func div(a, b uint64) uint64 {
	switch {
	case b == 0:
		return math.MaxUint64
	case int64(a) == math.MinInt64 && int64(b) == -1:
		return a
	}
	return uint64(int64(a) / int64(b))
}

func divu(a, b uint64) uint64 {
	if b == 0 {
		return math.MaxUint64
	}
	return a / b
}

func rem(a, b uint64) uint64 {
	switch {
	case b == 0:
		return a
	case int64(a) == math.MinInt64 && int64(b) == -1:
		return 0
	}
	return uint64(int64(a) % int64(b))
}

func remu(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

func divw(a, b uint64) uint64 {
	x, y := int32(a), int32(b)
	switch {
	case y == 0:
		return math.MaxUint64
	case x == math.MinInt32 && y == -1:
		return uint64(int64(x))
	}
	return uint64(int64(x / y))
}

func divuw(a, b uint64) uint64 {
	x, y := uint32(a), uint32(b)
	if y == 0 {
		return math.MaxUint64
	}
	return sext32(uint64(x / y))
}

func remw(a, b uint64) uint64 {
	x, y := int32(a), int32(b)
	switch {
	case y == 0:
		return uint64(int64(x))
	case x == math.MinInt32 && y == -1:
		return 0
	}
	return uint64(int64(x % y))
}

func remuw(a, b uint64) uint64 {
	x, y := uint32(a), uint32(b)
	if y == 0 {
		return sext32(uint64(x))
	}
	return sext32(uint64(x % y))
}

// InstructionsM is the RV64M multiply and divide extension.
var InstructionsM = []Instruction{
	{Mask: 0xfe00707f, Match: 0x02000033, Name: "mul", Operation: regOp(func(a, b uint64) uint64 { return a * b })},
	{Mask: 0xfe00707f, Match: 0x02001033, Name: "mulh", Operation: regOp(mulh)},
	{Mask: 0xfe00707f, Match: 0x02002033, Name: "mulhsu", Operation: regOp(mulhsu)},
	{Mask: 0xfe00707f, Match: 0x02003033, Name: "mulhu", Operation: regOp(func(a, b uint64) uint64 {
		hi, _ := bits.Mul64(a, b)
		return hi
	})},
	{Mask: 0xfe00707f, Match: 0x02004033, Name: "div", Operation: regOp(div)},
	{Mask: 0xfe00707f, Match: 0x02005033, Name: "divu", Operation: regOp(divu)},
	{Mask: 0xfe00707f, Match: 0x02006033, Name: "rem", Operation: regOp(rem)},
	{Mask: 0xfe00707f, Match: 0x02007033, Name: "remu", Operation: regOp(remu)},

	{Mask: 0xfe00707f, Match: 0x0200003b, Name: "mulw", Operation: regOpW(func(a, b uint64) uint64 { return a * b })},
	{Mask: 0xfe00707f, Match: 0x0200403b, Name: "divw", Operation: regOp(divw)},
	{Mask: 0xfe00707f, Match: 0x0200503b, Name: "divuw", Operation: regOp(divuw)},
	{Mask: 0xfe00707f, Match: 0x0200603b, Name: "remw", Operation: regOp(remw)},
	{Mask: 0xfe00707f, Match: 0x0200703b, Name: "remuw", Operation: regOp(remuw)},
}
