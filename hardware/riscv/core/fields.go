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

// register and immediate fields of the 32-bit instruction formats

func rd(inst uint32) int {
	return int((inst >> 7) & 0x1f)
}

func rs1(inst uint32) int {
	return int((inst >> 15) & 0x1f)
}

func rs2(inst uint32) int {
	return int((inst >> 20) & 0x1f)
}

func immI(inst uint32) uint64 {
	return uint64(int64(int32(inst)) >> 20)
}

func immS(inst uint32) uint64 {
	return uint64((int64(int32(inst&0xfe000000)) >> 20) | int64((inst>>7)&0x1f))
}

func immB(inst uint32) uint64 {
	v := (int64(int32(inst)) >> 31) << 12
	v |= int64((inst>>7)&1) << 11
	v |= int64((inst>>25)&0x3f) << 5
	v |= int64((inst>>8)&0xf) << 1
	return uint64(v)
}

func immU(inst uint32) uint64 {
	return uint64(int64(int32(inst & 0xfffff000)))
}

func immJ(inst uint32) uint64 {
	v := (int64(int32(inst)) >> 31) << 20
	v |= int64((inst>>12)&0xff) << 12
	v |= int64((inst>>20)&1) << 11
	v |= int64((inst>>21)&0x3ff) << 1
	return uint64(v)
}

func csrAddr(inst uint32) uint16 {
	return uint16(inst >> 20)
}

// sext32 sign extends the low word of v
func sext32(v uint64) uint64 {
	return uint64(int64(int32(v)))
}
