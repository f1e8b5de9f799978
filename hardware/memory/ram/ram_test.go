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

package ram_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/hardware/memory/ram"
	"github.com/jetsetilly/rv64emu/test"
)

func TestLittleEndian(t *testing.T) {
	r := ram.NewRAM(16)
	r.Write(0, 0x1122334455667788, 8)
	test.ExpectEquality(t, r.Data[0], 0x88)
	test.ExpectEquality(t, r.Data[7], 0x11)
	test.ExpectEquality(t, r.Read(0, 4), 0x55667788)
	test.ExpectEquality(t, r.Read(4, 2), 0x3344)
	test.ExpectEquality(t, r.Read(7, 1), 0x11)

	r.Write(2, 0xabcd, 2)
	test.ExpectEquality(t, r.Read(0, 8), 0x11223344abcd7788)
}

func TestBulk(t *testing.T) {
	r := ram.NewRAM(8)
	r.CopyFromSlice(2, []byte{1, 2, 3})
	b := make([]byte, 4)
	r.CopyToSlice(1, b)
	test.ExpectEquality(t, string(b), string([]byte{0, 1, 2, 3}))

	s := r.Snapshot()
	r.Clear()
	test.ExpectEquality(t, s.Data[3], 2)
	test.ExpectEquality(t, r.Data[3], 0)
}
