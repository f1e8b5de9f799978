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

package fifo_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/hardware/peripherals/fifo"
	"github.com/jetsetilly/rv64emu/test"
)

func TestFIFO(t *testing.T) {
	var f fifo.Unbounded[byte]

	_, ok := f.Pop()
	test.ExpectFailure(t, ok)

	for i := 0; i < 200; i++ {
		f.Push(byte(i))
	}
	test.ExpectEquality(t, f.Len(), 200)

	// items come out in the order they went in, including across the
	// compaction of the underlying slice
	for i := 0; i < 150; i++ {
		v, ok := f.Pop()
		test.DemandSuccess(t, ok)
		test.DemandEquality(t, v, byte(i))
	}

	f.Push(0xff)
	v, ok := f.Peek()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 150)

	d := f.Drain()
	test.DemandEquality(t, len(d), 51)
	test.ExpectEquality(t, d[0], 150)
	test.ExpectEquality(t, d[50], 0xff)
	test.ExpectEquality(t, f.Len(), 0)
}
