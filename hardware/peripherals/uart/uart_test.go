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

package uart_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/hardware/peripherals/uart"
	"github.com/jetsetilly/rv64emu/test"
)

func TestTransmit(t *testing.T) {
	u := uart.NewUART()
	u.Write(uart.THR, 'h', 1)
	u.Write(uart.THR, 'i', 1)
	test.ExpectEquality(t, string(u.Drain()), "hi")

	_, ok := u.Transmitted()
	test.ExpectFailure(t, ok)
}

func TestReceive(t *testing.T) {
	u := uart.NewUART()
	test.ExpectEquality(t, u.Read(uart.LSR, 1)&0x01, 0)

	u.Receive('a', 'b')
	test.ExpectEquality(t, u.Read(uart.LSR, 1)&0x01, 1)
	test.ExpectEquality(t, u.Read(uart.RBR, 1), 'a')
	test.ExpectEquality(t, u.Read(uart.RBR, 1), 'b')

	// empty receive buffer reads as zero
	test.ExpectEquality(t, u.Read(uart.RBR, 1), 0)
	test.ExpectEquality(t, u.Read(uart.LSR, 1)&0x01, 0)
}

func TestReset(t *testing.T) {
	u := uart.NewUART()
	u.Receive('x')
	u.Write(uart.THR, 'y', 1)
	u.Reset()
	test.ExpectEquality(t, len(u.Drain()), 0)
	test.ExpectEquality(t, u.Read(uart.RBR, 1), 0)
}
