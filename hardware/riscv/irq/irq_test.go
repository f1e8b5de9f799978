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

package irq_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/hardware/riscv/irq"
	"github.com/jetsetilly/rv64emu/test"
)

func TestLines(t *testing.T) {
	var l irq.Lines
	test.ExpectEquality(t, l.Get(), 0)

	l.Set(irq.MTIP, true)
	l.Set(irq.MSIP, true)
	test.ExpectSuccess(t, l.Level(irq.MTIP))
	test.ExpectEquality(t, l.Get(), irq.MTIP|irq.MSIP)

	l.Set(irq.MTIP, false)
	test.ExpectFailure(t, l.Level(irq.MTIP))
	test.ExpectEquality(t, l.Get(), irq.MSIP)
}

func TestClockWraps(t *testing.T) {
	var c irq.Clock
	c.Set(^uint64(0))
	c.Add(2)
	test.ExpectEquality(t, c.Get(), 1)
}
