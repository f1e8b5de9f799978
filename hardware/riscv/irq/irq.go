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

// Package irq holds the state that is shared between a hart and the devices
// that raise interrupts for it.
//
// Each field has a single writer. The CLINT writes the software and timer
// lines and the mtime counter. The hart only ever reads them, at the point
// where it checks for pending interrupts. The emulation is single threaded
// so no locking is required.
package irq

// Bit positions in the mip register for the lines that are driven by
// devices rather than by software.
const (
	SSIP = 1 << 1
	MSIP = 1 << 3
	STIP = 1 << 5
	MTIP = 1 << 7
	SEIP = 1 << 9
	MEIP = 1 << 11
)

// Lines is the interrupt pending cell for a single hart.
type Lines struct {
	pending uint64
}

// Get returns the state of all lines.
func (l *Lines) Get() uint64 {
	return l.pending
}

// Set raises or lowers the line.
func (l *Lines) Set(bit uint64, level bool) {
	if level {
		l.pending |= bit
	} else {
		l.pending &^= bit
	}
}

// Level returns true if the line is raised.
func (l *Lines) Level(bit uint64) bool {
	return l.pending&bit == bit
}

// Clock is the shared 64-bit mtime counter.
type Clock struct {
	mtime uint64
}

func (c *Clock) Get() uint64 {
	return c.mtime
}

func (c *Clock) Set(v uint64) {
	c.mtime = v
}

// Add advances the counter, wrapping on overflow.
func (c *Clock) Add(inc uint64) {
	c.mtime += inc
}
