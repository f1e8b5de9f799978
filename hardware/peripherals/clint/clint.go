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

// Package clint implements the SiFive core local interruptor. It owns the
// machine timer and the machine software interrupt lines of every hart.
//
// The register layout is:
//
//	0x0000 + 4*hart   msip       (4 bytes)
//	0x4000 + 8*hart   mtimecmp   (8 bytes, high word at +4)
//	0xbff8            mtime      (8 bytes, high word at +4)
package clint

import (
	"fmt"
	"math"

	"github.com/jetsetilly/rv64emu/hardware/riscv/irq"
)

// Register offsets.
const (
	MSIPBase        = 0x0000
	MSIPPerHart     = 0x4
	MTimeCmpBase    = 0x4000
	MTimeCmpPerHart = 0x8
	MTimeBase       = 0xbff8
	MTimeEnd        = MTimeBase + 7
)

// each hart has its own memory mapped mtimecmp register
type hart struct {
	mtimecmp uint64
	lines    *irq.Lines
}

// Clint is the core local interruptor device.
type Clint struct {
	harts []hart
	mtime *irq.Clock
}

// NewClint is the preferred method of initialisation for the Clint type.
func NewClint() *Clint {
	return &Clint{
		mtime: &irq.Clock{},
	}
}

// AddHart connects the interrupt lines of a hart to the CLINT. Harts are
// numbered in the order they are added. The shared mtime counter is returned
// so that the hart can implement the time CSR.
func (c *Clint) AddHart(lines *irq.Lines) *irq.Clock {
	c.harts = append(c.harts, hart{
		mtimecmp: math.MaxUint64,
		lines:    lines,
	})
	return c.mtime
}

// Name implements the bus.Device interface.
func (c *Clint) Name() string {
	return "SiFive CLINT"
}

// MTime returns the current value of the mtime counter.
func (c *Clint) MTime() uint64 {
	return c.mtime.Get()
}

// Tick advances mtime and updates the MTIP line of every hart.
func (c *Clint) Tick(inc uint64) {
	c.mtime.Add(inc)
	c.updateTimers()
}

func (c *Clint) updateTimers() {
	t := c.mtime.Get()
	for i := range c.harts {
		c.harts[i].lines.Set(irq.MTIP, t >= c.harts[i].mtimecmp)
	}
}

// Update implements the bus.Device interface. The timer advances by one for
// every simulation step.
func (c *Clint) Update() {
	c.Tick(1)
}

// Reset implements the bus.Device interface.
func (c *Clint) Reset() {
	c.mtime.Set(0)
	for i := range c.harts {
		c.harts[i].mtimecmp = math.MaxUint64
		c.harts[i].lines.Set(irq.MSIP, false)
		c.harts[i].lines.Set(irq.MTIP, false)
	}
}

func (c *Clint) hart(offset, base, per uint64) (*hart, bool) {
	id := (offset - base) / per
	if id >= uint64(len(c.harts)) {
		panic(fmt.Sprintf("clint: no hart %d for offset %#x", id, offset))
	}
	return &c.harts[id], (offset-base)%per == 4
}

// Read implements the bus.Device interface.
func (c *Clint) Read(offset uint64, size int) uint64 {
	switch {
	case offset < MTimeCmpBase && size == 4:
		h, _ := c.hart(offset, MSIPBase, MSIPPerHart)
		if h.lines.Level(irq.MSIP) {
			return 1
		}
		return 0

	case offset >= MTimeCmpBase && offset < MTimeBase:
		h, high := c.hart(offset, MTimeCmpBase, MTimeCmpPerHart)
		if high {
			return h.mtimecmp >> 32
		}
		if size == 4 {
			return h.mtimecmp & 0xffffffff
		}
		return h.mtimecmp

	case offset >= MTimeBase && offset <= MTimeEnd:
		t := c.mtime.Get()
		if offset == MTimeBase+4 {
			return t >> 32
		}
		if size == 4 {
			return t & 0xffffffff
		}
		return t
	}

	panic(fmt.Sprintf("clint: read of unknown register %#x (%d bytes)", offset, size))
}

// Write implements the bus.Device interface.
func (c *Clint) Write(offset uint64, data uint64, size int) {
	switch {
	case offset < MTimeCmpBase && size == 4:
		h, _ := c.hart(offset, MSIPBase, MSIPPerHart)
		h.lines.Set(irq.MSIP, data&1 == 1)

	case offset >= MTimeCmpBase && offset < MTimeBase:
		h, high := c.hart(offset, MTimeCmpBase, MTimeCmpPerHart)
		switch {
		case high:
			h.mtimecmp = (h.mtimecmp & 0xffffffff) | (data << 32)
		case size == 4:
			h.mtimecmp = (h.mtimecmp &^ 0xffffffff) | (data & 0xffffffff)
		default:
			h.mtimecmp = data
		}
		c.updateTimers()

	case offset == MTimeBase && size == 8:
		c.mtime.Set(data)
		c.updateTimers()

	default:
		panic(fmt.Sprintf("clint: write of unknown register %#x (%d bytes)", offset, size))
	}
}
