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

package hardware

import (
	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/memory/addresses"
	"github.com/jetsetilly/rv64emu/hardware/memory/bus"
	"github.com/jetsetilly/rv64emu/hardware/memory/ram"
	"github.com/jetsetilly/rv64emu/hardware/peripherals/clint"
	"github.com/jetsetilly/rv64emu/hardware/peripherals/uart"
	"github.com/jetsetilly/rv64emu/hardware/riscv/config"
	"github.com/jetsetilly/rv64emu/hardware/riscv/core"
	"github.com/jetsetilly/rv64emu/logger"
	"github.com/jetsetilly/rv64emu/trace"
)

// Sentinel error patterns.
const (
	NoHarts    = "sim: no harts"
	NoSuchHart = "sim: hart %d does not exist"
	NoRAM      = "sim: no RAM at %#x: %v"
)

// Sim is the root of the simulation.
type Sim struct {
	harts []*core.Hart
	bus   *bus.Bus

	// the hart that will be stepped next by RunOnce()
	current int

	// devices attached by NewStandard(). they will be nil if the Sim was
	// created with NewSim()
	RAM   *ram.RAM
	Clint *clint.Clint
	UART  *uart.UART

	// the address of the tohost symbol found by LoadELF()
	tohost    uint64
	hasToHost bool
	checkHost bool

	halted   bool
	exitCode uint64
}

// NewSim is the preferred method of initialisation for the Sim type when the
// harts and the bus have been created elsewhere. The harts are linked so
// that stores by one hart clear the LR/SC reservations of the others.
func NewSim(b *bus.Bus, harts []*core.Hart, current int) (*Sim, error) {
	if len(harts) == 0 {
		return nil, curated.Errorf(NoHarts)
	}
	if current < 0 || current >= len(harts) {
		return nil, curated.Errorf(NoSuchHart, current)
	}

	core.Link(harts...)

	return &Sim{
		harts:     harts,
		bus:       b,
		current:   current,
		checkHost: true,
	}, nil
}

// NewStandard creates the standard platform: RAM of memSize bytes at
// addresses.MemBase, a CLINT at addresses.ClintBase and a UART at
// addresses.SerialPort. Every hart boots from addresses.MemBase.
func NewStandard(cfg *config.Config, memSize uint64, numHarts int) (*Sim, error) {
	b := bus.NewBus()

	mem := ram.NewRAM(memSize)
	cl := clint.NewClint()
	u := uart.NewUART()

	for _, d := range []bus.DeviceType{
		{Start: addresses.MemBase, Len: mem.Len(), Device: mem},
		{Start: addresses.ClintBase, Len: addresses.ClintSize, Device: cl},
		{Start: addresses.SerialPort, Len: 8, Device: u},
	} {
		if err := b.AddDevice(d); err != nil {
			return nil, curated.Errorf("sim: %v", err)
		}
	}

	harts := make([]*core.Hart, 0, numHarts)
	for i := 0; i < numHarts; i++ {
		h, err := core.NewHartBuilder(b, cfg).WithHartID(uint64(i)).Build()
		if err != nil {
			return nil, curated.Errorf("sim: %v", err)
		}
		h.CSR().SetClock(cl.AddHart(h.Lines()))
		harts = append(harts, h)
	}

	sim, err := NewSim(b, harts, 0)
	if err != nil {
		return nil, err
	}
	sim.RAM = mem
	sim.Clint = cl
	sim.UART = u
	sim.checkHost = !cfg.DisableCheckToHost

	logger.Logf(logger.Allow, "rvsim", "%s with %d hart(s)", cfg, numHarts)
	for _, d := range b.Devices() {
		logger.Logf(logger.Allow, "rvsim", "%s", d)
	}

	return sim, nil
}

// Bus returns the physical memory bus shared by the harts.
func (sim *Sim) Bus() *bus.Bus {
	return sim.bus
}

// Harts returns every hart in the simulation.
func (sim *Sim) Harts() []*core.Hart {
	return sim.harts
}

// SetLogPermission sets the logging permission of every hart.
func (sim *Sim) SetLogPermission(p logger.Permission) {
	for _, h := range sim.harts {
		h.SetLogPermission(p)
	}
}

// Hart returns the hart with the index.
func (sim *Sim) Hart(i int) (*core.Hart, error) {
	if i < 0 || i >= len(sim.harts) {
		return nil, curated.Errorf(NoSuchHart, i)
	}
	return sim.harts[i], nil
}

// SetObserver attaches a trace observer to every hart. A nil observer
// removes tracing.
func (sim *Sim) SetObserver(o trace.Observer) {
	for _, h := range sim.harts {
		h.SetObserver(o)
	}
}

// SetToHost sets the address monitored for the end of the program. This is
// normally found by LoadELF().
func (sim *Sim) SetToHost(addr uint64) {
	sim.tohost = addr
	sim.hasToHost = true
}

// Halted returns true if the guest has written a non-zero value to the
// tohost location. The exit code is the written value shifted right by one.
func (sim *Sim) Halted() (bool, uint64) {
	return sim.halted, sim.exitCode
}

// PrepareToRun resets the devices and clears the caches of every hart. It
// does not change the registers or the program counters.
func (sim *Sim) PrepareToRun() {
	sim.bus.Reset()
	for _, h := range sim.harts {
		h.ICache().Clear()
		h.MMU().Flush()
		h.Reservation().Clear()
	}
	sim.halted = false
	sim.exitCode = 0
}

// Reset every hart to its boot state.
func (sim *Sim) Reset() {
	for _, h := range sim.harts {
		h.Reset()
	}
	sim.PrepareToRun()
}
