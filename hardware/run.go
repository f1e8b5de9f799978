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
	"github.com/jetsetilly/rv64emu/debugger/govern"
	"github.com/jetsetilly/rv64emu/logger"
)

// PerformanceBrake is the number of instructions run between calls to the
// continue check function in Run(). Calling the continue check for every
// instruction would be expensive.
const PerformanceBrake = 1000

// RunOnce steps the harts round-robin for up to n instructions and returns
// the number of steps taken. A step of a hart stalled in WFI counts even
// though no instruction retires.
//
// The bus is updated, and so the CLINT timer advances, each time every hart
// has been stepped once. The run ends early if the guest halts by writing to
// tohost.
func (sim *Sim) RunOnce(n int) (int, error) {
	if sim.halted {
		return 0, nil
	}

	steps := 0
	for steps < n {
		h := sim.harts[sim.current]
		if err := h.Step(); err != nil {
			return steps, curated.Errorf("sim: %v", err)
		}
		steps++

		sim.current++
		if sim.current >= len(sim.harts) {
			sim.current = 0
			sim.bus.Update()
			if sim.checkToHost() {
				break
			}
		}
	}

	return steps, nil
}

// checkToHost returns true if the guest has halted.
func (sim *Sim) checkToHost() bool {
	if !sim.checkHost || !sim.hasToHost {
		return false
	}

	v, err := sim.bus.Read(sim.tohost, 8)
	if err != nil || v == 0 {
		return false
	}

	sim.halted = true
	sim.exitCode = v >> 1
	logger.Logf(logger.Allow, "rvsim", "tohost %#x: exit code %d", v, sim.exitCode)

	return true
}

// Run the simulation until the continue check function returns a finished
// state or the guest halts. The continue check is called every
// PerformanceBrake instructions and can be nil.
func (sim *Sim) Run(continueCheck func() (govern.State, error)) (govern.State, error) {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	state := govern.Running
	for {
		switch state {
		case govern.Running:
			if _, err := sim.RunOnce(PerformanceBrake); err != nil {
				return govern.Ending, err
			}
			if sim.halted {
				return govern.Halted, nil
			}
		case govern.Paused:
		case govern.Halted, govern.Ending:
			return state, nil
		default:
			return govern.Ending, curated.Errorf("sim: unsupported state (%s) in Run() function", state)
		}

		var err error
		state, err = continueCheck()
		if err != nil {
			return govern.Ending, err
		}
	}
}
