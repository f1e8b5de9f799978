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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/debugger/govern"
	"github.com/jetsetilly/rv64emu/hardware"
)

// Leadtime is the period the emulation runs for before measurement starts.
var Leadtime = 2 * time.Second

// Check the performance of the emulator by running the simulation for the
// specified duration. The simulation should have been prepared to run.
//
// A CPU profile, memory profile and execution trace (or a combination of
// those) will be created as defined by the Profile argument.
func Check(output io.Writer, profile Profile, sim *hardware.Sim, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	var startInstructions uint64
	var endInstructions uint64
	var halted bool

	runner := func() error {
		// signals false when the leadtime has elapsed and the measurement
		// should start. signals true when the measurement period has ended
		timerChan := make(chan bool, 2)

		time.AfterFunc(Leadtime, func() {
			timerChan <- false
			time.AfterFunc(dur, func() {
				timerChan <- true
			})
		})

		measuring := false

		state, err := sim.Run(func() (govern.State, error) {
			select {
			case v := <-timerChan:
				if v {
					return govern.Ending, nil
				}
				startInstructions = retired(sim)
				measuring = true
			default:
			}
			return govern.Running, nil
		})
		if err != nil {
			return err
		}

		endInstructions = retired(sim)
		if state == govern.Halted {
			halted = true
			if !measuring {
				startInstructions = endInstructions
			}
		}

		return nil
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	if halted {
		output.Write([]byte("guest halted before measurement completed\n"))
	}

	n := endInstructions - startInstructions
	mips := CalcMIPS(n, dur.Seconds())
	output.Write([]byte(fmt.Sprintf("%.2f MIPS (%d instructions in %.2f seconds)\n", mips, n, dur.Seconds())))

	return nil
}
