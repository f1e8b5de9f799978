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

import "github.com/jetsetilly/rv64emu/hardware"

// CalcMIPS takes the number of instructions and the duration (in seconds)
// and returns the millions of instructions per second.
func CalcMIPS(instructions uint64, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(instructions) / duration / 1e6
}

// retired is the total number of instructions retired by every hart in the
// simulation.
func retired(sim *hardware.Sim) uint64 {
	var n uint64
	for _, h := range sim.Harts() {
		n += h.Retired()
	}
	return n
}
