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

package govern

// State indicates the simulation's state.
type State int

// List of possible simulation states.
//
// Initialising is the state before any program has been loaded. Halted is
// entered when the guest writes to the tohost location. Ending means the
// host has asked for the simulation to stop.
const (
	Initialising State = iota
	Paused
	Running
	Halted
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "Initialising"
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	case Ending:
		return "Ending"
	}

	return ""
}

// Finished returns true if the state is one that the simulation cannot
// continue from.
func (s State) Finished() bool {
	return s == Halted || s == Ending
}
