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

// Package hardware is the base package for the RISC-V simulation. It and its
// sub-packages contain everything required for a headless simulation.
//
// The Sim type is the root of the simulation and holds the harts and the
// physical memory bus they share. NewStandard() builds the usual platform
// of RAM, CLINT and UART. NewSim() accepts harts and a bus built elsewhere.
//
// Progress is made by calling RunOnce(), which steps the harts round-robin
// for a budget of instructions, or Run(), which calls RunOnce() until a
// continue check function says otherwise.
package hardware
