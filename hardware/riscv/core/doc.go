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

// Package core implements a single RISC-V hart. It supports the RV64I base
// instruction set along with the M, A and C extensions, Zicsr, Zifencei and
// the privileged instructions required for machine, supervisor and user
// modes.
//
// Decoding is table driven. Each extension contributes a table of
// Instruction rows and the tables for the enabled extensions are joined when
// the hart is built. An instruction word is matched against the rows in
// order and the first row whose mask and match values agree is used.
// Compressed instructions have their own table, the rows of which expand the
// 16-bit word into the equivalent 32-bit word. Decoded results are cached by
// instruction word.
//
// A hart is created with the HartBuilder:
//
//	h, err := core.NewHartBuilder(bus, cfg).WithBootPC(0x8000_0000).WithHartID(0).Build()
//
// The hart is advanced with Step(). Guest visible faults are handled
// entirely inside Step() by taking a trap. An error returned by Step() is a
// problem with the emulation and not with the guest program.
package core
