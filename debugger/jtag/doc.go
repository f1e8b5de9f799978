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

// Package jtag implements the IEEE 1149.1 test access port state machine
// and a minimal TAP controller that can be driven over OpenOCD's
// remote_bitbang protocol.
//
// The state machine is a pure function of the current state and the TMS
// input. From any state, five consecutive clocks with TMS high return the
// machine to TestLogicReset.
package jtag
