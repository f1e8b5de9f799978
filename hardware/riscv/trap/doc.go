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

// Package trap describes the synchronous exceptions and asynchronous
// interrupts that a hart can raise. A Trap value carries the architectural
// cause number and, for the exceptions that have one, the trap value that is
// written to the xTVAL register.
//
// Trap implements the error interface so that memory access and execution
// functions can return it along with the other errors they produce. The
// hart uses errors.As() to separate guest visible traps from emulator
// errors.
package trap
