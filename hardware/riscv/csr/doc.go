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

// Package csr implements the control and status registers of a hart along
// with the privilege model that governs access to them.
//
// The Bank type holds the registers. Supervisor registers that are views of
// machine registers (sstatus, sie and sip) are not stored separately but are
// computed from the machine register with a mask. Every write is masked to
// the legal (WARL) values for the register before it is stored.
//
// Trap entry and return are also implemented here because they are defined
// almost entirely in terms of CSR updates. The hart is responsible for
// redirecting the program counter and changing the privilege mode with the
// values returned by TakeTrap(), Mret() and Sret().
package csr
