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

// Package bus is the physical memory bus shared by all harts. Devices are
// attached to the bus at a fixed address range and receive reads and writes
// with the offset relative to the start of that range.
//
// Ranges must not overlap. An access to an address that no device claims is
// an error with the NoDevice pattern, which the hart turns into an access
// fault for the guest.
//
// Devices implement the Device interface. Devices that can copy large blocks
// more efficiently than one byte at a time, such as RAM, also implement
// BulkDevice.
package bus
