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

// Package console connects the emulated UART to the host. Output from the
// guest is interpreted by an ANSI parser so that it can be collected as
// lines of text (Screen) or stripped of escape sequences when the host
// output is not a terminal (Stripper). Input is read from the host terminal
// in raw mode (Terminal) or synthesised from key names (EncodeKey).
package console
