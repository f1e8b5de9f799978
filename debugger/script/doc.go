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

// Package script drives a simulation from a Lua script. The script must
// define a global function called frame(), which is called once per frame by
// the host. Returning false from frame() ends the session.
//
// The following functions are available to the script:
//
//	run_once(n)      step the harts for up to n instructions and return the
//	                 number of steps taken
//	uart_read()      return, as a string, the bytes transmitted by the guest
//	                 since the previous call
//	uart_write(s)    send the string to the guest
//	key(name)        send a named key ("up", "enter", etc.) or a single
//	                 character to the guest
//	mtime()          the value of the CLINT timer
//	halted()         true if the guest has halted and the exit code
//	log(s)           write to the central logger
//	jtag_reset()     reset the JTAG TAP
//	jtag_clock(t, d) clock the JTAG TAP with TMS t and TDI d, returning TDO
//	jtag_state()     name of the current JTAG TAP state
//
// For example:
//
//	function frame()
//	    run_once(10000)
//	    io.write(uart_read())
//	    return not halted()
//	end
package script
