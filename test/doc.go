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

// Package test holds helper functions that remove boilerplate from the
// package tests.
//
// The Expect functions report a failure with t.Errorf() and let the test
// continue. The Demand functions are the same but call t.Fatalf(), which is
// the right choice when later parts of the test depend on the value being
// correct.
//
// Success and failure is decided by the type of the value:
//
//	bool  -> true is success
//	error -> nil is success
//	nil   -> success
//
// Any other type is a fatal error in the test itself.
//
// CappedWriter and RingWriter implement io.Writer and are useful for capturing
// output from the logger or from the UART.
package test
