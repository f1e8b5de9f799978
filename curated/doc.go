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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function checks whether an error was created with a specific
// pattern. For example:
//
//	e := curated.Errorf("bus: no device at %#x", addr)
//
//	if curated.Is(e, "bus: no device at %#x") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("icache: %v", e)
//
//	if curated.Has(f, "bus: no device at %#x") {
//		fmt.Println("true")
//	}
//
// The Error() function ensures that the error chain is normalised, meaning
// that the chain does not contain duplicate adjacent parts. Chains are
// thought of as being composed of parts separated by the sub-string ": ".
// Wrapping an error with the same prefix at every level of the call stack
// therefore produces
//
//	config: isa string must begin with rv64
//
// and not
//
//	config: config: isa string must begin with rv64
//
// Sentinel patterns are stored as exported const strings next to the code
// that raises them.
package curated
