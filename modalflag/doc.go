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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Unlike flag.FlagSet, the arguments are given with NewArgs() and Parse() is
// called with no arguments. This allows the same argument list to be parsed
// in stages, one stage per mode:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "SCRIPT", "PERFORMANCE", "JTAG")
//	_, _ = md.Parse()
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		harts := md.AddInt("harts", 1, "number of harts")
//		mem := md.AddSize("mem", 64<<20, "size of RAM")
//		p, err := md.Parse()
//		...
//	}
//
// The first sub-mode given to AddSubModes() is the default and is selected
// if the first non-flag argument is not a sub-mode. Sub-mode comparisons are
// case insensitive.
//
// After parsing, non-flag arguments that are not a sub-mode are available
// with RemainingArgs() and GetArg().
//
// A -help flag is handled automatically. Parse() prints the help message to
// the Output writer and returns ParseHelp.
package modalflag
