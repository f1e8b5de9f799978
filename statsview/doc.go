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

// Package statsview offers runtime statistics of the emulator process over
// HTTP. It is an optional package and does nothing unless the program is
// built with the statsview build constraint:
//
//	go build -tags statsview
//
// After launch, graphical statistics will be viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics available at:
//
//	localhost:12600/debug/pprof/
//
// Underlying functionality is provided by "github.com/go-echarts/statsview".
package statsview

// DefaultAddress is used by Launch() if no address is specified.
const DefaultAddress = "localhost:12600"

const url = "/debug/statsview"
