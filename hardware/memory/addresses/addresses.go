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

package addresses

// MemBase is the physical address of the start of RAM. It is also the boot
// address of every hart unless the loader says otherwise.
const MemBase = uint64(0x8000_0000)

// ClintBase is the physical address of the core local interruptor.
const ClintBase = uint64(0x0200_0000)

// ClintSize is the extent of the core local interruptor register space.
const ClintSize = uint64(0x0001_0000)

// DeviceBase is the start of the region where simple host devices live.
const DeviceBase = uint64(0xa000_0000)

// Host devices at fixed offsets from DeviceBase.
const (
	SerialPort = DeviceBase + 0x0000_03f8
	RTCAddr    = DeviceBase + 0x0000_0070
	KbdAddr    = DeviceBase + 0x0000_0060
)

// CanonicalSymbols lists the start of each well known region along with
// its canonical name.
var CanonicalSymbols = map[uint64]string{
	MemBase:    "RAM",
	ClintBase:  "CLINT",
	SerialPort: "UART",
	RTCAddr:    "RTC",
	KbdAddr:    "KBD",
}

// Symbol returns the canonical name for the address, if there is one.
func Symbol(addr uint64) (string, bool) {
	s, ok := CanonicalSymbols[addr]
	return s, ok
}
