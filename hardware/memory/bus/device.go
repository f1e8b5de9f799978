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

package bus

// Device is implemented by everything that can be attached to the bus.
//
// The offset given to Read() and Write() is relative to the start of the
// range the device is attached at. The bus guarantees that offset+size does
// not exceed the length of the range. The size is 1, 2, 4 or 8 bytes.
type Device interface {
	Read(offset uint64, size int) uint64
	Write(offset uint64, data uint64, size int)

	// Name is used in log messages and by the trace output.
	Name() string

	// Update is called by the bus once per simulation step.
	Update()

	// Reset the device to its power on state.
	Reset()
}

// BulkDevice is implemented by devices that can copy blocks of data more
// efficiently than with a series of single byte accesses.
type BulkDevice interface {
	Device
	CopyFromSlice(offset uint64, data []byte)
	CopyToSlice(offset uint64, data []byte)
}

// DeviceBase can be embedded by devices that have nothing to do in Update()
// or Reset().
type DeviceBase struct{}

func (DeviceBase) Update() {}

func (DeviceBase) Reset() {}
