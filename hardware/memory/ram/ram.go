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

// Package ram implements the main memory device.
package ram

import (
	"encoding/binary"
	"fmt"
)

// RAM is a little endian byte addressable memory device.
type RAM struct {
	Data []uint8
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM(size uint64) *RAM {
	return &RAM{
		Data: make([]uint8, size),
	}
}

// Name implements the bus.Device interface.
func (ram *RAM) Name() string {
	return fmt.Sprintf("RAM (%dKB)", len(ram.Data)/1024)
}

// Len returns the size of memory in bytes.
func (ram *RAM) Len() uint64 {
	return uint64(len(ram.Data))
}

// Update implements the bus.Device interface.
func (ram *RAM) Update() {}

// Reset implements the bus.Device interface. Contents of memory are not
// changed by a reset.
func (ram *RAM) Reset() {}

// Clear sets every byte of memory to zero.
func (ram *RAM) Clear() {
	clear(ram.Data)
}

// Snapshot creates a copy of RAM in its current state.
func (ram *RAM) Snapshot() *RAM {
	n := &RAM{Data: make([]uint8, len(ram.Data))}
	copy(n.Data, ram.Data)
	return n
}

// Read implements the bus.Device interface.
func (ram *RAM) Read(offset uint64, size int) uint64 {
	switch size {
	case 1:
		return uint64(ram.Data[offset])
	case 2:
		return uint64(binary.LittleEndian.Uint16(ram.Data[offset:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(ram.Data[offset:]))
	case 8:
		return binary.LittleEndian.Uint64(ram.Data[offset:])
	}
	panic(fmt.Sprintf("ram: unsupported read size (%d)", size))
}

// Write implements the bus.Device interface.
func (ram *RAM) Write(offset uint64, data uint64, size int) {
	switch size {
	case 1:
		ram.Data[offset] = uint8(data)
	case 2:
		binary.LittleEndian.PutUint16(ram.Data[offset:], uint16(data))
	case 4:
		binary.LittleEndian.PutUint32(ram.Data[offset:], uint32(data))
	case 8:
		binary.LittleEndian.PutUint64(ram.Data[offset:], data)
	default:
		panic(fmt.Sprintf("ram: unsupported write size (%d)", size))
	}
}

// CopyFromSlice implements the bus.BulkDevice interface.
func (ram *RAM) CopyFromSlice(offset uint64, data []byte) {
	copy(ram.Data[offset:], data)
}

// CopyToSlice implements the bus.BulkDevice interface.
func (ram *RAM) CopyToSlice(offset uint64, data []byte) {
	copy(data, ram.Data[offset:])
}
