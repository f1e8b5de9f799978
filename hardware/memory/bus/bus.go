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

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/rv64emu/curated"
)

// Sentinel error patterns.
const (
	NoDevice    = "bus: no device at %#x"
	Overlap     = "bus: %s overlaps with %s"
	EmptyDevice = "bus: %s has zero length"
)

// DeviceType is a single entry in the device map.
type DeviceType struct {
	Start  uint64
	Len    uint64
	Device Device
	Name   string
}

// End returns the first address after the device.
func (d DeviceType) End() uint64 {
	return d.Start + d.Len
}

func (d DeviceType) String() string {
	return fmt.Sprintf("%#010x-%#010x %s", d.Start, d.End()-1, d.Name)
}

func (d DeviceType) contains(addr uint64, size int) bool {
	return addr >= d.Start && addr-d.Start+uint64(size) <= d.Len
}

// Bus is the physical memory bus.
type Bus struct {
	devices []DeviceType

	// the most recently matched device. accesses are very often to the same
	// device as the previous access
	last int
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus() *Bus {
	return &Bus{}
}

// AddDevice attaches a device to the bus. It is an error for the new device
// to overlap an existing one.
func (b *Bus) AddDevice(d DeviceType) error {
	if d.Len == 0 {
		return curated.Errorf(EmptyDevice, d.Name)
	}
	if d.Name == "" {
		d.Name = d.Device.Name()
	}

	for _, e := range b.devices {
		if d.Start < e.End() && e.Start < d.End() {
			return curated.Errorf(Overlap, d, e)
		}
	}

	b.devices = append(b.devices, d)
	sort.Slice(b.devices, func(i, j int) bool {
		return b.devices[i].Start < b.devices[j].Start
	})
	b.last = 0

	return nil
}

// Devices returns a copy of the device map in address order.
func (b *Bus) Devices() []DeviceType {
	c := make([]DeviceType, len(b.devices))
	copy(c, b.devices)
	return c
}

func (b *Bus) String() string {
	s := strings.Builder{}
	for _, d := range b.devices {
		s.WriteString(d.String())
		s.WriteString("\n")
	}
	return s.String()
}

// find returns the device containing the entire access
func (b *Bus) find(addr uint64, size int) (*DeviceType, bool) {
	if b.last < len(b.devices) && b.devices[b.last].contains(addr, size) {
		return &b.devices[b.last], true
	}

	i := sort.Search(len(b.devices), func(i int) bool {
		return b.devices[i].End() > addr
	})
	if i < len(b.devices) && b.devices[i].contains(addr, size) {
		b.last = i
		return &b.devices[i], true
	}

	return nil, false
}

// Read size bytes from the physical address.
func (b *Bus) Read(addr uint64, size int) (uint64, error) {
	d, ok := b.find(addr, size)
	if !ok {
		return 0, curated.Errorf(NoDevice, addr)
	}
	return d.Device.Read(addr-d.Start, size), nil
}

// Write size bytes to the physical address.
func (b *Bus) Write(addr uint64, data uint64, size int) error {
	d, ok := b.find(addr, size)
	if !ok {
		return curated.Errorf(NoDevice, addr)
	}
	d.Device.Write(addr-d.Start, data, size)
	return nil
}

// CopyFromSlice copies data onto the bus starting at the physical address.
// The entire block must be claimed by a single device.
func (b *Bus) CopyFromSlice(addr uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	d, ok := b.find(addr, len(data))
	if !ok {
		return curated.Errorf(NoDevice, addr)
	}
	if bd, ok := d.Device.(BulkDevice); ok {
		bd.CopyFromSlice(addr-d.Start, data)
		return nil
	}
	for i, v := range data {
		d.Device.Write(addr-d.Start+uint64(i), uint64(v), 1)
	}
	return nil
}

// CopyToSlice fills data from the bus starting at the physical address.
func (b *Bus) CopyToSlice(addr uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	d, ok := b.find(addr, len(data))
	if !ok {
		return curated.Errorf(NoDevice, addr)
	}
	if bd, ok := d.Device.(BulkDevice); ok {
		bd.CopyToSlice(addr-d.Start, data)
		return nil
	}
	for i := range data {
		data[i] = uint8(d.Device.Read(addr-d.Start+uint64(i), 1))
	}
	return nil
}

// Update every device on the bus.
func (b *Bus) Update() {
	for _, d := range b.devices {
		d.Device.Update()
	}
}

// Reset every device on the bus.
func (b *Bus) Reset() {
	for _, d := range b.devices {
		d.Device.Reset()
	}
}
