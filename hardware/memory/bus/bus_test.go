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

package bus_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/memory/bus"
	"github.com/jetsetilly/rv64emu/hardware/memory/ram"
	"github.com/jetsetilly/rv64emu/test"
)

// register is a device with a single byte that counts calls to Update()
type register struct {
	bus.DeviceBase
	value   uint8
	updates int
}

func (r *register) Name() string { return "register" }

func (r *register) Read(offset uint64, size int) uint64 {
	return uint64(r.value)
}

func (r *register) Write(offset uint64, data uint64, size int) {
	r.value = uint8(data)
}

func (r *register) Update() {
	r.updates++
}

func TestBusRouting(t *testing.T) {
	b := bus.NewBus()
	mem := ram.NewRAM(0x100)
	reg := &register{}

	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x1000, Len: 0x100, Device: mem}))
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x2000, Len: 1, Device: reg, Name: "reg"}))

	test.ExpectSuccess(t, b.Write(0x1010, 0xdeadbeef, 4))
	v, err := b.Read(0x1010, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0xdeadbeef)
	test.ExpectEquality(t, mem.Read(0x10, 4), 0xdeadbeef)

	test.ExpectSuccess(t, b.Write(0x2000, 0x41, 1))
	test.ExpectEquality(t, reg.value, 0x41)

	// unmapped addresses
	_, err = b.Read(0x3000, 1)
	test.ExpectSuccess(t, curated.Is(err, bus.NoDevice))
	test.ExpectSuccess(t, curated.Is(b.Write(0x0, 0, 1), bus.NoDevice))

	// an access that straddles the end of a device is also unmapped
	_, err = b.Read(0x10fe, 4)
	test.ExpectSuccess(t, curated.Is(err, bus.NoDevice))

	b.Update()
	b.Update()
	test.ExpectEquality(t, reg.updates, 2)
	test.ExpectEquality(t, len(b.Devices()), 2)
	test.ExpectEquality(t, b.Devices()[0].Name, "RAM (0KB)")
}

func TestBusOverlap(t *testing.T) {
	b := bus.NewBus()
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x1000, Len: 0x100, Device: ram.NewRAM(0x100)}))

	err := b.AddDevice(bus.DeviceType{Start: 0x10ff, Len: 0x10, Device: ram.NewRAM(0x10)})
	test.ExpectSuccess(t, curated.Is(err, bus.Overlap))

	err = b.AddDevice(bus.DeviceType{Start: 0x0f00, Len: 0x101, Device: ram.NewRAM(0x101)})
	test.ExpectSuccess(t, curated.Is(err, bus.Overlap))

	// adjacent is fine
	test.ExpectSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x1100, Len: 0x10, Device: ram.NewRAM(0x10)}))

	err = b.AddDevice(bus.DeviceType{Start: 0x5000, Len: 0, Device: ram.NewRAM(0)})
	test.ExpectSuccess(t, curated.Is(err, bus.EmptyDevice))
}

func TestBusCopy(t *testing.T) {
	b := bus.NewBus()
	reg := &register{}
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x1000, Len: 0x100, Device: ram.NewRAM(0x100)}))
	test.DemandSuccess(t, b.AddDevice(bus.DeviceType{Start: 0x2000, Len: 1, Device: reg}))

	test.ExpectSuccess(t, b.CopyFromSlice(0x1004, []byte("hello")))
	out := make([]byte, 5)
	test.ExpectSuccess(t, b.CopyToSlice(0x1004, out))
	test.ExpectEquality(t, string(out), "hello")

	// byte at a time fallback for devices without bulk support
	test.ExpectSuccess(t, b.CopyFromSlice(0x2000, []byte{0x7f}))
	test.ExpectEquality(t, reg.value, 0x7f)

	test.ExpectSuccess(t, curated.Is(b.CopyFromSlice(0x10fe, []byte("abc")), bus.NoDevice))
}
