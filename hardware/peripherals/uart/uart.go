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

// Package uart implements a register level subset of a 16550 UART. Bytes
// written by the guest to the transmit register are queued for the host and
// bytes pushed by the host are returned to the guest from the receive
// register.
package uart

import (
	"github.com/jetsetilly/rv64emu/hardware/memory/bus"
	"github.com/jetsetilly/rv64emu/hardware/peripherals/fifo"
)

// Register offsets.
const (
	THR = 0 // transmit holding register (write)
	RBR = 0 // receive buffer register (read)
	IER = 1
	LSR = 5
)

// Line status bits.
const (
	lsrDataReady = 0x01
	lsrTHREmpty  = 0x20
	lsrTxIdle    = 0x40
)

// UART is the serial port device.
type UART struct {
	bus.DeviceBase

	tx fifo.Unbounded[byte]
	rx fifo.Unbounded[byte]

	ier uint8
}

// NewUART is the preferred method of initialisation for the UART type.
func NewUART() *UART {
	return &UART{}
}

// Name implements the bus.Device interface.
func (u *UART) Name() string {
	return "UART"
}

// Read implements the bus.Device interface.
func (u *UART) Read(offset uint64, size int) uint64 {
	switch offset {
	case RBR:
		v, _ := u.rx.Pop()
		return uint64(v)
	case IER:
		return uint64(u.ier)
	case LSR:
		v := uint64(lsrTHREmpty | lsrTxIdle)
		if u.rx.Len() > 0 {
			v |= lsrDataReady
		}
		return v
	}
	return 0
}

// Write implements the bus.Device interface.
func (u *UART) Write(offset uint64, data uint64, size int) {
	switch offset {
	case THR:
		u.tx.Push(uint8(data))
	case IER:
		u.ier = uint8(data)
	}
}

// Reset implements the bus.Device interface. Pending bytes in both
// directions are discarded.
func (u *UART) Reset() {
	u.tx.Drain()
	u.rx.Drain()
	u.ier = 0
}

// Receive queues a byte from the host for the guest to read.
func (u *UART) Receive(b ...byte) {
	for _, v := range b {
		u.rx.Push(v)
	}
}

// Transmitted removes the next byte sent by the guest. The second return
// value is false if there is nothing to read.
func (u *UART) Transmitted() (byte, bool) {
	return u.tx.Pop()
}

// Drain removes every byte sent by the guest.
func (u *UART) Drain() []byte {
	return u.tx.Drain()
}
