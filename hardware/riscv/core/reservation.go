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

package core

import "math"

// noReservation is the value of a Reservation that is not holding an
// address
const noReservation = math.MaxUint64

// Reservation is the load-reserved address of a hart. The address is a
// physical address.
type Reservation struct {
	addr uint64
}

// NewReservation returns a Reservation that is not holding an address.
func NewReservation() Reservation {
	return Reservation{addr: noReservation}
}

// Set the reserved address.
func (r *Reservation) Set(addr uint64) {
	r.addr = addr
}

// Clear the reservation.
func (r *Reservation) Clear() {
	r.addr = noReservation
}

// Addr returns the reserved address. The second return value is false if
// there is no reservation.
func (r *Reservation) Addr() (uint64, bool) {
	return r.addr, r.addr != noReservation
}

// CheckAndClear returns true if the address is reserved. The reservation is
// always cleared.
func (r *Reservation) CheckAndClear(addr uint64) bool {
	ok := r.addr == addr
	r.Clear()
	return ok
}

// overlaps is true if a write of size bytes to addr touches the reserved
// doubleword
func (r *Reservation) overlaps(addr uint64, size int) bool {
	if r.addr == noReservation {
		return false
	}
	res := r.addr &^ 7
	return addr < res+8 && res < addr+uint64(size)
}

// Monitor watches writes to memory on behalf of a group of harts and clears
// the reservation of any hart whose reserved doubleword is written by
// another hart.
type Monitor struct {
	harts []*Hart
}

// Link creates a Monitor for the harts. Harts that share a bus should be
// linked so that LR/SC sequences on different harts exclude each other.
func Link(harts ...*Hart) *Monitor {
	m := &Monitor{harts: harts}
	for _, h := range harts {
		h.monitor = m
	}
	return m
}

// written is called by a hart after a successful write to memory
func (m *Monitor) written(by *Hart, addr uint64, size int) {
	for _, h := range m.harts {
		if h != by && h.reservation.overlaps(addr, size) {
			h.reservation.Clear()
		}
	}
}
