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

package hardware

import (
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/rv64emu/hardware/riscv/csr"
)

// HartState is a copy of the architectural state of a hart.
type HartState struct {
	HartID uint64
	PC     uint64
	Mode   string
	Regs   [32]uint64

	Mstatus uint64
	Mcause  uint64
	Mepc    uint64
	Satp    uint64

	Reservation uint64
	Reserved    bool
	Waiting     bool
	Retired     uint64
}

// State returns a copy of the state of every hart.
func (sim *Sim) State() []HartState {
	st := make([]HartState, 0, len(sim.harts))
	for _, h := range sim.harts {
		s := HartState{
			HartID:  h.HartID(),
			PC:      h.PC(),
			Mode:    h.Mode().String(),
			Mstatus: h.CSR().Status(),
			Satp:    h.CSR().Satp(),
			Waiting: h.Waiting(),
			Retired: h.Retired(),
		}
		for i := range s.Regs {
			s.Regs[i] = h.Reg(i)
		}

		// machine mode can read every CSR so these cannot fail
		s.Mcause, _ = h.CSR().Read(csr.Mcause, csr.Machine)
		s.Mepc, _ = h.CSR().Read(csr.Mepc, csr.Machine)

		s.Reservation, s.Reserved = h.Reservation().Addr()
		st = append(st, s)
	}
	return st
}

// DumpState writes a graphviz description of the state of every hart.
func (sim *Sim) DumpState(w io.Writer) {
	st := sim.State()
	memviz.Map(w, &st)
}
