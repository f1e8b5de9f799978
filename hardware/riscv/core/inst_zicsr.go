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

import (
	"github.com/jetsetilly/rv64emu/hardware/riscv/csr"
)

// csrOp implements the six CSR instructions. The source is either a
// register or the zero extended five bit immediate in the rs1 field.
//
// CSRRW(I) does not read the CSR when rd is x0. CSRRS(I) and CSRRC(I) do
// not write the CSR when the rs1 field is zero.
func csrOp(immediate bool, update func(old, src uint64) uint64, alwaysWrite bool) Operation {
	return func(h *Hart, inst uint32) error {
		addr := csrAddr(inst)
		field := rs1(inst)

		src := uint64(field)
		if !immediate {
			src = h.regs[field]
		}

		var old uint64
		read := !alwaysWrite || rd(inst) != 0
		if read {
			var err error
			old, err = h.csr.Read(addr, h.mode)
			if err != nil {
				return err
			}
		}

		if alwaysWrite || field != 0 {
			if err := h.csr.Write(addr, update(old, src), h.mode); err != nil {
				return err
			}
			if addr == csr.Satp {
				h.mmu.Flush()
			}
		}

		if read {
			h.SetReg(rd(inst), old)
		}

		return nil
	}
}

func csrSwap(_, src uint64) uint64    { return src }
func csrSet(old, src uint64) uint64   { return old | src }
func csrClear(old, src uint64) uint64 { return old &^ src }

// InstructionsZicsr is the control and status register extension.
var InstructionsZicsr = []Instruction{
	{Mask: 0x707f, Match: 0x1073, Name: "csrrw", Operation: csrOp(false, csrSwap, true)},
	{Mask: 0x707f, Match: 0x2073, Name: "csrrs", Operation: csrOp(false, csrSet, false)},
	{Mask: 0x707f, Match: 0x3073, Name: "csrrc", Operation: csrOp(false, csrClear, false)},
	{Mask: 0x707f, Match: 0x5073, Name: "csrrwi", Operation: csrOp(true, csrSwap, true)},
	{Mask: 0x707f, Match: 0x6073, Name: "csrrsi", Operation: csrOp(true, csrSet, false)},
	{Mask: 0x707f, Match: 0x7073, Name: "csrrci", Operation: csrOp(true, csrClear, false)},
}
