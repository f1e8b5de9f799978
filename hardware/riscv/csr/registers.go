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

package csr

import "fmt"

// CSR addresses.
const (
	Fflags = 0x001
	Frm    = 0x002
	Fcsr   = 0x003

	Cycle   = 0xc00
	Time    = 0xc01
	Instret = 0xc02

	Sstatus    = 0x100
	Senvcfg    = 0x10a
	Sie        = 0x104
	Stvec      = 0x105
	Scounteren = 0x106
	Sscratch   = 0x140
	Sepc       = 0x141
	Scause     = 0x142
	Stval      = 0x143
	Sip        = 0x144
	Satp       = 0x180

	Mstatus       = 0x300
	Misa          = 0x301
	Medeleg       = 0x302
	Mideleg       = 0x303
	Mie           = 0x304
	Mtvec         = 0x305
	Mcounteren    = 0x306
	Menvcfg       = 0x30a
	Mcountinhibit = 0x320
	Mscratch      = 0x340
	Mepc          = 0x341
	Mcause        = 0x342
	Mtval         = 0x343
	Mip           = 0x344
	Pmpcfg0       = 0x3a0
	Pmpaddr0      = 0x3b0
	Tselect       = 0x7a0
	Tdata1        = 0x7a1
	Tdata2        = 0x7a2
	Mcycle        = 0xb00
	Minstret      = 0xb02
	Mvendorid     = 0xf11
	Marchid       = 0xf12
	Mimpid        = 0xf13
	Mhartid       = 0xf14
	Mconfigptr    = 0xf15
)

// Bits in the mstatus register.
const (
	MstatusSIE  = 1 << 1
	MstatusMIE  = 1 << 3
	MstatusSPIE = 1 << 5
	MstatusUBE  = 1 << 6
	MstatusMPIE = 1 << 7
	MstatusSPP  = 1 << 8
	MstatusMPP  = 3 << 11
	MstatusFS   = 3 << 13
	MstatusXS   = 3 << 15
	MstatusMPRV = 1 << 17
	MstatusSUM  = 1 << 18
	MstatusMXR  = 1 << 19
	MstatusTVM  = 1 << 20
	MstatusTW   = 1 << 21
	MstatusTSR  = 1 << 22
	MstatusUXL  = 3 << 32
	MstatusSXL  = 3 << 34
	MstatusSD   = 1 << 63

	mstatusMPPShift = 11
)

// Bits in the mip and mie registers.
const (
	IntSSI = 1 << 1
	IntMSI = 1 << 3
	IntSTI = 1 << 5
	IntMTI = 1 << 7
	IntSEI = 1 << 9
	IntMEI = 1 << 11
)

// the bits of mstatus that are visible through sstatus
const sstatusMask = MstatusSIE | MstatusSPIE | MstatusUBE | MstatusSPP |
	MstatusFS | MstatusXS | MstatusSUM | MstatusMXR | MstatusUXL | MstatusSD

// the exceptions that can be delegated to supervisor mode. machine mode
// environment calls can never be delegated
const medelegMask = 0xb3ff

var names = map[uint16]string{
	Fflags: "fflags", Frm: "frm", Fcsr: "fcsr",
	Cycle: "cycle", Time: "time", Instret: "instret",
	Sstatus: "sstatus", Senvcfg: "senvcfg", Sie: "sie", Stvec: "stvec",
	Scounteren: "scounteren", Sscratch: "sscratch", Sepc: "sepc",
	Scause: "scause", Stval: "stval", Sip: "sip", Satp: "satp",
	Mstatus: "mstatus", Misa: "misa", Medeleg: "medeleg", Mideleg: "mideleg",
	Mie: "mie", Mtvec: "mtvec", Mcounteren: "mcounteren", Menvcfg: "menvcfg",
	Mcountinhibit: "mcountinhibit", Mscratch: "mscratch", Mepc: "mepc",
	Mcause: "mcause", Mtval: "mtval", Mip: "mip", Tselect: "tselect",
	Tdata1: "tdata1", Tdata2: "tdata2", Mcycle: "mcycle", Minstret: "minstret",
	Mvendorid: "mvendorid", Marchid: "marchid", Mimpid: "mimpid",
	Mhartid: "mhartid", Mconfigptr: "mconfigptr",
}

// Name returns the canonical name of the CSR.
func Name(addr uint16) string {
	if n, ok := names[addr]; ok {
		return n
	}
	switch {
	case addr >= Pmpcfg0 && addr < Pmpcfg0+16:
		return fmt.Sprintf("pmpcfg%d", addr-Pmpcfg0)
	case addr >= Pmpaddr0 && addr < Pmpaddr0+64:
		return fmt.Sprintf("pmpaddr%d", addr-Pmpaddr0)
	}
	return fmt.Sprintf("csr%#03x", addr)
}
