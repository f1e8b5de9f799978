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

import (
	"github.com/jetsetilly/rv64emu/hardware/riscv/irq"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
)

// Features describes the parts of the architecture that affect which CSRs
// exist and which values are legal.
type Features struct {
	HartID uint64

	// the extensions field of misa. bit 0 is 'a', bit 25 is 'z'
	Extensions uint64

	SMode bool
	UMode bool

	// the largest translation scheme that can be written to satp
	MMU mmu.Mode
}

func (f Features) hasC() bool {
	return f.Extensions&(1<<('c'-'a')) != 0
}

// Bank is the set of control and status registers of a single hart.
type Bank struct {
	features Features

	// interrupt lines driven by devices and the shared mtime counter
	lines *irq.Lines
	clock *irq.Clock

	mstatus    uint64
	medeleg    uint64
	mideleg    uint64
	mie        uint64
	mip        uint64
	mtvec      uint64
	mcounteren uint64
	menvcfg    uint64
	mscratch   uint64
	mepc       uint64
	mcause     uint64
	mtval      uint64
	mcycle     uint64
	minstret   uint64
	mcinhibit  uint64

	stvec      uint64
	scounteren uint64
	senvcfg    uint64
	sscratch   uint64
	sepc       uint64
	scause     uint64
	stval      uint64
	satp       uint64

	pmpcfg  [16]uint64
	pmpaddr [64]uint64
	tselect uint64
}

// NewBank is the preferred method of initialisation for the Bank type. The
// lines and clock arguments are shared with the CLINT. Either can be nil, in
// which case the bank uses a private instance.
func NewBank(features Features, lines *irq.Lines, clock *irq.Clock) *Bank {
	if lines == nil {
		lines = &irq.Lines{}
	}
	if clock == nil {
		clock = &irq.Clock{}
	}
	b := &Bank{
		features: features,
		lines:    lines,
		clock:    clock,
	}
	b.Reset()
	return b
}

// Reset registers to their power on values.
func (b *Bank) Reset() {
	*b = Bank{
		features: b.features,
		lines:    b.lines,
		clock:    b.clock,
	}

	// XLEN is 64 for every mode that is present
	if b.features.UMode {
		b.mstatus |= 2 << 32
	}
	if b.features.SMode {
		b.mstatus |= 2 << 34
	}
	b.mstatus |= uint64(Machine) << mstatusMPPShift
}

// Features returns the architecture features the bank was created with.
func (b *Bank) Features() Features {
	return b.features
}

// Lines returns the shared interrupt lines.
func (b *Bank) Lines() *irq.Lines {
	return b.lines
}

// SetClock replaces the mtime counter used for the time CSR.
func (b *Bank) SetClock(clock *irq.Clock) {
	b.clock = clock
}

// Status returns the mstatus register.
func (b *Bank) Status() uint64 {
	return b.mstatus
}

// Satp returns the satp register.
func (b *Bank) Satp() uint64 {
	return b.satp
}

// Mtvec returns the machine trap vector.
func (b *Bank) Mtvec() uint64 {
	return b.mtvec
}

// Pending returns the value of the mip register. The device driven lines
// are combined with the bits written by software.
func (b *Bank) Pending() uint64 {
	return b.mip | b.lines.Get()
}

// Tick advances the cycle counter. It should be called once per step.
func (b *Bank) Tick() {
	if b.mcinhibit&1 == 0 {
		b.mcycle++
	}
}

// Retire advances the retired instruction counter.
func (b *Bank) Retire() {
	if b.mcinhibit&4 == 0 {
		b.minstret++
	}
}

// illegal is returned for every access that fails. the hart replaces the
// trap value with the instruction word
func illegal() error {
	return trap.IllegalInstruction(0)
}

// isSupervisorCSR is true for CSRs that only exist when supervisor mode is
// present
func isSupervisorCSR(addr uint16) bool {
	return (addr>>8)&3 == 1
}

// counterAllowed applies mcounteren and scounteren to the user level counter
// CSRs
func (b *Bank) counterAllowed(addr uint16, mode Mode) bool {
	bit := uint64(1) << (addr & 0x1f)
	if mode < Machine && b.mcounteren&bit == 0 {
		return false
	}
	if mode < Supervisor && b.features.SMode && b.scounteren&bit == 0 {
		return false
	}
	return true
}

// check applies the privilege rules that are common to reads and writes
func (b *Bank) check(addr uint16, mode Mode) error {
	if Mode((addr>>8)&3) > mode {
		return illegal()
	}
	if isSupervisorCSR(addr) && !b.features.SMode {
		return illegal()
	}
	if addr == Satp && mode == Supervisor && b.mstatus&MstatusTVM != 0 {
		return illegal()
	}
	return nil
}

// Read the CSR as the privilege mode.
func (b *Bank) Read(addr uint16, mode Mode) (uint64, error) {
	if err := b.check(addr, mode); err != nil {
		return 0, err
	}

	switch {
	case addr >= Cycle && addr <= Cycle+0x1f:
		if !b.counterAllowed(addr, mode) {
			return 0, illegal()
		}
		switch addr {
		case Cycle:
			return b.mcycle, nil
		case Time:
			return b.clock.Get(), nil
		case Instret:
			return b.minstret, nil
		}
		return 0, nil
	case addr >= Mcycle+3 && addr <= Mcycle+0x1f:
		// mhpmcounter3 to mhpmcounter31
		return 0, nil
	case addr >= Mcountinhibit+3 && addr <= Mcountinhibit+0x1f:
		// mhpmevent3 to mhpmevent31
		return 0, nil
	case addr >= Pmpcfg0 && addr < Pmpcfg0+16:
		if addr&1 == 1 {
			return 0, illegal()
		}
		return b.pmpcfg[addr-Pmpcfg0], nil
	case addr >= Pmpaddr0 && addr < Pmpaddr0+64:
		return b.pmpaddr[addr-Pmpaddr0], nil
	}

	switch addr {
	case Sstatus:
		return b.mstatus & sstatusMask, nil
	case Sie:
		return b.mie & b.mideleg, nil
	case Sip:
		return b.Pending() & b.mideleg, nil
	case Stvec:
		return b.stvec, nil
	case Scounteren:
		return b.scounteren, nil
	case Senvcfg:
		return b.senvcfg, nil
	case Sscratch:
		return b.sscratch, nil
	case Sepc:
		return b.readEPC(b.sepc), nil
	case Scause:
		return b.scause, nil
	case Stval:
		return b.stval, nil
	case Satp:
		return b.satp, nil

	case Mstatus:
		return b.mstatus, nil
	case Misa:
		return 2<<62 | b.features.Extensions, nil
	case Medeleg:
		return b.medeleg, nil
	case Mideleg:
		return b.mideleg, nil
	case Mie:
		return b.mie, nil
	case Mip:
		return b.Pending(), nil
	case Mtvec:
		return b.mtvec, nil
	case Mcounteren:
		return b.mcounteren, nil
	case Menvcfg:
		return b.menvcfg, nil
	case Mcountinhibit:
		return b.mcinhibit, nil
	case Mscratch:
		return b.mscratch, nil
	case Mepc:
		return b.readEPC(b.mepc), nil
	case Mcause:
		return b.mcause, nil
	case Mtval:
		return b.mtval, nil
	case Mcycle:
		return b.mcycle, nil
	case Minstret:
		return b.minstret, nil
	case Tselect:
		return b.tselect, nil
	case Tdata1, Tdata2:
		return 0, nil
	case Mvendorid, Marchid, Mimpid, Mconfigptr:
		return 0, nil
	case Mhartid:
		return b.features.HartID, nil
	}

	return 0, illegal()
}

// readEPC masks bit 1 of xEPC when compressed instructions are not enabled
func (b *Bank) readEPC(v uint64) uint64 {
	if b.features.hasC() {
		return v
	}
	return v &^ 3
}

// Write the CSR as the privilege mode. Read-only CSRs cause an illegal
// instruction trap.
func (b *Bank) Write(addr uint16, val uint64, mode Mode) error {
	if err := b.check(addr, mode); err != nil {
		return err
	}
	if addr>>10 == 3 {
		return illegal()
	}

	switch {
	case addr >= Mcycle+3 && addr <= Mcycle+0x1f:
		return nil
	case addr >= Mcountinhibit+3 && addr <= Mcountinhibit+0x1f:
		return nil
	case addr >= Pmpcfg0 && addr < Pmpcfg0+16:
		if addr&1 == 1 {
			return illegal()
		}
		b.pmpcfg[addr-Pmpcfg0] = val
		return nil
	case addr >= Pmpaddr0 && addr < Pmpaddr0+64:
		b.pmpaddr[addr-Pmpaddr0] = val & 0x003f_ffff_ffff_ffff
		return nil
	}

	switch addr {
	case Sstatus:
		b.writeStatus((b.mstatus &^ sstatusMask) | (val & sstatusMask))
	case Sie:
		b.mie = (b.mie &^ b.mideleg) | (val & b.mideleg)
	case Sip:
		// only the supervisor software interrupt can be raised by software
		m := b.mideleg & IntSSI
		b.mip = (b.mip &^ m) | (val & m)
	case Stvec:
		b.stvec = legalTvec(b.stvec, val)
	case Scounteren:
		b.scounteren = val & 0xffffffff
	case Senvcfg:
		b.senvcfg = val & 1
	case Sscratch:
		b.sscratch = val
	case Sepc:
		b.sepc = val &^ 1
	case Scause:
		b.scause = val
	case Stval:
		b.stval = val
	case Satp:
		b.writeSatp(val)

	case Mstatus:
		b.writeStatus(val)
	case Misa:
		// writes are ignored. the extensions are fixed by the configuration
	case Medeleg:
		if b.features.SMode {
			b.medeleg = val & medelegMask
		}
	case Mideleg:
		if b.features.SMode {
			b.mideleg = val & (IntSSI | IntSTI | IntSEI)
		}
	case Mie:
		b.mie = val & b.interruptMask()
	case Mip:
		// the machine lines are driven by the CLINT and cannot be written
		m := uint64(0)
		if b.features.SMode {
			m = IntSSI | IntSTI | IntSEI
		}
		b.mip = (b.mip &^ m) | (val & m)
	case Mtvec:
		b.mtvec = legalTvec(b.mtvec, val)
	case Mcounteren:
		b.mcounteren = val & 0xffffffff
	case Menvcfg:
		b.menvcfg = val & 1
	case Mcountinhibit:
		b.mcinhibit = val & 0xfffffffd
	case Mscratch:
		b.mscratch = val
	case Mepc:
		b.mepc = val &^ 1
	case Mcause:
		b.mcause = val
	case Mtval:
		b.mtval = val
	case Mcycle:
		b.mcycle = val
	case Minstret:
		b.minstret = val
	case Tselect:
		// no triggers are implemented so tselect is fixed at zero
	case Tdata1, Tdata2:
	default:
		return illegal()
	}

	return nil
}

// interruptMask is the set of interrupts that exist for the configuration
func (b *Bank) interruptMask() uint64 {
	m := uint64(IntMSI | IntMTI | IntMEI)
	if b.features.SMode {
		m |= IntSSI | IntSTI | IntSEI
	}
	return m
}

// legalTvec keeps the previous mode when the written mode is reserved
func legalTvec(old, val uint64) uint64 {
	if val&3 >= 2 {
		return (val &^ 3) | (old & 3)
	}
	return val
}

// writeStatus masks the value to the legal fields of mstatus
func (b *Bank) writeStatus(val uint64) {
	mask := uint64(MstatusMIE | MstatusMPIE | MstatusMPP)
	if b.features.UMode {
		mask |= MstatusMPRV
	}
	if b.features.SMode {
		mask |= MstatusSIE | MstatusSPIE | MstatusSPP | MstatusSUM |
			MstatusMXR | MstatusTVM | MstatusTW | MstatusTSR
	}

	// MPP only accepts modes that exist. an illegal value leaves the field
	// unchanged
	mpp := Mode((val & MstatusMPP) >> mstatusMPPShift)
	if !b.modeExists(mpp) {
		val = (val &^ MstatusMPP) | (b.mstatus & MstatusMPP)
	}

	b.mstatus = (b.mstatus &^ mask) | (val & mask)
}

func (b *Bank) modeExists(m Mode) bool {
	switch m {
	case Machine:
		return true
	case Supervisor:
		return b.features.SMode
	case User:
		return b.features.UMode
	}
	return false
}

// writeSatp ignores writes that select a translation scheme larger than the
// hart supports
func (b *Bank) writeSatp(val uint64) {
	m := mmu.Mode(val >> 60)
	if !b.features.MMU.Supports(m) {
		return
	}
	b.satp = val
}
