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
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
)

// interrupts in the order of their architectural priority
var priority = []uint64{11, 3, 7, 9, 1, 5}

// TakeTrap updates the CSRs for entry to a trap handler. The pc argument is
// the address of the instruction that caused the exception, or the address
// of the next instruction for an interrupt. The address of the handler and
// the new privilege mode are returned.
//
// Traps taken in supervisor or user mode are delegated to supervisor mode if
// the corresponding bit in medeleg or mideleg is set.
func (b *Bank) TakeTrap(pc uint64, t trap.Trap, mode Mode) (uint64, Mode) {
	idx := t.Idx()

	deleg := b.medeleg
	if t.IsInterrupt() {
		deleg = b.mideleg
	}

	if mode <= Supervisor && b.features.SMode && idx < 64 && deleg&(1<<idx) != 0 {
		b.sepc = pc &^ 1
		b.scause = uint64(t.Cause)
		b.stval = t.TVal()

		if b.mstatus&MstatusSIE != 0 {
			b.mstatus |= MstatusSPIE
		} else {
			b.mstatus &^= MstatusSPIE
		}
		b.mstatus &^= MstatusSIE

		if mode == Supervisor {
			b.mstatus |= MstatusSPP
		} else {
			b.mstatus &^= MstatusSPP
		}

		return vector(b.stvec, t), Supervisor
	}

	b.mepc = pc &^ 1
	b.mcause = uint64(t.Cause)
	b.mtval = t.TVal()

	if b.mstatus&MstatusMIE != 0 {
		b.mstatus |= MstatusMPIE
	} else {
		b.mstatus &^= MstatusMPIE
	}
	b.mstatus &^= MstatusMIE

	b.mstatus &^= MstatusMPP
	b.mstatus |= uint64(mode) << mstatusMPPShift

	return vector(b.mtvec, t), Machine
}

// vector returns the handler address for the trap. interrupts are vectored
// when the mode field of xtvec is one
func vector(tvec uint64, t trap.Trap) uint64 {
	base := tvec &^ 3
	if tvec&3 == 1 && t.IsInterrupt() {
		return base + 4*t.Idx()
	}
	return base
}

// Mret updates the CSRs for a return from a machine mode trap handler and
// returns the address to continue from and the new privilege mode.
func (b *Bank) Mret(mode Mode) (uint64, Mode, error) {
	if mode != Machine {
		return 0, mode, illegal()
	}

	prev := Mode((b.mstatus & MstatusMPP) >> mstatusMPPShift)

	if b.mstatus&MstatusMPIE != 0 {
		b.mstatus |= MstatusMIE
	} else {
		b.mstatus &^= MstatusMIE
	}
	b.mstatus |= MstatusMPIE

	b.mstatus &^= MstatusMPP
	if b.features.UMode {
		b.mstatus |= uint64(User) << mstatusMPPShift
	} else {
		b.mstatus |= uint64(Machine) << mstatusMPPShift
	}

	if prev != Machine {
		b.mstatus &^= MstatusMPRV
	}

	return b.readEPC(b.mepc), prev, nil
}

// Sret updates the CSRs for a return from a supervisor mode trap handler
// and returns the address to continue from and the new privilege mode.
func (b *Bank) Sret(mode Mode) (uint64, Mode, error) {
	if !b.features.SMode || mode < Supervisor {
		return 0, mode, illegal()
	}
	if mode == Supervisor && b.mstatus&MstatusTSR != 0 {
		return 0, mode, illegal()
	}

	prev := User
	if b.mstatus&MstatusSPP != 0 {
		prev = Supervisor
	}

	if b.mstatus&MstatusSPIE != 0 {
		b.mstatus |= MstatusSIE
	} else {
		b.mstatus &^= MstatusSIE
	}
	b.mstatus |= MstatusSPIE
	b.mstatus &^= MstatusSPP
	b.mstatus &^= MstatusMPRV

	return b.readEPC(b.sepc), prev, nil
}

// PendingInterrupt returns the highest priority interrupt that is both
// pending and enabled for a hart running in the privilege mode.
func (b *Bank) PendingInterrupt(mode Mode) (trap.Trap, bool) {
	pending := b.Pending() & b.mie
	if pending == 0 {
		return trap.Trap{}, false
	}

	// interrupts handled in machine mode
	m := pending &^ b.mideleg
	if m != 0 && (mode < Machine || b.mstatus&MstatusMIE != 0) {
		return pick(m)
	}

	// interrupts delegated to supervisor mode are never taken in machine
	// mode
	s := pending & b.mideleg
	if s != 0 && (mode < Supervisor || (mode == Supervisor && b.mstatus&MstatusSIE != 0)) {
		return pick(s)
	}

	return trap.Trap{}, false
}

func pick(pending uint64) (trap.Trap, bool) {
	for _, irq := range priority {
		if pending&(1<<irq) != 0 {
			return trap.Interrupt(irq), true
		}
	}
	return trap.Trap{}, false
}

// WaitForInterrupt returns true if there is a pending and locally enabled
// interrupt. This is the condition that ends a WFI regardless of the global
// interrupt enable bits.
func (b *Bank) WaitForInterrupt() bool {
	return b.Pending()&b.mie != 0
}

// DataMode returns the privilege mode used for loads and stores. This is
// the same as the current mode except when MPRV is set in machine mode.
func (b *Bank) DataMode(mode Mode) Mode {
	if mode == Machine && b.mstatus&MstatusMPRV != 0 {
		return Mode((b.mstatus & MstatusMPP) >> mstatusMPPShift)
	}
	return mode
}

// TrapWFI returns true if WFI executed in the mode raises an illegal
// instruction exception.
func (b *Bank) TrapWFI(mode Mode) bool {
	return mode < Machine && b.mstatus&MstatusTW != 0
}

// TrapSfence returns true if SFENCE.VMA executed in the mode raises an
// illegal instruction exception.
func (b *Bank) TrapSfence(mode Mode) bool {
	if mode == User {
		return true
	}
	return mode == Supervisor && b.mstatus&MstatusTVM != 0
}
