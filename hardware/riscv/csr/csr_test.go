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

package csr_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/rv64emu/hardware/riscv/csr"
	"github.com/jetsetilly/rv64emu/hardware/riscv/irq"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
	"github.com/jetsetilly/rv64emu/test"
)

func newBank() (*csr.Bank, *irq.Lines, *irq.Clock) {
	var lines irq.Lines
	var clock irq.Clock
	b := csr.NewBank(csr.Features{
		HartID:     3,
		Extensions: 1<<('i'-'a') | 1<<('m'-'a') | 1<<('a'-'a') | 1<<('c'-'a'),
		SMode:      true,
		UMode:      true,
		MMU:        mmu.Sv39,
	}, &lines, &clock)
	return b, &lines, &clock
}

func isIllegal(err error) bool {
	var t trap.Trap
	return errors.As(err, &t) && t.Cause == trap.CauseIllegalInstruction
}

func TestPrivilege(t *testing.T) {
	b, _, _ := newBank()

	v, err := b.Read(csr.Mhartid, csr.Machine)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 3)

	// machine CSRs are not accessible from supervisor mode
	_, err = b.Read(csr.Mstatus, csr.Supervisor)
	test.ExpectSuccess(t, isIllegal(err))

	// read-only CSRs
	test.ExpectSuccess(t, isIllegal(b.Write(csr.Mhartid, 0, csr.Machine)))
	test.ExpectSuccess(t, isIllegal(b.Write(csr.Cycle, 0, csr.Machine)))

	// unknown CSR
	_, err = b.Read(0x7c0, csr.Machine)
	test.ExpectSuccess(t, isIllegal(err))
}

func TestStatusViews(t *testing.T) {
	b, _, _ := newBank()

	test.DemandSuccess(t, b.Write(csr.Mstatus, csr.MstatusSIE|csr.MstatusMIE|csr.MstatusSUM, csr.Machine))
	s, err := b.Read(csr.Sstatus, csr.Supervisor)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s&csr.MstatusSIE, csr.MstatusSIE)
	test.ExpectEquality(t, s&csr.MstatusSUM, csr.MstatusSUM)
	test.ExpectEquality(t, s&csr.MstatusMIE, 0)

	// writes through sstatus can not reach machine fields
	test.DemandSuccess(t, b.Write(csr.Sstatus, 0, csr.Supervisor))
	test.ExpectEquality(t, b.Status()&csr.MstatusMIE, csr.MstatusMIE)
	test.ExpectEquality(t, b.Status()&csr.MstatusSIE, 0)

	// UXL and SXL read as 64 bit
	test.ExpectEquality(t, (b.Status()>>32)&0xf, 0xa)
}

func TestWARL(t *testing.T) {
	b, _, _ := newBank()

	test.DemandSuccess(t, b.Write(csr.Medeleg, ^uint64(0), csr.Machine))
	v, _ := b.Read(csr.Medeleg, csr.Machine)
	test.ExpectEquality(t, v, 0xb3ff)

	test.DemandSuccess(t, b.Write(csr.Mepc, 0x8000_0003, csr.Machine))
	v, _ = b.Read(csr.Mepc, csr.Machine)
	test.ExpectEquality(t, v, 0x8000_0002)

	// reserved MPP value leaves the field unchanged
	test.DemandSuccess(t, b.Write(csr.Mstatus, 2<<11, csr.Machine))
	test.ExpectEquality(t, (b.Status()>>11)&3, 3)

	// sv48 is larger than the hart supports
	test.DemandSuccess(t, b.Write(csr.Satp, 9<<60|0x1234, csr.Machine))
	test.ExpectEquality(t, b.Satp(), 0)
	test.DemandSuccess(t, b.Write(csr.Satp, 8<<60|0x1234, csr.Machine))
	test.ExpectEquality(t, b.Satp(), 8<<60|0x1234)

	// reserved tvec mode
	test.DemandSuccess(t, b.Write(csr.Mtvec, 0x8000_0102, csr.Machine))
	test.ExpectEquality(t, b.Mtvec(), 0x8000_0100)
}

func TestTrapDelegation(t *testing.T) {
	b, _, _ := newBank()

	test.DemandSuccess(t, b.Write(csr.Mtvec, 0x8000_1000, csr.Machine))
	test.DemandSuccess(t, b.Write(csr.Stvec, 0x8000_2000, csr.Machine))
	test.DemandSuccess(t, b.Write(csr.Medeleg, 1<<trap.CauseLoadPageFault, csr.Machine))
	test.DemandSuccess(t, b.Write(csr.Mstatus, csr.MstatusSIE, csr.Machine))

	// delegated exception from user mode goes to supervisor mode
	pc, mode := b.TakeTrap(0x1000, trap.LoadPageFault(0xdead), csr.User)
	test.ExpectEquality(t, pc, 0x8000_2000)
	test.ExpectEquality(t, mode, csr.Supervisor)
	v, _ := b.Read(csr.Stval, csr.Supervisor)
	test.ExpectEquality(t, v, 0xdead)
	v, _ = b.Read(csr.Scause, csr.Supervisor)
	test.ExpectEquality(t, v, 13)
	test.ExpectEquality(t, b.Status()&csr.MstatusSPIE, csr.MstatusSPIE)
	test.ExpectEquality(t, b.Status()&csr.MstatusSIE, 0)
	test.ExpectEquality(t, b.Status()&csr.MstatusSPP, 0)

	// sret restores user mode and SIE
	pc, mode, err := b.Sret(csr.Supervisor)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pc, 0x1000)
	test.ExpectEquality(t, mode, csr.User)
	test.ExpectEquality(t, b.Status()&csr.MstatusSIE, csr.MstatusSIE)

	// delegation never applies to traps taken in machine mode
	pc, mode = b.TakeTrap(0x8000_0000, trap.LoadPageFault(0), csr.Machine)
	test.ExpectEquality(t, pc, 0x8000_1000)
	test.ExpectEquality(t, mode, csr.Machine)

	pc, mode, err = b.Mret(csr.Machine)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pc, 0x8000_0000)
	test.ExpectEquality(t, mode, csr.Machine)

	// mret from supervisor mode is illegal
	_, _, err = b.Mret(csr.Supervisor)
	test.ExpectSuccess(t, isIllegal(err))
}

func TestInterruptPriority(t *testing.T) {
	b, lines, _ := newBank()

	test.DemandSuccess(t, b.Write(csr.Mie, csr.IntMTI|csr.IntMSI|csr.IntSTI, csr.Machine))
	lines.Set(irq.MTIP, true)
	lines.Set(irq.MSIP, true)

	// interrupts are globally disabled in machine mode
	_, ok := b.PendingInterrupt(csr.Machine)
	test.ExpectFailure(t, ok)
	test.ExpectSuccess(t, b.WaitForInterrupt())

	// but always enabled for lower privilege modes
	tr, ok := b.PendingInterrupt(csr.User)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, tr.Cause, trap.CauseMachineSoftwareInterrupt)

	test.DemandSuccess(t, b.Write(csr.Mstatus, csr.MstatusMIE, csr.Machine))
	lines.Set(irq.MSIP, false)
	tr, ok = b.PendingInterrupt(csr.Machine)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, tr.Cause, trap.CauseMachineTimerInterrupt)

	// delegated supervisor timer interrupt is not taken in machine mode
	lines.Set(irq.MTIP, false)
	test.DemandSuccess(t, b.Write(csr.Mideleg, csr.IntSTI, csr.Machine))
	test.DemandSuccess(t, b.Write(csr.Mip, csr.IntSTI, csr.Machine))
	_, ok = b.PendingInterrupt(csr.Machine)
	test.ExpectFailure(t, ok)
	tr, ok = b.PendingInterrupt(csr.User)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, tr.Cause, trap.CauseSupervisorTimerInterrupt)

	// vectored entry
	test.DemandSuccess(t, b.Write(csr.Stvec, 0x8000_0001, csr.Machine))
	pc, mode := b.TakeTrap(0x100, tr, csr.User)
	test.ExpectEquality(t, pc, 0x8000_0000+4*5)
	test.ExpectEquality(t, mode, csr.Supervisor)
}

func TestCounters(t *testing.T) {
	b, _, clock := newBank()
	clock.Set(1234)
	b.Tick()
	b.Retire()

	v, err := b.Read(csr.Time, csr.Machine)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 1234)
	v, _ = b.Read(csr.Cycle, csr.Machine)
	test.ExpectEquality(t, v, 1)

	// user mode needs permission from mcounteren and scounteren
	_, err = b.Read(csr.Time, csr.User)
	test.ExpectSuccess(t, isIllegal(err))
	test.DemandSuccess(t, b.Write(csr.Mcounteren, 2, csr.Machine))
	test.DemandSuccess(t, b.Write(csr.Scounteren, 2, csr.Machine))
	v, err = b.Read(csr.Time, csr.User)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 1234)
}

func TestNoSupervisor(t *testing.T) {
	b := csr.NewBank(csr.Features{Extensions: 1 << ('i' - 'a')}, nil, nil)
	_, err := b.Read(csr.Sstatus, csr.Machine)
	test.ExpectSuccess(t, isIllegal(err))
	test.DemandSuccess(t, b.Write(csr.Medeleg, ^uint64(0), csr.Machine))
	v, _ := b.Read(csr.Medeleg, csr.Machine)
	test.ExpectEquality(t, v, 0)

	// mepc bit 1 is masked without compressed instructions
	test.DemandSuccess(t, b.Write(csr.Mepc, 0x8000_0006, csr.Machine))
	v, _ = b.Read(csr.Mepc, csr.Machine)
	test.ExpectEquality(t, v, 0x8000_0004)

	test.ExpectEquality(t, csr.Name(csr.Mepc), "mepc")
	test.ExpectEquality(t, csr.Name(csr.Pmpaddr0+2), "pmpaddr2")
}
