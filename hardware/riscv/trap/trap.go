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

package trap

import (
	"fmt"
)

// Cause is the architectural cause number as written to the xCAUSE register.
type Cause uint64

// InterruptBit partitions interrupt causes from exception causes.
const InterruptBit Cause = 1 << 63

// List of exception causes.
const (
	CauseInstructionAddressMisaligned Cause = 0
	CauseInstructionAccessFault       Cause = 1
	CauseIllegalInstruction           Cause = 2
	CauseBreakpoint                   Cause = 3
	CauseLoadAddressMisaligned        Cause = 4
	CauseLoadAccessFault              Cause = 5
	CauseStoreAddressMisaligned       Cause = 6
	CauseStoreAccessFault             Cause = 7
	CauseUserEnvCall                  Cause = 8
	CauseSupervisorEnvCall            Cause = 9
	CauseMachineEnvCall               Cause = 11
	CauseInstructionPageFault         Cause = 12
	CauseLoadPageFault                Cause = 13
	CauseStorePageFault               Cause = 15
)

// List of interrupt causes.
const (
	CauseUserSoftwareInterrupt       = InterruptBit | 0
	CauseSupervisorSoftwareInterrupt = InterruptBit | 1
	CauseMachineSoftwareInterrupt    = InterruptBit | 3
	CauseUserTimerInterrupt          = InterruptBit | 4
	CauseSupervisorTimerInterrupt    = InterruptBit | 5
	CauseMachineTimerInterrupt       = InterruptBit | 7
	CauseUserExternalInterrupt       = InterruptBit | 8
	CauseSupervisorExternalInterrupt = InterruptBit | 9
	CauseMachineExternalInterrupt    = InterruptBit | 11
)

var causeNames = map[Cause]string{
	CauseInstructionAddressMisaligned: "instruction address misaligned",
	CauseInstructionAccessFault:       "instruction access fault",
	CauseIllegalInstruction:           "illegal instruction",
	CauseBreakpoint:                   "breakpoint",
	CauseLoadAddressMisaligned:        "load address misaligned",
	CauseLoadAccessFault:              "load access fault",
	CauseStoreAddressMisaligned:       "store address misaligned",
	CauseStoreAccessFault:             "store access fault",
	CauseUserEnvCall:                  "user environment call",
	CauseSupervisorEnvCall:            "supervisor environment call",
	CauseMachineEnvCall:               "machine environment call",
	CauseInstructionPageFault:         "instruction page fault",
	CauseLoadPageFault:                "load page fault",
	CauseStorePageFault:               "store page fault",

	CauseUserSoftwareInterrupt:       "user software interrupt",
	CauseSupervisorSoftwareInterrupt: "supervisor software interrupt",
	CauseMachineSoftwareInterrupt:    "machine software interrupt",
	CauseUserTimerInterrupt:          "user timer interrupt",
	CauseSupervisorTimerInterrupt:    "supervisor timer interrupt",
	CauseMachineTimerInterrupt:       "machine timer interrupt",
	CauseUserExternalInterrupt:       "user external interrupt",
	CauseSupervisorExternalInterrupt: "supervisor external interrupt",
	CauseMachineExternalInterrupt:    "machine external interrupt",
}

func (c Cause) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown cause (%#x)", uint64(c))
}

// Trap is a single exception or interrupt.
type Trap struct {
	Cause Cause
	Tval  uint64
}

// Error implements the error interface.
func (t Trap) Error() string {
	if t.hasTval() {
		return fmt.Sprintf("trap: %s (tval=%#x)", t.Cause, t.Tval)
	}
	return fmt.Sprintf("trap: %s", t.Cause)
}

func (t Trap) String() string {
	return t.Error()
}

// Idx returns the cause number with the interrupt bit removed.
func (t Trap) Idx() uint64 {
	return uint64(t.Cause &^ InterruptBit)
}

// IsInterrupt returns true if the trap is an asynchronous interrupt.
func (t Trap) IsInterrupt() bool {
	return t.Cause&InterruptBit == InterruptBit
}

// IRQNum returns the interrupt number. Panics if the trap is an exception.
func (t Trap) IRQNum() uint64 {
	if !t.IsInterrupt() {
		panic(fmt.Sprintf("trap: IRQNum() called for exception: %s", t.Cause))
	}
	return t.Idx()
}

// ExceptionNum returns the exception number. Panics if the trap is an
// interrupt.
func (t Trap) ExceptionNum() uint64 {
	if t.IsInterrupt() {
		panic(fmt.Sprintf("trap: ExceptionNum() called for interrupt: %s", t.Cause))
	}
	return t.Idx()
}

// hasTval is true for the variants that carry a trap value
func (t Trap) hasTval() bool {
	switch t.Cause {
	case CauseInstructionAddressMisaligned, CauseInstructionAccessFault,
		CauseIllegalInstruction, CauseBreakpoint,
		CauseLoadAddressMisaligned, CauseLoadAccessFault,
		CauseStoreAddressMisaligned, CauseStoreAccessFault,
		CauseInstructionPageFault, CauseLoadPageFault, CauseStorePageFault:
		return true
	}
	return false
}

// TVal returns the trap value. Zero for variants without one.
func (t Trap) TVal() uint64 {
	if t.hasTval() {
		return t.Tval
	}
	return 0
}

func InstructionAddressMisaligned(addr uint64) Trap {
	return Trap{Cause: CauseInstructionAddressMisaligned, Tval: addr}
}

func InstructionAccessFault(addr uint64) Trap {
	return Trap{Cause: CauseInstructionAccessFault, Tval: addr}
}

// IllegalInstruction takes the offending instruction word as the trap value.
func IllegalInstruction(word uint64) Trap {
	return Trap{Cause: CauseIllegalInstruction, Tval: word}
}

func Breakpoint(pc uint64) Trap {
	return Trap{Cause: CauseBreakpoint, Tval: pc}
}

func LoadAddressMisaligned(addr uint64) Trap {
	return Trap{Cause: CauseLoadAddressMisaligned, Tval: addr}
}

func LoadAccessFault(addr uint64) Trap {
	return Trap{Cause: CauseLoadAccessFault, Tval: addr}
}

func StoreAddressMisaligned(addr uint64) Trap {
	return Trap{Cause: CauseStoreAddressMisaligned, Tval: addr}
}

func StoreAccessFault(addr uint64) Trap {
	return Trap{Cause: CauseStoreAccessFault, Tval: addr}
}

func InstructionPageFault(addr uint64) Trap {
	return Trap{Cause: CauseInstructionPageFault, Tval: addr}
}

func LoadPageFault(addr uint64) Trap {
	return Trap{Cause: CauseLoadPageFault, Tval: addr}
}

func StorePageFault(addr uint64) Trap {
	return Trap{Cause: CauseStorePageFault, Tval: addr}
}

func UserEnvCall() Trap {
	return Trap{Cause: CauseUserEnvCall}
}

func SupervisorEnvCall() Trap {
	return Trap{Cause: CauseSupervisorEnvCall}
}

func MachineEnvCall() Trap {
	return Trap{Cause: CauseMachineEnvCall}
}

// Interrupt returns the interrupt trap for the interrupt number.
func Interrupt(irq uint64) Trap {
	return Trap{Cause: InterruptBit | Cause(irq)}
}
