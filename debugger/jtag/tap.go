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

package jtag

// IRLength is the width of the instruction register in bits.
const IRLength = 5

// Instructions recognised by the TAP. Any other instruction selects the
// bypass register.
const (
	IDCODE = 0x01
	DTMCS  = 0x10
	DMI    = 0x11
	BYPASS = 0x1f
)

// DefaultIDCode is the value shifted out of the IDCODE register. Bit zero
// is always set as required by IEEE 1149.1.
const DefaultIDCode = 0x10000001

// dtmcs value: version 0.13 with seven address bits
const dtmcsValue = 0x00000071

// DMILength is the width of the DMI register: abits + 32 bits of data + 2
// bits of op.
const DMILength = 7 + 32 + 2

// TAP is a test access port controller. Data is shifted least significant
// bit first.
type TAP struct {
	state State

	ir     uint8
	idcode uint32

	// the shift register and the number of bits in the currently selected
	// register
	shift  uint64
	length int

	// last value latched in the Update-DR state
	dmi uint64

	// OnUpdateDR is called, if not nil, whenever a data register other than
	// BYPASS is latched
	OnUpdateDR func(ir uint8, value uint64)
}

// NewTAP is the preferred method of initialisation for the TAP type.
func NewTAP(idcode uint32) *TAP {
	t := &TAP{idcode: idcode | 0x01}
	t.Reset()
	return t
}

// Reset the TAP asynchronously, as though TRST had been asserted.
func (t *TAP) Reset() {
	t.state = TestLogicReset
	t.ir = IDCODE
	t.shift = 0
	t.length = 0
}

// State returns the current state of the TAP state machine.
func (t *TAP) State() State {
	return t.state
}

// IR returns the value of the instruction register.
func (t *TAP) IR() uint8 {
	return t.ir
}

// TDO returns the current value on the TDO pin. It is only meaningful in the
// shift states.
func (t *TAP) TDO() bool {
	if t.state.IsShiftIR() || t.state.IsShiftDR() {
		return t.shift&0x01 == 0x01
	}
	return false
}

// selected data register and its length
func (t *TAP) dataRegister() (uint64, int) {
	switch t.ir {
	case IDCODE:
		return uint64(t.idcode), 32
	case DTMCS:
		return dtmcsValue, 32
	case DMI:
		return t.dmi, DMILength
	}
	return 0, 1
}

// Clock the TAP with a rising TCK edge. The returned value is TDO as it was
// before the edge.
func (t *TAP) Clock(tms bool, tdi bool) bool {
	tdo := t.TDO()

	switch {
	case t.state.IsCaptureIR():
		// the two least significant bits of a captured IR must be 01
		t.shift = 0x01
		t.length = IRLength
	case t.state.IsCaptureDR():
		t.shift, t.length = t.dataRegister()
	case t.state.IsShiftIR(), t.state.IsShiftDR():
		t.shift >>= 1
		if tdi {
			t.shift |= 1 << (t.length - 1)
		}
	case t.state.IsUpdateIR():
		t.ir = uint8(t.shift) & (1<<IRLength - 1)
	case t.state.IsUpdateDR():
		t.updateDR()
	}

	t.state = t.state.NextState(tms)
	if t.state == TestLogicReset {
		t.ir = IDCODE
	}

	return tdo
}

func (t *TAP) updateDR() {
	switch t.ir {
	case IDCODE, BYPASS:
		return
	case DMI:
		t.dmi = t.shift & (1<<DMILength - 1)
	}
	if t.OnUpdateDR != nil {
		t.OnUpdateDR(t.ir, t.shift)
	}
}
