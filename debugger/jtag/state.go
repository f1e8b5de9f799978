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

// State is one of the sixteen states of the TAP controller.
type State int

// List of TAP states.
const (
	TestLogicReset State = iota
	RunTestIdle
	SelectDRScan
	CaptureDR
	ShiftDR
	Exit1DR
	PauseDR
	Exit2DR
	UpdateDR
	SelectIRScan
	CaptureIR
	ShiftIR
	Exit1IR
	PauseIR
	Exit2IR
	UpdateIR
)

// NumStates is the number of TAP states.
const NumStates = 16

var names = [NumStates]string{
	"Test-Logic-Reset", "Run-Test/Idle",
	"Select-DR-Scan", "Capture-DR", "Shift-DR", "Exit1-DR", "Pause-DR", "Exit2-DR", "Update-DR",
	"Select-IR-Scan", "Capture-IR", "Shift-IR", "Exit1-IR", "Pause-IR", "Exit2-IR", "Update-IR",
}

func (s State) String() string {
	if s < 0 || s >= NumStates {
		return "unknown"
	}
	return names[s]
}

// transitions indexed by state. the first entry is the next state when TMS
// is low and the second when TMS is high
var transitions = [NumStates][2]State{
	TestLogicReset: {RunTestIdle, TestLogicReset},
	RunTestIdle:    {RunTestIdle, SelectDRScan},
	SelectDRScan:   {CaptureDR, SelectIRScan},
	CaptureDR:      {ShiftDR, Exit1DR},
	ShiftDR:        {ShiftDR, Exit1DR},
	Exit1DR:        {PauseDR, UpdateDR},
	PauseDR:        {PauseDR, Exit2DR},
	Exit2DR:        {ShiftDR, UpdateDR},
	UpdateDR:       {RunTestIdle, SelectDRScan},
	SelectIRScan:   {CaptureIR, TestLogicReset},
	CaptureIR:      {ShiftIR, Exit1IR},
	ShiftIR:        {ShiftIR, Exit1IR},
	Exit1IR:        {PauseIR, UpdateIR},
	PauseIR:        {PauseIR, Exit2IR},
	Exit2IR:        {ShiftIR, UpdateIR},
	UpdateIR:       {RunTestIdle, SelectDRScan},
}

// NextState returns the state that follows s on a rising TCK edge.
func (s State) NextState(tms bool) State {
	if tms {
		return transitions[s][1]
	}
	return transitions[s][0]
}

// IsUpdateIR is true in the state where the instruction register is latched.
func (s State) IsUpdateIR() bool {
	return s == UpdateIR
}

// IsUpdateDR is true in the state where the selected data register is
// latched.
func (s State) IsUpdateDR() bool {
	return s == UpdateDR
}

// IsCaptureIR is true in the state where the instruction register is loaded
// for shifting out.
func (s State) IsCaptureIR() bool {
	return s == CaptureIR
}

// IsCaptureDR is true in the state where the selected data register is
// loaded for shifting out.
func (s State) IsCaptureDR() bool {
	return s == CaptureDR
}

func (s State) IsShiftIR() bool {
	return s == ShiftIR
}

func (s State) IsShiftDR() bool {
	return s == ShiftDR
}
