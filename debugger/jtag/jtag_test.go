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

package jtag_test

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/debugger/jtag"
	"github.com/jetsetilly/rv64emu/test"
)

func TestResetFromAnyState(t *testing.T) {
	for s := jtag.State(0); s < jtag.NumStates; s++ {
		n := s
		for i := 0; i < 5; i++ {
			n = n.NextState(true)
		}
		test.ExpectEquality(t, n, jtag.TestLogicReset, s)
	}
}

func TestStatePaths(t *testing.T) {
	s := jtag.TestLogicReset
	path := []struct {
		tms  bool
		want jtag.State
	}{
		{false, jtag.RunTestIdle},
		{false, jtag.RunTestIdle},
		{true, jtag.SelectDRScan},
		{false, jtag.CaptureDR},
		{false, jtag.ShiftDR},
		{false, jtag.ShiftDR},
		{true, jtag.Exit1DR},
		{false, jtag.PauseDR},
		{true, jtag.Exit2DR},
		{false, jtag.ShiftDR},
		{true, jtag.Exit1DR},
		{true, jtag.UpdateDR},
		{true, jtag.SelectDRScan},
		{true, jtag.SelectIRScan},
		{false, jtag.CaptureIR},
		{true, jtag.Exit1IR},
		{false, jtag.PauseIR},
		{true, jtag.Exit2IR},
		{true, jtag.UpdateIR},
		{false, jtag.RunTestIdle},
	}
	for i, p := range path {
		s = s.NextState(p.tms)
		test.ExpectEquality(t, s, p.want, i)
	}

	test.ExpectSuccess(t, jtag.UpdateIR.IsUpdateIR())
	test.ExpectSuccess(t, jtag.UpdateDR.IsUpdateDR())
	test.ExpectSuccess(t, jtag.CaptureIR.IsCaptureIR())
	test.ExpectSuccess(t, jtag.CaptureDR.IsCaptureDR())
	test.ExpectSuccess(t, jtag.ShiftIR.IsShiftIR())
	test.ExpectSuccess(t, jtag.ShiftDR.IsShiftDR())
	test.ExpectFailure(t, jtag.ShiftDR.IsShiftIR())
	test.ExpectFailure(t, jtag.RunTestIdle.IsUpdateDR())
	test.ExpectEquality(t, jtag.PauseIR.String(), "Pause-IR")
}

func TestDebugCause(t *testing.T) {
	test.ExpectEquality(t, jtag.DebugCauseFromValue(0), jtag.NoDebug)
	test.ExpectEquality(t, jtag.DebugCauseFromValue(3), jtag.HaltReq)
	test.ExpectEquality(t, jtag.DebugCauseFromValue(6), jtag.Group)
	test.ExpectEquality(t, jtag.Step.String(), "step")
	test.ExpectPanic(t, func() { jtag.DebugCauseFromValue(7) })
}

// moves the TAP from Run-Test/Idle to one of the shift states
func toShiftDR(tap *jtag.TAP) {
	tap.Clock(true, false)
	tap.Clock(false, false)
	tap.Clock(false, false)
}

func toShiftIR(tap *jtag.TAP) {
	tap.Clock(true, false)
	tap.Clock(true, false)
	tap.Clock(false, false)
	tap.Clock(false, false)
}

// shifts n bits of v through the TAP and returns the bits shifted out. TMS
// is raised on the last bit so the TAP finishes in the Exit1 state
func shift(tap *jtag.TAP, v uint64, n int) uint64 {
	var out uint64
	for i := 0; i < n; i++ {
		if tap.Clock(i == n-1, v&(1<<i) != 0) {
			out |= 1 << i
		}
	}
	return out
}

// completes an update and returns to Run-Test/Idle
func update(tap *jtag.TAP) {
	tap.Clock(true, false)
	tap.Clock(false, false)
}

func TestIDCode(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)
	tap.Clock(false, false)
	test.ExpectEquality(t, tap.State(), jtag.RunTestIdle)
	test.ExpectEquality(t, tap.IR(), uint8(jtag.IDCODE))

	toShiftDR(tap)
	test.ExpectEquality(t, tap.State(), jtag.ShiftDR)
	test.ExpectEquality(t, shift(tap, 0, 32), uint64(jtag.DefaultIDCode))
	test.ExpectEquality(t, tap.State(), jtag.Exit1DR)
	update(tap)
	test.ExpectEquality(t, tap.State(), jtag.RunTestIdle)
}

func TestInstructionRegister(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)
	tap.Clock(false, false)

	toShiftIR(tap)
	test.ExpectEquality(t, tap.State(), jtag.ShiftIR)

	// the captured value of IR is always 0b00001
	test.ExpectEquality(t, shift(tap, jtag.DTMCS, jtag.IRLength), uint64(0x01))
	update(tap)
	test.ExpectEquality(t, tap.IR(), uint8(jtag.DTMCS))

	toShiftDR(tap)
	test.ExpectEquality(t, shift(tap, 0, 32), uint64(0x71))
	update(tap)

	// five TMS high clocks restore IDCODE
	for i := 0; i < 5; i++ {
		tap.Clock(true, false)
	}
	test.ExpectEquality(t, tap.State(), jtag.TestLogicReset)
	test.ExpectEquality(t, tap.IR(), uint8(jtag.IDCODE))
}

func TestBypass(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)
	tap.Clock(false, false)

	toShiftIR(tap)
	shift(tap, jtag.BYPASS, jtag.IRLength)
	update(tap)
	test.ExpectEquality(t, tap.IR(), uint8(jtag.BYPASS))

	// bypass is a single bit register so the data out is the data in
	// delayed by one clock
	toShiftDR(tap)
	test.ExpectEquality(t, shift(tap, 0b1011, 5), uint64(0b10110))
}

func TestDMIUpdate(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)

	var latched uint64
	var ir uint8
	tap.OnUpdateDR = func(i uint8, v uint64) {
		ir = i
		latched = v
	}
	tap.Clock(false, false)

	toShiftIR(tap)
	shift(tap, jtag.DMI, jtag.IRLength)
	update(tap)

	const value = 0x1_2345_6789_a
	toShiftDR(tap)
	shift(tap, value, jtag.DMILength)
	update(tap)
	test.ExpectEquality(t, ir, uint8(jtag.DMI))
	test.ExpectEquality(t, latched, uint64(value))

	// the latched value is captured on the next scan
	toShiftDR(tap)
	test.ExpectEquality(t, shift(tap, 0, jtag.DMILength), uint64(value))
}

type readWriter struct {
	io.Reader
	io.Writer
}

// encodes a single TCK cycle as remote bitbang commands, sampling TDO
// before the rising edge
func cycle(b *strings.Builder, tms bool, tdi bool) {
	v := byte('0')
	if tms {
		v |= 0x02
	}
	if tdi {
		v |= 0x01
	}
	b.WriteByte(v)
	b.WriteByte('R')
	b.WriteByte(v | 0x04)
}

func TestBitbangServe(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)
	var cmds strings.Builder
	cmds.WriteString("Bb")
	cycle(&cmds, false, false)
	cycle(&cmds, true, false)
	cycle(&cmds, false, false)
	cycle(&cmds, false, false)
	for i := 0; i < 32; i++ {
		cycle(&cmds, i == 31, false)
	}
	cmds.WriteString("Q")

	srv, err := jtag.NewBitbang(tap, "127.0.0.1:0")
	test.DemandSuccess(t, err)
	defer srv.Stop()

	var out bytes.Buffer
	err = srv.Serve(readWriter{Reader: strings.NewReader(cmds.String()), Writer: &out})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, tap.State(), jtag.Exit1DR)

	// four clocks before the data register is being shifted
	resp := out.String()
	test.DemandEquality(t, len(resp), 36)
	var id uint64
	for i, c := range resp[4:] {
		if c == '1' {
			id |= 1 << i
		}
	}
	test.ExpectEquality(t, id, uint64(jtag.DefaultIDCode))
	test.ExpectFailure(t, srv.Blink)
}

func TestBitbangProtocolError(t *testing.T) {
	srv, err := jtag.NewBitbang(jtag.NewTAP(jtag.DefaultIDCode), "127.0.0.1:0")
	test.DemandSuccess(t, err)
	defer srv.Stop()

	var out bytes.Buffer
	err = srv.Serve(readWriter{Reader: strings.NewReader("0x"), Writer: &out})
	test.ExpectSuccess(t, curated.Is(err, jtag.BitbangProtocol))
}

func TestBitbangReset(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)
	srv, err := jtag.NewBitbang(tap, "127.0.0.1:0")
	test.DemandSuccess(t, err)
	defer srv.Stop()

	var out bytes.Buffer
	err = srv.Serve(readWriter{Reader: strings.NewReader("0424t"), Writer: &out})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, tap.State(), jtag.TestLogicReset)
	test.ExpectSuccess(t, srv.TRST)
	test.ExpectFailure(t, srv.SRST)
}

func TestBitbangConnection(t *testing.T) {
	tap := jtag.NewTAP(jtag.DefaultIDCode)
	srv, err := jtag.NewBitbang(tap, "127.0.0.1:0")
	test.DemandSuccess(t, err)
	srv.Start()
	defer srv.Stop()

	conn, err := net.Dial("tcp", srv.Addr().String())
	test.DemandSuccess(t, err)
	defer conn.Close()

	// into Run-Test/Idle and then a read. TDO is low outside of the shift
	// states
	_, err = conn.Write([]byte("04R"))
	test.DemandSuccess(t, err)

	b := make([]byte, 1)
	_, err = io.ReadFull(conn, b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b[0], byte('0'))

	_, err = conn.Write([]byte("Q"))
	test.ExpectSuccess(t, err)
}
