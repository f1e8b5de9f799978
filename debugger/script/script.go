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

package script

import (
	"context"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/debugger/jtag"
	"github.com/jetsetilly/rv64emu/hardware"
	"github.com/jetsetilly/rv64emu/logger"
	"github.com/jetsetilly/rv64emu/performance/limiter"
	lua "github.com/yuin/gopher-lua"
)

// Sentinel errors for the script package.
const (
	ScriptError = "script: %v"
	NoFrame     = "script: frame() is not defined"
	NoDevice    = "script: %s: no %s attached to the simulation"
)

// Script is an instance of the Lua runtime bound to a simulation.
type Script struct {
	L   *lua.LState
	sim *hardware.Sim
	tap *jtag.TAP

	// number of times frame() has been called
	Frames int

	// silence hart logging while run_once() is stepping
	Quiet bool

	stepping bool
}

// NewScript is the preferred method of initialisation for the Script type.
// The TAP can be nil, in which case jtag_reset() does nothing and the other
// jtag functions raise an error.
func NewScript(sim *hardware.Sim, tap *jtag.TAP) *Script {
	s := &Script{
		L:   lua.NewState(),
		sim: sim,
		tap: tap,
	}

	for name, fn := range map[string]lua.LGFunction{
		"run_once":   s.runOnce,
		"uart_read":  s.uartRead,
		"uart_write": s.uartWrite,
		"key":        s.key,
		"mtime":      s.mtime,
		"halted":     s.halted,
		"log":        s.log,
		"jtag_reset": s.jtagReset,
		"jtag_clock": s.jtagClock,
		"jtag_state": s.jtagState,
	} {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
	sim.SetLogPermission(s)

	return s
}

// AllowLogging implements the logger.Permission interface.
func (s *Script) AllowLogging() bool {
	return !(s.Quiet && s.stepping)
}

// Close the Lua runtime.
func (s *Script) Close() {
	s.L.Close()
}

// LoadString runs the Lua source, which will usually do nothing more than
// define the frame() function.
func (s *Script) LoadString(source string) error {
	if err := s.L.DoString(source); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// LoadFile runs the Lua source in the named file.
func (s *Script) LoadFile(filename string) error {
	if err := s.L.DoFile(filename); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	logger.Logf(logger.Allow, "script", "loaded %s", filename)
	return nil
}

// Frame calls the script's frame() function once. It returns false if the
// session should end, either because frame() returned false or because the
// guest has halted.
func (s *Script) Frame(ctx context.Context) (bool, error) {
	fn := s.L.GetGlobal("frame")
	if fn.Type() != lua.LTFunction {
		return false, curated.Errorf(NoFrame)
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	})
	if err != nil {
		return false, curated.Errorf(ScriptError, err)
	}
	s.Frames++

	ret := s.L.Get(-1)
	s.L.Pop(1)

	if halted, _ := s.sim.Halted(); halted {
		return false, nil
	}

	// a frame() that returns nothing continues the session
	return ret != lua.LFalse, nil
}

// Run calls Frame() until the session ends or the context is cancelled. If
// the limiter is not nil each frame waits for it first.
func (s *Script) Run(ctx context.Context, lim *limiter.Limiter) error {
	for {
		if lim != nil {
			lim.Wait()
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		cont, err := s.Frame(ctx)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
