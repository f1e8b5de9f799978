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
	"github.com/jetsetilly/rv64emu/console"
	"github.com/jetsetilly/rv64emu/logger"
	lua "github.com/yuin/gopher-lua"
)

func (s *Script) runOnce(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "number of steps must not be negative")
		return 0
	}
	s.stepping = true
	steps, err := s.sim.RunOnce(n)
	s.stepping = false
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(steps))
	return 1
}

func (s *Script) uartRead(L *lua.LState) int {
	if s.sim.UART == nil {
		L.RaiseError(NoDevice, "uart_read", "UART")
		return 0
	}
	L.Push(lua.LString(string(s.sim.UART.Drain())))
	return 1
}

func (s *Script) uartWrite(L *lua.LState) int {
	if s.sim.UART == nil {
		L.RaiseError(NoDevice, "uart_write", "UART")
		return 0
	}
	s.sim.UART.Receive([]byte(L.CheckString(1))...)
	return 0
}

func (s *Script) key(L *lua.LState) int {
	if s.sim.UART == nil {
		L.RaiseError(NoDevice, "key", "UART")
		return 0
	}
	b, err := console.EncodeKey(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	s.sim.UART.Receive(b...)
	return 0
}

func (s *Script) mtime(L *lua.LState) int {
	if s.sim.Clint == nil {
		L.RaiseError(NoDevice, "mtime", "CLINT")
		return 0
	}
	L.Push(lua.LNumber(s.sim.Clint.MTime()))
	return 1
}

func (s *Script) halted(L *lua.LState) int {
	halted, code := s.sim.Halted()
	L.Push(lua.LBool(halted))
	L.Push(lua.LNumber(code))
	return 2
}

func (s *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, "script", L.CheckString(1))
	return 0
}

func (s *Script) jtagReset(L *lua.LState) int {
	if s.tap != nil {
		s.tap.Reset()
	}
	return 0
}

// jtagClock clocks the TAP once and returns the TDO value sampled before the
// rising edge
func (s *Script) jtagClock(L *lua.LState) int {
	if s.tap == nil {
		L.RaiseError(NoDevice, "jtag_clock", "JTAG TAP")
		return 0
	}
	tms := L.ToBool(1)
	tdi := L.ToBool(2)
	L.Push(lua.LBool(s.tap.Clock(tms, tdi)))
	return 1
}

func (s *Script) jtagState(L *lua.LState) int {
	if s.tap == nil {
		L.RaiseError(NoDevice, "jtag_state", "JTAG TAP")
		return 0
	}
	L.Push(lua.LString(s.tap.State().String()))
	return 1
}
