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

import "fmt"

// DebugCause is the reason a hart entered debug mode. The values are those
// of the cause field of the dcsr register.
type DebugCause int

// List of debug causes.
const (
	NoDebug DebugCause = iota
	Ebreak
	Trigger
	HaltReq
	Step
	ResetHaltReq
	Group
)

func (c DebugCause) String() string {
	switch c {
	case NoDebug:
		return "none"
	case Ebreak:
		return "ebreak"
	case Trigger:
		return "trigger"
	case HaltReq:
		return "haltreq"
	case Step:
		return "step"
	case ResetHaltReq:
		return "resethaltreq"
	case Group:
		return "group"
	}
	return fmt.Sprintf("unknown (%d)", int(c))
}

// DebugCauseFromValue converts the dcsr cause field. It panics for values
// that are not a cause.
func DebugCauseFromValue(v uint64) DebugCause {
	if v > uint64(Group) {
		panic(fmt.Sprintf("jtag: invalid debug cause (%d)", v))
	}
	return DebugCause(v)
}
