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

package mmu

import (
	"strings"

	"github.com/jetsetilly/rv64emu/curated"
)

// BadMode is the error pattern for an unrecognised MMU mode string.
const BadMode = "mmu: unknown mode (%s)"

// Mode is the translation scheme, encoded as it is found in the MODE field
// of the satp register.
type Mode uint64

// List of valid Mode values.
const (
	Bare Mode = 0
	Sv39 Mode = 8
	Sv48 Mode = 9
	Sv57 Mode = 10
)

func (m Mode) String() string {
	switch m {
	case Bare:
		return "bare"
	case Sv39:
		return "sv39"
	case Sv48:
		return "sv48"
	case Sv57:
		return "sv57"
	}
	return "unknown"
}

// Levels returns the number of levels in the page table walk.
func (m Mode) Levels() int {
	if m == Bare {
		return 0
	}
	return int(m) - 8 + 3
}

// Supports returns true if the mode can be selected on a hart whose highest
// supported mode is m. Support for a mode implies support for all the
// smaller modes.
func (m Mode) Supports(mode Mode) bool {
	switch mode {
	case Bare:
		return true
	case Sv39, Sv48, Sv57:
		return m != Bare && mode <= m
	}
	return false
}

// ParseMode converts the name of a translation scheme to a Mode. The name is
// not case sensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "bare":
		return Bare, nil
	case "sv39":
		return Sv39, nil
	case "sv48":
		return Sv48, nil
	case "sv57":
		return Sv57, nil
	}
	return Bare, curated.Errorf(BadMode, s)
}
