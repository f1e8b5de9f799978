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

package modalflag

import (
	"fmt"
	"io"
	"strings"
)

// helpWriter collects the usage output of the flag package so that it can be
// amended with the mode and sub-mode information before printing.
type helpWriter struct {
	buffer strings.Builder
}

// Write implements the io.Writer interface.
func (hw *helpWriter) Write(p []byte) (n int, err error) {
	return hw.buffer.Write(p)
}

// Clear contents of output buffer.
func (hw *helpWriter) Clear() {
	hw.buffer.Reset()
}

// Help prints the collected usage output along with the mode path (the
// banner), the available sub-modes and any additional help.
func (hw *helpWriter) Help(output io.Writer, banner string, subModes []string, additionalHelp string) {
	var s strings.Builder

	usage := hw.buffer.String()
	header, flags, _ := strings.Cut(usage, "\n")

	if flags == "" && len(subModes) == 0 {
		s.WriteString("No help available")
		if banner != "" {
			s.WriteString(fmt.Sprintf(" for %s", banner))
		}
		s.WriteString("\n")
		_, _ = io.WriteString(output, s.String())
		return
	}

	s.WriteString(header)
	if banner != "" {
		s.WriteString(fmt.Sprintf(" for %s mode", banner))
	}
	s.WriteString("\n")
	s.WriteString(flags)

	if len(subModes) > 0 {
		if flags != "" {
			s.WriteString("\n")
		}
		s.WriteString(fmt.Sprintf("  available sub-modes: %s\n", strings.Join(subModes, ", ")))
		s.WriteString(fmt.Sprintf("    default: %s\n", subModes[0]))
	}

	if additionalHelp != "" {
		s.WriteString("\n")
		s.WriteString(additionalHelp)
		s.WriteString("\n")
	}

	_, _ = io.WriteString(output, s.String())
}
