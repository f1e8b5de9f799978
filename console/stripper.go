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

package console

import "io"

// Stripper is an io.Writer that removes escape sequences before writing to
// the underlying writer.
type Stripper struct {
	w      io.Writer
	parser Parser
	buf    []byte
}

// NewStripper is the preferred method of initialisation for the Stripper
// type.
func NewStripper(w io.Writer) *Stripper {
	return &Stripper{w: w}
}

// Write implements the io.Writer interface. The returned count is the number
// of bytes consumed from p, not the number written.
func (s *Stripper) Write(p []byte) (int, error) {
	s.buf = s.buf[:0]
	for _, b := range p {
		if _, plain := s.parser.Process(b); plain {
			s.buf = append(s.buf, b)
		}
	}
	if len(s.buf) > 0 {
		if _, err := s.w.Write(s.buf); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
