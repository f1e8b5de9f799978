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

import "sync"

// Screen collects guest output as lines of text. Escape sequences are
// interpreted and the most recent text attributes are recorded. Only the
// most recent lines are kept.
type Screen struct {
	crit sync.Mutex

	parser  Parser
	lines   []string
	current []byte
	max     int

	// attributes set by the most recent SGR sequence
	Bold  bool
	Color uint8
}

// NewScreen is the preferred method of initialisation for the Screen type.
// The maxLines value must be greater than zero.
func NewScreen(maxLines int) *Screen {
	if maxLines <= 0 {
		maxLines = 1
	}
	return &Screen{max: maxLines}
}

// Write implements the io.Writer interface.
func (s *Screen) Write(p []byte) (int, error) {
	s.crit.Lock()
	defer s.crit.Unlock()

	for _, b := range p {
		codes, plain := s.parser.Process(b)
		if plain {
			s.put(b)
			continue
		}
		for _, c := range codes {
			s.apply(c)
		}
	}

	return len(p), nil
}

func (s *Screen) put(b byte) {
	switch b {
	case '\n':
		s.newline()
	case '\r':
	case 0x08, 0x7f:
		if len(s.current) > 0 {
			s.current = s.current[:len(s.current)-1]
		}
	default:
		s.current = append(s.current, b)
	}
}

func (s *Screen) newline() {
	s.lines = append(s.lines, string(s.current))
	s.current = s.current[:0]
	if len(s.lines) > s.max {
		s.lines = s.lines[len(s.lines)-s.max:]
	}
}

func (s *Screen) apply(c Code) {
	switch c.Kind {
	case Reset:
		s.Bold = false
		s.Color = 0
	case Bold:
		s.Bold = true
	case FgColor:
		s.Color = c.Color
	case ClearScreen:
		s.lines = s.lines[:0]
		s.current = s.current[:0]
	case ClearLine:
		s.current = s.current[:0]
	}
}

// Lines returns the completed lines followed by the incomplete line, if it
// has any text.
func (s *Screen) Lines() []string {
	s.crit.Lock()
	defer s.crit.Unlock()

	l := make([]string, len(s.lines), len(s.lines)+1)
	copy(l, s.lines)
	if len(s.current) > 0 {
		l = append(l, string(s.current))
	}
	return l
}

// Clear all lines.
func (s *Screen) Clear() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.lines = s.lines[:0]
	s.current = s.current[:0]
}
