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

import (
	"strconv"
	"strings"
)

// CodeKind identifies the effect of an escape sequence.
type CodeKind int

// List of escape sequence effects.
const (
	Reset CodeKind = iota
	Bold
	FgColor
	ClearScreen
	ClearLine
	Unknown
)

func (k CodeKind) String() string {
	switch k {
	case Reset:
		return "reset"
	case Bold:
		return "bold"
	case FgColor:
		return "fgcolor"
	case ClearScreen:
		return "clearscreen"
	case ClearLine:
		return "clearline"
	}
	return "unknown"
}

// Code is a single effect parsed from a CSI sequence. Color is only
// meaningful for FgColor and is in the range 0 to 7.
type Code struct {
	Kind  CodeKind
	Color uint8
}

type parserState int

const (
	normal parserState = iota
	escape
	csi
)

const esc = 0x1b

// sequences longer than this are abandoned
const maxSequence = 32

// Parser processes a byte stream one byte at a time and recognises CSI
// escape sequences.
type Parser struct {
	state parserState
	buf   []byte
}

// Escaping returns true if the parser is part way through an escape
// sequence.
func (p *Parser) Escaping() bool {
	return p.state != normal
}

// Process the next byte. The plain flag is true if the byte is ordinary
// text and not part of an escape sequence. Codes are returned when the
// final byte of a CSI sequence is seen.
func (p *Parser) Process(b byte) (codes []Code, plain bool) {
	switch p.state {
	case normal:
		if b == esc {
			p.state = escape
			p.buf = append(p.buf[:0], b)
			return nil, false
		}
		return nil, true

	case escape:
		// only CSI sequences are recognised. the byte following a lone
		// escape is discarded
		if b == '[' {
			p.state = csi
			p.buf = append(p.buf, b)
		} else {
			p.state = normal
		}
		return nil, false

	case csi:
		p.buf = append(p.buf, b)
		if b >= 64 && b <= 126 {
			p.state = normal
			return parseCSI(p.buf), false
		}
		if len(p.buf) > maxSequence {
			p.state = normal
			return []Code{{Kind: Unknown}}, false
		}
	}

	return nil, false
}

func parseCSI(buf []byte) []Code {
	if len(buf) < 3 {
		return []Code{{Kind: Unknown}}
	}

	final := buf[len(buf)-1]
	params := string(buf[2 : len(buf)-1])

	var codes []Code

	switch final {
	case 'm':
		if params == "" {
			return []Code{{Kind: Reset}}
		}
		for _, s := range strings.Split(params, ";") {
			if s == "" {
				continue
			}
			n, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				codes = append(codes, Code{Kind: Unknown})
				continue
			}
			switch {
			case n == 0:
				codes = append(codes, Code{Kind: Reset})
			case n == 1:
				codes = append(codes, Code{Kind: Bold})
			case n >= 30 && n <= 37:
				codes = append(codes, Code{Kind: FgColor, Color: uint8(n - 30)})
			default:
				codes = append(codes, Code{Kind: Unknown})
			}
		}
	case 'J':
		if params == "2" {
			codes = append(codes, Code{Kind: ClearScreen})
		} else {
			codes = append(codes, Code{Kind: Unknown})
		}
	case 'K':
		codes = append(codes, Code{Kind: ClearLine})
	default:
		codes = append(codes, Code{Kind: Unknown})
	}

	return codes
}
