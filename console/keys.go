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
	"strings"
	"unicode/utf8"

	"github.com/jetsetilly/rv64emu/curated"
)

// Sentinel error returned by EncodeKey.
const (
	UnknownKey = "console: unknown key (%s)"
)

// Key is a special key that is sent to the guest as a sequence of bytes.
type Key int

// List of special keys.
const (
	KeyUp Key = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyDelete
	KeyEnter
	KeyBackspace
	KeyTab
)

var keyNames = map[string]Key{
	"up":        KeyUp,
	"down":      KeyDown,
	"right":     KeyRight,
	"left":      KeyLeft,
	"home":      KeyHome,
	"end":       KeyEnd,
	"delete":    KeyDelete,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
}

// Encode returns the bytes the guest expects for the key.
func (k Key) Encode() []byte {
	switch k {
	case KeyUp:
		return []byte{esc, '[', 'A'}
	case KeyDown:
		return []byte{esc, '[', 'B'}
	case KeyRight:
		return []byte{esc, '[', 'C'}
	case KeyLeft:
		return []byte{esc, '[', 'D'}
	case KeyHome:
		return []byte{esc, '[', 'H'}
	case KeyEnd:
		return []byte{esc, '[', 'F'}
	case KeyDelete:
		return []byte{esc, '[', '3', '~'}
	case KeyEnter:
		return []byte{'\r'}
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		return []byte{'\t'}
	}
	return nil
}

// EncodeKey returns the bytes for a named key. A name that is a single
// character is encoded as that character.
func EncodeKey(name string) ([]byte, error) {
	if utf8.RuneCountInString(name) == 1 {
		return []byte(name), nil
	}
	if k, ok := keyNames[strings.ToLower(name)]; ok {
		return k.Encode(), nil
	}
	return nil, curated.Errorf(UnknownKey, name)
}
