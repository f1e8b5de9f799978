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

package core

import (
	"github.com/jetsetilly/rv64emu/curated"
)

// UnimplementedEncoding is the error pattern for an instruction word that
// does not match any row in the decode tables.
const UnimplementedEncoding = "core: unimplemented encoding (%#08x)"

// Operation executes a decoded instruction. The instruction word is always
// the 32-bit form, even for compressed instructions.
type Operation func(h *Hart, inst uint32) error

// Instruction is a single row in a decode table.
type Instruction struct {
	Mask      uint32
	Match     uint32
	Name      string
	Operation Operation
}

func (ins *Instruction) matches(inst uint32) bool {
	return inst&ins.Mask == ins.Match
}

// decoded is the result of decoding an instruction word
type decoded struct {
	ins  *Instruction
	inst uint32

	// the name is that of the compressed instruction when the fetched word
	// was compressed
	name string
}

// decoder finds the Instruction for an instruction word. results are cached
// by the instruction word as fetched
type decoder struct {
	table      []Instruction
	compressed []Compressed

	cache     map[uint32]decoded
	cacheSize int
}

func newDecoder(table []Instruction, compressed []Compressed, cacheSize int) *decoder {
	return &decoder{
		table:      table,
		compressed: compressed,
		cache:      make(map[uint32]decoded, cacheSize),
		cacheSize:  cacheSize,
	}
}

func (d *decoder) lookup(inst uint32) (*Instruction, bool) {
	for i := range d.table {
		if d.table[i].matches(inst) {
			return &d.table[i], true
		}
	}
	return nil, false
}

// decode the instruction word. compressed words are identified by the low
// two bits being other than 0b11 and are expanded before lookup
func (d *decoder) decode(word uint32) (decoded, error) {
	if dec, ok := d.cache[word]; ok {
		return dec, nil
	}

	var dec decoded

	if word&3 != 3 {
		c, inst, ok := expand(d.compressed, uint16(word))
		if !ok {
			return decoded{}, curated.Errorf(UnimplementedEncoding, word)
		}
		ins, ok := d.lookup(inst)
		if !ok {
			return decoded{}, curated.Errorf(UnimplementedEncoding, word)
		}
		dec = decoded{ins: ins, inst: inst, name: c.Name}
	} else {
		ins, ok := d.lookup(word)
		if !ok {
			return decoded{}, curated.Errorf(UnimplementedEncoding, word)
		}
		dec = decoded{ins: ins, inst: word, name: ins.Name}
	}

	if d.cacheSize > 0 {
		if len(d.cache) >= d.cacheSize {
			for k := range d.cache {
				delete(d.cache, k)
				break
			}
		}
		d.cache[word] = dec
	}

	return dec, nil
}
