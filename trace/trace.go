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

// Package trace receives a record of every instruction retired by a hart.
// Observers are attached with Hart.SetObserver(). The Writer observer prints
// each record and the Ring observer keeps the most recent records in memory
// so that they can be shown after something has gone wrong.
package trace

import (
	"fmt"
	"io"
)

// Retired describes a single retired instruction.
type Retired struct {
	HartID uint64
	PC     uint64

	// the instruction word as fetched. compressed instructions are 16 bits
	Word uint32
	Len  int

	Name string
	Mode string
}

func (r Retired) String() string {
	if r.Len == 2 {
		return fmt.Sprintf("%d %s %016x     %04x  %s", r.HartID, r.Mode, r.PC, r.Word, r.Name)
	}
	return fmt.Sprintf("%d %s %016x %08x  %s", r.HartID, r.Mode, r.PC, r.Word, r.Name)
}

// Observer is implemented by anything that wants to see retired
// instructions.
type Observer interface {
	Retired(r Retired)
}

// Writer prints each retired instruction to an io.Writer.
type Writer struct {
	out io.Writer
}

// NewWriter is the preferred method of initialisation for the Writer type.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Retired implements the Observer interface.
func (w *Writer) Retired(r Retired) {
	fmt.Fprintln(w.out, r.String())
}

// Ring keeps the most recent retired instructions.
type Ring struct {
	entries []Retired
	next    int
	full    bool
}

// NewRing is the preferred method of initialisation for the Ring type.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{entries: make([]Retired, size)}
}

// Retired implements the Observer interface.
func (rg *Ring) Retired(r Retired) {
	rg.entries[rg.next] = r
	rg.next++
	if rg.next >= len(rg.entries) {
		rg.next = 0
		rg.full = true
	}
}

// Entries returns the stored records, oldest first.
func (rg *Ring) Entries() []Retired {
	if !rg.full {
		c := make([]Retired, rg.next)
		copy(c, rg.entries[:rg.next])
		return c
	}
	c := make([]Retired, 0, len(rg.entries))
	c = append(c, rg.entries[rg.next:]...)
	c = append(c, rg.entries[:rg.next]...)
	return c
}

// Write the stored records to the io.Writer, oldest first.
func (rg *Ring) Write(out io.Writer) {
	for _, r := range rg.Entries() {
		fmt.Fprintln(out, r.String())
	}
}

// Multi sends each record to several observers.
type Multi []Observer

// Retired implements the Observer interface.
func (m Multi) Retired(r Retired) {
	for _, o := range m {
		o.Retired(r)
	}
}
