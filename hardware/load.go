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

package hardware

import (
	"debug/elf"
	"io"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/memory/addresses"
	"github.com/jetsetilly/rv64emu/logger"
)

// Sentinel error patterns.
const (
	BadELF = "sim: elf: %v"
)

// LoadImage copies a raw binary image into memory at addresses.MemBase.
func (sim *Sim) LoadImage(data []byte) error {
	return sim.LoadImageAt(addresses.MemBase, data)
}

// LoadImageAt copies a raw binary image into memory at the address.
func (sim *Sim) LoadImageAt(addr uint64, data []byte) error {
	if err := sim.bus.CopyFromSlice(addr, data); err != nil {
		return curated.Errorf(NoRAM, addr, err)
	}
	logger.Logf(logger.Allow, "rvsim", "loaded %d bytes at %#x", len(data), addr)
	return nil
}

// LoadELF loads the PT_LOAD segments of an ELF executable and sets the
// program counter of every hart to the entry point, which is returned.
//
// If the executable has a tohost symbol then the location is monitored and
// the simulation halts when the guest writes a non-zero value to it.
func (sim *Sim) LoadELF(filename string) (uint64, error) {
	f, err := elf.Open(filename)
	if err != nil {
		return 0, curated.Errorf(BadELF, err)
	}
	defer f.Close()
	return sim.loadELF(f)
}

// LoadELFFromReader is the same as LoadELF but the executable is read from
// an io.ReaderAt.
func (sim *Sim) LoadELFFromReader(r io.ReaderAt) (uint64, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return 0, curated.Errorf(BadELF, err)
	}
	return sim.loadELF(f)
}

func (sim *Sim) loadELF(f *elf.File) (uint64, error) {
	if f.Class != elf.ELFCLASS64 {
		return 0, curated.Errorf(BadELF, "not a 64 bit executable")
	}
	if f.Machine != elf.EM_RISCV {
		return 0, curated.Errorf(BadELF, f.Machine)
	}

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}

		// the part of the segment not in the file is zero filled
		data := make([]byte, p.Memsz)
		n, err := p.ReadAt(data[:p.Filesz], 0)
		if err != nil && !(err == io.EOF && uint64(n) == p.Filesz) {
			return 0, curated.Errorf(BadELF, err)
		}

		if err := sim.LoadImageAt(p.Paddr, data); err != nil {
			return 0, err
		}
	}

	// it is not an error for there to be no symbols
	if syms, err := f.Symbols(); err == nil {
		for _, s := range syms {
			if s.Name == "tohost" {
				sim.SetToHost(s.Value)
				logger.Logf(logger.Allow, "rvsim", "tohost at %#x", s.Value)
				break
			}
		}
	}

	for _, h := range sim.harts {
		h.SetPC(f.Entry)
	}

	return f.Entry, nil
}
