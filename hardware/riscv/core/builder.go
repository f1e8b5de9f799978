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
	"github.com/jetsetilly/rv64emu/hardware/memory/addresses"
	"github.com/jetsetilly/rv64emu/hardware/riscv/config"
)

// NoBaseISA is the error pattern for a configuration that does not enable
// the base integer instruction set.
const NoBaseISA = "core: configuration does not include the I extension (%s)"

// HartBuilder collects the parameters for a new Hart.
type HartBuilder struct {
	bus    Bus
	cfg    *config.Config
	bootPC uint64
	hartID uint64
	sMode  *bool
}

// NewHartBuilder is the preferred method of initialisation for the
// HartBuilder type. The boot address defaults to the start of RAM.
func NewHartBuilder(b Bus, cfg *config.Config) *HartBuilder {
	return &HartBuilder{
		bus:    b,
		cfg:    cfg,
		bootPC: addresses.MemBase,
	}
}

// WithBootPC sets the address of the first instruction.
func (hb *HartBuilder) WithBootPC(pc uint64) *HartBuilder {
	hb.bootPC = pc
	return hb
}

// WithHartID sets the value of the mhartid CSR.
func (hb *HartBuilder) WithHartID(id uint64) *HartBuilder {
	hb.hartID = id
	return hb
}

// WithSMode overrides the supervisor mode setting of the configuration.
func (hb *HartBuilder) WithSMode(enable bool) *HartBuilder {
	hb.sMode = &enable
	return hb
}

// Build the Hart.
func (hb *HartBuilder) Build() (*Hart, error) {
	cfg := hb.cfg
	if !cfg.IsEnabled('i') {
		return nil, curated.Errorf(NoBaseISA, cfg)
	}

	sMode := cfg.SMode()
	if hb.sMode != nil {
		sMode = *hb.sMode
	}

	return newHart(hb.bus, cfg, hb.hartID, hb.bootPC, sMode), nil
}

// tables returns the decode tables for the enabled extensions
func tables(cfg *config.Config) ([]Instruction, []Compressed) {
	var t []Instruction
	t = append(t, InstructionsI...)
	if cfg.IsEnabled('m') {
		t = append(t, InstructionsM...)
	}
	if cfg.IsEnabled('a') {
		t = append(t, InstructionsA...)
	}
	t = append(t, InstructionsZicsr...)
	t = append(t, InstructionsPriv...)

	var c []Compressed
	if cfg.IsEnabled('c') {
		c = InstructionsC
	}

	return t, c
}

// decodeGaps identifies instruction words that fall in a major opcode used by
// an enabled table but which match none of its rows. words from extensions
// that are not enabled, and compressed words, are never gaps
type decodeGaps struct {
	opcodes  map[uint32]bool
	disabled []Instruction
}

func newDecodeGaps(cfg *config.Config) decodeGaps {
	t, _ := tables(cfg)
	g := decodeGaps{opcodes: make(map[uint32]bool)}
	for _, ins := range t {
		if ins.Mask&0x7f == 0x7f {
			g.opcodes[ins.Match&0x7f] = true
		}
	}
	if !cfg.IsEnabled('m') {
		g.disabled = append(g.disabled, InstructionsM...)
	}
	if !cfg.IsEnabled('a') {
		g.disabled = append(g.disabled, InstructionsA...)
	}
	return g
}

func (g decodeGaps) contains(word uint32) bool {
	if word&3 != 3 || !g.opcodes[word&0x7f] {
		return false
	}
	for i := range g.disabled {
		if g.disabled[i].matches(word) {
			return false
		}
	}
	return true
}
