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

// Package config holds the static configuration shared by every hart in the
// simulation. A Config is built once, before the harts are created, and is
// not changed afterwards.
package config

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
)

// Sentinel error patterns.
const (
	BadISA = "config: isa string %s: %s"
	BadMMU = "config: %v"
)

// the single letter ISA extensions that are implemented
const implemented = "imac"

// multi-letter extensions that are accepted. both are always present so
// naming them has no effect
var named = map[string]bool{
	"zicsr":    true,
	"zifencei": true,
}

// Default sizes for the caches. Zero disables a cache.
const (
	DefaultICacheSize      = 1024
	DefaultDecodeCacheSize = 1024
	DefaultTLBSize         = 64
)

// Config is the static configuration of the simulation.
type Config struct {
	ICacheSize      int
	DecodeCacheSize int
	TLBSize         int

	mmuType  mmu.Mode
	sMode    bool
	uMode    bool
	isaFlags uint32

	// when true the tohost location is not monitored
	DisableCheckToHost bool

	// when true an instruction word inside the opcode space of an enabled
	// extension that matches no decode row panics rather than raising an
	// illegal instruction trap for the guest. words belonging to extensions
	// that are not enabled always trap
	StrictDecode bool
}

// NewConfig is the preferred method of initialisation for the Config type.
// The returned configuration has no ISA extensions enabled and no MMU.
func NewConfig() *Config {
	return &Config{
		ICacheSize:      DefaultICacheSize,
		DecodeCacheSize: DefaultDecodeCacheSize,
		TLBSize:         DefaultTLBSize,
		mmuType:         mmu.Bare,
	}
}

func (cfg *Config) String() string {
	s := strings.Builder{}
	s.WriteString("rv64")
	for _, c := range implemented {
		if cfg.IsEnabled(byte(c)) {
			s.WriteRune(c)
		}
	}
	s.WriteString(fmt.Sprintf(" mmu=%s", cfg.mmuType))
	if cfg.sMode {
		s.WriteString(" +S")
	}
	if cfg.uMode {
		s.WriteString(" +U")
	}
	return s.String()
}

// SetISA parses an ISA string such as "rv64imac" or "rv64imac_zicsr". The
// string is not case sensitive. Single letter extensions that are not
// implemented are an error, as are unknown multi-letter extensions. On error
// the previous setting is left unchanged.
func (cfg *Config) SetISA(isa string) error {
	isa = strings.ToLower(isa)
	ext, ok := strings.CutPrefix(isa, "rv64")
	if !ok {
		return curated.Errorf(BadISA, isa, "must begin with rv64")
	}

	// single letters run up to the first underscore or to the first
	// multi-letter extension, which always starts with z
	letters, multi, _ := strings.Cut(ext, "_")
	if i := strings.IndexByte(letters, 'z'); i >= 0 {
		if multi == "" {
			multi = letters[i:]
		} else {
			multi = letters[i:] + "_" + multi
		}
		letters = letters[:i]
	}

	var flags uint32
	for _, c := range []byte(letters) {
		if strings.IndexByte(implemented, c) < 0 {
			return curated.Errorf(BadISA, isa, fmt.Sprintf("unsupported extension %q", c))
		}
		flags |= 1 << (c - 'a')
	}

	if multi != "" || strings.HasSuffix(ext, "_") {
		for _, n := range strings.Split(multi, "_") {
			if !named[n] {
				return curated.Errorf(BadISA, isa, fmt.Sprintf("unsupported extension %q", n))
			}
		}
	}

	cfg.isaFlags = flags
	return nil
}

// IsEnabled returns true if the single letter ISA extension is enabled.
func (cfg *Config) IsEnabled(ext byte) bool {
	if ext < 'a' || ext > 'z' {
		return false
	}
	return cfg.isaFlags&(1<<(ext-'a')) != 0
}

// MISA returns the extensions field of the misa register.
func (cfg *Config) MISA() uint64 {
	v := uint64(cfg.isaFlags)
	if cfg.sMode {
		v |= 1 << ('s' - 'a')
	}
	if cfg.uMode {
		v |= 1 << ('u' - 'a')
	}
	return v
}

// SetMMUType selects the largest translation scheme supported by the harts.
func (cfg *Config) SetMMUType(s string) error {
	m, err := mmu.ParseMode(s)
	if err != nil {
		return curated.Errorf(BadMMU, err)
	}
	cfg.mmuType = m
	return nil
}

// MMUType returns the largest translation scheme supported by the harts.
func (cfg *Config) MMUType() mmu.Mode {
	return cfg.mmuType
}

// SetSMode enables supervisor mode. User mode is also enabled because
// supervisor mode without user mode is not a legal configuration.
func (cfg *Config) SetSMode() {
	cfg.sMode = true
	cfg.uMode = true
}

// SetUMode enables user mode.
func (cfg *Config) SetUMode() {
	cfg.uMode = true
}

// SMode returns true if supervisor mode is enabled.
func (cfg *Config) SMode() bool {
	return cfg.sMode
}

// UMode returns true if user mode is enabled.
func (cfg *Config) UMode() bool {
	return cfg.uMode
}
