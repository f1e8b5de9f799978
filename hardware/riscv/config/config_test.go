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

package config_test

import (
	"testing"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/riscv/config"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
	"github.com/jetsetilly/rv64emu/test"
)

func TestISA(t *testing.T) {
	cfg := config.NewConfig()
	test.DemandSuccess(t, cfg.SetISA("RV64IMAC_zicsr"))
	test.ExpectSuccess(t, cfg.IsEnabled('i'))
	test.ExpectSuccess(t, cfg.IsEnabled('m'))
	test.ExpectSuccess(t, cfg.IsEnabled('a'))
	test.ExpectSuccess(t, cfg.IsEnabled('c'))

	err := cfg.SetISA("rv32imac")
	test.ExpectSuccess(t, curated.Is(err, config.BadISA))
}

func TestISAStrings(t *testing.T) {
	for _, tc := range []struct {
		isa    string
		result string
	}{
		{"rv64i", "rv64i"},
		{"rv64im_zicsr", "rv64im"},
		{"rv64i_zifencei", "rv64i"},
		{"rv64imac_zicsr_zifencei", "rv64imac"},
		{"rv64imzicsr", "rv64im"},
		{"rv64ia_ZIFENCEI", "rv64ia"},
	} {
		cfg := config.NewConfig()
		test.DemandSuccess(t, cfg.SetISA(tc.isa), tc.isa)
		test.ExpectEquality(t, cfg.String(), tc.result+" mmu=bare", tc.isa)
	}

	// extensions that are not implemented are rejected and the previous
	// setting survives
	for _, isa := range []string{
		"rv64gc",
		"rv64imfd",
		"rv64ie",
		"rv64i_zba",
		"rv64i_",
		"rv64i__zicsr",
		"rv64i_m",
	} {
		cfg := config.NewConfig()
		test.DemandSuccess(t, cfg.SetISA("rv64im"))
		err := cfg.SetISA(isa)
		test.ExpectSuccess(t, curated.Is(err, config.BadISA), isa)
		test.ExpectSuccess(t, cfg.IsEnabled('m'), isa)
		test.ExpectFailure(t, cfg.IsEnabled('c'), isa)
	}
}

func TestMMU(t *testing.T) {
	cfg := config.NewConfig()
	test.ExpectEquality(t, cfg.MMUType(), mmu.Bare)

	test.DemandSuccess(t, cfg.SetMMUType("SV48"))
	test.ExpectEquality(t, cfg.MMUType(), mmu.Sv48)

	err := cfg.SetMMUType("sv32")
	test.ExpectSuccess(t, curated.Is(err, config.BadMMU))
	test.ExpectSuccess(t, curated.Has(err, mmu.BadMode))

	// failed parse leaves the previous value
	test.ExpectEquality(t, cfg.MMUType(), mmu.Sv48)
}

func TestModes(t *testing.T) {
	cfg := config.NewConfig()
	test.ExpectFailure(t, cfg.SMode())
	test.ExpectFailure(t, cfg.UMode())

	cfg.SetSMode()
	test.ExpectSuccess(t, cfg.SMode())
	test.ExpectSuccess(t, cfg.UMode())

	test.DemandSuccess(t, cfg.SetISA("rv64ima"))
	test.ExpectEquality(t, cfg.MISA(), 1<<0|1<<8|1<<12|1<<18|1<<20)
	test.ExpectEquality(t, cfg.String(), "rv64ima mmu=bare +S +U")
}
