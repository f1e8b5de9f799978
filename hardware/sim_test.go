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

package hardware_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/jetsetilly/rv64emu/debugger/govern"
	"github.com/jetsetilly/rv64emu/hardware"
	"github.com/jetsetilly/rv64emu/hardware/memory/addresses"
	"github.com/jetsetilly/rv64emu/hardware/riscv/asm"
	"github.com/jetsetilly/rv64emu/hardware/riscv/config"
	"github.com/jetsetilly/rv64emu/hardware/riscv/csr"
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
	"github.com/jetsetilly/rv64emu/test"
)

const base = addresses.MemBase

func image(words ...uint32) []byte {
	b := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

func newSim(t *testing.T, isa string, harts int) *hardware.Sim {
	t.Helper()
	cfg := config.NewConfig()
	test.DemandSuccess(t, cfg.SetISA(isa))
	test.DemandSuccess(t, cfg.SetMMUType("bare"))
	sim, err := hardware.NewStandard(cfg, 0x10000, harts)
	test.DemandSuccess(t, err)
	return sim
}

func TestNewSim(t *testing.T) {
	_, err := hardware.NewSim(nil, nil, 0)
	test.ExpectFailure(t, err)

	sim := newSim(t, "rv64im", 2)
	test.ExpectEquality(t, len(sim.Harts()), 2)
	_, err = sim.Hart(2)
	test.ExpectFailure(t, err)
	h, err := sim.Hart(1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h.HartID(), uint64(1))
}

func TestUARTOutput(t *testing.T) {
	sim := newSim(t, "rv64im", 1)
	test.DemandSuccess(t, sim.LoadImage(image(
		asm.Addi(5, 0, 5),
		asm.I(asm.OpImm, 5, 1, 5, 29), // slli x5, x5, 29
		asm.Addi(5, 5, 0x3f8),
		asm.Addi(6, 0, 'H'),
		asm.Sb(6, 5, 0),
		asm.Jal(0, 0),
	)))
	sim.PrepareToRun()

	n, err := sim.RunOnce(100)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 100)

	test.ExpectEquality(t, string(sim.UART.Drain()), "H")
	_, ok := sim.UART.Transmitted()
	test.ExpectEquality(t, ok, false)
}

func TestRoundRobin(t *testing.T) {
	sim := newSim(t, "rv64i", 2)
	test.DemandSuccess(t, sim.LoadImage(image(
		asm.Csrrs(5, csr.Mhartid, 0),
		asm.Addi(6, 6, 1),
		asm.Jal(0, -4),
	)))
	sim.PrepareToRun()

	n, err := sim.RunOnce(11)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 11)

	h0, h1 := sim.Harts()[0], sim.Harts()[1]
	test.ExpectEquality(t, h0.Retired(), uint64(6))
	test.ExpectEquality(t, h1.Retired(), uint64(5))
	test.ExpectEquality(t, h0.Reg(5), uint64(0))
	test.ExpectEquality(t, h1.Reg(5), uint64(1))

	// the CLINT ticks once for each full round
	test.ExpectEquality(t, sim.Clint.MTime(), uint64(5))

	// the next call resumes with the second hart
	_, err = sim.RunOnce(1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h1.Retired(), uint64(6))
	test.ExpectEquality(t, sim.Clint.MTime(), uint64(6))
}

func TestTimerInterrupt(t *testing.T) {
	sim := newSim(t, "rv64i", 1)
	test.DemandSuccess(t, sim.LoadImage(image(
		asm.Lui(5, 0x2004), // mtimecmp for hart 0
		asm.Addi(6, 0, 20),
		asm.Sd(6, 5, 0),
		asm.Jal(0, 0),
	)))
	test.DemandSuccess(t, sim.LoadImageAt(base+0x100, image(
		asm.Addi(7, 0, 1),
		asm.Jal(0, 0),
	)))
	sim.PrepareToRun()

	h := sim.Harts()[0]
	test.DemandSuccess(t, h.CSR().Write(csr.Mtvec, base+0x100, csr.Machine))
	test.DemandSuccess(t, h.CSR().Write(csr.Mie, csr.IntMTI, csr.Machine))
	test.DemandSuccess(t, h.CSR().Write(csr.Mstatus, csr.MstatusMIE, csr.Machine))

	_, err := sim.RunOnce(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h.Reg(7), uint64(0))

	_, err = sim.RunOnce(20)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h.Reg(7), uint64(1))

	mcause, err := h.CSR().Read(csr.Mcause, csr.Machine)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, mcause, uint64(trap.CauseMachineTimerInterrupt))

	// the time CSR reads the CLINT's mtime
	tm, err := h.CSR().Read(csr.Time, csr.Machine)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tm, sim.Clint.MTime())
}

func TestToHost(t *testing.T) {
	sim := newSim(t, "rv64i", 1)
	test.DemandSuccess(t, sim.LoadImage(image(
		asm.Auipc(5, 1),
		asm.Addi(6, 0, 7),
		asm.Sd(6, 5, 0),
		asm.Jal(0, 0),
	)))
	sim.SetToHost(base + 0x1000)
	sim.PrepareToRun()

	n, err := sim.RunOnce(100)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 3)

	halted, code := sim.Halted()
	test.ExpectEquality(t, halted, true)
	test.ExpectEquality(t, code, uint64(3))

	n, err = sim.RunOnce(100)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 0)

	state, err := sim.Run(nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, state, govern.Halted)
}

func TestRun(t *testing.T) {
	sim := newSim(t, "rv64i", 1)
	test.DemandSuccess(t, sim.LoadImage(image(asm.Jal(0, 0))))
	sim.PrepareToRun()

	checks := 0
	state, err := sim.Run(func() (govern.State, error) {
		checks++
		if checks == 3 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, state, govern.Ending)
	test.ExpectEquality(t, sim.Harts()[0].Retired(), uint64(3*hardware.PerformanceBrake))
}

func TestLoadELF(t *testing.T) {
	code := image(
		asm.Addi(5, 0, 42),
		asm.Jal(0, 0),
	)
	const entry = base + 0x200
	const bss = 16

	var b bytes.Buffer
	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_RISCV),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Phoff:     64,
		Ehsize:    64,
		Phentsize: 56,
		Phnum:     1,
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	test.DemandSuccess(t, binary.Write(&b, binary.LittleEndian, hdr))

	prog := elf.Prog64{
		Type:   uint32(elf.PT_LOAD),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Off:    64 + 56,
		Vaddr:  entry,
		Paddr:  entry,
		Filesz: uint64(len(code)),
		Memsz:  uint64(len(code)) + bss,
		Align:  4,
	}
	test.DemandSuccess(t, binary.Write(&b, binary.LittleEndian, prog))
	b.Write(code)

	sim := newSim(t, "rv64i", 1)

	// the bss area is cleared by the loader
	test.DemandSuccess(t, sim.Bus().Write(entry+uint64(len(code)), 0xffffffff, 4))

	e, err := sim.LoadELFFromReader(bytes.NewReader(b.Bytes()))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, e, uint64(entry))

	v, err := sim.Bus().Read(entry+uint64(len(code)), 4)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0))

	h := sim.Harts()[0]
	test.ExpectEquality(t, h.PC(), uint64(entry))
	sim.PrepareToRun()
	_, err = sim.RunOnce(2)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h.Reg(5), uint64(42))

	_, err = sim.LoadELFFromReader(bytes.NewReader([]byte("not an elf")))
	test.ExpectFailure(t, err)
}

func TestDumpState(t *testing.T) {
	sim := newSim(t, "rv64i", 1)
	test.DemandSuccess(t, sim.LoadImage(image(asm.Addi(5, 0, 9))))
	_, err := sim.RunOnce(1)
	test.DemandSuccess(t, err)

	st := sim.State()
	test.DemandEquality(t, len(st), 1)
	test.ExpectEquality(t, st[0].Regs[5], uint64(9))
	test.ExpectEquality(t, st[0].Mode, csr.Machine.String())

	var b strings.Builder
	sim.DumpState(&b)
	test.ExpectEquality(t, strings.Contains(b.String(), "digraph"), true)
}
