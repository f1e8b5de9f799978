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
	"errors"
	"fmt"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/hardware/riscv/config"
	"github.com/jetsetilly/rv64emu/hardware/riscv/csr"
	"github.com/jetsetilly/rv64emu/hardware/riscv/icache"
	"github.com/jetsetilly/rv64emu/hardware/riscv/irq"
	"github.com/jetsetilly/rv64emu/hardware/riscv/mmu"
	"github.com/jetsetilly/rv64emu/hardware/riscv/trap"
	"github.com/jetsetilly/rv64emu/logger"
	"github.com/jetsetilly/rv64emu/trace"
)

// Bus is the part of the memory bus used by the hart.
type Bus interface {
	Read(addr uint64, size int) (uint64, error)
	Write(addr uint64, data uint64, size int) error
}

// Hart is a single RISC-V hardware thread.
type Hart struct {
	id     uint64
	tag    string
	bus    Bus
	cfg    *config.Config
	bootPC uint64

	regs [32]uint64
	pc   uint64
	mode csr.Mode

	// the address of the next instruction. set to the address following the
	// current instruction before it is executed and changed by jumps,
	// branches and trap returns
	nextPC uint64

	csr    *csr.Bank
	mmu    *mmu.MMU
	icache *icache.ICache
	dec    *decoder
	gaps   decodeGaps

	reservation Reservation
	monitor     *Monitor

	// the hart is stalled in a WFI instruction
	waiting bool

	observer trace.Observer
	logPerm  logger.Permission

	// the number of instructions retired since the last reset
	retired uint64
}

func newHart(b Bus, cfg *config.Config, id uint64, bootPC uint64, sMode bool) *Hart {
	t, c := tables(cfg)

	uMode := cfg.UMode() || sMode

	// the S and U bits of misa follow the hart rather than the configuration
	ext := cfg.MISA() &^ (1<<('s'-'a') | 1<<('u'-'a'))
	if sMode {
		ext |= 1 << ('s' - 'a')
	}
	if uMode {
		ext |= 1 << ('u' - 'a')
	}

	lines := &irq.Lines{}
	bank := csr.NewBank(csr.Features{
		HartID:     id,
		Extensions: ext,
		SMode:      sMode,
		UMode:      uMode,
		MMU:        cfg.MMUType(),
	}, lines, nil)

	h := &Hart{
		id:          id,
		tag:         fmt.Sprintf("hart%d", id),
		bus:         b,
		cfg:         cfg,
		bootPC:      bootPC,
		csr:         bank,
		mmu:         mmu.NewMMU(b, cfg.TLBSize),
		icache:      icache.NewICache(b, cfg.ICacheSize),
		dec:         newDecoder(t, c, cfg.DecodeCacheSize),
		gaps:        newDecodeGaps(cfg),
		reservation: NewReservation(),
		logPerm:     logger.Allow,
	}
	h.Reset()

	return h
}

func (h *Hart) String() string {
	return fmt.Sprintf("%s pc=%#016x mode=%s", h.tag, h.pc, h.mode)
}

// Reset the hart to its boot state. Memory is not affected.
func (h *Hart) Reset() {
	h.regs = [32]uint64{}
	h.pc = h.bootPC
	h.nextPC = h.bootPC
	h.mode = csr.Machine
	h.csr.Reset()
	h.mmu.Flush()
	h.icache.Clear()
	h.reservation.Clear()
	h.waiting = false
	h.retired = 0
}

// HartID returns the value of mhartid for the hart.
func (h *Hart) HartID() uint64 {
	return h.id
}

// Reg returns the value of the general purpose register. Register zero is
// always zero.
func (h *Hart) Reg(r int) uint64 {
	return h.regs[r]
}

// SetReg sets the value of the general purpose register. Writes to register
// zero are ignored.
func (h *Hart) SetReg(r int, v uint64) {
	if r != 0 {
		h.regs[r] = v
	}
}

// PC returns the address of the next instruction to be executed.
func (h *Hart) PC() uint64 {
	return h.pc
}

// SetPC changes the address of the next instruction to be executed.
func (h *Hart) SetPC(pc uint64) {
	h.pc = pc
	h.nextPC = pc
	h.waiting = false
}

// Mode returns the current privilege mode.
func (h *Hart) Mode() csr.Mode {
	return h.mode
}

// CSR returns the control and status registers of the hart.
func (h *Hart) CSR() *csr.Bank {
	return h.csr
}

// Lines returns the interrupt lines of the hart. The lines should be
// connected to the CLINT.
func (h *Hart) Lines() *irq.Lines {
	return h.csr.Lines()
}

// ICache returns the instruction cache of the hart.
func (h *Hart) ICache() *icache.ICache {
	return h.icache
}

// MMU returns the address translation unit of the hart.
func (h *Hart) MMU() *mmu.MMU {
	return h.mmu
}

// Reservation returns the load-reserved state of the hart.
func (h *Hart) Reservation() *Reservation {
	return &h.reservation
}

// Retired returns the number of instructions retired since the last reset.
func (h *Hart) Retired() uint64 {
	return h.retired
}

// Waiting returns true if the hart is stalled in a WFI instruction.
func (h *Hart) Waiting() bool {
	return h.waiting
}

// SetLogPermission sets the permission used when the hart writes to the
// log. A nil permission restores the default of always logging.
func (h *Hart) SetLogPermission(p logger.Permission) {
	if p == nil {
		p = logger.Allow
	}
	h.logPerm = p
}

// SetObserver attaches an observer that sees every retired instruction. A
// nil observer removes the current one.
func (h *Hart) SetObserver(o trace.Observer) {
	h.observer = o
}

// setMode changes the privilege mode. cached translations are made under
// the previous mode's rules so the TLB is flushed
func (h *Hart) setMode(m csr.Mode) {
	if m != h.mode {
		h.mode = m
		h.mmu.Flush()
	}
}

// takeTrap redirects the hart to the trap handler
func (h *Hart) takeTrap(pc uint64, t trap.Trap) {
	if h.mode == csr.Machine && h.csr.Mtvec() == 0 && !t.IsInterrupt() {
		logger.Logf(h.logPerm, h.tag, "%s at %#x with no trap vector", t.Cause, pc)
	}
	newPC, mode := h.csr.TakeTrap(pc, t, h.mode)
	h.setMode(mode)
	h.pc = newPC
	h.nextPC = newPC
	h.waiting = false
}

// Step executes a single instruction, or takes a single trap. Guest faults
// never cause an error to be returned.
func (h *Hart) Step() error {
	h.csr.Tick()

	if h.waiting {
		if !h.csr.WaitForInterrupt() {
			return nil
		}
		h.waiting = false
	}

	if t, ok := h.csr.PendingInterrupt(h.mode); ok {
		h.takeTrap(h.pc, t)
		return nil
	}

	word, length, err := h.fetch()
	if err != nil {
		return h.fault(word, err)
	}

	dec, err := h.dec.decode(word)
	if err != nil {
		if h.cfg.StrictDecode && h.gaps.contains(word) {
			panic(fmt.Sprintf("%s: %v at %#x", h.tag, err, h.pc))
		}
		logger.Logf(h.logPerm, h.tag, "%v at %#x", err, h.pc)
		h.takeTrap(h.pc, trap.IllegalInstruction(uint64(word)))
		return nil
	}

	h.nextPC = h.pc + uint64(length)

	err = dec.ins.Operation(h, dec.inst)
	if err != nil {
		return h.fault(word, err)
	}

	if h.observer != nil {
		h.observer.Retired(trace.Retired{
			HartID: h.id,
			PC:     h.pc,
			Word:   word,
			Len:    length,
			Name:   dec.name,
			Mode:   h.mode.String(),
		})
	}

	h.pc = h.nextPC
	h.retired++
	h.csr.Retire()

	return nil
}

// fault handles an error from fetching or executing an instruction. traps
// are taken and anything else is returned to the caller of Step()
func (h *Hart) fault(word uint32, err error) error {
	var t trap.Trap
	if !errors.As(err, &t) {
		return curated.Errorf("%s: %v", h.tag, err)
	}

	// illegal instruction traps raised during execution do not know the
	// instruction word
	if t.Cause == trap.CauseIllegalInstruction && t.Tval == 0 {
		t.Tval = uint64(word)
	}

	h.takeTrap(h.pc, t)
	return nil
}
