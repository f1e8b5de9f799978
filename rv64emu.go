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

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jetsetilly/rv64emu/console"
	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/debugger/jtag"
	"github.com/jetsetilly/rv64emu/debugger/script"
	"github.com/jetsetilly/rv64emu/hardware"
	"github.com/jetsetilly/rv64emu/hardware/memory/addresses"
	"github.com/jetsetilly/rv64emu/hardware/riscv/config"
	"github.com/jetsetilly/rv64emu/logger"
	"github.com/jetsetilly/rv64emu/modalflag"
	"github.com/jetsetilly/rv64emu/performance"
	"github.com/jetsetilly/rv64emu/performance/limiter"
	"github.com/jetsetilly/rv64emu/statsview"
	"github.com/jetsetilly/rv64emu/trace"
	"github.com/jetsetilly/rv64emu/version"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode takes control of
	// the terminal and handles interrupts itself.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// communication between the main() function and the launch() function.
type mainSync struct {
	state chan stateRequest
}

// the key that ends a console session when the terminal is in raw mode
// (ctrl-])
const escapeKey = 0x1d

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate when the program should quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "SCRIPT", "PERFORMANCE", "JTAG", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	var exitCode int

	switch md.Mode() {
	case "RUN":
		exitCode, err = run(md, sync)

	case "SCRIPT":
		exitCode, err = runScript(md)

	case "PERFORMANCE":
		err = perform(md)

	case "JTAG":
		err = serveJTAG(md)

	case "VERSION":
		fmt.Fprintln(md.Output, version.String())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit, args: exitCode}
}

// the flags common to every mode that creates a simulation
type simFlags struct {
	isa      *string
	mmu      *string
	smode    *bool
	mem      *uint64
	harts    *int
	icache   *int
	tlb      *int
	trace    *bool
	log      *bool
	stats    *bool
	memviz   *string
	noToHost *bool
	load     *uint64
}

func addSimFlags(md *modalflag.Modes) *simFlags {
	return &simFlags{
		isa:      md.AddString("isa", "rv64imac_zicsr", "ISA string"),
		mmu:      md.AddString("mmu", "bare", "MMU type: bare, sv39, sv48, sv57"),
		smode:    md.AddBool("smode", false, "enable supervisor (and user) mode"),
		mem:      md.AddSize("mem", 64<<20, "size of RAM"),
		harts:    md.AddInt("harts", 1, "number of harts"),
		icache:   md.AddInt("icache", config.DefaultICacheSize, "number of instruction cache entries (0 to disable)"),
		tlb:      md.AddInt("tlb", config.DefaultTLBSize, "number of TLB entries"),
		trace:    md.AddBool("trace", false, "print every retired instruction to stderr"),
		log:      md.AddBool("log", false, "echo log to stderr"),
		stats:    md.AddBool("statsview", false, "launch runtime statistics server (requires statsview build tag)"),
		memviz:   md.AddString("memviz", "", "write graph of hart state to file on exit"),
		noToHost: md.AddBool("notohost", false, "do not stop when the guest writes to tohost"),
		load:     md.AddUint64("load", addresses.MemBase, "load address for raw binary images"),
	}
}

func (f *simFlags) config() (*config.Config, error) {
	cfg := config.NewConfig()
	if err := cfg.SetISA(*f.isa); err != nil {
		return nil, err
	}
	if err := cfg.SetMMUType(*f.mmu); err != nil {
		return nil, err
	}
	if *f.smode {
		cfg.SetSMode()
	}
	cfg.ICacheSize = *f.icache
	cfg.TLBSize = *f.tlb
	cfg.DisableCheckToHost = *f.noToHost
	return cfg, nil
}

// create the simulation and load the program. the program file can be an
// ELF file or a raw binary image
func (f *simFlags) create(filename string) (*hardware.Sim, error) {
	if *f.log {
		logger.SetEcho(os.Stderr)
	}
	if *f.stats {
		statsview.Launch(os.Stderr, "")
	}

	cfg, err := f.config()
	if err != nil {
		return nil, err
	}

	sim, err := hardware.NewStandard(cfg, *f.mem, *f.harts)
	if err != nil {
		return nil, err
	}

	if err := loadProgram(sim, filename, *f.load); err != nil {
		return nil, err
	}

	if *f.trace {
		sim.SetObserver(trace.NewWriter(os.Stderr))
	}

	sim.PrepareToRun()

	return sim, nil
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

func loadProgram(sim *hardware.Sim, filename string, load uint64) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return curated.Errorf("load: %v", err)
	}

	if bytes.HasPrefix(data, elfMagic) {
		entry, err := sim.LoadELFFromReader(bytes.NewReader(data))
		if err != nil {
			return err
		}
		logger.Logf(logger.Allow, "rvsim", "%s: entry point %#x", filename, entry)
		return nil
	}

	if err := sim.LoadImageAt(load, data); err != nil {
		return err
	}
	for _, h := range sim.Harts() {
		h.SetPC(load)
	}
	logger.Logf(logger.Allow, "rvsim", "%s: raw image at %#x", filename, load)

	return nil
}

// finish writes the memviz graph if requested and returns the exit code of
// the guest.
func (f *simFlags) finish(sim *hardware.Sim) (int, error) {
	for _, h := range sim.Harts() {
		h.ICache().ShowPerf()
	}

	if *f.memviz != "" {
		w, err := os.Create(*f.memviz)
		if err != nil {
			return 0, curated.Errorf("memviz: %v", err)
		}
		defer w.Close()
		sim.DumpState(w)
	}

	if halted, code := sim.Halted(); halted {
		return int(code), nil
	}
	return 0, nil
}

func programArg(md *modalflag.Modes, what string) (string, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return "", fmt.Errorf("%s required for %s mode", what, md)
	case 1:
		return md.GetArg(0), nil
	}
	return "", fmt.Errorf("too many arguments for %s mode", md)
}

func run(md *modalflag.Modes, sync *mainSync) (int, error) {
	md.NewMode()
	sf := addSimFlags(md)
	budget := md.AddInt("budget", 100000, "instructions per frame")
	fps := md.AddInt("fps", 60, "frames per second")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	filename, err := programArg(md, "program file")
	if err != nil {
		return 0, err
	}

	sim, err := sf.create(filename)
	if err != nil {
		return 0, err
	}

	term, err := console.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return 0, err
	}

	// input is passed from the terminal goroutine to the emulation loop over
	// a channel
	input := make(chan byte, 256)
	quit := make(chan bool, 1)

	if term.IsTerminal() {
		sync.state <- stateRequest{req: reqNoIntSig}
		fmt.Fprintf(os.Stderr, "* press ctrl-] to quit\r\n")
	}

	err = term.Start(func(b byte) {
		if b == escapeKey && term.IsTerminal() {
			select {
			case quit <- true:
			default:
			}
			return
		}
		input <- b
	})
	if err != nil {
		return 0, err
	}
	defer term.Stop()

	lim, err := limiter.NewLimiter(*fps)
	if err != nil {
		return 0, err
	}
	defer lim.Stop()

	for {
		select {
		case <-quit:
			return sf.finish(sim)
		default:
		}

		lim.Wait()

	drain:
		for {
			select {
			case b := <-input:
				sim.UART.Receive(b)
			default:
				break drain
			}
		}

		if _, err := sim.RunOnce(*budget); err != nil {
			return 0, err
		}

		if out := sim.UART.Drain(); len(out) > 0 {
			if _, err := term.Write(out); err != nil {
				return 0, err
			}
		}

		if halted, _ := sim.Halted(); halted {
			return sf.finish(sim)
		}
	}
}

func runScript(md *modalflag.Modes) (int, error) {
	md.NewMode()
	sf := addSimFlags(md)
	fps := md.AddInt("fps", 0, "frames per second (0 for unlimited)")
	program := md.AddString("program", "", "program file (ELF or raw image)")
	quiet := md.AddBool("quiet", false, "silence hart logging while the script is stepping")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	filename, err := programArg(md, "lua script")
	if err != nil {
		return 0, err
	}
	if *program == "" {
		return 0, fmt.Errorf("-program is required for %s mode", md)
	}

	sim, err := sf.create(*program)
	if err != nil {
		return 0, err
	}

	s := script.NewScript(sim, jtag.NewTAP(jtag.DefaultIDCode))
	defer s.Close()
	s.Quiet = *quiet

	if err := s.LoadFile(filename); err != nil {
		return 0, err
	}

	var lim *limiter.Limiter
	if *fps > 0 {
		lim, err = limiter.NewLimiter(*fps)
		if err != nil {
			return 0, err
		}
		defer lim.Stop()
	}

	if err := s.Run(context.Background(), lim); err != nil {
		return 0, err
	}

	return sf.finish(sim)
}

func perform(md *modalflag.Modes) error {
	md.NewMode()
	sf := addSimFlags(md)
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "run emulation through the profiler: CPU, MEM, TRACE, ALL (comma separated)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	filename, err := programArg(md, "program file")
	if err != nil {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	sim, err := sf.create(filename)
	if err != nil {
		return err
	}

	err = performance.Check(md.Output, prf, sim, *duration)
	if err != nil {
		return err
	}

	_, err = sf.finish(sim)
	return err
}

func serveJTAG(md *modalflag.Modes) error {
	md.NewMode()
	addr := md.AddString("addr", "localhost:9824", "address for the remote bitbang server")
	idcode := md.AddUint64("idcode", jtag.DefaultIDCode, "value of the IDCODE register")
	log := md.AddBool("log", false, "echo log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *log {
		logger.SetEcho(os.Stderr)
	}

	tap := jtag.NewTAP(uint32(*idcode))
	tap.OnUpdateDR = func(ir uint8, value uint64) {
		logger.Logf(logger.Allow, "jtag", "update DR (IR %#02x): %#x", ir, value)
	}

	bb, err := jtag.NewBitbang(tap, *addr)
	if err != nil {
		return err
	}
	bb.Start()
	defer bb.Stop()

	fmt.Fprintf(md.Output, "remote bitbang server on %s\n", bb.Addr())

	// the server runs until the program is interrupted
	select {}
}
