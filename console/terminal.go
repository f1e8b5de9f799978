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
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/logger"
	"github.com/pkg/term/termios"
	"golang.org/x/term"
)

// Sentinel errors for the host terminal.
const (
	NoFile       = "console: terminal requires an input and an output file"
	TerminalMode = "console: %v"
)

// Geometry is the size of the host terminal in characters.
type Geometry struct {
	Cols int
	Rows int
}

// Terminal connects the host's input and output files to the guest. When
// the input is a terminal it is put into raw mode for the duration of the
// session so that every key press is sent to the guest.
type Terminal struct {
	input  *os.File
	output io.Writer
	fd     int

	isTerminal bool
	canonical  *term.State

	crit     sync.Mutex
	geometry Geometry

	stop     chan bool
	done     chan bool
	stopOnce sync.Once

	sigwinch chan os.Signal
	nonblock bool
}

// NewTerminal is the preferred method of initialisation for the Terminal
// type. Output is stripped of escape sequences if the output file is not a
// terminal.
func NewTerminal(input, output *os.File) (*Terminal, error) {
	if input == nil || output == nil {
		return nil, curated.Errorf(NoFile)
	}

	t := &Terminal{
		input:      input,
		output:     output,
		fd:         int(input.Fd()),
		isTerminal: term.IsTerminal(int(input.Fd())),
	}

	if !term.IsTerminal(int(output.Fd())) {
		t.output = NewStripper(output)
	}

	_ = t.UpdateGeometry()

	return t, nil
}

// IsTerminal returns true if the input file is a terminal.
func (t *Terminal) IsTerminal() bool {
	return t.isTerminal
}

// Geometry returns the most recently measured size of the terminal.
func (t *Terminal) Geometry() Geometry {
	t.crit.Lock()
	defer t.crit.Unlock()
	return t.geometry
}

// UpdateGeometry measures the size of the terminal. The geometry is left
// unchanged if the input is not a terminal.
func (t *Terminal) UpdateGeometry() error {
	if !t.isTerminal {
		return nil
	}

	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return curated.Errorf(TerminalMode, err)
	}

	t.crit.Lock()
	defer t.crit.Unlock()
	t.geometry = Geometry{Cols: cols, Rows: rows}

	return nil
}

// Flush discards any input that has not yet been read.
func (t *Terminal) Flush() error {
	if !t.isTerminal {
		return nil
	}
	if err := termios.Tcflush(t.input.Fd(), termios.TCIFLUSH); err != nil {
		return curated.Errorf(TerminalMode, err)
	}
	return nil
}

// Write implements the io.Writer interface.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.output.Write(p)
}

// Start reading from the input file. Each byte is passed to the receive
// function, which is called from a goroutine other than the caller's. Stop()
// must be called to restore the terminal.
func (t *Terminal) Start(receive func(b byte)) error {
	t.stop = make(chan bool)
	t.done = make(chan bool)
	t.stopOnce = sync.Once{}

	if t.isTerminal {
		old, err := term.MakeRaw(t.fd)
		if err != nil {
			return curated.Errorf(TerminalMode, err)
		}
		t.canonical = old

		_ = t.Flush()

		t.sigwinch = make(chan os.Signal, 1)
		signal.Notify(t.sigwinch, syscall.SIGWINCH)
	}

	if err := syscall.SetNonblock(t.fd, true); err != nil {
		t.restore()
		return curated.Errorf(TerminalMode, err)
	}
	t.nonblock = true

	go func() {
		defer close(t.done)
		buf := make([]byte, 16)

		for {
			select {
			case <-t.stop:
				return
			case <-t.sigwinch:
				_ = t.UpdateGeometry()
			default:
			}

			n, err := syscall.Read(t.fd, buf)
			for i := 0; i < n; i++ {
				receive(buf[i])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				logger.Logf(logger.Allow, "console", "input: %v", err)
				return
			}
			if n == 0 {
				// end of input
				return
			}
		}
	}()

	return nil
}

// Stop reading from the input file and restore the terminal to the mode it
// was in before Start() was called.
func (t *Terminal) Stop() {
	if t.stop == nil {
		return
	}
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
	t.restore()
}

func (t *Terminal) restore() {
	if t.sigwinch != nil {
		signal.Stop(t.sigwinch)
		t.sigwinch = nil
	}
	if t.nonblock {
		_ = syscall.SetNonblock(t.fd, false)
		t.nonblock = false
	}
	if t.canonical != nil {
		_ = term.Restore(t.fd, t.canonical)
		t.canonical = nil
	}
}
