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

package jtag

import (
	"bufio"
	"io"
	"net"
	"sync"

	"github.com/jetsetilly/rv64emu/curated"
	"github.com/jetsetilly/rv64emu/logger"
)

// Sentinel errors for the remote bitbang server.
const (
	BitbangListen   = "bitbang: %v"
	BitbangProtocol = "bitbang: unexpected command byte (%#02x)"
)

// Bitbang serves OpenOCD's remote_bitbang protocol, driving a TAP with the
// TCK, TMS and TDI values written by the client.
type Bitbang struct {
	listener net.Listener
	done     chan struct{}

	// the TAP is shared between connections
	crit sync.Mutex
	tap  *TAP
	tck  bool

	// blink and reset state reported by the client
	Blink bool
	TRST  bool
	SRST  bool
}

// NewBitbang is the preferred method of initialisation for the Bitbang type.
// The address is of the form accepted by net.Listen for "tcp".
func NewBitbang(tap *TAP, address string) (*Bitbang, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, curated.Errorf(BitbangListen, err)
	}
	return &Bitbang{
		listener: ln,
		done:     make(chan struct{}),
		tap:      tap,
	}, nil
}

// Addr returns the address the server is listening on.
func (bb *Bitbang) Addr() net.Addr {
	return bb.listener.Addr()
}

// Start accepting connections in a goroutine.
func (bb *Bitbang) Start() {
	logger.Logf(logger.Allow, "jtag", "remote bitbang listening on %s", bb.listener.Addr())
	go bb.acceptLoop()
}

// Stop closes the listener and waits for the accept loop to exit.
func (bb *Bitbang) Stop() {
	_ = bb.listener.Close()
	<-bb.done
}

func (bb *Bitbang) acceptLoop() {
	defer close(bb.done)
	for {
		conn, err := bb.listener.Accept()
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			logger.Logf(logger.Allow, "jtag", "connection from %s", conn.RemoteAddr())
			err := bb.Serve(conn)
			if err != nil {
				logger.Logf(logger.Allow, "jtag", "%v", err)
			}
		}()
	}
}

// Serve processes commands from the reader until it is exhausted or the
// quit command is received. Responses to read commands are written to the
// writer.
func (bb *Bitbang) Serve(rw io.ReadWriter) error {
	r := bufio.NewReader(rw)
	for {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return curated.Errorf(BitbangListen, err)
		}

		quit, err := bb.command(c, rw)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (bb *Bitbang) command(c byte, w io.Writer) (bool, error) {
	bb.crit.Lock()
	defer bb.crit.Unlock()

	switch c {
	case 'B':
		bb.Blink = true
	case 'b':
		bb.Blink = false
	case 'R':
		v := byte('0')
		if bb.tap.TDO() {
			v = '1'
		}
		if _, err := w.Write([]byte{v}); err != nil {
			return false, curated.Errorf(BitbangListen, err)
		}
	case 'Q':
		return true, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := c - '0'
		tck := v&0x04 == 0x04
		tms := v&0x02 == 0x02
		tdi := v&0x01 == 0x01
		if tck && !bb.tck {
			bb.tap.Clock(tms, tdi)
		}
		bb.tck = tck
	case 'r', 's', 't', 'u':
		v := c - 'r'
		bb.TRST = v&0x02 == 0x02
		bb.SRST = v&0x01 == 0x01
		if bb.TRST {
			bb.tap.Reset()
		}
	default:
		return false, curated.Errorf(BitbangProtocol, c)
	}

	return false, nil
}
