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

//go:build statsview
// +build statsview

package statsview

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/jetsetilly/rv64emu/logger"
)

var (
	crit sync.Mutex
	mgr  *statsview.ViewManager
)

// Launch a new goroutine running the statsview server. Launching more than
// once has no effect.
func Launch(output io.Writer, address string) {
	crit.Lock()
	defer crit.Unlock()

	if mgr != nil {
		return
	}

	if address == "" {
		address = DefaultAddress
	}

	viewer.SetConfiguration(viewer.WithAddr(address))
	mgr = statsview.New()
	go mgr.Start()

	logger.Logf(logger.Allow, "statsview", "launched on %s", address)
	output.Write([]byte(fmt.Sprintf("stats server available at %s%s\n", address, url)))
}

// Stop the statsview server.
func Stop() {
	crit.Lock()
	defer crit.Unlock()

	if mgr != nil {
		mgr.Stop()
		mgr = nil
	}
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
