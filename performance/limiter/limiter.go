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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new Limiter can be created with (error handling removed for clarity):
//
//	lim, _ := limiter.NewLimiter(60)
//	defer lim.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		lim.Wait()
//		sim.RunOnce(budget)
//	}
package limiter

import (
	"sync/atomic"
	"time"

	"github.com/jetsetilly/rv64emu/curated"
)

// Sentinel error returned by NewLimiter().
const (
	BadRate = "limiter: rate must be greater than zero (%d)"
)

// this is a really rough attempt at rate limiting. probably only any good if
// base performance of the machine is well above the required rate.

// Limiter will trigger the requested number of times per second.
type Limiter struct {
	period atomic.Int64

	tick chan bool
	quit chan bool
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
func NewLimiter(perSecond int) (*Limiter, error) {
	lim := &Limiter{
		tick: make(chan bool),
		quit: make(chan bool),
	}
	if err := lim.SetLimit(perSecond); err != nil {
		return nil, err
	}

	// run ticker concurrently. the sleep period is adjusted on every
	// iteration to account for the time spent waiting for the tick to be
	// consumed
	go func() {
		adjusted := time.Duration(lim.period.Load())
		t := time.Now()
		for {
			select {
			case lim.tick <- true:
			case <-lim.quit:
				return
			}

			time.Sleep(adjusted)
			nt := time.Now()
			period := time.Duration(lim.period.Load())
			adjusted -= nt.Sub(t) - period
			if adjusted < 0 {
				adjusted = 0
			} else if adjusted > period {
				adjusted = period
			}
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the rate at which the Limiter triggers.
func (lim *Limiter) SetLimit(perSecond int) error {
	if perSecond <= 0 {
		return curated.Errorf(BadRate, perSecond)
	}
	lim.period.Store(int64(time.Second / time.Duration(perSecond)))
	return nil
}

// Wait will block until trigger.
func (lim *Limiter) Wait() {
	<-lim.tick
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen.
func (lim *Limiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		return false
	}
}

// Stop the limiter. It must not be used after stopping.
func (lim *Limiter) Stop() {
	close(lim.quit)
}
