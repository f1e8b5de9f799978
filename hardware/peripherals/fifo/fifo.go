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

// Package fifo implements an unbounded first-in first-out queue. Neither end
// ever blocks. It is used for the UART transmit and receive paths, where
// the guest and the host run at unrelated rates.
package fifo

// Unbounded is a FIFO queue with no capacity limit. The zero value is an
// empty queue ready for use.
type Unbounded[T any] struct {
	items []T
	head  int
}

// Push adds an item to the back of the queue.
func (f *Unbounded[T]) Push(v T) {
	f.items = append(f.items, v)
}

// Pop removes the item at the front of the queue. The second return value is
// false if the queue is empty.
func (f *Unbounded[T]) Pop() (T, bool) {
	var zero T
	if f.head >= len(f.items) {
		return zero, false
	}
	v := f.items[f.head]
	f.items[f.head] = zero
	f.head++

	// reclaim space once the consumed prefix dominates the slice
	if f.head == len(f.items) {
		f.items = f.items[:0]
		f.head = 0
	} else if f.head > 64 && f.head*2 > len(f.items) {
		n := copy(f.items, f.items[f.head:])
		f.items = f.items[:n]
		f.head = 0
	}

	return v, true
}

// Peek returns the item at the front of the queue without removing it.
func (f *Unbounded[T]) Peek() (T, bool) {
	if f.head >= len(f.items) {
		var zero T
		return zero, false
	}
	return f.items[f.head], true
}

// Len returns the number of items in the queue.
func (f *Unbounded[T]) Len() int {
	return len(f.items) - f.head
}

// Drain removes and returns every item in the queue.
func (f *Unbounded[T]) Drain() []T {
	d := make([]T, f.Len())
	copy(d, f.items[f.head:])
	f.items = f.items[:0]
	f.head = 0
	return d
}
