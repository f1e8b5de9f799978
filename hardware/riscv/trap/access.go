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

package trap

// AccessType is the kind of memory access being made. It selects which of
// the fault variants is raised when the access fails.
type AccessType int

// List of valid AccessType values. An Amo access is a read-modify-write and
// faults as a store.
const (
	Fetch AccessType = iota
	Load
	Store
	Amo
)

func (a AccessType) String() string {
	switch a {
	case Fetch:
		return "fetch"
	case Load:
		return "load"
	case Store:
		return "store"
	case Amo:
		return "amo"
	}
	return "unknown access"
}

// PageFault returns the page fault variant for the access.
func (a AccessType) PageFault(addr uint64) Trap {
	switch a {
	case Fetch:
		return InstructionPageFault(addr)
	case Load:
		return LoadPageFault(addr)
	}
	return StorePageFault(addr)
}

// AccessFault returns the access fault variant for the access.
func (a AccessType) AccessFault(addr uint64) Trap {
	switch a {
	case Fetch:
		return InstructionAccessFault(addr)
	case Load:
		return LoadAccessFault(addr)
	}
	return StoreAccessFault(addr)
}

// Misaligned returns the address misaligned variant for the access.
func (a AccessType) Misaligned(addr uint64) Trap {
	switch a {
	case Fetch:
		return InstructionAddressMisaligned(addr)
	case Load:
		return LoadAddressMisaligned(addr)
	}
	return StoreAddressMisaligned(addr)
}
