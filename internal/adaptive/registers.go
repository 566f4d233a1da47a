package adaptive

import "quill/internal/value"

// NumRegisters is the fixed register file size.
const NumRegisters = 256

// RegisterFile is the adaptive tier's 256-slot register bank. All
// slots start Null and are reset to Null at the start of every
// specialized run.
type RegisterFile [NumRegisters]value.Value

func (rf *RegisterFile) Reset() {
	for i := range rf {
		rf[i] = value.Null
	}
}

// Allocator is a free-list register allocator. Allocations may name
// themselves to a variable for best-effort reuse tracking; when the
// free list is exhausted it falls back to a wrapping round-robin
// counter, trading register reuse for never failing an allocation.
type Allocator struct {
	free    []uint8
	named   map[string]uint8
	next    uint8
	started bool
}

// NewAllocator returns an Allocator with all 256 registers free.
func NewAllocator() *Allocator {
	a := &Allocator{named: make(map[string]uint8)}
	a.Reset()
	return a
}

// Reset returns the allocator to its just-constructed state: all 256
// registers free, no named bindings, next-register counter at zero.
func (a *Allocator) Reset() {
	a.free = a.free[:0]
	for i := 255; i >= 0; i-- {
		a.free = append(a.free, uint8(i))
	}
	for k := range a.named {
		delete(a.named, k)
	}
	a.next = 0
	a.started = true
}

// FreeCount reports how many registers are currently unallocated.
func (a *Allocator) FreeCount() int { return len(a.free) }

// Next allocates and returns the next free register index. name, if
// non-empty, records a best-effort variable -> register binding.
func (a *Allocator) Next(name string) uint8 {
	var reg uint8
	if n := len(a.free); n > 0 {
		reg = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		reg = a.next
		a.next++
	}
	if name != "" {
		a.named[name] = reg
	}
	return reg
}

// Lookup returns the register bound to name by a previous Next call, if
// any.
func (a *Allocator) Lookup(name string) (uint8, bool) {
	r, ok := a.named[name]
	return r, ok
}
