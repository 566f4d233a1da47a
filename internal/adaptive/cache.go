package adaptive

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// VariableCacheEntry records the adaptive tier's last-observed shape
// for one variable name: its value kind, a monotonically increasing
// version that bumps whenever the observed kind changes, and an access
// counter used for diagnostics.
type VariableCacheEntry struct {
	ObservedKind string
	Version      uint32
	AccessCount  uint32
}

// CallableCacheEntry records the adaptive tier's last-observed shape
// for one callee name: the callee's IR offset (for user functions),
// whether it resolved to a builtin, and how many times it has been
// invoked through this cache entry.
type CallableCacheEntry struct {
	Offset     int
	ParamCount int
	IsBuiltin  bool
	CallCount  uint32
}

// InlineCache holds the adaptive tier's three inline caches. The
// property cache is reserved for a future object/property model the
// core engine does not implement; it is tracked here only so Stats can
// report a stable (always zero) count for it.
type InlineCache struct {
	variables  map[string]*VariableCacheEntry
	callables  map[string]*CallableCacheEntry
	properties map[string]struct{}
}

func NewInlineCache() *InlineCache {
	return &InlineCache{
		variables:  make(map[string]*VariableCacheEntry),
		callables:  make(map[string]*CallableCacheEntry),
		properties: make(map[string]struct{}),
	}
}

// Variable returns the cache entry for name, if any.
func (c *InlineCache) Variable(name string) (*VariableCacheEntry, bool) {
	e, ok := c.variables[name]
	return e, ok
}

// RecordVariable updates (or creates) name's cache entry, bumping the
// version when the observed kind changes from what was last recorded.
// A fresh entry starts at version 0; versions only ever increase.
func (c *InlineCache) RecordVariable(name, kind string) *VariableCacheEntry {
	e, ok := c.variables[name]
	if !ok {
		e = &VariableCacheEntry{ObservedKind: kind}
		c.variables[name] = e
	} else if e.ObservedKind != kind {
		e.ObservedKind = kind
		e.Version++
	}
	e.AccessCount++
	return e
}

// Invalidate bumps name's version so every specialized load holding the
// old version guard-fails on its next execution. Unknown names are a
// no-op.
func (c *InlineCache) Invalidate(name string) {
	if e, ok := c.variables[name]; ok {
		e.Version++
	}
}

// Callable returns the cache entry for name, if any.
func (c *InlineCache) Callable(name string) (*CallableCacheEntry, bool) {
	e, ok := c.callables[name]
	return e, ok
}

// RecordCallable updates (or creates) name's callable cache entry.
func (c *InlineCache) RecordCallable(name string, offset, paramCount int, isBuiltin bool) *CallableCacheEntry {
	e, ok := c.callables[name]
	if !ok {
		e = &CallableCacheEntry{Offset: offset, ParamCount: paramCount, IsBuiltin: isBuiltin}
		c.callables[name] = e
	}
	e.CallCount++
	return e
}

// VariableNames returns every cached variable name in sorted order, for
// deterministic diagnostics output (trace dumps, test assertions).
func (c *InlineCache) VariableNames() []string {
	names := maps.Keys(c.variables)
	slices.Sort(names)
	return names
}

func (c *InlineCache) VariableEntryCount() int { return len(c.variables) }
func (c *InlineCache) CallableEntryCount() int { return len(c.callables) }
func (c *InlineCache) PropertyEntryCount() int { return len(c.properties) }

// SpecializationCache maps an IR region's fingerprint to its translated
// specialized operation stream.
type SpecializationCache struct {
	entries map[uint64][]SpecializedOp
}

func NewSpecializationCache() *SpecializationCache {
	return &SpecializationCache{entries: make(map[uint64][]SpecializedOp)}
}

func (c *SpecializationCache) Get(fingerprint uint64) ([]SpecializedOp, bool) {
	ops, ok := c.entries[fingerprint]
	return ops, ok
}

func (c *SpecializationCache) Put(fingerprint uint64, ops []SpecializedOp) {
	c.entries[fingerprint] = ops
}

// Drop evicts a fingerprint's entry. The engine drops a sequence after
// it deoptimizes so the next run re-translates against the type
// feedback the deoptimized baseline run just collected.
func (c *SpecializationCache) Drop(fingerprint uint64) {
	delete(c.entries, fingerprint)
}

func (c *SpecializationCache) Len() int { return len(c.entries) }
