// Package profiler implements Tier 0/1's shared execution-profiling
// state: per-offset execution counters, per-call-site counters, type
// feedback, the specialization-eligibility test, and the IR-region
// fingerprint used to key the specialization cache.
package profiler

import (
	"quill/internal/ir"
	"quill/internal/value"
)

const (
	// DefaultSpecializationThreshold is the per-offset execution count
	// at or above which a region becomes eligible for specialization even
	// without meeting the arithmetic/variable density tests.
	DefaultSpecializationThreshold = 10

	// dominantTypeFraction is the share of samples a single type must
	// account for before it is treated as "the" type at an offset.
	dominantTypeFraction = 0.8
)

// TypeProfile tracks the variant distribution observed at one IR
// offset across arithmetic/comparison instructions.
type TypeProfile struct {
	IntCount    uint32
	FloatCount  uint32
	StringCount uint32
	OtherCount  uint32
	TotalCount  uint32
}

func (p *TypeProfile) record(v value.Value) {
	p.TotalCount++
	switch {
	case v.IsInt():
		p.IntCount++
	case v.IsFloat():
		p.FloatCount++
	case v.IsString():
		p.StringCount++
	default:
		p.OtherCount++
	}
}

// DominantType returns the variant ("int"/"float"/"string") accounting
// for at least 80% of samples, or ("", false) if the site is too
// polymorphic or has no samples yet.
func (p *TypeProfile) DominantType() (string, bool) {
	if p.TotalCount == 0 {
		return "", false
	}
	threshold := float64(p.TotalCount) * dominantTypeFraction
	switch {
	case float64(p.IntCount) >= threshold && p.IntCount > 0:
		return "int", true
	case float64(p.FloatCount) >= threshold && p.FloatCount > 0:
		return "float", true
	case float64(p.StringCount) >= threshold && p.StringCount > 0:
		return "string", true
	default:
		return "", false
	}
}

// Counters is the profiler's accumulated state for one engine instance.
// It persists across runs of the same engine, which is both the
// optimization and the deoptimization-trigger source.
type Counters struct {
	execCounts     map[int]uint32
	callSiteCounts map[string]uint32
	typeProfiles   map[int]*TypeProfile

	threshold uint32
}

// New returns empty Counters with the default specialization threshold.
func New() *Counters {
	return &Counters{
		execCounts:     make(map[int]uint32),
		callSiteCounts: make(map[string]uint32),
		typeProfiles:   make(map[int]*TypeProfile),
		threshold:      DefaultSpecializationThreshold,
	}
}

// RecordExecution increments the per-offset execution count and reports
// whether it has reached the specialization threshold.
func (c *Counters) RecordExecution(pc int) bool {
	c.execCounts[pc]++
	return c.execCounts[pc] >= c.threshold
}

// RecordCall increments the per-call-site execution count.
func (c *Counters) RecordCall(name string) {
	c.callSiteCounts[name]++
}

// RecordType samples an operand's variant at pc for type feedback.
func (c *Counters) RecordType(pc int, v value.Value) {
	p, ok := c.typeProfiles[pc]
	if !ok {
		p = &TypeProfile{}
		c.typeProfiles[pc] = p
	}
	p.record(v)
}

// TypeProfileAt returns the recorded type profile at pc, if any.
func (c *Counters) TypeProfileAt(pc int) (*TypeProfile, bool) {
	p, ok := c.typeProfiles[pc]
	return p, ok
}

// ExecutionCount returns the recorded execution count at pc.
func (c *Counters) ExecutionCount(pc int) uint32 {
	return c.execCounts[pc]
}

// CallSiteCount returns the recorded call count for name.
func (c *Counters) CallSiteCount(name string) uint32 {
	return c.callSiteCounts[name]
}

// isArithmetic reports whether op is one of the arithmetic opcodes the
// specialization-trigger density test counts.
func isArithmetic(op ir.OpCode) bool {
	switch op {
	case ir.Add, ir.Subtract, ir.Multiply, ir.Divide, ir.Modulo, ir.Power, ir.FloorDiv, ir.Negate:
		return true
	default:
		return false
	}
}

func isVariableOp(op ir.OpCode) bool {
	return op == ir.LoadVar || op == ir.StoreVar || op == ir.SetGlobal
}

// ShouldSpecialize implements the specialization trigger: a region
// [start, end) is eligible when its length is at least 5 instructions
// and it contains at least 2 arithmetic instructions, or at least 3
// variable instructions, or its start offset's execution count has
// reached the threshold.
func (c *Counters) ShouldSpecialize(instrs []ir.Instruction, start, end int) bool {
	if end-start < 5 {
		return false
	}
	arithmetic, variables := 0, 0
	for _, instr := range instrs[start:end] {
		if isArithmetic(instr.Op) {
			arithmetic++
		}
		if isVariableOp(instr.Op) {
			variables++
		}
	}
	if arithmetic >= 2 || variables >= 3 {
		return true
	}
	return c.ExecutionCount(start) >= c.threshold
}
