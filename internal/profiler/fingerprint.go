package profiler

import (
	"encoding/binary"
	"math"

	"quill/internal/ir"
)

// FNV-1a 64-bit constants.
const (
	fnvOffsetBasis uint64 = 14695981039346656037
	fnvPrime       uint64 = 1099511628211
)

func fnvByte(h uint64, b byte) uint64 {
	h ^= uint64(b)
	h *= fnvPrime
	return h
}

func fnvBytes(h uint64, bs []byte) uint64 {
	for _, b := range bs {
		h = fnvByte(h, b)
	}
	return h
}

func fnvString(h uint64, s string) uint64 {
	return fnvBytes(h, []byte(s))
}

func fnvUint64(h uint64, v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return fnvBytes(h, buf[:])
}

// Fingerprint computes a stable 64-bit hash over an IR region's
// instruction tags, embedded immediates (PushInteger value, PushNumber
// bit pattern, PushString text, Call name and arity), the region's
// length, and the current optimization level. Two IR sequences that
// differ in any observable way never collide in practice, though the
// hash is not cryptographic.
func Fingerprint(instrs []ir.Instruction, start, end int, optLevel int) uint64 {
	h := fnvOffsetBasis
	h = fnvByte(h, byte(optLevel))
	h = fnvUint64(h, uint64(end-start))

	for _, instr := range instrs[start:end] {
		h = fnvByte(h, byte(instr.Op))
		switch instr.Op {
		case ir.PushInteger:
			h = fnvUint64(h, uint64(instr.Int))
		case ir.PushNumber:
			h = fnvUint64(h, math.Float64bits(instr.Float))
		case ir.PushString:
			h = fnvString(h, instr.Str)
		case ir.PushBoolean:
			if instr.Bool {
				h = fnvByte(h, 1)
			} else {
				h = fnvByte(h, 0)
			}
		case ir.Call:
			h = fnvString(h, instr.Str)
			h = fnvUint64(h, uint64(instr.Argc))
		case ir.LoadVar, ir.StoreVar, ir.SetGlobal, ir.DefineFunction, ir.Label:
			h = fnvString(h, instr.Str)
		case ir.Jump, ir.JumpIfFalse, ir.JumpIfTrue:
			h = fnvUint64(h, uint64(instr.Target))
		}
	}
	return h
}

// FingerprintModule computes the fingerprint over a module's entire
// instruction sequence — the granularity the adaptive tier's execute
// entry point uses to key the specialization cache when a whole IR
// module is handed in (as opposed to the finer per-region granularity
// available to an in-process specializer).
func FingerprintModule(mod *ir.Module, optLevel int) uint64 {
	return Fingerprint(mod.Instructions, 0, len(mod.Instructions), optLevel)
}
