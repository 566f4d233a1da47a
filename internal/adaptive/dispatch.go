package adaptive

import (
	"quill/internal/ir"
	"quill/internal/value"
)

// runSpecialized executes a translated operation stream against regs.
// It returns (result, deoptimized, err): deoptimized is true whenever
// a type guard failed or an OpUnsupported entry was reached, in which
// case the caller must restart the whole module under baseline — the
// only supported recovery; there is no partial resume.
func (e *Engine) runSpecialized(ops []SpecializedOp) (result value.Value, deoptimized bool, err error) {
	regs := &e.registers
	pc := 0
	var last value.Value

	for pc < len(ops) {
		op := ops[pc]
		if e.tracer.Enabled() {
			e.tracer.Debugf("adaptive pc=%d op=%s", pc, op.Kind)
		}
		next := pc + 1

		switch op.Kind {
		case OpUnsupported:
			return value.Null, true, nil

		case OpLoadImmediate:
			if op.IsFloatImm {
				regs[op.Dest] = value.Float(op.FImm)
			} else {
				regs[op.Dest] = value.Int(op.Imm)
			}

		case OpLoadReg:
			v, ok := e.baseline.GetVar(op.Name)
			if !ok {
				v = value.Null
			}
			regs[op.Dest] = v
			if e.icEnabled() {
				e.cache.RecordVariable(op.Name, v.Kind().String())
			}

		case OpStoreReg:
			v := regs[op.Src1]
			e.baseline.SetVar(op.Name, v)
			if e.icEnabled() {
				e.cache.RecordVariable(op.Name, v.Kind().String())
			}

		case OpLoadVarFast:
			entry, ok := e.cache.Variable(op.Name)
			if !ok || entry.Version != op.CacheVersion {
				return value.Null, true, nil
			}
			v, ok := e.baseline.GetVar(op.Name)
			if !ok {
				v = value.Null
			}
			regs[op.Dest] = v
			entry.AccessCount++

		case OpStoreVarFast:
			v := regs[op.Src1]
			e.baseline.SetVar(op.Name, v)
			e.cache.RecordVariable(op.Name, v.Kind().String())

		case OpMoveReg:
			regs[op.Dest] = regs[op.Src1]

		case OpAddIntReg:
			a, b := regs[op.Src1], regs[op.Src2]
			if !a.IsInt() || !b.IsInt() {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Int(a.AsInt() + b.AsInt())
		case OpAddFloatReg:
			a, b := regs[op.Src1], regs[op.Src2]
			af, aok := a.ToNumber()
			bf, bok := b.ToNumber()
			if !aok || !bok {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Float(af + bf)

		case OpSubtractIntReg:
			a, b := regs[op.Src1], regs[op.Src2]
			if !a.IsInt() || !b.IsInt() {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Int(a.AsInt() - b.AsInt())
		case OpSubtractFloatReg:
			a, b := regs[op.Src1], regs[op.Src2]
			af, aok := a.ToNumber()
			bf, bok := b.ToNumber()
			if !aok || !bok {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Float(af - bf)

		case OpMultiplyIntReg:
			a, b := regs[op.Src1], regs[op.Src2]
			if !a.IsInt() || !b.IsInt() {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Int(a.AsInt() * b.AsInt())
		case OpMultiplyFloatReg:
			a, b := regs[op.Src1], regs[op.Src2]
			af, aok := a.ToNumber()
			bf, bok := b.ToNumber()
			if !aok || !bok {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Float(af * bf)

		case OpDivideIntReg:
			// The guard fails on non-Integer operands and on a zero
			// divisor, leaving the division-by-zero error to baseline; the
			// quotient is always Number, same as the stack interpreter's
			// Divide.
			a, b := regs[op.Src1], regs[op.Src2]
			if !a.IsInt() || !b.IsInt() || b.AsInt() == 0 {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Float(float64(a.AsInt()) / float64(b.AsInt()))
		case OpDivideFloatReg:
			a, b := regs[op.Src1], regs[op.Src2]
			af, aok := a.ToNumber()
			bf, bok := b.ToNumber()
			if !aok || !bok || bf == 0 {
				return value.Null, true, nil
			}
			regs[op.Dest] = value.Float(af / bf)

		case OpCompareIntReg, OpCompareFloatReg, OpCompareStringReg:
			a, b := regs[op.Src1], regs[op.Src2]
			v, guardOK := compareRegs(op.Cmp, a, b)
			if !guardOK {
				return value.Null, true, nil
			}
			regs[op.Dest] = v

		case OpJumpIfFalseReg:
			if !regs[op.Src1].IsTruthy() {
				next = op.Target
			}
		case OpJumpIfTrueReg:
			if regs[op.Src1].IsTruthy() {
				next = op.Target
			}

		case OpReturnReg:
			if e.baseline.InFrame() {
				// A specialized run never pushes a frame itself, so an
				// active frame here means a deoptimized call returned
				// control mid-stream in a way this tier can't represent;
				// hand the rest back to baseline.
				return value.Null, true, nil
			}
			return regs[op.Src1], false, nil

		case OpCallFunctionFast:
			entry, known := e.cache.Callable(op.Name)
			isBuiltin := e.baseline.IsBuiltin(op.Name)
			if !isBuiltin {
				// User-function calls need a real call frame; the adaptive
				// tier only fast-paths builtins, so this deoptimizes and
				// lets baseline carry out the call.
				return value.Null, true, nil
			}
			args := make([]value.Value, len(op.ArgRegs))
			for n, r := range op.ArgRegs {
				args[n] = regs[r]
			}
			result, err := e.baseline.CallBuiltin(op.Name, args)
			if err != nil {
				return value.Null, false, err
			}
			if e.icEnabled() {
				if known {
					entry.CallCount++
				} else {
					e.cache.RecordCallable(op.Name, -1, op.Argc, true)
				}
			}
			regs[op.Dest] = result

		default:
			return value.Null, true, nil
		}

		if writesDest(op.Kind) {
			last = regs[op.Dest]
		}
		pc = next
	}

	return last, false, nil
}

// writesDest reports whether kind leaves its result in op.Dest, so the
// dispatch loop can track the stream's "last value produced" the same
// way the baseline interpreter tracks its operand stack's top.
func writesDest(kind SpecializedKind) bool {
	switch kind {
	case OpLoadImmediate, OpLoadReg, OpLoadVarFast, OpMoveReg,
		OpAddIntReg, OpAddFloatReg, OpSubtractIntReg, OpSubtractFloatReg,
		OpMultiplyIntReg, OpMultiplyFloatReg, OpDivideIntReg, OpDivideFloatReg,
		OpCompareIntReg, OpCompareFloatReg, OpCompareStringReg, OpCallFunctionFast:
		return true
	default:
		return false
	}
}

// compareRegs evaluates the comparison cmp names between a and b.
// Equal/NotEqual fall back to value.Equal's cross-type rules even when
// Compare reports no total order (e.g. comparing an array to a map);
// the four ordering comparisons require Compare to succeed, and fail
// the type guard otherwise.
func compareRegs(cmp ir.OpCode, a, b value.Value) (value.Value, bool) {
	if cmp == ir.Equal || cmp == ir.NotEqual {
		eq := value.Equal(a, b)
		if cmp == ir.Equal {
			return value.Bool(eq), true
		}
		return value.Bool(!eq), true
	}

	c, ok := value.Compare(a, b)
	if !ok {
		return value.Null, false
	}
	switch cmp {
	case ir.Less:
		return value.Bool(c < 0), true
	case ir.LessEqual:
		return value.Bool(c <= 0), true
	case ir.Greater:
		return value.Bool(c > 0), true
	case ir.GreaterEqual:
		return value.Bool(c >= 0), true
	default:
		return value.Null, false
	}
}
