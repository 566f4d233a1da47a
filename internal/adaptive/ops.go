package adaptive

import "quill/internal/ir"

//go:generate stringer -type=SpecializedKind -trimprefix=Op

// SpecializedKind names one operation in the adaptive tier's
// register-based specialized operation set.
type SpecializedKind uint8

const (
	OpUnsupported SpecializedKind = iota // untranslatable; reaching it at runtime forces deoptimization

	OpLoadImmediate
	OpLoadReg
	OpStoreReg
	OpMoveReg
	OpLoadVarFast
	OpStoreVarFast

	OpAddIntReg
	OpAddFloatReg
	OpSubtractIntReg
	OpSubtractFloatReg
	OpMultiplyIntReg
	OpMultiplyFloatReg
	OpDivideIntReg
	OpDivideFloatReg

	OpCompareIntReg
	OpCompareFloatReg
	OpCompareStringReg

	OpJumpIfFalseReg
	OpJumpIfTrueReg

	OpCallFunctionFast
	OpReturnReg
)

// SpecializedOp is one entry in a translated instruction stream. The
// stream is index-parallel with the IR it was translated from, so a
// jump's Target field addresses a specialized-stream index exactly as
// it addressed an IR offset — this is what lets JumpIfFalseReg and
// JumpIfTrueReg reuse the original branch targets unmodified.
type SpecializedOp struct {
	Kind SpecializedKind

	Dest uint8
	Src1 uint8
	Src2 uint8

	Imm        int64
	FImm       float64
	IsFloatImm bool
	Name       string
	Argc       int
	ArgRegs    []uint8
	Cmp        ir.OpCode // which comparison the Compare*Reg op services
	Target     int

	CacheVersion uint32

	// Original is the IR opcode this entry was translated from, kept
	// for trace output and deopt diagnostics on OpUnsupported entries.
	Original ir.OpCode
}
