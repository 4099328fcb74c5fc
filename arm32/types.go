// Package arm32 is the ARM32 lifter: it translates a decoded InstructionInfo
// into a sequence of IR statements (package ir), faithfully reproducing the
// ARM architecture reference manual's condition codes, carry/overflow,
// shift/rotate with carry-out, PSR bit layout, PC-write/interworking rules,
// addressing modes with write-back, block load/store, and sign/zero
// extension. It never evaluates IR, never models memory beyond emitting
// typed loads/stores, and never optimizes.
package arm32

import (
	"github.com/lookbusy1344/arm-lifter/bitvector"
	"github.com/lookbusy1344/arm-lifter/ir"
)

// Opcode enumerates every instruction mnemonic this lifter can translate.
// Dispatch (dispatch.go) is a flat switch on Opcode; an opcode without a
// case there produces NotImplementedIRError.
type Opcode int

const (
	OpInvalid Opcode = iota

	// Data processing
	OpAND
	OpEOR
	OpSUB
	OpRSB
	OpADD
	OpADC
	OpSBC
	OpRSC
	OpTST
	OpTEQ
	OpCMP
	OpCMN
	OpORR
	OpMOV
	OpBIC
	OpMVN

	// Multiply
	OpMUL
	OpMLA

	// Load/store single
	OpLDR
	OpLDRB
	OpLDRH
	OpLDRSB
	OpLDRSH
	OpSTR
	OpSTRB
	OpSTRH

	// Load/store multiple
	OpLDM
	OpSTM
	OpPUSH
	OpPOP

	// Branch family
	OpB
	OpBL
	OpBX
	OpBLX

	// PSR transfer
	OpMRS
	OpMSR

	// Bit-field / extend
	OpUBFX
	OpBFI
	OpBFC
	OpUXTB
	OpUXTAB
	OpSXTH

	// Table branch
	OpTBB
	OpTBH

	// VFP memory
	OpVLDR
	OpVSTR
	OpVPUSH
	OpVPOP

	// VFP arithmetic (unsupported: SideEffect(UnsupportedFP) only)
	OpVADD
	OpVMUL
	OpVDIV
	OpVMOV
	OpVCMP
	OpVCVT
	OpVMLS
)

func (o Opcode) String() string {
	names := map[Opcode]string{
		OpAND: "AND", OpEOR: "EOR", OpSUB: "SUB", OpRSB: "RSB", OpADD: "ADD",
		OpADC: "ADC", OpSBC: "SBC", OpRSC: "RSC", OpTST: "TST", OpTEQ: "TEQ",
		OpCMP: "CMP", OpCMN: "CMN", OpORR: "ORR", OpMOV: "MOV", OpBIC: "BIC",
		OpMVN: "MVN", OpMUL: "MUL", OpMLA: "MLA",
		OpLDR: "LDR", OpLDRB: "LDRB", OpLDRH: "LDRH", OpLDRSB: "LDRSB",
		OpLDRSH: "LDRSH", OpSTR: "STR", OpSTRB: "STRB", OpSTRH: "STRH",
		OpLDM: "LDM", OpSTM: "STM", OpPUSH: "PUSH", OpPOP: "POP",
		OpB: "B", OpBL: "BL", OpBX: "BX", OpBLX: "BLX",
		OpMRS: "MRS", OpMSR: "MSR",
		OpUBFX: "UBFX", OpBFI: "BFI", OpBFC: "BFC",
		OpUXTB: "UXTB", OpUXTAB: "UXTAB", OpSXTH: "SXTH",
		OpTBB: "TBB", OpTBH: "TBH",
		OpVLDR: "VLDR", OpVSTR: "VSTR", OpVPUSH: "VPUSH", OpVPOP: "VPOP",
		OpVADD: "VADD", OpVMUL: "VMUL", OpVDIV: "VDIV", OpVMOV: "VMOV",
		OpVCMP: "VCMP", OpVCVT: "VCVT", OpVMLS: "VMLS",
	}
	if s, ok := names[o]; ok {
		return s
	}
	return "INVALID"
}

// Condition is the optional condition code attached to an instruction.
type Condition int

const (
	CondAL Condition = iota // Always
	CondEQ
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondUN
)

// Sign distinguishes an addressing-mode offset's direction.
type Sign int

const (
	Plus Sign = iota
	Minus
)

// ShiftKind tags the five ARM shift/rotate operators.
type ShiftKind int

const (
	ShiftLSL ShiftKind = iota
	ShiftLSR
	ShiftASR
	ShiftROR
	ShiftRRX
)

// ShiftAmount is either a compile-time immediate or a register holding the
// runtime amount.
type ShiftAmount struct {
	IsReg bool
	Imm   int
	Reg   ir.RegID
}

// ShiftOperand pairs a shift type with its amount, attached to a register
// operand.
type ShiftOperand struct {
	Type   ShiftKind
	Amount ShiftAmount
}

// AddrModeKind tags the closed set of memory addressing-mode shapes.
type AddrModeKind int

const (
	AddrImmOffset AddrModeKind = iota
	AddrRegOffset
	AddrLiteral
	AddrPreIndexed
	AddrPostIndexed
)

// AddrMode is the memory operand shape. Exactly one
// of ImmOffset/RegOffset/Literal is meaningful per Kind; PreIndexed and
// PostIndexed reuse the offset fields below (register-based when
// IsRegOffset is set, immediate otherwise), with Kind itself marking the
// write-back behavior.
type AddrMode struct {
	Kind AddrModeKind

	Base ir.RegID // Rn

	// AddrImmOffset / the offset half of Pre/PostIndexed
	HasOffset bool
	OffSign   Sign
	OffImm    int64

	// AddrRegOffset / the offset half of Pre/PostIndexed when register-based
	IsRegOffset bool
	OffReg      ir.RegID
	OffShift    *ShiftOperand // nil means "no shift" (LSL #0)

	// AddrLiteral
	LiteralImm int64
}

// RegList is a set of architectural registers, in ARM register-number order
// (R0=bit 0 .. PC=bit 15), as used by LDM/STM/PUSH/POP/VPUSH/VPOP.
type RegList struct {
	Regs []ir.RegID
}

// Mask renders the register list as a 16-bit bitmask
// (R0=bit0 .. R7=bit7, R8=bit8, SB=bit9, SL=bit10, FP=bit11, IP=bit12,
// SP=bit13, LR=bit14, PC=bit15). This lifter treats R9-R12 uniformly with
// their ARM register numbers, which already match SB/SL/FP/IP.
func (r RegList) Mask() uint16 {
	var m uint16
	for _, reg := range r.Regs {
		m |= 1 << uint(reg)
	}
	return m
}

// SIMDReg identifies a single- or double-precision VFP register.
type SIMDReg struct {
	Double bool // true: D0-D31 (64-bit); false: S0-S31 (32-bit)
	Index  int
}

// OperandKind tags the closed set of operand-tuple shapes.
type OperandKind int

const (
	OperRegister OperandKind = iota
	OperRegisterList
	OperImmediate
	OperMemory
	OperShift
	OperSIMD
)

// Operand is one element of an instruction's small tagged operand tuple
// (zero to four per InstructionInfo).
type Operand struct {
	Kind OperandKind

	Reg      ir.RegID
	List     RegList
	Imm      int64
	Mem      AddrMode
	Shift    ShiftOperand
	SIMD     SIMDReg
	SIMDList []SIMDReg
}

// BlockAddrMode tags the four LDM/STM start-address/direction variants.
type BlockAddrMode int

const (
	BlockIA BlockAddrMode = iota // increment after (also PUSH/POP's natural direction)
	BlockIB                      // increment before
	BlockDA                      // decrement after
	BlockDB                      // decrement before
)

// InstructionInfo is the external decoder's output contract: address, byte
// length, opcode, operating mode, optional condition, and zero-to-four
// operands. The lifter treats this as read-only/borrowed.
//
// SetFlags doubles as the LDM/STM S-bit (exception-return CPSR restore) for
// those opcodes.
type InstructionInfo struct {
	Address   uint64
	ByteLen   uint32
	Opcode    Opcode
	Mode      ir.Mode
	Condition Condition
	SetFlags  bool
	BlockMode BlockAddrMode
	WriteBack bool
	Operands  []Operand
}

// imm32 renders an Immediate operand as a 32-bit bitvector constant.
func imm32(v int64) bitvector.Value {
	return bitvector.MustOfUint64(uint64(uint32(v)), 32)
}
