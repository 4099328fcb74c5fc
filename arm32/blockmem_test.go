package arm32

import (
	"errors"
	"testing"

	"github.com/lookbusy1344/arm-lifter/ir"
)

// TestLdmAccessCountMatchesPopcount: for LDM/STM with
// register mask M, the number of memory accesses equals popcount(M).
func TestLdmAccessCountMatchesPopcount(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpLDM, Condition: CondAL,
		BlockMode: BlockIA,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R4},
			{Kind: OperRegisterList, List: RegList{Regs: []ir.RegID{ir.R0, ir.R1, ir.R2, ir.R3}}},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	puts := 0
	for _, s := range stmts {
		if s.Kind == ir.KPut && s.PutVal != nil && s.PutVal.Kind == ir.KLoadLE {
			puts++
		}
	}
	if puts != 4 {
		t.Errorf("expected 4 loads for a 4-register mask, got %d", puts)
	}
}

// TestLdmPCInListRoutesThroughBxWritePC checks bit 15 (PC) in the list
// routes through the interworking dispatch rather than a plain Put.
func TestLdmPCInListRoutesThroughBxWritePC(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpLDM, Condition: CondAL,
		BlockMode: BlockIA,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.SP},
			{Kind: OperRegisterList, List: RegList{Regs: []ir.RegID{ir.R0, ir.PC}}},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if countKind(stmts, ir.KCJmp) == 0 {
		t.Error("expected LDM with PC in the list to emit BxWritePC's CJmp dispatch")
	}
}

// TestStmBaseInListIsUndefinedWithWriteback checks the manual's
// UNPREDICTABLE-base rule: base register in the list plus write-back
// produces a SideEffect instead of a silent write-back.
func TestStmBaseInListIsUndefinedWithWriteback(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpSTM, Condition: CondAL,
		BlockMode: BlockIA, WriteBack: true,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegisterList, List: RegList{Regs: []ir.RegID{ir.R0, ir.R1}}},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	foundSideEffect := false
	for _, s := range stmts {
		if s.Kind == ir.KSideEffect && s.SideEffect == ir.SideEffectUndefinedInstr {
			foundSideEffect = true
		}
	}
	if !foundSideEffect {
		t.Error("expected SideEffect(UndefinedInstr) when the base register is also in the write-back list")
	}
	if findPut(stmts, ctxt.RegVar(ir.R0)) != nil {
		t.Error("write-back must be suppressed when the base register is in the list")
	}
}

func TestTableBranchLoadsByteAndDoublesOffset(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 2, Opcode: OpTBB, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegister, Reg: ir.R1},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if countKind(stmts, ir.KInterJmp) != 1 {
		t.Errorf("expected exactly one InterJmp for the table branch, got %d", countKind(stmts, ir.KInterJmp))
	}
}

func TestMulRejectsRdEqualsRm(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpMUL, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegister, Reg: ir.R1},
		},
	}
	_, err := Translate(inst, ctxt)
	if err == nil {
		t.Fatal("expected an error when Rd == Rm for MUL")
	}
}

func TestMrsMsrRoundTripShape(t *testing.T) {
	ctxt := newCtxt()
	mrs := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpMRS, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegister, Reg: ir.CPSR},
		},
	}
	stmts, err := Translate(mrs, ctxt)
	if err != nil {
		t.Fatalf("Translate MRS: %v", err)
	}
	if findPut(stmts, ctxt.RegVar(ir.R0)) == nil {
		t.Error("expected MRS to Put into Rd")
	}

	msr := &InstructionInfo{
		Address: 0x8004, ByteLen: 4, Opcode: OpMSR, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.CPSR},
			{Kind: OperImmediate, Imm: 0xF},
			{Kind: OperRegister, Reg: ir.R0},
		},
	}
	stmts2, err := Translate(msr, ctxt)
	if err != nil {
		t.Fatalf("Translate MSR: %v", err)
	}
	if findPut(stmts2, ctxt.RegVar(ir.CPSR)) == nil {
		t.Error("expected MSR to Put into CPSR")
	}
}

func TestMsrRejectsNonPSRTarget(t *testing.T) {
	ctxt := newCtxt()
	msr := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpMSR, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R5},
			{Kind: OperImmediate, Imm: 0xF},
			{Kind: OperRegister, Reg: ir.R0},
		},
	}
	_, err := Translate(msr, ctxt)
	if !errors.Is(err, ErrInvalidRegister) {
		t.Errorf("MSR to R5: err = %v, want ErrInvalidRegister", err)
	}
}

func TestBlRejectsMisalignedTarget(t *testing.T) {
	ctxt := newCtxt()
	bl := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpBL, Condition: CondAL,
		Operands: []Operand{{Kind: OperImmediate, Imm: 0x9002}},
	}
	_, err := Translate(bl, ctxt)
	if !errors.Is(err, ErrInvalidTargetArchMode) {
		t.Errorf("ARM-mode BL to a 2-aligned target: err = %v, want ErrInvalidTargetArchMode", err)
	}
}

func TestRorZeroImmediateShiftErrors(t *testing.T) {
	ctxt := newCtxt()
	mov := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpMOV, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperShift, Reg: ir.R1, Shift: ShiftOperand{Type: ShiftROR, Amount: ShiftAmount{Imm: 0}}},
		},
	}
	_, err := Translate(mov, ctxt)
	if !errors.Is(err, ErrInvalidShiftAmount) {
		t.Errorf("MOV R0, R1, ROR #0: err = %v, want ErrInvalidShiftAmount", err)
	}
}

func TestVFPArithEmitsUnsupportedSideEffect(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpVADD, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperSIMD, SIMD: SIMDReg{Double: false, Index: 0}},
			{Kind: OperSIMD, SIMD: SIMDReg{Double: false, Index: 1}},
			{Kind: OperSIMD, SIMD: SIMDReg{Double: false, Index: 2}},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	found := false
	for _, s := range stmts {
		if s.Kind == ir.KSideEffect && s.SideEffect == ir.SideEffectUnsupportedFP {
			found = true
		}
	}
	if !found {
		t.Error("expected VADD to emit SideEffect(UnsupportedFP)")
	}
	if countKind(stmts, ir.KPut) != 0 {
		t.Error("unsupported FP arithmetic should not emit any register writes")
	}
}

func TestUxtbZeroExtendsLowByte(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpUXTB, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegister, Reg: ir.R1},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	put := findPut(stmts, ctxt.RegVar(ir.R0))
	if put == nil {
		t.Fatal("expected Put(R0, ...)")
	}
	if put.Kind != ir.KCast || put.Cast != ir.CastZeroExtend {
		t.Errorf("UXTB result should be a zero-extend, got %v", put.Kind)
	}
}
