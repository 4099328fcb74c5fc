package arm32

import (
	"testing"

	"github.com/lookbusy1344/arm-lifter/ir"
)

func newCtxt() *ir.RegisterFile {
	return ir.NewRegisterFile(ir.ModeARM)
}

// findPut returns the first Put statement targeting v, or nil.
func findPut(stmts []ir.Stmt, v ir.Var) *ir.Expr {
	for _, s := range stmts {
		if s.Kind == ir.KPut && s.PutVar == v {
			return s.PutVal
		}
	}
	return nil
}

func countKind(stmts []ir.Stmt, k ir.StmtKind) int {
	n := 0
	for _, s := range stmts {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// TestMovImmediateAL: MOV R0, #5 (cond AL)
// emits exactly one ISMark, one Put(R0, const(5:32)), one IEMark, and no
// CJmp from the condition gate.
func TestMovImmediateAL(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpMOV, Condition: CondAL,
		Operands: []Operand{{Kind: OperRegister, Reg: ir.R0}, {Kind: OperImmediate, Imm: 5}},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if stmts[0].Kind != ir.KISMark {
		t.Fatalf("first statement = %v, want ISMark", stmts[0].Kind)
	}
	last := stmts[len(stmts)-1]
	if last.Kind != ir.KIEMark {
		t.Fatalf("last statement = %v, want IEMark", last.Kind)
	}
	if countKind(stmts, ir.KCJmp) != 0 {
		t.Errorf("AL condition must not emit a CJmp, got %d", countKind(stmts, ir.KCJmp))
	}
	put := findPut(stmts, ctxt.RegVar(ir.R0))
	if put == nil {
		t.Fatal("expected a Put(R0, ...)")
	}
	if put.Kind != ir.KConst || put.Const.ToUint64() != 5 {
		t.Errorf("Put(R0) value = %v, want const 5", put)
	}
}

// TestAddsUpdatesFlags: ADDS R0, R1, R2 emits
// an AddWithCarry-shaped result put into R0 plus NZCV updates.
func TestAddsUpdatesFlags(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpADD, Condition: CondAL, SetFlags: true,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperRegister, Reg: ir.R1},
			{Kind: OperRegister, Reg: ir.R2},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	r0 := findPut(stmts, ctxt.RegVar(ir.R0))
	if r0 == nil {
		t.Fatal("expected Put(R0, ...)")
	}
	if r0.Kind != ir.KBinOp || r0.BinOp != ir.OpAdd {
		t.Errorf("Put(R0) = %v, want a binary add expression", r0)
	}
	cpsrPuts := 0
	for _, s := range stmts {
		if s.Kind == ir.KPut && s.PutVar == ctxt.RegVar(ir.CPSR) {
			cpsrPuts++
		}
	}
	if cpsrPuts != 1 {
		t.Errorf("expected exactly one CPSR Put folding N/Z/C/V, got %d", cpsrPuts)
	}
}

// TestSubsEquivalentToAddWithCarry: SUBS R3,
// R3, R4 must route through AddWithCarry(R3, ~R4, 1).
func TestSubsEquivalentToAddWithCarry(t *testing.T) {
	ctxt := newCtxt()
	rnExpr := RegExpr(ctxt, ir.R3)
	op2 := RegExpr(ctxt, ir.R4)
	want := SubWithBorrow(32, rnExpr, op2)

	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpSUB, Condition: CondAL, SetFlags: true,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R3},
			{Kind: OperRegister, Reg: ir.R3},
			{Kind: OperRegister, Reg: ir.R4},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	r3 := findPut(stmts, ctxt.RegVar(ir.R3))
	if r3 == nil {
		t.Fatal("expected Put(R3, ...)")
	}
	if r3.String() != want.Result.String() {
		t.Errorf("Put(R3) = %v, want %v (addWithCarry(R3, ~R4, 1).result)", r3, want.Result)
	}
}

// TestBXSwitchesToThumb: BX R0 emits a CJmp
// whose taken branch disables APSR.J, enables APSR.T, and jumps to R0&~1.
func TestBXSwitchesToThumb(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpBX, Condition: CondAL,
		Operands: []Operand{{Kind: OperRegister, Reg: ir.R0}},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if countKind(stmts, ir.KCJmp) == 0 {
		t.Fatal("expected at least one CJmp for the BX interworking dispatch")
	}
	foundInterJmp := false
	for _, s := range stmts {
		if s.Kind == ir.KInterJmp {
			foundInterJmp = true
		}
	}
	if !foundInterJmp {
		t.Error("expected an InterJmp in the BX dispatch")
	}
	cpsrPuts := 0
	for _, s := range stmts {
		if s.Kind == ir.KPut && s.PutVar == ctxt.RegVar(ir.CPSR) {
			cpsrPuts++
		}
	}
	if cpsrPuts == 0 {
		t.Error("expected a CPSR Put updating J/T on the Thumb branch")
	}
}

// TestLdrPreIndexedWriteback: LDR R0, [R1, #4]!
// loads into a temporary, writes the base back, then writes the temporary
// to R0, so an Rt==Rn load still observes the loaded data.
func TestLdrPreIndexedWriteback(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpLDR, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.R0},
			{Kind: OperMemory, Mem: AddrMode{
				Kind: AddrPreIndexed, Base: ir.R1,
				HasOffset: true, OffSign: Plus, OffImm: 4,
			}},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	tmpIdx, r0Idx, r1Idx := -1, -1, -1
	for i, s := range stmts {
		if s.Kind != ir.KPut {
			continue
		}
		switch {
		case s.PutVar == ctxt.RegVar(ir.R0):
			r0Idx = i
		case s.PutVar == ctxt.RegVar(ir.R1):
			r1Idx = i
		case s.PutVal != nil && s.PutVal.Kind == ir.KLoadLE:
			tmpIdx = i
		}
	}
	if tmpIdx == -1 || r0Idx == -1 || r1Idx == -1 {
		t.Fatalf("expected Puts to a load temp, R1, and R0, got temp=%d R1=%d R0=%d", tmpIdx, r1Idx, r0Idx)
	}
	if !(tmpIdx < r1Idx && r1Idx < r0Idx) {
		t.Errorf("expected load-into-temp, then R1 write-back, then R0 write; got temp=%d R1=%d R0=%d", tmpIdx, r1Idx, r0Idx)
	}
	r1Val := stmts[r1Idx].PutVal
	if r1Val.Kind != ir.KBinOp || r1Val.BinOp != ir.OpAdd {
		t.Errorf("R1 write-back value = %v, want R1+4", r1Val)
	}
	r0Val := stmts[r0Idx].PutVal
	if r0Val.Kind != ir.KVar || r0Val.VarRef != stmts[tmpIdx].PutVar {
		t.Errorf("R0 value = %v, want the load temporary %v", r0Val, stmts[tmpIdx].PutVar)
	}
}

// TestPushThreeRegisters: PUSH {R4,R5,LR}
// decrements SP by 12 and stores R4/R5/LR at SP, SP+4, SP+8 before the
// final SP write-back.
func TestPushThreeRegisters(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpPUSH, Condition: CondAL,
		Operands: []Operand{
			{Kind: OperRegister, Reg: ir.SP},
			{Kind: OperRegisterList, List: RegList{Regs: []ir.RegID{ir.R4, ir.R5, ir.LR}}},
		},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	stores := 0
	for _, s := range stmts {
		if s.Kind == ir.KStore {
			stores++
		}
	}
	if stores != 3 {
		t.Errorf("expected 3 Stores, got %d", stores)
	}
	spPut := findPut(stmts, ctxt.RegVar(ir.SP))
	if spPut == nil {
		t.Fatal("expected a final Put(SP, ...)")
	}
	last := stmts[len(stmts)-2] // before IEMark
	if last.Kind != ir.KPut || last.PutVar != ctxt.RegVar(ir.SP) {
		t.Errorf("expected the SP write-back to be the last statement before IEMark, got %v", last.Kind)
	}
}

// TestConditionalBranchEmitsGate checks that a non-AL condition produces
// exactly one CJmp from the condition gate (in addition to any the opcode's
// own emitter produces).
func TestConditionalBranchEmitsGate(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpMOV, Condition: CondEQ,
		Operands: []Operand{{Kind: OperRegister, Reg: ir.R0}, {Kind: OperImmediate, Imm: 1}},
	}
	stmts, err := Translate(inst, ctxt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if countKind(stmts, ir.KCJmp) != 1 {
		t.Errorf("expected exactly one CJmp for the EQ condition gate, got %d", countKind(stmts, ir.KCJmp))
	}
	if stmts[0].Kind != ir.KISMark || stmts[len(stmts)-1].Kind != ir.KIEMark {
		t.Error("expected ISMark first and IEMark last even for a conditional instruction")
	}
}

func TestNotImplementedOpcodeErrors(t *testing.T) {
	ctxt := newCtxt()
	inst := &InstructionInfo{
		Address: 0x8000, ByteLen: 4, Opcode: OpInvalid, Condition: CondAL,
	}
	_, err := Translate(inst, ctxt)
	if err == nil {
		t.Fatal("expected an error translating an unhandled opcode")
	}
}
