package liftjob

import (
	"errors"
	"testing"

	"github.com/lookbusy1344/arm-lifter/arm32"
	"github.com/lookbusy1344/arm-lifter/cfgviz"
	"github.com/lookbusy1344/arm-lifter/ir"
)

func movR0Imm(addr uint64, imm int64) arm32.InstructionInfo {
	return arm32.InstructionInfo{
		Address: addr, ByteLen: 4, Opcode: arm32.OpMOV, Condition: arm32.CondAL,
		Operands: []arm32.Operand{
			{Kind: arm32.OperRegister, Reg: ir.R0},
			{Kind: arm32.OperImmediate, Imm: imm},
		},
	}
}

func TestJobLiftProducesIRAndLayout(t *testing.T) {
	j := New()
	batch := []arm32.InstructionInfo{movR0Imm(0x1000, 1), movR0Imm(0x1004, 2)}
	edges := []cfgviz.InputEdge{{From: 0x1000, To: 0x1004, Type: cfgviz.EdgeFallthrough}}
	j.SetBatch(batch, edges, 0x1000)

	layout, err := j.Lift(ir.ModeARM, cfgviz.DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if len(layout.Nodes) != 2 {
		t.Fatalf("expected 2 laid-out nodes, got %d", len(layout.Nodes))
	}
	if j.InstructionCount() != 2 {
		t.Errorf("InstructionCount() = %d, want 2", j.InstructionCount())
	}

	stmts, ok := j.IR(0x1000)
	if !ok {
		t.Fatal("expected IR for address 0x1000")
	}
	if stmts[0].Kind != ir.KISMark {
		t.Errorf("expected the IR for 0x1000 to start with ISMark, got %v", stmts[0].Kind)
	}

	if j.Layout() == nil {
		t.Error("expected Layout() to return the last computed layout")
	}
}

func TestJobIRMissingAddress(t *testing.T) {
	j := New()
	if _, ok := j.IR(0xDEAD); ok {
		t.Error("expected IR lookup for an untranslated address to report ok=false")
	}
}

func TestJobLiftPropagatesTranslateError(t *testing.T) {
	j := New()
	bad := arm32.InstructionInfo{Address: 0x2000, ByteLen: 4, Opcode: arm32.OpInvalid, Condition: arm32.CondAL}
	j.SetBatch([]arm32.InstructionInfo{bad}, nil, 0x2000)
	if _, err := j.Lift(ir.ModeARM, cfgviz.DefaultLayoutOptions()); err == nil {
		t.Error("expected Lift to propagate a translation error from an unimplemented opcode")
	}
}

// stmWritebackBaseInList produces IR carrying an UndefinedInstr side effect
// (base register in the list with write-back is UNPREDICTABLE).
func stmWritebackBaseInList(addr uint64) arm32.InstructionInfo {
	return arm32.InstructionInfo{
		Address: addr, ByteLen: 4, Opcode: arm32.OpSTM, Condition: arm32.CondAL,
		BlockMode: arm32.BlockIA, WriteBack: true,
		Operands: []arm32.Operand{
			{Kind: arm32.OperRegister, Reg: ir.R0},
			{Kind: arm32.OperRegisterList, List: arm32.RegList{Regs: []ir.RegID{ir.R0, ir.R1}}},
		},
	}
}

func TestJobStrictModeRejectsUnpredictable(t *testing.T) {
	j := New()
	j.SetBatch([]arm32.InstructionInfo{stmWritebackBaseInList(0x3000)}, nil, 0x3000)

	if _, err := j.Lift(ir.ModeARM, cfgviz.DefaultLayoutOptions()); err != nil {
		t.Fatalf("non-strict Lift should pass unpredictable IR through: %v", err)
	}

	j.SetStrict(true)
	_, err := j.Lift(ir.ModeARM, cfgviz.DefaultLayoutOptions())
	if !errors.Is(err, ErrUnpredictable) {
		t.Errorf("strict Lift error = %v, want ErrUnpredictable", err)
	}
}

func TestJobTraceRecordsPerInstruction(t *testing.T) {
	j := New()
	trace := arm32.NewLiftTrace(nil)
	j.AttachTrace(trace)
	j.SetBatch([]arm32.InstructionInfo{movR0Imm(0x1000, 1), movR0Imm(0x1004, 2)}, nil, 0x1000)

	if _, err := j.Lift(ir.ModeARM, cfgviz.DefaultLayoutOptions()); err != nil {
		t.Fatalf("Lift: %v", err)
	}
	entries := trace.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 trace entries, got %d", len(entries))
	}
	if entries[0].Address != 0x1000 || entries[1].Address != 0x1004 {
		t.Errorf("trace addresses = %#x, %#x", entries[0].Address, entries[1].Address)
	}
	if entries[0].StmtCount == 0 {
		t.Error("expected a nonzero statement count in the trace entry")
	}
}
