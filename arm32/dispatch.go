package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Translate lowers one decoded instruction to its IR statement sequence,
// bracketing the opcode's emitter in the condition-code gate (Gate,
// condition.go).
func Translate(inst *InstructionInfo, ctxt ir.TranslationContext) ([]ir.Stmt, error) {
	b := ir.NewBuilder(16)
	var emitErr error
	Gate(b, ctxt, inst, func() {
		emitErr = dispatch(b, ctxt, inst)
	})
	if emitErr != nil {
		return nil, emitErr
	}
	return b.Finish(), nil
}

func dispatch(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	switch inst.Opcode {
	case OpAND, OpEOR, OpSUB, OpRSB, OpADD, OpADC, OpSBC, OpRSC,
		OpTST, OpTEQ, OpCMP, OpCMN, OpORR, OpMOV, OpBIC, OpMVN:
		return EmitDataProcessing(b, ctxt, inst)

	case OpMUL, OpMLA:
		return EmitMultiply(b, ctxt, inst)

	case OpLDR, OpLDRB, OpLDRH, OpLDRSB, OpLDRSH:
		return EmitLoad(b, ctxt, inst)

	case OpSTR, OpSTRB, OpSTRH:
		return EmitStore(b, ctxt, inst)

	case OpLDM, OpSTM, OpPUSH, OpPOP:
		return EmitBlockMem(b, ctxt, inst)

	case OpB, OpBL, OpBX, OpBLX:
		return EmitBranch(b, ctxt, inst)

	case OpMRS:
		return EmitMRS(b, ctxt, inst)
	case OpMSR:
		return EmitMSR(b, ctxt, inst)

	case OpUBFX:
		return EmitUBFX(b, ctxt, inst)
	case OpBFI:
		return EmitBFI(b, ctxt, inst)
	case OpBFC:
		return EmitBFC(b, ctxt, inst)
	case OpUXTB:
		return EmitUXTB(b, ctxt, inst)
	case OpUXTAB:
		return EmitUXTAB(b, ctxt, inst)
	case OpSXTH:
		return EmitSXTH(b, ctxt, inst)

	case OpTBB, OpTBH:
		return EmitTableBranch(b, ctxt, inst)

	case OpVLDR, OpVSTR:
		return EmitVFPMem(b, ctxt, inst)
	case OpVPUSH, OpVPOP:
		return EmitVFPStack(b, ctxt, inst)
	case OpVADD, OpVMUL, OpVDIV, OpVMOV, OpVCMP, OpVCVT, OpVMLS:
		return EmitVFPArith(b, ctxt, inst)
	}
	return &NotImplementedIRError{Opcode: inst.Opcode}
}
