package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Data-processing emitters: AND/EOR/SUB/RSB/ADD/ADC/
// SBC/RSC/TST/TEQ/CMP/CMN/ORR/MOV/BIC/MVN, all built from the same template:
// fetch operand2 (picking up the shifter's carry-out), compute the result
// (logical op, or AddWithCarry/SubWithBorrow for arithmetic), route a
// Rd==PC write through WritePC, and conditionally update NZCV.

// operand2 decodes a data-processing instruction's second operand (an
// Immediate, bare Register, or shifted Register) to its value and the
// shifter carry-out that would feed the C flag.
func operand2(ctxt ir.TranslationContext, op Operand, carryIn *ir.Expr) (*ir.Expr, *ir.Expr, error) {
	switch op.Kind {
	case OperImmediate:
		return ImmExpr(op.Imm), carryIn, nil
	case OperRegister:
		return RegExpr(ctxt, op.Reg), carryIn, nil
	case OperShift:
		so := op.Shift
		return ShiftedRegExpr(ctxt, op.Reg, &so, carryIn)
	}
	return ImmExpr(0), carryIn, nil
}

// currentCarry reads the CPSR's C flag as a 1-bit expression.
func currentCarry(ctxt ir.TranslationContext) *ir.Expr {
	return GetPSR(ir.VarE(ctxt.RegVar(ir.CPSR)), FieldC)
}

// setLogicalFlags updates N and Z from result, and C from the shifter
// carry-out when the instruction is S-suffixed; V is left untouched, per the
// ARM manual's logical-instruction flag rules.
func setLogicalFlags(b *ir.Builder, ctxt ir.TranslationContext, result, shiftCarry *ir.Expr) {
	cpsrVar := ctxt.RegVar(ir.CPSR)
	cpsr := ir.VarE(cpsrVar)
	cpsr = SetPSR(cpsr, FieldN, bitAt(32, result, 31))
	cpsr = SetPSR(cpsr, FieldZ, ir.Eq(result, constW(32, 0)))
	cpsr = SetPSR(cpsr, FieldC, shiftCarry)
	b.Put(cpsrVar, cpsr)
}

// setArithFlags updates N, Z, C, and V from an AddWithCarry/SubWithBorrow
// result.
func setArithFlags(b *ir.Builder, ctxt ir.TranslationContext, r AddWithCarryResult) {
	cpsrVar := ctxt.RegVar(ir.CPSR)
	cpsr := ir.VarE(cpsrVar)
	cpsr = SetPSR(cpsr, FieldN, bitAt(32, r.Result, 31))
	cpsr = SetPSR(cpsr, FieldZ, ir.Eq(r.Result, constW(32, 0)))
	cpsr = SetPSR(cpsr, FieldC, r.CarryOut)
	cpsr = SetPSR(cpsr, FieldV, r.Overflow)
	b.Put(cpsrVar, cpsr)
}

// writeDest puts result into rd. When rd is the program counter and the
// instruction is S-suffixed (the "SUBS PC, LR" exception-return idiom), CPSR
// is restored from SPSR instead of performing the usual ALU-write-PC
// interworking dispatch; otherwise the write goes through WritePC.
func writeDest(b *ir.Builder, ctxt ir.TranslationContext, rd ir.RegID, result *ir.Expr, exceptionReturn bool) {
	if rd != ir.PC {
		b.Put(ctxt.RegVar(rd), result)
		return
	}
	if exceptionReturn {
		b.Put(ctxt.RegVar(ir.PC), result)
		RestoreCPSRFromSPSR(b, ctxt, "subs_pc")
		return
	}
	WritePC(b, ctxt, result)
}

// EmitDataProcessing lowers one AND/EOR/SUB/RSB/ADD/ADC/SBC/RSC/TST/TEQ/
// CMP/CMN/ORR/MOV/BIC/MVN instruction.
func EmitDataProcessing(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	switch inst.Opcode {
	case OpMOV, OpMVN:
		if len(inst.Operands) != 2 {
			return liftErr(inst, ErrInvalidOperand, "%s expects 2 operands", inst.Opcode)
		}
		rd := inst.Operands[0].Reg
		op2, carry, err := operand2(ctxt, inst.Operands[1], currentCarry(ctxt))
		if err != nil {
			return liftErr(inst, err, "%s operand2", inst.Opcode)
		}
		result := op2
		if inst.Opcode == OpMVN {
			result = ir.Not(op2)
		}
		writeDest(b, ctxt, rd, result, false)
		if inst.SetFlags {
			setLogicalFlags(b, ctxt, result, carry)
		}
		return nil

	case OpAND, OpEOR, OpORR, OpBIC, OpTST, OpTEQ:
		rn, rd, hasDest, op2Operand := logicalOperands(inst)
		op2, carry, err := operand2(ctxt, op2Operand, currentCarry(ctxt))
		if err != nil {
			return liftErr(inst, err, "%s operand2", inst.Opcode)
		}
		rnExpr := RegExpr(ctxt, rn)
		var result *ir.Expr
		switch inst.Opcode {
		case OpAND, OpTST:
			result = ir.And(rnExpr, op2)
		case OpEOR, OpTEQ:
			result = ir.Xor(rnExpr, op2)
		case OpORR:
			result = ir.Or(rnExpr, op2)
		case OpBIC:
			result = ir.And(rnExpr, ir.Not(op2))
		}
		if hasDest {
			writeDest(b, ctxt, rd, result, false)
		}
		if inst.SetFlags || !hasDest {
			setLogicalFlags(b, ctxt, result, carry)
		}
		return nil

	case OpADD, OpADC, OpSUB, OpSBC, OpRSB, OpRSC, OpCMP, OpCMN:
		rn, rd, hasDest, op2Operand := logicalOperands(inst)
		op2, _, err := operand2(ctxt, op2Operand, currentCarry(ctxt))
		if err != nil {
			return liftErr(inst, err, "%s operand2", inst.Opcode)
		}
		rnExpr := RegExpr(ctxt, rn)
		var r AddWithCarryResult
		switch inst.Opcode {
		case OpADD, OpCMN:
			r = AddWithCarry(32, rnExpr, op2, ir.B0())
		case OpADC:
			r = AddWithCarry(32, rnExpr, op2, currentCarry(ctxt))
		case OpSUB, OpCMP:
			r = SubWithBorrow(32, rnExpr, op2)
		case OpSBC:
			r = AddWithCarry(32, rnExpr, ir.Not(op2), currentCarry(ctxt))
		case OpRSB:
			r = SubWithBorrow(32, op2, rnExpr)
		case OpRSC:
			r = AddWithCarry(32, op2, ir.Not(rnExpr), currentCarry(ctxt))
		}
		exceptionReturn := rd == ir.PC && inst.SetFlags && (inst.Opcode == OpSUB || inst.Opcode == OpADD)
		if hasDest {
			writeDest(b, ctxt, rd, r.Result, exceptionReturn)
		}
		if inst.SetFlags || !hasDest {
			setArithFlags(b, ctxt, r)
		}
		return nil
	}
	return liftErr(inst, ErrInvalidOpcode, "not a data-processing opcode")
}

// logicalOperands extracts (Rn, Rd, hasDest, operand2) from the common
// 2-or-3-operand data-processing shapes: TST/TEQ/CMP/CMN take (Rn, op2);
// everything else takes (Rd, Rn, op2).
func logicalOperands(inst *InstructionInfo) (rn, rd ir.RegID, hasDest bool, op2 Operand) {
	switch inst.Opcode {
	case OpTST, OpTEQ, OpCMP, OpCMN:
		return inst.Operands[0].Reg, 0, false, inst.Operands[1]
	default:
		return inst.Operands[1].Reg, inst.Operands[0].Reg, true, inst.Operands[2]
	}
}
