package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Multiply emitters: MUL (Rd = Rm * Rs) and MLA
// (Rd = Rm * Rs + Rn), both restricted to Rd != Rm per the ARM manual
// (UNPREDICTABLE otherwise) and updating only N and Z when S-suffixed.

// EmitMultiply lowers a MUL or MLA instruction. Operands are (Rd, Rm, Rs)
// for MUL and (Rd, Rm, Rs, Rn) for MLA.
func EmitMultiply(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) < 3 {
		return liftErr(inst, ErrInvalidOperand, "%s expects at least 3 operands", inst.Opcode)
	}
	rd := inst.Operands[0].Reg
	rm := inst.Operands[1].Reg
	rs := inst.Operands[2].Reg
	if rd == rm {
		return liftErr(inst, ErrInvalidOperand, "%s: Rd and Rm must differ", inst.Opcode)
	}

	product := ir.Mul(RegExpr(ctxt, rm), RegExpr(ctxt, rs))
	result := product
	if inst.Opcode == OpMLA {
		if len(inst.Operands) != 4 {
			return liftErr(inst, ErrInvalidOperand, "MLA expects 4 operands")
		}
		rn := inst.Operands[3].Reg
		result = ir.Add(product, RegExpr(ctxt, rn))
	}

	b.Put(ctxt.RegVar(rd), result)

	if inst.SetFlags {
		cpsrVar := ctxt.RegVar(ir.CPSR)
		cpsr := ir.VarE(cpsrVar)
		cpsr = SetPSR(cpsr, FieldN, bitAt(32, result, 31))
		cpsr = SetPSR(cpsr, FieldZ, ir.Eq(result, constW(32, 0)))
		b.Put(cpsrVar, cpsr)
	}
	return nil
}
