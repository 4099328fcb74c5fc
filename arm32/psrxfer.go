package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// MRS/MSR emitters. The PSR being read or written (CPSR or SPSR) is itself
// carried as a Register operand, reusing ir.RegID's existing CPSR/SPSR
// constants rather than a parallel selector type.

// EmitMRS lowers MRS Rd, <psr>. Operands are (Rd, PSR).
func EmitMRS(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 2 {
		return liftErr(inst, ErrInvalidOperand, "MRS expects (Rd, PSR)")
	}
	rd := inst.Operands[0].Reg
	psr := inst.Operands[1].Reg
	if psr != ir.CPSR && psr != ir.SPSR {
		return liftErr(inst, ErrInvalidRegister, "MRS source must be CPSR or SPSR, got %s", psr)
	}
	if rd == ir.PC {
		return liftErr(inst, ErrInvalidRegister, "MRS destination must not be PC")
	}
	b.Put(ctxt.RegVar(rd), RegExpr(ctxt, psr))
	return nil
}

// psrByteMask renders the standard ARM 4-bit MSR field mask (bit0=control
// byte[7:0], bit1=extension byte[15:8], bit2=status byte[23:16],
// bit3=flags byte[31:24]) as a 32-bit constant with the selected bytes set.
func psrByteMask(fieldMask int) uint64 {
	var m uint64
	if fieldMask&1 != 0 {
		m |= 0x000000FF
	}
	if fieldMask&2 != 0 {
		m |= 0x0000FF00
	}
	if fieldMask&4 != 0 {
		m |= 0x00FF0000
	}
	if fieldMask&8 != 0 {
		m |= 0xFF000000
	}
	return m
}

// EmitMSR lowers MSR <psr>_<fields>, Rd|#imm. Operands are
// (PSR, FieldMaskImmediate, Source).
func EmitMSR(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 3 {
		return liftErr(inst, ErrInvalidOperand, "MSR expects (PSR, fieldMask, source)")
	}
	psr := inst.Operands[0].Reg
	if psr != ir.CPSR && psr != ir.SPSR {
		return liftErr(inst, ErrInvalidRegister, "MSR target must be CPSR or SPSR, got %s", psr)
	}
	fieldMask := int(inst.Operands[1].Imm)
	var src *ir.Expr
	switch inst.Operands[2].Kind {
	case OperImmediate:
		src = ImmExpr(inst.Operands[2].Imm)
	case OperRegister:
		src = RegExpr(ctxt, inst.Operands[2].Reg)
	default:
		return liftErr(inst, ErrInvalidOperand, "MSR: source must be register or immediate")
	}

	mask := constW(32, psrByteMask(fieldMask))
	psrVar := ctxt.RegVar(psr)
	current := ir.VarE(psrVar)
	updated := ir.Or(ir.And(current, ir.Not(mask)), ir.And(src, mask))
	b.Put(psrVar, updated)
	return nil
}
