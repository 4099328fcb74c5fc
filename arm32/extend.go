package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Bit-field and extend emitters: UBFX, BFI, BFC, UXTB, UXTAB, SXTH. The
// extend family rotates first and then extracts the low byte or halfword;
// the bit-field family works from a {lsb, width} mask.

// rorRegByImm applies an optional ROR rotation (0/8/16/24, the only legal
// amounts for UXTB/UXTAB/SXTH) to a register operand; a nil/absent rotation
// operand means no rotation.
func rorRegByImm(ctxt ir.TranslationContext, reg ir.RegID, rot *Operand) *ir.Expr {
	val := RegExpr(ctxt, reg)
	if rot == nil {
		return val
	}
	return Shift(32, val, ShiftROR, int(rot.Imm), ir.B0())
}

// EmitUBFX lowers UBFX Rd, Rn, #lsb, #width: Rd = ZeroExtend(Rn[lsb+width-1:lsb]).
func EmitUBFX(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 4 {
		return liftErr(inst, ErrInvalidOperand, "UBFX expects (Rd, Rn, lsb, width)")
	}
	rd := inst.Operands[0].Reg
	rn := inst.Operands[1].Reg
	lsb := int(inst.Operands[2].Imm)
	width := int(inst.Operands[3].Imm)
	if lsb < 0 || width <= 0 || lsb+width > 32 {
		return liftErr(inst, ErrInvalidOperand, "UBFX: lsb/width out of range")
	}
	field := ir.Extract(RegExpr(ctxt, rn), width, lsb)
	b.Put(ctxt.RegVar(rd), ir.ZExt(32, field))
	return nil
}

// EmitBFI lowers BFI Rd, Rn, #lsb, #width: Rd's [lsb, lsb+width) bits are
// replaced by Rn's low `width` bits; the rest of Rd is unchanged.
func EmitBFI(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 4 {
		return liftErr(inst, ErrInvalidOperand, "BFI expects (Rd, Rn, lsb, width)")
	}
	rd := inst.Operands[0].Reg
	rn := inst.Operands[1].Reg
	lsb := int(inst.Operands[2].Imm)
	width := int(inst.Operands[3].Imm)
	if lsb < 0 || width <= 0 || lsb+width > 32 {
		return liftErr(inst, ErrInvalidOperand, "BFI: lsb/width out of range")
	}
	fieldMask := constW(32, ((uint64(1)<<uint(width))-1)<<uint(lsb))
	cleared := ir.And(RegExpr(ctxt, rd), ir.Not(fieldMask))
	inserted := ir.Shl(ir.ZExt(32, ir.Extract(RegExpr(ctxt, rn), width, 0)), constW(32, uint64(lsb)))
	b.Put(ctxt.RegVar(rd), ir.Or(cleared, inserted))
	return nil
}

// EmitBFC lowers BFC Rd, #lsb, #width: clears Rd's [lsb, lsb+width) bits.
func EmitBFC(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 3 {
		return liftErr(inst, ErrInvalidOperand, "BFC expects (Rd, lsb, width)")
	}
	rd := inst.Operands[0].Reg
	lsb := int(inst.Operands[1].Imm)
	width := int(inst.Operands[2].Imm)
	if lsb < 0 || width <= 0 || lsb+width > 32 {
		return liftErr(inst, ErrInvalidOperand, "BFC: lsb/width out of range")
	}
	fieldMask := constW(32, ((uint64(1)<<uint(width))-1)<<uint(lsb))
	b.Put(ctxt.RegVar(rd), ir.And(RegExpr(ctxt, rd), ir.Not(fieldMask)))
	return nil
}

// EmitUXTB lowers UXTB Rd, Rm {, ROR #n}: Rd = ZeroExtend(ROR(Rm, n)[7:0]).
func EmitUXTB(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) < 2 {
		return liftErr(inst, ErrInvalidOperand, "UXTB expects (Rd, Rm[, rotation])")
	}
	rd := inst.Operands[0].Reg
	rm := inst.Operands[1].Reg
	var rot *Operand
	if len(inst.Operands) > 2 {
		rot = &inst.Operands[2]
	}
	rotated := rorRegByImm(ctxt, rm, rot)
	b.Put(ctxt.RegVar(rd), ir.ZExt(32, ir.Extract(rotated, 8, 0)))
	return nil
}

// EmitUXTAB lowers UXTAB Rd, Rn, Rm {, ROR #n}:
// Rd = Rn + ZeroExtend(ROR(Rm, n)[7:0]).
func EmitUXTAB(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) < 3 {
		return liftErr(inst, ErrInvalidOperand, "UXTAB expects (Rd, Rn, Rm[, rotation])")
	}
	rd := inst.Operands[0].Reg
	rn := inst.Operands[1].Reg
	rm := inst.Operands[2].Reg
	var rot *Operand
	if len(inst.Operands) > 3 {
		rot = &inst.Operands[3]
	}
	rotated := rorRegByImm(ctxt, rm, rot)
	extended := ir.ZExt(32, ir.Extract(rotated, 8, 0))
	b.Put(ctxt.RegVar(rd), ir.Add(RegExpr(ctxt, rn), extended))
	return nil
}

// EmitSXTH lowers SXTH Rd, Rm {, ROR #n}: Rd = SignExtend(ROR(Rm, n)[15:0]).
func EmitSXTH(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) < 2 {
		return liftErr(inst, ErrInvalidOperand, "SXTH expects (Rd, Rm[, rotation])")
	}
	rd := inst.Operands[0].Reg
	rm := inst.Operands[1].Reg
	var rot *Operand
	if len(inst.Operands) > 2 {
		rot = &inst.Operands[2]
	}
	rotated := rorRegByImm(ctxt, rm, rot)
	b.Put(ctxt.RegVar(rd), ir.SExt(32, ir.Extract(rotated, 16, 0)))
	return nil
}
