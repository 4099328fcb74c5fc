package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Table branch emitters: TBB and TBH, Thumb-only
// jump-table dispatch instructions. Operands are (Rn, Rm); the table entry
// is a byte (TBB) or halfword (TBH) scaled by 2 and added to the address of
// the instruction following TBB/TBH.

// EmitTableBranch lowers a TBB or TBH instruction.
func EmitTableBranch(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 2 {
		return liftErr(inst, ErrInvalidOperand, "%s expects (Rn, Rm)", inst.Opcode)
	}
	rn := inst.Operands[0].Reg
	rm := inst.Operands[1].Reg

	var tableAddr, entry *ir.Expr
	if inst.Opcode == OpTBB {
		tableAddr = ir.Add(RegExpr(ctxt, rn), RegExpr(ctxt, rm))
		entry = ir.ZExt(32, ir.LoadLE(8, tableAddr))
	} else {
		tableAddr = ir.Add(RegExpr(ctxt, rn), ir.Shl(RegExpr(ctxt, rm), constW(32, 1)))
		entry = ir.ZExt(32, ir.LoadLE(16, tableAddr))
	}

	offset := ir.Shl(entry, constW(32, 1))
	base := constW(32, inst.Address+4)
	BranchWritePC(b, ctxt, ir.Add(base, offset))
	return nil
}
