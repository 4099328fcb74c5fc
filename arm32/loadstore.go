package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Single load/store emitters: LDR/LDRB/LDRH/LDRSB/
// LDRSH and STR/STRB/STRH, all routed through TranslateMemOperand for address
// computation and write-back.

func loadWidth(op Opcode) (width int, signed bool) {
	switch op {
	case OpLDR:
		return 32, false
	case OpLDRB:
		return 8, false
	case OpLDRH:
		return 16, false
	case OpLDRSB:
		return 8, true
	case OpLDRSH:
		return 16, true
	}
	return 32, false
}

func storeWidth(op Opcode) int {
	switch op {
	case OpSTRB:
		return 8
	case OpSTRH:
		return 16
	default:
		return 32
	}
}

// EmitLoad lowers an LDR/LDRB/LDRH/LDRSB/LDRSH instruction. Operands are
// (Rt, Memory). The loaded value is buffered in a temporary so the base
// write-back happens between the load and the Rt write, per the manual's
// "if wback then R[n] = offset_addr; R[t] = data" ordering; without the
// temp, Rt==Rn with write-back would leave Rt holding the updated address
// instead of the loaded data.
func EmitLoad(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 2 || inst.Operands[1].Kind != OperMemory {
		return liftErr(inst, ErrInvalidOperand, "%s expects (Rt, Memory)", inst.Opcode)
	}
	rt := inst.Operands[0].Reg
	mem := TranslateMemOperand(ctxt, inst.Address, inst.Operands[1].Mem)

	width, signed := loadWidth(inst.Opcode)
	loaded := ir.LoadLE(width, mem.AccessAddr)
	var value *ir.Expr
	if width == 32 {
		value = loaded
	} else if signed {
		value = ir.SExt(32, loaded)
	} else {
		value = ir.ZExt(32, loaded)
	}

	tmp := ctxt.Temp(32)
	b.Put(tmp, value)
	if mem.Writeback != nil {
		mem.Writeback(b)
	}

	if rt == ir.PC && inst.Opcode == OpLDR {
		BxWritePC(b, ctxt, ir.VarE(tmp))
	} else {
		b.Put(ctxt.RegVar(rt), ir.VarE(tmp))
	}
	return nil
}

// EmitStore lowers an STR/STRB/STRH instruction. Operands are (Rt, Memory).
func EmitStore(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 2 || inst.Operands[1].Kind != OperMemory {
		return liftErr(inst, ErrInvalidOperand, "%s expects (Rt, Memory)", inst.Opcode)
	}
	rt := inst.Operands[0].Reg
	mem := TranslateMemOperand(ctxt, inst.Address, inst.Operands[1].Mem)

	width := storeWidth(inst.Opcode)
	value := RegExpr(ctxt, rt)
	if width != 32 {
		value = ir.Trunc(width, value)
	}
	b.Store(mem.AccessAddr, value)

	if mem.Writeback != nil {
		mem.Writeback(b)
	}
	return nil
}
