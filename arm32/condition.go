package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// CondExpr builds the 1-bit expression for a condition code, read from the
// APSR bits of cpsr.
func CondExpr(cpsr *ir.Expr, cond Condition) *ir.Expr {
	n := GetPSR(cpsr, FieldN)
	z := GetPSR(cpsr, FieldZ)
	c := GetPSR(cpsr, FieldC)
	v := GetPSR(cpsr, FieldV)

	switch cond {
	case CondEQ:
		return isSet(z)
	case CondNE:
		return isClear(z)
	case CondCS:
		return isSet(c)
	case CondCC:
		return isClear(c)
	case CondMI:
		return isSet(n)
	case CondPL:
		return isClear(n)
	case CondVS:
		return isSet(v)
	case CondVC:
		return isClear(v)
	case CondHI:
		return ir.And(isSet(c), isClear(z))
	case CondLS:
		return ir.Not(ir.And(isSet(c), isClear(z)))
	case CondGE:
		return ir.Eq(n, v)
	case CondLT:
		return ir.Neq(n, v)
	case CondGT:
		return ir.And(ir.Eq(n, v), isClear(z))
	case CondLE:
		return ir.Not(ir.And(ir.Eq(n, v), isClear(z)))
	case CondAL, CondUN:
		return ir.B1()
	}
	return ir.B1()
}

func isSet(bit *ir.Expr) *ir.Expr   { return ir.Eq(bit, ir.B1()) }
func isClear(bit *ir.Expr) *ir.Expr { return ir.Eq(bit, ir.B0()) }

// conditionName renders a Condition as the two-letter ARM mnemonic suffix,
// used only to build readable, instruction-scoped label names.
func (c Condition) conditionName() string {
	names := [...]string{
		"al", "eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
		"hi", "ls", "ge", "lt", "gt", "le", "un",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "cc"
}

// Gate wraps the emission of one instruction's body in the condition-code
// gate: ISMark, then (unless the condition is AL/UN) a CJmp/LMark pair
// bracketing body, then IEMark. body is the closure that emits the
// instruction's actual semantics.
func Gate(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo, body func()) {
	b.ISMark(inst.Address, inst.ByteLen)

	if inst.Condition == CondAL || inst.Condition == CondUN {
		body()
		b.IEMark(inst.Address + uint64(inst.ByteLen))
		return
	}

	cpsr := ir.VarE(ctxt.RegVar(ir.CPSR))
	cond := CondExpr(cpsr, inst.Condition)
	pass := b.NewLabel("pass_" + inst.Condition.conditionName())
	fail := b.NewLabel("fail_" + inst.Condition.conditionName())

	b.CJmp(cond, pass, fail)
	b.LMark(pass)
	body()
	b.LMark(fail)
	b.IEMark(inst.Address + uint64(inst.ByteLen))
}
