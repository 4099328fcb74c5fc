package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Block load/store emitters: LDM/STM (all four start-address variants) and
// PUSH/POP, which this lifter treats as STMDB/LDMIA with an implicit
// write-back on SP. The start address is computed once per suffix, then the
// register list is walked low-to-high with a 4-byte stride.

// blockStartAndWriteback returns the address of the first transferred word
// and the base value to write back (if write-back applies), for n
// registers and a given mode.
func blockStartAndWriteback(base *ir.Expr, mode BlockAddrMode, n int) (start, final *ir.Expr) {
	span := constW(32, uint64(4*n))
	switch mode {
	case BlockIA:
		return base, ir.Add(base, span)
	case BlockIB:
		return ir.Add(base, constW(32, 4)), ir.Add(base, span)
	case BlockDA:
		return ir.Add(ir.Sub(base, span), constW(32, 4)), ir.Sub(base, span)
	case BlockDB:
		return ir.Sub(base, span), ir.Sub(base, span)
	}
	return base, base
}

// EmitBlockMem lowers an LDM/STM/PUSH/POP instruction. Operands are
// (Rn, RegisterList).
func EmitBlockMem(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 2 || inst.Operands[1].Kind != OperRegisterList {
		return liftErr(inst, ErrInvalidOperand, "%s expects (Rn, RegList)", inst.Opcode)
	}
	rn := inst.Operands[0].Reg
	list := inst.Operands[1].List
	n := len(list.Regs)
	if n == 0 {
		return liftErr(inst, ErrInvalidOperand, "%s: empty register list", inst.Opcode)
	}

	isLoad := inst.Opcode == OpLDM || inst.Opcode == OpPOP
	mode := inst.BlockMode
	writeBack := inst.WriteBack
	if inst.Opcode == OpPUSH {
		mode = BlockDB
		writeBack = true
	} else if inst.Opcode == OpPOP {
		mode = BlockIA
		writeBack = true
	}

	base := RegExpr(ctxt, rn)
	start, final := blockStartAndWriteback(base, mode, n)

	baseInList := false
	for _, r := range list.Regs {
		if r == rn {
			baseInList = true
		}
	}
	if baseInList && writeBack {
		b.SideEffect(ir.SideEffectUndefinedInstr)
		writeBack = false
	}

	addr := start
	for i, reg := range list.Regs {
		if i > 0 {
			addr = ir.Add(start, constW(32, uint64(4*i)))
		}
		if isLoad {
			val := ir.LoadLE(32, addr)
			if reg == ir.PC {
				if inst.SetFlags {
					// Exception return: PC and CPSR are both restored, no
					// interworking dispatch.
					b.Put(ctxt.RegVar(ir.PC), val)
					RestoreCPSRFromSPSR(b, ctxt, "ldm_pc")
				} else {
					BxWritePC(b, ctxt, val)
				}
			} else {
				b.Put(ctxt.RegVar(reg), val)
			}
		} else {
			b.Store(addr, RegExpr(ctxt, reg))
		}
	}

	if writeBack {
		b.Put(ctxt.RegVar(rn), final)
	}
	return nil
}
