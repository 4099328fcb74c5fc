package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// PC-write helpers. Each is emitted as an inline
// mini-state-machine using the builder's LMark/CJmp/Jmp primitives, since
// the dispatch (interworking mode switch, or UNPREDICTABLE detection) can
// depend on a runtime register value and so cannot be resolved at lift
// time. The ARM/Thumb operating-mode dispatch below is different: it is
// known from the translation context and resolved in Go.

// BranchWritePC emits an inter-block jump to e, aligned per the current
// operating mode: clear the low bit in Thumb, the low two bits in ARM.
func BranchWritePC(b *ir.Builder, ctxt ir.TranslationContext, e *ir.Expr) {
	pcVar := ctxt.RegVar(ir.PC)
	var aligned *ir.Expr
	if ctxt.OperatingMode() == ir.ModeThumb {
		aligned = ir.And(e, constW(32, ^uint64(1)))
	} else {
		aligned = ir.And(e, constW(32, ^uint64(3)))
	}
	b.InterJmp(pcVar, aligned)
}

// BxWritePC emits the BX/BLX-style interworking dispatch on bit 0 (and, for
// the UNPREDICTABLE case, bit 1) of e: bit0=1 switches to Thumb and jumps to
// e&~1; bit0=0,bit1=0 switches to ARM and jumps to e; bit0=0,bit1=1 is
// UNPREDICTABLE and emits SideEffect(UndefinedInstr) instead of a jump.
func BxWritePC(b *ir.Builder, ctxt ir.TranslationContext, e *ir.Expr) {
	pcVar := ctxt.RegVar(ir.PC)
	cpsrVar := ctxt.RegVar(ir.CPSR)
	cpsr := ir.VarE(cpsrVar)

	toThumb := b.NewLabel("bx_thumb")
	checkARM := b.NewLabel("bx_checkarm")
	toARM := b.NewLabel("bx_arm")
	undef := b.NewLabel("bx_undef")
	end := b.NewLabel("bx_end")

	bit0 := bitAt(32, e, 0)
	b.CJmp(isSet(bit0), toThumb, checkARM)

	b.LMark(toThumb)
	b.Put(cpsrVar, SetPSR(DisablePSR(cpsr, FieldJ), FieldT, ir.B1()))
	b.InterJmp(pcVar, ir.And(e, constW(32, ^uint64(1))))
	b.Jmp(end)

	b.LMark(checkARM)
	bit1 := bitAt(32, e, 1)
	b.CJmp(isClear(bit1), toARM, undef)

	b.LMark(toARM)
	b.Put(cpsrVar, DisablePSR(DisablePSR(cpsr, FieldJ), FieldT))
	b.InterJmp(pcVar, e)
	b.Jmp(end)

	b.LMark(undef)
	b.SideEffect(ir.SideEffectUndefinedInstr)

	b.LMark(end)
}

// WritePC is the ARMv7 ALU-write-PC rule: in ARM state it performs the full
// interworking dispatch (BxWritePC); in Thumb state a plain data-processing
// write to PC is always a branch within the same instruction set
// (BranchWritePC). Which rule applies is known from the current operating
// mode, not from e, so this dispatch happens in Go rather than in the
// emitted IR.
func WritePC(b *ir.Builder, ctxt ir.TranslationContext, e *ir.Expr) {
	if ctxt.OperatingMode() == ir.ModeARM {
		BxWritePC(b, ctxt, e)
		return
	}
	BranchWritePC(b, ctxt, e)
}
