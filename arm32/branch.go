package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Branch family emitters: B, BL, BX, BLX. Target
// addresses arrive pre-resolved from the decoder as an absolute Immediate
// operand (B/BL) or a register operand (BX, and the register form of BLX).

func returnAddr(inst *InstructionInfo) *ir.Expr {
	return constW(32, inst.Address+uint64(inst.ByteLen))
}

// checkTargetAlignment rejects a pre-resolved branch target whose alignment
// doesn't fit the instruction set it lands in: 4-byte aligned for ARM,
// 2-byte aligned for Thumb.
func checkTargetAlignment(inst *InstructionInfo, target int64, mode ir.Mode) error {
	align := int64(4)
	if mode == ir.ModeThumb {
		align = 2
	}
	if target%align != 0 {
		return liftErr(inst, ErrInvalidTargetArchMode, "target %#x not %d-byte aligned for %s", target, align, mode)
	}
	return nil
}

// EmitBranch lowers a B, BL, BX, or BLX instruction.
func EmitBranch(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 1 {
		return liftErr(inst, ErrInvalidOperand, "%s expects 1 operand", inst.Opcode)
	}
	op := inst.Operands[0]

	switch inst.Opcode {
	case OpB:
		if op.Kind != OperImmediate {
			return liftErr(inst, ErrInvalidOperand, "B expects an immediate target")
		}
		BranchWritePC(b, ctxt, ImmExpr(op.Imm))
		return nil

	case OpBL:
		if op.Kind != OperImmediate {
			return liftErr(inst, ErrInvalidOperand, "BL expects an immediate target")
		}
		// BL stays in the current instruction set, so its pre-resolved
		// target must already be aligned for that set.
		if err := checkTargetAlignment(inst, op.Imm, ctxt.OperatingMode()); err != nil {
			return err
		}
		b.Put(ctxt.RegVar(ir.LR), returnAddr(inst))
		BranchWritePC(b, ctxt, ImmExpr(op.Imm))
		return nil

	case OpBX:
		if op.Kind != OperRegister {
			return liftErr(inst, ErrInvalidOperand, "BX expects a register target")
		}
		BxWritePC(b, ctxt, RegExpr(ctxt, op.Reg))
		return nil

	case OpBLX:
		b.Put(ctxt.RegVar(ir.LR), returnAddr(inst))
		switch op.Kind {
		case OperRegister:
			BxWritePC(b, ctxt, RegExpr(ctxt, op.Reg))
		case OperImmediate:
			// The immediate form always switches ARM<->Thumb state; the
			// decoder is expected to have resolved that into the target
			// address's alignment, so a direct inter-jump suffices. The
			// target set is the opposite of the current one.
			target := ir.ModeThumb
			if ctxt.OperatingMode() == ir.ModeThumb {
				target = ir.ModeARM
			}
			if err := checkTargetAlignment(inst, op.Imm, target); err != nil {
				return err
			}
			b.InterJmp(ctxt.RegVar(ir.PC), ImmExpr(op.Imm))
		default:
			return liftErr(inst, ErrInvalidOperand, "BLX expects a register or immediate target")
		}
		return nil
	}
	return liftErr(inst, ErrInvalidOpcode, "not a branch opcode")
}
