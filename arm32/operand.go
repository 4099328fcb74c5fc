package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// Operand translation: lowering the decoder's small tagged Operand tuples
// into IR expressions (and, for write-back addressing modes, a trailing Put
// statement).

// RegExpr reads a register operand as an expression.
func RegExpr(ctxt ir.TranslationContext, reg ir.RegID) *ir.Expr {
	return ir.VarE(ctxt.RegVar(reg))
}

// ImmExpr renders an immediate operand as a 32-bit constant.
func ImmExpr(imm int64) *ir.Expr {
	return ir.Num(imm32(imm))
}

// RegListExpr renders a register-list operand as its 16-bit mask constant.
func RegListExpr(list RegList) *ir.Expr {
	return constW(16, uint64(list.Mask()))
}

// ShiftedRegExpr applies a (possibly absent) shift to a register operand,
// returning the shifted value and its carry-out. A nil shiftOpt means
// "LSL #0": the bare register value, carry unchanged. ROR #0 is rejected
// with ErrInvalidShiftAmount: that encoding denotes RRX, and a decoder that
// produces it as ROR handed over a malformed shift operand.
func ShiftedRegExpr(ctxt ir.TranslationContext, reg ir.RegID, shiftOpt *ShiftOperand, carryIn *ir.Expr) (*ir.Expr, *ir.Expr, error) {
	val := RegExpr(ctxt, reg)
	if shiftOpt == nil {
		return val, carryIn, nil
	}
	if shiftOpt.Amount.IsReg {
		amount := ir.Trunc(32, RegExpr(ctxt, shiftOpt.Amount.Reg))
		v, c := ShiftCForRegAmount(32, val, shiftOpt.Type, amount, carryIn)
		return v, c, nil
	}
	amt := shiftOpt.Amount.Imm
	switch shiftOpt.Type {
	case ShiftLSR, ShiftASR:
		// LSR/ASR #0 in the encoding means a shift distance of 32.
		if amt == 0 {
			amt = 32
		}
	case ShiftROR:
		if amt == 0 {
			return nil, nil, ErrInvalidShiftAmount
		}
	case ShiftRRX:
		amt = 1
	}
	v, c := ShiftC(32, val, shiftOpt.Type, amt, carryIn)
	return v, c, nil
}

// MemTranslation is the result of lowering a Memory operand: the address the
// load/store itself should use, plus an optional write-back emitter to run
// immediately after the access, not before (pre/post-indexed modes append
// their base-register write-back after the load/store, not before it).
type MemTranslation struct {
	AccessAddr *ir.Expr
	Writeback  func(b *ir.Builder)
}

// offsetAddr computes base +/- the immediate-or-shifted-register offset
// described by m's offset fields, used both for plain offset addressing and
// for the inner offset computation of pre/post-indexed modes.
func offsetAddr(ctxt ir.TranslationContext, base *ir.Expr, m AddrMode) *ir.Expr {
	if !m.HasOffset && !m.IsRegOffset {
		return base
	}
	var off *ir.Expr
	if m.IsRegOffset {
		off = Shift(32, RegExpr(ctxt, m.OffReg), shiftKindOf(m.OffShift), shiftAmountOf(m.OffShift), ir.B0())
	} else {
		off = ImmExpr(m.OffImm)
	}
	if m.OffSign == Minus {
		return ir.Sub(base, off)
	}
	return ir.Add(base, off)
}

func shiftKindOf(s *ShiftOperand) ShiftKind {
	if s == nil {
		return ShiftLSL
	}
	return s.Type
}

func shiftAmountOf(s *ShiftOperand) int {
	if s == nil {
		return 0
	}
	return s.Amount.Imm
}

// TranslateMemOperand lowers a Memory operand's addressing mode to the
// address the access should use, plus any write-back.
func TranslateMemOperand(ctxt ir.TranslationContext, instAddr uint64, m AddrMode) MemTranslation {
	switch m.Kind {
	case AddrImmOffset, AddrRegOffset:
		base := RegExpr(ctxt, m.Base)
		return MemTranslation{AccessAddr: offsetAddr(ctxt, base, m)}

	case AddrLiteral:
		alignedPC := constW(32, (instAddr&^uint64(3))+uint64(m.LiteralImm))
		return MemTranslation{AccessAddr: alignedPC}

	case AddrPreIndexed:
		base := RegExpr(ctxt, m.Base)
		addr := offsetAddr(ctxt, base, m)
		rn := m.Base
		return MemTranslation{
			AccessAddr: addr,
			Writeback: func(b *ir.Builder) {
				b.Put(ctxt.RegVar(rn), addr)
			},
		}

	case AddrPostIndexed:
		base := RegExpr(ctxt, m.Base)
		updated := offsetAddr(ctxt, base, m)
		rn := m.Base
		return MemTranslation{
			AccessAddr: base,
			Writeback: func(b *ir.Builder) {
				b.Put(ctxt.RegVar(rn), updated)
			},
		}
	}
	return MemTranslation{AccessAddr: RegExpr(ctxt, m.Base)}
}
