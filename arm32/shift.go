package arm32

import (
	"github.com/lookbusy1344/arm-lifter/bitvector"
	"github.com/lookbusy1344/arm-lifter/ir"
)

// Shift-with-carry primitives, split into two total functions per shift
// family (one returning (expr, carryExpr), one returning just expr) to avoid
// tuple projections at call sites that don't feed the C flag.

func constW(width int, val uint64) *ir.Expr {
	return ir.Num(bitvector.MustOfUint64(val, width))
}

// bitAt returns a 1-bit expression for bit `pos` (0 = LSB, compile-time
// constant) of a width-bit expression e.
func bitAt(width int, e *ir.Expr, pos int) *ir.Expr {
	if pos < 0 || pos >= width {
		return ir.B0()
	}
	return ir.Trunc(1, ir.Lsr(e, constW(width, uint64(pos))))
}

// bitAtExpr is the runtime-amount counterpart of bitAt: pos is itself a
// width-bit expression.
func bitAtExpr(e *ir.Expr, pos *ir.Expr) *ir.Expr {
	return ir.Trunc(1, ir.Lsr(e, pos))
}

// ShiftC performs a compile-time-amount shift/rotate, returning the shifted
// value and its carry-out, both as IR expressions over a width-bit operand.
func ShiftC(width int, e *ir.Expr, kind ShiftKind, amt int, carryIn *ir.Expr) (*ir.Expr, *ir.Expr) {
	switch kind {
	case ShiftLSL:
		if amt == 0 {
			return e, carryIn
		}
		carryOut := bitAt(width, e, width-amt)
		if amt >= width {
			return constW(width, 0), carryOut
		}
		return ir.Shl(e, constW(width, uint64(amt))), carryOut

	case ShiftLSR:
		// Caller is responsible for the ARM encoding quirk that "LSR #0"
		// means "LSR #32"; by the time amt reaches here it is the true
		// shift distance and is always >= 1.
		carryOut := bitAt(width, e, amt-1)
		if amt >= width {
			return constW(width, 0), carryOut
		}
		return ir.Lsr(e, constW(width, uint64(amt))), carryOut

	case ShiftASR:
		carryOut := bitAt(width, e, amt-1)
		if amt >= width {
			carryOut = bitAt(width, e, width-1)
		}
		// ir.Asr's evaluator (bitvector.Sar) already handles amt >= width
		// by sign-filling, so the literal amount is passed through as-is.
		return ir.Asr(e, constW(width, uint64(amt))), carryOut

	case ShiftROR:
		rotAmt := amt % width
		if rotAmt == 0 {
			// ROR by a multiple of width is a no-op on the value; carry is
			// the top bit of the (unrotated) result.
			return e, bitAt(width, e, width-1)
		}
		lo := ir.Lsr(e, constW(width, uint64(rotAmt)))
		hi := ir.Shl(e, constW(width, uint64(width-rotAmt)))
		result := ir.Or(lo, hi)
		return result, bitAt(width, result, width-1)

	case ShiftRRX:
		lo := ir.Lsr(e, constW(width, 1))
		hi := ir.Shl(ir.ZExt(width, carryIn), constW(width, uint64(width-1)))
		result := ir.Or(lo, hi)
		return result, bitAt(width, e, 0)
	}
	return e, carryIn
}

// Shift is ShiftC without the carry-out, for contexts (e.g. memory-offset
// shifts that don't feed the S-bit flag update) that only need the value.
func Shift(width int, e *ir.Expr, kind ShiftKind, amt int, carryIn *ir.Expr) *ir.Expr {
	v, _ := ShiftC(width, e, kind, amt, carryIn)
	return v
}

// ShiftCForRegAmount performs a runtime-amount shift/rotate: amount is a
// width-bit expression, not a literal. The amount == 0 case is made explicit
// in the IR via ITE (value and carry-in pass through unchanged) rather than
// resolved at lift time, since the amount is not known until the
// instruction executes. Amounts of width or more get no ITE guard of their
// own: they take whatever the shift operators and the carry-bit extraction
// yield for an out-of-range amount.
func ShiftCForRegAmount(width int, e *ir.Expr, kind ShiftKind, amount *ir.Expr, carryIn *ir.Expr) (*ir.Expr, *ir.Expr) {
	zero := constW(width, 0)
	isZero := ir.Eq(amount, zero)

	var shiftedVal, shiftedCarry *ir.Expr
	switch kind {
	case ShiftLSL:
		shiftedVal = ir.Shl(e, amount)
		shiftedCarry = bitAtExpr(e, ir.Sub(constW(width, uint64(width)), amount))
	case ShiftLSR:
		shiftedVal = ir.Lsr(e, amount)
		shiftedCarry = bitAtExpr(e, ir.Sub(amount, constW(width, 1)))
	case ShiftASR:
		shiftedVal = ir.Asr(e, amount)
		shiftedCarry = bitAtExpr(e, ir.Sub(amount, constW(width, 1)))
	case ShiftROR:
		rot := ir.URem(amount, constW(width, uint64(width)))
		lo := ir.Lsr(e, rot)
		hi := ir.Shl(e, ir.Sub(constW(width, uint64(width)), rot))
		shiftedVal = ir.Or(lo, hi)
		shiftedCarry = bitAt(width, shiftedVal, width-1)
	default:
		shiftedVal = e
		shiftedCarry = carryIn
	}

	val := ir.ITE(isZero, e, shiftedVal)
	carry := ir.ITE(isZero, carryIn, shiftedCarry)
	return val, carry
}

// ShiftForRegAmount is ShiftCForRegAmount without the carry-out.
func ShiftForRegAmount(width int, e *ir.Expr, kind ShiftKind, amount *ir.Expr, carryIn *ir.Expr) *ir.Expr {
	v, _ := ShiftCForRegAmount(width, e, kind, amount, carryIn)
	return v
}

