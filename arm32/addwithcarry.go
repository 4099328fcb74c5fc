package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// AddWithCarryResult is the (result, carryOut, overflow) triple underlying
// ADD/ADDS, SUB/SUBS, RSB, and ADC/SBC.
type AddWithCarryResult struct {
	Result, CarryOut, Overflow *ir.Expr
}

// AddWithCarry computes (a + b + cin) mod 2^width, plus its carry-out and
// signed-overflow flags, all as IR expressions over width-bit operands (cin
// must be a 1-bit expression).
func AddWithCarry(width int, a, b, cin *ir.Expr) AddWithCarryResult {
	sum := ir.Add(a, ir.Add(b, ir.ZExt(width, cin)))
	carryOut := ir.Lt(sum, a) // unsigned: result < a means carry occurred
	aSign := bitAt(width, a, width-1)
	bSign := bitAt(width, b, width-1)
	rSign := bitAt(width, sum, width-1)
	overflow := ir.And(ir.Eq(aSign, bSign), ir.Neq(aSign, rSign))
	return AddWithCarryResult{Result: sum, CarryOut: carryOut, Overflow: overflow}
}

// SubWithBorrow computes a - b via AddWithCarry(a, ~b, 1), which also
// yields SUB/SUBS/CMP's carry (set means "no borrow") and overflow flags
// in one call.
func SubWithBorrow(width int, a, b *ir.Expr) AddWithCarryResult {
	return AddWithCarry(width, a, ir.Not(b), ir.B1())
}
