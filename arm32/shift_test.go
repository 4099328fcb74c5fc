package arm32

import (
	"testing"

	"github.com/lookbusy1344/arm-lifter/ir"
)

// TestShiftLSLByZeroIsIdentity checks the ARM manual's shift-by-zero rule:
// the value passes through unchanged and carry-out is carry-in.
func TestShiftLSLByZeroIsIdentity(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	carryIn := ir.B1()
	val, carry := ShiftC(32, reg, ShiftLSL, 0, carryIn)
	if val != reg {
		t.Errorf("LSL #0 must return the input expression unchanged, got %v", val)
	}
	if carry != carryIn {
		t.Errorf("LSL #0 carry-out must equal carry-in, got %v", carry)
	}
}

// TestShiftRRXAlwaysShiftsByOne checks RRX's carry-out is bit 0 of the
// input, regardless of any amt argument (RRX always rotates by 1).
func TestShiftRRXAlwaysShiftsByOne(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	_, carry := ShiftC(32, reg, ShiftRRX, 1, ir.B0())
	want := bitAt(32, reg, 0)
	if carry.String() != want.String() {
		t.Errorf("RRX carry-out = %v, want bit 0 of input %v", carry, want)
	}
}

// TestShiftLSRCarryOutBitKMinus1 matches the manual: LSR by k, carry-out is
// bit (k-1) of the input.
func TestShiftLSRCarryOutBitKMinus1(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	_, carry := ShiftC(32, reg, ShiftLSR, 5, ir.B0())
	want := bitAt(32, reg, 4)
	if carry.String() != want.String() {
		t.Errorf("LSR #5 carry-out = %v, want bit 4 of input %v", carry, want)
	}
}

// TestShiftLSLCarryOutBitWidthMinusK matches the manual: LSL by k, carry-out
// is bit (width-k) of the input.
func TestShiftLSLCarryOutBitWidthMinusK(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	_, carry := ShiftC(32, reg, ShiftLSL, 3, ir.B0())
	want := bitAt(32, reg, 29)
	if carry.String() != want.String() {
		t.Errorf("LSL #3 carry-out = %v, want bit 29 of input %v", carry, want)
	}
}

// TestShiftRORCarryOutIsTopBitOfResult matches the manual: ROR's carry-out
// is the top bit of the rotated result, not of the input.
func TestShiftRORCarryOutIsTopBitOfResult(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	result, carry := ShiftC(32, reg, ShiftROR, 4, ir.B0())
	want := bitAt(32, result, 31)
	if carry.String() != want.String() {
		t.Errorf("ROR #4 carry-out = %v, want top bit of rotated result %v", carry, want)
	}
}

// TestShiftCForRegAmountGuardsZero checks the runtime-amount variant makes
// the amount==0 case explicit via an ITE on both value and carry rather
// than resolving it at lift time.
func TestShiftCForRegAmountGuardsZero(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	amount := ir.VarE(ir.Var{Name: "R1", Width: 32})
	val, carry := ShiftCForRegAmount(32, reg, ShiftLSL, amount, ir.B0())
	if val.Kind != ir.KITE {
		t.Errorf("runtime-amount shift value must be an ITE guarding amount==0, got %v", val.Kind)
	}
	if carry.Kind != ir.KITE {
		t.Errorf("runtime-amount shift carry must be an ITE guarding amount==0, got %v", carry.Kind)
	}
}

// TestShiftCForRegAmountLSRCarryUsesAmountMinusOne locks in the ARM
// manual's rule: runtime LSR/ASR carry-out is bit (amount-1) of the input.
func TestShiftCForRegAmountLSRCarryUsesAmountMinusOne(t *testing.T) {
	reg := ir.VarE(ir.Var{Name: "R0", Width: 32})
	amount := ir.VarE(ir.Var{Name: "R1", Width: 32})
	_, carry := ShiftCForRegAmount(32, reg, ShiftLSR, amount, ir.B0())
	if carry.Kind != ir.KITE {
		t.Fatalf("expected an ITE, got %v", carry.Kind)
	}
	shiftedCarry := carry.FExpr
	if shiftedCarry.Kind != ir.KCast || shiftedCarry.Cast != ir.CastTruncate {
		t.Fatalf("expected a truncate-to-1-bit carry expression, got %v", shiftedCarry.Kind)
	}
	inner := shiftedCarry.Src
	if inner.Kind != ir.KBinOp || inner.BinOp != ir.OpShrU {
		t.Fatalf("expected a logical-shift-right to extract the carry bit, got %v", inner.Kind)
	}
	shiftAmt := inner.RHS
	if shiftAmt.Kind != ir.KBinOp || shiftAmt.BinOp != ir.OpSub {
		t.Errorf("expected the carry bit position to be amount-1, got %v", shiftAmt.Kind)
	}
}

func TestPSRRoundTripSetGet(t *testing.T) {
	cpsr := ir.VarE(ir.Var{Name: "CPSR", Width: 32})
	withN := SetPSR(cpsr, FieldN, ir.B1())
	gotN := GetPSR(withN, FieldN)
	if gotN.Kind != ir.KCast {
		t.Errorf("GetPSR(SetPSR(...)) should shape as a truncate-of-shift, got %v", gotN.Kind)
	}
}

func TestPSREnableDisable(t *testing.T) {
	cpsr := ir.VarE(ir.Var{Name: "CPSR", Width: 32})
	enabled := EnablePSR(cpsr, FieldI)
	if enabled.Kind != ir.KBinOp || enabled.BinOp != ir.OpOr {
		t.Errorf("EnablePSR should OR in the field mask, got %v", enabled.Kind)
	}
	disabled := DisablePSR(cpsr, FieldI)
	if disabled.Kind != ir.KBinOp || disabled.BinOp != ir.OpAnd {
		t.Errorf("DisablePSR should AND with the inverted field mask, got %v", disabled.Kind)
	}
}

func TestAddWithCarryOverflowExpression(t *testing.T) {
	a := ir.VarE(ir.Var{Name: "R0", Width: 32})
	b := ir.VarE(ir.Var{Name: "R1", Width: 32})
	r := AddWithCarry(32, a, b, ir.B0())
	if r.Result.Kind != ir.KBinOp || r.Result.BinOp != ir.OpAdd {
		t.Errorf("AddWithCarry result should be a binary add, got %v", r.Result.Kind)
	}
	if r.Overflow.Kind != ir.KBinOp || r.Overflow.BinOp != ir.OpAnd {
		t.Errorf("AddWithCarry overflow should AND two sign-bit comparisons, got %v", r.Overflow.Kind)
	}
}

func TestSubWithBorrowUsesAddWithCarryOfComplement(t *testing.T) {
	a := ir.VarE(ir.Var{Name: "R0", Width: 32})
	b := ir.VarE(ir.Var{Name: "R1", Width: 32})
	got := SubWithBorrow(32, a, b)
	want := AddWithCarry(32, a, ir.Not(b), ir.B1())
	if got.Result.String() != want.Result.String() {
		t.Errorf("SubWithBorrow(a,b).Result = %v, want AddWithCarry(a, ~b, 1).Result = %v", got.Result, want.Result)
	}
}
