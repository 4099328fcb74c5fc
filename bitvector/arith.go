package bitvector

import "math/big"

// Add returns (a + b) mod 2^width. Widths of a and b must match.
func Add(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return newValue(a.width, new(big.Int).Add(a.val, b.val))
}

// Sub returns (a - b) mod 2^width.
func Sub(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return newValue(a.width, new(big.Int).Sub(a.val, b.val))
}

// Mul returns (a * b) mod 2^width.
func Mul(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return newValue(a.width, new(big.Int).Mul(a.val, b.val))
}

// UDiv is unsigned division; ErrDivByZero on b == 0.
func UDiv(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	if b.val.Sign() == 0 {
		return Value{}, ErrDivByZero
	}
	return newValue(a.width, new(big.Int).Div(a.val, b.val))
}

// URem is unsigned remainder; ErrDivByZero on b == 0.
func URem(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	if b.val.Sign() == 0 {
		return Value{}, ErrDivByZero
	}
	return newValue(a.width, new(big.Int).Mod(a.val, b.val))
}

// SDiv is signed (two's-complement) division: interpret both operands as
// signed at their declared width, negate as needed, divide unsigned, then
// re-negate based on the original sign combination.
func SDiv(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	if b.val.Sign() == 0 {
		return Value{}, ErrDivByZero
	}
	aNeg, aAbs := signedAbs(a)
	bNeg, bAbs := signedAbs(b)
	q := new(big.Int).Div(aAbs, bAbs)
	if aNeg != bNeg {
		q.Neg(q)
	}
	return newValue(a.width, q)
}

// SRem is signed remainder, sign following the dividend (a).
func SRem(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	if b.val.Sign() == 0 {
		return Value{}, ErrDivByZero
	}
	aNeg, aAbs := signedAbs(a)
	_, bAbs := signedAbs(b)
	r := new(big.Int).Mod(aAbs, bAbs)
	if aNeg {
		r.Neg(r)
	}
	return newValue(a.width, r)
}

// signedAbs returns (true if negative, absolute value) for v interpreted as
// a two's-complement signed integer at its declared width.
func signedAbs(v Value) (bool, *big.Int) {
	if v.IsPositive() {
		return false, new(big.Int).Set(v.val)
	}
	twoW := new(big.Int).Lsh(big.NewInt(1), uint(v.width))
	return true, new(big.Int).Sub(twoW, v.val)
}

// Neg returns the two's-complement negation of v: (2^width - v) mod 2^width.
func Neg(v Value) Value {
	r, _ := newValue(v.width, new(big.Int).Neg(v.val))
	return r
}

// BNot returns the bitwise complement of v within its width.
func BNot(v Value) Value {
	r, _ := newValue(v.width, new(big.Int).Xor(v.val, mask(v.width)))
	return r
}

// And returns the bitwise AND of a and b.
func And(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return newValue(a.width, new(big.Int).And(a.val, b.val))
}

// Or returns the bitwise OR of a and b.
func Or(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return newValue(a.width, new(big.Int).Or(a.val, b.val))
}

// Xor returns the bitwise exclusive-OR of a and b.
func Xor(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return newValue(a.width, new(big.Int).Xor(a.val, b.val))
}

// Shl returns a << k truncated to a's width. The shift amount k is itself a
// bit-vector of the same width as a.
func Shl(a, k Value) (Value, error) {
	if err := checkWidths(a, k); err != nil {
		return Value{}, err
	}
	amt := shiftAmountOf(k, a.width)
	return newValue(a.width, new(big.Int).Lsh(a.val, amt))
}

// Shr is logical (unsigned) right shift.
func Shr(a, k Value) (Value, error) {
	if err := checkWidths(a, k); err != nil {
		return Value{}, err
	}
	amt := shiftAmountOf(k, a.width)
	return newValue(a.width, new(big.Int).Rsh(a.val, amt))
}

// Sar is arithmetic right shift, preserving the sign bit.
func Sar(a, k Value) (Value, error) {
	if err := checkWidths(a, k); err != nil {
		return Value{}, err
	}
	amt := shiftAmountOf(k, a.width)
	shifted := new(big.Int).Rsh(a.val, amt)
	if a.IsPositive() {
		return newValue(a.width, shifted)
	}
	// OR in a mask of high-order ones, amt of them (clamped to width(a)).
	ones := amt
	if ones > uint(a.width) {
		ones = uint(a.width)
	}
	highOnes := new(big.Int).Lsh(mask(int(ones)), uint(a.width)-ones)
	return newValue(a.width, new(big.Int).Or(shifted, highOnes))
}

func shiftAmountOf(k Value, width int) uint {
	amt := k.val.Uint64()
	if amt > uint64(width)*4 {
		// Shifting by an absurd amount still yields all-zero/all-sign
		// results; clamp so big.Int doesn't try to allocate.
		return uint(width) * 4
	}
	return uint(amt)
}

// Concat returns (hi << width(lo)) | lo; result width is width(hi)+width(lo).
func Concat(hi, lo Value) (Value, error) {
	shifted := new(big.Int).Lsh(hi.val, uint(lo.width))
	return newValue(hi.width+lo.width, new(big.Int).Or(shifted, lo.val))
}

// Extract returns (x >> pos) masked to newWidth.
func Extract(x Value, newWidth, pos int) (Value, error) {
	shifted := new(big.Int).Rsh(x.val, uint(pos))
	return newValue(newWidth, shifted)
}

// Cast masks or zero-extends x to newWidth.
func Cast(x Value, newWidth int) (Value, error) {
	return newValue(newWidth, x.val)
}

// SExt zero-extends x to newWidth, then, if x is negative at its original
// width, adds (mask(newWidth) - mask(oldWidth)) to fill the high bits with
// ones.
func SExt(x Value, newWidth int) (Value, error) {
	if newWidth < x.width {
		return Value{}, ErrInvalidBitWidth
	}
	if x.IsPositive() {
		return newValue(newWidth, x.val)
	}
	delta := new(big.Int).Sub(mask(newWidth), mask(x.width))
	return newValue(newWidth, new(big.Int).Add(x.val, delta))
}

// ZExt zero-extends x to newWidth (an alias of Cast, kept distinct for
// call-site clarity next to SExt).
func ZExt(x Value, newWidth int) (Value, error) {
	return Cast(x, newWidth)
}

// Eq, Neq, and the unsigned/signed relational comparisons all return 1-bit
// bit-vectors (T()/F()).

func Eq(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(a.val.Cmp(b.val) == 0), nil
}

func Neq(a, b Value) (Value, error) {
	v, err := Eq(a, b)
	if err != nil {
		return Value{}, err
	}
	return FromBool(!v.IsTrue()), nil
}

func Gt(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(a.val.Cmp(b.val) > 0), nil
}

func Ge(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(a.val.Cmp(b.val) >= 0), nil
}

func Lt(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(a.val.Cmp(b.val) < 0), nil
}

func Le(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(a.val.Cmp(b.val) <= 0), nil
}

// signedBig returns v reinterpreted as a signed big.Int at its declared
// width, so the signed comparisons work at any width, not just <= 64 bits.
func signedBig(v Value) *big.Int {
	if v.IsPositive() {
		return new(big.Int).Set(v.val)
	}
	twoW := new(big.Int).Lsh(big.NewInt(1), uint(v.width))
	return new(big.Int).Sub(v.val, twoW)
}

func Sgt(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(signedBig(a).Cmp(signedBig(b)) > 0), nil
}

func Sge(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(signedBig(a).Cmp(signedBig(b)) >= 0), nil
}

func Slt(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(signedBig(a).Cmp(signedBig(b)) < 0), nil
}

func Sle(a, b Value) (Value, error) {
	if err := checkWidths(a, b); err != nil {
		return Value{}, err
	}
	return FromBool(signedBig(a).Cmp(signedBig(b)) <= 0), nil
}

// CarryFromAdd reports whether an unsigned overflow occurred computing
// a+b == result, mirroring CalculateAddCarry at arbitrary
// width: carry iff result < a (unsigned).
func CarryFromAdd(a, result Value) bool {
	return result.val.Cmp(a.val) < 0
}

// OverflowFromAdd reports whether a signed overflow occurred: operand sign
// bits agree but differ from the result's sign bit.
func OverflowFromAdd(a, b, result Value) bool {
	return a.IsPositive() == b.IsPositive() && a.IsPositive() != result.IsPositive()
}
