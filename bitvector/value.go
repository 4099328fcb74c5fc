// Package bitvector implements the immutable, width-tagged integer value
// that underlies every IR constant in the lifter: arbitrary widths from 1 to
// 512 bits, always masked to the declared width.
package bitvector

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidBitWidth is returned when a value is constructed or operated on
// with a width outside the supported set.
var ErrInvalidBitWidth = errors.New("bitvector: invalid bit width")

// ErrArithTypeMismatch is returned when two operands of differing widths
// reach an operation that requires matching widths.
var ErrArithTypeMismatch = errors.New("bitvector: operand width mismatch")

// ErrDivByZero is returned by UDiv/SDiv/URem/SRem on a zero divisor.
var ErrDivByZero = errors.New("bitvector: division by zero")

// legalWidths is the declared set of scalar bit widths. Byte-array sourced
// values may additionally use any width that is a multiple of 8; that
// exception is enforced only by OfByteArray.
var legalWidths = map[int]bool{
	1: true, 2: true, 4: true, 8: true, 16: true, 32: true,
	64: true, 80: true, 128: true, 256: true, 512: true,
}

// IsLegalWidth reports whether w is one of the declared scalar widths.
func IsLegalWidth(w int) bool {
	return legalWidths[w]
}

// Value is an immutable bit-vector: a non-negative integer always masked to
// its declared width. Two values are equal iff their widths and masked
// values are identical.
type Value struct {
	width int
	val   *big.Int // always in [0, 2^width)
}

// Width returns the declared bit width of v.
func (v Value) Width() int { return v.width }

func mask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	m.Sub(m, big.NewInt(1))
	return m
}

func maskTo(x *big.Int, width int) *big.Int {
	return new(big.Int).And(x, mask(width))
}

func newValue(width int, x *big.Int) (Value, error) {
	if !IsLegalWidth(width) {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidBitWidth, width)
	}
	return Value{width: width, val: maskTo(x, width)}, nil
}

// OfUint64 builds a width-bit value from an unsigned 64-bit integer,
// truncating to width if width < 64.
func OfUint64(x uint64, width int) (Value, error) {
	return newValue(width, new(big.Int).SetUint64(x))
}

// MustOfUint64 is OfUint64 but panics on error; use only with a
// known-legal, compile-time-constant width.
func MustOfUint64(x uint64, width int) Value {
	v, err := OfUint64(x, width)
	if err != nil {
		panic(err)
	}
	return v
}

// OfInt64 builds a width-bit value from a signed 64-bit integer, sign
// extending (or truncating) into width bits, two's-complement.
func OfInt64(x int64, width int) (Value, error) {
	big64 := big.NewInt(x)
	if x >= 0 {
		return newValue(width, big64)
	}
	// two's complement: 2^width + x
	twoW := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return newValue(width, twoW.Add(twoW, big64))
}

// OfBigInt builds a width-bit value from an arbitrary-precision integer,
// masking (for non-negative x) or two's-complementing (for negative x) into
// width bits.
func OfBigInt(x *big.Int, width int) (Value, error) {
	if x.Sign() >= 0 {
		return newValue(width, x)
	}
	twoW := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return newValue(width, new(big.Int).Add(twoW, x))
}

// OfByteArray builds a value from a little-endian byte slice. The width is
// 8*len(b); unlike scalar constructors this width need not be one of the
// declared set, only a multiple of 8.
func OfByteArray(b []byte) (Value, error) {
	width := len(b) * 8
	if width == 0 || width%8 != 0 {
		return Value{}, fmt.Errorf("%w: byte array width %d", ErrInvalidBitWidth, width)
	}
	be := make([]byte, len(b))
	for i, by := range b {
		be[len(b)-1-i] = by
	}
	return Value{width: width, val: maskTo(new(big.Int).SetBytes(be), width)}, nil
}

// ToByteArray renders v as little-endian bytes, width/8 of them.
func (v Value) ToByteArray() []byte {
	n := v.width / 8
	if v.width%8 != 0 {
		n++
	}
	be := v.val.FillBytes(make([]byte, n))
	out := make([]byte, n)
	for i, by := range be {
		out[n-1-i] = by
	}
	return out
}

// ToUint64 returns the masked value as a uint64 (truncating if width > 64).
func (v Value) ToUint64() uint64 {
	if v.val.BitLen() > 64 {
		return new(big.Int).And(v.val, mask(64)).Uint64()
	}
	return v.val.Uint64()
}

// ToBigInt returns the underlying masked value, unsigned, as a fresh big.Int.
func (v Value) ToBigInt() *big.Int {
	return new(big.Int).Set(v.val)
}

// ToInt64 interprets v as a two's-complement signed integer of its width and
// returns it as an int64 (meaningful only for width <= 64).
func (v Value) ToInt64() int64 {
	if v.IsPositive() {
		return v.val.Int64()
	}
	twoW := new(big.Int).Lsh(big.NewInt(1), uint(v.width))
	neg := new(big.Int).Sub(v.val, twoW)
	return neg.Int64()
}

// IsPositive reports whether the top bit of v's declared width is clear.
func (v Value) IsPositive() bool {
	return v.val.Bit(v.width-1) == 0
}

// Bit returns bit i (0 = LSB) of v.
func (v Value) Bit(i int) uint {
	return v.val.Bit(i)
}

// Equal reports whether v and o have identical width and masked value.
func (v Value) Equal(o Value) bool {
	return v.width == o.width && v.val.Cmp(o.val) == 0
}

// String renders v as hex with an explicit width suffix, e.g. "0x2a:32".
func (v Value) String() string {
	return fmt.Sprintf("0x%s:%d", v.val.Text(16), v.width)
}

// T is the canonical 1-bit "true" value.
func T() Value { return MustOfUint64(1, 1) }

// F is the canonical 1-bit "false" value.
func F() Value { return MustOfUint64(0, 1) }

// FromBool renders a Go bool as a 1-bit value.
func FromBool(b bool) Value {
	if b {
		return T()
	}
	return F()
}

// IsTrue reports whether a 1-bit value equals T().
func (v Value) IsTrue() bool {
	return v.width == 1 && v.val.Sign() != 0
}

// MidNum returns 2^(w-1) at width w, for w in {8,16,32,64} (and, by
// extension, any legal width the caller asks for).
func MidNum(w int) (Value, error) {
	x := new(big.Int).Lsh(big.NewInt(1), uint(w-1))
	return newValue(w, x)
}

// MaxNum returns 2^w - 1 at width w: the all-ones value.
func MaxNum(w int) (Value, error) {
	return newValue(w, mask(w))
}

func checkWidths(a, b Value) error {
	if a.width != b.width {
		return fmt.Errorf("%w: %d vs %d", ErrArithTypeMismatch, a.width, b.width)
	}
	return nil
}
