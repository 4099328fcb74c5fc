// Package ir implements the embedded IR expression/statement DSL: a small
// tagged-variant expression tree and a linear, append-only statement
// sequence built per instruction by the arm32 lifter.
package ir

import (
	"fmt"

	"github.com/lookbusy1344/arm-lifter/bitvector"
)

// ExprKind tags the closed set of expression variants.
type ExprKind int

const (
	KConst ExprKind = iota
	KVar
	KBinOp
	KRelOp
	KUnOp
	KCast
	KExtract
	KConcat
	KITE
	KLoadLE
	KUndefined
)

func (k ExprKind) String() string {
	names := [...]string{
		"Const", "Var", "BinOp", "RelOp", "UnOp", "Cast", "Extract",
		"Concat", "ITE", "LoadLE", "Undefined",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "??"
}

// BinOpKind tags the arithmetic/logical binary operators.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShrU
	OpShrS
	OpUDiv
	OpSDiv
	OpURem
	OpSRem
)

// RelOpKind tags the relational operators; all produce a 1-bit expression.
type RelOpKind int

const (
	RelEq RelOpKind = iota
	RelNeq
	RelGt
	RelGe
	RelLt
	RelLe
	RelSgt
	RelSge
	RelSlt
	RelSle
)

// UnOpKind tags the unary operators.
type UnOpKind int

const (
	UnNeg UnOpKind = iota
	UnNot
)

// CastKind tags the width-changing cast operators.
type CastKind int

const (
	CastZeroExtend CastKind = iota
	CastSignExtend
	CastTruncate
)

// UndefReason distinguishes the two purposes Undefined serves: an
// architecturally-undefined result per the ARM manual, versus a placeholder
// for lifter semantics not yet modeled.
type UndefReason int

const (
	// UndefUnpredictable marks a result the ARM manual calls UNPREDICTABLE.
	UndefUnpredictable UndefReason = iota
	// UndefUnimplemented marks a sub-semantic the lifter has not modeled.
	UndefUnimplemented
)

func (r UndefReason) String() string {
	if r == UndefUnpredictable {
		return "Undef_Unpredictable"
	}
	return "Undef_Unimplemented"
}

// Var identifies a register or temporary variable, typed by width. Register
// variables are long-lived handles owned by the TranslationContext;
// temporaries are minted fresh per translation by a TempAllocator.
type Var struct {
	Name  string
	Width int
}

func (v Var) String() string { return fmt.Sprintf("%s:%d", v.Name, v.Width) }

// Expr is a node in the IR expression tree. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Expr struct {
	Kind ExprKind

	// KConst
	Const bitvector.Value

	// KVar
	VarRef Var

	// KBinOp, KRelOp
	BinOp BinOpKind
	RelOp RelOpKind
	LHS   *Expr
	RHS   *Expr

	// KUnOp
	UnOp UnOpKind
	Operand *Expr

	// KCast
	Cast     CastKind
	CastWidth int
	Src      *Expr

	// KExtract
	ExtractWidth int
	ExtractPos   int
	ExtractSrc   *Expr

	// KConcat
	Hi *Expr
	Lo *Expr

	// KITE
	Cond  *Expr
	TExpr *Expr
	FExpr *Expr

	// KLoadLE
	LoadWidth int
	Addr      *Expr

	// KUndefined
	UndefWidth  int
	UndefReason UndefReason
	UndefTag    string
}

// Width reports the bit width of the value e evaluates to.
func (e *Expr) Width() int {
	switch e.Kind {
	case KConst:
		return e.Const.Width()
	case KVar:
		return e.VarRef.Width
	case KBinOp:
		return e.LHS.Width()
	case KRelOp:
		return 1
	case KUnOp:
		return e.Operand.Width()
	case KCast:
		return e.CastWidth
	case KExtract:
		return e.ExtractWidth
	case KConcat:
		return e.Hi.Width() + e.Lo.Width()
	case KITE:
		return e.TExpr.Width()
	case KLoadLE:
		return e.LoadWidth
	case KUndefined:
		return e.UndefWidth
	}
	return 0
}
