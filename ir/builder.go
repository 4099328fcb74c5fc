package ir

import (
	"github.com/lookbusy1344/arm-lifter/bitvector"
)

// Builder accumulates a linear, ordered sequence of IR statements for one
// instruction. It is created fresh per instruction with a capacity hint; its
// only mutation is append, and statements are never reordered or pruned
// here. The lifter is the sole author of statement order.
type Builder struct {
	stmts []Stmt
}

// NewBuilder creates a Builder with capacity for roughly capHint statements.
func NewBuilder(capHint int) *Builder {
	return &Builder{stmts: make([]Stmt, 0, capHint)}
}

// Finish converts the accumulated statements to an immutable sequence. The
// Builder should not be reused after Finish is called.
func (b *Builder) Finish() []Stmt {
	return b.stmts
}

func (b *Builder) append(s Stmt) {
	b.stmts = append(b.stmts, s)
}

// --- expression constructors ---

// Num wraps a bitvector constant as a constant expression.
func Num(v bitvector.Value) *Expr {
	return &Expr{Kind: KConst, Const: v}
}

// Num0 returns the zero constant at width w.
func Num0(w int) *Expr {
	return Num(bitvector.MustOfUint64(0, w))
}

// Num1 returns the one constant at width w.
func Num1(w int) *Expr {
	return Num(bitvector.MustOfUint64(1, w))
}

// B0 is the 1-bit false constant.
func B0() *Expr { return Num(bitvector.F()) }

// B1 is the 1-bit true constant.
func B1() *Expr { return Num(bitvector.T()) }

// VarE wraps a Var as a variable-reference expression.
func VarE(v Var) *Expr {
	return &Expr{Kind: KVar, VarRef: v}
}

// TmpVar mints a fresh temporary of width w from the allocator and wraps it
// as a variable expression, returning both the Var (for a later Put target)
// and the expression.
func TmpVar(alloc *TempAllocator, w int) (Var, *Expr) {
	v := alloc.New(w)
	return v, VarE(v)
}

func bin(op BinOpKind, l, r *Expr) *Expr {
	return &Expr{Kind: KBinOp, BinOp: op, LHS: l, RHS: r}
}

func Add(l, r *Expr) *Expr  { return bin(OpAdd, l, r) }
func Sub(l, r *Expr) *Expr  { return bin(OpSub, l, r) }
func Mul(l, r *Expr) *Expr  { return bin(OpMul, l, r) }
func And(l, r *Expr) *Expr  { return bin(OpAnd, l, r) }
func Or(l, r *Expr) *Expr   { return bin(OpOr, l, r) }
func Xor(l, r *Expr) *Expr  { return bin(OpXor, l, r) }
func Shl(l, r *Expr) *Expr  { return bin(OpShl, l, r) }
func Lsr(l, r *Expr) *Expr  { return bin(OpShrU, l, r) }
func Asr(l, r *Expr) *Expr  { return bin(OpShrS, l, r) }
func UDiv(l, r *Expr) *Expr { return bin(OpUDiv, l, r) }
func SDiv(l, r *Expr) *Expr { return bin(OpSDiv, l, r) }
func URem(l, r *Expr) *Expr { return bin(OpURem, l, r) }
func SRem(l, r *Expr) *Expr { return bin(OpSRem, l, r) }

func rel(op RelOpKind, l, r *Expr) *Expr {
	return &Expr{Kind: KRelOp, RelOp: op, LHS: l, RHS: r}
}

func Eq(l, r *Expr) *Expr  { return rel(RelEq, l, r) }
func Neq(l, r *Expr) *Expr { return rel(RelNeq, l, r) }
func Lt(l, r *Expr) *Expr  { return rel(RelLt, l, r) }
func Le(l, r *Expr) *Expr  { return rel(RelLe, l, r) }
func Gt(l, r *Expr) *Expr  { return rel(RelGt, l, r) }
func Ge(l, r *Expr) *Expr  { return rel(RelGe, l, r) }
func Slt(l, r *Expr) *Expr { return rel(RelSlt, l, r) }
func Sle(l, r *Expr) *Expr { return rel(RelSle, l, r) }
func Sgt(l, r *Expr) *Expr { return rel(RelSgt, l, r) }
func Sge(l, r *Expr) *Expr { return rel(RelSge, l, r) }

// Neg is two's-complement unary negation.
func Neg(e *Expr) *Expr { return &Expr{Kind: KUnOp, UnOp: UnNeg, Operand: e} }

// Not is bitwise complement.
func Not(e *Expr) *Expr { return &Expr{Kind: KUnOp, UnOp: UnNot, Operand: e} }

// ZExt zero-extends e to width w.
func ZExt(w int, e *Expr) *Expr {
	return &Expr{Kind: KCast, Cast: CastZeroExtend, CastWidth: w, Src: e}
}

// SExt sign-extends e to width w.
func SExt(w int, e *Expr) *Expr {
	return &Expr{Kind: KCast, Cast: CastSignExtend, CastWidth: w, Src: e}
}

// Trunc truncates e to width w.
func Trunc(w int, e *Expr) *Expr {
	return &Expr{Kind: KCast, Cast: CastTruncate, CastWidth: w, Src: e}
}

// Extract returns bits [pos, pos+w) of e as a w-bit expression.
func Extract(e *Expr, w, pos int) *Expr {
	return &Expr{Kind: KExtract, ExtractWidth: w, ExtractPos: pos, ExtractSrc: e}
}

// ExtractLow returns the low w bits of e.
func ExtractLow(w int, e *Expr) *Expr {
	return Extract(e, w, 0)
}

// ExtractHigh returns the high w bits of e (e must be wider than w).
func ExtractHigh(w int, e *Expr) *Expr {
	return Extract(e, w, e.Width()-w)
}

// Concat returns (hi << width(lo)) | lo as a single expression of combined
// width.
func Concat(hi, lo *Expr) *Expr {
	return &Expr{Kind: KConcat, Hi: hi, Lo: lo}
}

// ITE is a ternary conditional expression: cond must be 1-bit; t and f must
// share a width.
func ITE(cond, t, f *Expr) *Expr {
	return &Expr{Kind: KITE, Cond: cond, TExpr: t, FExpr: f}
}

// LoadLE builds a little-endian memory load of width w at address addr.
func LoadLE(w int, addr *Expr) *Expr {
	return &Expr{Kind: KLoadLE, LoadWidth: w, Addr: addr}
}

// Undefined builds a width-w placeholder expression tagged with why it is
// undefined.
func Undefined(w int, reason UndefReason, tag string) *Expr {
	return &Expr{Kind: KUndefined, UndefWidth: w, UndefReason: reason, UndefTag: tag}
}

// --- statement emitters ---

// Put appends "v <- e".
func (b *Builder) Put(v Var, e *Expr) {
	b.append(Stmt{Kind: KPut, PutVar: v, PutVal: e})
}

// Store appends a memory write of val to the address computed by a LoadLE-
// shaped left-hand side (the builder doesn't enforce this shape; callers
// pass the address expression directly).
func (b *Builder) Store(addr, val *Expr) {
	b.append(Stmt{Kind: KStore, StoreAddr: addr, StoreVal: val})
}

// NewLabel creates a label from a symbolic name, unique only within the
// instruction currently being built.
func (b *Builder) NewLabel(name string) Label {
	return Label{Name: name}
}

// LMark appends a label-definition marker.
func (b *Builder) LMark(l Label) {
	b.append(Stmt{Kind: KLMark, Label: l})
}

// Jmp appends an unconditional jump to a local label.
func (b *Builder) Jmp(l Label) {
	b.append(Stmt{Kind: KJmp, Label: l})
}

// CJmp appends a conditional branch: if cond (1-bit) then tlabel else
// flabel.
func (b *Builder) CJmp(cond *Expr, tlabel, flabel Label) {
	b.append(Stmt{Kind: KCJmp, CJmpCond: cond, CJmpTrue: tlabel, CJmpFalse: flabel})
}

// InterJmp appends an inter-block jump: target becomes the new value of
// pcVar, leaving the current basic block.
func (b *Builder) InterJmp(pcVar Var, target *Expr) {
	b.append(Stmt{Kind: KInterJmp, PCVar: pcVar, Target: target})
}

// SideEffect appends a named side effect with no further semantics.
func (b *Builder) SideEffect(tag SideEffectTag) {
	b.append(Stmt{Kind: KSideEffect, SideEffect: tag})
}

// ISMark appends the instruction-start boundary marker.
func (b *Builder) ISMark(addr uint64, length uint32) {
	b.append(Stmt{Kind: KISMark, ISAddr: addr, ISLen: length})
}

// IEMark appends the instruction-end boundary marker.
func (b *Builder) IEMark(addr uint64) {
	b.append(Stmt{Kind: KIEMark, IEAddr: addr})
}
