package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// PSRField names an addressable field of a Program Status Register.
// CPSR/APSR/SPSR/FPSCR are all modeled as a 32-bit register; fields are bit
// positions/widths within that word.
type PSRField int

const (
	FieldN PSRField = iota
	FieldZ
	FieldC
	FieldV
	FieldQ
	FieldIT10
	FieldJ
	FieldGE
	FieldIT72
	FieldE
	FieldA
	FieldI
	FieldF
	FieldT
	FieldM
	FieldCond // alias for N..V together, bits 31:28
)

type fieldSpan struct {
	pos, width int
}

// psrFields is a table keyed by PSRField, pure values, in place of
// scattered shift/mask constants.
var psrFields = map[PSRField]fieldSpan{
	FieldN:     {31, 1},
	FieldZ:     {30, 1},
	FieldC:     {29, 1},
	FieldV:     {28, 1},
	FieldQ:     {27, 1},
	FieldIT10:  {25, 2},
	FieldJ:     {24, 1},
	FieldGE:    {16, 4},
	FieldIT72:  {10, 6},
	FieldE:     {9, 1},
	FieldA:     {8, 1},
	FieldI:     {7, 1},
	FieldF:     {6, 1},
	FieldT:     {5, 1},
	FieldM:     {0, 5},
	FieldCond:  {28, 4},
}

// GetPSR returns an expression reading field from the PSR variable r,
// masked and shifted down to the field's own width.
func GetPSR(r *ir.Expr, field PSRField) *ir.Expr {
	span := psrFields[field]
	return ir.Trunc(span.width, ir.Lsr(r, constW(32, uint64(span.pos))))
}

// fieldMask32 returns a 32-bit constant with field's bits set, all else
// clear.
func fieldMask32(field PSRField) *ir.Expr {
	span := psrFields[field]
	mask := uint64(1)<<uint(span.width) - 1
	return constW(32, mask<<uint(span.pos))
}

// SetPSR builds the expression for writing e (field-width) into field of the
// 32-bit PSR value r: clear the field, then OR in the zero-extended,
// shifted value.
func SetPSR(r *ir.Expr, field PSRField, e *ir.Expr) *ir.Expr {
	span := psrFields[field]
	cleared := ir.And(r, ir.Not(fieldMask32(field)))
	shifted := ir.Shl(ir.ZExt(32, e), constW(32, uint64(span.pos)))
	return ir.Or(cleared, shifted)
}

// EnablePSR returns the expression for r with field's bits all set to one
// (e.g. enabling an interrupt-mask bit).
func EnablePSR(r *ir.Expr, field PSRField) *ir.Expr {
	return ir.Or(r, fieldMask32(field))
}

// DisablePSR returns the expression for r with field's bits all cleared.
func DisablePSR(r *ir.Expr, field PSRField) *ir.Expr {
	return ir.And(r, ir.Not(fieldMask32(field)))
}

// CPSR.M mode-field encodings relevant to the "restore CPSR from SPSR"
// UNPREDICTABLE check below. User and System mode have no SPSR to restore
// from at all, and Hyp mode's return path is not this one; the manual
// marks all three UNPREDICTABLE for SUBS PC,LR / LDM^'s CPSR restore.
const (
	modeFieldUser   = 0b10000
	modeFieldSystem = 0b11111
	modeFieldHyp    = 0b11010
)

// cpsrRestoreAllowed reports, as a 1-bit expression, whether cpsr's current
// mode has an SPSR to restore CPSR from.
func cpsrRestoreAllowed(cpsr *ir.Expr) *ir.Expr {
	mode := ir.ZExt(32, GetPSR(cpsr, FieldM))
	notUser := ir.Neq(mode, constW(32, modeFieldUser))
	notSystem := ir.Neq(mode, constW(32, modeFieldSystem))
	notHyp := ir.Neq(mode, constW(32, modeFieldHyp))
	return ir.And(ir.And(notUser, notSystem), notHyp)
}

// RestoreCPSRFromSPSR emits the guarded "CPSR <- SPSR" exception-return
// idiom shared by SUBS PC,LR (data-processing) and LDM^'s PC-in-list case:
// in User, System, or Hyp mode there is no SPSR to restore from, so the
// manual calls the restore UNPREDICTABLE and this emits
// SideEffect(UndefinedInstr) instead, mirroring BxWritePC's inline
// CJmp/LMark dispatch. labelPrefix keeps the mini-state-machine's labels
// unique within the emitting instruction.
func RestoreCPSRFromSPSR(b *ir.Builder, ctxt ir.TranslationContext, labelPrefix string) {
	cpsrVar := ctxt.RegVar(ir.CPSR)
	cpsr := ir.VarE(cpsrVar)

	ok := b.NewLabel(labelPrefix + "_restore_ok")
	undef := b.NewLabel(labelPrefix + "_restore_undef")
	end := b.NewLabel(labelPrefix + "_restore_end")

	b.CJmp(cpsrRestoreAllowed(cpsr), ok, undef)

	b.LMark(ok)
	b.Put(cpsrVar, ir.VarE(ctxt.RegVar(ir.SPSR)))
	b.Jmp(end)

	b.LMark(undef)
	b.SideEffect(ir.SideEffectUndefinedInstr)

	b.LMark(end)
}
