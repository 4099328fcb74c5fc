package ir

import "fmt"

// String renders e as a flat, Lisp-ish textual expression: enough to
// eyeball in a log line or a debug UI panel, not a round-trippable syntax.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KConst:
		return e.Const.String()
	case KVar:
		return e.VarRef.String()
	case KBinOp:
		return fmt.Sprintf("(%s %s %s)", binOpSym(e.BinOp), e.LHS, e.RHS)
	case KRelOp:
		return fmt.Sprintf("(%s %s %s)", relOpSym(e.RelOp), e.LHS, e.RHS)
	case KUnOp:
		return fmt.Sprintf("(%s %s)", unOpSym(e.UnOp), e.Operand)
	case KCast:
		return fmt.Sprintf("(%s:%d %s)", castSym(e.Cast), e.CastWidth, e.Src)
	case KExtract:
		return fmt.Sprintf("(extract %d:%d %s)", e.ExtractWidth, e.ExtractPos, e.ExtractSrc)
	case KConcat:
		return fmt.Sprintf("(concat %s %s)", e.Hi, e.Lo)
	case KITE:
		return fmt.Sprintf("(ite %s %s %s)", e.Cond, e.TExpr, e.FExpr)
	case KLoadLE:
		return fmt.Sprintf("(load%d %s)", e.LoadWidth, e.Addr)
	case KUndefined:
		if e.UndefTag != "" {
			return fmt.Sprintf("(undefined:%d %s %q)", e.UndefWidth, e.UndefReason, e.UndefTag)
		}
		return fmt.Sprintf("(undefined:%d %s)", e.UndefWidth, e.UndefReason)
	}
	return "??"
}

func binOpSym(k BinOpKind) string {
	names := [...]string{"+", "-", "*", "&", "|", "^", "<<", ">>u", ">>s", "/u", "/s", "%u", "%s"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?binop"
}

func relOpSym(k RelOpKind) string {
	names := [...]string{"==", "!=", ">u", ">=u", "<u", "<=u", ">s", ">=s", "<s", "<=s"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?relop"
}

func unOpSym(k UnOpKind) string {
	if k == UnNeg {
		return "neg"
	}
	return "not"
}

func castSym(k CastKind) string {
	switch k {
	case CastZeroExtend:
		return "zext"
	case CastSignExtend:
		return "sext"
	default:
		return "trunc"
	}
}

// String renders one statement, the unit liftjob/api hand out per address
// when a caller asks for an instruction's emitted IR.
func (s *Stmt) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KISMark:
		return fmt.Sprintf("ISMark(0x%X, %d)", s.ISAddr, s.ISLen)
	case KIEMark:
		return fmt.Sprintf("IEMark(0x%X)", s.IEAddr)
	case KPut:
		return fmt.Sprintf("Put(%s, %s)", s.PutVar, s.PutVal)
	case KStore:
		return fmt.Sprintf("Store(%s, %s)", s.StoreAddr, s.StoreVal)
	case KLMark:
		return fmt.Sprintf("LMark(%s)", s.Label.Name)
	case KJmp:
		return fmt.Sprintf("Jmp(%s)", s.Label.Name)
	case KCJmp:
		return fmt.Sprintf("CJmp(%s, %s, %s)", s.CJmpCond, s.CJmpTrue.Name, s.CJmpFalse.Name)
	case KInterJmp:
		return fmt.Sprintf("InterJmp(%s, %s)", s.PCVar, s.Target)
	case KSideEffect:
		return fmt.Sprintf("SideEffect(%s)", s.SideEffect)
	}
	return "??"
}

// FormatStmts renders a statement sequence one-per-line, the shape the irtui
// IR panel and the api package's /ir endpoint both hand to their caller.
func FormatStmts(stmts []Stmt) []string {
	lines := make([]string, len(stmts))
	for i := range stmts {
		lines[i] = stmts[i].String()
	}
	return lines
}
