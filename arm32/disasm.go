package arm32

import (
	"fmt"
	"strings"
)

// DisassembleText renders a short, human-readable mnemonic line for inst:
// "MOV R0, #1", "LDR R0, [R1, #4]!", and so on. It exists for diagnostic
// output and for feeding cfgviz.DisasmLine, not as an authoritative
// disassembler; the decoder that produced InstructionInfo owns that.
func DisassembleText(inst *InstructionInfo) string {
	var sb strings.Builder
	sb.WriteString(inst.Opcode.String())
	if inst.Condition != CondAL && inst.Condition != CondUN {
		sb.WriteString(conditionSuffix(inst.Condition))
	}
	if inst.SetFlags {
		sb.WriteString("S")
	}

	operands := make([]string, 0, len(inst.Operands))
	for _, op := range inst.Operands {
		operands = append(operands, operandText(op))
	}
	if len(operands) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(operands, ", "))
	}
	return sb.String()
}

func conditionSuffix(c Condition) string {
	names := [...]string{
		"AL", "EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
		"HI", "LS", "GE", "LT", "GT", "LE", "",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return ""
}

func operandText(op Operand) string {
	switch op.Kind {
	case OperRegister:
		return op.Reg.String()
	case OperRegisterList:
		names := make([]string, len(op.List.Regs))
		for i, r := range op.List.Regs {
			names[i] = r.String()
		}
		return "{" + strings.Join(names, ", ") + "}"
	case OperImmediate:
		return fmt.Sprintf("#%d", op.Imm)
	case OperMemory:
		return memOperandText(op.Mem)
	case OperShift:
		return shiftOperandText(op)
	case OperSIMD:
		return simdRegText(op.SIMD)
	default:
		return "?"
	}
}

func memOperandText(m AddrMode) string {
	switch m.Kind {
	case AddrLiteral:
		return fmt.Sprintf("=0x%X", m.LiteralImm)
	case AddrImmOffset, AddrPreIndexed:
		inner := memInnerText(m)
		if m.Kind == AddrPreIndexed {
			return "[" + inner + "]!"
		}
		return "[" + inner + "]"
	case AddrPostIndexed:
		return fmt.Sprintf("[%s], %s", m.Base.String(), memOffsetText(m))
	default:
		return "[" + m.Base.String() + "]"
	}
}

func memInnerText(m AddrMode) string {
	if !m.HasOffset && !m.IsRegOffset {
		return m.Base.String()
	}
	return m.Base.String() + ", " + memOffsetText(m)
}

func memOffsetText(m AddrMode) string {
	sign := ""
	if m.OffSign == Minus {
		sign = "-"
	}
	if m.IsRegOffset {
		text := sign + m.OffReg.String()
		if m.OffShift != nil {
			text += " " + shiftKindText(m.OffShift.Type) + " " + shiftAmountText(m.OffShift.Amount)
		}
		return text
	}
	return fmt.Sprintf("#%s%d", sign, m.OffImm)
}

func shiftOperandText(op Operand) string {
	return fmt.Sprintf("%s, %s %s", op.Reg.String(), shiftKindText(op.Shift.Type), shiftAmountText(op.Shift.Amount))
}

func shiftKindText(k ShiftKind) string {
	switch k {
	case ShiftLSL:
		return "LSL"
	case ShiftLSR:
		return "LSR"
	case ShiftASR:
		return "ASR"
	case ShiftROR:
		return "ROR"
	case ShiftRRX:
		return "RRX"
	default:
		return "?"
	}
}

func shiftAmountText(a ShiftAmount) string {
	if a.IsReg {
		return a.Reg.String()
	}
	return fmt.Sprintf("#%d", a.Imm)
}

func simdRegText(r SIMDReg) string {
	if r.Double {
		return fmt.Sprintf("D%d", r.Index)
	}
	return fmt.Sprintf("S%d", r.Index)
}
