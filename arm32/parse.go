package arm32

import "github.com/lookbusy1344/arm-lifter/ir"

// ParseOpcode resolves a mnemonic name ("ADD", "LDRB", ...) to its Opcode,
// the reverse of Opcode.String(). It exists for callers that receive
// InstructionInfo over the wire as JSON (see the api package) rather than
// already-decoded; the lifter itself never calls it.
func ParseOpcode(s string) (Opcode, bool) {
	names := map[string]Opcode{
		"AND": OpAND, "EOR": OpEOR, "SUB": OpSUB, "RSB": OpRSB, "ADD": OpADD,
		"ADC": OpADC, "SBC": OpSBC, "RSC": OpRSC, "TST": OpTST, "TEQ": OpTEQ,
		"CMP": OpCMP, "CMN": OpCMN, "ORR": OpORR, "MOV": OpMOV, "BIC": OpBIC,
		"MVN": OpMVN, "MUL": OpMUL, "MLA": OpMLA,
		"LDR": OpLDR, "LDRB": OpLDRB, "LDRH": OpLDRH, "LDRSB": OpLDRSB,
		"LDRSH": OpLDRSH, "STR": OpSTR, "STRB": OpSTRB, "STRH": OpSTRH,
		"LDM": OpLDM, "STM": OpSTM, "PUSH": OpPUSH, "POP": OpPOP,
		"B": OpB, "BL": OpBL, "BX": OpBX, "BLX": OpBLX,
		"MRS": OpMRS, "MSR": OpMSR,
		"UBFX": OpUBFX, "BFI": OpBFI, "BFC": OpBFC,
		"UXTB": OpUXTB, "UXTAB": OpUXTAB, "SXTH": OpSXTH,
		"TBB": OpTBB, "TBH": OpTBH,
		"VLDR": OpVLDR, "VSTR": OpVSTR, "VPUSH": OpVPUSH, "VPOP": OpVPOP,
		"VADD": OpVADD, "VMUL": OpVMUL, "VDIV": OpVDIV, "VMOV": OpVMOV,
		"VCMP": OpVCMP, "VCVT": OpVCVT, "VMLS": OpVMLS,
	}
	op, ok := names[s]
	return op, ok
}

// ParseCondition resolves a condition-suffix name to a Condition, including
// the HS/LO aliases for CS/CC. An empty string defaults to CondAL, matching
// ARM assembly convention where the suffix is optional.
func ParseCondition(s string) (Condition, bool) {
	names := map[string]Condition{
		"": CondAL, "AL": CondAL,
		"EQ": CondEQ, "NE": CondNE,
		"CS": CondCS, "HS": CondCS,
		"CC": CondCC, "LO": CondCC,
		"MI": CondMI, "PL": CondPL,
		"VS": CondVS, "VC": CondVC,
		"HI": CondHI, "LS": CondLS,
		"GE": CondGE, "LT": CondLT,
		"GT": CondGT, "LE": CondLE,
		"UN": CondUN, "NV": CondUN,
	}
	c, ok := names[s]
	return c, ok
}

// ParseRegID resolves an architectural register name, including the R9-R12
// ARM aliases (SB/SL/FP/IP) from the RegList bit-layout table, to a
// ir.RegID.
func ParseRegID(s string) (ir.RegID, bool) {
	names := map[string]ir.RegID{
		"R0": ir.R0, "R1": ir.R1, "R2": ir.R2, "R3": ir.R3,
		"R4": ir.R4, "R5": ir.R5, "R6": ir.R6, "R7": ir.R7,
		"R8": ir.R8, "R9": ir.R9, "R10": ir.R10, "R11": ir.R11, "R12": ir.R12,
		"SB": ir.R9, "SL": ir.R10, "FP": ir.R11, "IP": ir.R12,
		"R13": ir.SP, "SP": ir.SP,
		"R14": ir.LR, "LR": ir.LR,
		"R15": ir.PC, "PC": ir.PC,
		"CPSR": ir.CPSR, "SPSR": ir.SPSR, "FPSCR": ir.FPSCR,
	}
	r, ok := names[s]
	return r, ok
}

// ParseShiftKind resolves a shift mnemonic (LSL/LSR/ASR/ROR/RRX) to a
// ShiftKind.
func ParseShiftKind(s string) (ShiftKind, bool) {
	names := map[string]ShiftKind{
		"LSL": ShiftLSL, "LSR": ShiftLSR, "ASR": ShiftASR,
		"ROR": ShiftROR, "RRX": ShiftRRX,
	}
	k, ok := names[s]
	return k, ok
}

// ParseBlockAddrMode resolves an LDM/STM addressing suffix (IA/IB/DA/DB) to
// a BlockAddrMode.
func ParseBlockAddrMode(s string) (BlockAddrMode, bool) {
	names := map[string]BlockAddrMode{
		"IA": BlockIA, "IB": BlockIB, "DA": BlockDA, "DB": BlockDB,
	}
	m, ok := names[s]
	return m, ok
}
