package api

import (
	"fmt"
	"time"

	"github.com/lookbusy1344/arm-lifter/arm32"
	"github.com/lookbusy1344/arm-lifter/cfgviz"
	"github.com/lookbusy1344/arm-lifter/ir"
)

// WireShiftOperand is a JSON-friendly ShiftOperand: either an immediate
// shift amount or a register holding it, never both.
type WireShiftOperand struct {
	Type      string `json:"type"` // LSL, LSR, ASR, ROR, RRX
	AmountReg string `json:"amountReg,omitempty"`
	AmountImm int    `json:"amountImm,omitempty"`
}

func (w *WireShiftOperand) toOperand() (arm32.ShiftOperand, error) {
	kind, ok := arm32.ParseShiftKind(w.Type)
	if !ok {
		return arm32.ShiftOperand{}, fmt.Errorf("%w: shift type %q", ErrInvalidWireField, w.Type)
	}
	if w.AmountReg != "" {
		reg, ok := arm32.ParseRegID(w.AmountReg)
		if !ok {
			return arm32.ShiftOperand{}, fmt.Errorf("%w: shift amount register %q", ErrInvalidWireField, w.AmountReg)
		}
		return arm32.ShiftOperand{Type: kind, Amount: arm32.ShiftAmount{IsReg: true, Reg: reg}}, nil
	}
	return arm32.ShiftOperand{Type: kind, Amount: arm32.ShiftAmount{Imm: w.AmountImm}}, nil
}

// WireAddrMode is a JSON-friendly AddrMode. Kind selects which of the
// remaining fields are meaningful, mirroring arm32.AddrMode's own
// one-of-several-shapes layout.
type WireAddrMode struct {
	Kind       string            `json:"kind"` // immOffset, regOffset, literal, preIndexed, postIndexed
	Base       string            `json:"base,omitempty"`
	Sign       string            `json:"sign,omitempty"` // "+" or "-"; default "+"
	Imm        int64             `json:"imm,omitempty"`
	OffReg     string            `json:"offReg,omitempty"`
	OffShift   *WireShiftOperand `json:"offShift,omitempty"`
	LiteralImm int64             `json:"literalImm,omitempty"`
}

func (w *WireAddrMode) toAddrMode() (arm32.AddrMode, error) {
	sign := arm32.Plus
	if w.Sign == "-" {
		sign = arm32.Minus
	}

	var base ir.RegID
	if w.Base != "" {
		var ok bool
		base, ok = arm32.ParseRegID(w.Base)
		if !ok {
			return arm32.AddrMode{}, fmt.Errorf("%w: base register %q", ErrInvalidWireField, w.Base)
		}
	}

	withOffset := func() (arm32.AddrMode, error) {
		m := arm32.AddrMode{Base: base, OffSign: sign}
		if w.OffReg != "" {
			reg, ok := arm32.ParseRegID(w.OffReg)
			if !ok {
				return arm32.AddrMode{}, fmt.Errorf("%w: offset register %q", ErrInvalidWireField, w.OffReg)
			}
			m.IsRegOffset = true
			m.OffReg = reg
			if w.OffShift != nil {
				shift, err := w.OffShift.toOperand()
				if err != nil {
					return arm32.AddrMode{}, err
				}
				m.OffShift = &shift
			}
		} else if w.Imm != 0 {
			m.HasOffset = true
			m.OffImm = w.Imm
		}
		return m, nil
	}

	switch w.Kind {
	case "immOffset":
		m, err := withOffset()
		m.Kind = arm32.AddrImmOffset
		return m, err
	case "regOffset":
		m, err := withOffset()
		m.Kind = arm32.AddrRegOffset
		return m, err
	case "literal":
		return arm32.AddrMode{Kind: arm32.AddrLiteral, LiteralImm: w.LiteralImm}, nil
	case "preIndexed":
		m, err := withOffset()
		m.Kind = arm32.AddrPreIndexed
		return m, err
	case "postIndexed":
		m, err := withOffset()
		m.Kind = arm32.AddrPostIndexed
		return m, err
	default:
		return arm32.AddrMode{}, fmt.Errorf("%w: addressing mode kind %q", ErrInvalidWireField, w.Kind)
	}
}

// WireSIMDReg is a JSON-friendly SIMDReg.
type WireSIMDReg struct {
	Double bool `json:"double"`
	Index  int  `json:"index"`
}

// WireOperand is a JSON-friendly Operand. Kind selects which field is
// populated: "reg", "regList", "imm", "mem", "shift", "simd".
type WireOperand struct {
	Kind    string            `json:"kind"`
	Reg     string            `json:"reg,omitempty"`
	RegList []string          `json:"regList,omitempty"`
	Imm     int64             `json:"imm,omitempty"`
	Mem     *WireAddrMode     `json:"mem,omitempty"`
	Shift   *WireShiftOperand `json:"shift,omitempty"`
	SIMD    *WireSIMDReg      `json:"simd,omitempty"`
}

func (w *WireOperand) toOperand() (arm32.Operand, error) {
	switch w.Kind {
	case "reg":
		reg, ok := arm32.ParseRegID(w.Reg)
		if !ok {
			return arm32.Operand{}, fmt.Errorf("%w: register %q", ErrInvalidWireField, w.Reg)
		}
		return arm32.Operand{Kind: arm32.OperRegister, Reg: reg}, nil
	case "regList":
		regs := make([]ir.RegID, 0, len(w.RegList))
		for _, name := range w.RegList {
			reg, ok := arm32.ParseRegID(name)
			if !ok {
				return arm32.Operand{}, fmt.Errorf("%w: register %q", ErrInvalidWireField, name)
			}
			regs = append(regs, reg)
		}
		return arm32.Operand{Kind: arm32.OperRegisterList, List: arm32.RegList{Regs: regs}}, nil
	case "imm":
		return arm32.Operand{Kind: arm32.OperImmediate, Imm: w.Imm}, nil
	case "mem":
		if w.Mem == nil {
			return arm32.Operand{}, fmt.Errorf("%w: memory operand missing its addressing mode", ErrInvalidWireField)
		}
		mem, err := w.Mem.toAddrMode()
		if err != nil {
			return arm32.Operand{}, err
		}
		return arm32.Operand{Kind: arm32.OperMemory, Mem: mem}, nil
	case "shift":
		if w.Shift == nil {
			return arm32.Operand{}, fmt.Errorf("%w: shift operand missing its shift", ErrInvalidWireField)
		}
		reg, ok := arm32.ParseRegID(w.Reg)
		if !ok {
			return arm32.Operand{}, fmt.Errorf("%w: register %q", ErrInvalidWireField, w.Reg)
		}
		shift, err := w.Shift.toOperand()
		if err != nil {
			return arm32.Operand{}, err
		}
		return arm32.Operand{Kind: arm32.OperShift, Reg: reg, Shift: shift}, nil
	case "simd":
		if w.SIMD == nil {
			return arm32.Operand{}, fmt.Errorf("%w: simd operand missing its register", ErrInvalidWireField)
		}
		return arm32.Operand{Kind: arm32.OperSIMD, SIMD: arm32.SIMDReg{Double: w.SIMD.Double, Index: w.SIMD.Index}}, nil
	default:
		return arm32.Operand{}, fmt.Errorf("%w: operand kind %q", ErrInvalidWireField, w.Kind)
	}
}

// WireInstruction is the JSON shape of arm32.InstructionInfo a batch
// submission carries: the decoder's output contract spelled out as wire
// fields instead of Go enums, since the decoder itself is an external
// collaborator this repo never implements.
type WireInstruction struct {
	Address   uint64        `json:"address"`
	ByteLen   uint32        `json:"byteLen"`
	Opcode    string        `json:"opcode"`
	Mode      string        `json:"mode,omitempty"` // ARM or Thumb; default ARM
	Condition string        `json:"condition,omitempty"`
	SetFlags  bool          `json:"setFlags,omitempty"`
	BlockMode string        `json:"blockMode,omitempty"` // IA, IB, DA, DB
	WriteBack bool          `json:"writeBack,omitempty"`
	Operands  []WireOperand `json:"operands,omitempty"`
}

// ToInstructionInfo converts a WireInstruction into the arm32.InstructionInfo
// arm32.Translate consumes, rejecting any field that doesn't resolve to a
// value the lifter understands.
func (w *WireInstruction) ToInstructionInfo() (arm32.InstructionInfo, error) {
	op, ok := arm32.ParseOpcode(w.Opcode)
	if !ok {
		return arm32.InstructionInfo{}, fmt.Errorf("%w: opcode %q", ErrInvalidWireField, w.Opcode)
	}
	cond, ok := arm32.ParseCondition(w.Condition)
	if !ok {
		return arm32.InstructionInfo{}, fmt.Errorf("%w: condition %q", ErrInvalidWireField, w.Condition)
	}
	mode := ir.ModeARM
	switch w.Mode {
	case "", "ARM":
		mode = ir.ModeARM
	case "Thumb":
		mode = ir.ModeThumb
	default:
		return arm32.InstructionInfo{}, fmt.Errorf("%w: mode %q", ErrInvalidWireField, w.Mode)
	}
	blockMode := arm32.BlockIA
	if w.BlockMode != "" {
		blockMode, ok = arm32.ParseBlockAddrMode(w.BlockMode)
		if !ok {
			return arm32.InstructionInfo{}, fmt.Errorf("%w: block addressing mode %q", ErrInvalidWireField, w.BlockMode)
		}
	}

	operands := make([]arm32.Operand, 0, len(w.Operands))
	for i := range w.Operands {
		operand, err := w.Operands[i].toOperand()
		if err != nil {
			return arm32.InstructionInfo{}, fmt.Errorf("operand %d: %w", i, err)
		}
		operands = append(operands, operand)
	}

	return arm32.InstructionInfo{
		Address:   w.Address,
		ByteLen:   w.ByteLen,
		Opcode:    op,
		Mode:      mode,
		Condition: cond,
		SetFlags:  w.SetFlags,
		BlockMode: blockMode,
		WriteBack: w.WriteBack,
		Operands:  operands,
	}, nil
}

// BatchRequest is the body of POST /api/v1/session/{id}/batch (and the
// optional body of POST /api/v1/session): the instruction batch to lift,
// the CFG edges between them, and the address execution enters at.
type BatchRequest struct {
	Instructions []WireInstruction  `json:"instructions"`
	Edges        []cfgviz.InputEdge `json:"edges,omitempty"`
	Root         uint64             `json:"root"`
}

// SessionCreateResponse is the response from POST /api/v1/session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	Count     int       `json:"instructionCount"`
}

// SessionSummary is one row of GET /api/v1/session.
type SessionSummary struct {
	SessionID        string    `json:"sessionId"`
	CreatedAt        time.Time `json:"createdAt"`
	InstructionCount int       `json:"instructionCount"`
}

// SessionListResponse is the response from GET /api/v1/session.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// LiftRequest is the body of POST /api/v1/session/{id}/lift. Mode is the
// architectural mode arm32.Translate assumes for every instruction in the
// batch; a real decoder stamps Mode per-instruction, but a batch submitted
// here shares one mode across the whole request.
type LiftRequest struct {
	Mode string `json:"mode,omitempty"` // ARM or Thumb; empty uses the config's [lift] default_mode
}

// LiftResponse is the response from POST /api/v1/session/{id}/lift: the laid-out
// CFG plus a count of instructions translated.
type LiftResponse struct {
	Layout           cfgviz.Output `json:"layout"`
	InstructionCount int           `json:"instructionCount"`
}

// IRResponse is the response from GET /api/v1/session/{id}/ir/{address}: the
// statement sequence emitted for one address, rendered as text (ir.FormatStmts)
// rather than a full expression-tree JSON encoding: enough for a log line
// or a debug panel, not meant to round-trip.
type IRResponse struct {
	Address    uint64   `json:"address"`
	Statements []string `json:"statements"`
}

// ErrorResponse is the JSON body of any non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse is a simple acknowledgement body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// wireIR renders a statement slice for the JSON wire.
func wireIR(address uint64, stmts []ir.Stmt) IRResponse {
	return IRResponse{Address: address, Statements: ir.FormatStmts(stmts)}
}
