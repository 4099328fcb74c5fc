package arm32

import (
	"fmt"
	"io"

	"github.com/lookbusy1344/arm-lifter/ir"
)

// LiftTraceEntry records what one translation emitted: the instruction, the
// condition it was gated on, and a summary of the statement shapes produced.
type LiftTraceEntry struct {
	Sequence    uint64
	Address     uint64
	Disassembly string
	Condition   Condition
	StmtCount   int
	WrotePC     bool
	WroteFlags  bool
	SideEffects []ir.SideEffectTag
}

// LiftTrace collects per-instruction translation summaries. It is opt-in
// diagnostic tooling for debugging the lifter itself, never required for
// correctness; callers that want it attach one to their lift loop and call
// Record after each Translate.
type LiftTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries []LiftTraceEntry
	seq     uint64
}

// NewLiftTrace creates a trace writing formatted entries to writer (nil
// writer keeps entries in memory only).
func NewLiftTrace(writer io.Writer) *LiftTrace {
	return &LiftTrace{
		Enabled:    true,
		Writer:     writer,
		MaxEntries: 100000,
		entries:    make([]LiftTraceEntry, 0, 1000),
	}
}

// Record summarizes one instruction's emitted statement sequence.
func (t *LiftTrace) Record(inst *InstructionInfo, stmts []ir.Stmt) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	entry := LiftTraceEntry{
		Sequence:    t.seq,
		Address:     inst.Address,
		Disassembly: DisassembleText(inst),
		Condition:   inst.Condition,
		StmtCount:   len(stmts),
	}
	t.seq++

	for _, s := range stmts {
		switch s.Kind {
		case ir.KInterJmp:
			entry.WrotePC = true
		case ir.KPut:
			if s.PutVar.Name == ir.CPSR.String() {
				entry.WroteFlags = true
			}
		case ir.KSideEffect:
			entry.SideEffects = append(entry.SideEffects, s.SideEffect)
		}
	}

	t.entries = append(t.entries, entry)

	if t.Writer != nil {
		fmt.Fprintln(t.Writer, t.formatEntry(entry))
	}
}

// Entries returns the recorded entries.
func (t *LiftTrace) Entries() []LiftTraceEntry {
	return t.entries
}

// Reset discards all recorded entries and restarts the sequence counter.
func (t *LiftTrace) Reset() {
	t.entries = t.entries[:0]
	t.seq = 0
}

func (t *LiftTrace) formatEntry(e LiftTraceEntry) string {
	marks := ""
	if e.WrotePC {
		marks += " pc"
	}
	if e.WroteFlags {
		marks += " flags"
	}
	for _, se := range e.SideEffects {
		marks += " " + se.String()
	}
	return fmt.Sprintf("%6d  0x%08X  %-28s %3d stmts%s",
		e.Sequence, e.Address, e.Disassembly, e.StmtCount, marks)
}
