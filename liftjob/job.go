// Package liftjob holds the per-session state the api package hands each
// lift request: the instruction batch a client submitted, the IR that came
// out of translating it, and the last CFG layout computed from that IR.
package liftjob

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lookbusy1344/arm-lifter/arm32"
	"github.com/lookbusy1344/arm-lifter/cfgviz"
	"github.com/lookbusy1344/arm-lifter/ir"
)

// ErrUnpredictable is returned by Lift in strict mode when a translated
// instruction's IR carries an architecturally-undefined marker.
var ErrUnpredictable = errors.New("liftjob: instruction is architecturally unpredictable")

// Job is one session's lift state.
type Job struct {
	mu sync.Mutex

	instructions []arm32.InstructionInfo
	edges        []cfgviz.InputEdge
	root         uint64

	strict bool
	trace  *arm32.LiftTrace

	stmts  map[uint64][]ir.Stmt
	layout *cfgviz.Output
}

// New returns an empty job, ready for SetBatch.
func New() *Job {
	return &Job{stmts: make(map[uint64][]ir.Stmt)}
}

// SetBatch replaces the job's instruction batch, edge list, and entry
// address. It does not itself translate anything; call Lift for that.
func (j *Job) SetBatch(instructions []arm32.InstructionInfo, edges []cfgviz.InputEdge, root uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.instructions = instructions
	j.edges = edges
	j.root = root
}

// SetStrict controls the strict-unpredictable policy: when enabled, Lift
// fails with ErrUnpredictable instead of passing through IR that carries an
// UndefinedInstr side effect.
func (j *Job) SetStrict(strict bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.strict = strict
}

// AttachTrace attaches an optional per-instruction lift trace; nil detaches.
func (j *Job) AttachTrace(trace *arm32.LiftTrace) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.trace = trace
}

// hasUnpredictable reports whether any statement carries the
// architecturally-undefined marker.
func hasUnpredictable(stmts []ir.Stmt) bool {
	for _, s := range stmts {
		if s.Kind == ir.KSideEffect && s.SideEffect == ir.SideEffectUndefinedInstr {
			return true
		}
	}
	return false
}

// Lift translates every instruction in the current batch with arm32.Translate,
// one fresh ir.RegisterFile per instruction so temp ids never collide across
// instructions, then lays out the resulting graph with cfgviz.Layout.
func (j *Job) Lift(mode ir.Mode, opts cfgviz.LayoutOptions) (*cfgviz.Output, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	stmts := make(map[uint64][]ir.Stmt, len(j.instructions))
	nodes := make([]cfgviz.InputNode, len(j.instructions))

	for i := range j.instructions {
		inst := &j.instructions[i]
		ctxt := ir.NewRegisterFile(mode)
		out, err := arm32.Translate(inst, ctxt)
		if err != nil {
			return nil, err
		}
		if j.trace != nil {
			j.trace.Record(inst, out)
		}
		if j.strict && hasUnpredictable(out) {
			return nil, fmt.Errorf("%w: %#x %s", ErrUnpredictable, inst.Address, arm32.DisassembleText(inst))
		}
		stmts[inst.Address] = out
		nodes[i] = cfgviz.InputNode{
			Address: inst.Address,
			Disassembly: []cfgviz.DisasmLine{
				{Disasm: arm32.DisassembleText(inst)},
			},
		}
	}

	layout, err := cfgviz.Layout(cfgviz.Input{Nodes: nodes, Edges: j.edges, Root: j.root}, opts)
	if err != nil {
		return nil, err
	}

	j.stmts = stmts
	j.layout = &layout
	return &layout, nil
}

// IR returns the IR statements produced for address, and whether any were
// (the address was present in the last Lift's batch).
func (j *Job) IR(address uint64) ([]ir.Stmt, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	stmts, ok := j.stmts[address]
	return stmts, ok
}

// Layout returns the last computed CFG layout, or nil if Lift hasn't run yet.
func (j *Job) Layout() *cfgviz.Output {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.layout
}

// InstructionCount reports how many instructions the current batch holds.
func (j *Job) InstructionCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.instructions)
}
