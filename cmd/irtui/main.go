// Command irtui is a terminal browser for a lifted instruction batch: load a
// JSON batch file shaped like api.BatchRequest, lift it, and step through
// disassembly, emitted IR, and CFG edges address by address. Everything
// shown is the static output of one arm32.Translate pass; nothing executes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/arm-lifter/api"
	"github.com/lookbusy1344/arm-lifter/arm32"
	"github.com/lookbusy1344/arm-lifter/cfgviz"
	"github.com/lookbusy1344/arm-lifter/ir"
)

// browser holds the lifted state irtui renders: one batch, its IR per
// address, and the address currently selected in the disassembly view.
type browser struct {
	addrs []uint64
	disas map[uint64]string
	stmts map[uint64][]ir.Stmt
	edges map[uint64][]cfgviz.InputEdge // keyed by From
	cur   int
}

func loadBatch(path string) (*browser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var req api.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	insts, err := api.ToInstructionInfos(req.Instructions)
	if err != nil {
		return nil, fmt.Errorf("convert instructions: %w", err)
	}

	b := &browser{
		disas: make(map[uint64]string, len(insts)),
		stmts: make(map[uint64][]ir.Stmt, len(insts)),
		edges: make(map[uint64][]cfgviz.InputEdge),
	}

	for i := range insts {
		inst := &insts[i]
		ctxt := ir.NewRegisterFile(ir.ModeARM)
		stmts, err := arm32.Translate(inst, ctxt)
		if err != nil {
			return nil, fmt.Errorf("translate %#x: %w", inst.Address, err)
		}
		b.addrs = append(b.addrs, inst.Address)
		b.disas[inst.Address] = arm32.DisassembleText(inst)
		b.stmts[inst.Address] = stmts
	}
	sort.Slice(b.addrs, func(i, j int) bool { return b.addrs[i] < b.addrs[j] })

	for _, e := range req.Edges {
		b.edges[e.From] = append(b.edges[e.From], e)
	}

	return b, nil
}

func (b *browser) address() uint64 {
	if len(b.addrs) == 0 {
		return 0
	}
	return b.addrs[b.cur]
}

// tui is the tview application wiring: a disassembly list on the left, IR
// and cross-reference panels on the right, and a command line along the
// bottom.
type tui struct {
	b *browser

	app          *tview.Application
	disasmView   *tview.TextView
	irView       *tview.TextView
	xrefView     *tview.TextView
	outputView   *tview.TextView
	commandInput *tview.InputField
}

func newTUI(b *browser) *tui {
	t := &tui{b: b, app: tview.NewApplication()}
	t.initializeViews()
	t.setupKeyBindings()
	return t
}

func (t *tui) initializeViews() {
	t.disasmView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.disasmView.SetBorder(true).SetTitle(" Disassembly ")

	t.irView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.irView.SetBorder(true).SetTitle(" IR ")

	t.xrefView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.xrefView.SetBorder(true).SetTitle(" Xref ")

	t.outputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.outputView.SetBorder(true).SetTitle(" Output ")

	t.commandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.commandInput.SetBorder(true).SetTitle(" Command ")
	t.commandInput.SetDoneFunc(t.handleCommand)
}

func (t *tui) layout() tview.Primitive {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.irView, 0, 2, false).
		AddItem(t.xrefView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.disasmView, 0, 1, false).
		AddItem(right, 0, 1, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 4, false).
		AddItem(t.outputView, 6, 0, false).
		AddItem(t.commandInput, 3, 0, true)
}

func (t *tui) setupKeyBindings() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyDown:
			t.selectRelative(1)
			return nil
		case tcell.KeyUp:
			t.selectRelative(-1)
			return nil
		case tcell.KeyCtrlC:
			t.app.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.refreshAll()
			return nil
		}
		return event
	})
}

func (t *tui) selectRelative(delta int) {
	if len(t.b.addrs) == 0 {
		return
	}
	next := t.b.cur + delta
	if next < 0 {
		next = 0
	}
	if next >= len(t.b.addrs) {
		next = len(t.b.addrs) - 1
	}
	t.b.cur = next
	t.refreshAll()
}

func (t *tui) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.commandInput.GetText()
	t.commandInput.SetText("")
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
}

func (t *tui) executeCommand(cmd string) {
	switch {
	case cmd == ":quit" || cmd == ":q":
		t.app.Stop()
	case cmd == ":next" || cmd == ":n":
		t.selectRelative(1)
	case cmd == ":prev" || cmd == ":p":
		t.selectRelative(-1)
	default:
		var addr uint64
		if n, _ := fmt.Sscanf(cmd, ":select %v", &addr); n == 1 {
			t.selectAddress(addr)
			return
		}
		t.writeOutput(fmt.Sprintf("[red]unknown command:[white] %s\n", cmd))
	}
}

func (t *tui) selectAddress(addr uint64) {
	for i, a := range t.b.addrs {
		if a == addr {
			t.b.cur = i
			t.refreshAll()
			return
		}
	}
	t.writeOutput(fmt.Sprintf("[red]no instruction at[white] %#x\n", addr))
}

func (t *tui) writeOutput(text string) {
	_, _ = t.outputView.Write([]byte(text))
	t.outputView.ScrollToEnd()
}

func (t *tui) refreshAll() {
	t.updateDisasmView()
	t.updateIRView()
	t.updateXrefView()
	t.app.Draw()
}

func (t *tui) updateDisasmView() {
	t.disasmView.Clear()
	for i, addr := range t.b.addrs {
		marker := "  "
		if i == t.b.cur {
			marker = "[yellow]>[white] "
		}
		fmt.Fprintf(t.disasmView, "%s%#08x  %s\n", marker, addr, t.b.disas[addr])
	}
}

func (t *tui) updateIRView() {
	t.irView.Clear()
	addr := t.b.address()
	for _, line := range ir.FormatStmts(t.b.stmts[addr]) {
		fmt.Fprintln(t.irView, line)
	}
}

func (t *tui) updateXrefView() {
	t.xrefView.Clear()
	addr := t.b.address()
	edges := t.b.edges[addr]
	if len(edges) == 0 {
		fmt.Fprintln(t.xrefView, "[gray]no outgoing edges[white]")
		return
	}
	for _, e := range edges {
		fmt.Fprintf(t.xrefView, "%s -> %#x\n", e.Type, e.To)
	}
}

func main() {
	path := flag.String("batch", "", "Path to a JSON instruction batch (api.BatchRequest shape)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "irtui: -batch is required")
		os.Exit(1)
	}

	b, err := loadBatch(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "irtui: %v\n", err)
		os.Exit(1)
	}

	t := newTUI(b)
	t.refreshAll()
	if err := t.app.SetRoot(t.layout(), true).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "irtui: %v\n", err)
		os.Exit(1)
	}
}
