package cfgviz

import "testing"

func twoBlockInput() Input {
	return Input{
		Root: 0x1000,
		Nodes: []InputNode{
			{
				Address: 0x1000,
				Disassembly: []DisasmLine{
					{Disasm: "MOV R0, #1"},
					{Disasm: "CMP R0, #0", Comment: "check zero"},
				},
			},
			{
				Address: 0x1008,
				Disassembly: []DisasmLine{
					{Disasm: "BX LR"},
				},
			},
		},
		Edges: []InputEdge{
			{From: 0x1000, To: 0x1008, Type: EdgeFallthrough},
		},
	}
}

func TestLayout_NodeCountAndOrder(t *testing.T) {
	out, err := Layout(twoBlockInput(), DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(out.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(out.Nodes))
	}
	if out.Nodes[0].Address != 0x1000 || out.Nodes[1].Address != 0x1008 {
		t.Errorf("expected output node order to match input order, got %#v", out.Nodes)
	}
}

func TestLayout_SecondBlockBelowFirst(t *testing.T) {
	out, err := Layout(twoBlockInput(), DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if out.Nodes[1].Pos.Y <= out.Nodes[0].Pos.Y {
		t.Errorf("expected second block ranked below first: %v vs %v", out.Nodes[1].Pos, out.Nodes[0].Pos)
	}
}

func TestLayout_WidthHeightFormula(t *testing.T) {
	opts := DefaultLayoutOptions()
	out, err := Layout(twoBlockInput(), opts)
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	// "CMP R0, #0 ; check zero" is the longest rendered line in block 0.
	wantLineLen := len("CMP R0, #0 ; check zero")
	wantWidth := float64(wantLineLen)*opts.CharWidth + opts.Padding*2
	wantHeight := float64(2)*opts.LineHeight + 4 + opts.Padding*2
	if out.Nodes[0].Width != wantWidth {
		t.Errorf("Width = %v, want %v", out.Nodes[0].Width, wantWidth)
	}
	if out.Nodes[0].Height != wantHeight {
		t.Errorf("Height = %v, want %v", out.Nodes[0].Height, wantHeight)
	}
}

func TestLayout_EdgeNotBackEdge(t *testing.T) {
	out, err := Layout(twoBlockInput(), DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(out.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(out.Edges))
	}
	if out.Edges[0].IsBackEdge {
		t.Error("fallthrough edge to a strictly deeper rank should not be a back edge")
	}
	if out.Edges[0].Type != EdgeFallthrough {
		t.Errorf("expected edge type to pass through unchanged, got %v", out.Edges[0].Type)
	}
}

func TestLayout_LoopEdgeIsBackEdge(t *testing.T) {
	input := twoBlockInput()
	input.Edges = append(input.Edges, InputEdge{From: 0x1008, To: 0x1000, Type: EdgeBranch})

	out, err := Layout(input, DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	var loopEdge *OutputEdge
	for i := range out.Edges {
		if out.Edges[i].Type == EdgeBranch {
			loopEdge = &out.Edges[i]
		}
	}
	if loopEdge == nil {
		t.Fatal("expected a Branch edge in the output")
	}
	if !loopEdge.IsBackEdge {
		t.Error("edge from a deeper rank back to the root should be a back edge")
	}
}

func TestLayout_UnreachableBlockStillPlaced(t *testing.T) {
	input := twoBlockInput()
	input.Nodes = append(input.Nodes, InputNode{
		Address:     0x2000,
		Disassembly: []DisasmLine{{Disasm: "NOP"}},
	})

	out, err := Layout(input, DefaultLayoutOptions())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(out.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(out.Nodes))
	}
}

func TestTokenizeLine_MnemonicOperandsComment(t *testing.T) {
	terms := tokenizeLine(DisasmLine{Disasm: "ADD R0, R1, R2", Comment: "sum"})
	want := []Term{
		{Text: "ADD", Tag: TagMnemonic},
		{Text: "R0", Tag: TagOperand0},
		{Text: "R1", Tag: TagOperand1},
		{Text: "R2", Tag: TagOperand2},
		{Text: "sum", Tag: TagComment},
	}
	if len(terms) != len(want) {
		t.Fatalf("got %d terms, want %d: %#v", len(terms), len(want), terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("term %d = %#v, want %#v", i, terms[i], want[i])
		}
	}
}

func TestTokenizeLine_SingleOperand(t *testing.T) {
	terms := tokenizeLine(DisasmLine{Disasm: "BX LR"})
	if len(terms) != 2 {
		t.Fatalf("expected mnemonic + one operand, got %#v", terms)
	}
	if terms[0] != (Term{Text: "BX", Tag: TagMnemonic}) {
		t.Errorf("unexpected mnemonic term: %#v", terms[0])
	}
	if terms[1] != (Term{Text: "LR", Tag: TagOperand0}) {
		t.Errorf("unexpected operand term: %#v", terms[1])
	}
}

func TestEdgeType_JSONRoundTrip(t *testing.T) {
	for _, et := range []EdgeType{EdgeFallthrough, EdgeBranch, EdgeCall, EdgeReturn} {
		data, err := et.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%v): %v", et, err)
		}
		var got EdgeType
		if err := got.UnmarshalJSON(data); err != nil {
			t.Fatalf("UnmarshalJSON(%q): %v", data, err)
		}
		if got != et {
			t.Errorf("round trip %v -> %q -> %v", et, data, got)
		}
	}
}
