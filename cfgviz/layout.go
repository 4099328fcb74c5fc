package cfgviz

import (
	"sort"
	"strings"
)

// LayoutOptions controls the pixel metrics Layout uses to size and place
// nodes. The zero value is not usable; call DefaultLayoutOptions or fill in
// every field (the config package's [cfg] section feeds these at runtime).
type LayoutOptions struct {
	CharWidth  float64 // average glyph width, for Width
	LineHeight float64 // vertical space per disassembly line, for Height
	Padding    float64 // box padding added around both dimensions
	RankGapY   float64 // vertical gap between successive rank rows
	NodeGapX   float64 // horizontal gap between nodes sharing a rank
}

// DefaultLayoutOptions mirrors config.DefaultConfig's [cfg] defaults.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		CharWidth:  7.5,
		LineHeight: 14.0,
		Padding:    4.0,
		RankGapY:   24.0,
		NodeGapX:   16.0,
	}
}

// Layout turns a control-flow graph into pixel-sized, positioned nodes and
// routed edges. It is pure: no file I/O, no network, safe to call from any
// goroutine with its own Input.
func Layout(input Input, opts LayoutOptions) (Output, error) {
	nodesByAddr := make(map[uint64]InputNode, len(input.Nodes))
	for _, n := range input.Nodes {
		nodesByAddr[n.Address] = n
	}

	rank := rankNodes(input, nodesByAddr)

	out := Output{
		Nodes: make([]OutputNode, len(input.Nodes)),
		Edges: make([]OutputEdge, len(input.Edges)),
	}

	sized := make(map[uint64]Point, len(input.Nodes)) // address -> (width, height) stashed in a Point
	for i, n := range input.Nodes {
		terms := make([][]Term, len(n.Disassembly))
		maxLineLen := 0
		for j, line := range n.Disassembly {
			terms[j] = tokenizeLine(line)
			lineLen := len(renderedLine(line))
			if lineLen > maxLineLen {
				maxLineLen = lineLen
			}
		}
		lineCount := len(n.Disassembly)
		if lineCount == 0 {
			lineCount = 1
		}
		width := float64(maxLineLen)*opts.CharWidth + opts.Padding*2
		height := float64(lineCount)*opts.LineHeight + 4 + opts.Padding*2
		sized[n.Address] = Point{X: width, Y: height}
		out.Nodes[i] = OutputNode{
			Address: n.Address,
			Terms:   terms,
			Width:   width,
			Height:  height,
		}
	}

	positions := placeNodes(input.Nodes, rank, sized, opts)
	for i := range out.Nodes {
		out.Nodes[i].Pos = positions[out.Nodes[i].Address]
	}

	for i, e := range input.Edges {
		from, to := positions[e.From], positions[e.To]
		fromSize, toSize := sized[e.From], sized[e.To]
		out.Edges[i] = OutputEdge{
			Type: e.Type,
			Points: []Point{
				{X: from.X + fromSize.X/2, Y: from.Y + fromSize.Y},
				{X: to.X + toSize.X/2, Y: to.Y},
			},
			IsBackEdge: rank[e.To] <= rank[e.From],
		}
	}

	return out, nil
}

// rankNodes assigns each address a layering rank via BFS from Root,
// forward-reachable blocks first; blocks Root never reaches (dead code,
// exception handlers referenced only indirectly) get their own trailing
// ranks in address order so they still lay out deterministically.
func rankNodes(input Input, nodesByAddr map[uint64]InputNode) map[uint64]int {
	adj := make(map[uint64][]uint64, len(nodesByAddr))
	for _, e := range input.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	rank := make(map[uint64]int, len(nodesByAddr))
	if _, ok := nodesByAddr[input.Root]; ok {
		queue := []uint64{input.Root}
		rank[input.Root] = 0
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if _, seen := rank[next]; seen {
					continue
				}
				rank[next] = rank[cur] + 1
				queue = append(queue, next)
			}
		}
	}

	var leftover []uint64
	for addr := range nodesByAddr {
		if _, seen := rank[addr]; !seen {
			leftover = append(leftover, addr)
		}
	}
	sort.Slice(leftover, func(i, j int) bool { return leftover[i] < leftover[j] })
	next := 0
	for _, r := range rank {
		if r >= next {
			next = r + 1
		}
	}
	for _, addr := range leftover {
		rank[addr] = next
		next++
	}
	return rank
}

// placeNodes assigns each address a top-left position: rows stacked by
// rank, nodes within a row laid left to right in address order.
func placeNodes(nodes []InputNode, rank map[uint64]int, sized map[uint64]Point, opts LayoutOptions) map[uint64]Point {
	byRank := make(map[int][]uint64)
	for _, n := range nodes {
		r := rank[n.Address]
		byRank[r] = append(byRank[r], n.Address)
	}

	ranks := make([]int, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	positions := make(map[uint64]Point, len(nodes))
	y := 0.0
	for _, r := range ranks {
		addrs := byRank[r]
		sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
		x := 0.0
		rowHeight := 0.0
		for _, addr := range addrs {
			size := sized[addr]
			positions[addr] = Point{X: x, Y: y}
			x += size.X + opts.NodeGapX
			if size.Y > rowHeight {
				rowHeight = size.Y
			}
		}
		y += rowHeight + opts.RankGapY
	}
	return positions
}

// renderedLine reconstructs the full text a client would print for one
// disassembly line, matching what tokenizeLine tags piecewise.
func renderedLine(line DisasmLine) string {
	if line.Comment == "" {
		return line.Disasm
	}
	return line.Disasm + " ; " + line.Comment
}

// tokenizeLine splits one disassembly line into tagged terms: a mnemonic,
// up to three operands, and a trailing comment.
func tokenizeLine(line DisasmLine) []Term {
	var terms []Term

	fields := strings.Fields(line.Disasm)
	if len(fields) > 0 {
		terms = append(terms, Term{Text: fields[0], Tag: TagMnemonic})
		rest := strings.TrimSpace(strings.TrimPrefix(line.Disasm, fields[0]))
		if rest != "" {
			operands := splitOperands(rest)
			tags := [...]Tag{TagOperand0, TagOperand1, TagOperand2}
			for i, op := range operands {
				tag := TagOperand2
				if i < len(tags) {
					tag = tags[i]
				}
				terms = append(terms, Term{Text: op, Tag: tag})
			}
		}
	}

	if line.Comment != "" {
		terms = append(terms, Term{Text: line.Comment, Tag: TagComment})
	}
	return terms
}

// splitOperands splits a comma-joined operand list, trimming whitespace
// around each piece; operands beyond the third are folded into the last
// one rather than dropped.
func splitOperands(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, strings.TrimSpace(r))
	}
	if len(out) > 3 {
		merged := strings.Join(out[2:], ", ")
		out = append(out[:2], merged)
	}
	return out
}
