// Package genotype implements the NATS-Bench topology search space (TSS)
// cell encoding.
//
// A cell is a DAG of 4 nodes. Node 0 is the input; each later node receives
// one operation per predecessor, so the cell has 1+2+3 = 6 operation edges.
// The canonical string form is
//
//	|op~0|+|op~0|op~1|+|op~0|op~1|op~2|
//
// where op~k means "apply op to the output of node k".
package genotype

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is one cell operation.
type Op string

const (
	OpNone    Op = "none"
	OpSkip    Op = "skip_connect"
	OpConv1x1 Op = "nor_conv_1x1"
	OpConv3x3 Op = "nor_conv_3x3"
	OpAvgPool Op = "avg_pool_3x3"
)

// Ops returns the operation set in its canonical order.
func Ops() []Op {
	return []Op{OpNone, OpSkip, OpConv1x1, OpConv3x3, OpAvgPool}
}

func validOp(op Op) bool {
	switch op {
	case OpNone, OpSkip, OpConv1x1, OpConv3x3, OpAvgPool:
		return true
	}
	return false
}

// NumNodes is the number of non-input nodes in a TSS cell.
const NumNodes = 3

// NumEdges is the number of operation edges in a TSS cell.
const NumEdges = 6

// Edge is one operation edge: apply Op to the output of node Input.
type Edge struct {
	Op    Op
	Input int
}

// Genotype is a parsed TSS cell: one edge list per non-input node.
// Node i (0-based) has i+1 incoming edges, ordered by input node.
type Genotype [][]Edge

// Parse decodes the string form of a TSS cell.
// It rejects strings that do not describe exactly 3 nodes with the fixed
// 1/2/3 incoming-edge structure of the search space.
func Parse(arch string) (Genotype, error) {
	nodeStrs := strings.Split(arch, "+")
	if len(nodeStrs) != NumNodes {
		return nil, fmt.Errorf("genotype: want %d nodes, got %d in %q", NumNodes, len(nodeStrs), arch)
	}
	g := make(Genotype, 0, NumNodes)
	for i, nodeStr := range nodeStrs {
		var edges []Edge
		for _, tok := range strings.Split(nodeStr, "|") {
			if tok == "" {
				continue
			}
			opIdx := strings.Split(tok, "~")
			if len(opIdx) != 2 {
				return nil, fmt.Errorf("genotype: malformed edge %q in %q", tok, arch)
			}
			input, err := strconv.Atoi(opIdx[1])
			if err != nil {
				return nil, fmt.Errorf("genotype: edge %q: input index: %w", tok, err)
			}
			if !validOp(Op(opIdx[0])) {
				return nil, fmt.Errorf("genotype: unknown operation %q in %q", opIdx[0], arch)
			}
			edges = append(edges, Edge{Op: Op(opIdx[0]), Input: input})
		}
		if len(edges) != i+1 {
			return nil, fmt.Errorf("genotype: node %d has %d edges, want %d in %q", i+1, len(edges), i+1, arch)
		}
		for j, e := range edges {
			if e.Input != j {
				return nil, fmt.Errorf("genotype: node %d edge %d has input %d, want %d in %q", i+1, j, e.Input, j, arch)
			}
		}
		g = append(g, edges)
	}
	return g, nil
}

// String encodes the genotype back to its canonical string form.
// Parse(g.String()) round-trips.
func (g Genotype) String() string {
	var b strings.Builder
	for i, node := range g {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteByte('|')
		for _, e := range node {
			b.WriteString(string(e.Op))
			b.WriteByte('~')
			b.WriteString(strconv.Itoa(e.Input))
			b.WriteByte('|')
		}
	}
	return b.String()
}

// Edges returns the 6 operations in string order (node by node, input by
// input).
func (g Genotype) Edges() []Op {
	ops := make([]Op, 0, NumEdges)
	for _, node := range g {
		for _, e := range node {
			ops = append(ops, e.Op)
		}
	}
	return ops
}

// FromEdges builds a genotype from the 6 operations in string order.
func FromEdges(ops []Op) (Genotype, error) {
	if len(ops) != NumEdges {
		return nil, fmt.Errorf("genotype: want %d edges, got %d", NumEdges, len(ops))
	}
	g := make(Genotype, NumNodes)
	k := 0
	for i := 0; i < NumNodes; i++ {
		g[i] = make([]Edge, i+1)
		for j := 0; j <= i; j++ {
			g[i][j] = Edge{Op: ops[k], Input: j}
			k++
		}
	}
	return g, nil
}

// clone returns a deep copy of g.
func (g Genotype) clone() Genotype {
	c := make(Genotype, len(g))
	for i, node := range g {
		c[i] = make([]Edge, len(node))
		copy(c[i], node)
	}
	return c
}

// EditDistance is the Hamming distance between two cells over their 6
// operation edges. It is 0 iff the cells are equal.
func EditDistance(arch1, arch2 string) (int, error) {
	g1, err := Parse(arch1)
	if err != nil {
		return 0, err
	}
	g2, err := Parse(arch2)
	if err != nil {
		return 0, err
	}
	e1, e2 := g1.Edges(), g2.Edges()
	d := 0
	for i := range e1 {
		if e1[i] != e2[i] {
			d++
		}
	}
	return d, nil
}

// Neighbors returns every genotype that differs from g in exactly one edge:
// 6 edges times 4 alternative operations = 24 neighbors, in deterministic
// order (edge order, then Ops order). g itself is never included.
func Neighbors(g Genotype) []Genotype {
	nbrs := make([]Genotype, 0, NumEdges*(len(Ops())-1))
	for i, node := range g {
		for j := range node {
			for _, op := range Ops() {
				if g[i][j].Op == op {
					continue
				}
				n := g.clone()
				n[i][j].Op = op
				nbrs = append(nbrs, n)
			}
		}
	}
	return nbrs
}

// NeighborStrings returns the string forms of Neighbors(Parse(arch)).
func NeighborStrings(arch string) ([]string, error) {
	g, err := Parse(arch)
	if err != nil {
		return nil, err
	}
	nbrs := Neighbors(g)
	strs := make([]string, len(nbrs))
	for i, n := range nbrs {
		strs[i] = n.String()
	}
	return strs, nil
}
