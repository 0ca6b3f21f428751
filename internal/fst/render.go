package fst

import (
	"fmt"
	"io"
	"sort"

	"github.com/standardbeagle/lrxc/internal/alphabet"
)

// Render emits a human-readable dump of t's states, transitions, and
// finals, labeling each pair with its symbol names rather than bare IDs.
// This is a plain-text dump; the CLI's --graph flag writes RenderDOT's
// output instead.
func (t *Transducer) Render(a *alphabet.Alphabet, w io.Writer) error {
	fmt.Fprintf(w, "initial: %d\n", t.initial)

	finals := make([]State, 0, len(t.finals))
	for f := range t.finals {
		finals = append(finals, f)
	}
	sortStates(finals)
	fmt.Fprintf(w, "finals: %v\n", finals)

	states := make([]State, len(t.out))
	for i := range states {
		states[i] = State(i)
	}
	for _, s := range states {
		edges := append([]edge(nil), t.out[s]...)
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].to != edges[j].to {
				return edges[i].to < edges[j].to
			}
			return edges[i].pair < edges[j].pair
		})
		for _, e := range edges {
			upper, lower := a.PairSymbols(e.pair)
			fmt.Fprintf(w, "  %d -> %d  %s:%s\n", s, e.to, symbolLabel(a, upper), symbolLabel(a, lower))
		}
	}
	return nil
}

func symbolLabel(a *alphabet.Alphabet, id alphabet.SymbolID) string {
	if id == alphabet.Epsilon {
		return "ε"
	}
	return a.Name(id)
}

// RenderDOT emits t as a Graphviz DOT document, for the CLI's --graph flag.
func (t *Transducer) RenderDOT(a *alphabet.Alphabet, w io.Writer) error {
	fmt.Fprintln(w, "digraph lrx {")
	fmt.Fprintln(w, "  rankdir=LR;")
	for f := range t.finals {
		fmt.Fprintf(w, "  %d [shape=doublecircle];\n", f)
	}
	for s, edges := range t.out {
		for _, e := range edges {
			upper, lower := a.PairSymbols(e.pair)
			fmt.Fprintf(w, "  %d -> %d [label=%q];\n", s, e.to, symbolLabel(a, upper)+":"+symbolLabel(a, lower))
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}
