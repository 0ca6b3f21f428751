// Package fst implements the transducer builder: the mutable
// directed-multigraph structure the rule translator mutates one rule at a
// time, plus the operations (state creation, single-step transduction,
// epsilon linking, splicing, optionality, minimisation, serialization,
// rendering) that are the only sanctioned way to touch it.
//
// Every transition is labeled by a single alphabet.PairID. Since the
// epsilon/epsilon pair is itself pair ID 0, a Transducer is, structurally,
// an epsilon-NFA over the alphabet of interned symbol pairs — which is
// what lets Minimise reuse textbook subset-construction and DFA
// minimisation rather than anything FST-specific.
package fst

import "github.com/standardbeagle/lrxc/internal/alphabet"

// State identifies a transducer state. State IDs are non-negative and
// unique within one Transducer.
type State int

type edge struct {
	pair alphabet.PairID
	to   State
}

// Transducer is a directed multi-graph of states connected by
// pair-labelled transitions, with one initial state and a set of final
// states.
type Transducer struct {
	out     [][]edge
	finals  map[State]bool
	initial State
}

// New creates a Transducer with a single initial state and no finals.
func New() *Transducer {
	t := &Transducer{finals: make(map[State]bool)}
	t.initial = t.newState()
	return t
}

func (t *Transducer) newState() State {
	id := State(len(t.out))
	t.out = append(t.out, nil)
	return id
}

// Initial returns the transducer's initial state.
func (t *Transducer) Initial() State { return t.initial }

// SetFinal marks s as an accepting state.
func (t *Transducer) SetFinal(s State) { t.finals[s] = true }

// IsFinal reports whether s is an accepting state.
func (t *Transducer) IsFinal(s State) bool { return t.finals[s] }

// NewStateAfter always creates a new destination state and a transition
// from s labelled pair, returning the new state.
func (t *Transducer) NewStateAfter(s State, pair alphabet.PairID) State {
	dst := t.newState()
	t.out[s] = append(t.out[s], edge{pair, dst})
	return dst
}

// Step behaves like NewStateAfter but may reuse an existing equivalent
// successor: if s already has an outgoing transition labelled pair, its
// destination is reused instead of allocating a new state. The rule
// translator never relies on this collapsing for correctness — only on
// Step reaching *some* valid destination for pair — so either behavior is
// sound; reusing transitions keeps self-loop construction (see Link)
// cheap for long attribute strings.
func (t *Transducer) Step(s State, pair alphabet.PairID) State {
	for _, e := range t.out[s] {
		if e.pair == pair {
			return e.to
		}
	}
	return t.NewStateAfter(s, pair)
}

// Link adds a transition labelled pair from src to dst without creating
// any new state. Used to form self-loops (Kleene closure) and merge tails
// (alternation joins).
func (t *Transducer) Link(src, dst State, pair alphabet.PairID) {
	t.out[src] = append(t.out[src], edge{pair, dst})
}

// MakeOptional mutates t so its language additionally contains the empty
// string, by marking the initial state final.
func (t *Transducer) MakeOptional() {
	t.SetFinal(t.initial)
}

// Size returns the number of states.
func (t *Transducer) Size() int { return len(t.out) }

// TransitionCount returns the total number of transitions across every
// state, for diagnostics.
func (t *Transducer) TransitionCount() int {
	n := 0
	for _, edges := range t.out {
		n += len(edges)
	}
	return n
}

// Splice copies sub into t, connecting entry to sub's initial state via an
// epsilon transition, and returns a fresh exit state reached via epsilon
// from each of sub's final states. States are never shared between t and
// sub: every copied state gets a fresh ID in t.
func (t *Transducer) Splice(entry State, sub *Transducer) State {
	offset := State(len(t.out))
	for _, edges := range sub.out {
		dst := make([]edge, len(edges))
		for i, e := range edges {
			dst[i] = edge{e.pair, e.to + offset}
		}
		t.out = append(t.out, dst)
	}

	t.Link(entry, sub.initial+offset, alphabet.EpsilonPair)

	exit := t.newState()
	for f := range sub.finals {
		t.Link(f+offset, exit, alphabet.EpsilonPair)
	}
	return exit
}

// outgoing returns the outgoing edges of s; a defensive copy is not made,
// callers must not mutate the result.
func (t *Transducer) outgoing(s State) []edge {
	return t.out[s]
}
