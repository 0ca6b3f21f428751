package fst

import (
	"sort"
	"strconv"

	"github.com/standardbeagle/lrxc/internal/alphabet"
)

// Minimise replaces t's internal graph with an equivalent minimal
// deterministic one. Because every transition already carries a single
// combined (upper, lower) pair as its label, t is structurally an
// epsilon-NFA over the alphabet of pair IDs (epsilon being pair ID 0) —
// so minimisation proceeds by the textbook route: eliminate epsilon via
// subset construction over epsilon-closures, then collapse
// indistinguishable states by iterative partition refinement (the
// standard DFA-minimisation fixed point Hopcroft's algorithm also
// converges to, computed here by direct refinement rather than
// Hopcroft's O(n log n) worklist, since rule transducers are small).
//
// Running Minimise a second time is a no-op: the subset-construction DFA
// built from an already-minimal DFA is isomorphic to it, and partition
// refinement over an already-stable partition does not split further.
func (t *Transducer) Minimise() {
	dfaStates, dfaTrans, dfaFinal, dfaStart := t.determinize()
	classOf := minimiseDFA(dfaStates, dfaTrans, dfaFinal)
	t.rebuildFrom(dfaStates, dfaTrans, dfaFinal, dfaStart, classOf)
}

// stateSet is a canonicalized, sorted set of original NFA states,
// standing in for one DFA state during subset construction.
type stateSet string

func (t *Transducer) epsilonClosure(seed []State) []State {
	seen := make(map[State]bool)
	var stack []State
	for _, s := range seed {
		if !seen[s] {
			seen[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range t.outgoing(s) {
			if e.pair == alphabet.EpsilonPair && !seen[e.to] {
				seen[e.to] = true
				stack = append(stack, e.to)
			}
		}
	}
	out := make([]State, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func canonicalize(states []State) stateSet {
	b := make([]byte, 0, len(states)*4)
	for i, s := range states {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(s), 10)
	}
	return stateSet(b)
}

// determinize runs subset construction, returning: the list of DFA states
// (each a sorted slice of original states, index-addressed), a transition
// table dfaTrans[state][pair] = destination state index, the finality of
// each DFA state, and the index of the start state.
func (t *Transducer) determinize() (states [][]State, trans []map[alphabet.PairID]int, final []bool, start int) {
	index := make(map[stateSet]int)

	startSet := t.epsilonClosure([]State{t.initial})
	startKey := canonicalize(startSet)
	index[startKey] = 0
	states = append(states, startSet)
	trans = append(trans, nil)
	final = append(final, t.hasFinal(startSet))

	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		byPair := make(map[alphabet.PairID][]State)
		for _, s := range states[cur] {
			for _, e := range t.outgoing(s) {
				if e.pair == alphabet.EpsilonPair {
					continue
				}
				byPair[e.pair] = append(byPair[e.pair], e.to)
			}
		}

		trans[cur] = make(map[alphabet.PairID]int, len(byPair))
		for pair, targets := range byPair {
			closure := t.epsilonClosure(targets)
			key := canonicalize(closure)
			idx, ok := index[key]
			if !ok {
				idx = len(states)
				index[key] = idx
				states = append(states, closure)
				trans = append(trans, nil)
				final = append(final, t.hasFinal(closure))
				queue = append(queue, idx)
			}
			trans[cur][pair] = idx
		}
	}

	return states, trans, final, 0
}

func (t *Transducer) hasFinal(set []State) bool {
	for _, s := range set {
		if t.IsFinal(s) {
			return true
		}
	}
	return false
}

// minimiseDFA runs iterative partition refinement (Moore's algorithm) to
// the fixed point, returning each state's equivalence-class index.
func minimiseDFA(states [][]State, trans []map[alphabet.PairID]int, final []bool) []int {
	n := len(states)
	class := make([]int, n)
	for i := range class {
		if final[i] {
			class[i] = 1
		}
	}

	alphabetSet := make(map[alphabet.PairID]bool)
	for _, m := range trans {
		for p := range m {
			alphabetSet[p] = true
		}
	}
	pairs := make([]alphabet.PairID, 0, len(alphabetSet))
	for p := range alphabetSet {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i] < pairs[j] })

	for {
		sig := make([]string, n)
		for i := 0; i < n; i++ {
			b := strconv.Itoa(class[i]) + "|"
			for _, p := range pairs {
				dst := -1
				if d, ok := trans[i][p]; ok {
					dst = class[d]
				}
				b += strconv.Itoa(int(p)) + ":" + strconv.Itoa(dst) + ","
			}
			sig[i] = b
		}

		sigToClass := make(map[string]int)
		newClass := make([]int, n)
		for i := 0; i < n; i++ {
			c, ok := sigToClass[sig[i]]
			if !ok {
				c = len(sigToClass)
				sigToClass[sig[i]] = c
			}
			newClass[i] = c
		}

		changed := false
		for i := 0; i < n; i++ {
			if newClass[i] != class[i] {
				changed = true
				break
			}
		}
		class = newClass
		if !changed {
			break
		}
	}

	return class
}

// rebuildFrom replaces t's state graph with the minimal DFA described by
// classOf, one state per equivalence class.
func (t *Transducer) rebuildFrom(states [][]State, trans []map[alphabet.PairID]int, final []bool, start int, classOf []int) {
	numClasses := 0
	for _, c := range classOf {
		if c+1 > numClasses {
			numClasses = c + 1
		}
	}

	newOut := make([][]edge, numClasses)
	newFinals := make(map[State]bool)
	seen := make([]map[alphabet.PairID]bool, numClasses)
	for i := range seen {
		seen[i] = make(map[alphabet.PairID]bool)
	}

	for i := 0; i < len(states); i++ {
		src := State(classOf[i])
		if final[i] {
			newFinals[src] = true
		}
		for pair, dstIdx := range trans[i] {
			dst := State(classOf[dstIdx])
			if seen[src][pair] {
				continue
			}
			// Representative-state determinism: within one class every
			// member state agrees on where `pair` leads, since the
			// partition is stable: skip duplicates rather than asserting,
			// since multiple original states fold into one class.
			newOut[src] = append(newOut[src], edge{pair, dst})
			seen[src][pair] = true
		}
	}

	t.out = newOut
	t.finals = newFinals
	t.initial = State(classOf[start])
}
