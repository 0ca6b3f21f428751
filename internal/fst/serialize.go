package fst

import (
	"bufio"
	"io"

	"github.com/standardbeagle/lrxc/internal/alphabet"
	"github.com/standardbeagle/lrxc/internal/wire"
)

// Serialize writes t in the runtime's binary FST format: a multibyte
// state count, the multibyte initial-state index, a multibyte final-state
// count followed by each final state's index, then for every state a
// multibyte out-degree followed by (pair, destination) pairs (each a
// multibyte value).
func (t *Transducer) Serialize(w io.Writer) error {
	if err := wire.WriteMultibyte(w, uint64(len(t.out))); err != nil {
		return err
	}
	if err := wire.WriteMultibyte(w, uint64(t.initial)); err != nil {
		return err
	}

	if err := wire.WriteMultibyte(w, uint64(len(t.finals))); err != nil {
		return err
	}
	finals := make([]State, 0, len(t.finals))
	for f := range t.finals {
		finals = append(finals, f)
	}
	sortStates(finals)
	for _, f := range finals {
		if err := wire.WriteMultibyte(w, uint64(f)); err != nil {
			return err
		}
	}

	for _, edges := range t.out {
		if err := wire.WriteMultibyte(w, uint64(len(edges))); err != nil {
			return err
		}
		for _, e := range edges {
			if err := wire.WriteMultibyte(w, uint64(e.pair)); err != nil {
				return err
			}
			if err := wire.WriteMultibyte(w, uint64(e.to)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Deserialize reads back a Transducer written by Serialize. As with
// alphabet.Deserialize, this exists for this package's own round-trip
// tests; the runtime applier that actually consumes the bundle is out of
// this core's scope.
func Deserialize(r io.Reader) (*Transducer, error) {
	br := asBufioReader(r)

	n, err := wire.ReadMultibyte(br)
	if err != nil {
		return nil, err
	}
	initial, err := wire.ReadMultibyte(br)
	if err != nil {
		return nil, err
	}

	t := &Transducer{
		out:     make([][]edge, n),
		finals:  make(map[State]bool),
		initial: State(initial),
	}

	fn, err := wire.ReadMultibyte(br)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < fn; i++ {
		f, err := wire.ReadMultibyte(br)
		if err != nil {
			return nil, err
		}
		t.finals[State(f)] = true
	}

	for i := uint64(0); i < n; i++ {
		deg, err := wire.ReadMultibyte(br)
		if err != nil {
			return nil, err
		}
		edges := make([]edge, deg)
		for j := uint64(0); j < deg; j++ {
			pair, err := wire.ReadMultibyte(br)
			if err != nil {
				return nil, err
			}
			to, err := wire.ReadMultibyte(br)
			if err != nil {
				return nil, err
			}
			edges[j] = edge{alphabet.PairID(pair), State(to)}
		}
		t.out[i] = edges
	}

	return t, nil
}

// asBufioReader avoids double-buffering when the caller is sequentially
// deserializing several FSTs from one shared stream (as the artifact
// bundle reader and the recogniser-section loop both do).
func asBufioReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

func sortStates(states []State) {
	for i := 1; i < len(states); i++ {
		for j := i; j > 0 && states[j-1] > states[j]; j-- {
			states[j-1], states[j] = states[j], states[j-1]
		}
	}
}
