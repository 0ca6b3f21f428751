package alphabet

import (
	"bufio"
	"io"

	"github.com/standardbeagle/lrxc/internal/wire"
)

// symbolKindChar marks a single Unicode scalar symbol; symbolKindName
// marks a "<name>" multi-character token. The runtime needs this
// distinction to reconstruct whether an ID denotes a code point or a
// named token, since both share one ID space (per the alphabet's
// algorithmic note in the component design).
const (
	symbolKindChar byte = 0
	symbolKindName byte = 1
)

// Serialize writes the alphabet in the runtime's binary format: a
// multibyte symbol count, then one (kind byte, wstring payload) record per
// symbol in interning order, then a multibyte pair count, then one
// (upper SymbolID, lower SymbolID) record per pair, each ID written as a
// multibyte value.
func (a *Alphabet) Serialize(w io.Writer) error {
	if err := wire.WriteMultibyte(w, uint64(len(a.names))); err != nil {
		return err
	}
	for _, name := range a.names {
		kind := symbolKindName
		if IsSingleCharacter(name) {
			kind = symbolKindChar
		}
		if _, err := w.Write([]byte{kind}); err != nil {
			return err
		}
		if err := wire.WriteWString(w, name); err != nil {
			return err
		}
	}

	if err := wire.WriteMultibyte(w, uint64(len(a.pairs))); err != nil {
		return err
	}
	for _, p := range a.pairs {
		if err := wire.WriteMultibyte(w, uint64(p.upper)); err != nil {
			return err
		}
		if err := wire.WriteMultibyte(w, uint64(p.lower)); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads back an Alphabet written by Serialize. It is not part
// of the runtime applier's contract (that component is out of scope), but
// it lets this package's own tests assert the serialization round-trips
// exactly, the way the teacher's base-63 codec tests did for its own
// narrow format.
func Deserialize(r io.Reader) (*Alphabet, error) {
	br := asBufioReader(r)

	n, err := wire.ReadMultibyte(br)
	if err != nil {
		return nil, err
	}
	a := &Alphabet{
		byName: make(map[string]SymbolID, n),
		byPair: make(map[pairKey]PairID),
	}
	for i := uint64(0); i < n; i++ {
		kindByte, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		_ = kindByte // kind is recoverable from the name itself; kept for wire parity
		name, err := wire.ReadWString(br)
		if err != nil {
			return nil, err
		}
		a.names = append(a.names, name)
		a.byName[name] = SymbolID(i)
	}

	pn, err := wire.ReadMultibyte(br)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < pn; i++ {
		upper, err := wire.ReadMultibyte(br)
		if err != nil {
			return nil, err
		}
		lower, err := wire.ReadMultibyte(br)
		if err != nil {
			return nil, err
		}
		key := pairKey{SymbolID(upper), SymbolID(lower)}
		a.pairs = append(a.pairs, key)
		a.byPair[key] = PairID(i)
	}
	return a, nil
}

// asBufioReader avoids double-buffering when the caller is sequentially
// deserializing several sections from one shared stream (as the artifact
// bundle reader does): wrapping an already-buffered reader in a second
// bufio.Reader would read ahead past this section's bytes and strand them
// in the inner reader once it goes out of scope.
func asBufioReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
