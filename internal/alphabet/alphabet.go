// Package alphabet implements the symbolic alphabet: the intern table that
// turns symbol names and symbol-ID pairs into dense, deterministic integer
// identifiers shared by every transducer built in one compilation.
package alphabet

import "unicode/utf8"

// SymbolID identifies an interned symbol. 0 is always the epsilon symbol
// (the empty string).
type SymbolID int

// PairID identifies an interned (upper, lower) symbol-ID pair. 0 is
// always the epsilon/epsilon pair, (0, 0).
type PairID int

// Epsilon is the reserved, always-present symbol ID for the empty string.
const Epsilon SymbolID = 0

// EpsilonPair is the reserved, always-present pair ID for (Epsilon, Epsilon).
const EpsilonPair PairID = 0

// Reserved symbol names pre-interned by New, matching the names the
// runtime applier expects to find regardless of the rule set compiled.
const (
	Select   = "<select>"
	Remove   = "<remove>"
	Skip     = "<skip>"
	AnyTag   = "<ANY_TAG>"
	AnyChar  = "<ANY_CHAR>"
	AnyUpper = "<ANY_UPPER>"
	AnyLower = "<ANY_LOWER>"
	Boundary = "<$>"
)

var reservedNames = []string{Select, Remove, Skip, AnyTag, AnyChar, AnyUpper, AnyLower, Boundary}

// pairKey is the interning key for a symbol-ID pair.
type pairKey struct {
	upper SymbolID
	lower SymbolID
}

// Alphabet is a mutable, append-only collection of interned symbols and
// symbol pairs. All mutations are monotone: IDs are never reused and
// nothing is ever removed, so a single Alphabet can be shared by reference
// across every sub-transducer built within one compilation without
// locking (the compiler is single-threaded, per the concurrency model).
type Alphabet struct {
	names   []string
	byName  map[string]SymbolID
	pairs   []pairKey
	byPair  map[pairKey]PairID
}

// New creates an Alphabet with the empty-string symbol, the epsilon pair,
// and every reserved name (select/remove/skip/ANY_*/$) pre-interned, per
// invariant (iii) of the data model: "all reserved names are pre-interned
// during construction."
func New() *Alphabet {
	a := &Alphabet{
		byName: make(map[string]SymbolID),
		byPair: make(map[pairKey]PairID),
	}
	// ID 0 is epsilon, the empty string.
	a.intern("")
	for _, name := range reservedNames {
		a.intern(name)
	}
	// Pair 0 is (epsilon, epsilon).
	a.pair(Epsilon, Epsilon)
	return a
}

func (a *Alphabet) intern(name string) SymbolID {
	if id, ok := a.byName[name]; ok {
		return id
	}
	id := SymbolID(len(a.names))
	a.names = append(a.names, name)
	a.byName[name] = id
	return id
}

// InternSymbol returns the existing ID for name, or assigns and returns a
// new one. Idempotent.
func (a *Alphabet) InternSymbol(name string) SymbolID {
	return a.intern(name)
}

// InternChar interns a single Unicode scalar as a one-character symbol
// name, the form every bare surface/lemma/suffix/contains character takes
// on the transducer's tapes.
func (a *Alphabet) InternChar(r rune) SymbolID {
	return a.intern(string(r))
}

// Pair interns the ordered pair (upper, lower) and returns its dense ID.
// Deterministic: the same pair always maps to the same ID within one
// Alphabet.
func (a *Alphabet) Pair(upper, lower SymbolID) PairID {
	return a.pair(upper, lower)
}

func (a *Alphabet) pair(upper, lower SymbolID) PairID {
	key := pairKey{upper, lower}
	if id, ok := a.byPair[key]; ok {
		return id
	}
	id := PairID(len(a.pairs))
	a.pairs = append(a.pairs, key)
	a.byPair[key] = id
	return id
}

// IsDefined reports whether name has already been interned.
func (a *Alphabet) IsDefined(name string) bool {
	_, ok := a.byName[name]
	return ok
}

// Name returns the interned name for id. Panics on an out-of-range id,
// since every id an Alphabet hands out by construction refers to one of
// its own entries.
func (a *Alphabet) Name(id SymbolID) string {
	return a.names[id]
}

// PairSymbols returns the (upper, lower) symbol IDs for a pair ID.
func (a *Alphabet) PairSymbols(id PairID) (upper, lower SymbolID) {
	k := a.pairs[id]
	return k.upper, k.lower
}

// Len reports the number of interned symbols, including the pre-interned
// epsilon and reserved names.
func (a *Alphabet) Len() int { return len(a.names) }

// PairLen reports the number of interned symbol pairs, including the
// pre-interned epsilon pair.
func (a *Alphabet) PairLen() int { return len(a.pairs) }

// IsSingleCharacter reports whether name is exactly one Unicode scalar
// value outside the "<name>" reserved form, per the algorithmic note in
// the symbol alphabet's contract: such symbols may share the code-point
// value directly in the pair encoding.
func IsSingleCharacter(name string) bool {
	if name == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(name)
	return size == len(name) && r != utf8.RuneError
}
