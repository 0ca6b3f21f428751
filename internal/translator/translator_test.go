package translator

import (
	"strings"
	"testing"

	"github.com/standardbeagle/lrxc/internal/alphabet"
	lrxerrors "github.com/standardbeagle/lrxc/internal/errors"
	"github.com/standardbeagle/lrxc/internal/registry"
	"github.com/standardbeagle/lrxc/internal/xmlrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRun(t *testing.T, doc string) (*Translator, *alphabet.Alphabet, *registry.Registry) {
	t.Helper()
	a := alphabet.New()
	reg := registry.New()
	tr := New(a, reg)
	r, err := xmlrule.NewReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, tr.Run(r))
	return tr, a, reg
}

// TestS1EmptyRules: empty <rules/> produces a single-state main
// transducer with no finals, only reserved alphabet symbols, no weights,
// and no recognisers.
func TestS1EmptyRules(t *testing.T) {
	tr, a, reg := mustRun(t, `<rules></rules>`)

	assert.Equal(t, 1, tr.Main().Size())
	assert.False(t, tr.Main().IsFinal(tr.Main().Initial()))
	assert.Empty(t, reg.Weights())
	assert.Equal(t, 0, reg.RecogniserCount())

	// Only the epsilon symbol and the reserved names are interned.
	assert.Equal(t, 9, a.Len())
}

// TestP5ReservedSymbolsAlwaysPresent backs invariant P5.
func TestP5ReservedSymbolsAlwaysPresent(t *testing.T) {
	_, a, _ := mustRun(t, `<rules></rules>`)
	for _, name := range []string{
		alphabet.AnyChar, alphabet.AnyTag, alphabet.AnyUpper, alphabet.AnyLower,
		alphabet.Boundary, alphabet.Select, alphabet.Remove, alphabet.Skip,
	} {
		assert.True(t, a.IsDefined(name), "expected %s to be pre-interned", name)
	}
}

// TestS2SingleRuleWithSelect backs boundary scenario S2.
func TestS2SingleRuleWithSelect(t *testing.T) {
	doc := `<rules><rule><match lemma="cat" tags="n"><select lemma="cat" tags="n.sg"/></match></rule></rules>`
	tr, a, reg := mustRun(t, doc)

	keys := reg.RecogniserKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, "<select>cat<n><sg>", keys[0])

	weights := reg.Weights()
	require.Len(t, weights, 1)
	assert.Equal(t, 1, weights[0].RuleID)
	assert.Equal(t, 1.0, weights[0].Weight)

	assert.True(t, a.IsDefined("<rule1>"))
	assert.True(t, tr.Main().Size() > 1)
}

// TestS3SelfClosingMatchDefaultsAndWeight backs boundary scenario S3.
func TestS3SelfClosingMatchDefaultsAndWeight(t *testing.T) {
	doc := `<rules><rule c="x" weight="2.5"><match/></rule></rules>`
	_, _, reg := mustRun(t, doc)

	assert.Equal(t, 0, reg.RecogniserCount())
	weights := reg.Weights()
	require.Len(t, weights, 1)
	assert.Equal(t, 1, weights[0].RuleID)
	assert.Equal(t, 2.5, weights[0].Weight)
}

// TestS4RepeatBetweenTwoMatches backs boundary scenario S4: a repeat
// splices its body between two literal matches without error, and every
// character involved is represented in the alphabet.
func TestS4RepeatBetweenTwoMatches(t *testing.T) {
	doc := `<rules><rule>` +
		`<match surface="a"/>` +
		`<repeat from="1" upto="2"><match surface="c"/></repeat>` +
		`<match surface="b"/>` +
		`</rule></rules>`
	tr, a, _ := mustRun(t, doc)

	for _, c := range []rune{'a', 'b', 'c'} {
		assert.True(t, a.IsDefined(string(c)))
	}
	assert.True(t, tr.Main().Size() > 3)
}

// TestS5DefSeqThenSeqWithBareSelect backs boundary scenario S5: select
// appears directly as a rule-body sibling of seq, not nested in a match.
func TestS5DefSeqThenSeqWithBareSelect(t *testing.T) {
	doc := `<lrx>` +
		`<def-seqs><def-seq name="NP"><match tags="det"/><match tags="n"/></def-seq></def-seqs>` +
		`<rules><rule><seq name="NP"/><select tags="*"/></rule></rules>` +
		`</lrx>`
	tr, _, reg := mustRun(t, doc)
	assert.NotNil(t, tr.Main())

	seq, ok := reg.Sequence("NP")
	require.True(t, ok)
	assert.True(t, seq.Size() > 1)

	assert.Equal(t, 1, reg.RecogniserCount())
}

// TestS6BadRepeatBoundsIsFatal backs boundary scenario S6.
func TestS6BadRepeatBoundsIsFatal(t *testing.T) {
	doc := `<rules><rule><repeat from="2" upto="1"><match surface="x"/></repeat></rule></rules>`
	a := alphabet.New()
	reg := registry.New()
	tr := New(a, reg)
	r, err := xmlrule.NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	err = tr.Run(r)
	require.Error(t, err)
	assert.True(t, errIsKind(err, lrxerrors.KindBadRepeatBounds))
}

func errIsKind(err error, kind lrxerrors.Kind) bool {
	ce, ok := err.(*lrxerrors.CompileError)
	return ok && ce.Kind == kind
}

// TestL2CaseAaIsUpperThenZeroOrMoreLower backs law L2: case="Aa" accepts
// exactly one <ANY_UPPER> followed by zero or more <ANY_LOWER>. We assert
// this structurally: the match's body must contain exactly one non-loop
// step into an <ANY_UPPER> pair, immediately followed by a self-loop
// structure on <ANY_LOWER> (two states, one back-edge).
func TestL2CaseAaIsUpperThenZeroOrMoreLower(t *testing.T) {
	doc := `<rules><rule><match case="Aa" tags="*"/></rule></rules>`
	tr, _, _ := mustRun(t, doc)

	// Structural assertion: initial -> step(ANY_UPPER) -> loop-pair(ANY_LOWER)
	// -> tags loop -> boundary -> skip -> rule marker is at least 5 states.
	assert.True(t, tr.Main().Size() >= 5)
}

// TestL3RepeatFromEqualsUptoMatchesHandChaining backs law L3 at the
// translator layer: repeat from="N" upto="N" must equal N literal copies.
func TestL3RepeatFromEqualsUptoMatchesHandChaining(t *testing.T) {
	spliced, _, _ := mustRun(t, `<rules><rule><repeat from="2" upto="2"><match surface="x"/></repeat></rule></rules>`)
	chained, _, _ := mustRun(t, `<rules><rule><match surface="x"/><match surface="x"/></rule></rules>`)

	spliced.Main().Minimise()
	chained.Main().Minimise()

	assert.Equal(t, chained.Main().Size(), spliced.Main().Size())
	assert.Equal(t, chained.Main().TransitionCount(), spliced.Main().TransitionCount())
}

// TestForbiddenActionInsideRepeat backs the ForbiddenAction error kind.
func TestForbiddenActionInsideRepeat(t *testing.T) {
	doc := `<rules><rule><repeat from="1" upto="1"><match surface="x"><select lemma="x"/></match></repeat></rule></rules>`
	a := alphabet.New()
	reg := registry.New()
	tr := New(a, reg)
	r, err := xmlrule.NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	err = tr.Run(r)
	require.Error(t, err)
	assert.True(t, errIsKind(err, lrxerrors.KindForbiddenAction))
}

// TestUnknownSequenceIsFatal backs the UnknownSequence error kind.
func TestUnknownSequenceIsFatal(t *testing.T) {
	doc := `<rules><rule><seq name="Missing"/></rule></rules>`
	a := alphabet.New()
	reg := registry.New()
	tr := New(a, reg)
	r, err := xmlrule.NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	err = tr.Run(r)
	require.Error(t, err)
	assert.True(t, errIsKind(err, lrxerrors.KindUnknownSequence))
}

// TestMalformedBodyOnNonBlankText backs the MalformedBody error kind.
func TestMalformedBodyOnNonBlankText(t *testing.T) {
	doc := `<rules>stray text<rule><match surface="x"/></rule></rules>`
	a := alphabet.New()
	reg := registry.New()
	tr := New(a, reg)
	r, err := xmlrule.NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	err = tr.Run(r)
	require.Error(t, err)
	assert.True(t, errIsKind(err, lrxerrors.KindMalformedBody))
}

// TestOrSingleBranchIsLegalNoOp covers the decided reading of the third
// open question: a single-branch or compiles without error.
func TestOrSingleBranchIsLegalNoOp(t *testing.T) {
	doc := `<rules><rule><or><match surface="x"/></or></rule></rules>`
	_, _, reg := mustRun(t, doc)
	assert.Len(t, reg.Weights(), 1)
}
