// Package translator implements the rule tree grammar walk: it consumes
// the XML reader's token stream and, element by element, mutates a main
// transducer (plus a rule registry of named sequences and recognisers)
// following the grammar's attribute precedence, branching, repetition,
// and action-encoding rules.
//
// The walk is a recursive-descent interpreter over the flat token stream,
// the same shape the teacher's config loaders use when they wrap a
// streaming decoder (one Next() call at a time, dispatch on token kind,
// recurse into nested scopes). Every construction function thread a
// "cur" state through the pieces it builds and returns the new cur,
// mirroring how the original rule compiler holds one cursor per branch.
package translator

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/standardbeagle/lrxc/internal/alphabet"
	lrxerrors "github.com/standardbeagle/lrxc/internal/errors"
	"github.com/standardbeagle/lrxc/internal/fst"
	"github.com/standardbeagle/lrxc/internal/logging"
	"github.com/standardbeagle/lrxc/internal/registry"
	"github.com/standardbeagle/lrxc/internal/xmlrule"
)

// Translator holds the mutable compile state shared across one rule
// file's translation: the alphabet, the registry, the permanent main
// transducer, whichever transducer is currently "active" (the main one,
// or a scratch transducer installed for the duration of a repeat or
// def-seq body), and the can_select flag that forbids select/remove
// inside those two scopes.
type Translator struct {
	alphabet  *alphabet.Alphabet
	registry  *registry.Registry
	main      *fst.Transducer
	active    *fst.Transducer
	canSelect bool
	ruleID    int

	// onRuleBoundary, when set, runs after each rule finishes compiling.
	// The compiler driver uses this to check context cancellation between
	// rules without threading a context.Context through every translation
	// function (spec.md §5: no suspension points inside the walk itself).
	onRuleBoundary func() error
}

// New creates a Translator over an already-constructed alphabet and
// registry, both owned by the compiler driver and shared with the other
// components of one compile.
func New(a *alphabet.Alphabet, reg *registry.Registry) *Translator {
	main := fst.New()
	return &Translator{alphabet: a, registry: reg, main: main, active: main, canSelect: true}
}

// SetRuleBoundaryHook installs fn to run after every completed rule. A
// non-nil error from fn aborts the remaining translation.
func (tr *Translator) SetRuleBoundaryHook(fn func() error) {
	tr.onRuleBoundary = fn
}

// Main returns the permanent main transducer built up across every rule.
func (tr *Translator) Main() *fst.Transducer { return tr.main }

// Run walks the entirety of r, translating every <rule> and <def-seq> it
// finds into the translator's main transducer and registry.
func (tr *Translator) Run(r *xmlrule.Reader) error {
	return tr.parseTopLevel(r, "")
}

// withScratchTransducer installs a fresh transducer as tr.active for the
// duration of build, restores the previous active transducer afterward,
// and marks build's returned state final on the scratch transducer. This
// is the structured-stack equivalent of the source's "swap out the main
// transducer, build into a scratch one, swap back" technique: the saved
// active pointer is the stack frame, released automatically on return.
func (tr *Translator) withScratchTransducer(build func(scratch *fst.Transducer) (fst.State, error)) (*fst.Transducer, error) {
	saved := tr.active
	scratch := fst.New()
	tr.active = scratch
	end, err := build(scratch)
	tr.active = saved
	if err != nil {
		return nil, err
	}
	scratch.SetFinal(end)
	return scratch, nil
}

func (tr *Translator) boundaryPair() alphabet.PairID {
	b := tr.alphabet.InternSymbol(alphabet.Boundary)
	return tr.alphabet.Pair(b, b)
}

// selfLoop implements the "step once, link the new state back to the
// pre-step state with epsilon" construction (spec glossary: self-loop via
// link). It deliberately returns the PRE-step state unchanged: the loop
// is a bypass attached to cur, not a displacement of it, so zero
// occurrences is simply never entering the loop, and downstream
// emission continues from the same state that already accepts the loop.
func (tr *Translator) selfLoop(cur fst.State, symName string) fst.State {
	sym := tr.alphabet.InternSymbol(symName)
	pair := tr.alphabet.Pair(sym, alphabet.Epsilon)
	q := tr.active.NewStateAfter(cur, pair)
	tr.active.Link(q, cur, alphabet.EpsilonPair)
	return cur
}

func (tr *Translator) stepChar(cur fst.State, c rune) fst.State {
	pair := tr.alphabet.Pair(tr.alphabet.InternChar(c), alphabet.Epsilon)
	return tr.active.Step(cur, pair)
}

func (tr *Translator) stepChars(cur fst.State, s string) fst.State {
	for _, c := range s {
		cur = tr.stepChar(cur, c)
	}
	return cur
}

// splitNonEmpty tokenises s by sep, dropping empty tokens (so "", ".",
// "a.", ".a" all behave sensibly rather than producing spurious steps).
func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// emitTagSequence implements the "tags" table row shared by match
// attribute encoding and recogniser construction: tokenise by '.', each
// non-empty token becomes a plain <t>:ε step, except "*" (or no tokens
// at all) which becomes an <ANY_TAG>:ε self-loop.
func (tr *Translator) emitTagSequence(cur fst.State, tags string) fst.State {
	tokens := splitNonEmpty(tags, ".")
	if len(tokens) == 0 {
		return tr.selfLoop(cur, alphabet.AnyTag)
	}
	for _, t := range tokens {
		if t == "*" {
			cur = tr.selfLoop(cur, alphabet.AnyTag)
			continue
		}
		sym := tr.alphabet.InternSymbol("<" + t + ">")
		cur = tr.active.Step(cur, tr.alphabet.Pair(sym, alphabet.Epsilon))
	}
	return cur
}

// emitLemma implements the shared "lemma" encoding: "*" becomes an
// <ANY_CHAR>:ε self-loop, anything else steps its characters.
func (tr *Translator) emitLemma(cur fst.State, lemma string) fst.State {
	if lemma == "*" {
		return tr.selfLoop(cur, alphabet.AnyChar)
	}
	return tr.stepChars(cur, lemma)
}

func (tr *Translator) emitCase(cur fst.State, value string) fst.State {
	switch value {
	case "":
		return cur
	case "AA":
		return tr.selfLoop(cur, alphabet.AnyUpper)
	case "aa":
		return tr.selfLoop(cur, alphabet.AnyLower)
	case "Aa":
		upperPair := tr.alphabet.Pair(tr.alphabet.InternSymbol(alphabet.AnyUpper), alphabet.Epsilon)
		next := tr.active.Step(cur, upperPair)
		return tr.selfLoop(next, alphabet.AnyLower)
	default:
		// Not one of the three documented forms: silently a no-op, the
		// same tolerance the grammar extends to unrecognised tag tokens.
		return cur
	}
}

// emitMatchAttrs builds the body of a <match> element's own pattern,
// honoring the documented attribute precedence: surface is exclusive of
// everything else; case is additive before the suffix/contains/lemma
// branch; tags is additive after it.
func (tr *Translator) emitMatchAttrs(cur fst.State, attrs map[string]string) fst.State {
	if surface, ok := attrs["surface"]; ok {
		return tr.stepChars(cur, surface)
	}

	if caseVal, ok := attrs["case"]; ok {
		cur = tr.emitCase(cur, caseVal)
	}

	switch {
	case attrs["suffix"] != "":
		cur = tr.selfLoop(cur, alphabet.AnyChar)
		cur = tr.stepChars(cur, attrs["suffix"])
	case attrs["contains"] != "":
		cur = tr.selfLoop(cur, alphabet.AnyChar)
		cur = tr.stepChars(cur, attrs["contains"])
		cur = tr.selfLoop(cur, alphabet.AnyChar)
	default:
		lemma, ok := attrs["lemma"]
		if !ok || lemma == "" {
			lemma = "*"
		}
		cur = tr.emitLemma(cur, lemma)
	}

	tags, ok := attrs["tags"]
	if !ok || tags == "" {
		tags = "*"
	}
	return tr.emitTagSequence(cur, tags)
}

func nameAttr(attrs map[string]string) string {
	if n, ok := attrs["name"]; ok && n != "" {
		return n
	}
	return attrs["n"]
}

func floatAttr(attrs map[string]string, key string) (float64, bool) {
	v, ok := attrs[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func intAttr(attrs map[string]string, key string) (int, bool) {
	v, ok := attrs[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseTopLevel consumes tokens until an EndElement named closingName (or
// end of input, when closingName is empty — the true document top). It
// recurses into a wrapping <lrx> transparently and dispatches <rules> and
// <def-seqs> to their own parsers.
func (tr *Translator) parseTopLevel(r *xmlrule.Reader, closingName string) error {
	for {
		tok, err := r.Next()
		if err == io.EOF {
			if closingName == "" {
				return nil
			}
			return lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </%s>", closingName)
		}
		if err != nil {
			return lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
		}

		switch tok.Kind {
		case xmlrule.StartElement:
			switch tok.Name {
			case "lrx":
				if err := tr.parseTopLevel(r, "lrx"); err != nil {
					return err
				}
			case "rules":
				if err := tr.parseRules(r); err != nil {
					return err
				}
			case "def-seqs":
				if err := tr.parseDefSeqs(r); err != nil {
					return err
				}
			default:
				return lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected top-level element <%s>", tok.Name)
			}
		case xmlrule.CharData:
			if !xmlrule.IsBlank(tok.Text) {
				return lrxerrors.New(lrxerrors.KindMalformedBody, r.Line(), "non-blank text at the top level")
			}
		case xmlrule.EndElement:
			if tok.Name == closingName {
				return nil
			}
			return lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected closing </%s>", tok.Name)
		}
	}
}

func (tr *Translator) parseRules(r *xmlrule.Reader) error {
	for {
		tok, err := r.Next()
		if err == io.EOF {
			return lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </rules>")
		}
		if err != nil {
			return lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
		}
		switch tok.Kind {
		case xmlrule.StartElement:
			if tok.Name != "rule" {
				return lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected element <%s> inside <rules>", tok.Name)
			}
			if err := tr.parseRule(r, tok.Attrs); err != nil {
				return err
			}
		case xmlrule.CharData:
			if !xmlrule.IsBlank(tok.Text) {
				return lrxerrors.New(lrxerrors.KindMalformedBody, r.Line(), "non-blank text inside <rules>")
			}
		case xmlrule.EndElement:
			if tok.Name == "rules" {
				return nil
			}
			return lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected closing </%s> inside <rules>", tok.Name)
		}
	}
}

func (tr *Translator) parseDefSeqs(r *xmlrule.Reader) error {
	for {
		tok, err := r.Next()
		if err == io.EOF {
			return lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </def-seqs>")
		}
		if err != nil {
			return lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
		}
		switch tok.Kind {
		case xmlrule.StartElement:
			if tok.Name != "def-seq" {
				return lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected element <%s> inside <def-seqs>", tok.Name)
			}
			if err := tr.parseDefSeq(r, tok.Attrs); err != nil {
				return err
			}
		case xmlrule.CharData:
			if !xmlrule.IsBlank(tok.Text) {
				return lrxerrors.New(lrxerrors.KindMalformedBody, r.Line(), "non-blank text inside <def-seqs>")
			}
		case xmlrule.EndElement:
			if tok.Name == "def-seqs" {
				return nil
			}
			return lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected closing </%s> inside <def-seqs>", tok.Name)
		}
	}
}

// parseSequence consumes a run of sibling match/or/repeat/seq elements,
// threading cur through each, until an EndElement named closingName. It
// backs rule bodies, repeat bodies, and def-seq bodies alike.
func (tr *Translator) parseSequence(r *xmlrule.Reader, closingName string, entry fst.State) (fst.State, error) {
	cur := entry
	for {
		tok, err := r.Next()
		if err == io.EOF {
			return 0, lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </%s>", closingName)
		}
		if err != nil {
			return 0, lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
		}
		switch tok.Kind {
		case xmlrule.StartElement:
			var err2 error
			cur, err2 = tr.parseBodyElement(r, tok, cur)
			if err2 != nil {
				return 0, err2
			}
		case xmlrule.CharData:
			if !xmlrule.IsBlank(tok.Text) {
				return 0, lrxerrors.New(lrxerrors.KindMalformedBody, r.Line(), "non-blank text inside <%s>", closingName)
			}
		case xmlrule.EndElement:
			if tok.Name == closingName {
				return cur, nil
			}
			return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected closing </%s> inside <%s>", tok.Name, closingName)
		}
	}
}

// parseBodyElement dispatches one sibling element within a rule, repeat,
// or def-seq body. select/remove are legal here directly (acting on cur
// at its current position), as well as nested inside a match's own child
// scope (handled separately by parseMatch) — both positions contribute
// the same action encoding.
func (tr *Translator) parseBodyElement(r *xmlrule.Reader, tok xmlrule.Token, cur fst.State) (fst.State, error) {
	switch tok.Name {
	case "match":
		return tr.parseMatch(r, tok.Attrs, cur)
	case "or":
		return tr.parseOr(r, tok.Attrs, cur)
	case "repeat":
		return tr.parseRepeat(r, tok.Attrs, cur)
	case "seq":
		return tr.parseSeqElement(r, tok.Attrs, cur)
	case "select":
		return tr.parseAction(r, tok.Attrs, cur, true)
	case "remove":
		return tr.parseAction(r, tok.Attrs, cur, false)
	default:
		return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected element <%s>", tok.Name)
	}
}

func (tr *Translator) parseRule(r *xmlrule.Reader, attrs map[string]string) error {
	savedCanSelect := tr.canSelect
	tr.canSelect = true
	// Every rule gets its own fresh epsilon transition off Initial, so that
	// transitions and self-loops attached while parsing one rule's body can
	// never leak into another rule's language after the FSTs are merged.
	entry := tr.main.NewStateAfter(tr.main.Initial(), alphabet.EpsilonPair)
	cur, err := tr.parseSequence(r, "rule", entry)
	tr.canSelect = savedCanSelect
	if err != nil {
		return err
	}

	tr.ruleID++
	cur = tr.active.Step(cur, tr.boundaryPair())
	ruleSym := tr.alphabet.InternSymbol(fmt.Sprintf("<rule%d>", tr.ruleID))
	cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, ruleSym))
	tr.active.SetFinal(cur)

	weight := registry.NormalizeWeight(floatAttr(attrs, "weight"))
	tr.registry.AddWeight(tr.ruleID, weight)
	logging.Debugf("compiled rule %d (weight %g)", tr.ruleID, weight)

	if tr.onRuleBoundary != nil {
		return tr.onRuleBoundary()
	}
	return nil
}

// parseMatch builds a match element's own pattern, then either finalizes
// it (self-closing: no action children, so append the end-of-word-form
// boundary and a skip action) or consumes its select/remove children.
func (tr *Translator) parseMatch(r *xmlrule.Reader, attrs map[string]string, entry fst.State) (fst.State, error) {
	cur := tr.emitMatchAttrs(entry, attrs)

	tok, err := r.Next()
	if err == io.EOF {
		return 0, lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </match>")
	}
	if err != nil {
		return 0, lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
	}

	if tok.Kind == xmlrule.EndElement && tok.Name == "match" {
		cur = tr.active.Step(cur, tr.boundaryPair())
		cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternSymbol(alphabet.Skip)))
		return cur, nil
	}

	for {
		switch tok.Kind {
		case xmlrule.StartElement:
			var err2 error
			switch tok.Name {
			case "select":
				cur, err2 = tr.parseAction(r, tok.Attrs, cur, true)
			case "remove":
				cur, err2 = tr.parseAction(r, tok.Attrs, cur, false)
			default:
				err2 = lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected element <%s> inside <match>", tok.Name)
			}
			if err2 != nil {
				return 0, err2
			}
		case xmlrule.CharData:
			if !xmlrule.IsBlank(tok.Text) {
				return 0, lrxerrors.New(lrxerrors.KindMalformedBody, r.Line(), "non-blank text inside <match>")
			}
		case xmlrule.EndElement:
			if tok.Name == "match" {
				return cur, nil
			}
			return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected closing </%s> inside <match>", tok.Name)
		}

		tok, err = r.Next()
		if err == io.EOF {
			return 0, lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </match>")
		}
		if err != nil {
			return 0, lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
		}
	}
}

// parseAction translates a select/remove child of match: a trailing
// segment on the main transducer recording the action and its payload
// (plain ε:sym steps, never self-loops — so the sequence is a literal,
// comparable prefix per the bundle's "matching payload prefix" contract),
// plus a separately-built recogniser FST keyed by the canonical action
// string.
func (tr *Translator) parseAction(r *xmlrule.Reader, attrs map[string]string, cur fst.State, isSelect bool) (fst.State, error) {
	if !tr.canSelect {
		return 0, lrxerrors.New(lrxerrors.KindForbiddenAction, r.Line(), "select/remove is forbidden inside repeat or def-seq")
	}

	lemma, ok := attrs["lemma"]
	if !ok || lemma == "" {
		lemma = "*"
	}
	tags, ok := attrs["tags"]
	if !ok || tags == "" {
		tags = "*"
	}

	actionName := alphabet.Select
	if !isSelect {
		actionName = alphabet.Remove
	}

	cur = tr.active.Step(cur, tr.boundaryPair())
	cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternSymbol(actionName)))

	if lemma == "*" {
		cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternSymbol(alphabet.AnyChar)))
	} else {
		for _, c := range lemma {
			cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternChar(c)))
		}
	}

	tagTokens := splitNonEmpty(tags, ".")
	if len(tagTokens) == 0 {
		cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternSymbol(alphabet.AnyTag)))
	} else {
		for _, t := range tagTokens {
			if t == "*" {
				cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternSymbol(alphabet.AnyTag)))
				continue
			}
			cur = tr.active.Step(cur, tr.alphabet.Pair(alphabet.Epsilon, tr.alphabet.InternSymbol("<"+t+">")))
		}
	}

	key := recogniserKey(isSelect, lemma, tags)
	recog, err := tr.withScratchTransducer(func(s *fst.Transducer) (fst.State, error) {
		c := tr.emitLemma(s.Initial(), lemma)
		c = tr.emitTagSequence(c, tags)
		return c, nil
	})
	if err != nil {
		return 0, err
	}
	tr.registry.PutRecogniser(key, recog)

	tok, err := r.Next()
	if err == io.EOF {
		return 0, lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input inside select/remove")
	}
	if err != nil {
		return 0, lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
	}
	wantName := "select"
	if !isSelect {
		wantName = "remove"
	}
	if !(tok.Kind == xmlrule.EndElement && tok.Name == wantName) {
		return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "expected closing </%s>", wantName)
	}
	return cur, nil
}

// recogniserKey builds the canonical string a recogniser FST is keyed by:
// the action marker, then the lemma pattern, then each tag token pattern.
func recogniserKey(isSelect bool, lemma, tags string) string {
	marker := alphabet.Select
	if !isSelect {
		marker = alphabet.Remove
	}
	var b strings.Builder
	b.WriteString(marker)
	if lemma == "*" {
		b.WriteString(alphabet.AnyChar)
	} else {
		b.WriteString(lemma)
	}
	tokens := splitNonEmpty(tags, ".")
	if len(tokens) == 0 {
		b.WriteString(alphabet.AnyTag)
	}
	for _, t := range tokens {
		if t == "*" {
			b.WriteString(alphabet.AnyTag)
		} else {
			b.WriteString("<" + t + ">")
		}
	}
	return b.String()
}

// parseOr translates a branching point: each child (match or seq) starts
// from a fresh epsilon-linked branch entry, and every branch's exit is
// merged into a single canonical cur via epsilon links. A single branch
// merges trivially (its own exit is the canonical one) — legal and a
// no-op, per the decided reading of the source's branch-merge guard.
func (tr *Translator) parseOr(r *xmlrule.Reader, attrs map[string]string, entry fst.State) (fst.State, error) {
	var exits []fst.State
	for {
		tok, err := r.Next()
		if err == io.EOF {
			return 0, lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input, expected </or>")
		}
		if err != nil {
			return 0, lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
		}
		switch tok.Kind {
		case xmlrule.StartElement:
			if tok.Name != "match" && tok.Name != "seq" {
				return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected branch <%s> inside <or>", tok.Name)
			}
			branchEntry := tr.active.NewStateAfter(entry, alphabet.EpsilonPair)
			exit, err2 := tr.parseBodyElement(r, tok, branchEntry)
			if err2 != nil {
				return 0, err2
			}
			exits = append(exits, exit)
		case xmlrule.CharData:
			if !xmlrule.IsBlank(tok.Text) {
				return 0, lrxerrors.New(lrxerrors.KindMalformedBody, r.Line(), "non-blank text inside <or>")
			}
		case xmlrule.EndElement:
			if tok.Name != "or" {
				return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "unexpected closing </%s> inside <or>", tok.Name)
			}
			if len(exits) == 0 {
				return entry, nil
			}
			canonical := exits[0]
			for _, e := range exits[1:] {
				tr.active.Link(e, canonical, alphabet.EpsilonPair)
			}
			return canonical, nil
		}
	}
}

// parseRepeat translates repeat from="N" upto="M" as a count-splice
// construction: the body is compiled once into a scratch transducer with
// select/remove forbidden, spliced `from` times verbatim, then spliced
// `upto-from` more times after being made optional.
func (tr *Translator) parseRepeat(r *xmlrule.Reader, attrs map[string]string, entry fst.State) (fst.State, error) {
	from, fromOK := intAttr(attrs, "from")
	upto, uptoOK := intAttr(attrs, "upto")
	if !fromOK || !uptoOK || from < 0 || upto < 0 || from > upto {
		return 0, lrxerrors.New(lrxerrors.KindBadRepeatBounds, r.Line(), "repeat from=%q upto=%q is invalid", attrs["from"], attrs["upto"])
	}

	savedCanSelect := tr.canSelect
	tr.canSelect = false
	scratch, err := tr.withScratchTransducer(func(s *fst.Transducer) (fst.State, error) {
		return tr.parseSequence(r, "repeat", s.Initial())
	})
	tr.canSelect = savedCanSelect
	if err != nil {
		return 0, err
	}

	cur := entry
	for i := 0; i < from; i++ {
		cur = tr.active.Splice(cur, scratch)
	}
	scratch.MakeOptional()
	for i := 0; i < upto-from; i++ {
		cur = tr.active.Splice(cur, scratch)
	}
	return cur, nil
}

func (tr *Translator) parseDefSeq(r *xmlrule.Reader, attrs map[string]string) error {
	name := nameAttr(attrs)

	savedCanSelect := tr.canSelect
	tr.canSelect = false
	built, err := tr.withScratchTransducer(func(s *fst.Transducer) (fst.State, error) {
		return tr.parseSequence(r, "def-seq", s.Initial())
	})
	tr.canSelect = savedCanSelect
	if err != nil {
		return err
	}

	tr.registry.DefineSequence(name, built)
	return nil
}

// parseSeqElement splices a previously registered named sequence onto
// cur. The seq element is expected to be self-closing, so its own
// EndElement is consumed here.
func (tr *Translator) parseSeqElement(r *xmlrule.Reader, attrs map[string]string, entry fst.State) (fst.State, error) {
	name := nameAttr(attrs)
	sub, ok := tr.registry.Sequence(name)
	if !ok {
		return 0, lrxerrors.New(lrxerrors.KindUnknownSequence, r.Line(), "seq references unknown sequence %q", name)
	}
	cur := tr.active.Splice(entry, sub)

	tok, err := r.Next()
	if err == io.EOF {
		return 0, lrxerrors.New(lrxerrors.KindXMLParse, r.Line(), "unexpected end of input inside <seq>")
	}
	if err != nil {
		return 0, lrxerrors.Wrap(lrxerrors.KindXMLParse, r.Line(), err, "reading rule file")
	}
	if !(tok.Kind == xmlrule.EndElement && tok.Name == "seq") {
		return 0, lrxerrors.New(lrxerrors.KindUnexpectedElement, r.Line(), "expected closing </seq>")
	}
	return cur, nil
}
