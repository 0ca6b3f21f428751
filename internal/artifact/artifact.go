// Package artifact implements the binary bundle writer: the component
// that serializes one compile's alphabet, recognisers, main transducer,
// and per-rule weights into the exact byte order the runtime applier's
// loader depends on.
package artifact

import (
	"io"
	"sort"

	"github.com/standardbeagle/lrxc/internal/alphabet"
	"github.com/standardbeagle/lrxc/internal/fst"
	"github.com/standardbeagle/lrxc/internal/registry"
	"github.com/standardbeagle/lrxc/internal/wire"
)

// mainLiteral is the fixed string preceding the main transducer's bytes,
// per spec §6 item 4.
const mainLiteral = "main"

// reservedFieldSize is the width, in zero bytes, of the reserved field in
// each per-rule weight record (spec §6 item 6: "a fixed-size record
// containing (rule_id, reserved-string, weight)"). The record must stay
// fixed-size, so this is a zero-filled placeholder rather than a
// length-prefixed wstring; the runtime applier is free to grow into it in
// a future wire revision without shifting any other field's offset.
const reservedFieldSize = 16

// Bundle holds the fully-built compile outputs ready for serialization:
// the shared alphabet, the rule registry (recognisers and weights), and
// the main transducer every rule was compiled into.
type Bundle struct {
	Alphabet *alphabet.Alphabet
	Registry *registry.Registry
	Main     *fst.Transducer
}

// WriteTo serializes b in the exact order the runtime applier expects:
//  1. the alphabet,
//  2. a multibyte recogniser count, then that many (wstring key, FST bytes) pairs,
//  3. the wstring literal "main", then the main transducer's bytes,
//  4. one fixed-shape record per rule (rule_id, zero-filled reserved field,
//     weight) in ascending rule-ID order.
func (b *Bundle) WriteTo(w io.Writer) error {
	if err := b.Alphabet.Serialize(w); err != nil {
		return err
	}

	keys := append([]string(nil), b.Registry.RecogniserKeys()...)
	if err := wire.WriteMultibyte(w, uint64(len(keys))); err != nil {
		return err
	}
	for _, key := range keys {
		if err := wire.WriteWString(w, key); err != nil {
			return err
		}
		recog, _ := b.Registry.Recogniser(key)
		if err := recog.Serialize(w); err != nil {
			return err
		}
	}

	if err := wire.WriteWString(w, mainLiteral); err != nil {
		return err
	}
	if err := b.Main.Serialize(w); err != nil {
		return err
	}

	weights := append([]registry.RuleWeight(nil), b.Registry.Weights()...)
	sort.Slice(weights, func(i, j int) bool { return weights[i].RuleID < weights[j].RuleID })
	reserved := make([]byte, reservedFieldSize)
	for _, rw := range weights {
		if err := wire.WriteUint32LE(w, uint32(rw.RuleID)); err != nil {
			return err
		}
		if _, err := w.Write(reserved); err != nil {
			return err
		}
		if err := wire.WriteFloat64LE(w, rw.Weight); err != nil {
			return err
		}
	}
	return nil
}
