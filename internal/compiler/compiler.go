// Package compiler implements the driver that ties the symbol alphabet,
// transducer builder, rule translator, rule registry, and artifact writer
// together into one Compile call.
package compiler

import (
	"context"
	"io"

	"github.com/standardbeagle/lrxc/internal/alphabet"
	"github.com/standardbeagle/lrxc/internal/artifact"
	lrxerrors "github.com/standardbeagle/lrxc/internal/errors"
	"github.com/standardbeagle/lrxc/internal/logging"
	"github.com/standardbeagle/lrxc/internal/registry"
	"github.com/standardbeagle/lrxc/internal/translator"
	"github.com/standardbeagle/lrxc/internal/xmlrule"
)

// CompileOptions controls one Compile call. It is deliberately small and
// independent of the CLI's own config.Config: the driver is a library
// entry point the CLI is only one caller of.
type CompileOptions struct {
	// Debug enables verbose per-rule tracing via internal/logging.
	Debug bool
}

// Compile reads a rule file from input and translates it into a Bundle
// ready for serialization. Cancellation is checked once before the walk
// starts and once after every completed rule — the walk itself has no
// suspension points (spec.md §5), so there is nowhere else meaningful to
// check.
func Compile(ctx context.Context, input io.Reader, opts CompileOptions) (*artifact.Bundle, error) {
	logging.SetDebug(opts.Debug)

	if err := ctx.Err(); err != nil {
		return nil, lrxerrors.Wrap(lrxerrors.KindXMLParse, 0, err, "compile cancelled before starting")
	}

	r, err := xmlrule.NewReader(input)
	if err != nil {
		return nil, lrxerrors.Wrap(lrxerrors.KindInputOpen, 0, err, "reading rule file")
	}

	a := alphabet.New()
	reg := registry.New()
	tr := translator.New(a, reg)
	tr.SetRuleBoundaryHook(func() error {
		if err := ctx.Err(); err != nil {
			return lrxerrors.Wrap(lrxerrors.KindXMLParse, 0, err, "compile cancelled mid-rule-set")
		}
		return nil
	})

	logging.Debugf("starting compile")
	if err := tr.Run(r); err != nil {
		return nil, err
	}
	logging.Debugf("compile finished: %d states, %d transitions", tr.Main().Size(), tr.Main().TransitionCount())

	tr.Main().Minimise()
	logging.Debugf("minimised: %d states, %d transitions", tr.Main().Size(), tr.Main().TransitionCount())

	return &artifact.Bundle{
		Alphabet: a,
		Registry: reg,
		Main:     tr.Main(),
	}, nil
}
