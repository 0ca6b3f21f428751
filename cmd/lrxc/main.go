// Command lrxc compiles a lexical-selection rule file into the binary
// transducer bundle the runtime applier loads, following the same
// cli.App / cli.Command wiring the teacher's own cmd/lci/main.go uses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/standardbeagle/lrxc/internal/artifact"
	"github.com/standardbeagle/lrxc/internal/compiler"
	"github.com/standardbeagle/lrxc/internal/config"
	lrxerrors "github.com/standardbeagle/lrxc/internal/errors"
	"github.com/standardbeagle/lrxc/internal/logging"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "lrxc",
		Usage:   "compile lexical-selection rule grammars into a binary transducer bundle",
		Version: version,
		Commands: []*cli.Command{
			compileCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lrxc: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile a rule file into a binary bundle",
		ArgsUsage: "<input> <output>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "trace each rule as it compiles",
			},
			&cli.StringFlag{
				Name:  "graph",
				Usage: "also write the main transducer as a Graphviz DOT file to this path",
			},
		},
		Action: runCompile,
	}
}

func runCompile(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("expected exactly two arguments: <input> <output>", 2)
	}
	inputPath := c.Args().Get(0)
	outputPath := c.Args().Get(1)

	cfg := config.FromFlags(c.Bool("debug"), c.String("graph"))
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return lrxerrors.Wrap(lrxerrors.KindInputOpen, 0, err, "opening rule file %q", inputPath)
	}
	defer in.Close()

	bundle, err := compiler.Compile(context.Background(), in, compiler.CompileOptions{Debug: cfg.Debug})
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return lrxerrors.Wrap(lrxerrors.KindInputOpen, 0, err, "creating output file %q", outputPath)
	}
	defer out.Close()

	if err := bundle.WriteTo(out); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}

	if cfg.OutputGraph {
		if err := writeGraph(bundle, cfg.GraphPath); err != nil {
			return fmt.Errorf("writing graph: %w", err)
		}
	}

	logging.Debugf("wrote bundle to %s", outputPath)
	return nil
}

func writeGraph(bundle *artifact.Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bundle.Main.RenderDOT(bundle.Alphabet, f)
}

// exitCodeFor maps a returned error to the process exit code, per spec.md
// §6: 0 on success, non-zero on fatal compile error. Every error surfaced
// from compiler.Compile is already a *lrxerrors.CompileError; anything
// else (flag/arg errors from urfave/cli) exits 1.
func exitCodeFor(err error) int {
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	if _, ok := err.(*lrxerrors.CompileError); ok {
		return 1
	}
	return 1
}
