// Package config holds the compiler's process-level configuration: the
// handful of knobs the CLI exposes, as distinct from anything about the
// rule file itself. The rule compiler has no project-wide settings the way
// a codebase indexer does, so this is intentionally small.
package config

// Config holds the options a single `lrxc compile` invocation runs with.
type Config struct {
	// Debug enables verbose per-rule compilation tracing to stderr,
	// mirroring the original compiler's debugMode traces.
	Debug bool

	// OutputGraph, when set, makes the compiler also write the main
	// transducer as a Graphviz DOT graph, in addition to the binary
	// bundle.
	OutputGraph bool

	// GraphPath is the file the DOT graph is written to. FromFlags sets
	// OutputGraph only when it is non-empty.
	GraphPath string
}

// Default returns a Config with the compiler's default behavior: no
// tracing, no graph dump.
func Default() *Config {
	return &Config{}
}

// FromFlags builds a Config from the CLI's parsed flag values.
func FromFlags(debug bool, graphPath string) *Config {
	return &Config{
		Debug:       debug,
		OutputGraph: graphPath != "",
		GraphPath:   graphPath,
	}
}
