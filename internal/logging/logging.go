// Package logging implements the compiler's diagnostic trace output: a
// package-level *log.Logger written to os.Stderr, verbose only under
// --debug, in the teacher's own style (internal/indexing/pipeline.go,
// internal/analysis/known_functions.go, and
// internal/semantic/translation_loader.go all log via a direct
// *log.Logger/log.Printf rather than a structured-logging library; lrxc
// follows the same practice instead of reaching for an abstraction the
// rest of the corpus never uses for this kind of CLI tool).
package logging

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "[lrxc] ", log.LstdFlags)

var debugEnabled bool

// SetDebug toggles whether Debugf actually writes anything, mirroring the
// original compiler's debugMode-gated trace calls scattered through
// procMatch/procSelect/procRepeat.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Debugf writes a trace line when debugging is enabled; otherwise it is a
// no-op, so call sites can log unconditionally without checking the flag
// themselves.
func Debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	logger.Printf(format, args...)
}

// Warnf always writes, for conditions worth surfacing regardless of
// --debug (e.g. a recogniser key collision between differently-shaped
// select/remove constructions).
func Warnf(format string, args ...any) {
	logger.Printf("WARNING: "+format, args...)
}

// Errorf always writes, prefixed "ERROR:". The CLI itself reports fatal
// compile errors with its own stderr message, not through Errorf.
func Errorf(format string, args ...any) {
	logger.Printf("ERROR: "+format, args...)
}
