package config

import (
	"fmt"

	lrxerrors "github.com/standardbeagle/lrxc/internal/errors"
)

// Validate checks a Config for internally-inconsistent settings. It is a
// free function, not a method, so it can be unit-tested independently of
// however a Config gets constructed (CLI flags today, something else
// later).
func Validate(cfg *Config) error {
	if cfg.OutputGraph && cfg.GraphPath == "." {
		return fmt.Errorf("graph path must not be the current directory")
	}
	return nil
}

// ValidateConfig is a convenience wrapper matching the compiler driver's
// expectations: it returns a CompileError rather than a bare error, so a
// bad flag combination reports through the same taxonomy as a bad rule
// file.
func ValidateConfig(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return lrxerrors.Wrap(lrxerrors.KindMalformedBody, 0, err, "invalid configuration")
	}
	return nil
}
