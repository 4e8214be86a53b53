package config

import (
	"errors"
	"fmt"
	"go/token"

	"usdtgen/internal/logging"
	"usdtgen/internal/validate"
)

// Validate checks the configuration values and reports every problem.
func (c *Config) Validate() error {
	var errs []error

	if !token.IsIdentifier(c.Package) {
		errs = append(errs, fmt.Errorf("package: %q is not a Go identifier", c.Package))
	}

	if c.MaxArgs < 0 || c.MaxArgs > validate.HardMaxArgs {
		errs = append(errs, fmt.Errorf("max_args: %d is outside [0, %d]", c.MaxArgs, validate.HardMaxArgs))
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
