// Package compile runs the front end of usdtgen: it parses a provider
// file, validates it and resolves it into a plan. A file that fails any
// stage yields no plan, so nothing downstream can emit partial output.
package compile

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"usdtgen/internal/diagnostic"
	"usdtgen/internal/dsl"
	"usdtgen/internal/plan"
	"usdtgen/internal/validate"
)

// Result is the outcome of compiling one provider file. Plan is nil when
// Diagnostics has errors.
type Result struct {
	Plan        *plan.Plan
	Diagnostics *diagnostic.Diagnostics
}

// Compiler turns provider files into plans.
type Compiler struct {
	validator *validate.Validator
	logger    zerolog.Logger
}

// New creates a Compiler accepting probes of up to maxArgs arguments.
func New(maxArgs int, logger zerolog.Logger) *Compiler {
	return &Compiler{
		validator: validate.New(maxArgs),
		logger:    logger,
	}
}

// CompileFile reads and compiles the provider file at path.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider file %s: %w", path, err)
	}

	return c.Compile(path, src)
}

// Compile parses, validates and resolves src. The returned error joins
// every error diagnostic; the result is returned either way so callers can
// print warnings and positions.
func (c *Compiler) Compile(name string, src []byte) (*Result, error) {
	log := c.logger.With().Str("source", name).Logger()

	file, err := dsl.Parse(name, src)
	if err != nil {
		diags := &diagnostic.Diagnostics{}
		diags.AddError(parseCode(err), position(err), err)

		log.Debug().Err(err).Msg("parse failed")

		return &Result{Diagnostics: diags}, diags.Err()
	}

	log.Debug().Int("providers", len(file.Providers)).Int("probes", file.ProbeCount()).Msg("parsed")

	diags := c.validator.Validate(file)
	if diags.HasErrors() {
		log.Debug().Int("errors", len(diags.Errors)).Msg("validation failed")
		return &Result{Diagnostics: diags}, diags.Err()
	}

	log.Debug().Int("warnings", len(diags.Warnings)).Msg("validated")

	p, err := plan.Resolve(file)
	if err != nil {
		return &Result{Diagnostics: diags}, fmt.Errorf("resolving %s: %w", name, err)
	}

	log.Debug().Str("base", p.Base).Int("probes", p.ProbeCount()).Msg("resolved")

	return &Result{Plan: p, Diagnostics: diags}, nil
}

func parseCode(err error) string {
	var unknown *dsl.UnknownTypeError
	if errors.As(err, &unknown) {
		return diagnostic.CodeUnknownType
	}

	return diagnostic.CodeSyntax
}

func position(err error) dsl.Pos {
	var pe dsl.PositionedError
	if errors.As(err, &pe) {
		return pe.Position()
	}

	return dsl.Pos{}
}
