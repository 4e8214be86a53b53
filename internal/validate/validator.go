package validate

import (
	"fmt"
	"strings"

	"usdtgen/internal/diagnostic"
	"usdtgen/internal/dsl"
	"usdtgen/internal/naming"
	"usdtgen/internal/typemap"
)

const (
	// DefaultMaxArgs is the argument limit of the sdt.h probe macros.
	DefaultMaxArgs = 12
	// HardMaxArgs is the largest limit a configuration may set.
	HardMaxArgs = 32
)

// Validator checks parsed provider files.
type Validator struct {
	// MaxArgs is the largest accepted probe arity. Zero means
	// DefaultMaxArgs; values above HardMaxArgs are clamped.
	MaxArgs int
}

// New creates a validator accepting up to maxArgs arguments per probe.
func New(maxArgs int) *Validator {
	return &Validator{MaxArgs: maxArgs}
}

// Limit returns the effective arity limit.
func (v *Validator) Limit() int {
	switch {
	case v == nil || v.MaxArgs <= 0:
		return DefaultMaxArgs
	case v.MaxArgs > HardMaxArgs:
		return HardMaxArgs
	default:
		return v.MaxArgs
	}
}

// Validate checks f and returns every finding. The file is valid when the
// result has no errors.
func (v *Validator) Validate(f *dsl.File) *diagnostic.Diagnostics {
	w := &walker{
		max:      v.Limit(),
		diags:    &diagnostic.Diagnostics{},
		symbols:  make(map[string]dsl.Pos),
		bindings: make(map[string]dsl.Pos),
	}

	w.file(f)

	return w.diags
}

// walker carries the per-file state of one validation.
type walker struct {
	max   int
	diags *diagnostic.Diagnostics
	// symbols and bindings are the generated C symbols and package-level Go
	// identifiers claimed so far.
	symbols  map[string]dsl.Pos
	bindings map[string]dsl.Pos
}

func (w *walker) file(f *dsl.File) {
	if len(f.Providers) == 0 {
		w.diags.AddWarning(diagnostic.CodeEmptyFile, dsl.Pos{Filename: f.Name},
			"file declares no providers")

		return
	}

	providers := make(map[string]dsl.Pos, len(f.Providers))

	for i := range f.Providers {
		prov := &f.Providers[i]

		if prev, ok := providers[prov.Name]; ok {
			w.duplicate(KindProvider, prov.Name, prov.Pos, prev)
			// Probes of a duplicate provider would only repeat symbol
			// collisions with the first one.
			w.probes(prov, false)

			continue
		}

		providers[prov.Name] = prov.Pos

		valid := w.identifier(prov.Name, prov.Pos)
		if valid {
			w.claimBinding(naming.GoName(prov.Name), prov.Pos)
			w.claimBinding(naming.HandleType(prov.Name), prov.Pos)
		}

		w.probes(prov, valid)

		if len(prov.Probes) == 0 {
			w.diags.AddWarning(diagnostic.CodeEmptyProvider, prov.Pos,
				fmt.Sprintf("provider %q declares no probes", prov.Name))
		}
	}
}

// probes checks the probes of prov. Generated names are only claimed when
// claim is set.
func (w *walker) probes(prov *dsl.Provider, claim bool) {
	probes := make(map[string]dsl.Pos, len(prov.Probes))
	methods := make(map[string]dsl.Pos, 2*len(prov.Probes))

	for i := range prov.Probes {
		probe := &prov.Probes[i]

		if prev, ok := probes[probe.Name]; ok {
			w.duplicate(KindProbe, probe.Name, probe.Pos, prev)
			w.arguments(prov, probe)

			continue
		}

		probes[probe.Name] = probe.Pos

		valid := w.identifier(probe.Name, probe.Pos)

		if trace := naming.ProbeName(probe.Name); valid && trace != probe.Name {
			w.diags.AddInfo(diagnostic.CodeTraceName, probe.Pos,
				fmt.Sprintf("probe %q is published as %s:%s", probe.Name, prov.Name, trace))
		}

		if valid && claim {
			w.claim(w.symbols, KindSymbol, naming.Symbol(prov.Name, probe.Name), probe.Pos)
			w.claim(w.symbols, KindSymbol, naming.EnabledSymbol(prov.Name, probe.Name), probe.Pos)
			w.claim(methods, KindBinding, naming.HandleType(prov.Name)+"."+naming.GoName(probe.Name), probe.Pos)
			w.claim(methods, KindBinding, naming.HandleType(prov.Name)+"."+naming.EnabledMethod(probe.Name), probe.Pos)
		}

		w.arguments(prov, probe)
	}
}

func (w *walker) arguments(prov *dsl.Provider, probe *dsl.Probe) {
	if n := len(probe.Args); n > w.max {
		w.diags.AddError(diagnostic.CodeArityTooLarge, probe.Pos, &ArityTooLargeError{
			Provider: prov.Name,
			Probe:    probe.Name,
			Count:    n,
			Max:      w.max,
			Pos:      probe.Pos,
		})
	}

	names := make(map[string]dsl.Pos, len(probe.Args))

	// Unnamed arguments are declared as argN in the generated C code.
	for i, arg := range probe.Args {
		if arg.Name == "" {
			names[fmt.Sprintf("arg%d", i)] = arg.Pos
		}
	}

	for _, arg := range probe.Args {
		if !arg.Type.Valid() {
			w.diags.AddError(diagnostic.CodeUnknownType, arg.Pos, &dsl.UnknownTypeError{
				Name:       arg.Spelling,
				Pos:        arg.Pos,
				Suggestion: dsl.Suggest(arg.Spelling, typemap.Spellings()),
			})
		}

		if arg.Name == "" {
			continue
		}

		if prev, ok := names[arg.Name]; ok {
			w.duplicate(KindArgument, arg.Name, arg.Pos, prev)
			continue
		}

		names[arg.Name] = arg.Pos

		if w.identifier(arg.Name, arg.Pos) && typeNames[arg.Name] {
			w.diags.AddError(diagnostic.CodeInvalidIdentifier, arg.Pos, &InvalidIdentifierError{
				Name:   arg.Name,
				Pos:    arg.Pos,
				Reason: "names a type",
			})
		}
	}
}

// identifier reports whether name is usable in generated code, recording an
// error when it is not.
func (w *walker) identifier(name string, pos dsl.Pos) bool {
	reason := identifierProblem(name)
	if reason == "" {
		return true
	}

	w.diags.AddError(diagnostic.CodeInvalidIdentifier, pos, &InvalidIdentifierError{
		Name:   name,
		Pos:    pos,
		Reason: reason,
	})

	return false
}

func (w *walker) claimBinding(ident string, pos dsl.Pos) {
	w.claim(w.bindings, KindBinding, ident, pos)
}

func (w *walker) claim(seen map[string]dsl.Pos, kind, name string, pos dsl.Pos) {
	if prev, ok := seen[name]; ok {
		w.duplicate(kind, name, pos, prev)
		return
	}

	seen[name] = pos
}

func (w *walker) duplicate(kind, name string, pos, prev dsl.Pos) {
	w.diags.AddError(diagnostic.CodeDuplicateName, pos, &DuplicateNameError{
		Kind:     kind,
		Name:     name,
		Pos:      pos,
		Previous: prev,
	})
}

// identifierProblem returns why name is not a legal identifier, or "".
func identifierProblem(name string) string {
	if name == "" {
		return "empty name"
	}

	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_'):
		case i == 0:
			return "must start with a letter"
		default:
			return fmt.Sprintf("character %q is not allowed", r)
		}
	}

	if strings.HasSuffix(name, "_") {
		return "must not end with an underscore"
	}

	if lang, ok := reserved[name]; ok {
		return "reserved word in " + lang
	}

	return ""
}
