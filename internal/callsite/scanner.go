package callsite

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"usdtgen/internal/diagnostic"
	"usdtgen/internal/dsl"
	"usdtgen/internal/invoke"
	"usdtgen/internal/plan"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// InvalidThunkError reports a fire call whose argument is not a
// parameterless function.
type InvalidThunkError struct {
	Probe  string
	Site   invoke.Site
	Actual string
}

func (e *InvalidThunkError) Error() string {
	return fmt.Sprintf("%s: probe %s must be fired with a func() thunk, got %s", e.Site, e.Probe, e.Actual)
}

// Report is the outcome of a scan.
type Report struct {
	Diagnostics *diagnostic.Diagnostics
	// Calls is the number of fire calls found.
	Calls int
}

// Scanner checks fire calls against a plan.
type Scanner struct {
	plan   *plan.Plan
	logger zerolog.Logger
}

// NewScanner creates a Scanner for the probes of p.
func NewScanner(p *plan.Plan, logger zerolog.Logger) *Scanner {
	return &Scanner{plan: p, logger: logger}
}

// LoadPackages loads the packages matching patterns, relative to dir, and
// checks their fire calls. Test files are included. Package errors are
// tolerated: calls that mismatch the binding are type errors to the Go
// compiler, and those are what the scan explains.
func (s *Scanner) LoadPackages(ctx context.Context, dir string, patterns ...string) (*Report, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     dir,
		Tests:   true,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	report := &Report{Diagnostics: &diagnostic.Diagnostics{}}
	seen := make(map[string]bool)

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			s.logger.Debug().Str("package", pkg.PkgPath).Str("error", e.Error()).Msg("package error")
		}

		if pkg.TypesInfo == nil {
			s.logger.Warn().Str("package", pkg.PkgPath).Msg("package has no type information, skipped")
			continue
		}

		// With Tests set, a package's files appear in several variants.
		var files []*ast.File

		for _, f := range pkg.Syntax {
			name := pkg.Fset.Position(f.Pos()).Filename
			if seen[name] {
				continue
			}

			seen[name] = true
			files = append(files, f)
		}

		sub := s.CheckFiles(pkg.Fset, files, pkg.TypesInfo)
		report.Diagnostics.Merge(*sub.Diagnostics)
		report.Calls += sub.Calls

		s.logger.Debug().Str("package", pkg.PkgPath).Int("calls", sub.Calls).Msg("package scanned")
	}

	return report, nil
}

// CheckFiles checks the fire calls in type-checked files.
func (s *Scanner) CheckFiles(fset *token.FileSet, files []*ast.File, info *types.Info) *Report {
	report := &Report{Diagnostics: &diagnostic.Diagnostics{}}

	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			if probe := s.fireTarget(call, info); probe != nil {
				report.Calls++
				s.checkCall(fset, call, probe, info, report.Diagnostics)
			}

			return true
		})
	}

	return report
}

// fireTarget returns the probe fired by call, or nil.
func (s *Scanner) fireTarget(call *ast.CallExpr, info *types.Info) *plan.Probe {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil
	}

	recv := info.TypeOf(sel.X)
	if recv == nil {
		return nil
	}

	if ptr, ok := types.Unalias(recv).(*types.Pointer); ok {
		recv = ptr.Elem()
	}

	named, ok := types.Unalias(recv).(*types.Named)
	if !ok {
		return nil
	}

	if st, ok := named.Underlying().(*types.Struct); !ok || st.NumFields() != 0 {
		return nil
	}

	prov, ok := s.plan.ProviderByHandle(named.Obj().Name())
	if !ok || !isBinding(named, prov) {
		return nil
	}

	probe, enabled, ok := prov.Method(sel.Sel.Name)
	if !ok || enabled {
		return nil
	}

	return probe
}

func (s *Scanner) checkCall(
	fset *token.FileSet,
	call *ast.CallExpr,
	probe *plan.Probe,
	info *types.Info,
	diags *diagnostic.Diagnostics,
) {
	position := fset.Position(call.Pos())
	site := invoke.Site{File: position.Filename, Line: position.Line, Column: position.Column}
	pos := dsl.Pos{Filename: position.Filename, Line: position.Line, Column: position.Column}
	name := probe.Provider + ":" + probe.Name

	if len(call.Args) != 1 {
		diags.AddError(diagnostic.CodeInvalidThunk, pos, &InvalidThunkError{
			Probe:  name,
			Site:   site,
			Actual: fmt.Sprintf("%d arguments", len(call.Args)),
		})

		return
	}

	argType := info.TypeOf(call.Args[0])
	if argType == nil {
		return
	}

	thunk, ok := argType.Underlying().(*types.Signature)
	if !ok || thunk.Params().Len() != 0 {
		diags.AddError(diagnostic.CodeInvalidThunk, pos, &InvalidThunkError{
			Probe:  name,
			Site:   site,
			Actual: typeString(argType),
		})

		return
	}

	values := make([]invoke.Value, thunk.Results().Len())
	for i := range values {
		values[i] = valueOf(thunk.Results().At(i).Type())
	}

	sig := invoke.Signature{Provider: probe.Provider, Probe: probe.Name, Params: probe.Params()}

	for _, err := range unjoin(invoke.CheckAll(sig, site, values)) {
		code := diagnostic.CodeTypeMismatch

		var am *invoke.ArityMismatchError
		if errors.As(err, &am) {
			code = diagnostic.CodeArityMismatch
		}

		diags.AddError(code, pos, err)
	}
}

// isBinding reports whether handle is declared by a generated binding: its
// package declares the provider variable with exactly that type.
func isBinding(handle *types.Named, prov *plan.Provider) bool {
	pkg := handle.Obj().Pkg()
	if pkg == nil || handle.Obj().Parent() != pkg.Scope() {
		return false
	}

	v, ok := pkg.Scope().Lookup(prov.GoName).(*types.Var)

	return ok && types.Identical(v.Type(), handle)
}

// valueOf maps a thunk result type to a checker value. Only predeclared
// basic types carry a tag; defined types never match a host type.
func valueOf(t types.Type) invoke.Value {
	if basic, ok := types.Unalias(t).(*types.Basic); ok {
		v := invoke.ValueOf(basic.Name())
		v.Type = typeString(t)

		return v
	}

	return invoke.Value{Type: typeString(t)}
}

func typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	return []error{err}
}
