package gen

import (
	"fmt"
	"strings"

	"usdtgen/internal/naming"
	"usdtgen/internal/plan"
	"usdtgen/internal/typemap"
)

// templateData holds everything the artifact templates read.
type templateData struct {
	Source      string
	PackageName string
	Names       Names
	Guard       string
	Comments    bool
	HasStrings  bool
	Asserts     []assertData
	Providers   []providerData
}

// assertData is one _Static_assert on an ABI type width.
type assertData struct {
	CType string
	// Width is the expected size expression.
	Width string
}

type providerData struct {
	Name       string
	GoName     string
	HandleType string
	Probes     []probeData
}

type probeData struct {
	Provider      string
	Name          string
	TraceName     string
	Symbol        string
	EnabledSymbol string
	Macro         string
	EnabledMacro  string
	GoName        string
	EnabledMethod string
	// CParams is the C parameter list, "void" for no arguments.
	CParams string
	// CArgs forwards the parameters to the probe macro.
	CArgs string
	// ThunkType is the Go type of the fire method's argument.
	ThunkType string
	// Locals receive the thunk results; empty for no arguments.
	Locals string
	// Strings are the results copied into C strings before the call.
	Strings []stringArg
	// CallArgs converts the locals for the trampoline call.
	CallArgs string
}

type stringArg struct {
	Local string
	C     string
}

// buildTemplateData constructs the template data from a resolved plan.
func (g *Generator) buildTemplateData(p *plan.Plan) *templateData {
	names := g.config.Names(p.Base)

	data := &templateData{
		Source:      p.Source,
		PackageName: g.config.PackageName,
		Names:       names,
		Guard:       naming.HeaderGuard(names.DeclHeader),
		Comments:    g.config.GenerateComments,
		HasStrings:  p.HasStrings(),
		Asserts:     buildAsserts(p.UsedTypes()),
	}

	for _, prov := range p.Providers() {
		pd := providerData{
			Name:       prov.Name,
			GoName:     prov.GoName,
			HandleType: prov.HandleType,
		}

		for _, probe := range prov.Probes {
			pd.Probes = append(pd.Probes, buildProbe(probe))
		}

		data.Providers = append(data.Providers, pd)
	}

	return data
}

func buildAsserts(used []typemap.Info) []assertData {
	var asserts []assertData

	seen := make(map[string]bool, len(used))

	for _, info := range used {
		if seen[info.CType] {
			continue
		}

		seen[info.CType] = true

		width := fmt.Sprint(info.Width)
		if info.Class == typemap.ClassPointer {
			width = "sizeof(void *)"
		}

		asserts = append(asserts, assertData{CType: info.CType, Width: width})
	}

	return asserts
}

func buildProbe(probe *plan.Probe) probeData {
	pd := probeData{
		Provider:      probe.Provider,
		Name:          probe.Name,
		TraceName:     probe.TraceName,
		Symbol:        probe.Symbol,
		EnabledSymbol: probe.EnabledSymbol,
		Macro:         probe.Macro,
		EnabledMacro:  probe.EnabledMacro,
		GoName:        probe.GoName,
		EnabledMethod: probe.EnabledMethod,
		CParams:       "void",
		ThunkType:     probe.ThunkType(),
	}

	if len(probe.Args) == 0 {
		return pd
	}

	params := make([]string, len(probe.Args))
	args := make([]string, len(probe.Args))
	locals := make([]string, len(probe.Args))
	calls := make([]string, len(probe.Args))

	for i, arg := range probe.Args {
		params[i] = cParam(arg.Info.CType, arg.Name)
		args[i] = arg.Name
		locals[i] = fmt.Sprintf("v%d", i)

		if arg.Info.IsString() {
			s := stringArg{Local: locals[i], C: fmt.Sprintf("c%d", i)}
			pd.Strings = append(pd.Strings, s)
			calls[i] = s.C

			continue
		}

		calls[i] = fmt.Sprintf("%s(%s)", arg.Info.CgoType, locals[i])
	}

	pd.CParams = strings.Join(params, ", ")
	pd.CArgs = strings.Join(args, ", ")
	pd.Locals = strings.Join(locals, ", ")
	pd.CallArgs = strings.Join(calls, ", ")

	return pd
}

// cParam renders a C parameter declaration; pointer types bind the star to
// the name.
func cParam(ctype, name string) string {
	if strings.HasSuffix(ctype, "*") {
		return ctype + name
	}

	return ctype + " " + name
}
