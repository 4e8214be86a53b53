package plan

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"usdtgen/internal/dsl"
	"usdtgen/internal/typemap"
)

// Plan is the resolved model of one provider file.
type Plan struct {
	// Source is the provider file name as given to the parser.
	Source string
	// Base is the file name without directory and extension. Artifact
	// names derive from it.
	Base string

	// providers maps provider name to *Provider in source order.
	providers *linkedhashmap.Map
	// handles maps Go handle type name to *Provider.
	handles map[string]*Provider
}

// Provider is a resolved provider.
type Provider struct {
	// Name as declared.
	Name string
	// GoName is the exported handle variable of the binding.
	GoName string
	// HandleType is the exported type of the handle variable.
	HandleType string
	Pos        dsl.Pos
	Probes     []*Probe

	// methods maps fire and is-enabled method names to their probe.
	methods map[string]*Probe
}

// Probe is a resolved probe with all of its generated names.
type Probe struct {
	// Provider is the name of the owning provider.
	Provider string
	// Name as declared.
	Name string
	// TraceName is the probe name tracing consumers see.
	TraceName string
	// Symbol and EnabledSymbol are the C trampoline symbols.
	Symbol        string
	EnabledSymbol string
	// Macro and EnabledMacro are the "dtrace -h" macros the trampolines call.
	Macro        string
	EnabledMacro string
	// GoName is the fire method; EnabledMethod is the is-enabled query.
	GoName        string
	EnabledMethod string
	Pos           dsl.Pos
	Args          []Arg
}

// Arg is a resolved probe argument.
type Arg struct {
	Index int
	// Name is the declared parameter name, or "argN".
	Name string
	// Named reports whether Name was declared in the provider file.
	Named bool
	Info  typemap.Info
	Pos   dsl.Pos
}

// Providers returns the providers in source order.
func (p *Plan) Providers() []*Provider {
	out := make([]*Provider, 0, p.providers.Size())

	it := p.providers.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Provider))
	}

	return out
}

// Provider returns the provider declared with name.
func (p *Plan) Provider(name string) (*Provider, bool) {
	v, ok := p.providers.Get(name)
	if !ok {
		return nil, false
	}

	return v.(*Provider), true
}

// ProviderByHandle returns the provider whose handle type is named typeName.
func (p *Plan) ProviderByHandle(typeName string) (*Provider, bool) {
	prov, ok := p.handles[typeName]
	return prov, ok
}

// Probe returns a probe by provider and probe name.
func (p *Plan) Probe(provider, probe string) (*Probe, bool) {
	prov, ok := p.Provider(provider)
	if !ok {
		return nil, false
	}

	for _, pr := range prov.Probes {
		if pr.Name == probe {
			return pr, true
		}
	}

	return nil, false
}

// ProbeCount returns the number of probes across all providers.
func (p *Plan) ProbeCount() int {
	n := 0
	for _, prov := range p.Providers() {
		n += len(prov.Probes)
	}

	return n
}

// UsedTypes returns the table rows of every argument type in the plan, in
// table order and without repetition.
func (p *Plan) UsedTypes() []typemap.Info {
	used := make(map[typemap.Type]bool)

	for _, prov := range p.Providers() {
		for _, probe := range prov.Probes {
			for _, arg := range probe.Args {
				used[arg.Info.Type] = true
			}
		}
	}

	var out []typemap.Info

	for _, info := range typemap.All() {
		if used[info.Type] {
			out = append(out, info)
		}
	}

	return out
}

// HasStrings reports whether any probe takes a string argument.
func (p *Plan) HasStrings() bool {
	for _, info := range p.UsedTypes() {
		if info.IsString() {
			return true
		}
	}

	return false
}

// Method returns the probe whose fire or is-enabled method is named name.
// enabled reports which of the two it is.
func (prov *Provider) Method(name string) (probe *Probe, enabled bool, ok bool) {
	probe, ok = prov.methods[name]
	if !ok {
		return nil, false, false
	}

	return probe, probe.EnabledMethod == name, true
}

// Params returns the argument type tags in order.
func (pr *Probe) Params() []typemap.Type {
	out := make([]typemap.Type, len(pr.Args))
	for i, arg := range pr.Args {
		out[i] = arg.Info.Type
	}

	return out
}

// HasStrings reports whether the probe takes a string argument.
func (pr *Probe) HasStrings() bool {
	for _, arg := range pr.Args {
		if arg.Info.IsString() {
			return true
		}
	}

	return false
}

// ThunkType renders the Go function type the probe's fire method accepts.
func (pr *Probe) ThunkType() string {
	types := make([]string, len(pr.Args))
	for i, arg := range pr.Args {
		types[i] = arg.Info.GoType
	}

	switch len(types) {
	case 0:
		return "func()"
	case 1:
		return "func() " + types[0]
	default:
		return "func() (" + strings.Join(types, ", ") + ")"
	}
}
