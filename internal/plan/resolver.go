package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"usdtgen/internal/dsl"
	"usdtgen/internal/naming"
)

// Resolve builds the plan of a validated file. It fails only on input the
// validator rejects: duplicate provider names or arguments without a valid
// type.
func Resolve(f *dsl.File) (*Plan, error) {
	p := &Plan{
		Source:    f.Name,
		Base:      BaseName(f.Name),
		providers: linkedhashmap.New(),
		handles:   make(map[string]*Provider, len(f.Providers)),
	}

	for i := range f.Providers {
		src := &f.Providers[i]

		if _, dup := p.providers.Get(src.Name); dup {
			return nil, fmt.Errorf("%s: provider %q declared twice", src.Pos, src.Name)
		}

		prov, err := resolveProvider(src)
		if err != nil {
			return nil, err
		}

		p.providers.Put(prov.Name, prov)
		p.handles[prov.HandleType] = prov
	}

	return p, nil
}

func resolveProvider(src *dsl.Provider) (*Provider, error) {
	prov := &Provider{
		Name:       src.Name,
		GoName:     naming.GoName(src.Name),
		HandleType: naming.HandleType(src.Name),
		Pos:        src.Pos,
		Probes:     make([]*Probe, 0, len(src.Probes)),
		methods:    make(map[string]*Probe, 2*len(src.Probes)),
	}

	for i := range src.Probes {
		probe, err := resolveProbe(src.Name, &src.Probes[i])
		if err != nil {
			return nil, err
		}

		prov.Probes = append(prov.Probes, probe)
		prov.methods[probe.GoName] = probe
		prov.methods[probe.EnabledMethod] = probe
	}

	return prov, nil
}

func resolveProbe(provider string, src *dsl.Probe) (*Probe, error) {
	probe := &Probe{
		Provider:      provider,
		Name:          src.Name,
		TraceName:     naming.ProbeName(src.Name),
		Symbol:        naming.Symbol(provider, src.Name),
		EnabledSymbol: naming.EnabledSymbol(provider, src.Name),
		Macro:         naming.Macro(provider, src.Name),
		EnabledMacro:  naming.EnabledMacro(provider, src.Name),
		GoName:        naming.GoName(src.Name),
		EnabledMethod: naming.EnabledMethod(src.Name),
		Pos:           src.Pos,
		Args:          make([]Arg, len(src.Args)),
	}

	for i, a := range src.Args {
		if !a.Type.Valid() {
			return nil, &dsl.UnknownTypeError{Name: a.Spelling, Pos: a.Pos}
		}

		arg := Arg{
			Index: i,
			Name:  a.Name,
			Named: a.Name != "",
			Info:  a.Type.Info(),
			Pos:   a.Pos,
		}

		if !arg.Named {
			arg.Name = fmt.Sprintf("arg%d", i)
		}

		probe.Args[i] = arg
	}

	return probe, nil
}

// BaseName returns the file name of path without directory and extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return "probes"
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}
