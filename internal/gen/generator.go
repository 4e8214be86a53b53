package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"golang.org/x/sync/errgroup"

	"usdtgen/internal/plan"
)

// Generator renders artifacts from a resolved plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.PackageName == "" {
		config.PackageName = DefaultGeneratorConfig().PackageName
	}

	return &Generator{config: config}
}

// GeneratedFile is one rendered artifact.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "probes-decl.h").
	Filename string
	Kind     Kind
	Content  []byte
}

// Generate renders the declaration, definition and binding of p, in that
// order. The three generators share nothing but the plan and run
// concurrently.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	kinds := []Kind{KindDeclaration, KindDefinition, KindBinding}
	files := make([]GeneratedFile, len(kinds))

	var eg errgroup.Group

	for i, kind := range kinds {
		eg.Go(func() error {
			file, err := g.Artifact(p, kind)
			if err != nil {
				return fmt.Errorf("generating %s: %w", kind, err)
			}

			files[i] = file

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

// Artifact renders one artifact of p.
func (g *Generator) Artifact(p *plan.Plan, kind Kind) (GeneratedFile, error) {
	switch kind {
	case KindDeclaration:
		return g.Declaration(p)
	case KindDefinition:
		return g.Definition(p)
	case KindBinding:
		return g.Binding(p)
	case KindBuildScript:
		return g.BuildScript(p)
	default:
		return GeneratedFile{}, fmt.Errorf("unknown artifact kind %s", kind)
	}
}

// Declaration renders the C header declaring every trampoline.
func (g *Generator) Declaration(p *plan.Plan) (GeneratedFile, error) {
	data := g.buildTemplateData(p)

	content, err := render(declarationTemplate, data)
	if err != nil {
		return GeneratedFile{}, err
	}

	return GeneratedFile{Filename: data.Names.DeclHeader, Kind: KindDeclaration, Content: content}, nil
}

// Definition renders the C trampolines.
func (g *Generator) Definition(p *plan.Plan) (GeneratedFile, error) {
	data := g.buildTemplateData(p)

	content, err := render(definitionTemplate, data)
	if err != nil {
		return GeneratedFile{}, err
	}

	return GeneratedFile{Filename: data.Names.WrapperSource, Kind: KindDefinition, Content: content}, nil
}

// Binding renders the gofmt-ed Go binding. When formatting fails the
// unformatted source is returned with the error, and dumped next to the
// output if the configuration names an output directory.
func (g *Generator) Binding(p *plan.Plan) (GeneratedFile, error) {
	data := g.buildTemplateData(p)

	content, err := render(bindingTemplate, data)
	if err != nil {
		return GeneratedFile{}, err
	}

	file := GeneratedFile{Filename: data.Names.BindingFile, Kind: KindBinding, Content: content}

	formatted, err := format.Source(content)
	if err != nil {
		if g.config.OutputDir != "" {
			if path, dumpErr := dumpUnformatted(g.config.OutputDir, file); dumpErr == nil {
				return file, fmt.Errorf("formatting code (unformatted source in %s): %w", path, err)
			}
		}

		return file, fmt.Errorf("formatting code: %w", err)
	}

	file.Content = formatted

	return file, nil
}

// BuildScript renders the sh script that builds the probe library. The
// declaration and definition are embedded in it.
func (g *Generator) BuildScript(p *plan.Plan) (GeneratedFile, error) {
	decl, err := g.Declaration(p)
	if err != nil {
		return GeneratedFile{}, err
	}

	defn, err := g.Definition(p)
	if err != nil {
		return GeneratedFile{}, err
	}

	source := g.config.SourcePath
	if source == "" {
		source = p.Source
	}

	content, err := render(buildScriptTemplate, buildScriptData{
		Data:   g.buildTemplateData(p),
		Source: source,
		Decl:   string(decl.Content),
		Defn:   string(defn.Content),
	})
	if err != nil {
		return GeneratedFile{}, err
	}

	return GeneratedFile{Filename: "build.sh", Kind: KindBuildScript, Content: content}, nil
}

func render(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", tmpl.Name(), err)
	}

	return buf.Bytes(), nil
}
