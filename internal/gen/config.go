package gen

import (
	"path/filepath"
	"strings"
)

// GeneratorConfig holds configuration for code generation. Empty file
// names are derived from the base name of the provider file.
type GeneratorConfig struct {
	// PackageName is the package clause of the Go binding.
	PackageName string
	// OutputDir is where unformatted bindings are dumped when go/format
	// fails. Empty disables the dump.
	OutputDir string
	// Library is the name of the static library, without "lib" and ".a".
	Library string
	// DTraceHeader is the header "dtrace -h" writes.
	DTraceHeader string
	// DeclHeader is the declaration artifact.
	DeclHeader string
	// WrapperSource is the trampoline artifact.
	WrapperSource string
	// BindingFile is the Go binding artifact.
	BindingFile string
	// GenerateComments enables doc comments in the generated code.
	GenerateComments bool
	// SourcePath is the provider file path the build script hands to
	// dtrace. Empty uses the plan's source name.
	SourcePath string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "probes",
		GenerateComments: true,
	}
}

// Names are the file names involved in building one provider file.
type Names struct {
	DTraceHeader  string
	DeclHeader    string
	WrapperSource string
	WrapperObject string
	ProbeObject   string
	BindingFile   string
	Library       string
	Archive       string
}

// Names resolves the artifact names for a provider file base name.
func (c GeneratorConfig) Names(base string) Names {
	n := Names{
		DTraceHeader:  or(c.DTraceHeader, base+".h"),
		DeclHeader:    or(c.DeclHeader, base+"-decl.h"),
		WrapperSource: or(c.WrapperSource, base+"-wrapper.c"),
		BindingFile:   or(c.BindingFile, base+"_probes.go"),
		Library:       or(c.Library, base),
		ProbeObject:   base + ".o",
	}

	n.WrapperObject = strings.TrimSuffix(n.WrapperSource, filepath.Ext(n.WrapperSource)) + ".o"
	n.Archive = "lib" + n.Library + ".a"

	return n
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}

	return fallback
}
