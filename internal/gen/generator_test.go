package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usdtgen/internal/dsl"
	"usdtgen/internal/plan"
	"usdtgen/internal/validate"
)

const simpleSource = `provider my_provider {
	probe my_probe();
	probe start(uint8_t, char *name);
}
`

const wideSource = `
provider db {
	probe query__start(uint64_t id, string sql);
	probe query__done(uint64_t id, int32_t rows, int64_t nanos);
	probe idle();
};
provider net {
	probe send(uintptr_t conn, uint16_t port, uint32_t bytes, int8_t a, int16_t b, uint8_t c);
	probe recv(char *);
}
`

func resolvePlan(t *testing.T, name, src string) *plan.Plan {
	t.Helper()

	f, err := dsl.Parse(name, []byte(src))
	require.NoError(t, err)

	diags := validate.New(0).Validate(f)
	require.NoError(t, diags.Err())

	p, err := plan.Resolve(f)
	require.NoError(t, err)

	return p
}

func TestGenerator_Declaration(t *testing.T) {
	p := resolvePlan(t, "probes.d", simpleSource)

	file, err := NewGenerator(DefaultGeneratorConfig()).Declaration(p)
	require.NoError(t, err)

	expected := `// Code generated by usdtgen from "probes.d". DO NOT EDIT.

#ifndef PROBES_DECL_H
#define PROBES_DECL_H

#include <stdint.h>

/* provider my_provider */
void my_provider_my_probe(void);
int my_provider_my_probe_enabled(void);
void my_provider_start(uint8_t arg0, char *name);
int my_provider_start_enabled(void);

#endif /* PROBES_DECL_H */
`
	assert.Equal(t, "probes-decl.h", file.Filename)
	assert.Equal(t, KindDeclaration, file.Kind)
	assert.Equal(t, expected, string(file.Content))
}

func TestGenerator_Definition(t *testing.T) {
	p := resolvePlan(t, "probes.d", simpleSource)

	file, err := NewGenerator(DefaultGeneratorConfig()).Definition(p)
	require.NoError(t, err)

	expected := `// Code generated by usdtgen from "probes.d". DO NOT EDIT.
// C wrappers around the DTrace probe macros. "dtrace -G" rewrites the
// macro call sites of the compiled object.

#include <stdint.h>
#include "probes.h"
#include "probes-decl.h"

_Static_assert(sizeof(uint8_t) == 1, "unexpected size of uint8_t");
_Static_assert(sizeof(char *) == sizeof(void *), "unexpected size of char *");

void my_provider_my_probe(void)
{
	MY_PROVIDER_MY_PROBE();
}

int my_provider_my_probe_enabled(void)
{
	return MY_PROVIDER_MY_PROBE_ENABLED();
}

void my_provider_start(uint8_t arg0, char *name)
{
	MY_PROVIDER_START(arg0, name);
}

int my_provider_start_enabled(void)
{
	return MY_PROVIDER_START_ENABLED();
}
`
	assert.Equal(t, "probes-wrapper.c", file.Filename)
	assert.Equal(t, expected, string(file.Content))
}

func TestGenerator_Binding(t *testing.T) {
	p := resolvePlan(t, "probes.d", simpleSource)

	file, err := NewGenerator(DefaultGeneratorConfig()).Binding(p)
	require.NoError(t, err)

	content := string(file.Content)

	assert.Equal(t, "probes_probes.go", file.Filename)
	assert.Contains(t, content, "package probes\n")
	assert.Contains(t, content, "#cgo LDFLAGS: -L${SRCDIR} -lprobes\n#include <stdlib.h>\n#include \"probes-decl.h\"\n*/\nimport \"C\"")
	assert.Contains(t, content, `import "unsafe"`)
	assert.Contains(t, content, "var MyProvider MyProviderProbes\n")
	assert.Contains(t, content, "type MyProviderProbes struct{}\n")
	assert.Contains(t, content, "// MyProbeEnabled reports whether a tracer consumes my_provider:my_probe.\n")

	assert.Contains(t, content, `func (MyProviderProbes) MyProbeEnabled() bool {
	return C.my_provider_my_probe_enabled() != 0
}`)

	assert.Contains(t, content, `func (MyProviderProbes) MyProbe(args func()) {
	if C.my_provider_my_probe_enabled() == 0 {
		return
	}

	args()
	C.my_provider_my_probe()
}`)

	assert.Contains(t, content, `func (MyProviderProbes) Start(args func() (uint8, string)) {
	if C.my_provider_start_enabled() == 0 {
		return
	}

	v0, v1 := args()

	c1 := C.CString(v1)
	defer C.free(unsafe.Pointer(c1))

	C.my_provider_start(C.uint8_t(v0), c1)
}`)

	_, err = parser.ParseFile(token.NewFileSet(), file.Filename, file.Content, parser.ParseComments)
	require.NoError(t, err)
}

func TestGenerator_BindingWithoutStrings(t *testing.T) {
	p := resolvePlan(t, "ticks.d", "provider clock { probe tick(uint64_t, uintptr_t); }")

	file, err := NewGenerator(GeneratorConfig{PackageName: "clock", Library: "clockprobes"}).Binding(p)
	require.NoError(t, err)

	content := string(file.Content)

	assert.Contains(t, content, "package clock\n")
	assert.Contains(t, content, "-lclockprobes")
	assert.NotContains(t, content, "unsafe")
	assert.NotContains(t, content, "stdlib.h")
	assert.NotContains(t, content, "// Clock fires", "comments are off")
	assert.Contains(t, content, "C.clock_tick(C.uint64_t(v0), C.uintptr_t(v1))")
}

func TestGenerator_CommentsDisabled(t *testing.T) {
	p := resolvePlan(t, "probes.d", simpleSource)
	g := NewGenerator(GeneratorConfig{})

	decl, err := g.Declaration(p)
	require.NoError(t, err)
	assert.NotContains(t, string(decl.Content), "/* provider")

	defn, err := g.Definition(p)
	require.NoError(t, err)
	assert.NotContains(t, string(defn.Content), "C wrappers")
	assert.True(t, strings.HasPrefix(string(defn.Content), "// Code generated by usdtgen from \"probes.d\". DO NOT EDIT.\n\n#include <stdint.h>\n"))

	bind, err := g.Binding(p)
	require.NoError(t, err)
	assert.Contains(t, string(bind.Content), "package probes\n")
	assert.NotContains(t, string(bind.Content), "reports whether")
}

func TestGenerator_EmptyPlan(t *testing.T) {
	p := resolvePlan(t, "empty.d", "provider quiet {}")

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(p)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Contains(t, string(files[0].Content), "/* provider quiet */\n\n#endif")
	assert.NotContains(t, string(files[1].Content), "_Static_assert")
	assert.Contains(t, string(files[2].Content), "var Quiet QuietProbes")
}

func TestGenerator_DeclarationGuardForNumericFileName(t *testing.T) {
	p := resolvePlan(t, "2024.d", "provider p { probe a(); };")

	decl, err := NewGenerator(DefaultGeneratorConfig()).Declaration(p)
	require.NoError(t, err)

	assert.Equal(t, "2024-decl.h", decl.Filename)
	assert.Contains(t, string(decl.Content), "\n#ifndef USDTGEN_2024_DECL_H\n#define USDTGEN_2024_DECL_H\n")
	assert.Contains(t, string(decl.Content), "#endif /* USDTGEN_2024_DECL_H */\n")
}

func TestGenerator_Generate(t *testing.T) {
	p := resolvePlan(t, "app.d", wideSource)

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(p)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "app-decl.h", files[0].Filename)
	assert.Equal(t, "app-wrapper.c", files[1].Filename)
	assert.Equal(t, "app_probes.go", files[2].Filename)
	assert.Equal(t, []Kind{KindDeclaration, KindDefinition, KindBinding},
		[]Kind{files[0].Kind, files[1].Kind, files[2].Kind})
}

func TestGenerator_Deterministic(t *testing.T) {
	p1 := resolvePlan(t, "app.d", wideSource)
	p2 := resolvePlan(t, "app.d", wideSource)
	g := NewGenerator(DefaultGeneratorConfig())

	first, err := g.Generate(p1)
	require.NoError(t, err)

	for range 5 {
		again, err := g.Generate(p2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	s1, err := g.BuildScript(p1)
	require.NoError(t, err)

	s2, err := g.BuildScript(p2)
	require.NoError(t, err)
	assert.Equal(t, s1.Content, s2.Content)
}

var (
	declProto  = regexp.MustCompile(`(?m)^void (\w+)\((.*)\);$`)
	defnHeader = regexp.MustCompile(`(?m)^void (\w+)\((.*)\)$`)
	enabledDef = regexp.MustCompile(`(?m)^int (\w+)\(void\)`)
	cCall      = regexp.MustCompile(`C\.(\w+)\(`)
)

func countCParams(list string) int {
	if list == "void" {
		return 0
	}

	return strings.Count(list, ",") + 1
}

// bindingArity maps "Handle.Method" to the number of thunk results.
func bindingArity(t *testing.T, src []byte) map[string]int {
	t.Helper()

	f, err := parser.ParseFile(token.NewFileSet(), "binding.go", src, 0)
	require.NoError(t, err)

	out := make(map[string]int)

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || fn.Type.Params.NumFields() != 1 {
			continue
		}

		recv := fn.Recv.List[0].Type.(*ast.Ident).Name
		thunk := fn.Type.Params.List[0].Type.(*ast.FuncType)

		n := 0
		if thunk.Results != nil {
			n = thunk.Results.NumFields()
		}

		out[recv+"."+fn.Name.Name] = n
	}

	return out
}

func TestGenerator_ArityAgreesAcrossArtifacts(t *testing.T) {
	p := resolvePlan(t, "app.d", wideSource)

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(p)
	require.NoError(t, err)

	declArity := make(map[string]int)
	for _, m := range declProto.FindAllStringSubmatch(string(files[0].Content), -1) {
		declArity[m[1]] = countCParams(m[2])
	}

	defnArity := make(map[string]int)
	for _, m := range defnHeader.FindAllStringSubmatch(string(files[1].Content), -1) {
		defnArity[m[1]] = countCParams(m[2])
	}

	goArity := bindingArity(t, files[2].Content)

	checked := 0

	for _, prov := range p.Providers() {
		for _, probe := range prov.Probes {
			want := len(probe.Args)

			assert.Equal(t, want, declArity[probe.Symbol], "declaration of %s", probe.Symbol)
			assert.Equal(t, want, defnArity[probe.Symbol], "definition of %s", probe.Symbol)

			got, ok := goArity[prov.HandleType+"."+probe.GoName]
			require.True(t, ok, "binding lacks %s.%s", prov.HandleType, probe.GoName)
			assert.Equal(t, want, got, "binding of %s", probe.Symbol)

			checked++
		}
	}

	assert.Equal(t, 5, checked)
	assert.Len(t, declArity, 5)
	assert.Len(t, defnArity, 5)
}

func TestGenerator_NamesAgreeAcrossArtifacts(t *testing.T) {
	p := resolvePlan(t, "app.d", wideSource)

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(p)
	require.NoError(t, err)

	var want []string

	for _, prov := range p.Providers() {
		for _, probe := range prov.Probes {
			want = append(want, probe.Symbol, probe.EnabledSymbol)
		}
	}

	slices.Sort(want)

	symbols := func(matches [][]string) []string {
		set := make(map[string]bool)
		for _, m := range matches {
			set[m[1]] = true
		}

		var out []string
		for s := range set {
			out = append(out, s)
		}

		slices.Sort(out)

		return out
	}

	decl := string(files[0].Content)
	defn := string(files[1].Content)
	bind := string(files[2].Content)

	declSyms := symbols(append(declProto.FindAllStringSubmatch(decl, -1),
		regexp.MustCompile(`(?m)^int (\w+)\(void\);$`).FindAllStringSubmatch(decl, -1)...))
	defnSyms := symbols(append(defnHeader.FindAllStringSubmatch(defn, -1),
		enabledDef.FindAllStringSubmatch(defn, -1)...))

	var bindCalls [][]string

	for _, m := range cCall.FindAllStringSubmatch(bind, -1) {
		switch m[1] {
		case "CString", "free", "uint8_t", "uint16_t", "uint32_t", "uint64_t",
			"int8_t", "int16_t", "int32_t", "int64_t", "uintptr_t":
			continue
		}

		bindCalls = append(bindCalls, m)
	}

	assert.Equal(t, want, declSyms)
	assert.Equal(t, want, defnSyms)
	assert.Equal(t, want, symbols(bindCalls))
}

func TestGenerator_BuildScript(t *testing.T) {
	p := resolvePlan(t, "/src/it's/app.d", wideSource)
	g := NewGenerator(DefaultGeneratorConfig())

	script, err := g.BuildScript(p)
	require.NoError(t, err)

	content := string(script.Content)

	assert.Equal(t, "build.sh", script.Filename)
	assert.Equal(t, KindBuildScript, script.Kind)
	assert.True(t, strings.HasPrefix(content, "#!/bin/sh\n"))
	assert.Contains(t, content, `SOURCE='/src/it'\''s/app.d'`)

	steps := []string{
		`"$DTRACE" -h -s "$SOURCE" -o "$OUT_DIR/app.h"`,
		`cat > "$OUT_DIR/app-decl.h" <<'USDTGEN_EOF'`,
		`cat > "$OUT_DIR/app-wrapper.c" <<'USDTGEN_EOF'`,
		`"$CC" ${CFLAGS:-} -fPIC -c -I"$OUT_DIR" -o "$OUT_DIR/app-wrapper.o" "$OUT_DIR/app-wrapper.c"`,
		`"$DTRACE" -G -s "$SOURCE" -o "$OUT_DIR/app.o" "$OUT_DIR/app-wrapper.o"`,
		`"$AR" rcs "$OUT_DIR/libapp.a" "$OUT_DIR/app-wrapper.o" "$OUT_DIR/app.o"`,
	}

	last := -1

	for _, step := range steps {
		idx := strings.Index(content, step)
		require.GreaterOrEqual(t, idx, 0, "missing step %s", step)
		assert.Greater(t, idx, last, "step out of order: %s", step)
		last = idx
	}

	decl, err := g.Declaration(p)
	require.NoError(t, err)
	assert.Contains(t, content, "<<'USDTGEN_EOF'\n"+string(decl.Content)+"USDTGEN_EOF\n")

	defn, err := g.Definition(p)
	require.NoError(t, err)
	assert.Contains(t, content, "<<'USDTGEN_EOF'\n"+string(defn.Content)+"USDTGEN_EOF\n")

	assert.Contains(t, content, `if [ "$(uname -s)" = "Darwin" ]; then`)
}

func TestGenerator_Artifact(t *testing.T) {
	p := resolvePlan(t, "probes.d", simpleSource)
	g := NewGenerator(DefaultGeneratorConfig())

	for _, kind := range []Kind{KindDeclaration, KindDefinition, KindBinding, KindBuildScript} {
		file, err := g.Artifact(p, kind)
		require.NoError(t, err)
		assert.Equal(t, kind, file.Kind)
		assert.NotEmpty(t, file.Content)
	}

	_, err := g.Artifact(p, Kind(99))
	assert.ErrorContains(t, err, "unknown artifact kind Kind(99)")
}

func TestGenerator_BindingFormatFailure(t *testing.T) {
	p := resolvePlan(t, "probes.d", simpleSource)
	dir := t.TempDir()

	g := NewGenerator(GeneratorConfig{PackageName: "not a name", OutputDir: dir})

	file, err := g.Binding(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting code")
	assert.Contains(t, string(file.Content), "package not a name")
	assert.FileExists(t, dir+"/probes_probes.unformatted.go")
	assert.Contains(t, err.Error(), "probes_probes.unformatted.go")

	_, err = g.Generate(p)
	assert.ErrorContains(t, err, "generating go: formatting code")
}

func TestGenerator_BuildScriptSourcePath(t *testing.T) {
	p := resolvePlan(t, "app.d", simpleSource)

	script, err := NewGenerator(GeneratorConfig{SourcePath: "/work/probes/app.d"}).BuildScript(p)
	require.NoError(t, err)

	content := string(script.Content)
	assert.Contains(t, content, "SOURCE='/work/probes/app.d'\n")
	assert.Contains(t, content, `from "app.d"`)
}

func TestGeneratorConfig_Names(t *testing.T) {
	n := DefaultGeneratorConfig().Names("app")
	assert.Equal(t, Names{
		DTraceHeader:  "app.h",
		DeclHeader:    "app-decl.h",
		WrapperSource: "app-wrapper.c",
		WrapperObject: "app-wrapper.o",
		ProbeObject:   "app.o",
		BindingFile:   "app_probes.go",
		Library:       "app",
		Archive:       "libapp.a",
	}, n)

	custom := GeneratorConfig{
		Library:       "trace",
		DTraceHeader:  "provider.h",
		DeclHeader:    "decl.h",
		WrapperSource: "wrappers.c",
		BindingFile:   "zz_probes.go",
	}.Names("app")
	assert.Equal(t, "libtrace.a", custom.Archive)
	assert.Equal(t, "wrappers.o", custom.WrapperObject)
	assert.Equal(t, "provider.h", custom.DTraceHeader)
	assert.Equal(t, "decl.h", custom.DeclHeader)
	assert.Equal(t, "zz_probes.go", custom.BindingFile)
}

func TestKind(t *testing.T) {
	for _, name := range []string{"decl", "defn", "go", "build"} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}

	_, err := ParseKind("rust")
	assert.Error(t, err)
}
