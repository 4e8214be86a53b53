package gen

import (
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"shquote": shellQuote,
}

// shellQuote quotes s for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var declarationTemplate = template.Must(template.New("declaration").Parse(`// Code generated by usdtgen from {{printf "%q" .Source}}. DO NOT EDIT.

#ifndef {{.Guard}}
#define {{.Guard}}

#include <stdint.h>
{{range .Providers}}
{{if $.Comments}}/* provider {{.Name}} */
{{end}}{{range .Probes}}void {{.Symbol}}({{.CParams}});
int {{.EnabledSymbol}}(void);
{{end}}{{end}}
#endif /* {{.Guard}} */
`))

var definitionTemplate = template.Must(template.New("definition").Parse(`// Code generated by usdtgen from {{printf "%q" .Source}}. DO NOT EDIT.
{{if .Comments}}// C wrappers around the DTrace probe macros. "dtrace -G" rewrites the
// macro call sites of the compiled object.
{{end}}
#include <stdint.h>
#include "{{.Names.DTraceHeader}}"
#include "{{.Names.DeclHeader}}"
{{if .Asserts}}
{{range .Asserts}}_Static_assert(sizeof({{.CType}}) == {{.Width}}, "unexpected size of {{.CType}}");
{{end}}{{end}}{{range .Providers}}{{range .Probes}}
void {{.Symbol}}({{.CParams}})
{
	{{.Macro}}({{.CArgs}});
}

int {{.EnabledSymbol}}(void)
{
	return {{.EnabledMacro}}();
}
{{end}}{{end}}`))

var bindingTemplate = template.Must(template.New("binding").Parse(`// Code generated by usdtgen from {{printf "%q" .Source}}. DO NOT EDIT.

package {{.PackageName}}

/*
#cgo LDFLAGS: -L${SRCDIR} -l{{.Names.Library}}
{{if .HasStrings}}#include <stdlib.h>
{{end}}#include "{{.Names.DeclHeader}}"
*/
import "C"
{{if .HasStrings}}
import "unsafe"
{{end}}
{{range .Providers}}{{$prov := .}}
{{if $.Comments}}// {{.GoName}} fires the probes of provider {{.Name}}.
{{end}}var {{.GoName}} {{.HandleType}}

{{if $.Comments}}// {{.HandleType}} is the handle type of provider {{.Name}}.
{{end}}type {{.HandleType}} struct{}
{{range .Probes}}
{{if $.Comments}}// {{.EnabledMethod}} reports whether a tracer consumes {{.Provider}}:{{.TraceName}}.
{{end}}func ({{$prov.HandleType}}) {{.EnabledMethod}}() bool {
	return C.{{.EnabledSymbol}}() != 0
}

{{if $.Comments}}// {{.GoName}} fires {{.Provider}}:{{.TraceName}}. args is only called while
// the probe is enabled.
{{end}}func ({{$prov.HandleType}}) {{.GoName}}(args {{.ThunkType}}) {
	if C.{{.EnabledSymbol}}() == 0 {
		return
	}
{{if .Locals}}
	{{.Locals}} := args()
{{range .Strings}}
	{{.C}} := C.CString({{.Local}})
	defer C.free(unsafe.Pointer({{.C}}))
{{end}}
	C.{{.Symbol}}({{.CallArgs}})
{{else}}
	args()
	C.{{.Symbol}}()
{{end}}}
{{end}}{{end}}`))

var buildScriptTemplate = template.Must(template.New("build").Funcs(funcs).Parse(`#!/bin/sh
# Code generated by usdtgen from {{printf "%q" .Data.Source}}. DO NOT EDIT.
#
# Builds {{.Data.Names.Archive}} from the probe trampolines. Tools are taken
# from $DTRACE, $CC and $AR; everything is written to $OUT_DIR.
set -eu

SOURCE={{shquote .Source}}
OUT_DIR="${OUT_DIR:-.}"
DTRACE="${DTRACE:-dtrace}"
CC="${CC:-cc}"
AR="${AR:-ar}"

mkdir -p "$OUT_DIR"

# Probe macros.
"$DTRACE" -h -s "$SOURCE" -o "$OUT_DIR/{{.Data.Names.DTraceHeader}}"

# Trampolines.
cat > "$OUT_DIR/{{.Data.Names.DeclHeader}}" <<'USDTGEN_EOF'
{{.Decl}}USDTGEN_EOF
cat > "$OUT_DIR/{{.Data.Names.WrapperSource}}" <<'USDTGEN_EOF'
{{.Defn}}USDTGEN_EOF

"$CC" ${CFLAGS:-} -fPIC -c -I"$OUT_DIR" -o "$OUT_DIR/{{.Data.Names.WrapperObject}}" "$OUT_DIR/{{.Data.Names.WrapperSource}}"

# The Darwin linker processes probes itself and has no "dtrace -G" step.
rm -f "$OUT_DIR/{{.Data.Names.Archive}}"
if [ "$(uname -s)" = "Darwin" ]; then
	"$AR" rcs "$OUT_DIR/{{.Data.Names.Archive}}" "$OUT_DIR/{{.Data.Names.WrapperObject}}"
else
	"$DTRACE" -G -s "$SOURCE" -o "$OUT_DIR/{{.Data.Names.ProbeObject}}" "$OUT_DIR/{{.Data.Names.WrapperObject}}"
	"$AR" rcs "$OUT_DIR/{{.Data.Names.Archive}}" "$OUT_DIR/{{.Data.Names.WrapperObject}}" "$OUT_DIR/{{.Data.Names.ProbeObject}}"
fi
`))

// buildScriptData embeds the rendered C artifacts in the script.
type buildScriptData struct {
	Data   *templateData
	Source string
	Decl   string
	Defn   string
}
