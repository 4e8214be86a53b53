package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		provider, probe string
		symbol, enabled string
	}{
		{"my_provider", "my_probe", "my_provider_my_probe", "my_provider_my_probe_enabled"},
		{"p", "a", "p_a", "p_a_enabled"},
		{"postgresql", "query__start", "postgresql_query__start", "postgresql_query__start_enabled"},
		{"Mixed", "Case", "Mixed_Case", "Mixed_Case_enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.symbol, Symbol(tt.provider, tt.probe))
			assert.Equal(t, tt.enabled, EnabledSymbol(tt.provider, tt.probe))
		})
	}
}

func TestSymbol_IsStable(t *testing.T) {
	// These values are linked into user binaries; changing them breaks
	// objects built by earlier releases.
	assert.Equal(t, "my_provider_my_probe", Symbol("my_provider", "my_probe"))
	assert.Equal(t, "my_provider_my_probe_enabled", EnabledSymbol("my_provider", "my_probe"))
	assert.Equal(t, "MY_PROVIDER_MY_PROBE", Macro("my_provider", "my_probe"))
	assert.Equal(t, "MY_PROVIDER_MY_PROBE_ENABLED", EnabledMacro("my_provider", "my_probe"))
}

func TestSymbol_DistinctPairsInSameProvider(t *testing.T) {
	probes := []string{"a", "ab", "a_b", "b", "start", "start__done"}
	seen := map[string]string{}

	for _, probe := range probes {
		sym := Symbol("prov", probe)
		prev, dup := seen[sym]
		assert.False(t, dup, "%s and %s share %s", prev, probe, sym)
		seen[sym] = probe
	}
}

func TestMacro(t *testing.T) {
	assert.Equal(t, "POSTGRESQL_QUERY_START", Macro("postgresql", "query__start"))
	assert.Equal(t, "FOO_BAR_BAZ", Macro("foo", "bar_baz"))
}

func TestProbeName(t *testing.T) {
	assert.Equal(t, "query-start", ProbeName("query__start"))
	assert.Equal(t, "plain", ProbeName("plain"))
	assert.Equal(t, "a_b", ProbeName("a_b"))
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"my_provider":  "MyProvider",
		"my_probe":     "MyProbe",
		"query__start": "QueryStart",
		"x":            "X",
		"HTTP_request": "HTTPRequest",
		"already":      "Already",
		"v2_probe":     "V2Probe",
	}

	for in, want := range tests {
		assert.Equal(t, want, GoName(in), in)
	}

	assert.Equal(t, "MyProviderProbes", HandleType("my_provider"))
	assert.Equal(t, "MyProbeEnabled", EnabledMethod("my_probe"))
}

func TestHeaderGuard(t *testing.T) {
	assert.Equal(t, "PROBES_DECL_H", HeaderGuard("probes-decl.h"))
	assert.Equal(t, "MY_APP2_H", HeaderGuard("my.app2.h"))
	assert.Equal(t, "USDTGEN_2024_DECL_H", HeaderGuard("2024-decl.h"))
	assert.Equal(t, "USDTGEN__DECL_H", HeaderGuard("-decl.h"))
}
