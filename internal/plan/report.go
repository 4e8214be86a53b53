package plan

import (
	"fmt"
	"strings"
)

// Report is a human-readable summary of a plan.
type Report struct {
	Source    string
	Providers []ProviderReport
}

// ProviderReport summarizes one provider.
type ProviderReport struct {
	Name   string
	Handle string
	Probes []ProbeReport
}

// ProbeReport summarizes one probe.
type ProbeReport struct {
	Name      string
	TraceName string
	Symbol    string
	Method    string
	Signature string
}

// GenerateReport creates a report from a resolved plan.
func GenerateReport(p *Plan) *Report {
	report := &Report{
		Source:    p.Source,
		Providers: []ProviderReport{},
	}

	for _, prov := range p.Providers() {
		pr := ProviderReport{
			Name:   prov.Name,
			Handle: prov.GoName,
			Probes: make([]ProbeReport, 0, len(prov.Probes)),
		}

		for _, probe := range prov.Probes {
			pr.Probes = append(pr.Probes, ProbeReport{
				Name:      probe.Name,
				TraceName: probe.TraceName,
				Symbol:    probe.Symbol,
				Method:    prov.GoName + "." + probe.GoName,
				Signature: probe.ThunkType(),
			})
		}

		report.Providers = append(report.Providers, pr)
	}

	return report
}

// FormatReport formats a report as human-readable text.
func FormatReport(report *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %d provider(s)\n", report.Source, len(report.Providers))

	for _, prov := range report.Providers {
		fmt.Fprintf(&sb, "\nprovider %s (%s)\n", prov.Name, prov.Handle)

		if len(prov.Probes) == 0 {
			sb.WriteString("  no probes\n")
			continue
		}

		for _, probe := range prov.Probes {
			fmt.Fprintf(&sb, "  %s:%s  %s  %s(%s)\n",
				prov.Name, probe.TraceName, probe.Symbol, probe.Method, probe.Signature)
		}
	}

	return sb.String()
}
