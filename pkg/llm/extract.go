package llm

import (
	"sort"
	"strings"
)

// frameworkKeywords maps canonical framework names to the phrases that
// count as a reference when they appear in a completion.
var frameworkKeywords = map[string][]string{
	"NIST":     {"nist", "cybersecurity framework", "csf"},
	"SOC2":     {"soc 2", "soc2", "service organization control"},
	"ISO27001": {"iso 27001", "iso27001", "information security management"},
	"CMMC":     {"cmmc", "cybersecurity maturity model"},
	"GDPR":     {"gdpr", "general data protection regulation"},
	"HIPAA":    {"hipaa", "health insurance portability"},
	"PCI DSS":  {"pci dss", "payment card industry"},
}

// ExtractFrameworks returns the canonical framework names referenced in
// the response text, in a stable order. Matching is case-insensitive
// keyword search.
func ExtractFrameworks(response string) []string {
	lower := strings.ToLower(response)

	var found []string
	for framework, keywords := range frameworkKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				found = append(found, framework)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// ScoreConfidence estimates response confidence from length, boosted
// when company context informed the completion. Longer responses score
// higher up to a cap of 0.95 without context, 1.0 with.
func ScoreConfidence(response string, hasCompanyContext bool) float64 {
	confidence := 0.7 + float64(len(response))/2000*0.2
	if confidence > 0.95 {
		confidence = 0.95
	}
	if hasCompanyContext {
		confidence += 0.05
	}
	return confidence
}
