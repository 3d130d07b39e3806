package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt contexts select which system prompt frames the completion.
const (
	PromptGeneral    = "general"
	PromptCompliance = "compliance"
	PromptRisk       = "risk"
)

// contextDocumentPreview caps how many documents are named in the prompt.
const contextDocumentPreview = 3

var systemPrompts = map[string]string{
	PromptGeneral: `You are a Virtual CISO (Chief Information Security Officer) AI assistant with deep expertise in cybersecurity, compliance, and risk management. You provide expert-level guidance on:

- Cybersecurity frameworks (NIST, ISO 27001, SOC 2, CMMC)
- Risk assessment and management
- Compliance requirements and gap analysis
- Security policy development
- Incident response planning
- Third-party risk management
- Security architecture and controls

Always provide practical, actionable advice tailored to the organization's context. Be concise but comprehensive, and cite relevant frameworks when applicable.`,

	PromptCompliance: `You are a compliance-focused Virtual CISO specializing in regulatory frameworks and standards. Your expertise includes:

- NIST Cybersecurity Framework implementation
- SOC 2 Type II compliance requirements
- ISO 27001 certification processes
- CMMC compliance for defense contractors
- GDPR and privacy regulations
- Industry-specific compliance (HIPAA, PCI DSS, etc.)

Provide specific control recommendations, implementation guidance, and gap analysis insights.`,

	PromptRisk: `You are a risk management expert Virtual CISO focused on:

- Enterprise risk assessment methodologies
- Third-party vendor risk management
- Business continuity and disaster recovery
- Threat modeling and vulnerability management
- Risk quantification and reporting
- Security metrics and KPIs

Provide data-driven risk insights and mitigation strategies.`,
}

// SystemPrompt returns the system prompt for the given context, falling
// back to the general prompt for unknown contexts.
func SystemPrompt(promptContext string) string {
	if p, ok := systemPrompts[promptContext]; ok {
		return p
	}
	return systemPrompts[PromptGeneral]
}

// ContextInput is the organizational context received with a chat request.
type ContextInput struct {
	Industry         string
	Frameworks       []string
	Documents        []ContextDocument
	ComplianceStatus map[string]ComplianceStatus
	UserRole         string
}

// ContextDocument is a document reference available for context, carrying
// title and type only, never full content.
type ContextDocument struct {
	Title string
	Type  string
}

// ComplianceStatus is the per-framework control tally used in the prompt.
type ComplianceStatus struct {
	Implemented int
	Total       int
}

// HasCompanyContext reports whether any company details are present.
// Confidence scoring boosts responses grounded in company context.
func (c *ContextInput) HasCompanyContext() bool {
	if c == nil {
		return false
	}
	return c.Industry != "" || len(c.Frameworks) > 0 || len(c.Documents) > 0
}

// BuildContextPrompt renders organizational context as prompt text.
// Returns an empty string when there is nothing to say.
func BuildContextPrompt(input *ContextInput) string {
	if input == nil {
		return ""
	}

	var parts []string

	if input.HasCompanyContext() {
		parts = append(parts, "Company Context:")
		if input.Industry != "" {
			parts = append(parts, fmt.Sprintf("- Industry: %s", input.Industry))
		}
		if len(input.Frameworks) > 0 {
			parts = append(parts, fmt.Sprintf("- Active Compliance Frameworks: %s", strings.Join(input.Frameworks, ", ")))
		}
		if len(input.Documents) > 0 {
			parts = append(parts, fmt.Sprintf("- Available Documents: %d security documents", len(input.Documents)))
			for i, doc := range input.Documents {
				if i >= contextDocumentPreview {
					break
				}
				title := doc.Title
				if title == "" {
					title = "Untitled"
				}
				docType := doc.Type
				if docType == "" {
					docType = "unknown"
				}
				parts = append(parts, fmt.Sprintf("  • %s (%s)", title, docType))
			}
		}
	}

	if len(input.ComplianceStatus) > 0 {
		parts = append(parts, "\nCompliance Status:")
		for _, framework := range sortedFrameworks(input.ComplianceStatus) {
			status := input.ComplianceStatus[framework]
			percentage := 0.0
			if status.Total > 0 {
				percentage = float64(status.Implemented) / float64(status.Total) * 100
			}
			parts = append(parts, fmt.Sprintf("- %s: %d/%d controls (%.0f%% complete)",
				framework, status.Implemented, status.Total, percentage))
		}
	}

	if input.UserRole != "" {
		parts = append(parts, fmt.Sprintf("\nUser Role: %s", input.UserRole))
	}

	return strings.Join(parts, "\n")
}

// ComposeSystemPrompt combines the base system prompt with rendered
// organizational context.
func ComposeSystemPrompt(promptContext string, input *ContextInput) string {
	base := SystemPrompt(promptContext)
	contextPrompt := BuildContextPrompt(input)
	if contextPrompt == "" {
		return base
	}
	return base + "\n\n" + contextPrompt + "\n\nPlease tailor your response to this specific organizational context."
}

// sortedFrameworks gives a stable rendering order for the status map.
func sortedFrameworks(status map[string]ComplianceStatus) []string {
	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
