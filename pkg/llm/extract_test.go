package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFrameworks(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "no references",
			response: "You should enable MFA for all accounts.",
			want:     nil,
		},
		{
			name:     "single framework by acronym",
			response: "Under NIST guidance, start with an asset inventory.",
			want:     []string{"NIST"},
		},
		{
			name:     "case insensitive",
			response: "soc 2 type ii requires evidence collection over time.",
			want:     []string{"SOC2"},
		},
		{
			name:     "keyword phrase without acronym",
			response: "The cybersecurity framework's Identify function comes first.",
			want:     []string{"NIST"},
		},
		{
			name:     "multiple frameworks sorted",
			response: "Map your SOC 2 controls against ISO 27001 and check GDPR exposure.",
			want:     []string{"GDPR", "ISO27001", "SOC2"},
		},
		{
			name:     "pci by full phrase",
			response: "Payment Card Industry requirements apply to the card data environment.",
			want:     []string{"PCI DSS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFrameworks(tt.response))
		})
	}
}

func TestScoreConfidence(t *testing.T) {
	t.Run("short response without context", func(t *testing.T) {
		got := ScoreConfidence("ok", false)
		assert.InDelta(t, 0.7, got, 0.01)
	})

	t.Run("grows with length", func(t *testing.T) {
		short := ScoreConfidence(strings.Repeat("a", 100), false)
		long := ScoreConfidence(strings.Repeat("a", 1500), false)
		assert.Greater(t, long, short)
	})

	t.Run("caps at 0.95 without context", func(t *testing.T) {
		got := ScoreConfidence(strings.Repeat("a", 10000), false)
		assert.Equal(t, 0.95, got)
	})

	t.Run("company context adds boost", func(t *testing.T) {
		without := ScoreConfidence("some answer", false)
		with := ScoreConfidence("some answer", true)
		assert.InDelta(t, 0.05, with-without, 0.0001)
	})
}
