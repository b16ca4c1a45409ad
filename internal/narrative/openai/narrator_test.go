package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riftlabs/riftotc/internal/models"
	"github.com/riftlabs/riftotc/internal/narrative"
)

func TestBuildPrompt(t *testing.T) {
	card := &narrative.Scorecard{
		TokenName:   "Uniswap",
		TokenSymbol: "uni",
		LockPeriod:  4,
		Scores: models.ScoreBreakdown{
			Technical:   6.5,
			Risk:        4.2,
			Sentiment:   5.5,
			OnChain:     6.0,
			Fundamental: 7.1,
			Overall:     6.2,
		},
		TechnicalDetails: []string{"RSI Neutral (55.0)"},
		RiskDetails:      []string{"Healthy risk profile"},
	}

	prompt := buildPrompt(card)

	assert.Contains(t, prompt, "TOKEN: Uniswap (UNI)")
	assert.Contains(t, prompt, "Lock Period: 4 weeks")
	assert.Contains(t, prompt, "TECHNICAL SCORE: 6.5/10")
	assert.Contains(t, prompt, "RISK SCORE: 4.2/10 (Higher = Worse)")
	assert.Contains(t, prompt, "- RSI Neutral (55.0)")
	assert.Contains(t, prompt, "- Healthy risk profile")
	assert.Contains(t, prompt, "OVERALL SYSTEM SCORE: 6.2/10")
}

func TestNewNarrator_DefaultModel(t *testing.T) {
	n := NewNarrator("test-key", "")
	assert.NotEmpty(t, n.model)
}
