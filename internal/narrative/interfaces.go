// Package narrative defines the advisory prose layer. Narrators interpret a
// finished deterministic scorecard; they never decide scores, and a narrator
// failure must never fail the numeric pipeline.
package narrative

import (
	"context"

	"github.com/riftlabs/riftotc/internal/models"
)

// Scorecard is the deterministic input handed to a narrator: final scores
// plus the per-pillar detail strings the scorers emitted.
type Scorecard struct {
	TokenName   string
	TokenSymbol string
	LockPeriod  int // weeks

	Scores models.ScoreBreakdown

	TechnicalDetails   []string
	RiskDetails        []string
	SentimentDetails   []string
	OnChainDetails     []string
	FundamentalDetails []string
}

// Narrative 叙述结果（仅供展示，不参与计分）
type Narrative struct {
	Reasoning string   `json:"reasoning"`
	KeyRisks  []string `json:"key_risks"`
}

// Narrator generates prose around a scorecard.
type Narrator interface {
	// Narrate produces a beginner-friendly explanation of the scorecard.
	Narrate(ctx context.Context, card *Scorecard) (*Narrative, error)

	// Chat answers a user question about a finished analysis.
	Chat(ctx context.Context, message string, analysis *models.TokenAnalysis) (string, error)
}
