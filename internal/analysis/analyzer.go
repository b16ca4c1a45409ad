// Package analysis orchestrates a token analysis: market snapshot in,
// deterministic five-pillar scorecard out, with optional AI narrative on top.
// The numeric pipeline never depends on the narrator; narration failures
// degrade to a templated deterministic summary.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/riftlabs/riftotc/internal/market"
	"github.com/riftlabs/riftotc/internal/models"
	"github.com/riftlabs/riftotc/internal/narrative"
	"github.com/riftlabs/riftotc/internal/scoring"
)

// ohlcDays is the history window pulled for the technical scorer and the
// 1-year sparkline.
const ohlcDays = 365

// maxKeyRisks bounds the risk-note list regardless of narrator verbosity.
const maxKeyRisks = 3

// Outcome couples the score report with the scorecard handed to narrators.
type Outcome struct {
	Analysis *models.TokenAnalysis
	Card     *narrative.Scorecard
}

// Score runs the five scorers and the aggregator over a snapshot. Pure and
// deterministic: the same snapshot, candles, trending flag and lock period
// always produce the same report. The technical scorer runs first because
// the risk scorer consumes its volatility; the remaining four pillars run
// concurrently.
func Score(snapshot *models.MarketSnapshot, candles []models.Candle, isTrending bool, lockPeriod int) *Outcome {
	techResult := scoring.NewTechnicalScorer(candles).Score()

	volatility := techResult.Indicators.Volatility
	if len(candles) == 0 {
		// No history at all: assume a moderate volatility for risk purposes
		// instead of treating the token as perfectly calm.
		volatility = 50.0
	}

	var (
		wg          sync.WaitGroup
		riskResult  scoring.RiskResult
		sentResult  scoring.SentimentResult
		chainResult scoring.OnChainResult
		fundResult  scoring.FundamentalResult
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		riskResult = scoring.NewRiskScorer(snapshot, volatility, lockPeriod).Score()
	}()
	go func() {
		defer wg.Done()
		sentResult = scoring.NewSentimentScorer(snapshot, isTrending).Score()
	}()
	go func() {
		defer wg.Done()
		chainResult = scoring.NewOnChainScorer(snapshot).Score()
	}()
	go func() {
		defer wg.Done()
		fundResult = scoring.NewFundamentalScorer(snapshot, isTrending).Score()
	}()
	wg.Wait()

	overall := scoring.Overall(techResult.Score, riskResult.Score, sentResult.Score, chainResult.Score, fundResult.Score)

	scores := models.ScoreBreakdown{
		Technical:   techResult.Score,
		Risk:        riskResult.Score,
		Sentiment:   sentResult.Score,
		OnChain:     chainResult.Score,
		Fundamental: fundResult.Score,
		Overall:     overall,
	}

	priceHistory := make([]float64, len(candles))
	for i, c := range candles {
		priceHistory[i] = c.Close
	}

	analysis := &models.TokenAnalysis{
		TokenID:        snapshot.ID,
		TokenName:      snapshot.Name,
		TokenSymbol:    snapshot.Symbol,
		CurrentPrice:   snapshot.CurrentPrice,
		MarketCap:      snapshot.MarketCap,
		Scores:         scores,
		Recommendation: scoring.Recommendation(overall),
		ExpectedReturn: scoring.ProjectReturn(snapshot.PriceChange7d, volatility, lockPeriod),
		Sparkline7d:    snapshot.Sparkline7d,
		PriceHistory1Y: priceHistory,
		Image:          snapshot.Image,
	}

	card := &narrative.Scorecard{
		TokenName:          snapshot.Name,
		TokenSymbol:        snapshot.Symbol,
		LockPeriod:         lockPeriod,
		Scores:             scores,
		TechnicalDetails:   techResult.Details,
		RiskDetails:        riskResult.Details,
		SentimentDetails:   sentResult.Details,
		OnChainDetails:     chainResult.Details,
		FundamentalDetails: fundResult.Details,
	}

	return &Outcome{Analysis: analysis, Card: card}
}

// Analyzer wires the deterministic core to its external collaborators.
type Analyzer struct {
	provider market.Provider
	candles  market.CandleSource
	narrator narrative.Narrator
	logger   *slog.Logger
}

func NewAnalyzer(provider market.Provider, candles market.CandleSource, narrator narrative.Narrator, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		provider: provider,
		candles:  candles,
		narrator: narrator,
		logger:   logger,
	}
}

// Analyze fetches the snapshot, trending set and OHLC history for a token,
// scores it and attaches a narrative. Snapshot failures propagate (not found,
// rate limited); trending, OHLC and narrator failures all degrade to
// documented defaults without failing the analysis.
func (a *Analyzer) Analyze(ctx context.Context, tokenID string, lockPeriod int) (*models.TokenAnalysis, error) {
	snapshot, err := a.provider.Snapshot(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market snapshot: %w", err)
	}

	isTrending := false
	if trending, err := a.provider.Trending(ctx); err != nil {
		a.logger.Error("failed to fetch trending set", "error", err)
	} else {
		for _, ref := range trending {
			if ref.ID == tokenID {
				isTrending = true
				break
			}
		}
	}

	ref := models.TokenRef{ID: snapshot.ID, Symbol: snapshot.Symbol}
	candles, err := a.candles.Candles(ctx, ref, ohlcDays)
	if err != nil {
		a.logger.Error("failed to fetch OHLC history", "token", tokenID, "error", err)
		candles = nil
	}

	outcome := Score(snapshot, candles, isTrending, lockPeriod)
	a.narrate(ctx, snapshot, outcome, lockPeriod)

	return outcome.Analysis, nil
}

// Chat answers a question about a finished analysis, falling back to a fixed
// apology when the narrator is unavailable.
func (a *Analyzer) Chat(ctx context.Context, message string, analysis *models.TokenAnalysis) string {
	if a.narrator != nil {
		reply, err := a.narrator.Chat(ctx, message, analysis)
		if err == nil {
			return reply
		}
		a.logger.Error("narrator chat failed", "error", err)
	}
	return "I'm having trouble connecting to my brain right now. Please try again."
}

// narrate fills Reasoning and KeyRisks. The narrator only ever contributes
// prose; scores come from the deterministic outcome and stay untouched.
func (a *Analyzer) narrate(ctx context.Context, snapshot *models.MarketSnapshot, outcome *Outcome, lockPeriod int) {
	if a.narrator != nil {
		result, err := a.narrator.Narrate(ctx, outcome.Card)
		if err == nil && result.Reasoning != "" {
			outcome.Analysis.Reasoning = result.Reasoning
			outcome.Analysis.KeyRisks = capRisks(result.KeyRisks)
			return
		}
		if err != nil {
			a.logger.Error("narrator failed, using fallback summary", "error", err)
		}
	}

	outcome.Analysis.Reasoning = fallbackReasoning(snapshot, outcome.Analysis.Scores, lockPeriod)
	outcome.Analysis.KeyRisks = fallbackKeyRisks(snapshot, outcome.Analysis.Scores, lockPeriod)
}

func capRisks(risks []string) []string {
	if len(risks) > maxKeyRisks {
		return risks[:maxKeyRisks]
	}
	return risks
}
