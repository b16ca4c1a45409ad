package market

import (
	"context"
	"fmt"

	"github.com/riftlabs/riftotc/internal/models"
)

// Logger is the narrow logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// MultiCandleSource tries candle sources in order until one returns a
// non-empty series.
type MultiCandleSource struct {
	sources []CandleSource
	logger  Logger
}

func NewMultiCandleSource(sources []CandleSource, logger Logger) *MultiCandleSource {
	return &MultiCandleSource{sources: sources, logger: logger}
}

func (m *MultiCandleSource) Name() string {
	return "multi"
}

// Candles implements CandleSource. Only when every source fails with an error
// is an error returned; a clean empty series short-circuits to empty, since
// the token genuinely has no history.
func (m *MultiCandleSource) Candles(ctx context.Context, ref models.TokenRef, days int) ([]models.Candle, error) {
	var lastErr error

	for _, source := range m.sources {
		candles, err := source.Candles(ctx, ref, days)
		if err != nil {
			m.logger.Error("failed to fetch candles", "source", source.Name(), "token", ref.ID, "error", err)
			lastErr = err
			continue
		}
		if len(candles) > 0 {
			m.logger.Info("fetched candles", "source", source.Name(), "token", ref.ID, "count", len(candles))
		}
		return candles, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to fetch candles from all sources: %w", lastErr)
	}
	return nil, nil
}
