package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/riftlabs/riftotc/internal/models"
)

// Indicator windows, in daily bars.
const (
	rsiPeriod        = 14
	volatilityPeriod = 30
	smaPeriod        = 20
)

// TechnicalScorer computes RSI, annualized volatility and SMA deviation from
// an OHLC series and folds them into a 0-10 technical score.
type TechnicalScorer struct {
	closes []float64
}

// TechnicalResult 技术面评分结果
type TechnicalResult struct {
	Score      float64             `json:"score"`
	Indicators TechnicalIndicators `json:"indicators"`
	Details    []string            `json:"details"`
}

type TechnicalIndicators struct {
	RSI          float64 `json:"rsi"`
	Volatility   float64 `json:"volatility"` // annualized, percent
	SMADeviation float64 `json:"sma_deviation"`
}

// NewTechnicalScorer creates a scorer over the given series. Candles are
// sorted by timestamp before close prices are extracted.
func NewTechnicalScorer(candles []models.Candle) *TechnicalScorer {
	sorted := make([]models.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	closes := make([]float64, len(sorted))
	for i, c := range sorted {
		closes[i] = c.Close
	}
	return &TechnicalScorer{closes: closes}
}

// RSI calculates the Relative Strength Index over the last `period` deltas.
// Returns neutral 50 with fewer than period+1 closes, 100 when there are no
// losing days in the window.
func (t *TechnicalScorer) RSI(period int) float64 {
	if len(t.closes) < period+1 {
		return 50.0
	}

	var avgGain, avgLoss float64
	start := len(t.closes) - period
	for i := start; i < len(t.closes); i++ {
		delta := t.closes[i] - t.closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// Volatility calculates annualized volatility (percent) from the standard
// deviation of the last `period` daily log returns. Returns 0 when the series
// is shorter than the window.
func (t *TechnicalScorer) Volatility(period int) float64 {
	if len(t.closes) < period {
		return 0.0
	}

	returns := make([]float64, 0, len(t.closes)-1)
	for i := 1; i < len(t.closes); i++ {
		returns = append(returns, math.Log(t.closes[i]/t.closes[i-1]))
	}

	// Exactly period closes yields period-1 returns; use what exists.
	window := period
	if window > len(returns) {
		window = len(returns)
	}
	recent := returns[len(returns)-window:]
	var mean float64
	for _, r := range recent {
		mean += r
	}
	mean /= float64(len(recent))

	var variance float64
	for _, r := range recent {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(recent))

	// Crypto trades every day of the year.
	return math.Sqrt(variance) * math.Sqrt(365) * 100
}

// SMADeviation calculates the percent gap between the latest close and the
// simple moving average of the last `period` closes.
func (t *TechnicalScorer) SMADeviation(period int) float64 {
	if len(t.closes) < period {
		return 0.0
	}

	var sma float64
	for _, c := range t.closes[len(t.closes)-period:] {
		sma += c
	}
	sma /= float64(period)

	return ((t.closes[len(t.closes)-1] - sma) / sma) * 100
}

// Score combines the indicators into a 0-10 technical score with the
// human-readable breakdown used for narrative context.
func (t *TechnicalScorer) Score() TechnicalResult {
	if len(t.closes) == 0 {
		return TechnicalResult{
			Score:   5.0,
			Details: []string{"No OHLC data available"},
		}
	}

	rsi := t.RSI(rsiPeriod)
	volatility := t.Volatility(volatilityPeriod)
	smaDev := t.SMADeviation(smaPeriod)

	score := 5.0
	var details []string

	// RSI: oversold is a buy signal, overbought a correction risk.
	switch {
	case rsi < 30:
		score += 2.0
		details = append(details, fmt.Sprintf("RSI Oversold (%.1f) - Buy signal", rsi))
	case rsi > 70:
		score -= 1.0
		details = append(details, fmt.Sprintf("RSI Overbought (%.1f) - risk of correction", rsi))
	default:
		score += 0.5
		details = append(details, fmt.Sprintf("RSI Neutral (%.1f)", rsi))
	}

	// Volatility: too hot is dangerous for short locks, too flat caps upside.
	switch {
	case volatility > 100:
		score -= 2.0
		details = append(details, fmt.Sprintf("Extremely High Volatility (%.0f%%)", volatility))
	case volatility > 60:
		score -= 1.0
		details = append(details, fmt.Sprintf("High Volatility (%.0f%%)", volatility))
	case volatility < 20:
		score -= 1.0
		details = append(details, fmt.Sprintf("Low Volatility (%.0f%%) - Low return potential", volatility))
	default:
		score += 1.5
		details = append(details, fmt.Sprintf("Healthy Volatility (%.0f%%)", volatility))
	}

	// Trend relative to SMA20.
	if smaDev > 0 {
		score += 1.0
		details = append(details, fmt.Sprintf("Price above SMA20 (+%.1f%%)", smaDev))
		if smaDev > 20 {
			// Parabolic, mean reversion risk.
			score -= 0.5
			details = append(details, "Price extended too far above SMA")
		}
	} else {
		score -= 1.0
		details = append(details, fmt.Sprintf("Price below SMA20 (%.1f%%)", smaDev))
	}

	return TechnicalResult{
		Score: round1(clamp(score, 0, 10)),
		Indicators: TechnicalIndicators{
			RSI:          round1(rsi),
			Volatility:   round1(volatility),
			SMADeviation: round1(smaDev),
		},
		Details: details,
	}
}
