// Package discipline assigns a 0-100 quality score to each reconstructed
// trade and aggregates portfolio-level statistics over a trade set.
package discipline

import (
	"tradeaudit/internal/types"
)

// Scorer computes the composite discipline score from five independently
// capped components: P&L performance (30), holding period (20), position
// sizing (20), charge efficiency (15) and execution category (15).
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns a new slice with discipline score, grade, win flag and
// return percentage populated on every trade. The input slice is untouched.
func (s *Scorer) Score(trades []types.Trade) []types.Trade {
	if len(trades) == 0 {
		return nil
	}
	out := make([]types.Trade, len(trades))
	for i, t := range trades {
		t.Win = t.NetPnL.IsPositive()
		t.ReturnPct = returnPct(t)
		t.DisciplineScore = s.scoreTrade(t)
		t.Grade = ScoreToGrade(t.DisciplineScore)
		out[i] = t
	}
	return out
}

func (s *Scorer) scoreTrade(t types.Trade) int {
	score := s.scorePnL(t)
	score += s.scoreHoldingPeriod(t.HoldingMinutes)
	score += s.scorePositionSize(t.PositionValue().InexactFloat64())
	score += s.scoreChargeRatio(t)
	score += s.scoreTradeClass(t.Classification)

	// Component caps make exceeding 100 impossible; the clamp is a safety net.
	if score > 100 {
		score = 100
	}
	return score
}

// scorePnL awards up to 30 points. Wins are tiered by return magnitude;
// losses are rewarded inversely for being kept small.
func (s *Scorer) scorePnL(t types.Trade) int {
	rp := t.ReturnPct
	if t.NetPnL.IsPositive() {
		switch {
		case rp > 2:
			return 30
		case rp > 1:
			return 25
		case rp > 0.5:
			return 20
		default:
			return 15
		}
	}
	switch abs := -rp; {
	case abs < 0.5:
		return 15
	case abs < 1:
		return 10
	case abs < 2:
		return 5
	default:
		return 0
	}
}

// scoreHoldingPeriod awards up to 20 points. A negative span is a
// data-quality artifact, not bad trading, so it takes the neutral tier.
func (s *Scorer) scoreHoldingPeriod(mins int64) int {
	switch {
	case mins < 0:
		return 10
	case mins < 5:
		return 5
	case mins >= 15 && mins <= 240:
		return 20
	case mins > 240 && mins <= 480:
		return 15
	case mins > types.IntradayCutoffMinutes:
		return 18
	default:
		return 10
	}
}

// scorePositionSize awards up to 20 points based on capital at entry.
func (s *Scorer) scorePositionSize(value float64) int {
	switch {
	case value >= 10000 && value <= 500000:
		return 20
	case value >= 5000 && value < 10000:
		return 15
	case value > 500000 && value <= 1000000:
		return 10
	case value > 1000000:
		return 5
	default:
		return 10
	}
}

// scoreChargeRatio awards up to 15 points for keeping fees small relative
// to the trade's net result. A zero net P&L counts as fully eaten by fees.
func (s *Scorer) scoreChargeRatio(t types.Trade) int {
	chargesPct := 100.0
	if !t.NetPnL.IsZero() {
		chargesPct = t.Charges.Total.Div(t.NetPnL.Abs()).InexactFloat64() * 100
	}
	switch {
	case chargesPct < 10:
		return 15
	case chargesPct < 25:
		return 12
	case chargesPct < 50:
		return 8
	default:
		return 5
	}
}

func (s *Scorer) scoreTradeClass(class string) int {
	switch class {
	case types.ClassIntraday:
		return 15
	case types.ClassDelivery:
		return 12
	default:
		return 10
	}
}

// ScoreToGrade maps a numeric discipline score to a letter grade.
func ScoreToGrade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func returnPct(t types.Trade) float64 {
	value := t.PositionValue()
	if !value.IsPositive() {
		return 0
	}
	return t.NetPnL.Div(value).InexactFloat64() * 100
}
