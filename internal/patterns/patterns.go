// Package patterns runs a fixed battery of behavioral heuristics over a
// scored trade set. Detection is read-only; the trade set is never mutated.
package patterns

import (
	"context"
	"fmt"
	"sort"

	"tradeaudit/internal/discipline"
	"tradeaudit/internal/logger"
	"tradeaudit/internal/types"
)

// Detector holds the heuristic thresholds. Zero-value thresholds are not
// meaningful; construct with NewDetector.
type Detector struct {
	MinTrades          int
	MaxTradesPerDay    float64
	LossStreakLength   int
	MismatchWinRate    float64
	ChargeImpactPct    float64
	LowDisciplineScore float64
	DirectionBiasRatio float64
}

func NewDetector() *Detector {
	return &Detector{
		MinTrades:          3,
		MaxTradesPerDay:    5,
		LossStreakLength:   5,
		MismatchWinRate:    60,
		ChargeImpactPct:    50,
		LowDisciplineScore: 60,
		DirectionBiasRatio: 2,
	}
}

// Detect runs every heuristic and collects the findings. Fewer than
// MinTrades trades yields no findings at all.
func (d *Detector) Detect(ctx context.Context, trades []types.Trade) []types.PatternFinding {
	findings := []types.PatternFinding{}
	if len(trades) < d.MinTrades {
		return findings
	}

	ordered := make([]types.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryTime.Before(ordered[j].EntryTime)
	})

	stats := discipline.Aggregate(ordered)

	checks := []func() *types.PatternFinding{
		func() *types.PatternFinding { return d.checkOvertrading(ordered) },
		func() *types.PatternFinding { return d.checkLossStreak(ordered) },
		func() *types.PatternFinding { return d.checkWinRateMismatch(stats) },
		func() *types.PatternFinding { return d.checkChargeImpact(stats) },
		func() *types.PatternFinding { return d.checkLowDiscipline(stats) },
		func() *types.PatternFinding { return d.checkDirectionBias(stats) },
	}
	for _, check := range checks {
		if f := check(); f != nil {
			findings = append(findings, *f)
			logger.Debug(ctx, "Behavioral pattern detected",
				"pattern", f.Name, "severity", f.Severity)
		}
	}

	logger.Info(ctx, "Pattern detection finished",
		"trades", len(trades), "findings", len(findings))
	return findings
}

// checkOvertrading flags a mean trade count per active calendar day above
// the threshold. Trades without a parseable entry timestamp are ignored.
func (d *Detector) checkOvertrading(trades []types.Trade) *types.PatternFinding {
	perDay := map[string]int{}
	dated := 0
	for _, t := range trades {
		if t.EntryTime.IsZero() {
			continue
		}
		perDay[t.EntryTime.Format("2006-01-02")]++
		dated++
	}
	if len(perDay) == 0 {
		return nil
	}

	mean := float64(dated) / float64(len(perDay))
	if mean <= d.MaxTradesPerDay {
		return nil
	}
	return &types.PatternFinding{
		Name:           "Overtrading",
		Severity:       types.SeverityHigh,
		Description:    fmt.Sprintf("Average %.1f trades/day.", mean),
		Recommendation: "Focus on quality over quantity. Set a daily trade limit.",
	}
}

// checkLossStreak flags the longest run of consecutive non-winning trades
// in entry-time order.
func (d *Detector) checkLossStreak(trades []types.Trade) *types.PatternFinding {
	streak, longest := 0, 0
	for _, t := range trades {
		if t.NetPnL.IsPositive() {
			streak = 0
			continue
		}
		streak++
		if streak > longest {
			longest = streak
		}
	}
	if longest < d.LossStreakLength {
		return nil
	}
	return &types.PatternFinding{
		Name:           "Loss Streaks",
		Severity:       types.SeverityHigh,
		Description:    fmt.Sprintf("%d consecutive losses detected.", longest),
		Recommendation: "Take a break after 3 losses. Review strategy.",
	}
}

// checkWinRateMismatch flags a high win rate paired with a profit factor
// below 1 - the signature of cutting winners and holding losers.
func (d *Detector) checkWinRateMismatch(stats types.PortfolioStats) *types.PatternFinding {
	if stats.WinRate <= d.MismatchWinRate || stats.ProfitFactor >= 1 {
		return nil
	}
	return &types.PatternFinding{
		Name:           "Cutting Winners / Holding Losers",
		Severity:       types.SeverityHigh,
		Description:    fmt.Sprintf("High win rate (%.1f%%) but profit factor < 1.", stats.WinRate),
		Recommendation: "Let winners run longer. Cut losses faster.",
	}
}

// checkChargeImpact flags total charges above half of total net profit.
// Only evaluated when the portfolio is net positive.
func (d *Detector) checkChargeImpact(stats types.PortfolioStats) *types.PatternFinding {
	if !stats.NetPnL.IsPositive() {
		return nil
	}
	chargePct := stats.TotalCharges.Div(stats.NetPnL).InexactFloat64() * 100
	if chargePct <= d.ChargeImpactPct {
		return nil
	}
	return &types.PatternFinding{
		Name:           "High Brokerage Impact",
		Severity:       types.SeverityMedium,
		Description:    fmt.Sprintf("Charges are %.1f%% of profits.", chargePct),
		Recommendation: "Reduce trade frequency or increase position size.",
	}
}

func (d *Detector) checkLowDiscipline(stats types.PortfolioStats) *types.PatternFinding {
	if stats.AvgDisciplineScore >= d.LowDisciplineScore {
		return nil
	}
	return &types.PatternFinding{
		Name:           "Low Discipline",
		Severity:       types.SeverityHigh,
		Description:    fmt.Sprintf("Average discipline score: %.1f/100.", stats.AvgDisciplineScore),
		Recommendation: "Review trades with F/D grades. Identify mistakes.",
	}
}

// checkDirectionBias flags one direction outperforming the other by more
// than the configured ratio in average per-trade P&L magnitude. Requires
// trades in both directions.
func (d *Detector) checkDirectionBias(stats types.PortfolioStats) *types.PatternFinding {
	if stats.LongTrades == 0 || stats.ShortTrades == 0 {
		return nil
	}

	longAvg := stats.LongPnL.InexactFloat64() / float64(stats.LongTrades)
	shortAvg := stats.ShortPnL.InexactFloat64() / float64(stats.ShortTrades)

	longMag, shortMag := abs(longAvg), abs(shortAvg)
	if longMag <= shortMag*d.DirectionBiasRatio && shortMag <= longMag*d.DirectionBiasRatio {
		return nil
	}

	stronger, weaker := types.DirectionLong, types.DirectionShort
	if shortAvg > longAvg {
		stronger, weaker = types.DirectionShort, types.DirectionLong
	}
	return &types.PatternFinding{
		Name:           "Direction Bias",
		Severity:       types.SeverityMedium,
		Description:    fmt.Sprintf("%s trades performing significantly better.", stronger),
		Recommendation: fmt.Sprintf("Focus more on %s setups or improve %s strategy.", stronger, weaker),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
