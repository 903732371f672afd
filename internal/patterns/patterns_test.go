package patterns

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradeaudit/internal/types"
)

var day = time.Date(2025, 4, 7, 9, 30, 0, 0, time.FixedZone("IST", 19800))

func patternTrade(direction string, netPnL float64, score int, entry time.Time) types.Trade {
	return types.Trade{
		Symbol:          "TEST",
		Direction:       direction,
		NetPnL:          decimal.NewFromFloat(netPnL),
		Charges:         types.Charges{Total: decimal.NewFromInt(5)},
		DisciplineScore: score,
		EntryTime:       entry,
	}
}

func findingNames(findings []types.PatternFinding) map[string]bool {
	names := map[string]bool{}
	for _, f := range findings {
		names[f.Name] = true
	}
	return names
}

func TestDetectBelowMinimum(t *testing.T) {
	d := NewDetector()
	trades := []types.Trade{
		patternTrade(types.DirectionLong, -100, 40, day),
		patternTrade(types.DirectionLong, -100, 40, day),
	}

	findings := d.Detect(context.Background(), trades)
	if findings == nil {
		t.Fatal("Expected empty slice, not nil")
	}
	if len(findings) != 0 {
		t.Errorf("Expected no findings below the minimum trade count, got %d", len(findings))
	}
}

func TestOvertradingFires(t *testing.T) {
	d := NewDetector()
	var trades []types.Trade
	for i := 0; i < 6; i++ {
		trades = append(trades, patternTrade(types.DirectionLong, 100, 90, day.Add(time.Duration(i)*time.Minute)))
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if !names["Overtrading"] {
		t.Error("Expected Overtrading with 6 trades on one day")
	}
}

func TestOvertradingSkipsUndatedTrades(t *testing.T) {
	d := NewDetector()
	var trades []types.Trade
	for i := 0; i < 6; i++ {
		trades = append(trades, patternTrade(types.DirectionLong, 100, 90, time.Time{}))
	}
	trades = append(trades,
		patternTrade(types.DirectionLong, 100, 90, day),
		patternTrade(types.DirectionLong, 100, 90, day.AddDate(0, 0, 1)))

	names := findingNames(d.Detect(context.Background(), trades))
	if names["Overtrading"] {
		t.Error("Undated trades must not inflate the per-day mean")
	}
}

func TestLossStreakFires(t *testing.T) {
	d := NewDetector()
	var trades []types.Trade
	trades = append(trades, patternTrade(types.DirectionLong, 100, 90, day))
	for i := 1; i <= 5; i++ {
		trades = append(trades, patternTrade(types.DirectionLong, -50, 60, day.Add(time.Duration(i)*time.Hour)))
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if !names["Loss Streaks"] {
		t.Error("Expected Loss Streaks for 5 consecutive losses")
	}
}

func TestLossStreakCountsBreakeven(t *testing.T) {
	d := NewDetector()
	var trades []types.Trade
	for i := 0; i < 5; i++ {
		pnl := -50.0
		if i == 2 {
			pnl = 0 // breakeven does not reset the streak
		}
		trades = append(trades, patternTrade(types.DirectionLong, pnl, 60, day.Add(time.Duration(i)*time.Hour)))
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if !names["Loss Streaks"] {
		t.Error("Breakeven trades must extend a loss streak")
	}
}

func TestLossStreakOrdersByEntryTime(t *testing.T) {
	d := NewDetector()
	// The streak only exists in chronological order; the ledger arrives shuffled.
	trades := []types.Trade{
		patternTrade(types.DirectionLong, -50, 60, day.Add(3*time.Hour)),
		patternTrade(types.DirectionLong, 100, 90, day.Add(5*time.Hour)),
		patternTrade(types.DirectionLong, -50, 60, day.Add(1*time.Hour)),
		patternTrade(types.DirectionLong, -50, 60, day.Add(4*time.Hour)),
		patternTrade(types.DirectionLong, -50, 60, day),
		patternTrade(types.DirectionLong, -50, 60, day.Add(2*time.Hour)),
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if !names["Loss Streaks"] {
		t.Error("Detection must sort by entry time before streak counting")
	}
}

func TestWinRateMismatchFires(t *testing.T) {
	d := NewDetector()
	// 4 small wins, 1 large loss: win rate 80%, profit factor < 1.
	trades := []types.Trade{
		patternTrade(types.DirectionLong, 10, 80, day),
		patternTrade(types.DirectionLong, 10, 80, day.Add(time.Hour)),
		patternTrade(types.DirectionLong, 10, 80, day.Add(2*time.Hour)),
		patternTrade(types.DirectionLong, 10, 80, day.Add(3*time.Hour)),
		patternTrade(types.DirectionLong, -500, 40, day.Add(4*time.Hour)),
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if !names["Cutting Winners / Holding Losers"] {
		t.Error("Expected mismatch finding for 80% win rate with profit factor < 1")
	}
}

func TestChargeImpactOnlyWhenProfitable(t *testing.T) {
	d := NewDetector()

	// Net positive, charges 15 vs net 24: over 50%.
	profitable := []types.Trade{
		patternTrade(types.DirectionLong, 8, 80, day),
		patternTrade(types.DirectionLong, 8, 80, day.Add(time.Hour)),
		patternTrade(types.DirectionLong, 8, 80, day.Add(2*time.Hour)),
	}
	names := findingNames(d.Detect(context.Background(), profitable))
	if !names["High Brokerage Impact"] {
		t.Error("Expected charge impact finding when fees exceed half the profit")
	}

	// Net negative portfolio: the check must stay silent.
	losing := []types.Trade{
		patternTrade(types.DirectionLong, -100, 60, day),
		patternTrade(types.DirectionLong, -100, 60, day.Add(time.Hour)),
		patternTrade(types.DirectionLong, -100, 60, day.Add(2*time.Hour)),
	}
	names = findingNames(d.Detect(context.Background(), losing))
	if names["High Brokerage Impact"] {
		t.Error("Charge impact must not fire on a net-losing portfolio")
	}
}

func TestLowDisciplineFires(t *testing.T) {
	d := NewDetector()
	trades := []types.Trade{
		patternTrade(types.DirectionLong, 100, 40, day),
		patternTrade(types.DirectionLong, 100, 50, day.Add(time.Hour)),
		patternTrade(types.DirectionLong, 100, 55, day.Add(2*time.Hour)),
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if !names["Low Discipline"] {
		t.Error("Expected Low Discipline for average score below 60")
	}
}

func TestDirectionBiasFires(t *testing.T) {
	d := NewDetector()
	trades := []types.Trade{
		patternTrade(types.DirectionLong, 300, 80, day),
		patternTrade(types.DirectionLong, 300, 80, day.Add(time.Hour)),
		patternTrade(types.DirectionShort, 50, 80, day.Add(2*time.Hour)),
	}

	findings := d.Detect(context.Background(), trades)
	var bias *types.PatternFinding
	for i := range findings {
		if findings[i].Name == "Direction Bias" {
			bias = &findings[i]
		}
	}
	if bias == nil {
		t.Fatal("Expected Direction Bias when long average is 6x the short average")
	}
	if bias.Severity != types.SeverityMedium {
		t.Errorf("Expected medium severity, got %s", bias.Severity)
	}
}

func TestDirectionBiasNeedsBothDirections(t *testing.T) {
	d := NewDetector()
	trades := []types.Trade{
		patternTrade(types.DirectionLong, 300, 80, day),
		patternTrade(types.DirectionLong, 10, 80, day.Add(time.Hour)),
		patternTrade(types.DirectionLong, 500, 80, day.Add(2*time.Hour)),
	}

	names := findingNames(d.Detect(context.Background(), trades))
	if names["Direction Bias"] {
		t.Error("Direction bias requires trades in both directions")
	}
}

func TestHealthyPortfolioNoFindings(t *testing.T) {
	d := NewDetector()
	trades := []types.Trade{
		patternTrade(types.DirectionLong, 100, 85, day),
		patternTrade(types.DirectionLong, -60, 75, day.AddDate(0, 0, 1)),
		patternTrade(types.DirectionShort, 90, 90, day.AddDate(0, 0, 2)),
		patternTrade(types.DirectionShort, -55, 88, day.AddDate(0, 0, 3)),
	}

	findings := d.Detect(context.Background(), trades)
	if len(findings) != 0 {
		t.Errorf("Expected no findings for a healthy portfolio, got %v", findingNames(findings))
	}
}
