package discipline

import (
	"github.com/shopspring/decimal"

	"tradeaudit/internal/types"
)

// Aggregate computes portfolio statistics over a scored trade set. A trade
// with net P&L above zero counts as a win; breakeven counts as a loss.
func Aggregate(trades []types.Trade) types.PortfolioStats {
	stats := types.PortfolioStats{}
	if len(trades) == 0 {
		return stats
	}

	var winSum, lossSum decimal.Decimal
	var scoreSum float64
	var longWins, shortWins int

	for _, t := range trades {
		stats.TotalTrades++
		stats.NetPnL = stats.NetPnL.Add(t.NetPnL)
		stats.GrossPnL = stats.GrossPnL.Add(t.GrossPnL)
		stats.TotalCharges = stats.TotalCharges.Add(t.Charges.Total)
		stats.TotalBrokerage = stats.TotalBrokerage.Add(t.Charges.Brokerage)
		stats.TotalSTT = stats.TotalSTT.Add(t.Charges.STT)
		stats.TotalGST = stats.TotalGST.Add(t.Charges.GST)
		stats.TotalMisc = stats.TotalMisc.Add(t.Charges.Misc)
		scoreSum += float64(t.DisciplineScore)

		if t.NetPnL.IsPositive() {
			stats.WinningTrades++
			winSum = winSum.Add(t.NetPnL)
			if stats.WinningTrades == 1 || t.NetPnL.GreaterThan(stats.LargestWin) {
				stats.LargestWin = t.NetPnL
			}
		} else {
			stats.LosingTrades++
			lossSum = lossSum.Add(t.NetPnL)
			if stats.LosingTrades == 1 || t.NetPnL.LessThan(stats.LargestLoss) {
				stats.LargestLoss = t.NetPnL
			}
		}

		switch t.Direction {
		case types.DirectionLong:
			stats.LongTrades++
			stats.LongPnL = stats.LongPnL.Add(t.NetPnL)
			if t.NetPnL.IsPositive() {
				longWins++
			}
		case types.DirectionShort:
			stats.ShortTrades++
			stats.ShortPnL = stats.ShortPnL.Add(t.NetPnL)
			if t.NetPnL.IsPositive() {
				shortWins++
			}
		}
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	stats.AvgDisciplineScore = scoreSum / float64(stats.TotalTrades)

	if stats.WinningTrades > 0 {
		stats.AvgWin = winSum.Div(decimal.NewFromInt(int64(stats.WinningTrades)))
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = lossSum.Div(decimal.NewFromInt(int64(stats.LosingTrades)))
	}

	// Zero losing P&L would make the ratio infinite; report 0 instead.
	lossMagnitude := lossSum.Abs()
	if lossMagnitude.IsPositive() {
		stats.ProfitFactor = winSum.Div(lossMagnitude).InexactFloat64()
	}

	if stats.LongTrades > 0 {
		stats.LongWinRate = float64(longWins) / float64(stats.LongTrades) * 100
	}
	if stats.ShortTrades > 0 {
		stats.ShortWinRate = float64(shortWins) / float64(stats.ShortTrades) * 100
	}

	return stats
}
