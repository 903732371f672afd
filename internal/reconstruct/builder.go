package reconstruct

import (
	"time"

	"tradeaudit/internal/types"
)

// buildTrade assembles a round trip from an open entry leg and the closing
// execution. Quantity is inherited from the entry leg and never split.
func buildTrade(entry types.OpenLeg, exit types.ExecutionRow, direction string) types.Trade {
	entryRow := entry.Row

	grossPnL := exit.Price.Sub(entryRow.Price).Mul(entryRow.Quantity)
	if direction == types.DirectionShort {
		grossPnL = entryRow.Price.Sub(exit.Price).Mul(entryRow.Quantity)
	}

	charges := entryRow.Charges.Add(exit.Charges)
	netPnL := grossPnL.Sub(charges.Total)

	holding := holdingMinutes(entryRow.TradeTime, exit.TradeTime)

	classification := types.ClassIntraday
	if holding >= types.IntradayCutoffMinutes {
		classification = types.ClassDelivery
	}

	return types.Trade{
		Symbol:         entryRow.Symbol,
		Direction:      direction,
		Quantity:       entryRow.Quantity,
		EntryPrice:     entryRow.Price,
		ExitPrice:      exit.Price,
		EntryTime:      entryRow.TradeTime,
		ExitTime:       exit.TradeTime,
		HoldingMinutes: holding,
		GrossPnL:       grossPnL,
		Charges:        charges,
		NetPnL:         netPnL,
		Classification: classification,
		Exchange:       entryRow.Exchange,
		Broker:         entryRow.Broker,
	}
}

// holdingMinutes is the whole-minute span between entry and exit, truncated
// toward zero. A missing timestamp on either side degrades to zero rather
// than failing; a negative span is kept as a data-quality signal.
func holdingMinutes(entry, exit time.Time) int64 {
	if entry.IsZero() || exit.IsZero() {
		return 0
	}
	return int64(exit.Sub(entry) / time.Minute)
}
