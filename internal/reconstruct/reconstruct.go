package reconstruct

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"tradeaudit/internal/logger"
	"tradeaudit/internal/trace"
	"tradeaudit/internal/types"
)

// ErrNoRows is returned when the normalizer handed back zero valid rows.
// An otherwise valid ledger that yields no matched trades is not an error;
// it produces empty slices instead.
var ErrNoRows = errors.New("no valid execution rows to reconstruct")

// Reconstruct pairs buy/sell executions into round-trip trades, one FIFO
// queue per symbol. Symbols whose aggregate buy and sell quantities do not
// balance are excluded wholesale and reported as attention items; a single
// stray lot voids every match for that symbol in this upload.
func Reconstruct(ctx context.Context, rows []types.ExecutionRow) ([]types.Trade, []types.AttentionItem, error) {
	ctx, span := trace.StartSpan(ctx, "reconstruct.Reconstruct")
	defer span.End()

	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	bySymbol := map[string][]types.ExecutionRow{}
	for _, row := range rows {
		bySymbol[row.Symbol] = append(bySymbol[row.Symbol], row)
	}

	symbols := make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	trades := []types.Trade{}
	attention := []types.AttentionItem{}

	for _, sym := range symbols {
		group := bySymbol[sym]

		buyQty, sellQty := aggregateQuantities(group)
		if !buyQty.Equal(sellQty) {
			item := buildAttentionItem(sym, buyQty, sellQty, group)
			attention = append(attention, item)
			logger.Imbalance(ctx, sym,
				buyQty.InexactFloat64(), sellQty.InexactFloat64(),
				"rows", len(group))
			continue
		}

		trades = append(trades, matchSymbol(ctx, sym, group)...)
	}

	logger.Info(ctx, "Reconstruction finished",
		"rows", len(rows),
		"symbols", len(symbols),
		"trades", len(trades),
		"attention", len(attention),
	)
	return trades, attention, nil
}

func aggregateQuantities(group []types.ExecutionRow) (buyQty, sellQty decimal.Decimal) {
	for _, row := range group {
		switch row.Action {
		case types.ActionBuy:
			buyQty = buyQty.Add(row.Quantity)
		case types.ActionSell:
			sellQty = sellQty.Add(row.Quantity)
		}
	}
	return buyQty, sellQty
}

func buildAttentionItem(sym string, buyQty, sellQty decimal.Decimal, group []types.ExecutionRow) types.AttentionItem {
	diff := buyQty.Sub(sellQty)
	status := types.DirectionShort
	if diff.IsPositive() {
		status = types.DirectionLong
	}
	return types.AttentionItem{
		Symbol:         sym,
		BuyQty:         buyQty,
		SellQty:        sellQty,
		Difference:     diff,
		InferredStatus: status,
		Rows:           group,
	}
}

// matchSymbol runs the FIFO match over one balanced symbol's rows in trade
// time order. A buy closes the oldest open short leg or opens a long leg; a
// sell closes the oldest open long leg or opens a short leg. The queue never
// holds legs of mixed kind: an opposite arrival always drains the front
// before a same-kind leg could be pushed behind it.
func matchSymbol(ctx context.Context, sym string, group []types.ExecutionRow) []types.Trade {
	// Stable keeps the original ledger order for same-timestamp fills.
	// Rows with an unparseable timestamp carry the zero time and sort first.
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].TradeTime.Before(group[j].TradeTime)
	})

	var queue []types.OpenLeg
	var trades []types.Trade

	for _, row := range group {
		var closes string // kind of open leg this row would close
		if row.Action == types.ActionBuy {
			closes = types.DirectionShort
		} else {
			closes = types.DirectionLong
		}

		if len(queue) > 0 && queue[0].Kind == closes {
			entry := queue[0]
			queue = queue[1:]

			if !entry.Row.Quantity.Equal(row.Quantity) {
				// The trade keeps the entry leg's quantity; the exit row's
				// differing quantity is not reconciled.
				logger.Warn(ctx, "Entry/exit quantity mismatch in matched pair",
					"symbol", sym,
					"entry_qty", entry.Row.Quantity.String(),
					"exit_qty", row.Quantity.String(),
				)
			}

			trade := buildTrade(entry, row, entry.Kind)
			trades = append(trades, trade)
			logger.TradeMatched(ctx, sym, trade.Direction,
				trade.Quantity.InexactFloat64(), trade.NetPnL.InexactFloat64())
			continue
		}

		kind := types.DirectionLong
		if row.Action == types.ActionSell {
			kind = types.DirectionShort
		}
		queue = append(queue, types.OpenLeg{Kind: kind, Row: row})
	}

	if len(queue) > 0 {
		// Aggregate quantities balanced but individual lot sizes did not
		// line up one-to-one. The residue is not reported as attention.
		logger.Warn(ctx, "Residual open legs after balanced reconstruction",
			"symbol", sym, "open_legs", len(queue))
	}

	return trades
}
