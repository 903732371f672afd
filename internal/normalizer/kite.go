package normalizer

import (
	"context"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"tradeaudit/internal/logger"
	"tradeaudit/internal/trace"
	"tradeaudit/internal/types"
)

// KiteSource pulls the day's executed trades from the Kite Connect API as
// an alternative to a CSV upload. The trades endpoint reports no charge
// breakdown, so charges stay zero like Zerodha tradebook rows.
type KiteSource struct {
	kc       *kiteconnect.Client
	exchange string
}

func NewKiteSource(apiKey, accessToken, exchange string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteSource{kc: kc, exchange: exchange}
}

// Rows fetches the current session's tradebook and converts it to
// execution rows, filtered to the configured exchange when one is set.
func (s *KiteSource) Rows(ctx context.Context) ([]types.ExecutionRow, error) {
	ctx, span := trace.StartSpan(ctx, "normalizer.kite.Rows")
	defer span.End()

	trades, err := s.kc.GetTrades()
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch Kite tradebook", err)
		return nil, err
	}

	rows := make([]types.ExecutionRow, 0, len(trades))
	dropped := 0
	for _, t := range trades {
		if s.exchange != "" && t.Exchange != s.exchange {
			continue
		}
		action := normalizeAction(t.TransactionType)
		qty := decimal.NewFromFloat(t.Quantity)
		price := decimal.NewFromFloat(t.AveragePrice)
		if action == "" || !qty.IsPositive() || !price.IsPositive() {
			dropped++
			continue
		}

		rows = append(rows, types.ExecutionRow{
			Symbol:    t.TradingSymbol,
			Action:    action,
			Quantity:  qty,
			Price:     price,
			TradeTime: t.FillTimestamp.Time,
			OrderTime: t.ExchangeTimestamp.Time,
			Exchange:  t.Exchange,
			Broker:    "Zerodha",
		})
	}

	if dropped > 0 {
		logger.Warn(ctx, "Dropped unusable Kite trades", "dropped", dropped, "kept", len(rows))
	}
	logger.Info(ctx, "Fetched Kite tradebook", "trades", len(rows))
	return rows, nil
}
