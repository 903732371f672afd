package normalizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"tradeaudit/internal/logger"
	"tradeaudit/internal/types"
)

// zerodhaRow mirrors one line of a Zerodha tradebook export. Tradebooks
// carry no charge columns; charges stay zero and the contract-note totals
// are out of reach here.
type zerodhaRow struct {
	Symbol             string `csv:"symbol"`
	Exchange           string `csv:"exchange"`
	Segment            string `csv:"segment"`
	TradeType          string `csv:"trade_type"`
	Quantity           string `csv:"quantity"`
	Price              string `csv:"price"`
	TradeID            string `csv:"trade_id"`
	OrderID            string `csv:"order_id"`
	OrderExecutionTime string `csv:"order_execution_time"`
}

func parseZerodha(ctx context.Context, data []byte) ([]types.ExecutionRow, error) {
	var raw []*zerodhaRow
	if err := gocsv.UnmarshalBytes(data, &raw); err != nil {
		return nil, fmt.Errorf("zerodha tradebook decode: %w", err)
	}

	rows := make([]types.ExecutionRow, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		action := normalizeAction(r.TradeType)
		qty := parseDecimal(r.Quantity)
		price := parseDecimal(r.Price)
		if action == "" || !qty.IsPositive() || !price.IsPositive() {
			dropped++
			continue
		}

		ts := parseZerodhaTimestamp(r.OrderExecutionTime)
		rows = append(rows, types.ExecutionRow{
			Symbol:    strings.TrimSpace(r.Symbol),
			Action:    action,
			Quantity:  qty,
			Price:     price,
			TradeTime: ts,
			OrderTime: ts,
			Exchange:  strings.TrimSpace(r.Exchange),
			Broker:    "Zerodha",
		})
	}

	if dropped > 0 {
		logger.Warn(ctx, "Dropped unusable statement rows",
			"broker", "Zerodha", "dropped", dropped, "kept", len(rows))
	}
	return rows, nil
}

func parseZerodhaTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", raw, ist)
	if err != nil {
		return time.Time{}
	}
	return ts
}
