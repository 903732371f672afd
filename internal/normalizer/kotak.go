package normalizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"tradeaudit/internal/logger"
	"tradeaudit/internal/types"
)

// kotakRow mirrors one line of a Kotak Securities transaction statement.
// Numeric columns are read as strings so a single malformed cell degrades
// that row instead of aborting the whole decode.
type kotakRow struct {
	TradeDate       string `csv:"Trade Date"`
	TradeTime       string `csv:"Trade Time"`
	OrderTime       string `csv:"Order Time"`
	SecurityName    string `csv:"Security Name"`
	TransactionType string `csv:"Transaction Type"`
	Exchange        string `csv:"Exchange"`
	Quantity        string `csv:"Quantity"`
	MarketRate      string `csv:"Market Rate"`
	Brokerage       string `csv:"Brokerage"`
	STT             string `csv:"STT/CTT"`
	GST             string `csv:"GST"`
	Misc            string `csv:"Misc."`
	TotalCharges    string `csv:"Total Charges"`
}

// Kotak statements use DD/MM/YYYY dates with separate trade and order time
// columns, and carry the full charge breakdown per fill.
func parseKotak(ctx context.Context, data []byte) ([]types.ExecutionRow, error) {
	var raw []*kotakRow
	if err := gocsv.UnmarshalBytes(data, &raw); err != nil {
		return nil, fmt.Errorf("kotak statement decode: %w", err)
	}

	rows := make([]types.ExecutionRow, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		action := normalizeAction(r.TransactionType)
		qty := parseDecimal(r.Quantity)
		price := parseDecimal(r.MarketRate)
		if action == "" || !qty.IsPositive() || !price.IsPositive() {
			dropped++
			continue
		}

		charges := types.Charges{
			Brokerage: parseDecimal(r.Brokerage),
			STT:       parseDecimal(r.STT),
			GST:       parseDecimal(r.GST),
			Misc:      parseDecimal(r.Misc),
			Total:     parseDecimal(r.TotalCharges),
		}

		rows = append(rows, types.ExecutionRow{
			Symbol:    strings.TrimSpace(r.SecurityName),
			Action:    action,
			Quantity:  qty,
			Price:     price,
			TradeTime: parseKotakTimestamp(r.TradeDate, r.TradeTime),
			OrderTime: parseKotakTimestamp(r.TradeDate, r.OrderTime),
			Charges:   charges,
			Exchange:  strings.TrimSpace(r.Exchange),
			Broker:    "Kotak Securities",
		})
	}

	if dropped > 0 {
		logger.Warn(ctx, "Dropped unusable statement rows",
			"broker", "Kotak Securities", "dropped", dropped, "kept", len(rows))
	}
	return rows, nil
}

// parseKotakTimestamp combines the date and time columns; either being
// malformed yields the zero time, which downstream treats as missing.
func parseKotakTimestamp(date, clock string) time.Time {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}
	}
	ts, err := time.ParseInLocation("02/01/2006 15:04:05", date+" "+clock, ist)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
